package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	data := wire.NewWriter().
		Byte(7).
		Uint16(1234).
		Uint32(987654321).
		Bytes([]byte("label")).
		Raw([]byte{0xde, 0xad, 0xbe, 0xef}).
		Finish()

	r := wire.NewReader(data)

	b, err := r.Byte()
	require.NoError(t, err)
	require.Equal(t, byte(7), b)

	u16, err := r.Uint16()
	require.NoError(t, err)
	require.Equal(t, uint16(1234), u16)

	u32, err := r.Uint32()
	require.NoError(t, err)
	require.Equal(t, uint32(987654321), u32)

	label, err := r.Bytes()
	require.NoError(t, err)
	require.Equal(t, "label", string(label))

	raw, err := r.Raw(4)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, raw)

	require.True(t, r.Done())
}

func TestReaderReportsUnexpectedEOF(t *testing.T) {
	r := wire.NewReader([]byte{0x01})
	_, err := r.Uint32()
	require.Error(t, err)
}

func TestBytesFieldOverrunIsAnError(t *testing.T) {
	data := wire.NewWriter().Uint32(100).Finish() // claims 100 bytes follow, none do
	r := wire.NewReader(data)
	_, err := r.Bytes()
	require.Error(t, err)
}

func TestRemainingAfterPartialRead(t *testing.T) {
	data := wire.NewWriter().Byte(1).Byte(2).Byte(3).Finish()
	r := wire.NewReader(data)
	_, _ = r.Byte()
	require.Equal(t, []byte{2, 3}, r.Remaining())
	require.False(t, r.Done())
}
