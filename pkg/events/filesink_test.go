package events_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"

	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
)

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.cbor")
	sink, err := events.NewFileSink(path)
	require.NoError(t, err)

	sink.Emit(events.Started("inst-1", time.Now()))
	sink.Emit(events.Finished("inst-1", time.Now()))
	require.NoError(t, sink.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	dec := cbor.NewDecoder(bytes.NewReader(data))
	var first, second events.Event
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	require.Equal(t, events.StartedInstance, first.Kind)
	require.Equal(t, events.FinishedInstance, second.Kind)
}

func TestTeeSinkFansOutAndFlushesBoth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.cbor")
	file, err := events.NewFileSink(path)
	require.NoError(t, err)

	var logged []string
	logSink := events.LogSink{Log: func(kind, instanceID, errMsg string) {
		logged = append(logged, kind)
	}}

	tee := events.TeeSink{A: file, B: logSink}
	tee.Emit(events.Started("inst-1", time.Now()))
	require.NoError(t, tee.Flush())

	require.Equal(t, []string{"StartedInstance"}, logged)
}
