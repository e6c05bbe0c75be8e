// Package wire implements the length-prefixed, big-endian byte
// encoding that every ciphertext and share in Thetacrypt uses on the
// network, chosen in spec.md's Open Questions over the source's
// competing ASN.1-ish encodings so that all peers agree byte-for-byte.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer accumulates length-prefixed fields into a single buffer.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Byte(b byte) *Writer {
	w.buf = append(w.buf, b)
	return w
}

func (w *Writer) Uint16(v uint16) *Writer {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

func (w *Writer) Uint32(v uint32) *Writer {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return w
}

// Bytes writes a uint32 length prefix followed by data.
func (w *Writer) Bytes(data []byte) *Writer {
	w.Uint32(uint32(len(data)))
	w.buf = append(w.buf, data...)
	return w
}

// Raw appends data with no length prefix, for fixed-width fields like
// group elements whose length is implied by the group.
func (w *Writer) Raw(data []byte) *Writer {
	w.buf = append(w.buf, data...)
	return w
}

func (w *Writer) Finish() []byte { return w.buf }

// Reader consumes fields written by Writer in the same order.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(data []byte) *Reader { return &Reader{buf: data} }

func (r *Reader) Byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) Uint16() (uint16, error) {
	if r.pos+2 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// Bytes reads a uint32-length-prefixed field.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.buf) {
		return nil, fmt.Errorf("wire: length-prefixed field of %d bytes overruns buffer", n)
	}
	out := r.buf[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return out, nil
}

// Raw reads exactly n bytes with no length prefix.
func (r *Reader) Raw(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// Remaining returns every byte not yet consumed.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

// Done reports whether every byte has been consumed.
func (r *Reader) Done() bool { return r.pos == len(r.buf) }
