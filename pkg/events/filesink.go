package events

import (
	"fmt"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileSink appends each event as a CBOR record to a file, used when
// the config names an event_file instead of (or in addition to) the
// default log sink. CBOR keeps the on-disk encoding compact and
// self-describing without pulling in a schema.
type FileSink struct {
	mu  sync.Mutex
	enc *cbor.Encoder
	f   *os.File
}

var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	mode, err := opts.EncMode()
	if err != nil {
		panic(err)
	}
	return mode
}()

// NewFileSink opens path for append, creating it if necessary.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("events: opening %s: %w", path, err)
	}
	return &FileSink{enc: encMode.NewEncoder(f), f: f}, nil
}

func (s *FileSink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Best-effort: a write failure here must not take down the
	// instance that produced the event.
	_ = s.enc.Encode(e)
}

// Flush syncs and closes the underlying file. Call it once, during
// shutdown, after the last Emit has returned.
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.f.Sync(); err != nil {
		return err
	}
	return s.f.Close()
}

// TeeSink fans every event out to two sinks, so a file sink can run
// alongside the default log sink instead of replacing it.
type TeeSink struct {
	A, B Sink
}

func (t TeeSink) Emit(e Event) {
	t.A.Emit(e)
	t.B.Emit(e)
}

func (t TeeSink) Flush() error {
	var errA, errB error
	if f, ok := t.A.(Flusher); ok {
		errA = f.Flush()
	}
	if f, ok := t.B.(Flusher); ok {
		errB = f.Flush()
	}
	if errA != nil {
		return errA
	}
	return errB
}
