// Package dispatcher multiplexes one inbound NetMessage stream into
// per-instance channels, the Go counterpart of the source's
// message_dispatcher.rs actor: messages for an instance id that
// hasn't started yet accumulate in a backlog, tagged with a checked
// flag so two full BACKLOG_CHECK_INTERVAL sweeps evict them even if
// the instance never shows up to claim them.
package dispatcher

import (
	"sync"
	"time"

	"github.com/cryptobern/thetacrypt-sub001/internal/network"
)

// DefaultBacklogCheckInterval matches the source's 600s sweep.
const DefaultBacklogCheckInterval = 600 * time.Second

const channelBuffer = 64

type backlogEntry struct {
	msg     network.NetMessage
	checked bool
}

// Dispatcher owns the instance-id -> channel map and the backlog of
// messages waiting for an instance that hasn't registered yet.
type Dispatcher struct {
	mu       sync.Mutex
	channels map[string]chan network.NetMessage
	backlog  map[string][]backlogEntry
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// New starts a dispatcher whose backlog sweep runs every interval.
func New(interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = DefaultBacklogCheckInterval
	}
	d := &Dispatcher{
		channels: make(map[string]chan network.NetMessage),
		backlog:  make(map[string][]backlogEntry),
		interval: interval,
		stop:     make(chan struct{}),
	}
	go d.evictLoop()
	return d
}

// InsertInstance creates the inbound channel for id, draining any
// backlogged messages into it in arrival order before returning it.
// Calling InsertInstance twice for the same id replaces the channel,
// matching the instance manager's guarantee that a given id is only
// ever live once at a time.
func (d *Dispatcher) InsertInstance(id string) <-chan network.NetMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	ch := make(chan network.NetMessage, channelBuffer)
	for _, entry := range d.backlog[id] {
		ch <- entry.msg
	}
	delete(d.backlog, id)
	d.channels[id] = ch
	return ch
}

// RemoveInstance drops id's channel. The channel is closed so a
// goroutine ranging over it terminates.
func (d *Dispatcher) RemoveInstance(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.channels[id]; ok {
		close(ch)
		delete(d.channels, id)
	}
}

// Route delivers msg to its instance's channel if one is registered,
// otherwise appends it to that instance's backlog for later delivery.
func (d *Dispatcher) Route(msg network.NetMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ch, ok := d.channels[msg.InstanceID]; ok {
		select {
		case ch <- msg:
		default:
			// Full channel means the instance isn't draining fast
			// enough; dropping here matches Gossip's at-most-once
			// semantics rather than blocking the whole dispatcher.
		}
		return
	}
	d.backlog[msg.InstanceID] = append(d.backlog[msg.InstanceID], backlogEntry{msg: msg})
}

// evictLoop runs the two-sweep backlog eviction: entries already
// marked checked are dropped, the rest are marked checked for the
// next sweep.
func (d *Dispatcher) evictLoop() {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.sweep()
		case <-d.stop:
			return
		}
	}
}

func (d *Dispatcher) sweep() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, entries := range d.backlog {
		kept := entries[:0]
		for _, e := range entries {
			if e.checked {
				continue
			}
			kept = append(kept, backlogEntry{msg: e.msg, checked: true})
		}
		if len(kept) == 0 {
			delete(d.backlog, id)
		} else {
			d.backlog[id] = kept
		}
	}
}

// Stop halts the backlog sweep goroutine.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}
