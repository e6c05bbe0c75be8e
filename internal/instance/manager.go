package instance

import (
	"fmt"
	"sync"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/executor"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/internal/round"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
)

// Manager owns the instance id -> Instance map for one party: the
// single place CreateInstance, GetInstanceStatus, StoreResult and
// UpdateInstanceStatus land, matching InstanceManagerCommand in the
// source. Routing inbound messages to a running instance is the
// dispatcher's job (internal/dispatcher); Manager only tracks
// lifecycle and results.
type Manager struct {
	mu        sync.Mutex
	instances map[string]*Instance
}

func NewManager() *Manager {
	return &Manager{instances: make(map[string]*Instance)}
}

// reserve registers id before the protocol goroutine starts, failing
// with ErrAlreadyExists if a request with the same content already
// has a live instance — the same de-duplication the source's
// setup_instance performs by checking instances.contains_key.
func (m *Manager) reserve(id string, s scheme.Scheme, g group.Group) (*Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[id]; ok {
		return nil, fmt.Errorf("%w: instance %s", errs.ErrAlreadyExists, id)
	}
	inst := newInstance(id, s, g)
	m.instances[id] = inst
	return inst, nil
}

// GetInstanceStatus returns a snapshot of the named instance, or
// false if no such instance is known.
func (m *Manager) GetInstanceStatus(id string) (InstanceStatus, bool) {
	m.mu.Lock()
	inst, ok := m.instances[id]
	m.mu.Unlock()
	if !ok {
		return InstanceStatus{}, false
	}
	return inst.snapshot(), true
}

// StoreResult records a running instance's terminal outcome. Unlike
// the source's channel-actor StoreResult, which retries delivery over
// an mpsc channel that can be temporarily full, this is a direct
// method call under the manager's own mutex and cannot fail to be
// observed once Run returns — there is no cross-goroutine channel in
// the path to back up.
func (m *Manager) StoreResult(id string, result []byte, err error) {
	m.mu.Lock()
	inst, ok := m.instances[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	inst.SetResult(result, err)
}

// UpdateInstanceStatus overrides an instance's status directly,
// without touching its result.
func (m *Manager) UpdateInstanceStatus(id string, status Status) {
	m.mu.Lock()
	inst, ok := m.instances[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	inst.SetStatus(status)
}

// Remove evicts an instance from the map, so a later request with the
// same id can start a fresh instance. Nothing in this module calls it:
// rpc.Server.GetStatus leaves a finished instance in the map.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.instances, id)
}

// Start registers a new instance running protocol and drives it to
// completion in its own goroutine. netInbox is the per-instance
// channel the dispatcher's InsertInstance returned; Start bridges its
// raw NetMessage values into the executor's T-typed inbox via unwrap.
// outbox receives every message the protocol wants to send, already
// wrapped for the network; sink receives the instance's lifecycle
// events. Start returns ErrAlreadyExists if id is already running.
func Start[T round.ProtocolMessage](
	m *Manager,
	id string,
	s scheme.Scheme,
	g group.Group,
	protocol round.Protocol[T],
	unwrap round.Unwrapper[T],
	netInbox <-chan network.NetMessage,
	outbox executor.Outbox,
	sink events.Sink,
) error {
	if _, err := m.reserve(id, s, g); err != nil {
		return err
	}
	inbox := make(chan T, 32)
	done := make(chan struct{})
	go func() {
		defer close(inbox)
		for raw := range netInbox {
			typed, err := unwrap(raw)
			if err != nil {
				continue // malformed message from the network; drop and wait for a retransmit
			}
			select {
			case inbox <- typed:
			case <-done:
				return
			}
		}
	}()
	go func() {
		result, err := executor.Run(id, protocol, inbox, outbox, sink)
		close(done) // unblock the bridge goroutine above if it's waiting on a full inbox
		m.StoreResult(id, result, err)
	}()
	return nil
}
