// Package instance implements the instance manager: the map from a
// deterministic instance id to the running protocol behind it, the
// id assignment rule from the source's instance_manager.rs, and the
// Running/Finished/Failed lifecycle a status poll observes.
package instance

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
)

// Status is the lifecycle state of one instance.
type Status int

const (
	Running Status = iota
	Finished
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// AssignID derives the deterministic instance id for a request from
// its content-addressing seed: hex(sha256(seed)[0:8]). The caller
// supplies the seed appropriate to the request — a ciphertext's
// content key for decryption, the message for signing, the coin's
// name for a coin flip — matching assign_instance_id in the source.
func AssignID(seed []byte) string {
	sum := sha256.Sum256(seed)
	return hex.EncodeToString(sum[:8])
}

// Instance tracks one running (or completed) protocol execution.
// Inbound routing is the dispatcher's job (internal/dispatcher hands
// the protocol goroutine its own NetMessage channel directly); the
// Instance itself only tracks the lifecycle a status poll observes.
type Instance struct {
	ID     string
	Scheme scheme.Scheme
	Group  group.Group

	mu        sync.Mutex
	status    Status
	result    []byte
	resultErr error
}

func newInstance(id string, s scheme.Scheme, g group.Group) *Instance {
	return &Instance{ID: id, Scheme: s, Group: g, status: Running}
}

// SetResult records the terminal outcome of the instance. Called
// exactly once, by the goroutine driving the instance's executor.Run
// loop.
func (inst *Instance) SetResult(result []byte, err error) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.result = result
	inst.resultErr = err
	if err != nil {
		inst.status = Failed
	} else {
		inst.status = Finished
	}
}

// SetStatus overrides the instance's status directly without touching
// its result; Manager.UpdateInstanceStatus calls it.
func (inst *Instance) SetStatus(s Status) {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	inst.status = s
}

// InstanceStatus is a point-in-time snapshot of an instance, returned by
// Manager.GetInstanceStatus.
type InstanceStatus struct {
	Scheme   scheme.Scheme
	Group    group.Group
	Status   Status
	Result   []byte
	ResultErr error
}

func (inst *Instance) snapshot() InstanceStatus {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return InstanceStatus{Scheme: inst.Scheme, Group: inst.Group, Status: inst.status, Result: inst.result, ResultErr: inst.resultErr}
}
