package dispatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptobern/thetacrypt-sub001/internal/network"
)

func TestRouteBacklogsUntilInstanceRegisters(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	msg := network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")}
	d.Route(msg)

	ch := d.InsertInstance("inst-1")
	select {
	case got := <-ch:
		require.Equal(t, msg.Payload, got.Payload)
	default:
		t.Fatal("expected backlogged message to be delivered on InsertInstance")
	}
}

func TestRouteDeliversDirectlyToRegisteredInstance(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	ch := d.InsertInstance("inst-1")
	msg := network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")}
	d.Route(msg)

	select {
	case got := <-ch:
		require.Equal(t, msg.Payload, got.Payload)
	case <-time.After(time.Second):
		t.Fatal("expected message to be delivered without backlogging")
	}
}

func TestRemoveInstanceClosesChannel(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	ch := d.InsertInstance("inst-1")
	d.RemoveInstance("inst-1")

	_, ok := <-ch
	require.False(t, ok)
}

func TestSweepEvictsBacklogAfterTwoSweeps(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	d.Route(network.NetMessage{InstanceID: "inst-1", Payload: []byte("round1")})

	d.sweep() // first sweep only marks the entry checked
	d.mu.Lock()
	_, stillThere := d.backlog["inst-1"]
	d.mu.Unlock()
	require.True(t, stillThere, "entry should survive the first sweep")

	d.sweep() // second sweep evicts it
	d.mu.Lock()
	_, evicted := d.backlog["inst-1"]
	d.mu.Unlock()
	require.False(t, evicted, "entry should be evicted after a second sweep")
}

func TestInsertInstanceReplacesExistingChannel(t *testing.T) {
	d := New(time.Hour)
	defer d.Stop()

	first := d.InsertInstance("inst-1")
	second := d.InsertInstance("inst-1")
	require.NotEqual(t, first, second)
}
