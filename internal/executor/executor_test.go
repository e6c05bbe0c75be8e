package executor_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/executor"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
)

type fakeMessage struct {
	value   string
	isEmpty bool
}

func (m fakeMessage) IsDefault() bool { return m.isEmpty }

func (m fakeMessage) Wrap(instanceID string) network.NetMessage {
	return network.NetMessage{InstanceID: instanceID, Payload: []byte(m.value)}
}

// fakeProtocol needs k of n shares before it can finalize, modeling
// every single-round threshold scheme's shape without any real crypto.
type fakeProtocol struct {
	k, n        int
	shares      map[string]bool
	doRounds    int
	failDo      bool
	failCombine bool
}

func (p *fakeProtocol) DoRound() (fakeMessage, error) {
	p.doRounds++
	if p.failDo {
		return fakeMessage{}, fmt.Errorf("do round failed")
	}
	return fakeMessage{value: "share"}, nil
}

func (p *fakeProtocol) Update(msg fakeMessage) error {
	if msg.value == "invalid" {
		return fmt.Errorf("%w: forged share", errs.ErrInvalidShare)
	}
	if p.shares[msg.value] {
		return fmt.Errorf("duplicate share %s", msg.value)
	}
	p.shares[msg.value] = true
	return nil
}

func (p *fakeProtocol) IsReadyForNextRound() bool { return false }

func (p *fakeProtocol) IsReadyToFinalize() bool { return len(p.shares) >= p.k }

func (p *fakeProtocol) Finalize() ([]byte, error) {
	if p.failCombine {
		return nil, fmt.Errorf("combine failed")
	}
	return []byte("result"), nil
}

func newFakeProtocol(k, n int) *fakeProtocol {
	return &fakeProtocol{k: k, n: n, shares: make(map[string]bool)}
}

type recordingSink struct {
	events []events.Event
}

func (s *recordingSink) Emit(e events.Event) { s.events = append(s.events, e) }

func TestExecutorFinalizesOnceThresholdReached(t *testing.T) {
	protocol := newFakeProtocol(2, 3)
	inbox := make(chan fakeMessage, 4)
	outbox := make(chan network.NetMessage, 4)
	sink := &recordingSink{}

	inbox <- fakeMessage{value: "share-1"}
	inbox <- fakeMessage{value: "share-2"}

	result, err := executor.Run[fakeMessage]("inst-1", protocol, inbox, outbox, sink)
	require.NoError(t, err)
	require.Equal(t, []byte("result"), result)
	require.Equal(t, events.StartedInstance, sink.events[0].Kind)
	require.Equal(t, events.FinishedInstance, sink.events[len(sink.events)-1].Kind)

	select {
	case msg := <-outbox:
		require.Equal(t, "share", string(msg.Payload))
	case <-time.After(time.Second):
		t.Fatal("expected DoRound's message to be wrapped onto the outbox")
	}
}

func TestExecutorReturnsErrNotFinishedWhenInboxCloses(t *testing.T) {
	protocol := newFakeProtocol(2, 3)
	inbox := make(chan fakeMessage)
	outbox := make(chan network.NetMessage, 1)
	sink := &recordingSink{}

	close(inbox)

	_, err := executor.Run[fakeMessage]("inst-1", protocol, inbox, outbox, sink)
	require.Error(t, err)
	require.Equal(t, events.FailedInstance, sink.events[len(sink.events)-1].Kind)
}

func TestExecutorFailsOnDuplicateShare(t *testing.T) {
	protocol := newFakeProtocol(2, 3)
	inbox := make(chan fakeMessage, 2)
	outbox := make(chan network.NetMessage, 1)
	sink := &recordingSink{}

	inbox <- fakeMessage{value: "share-1"}
	inbox <- fakeMessage{value: "share-1"}

	_, err := executor.Run[fakeMessage]("inst-1", protocol, inbox, outbox, sink)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate share")
}

func TestExecutorDiscardsInvalidShareWithoutAborting(t *testing.T) {
	protocol := newFakeProtocol(2, 3)
	inbox := make(chan fakeMessage, 3)
	outbox := make(chan network.NetMessage, 1)
	sink := &recordingSink{}

	inbox <- fakeMessage{value: "invalid"}
	inbox <- fakeMessage{value: "share-1"}
	inbox <- fakeMessage{value: "share-2"}

	result, err := executor.Run[fakeMessage]("inst-1", protocol, inbox, outbox, sink)
	require.NoError(t, err)
	require.Equal(t, []byte("result"), result)
	for _, e := range sink.events {
		require.NotEqual(t, events.FailedInstance, e.Kind)
	}
}

func TestExecutorPropagatesDoRoundFailure(t *testing.T) {
	protocol := newFakeProtocol(2, 3)
	protocol.failDo = true
	inbox := make(chan fakeMessage, 1)
	outbox := make(chan network.NetMessage, 1)
	sink := &recordingSink{}

	_, err := executor.Run[fakeMessage]("inst-1", protocol, inbox, outbox, sink)
	require.Error(t, err)
	require.Equal(t, 2, len(sink.events)) // Started, then Failed
}
