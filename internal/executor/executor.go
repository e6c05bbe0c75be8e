// Package executor drives one running instance through its round
// protocol, translating the source's async `ThresholdProtocolExecutor`
// (src/core/orchestration/src/instance_manager/protocol_executor.rs)
// into a single goroutine reading from a Go channel. It is the only
// place that calls a round.Protocol's DoRound/Update/Finalize methods,
// so every scheme adapter's invariants (duplicate-share rejection,
// ciphertext-first validation) are enforced in one, auditable loop.
package executor

import (
	"errors"
	"time"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/internal/round"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
)

// Outbox is where wrapped outgoing messages go; whoever holds the
// receiving end (cmd/thetaserver's outbox pump) hands each NetMessage
// to the network layer for broadcast. The dispatcher only routes
// inbound messages and never reads from it.
type Outbox chan<- network.NetMessage

// Run drives protocol through its lifecycle for the instance named by
// instanceID: emit StartedInstance, call DoRound once, then repeatedly
// receive from inbox and call Update, checking after every update
// whether the instance can finalize or must run another round. It
// returns the assembled result, or an error — errs.ErrNotFinished if
// inbox closes before the instance finalizes, or whatever error the
// protocol itself produced.
//
// Run emits one event per lifecycle transition onto sink; sink.Emit
// must not block for long, since Run does not select around it.
func Run[T round.ProtocolMessage](
	instanceID string,
	protocol round.Protocol[T],
	inbox <-chan T,
	outbox Outbox,
	sink events.Sink,
) ([]byte, error) {
	sink.Emit(events.Started(instanceID, time.Now()))

	if result, done, err := doRound(instanceID, protocol, outbox, sink); done {
		return result, err
	}

	for {
		msg, ok := <-inbox
		if !ok {
			err := errs.ErrNotFinished
			sink.Emit(events.Failed(instanceID, time.Now(), err))
			return nil, err
		}

		if err := protocol.Update(msg); err != nil {
			if errors.Is(err, errs.ErrInvalidShare) {
				// Spec §4.2/§7: an invalid share is discarded with a
				// warning; it never terminates the instance, so other
				// peers' shares can still arrive and reach threshold.
				continue
			}
			sink.Emit(events.Failed(instanceID, time.Now(), err))
			return nil, err
		}

		if protocol.IsReadyToFinalize() {
			result, err := protocol.Finalize()
			if err != nil {
				sink.Emit(events.Failed(instanceID, time.Now(), err))
				return nil, err
			}
			sink.Emit(events.Finished(instanceID, time.Now()))
			return result, nil
		}

		if protocol.IsReadyForNextRound() {
			if result, done, err := doRound(instanceID, protocol, outbox, sink); done {
				return result, err
			}
		}
	}
}

// doRound calls DoRound once and, if it produced a message, sends it
// on outbox wrapped for the network. The bool return reports whether
// the instance is already finished (DoRound failed): when true, the
// caller must return immediately with the accompanying result/error.
func doRound[T round.ProtocolMessage](
	instanceID string,
	protocol round.Protocol[T],
	outbox Outbox,
	sink events.Sink,
) ([]byte, bool, error) {
	msg, err := protocol.DoRound()
	if err != nil {
		sink.Emit(events.Failed(instanceID, time.Now(), err))
		return nil, true, err
	}
	if !msg.IsDefault() {
		outbox <- msg.Wrap(instanceID)
	}
	return nil, false, nil
}
