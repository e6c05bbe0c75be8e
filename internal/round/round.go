// Package round defines the capability every scheme adapter in
// internal/protoadapters implements to be driven by the generic
// executor in internal/executor. It stands in for the source's
// `ThresholdRoundProtocol<T>` trait: Go's type parameters let the
// executor stay one piece of code for both the five single-round
// schemes and Frost's two-round signing.
package round

import "github.com/cryptobern/thetacrypt-sub001/internal/network"

// ProtocolMessage is the capability every scheme's wire message
// implements so the executor can route it without knowing the
// concrete scheme. Wrap/Unwrap translate between the scheme's own
// message shape and the network envelope every instance actually
// sends and receives.
type ProtocolMessage interface {
	// IsDefault reports whether this is the zero/empty message a
	// round emits when it has nothing to send (e.g. a scheme whose
	// single round only ever receives, never originates, traffic).
	IsDefault() bool
	// Wrap addresses this message for delivery under instanceID.
	Wrap(instanceID string) network.NetMessage
}

// Unwrapper decodes a NetMessage back into a scheme's concrete
// message type T. It is kept separate from ProtocolMessage because
// decoding has no natural receiver until a T value exists.
type Unwrapper[T ProtocolMessage] func(network.NetMessage) (T, error)

// Protocol is the round-by-round state machine a scheme adapter
// implements for one running instance. The executor calls these
// methods in the fixed order described on executor.Run; Protocol
// implementations hold all instance-local state (accumulated shares,
// round number, the scheme's static parameters) and must not be
// reused across instances.
type Protocol[T ProtocolMessage] interface {
	// DoRound emits the current round's outgoing message. It may
	// return a default/empty T when the round has nothing to emit
	// (e.g. after an update that didn't advance the round).
	DoRound() (T, error)
	// Update consumes one inbound message, validating and recording
	// it. A share id already recorded is dropped without an error. A
	// share that fails verification is reported with an error wrapping
	// errs.ErrInvalidShare, which the executor discards while keeping
	// the instance running; any other error terminates the instance.
	Update(msg T) error
	// IsReadyForNextRound reports whether enough state has
	// accumulated to call DoRound again (meaningful only for
	// multi-round protocols like Frost; single-round schemes return
	// false once their one round has run).
	IsReadyForNextRound() bool
	// IsReadyToFinalize reports whether enough shares/messages have
	// accumulated to call Finalize and complete the instance.
	IsReadyToFinalize() bool
	// Finalize assembles the final result (a decrypted plaintext, an
	// assembled signature, or a coin outcome byte) and ends the
	// instance successfully.
	Finalize() ([]byte, error)
}
