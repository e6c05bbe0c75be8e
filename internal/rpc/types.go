// Package rpc is the glue layer spec.md §6 calls the RPC surface: one
// method per verb, translating a caller's request into instance-manager
// and keychain commands. It is deliberately not a transport — no
// listener, no wire codec for requests themselves — matching the
// explicit non-goal that the RPC transport itself is an external
// collaborator. A cmd/thetaserver binary is expected to mount these
// methods behind whatever transport it chooses.
package rpc

import (
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
)

// DecryptRequest carries a serialized ciphertext and an optional
// explicit key selection; without KeyID the server resolves the
// default key for the ciphertext's own (scheme, group).
type DecryptRequest struct {
	Ciphertext []byte
	KeyID      string // empty means "use the default key"
}

type DecryptResponse struct {
	InstanceID string
}

// SignRequest carries the message to sign, an optional label (used by
// Bls04/Sh00's partial-signature binding), and the scheme/group to
// sign under.
type SignRequest struct {
	Message []byte
	Label   []byte
	Scheme  scheme.Scheme
	Group   group.Group
	KeyID   string
}

type SignResponse struct {
	InstanceID string
}

// CoinRequest names the coin to flip; the same (name, scheme, group)
// always assigns the same instance id, so repeated flips of the same
// coin name converge rather than racing.
type CoinRequest struct {
	Name   []byte
	Scheme scheme.Scheme
	Group  group.Group
	KeyID  string
}

type CoinResponse struct {
	InstanceID string
}

type StatusRequest struct {
	InstanceID string
}

// StatusResponse mirrors spec.md §6's GetStatus output shape; Result
// is nil until IsFinished is true, and ErrorMessage is set only on
// failure.
type StatusResponse struct {
	Scheme       scheme.Scheme
	Group        group.Group
	IsFinished   bool
	Result       []byte
	ErrorMessage string
}

type PublicKeyEntry struct {
	ID       string
	Scheme   scheme.Scheme
	Group    group.Group
	KeyBytes []byte
}

type GetPublicKeysResponse struct {
	Keys []PublicKeyEntry
}
