// Package scheme defines the closed set of threshold schemes, the
// Operation each maps to, and the compatibility rules the instance
// manager and keychain enforce before ever touching key material.
package scheme

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
)

// Scheme is a tagged identifier for one of the six threshold
// primitives this system implements.
type Scheme uint8

const (
	Invalid Scheme = iota
	Bz03
	Sg02
	Bls04
	Cks05
	Frost
	Sh00
)

func (s Scheme) String() string {
	switch s {
	case Bz03:
		return "Bz03"
	case Sg02:
		return "Sg02"
	case Bls04:
		return "Bls04"
	case Cks05:
		return "Cks05"
	case Frost:
		return "Frost"
	case Sh00:
		return "Sh00"
	default:
		return "Invalid"
	}
}

// Code is the scheme's wire byte.
func (s Scheme) Code() byte { return byte(s) }

// FromCode resolves a wire byte back to a Scheme.
func FromCode(b byte) (Scheme, error) {
	s := Scheme(b)
	switch s {
	case Bz03, Sg02, Bls04, Cks05, Frost, Sh00:
		return s, nil
	default:
		return Invalid, fmt.Errorf("scheme: unknown scheme code %d", b)
	}
}

// Operation is the cryptographic operation a Scheme performs.
type Operation uint8

const (
	OperationInvalid Operation = iota
	OperationEncryption
	OperationSignature
	OperationCoin
)

func (o Operation) String() string {
	switch o {
	case OperationEncryption:
		return "Encryption"
	case OperationSignature:
		return "Signature"
	case OperationCoin:
		return "Coin"
	default:
		return "Invalid"
	}
}

// Operation returns the operation s performs.
func (s Scheme) Operation() Operation {
	switch s {
	case Bz03, Sg02:
		return OperationEncryption
	case Bls04, Frost, Sh00:
		return OperationSignature
	case Cks05:
		return OperationCoin
	default:
		return OperationInvalid
	}
}

// Interactive reports whether s requires more than one round of
// inter-participant messages. Only Frost is interactive.
func (s Scheme) Interactive() bool { return s == Frost }

// permittedGroups is the closed compatibility table between schemes
// and groups, enforced by Validate.
var permittedGroups = map[Scheme][]group.Group{
	Bz03:  {group.Bls12381, group.Bn254},
	Sg02:  {group.Ed25519, group.Bls12381, group.Bn254},
	Bls04: {group.Bls12381, group.Bn254},
	Cks05: {group.Ed25519, group.Bls12381, group.Bn254},
	Frost: {group.Ed25519},
	Sh00:  {group.Rsa512, group.Rsa1024, group.Rsa2048, group.Rsa4096},
}

// SupportsGroup reports whether s may be used with g.
func (s Scheme) SupportsGroup(g group.Group) bool {
	for _, candidate := range permittedGroups[s] {
		if candidate == g {
			return true
		}
	}
	return false
}

// Groups lists every group s may be used with.
func (s Scheme) Groups() []group.Group {
	out := make([]group.Group, len(permittedGroups[s]))
	copy(out, permittedGroups[s])
	return out
}

// Validate checks a (scheme, group, k, n) tuple against the spec's
// keygen preconditions, returning the specific taxonomy error named
// in spec.md §7.
func (s Scheme) Validate(g group.Group, k, n int) error {
	if s == Invalid {
		return fmt.Errorf("%w: unknown scheme", errs.ErrInvalidParams)
	}
	if n < 1 || k < 1 || k > n {
		return fmt.Errorf("%w: threshold %d of %d parties", errs.ErrInvalidParams, k, n)
	}
	isRSAScheme := s == Sh00
	if isRSAScheme && !g.IsRSA() {
		return fmt.Errorf("%w: %s requires an RSA group, got %s", errs.ErrWrongGroup, s, g)
	}
	if !isRSAScheme && g.IsRSA() {
		return fmt.Errorf("%w: %s is not an RSA scheme", errs.ErrWrongGroup, s)
	}
	if !s.SupportsGroup(g) {
		return fmt.Errorf("%w: %s does not support group %s", errs.ErrIncompatibleGroup, s, g)
	}
	if g.IsPairing() == false && (s == Bz03 || s == Bls04) {
		return fmt.Errorf("%w: %s requires a pairing-capable group", errs.ErrCurveNoPairing, s)
	}
	return nil
}
