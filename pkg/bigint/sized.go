// Package bigint implements the two big-integer layers Thetacrypt's
// schemes are built on: Sized, a fixed-width modular scalar tied to a
// DL group's order, and Unbounded, an arbitrary-precision integer used
// by the RSA schemes.
package bigint

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"

	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
)

// Sized is a fixed-width modular scalar carrying the group it belongs
// to. All arithmetic is performed modulo the group's scalar order via
// saferith, so results never leak extra bit length through timing.
type Sized struct {
	g   group.Group
	nat *saferith.Nat
	mod *saferith.Modulus
}

func modulusFor(g group.Group) (*saferith.Modulus, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	return saferith.ModulusFromBytes(order.Bytes()), nil
}

// NewSized builds a Sized scalar of value x mod the order of g.
func NewSized(g group.Group, x *big.Int) (*Sized, error) {
	mod, err := modulusFor(g)
	if err != nil {
		return nil, err
	}
	nat := new(saferith.Nat).SetBig(x, mod.BitLen())
	nat.Mod(nat, mod)
	return &Sized{g: g, nat: nat, mod: mod}, nil
}

// NewSizedRand samples a uniformly random scalar in [0, q) for the
// order q of g using the given RNG.
func NewSizedRand(g group.Group, rng io.Reader) (*Sized, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, order.BitLen()/8+8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, fmt.Errorf("bigint: sampling random scalar: %w", err)
	}
	x := new(big.Int).SetBytes(buf)
	x.Mod(x, order)
	return NewSized(g, x)
}

// Group returns the DL group this scalar's modulus belongs to.
func (s *Sized) Group() group.Group { return s.g }

// Big returns the scalar's value as a *big.Int.
func (s *Sized) Big() *big.Int { return s.nat.Big() }

// MulMod returns s * other mod q.
func (s *Sized) MulMod(other *Sized) *Sized {
	s.mustSameGroup(other)
	out := new(saferith.Nat)
	out.ModMul(s.nat, other.nat, s.mod)
	return &Sized{g: s.g, nat: out, mod: s.mod}
}

// AddMod returns s + other mod q.
func (s *Sized) AddMod(other *Sized) *Sized {
	s.mustSameGroup(other)
	out := new(saferith.Nat)
	out.ModAdd(s.nat, other.nat, s.mod)
	return &Sized{g: s.g, nat: out, mod: s.mod}
}

// SubMod returns s - other mod q, using additive inverse so that a
// negative difference wraps around to q - |diff| as the Lagrange
// interpolation rule in the spec requires.
func (s *Sized) SubMod(other *Sized) *Sized {
	s.mustSameGroup(other)
	neg := new(saferith.Nat)
	neg.ModNeg(other.nat, s.mod)
	out := new(saferith.Nat)
	out.ModAdd(s.nat, neg, s.mod)
	return &Sized{g: s.g, nat: out, mod: s.mod}
}

// PowMod returns s^e mod q.
func (s *Sized) PowMod(e *Sized) *Sized {
	s.mustSameGroup(e)
	out := new(saferith.Nat)
	out.Exp(s.nat, e.nat, s.mod)
	return &Sized{g: s.g, nat: out, mod: s.mod}
}

// InvMod returns the modular multiplicative inverse of s mod q.
func (s *Sized) InvMod() (*Sized, error) {
	out, invertible := new(saferith.Nat).ModInverse(s.nat, s.mod)
	if invertible != 1 {
		return nil, fmt.Errorf("bigint: %s is not invertible mod the group order", s.nat.Big().String())
	}
	return &Sized{g: s.g, nat: out, mod: s.mod}, nil
}

// Equal reports whether two Sized scalars of the same group are equal.
func (s *Sized) Equal(other *Sized) bool {
	if s.g != other.g {
		return false
	}
	return s.nat.Big().Cmp(other.nat.Big()) == 0
}

// IsZero reports whether the scalar is zero.
func (s *Sized) IsZero() bool { return s.nat.Big().Sign() == 0 }

// Bytes serializes the scalar padded to the group's scalar byte width,
// big-endian, matching the Sized BigInt serialization contract.
func (s *Sized) Bytes() []byte {
	width, err := s.g.ScalarByteLen()
	if err != nil {
		width = (s.nat.Big().BitLen() + 7) / 8
	}
	b := s.nat.Big().Bytes()
	if len(b) >= width {
		return b
	}
	padded := make([]byte, width)
	copy(padded[width-len(b):], b)
	return padded
}

// SizedFromBytes decodes a Sized scalar of group g from its padded
// big-endian encoding.
func SizedFromBytes(g group.Group, data []byte) (*Sized, error) {
	return NewSized(g, new(big.Int).SetBytes(data))
}

func (s *Sized) mustSameGroup(other *Sized) {
	if s.g != other.g {
		panic(fmt.Sprintf("bigint: mismatched groups %s and %s", s.g, other.g))
	}
}

// OsRandom is the production randomness source: crypto/rand.Reader.
var OsRandom io.Reader = rand.Reader
