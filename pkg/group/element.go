package group

import (
	"fmt"
	"io"
)

// Scalar is the exponent type used by Element.Pow and NewPowBig.
// It is satisfied by *bigint.Sized (see pkg/bigint), kept as a minimal
// interface here to avoid an import cycle between pkg/group and
// pkg/bigint.
type Scalar interface {
	Group() Group
	Bytes() []byte
}

// Element is the sum type over every concrete group-element
// representation this package knows how to produce. Every operation
// checks that its operands share a group tag and fails loudly
// (returns an error, or panics for operator-overload-style methods
// that have no error return in the spec's contract) on mismatch,
// since mixing groups is a programming error.
type Element interface {
	Group() Group
	// Mul is the group operation (multiplicative notation): for
	// additive curve groups this is point addition.
	Mul(other Element) Element
	// Div is Mul by the inverse of other.
	Div(other Element) Element
	// Pow raises the element to a scalar exponent (repeated Mul).
	Pow(x Scalar) Element
	// IsIdentity reports whether this is the group's identity element.
	IsIdentity() bool
	Equal(other Element) bool
	// ToBytes is the group's native compressed encoding.
	ToBytes() []byte
	// Index distinguishes G1 (0) from G2 (1) for pairing groups;
	// always 0 for non-pairing groups.
	Index() byte
}

// PairingElement is implemented by elements of a pairing-friendly
// group, adding the pairing and decisional Diffie-Hellman operations.
type PairingElement interface {
	Element
	// Pair computes e(self, other) as a GT element. self must be a G1
	// element and other a G2 element (or vice versa).
	Pair(other PairingElement) (GTElement, error)
}

// GTElement is an element of a pairing target group GT.
type GTElement interface {
	Equal(other GTElement) bool
	ToBytes() []byte
}

// New returns the identity element of g.
func New(g Group) (Element, error) {
	switch {
	case g == Bls12381:
		return newBLS12381Identity(0), nil
	case g == Bn254:
		return newBN254Identity(0), nil
	case g == Ed25519:
		return newEdwardsIdentity(), nil
	default:
		return nil, fmt.Errorf("group: %s has no element representation", g)
	}
}

// NewGenerator returns the canonical generator of g. index selects G1
// (0) or G2 (1) for pairing groups, where any other index is an error;
// ignored otherwise.
func NewGenerator(g Group, index byte) (Element, error) {
	switch {
	case g == Bls12381:
		return newBLS12381Generator(index)
	case g == Bn254:
		return newBN254Generator(index)
	case g == Ed25519:
		return newEdwardsGenerator(), nil
	default:
		return nil, fmt.Errorf("group: %s has no generator", g)
	}
}

// NewRandom samples a uniformly random element of g.
func NewRandom(g Group, rng io.Reader) (Element, error) {
	switch {
	case g == Bls12381:
		return randomBLS12381(rng, 0)
	case g == Bn254:
		return randomBN254(rng, 0)
	case g == Ed25519:
		return randomEdwards(rng)
	default:
		return nil, fmt.Errorf("group: %s has no element representation", g)
	}
}

// NewPowBig computes gen^x for scalar x, where gen is
// NewGenerator(g, index).
func NewPowBig(g Group, index byte, x Scalar) (Element, error) {
	gen, err := NewGenerator(g, index)
	if err != nil {
		return nil, err
	}
	return gen.Pow(x), nil
}

// FromBytes decodes an element of group g (G-index index for pairing
// groups) from its compressed native encoding.
func FromBytes(g Group, data []byte, index byte) (Element, error) {
	switch {
	case g == Bls12381:
		return bls12381FromBytes(data, index)
	case g == Bn254:
		return bn254FromBytes(data, index)
	case g == Ed25519:
		return edwardsFromBytes(data)
	default:
		return nil, fmt.Errorf("group: %s has no element representation", g)
	}
}

// HashToElement maps msg to a group element, domain-separated by dst,
// using whichever hash-to-group construction g supports. Used by
// Cks05 to derive the per-round coin point every share contributes to.
func HashToElement(g Group, msg, dst []byte) (Element, error) {
	switch {
	case g == Bls12381:
		return hashToBLS12381G1(msg, dst)
	case g == Bn254:
		return hashToBN254G1(msg, dst)
	case g == Ed25519:
		return hashToEdwards(msg, dst), nil
	default:
		return nil, fmt.Errorf("group: %s has no hash-to-group", g)
	}
}

// DDH returns whether e(a,b) = e(c,d), the decisional Diffie-Hellman
// check used by NIZK proof verification in the pairing-based schemes.
func DDH(a, b, c, d PairingElement) (bool, error) {
	if a.Group() != b.Group() || a.Group() != c.Group() || a.Group() != d.Group() {
		return false, fmt.Errorf("group: DDH operands must share a group")
	}
	left, err := a.Pair(b)
	if err != nil {
		return false, err
	}
	right, err := c.Pair(d)
	if err != nil {
		return false, err
	}
	return left.Equal(right), nil
}

func mustSameGroup(a, b Element) {
	if a.Group() != b.Group() {
		panic(fmt.Sprintf("group: mismatched groups %s and %s", a.Group(), b.Group()))
	}
}
