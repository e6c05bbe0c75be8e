package group

import (
	"io"

	circlgroup "github.com/cloudflare/circl/group"
)

// edwardsElement backs the Ed25519 DL group with circl's Ristretto255
// point group: a cofactor-free encoding of edwards25519 that gives us
// a genuine prime-order group to build Shamir shares and FROST
// commitments over, without the small-subgroup pitfalls of using
// edwards25519 points directly.
type edwardsElement struct {
	e circlgroup.Element
}

func (e *edwardsElement) Group() Group { return Ed25519 }

func (e *edwardsElement) Mul(other Element) Element {
	o, ok := other.(*edwardsElement)
	if !ok {
		mustSameGroup(e, other)
	}
	out := circlgroup.Ristretto255.NewElement()
	out.Add(e.e, o.e)
	return &edwardsElement{e: out}
}

func (e *edwardsElement) Div(other Element) Element {
	o := other.(*edwardsElement)
	neg := circlgroup.Ristretto255.NewElement()
	neg.Neg(o.e)
	out := circlgroup.Ristretto255.NewElement()
	out.Add(e.e, neg)
	return &edwardsElement{e: out}
}

func (e *edwardsElement) Pow(x Scalar) Element {
	s := scalarToCircl(x)
	out := circlgroup.Ristretto255.NewElement()
	out.Mul(e.e, s)
	return &edwardsElement{e: out}
}

func (e *edwardsElement) IsIdentity() bool { return e.e.IsIdentity() }

func (e *edwardsElement) Equal(other Element) bool {
	o, ok := other.(*edwardsElement)
	if !ok {
		return false
	}
	return e.e.IsEqual(o.e)
}

func (e *edwardsElement) ToBytes() []byte {
	b, err := e.e.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return b
}

func (e *edwardsElement) Index() byte { return 0 }

func newEdwardsIdentity() Element {
	return &edwardsElement{e: circlgroup.Ristretto255.NewElement()}
}

func newEdwardsGenerator() Element {
	return &edwardsElement{e: circlgroup.Ristretto255.Generator()}
}

func randomEdwards(rng io.Reader) (Element, error) {
	return &edwardsElement{e: circlgroup.Ristretto255.RandomElement(rng)}, nil
}

// hashToEdwards maps msg to a Ristretto255 element via circl's
// constant-time hash-to-group, domain-separated by dst.
func hashToEdwards(msg, dst []byte) Element {
	return &edwardsElement{e: circlgroup.Ristretto255.HashToElement(msg, dst)}
}

func edwardsFromBytes(data []byte) (Element, error) {
	el := circlgroup.Ristretto255.NewElement()
	if err := el.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &edwardsElement{e: el}, nil
}

// scalarToCircl converts a group.Scalar (backed by bigint.Sized) into
// a circl scalar over the Ristretto255 scalar field via its canonical
// byte encoding.
func scalarToCircl(x Scalar) circlgroup.Scalar {
	s := circlgroup.Ristretto255.NewScalar()
	if err := s.UnmarshalBinary(x.Bytes()); err != nil {
		panic(err)
	}
	return s
}
