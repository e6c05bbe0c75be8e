package group

import (
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// bn254Element mirrors bls12381Element for the BN254 curve. The two
// are kept as separate concrete types (rather than a generic backend)
// because gnark-crypto does not expose a shared interface across its
// per-curve packages.
type bn254Element struct {
	idx byte
	g1  bn254.G1Affine
	g2  bn254.G2Affine
}

func (e *bn254Element) Group() Group { return Bn254 }
func (e *bn254Element) Index() byte  { return e.idx }

func (e *bn254Element) Mul(other Element) Element {
	o := other.(*bn254Element)
	mustSameGroup(e, other)
	out := &bn254Element{idx: e.idx}
	if e.idx == 0 {
		out.g1.Add(&e.g1, &o.g1)
	} else {
		out.g2.Add(&e.g2, &o.g2)
	}
	return out
}

func (e *bn254Element) Div(other Element) Element {
	o := other.(*bn254Element)
	if e.idx == 0 {
		neg := new(bn254.G1Affine).Neg(&o.g1)
		out := &bn254Element{idx: 0}
		out.g1.Add(&e.g1, neg)
		return out
	}
	neg := new(bn254.G2Affine).Neg(&o.g2)
	out := &bn254Element{idx: 1}
	out.g2.Add(&e.g2, neg)
	return out
}

func (e *bn254Element) Pow(x Scalar) Element {
	s := new(big.Int).SetBytes(x.Bytes())
	out := &bn254Element{idx: e.idx}
	if e.idx == 0 {
		out.g1.ScalarMultiplication(&e.g1, s)
	} else {
		out.g2.ScalarMultiplication(&e.g2, s)
	}
	return out
}

func (e *bn254Element) IsIdentity() bool {
	if e.idx == 0 {
		return e.g1.IsInfinity()
	}
	return e.g2.IsInfinity()
}

func (e *bn254Element) Equal(other Element) bool {
	o, ok := other.(*bn254Element)
	if !ok || o.idx != e.idx {
		return false
	}
	if e.idx == 0 {
		return e.g1.Equal(&o.g1)
	}
	return e.g2.Equal(&o.g2)
}

func (e *bn254Element) ToBytes() []byte {
	if e.idx == 0 {
		b := e.g1.Bytes()
		return b[:]
	}
	b := e.g2.Bytes()
	return b[:]
}

func (e *bn254Element) Pair(other PairingElement) (GTElement, error) {
	o, ok := other.(*bn254Element)
	if !ok {
		return nil, fmt.Errorf("group: pairing operand is not a BN254 element")
	}
	var g1 *bn254.G1Affine
	var g2 *bn254.G2Affine
	switch {
	case e.idx == 0 && o.idx == 1:
		g1, g2 = &e.g1, &o.g2
	case e.idx == 1 && o.idx == 0:
		g1, g2 = &o.g1, &e.g2
	default:
		return nil, fmt.Errorf("group: pairing requires one G1 and one G2 element")
	}
	gt, err := bn254.Pair([]bn254.G1Affine{*g1}, []bn254.G2Affine{*g2})
	if err != nil {
		return nil, err
	}
	return &bn254GT{gt: gt}, nil
}

type bn254GT struct {
	gt bn254.GT
}

func (g *bn254GT) Equal(other GTElement) bool {
	o, ok := other.(*bn254GT)
	if !ok {
		return false
	}
	return g.gt.Equal(&o.gt)
}

func (g *bn254GT) ToBytes() []byte {
	b := g.gt.Bytes()
	return b[:]
}

// hashToBN254G1 mirrors hashToBLS12381G1 for the BN254 curve.
func hashToBN254G1(msg, dst []byte) (Element, error) {
	p, err := bn254.HashToG1(msg, dst)
	if err != nil {
		return nil, err
	}
	return &bn254Element{idx: 0, g1: p}, nil
}

func newBN254Identity(idx byte) Element {
	return &bn254Element{idx: idx}
}

func newBN254Generator(idx byte) (Element, error) {
	_, _, g1Gen, g2Gen := bn254.Generators()
	switch idx {
	case 0:
		return &bn254Element{idx: 0, g1: g1Gen}, nil
	case 1:
		return &bn254Element{idx: 1, g2: g2Gen}, nil
	default:
		return nil, fmt.Errorf("group: bn254 has no generator at index %d", idx)
	}
}

func randomBN254(rng io.Reader, idx byte) (Element, error) {
	order, _ := Bn254.Order()
	k, err := randomScalarBelow(rng, order)
	if err != nil {
		return nil, err
	}
	gen, err := newBN254Generator(idx)
	if err != nil {
		return nil, err
	}
	e := gen.(*bn254Element)
	out := &bn254Element{idx: idx}
	if idx == 0 {
		out.g1.ScalarMultiplication(&e.g1, k)
	} else {
		out.g2.ScalarMultiplication(&e.g2, k)
	}
	return out, nil
}

func bn254FromBytes(data []byte, idx byte) (Element, error) {
	out := &bn254Element{idx: idx}
	if idx == 0 {
		if _, err := out.g1.SetBytes(data); err != nil {
			return nil, err
		}
		return out, nil
	}
	if _, err := out.g2.SetBytes(data); err != nil {
		return nil, err
	}
	return out, nil
}
