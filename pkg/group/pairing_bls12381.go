package group

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// bls12381Element wraps a G1 or G2 affine point, selected by idx
// (0 = G1, 1 = G2). GT elements are represented separately by
// bls12381GT and never flow through Element.
type bls12381Element struct {
	idx byte
	g1  bls12381.G1Affine
	g2  bls12381.G2Affine
}

func (e *bls12381Element) Group() Group { return Bls12381 }
func (e *bls12381Element) Index() byte  { return e.idx }

func (e *bls12381Element) Mul(other Element) Element {
	o := other.(*bls12381Element)
	mustSameGroup(e, other)
	out := &bls12381Element{idx: e.idx}
	if e.idx == 0 {
		out.g1.Add(&e.g1, &o.g1)
	} else {
		out.g2.Add(&e.g2, &o.g2)
	}
	return out
}

func (e *bls12381Element) Div(other Element) Element {
	o := other.(*bls12381Element)
	neg := &bls12381Element{idx: e.idx}
	if e.idx == 0 {
		neg.g1.Neg(&o.g1)
		out := &bls12381Element{idx: 0}
		out.g1.Add(&e.g1, &neg.g1)
		return out
	}
	neg.g2.Neg(&o.g2)
	out := &bls12381Element{idx: 1}
	out.g2.Add(&e.g2, &neg.g2)
	return out
}

func (e *bls12381Element) Pow(x Scalar) Element {
	s := new(big.Int).SetBytes(x.Bytes())
	out := &bls12381Element{idx: e.idx}
	if e.idx == 0 {
		out.g1.ScalarMultiplication(&e.g1, s)
	} else {
		out.g2.ScalarMultiplication(&e.g2, s)
	}
	return out
}

func (e *bls12381Element) IsIdentity() bool {
	if e.idx == 0 {
		return e.g1.IsInfinity()
	}
	return e.g2.IsInfinity()
}

func (e *bls12381Element) Equal(other Element) bool {
	o, ok := other.(*bls12381Element)
	if !ok || o.idx != e.idx {
		return false
	}
	if e.idx == 0 {
		return e.g1.Equal(&o.g1)
	}
	return e.g2.Equal(&o.g2)
}

func (e *bls12381Element) ToBytes() []byte {
	if e.idx == 0 {
		b := e.g1.Bytes()
		return b[:]
	}
	b := e.g2.Bytes()
	return b[:]
}

func (e *bls12381Element) Pair(other PairingElement) (GTElement, error) {
	o, ok := other.(*bls12381Element)
	if !ok {
		return nil, fmt.Errorf("group: pairing operand is not a BLS12-381 element")
	}
	var g1 *bls12381.G1Affine
	var g2 *bls12381.G2Affine
	switch {
	case e.idx == 0 && o.idx == 1:
		g1, g2 = &e.g1, &o.g2
	case e.idx == 1 && o.idx == 0:
		g1, g2 = &o.g1, &e.g2
	default:
		return nil, fmt.Errorf("group: pairing requires one G1 and one G2 element")
	}
	gt, err := bls12381.Pair([]bls12381.G1Affine{*g1}, []bls12381.G2Affine{*g2})
	if err != nil {
		return nil, err
	}
	return &bls12381GT{gt: gt}, nil
}

type bls12381GT struct {
	gt bls12381.GT
}

func (g *bls12381GT) Equal(other GTElement) bool {
	o, ok := other.(*bls12381GT)
	if !ok {
		return false
	}
	return g.gt.Equal(&o.gt)
}

func (g *bls12381GT) ToBytes() []byte {
	b := g.gt.Bytes()
	return b[:]
}

func newBLS12381Identity(idx byte) Element {
	return &bls12381Element{idx: idx}
}

func newBLS12381Generator(idx byte) (Element, error) {
	_, _, g1Gen, g2Gen := bls12381.Generators()
	switch idx {
	case 0:
		return &bls12381Element{idx: 0, g1: g1Gen}, nil
	case 1:
		return &bls12381Element{idx: 1, g2: g2Gen}, nil
	default:
		return nil, fmt.Errorf("group: bls12381 has no generator at index %d", idx)
	}
}

func randomBLS12381(rng io.Reader, idx byte) (Element, error) {
	order, _ := Bls12381.Order()
	k, err := randomScalarBelow(rng, order)
	if err != nil {
		return nil, err
	}
	gen, err := newBLS12381Generator(idx)
	if err != nil {
		return nil, err
	}
	e := gen.(*bls12381Element)
	out := &bls12381Element{idx: idx}
	if idx == 0 {
		out.g1.ScalarMultiplication(&e.g1, k)
	} else {
		out.g2.ScalarMultiplication(&e.g2, k)
	}
	return out, nil
}

func bls12381FromBytes(data []byte, idx byte) (Element, error) {
	out := &bls12381Element{idx: idx}
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

// hashToBLS12381G1 maps msg to a G1 point via gnark-crypto's RFC 9380
// hash-to-curve implementation, domain-separated by dst. Bls04 uses
// this to derive the message point H(m) that every share signs.
func hashToBLS12381G1(msg, dst []byte) (Element, error) {
	p, err := bls12381.HashToG1(msg, dst)
	if err != nil {
		return nil, err
	}
	return &bls12381Element{idx: 0, g1: p}, nil
}

func randomScalarBelow(rng io.Reader, max *big.Int) (*big.Int, error) {
	buf := make([]byte, (max.BitLen()+7)/8+8)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, err
	}
	k := new(big.Int).SetBytes(buf)
	return k.Mod(k, max), nil
}
