// Package cks05 implements the Cachin-Kursawe-Shoup threshold common
// coin: every participant hashes the coin's name into a group element
// and raises it by their key share, proves the share correct with a
// Chaum-Pedersen DLEQ proof, and any k shares interpolate into a
// single group element whose hash yields the coin's outcome bit.
package cks05

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/lagrange"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/shamir"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Scheme adapts the package's free functions to schemes.CoinScheme.
type Scheme struct{}

var _ schemes.CoinScheme = Scheme{}

func (Scheme) CreateShare(name []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.CoinShare, error) {
	return CreateShare(name, sk, rng)
}

func (Scheme) VerifyShare(share *signature.CoinShare, name []byte, pk *keys.PublicKey) (bool, error) {
	return VerifyShare(share, name, pk)
}

func (Scheme) Assemble(shares []*signature.CoinShare, name []byte, pk *keys.PublicKey) (byte, error) {
	return Assemble(shares, name, pk)
}

const dst = "THETACRYPT-CKS05-COIN"

// Generate runs a trusted-dealer (k,n) key generation: Y = g^s is the
// public value, h_i = g^{x_i} the per-share verification values,
// shared with Bls04/Sg02's Shamir layout since Cks05 reuses the same
// DL key structure for a different operation.
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if err := scheme.Cks05.Validate(g, k, n); err != nil {
		return nil, nil, err
	}
	secret, parts, err := shamir.Generate(g, k, n, rng)
	if err != nil {
		return nil, nil, err
	}
	y, err := group.NewPowBig(g, 0, secret)
	if err != nil {
		return nil, nil, err
	}
	verif := make([]group.Element, n)
	sks := make([]*keys.PrivateKeyShare, n)
	pk := &keys.PublicKey{Scheme: scheme.Cks05, Group: g, N: n, K: k, Y: y}
	for i := 1; i <= n; i++ {
		h, err := group.NewPowBig(g, 0, parts[i])
		if err != nil {
			return nil, nil, err
		}
		verif[i-1] = h
		sks[i-1] = &keys.PrivateKeyShare{ID: i, Public: pk, Xi: parts[i]}
	}
	pk.VerificationValues = verif
	return pk, sks, nil
}

type dleqProof struct {
	c *bigint.Sized
	z *bigint.Sized
}

func hashToScalar(g group.Group, parts ...[]byte) (*bigint.Sized, error) {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return bigint.SizedFromBytes(g, h.Sum(nil))
}

func proveDLEQ(g group.Group, base1, pow1, base2, pow2 group.Element, x *bigint.Sized, rng io.Reader) (*dleqProof, error) {
	w, err := bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, err
	}
	a1 := base1.Pow(w)
	a2 := base2.Pow(w)
	c, err := hashToScalar(g, base1.ToBytes(), base2.ToBytes(), pow1.ToBytes(), pow2.ToBytes(), a1.ToBytes(), a2.ToBytes())
	if err != nil {
		return nil, err
	}
	z := w.AddMod(c.MulMod(x))
	return &dleqProof{c: c, z: z}, nil
}

func verifyDLEQ(g group.Group, base1, pow1, base2, pow2 group.Element, p *dleqProof) (bool, error) {
	a1 := base1.Pow(p.z).Div(pow1.Pow(p.c))
	a2 := base2.Pow(p.z).Div(pow2.Pow(p.c))
	c, err := hashToScalar(g, base1.ToBytes(), base2.ToBytes(), pow1.ToBytes(), pow2.ToBytes(), a1.ToBytes(), a2.ToBytes())
	if err != nil {
		return false, err
	}
	return c.Equal(p.c), nil
}

func namePoint(g group.Group, name []byte) (group.Element, error) {
	return group.HashToElement(g, name, []byte(dst))
}

// CreateShare computes C_i = H(name)^{x_i} and a DLEQ proof that
// log_g(h_i) = log_{H(name)}(C_i).
func CreateShare(name []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.CoinShare, error) {
	g := sk.Public.Group
	hn, err := namePoint(g, name)
	if err != nil {
		return nil, err
	}
	c := hn.Pow(sk.Xi)
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return nil, err
	}
	hi := sk.Public.VerificationValues[sk.ID-1]
	proof, err := proveDLEQ(g, gGen, hi, hn, c, sk.Xi, rng)
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter()
	w.Bytes(c.ToBytes())
	w.Bytes(proof.c.Bytes())
	w.Bytes(proof.z.Bytes())
	return &signature.CoinShare{ID: sk.ID, Group: g, Name: name, SchemeData: w.Finish()}, nil
}

// VerifyShare checks the share's DLEQ proof against its owner's
// public verification value.
func VerifyShare(share *signature.CoinShare, name []byte, pk *keys.PublicKey) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.VerificationValues) {
		return false, fmt.Errorf("cks05: share id %d out of range", share.ID)
	}
	g := pk.Group
	hn, err := namePoint(g, name)
	if err != nil {
		return false, err
	}
	r := wire.NewReader(share.SchemeData)
	cBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	c, err := group.FromBytes(g, cBytes, 0)
	if err != nil {
		return false, err
	}
	ccBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	cc, err := bigint.SizedFromBytes(g, ccBytes)
	if err != nil {
		return false, err
	}
	zBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	z, err := bigint.SizedFromBytes(g, zBytes)
	if err != nil {
		return false, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return false, err
	}
	hi := pk.VerificationValues[share.ID-1]
	return verifyDLEQ(g, gGen, hi, hn, c, &dleqProof{c: cc, z: z})
}

// Assemble interpolates the shares to recover H(name)^s and reduces
// its hash to a single outcome bit.
func Assemble(shares []*signature.CoinShare, name []byte, pk *keys.PublicKey) (byte, error) {
	g := pk.Group
	elems := make(map[int]group.Element, len(shares))
	for _, s := range shares {
		r := wire.NewReader(s.SchemeData)
		cBytes, err := r.Bytes()
		if err != nil {
			return 0, err
		}
		c, err := group.FromBytes(g, cBytes, 0)
		if err != nil {
			return 0, err
		}
		elems[s.ID] = c
	}
	combined, err := lagrange.InterpolateElements(g, elems)
	if err != nil {
		return 0, err
	}
	sum := sha256.Sum256(combined.ToBytes())
	return sum[0] & 1, nil
}
