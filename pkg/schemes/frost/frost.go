// Package frost implements the FROST threshold Schnorr signature
// scheme over Ed25519/Ristretto255. Unlike the other signature
// schemes, producing a signature share needs two rounds of
// coordination: participants first publish nonce commitments, then
// compute their share once every commitment in the signing set is
// known. This package exposes the round-1/round-2 primitives as plain
// functions; internal/protoadapters drives them through the executor's
// two-round interactive adapter.
package frost

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"sort"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/lagrange"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/shamir"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Generate runs a trusted-dealer (k,n) key generation, identical in
// shape to Bls04/Sg02's DL layout: Y = g^s, h_i = g^{x_i}.
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if err := scheme.Frost.Validate(g, k, n); err != nil {
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
	pk := &keys.PublicKey{Scheme: scheme.Frost, Group: g, N: n, K: k, Y: y}
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

// NoncePair is the secret round-1 output: a hiding and a binding
// nonce. It must never be reused across signing sessions and is
// discarded by the owner once round 2 completes.
type NoncePair struct {
	Hiding  *bigint.Sized
	Binding *bigint.Sized
}

// NonceCommitment is the public round-1 output every signer
// broadcasts before round 2 can start.
type NonceCommitment struct {
	ID      int
	Hiding  group.Element
	Binding group.Element
}

func (c *NonceCommitment) encode() []byte {
	w := wire.NewWriter()
	w.Uint16(uint16(c.ID))
	w.Bytes(c.Hiding.ToBytes())
	w.Bytes(c.Binding.ToBytes())
	return w.Finish()
}

// EncodeCommitment/DecodeCommitment let the instance/dispatcher layer
// carry round-1 output over the wire like any other protocol message.
func EncodeCommitment(c *NonceCommitment) []byte { return c.encode() }

func DecodeCommitment(g group.Group, data []byte) (*NonceCommitment, error) {
	r := wire.NewReader(data)
	id16, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	hBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	h, err := group.FromBytes(g, hBytes, 0)
	if err != nil {
		return nil, err
	}
	bBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	b, err := group.FromBytes(g, bBytes, 0)
	if err != nil {
		return nil, err
	}
	return &NonceCommitment{ID: int(id16), Hiding: h, Binding: b}, nil
}

// GenerateNonces is round 1: sample a fresh (d_i,e_i) pair and publish
// their commitments (D_i,E_i). Precomputed pairs may be generated
// ahead of any signing request and consumed later by the keychain's
// precompute pool.
func GenerateNonces(g group.Group, id int, rng io.Reader) (*NoncePair, *NonceCommitment, error) {
	d, err := bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, nil, err
	}
	e, err := bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, nil, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return nil, nil, err
	}
	commitment := &NonceCommitment{ID: id, Hiding: gGen.Pow(d), Binding: gGen.Pow(e)}
	return &NoncePair{Hiding: d, Binding: e}, commitment, nil
}

func sortedIDs(commitments []*NonceCommitment) []int {
	ids := make([]int, len(commitments))
	for i, c := range commitments {
		ids[i] = c.ID
	}
	sort.Ints(ids)
	return ids
}

func commitmentsDigest(commitments []*NonceCommitment) []byte {
	sorted := make([]*NonceCommitment, len(commitments))
	copy(sorted, commitments)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	h := sha256.New()
	for _, c := range sorted {
		h.Write(c.encode())
	}
	return h.Sum(nil)
}

// bindingFactor derives rho_i, binding each signer's e_i nonce to the
// full commitment list and the message, so a per-signer binding nonce
// cannot be reused across a different signer set.
func bindingFactor(g group.Group, id int, msg []byte, commitments []*NonceCommitment) (*bigint.Sized, error) {
	h := sha256.New()
	h.Write([]byte("FROST-rho"))
	idBuf := []byte{byte(id >> 8), byte(id)}
	h.Write(idBuf)
	h.Write(msg)
	h.Write(commitmentsDigest(commitments))
	return bigint.SizedFromBytes(g, h.Sum(nil))
}

// groupCommitment computes R = prod_i (D_i . E_i^{rho_i}) and returns
// the per-signer binding factors alongside it.
func groupCommitment(g group.Group, msg []byte, commitments []*NonceCommitment) (group.Element, map[int]*bigint.Sized, error) {
	rhos := make(map[int]*bigint.Sized, len(commitments))
	var r group.Element
	for _, c := range commitments {
		rho, err := bindingFactor(g, c.ID, msg, commitments)
		if err != nil {
			return nil, nil, err
		}
		rhos[c.ID] = rho
		term := c.Hiding.Mul(c.Binding.Pow(rho))
		if r == nil {
			r = term
		} else {
			r = r.Mul(term)
		}
	}
	if r == nil {
		return nil, nil, fmt.Errorf("frost: no commitments supplied")
	}
	return r, rhos, nil
}

func challenge(g group.Group, r, y group.Element, msg []byte) (*bigint.Sized, error) {
	h := sha256.New()
	h.Write([]byte("FROST-chal"))
	h.Write(r.ToBytes())
	h.Write(y.ToBytes())
	h.Write(msg)
	return bigint.SizedFromBytes(g, h.Sum(nil))
}

// PartialSign is round 2: given the full set of round-1 commitments,
// compute z_i = d_i + e_i*rho_i + lambda_i*x_i*c.
func PartialSign(pk *keys.PublicKey, sk *keys.PrivateKeyShare, nonces *NoncePair, msg []byte, commitments []*NonceCommitment) (*signature.Share, error) {
	g := pk.Group
	r, rhos, err := groupCommitment(g, msg, commitments)
	if err != nil {
		return nil, err
	}
	c, err := challenge(g, r, pk.Y, msg)
	if err != nil {
		return nil, err
	}
	lambdas, err := lagrange.Coefficients(g, sortedIDs(commitments))
	if err != nil {
		return nil, err
	}
	lambda, ok := lambdas[sk.ID]
	if !ok {
		return nil, fmt.Errorf("frost: signer %d is not part of the commitment set", sk.ID)
	}
	rho := rhos[sk.ID]
	z := nonces.Hiding.AddMod(nonces.Binding.MulMod(rho)).AddMod(lambda.MulMod(sk.Xi).MulMod(c))

	w := wire.NewWriter()
	w.Bytes(z.Bytes())
	return &signature.Share{ID: sk.ID, Group: g, Label: msg, SchemeData: w.Finish()}, nil
}

// VerifyShare checks z_i*G = R_i + lambda_i*c*Y_i against the public
// per-signer values.
func VerifyShare(pk *keys.PublicKey, share *signature.Share, msg []byte, commitments []*NonceCommitment) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.VerificationValues) {
		return false, fmt.Errorf("frost: share id %d out of range", share.ID)
	}
	g := pk.Group
	r, rhos, err := groupCommitment(g, msg, commitments)
	if err != nil {
		return false, err
	}
	c, err := challenge(g, r, pk.Y, msg)
	if err != nil {
		return false, err
	}
	lambdas, err := lagrange.Coefficients(g, sortedIDs(commitments))
	if err != nil {
		return false, err
	}
	lambda, ok := lambdas[share.ID]
	if !ok {
		return false, fmt.Errorf("frost: signer %d is not part of the commitment set", share.ID)
	}
	var mine *NonceCommitment
	for _, cm := range commitments {
		if cm.ID == share.ID {
			mine = cm
			break
		}
	}
	if mine == nil {
		return false, fmt.Errorf("frost: no commitment for signer %d", share.ID)
	}
	rho := rhos[share.ID]
	ri := mine.Hiding.Mul(mine.Binding.Pow(rho))

	rd := wire.NewReader(share.SchemeData)
	zBytes, err := rd.Bytes()
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
	yi := pk.VerificationValues[share.ID-1]
	lhs := gGen.Pow(z)
	rhs := ri.Mul(yi.Pow(lambda.MulMod(c)))
	return lhs.Equal(rhs), nil
}

// Aggregate sums the per-signer z_i into the final Schnorr response
// and pairs it with the group commitment R to form the signature.
func Aggregate(pk *keys.PublicKey, shares []*signature.Share, msg []byte, commitments []*NonceCommitment) (*signature.Signature, error) {
	g := pk.Group
	r, _, err := groupCommitment(g, msg, commitments)
	if err != nil {
		return nil, err
	}
	z, err := bigint.NewSized(g, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	for _, s := range shares {
		rd := wire.NewReader(s.SchemeData)
		zBytes, err := rd.Bytes()
		if err != nil {
			return nil, err
		}
		zi, err := bigint.SizedFromBytes(g, zBytes)
		if err != nil {
			return nil, err
		}
		z = z.AddMod(zi)
	}
	w := wire.NewWriter()
	w.Bytes(r.ToBytes())
	w.Bytes(z.Bytes())
	return &signature.Signature{Scheme: scheme.Frost, Group: g, Bytes: w.Finish()}, nil
}

// Verify checks z*G = R + c*Y, the standard Schnorr verification
// equation, against the unmodified group public key.
func Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error) {
	g := pk.Group
	rd := wire.NewReader(sig.Bytes)
	rBytes, err := rd.Bytes()
	if err != nil {
		return false, err
	}
	r, err := group.FromBytes(g, rBytes, 0)
	if err != nil {
		return false, err
	}
	zBytes, err := rd.Bytes()
	if err != nil {
		return false, err
	}
	z, err := bigint.SizedFromBytes(g, zBytes)
	if err != nil {
		return false, err
	}
	c, err := challenge(g, r, pk.Y, msg)
	if err != nil {
		return false, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return false, err
	}
	lhs := gGen.Pow(z)
	rhs := r.Mul(pk.Y.Pow(c))
	return lhs.Equal(rhs), nil
}
