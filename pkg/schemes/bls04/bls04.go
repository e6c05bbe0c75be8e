// Package bls04 implements the Boldyreva threshold BLS signature
// scheme: every share signs the hash-to-curve point of the message in
// G1, and any k shares assemble into a single short signature
// verifiable against the scheme's unmodified public key, exactly as
// for a non-threshold BLS signature.
package bls04

import (
	"fmt"
	"io"

	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/lagrange"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/shamir"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
)

// Scheme adapts the package's free functions to schemes.SignatureScheme.
type Scheme struct{}

var _ schemes.SignatureScheme = Scheme{}

func (Scheme) PartialSign(msg, label []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.Share, error) {
	return PartialSign(msg, label, sk, rng)
}

func (Scheme) VerifyShare(share *signature.Share, msg []byte, pk *keys.PublicKey) (bool, error) {
	return VerifyShare(share, msg, pk)
}

func (Scheme) Assemble(shares []*signature.Share, msg []byte, pk *keys.PublicKey) (*signature.Signature, error) {
	return Assemble(shares, msg, pk)
}

func (Scheme) Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error) {
	return Verify(sig, pk, msg)
}

const dst = "THETACRYPT-BLS04-SIG"

// Generate runs a trusted-dealer (k,n) key generation: Y lives in G2,
// the message point lives in G1, mirroring how gnark-crypto's pairing
// is cheapest to verify (one G1, one G2 operand per side).
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if err := scheme.Bls04.Validate(g, k, n); err != nil {
		return nil, nil, err
	}
	secret, parts, err := shamir.Generate(g, k, n, rng)
	if err != nil {
		return nil, nil, err
	}
	y, err := group.NewPowBig(g, 1, secret)
	if err != nil {
		return nil, nil, err
	}
	verif := make([]group.Element, n)
	shares := make([]*keys.PrivateKeyShare, n)
	pk := &keys.PublicKey{Scheme: scheme.Bls04, Group: g, N: n, K: k, Y: y}
	for i := 1; i <= n; i++ {
		h, err := group.NewPowBig(g, 1, parts[i])
		if err != nil {
			return nil, nil, err
		}
		verif[i-1] = h
		shares[i-1] = &keys.PrivateKeyShare{ID: i, Public: pk, Xi: parts[i]}
	}
	pk.VerificationValues = verif
	return pk, shares, nil
}

func messagePoint(g group.Group, msg, label []byte) (group.PairingElement, error) {
	h, err := group.HashToElement(g, append(append([]byte{}, label...), msg...), []byte(dst))
	if err != nil {
		return nil, err
	}
	pe, ok := h.(group.PairingElement)
	if !ok {
		return nil, fmt.Errorf("bls04: group %s does not support pairings", g)
	}
	return pe, nil
}

// PartialSign computes sigma_i = H(m)^{x_i}.
func PartialSign(msg, label []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.Share, error) {
	hm, err := messagePoint(sk.Public.Group, msg, label)
	if err != nil {
		return nil, err
	}
	sigma := hm.Pow(sk.Xi)
	return &signature.Share{ID: sk.ID, Group: sk.Public.Group, Label: label, SchemeData: sigma.ToBytes()}, nil
}

// VerifyShare checks e(sigma_i, g2) = e(H(m), h_i).
func VerifyShare(share *signature.Share, msg []byte, pk *keys.PublicKey) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.VerificationValues) {
		return false, fmt.Errorf("bls04: share id %d out of range", share.ID)
	}
	sigma, err := group.FromBytes(pk.Group, share.SchemeData, 0)
	if err != nil {
		return false, err
	}
	sigmaPE, ok := sigma.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bls04: group %s does not support pairings", pk.Group)
	}
	hm, err := messagePoint(pk.Group, msg, share.Label)
	if err != nil {
		return false, err
	}
	g2Gen, err := group.NewGenerator(pk.Group, 1)
	if err != nil {
		return false, err
	}
	hi := pk.VerificationValues[share.ID-1]
	hiPE, ok := hi.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bls04: verification value is not a pairing element")
	}
	return group.DDH(sigmaPE, g2Gen.(group.PairingElement), hm, hiPE)
}

// Assemble interpolates the shares in G1 to recover the final
// signature.
func Assemble(shares []*signature.Share, msg []byte, pk *keys.PublicKey) (*signature.Signature, error) {
	elems := make(map[int]group.Element, len(shares))
	for _, s := range shares {
		e, err := group.FromBytes(pk.Group, s.SchemeData, 0)
		if err != nil {
			return nil, err
		}
		elems[s.ID] = e
	}
	sigma, err := lagrange.InterpolateElements(pk.Group, elems)
	if err != nil {
		return nil, err
	}
	var label []byte
	if len(shares) > 0 {
		label = shares[0].Label
	}
	return &signature.Signature{Scheme: scheme.Bls04, Group: pk.Group, Label: label, Bytes: sigma.ToBytes()}, nil
}

// Verify checks e(sigma, g2) = e(H(m), Y) against the unmodified
// combined public key, exactly as for a non-threshold BLS signature.
func Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error) {
	sigma, err := group.FromBytes(pk.Group, sig.Bytes, 0)
	if err != nil {
		return false, err
	}
	sigmaPE, ok := sigma.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bls04: group %s does not support pairings", pk.Group)
	}
	hm, err := messagePoint(pk.Group, msg, sig.Label)
	if err != nil {
		return false, err
	}
	g2Gen, err := group.NewGenerator(pk.Group, 1)
	if err != nil {
		return false, err
	}
	yPE, ok := pk.Y.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bls04: public value is not a pairing element")
	}
	return group.DDH(sigmaPE, g2Gen.(group.PairingElement), hm, yPE)
}
