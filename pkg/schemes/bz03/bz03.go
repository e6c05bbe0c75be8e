// Package bz03 implements a pairing-based (k,n) threshold public key
// encryption scheme: the master secret is shared as a discrete log in
// G2, the encapsulated randomness travels as a G1 point, and the
// shared mask is recovered as a pairing of the two once enough shares
// combine. A discrete-log commitment derived from the ciphertext body
// lets any party check the ciphertext is well-formed before ever
// computing a decryption share.
package bz03

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/ciphertext"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/lagrange"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/shamir"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Scheme adapts the package's free functions to schemes.CipherScheme
// so internal/protoadapters can hold a scheme-agnostic value.
type Scheme struct{}

var _ schemes.CipherScheme = Scheme{}

func (Scheme) Encrypt(pk *keys.PublicKey, msg, label []byte, rng io.Reader) (*ciphertext.Ciphertext, error) {
	return Encrypt(pk, msg, label, rng)
}

func (Scheme) VerifyCiphertext(ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	return VerifyCiphertext(ct, pk)
}

func (Scheme) PartialDecrypt(ct *ciphertext.Ciphertext, sk *keys.PrivateKeyShare, rng io.Reader) (*ciphertext.DecryptionShare, error) {
	return PartialDecrypt(ct, sk, rng)
}

func (Scheme) VerifyShare(share *ciphertext.DecryptionShare, ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	return VerifyShare(share, ct, pk)
}

func (Scheme) Assemble(ct *ciphertext.Ciphertext, shares []*ciphertext.DecryptionShare, pk *keys.PublicKey) ([]byte, error) {
	return Assemble(ct, shares, pk)
}

// Generate runs a trusted-dealer (k,n) key generation over G2: the
// master public value and every verification value live in G2, so a
// decryption share (a G1 point raised by the holder's share of the
// master secret) can be checked by pairing it against U and the
// matching verification value.
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if err := scheme.Bz03.Validate(g, k, n); err != nil {
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
	pk := &keys.PublicKey{Scheme: scheme.Bz03, Group: g, N: n, K: k, Y: y}
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

type schemeFields struct {
	u     group.Element // G1, the encapsulated randomness g1^r
	nonce []byte
	w     group.Element // G2, the well-formedness commitment
}

func encodeFields(f *schemeFields) []byte {
	w := wire.NewWriter()
	w.Bytes(f.u.ToBytes())
	w.Bytes(f.nonce)
	w.Bytes(f.w.ToBytes())
	return w.Finish()
}

func decodeFields(g group.Group, data []byte) (*schemeFields, error) {
	r := wire.NewReader(data)
	uBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	u, err := group.FromBytes(g, uBytes, 0)
	if err != nil {
		return nil, err
	}
	nonce, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	wBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	wEl, err := group.FromBytes(g, wBytes, 1)
	if err != nil {
		return nil, err
	}
	return &schemeFields{u: u, nonce: nonce, w: wEl}, nil
}

// commitmentScalar derives the public hash-then-exponentiate
// commitment exponent from the encapsulated randomness, ciphertext
// body and label, binding all three into the well-formedness check.
func commitmentScalar(g group.Group, uBytes, body, label []byte) (*bigint.Sized, error) {
	h := sha256.New()
	h.Write(uBytes)
	h.Write(body)
	h.Write(label)
	sum := h.Sum(nil)
	return bigint.SizedFromBytes(g, sum)
}

// Encrypt samples r, derives the shared mask e(g1^r, Y) = e(g1,g2)^{rs}
// as a ChaCha20-Poly1305 key, and attaches a discrete-log commitment
// so VerifyCiphertext can catch a malformed ciphertext before any
// share is computed.
func Encrypt(pk *keys.PublicKey, msg, label []byte, rng io.Reader) (*ciphertext.Ciphertext, error) {
	g := pk.Group
	r, err := bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, err
	}
	u, err := group.NewPowBig(g, 0, r)
	if err != nil {
		return nil, err
	}
	uPE, ok := u.(group.PairingElement)
	if !ok {
		return nil, fmt.Errorf("bz03: group %s does not support pairings", g)
	}
	yPE, ok := pk.Y.(group.PairingElement)
	if !ok {
		return nil, fmt.Errorf("bz03: public value is not a pairing element")
	}
	gid, err := uPE.Pair(yPE)
	if err != nil {
		return nil, err
	}
	keyMaterial := sha256.Sum256(gid.ToBytes())
	aead, err := chacha20poly1305.New(keyMaterial[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, err
	}
	body := aead.Seal(nil, nonce, msg, label)

	hs, err := commitmentScalar(g, u.ToBytes(), body, label)
	if err != nil {
		return nil, err
	}
	g2Gen, err := group.NewGenerator(g, 1)
	if err != nil {
		return nil, err
	}
	hpt := g2Gen.Pow(hs)
	wEl := hpt.Pow(r)

	fields := &schemeFields{u: u, nonce: nonce, w: wEl}
	ck := sha256.Sum256(u.ToBytes())
	return &ciphertext.Ciphertext{
		Scheme:     scheme.Bz03,
		Group:      g,
		Label:      label,
		Body:       body,
		CK:         ck[:],
		SchemeData: encodeFields(fields),
	}, nil
}

// VerifyCiphertext checks e(U, H) = e(g1, W) for the commitment point
// H derived from (U, body, label), confirming U and W share the same
// exponent r without requiring any share.
func VerifyCiphertext(ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	g := pk.Group
	fields, err := decodeFields(g, ct.SchemeData)
	if err != nil {
		return false, err
	}
	hs, err := commitmentScalar(g, fields.u.ToBytes(), ct.Body, ct.Label)
	if err != nil {
		return false, err
	}
	g2Gen, err := group.NewGenerator(g, 1)
	if err != nil {
		return false, err
	}
	hpt := g2Gen.Pow(hs)
	g1Gen, err := group.NewGenerator(g, 0)
	if err != nil {
		return false, err
	}
	uPE, ok := fields.u.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bz03: group %s does not support pairings", g)
	}
	return group.DDH(uPE, hpt.(group.PairingElement), g1Gen.(group.PairingElement), fields.w.(group.PairingElement))
}

// PartialDecrypt computes U^{x_i}, a G1 point only the holder of the
// share x_i can produce.
func PartialDecrypt(ct *ciphertext.Ciphertext, sk *keys.PrivateKeyShare, rng io.Reader) (*ciphertext.DecryptionShare, error) {
	fields, err := decodeFields(sk.Public.Group, ct.SchemeData)
	if err != nil {
		return nil, err
	}
	share := fields.u.Pow(sk.Xi)
	return &ciphertext.DecryptionShare{
		ID:         sk.ID,
		Group:      sk.Public.Group,
		Label:      ct.Label,
		SchemeData: share.ToBytes(),
	}, nil
}

// VerifyShare checks e(share_i, g2) = e(U, h_i) against the share's
// public verification value.
func VerifyShare(share *ciphertext.DecryptionShare, ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.VerificationValues) {
		return false, fmt.Errorf("bz03: share id %d out of range", share.ID)
	}
	fields, err := decodeFields(pk.Group, ct.SchemeData)
	if err != nil {
		return false, err
	}
	shareEl, err := group.FromBytes(pk.Group, share.SchemeData, 0)
	if err != nil {
		return false, err
	}
	sharePE, ok := shareEl.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bz03: group %s does not support pairings", pk.Group)
	}
	g2Gen, err := group.NewGenerator(pk.Group, 1)
	if err != nil {
		return false, err
	}
	hi := pk.VerificationValues[share.ID-1]
	uPE, ok := fields.u.(group.PairingElement)
	if !ok {
		return false, fmt.Errorf("bz03: group %s does not support pairings", pk.Group)
	}
	return group.DDH(sharePE, g2Gen.(group.PairingElement), uPE, hi.(group.PairingElement))
}

// Assemble interpolates the shares in G1 to recover U^s, pairs it
// against g2 to recover the mask, and opens the AEAD body.
func Assemble(ct *ciphertext.Ciphertext, shares []*ciphertext.DecryptionShare, pk *keys.PublicKey) ([]byte, error) {
	fields, err := decodeFields(pk.Group, ct.SchemeData)
	if err != nil {
		return nil, err
	}
	elems := make(map[int]group.Element, len(shares))
	for _, s := range shares {
		e, err := group.FromBytes(pk.Group, s.SchemeData, 0)
		if err != nil {
			return nil, err
		}
		elems[s.ID] = e
	}
	d, err := lagrange.InterpolateElements(pk.Group, elems)
	if err != nil {
		return nil, err
	}
	dPE, ok := d.(group.PairingElement)
	if !ok {
		return nil, fmt.Errorf("bz03: group %s does not support pairings", pk.Group)
	}
	g2Gen, err := group.NewGenerator(pk.Group, 1)
	if err != nil {
		return nil, err
	}
	gid, err := dPE.Pair(g2Gen.(group.PairingElement))
	if err != nil {
		return nil, err
	}
	keyMaterial := sha256.Sum256(gid.ToBytes())
	aead, err := chacha20poly1305.New(keyMaterial[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, fields.nonce, ct.Body, ct.Label)
}
