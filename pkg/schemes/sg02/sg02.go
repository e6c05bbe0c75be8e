// Package sg02 implements a Shoup-Gennaro style (k,n) threshold
// encryption scheme over any discrete-log group: well-formedness of
// the ciphertext and of each decryption share is proven with a
// non-interactive Chaum-Pedersen discrete-log-equality proof rather
// than a pairing, so the scheme runs over Ed25519 as well as the
// pairing-friendly curves.
package sg02

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

// Scheme adapts the package's free functions to schemes.CipherScheme.
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

// Generate runs a trusted-dealer (k,n) key generation: Y = g^s is the
// public value, h_i = g^{x_i} are the per-share verification values.
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if err := scheme.Sg02.Validate(g, k, n); err != nil {
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
	pk := &keys.PublicKey{Scheme: scheme.Sg02, Group: g, N: n, K: k, Y: y}
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

// dleqProof is a non-interactive Chaum-Pedersen proof that
// log_base1(pow1) = log_base2(pow2), using Fiat-Shamir challenge c.
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

// proveDLEQ proves knowledge of x such that pow1 = base1^x and
// pow2 = base2^x, for the same witness x.
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

type schemeFields struct {
	u1    group.Element
	u2    group.Element
	nonce []byte
	proof *dleqProof
}

func encodeFields(f *schemeFields) []byte {
	w := wire.NewWriter()
	w.Bytes(f.u1.ToBytes())
	w.Bytes(f.u2.ToBytes())
	w.Bytes(f.nonce)
	w.Bytes(f.proof.c.Bytes())
	w.Bytes(f.proof.z.Bytes())
	return w.Finish()
}

func decodeFields(g group.Group, data []byte) (*schemeFields, error) {
	r := wire.NewReader(data)
	u1Bytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	u1, err := group.FromBytes(g, u1Bytes, 0)
	if err != nil {
		return nil, err
	}
	u2Bytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	u2, err := group.FromBytes(g, u2Bytes, 0)
	if err != nil {
		return nil, err
	}
	nonce, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	cBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	c, err := bigint.SizedFromBytes(g, cBytes)
	if err != nil {
		return nil, err
	}
	zBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	z, err := bigint.SizedFromBytes(g, zBytes)
	if err != nil {
		return nil, err
	}
	return &schemeFields{u1: u1, u2: u2, nonce: nonce, proof: &dleqProof{c: c, z: z}}, nil
}

// hashPoint derives the ciphertext-bound generator H(U1,body,label)
// used as the second DLEQ base, binding the proof to this ciphertext.
func hashPoint(g group.Group, u1Bytes, body, label []byte) (group.Element, error) {
	hs, err := hashToScalar(g, u1Bytes, body, label)
	if err != nil {
		return nil, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return nil, err
	}
	return gGen.Pow(hs), nil
}

// Encrypt samples r, derives the mask Y^r, and attaches a DLEQ proof
// that U1=g^r and U2=H(U1,body,label)^r share the same exponent.
func Encrypt(pk *keys.PublicKey, msg, label []byte, rng io.Reader) (*ciphertext.Ciphertext, error) {
	g := pk.Group
	r, err := bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return nil, err
	}
	u1 := gGen.Pow(r)
	mask := pk.Y.Pow(r)
	keyMaterial := sha256.Sum256(mask.ToBytes())
	aead, err := chacha20poly1305.New(keyMaterial[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := io.ReadFull(rng, nonce); err != nil {
		return nil, err
	}
	body := aead.Seal(nil, nonce, msg, label)

	hpt, err := hashPoint(g, u1.ToBytes(), body, label)
	if err != nil {
		return nil, err
	}
	u2 := hpt.Pow(r)
	proof, err := proveDLEQ(g, gGen, u1, hpt, u2, r, rng)
	if err != nil {
		return nil, err
	}

	fields := &schemeFields{u1: u1, u2: u2, nonce: nonce, proof: proof}
	ck := sha256.Sum256(u1.ToBytes())
	return &ciphertext.Ciphertext{
		Scheme:     scheme.Sg02,
		Group:      g,
		Label:      label,
		Body:       body,
		CK:         ck[:],
		SchemeData: encodeFields(fields),
	}, nil
}

// VerifyCiphertext recomputes H(U1,body,label) and checks the
// attached DLEQ proof.
func VerifyCiphertext(ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	g := pk.Group
	fields, err := decodeFields(g, ct.SchemeData)
	if err != nil {
		return false, err
	}
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return false, err
	}
	hpt, err := hashPoint(g, fields.u1.ToBytes(), ct.Body, ct.Label)
	if err != nil {
		return false, err
	}
	return verifyDLEQ(g, gGen, fields.u1, hpt, fields.u2, fields.proof)
}

// PartialDecrypt computes d_i = U1^{x_i} together with a DLEQ proof
// that log_g(h_i) = log_{U1}(d_i).
func PartialDecrypt(ct *ciphertext.Ciphertext, sk *keys.PrivateKeyShare, rng io.Reader) (*ciphertext.DecryptionShare, error) {
	g := sk.Public.Group
	fields, err := decodeFields(g, ct.SchemeData)
	if err != nil {
		return nil, err
	}
	d := fields.u1.Pow(sk.Xi)
	gGen, err := group.NewGenerator(g, 0)
	if err != nil {
		return nil, err
	}
	hi := sk.Public.VerificationValues[sk.ID-1]
	proof, err := proveDLEQ(g, gGen, hi, fields.u1, d, sk.Xi, rng)
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter()
	w.Bytes(d.ToBytes())
	w.Bytes(proof.c.Bytes())
	w.Bytes(proof.z.Bytes())
	return &ciphertext.DecryptionShare{
		ID:         sk.ID,
		Group:      g,
		Label:      ct.Label,
		SchemeData: w.Finish(),
	}, nil
}

// VerifyShare checks the share's DLEQ proof against the ciphertext's
// U1 and the share owner's public verification value.
func VerifyShare(share *ciphertext.DecryptionShare, ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.VerificationValues) {
		return false, fmt.Errorf("sg02: share id %d out of range", share.ID)
	}
	g := pk.Group
	fields, err := decodeFields(g, ct.SchemeData)
	if err != nil {
		return false, err
	}
	r := wire.NewReader(share.SchemeData)
	dBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	d, err := group.FromBytes(g, dBytes, 0)
	if err != nil {
		return false, err
	}
	cBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	c, err := bigint.SizedFromBytes(g, cBytes)
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
	return verifyDLEQ(g, gGen, hi, fields.u1, d, &dleqProof{c: c, z: z})
}

// Assemble interpolates the shares to recover Y^r = U1^s and opens the
// AEAD body.
func Assemble(ct *ciphertext.Ciphertext, shares []*ciphertext.DecryptionShare, pk *keys.PublicKey) ([]byte, error) {
	g := pk.Group
	fields, err := decodeFields(g, ct.SchemeData)
	if err != nil {
		return nil, err
	}
	elems := make(map[int]group.Element, len(shares))
	for _, s := range shares {
		r := wire.NewReader(s.SchemeData)
		dBytes, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		d, err := group.FromBytes(g, dBytes, 0)
		if err != nil {
			return nil, err
		}
		elems[s.ID] = d
	}
	mask, err := lagrange.InterpolateElements(g, elems)
	if err != nil {
		return nil, err
	}
	keyMaterial := sha256.Sum256(mask.ToBytes())
	aead, err := chacha20poly1305.New(keyMaterial[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, fields.nonce, ct.Body, ct.Label)
}
