// Package keys implements the per-scheme PublicKey / PrivateKeyShare
// variants, their canonical and PEM serialization, and the
// content-addressed KeyEntry the keychain stores them under.
package keys

import (
	"crypto/sha256"
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// PublicKey is the scheme-tagged public key shared by every share
// under one (scheme, group, k, n) key generation.
type PublicKey struct {
	Scheme scheme.Scheme
	Group  group.Group
	N      int
	K      int

	// Y is the public value g^s for DL schemes; nil for RSA schemes.
	Y group.Element
	// VerificationValues holds h_i = g^{s_i} for i in [1,N], indexed
	// 0..N-1, for DL schemes; nil for RSA schemes.
	VerificationValues []group.Element

	// RSA fields, populated only when Group.IsRSA().
	RSAModulus          *bigint.Unbounded
	RSAPublicExponent   *bigint.Unbounded
	RSAVerificationBase *bigint.Unbounded
	RSAVerification     []*bigint.Unbounded
}

// ToBytes serializes the public key to its canonical wire form, a
// self-describing sequence prefixed by the scheme and group codes.
func (pk *PublicKey) ToBytes() ([]byte, error) {
	w := wire.NewWriter()
	w.Byte(pk.Scheme.Code())
	w.Byte(pk.Group.Code())
	w.Uint16(uint16(pk.N))
	w.Uint16(uint16(pk.K))

	if pk.Group.IsRSA() {
		w.Bytes(pk.RSAModulus.Bytes())
		w.Bytes(pk.RSAPublicExponent.Bytes())
		w.Bytes(pk.RSAVerificationBase.Bytes())
		w.Uint16(uint16(len(pk.RSAVerification)))
		for _, v := range pk.RSAVerification {
			w.Bytes(v.Bytes())
		}
		return w.Finish(), nil
	}

	w.Bytes(pk.Y.ToBytes())
	w.Uint16(uint16(len(pk.VerificationValues)))
	for _, v := range pk.VerificationValues {
		w.Bytes(v.ToBytes())
	}
	return w.Finish(), nil
}

// PublicKeyFromBytes decodes the form produced by ToBytes.
func PublicKeyFromBytes(data []byte) (*PublicKey, error) {
	r := wire.NewReader(data)
	sCode, err := r.Byte()
	if err != nil {
		return nil, err
	}
	s, err := scheme.FromCode(sCode)
	if err != nil {
		return nil, err
	}
	gCode, err := r.Byte()
	if err != nil {
		return nil, err
	}
	g, err := group.FromCode(gCode)
	if err != nil {
		return nil, err
	}
	n16, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	k16, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pk := &PublicKey{Scheme: s, Group: g, N: int(n16), K: int(k16)}

	if g.IsRSA() {
		modBytes, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		expBytes, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		baseBytes, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		pk.RSAModulus = bigint.UnboundedFromBytes(modBytes)
		pk.RSAPublicExponent = bigint.UnboundedFromBytes(expBytes)
		pk.RSAVerificationBase = bigint.UnboundedFromBytes(baseBytes)
		count, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		pk.RSAVerification = make([]*bigint.Unbounded, count)
		for i := range pk.RSAVerification {
			vb, err := r.Bytes()
			if err != nil {
				return nil, err
			}
			pk.RSAVerification[i] = bigint.UnboundedFromBytes(vb)
		}
		return pk, nil
	}

	yBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	index := byte(0)
	if g.IsPairing() && (s == scheme.Bz03 || s == scheme.Bls04) {
		index = 1 // Bz03 and Bls04 keep Y and every h_i in G2.
	}
	pk.Y, err = group.FromBytes(g, yBytes, index)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding public value: %w", err)
	}
	count, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pk.VerificationValues = make([]group.Element, count)
	for i := range pk.VerificationValues {
		vb, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		pk.VerificationValues[i], err = group.FromBytes(g, vb, index)
		if err != nil {
			return nil, err
		}
	}
	return pk, nil
}

// ContentID is the base64url(sha256(pk_bytes)) identifier that all
// peers holding the same keypair agree on without coordination.
func (pk *PublicKey) ContentID() (string, error) {
	b, err := pk.ToBytes()
	if err != nil {
		return "", err
	}
	return ContentAddress(b), nil
}

// ContentAddress hashes arbitrary canonical key bytes into the id
// format used throughout the keychain.
func ContentAddress(canonicalBytes []byte) string {
	sum := sha256.Sum256(canonicalBytes)
	return base64URLEncode(sum[:])
}
