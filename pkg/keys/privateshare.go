package keys

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// PrivateKeyShare is one participant's share of a threshold key. It
// carries its public key by value, per the ownership design in
// spec.md §9.
type PrivateKeyShare struct {
	ID     int // share index in [1, N]
	Public *PublicKey

	// Xi is the DL share scalar; nil for RSA schemes.
	Xi *bigint.Sized
	// RSAXi is the RSA share of the private exponent; nil for DL
	// schemes.
	RSAXi *bigint.Unbounded
}

// ToBytes serializes the private share to its canonical wire form.
func (sk *PrivateKeyShare) ToBytes() ([]byte, error) {
	pkBytes, err := sk.Public.ToBytes()
	if err != nil {
		return nil, err
	}
	w := wire.NewWriter()
	w.Uint16(uint16(sk.ID))
	w.Bytes(pkBytes)
	if sk.Public.Group.IsRSA() {
		w.Bytes(sk.RSAXi.Bytes())
	} else {
		w.Bytes(sk.Xi.Bytes())
	}
	return w.Finish(), nil
}

// PrivateKeyShareFromBytes decodes the form produced by ToBytes.
func PrivateKeyShareFromBytes(data []byte) (*PrivateKeyShare, error) {
	r := wire.NewReader(data)
	id16, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pkBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	pk, err := PublicKeyFromBytes(pkBytes)
	if err != nil {
		return nil, fmt.Errorf("keys: decoding embedded public key: %w", err)
	}
	xiBytes, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	sk := &PrivateKeyShare{ID: int(id16), Public: pk}
	if pk.Group.IsRSA() {
		sk.RSAXi = bigint.UnboundedFromBytes(xiBytes)
	} else {
		sk.Xi, err = bigint.SizedFromBytes(pk.Group, xiBytes)
		if err != nil {
			return nil, err
		}
	}
	return sk, nil
}

// Equal reports whether two private shares are byte-identical, used
// by the round-trip property tests.
func (sk *PrivateKeyShare) Equal(other *PrivateKeyShare) bool {
	a, err1 := sk.ToBytes()
	b, err2 := other.ToBytes()
	if err1 != nil || err2 != nil {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
