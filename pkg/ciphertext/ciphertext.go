// Package ciphertext defines the scheme-tagged ciphertext envelope
// and decryption share shared by the Bz03 and Sg02 threshold ciphers.
// Both types are opaque to non-scheme code: everything beyond the
// label and scheme tag is carried as scheme-specific bytes that only
// the matching scheme package interprets.
package ciphertext

import (
	"crypto/sha256"

	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Ciphertext is the envelope produced by Encrypt and consumed by
// VerifyCiphertext/PartialDecrypt/Assemble.
type Ciphertext struct {
	Scheme scheme.Scheme
	Group  group.Group
	Label  []byte
	Body   []byte // the symmetrically-encrypted message
	// CK is the content key mask used to derive the instance id
	// (spec.md §4.4/§6): for both Bz03 and Sg02, the 32-byte SHA-256
	// of the encapsulated randomness.
	CK []byte
	// SchemeData holds the scheme-specific fields from the wire
	// format in spec.md §6 (group elements, scalars, proof material),
	// wire-encoded by the owning scheme package.
	SchemeData []byte
}

// ContentKey returns the ciphertext's content-key mask, the input to
// the instance-id hash for Decryption requests.
func (c *Ciphertext) ContentKey() []byte { return c.CK }

// ToBytes serializes the envelope to the length-prefixed wire format
// from spec.md §6: scheme_code, group_code, label, body, ck, then the
// scheme-specific tail. The threshold k is not part of the envelope.
func (c *Ciphertext) ToBytes() ([]byte, error) {
	w := wire.NewWriter()
	w.Byte(c.Scheme.Code())
	w.Byte(c.Group.Code())
	w.Bytes(c.Label)
	w.Bytes(c.Body)
	w.Bytes(c.CK)
	w.Bytes(c.SchemeData)
	return w.Finish(), nil
}

// FromBytes decodes the form produced by ToBytes.
func FromBytes(data []byte) (*Ciphertext, error) {
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
	label, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	body, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	ck, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	tail, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return &Ciphertext{Scheme: s, Group: g, Label: label, Body: body, CK: ck, SchemeData: tail}, nil
}

// DecryptionShare is one participant's contribution toward assembling
// the plaintext, carrying enough to be verified alone against the
// ciphertext and public key.
type DecryptionShare struct {
	ID         int
	Group      group.Group
	Label      []byte
	SchemeData []byte // partial decryption value + NIZK proof material
}

// ToBytes serializes the share in the length-prefixed share wire
// format: group_code, share_id, label, scheme-specific fields.
func (s *DecryptionShare) ToBytes() ([]byte, error) {
	w := wire.NewWriter()
	w.Byte(s.Group.Code())
	w.Uint16(uint16(s.ID))
	w.Bytes(s.Label)
	w.Bytes(s.SchemeData)
	return w.Finish(), nil
}

// DecryptionShareFromBytes decodes the form produced by ToBytes.
func DecryptionShareFromBytes(data []byte) (*DecryptionShare, error) {
	r := wire.NewReader(data)
	gCode, err := r.Byte()
	if err != nil {
		return nil, err
	}
	g, err := group.FromCode(gCode)
	if err != nil {
		return nil, err
	}
	id16, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	label, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	tail, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return &DecryptionShare{ID: int(id16), Group: g, Label: label, SchemeData: tail}, nil
}

// FingerprintCK derives a 32-byte content-key mask from a label and a
// scheme-specific seed, used by Sg02/Bz03 when building a Ciphertext.
func FingerprintCK(label, seed []byte) []byte {
	h := sha256.New()
	h.Write(label)
	h.Write(seed)
	sum := h.Sum(nil)
	return sum[:]
}
