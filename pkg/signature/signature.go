// Package signature defines the envelopes shared by the signature
// schemes (Bls04, Frost, Sh00) and the coin scheme (Cks05): the
// assembled Signature, the per-participant SignatureShare, and the
// CoinShare.
package signature

import (
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Signature is the assembled scheme output. Label carries whatever
// label the shares it was assembled from were bound to, so Verify can
// reproduce the same digest the partial signers hashed rather than
// guessing the label was empty.
type Signature struct {
	Scheme scheme.Scheme
	Group  group.Group
	Label  []byte
	Bytes  []byte
}

func (s *Signature) ToBytes() []byte {
	w := wire.NewWriter()
	w.Byte(s.Scheme.Code())
	w.Byte(s.Group.Code())
	w.Bytes(s.Label)
	w.Bytes(s.Bytes)
	return w.Finish()
}

func SignatureFromBytes(data []byte) (*Signature, error) {
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
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return &Signature{Scheme: s, Group: g, Label: label, Bytes: b}, nil
}

// Share is one participant's signature share.
type Share struct {
	ID         int
	Group      group.Group
	Label      []byte
	SchemeData []byte
}

func (s *Share) ToBytes() []byte {
	w := wire.NewWriter()
	w.Byte(s.Group.Code())
	w.Uint16(uint16(s.ID))
	w.Bytes(s.Label)
	w.Bytes(s.SchemeData)
	return w.Finish()
}

func ShareFromBytes(data []byte) (*Share, error) {
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
	return &Share{ID: int(id16), Group: g, Label: label, SchemeData: tail}, nil
}

// CoinShare is one participant's contribution to a common-coin flip.
type CoinShare struct {
	ID         int
	Group      group.Group
	Name       []byte
	SchemeData []byte
}

func (s *CoinShare) ToBytes() []byte {
	w := wire.NewWriter()
	w.Byte(s.Group.Code())
	w.Uint16(uint16(s.ID))
	w.Bytes(s.Name)
	w.Bytes(s.SchemeData)
	return w.Finish()
}

func CoinShareFromBytes(data []byte) (*CoinShare, error) {
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
	name, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	tail, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return &CoinShare{ID: int(id16), Group: g, Name: name, SchemeData: tail}, nil
}
