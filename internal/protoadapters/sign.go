package protoadapters

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
)

// SignatureMessage carries one participant's signature share.
type SignatureMessage struct {
	Share *signature.Share
}

func (m SignatureMessage) IsDefault() bool { return m.Share == nil }

func (m SignatureMessage) Wrap(instanceID string) network.NetMessage {
	return network.NetMessage{InstanceID: instanceID, Payload: m.Share.ToBytes(), Channel: network.ChannelGossip}
}

func UnwrapSignatureMessage(msg network.NetMessage) (SignatureMessage, error) {
	share, err := signature.ShareFromBytes(msg.Payload)
	if err != nil {
		return SignatureMessage{}, err
	}
	return SignatureMessage{Share: share}, nil
}

// SignatureProtocol drives one threshold-signing instance for a
// single-round scheme (Bls04 or Sh00): compute this party's share,
// collect and verify peers' shares, assemble once k are valid.
type SignatureProtocol struct {
	scheme schemes.SignatureScheme
	pk     *keys.PublicKey
	sk     *keys.PrivateKeyShare
	msg    []byte
	label  []byte

	validShares []*signature.Share
	seenIDs     map[int]bool
	signed      bool
}

func NewSignatureProtocol(scheme schemes.SignatureScheme, pk *keys.PublicKey, sk *keys.PrivateKeyShare, msg, label []byte) *SignatureProtocol {
	return &SignatureProtocol{scheme: scheme, pk: pk, sk: sk, msg: msg, label: label, seenIDs: make(map[int]bool)}
}

func (p *SignatureProtocol) DoRound() (SignatureMessage, error) {
	share, err := p.scheme.PartialSign(p.msg, p.label, p.sk, rng.OSRandom())
	if err != nil {
		return SignatureMessage{}, err
	}
	p.addOwnShare(share)
	return SignatureMessage{Share: share}, nil
}

func (p *SignatureProtocol) addOwnShare(share *signature.Share) {
	if p.seenIDs[share.ID] {
		return
	}
	p.seenIDs[share.ID] = true
	p.validShares = append(p.validShares, share)
}

func (p *SignatureProtocol) Update(msg SignatureMessage) error {
	share := msg.Share
	if share == nil {
		return fmt.Errorf("protoadapters: empty signature share")
	}
	if p.seenIDs[share.ID] {
		return nil
	}
	ok, err := p.scheme.VerifyShare(share, p.msg, p.pk)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: share %d", errs.ErrInvalidShare, share.ID)
	}
	p.addOwnShare(share)
	return nil
}

func (p *SignatureProtocol) IsReadyForNextRound() bool { return false }

func (p *SignatureProtocol) IsReadyToFinalize() bool {
	return !p.signed && len(p.validShares) >= p.pk.K
}

func (p *SignatureProtocol) Finalize() ([]byte, error) {
	sig, err := p.scheme.Assemble(p.validShares, p.msg, p.pk)
	if err != nil {
		return nil, err
	}
	p.signed = true
	return sig.ToBytes(), nil
}
