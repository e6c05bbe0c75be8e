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

// CoinMessage carries one participant's common-coin share.
type CoinMessage struct {
	Share *signature.CoinShare
}

func (m CoinMessage) IsDefault() bool { return m.Share == nil }

func (m CoinMessage) Wrap(instanceID string) network.NetMessage {
	// Cks05's shares must be delivered in the same relative order to
	// every honest party so a network partition can't make two
	// parties compute different outcome bits from different subsets;
	// route over TotalOrder rather than best-effort Gossip.
	return network.NetMessage{InstanceID: instanceID, Payload: m.Share.ToBytes(), Channel: network.ChannelTotalOrder}
}

func UnwrapCoinMessage(msg network.NetMessage) (CoinMessage, error) {
	share, err := signature.CoinShareFromBytes(msg.Payload)
	if err != nil {
		return CoinMessage{}, err
	}
	return CoinMessage{Share: share}, nil
}

// CoinProtocol drives one common-coin flip to completion.
type CoinProtocol struct {
	scheme schemes.CoinScheme
	pk     *keys.PublicKey
	sk     *keys.PrivateKeyShare
	name   []byte

	validShares []*signature.CoinShare
	seenIDs     map[int]bool
	flipped     bool
}

func NewCoinProtocol(scheme schemes.CoinScheme, pk *keys.PublicKey, sk *keys.PrivateKeyShare, name []byte) *CoinProtocol {
	return &CoinProtocol{scheme: scheme, pk: pk, sk: sk, name: name, seenIDs: make(map[int]bool)}
}

func (p *CoinProtocol) DoRound() (CoinMessage, error) {
	share, err := p.scheme.CreateShare(p.name, p.sk, rng.OSRandom())
	if err != nil {
		return CoinMessage{}, err
	}
	p.addOwnShare(share)
	return CoinMessage{Share: share}, nil
}

func (p *CoinProtocol) addOwnShare(share *signature.CoinShare) {
	if p.seenIDs[share.ID] {
		return
	}
	p.seenIDs[share.ID] = true
	p.validShares = append(p.validShares, share)
}

func (p *CoinProtocol) Update(msg CoinMessage) error {
	share := msg.Share
	if share == nil {
		return fmt.Errorf("protoadapters: empty coin share")
	}
	if p.seenIDs[share.ID] {
		return nil
	}
	ok, err := p.scheme.VerifyShare(share, p.name, p.pk)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: share %d", errs.ErrInvalidShare, share.ID)
	}
	p.addOwnShare(share)
	return nil
}

func (p *CoinProtocol) IsReadyForNextRound() bool { return false }

func (p *CoinProtocol) IsReadyToFinalize() bool {
	return !p.flipped && len(p.validShares) >= p.pk.K
}

func (p *CoinProtocol) Finalize() ([]byte, error) {
	bit, err := p.scheme.Assemble(p.validShares, p.name, p.pk)
	if err != nil {
		return nil, err
	}
	p.flipped = true
	return []byte{bit}, nil
}
