package protoadapters

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/frost"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// frostRound tags which of Frost's two rounds a FrostMessage carries.
const (
	frostRoundCommitment = 1
	frostRoundShare      = 2
)

// FrostMessage is Frost's round-tagged message: round 1 carries a
// nonce commitment, round 2 a signature share. Unlike the other
// schemes' single message type, the executor calls DoRound twice for
// Frost, once per round, so one Go type must carry both shapes.
type FrostMessage struct {
	Round      int
	Commitment *frost.NonceCommitment
	Share      *signature.Share
}

func (m FrostMessage) IsDefault() bool { return m.Round == 0 }

func (m FrostMessage) Wrap(instanceID string) network.NetMessage {
	w := wire.NewWriter()
	w.Byte(byte(m.Round))
	switch m.Round {
	case frostRoundCommitment:
		w.Bytes(frost.EncodeCommitment(m.Commitment))
	case frostRoundShare:
		w.Bytes(m.Share.ToBytes())
	default:
		panic("protoadapters: frost message has no round tag")
	}
	return network.NetMessage{InstanceID: instanceID, Payload: w.Finish(), Channel: network.ChannelGossip}
}

// UnwrapFrostMessage decodes a NetMessage back into a FrostMessage.
// g is needed to decode the embedded commitment's curve points.
func UnwrapFrostMessage(g group.Group, msg network.NetMessage) (FrostMessage, error) {
	r := wire.NewReader(msg.Payload)
	round, err := r.Byte()
	if err != nil {
		return FrostMessage{}, err
	}
	body, err := r.Bytes()
	if err != nil {
		return FrostMessage{}, err
	}
	switch int(round) {
	case frostRoundCommitment:
		commitment, err := frost.DecodeCommitment(g, body)
		if err != nil {
			return FrostMessage{}, err
		}
		return FrostMessage{Round: frostRoundCommitment, Commitment: commitment}, nil
	case frostRoundShare:
		share, err := signature.ShareFromBytes(body)
		if err != nil {
			return FrostMessage{}, err
		}
		return FrostMessage{Round: frostRoundShare, Share: share}, nil
	default:
		return FrostMessage{}, fmt.Errorf("protoadapters: frost message has no round tag")
	}
}

// FrostProtocol drives one Frost signing instance through its two
// rounds: publish a nonce commitment, then once k commitments (its
// own included) are known, compute and publish its signature share.
type FrostProtocol struct {
	pk    *keys.PublicKey
	sk    *keys.PrivateKeyShare
	msg   []byte

	nonces      *frost.NoncePair
	commitments map[int]*frost.NonceCommitment
	round       int // 0 = not started, 1 = commitment sent, 2 = share sent

	seenShareIDs map[int]bool
	validShares  []*signature.Share
	signed       bool
}

func NewFrostProtocol(pk *keys.PublicKey, sk *keys.PrivateKeyShare, msg []byte) *FrostProtocol {
	return &FrostProtocol{
		pk:           pk,
		sk:           sk,
		msg:          msg,
		commitments:  make(map[int]*frost.NonceCommitment),
		seenShareIDs: make(map[int]bool),
	}
}

func (p *FrostProtocol) DoRound() (FrostMessage, error) {
	switch p.round {
	case 0:
		nonces, commitment, err := frost.GenerateNonces(p.pk.Group, p.sk.ID, rng.OSRandom())
		if err != nil {
			return FrostMessage{}, err
		}
		p.nonces = nonces
		p.commitments[commitment.ID] = commitment
		p.round = frostRoundCommitment
		return FrostMessage{Round: frostRoundCommitment, Commitment: commitment}, nil
	case frostRoundCommitment:
		share, err := p.signRound2()
		if err != nil {
			return FrostMessage{}, err
		}
		p.round = frostRoundShare
		return FrostMessage{Round: frostRoundShare, Share: share}, nil
	default:
		return FrostMessage{}, nil
	}
}

func (p *FrostProtocol) signRound2() (*signature.Share, error) {
	list := make([]*frost.NonceCommitment, 0, len(p.commitments))
	for _, c := range p.commitments {
		list = append(list, c)
	}
	share, err := frost.PartialSign(p.pk, p.sk, p.nonces, p.msg, list)
	if err != nil {
		return nil, err
	}
	p.seenShareIDs[share.ID] = true
	p.validShares = append(p.validShares, share)
	return share, nil
}

func (p *FrostProtocol) Update(msg FrostMessage) error {
	switch msg.Round {
	case frostRoundCommitment:
		c := msg.Commitment
		if c == nil {
			return fmt.Errorf("protoadapters: empty frost commitment")
		}
		if _, ok := p.commitments[c.ID]; ok {
			return nil
		}
		p.commitments[c.ID] = c
		return nil
	case frostRoundShare:
		share := msg.Share
		if share == nil {
			return fmt.Errorf("protoadapters: empty frost share")
		}
		if p.seenShareIDs[share.ID] {
			return nil
		}
		list := make([]*frost.NonceCommitment, 0, len(p.commitments))
		for _, c := range p.commitments {
			list = append(list, c)
		}
		ok, err := frost.VerifyShare(p.pk, share, p.msg, list)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: share %d", errs.ErrInvalidShare, share.ID)
		}
		p.seenShareIDs[share.ID] = true
		p.validShares = append(p.validShares, share)
		return nil
	default:
		return fmt.Errorf("protoadapters: frost message has no round tag")
	}
}

// IsReadyForNextRound reports whether round 1 has collected enough
// commitments (its own plus k-1 peers') to compute round 2's share.
func (p *FrostProtocol) IsReadyForNextRound() bool {
	return p.round == frostRoundCommitment && len(p.commitments) >= p.pk.K
}

func (p *FrostProtocol) IsReadyToFinalize() bool {
	return !p.signed && p.round == frostRoundShare && len(p.validShares) >= p.pk.K
}

func (p *FrostProtocol) Finalize() ([]byte, error) {
	list := make([]*frost.NonceCommitment, 0, len(p.commitments))
	for _, c := range p.commitments {
		list = append(list, c)
	}
	sig, err := frost.Aggregate(p.pk, p.validShares, p.msg, list)
	if err != nil {
		return nil, err
	}
	p.signed = true
	return sig.ToBytes(), nil
}
