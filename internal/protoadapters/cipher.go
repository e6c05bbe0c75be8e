// Package protoadapters wires each concrete scheme into
// round.Protocol[T], the capability internal/executor drives. One
// adapter type per Operation (cipher, signature, coin) covers Bz03,
// Sg02, Bls04, Sh00 and Cks05; Frost gets its own two-round adapter
// since it is the only interactive scheme. This mirrors the source's
// ThresholdCipherProtocol/ThresholdSignatureProtocol/ThresholdCoinProtocol
// (src/core/protocols/src/threshold_*/protocol.rs), one struct per
// operation rather than per scheme.
package protoadapters

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/pkg/ciphertext"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/rng"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
)

// DecryptionMessage is the wire message a cipher adapter sends and
// receives: one participant's decryption share, or the zero value for
// "nothing to send" (never actually emitted by CipherProtocol, which
// always has a share to contribute once the ciphertext validates).
type DecryptionMessage struct {
	Share *ciphertext.DecryptionShare
}

func (m DecryptionMessage) IsDefault() bool { return m.Share == nil }

func (m DecryptionMessage) Wrap(instanceID string) network.NetMessage {
	payload, err := m.Share.ToBytes()
	if err != nil {
		panic(fmt.Sprintf("protoadapters: decryption share did not serialize: %v", err))
	}
	return network.NetMessage{InstanceID: instanceID, Payload: payload, Channel: network.ChannelGossip}
}

// UnwrapDecryptionMessage decodes a NetMessage's payload back into a
// DecryptionMessage.
func UnwrapDecryptionMessage(msg network.NetMessage) (DecryptionMessage, error) {
	share, err := ciphertext.DecryptionShareFromBytes(msg.Payload)
	if err != nil {
		return DecryptionMessage{}, err
	}
	return DecryptionMessage{Share: share}, nil
}

// CipherProtocol drives one threshold-decryption instance: it
// validates the ciphertext before computing its own share (the
// "ciphertext-first validation" rule), then collects and verifies
// peer shares until k are valid, at which point it can assemble.
type CipherProtocol struct {
	scheme schemes.CipherScheme
	pk     *keys.PublicKey
	sk     *keys.PrivateKeyShare
	ct     *ciphertext.Ciphertext

	validShares []*ciphertext.DecryptionShare
	seenIDs     map[int]bool
	decrypted   bool
	plaintext   []byte
}

// NewCipherProtocol constructs the adapter for one running decryption
// instance. sk is this party's own share; it contributes a share the
// first time DoRound runs.
func NewCipherProtocol(scheme schemes.CipherScheme, pk *keys.PublicKey, sk *keys.PrivateKeyShare, ct *ciphertext.Ciphertext) *CipherProtocol {
	return &CipherProtocol{scheme: scheme, pk: pk, sk: sk, ct: ct, seenIDs: make(map[int]bool)}
}

// DoRound verifies the ciphertext before ever computing or emitting a
// share; an invalid ciphertext fails the whole instance immediately,
// per spec.md's ciphertext-first-validation rule.
func (p *CipherProtocol) DoRound() (DecryptionMessage, error) {
	ok, err := p.scheme.VerifyCiphertext(p.ct, p.pk)
	if err != nil {
		return DecryptionMessage{}, err
	}
	if !ok {
		return DecryptionMessage{}, errs.ErrInvalidCiphertext
	}
	share, err := p.scheme.PartialDecrypt(p.ct, p.sk, rng.OSRandom())
	if err != nil {
		return DecryptionMessage{}, err
	}
	p.addOwnShare(share)
	return DecryptionMessage{Share: share}, nil
}

func (p *CipherProtocol) addOwnShare(share *ciphertext.DecryptionShare) {
	if p.seenIDs[share.ID] {
		return
	}
	p.seenIDs[share.ID] = true
	p.validShares = append(p.validShares, share)
}

// Update validates an inbound share and records it, silently dropping
// a duplicate share id rather than erroring, per spec.md's dedup rule.
func (p *CipherProtocol) Update(msg DecryptionMessage) error {
	share := msg.Share
	if share == nil {
		return fmt.Errorf("protoadapters: empty decryption share")
	}
	if p.seenIDs[share.ID] {
		return nil
	}
	ok, err := p.scheme.VerifyShare(share, p.ct, p.pk)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: share %d", errs.ErrInvalidShare, share.ID)
	}
	p.addOwnShare(share)
	return nil
}

func (p *CipherProtocol) IsReadyForNextRound() bool { return false }

func (p *CipherProtocol) IsReadyToFinalize() bool {
	return !p.decrypted && len(p.validShares) >= p.pk.K
}

func (p *CipherProtocol) Finalize() ([]byte, error) {
	plaintext, err := p.scheme.Assemble(p.ct, p.validShares, p.pk)
	if err != nil {
		return nil, err
	}
	p.decrypted = true
	p.plaintext = plaintext
	return plaintext, nil
}
