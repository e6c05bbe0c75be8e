package rpc

import (
	"fmt"

	"github.com/cryptobern/thetacrypt-sub001/internal/dispatcher"
	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/internal/executor"
	"github.com/cryptobern/thetacrypt-sub001/internal/instance"
	"github.com/cryptobern/thetacrypt-sub001/internal/keymanager"
	"github.com/cryptobern/thetacrypt-sub001/internal/network"
	"github.com/cryptobern/thetacrypt-sub001/internal/protoadapters"
	"github.com/cryptobern/thetacrypt-sub001/pkg/ciphertext"
	"github.com/cryptobern/thetacrypt-sub001/pkg/events"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/bls04"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/bz03"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/cks05"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/sg02"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes/sh00"
)

// Server is the one place a transport shell (gRPC, HTTP, whatever a
// cmd/ binary wires up) calls into to turn a client request into a
// running protocol instance. It owns no network socket itself; it
// only holds references to the keychain, instance manager and
// dispatcher that do the real work.
type Server struct {
	Keychain  *keymanager.Keychain
	Instances *instance.Manager
	Dispatch  *dispatcher.Dispatcher
	Outbox    executor.Outbox
	Sink      events.Sink
}

func NewServer(kc *keymanager.Keychain, im *instance.Manager, d *dispatcher.Dispatcher, outbox executor.Outbox, sink events.Sink) *Server {
	return &Server{Keychain: kc, Instances: im, Dispatch: d, Outbox: outbox, Sink: sink}
}

func (s *Server) resolveKey(keyID string, sc scheme.Scheme, g group.Group) (*keys.Entry, error) {
	var entry *keys.Entry
	var err error
	if keyID != "" {
		entry, err = s.Keychain.GetKeyByID(keyID)
	} else {
		entry, err = s.Keychain.GetKeyBySchemeAndGroup(sc, g)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrAborted, err)
	}
	return entry, nil
}

// Decrypt deserializes the ciphertext, resolves the decrypting key,
// and registers a new threshold-decryption instance. The instance id
// is derived from the ciphertext's content key, so two clients
// submitting the same ciphertext converge on one instance rather than
// racing two.
func (s *Server) Decrypt(req DecryptRequest) (DecryptResponse, error) {
	ct, err := ciphertext.FromBytes(req.Ciphertext)
	if err != nil {
		return DecryptResponse{}, fmt.Errorf("%w: %v", errs.ErrInvalidCiphertext, err)
	}
	if ct.Scheme.Operation() != scheme.OperationEncryption {
		return DecryptResponse{}, fmt.Errorf("%w: scheme %s is not a cipher", errs.ErrInvalidParams, ct.Scheme)
	}
	entry, err := s.resolveKey(req.KeyID, ct.Scheme, ct.Group)
	if err != nil {
		return DecryptResponse{}, err
	}
	if entry.Private == nil {
		return DecryptResponse{}, fmt.Errorf("%w: no private share for key %s", errs.ErrInvalidParams, entry.ID)
	}

	cipher, err := cipherSchemeFor(ct.Scheme)
	if err != nil {
		return DecryptResponse{}, err
	}
	protocol := protoadapters.NewCipherProtocol(cipher, entry.Public, entry.Private, ct)

	id := instance.AssignID(ct.ContentKey())
	netInbox := s.Dispatch.InsertInstance(id)
	if err := instance.Start(s.Instances, id, ct.Scheme, ct.Group, protocol, protoadapters.UnwrapDecryptionMessage, netInbox, s.Outbox, s.Sink); err != nil {
		s.Dispatch.RemoveInstance(id)
		return DecryptResponse{}, err
	}
	return DecryptResponse{InstanceID: id}, nil
}

// Sign registers a new threshold-signing instance for req.Message
// under the scheme/group req names. Frost, the one interactive
// scheme, uses its own two-round adapter; the rest share
// SignatureProtocol.
func (s *Server) Sign(req SignRequest) (SignResponse, error) {
	if req.Scheme.Operation() != scheme.OperationSignature {
		return SignResponse{}, fmt.Errorf("%w: scheme %s is not a signature scheme", errs.ErrInvalidParams, req.Scheme)
	}
	entry, err := s.resolveKey(req.KeyID, req.Scheme, req.Group)
	if err != nil {
		return SignResponse{}, err
	}
	if entry.Private == nil {
		return SignResponse{}, fmt.Errorf("%w: no private share for key %s", errs.ErrInvalidParams, entry.ID)
	}

	id := instance.AssignID(req.Message)
	netInbox := s.Dispatch.InsertInstance(id)

	if req.Scheme == scheme.Frost {
		protocol := protoadapters.NewFrostProtocol(entry.Public, entry.Private, req.Message)
		g := entry.Public.Group
		unwrap := func(msg network.NetMessage) (protoadapters.FrostMessage, error) {
			return protoadapters.UnwrapFrostMessage(g, msg)
		}
		if err := instance.Start(s.Instances, id, req.Scheme, req.Group, protocol, unwrap, netInbox, s.Outbox, s.Sink); err != nil {
			s.Dispatch.RemoveInstance(id)
			return SignResponse{}, err
		}
		return SignResponse{InstanceID: id}, nil
	}

	sigScheme, err := signatureSchemeFor(req.Scheme)
	if err != nil {
		return SignResponse{}, err
	}
	protocol := protoadapters.NewSignatureProtocol(sigScheme, entry.Public, entry.Private, req.Message, req.Label)
	if err := instance.Start(s.Instances, id, req.Scheme, req.Group, protocol, protoadapters.UnwrapSignatureMessage, netInbox, s.Outbox, s.Sink); err != nil {
		s.Dispatch.RemoveInstance(id)
		return SignResponse{}, err
	}
	return SignResponse{InstanceID: id}, nil
}

// FlipCoin registers a new common-coin instance. The instance id is
// derived from the coin's name, so repeated flips of the same name
// converge on the same instance rather than each starting a fresh
// one.
func (s *Server) FlipCoin(req CoinRequest) (CoinResponse, error) {
	if req.Scheme.Operation() != scheme.OperationCoin {
		return CoinResponse{}, fmt.Errorf("%w: scheme %s is not a coin scheme", errs.ErrInvalidParams, req.Scheme)
	}
	entry, err := s.resolveKey(req.KeyID, req.Scheme, req.Group)
	if err != nil {
		return CoinResponse{}, err
	}
	if entry.Private == nil {
		return CoinResponse{}, fmt.Errorf("%w: no private share for key %s", errs.ErrInvalidParams, entry.ID)
	}
	coinScheme, err := coinSchemeFor(req.Scheme)
	if err != nil {
		return CoinResponse{}, err
	}
	protocol := protoadapters.NewCoinProtocol(coinScheme, entry.Public, entry.Private, req.Name)

	id := instance.AssignID(req.Name)
	netInbox := s.Dispatch.InsertInstance(id)
	if err := instance.Start(s.Instances, id, req.Scheme, req.Group, protocol, protoadapters.UnwrapCoinMessage, netInbox, s.Outbox, s.Sink); err != nil {
		s.Dispatch.RemoveInstance(id)
		return CoinResponse{}, err
	}
	return CoinResponse{InstanceID: id}, nil
}

// GetStatus reports an instance's lifecycle snapshot. ErrInstanceNotFound
// is returned for an id the instance manager has never seen (or has
// already evicted via Remove).
func (s *Server) GetStatus(req StatusRequest) (StatusResponse, error) {
	status, ok := s.Instances.GetInstanceStatus(req.InstanceID)
	if !ok {
		return StatusResponse{}, fmt.Errorf("%w: %s", errs.ErrInstanceNotFound, req.InstanceID)
	}
	resp := StatusResponse{
		Scheme:     status.Scheme,
		Group:      status.Group,
		IsFinished: status.Status == instance.Finished,
		Result:     status.Result,
	}
	if status.ResultErr != nil {
		resp.ErrorMessage = status.ResultErr.Error()
	}
	return resp, nil
}

// GetPublicKeys lists every key this party holds, with no filtering —
// the full set a client can choose a key_id from.
func (s *Server) GetPublicKeys() (GetPublicKeysResponse, error) {
	entries, err := s.Keychain.ListAvailableKeys()
	if err != nil {
		return GetPublicKeysResponse{}, err
	}
	out := make([]PublicKeyEntry, len(entries))
	for i, e := range entries {
		out[i] = PublicKeyEntry{ID: e.ID, Scheme: e.Scheme, Group: e.Group, KeyBytes: e.KeyBytes}
	}
	return GetPublicKeysResponse{Keys: out}, nil
}

func cipherSchemeFor(sc scheme.Scheme) (schemes.CipherScheme, error) {
	switch sc {
	case scheme.Bz03:
		return bz03.Scheme{}, nil
	case scheme.Sg02:
		return sg02.Scheme{}, nil
	default:
		return nil, fmt.Errorf("%w: %s has no cipher implementation", errs.ErrInvalidParams, sc)
	}
}

func signatureSchemeFor(sc scheme.Scheme) (schemes.SignatureScheme, error) {
	switch sc {
	case scheme.Bls04:
		return bls04.Scheme{}, nil
	case scheme.Sh00:
		return sh00.Scheme{}, nil
	default:
		return nil, fmt.Errorf("%w: %s has no single-round signature implementation", errs.ErrInvalidParams, sc)
	}
}

func coinSchemeFor(sc scheme.Scheme) (schemes.CoinScheme, error) {
	switch sc {
	case scheme.Cks05:
		return cks05.Scheme{}, nil
	default:
		return nil, fmt.Errorf("%w: %s has no coin implementation", errs.ErrInvalidParams, sc)
	}
}

