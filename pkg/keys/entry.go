package keys

import (
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
)

// KeyType distinguishes a persisted entry holding a private share
// from one holding only a public key.
type KeyType string

const (
	KeyTypeSecret KeyType = "secret"
	KeyTypePublic KeyType = "public"
)

// Entry is one row of the keychain: a content-addressed id, a
// default-for-operation flag, and either a public key alone or a
// private share (which embeds its own public key by value).
type Entry struct {
	ID        string
	IsDefault bool
	Public    *PublicKey
	Private   *PrivateKeyShare // nil for a public-only entry
}

// KeyType reports whether this entry holds a private share.
func (e *Entry) KeyType() KeyType {
	if e.Private != nil {
		return KeyTypeSecret
	}
	return KeyTypePublic
}

func (e *Entry) Scheme() scheme.Scheme { return e.Public.Scheme }
func (e *Entry) Group() group.Group    { return e.Public.Group }
func (e *Entry) Operation() scheme.Operation {
	return e.Public.Scheme.Operation()
}

// PublicKeyEntry is the shape returned by ListAvailableKeys /
// GetPublicKeys: never exposes private material.
type PublicKeyEntry struct {
	ID        string
	Scheme    scheme.Scheme
	Group     group.Group
	KeyBytes  []byte
	IsDefault bool
}

// NewPublicEntry builds the public-facing listing row for an Entry.
func (e *Entry) NewPublicEntry() (*PublicKeyEntry, error) {
	b, err := e.Public.ToBytes()
	if err != nil {
		return nil, err
	}
	return &PublicKeyEntry{
		ID:        e.ID,
		Scheme:    e.Scheme(),
		Group:     e.Group(),
		KeyBytes:  b,
		IsDefault: e.IsDefault,
	}, nil
}
