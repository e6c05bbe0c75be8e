// Package keymanager owns the keychain: the set of key entries a
// party holds, one default per Operation, persisted as JSON with PEM
// bodies. It is the Go counterpart of the source's state_manager.rs,
// narrowed to the key-storage commands spec.md assigns it (ListAvailableKeys,
// GetKeyById, GetKeyBySchemeAndGroup) plus the Frost nonce precompute
// pool described in §4.6.
package keymanager

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/cryptobern/thetacrypt-sub001/internal/errs"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
)

// Keychain owns every key entry a party holds. Access is always
// through its methods; there is no exported lock, matching the
// source's rule that the keychain is owned exclusively by one task.
type Keychain struct {
	mu       sync.RWMutex
	entries  map[string]*keys.Entry // by content-addressed id
	defaults map[scheme.Operation]string
}

func NewKeychain() *Keychain {
	return &Keychain{
		entries:  make(map[string]*keys.Entry),
		defaults: make(map[scheme.Operation]string),
	}
}

// Insert adds entry to the keychain. A duplicate content-addressed id
// is rejected. If entry's operation has no existing default, entry
// becomes the default for that operation.
func (k *Keychain) Insert(entry *keys.Entry) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, exists := k.entries[entry.ID]; exists {
		return fmt.Errorf("keymanager: entry %s already exists", entry.ID)
	}
	op := entry.Operation()
	if _, hasDefault := k.defaults[op]; !hasDefault {
		entry.IsDefault = true
		k.defaults[op] = entry.ID
	} else {
		entry.IsDefault = false
	}
	k.entries[entry.ID] = entry
	return nil
}

// ListAvailableKeys returns every entry's public-facing listing row.
func (k *Keychain) ListAvailableKeys() ([]*keys.PublicKeyEntry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]*keys.PublicKeyEntry, 0, len(k.entries))
	for _, e := range k.entries {
		pub, err := e.NewPublicEntry()
		if err != nil {
			return nil, err
		}
		out = append(out, pub)
	}
	return out, nil
}

// GetKeyByID returns the entry whose content-addressed id matches, or
// ErrKeyNotFound.
func (k *Keychain) GetKeyByID(id string) (*keys.Entry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	e, ok := k.entries[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrKeyNotFound, id)
	}
	return e, nil
}

// GetKeyBySchemeAndGroup filters entries matching (s, g): a single
// match is returned outright; among several, the one marked default
// is returned; zero or more than one default candidate is
// ErrAmbiguous.
func (k *Keychain) GetKeyBySchemeAndGroup(s scheme.Scheme, g group.Group) (*keys.Entry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	var candidates []*keys.Entry
	for _, e := range k.entries {
		if e.Scheme() == s && e.Group() == g {
			candidates = append(candidates, e)
		}
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: no key for %s/%s", errs.ErrKeyNotFound, s, g)
	case 1:
		return candidates[0], nil
	}
	var def *keys.Entry
	for _, c := range candidates {
		if c.IsDefault {
			if def != nil {
				return nil, fmt.Errorf("%w: multiple default keys for %s/%s", errs.ErrAmbiguous, s, g)
			}
			def = c
		}
	}
	if def == nil {
		return nil, fmt.Errorf("%w: no default key for %s/%s", errs.ErrAmbiguous, s, g)
	}
	return def, nil
}

// persistedEntry is the JSON-on-disk shape from spec.md §4.6: id,
// key_type, group, scheme, operation, and the PEM body.
type persistedEntry struct {
	ID        string `json:"id"`
	KeyType   string `json:"key_type"`
	Group     string `json:"group"`
	Scheme    string `json:"scheme"`
	Operation string `json:"operation"`
	Key       string `json:"key"`
	IsDefault bool   `json:"is_default"`
}

// Save serializes the keychain to path as a JSON array of
// persistedEntry rows.
func (k *Keychain) Save(path string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	rows := make([]persistedEntry, 0, len(k.entries))
	for _, e := range k.entries {
		var pem string
		var err error
		if e.Private != nil {
			pem, err = e.Private.ToPEM()
		} else {
			pem, err = e.Public.ToPEM()
		}
		if err != nil {
			return err
		}
		rows = append(rows, persistedEntry{
			ID:        e.ID,
			KeyType:   string(e.KeyType()),
			Group:     e.Group().String(),
			Scheme:    e.Scheme().String(),
			Operation: e.Operation().String(),
			Key:       pem,
			IsDefault: e.IsDefault,
		})
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Load reads path and populates the keychain. An entry whose PEM body
// fails to parse is logged and skipped; the rest still load, per
// spec.md's tolerant-load rule.
func Load(path string) (*Keychain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []persistedEntry
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	k := NewKeychain()
	for _, row := range rows {
		entry, err := decodeEntry(row)
		if err != nil {
			log.Printf("keymanager: skipping unparsable entry %s: %v", row.ID, err)
			continue
		}
		k.entries[entry.ID] = entry
		if entry.IsDefault {
			k.defaults[entry.Operation()] = entry.ID
		}
	}
	return k, nil
}

func decodeEntry(row persistedEntry) (*keys.Entry, error) {
	if row.KeyType == string(keys.KeyTypeSecret) {
		sk, err := keys.PrivateKeyShareFromPEM(row.Key)
		if err != nil {
			return nil, err
		}
		return &keys.Entry{ID: row.ID, IsDefault: row.IsDefault, Public: sk.Public, Private: sk}, nil
	}
	pk, err := keys.PublicKeyFromPEM(row.Key)
	if err != nil {
		return nil, err
	}
	return &keys.Entry{ID: row.ID, IsDefault: row.IsDefault, Public: pk}, nil
}
