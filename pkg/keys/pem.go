package keys

import (
	"encoding/base64"
	"encoding/pem"
	"fmt"
)

const (
	pemTypePublicKey  = "THETACRYPT PUBLIC KEY"
	pemTypePrivateKey = "THETACRYPT PRIVATE KEY SHARE"
)

func base64URLEncode(b []byte) string {
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b)
}

// ToPEM encodes the public key's canonical bytes as a PEM block.
func (pk *PublicKey) ToPEM() (string, error) {
	b, err := pk.ToBytes()
	if err != nil {
		return "", err
	}
	block := &pem.Block{Type: pemTypePublicKey, Bytes: b}
	return string(pem.EncodeToMemory(block)), nil
}

// PublicKeyFromPEM decodes a PEM-encoded public key.
func PublicKeyFromPEM(data string) (*PublicKey, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil || block.Type != pemTypePublicKey {
		return nil, fmt.Errorf("keys: not a %s PEM block", pemTypePublicKey)
	}
	return PublicKeyFromBytes(block.Bytes)
}

// ToPEM encodes the private share's canonical bytes as a PEM block.
func (sk *PrivateKeyShare) ToPEM() (string, error) {
	b, err := sk.ToBytes()
	if err != nil {
		return "", err
	}
	block := &pem.Block{Type: pemTypePrivateKey, Bytes: b}
	return string(pem.EncodeToMemory(block)), nil
}

// PrivateKeyShareFromPEM decodes a PEM-encoded private share.
func PrivateKeyShareFromPEM(data string) (*PrivateKeyShare, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil || block.Type != pemTypePrivateKey {
		return nil, fmt.Errorf("keys: not a %s PEM block", pemTypePrivateKey)
	}
	return PrivateKeyShareFromBytes(block.Bytes)
}
