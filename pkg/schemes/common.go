// Package schemes collects the capability interfaces shared by the six
// concrete threshold scheme packages (bz03, sg02, bls04, cks05, frost,
// sh00). Each scheme package except frost implements whichever of
// CipherScheme, SignatureScheme or CoinScheme matches its Operation;
// every package, frost included, has a Generate constructor whose
// signature is uniform enough not to need its own interface method.
package schemes

import (
	"io"

	"github.com/cryptobern/thetacrypt-sub001/pkg/ciphertext"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
)

// CipherScheme is implemented by Bz03 and Sg02.
type CipherScheme interface {
	Encrypt(pk *keys.PublicKey, msg, label []byte, rng io.Reader) (*ciphertext.Ciphertext, error)
	VerifyCiphertext(ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error)
	PartialDecrypt(ct *ciphertext.Ciphertext, sk *keys.PrivateKeyShare, rng io.Reader) (*ciphertext.DecryptionShare, error)
	VerifyShare(share *ciphertext.DecryptionShare, ct *ciphertext.Ciphertext, pk *keys.PublicKey) (bool, error)
	Assemble(ct *ciphertext.Ciphertext, shares []*ciphertext.DecryptionShare, pk *keys.PublicKey) ([]byte, error)
}

// SignatureScheme is implemented by Bls04 and Sh00. Frost does not
// implement it: its two-round functions (GenerateNonces, PartialSign,
// VerifyShare, Aggregate, Verify) take the commitment list as an extra
// argument and are driven by internal/protoadapters' FrostProtocol.
type SignatureScheme interface {
	PartialSign(msg, label []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.Share, error)
	VerifyShare(share *signature.Share, msg []byte, pk *keys.PublicKey) (bool, error)
	Assemble(shares []*signature.Share, msg []byte, pk *keys.PublicKey) (*signature.Signature, error)
	Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error)
}

// CoinScheme is implemented by Cks05.
type CoinScheme interface {
	CreateShare(name []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.CoinShare, error)
	VerifyShare(share *signature.CoinShare, name []byte, pk *keys.PublicKey) (bool, error)
	Assemble(shares []*signature.CoinShare, name []byte, pk *keys.PublicKey) (byte, error)
}
