// Package group defines the closed set of discrete-logarithm and RSA
// groups Thetacrypt's schemes operate over, and the Element sum
// type that carries its group tag with it everywhere it travels.
package group

import (
	"fmt"
	"math/big"
)

// Group is a tagged group identifier. The set is closed: adding a
// group means adding a case everywhere this package switches on Group.
type Group uint8

const (
	Invalid Group = iota
	Bls12381
	Bn254
	Ed25519
	Rsa512
	Rsa1024
	Rsa2048
	Rsa4096
)

func (g Group) String() string {
	switch g {
	case Bls12381:
		return "Bls12381"
	case Bn254:
		return "Bn254"
	case Ed25519:
		return "Ed25519"
	case Rsa512:
		return "Rsa512"
	case Rsa1024:
		return "Rsa1024"
	case Rsa2048:
		return "Rsa2048"
	case Rsa4096:
		return "Rsa4096"
	default:
		return "Invalid"
	}
}

// Code is the single wire byte identifying a group in every
// self-describing serialization this package produces.
func (g Group) Code() byte { return byte(g) }

// FromCode resolves a wire byte back to a Group, failing loudly on
// unknown codes as required by the scheme serialization contract.
func FromCode(b byte) (Group, error) {
	g := Group(b)
	switch g {
	case Bls12381, Bn254, Ed25519, Rsa512, Rsa1024, Rsa2048, Rsa4096:
		return g, nil
	default:
		return Invalid, fmt.Errorf("group: unknown group code %d", b)
	}
}

// IsPairing reports whether the group supports a bilinear pairing.
func (g Group) IsPairing() bool {
	return g == Bls12381 || g == Bn254
}

// IsRSA reports whether the group is one of the RSA moduli groups.
func (g Group) IsRSA() bool {
	switch g {
	case Rsa512, Rsa1024, Rsa2048, Rsa4096:
		return true
	default:
		return false
	}
}

// IsDiscreteLog reports whether the group is a prime-order DL group
// (pairing or not). RSA groups are excluded.
func (g Group) IsDiscreteLog() bool {
	return g == Bls12381 || g == Bn254 || g == Ed25519
}

// RSAModulusBits returns the modulus bit length for an RSA group.
// Panics if g is not an RSA group; callers must check IsRSA first.
func (g Group) RSAModulusBits() int {
	switch g {
	case Rsa512:
		return 512
	case Rsa1024:
		return 1024
	case Rsa2048:
		return 2048
	case Rsa4096:
		return 4096
	default:
		panic(fmt.Sprintf("group: %s is not an RSA group", g))
	}
}

// Order returns the scalar field order for a DL group. Not defined
// for RSA groups, whose modulus is composite and kept secret.
func (g Group) Order() (*big.Int, error) {
	switch g {
	case Bls12381:
		return new(big.Int).SetBytes(bls12381Order[:]), nil
	case Bn254:
		return new(big.Int).SetBytes(bn254Order[:]), nil
	case Ed25519:
		return new(big.Int).SetBytes(ed25519Order[:]), nil
	default:
		return nil, fmt.Errorf("group: %s has no scalar field order", g)
	}
}

// ScalarByteLen is the padded byte width of a scalar for this group,
// used by Sized BigInt serialization.
func (g Group) ScalarByteLen() (int, error) {
	switch g {
	case Bls12381, Bn254:
		return 32, nil
	case Ed25519:
		return 32, nil
	default:
		return 0, fmt.Errorf("group: %s has no fixed scalar width", g)
	}
}

// bls12381Order/bn254Order/ed25519Order are the big-endian encodings
// of the prime order r of each group's scalar field, taken from the
// canonical curve parameters (gnark-crypto's fr modulus for the
// pairing groups, RFC 8032's l for Ed25519).
var (
	bls12381Order = [32]byte{
		0x73, 0xed, 0xa7, 0x53, 0x29, 0x9d, 0x7d, 0x48,
		0x33, 0x39, 0xd8, 0x08, 0x09, 0xa1, 0xd8, 0x05,
		0x53, 0xbd, 0xa4, 0x02, 0xff, 0xfe, 0x5b, 0xfe,
		0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x01,
	}
	bn254Order = [32]byte{
		0x30, 0x64, 0x4e, 0x72, 0xe1, 0x31, 0xa0, 0x29,
		0xb8, 0x50, 0x45, 0xb6, 0x81, 0x81, 0x58, 0x5d,
		0x97, 0x81, 0x6a, 0x91, 0x68, 0x71, 0xca, 0x8d,
		0x3c, 0x20, 0x8c, 0x16, 0xd8, 0x7c, 0xfd, 0x47,
	}
	ed25519Order = [32]byte{
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6,
		0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
	}
)
