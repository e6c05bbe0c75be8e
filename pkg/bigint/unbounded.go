package bigint

import (
	"fmt"
	"io"
	"math/big"

	"github.com/otiai10/primes"
)

// Unbounded is an arbitrary-precision integer used by the RSA
// schemes, where the modulus is secret and has no fixed group tag.
// It is a thin wrapper over math/big.Int — no pack example ships an
// alternative arbitrary-precision integer, so the standard library is
// the only idiomatic choice for this layer (see DESIGN.md).
type Unbounded struct {
	v *big.Int
}

// NewUnbounded wraps x.
func NewUnbounded(x *big.Int) *Unbounded { return &Unbounded{v: new(big.Int).Set(x)} }

// UnboundedFromBytes decodes a big-endian unsigned integer.
func UnboundedFromBytes(data []byte) *Unbounded {
	return &Unbounded{v: new(big.Int).SetBytes(data)}
}

// Big returns the underlying *big.Int.
func (u *Unbounded) Big() *big.Int { return u.v }

// Bytes is the big-endian unsigned encoding.
func (u *Unbounded) Bytes() []byte { return u.v.Bytes() }

// MulMod returns u * other mod m.
func (u *Unbounded) MulMod(other, m *Unbounded) *Unbounded {
	out := new(big.Int).Mul(u.v, other.v)
	out.Mod(out, m.v)
	return &Unbounded{v: out}
}

// ExpMod returns u^e mod m.
func (u *Unbounded) ExpMod(e, m *Unbounded) *Unbounded {
	out := new(big.Int).Exp(u.v, e.v, m.v)
	return &Unbounded{v: out}
}

// ExtGCD returns (gcd, x, y) such that u*x + other*y = gcd, via
// math/big's Lehmer-based extended Euclidean algorithm.
func (u *Unbounded) ExtGCD(other *Unbounded) (gcd, x, y *Unbounded) {
	g, xx, yy := new(big.Int), new(big.Int), new(big.Int)
	g.GCD(xx, yy, u.v, other.v)
	return &Unbounded{v: g}, &Unbounded{v: xx}, &Unbounded{v: yy}
}

// Jacobi returns the Jacobi symbol (u/m). Nothing in this module calls
// it; Sh00's share proof works on squares and needs no Jacobi check.
func (u *Unbounded) Jacobi(m *Unbounded) int {
	return big.Jacobi(u.v, m.v)
}

// IsProbablyPrime runs a Miller-Rabin/Baillie-PSW primality test
// (math/big.ProbablyPrime) after a cheap trial-division pre-filter
// against the small-prime sieve from otiai10/primes, which rules out
// the overwhelming majority of composite candidates before paying for
// the expensive test.
func (u *Unbounded) IsProbablyPrime(n int) bool {
	if !passesSmallPrimeSieve(u.v) {
		return false
	}
	return u.v.ProbablyPrime(n)
}

// smallSieve is computed once: the first few thousand primes used to
// trial-divide RSA prime candidates before Miller-Rabin.
var smallSieve = primes.Sieve(10000)

func passesSmallPrimeSieve(x *big.Int) bool {
	if x.BitLen() < 32 {
		// Too small to bother sieving; let ProbablyPrime decide directly.
		return true
	}
	rem := new(big.Int)
	for _, p := range smallSieve {
		if p < 2 {
			continue
		}
		bp := big.NewInt(int64(p))
		if x.Cmp(bp) == 0 {
			return true
		}
		rem.Mod(x, bp)
		if rem.Sign() == 0 {
			return false
		}
	}
	return true
}

// RandomPrime generates a uniformly random probable prime of bits
// bit-length using the given RNG.
func RandomPrime(rng io.Reader, bits int) (*Unbounded, error) {
	p, err := randPrimeBig(rng, bits)
	if err != nil {
		return nil, err
	}
	return &Unbounded{v: p}, nil
}

// RandomStrongPrime generates a strong prime p (a prime such that
// (p-1)/2 is also prime) as required by Sh00/RSA keygen in the spec.
func RandomStrongPrime(rng io.Reader, bits int) (*Unbounded, error) {
	for {
		q, err := randPrimeBig(rng, bits-1)
		if err != nil {
			return nil, err
		}
		// p = 2q + 1
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, big.NewInt(1))
		if p.BitLen() != bits {
			continue
		}
		cand := &Unbounded{v: p}
		if cand.IsProbablyPrime(40) {
			return cand, nil
		}
	}
}

func randPrimeBig(rng io.Reader, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("bigint: prime bit length must be >= 2")
	}
	for {
		buf := make([]byte, (bits+7)/8)
		if _, err := io.ReadFull(rng, buf); err != nil {
			return nil, err
		}
		// Fix the top two bits so the product of two such primes has
		// the expected bit length, and the low bit so it is odd.
		buf[0] |= 0xC0
		buf[len(buf)-1] |= 1
		cand := new(big.Int).SetBytes(buf)
		excess := uint(len(buf)*8 - bits)
		if excess > 0 {
			cand.Rsh(cand, excess)
			cand.SetBit(cand, bits-1, 1)
			cand.SetBit(cand, 0, 1)
		}
		u := &Unbounded{v: cand}
		if u.IsProbablyPrime(40) {
			return cand, nil
		}
	}
}
