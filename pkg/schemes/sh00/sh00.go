// Package sh00 implements the Shoup (2000) (k,n) threshold RSA
// signature scheme: the private exponent is shared as an integer
// polynomial scaled by Delta = n!, so that both partial signatures and
// their Lagrange recombination stay in the integers and never require
// any party to know the RSA group's secret order.
package sh00

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
	"github.com/cryptobern/thetacrypt-sub001/pkg/keys"
	"github.com/cryptobern/thetacrypt-sub001/pkg/scheme"
	"github.com/cryptobern/thetacrypt-sub001/pkg/schemes"
	"github.com/cryptobern/thetacrypt-sub001/pkg/signature"
	"github.com/cryptobern/thetacrypt-sub001/pkg/wire"
)

// Scheme adapts the package's free functions to schemes.SignatureScheme.
type Scheme struct{}

var _ schemes.SignatureScheme = Scheme{}

func (Scheme) PartialSign(msg, label []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.Share, error) {
	return PartialSign(msg, label, sk, rng)
}

func (Scheme) VerifyShare(share *signature.Share, msg []byte, pk *keys.PublicKey) (bool, error) {
	return VerifyShare(share, msg, pk)
}

func (Scheme) Assemble(shares []*signature.Share, msg []byte, pk *keys.PublicKey) (*signature.Signature, error) {
	return Assemble(shares, msg, pk)
}

func (Scheme) Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error) {
	return Verify(sig, pk, msg)
}

// publicExponent is the fixed RSA public exponent candidate; Generate
// reselects primes if it happens not to be coprime with both the
// group order m and 4*Delta^2.
var publicExponent = big.NewInt(65537)

func factorial(n int) *big.Int {
	f := big.NewInt(1)
	for i := int64(2); i <= int64(n); i++ {
		f.Mul(f, big.NewInt(i))
	}
	return f
}

// Generate produces a (k,n) Shoup RSA threshold key: two strong primes
// p,q, a shared secret exponent d split as an integer polynomial with
// Shamir coefficients, and a public verification base v with per-share
// verification values v_i = v^{s_i} mod n.
func Generate(g group.Group, k, n int, rng io.Reader) (*keys.PublicKey, []*keys.PrivateKeyShare, error) {
	if !g.IsRSA() {
		return nil, nil, fmt.Errorf("sh00: group %s is not an RSA group", g)
	}
	if err := scheme.Sh00.Validate(g, k, n); err != nil {
		return nil, nil, err
	}
	bits := g.RSAModulusBits()
	delta := factorial(n)
	deltaSq4 := new(big.Int).Mul(delta, delta)
	deltaSq4.Lsh(deltaSq4, 2)

	var nMod, m, d *big.Int
	for {
		p, err := bigint.RandomStrongPrime(rng, bits/2)
		if err != nil {
			return nil, nil, err
		}
		q, err := bigint.RandomStrongPrime(rng, bits/2)
		if err != nil {
			return nil, nil, err
		}
		if p.Big().Cmp(q.Big()) == 0 {
			continue
		}
		nMod = new(big.Int).Mul(p.Big(), q.Big())
		pPrime := new(big.Int).Rsh(new(big.Int).Sub(p.Big(), big.NewInt(1)), 1)
		qPrime := new(big.Int).Rsh(new(big.Int).Sub(q.Big(), big.NewInt(1)), 1)
		m = new(big.Int).Mul(pPrime, qPrime)
		if new(big.Int).GCD(nil, nil, publicExponent, m).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, publicExponent, deltaSq4).Cmp(big.NewInt(1)) != 0 {
			continue
		}
		d = new(big.Int).ModInverse(publicExponent, m)
		if d == nil {
			continue
		}
		break
	}

	// Random degree-(k-1) polynomial over the integers with constant
	// term d, coefficients bounded generously above n^2 to statistically
	// hide the secret.
	bound := new(big.Int).Lsh(nMod, uint(bits+128))
	coeffs := make([]*big.Int, k)
	coeffs[0] = d
	for i := 1; i < k; i++ {
		c, err := rand.Int(rng, bound)
		if err != nil {
			return nil, nil, err
		}
		coeffs[i] = c
	}
	evalAt := func(x int) *big.Int {
		acc := big.NewInt(0)
		xb := big.NewInt(int64(x))
		for i := len(coeffs) - 1; i >= 0; i-- {
			acc.Mul(acc, xb)
			acc.Add(acc, coeffs[i])
		}
		return acc
	}

	// v is a random element of the squares subgroup mod n.
	vBase, err := rand.Int(rng, nMod)
	if err != nil {
		return nil, nil, err
	}
	v := new(big.Int).Exp(vBase, big.NewInt(2), nMod)

	pk := &keys.PublicKey{
		Scheme:              scheme.Sh00,
		Group:               g,
		N:                   n,
		K:                   k,
		RSAModulus:          bigint.NewUnbounded(nMod),
		RSAPublicExponent:   bigint.NewUnbounded(publicExponent),
		RSAVerificationBase: bigint.NewUnbounded(v),
	}
	verif := make([]*bigint.Unbounded, n)
	sks := make([]*keys.PrivateKeyShare, n)
	for i := 1; i <= n; i++ {
		si := evalAt(i)
		vi := new(big.Int).Exp(v, si, nMod)
		verif[i-1] = bigint.NewUnbounded(vi)
		sks[i-1] = &keys.PrivateKeyShare{ID: i, Public: pk, RSAXi: bigint.NewUnbounded(si)}
	}
	pk.RSAVerification = verif
	return pk, sks, nil
}

// digest hashes msg||label into Z_n and raises it to the 4th power so
// it lands in the squares subgroup that v's proofs operate over.
func digest(n *big.Int, msg, label []byte) *big.Int {
	h := sha256.New()
	h.Write(label)
	h.Write(msg)
	x := new(big.Int).SetBytes(h.Sum(nil))
	x.Mod(x, n)
	x4 := new(big.Int).Exp(x, big.NewInt(4), n)
	return x4
}

type girault struct {
	c *big.Int
	z *big.Int
}

// hashChallenge derives a fixed-width Fiat-Shamir challenge from the
// proof transcript, used directly as an integer exponent.
func hashChallenge(parts ...[]byte) *big.Int {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// proveEquality proves log_base1(pow1) = log_base2(pow2) = witness
// over the hidden-order group Z_n^*, using a challenge-response large
// enough to statistically hide witness without reducing modulo the
// (secret, unknown to the prover's caller) group order.
func proveEquality(n, base1, pow1, base2, pow2, witness *big.Int, rng io.Reader, bound *big.Int) (*girault, error) {
	r, err := rand.Int(rng, bound)
	if err != nil {
		return nil, err
	}
	a1 := new(big.Int).Exp(base1, r, n)
	a2 := new(big.Int).Exp(base2, r, n)
	c := hashChallenge(base1.Bytes(), pow1.Bytes(), base2.Bytes(), pow2.Bytes(), a1.Bytes(), a2.Bytes())
	z := new(big.Int).Mul(c, witness)
	z.Add(z, r)
	return &girault{c: c, z: z}, nil
}

func verifyEquality(n, base1, pow1, base2, pow2 *big.Int, p *girault) bool {
	inv1 := new(big.Int).Exp(pow1, p.c, n)
	inv1.ModInverse(inv1, n)
	if inv1 == nil {
		return false
	}
	a1 := new(big.Int).Exp(base1, p.z, n)
	a1.Mul(a1, inv1)
	a1.Mod(a1, n)

	inv2 := new(big.Int).Exp(pow2, p.c, n)
	inv2.ModInverse(inv2, n)
	if inv2 == nil {
		return false
	}
	a2 := new(big.Int).Exp(base2, p.z, n)
	a2.Mul(a2, inv2)
	a2.Mod(a2, n)

	c := hashChallenge(base1.Bytes(), pow1.Bytes(), base2.Bytes(), pow2.Bytes(), a1.Bytes(), a2.Bytes())
	return c.Cmp(p.c) == 0
}

// PartialSign computes sigma_i = x'^{2*Delta*s_i} mod n, plus a
// Girault proof that log_v(v_i) = log_{x'^{4*Delta}}(sigma_i^2) = s_i.
func PartialSign(msg, label []byte, sk *keys.PrivateKeyShare, rng io.Reader) (*signature.Share, error) {
	pk := sk.Public
	n := pk.RSAModulus.Big()
	x4 := digest(n, msg, label)
	delta := factorial(pk.N)
	exp := new(big.Int).Lsh(delta, 1)
	exp.Mul(exp, sk.RSAXi.Big())
	sigma := new(big.Int).Exp(x4, exp, n)

	v := pk.RSAVerificationBase.Big()
	vi := pk.RSAVerification[sk.ID-1].Big()
	xTilde := new(big.Int).Exp(x4, new(big.Int).Lsh(delta, 2), n)
	sigma2 := new(big.Int).Exp(sigma, big.NewInt(2), n)
	bound := new(big.Int).Lsh(n, uint(n.BitLen()+128))
	proof, err := proveEquality(n, v, vi, xTilde, sigma2, sk.RSAXi.Big(), rng, bound)
	if err != nil {
		return nil, err
	}

	w := wire.NewWriter()
	w.Bytes(sigma.Bytes())
	w.Bytes(proof.c.Bytes())
	w.Bytes(proof.z.Bytes())
	return &signature.Share{ID: sk.ID, Group: pk.Group, Label: label, SchemeData: w.Finish()}, nil
}

// VerifyShare checks the share's Girault proof.
func VerifyShare(share *signature.Share, msg []byte, pk *keys.PublicKey) (bool, error) {
	if share.ID < 1 || share.ID > len(pk.RSAVerification) {
		return false, fmt.Errorf("sh00: share id %d out of range", share.ID)
	}
	n := pk.RSAModulus.Big()
	x4 := digest(n, msg, share.Label)
	r := wire.NewReader(share.SchemeData)
	sigmaBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	sigma := new(big.Int).SetBytes(sigmaBytes)
	cBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	zBytes, err := r.Bytes()
	if err != nil {
		return false, err
	}
	proof := &girault{c: new(big.Int).SetBytes(cBytes), z: new(big.Int).SetBytes(zBytes)}

	v := pk.RSAVerificationBase.Big()
	vi := pk.RSAVerification[share.ID-1].Big()
	delta := factorial(pk.N)
	xTilde := new(big.Int).Exp(x4, new(big.Int).Lsh(delta, 2), n)
	sigma2 := new(big.Int).Exp(sigma, big.NewInt(2), n)
	return verifyEquality(n, v, vi, xTilde, sigma2, proof), nil
}

// Assemble combines k shares via the integer Lagrange coefficients
// scaled by Delta, then extracts the e-th root via extended Euclid of
// (e, 4*Delta^2).
func Assemble(shares []*signature.Share, msg []byte, pk *keys.PublicKey) (*signature.Signature, error) {
	n := pk.RSAModulus.Big()
	e := pk.RSAPublicExponent.Big()
	delta := factorial(pk.N)

	ids := make([]int, 0, len(shares))
	sigmas := make(map[int]*big.Int, len(shares))
	for _, s := range shares {
		r := wire.NewReader(s.SchemeData)
		sigmaBytes, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		sigmas[s.ID] = new(big.Int).SetBytes(sigmaBytes)
		ids = append(ids, s.ID)
	}

	w := big.NewInt(1)
	for _, i := range ids {
		lambda := lagrangeAtZero(delta, ids, i)
		exp := new(big.Int).Lsh(lambda, 1)
		neg := exp.Sign() < 0
		if neg {
			exp.Neg(exp)
		}
		term := new(big.Int).Exp(sigmas[i], exp, n)
		if neg {
			term.ModInverse(term, n)
			if term == nil {
				return nil, fmt.Errorf("sh00: share %d is not invertible mod n", i)
			}
		}
		w.Mul(w, term)
		w.Mod(w, n)
	}

	deltaSq4 := new(big.Int).Mul(delta, delta)
	deltaSq4.Lsh(deltaSq4, 2)
	gcd, a, b := new(big.Int), new(big.Int), new(big.Int)
	gcd.GCD(a, b, e, deltaSq4)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return nil, fmt.Errorf("sh00: public exponent is not coprime with 4*delta^2")
	}

	var label []byte
	if len(shares) > 0 {
		label = shares[0].Label
	}
	x4 := digest(n, msg, label)
	wa := modPowSigned(w, a, n)
	xb := modPowSigned(x4, b, n)
	y := new(big.Int).Mul(wa, xb)
	y.Mod(y, n)
	return &signature.Signature{Scheme: scheme.Sh00, Group: pk.Group, Label: label, Bytes: y.Bytes()}, nil
}

// Verify checks y^e = H(m)^4 mod n, hashing with the same label the
// partial signers bound their shares to.
func Verify(sig *signature.Signature, pk *keys.PublicKey, msg []byte) (bool, error) {
	n := pk.RSAModulus.Big()
	e := pk.RSAPublicExponent.Big()
	y := new(big.Int).SetBytes(sig.Bytes)
	lhs := new(big.Int).Exp(y, e, n)
	rhs := digest(n, msg, sig.Label)
	return lhs.Cmp(rhs) == 0, nil
}

// lagrangeAtZero computes Delta * prod_{j in ids, j != i} (-j)/(i-j) as
// an exact integer; the denominator always divides Delta = n! because
// every factor |i-j| is at most n-1.
func lagrangeAtZero(delta *big.Int, ids []int, i int) *big.Int {
	num := new(big.Int).Set(delta)
	den := big.NewInt(1)
	for _, j := range ids {
		if j == i {
			continue
		}
		num.Mul(num, big.NewInt(int64(-j)))
		den.Mul(den, big.NewInt(int64(i-j)))
	}
	q := new(big.Int)
	q.Quo(num, den)
	return q
}

// modPowSigned computes base^exp mod n for a possibly negative exp by
// inverting base first.
func modPowSigned(base, exp, n *big.Int) *big.Int {
	if exp.Sign() >= 0 {
		return new(big.Int).Exp(base, exp, n)
	}
	inv := new(big.Int).ModInverse(base, n)
	if inv == nil {
		return big.NewInt(0)
	}
	pos := new(big.Int).Neg(exp)
	return new(big.Int).Exp(inv, pos, n)
}
