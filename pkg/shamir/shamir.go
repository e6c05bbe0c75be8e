// Package shamir implements the (k,n) Shamir secret sharing used by
// every DL scheme's keygen to split a master secret over a DL group's
// scalar field. Sh00 does not use it: it shares its RSA exponent with
// its own integer polynomial.
package shamir

import (
	"io"
	"math/big"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
)

// Polynomial is a random degree-(k-1) polynomial over the scalar
// field of g with constant term secret.
type Polynomial struct {
	g            group.Group
	coefficients []*bigint.Sized // coefficients[0] == secret
}

// NewPolynomial samples a random degree-(k-1) polynomial with the
// given constant term.
func NewPolynomial(g group.Group, secret *bigint.Sized, k int, rng io.Reader) (*Polynomial, error) {
	coeffs := make([]*bigint.Sized, k)
	coeffs[0] = secret
	for i := 1; i < k; i++ {
		c, err := bigint.NewSizedRand(g, rng)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &Polynomial{g: g, coefficients: coeffs}, nil
}

// Eval evaluates the polynomial at x using Horner's method.
func (p *Polynomial) Eval(x int) (*bigint.Sized, error) {
	acc, err := bigint.NewSized(p.g, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	xs, err := bigint.NewSized(p.g, big.NewInt(int64(x)))
	if err != nil {
		return nil, err
	}
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		acc = acc.MulMod(xs).AddMod(p.coefficients[i])
	}
	return acc, nil
}

// Shares evaluates the polynomial at 1..n, returning a share per
// participant index.
func (p *Polynomial) Shares(n int) (map[int]*bigint.Sized, error) {
	out := make(map[int]*bigint.Sized, n)
	for i := 1; i <= n; i++ {
		s, err := p.Eval(i)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Generate samples a secret and its (k,n) Shamir shares in one call,
// returning the secret (so the public value can be derived) alongside
// the per-participant shares.
func Generate(g group.Group, k, n int, rng io.Reader) (secret *bigint.Sized, shares map[int]*bigint.Sized, err error) {
	secret, err = bigint.NewSizedRand(g, rng)
	if err != nil {
		return nil, nil, err
	}
	poly, err := NewPolynomial(g, secret, k, rng)
	if err != nil {
		return nil, nil, err
	}
	shares, err = poly.Shares(n)
	if err != nil {
		return nil, nil, err
	}
	return secret, shares, nil
}
