// Package lagrange computes the Lagrange interpolation coefficients
// shared by every scheme's assembly path, over the scalar field of a
// DL group.
package lagrange

import (
	"math/big"

	"github.com/cryptobern/thetacrypt-sub001/pkg/bigint"
	"github.com/cryptobern/thetacrypt-sub001/pkg/group"
)

// Coefficients computes lambda_i = prod_{j != i} j/(j-i) mod q for
// every index in ids, over the scalar field of g. When i > j, j-i is
// computed as q - |j-i| so the result always stays in [0, q).
func Coefficients(g group.Group, ids []int) (map[int]*bigint.Sized, error) {
	order, err := g.Order()
	if err != nil {
		return nil, err
	}

	out := make(map[int]*bigint.Sized, len(ids))
	for _, i := range ids {
		num, err := bigint.NewSized(g, big.NewInt(1))
		if err != nil {
			return nil, err
		}
		den, err := bigint.NewSized(g, big.NewInt(1))
		if err != nil {
			return nil, err
		}
		for _, j := range ids {
			if j == i {
				continue
			}
			jScalar, err := bigint.NewSized(g, big.NewInt(int64(j)))
			if err != nil {
				return nil, err
			}
			num = num.MulMod(jScalar)

			diff := modDiff(order, j, i)
			diffScalar, err := bigint.NewSized(g, diff)
			if err != nil {
				return nil, err
			}
			den = den.MulMod(diffScalar)
		}
		invDen, err := den.InvMod()
		if err != nil {
			return nil, err
		}
		out[i] = num.MulMod(invDen)
	}
	return out, nil
}

// modDiff computes (j - i) mod q, wrapping negative differences to
// q - |j-i| per the spec's interpolation rule.
func modDiff(q *big.Int, j, i int) *big.Int {
	diff := big.NewInt(int64(j - i))
	diff.Mod(diff, q)
	return diff
}

// InterpolateScalars assembles sum_i lambda_i * share_i for the
// additive (signature-share / coin-share) assembly path.
func InterpolateScalars(g group.Group, shares map[int]*bigint.Sized) (*bigint.Sized, error) {
	ids := make([]int, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	coeffs, err := Coefficients(g, ids)
	if err != nil {
		return nil, err
	}
	acc, err := bigint.NewSized(g, big.NewInt(0))
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		term := coeffs[id].MulMod(shares[id])
		acc = acc.AddMod(term)
	}
	return acc, nil
}

// InterpolateElements assembles prod_i share_i^{lambda_i}, the
// multiplicative analogue used by decryption/signature schemes whose
// shares are group elements rather than raw scalars.
func InterpolateElements(g group.Group, shares map[int]group.Element) (group.Element, error) {
	ids := make([]int, 0, len(shares))
	for id := range shares {
		ids = append(ids, id)
	}
	coeffs, err := Coefficients(g, ids)
	if err != nil {
		return nil, err
	}
	var acc group.Element
	for _, id := range ids {
		term := shares[id].Pow(coeffs[id])
		if acc == nil {
			acc = term
		} else {
			acc = acc.Mul(term)
		}
	}
	if acc == nil {
		return group.New(g)
	}
	return acc, nil
}
