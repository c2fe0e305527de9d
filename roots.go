// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"math"
	"math/big"

	"gonum.org/v1/gonum/mat"
)

// maxPolishSteps bounds the Newton refinement of a single eigenvalue
const maxPolishSteps = 16

// FindRoots returns every complex root of the polynomial with the given
// coefficients (highest power first), repeated roots included. Leading zero
// coefficients are ignored and each trailing zero coefficient contributes a
// root at zero after the others.
func FindRoots(coeffs []*big.Int) ([]complex128, error) {
	lead := 0
	for lead < len(coeffs) && coeffs[lead].Sign() == 0 {
		lead++
	}
	if lead == len(coeffs) {
		return nil, errorf(StatusErrRootFinding, "zero polynomial %v", coeffs)
	}
	trimmed := coeffs[lead:]

	end := len(trimmed)
	for end > 1 && trimmed[end-1].Sign() == 0 {
		end--
	}
	zeros := len(trimmed) - end
	trimmed = trimmed[:end]

	roots := make([]complex128, 0, len(trimmed)-1+zeros)
	if len(trimmed) > 1 {
		vals, err := companionEigenvalues(trimmed)
		if err != nil {
			return nil, err
		}
		exact, prec := polishCoefficients(trimmed)
		for _, v := range vals {
			roots = append(roots, polish(exact, v, prec))
		}
	}
	for i := 0; i < zeros; i++ {
		roots = append(roots, 0)
	}
	return roots, nil
}

// companionEigenvalues computes the roots as eigenvalues of the companion
// matrix of the polynomial. coeffs[0] must be non-zero.
func companionEigenvalues(coeffs []*big.Int) ([]complex128, error) {
	n := len(coeffs) - 1
	lead := new(big.Float).SetInt(coeffs[0])

	data := make([]float64, n*n)
	for j := 0; j < n; j++ {
		q := new(big.Float).SetPrec(128).SetInt(coeffs[j+1])
		q.Quo(q, lead)
		f, _ := q.Float64()
		if math.IsInf(f, 0) {
			return nil, errorf(StatusErrRootFinding, "coefficient ratio overflows float64 in %v", coeffs)
		}
		data[j] = -f
	}
	for i := 1; i < n; i++ {
		data[i*n+i-1] = 1
	}

	var eig mat.Eigen
	if ok := eig.Factorize(mat.NewDense(n, n, data), mat.EigenNone); !ok {
		return nil, errorf(StatusErrRootFinding, "eigenvalue decomposition did not converge for %v", coeffs)
	}
	return eig.Values(nil), nil
}

// bigComplex is a complex number with arbitrary precision parts
type bigComplex struct {
	re, im *big.Float
}

func newBigComplex(z complex128, prec uint) bigComplex {
	return bigComplex{
		re: new(big.Float).SetPrec(prec).SetFloat64(real(z)),
		im: new(big.Float).SetPrec(prec).SetFloat64(imag(z)),
	}
}

func (z bigComplex) mul(w bigComplex) bigComplex {
	prec := z.re.Prec()
	ac := new(big.Float).SetPrec(prec).Mul(z.re, w.re)
	bd := new(big.Float).SetPrec(prec).Mul(z.im, w.im)
	ad := new(big.Float).SetPrec(prec).Mul(z.re, w.im)
	bc := new(big.Float).SetPrec(prec).Mul(z.im, w.re)
	return bigComplex{
		re: ac.Sub(ac, bd),
		im: ad.Add(ad, bc),
	}
}

func (z bigComplex) add(w bigComplex) bigComplex {
	prec := z.re.Prec()
	return bigComplex{
		re: new(big.Float).SetPrec(prec).Add(z.re, w.re),
		im: new(big.Float).SetPrec(prec).Add(z.im, w.im),
	}
}

// absSquared returns |z|^2
func (z bigComplex) absSquared() *big.Float {
	prec := z.re.Prec()
	r2 := new(big.Float).SetPrec(prec).Mul(z.re, z.re)
	i2 := new(big.Float).SetPrec(prec).Mul(z.im, z.im)
	return r2.Add(r2, i2)
}

// quo returns z/w rounded to complex128. w must be non-zero.
func (z bigComplex) quo(w bigComplex) complex128 {
	prec := z.re.Prec()
	d := w.absSquared()
	conj := bigComplex{re: w.re, im: new(big.Float).SetPrec(prec).Neg(w.im)}
	n := z.mul(conj)
	re, _ := n.re.Quo(n.re, d).Float64()
	im, _ := n.im.Quo(n.im, d).Float64()
	return complex(re, im)
}

// polishCoefficients converts coeffs to big.Float at a precision wide enough
// to resolve the cancellation of evaluating the polynomial near a root.
func polishCoefficients(coeffs []*big.Int) ([]*big.Float, uint) {
	maxBits := 0
	for _, c := range coeffs {
		if b := c.BitLen(); b > maxBits {
			maxBits = b
		}
	}
	prec := uint(2*maxBits + 4*len(coeffs) + 256)
	out := make([]*big.Float, len(coeffs))
	for i, c := range coeffs {
		out[i] = new(big.Float).SetPrec(prec).SetInt(c)
	}
	return out, prec
}

// evalWithDerivative evaluates p(z) and p'(z) by Horner's method
func evalWithDerivative(coeffs []*big.Float, z bigComplex, prec uint) (p, dp bigComplex) {
	p = bigComplex{re: new(big.Float).SetPrec(prec).Set(coeffs[0]), im: new(big.Float).SetPrec(prec)}
	dp = newBigComplex(0, prec)
	for _, c := range coeffs[1:] {
		dp = dp.mul(z).add(p)
		p = p.mul(z)
		p.re.Add(p.re, c)
	}
	return p, dp
}

// polish refines an eigenvalue with Newton steps evaluated in extended
// precision. A step is only taken while it strictly lowers |p(z)|.
func polish(coeffs []*big.Float, z complex128, prec uint) complex128 {
	if !isFinite(z) {
		return z
	}
	best := z
	p, dp := evalWithDerivative(coeffs, newBigComplex(best, prec), prec)
	bestRes := p.absSquared()

	for i := 0; i < maxPolishSteps; i++ {
		if bestRes.Sign() == 0 || dp.absSquared().Sign() == 0 {
			break
		}
		next := best - p.quo(dp)
		if next == best || !isFinite(next) {
			break
		}
		np, ndp := evalWithDerivative(coeffs, newBigComplex(next, prec), prec)
		res := np.absSquared()
		if res.Cmp(bestRes) >= 0 {
			break
		}
		best, bestRes, p, dp = next, res, np, ndp
	}
	return best
}

func isFinite(z complex128) bool {
	return !math.IsNaN(real(z)) && !math.IsNaN(imag(z)) &&
		!math.IsInf(real(z), 0) && !math.IsInf(imag(z), 0)
}

// CleanRoots zeroes real and imaginary components smaller than Tolerance and
// drops roots with a negative imaginary part, keeping one root of every
// conjugate pair. Order is preserved.
func CleanRoots(roots []complex128) []complex128 {
	out := make([]complex128, 0, len(roots))
	for _, r := range roots {
		re, im := real(r), imag(r)
		if math.Abs(re) < Tolerance {
			re = 0
		}
		if math.Abs(im) < Tolerance {
			im = 0
		}
		// if b in (a+bi) < 0 it is the redundant conjugate
		if im < 0 {
			continue
		}
		out = append(out, complex(re, im))
	}
	return out
}
