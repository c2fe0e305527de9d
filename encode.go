// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"math"
	"math/big"

	"github.com/complex-gh/polynomial_go/internal/primes"
)

// maxExactOperand bounds operands to the integers float64 represents exactly
const maxExactOperand = 1 << 53

// primePower returns p^|e| as an integer
func primePower(p uint64, e int) *big.Int {
	if e < 0 {
		e = -e
	}
	return new(big.Int).Exp(new(big.Int).SetUint64(p), big.NewInt(int64(e)), nil)
}

// factor returns the integer coefficients of the lowest degree polynomial
// with in's root under prime p, highest power first.
func factor(in Instruction, p uint64) ([]*big.Int, error) {
	if in.Imag && in.Operand == 0 && (in.Code == 1 || in.Code == 2) {
		op, alias := OpAdd, OpPrint
		if in.Code == 2 {
			op, alias = OpSub, OpRead
		}
		return nil, errorf(StatusErrUnencodable, "%s 0 decodes as %s", op, alias)
	}
	if _, err := in.Op(); err != nil || in.Code == 0 {
		return nil, errorf(StatusErrUnencodable, "%v", in.Complex())
	}

	if !in.Imag {
		// root ±p^|code|, negative codes carry their sign on the root
		r := primePower(p, in.Code)
		if in.Code > 0 {
			r.Neg(r)
		}
		return []*big.Int{big.NewInt(1), r}, nil
	}

	if in.Operand != math.Trunc(in.Operand) || math.Abs(in.Operand) > maxExactOperand {
		return nil, errorf(StatusErrUnencodable, "operand %v is not an exact integer", in.Operand)
	}

	// (x - a)^2 + b^2 with b = p^code, scaled by p^(-2code) when code < 0
	a, _ := big.NewFloat(in.Operand).Int(nil)
	scale, b2 := big.NewInt(1), new(big.Int)
	if in.Code > 0 {
		b2.Exp(primePower(p, in.Code), big.NewInt(2), nil)
	} else {
		scale.Exp(primePower(p, in.Code), big.NewInt(2), nil)
		b2.SetInt64(1)
	}
	a2 := new(big.Int).Mul(a, a)
	return []*big.Int{
		new(big.Int).Set(scale),
		new(big.Int).Mul(big.NewInt(-2), new(big.Int).Mul(a, scale)),
		new(big.Int).Add(new(big.Int).Mul(a2, scale), b2),
	}, nil
}

// multiply returns the product of two coefficient vectors
func multiply(x, y []*big.Int) []*big.Int {
	out := make([]*big.Int, len(x)+len(y)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, a := range x {
		for j, b := range y {
			out[i+j].Add(out[i+j], t.Mul(a, b))
		}
	}
	return out
}

// Encode builds the integer coefficient vector whose roots decode to instrs:
// the k-th instruction becomes the root operand + p_k^code·i together with
// its conjugate, or the real root p_k^code, where p_k is the k-th prime.
func Encode(instrs []Instruction) ([]*big.Int, error) {
	coeffs := []*big.Int{big.NewInt(1)}
	ps := primes.First(len(instrs))
	for k, in := range instrs {
		f, err := factor(in, ps[k])
		if err != nil {
			return nil, err
		}
		coeffs = multiply(coeffs, f)
	}
	return coeffs, nil
}

// EncodeText encodes instrs as the polynomial definition h(var) = ...
func EncodeText(h Header, instrs []Instruction) (string, error) {
	coeffs, err := Encode(instrs)
	if err != nil {
		return "", err
	}
	return FormatPolynomial(h, Monomials(coeffs)), nil
}
