// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"math"

	"github.com/complex-gh/polynomial_go/internal/primes"
)

// roundInt rounds x to RoundDigits decimals and truncates the result
// toward zero.
func roundInt(x float64) float64 {
	// integral values are already rounded; scaling large ones would lose them
	if t := math.Trunc(x); t == x {
		return t
	}
	scale := math.Pow10(RoundDigits)
	return math.Trunc(math.Round(x*scale) / scale)
}

// IsAlmostInteger reports whether x is within Tolerance of an integer
func IsAlmostInteger(x float64) bool {
	return math.Abs(x-roundInt(x)) < Tolerance
}

// exponent returns log_p of the component of root that carries the code.
// The sign of a negative real root is kept on the result.
func exponent(root complex128, p uint64) float64 {
	lp := math.Log(float64(p))
	if im := imag(root); im != 0 {
		// negative imaginary parts never survive CleanRoots; Log yields NaN
		return math.Log(im) / lp
	}
	if re := real(root); re < 0 {
		return -math.Log(-re) / lp
	}
	return math.Log(real(root)) / lp
}

// decodeRoot recovers the instruction root encodes under prime p
func decodeRoot(root complex128, p uint64) (Instruction, bool) {
	exp := exponent(root, p)
	if !IsAlmostInteger(exp) {
		return Instruction{}, false
	}
	code := int(roundInt(exp))
	if imag(root) == 0 {
		return Instruction{Code: code}, true
	}
	operand := real(root)
	// eliminate operand == 0.99999987 etc.
	if IsAlmostInteger(operand) {
		operand = roundInt(operand)
	}
	return Instruction{Code: code, Operand: operand, Imag: true}, true
}

// DecodeRoots recovers the instruction stream from cleaned roots. The k-th
// prime fills the k-th instruction slot with the first unconsumed root it
// decodes, so the stream is ordered by prime rank and not by root order.
func DecodeRoots(roots []complex128) ([]Instruction, error) {
	ps := primes.First(len(roots))
	instrs := make([]Instruction, len(roots))
	used := make([]bool, len(roots))

	for rank, p := range ps {
		for i, root := range roots {
			if used[i] {
				continue
			}
			if in, ok := decodeRoot(root, p); ok {
				instrs[rank] = in
				used[i] = true
				break
			}
		}
	}

	for i, root := range roots {
		if !used[i] {
			return nil, errorf(StatusErrDecodeMismatch, "root %v, primes %v", root, ps)
		}
	}
	return instrs, nil
}
