// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustAssemble(t *testing.T, src string) []Instruction {
	t.Helper()
	instrs, err := ParseAssembly(src)
	require.NoError(t, err)
	return instrs
}

func TestEncodeExactCoefficients(t *testing.T) {
	// (x^2 - 144x + 5188)(9x^2 + 1)
	coeffs, err := Encode(mustAssemble(t, "add 72\nprint"))
	require.NoError(t, err)
	require.Equal(t, []string{"9", "-1296", "46693", "-144", "5188"}, intsOf(coeffs))

	text, err := EncodeText(Header{"f", "x"}, mustAssemble(t, "add 72\nprint"))
	require.NoError(t, err)
	require.Equal(t, "f(x) = 9x^4 - 1296x^3 + 46693x^2 - 144x + 5188", text)
}

func TestEncodeRealCommands(t *testing.T) {
	// roots 2^1 and 3^1
	text, err := EncodeText(Header{"f", "x"}, mustAssemble(t, "ifpos\nifpos"))
	require.NoError(t, err)
	require.Equal(t, "f(x) = x^2 - 5x + 6", text)

	// roots 2^1 and 3^2
	coeffs, err := Encode(mustAssemble(t, "ifpos\nfi"))
	require.NoError(t, err)
	require.Equal(t, []string{"1", "-11", "18"}, intsOf(coeffs))
}

func TestEncodeEmpty(t *testing.T) {
	coeffs, err := Encode(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, intsOf(coeffs))
}

func TestEncodeRejects(t *testing.T) {
	for _, instrs := range [][]Instruction{
		{NewInstruction(OpAdd, 0)},
		{NewInstruction(OpSub, 0)},
		{NewInstruction(OpAdd, 2.5)},
		{NewInstruction(OpMul, 1e300)},
		{{Code: 9}},
		{{Code: 0, Imag: true}},
	} {
		_, err := Encode(instrs)
		require.ErrorIs(t, err, StatusErrUnencodable, "instructions %v", instrs)
	}
}
