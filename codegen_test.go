// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpTableRoundtrip(t *testing.T) {
	for op := OpPrint; op <= OpWhileZero; op++ {
		got, err := NewInstruction(op, 7).Op()
		require.NoError(t, err, "op %s", op)
		require.Equal(t, op, got)
	}
}

func TestNewInstructionOutsideTable(t *testing.T) {
	for _, op := range []Op{OpInvalid, -1, OpWhileZero + 1, 1000} {
		in := NewInstruction(op, 3)
		require.Equal(t, Instruction{}, in, "op %d", int(op))
		_, err := in.Op()
		require.ErrorIs(t, err, StatusErrUnknownOpcode)
	}
}

func TestOpNormalizesIOAliases(t *testing.T) {
	op, err := Instruction{Code: 1, Imag: true}.Op()
	require.NoError(t, err)
	require.Equal(t, OpPrint, op)

	op, err = Instruction{Code: 2, Imag: true}.Op()
	require.NoError(t, err)
	require.Equal(t, OpRead, op)

	op, err = Instruction{Code: 1, Operand: 5, Imag: true}.Op()
	require.NoError(t, err)
	require.Equal(t, OpAdd, op)

	// real codes are never aliased
	op, err = Instruction{Code: 2}.Op()
	require.NoError(t, err)
	require.Equal(t, OpEndIf, op)
}

func TestOpUnknown(t *testing.T) {
	for _, in := range []Instruction{
		{Code: 0},
		{Code: 9},
		{Code: -1},
		{Code: 7, Imag: true},
		{Code: 0, Operand: 3, Imag: true},
		{Code: -3, Imag: true},
	} {
		_, err := in.Op()
		require.ErrorIs(t, err, StatusErrUnknownOpcode, "instruction %v", in.Complex())
	}
}

func TestStatementTable(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{NewInstruction(OpPrint, 0), "print(chr(ACC))"},
		{NewInstruction(OpRead, 0), "ACC = ord(input())"},
		{NewInstruction(OpAdd, 72), "ACC += 72"},
		{NewInstruction(OpSub, 1), "ACC -= 1"},
		{NewInstruction(OpMul, -3), "ACC *= -3"},
		{NewInstruction(OpDiv, 2.5), "ACC /= 2"},
		{NewInstruction(OpAdd, -2.9), "ACC += -2"},
		{NewInstruction(OpSub, -0.5), "ACC -= 0"},
		{NewInstruction(OpMul, 1e20), "ACC *= 100000000000000000000"},
		{NewInstruction(OpMod, 10), "ACC %= 10"},
		{NewInstruction(OpPow, 2), "ACC **= 2"},
		{NewInstruction(OpIfPos, 0), "if ACC > 0:"},
		{NewInstruction(OpEndIf, 0), ""},
		{NewInstruction(OpIfNeg, 0), "if ACC < 0:"},
		{NewInstruction(OpIfZero, 0), "if not ACC:"},
		{NewInstruction(OpWhilePos, 0), "while ACC > 0:"},
		{NewInstruction(OpEnd, 0), ""},
		{NewInstruction(OpWhileNeg, 0), "while ACC < 0:"},
		{NewInstruction(OpWhileZero, 0), "while not ACC:"},
	}
	for _, tt := range tests {
		got, err := Statement(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestTranslate(t *testing.T) {
	instrs := []Instruction{
		NewInstruction(OpAdd, 72),
		NewInstruction(OpWhilePos, 0),
		NewInstruction(OpIfNeg, 0),
		NewInstruction(OpPrint, 0),
		NewInstruction(OpEndIf, 0),
		NewInstruction(OpSub, 1),
		NewInstruction(OpEnd, 0),
		NewInstruction(OpPrint, 0),
	}

	g := &Generator{}
	lines, err := g.Translate(instrs)
	require.NoError(t, err)
	require.Equal(t, []string{
		"ACC = 0",
		"ACC += 72",
		"while ACC > 0:",
		"\tif ACC < 0:",
		"\t\tprint(chr(ACC))",
		"\t\t",
		"\tACC -= 1",
		"\t",
		"print(chr(ACC))",
	}, lines)

	g = &Generator{Indent: "    "}
	lines, err = g.Translate(instrs[1:7])
	require.NoError(t, err)
	require.Equal(t, "        print(chr(ACC))", lines[3])
}

func TestTranslateRejectsUnbalancedBlocks(t *testing.T) {
	g := &Generator{}

	// f(x) = x^2 - 5x + 6 decodes to two openers and no closer
	_, err := g.Translate([]Instruction{{Code: 1}, {Code: 1}})
	require.ErrorIs(t, err, StatusErrUnbalanced)

	_, err = g.Translate([]Instruction{{Code: 6}})
	require.ErrorIs(t, err, StatusErrUnbalanced)

	_, err = g.Translate([]Instruction{{Code: 9}})
	require.ErrorIs(t, err, StatusErrUnknownOpcode)

	lines, err := g.Translate(nil)
	require.NoError(t, err)
	require.Equal(t, []string{"ACC = 0"}, lines)
}

func TestTranslateBalancedEndsAtDepthZero(t *testing.T) {
	opens := []Op{OpIfPos, OpIfNeg, OpIfZero, OpWhilePos, OpWhileNeg, OpWhileZero}
	closes := []Op{OpEndIf, OpEnd}
	g := &Generator{}
	for _, o := range opens {
		for _, c := range closes {
			instrs := []Instruction{NewInstruction(o, 0), NewInstruction(OpAdd, 1), NewInstruction(c, 0), NewInstruction(OpPrint, 0)}
			lines, err := g.Translate(instrs)
			require.NoError(t, err, "%s ... %s", o, c)
			require.Equal(t, "print(chr(ACC))", lines[len(lines)-1])
		}
	}
}

func TestParseAssembly(t *testing.T) {
	src := `
# say H
ADD 72
print      # emit
whilepos
  sub 1
end
`
	instrs, err := ParseAssembly(src)
	require.NoError(t, err)
	require.Equal(t, []Instruction{
		{Code: 1, Operand: 72, Imag: true},
		{Code: -1, Imag: true},
		{Code: 5},
		{Code: 2, Operand: 1, Imag: true},
		{Code: 6},
	}, instrs)

	again, err := ParseAssembly(FormatAssembly(instrs))
	require.NoError(t, err)
	require.Equal(t, instrs, again)
	require.Equal(t, "add 72\nprint\nwhilepos\n  sub 1\nend\n", FormatAssembly(instrs))
}

func TestParseAssemblyErrors(t *testing.T) {
	for _, src := range []string{
		"jump 3",
		"add",
		"add 1 2",
		"print 1",
		"mul x",
	} {
		_, err := ParseAssembly(src)
		require.ErrorIs(t, err, StatusErrMalformed, "source %q", src)
	}
}
