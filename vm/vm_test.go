// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package vm

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	polynomial "github.com/complex-gh/polynomial_go"
)

func assemble(t *testing.T, src string) []polynomial.Instruction {
	t.Helper()
	instrs, err := polynomial.ParseAssembly(src)
	require.NoError(t, err)
	return instrs
}

func runSource(t *testing.T, src, input string, maxSteps int) (*Machine, string, error) {
	t.Helper()
	var out bytes.Buffer
	m := New(Config{Stdin: strings.NewReader(input), Stdout: &out, MaxSteps: maxSteps})
	err := m.Run(context.Background(), assemble(t, src))
	return m, out.String(), err
}

func TestRunArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"add 5\nsub 7", -2},
		{"add 6\nmul 7", 42},
		{"add 7\ndiv 2", 3.5},
		{"add 7\nmod 3", 1},
		{"sub 7\nmod 3", 2},
		{"add 7\nmod -3", -2},
		{"add 2\npow 10", 1024},
		{"add 7\ndiv 2.5", 3.5},
		{"add 7\nmul -1.9", -7},
		{"add 4\npow 0.5", 1},
	}
	for _, tt := range tests {
		m, _, err := runSource(t, tt.src, "", 0)
		require.NoError(t, err, tt.src)
		require.Equal(t, tt.want, m.Acc(), tt.src)
	}
}

func TestRunPrintAndRead(t *testing.T) {
	_, out, err := runSource(t, "add 72\nprint\nadd 33\nprint", "", 0)
	require.NoError(t, err)
	require.Equal(t, "Hi", out)

	m, out, err := runSource(t, "read\nprint\nread\nprint", "é\r\nz", 0)
	require.NoError(t, err)
	require.Equal(t, "éz", out)
	require.Equal(t, float64('z'), m.Acc())
}

func TestRunLoops(t *testing.T) {
	// print 'a'..'e'
	src := `
add 5
whilepos
  add 96
  print
  sub 96
  sub 1
end
`
	m, out, err := runSource(t, src, "", 0)
	require.NoError(t, err)
	require.Equal(t, "edcba", out)
	require.Zero(t, m.Acc())

	// a false while condition skips the body entirely
	_, out, err = runSource(t, "whileneg\n  add 65\n  print\nend\nadd 66\nprint", "", 0)
	require.NoError(t, err)
	require.Equal(t, "B", out)

	// whilezero runs once when the body makes ACC non-zero
	m, _, err = runSource(t, "whilezero\n  add 3\nend", "", 0)
	require.NoError(t, err)
	require.Equal(t, float64(3), m.Acc())
}

func TestRunConditionals(t *testing.T) {
	src := `
sub 1
ifneg
  add 79
  print
fi
ifpos
  add 1
  print
end
ifzero
  add 1
fi
`
	m, out, err := runSource(t, src, "", 0)
	require.NoError(t, err)
	require.Equal(t, "NO", out)
	require.Equal(t, float64(79), m.Acc())
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		src   string
		input string
		want  error
	}{
		{"add 1\ndiv 0", "", ErrDivisionByZero},
		{"add 1\nmod 0", "", ErrDivisionByZero},
		{"pow -1", "", ErrDivisionByZero},
		{"add 1\ndiv 0.5", "", ErrDivisionByZero},
		{"add 10\npow 400\nmul 0\npow 2", "", ErrDomain},
		{"sub 1\nprint", "", ErrNotCharacter},
		{"add 1\ndiv 2\nprint", "", ErrNotCharacter},
		{"read", "", ErrBadInput},
		{"read", "ab\n", ErrBadInput},
		{"read", "\n", ErrBadInput},
		{"add 1\nwhilepos\nend", "", ErrStepLimit},
	}
	for _, tt := range tests {
		_, _, err := runSource(t, tt.src, tt.input, 100)
		require.ErrorIs(t, err, tt.want, tt.src)

		var rerr *RuntimeError
		require.ErrorAs(t, err, &rerr, tt.src)
	}
}

func TestRunRejectsStructure(t *testing.T) {
	m := New(Config{})
	err := m.Run(context.Background(), []polynomial.Instruction{{Code: 1}})
	require.ErrorIs(t, err, polynomial.StatusErrUnbalanced)

	err = m.Run(context.Background(), []polynomial.Instruction{{Code: 6}})
	require.ErrorIs(t, err, polynomial.StatusErrUnbalanced)

	err = m.Run(context.Background(), []polynomial.Instruction{{Code: 42}})
	require.ErrorIs(t, err, polynomial.StatusErrUnknownOpcode)
}

func TestRunHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(Config{})
	err := m.Run(ctx, assemble(t, "add 1\nwhilepos\nend"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestStepsCounted(t *testing.T) {
	m, _, err := runSource(t, "add 2\nwhilepos\n  sub 1\nend", "", 0)
	require.NoError(t, err)
	// add, then (whilepos, sub, end) twice, then the failing whilepos test
	require.Equal(t, 8, m.Steps())
}
