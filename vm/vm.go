// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package vm executes decoded instruction streams. It is the runtime the
// generated source describes: one accumulator, character I/O, and if/while
// blocks keyed on the sign of the accumulator.
package vm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	polynomial "github.com/complex-gh/polynomial_go"
	"github.com/complex-gh/polynomial_go/internal/log"
)

var (
	// ErrDivisionByZero is returned by div, mod and pow with a zero divisor
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotCharacter is returned when print finds no valid code point in ACC
	ErrNotCharacter = errors.New("accumulator is not a character")

	// ErrDomain is returned when pow has no real result
	ErrDomain = errors.New("result is not a real number")

	// ErrBadInput is returned when read gets anything but a single character
	ErrBadInput = errors.New("expected a single character of input")

	// ErrStepLimit is returned when the configured step limit is exceeded
	ErrStepLimit = errors.New("step limit exceeded")
)

// RuntimeError wraps a failure with the instruction that caused it
type RuntimeError struct {
	PC  int
	Op  polynomial.Op
	Err error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("instruction %d (%s): %v", e.PC, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Config configures a Machine
type Config struct {
	// Stdin feeds read; nil means no input is available.
	Stdin io.Reader

	// Stdout receives printed characters; nil discards them.
	Stdout io.Writer

	// MaxSteps bounds executed instructions; 0 means no bound.
	MaxSteps int
}

// Machine holds the accumulator between runs
type Machine struct {
	in       *bufio.Reader
	out      *bufio.Writer
	maxSteps int
	acc      float64
	steps    int
	log      *log.Logger
}

// New returns a machine with ACC = 0
func New(cfg Config) *Machine {
	stdin, stdout := cfg.Stdin, cfg.Stdout
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	if stdout == nil {
		stdout = io.Discard
	}
	return &Machine{
		in:       bufio.NewReader(stdin),
		out:      bufio.NewWriter(stdout),
		maxSteps: cfg.MaxSteps,
		log:      log.Default().Module("vm"),
	}
}

// Acc returns the accumulator
func (m *Machine) Acc() float64 { return m.acc }

// Steps returns the number of instructions executed by the last Run
func (m *Machine) Steps() int { return m.steps }

// matchBlocks pairs every opening instruction with its closer, in both
// directions.
func matchBlocks(ops []polynomial.Op) ([]int, error) {
	match := make([]int, len(ops))
	var stack []int
	for i, op := range ops {
		switch {
		case op.Opens():
			stack = append(stack, i)
		case op.Closes():
			if len(stack) == 0 {
				return nil, &polynomial.Error{
					Status: polynomial.StatusErrUnbalanced,
					Detail: fmt.Sprintf("%s at instruction %d closes no block", op, i),
				}
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			match[open], match[i] = i, open
		}
	}
	if len(stack) != 0 {
		return nil, &polynomial.Error{
			Status: polynomial.StatusErrUnbalanced,
			Detail: fmt.Sprintf("%d block(s) left open", len(stack)),
		}
	}
	return match, nil
}

// test evaluates the condition of an opening op against acc
func test(op polynomial.Op, acc float64) bool {
	switch op {
	case polynomial.OpIfPos, polynomial.OpWhilePos:
		return acc > 0
	case polynomial.OpIfNeg, polynomial.OpWhileNeg:
		return acc < 0
	default:
		return acc == 0
	}
}

// pyMod is the floored modulo, whose result has the sign of the divisor
func pyMod(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// Run executes instrs. Output is flushed before every read and on return.
func (m *Machine) Run(ctx context.Context, instrs []polynomial.Instruction) (err error) {
	ops := make([]polynomial.Op, len(instrs))
	for i, in := range instrs {
		if ops[i], err = in.Op(); err != nil {
			return err
		}
	}
	match, err := matchBlocks(ops)
	if err != nil {
		return err
	}

	defer func() {
		if ferr := m.out.Flush(); err == nil {
			err = ferr
		}
	}()

	m.steps = 0
	m.log.Debug("run", "instructions", len(instrs))
	for pc := 0; pc < len(ops); {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.steps++
		if m.maxSteps > 0 && m.steps > m.maxSteps {
			return &RuntimeError{PC: pc, Op: ops[pc], Err: ErrStepLimit}
		}

		op, operand := ops[pc], instrs[pc].Argument()
		if err := m.exec(op, operand); err != nil {
			return &RuntimeError{PC: pc, Op: op, Err: err}
		}

		switch {
		case op.Opens() && !test(op, m.acc):
			pc = match[pc] + 1
		case op.Closes() && ops[match[pc]].IsLoop():
			pc = match[pc]
		default:
			pc++
		}
	}
	m.log.Debug("halt", "steps", m.steps, "acc", m.acc)
	return nil
}

// exec applies a non-control op to the accumulator
func (m *Machine) exec(op polynomial.Op, operand float64) error {
	switch op {
	case polynomial.OpPrint:
		c := m.acc
		if c != math.Trunc(c) || c < 0 || c > utf8.MaxRune || !utf8.ValidRune(rune(c)) {
			return fmt.Errorf("%w: %v", ErrNotCharacter, c)
		}
		_, err := m.out.WriteRune(rune(c))
		return err
	case polynomial.OpRead:
		if err := m.out.Flush(); err != nil {
			return err
		}
		line, err := m.in.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return fmt.Errorf("%w: %v", ErrBadInput, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if utf8.RuneCountInString(line) != 1 {
			return fmt.Errorf("%w: got %q", ErrBadInput, line)
		}
		r, _ := utf8.DecodeRuneInString(line)
		m.acc = float64(r)
	case polynomial.OpAdd:
		m.acc += operand
	case polynomial.OpSub:
		m.acc -= operand
	case polynomial.OpMul:
		m.acc *= operand
	case polynomial.OpDiv:
		if operand == 0 {
			return ErrDivisionByZero
		}
		m.acc /= operand
	case polynomial.OpMod:
		if operand == 0 {
			return ErrDivisionByZero
		}
		m.acc = pyMod(m.acc, operand)
	case polynomial.OpPow:
		if m.acc == 0 && operand < 0 {
			return ErrDivisionByZero
		}
		v := math.Pow(m.acc, operand)
		if math.IsNaN(v) {
			return ErrDomain
		}
		m.acc = v
	}
	return nil
}
