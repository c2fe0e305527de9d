// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Instruction is one decoded root. Imag reports whether the root had a
// non-zero imaginary part; in that case Code is the exponent recovered from
// the imaginary part and Operand the real part, otherwise Code is the
// exponent recovered from the real part and Operand is 0.
type Instruction struct {
	Code    int
	Operand float64
	Imag    bool
}

// Complex returns the instruction as operand + code·i, or code for real
// commands.
func (in Instruction) Complex() complex128 {
	if in.Imag {
		return complex(in.Operand, float64(in.Code))
	}
	return complex(float64(in.Code), 0)
}

// Argument returns the operand as generated programs use it, truncated
// toward zero. Operand itself keeps the decoded value.
func (in Instruction) Argument() float64 {
	t := math.Trunc(in.Operand)
	if t == 0 {
		// drop the sign of -0
		return 0
	}
	return t
}

// Op is an entry of the opcode table
type Op int

const (
	// OpInvalid is the zero Op, never produced by a successful lookup
	OpInvalid Op = iota

	// OpPrint writes ACC as a character (-1i, or 0+1i)
	OpPrint

	// OpRead sets ACC to the code point of one input character (-2i, or 0+2i)
	OpRead

	// OpAdd adds the operand to ACC (a+1i)
	OpAdd

	// OpSub subtracts the operand from ACC (a+2i)
	OpSub

	// OpMul multiplies ACC by the operand (a+3i)
	OpMul

	// OpDiv divides ACC by the operand (a+4i)
	OpDiv

	// OpMod sets ACC to ACC modulo the operand (a+5i)
	OpMod

	// OpPow raises ACC to the operand (a+6i)
	OpPow

	// OpIfPos opens a block run once when ACC > 0 (1)
	OpIfPos

	// OpEndIf closes the innermost block (2)
	OpEndIf

	// OpIfNeg opens a block run once when ACC < 0 (3)
	OpIfNeg

	// OpIfZero opens a block run once when ACC is zero (4)
	OpIfZero

	// OpWhilePos opens a block repeated while ACC > 0 (5)
	OpWhilePos

	// OpEnd closes the innermost block (6)
	OpEnd

	// OpWhileNeg opens a block repeated while ACC < 0 (7)
	OpWhileNeg

	// OpWhileZero opens a block repeated while ACC is zero (8)
	OpWhileZero
)

type opInfo struct {
	mnemonic string
	imag     bool
	code     int
	operand  bool
	stmt     string
	depth    int // +1 opens a block, -1 closes one
}

var opTable = [...]opInfo{
	OpInvalid:   {mnemonic: "invalid"},
	OpPrint:     {"print", true, -1, false, "print(chr(ACC))", 0},
	OpRead:      {"read", true, -2, false, "ACC = ord(input())", 0},
	OpAdd:       {"add", true, 1, true, "ACC +=", 0},
	OpSub:       {"sub", true, 2, true, "ACC -=", 0},
	OpMul:       {"mul", true, 3, true, "ACC *=", 0},
	OpDiv:       {"div", true, 4, true, "ACC /=", 0},
	OpMod:       {"mod", true, 5, true, "ACC %=", 0},
	OpPow:       {"pow", true, 6, true, "ACC **=", 0},
	OpIfPos:     {"ifpos", false, 1, false, "if ACC > 0:", 1},
	OpEndIf:     {"fi", false, 2, false, "", -1},
	OpIfNeg:     {"ifneg", false, 3, false, "if ACC < 0:", 1},
	OpIfZero:    {"ifzero", false, 4, false, "if not ACC:", 1},
	OpWhilePos:  {"whilepos", false, 5, false, "while ACC > 0:", 1},
	OpEnd:       {"end", false, 6, false, "", -1},
	OpWhileNeg:  {"whileneg", false, 7, false, "while ACC < 0:", 1},
	OpWhileZero: {"whilezero", false, 8, false, "while not ACC:", 1},
}

// String returns the assembler mnemonic of op
func (op Op) String() string {
	if op <= OpInvalid || int(op) >= len(opTable) {
		return opTable[OpInvalid].mnemonic
	}
	return opTable[op].mnemonic
}

// HasOperand reports whether the statement of op takes the operand
func (op Op) HasOperand() bool { return op > OpInvalid && int(op) < len(opTable) && opTable[op].operand }

// Opens reports whether op starts an indented block
func (op Op) Opens() bool { return op > OpInvalid && int(op) < len(opTable) && opTable[op].depth > 0 }

// Closes reports whether op ends the innermost block
func (op Op) Closes() bool { return op > OpInvalid && int(op) < len(opTable) && opTable[op].depth < 0 }

// IsLoop reports whether op opens a while block
func (op Op) IsLoop() bool {
	return op == OpWhilePos || op == OpWhileNeg || op == OpWhileZero
}

// Op looks the instruction up in the opcode table. An operand-free 0+1i or
// 0+2i is read as print or read respectively, the alternative encoding of
// the I/O operations.
func (in Instruction) Op() (Op, error) {
	code := in.Code
	if in.Imag && in.Operand == 0 {
		switch code {
		case 1:
			code = -1
		case 2:
			code = -2
		}
	}
	for op := OpPrint; int(op) < len(opTable); op++ {
		if opTable[op].imag == in.Imag && opTable[op].code == code {
			return op, nil
		}
	}
	return OpInvalid, errorf(StatusErrUnknownOpcode, "%v", in.Complex())
}

// NewInstruction returns the canonical instruction for op. Ops outside the
// table give the zero Instruction, which Op rejects.
func NewInstruction(op Op, operand float64) Instruction {
	if op <= OpInvalid || int(op) >= len(opTable) {
		return Instruction{}
	}
	info := opTable[op]
	in := Instruction{Code: info.code, Imag: info.imag}
	if info.operand {
		in.Operand = operand
	}
	return in
}

func formatOperand(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String renders the instruction in assembler form
func (in Instruction) String() string {
	op, err := in.Op()
	if err != nil {
		return fmt.Sprintf("?%v", in.Complex())
	}
	if op.HasOperand() {
		return op.String() + " " + formatOperand(in.Operand)
	}
	return op.String()
}

// lookupMnemonic finds the op named by s
func lookupMnemonic(s string) (Op, bool) {
	s = strings.ToLower(s)
	for op := OpPrint; int(op) < len(opTable); op++ {
		if opTable[op].mnemonic == s {
			return op, true
		}
	}
	return OpInvalid, false
}

// ParseAssembly reads one instruction per line, e.g. "add 72" or "whilepos".
// Text after '#' is a comment.
func ParseAssembly(text string) ([]Instruction, error) {
	var out []Instruction
	sc := bufio.NewScanner(strings.NewReader(text))
	for line := 1; sc.Scan(); line++ {
		src := sc.Text()
		if i := strings.IndexByte(src, '#'); i >= 0 {
			src = src[:i]
		}
		fields := strings.Fields(src)
		if len(fields) == 0 {
			continue
		}
		op, ok := lookupMnemonic(fields[0])
		if !ok {
			return nil, errorf(StatusErrMalformed, "line %d: unknown mnemonic %q", line, fields[0])
		}
		if !op.HasOperand() {
			if len(fields) != 1 {
				return nil, errorf(StatusErrMalformed, "line %d: %s takes no operand", line, op)
			}
			out = append(out, NewInstruction(op, 0))
			continue
		}
		if len(fields) != 2 {
			return nil, errorf(StatusErrMalformed, "line %d: %s takes one operand", line, op)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, errorf(StatusErrMalformed, "line %d: operand %q", line, fields[1])
		}
		out = append(out, NewInstruction(op, v))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FormatAssembly renders instructions one per line, indenting block bodies
// by two spaces.
func FormatAssembly(instrs []Instruction) string {
	var b strings.Builder
	depth := 0
	for _, in := range instrs {
		op, _ := in.Op()
		if op.Closes() && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(in.String())
		b.WriteByte('\n')
		if op.Opens() {
			depth++
		}
	}
	return b.String()
}
