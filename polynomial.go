// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/complex-gh/polynomial_go/internal/log"
)

// Constants
const (
	// Version of the toolchain
	Version = "0.1.0"

	// Tolerance is the magnitude below which a root component is treated as
	// zero, and the distance within which a float counts as an integer.
	Tolerance = 1e-11

	// RoundDigits is the number of decimal digits a value is rounded to
	// before it is truncated to an integer.
	RoundDigits = 8

	// DefaultIndent is the indentation unit of generated source
	DefaultIndent = "\t"
)

// Status represents the kind of failure of a pipeline stage
type Status int

const (
	// StatusOK indicates success
	StatusOK Status = iota

	// StatusErrMalformed indicates a monomial or header that cannot be parsed
	StatusErrMalformed

	// StatusErrPowerOrder indicates a duplicate or ascending power
	StatusErrPowerOrder

	// StatusErrRootFinding indicates the root solver did not converge
	StatusErrRootFinding

	// StatusErrDecodeMismatch indicates a root no prime decodes
	StatusErrDecodeMismatch

	// StatusErrUnknownOpcode indicates a decoded code outside the opcode table
	StatusErrUnknownOpcode

	// StatusErrUnbalanced indicates control blocks that do not nest
	StatusErrUnbalanced

	// StatusErrUnencodable indicates an instruction with no polynomial encoding
	StatusErrUnencodable

	// StatusErrFormat indicates an invalid stored program
	StatusErrFormat

	// StatusErrChecksum indicates a stored program checksum mismatch
	StatusErrChecksum
)

// Error returns the error message for the status
func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "success"
	case StatusErrMalformed:
		return "malformed polynomial text"
	case StatusErrPowerOrder:
		return "duplicate or out of order power"
	case StatusErrRootFinding:
		return "root finding failed"
	case StatusErrDecodeMismatch:
		return "no prime decodes root"
	case StatusErrUnknownOpcode:
		return "unknown opcode"
	case StatusErrUnbalanced:
		return "unbalanced control blocks"
	case StatusErrUnencodable:
		return "instruction cannot be encoded"
	case StatusErrFormat:
		return "invalid program format"
	case StatusErrChecksum:
		return "checksum mismatch"
	default:
		return "unknown error"
	}
}

// Error is a Status together with the input that caused it. errors.Is
// matches it against its Status.
type Error struct {
	Status Status
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Status.Error()
	}
	return e.Status.Error() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.Status
}

func errorf(s Status, format string, args ...any) error {
	return &Error{Status: s, Detail: fmt.Sprintf(format, args...)}
}

// Program holds the output of every stage of the pipeline. Programs loaded
// from storage carry only Instructions and Digest.
type Program struct {
	Header       Header
	Monomials    []Monomial
	Coefficients []*big.Int
	Roots        []complex128
	Instructions []Instruction
	Source       []string
	Digest       [32]byte
}

// Fingerprint returns the hex encoded digest of the coefficient vector
func (p *Program) Fingerprint() string {
	return hex.EncodeToString(p.Digest[:])
}

// Decode runs the pipeline from polynomial text up to the instruction stream.
func Decode(text string) (*Program, error) {
	logger := log.Default().Module("decode")

	header, monomials, err := ParsePolynomial(text)
	if err != nil {
		return nil, err
	}
	logger = logger.With("polynomial", header.Name+"("+header.Var+")")
	logger.Debug("parsed polynomial", "monomials", len(monomials))

	coeffs, err := Coefficients(monomials)
	if err != nil {
		return nil, err
	}
	logger.Debug("built coefficient vector", "degree", len(coeffs)-1)

	roots, err := FindRoots(coeffs)
	if err != nil {
		return nil, err
	}
	roots = CleanRoots(roots)
	logger.Debug("cleaned roots", "count", len(roots))

	instrs, err := DecodeRoots(roots)
	if err != nil {
		return nil, err
	}
	logger.Debug("decoded instructions", "count", len(instrs))

	return &Program{
		Header:       header,
		Monomials:    monomials,
		Coefficients: coeffs,
		Roots:        roots,
		Instructions: instrs,
		Digest:       digestCoefficients(coeffs),
	}, nil
}

// Compile decodes text and translates the instructions with g.
func (g *Generator) Compile(text string) (*Program, error) {
	p, err := Decode(text)
	if err != nil {
		return nil, err
	}
	p.Source, err = g.Translate(p.Instructions)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Compile decodes text and translates it with the default indentation.
func Compile(text string) (*Program, error) {
	g := &Generator{Indent: DefaultIndent}
	return g.Compile(text)
}
