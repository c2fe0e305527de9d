// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"

	"golang.org/x/crypto/sha3"
)

const (
	storageHeader  = "POLYNOMI"
	headerSize     = 8
	storageVersion = 1
	digestSize     = 32
	checksumSize   = 32

	// header, version, digest, instruction count
	prefixSize = headerSize + 2 + digestSize + 4

	// flags, code, operand
	instrSize = 1 + 2 + 8

	flagImag = 1
)

// store16 stores a 16-bit value in little-endian format
func store16(p []byte, u uint16) {
	binary.LittleEndian.PutUint16(p, u)
}

// load16 loads a 16-bit value from little-endian format
func load16(p []byte) uint16 {
	return binary.LittleEndian.Uint16(p)
}

// digestCoefficients hashes the decimal form of a coefficient vector
func digestCoefficients(coeffs []*big.Int) [32]byte {
	var b bytes.Buffer
	for i, c := range coeffs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.String())
	}
	return sha3.Sum256(b.Bytes())
}

// IsStored reports whether b starts like a stored program
func IsStored(b []byte) bool {
	return bytes.HasPrefix(b, []byte(storageHeader))
}

// Store serializes the instruction stream of p in a platform-independent
// way. Codes outside the int16 range are rejected.
func (p *Program) Store() ([]byte, error) {
	out := make([]byte, prefixSize+len(p.Instructions)*instrSize+checksumSize)
	pos := 0

	// Header
	copy(out[pos:], storageHeader)
	pos += headerSize

	store16(out[pos:], storageVersion)
	pos += 2

	copy(out[pos:], p.Digest[:])
	pos += digestSize

	binary.LittleEndian.PutUint32(out[pos:], uint32(len(p.Instructions)))
	pos += 4

	for _, in := range p.Instructions {
		if in.Code < math.MinInt16 || in.Code > math.MaxInt16 {
			return nil, errorf(StatusErrFormat, "code %d does not fit in 16 bits", in.Code)
		}
		if in.Imag {
			out[pos] = flagImag
		}
		store16(out[pos+1:], uint16(int16(in.Code)))
		binary.LittleEndian.PutUint64(out[pos+3:], math.Float64bits(in.Operand))
		pos += instrSize
	}

	// Footer checksum
	sum := sha3.Sum256(out[:pos])
	copy(out[pos:], sum[:])
	return out, nil
}

// Load deserializes a program written by Store
func Load(b []byte) (*Program, error) {
	if len(b) < prefixSize+checksumSize {
		return nil, errorf(StatusErrFormat, "%d bytes is too short", len(b))
	}
	pos := 0

	// Check header
	if string(b[pos:pos+headerSize]) != storageHeader {
		return nil, errorf(StatusErrFormat, "bad header %q", b[pos:pos+headerSize])
	}
	pos += headerSize

	if v := load16(b[pos:]); v != storageVersion {
		return nil, errorf(StatusErrFormat, "unsupported version %d", v)
	}
	pos += 2

	p := &Program{}
	copy(p.Digest[:], b[pos:pos+digestSize])
	pos += digestSize

	n := int(binary.LittleEndian.Uint32(b[pos:]))
	pos += 4
	if want := prefixSize + n*instrSize + checksumSize; n < 0 || len(b) != want {
		return nil, errorf(StatusErrFormat, "%d instructions need %d bytes, got %d", n, want, len(b))
	}

	// Verify checksum
	body := len(b) - checksumSize
	if sum := sha3.Sum256(b[:body]); !bytes.Equal(sum[:], b[body:]) {
		return nil, StatusErrChecksum
	}

	p.Instructions = make([]Instruction, n)
	for i := range p.Instructions {
		flags := b[pos]
		if flags&^flagImag != 0 {
			return nil, errorf(StatusErrFormat, "instruction %d has flags %#x", i, flags)
		}
		p.Instructions[i] = Instruction{
			Code:    int(int16(load16(b[pos+1:]))),
			Operand: math.Float64frombits(binary.LittleEndian.Uint64(b[pos+3:])),
			Imag:    flags&flagImag != 0,
		}
		pos += instrSize
	}
	return p, nil
}
