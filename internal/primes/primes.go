// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

// Package primes provides an unbounded, lazily evaluated stream of primes.
package primes

// Stream yields primes in increasing order, starting at 2. The zero value is
// not usable; create streams with New.
type Stream struct {
	found []uint64
	next  uint64
}

// New returns a stream positioned before the first prime.
func New() *Stream {
	return &Stream{next: 2}
}

// Next returns the smallest prime larger than every prime returned so far.
func (s *Stream) Next() uint64 {
	if s.next == 2 {
		s.next = 3
		s.found = append(s.found, 2)
		return 2
	}
	for candidate := s.next; ; candidate += 2 {
		if s.isPrime(candidate) {
			s.found = append(s.found, candidate)
			s.next = candidate + 2
			return candidate
		}
	}
}

// isPrime tests candidate against the odd primes found so far
func (s *Stream) isPrime(candidate uint64) bool {
	// found[0] is 2 and candidates are always odd
	for _, p := range s.found[1:] {
		if p*p > candidate {
			break
		}
		if candidate%p == 0 {
			return false
		}
	}
	return true
}

// First returns the first n primes from a fresh stream.
func First(n int) []uint64 {
	if n <= 0 {
		return nil
	}
	s := New()
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}
