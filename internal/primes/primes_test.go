// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package primes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamYieldsPrimesInOrder(t *testing.T) {
	s := New()
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47}
	for i, p := range want {
		require.Equal(t, p, s.Next(), "prime #%d", i)
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.Next()
	a.Next()
	require.Equal(t, uint64(2), b.Next())
	require.Equal(t, uint64(5), a.Next())
}

func TestFirst(t *testing.T) {
	require.Nil(t, First(0))
	require.Equal(t, []uint64{2}, First(1))

	ps := First(100)
	require.Len(t, ps, 100)
	require.Equal(t, uint64(541), ps[99])
	for i := 1; i < len(ps); i++ {
		require.Greater(t, ps[i], ps[i-1])
	}
}
