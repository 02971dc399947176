// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestZDDReduction verifies the zero-suppressed reduction rule: a node whose
// high branch is the constant false collapses to its low branch, while nodes
// with equal branches are kept.
func TestZDDReduction(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())

	// (level, low, 0) reduces to low
	b.initref()
	n := b.makenode(1, 1, 0)
	assert.Equal(t, 1, n)

	// (level, low, low) is a real node in a ZDD
	m := b.makenode(1, 1, 1)
	assert.Greater(t, m, 1)
}

// TestZDDSatcount verifies the family counts of the documentation scenario:
// the empty family counts zero, the universe counts 2^n and is distinct from
// the one terminal.
func TestZDDSatcount(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())

	assert.Equal(t, big.NewInt(0), b.Satcount(b.False()), "the empty family has no member")
	assert.Equal(t, big.NewInt(1), b.Satcount(b.True()), "the one terminal only contains the empty set")

	u := b.Universe()
	require.NotNil(t, u)
	assert.Equal(t, big.NewInt(8), b.Satcount(u), "the universe contains every subset")
	assert.False(t, u.IsOne(), "the universe is not the one terminal")
	assert.True(t, u.IsUniverse())
	assert.False(t, b.True().IsUniverse())
	assert.Equal(t, 3, b.NodeCount(u), "the universe is a chain of don't-care nodes")
}

// TestZDDIthvar verifies the singleton families and the mode restrictions.
func TestZDDIthvar(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())

	x := b.Ithvar(1)
	require.NotNil(t, x)
	assert.Equal(t, big.NewInt(1), b.Satcount(x), "ithvar is the family with the single set {i}")

	assert.Nil(t, b.NIthvar(1), "negated literals do not exist in a ZDD")
	assert.True(t, errors.Is(b.Err(), ErrMode))
	b.ClearError()

	assert.Nil(t, b.Simplify(x, x), "the Coudert-Madre restrict keys on the BDD reduction rule")
	assert.True(t, errors.Is(b.Err(), ErrMode))
	b.ClearError()
}

// TestZDDNot verifies that negation complements with respect to the
// universe.
func TestZDDNot(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())

	x := b.Ithvar(0)
	nx := b.Not(x)
	require.NotNil(t, nx)
	count := new(big.Int).Add(b.Satcount(x), b.Satcount(nx))
	assert.Equal(t, big.NewInt(8), count, "a family and its complement partition the universe")
	assert.True(t, b.And(x, nx).IsZero())
	u := b.Or(x, nx)
	assert.True(t, u.IsUniverse())
}

// TestZDDAllsat verifies the don't-care detection in ZDD mode: a level is a
// don't care exactly when the low and high branches are equal, and absent
// levels are false.
func TestZDDAllsat(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())

	// the singleton {1}: x1 is true, the others are false
	x := b.Ithvar(1)
	vectors := [][]int{}
	require.NoError(t, b.Allsat(x, func(v []int) error {
		w := make([]int, len(v))
		copy(w, v)
		vectors = append(vectors, w)
		return nil
	}))
	require.Len(t, vectors, 1)
	assert.Equal(t, []int{0, 1, 0}, vectors[0])

	// the universe: every level is a don't care
	u := b.Universe()
	vectors = nil
	require.NoError(t, b.Allsat(u, func(v []int) error {
		w := make([]int, len(v))
		copy(w, v)
		vectors = append(vectors, w)
		return nil
	}))
	require.Len(t, vectors, 1)
	assert.Equal(t, []int{-1, -1, -1}, vectors[0])

	// same detection through the iterator
	it := u.AllsatIterator()
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, []int{-1, -1, -1}, v)
	_, ok = it.Next()
	assert.False(t, ok)
}

// TestZDDMintermIterator verifies the odometer expansion in ZDD mode.
func TestZDDMintermIterator(t *testing.T) {
	b := newTestBDD(t, 3, ZDD())
	u := b.Universe()
	V, err := b.NewVarSet(0, 1, 2)
	require.NoError(t, err)

	it, err := u.Iterator(V)
	require.NoError(t, err)
	count := 0
	for {
		m, ok := it.Next()
		if !ok {
			break
		}
		count++
		assert.Equal(t, big.NewInt(1), b.Satcount(m), "each expansion is a single set")
	}
	assert.Equal(t, 8, count)
}
