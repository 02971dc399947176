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

// TestFromString verifies the expression front end against diagrams built
// directly with the factory operations.
func TestFromString(t *testing.T) {
	b := newTestBDD(t, 4)
	x0 := b.Ithvar(0)
	x1 := b.Ithvar(1)
	x2 := b.Ithvar(2)

	cases := []struct {
		input    string
		expected *Node
	}{
		{"true", b.True()},
		{"false", b.False()},
		{"x0", x0},
		{"!x0", b.Not(x0)},
		{"x0 & x1", b.And(x0, x1)},
		{"x0 | x1 & x2", b.Or(x0, b.And(x1, x2))},
		{"(x0 | x1) & x2", b.And(b.Or(x0, x1), x2)},
		{"x0 ^ x1", b.Xor(x0, x1)},
		{"x0 -> x1", b.Imp(x0, x1)},
		{"x0 <-> x1", b.Equiv(x0, x1)},
		{"!(x0 & x1) <-> (!x0 | !x1)", b.True()},
		{"x0 & !x0", b.False()},
	}
	for _, tt := range cases {
		actual, err := b.FromString(tt.input)
		require.NoError(t, err, "parsing %q should succeed", tt.input)
		assert.True(t, b.Equal(actual, tt.expected), "wrong diagram for %q", tt.input)
	}
}

// TestFromStringPrecedence verifies that ! binds tighter than &, then ^, |,
// -> and <->.
func TestFromStringPrecedence(t *testing.T) {
	b := newTestBDD(t, 4)
	left, err := b.FromString("x0 | x1 <-> !x2 & x3")
	require.NoError(t, err)
	right, err := b.FromString("(x0 | x1) <-> ((!x2) & x3)")
	require.NoError(t, err)
	assert.True(t, b.Equal(left, right))
}

// TestFromStringErrors verifies the error reporting of the parser.
func TestFromStringErrors(t *testing.T) {
	b := newTestBDD(t, 2)

	_, err := b.FromString("x0 &")
	assert.Error(t, err, "truncated input")
	b.ClearError()

	_, err = b.FromString("y1")
	assert.True(t, errors.Is(err, ErrArgument), "unknown identifier")
	b.ClearError()

	_, err = b.FromString("x7")
	assert.True(t, errors.Is(err, ErrArgument), "variable out of range")
	b.ClearError()
}

// TestFromStringSatcount ties the parser with the counting operations.
func TestFromStringSatcount(t *testing.T) {
	b := newTestBDD(t, 3)
	f, err := b.FromString("x0 & x1 | x2")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5), b.Satcount(f))
	assert.Equal(t, 3, b.NodeCount(f))
}
