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

func newTestDomains(t *testing.T, sizes ...int64) (*BDD, []*Domain) {
	t.Helper()
	b, err := New(1)
	require.NoError(t, err)
	doms, err := b.ExtDomain(sizes...)
	require.NoError(t, err)
	return b, doms
}

// TestExtDomain verifies the variable allocation of finite domain blocks.
func TestExtDomain(t *testing.T) {
	b, doms := newTestDomains(t, 8, 5)
	d, e := doms[0], doms[1]

	assert.Equal(t, 3, d.VarNum(), "a domain of size 8 uses 3 bits")
	assert.Equal(t, 3, e.VarNum(), "a domain of size 5 uses 3 bits")
	assert.Equal(t, []int{1, 2, 3}, d.Vars(), "bits are allocated after the existing variables")
	assert.Equal(t, []int{4, 5, 6}, e.Vars())
	assert.Equal(t, 7, b.Varnum())
	assert.Equal(t, 2, b.NumberOfDomains())
	assert.Equal(t, big.NewInt(8), d.Size())

	_, err := b.ExtDomain(1)
	assert.True(t, errors.Is(err, ErrArgument), "a domain must have at least two values")
}

// TestIthVar verifies the value encodings of a domain.
func TestIthVar(t *testing.T) {
	b, doms := newTestDomains(t, 8)
	d := doms[0]

	// distinct values are disjoint
	for i := int64(0); i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			assert.True(t, b.And(d.IthVar(i), d.IthVar(j)).IsZero(),
				"ithvar(%d) and ithvar(%d) should be disjoint", i, j)
		}
	}

	// the domain is the disjunction of all its values
	all := b.False()
	for i := int64(0); i < 8; i++ {
		all = all.OrWith(d.IthVar(i))
	}
	assert.True(t, b.Equal(d.Domain(), all))

	// out of range values are errors
	assert.Nil(t, d.IthVar(8))
	assert.True(t, errors.Is(b.Err(), ErrArgument))
	b.ClearError()
	assert.Nil(t, d.IthVar(-1))
	b.ClearError()

	// a value can be read back from its encoding
	set := d.Set()
	assert.Equal(t, 3, set.Size())
	val := d.IthVar(5).ScanVar(d)
	require.NotNil(t, val)
	assert.Equal(t, big.NewInt(5), val)
}

// TestDomainOfNonPowerSize verifies Domain on a range that is not a power of
// two.
func TestDomainOfNonPowerSize(t *testing.T) {
	b, doms := newTestDomains(t, 5)
	d := doms[0]
	all := b.False()
	for i := int64(0); i < 5; i++ {
		all = all.OrWith(d.IthVar(i))
	}
	assert.True(t, b.Equal(d.Domain(), all))
	assert.Equal(t, float64(5), b.SatcountSet(d.Domain(), d.Set()))
}

// TestVarRange verifies the greedy block decomposition of VarRange on the
// scenario of the documentation: a domain of range 8, where varRange(2, 5)
// must equal the disjunction of the values 2 to 5.
func TestVarRange(t *testing.T) {
	b, doms := newTestDomains(t, 8)
	d := doms[0]

	r := d.VarRange(2, 5)
	require.NotNil(t, r)
	expected := b.False()
	for i := int64(2); i <= 5; i++ {
		expected = expected.OrWith(d.IthVar(i))
	}
	assert.True(t, b.Equal(r, expected))
	assert.Equal(t, float64(4), b.SatcountSet(r, d.Set()))

	// ranges with a single, odd value
	assert.True(t, b.Equal(d.VarRange(3, 3), d.IthVar(3)))
	assert.True(t, b.Equal(d.VarRange(7, 7), d.IthVar(7)))
	// the whole domain
	assert.True(t, b.Equal(d.VarRange(0, 7), d.Domain()))

	// invalid ranges
	assert.Nil(t, d.VarRange(5, 2))
	assert.True(t, errors.Is(b.Err(), ErrArgument))
	b.ClearError()
	assert.Nil(t, d.VarRange(0, 8))
	b.ClearError()
}

// TestBuildEquals verifies the equality constraint between two domains.
func TestBuildEquals(t *testing.T) {
	b, doms := newTestDomains(t, 8, 8)
	d, e := doms[0], doms[1]

	eq := d.BuildEquals(e)
	require.NotNil(t, eq)
	for i := int64(0); i < 8; i++ {
		both := b.And(d.IthVar(i), e.IthVar(i))
		assert.True(t, b.Equal(b.Imp(both, eq), b.True()), "d=%d and e=%d should satisfy d==e", i, i)
		if i > 0 {
			mixed := b.And(d.IthVar(i), e.IthVar(i-1))
			assert.True(t, b.And(mixed, eq).IsZero(), "d=%d and e=%d should violate d==e", i, i-1)
		}
	}

	_, doms2 := newTestDomains(t, 8)
	assert.Nil(t, d.BuildEquals(doms2[0]), "domains of different factories cannot be compared")
	b.ClearError()
}

// TestBuildAdd verifies the ripple-carry addition constraint.
func TestBuildAdd(t *testing.T) {
	b, doms := newTestDomains(t, 8, 8)
	d, e := doms[0], doms[1]

	// buildAdd with value zero reduces to buildEquals
	assert.True(t, b.Equal(d.BuildAdd(e, 0), d.BuildEquals(e)))

	// d = e + 3 modulo 8
	add := d.BuildAdd(e, 3)
	require.NotNil(t, add)
	for i := int64(0); i < 8; i++ {
		both := b.And(e.IthVar(i), d.IthVar((i+3)%8))
		assert.True(t, b.Equal(b.Imp(both, add), b.True()), "e=%d, d=%d should satisfy d=e+3", i, (i+3)%8)
		wrong := b.And(e.IthVar(i), d.IthVar((i+4)%8))
		assert.True(t, b.And(wrong, add).IsZero())
	}

	// the constraint is a bijection: 8 satisfying pairs
	sets := d.Set().Union(e.Set())
	assert.Equal(t, float64(8), b.SatcountSet(add, sets))
}

// TestEnsureCapacity verifies that the recorded range can only grow within
// the allocated bit width.
func TestEnsureCapacity(t *testing.T) {
	b, doms := newTestDomains(t, 5)
	d := doms[0]

	// 5 values fit in 3 bits; asking for up to value 6 still fits
	bits, err := d.EnsureCapacity(6)
	require.NoError(t, err)
	assert.Equal(t, 3, bits)
	assert.Equal(t, big.NewInt(7), d.Size())

	// asking for a wider range fails and leaves the domain untouched
	_, err = d.EnsureCapacity(8)
	assert.True(t, errors.Is(err, ErrArgument))
	assert.Equal(t, big.NewInt(7), d.Size())
	b.ClearError()

	// a smaller range is a no-op
	bits, err = d.EnsureCapacity(2)
	require.NoError(t, err)
	assert.Equal(t, 3, bits)
	assert.Equal(t, big.NewInt(7), d.Size())
}

// TestScanAllVar verifies reading one assignment for every domain at once.
func TestScanAllVar(t *testing.T) {
	b, doms := newTestDomains(t, 8, 8)
	d, e := doms[0], doms[1]

	f := b.And(d.IthVar(5), e.IthVar(2))
	vals := f.ScanAllVar()
	require.NotNil(t, vals)
	assert.Equal(t, big.NewInt(5), vals[0])
	assert.Equal(t, big.NewInt(2), vals[1])

	assert.Nil(t, b.False().ScanAllVar())
	assert.Equal(t, big.NewInt(-1), b.False().ScanVar(d))
}

// TestGetVarIndices verifies the enumeration of domain values present in a
// disjunction of IthVar constraints.
func TestGetVarIndices(t *testing.T) {
	b, doms := newTestDomains(t, 8)
	d := doms[0]

	f := b.Or(d.IthVar(1), d.IthVar(4), d.IthVar(6))
	vals, err := d.GetVarIndices(f, -1)
	require.NoError(t, err)
	require.Len(t, vals, 3)
	seen := map[int64]bool{}
	for _, v := range vals {
		seen[v.Int64()] = true
	}
	assert.True(t, seen[1] && seen[4] && seen[6])

	vals, err = d.GetVarIndices(f, 2)
	require.NoError(t, err)
	assert.Len(t, vals, 2)
}

// TestStringWithDomains verifies that consecutive values coalesce into
// ranges.
func TestStringWithDomains(t *testing.T) {
	b, doms := newTestDomains(t, 8)
	d := doms[0]
	d.SetName("v")

	assert.Equal(t, "F", b.StringWithDomains(b.False()))
	assert.Equal(t, "T", b.StringWithDomains(b.True()))
	s := b.StringWithDomains(d.VarRange(0, 3))
	assert.Contains(t, s, "v:")
	assert.Contains(t, s, "0-3")
}
