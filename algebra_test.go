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

func newTestBDD(t *testing.T, varnum int, options ...func(*configs)) *BDD {
	t.Helper()
	b, err := New(varnum, options...)
	require.NoError(t, err, "factory creation should succeed")
	return b
}

// TestCanonicity verifies that equivalent expressions are represented by the
// same node.
func TestCanonicity(t *testing.T) {
	b := newTestBDD(t, 4)
	x := b.Ithvar(0)
	y := b.Ithvar(1)

	assert.True(t, b.Equal(x.And(y), y.And(x)), "conjunction should be commutative")
	assert.True(t, b.Equal(x.And(x), x), "conjunction should be idempotent")
	assert.True(t, b.Equal(x.Not().Not(), x), "negation should be an involution")
	assert.True(t, b.Equal(x.Or(x.Not()), b.True()), "x or !x should be the true node")
	assert.True(t, b.Equal(x.And(x.Not()), b.False()), "x and !x should be the false node")
}

// TestDeMorgan verifies the De Morgan laws on a handful of diagrams.
func TestDeMorgan(t *testing.T) {
	b := newTestBDD(t, 4)
	x := b.Ithvar(0)
	y := b.Ithvar(2)
	f := b.Or(x, b.And(y, b.NIthvar(3)))
	g := b.Xor(y, b.Ithvar(1))

	assert.True(t, b.Equal(f.And(g).Not(), f.Not().Or(g.Not())))
	assert.True(t, b.Equal(f.Or(g).Not(), f.Not().And(g.Not())))
}

// TestIteLaws verifies the basic identities of the if-then-else operator.
func TestIteLaws(t *testing.T) {
	b := newTestBDD(t, 4)
	a := b.Ithvar(0)
	f := b.Or(b.Ithvar(1), b.NIthvar(2))
	g := b.And(b.Ithvar(2), b.Ithvar(3))

	assert.True(t, b.Equal(b.Ite(a, b.True(), b.False()), a), "ite(a, 1, 0) == a")
	assert.True(t, b.Equal(b.Ite(a, f, f), f), "ite(a, b, b) == b")
	assert.True(t, b.Equal(b.Ite(b.True(), f, g), f), "ite(1, b, c) == b")
	assert.True(t, b.Equal(b.Ite(b.False(), f, g), g), "ite(0, b, c) == c")
	expected := b.Or(b.And(a, f), b.And(a.Not(), g))
	assert.True(t, b.Equal(b.Ite(a, f, g), expected))
}

// TestQuantification verifies the dualities between the quantifiers and the
// equivalence between AppEx and the unfused form.
func TestQuantification(t *testing.T) {
	b := newTestBDD(t, 4)
	f := b.Or(b.And(b.Ithvar(0), b.Ithvar(1)), b.Ithvar(2))
	g := b.Xor(b.Ithvar(1), b.Ithvar(3))
	V, err := b.NewVarSet(0, 1)
	require.NoError(t, err)

	fg := f.And(g)
	assert.True(t, b.Equal(b.Exist(fg, V), b.AppEx(f, g, OPand, V)),
		"exist(V, f and g) == relprod(f, g, V)")
	assert.True(t, b.Equal(b.Forall(f, V), b.Exist(f.Not(), V).Not()),
		"forall(V, f) == not exist(V, not f)")
	assert.True(t, b.Equal(b.Forall(fg, V), b.AppAll(f, g, OPand, V)))
	assert.True(t, b.Equal(b.Unique(fg, V), b.AppUni(f, g, OPand, V)))

	// relational product scenario: with x=ithvar(0), y=ithvar(1) and V={0},
	// relprod(x, y, V) is y
	x := b.Ithvar(0)
	y := b.Ithvar(1)
	W, err := b.NewVarSet(0)
	require.NoError(t, err)
	assert.True(t, b.Equal(b.AppEx(x, y, OPand, W), y))
}

// TestSubstitution verifies Compose, VecCompose and Replace against their
// identities.
func TestSubstitution(t *testing.T) {
	b := newTestBDD(t, 6)
	f := b.Or(b.And(b.Ithvar(0), b.Ithvar(1)), b.NIthvar(2))

	// composing a variable with itself is the identity
	for v := 0; v < 3; v++ {
		assert.True(t, b.Equal(b.Compose(f, b.Ithvar(v), v), f), "compose(f, ithvar(v), v) == f")
	}

	// compose against the ite definition: f[g/v] == ite(g, f[1/v], f[0/v])
	g := b.Xor(b.Ithvar(3), b.Ithvar(4))
	top := b.Ithvar(0)
	cof1 := b.Restrict(f, top)
	cof0 := b.Restrict(f, b.NIthvar(0))
	assert.True(t, b.Equal(b.Compose(f, g, 0), b.Ite(g, cof1, cof0)))

	// replace with the identity pairing is the identity
	p := b.NewPairing()
	assert.True(t, b.Equal(b.Replace(f, p), f))

	// renaming 0,1,2 into 3,4,5 then back is the identity
	require.NoError(t, p.SetPairs([]int{0, 1, 2}, []int{3, 4, 5}))
	q := b.NewPairing()
	require.NoError(t, q.SetPairs([]int{3, 4, 5}, []int{0, 1, 2}))
	renamed := b.Replace(f, p)
	require.NotNil(t, renamed)
	assert.False(t, b.Equal(renamed, f))
	assert.True(t, b.Equal(b.Replace(renamed, q), f))

	// a pairing with a diagram replacement is rejected by Replace but
	// accepted by VecCompose
	r := b.NewPairing()
	require.NoError(t, r.SetNode(0, g))
	assert.Nil(t, b.Replace(f, r))
	assert.True(t, errors.Is(b.Err(), ErrArgument))
	b.ClearError()
	assert.True(t, b.Equal(b.VecCompose(f, r), b.Compose(f, g, 0)))
}

// TestCofactors verifies Restrict, Constrain and Simplify.
func TestCofactors(t *testing.T) {
	b := newTestBDD(t, 4)
	x0 := b.Ithvar(0)
	x1 := b.Ithvar(1)
	x2 := b.Ithvar(2)
	f := b.Or(b.And(x0, x1), x2)

	// restricting with x0=1, x1=1 leaves the constant true
	cube := b.And(x0, x1)
	assert.True(t, b.Equal(b.Restrict(f, cube), b.True()))
	// restricting with x0=1 leaves x1 or x2
	assert.True(t, b.Equal(b.Restrict(f, x0), b.Or(x1, x2)))
	// restricting with x0=0 leaves x2
	assert.True(t, b.Equal(b.Restrict(f, b.NIthvar(0)), x2))

	// constrain generalizes cofactoring: constrain(f, c) agrees with f on c
	c := b.And(x0, x2.Not())
	lhs := b.And(b.Constrain(f, c), c)
	rhs := b.And(f, c)
	assert.True(t, b.Equal(lhs, rhs), "constrain(f, c) and c == f and c")
	assert.True(t, b.Equal(b.Constrain(f, f), b.True()))

	// simplify agrees with f inside the care set
	d := b.Or(x0, x1)
	s := b.Simplify(f, d)
	assert.True(t, b.Equal(b.And(s, d), b.And(f, d)), "simplify(f, d) and d == f and d")
	assert.True(t, b.Equal(b.Simplify(f, b.True()), f))
}

// TestCounts verifies the counting operations on the concrete scenario of the
// documentation: three variables and the function [x0 and x1 or x2].
func TestCounts(t *testing.T) {
	b := newTestBDD(t, 3)
	f := b.Or(b.And(b.Ithvar(0), b.Ithvar(1)), b.Ithvar(2))

	assert.Equal(t, 3, b.NodeCount(f))
	assert.Equal(t, 0, b.NodeCount(b.False()))
	assert.Equal(t, 0, b.NodeCount(b.True()))
	assert.Equal(t, big.NewInt(5), b.Satcount(f))
	assert.Equal(t, big.NewInt(0), b.Satcount(b.False()))
	assert.Equal(t, big.NewInt(8), b.Satcount(b.True()), "satcount(True) == 2^varnum")

	// satcount is a valuation: |f or g| + |f and g| == |f| + |g|
	g := b.Xor(b.Ithvar(1), b.Ithvar(2))
	sum := new(big.Int).Add(b.Satcount(b.Or(f, g)), b.Satcount(b.And(f, g)))
	assert.Equal(t, new(big.Int).Add(b.Satcount(f), b.Satcount(g)), sum)

	assert.Equal(t, float64(3), b.PathCount(f), "three paths reach the true terminal")

	profile := b.VarProfile(f)
	assert.Equal(t, []int{1, 1, 1}, profile)

	support := b.Support(f)
	assert.Equal(t, []int{0, 1, 2}, support.Vars())
	assert.Equal(t, 3, support.Size())
}

// TestSatOne verifies the single-model operations.
func TestSatOne(t *testing.T) {
	b := newTestBDD(t, 4)
	f := b.Or(b.And(b.Ithvar(0), b.Ithvar(1)), b.Ithvar(2))

	one := b.SatOne(f)
	require.NotNil(t, one)
	assert.True(t, b.Equal(b.Imp(one, f), b.True()), "satone(f) implies f")
	assert.Equal(t, big.NewInt(1), b.Satcount(b.FullSatOne(f)), "fullsatone is a single minterm")

	V, err := b.NewVarSet(0, 1, 2, 3)
	require.NoError(t, err)
	forced := b.SatOneSet(f, V, true)
	require.NotNil(t, forced)
	assert.True(t, b.Equal(b.Imp(forced, f), b.True()))
	assert.Equal(t, big.NewInt(1), b.Satcount(forced), "satoneset over every variable is a minterm")

	assert.True(t, b.SatOne(b.False()).IsZero())
}

// TestRefcountGC verifies that freeing every handle and collecting the store
// returns it to its initial number of live nodes.
func TestRefcountGC(t *testing.T) {
	for _, opt := range []func(*configs){HashmapStore(), BuddyStore()} {
		b := newTestBDD(t, 4, opt)
		initial := b.Live()
		ab := b.And(b.Ithvar(0), b.Ithvar(1))
		f := b.Or(ab, b.Ithvar(2))
		g := b.Xor(f, b.Ithvar(3))
		h := b.Not(f)
		for _, n := range []*Node{ab, f, g, h} {
			require.NoError(t, n.Free())
		}
		b.GC()
		assert.Equal(t, initial, b.Live(), "the store should return to its initial live count")
	}
}

// TestFreeErrors verifies the handle ownership discipline.
func TestFreeErrors(t *testing.T) {
	b := newTestBDD(t, 3)
	f := b.And(b.Ithvar(0), b.Ithvar(1))
	require.NoError(t, f.Free())
	err := f.Free()
	assert.True(t, errors.Is(err, ErrFreed), "double free should be reported")
	b.ClearError()

	// a consumed handle is invalid
	g := b.Ithvar(0).Clone()
	h := b.Ithvar(1).Clone()
	g = g.AndWith(h)
	require.NotNil(t, g)
	assert.Nil(t, b.Not(h), "use after consumption should fail")
	assert.True(t, errors.Is(b.Err(), ErrFreed))
	b.ClearError()

	// nodes cannot cross factories
	c := newTestBDD(t, 3)
	assert.Nil(t, b.And(b.Ithvar(0), c.Ithvar(0)))
	assert.True(t, errors.Is(b.Err(), ErrMismatch))
}

// TestConsumingApply verifies that the ...With operations preserve the
// expected results while consuming their operand.
func TestConsumingApply(t *testing.T) {
	b := newTestBDD(t, 3)
	x := b.Ithvar(0)
	y := b.Ithvar(1)
	expected := b.And(x, y)

	f := x.Clone()
	f = f.AndWith(y.Clone())
	require.NotNil(t, f)
	assert.True(t, b.Equal(f, expected))

	// the receiver is updated in place
	g := x.Clone()
	alias := g
	g = g.OrWith(y.Clone())
	require.NotNil(t, g)
	assert.True(t, b.Equal(alias, g), "the receiver handle is mutated in place")
}
