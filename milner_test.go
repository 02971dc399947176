// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"math/big"
	"testing"
)

// milner_system is an example of using BDD for state space computation. It is
// directly adapted from the examples in the BuDDy distribution. It computes
// the reachable states of a system composed of N cyclers, with an initial
// node table of the given size. For this system, we have an analytical
// formula to compute the size of the state space.
func milner_system(t testing.TB, size, N int, fast bool, options ...func(*configs)) (*BDD, *Node) {
	options = append(options, Nodesize(size), Cachesize(size/4), Cacheratio(25))
	bdd, err := New(N*6, options...)
	if err != nil {
		t.Fatal(err)
	}
	c := make([]*Node, N)
	cp := make([]*Node, N)
	tk := make([]*Node, N)
	tp := make([]*Node, N)
	h := make([]*Node, N)
	hp := make([]*Node, N)

	for n := 0; n < N; n++ {
		c[n] = bdd.Ithvar(n * 6)
		cp[n] = bdd.Ithvar(n*6 + 1)
		tk[n] = bdd.Ithvar(n*6 + 2)
		tp[n] = bdd.Ithvar(n*6 + 3)
		h[n] = bdd.Ithvar(n*6 + 4)
		hp[n] = bdd.Ithvar(n*6 + 5)
	}

	nvar := make([]int, N*3)
	pvar := make([]int, N*3)
	for n := 0; n < N*3; n++ {
		nvar[n] = n * 2   // normal variables
		pvar[n] = n*2 + 1 // primed variables
	}
	unprime := bdd.NewPairing()
	if err := unprime.SetPairs(pvar, nvar); err != nil {
		t.Fatal(err)
	}

	// We create a BDD for the initial state of Milner's cyclers.
	I := bdd.And(c[0], bdd.And(bdd.Not(h[0]), bdd.Not(tk[0])))
	for i := 1; i < N; i++ {
		I = bdd.And(I, bdd.And(bdd.Not(c[i]), bdd.And(bdd.Not(h[i]), bdd.Not(tk[i]))))
	}

	// A builds a BDD expressing that all other variables than 'z' are
	// unchanged.
	A := func(x, y []*Node, z int) *Node {
		res := bdd.True()
		for i := 0; i < N; i++ {
			if i != z {
				res = bdd.And(res, bdd.Equiv(x[i], y[i]))
			}
		}
		return res
	}

	// Now we compute the transition relation
	T := bdd.False() // The monolithic transition relation
	for i := 0; i < N; i++ {
		P1 := bdd.And(c[i], bdd.Not(cp[i]), tp[i], bdd.Not(tk[i]), hp[i], A(c, cp, i), A(tk, tp, i), A(h, hp, i))

		P2 := bdd.And(h[i], bdd.Not(hp[i]), cp[(i+1)%N], A(c, cp, (i+1)%N), A(h, hp, i), A(tk, tp, N))

		E := bdd.And(tk[i], bdd.Not(tp[i]), A(tk, tp, i), A(h, hp, N), A(c, cp, N))

		T = bdd.Or(T, P1, bdd.Or(P2, E))
	}

	// We compute the reachable states.
	R := I // Reachable state space
	normvar, err := bdd.NewVarSet(nvar...)
	if err != nil {
		t.Fatal(err)
	}
	for {
		prev := R
		if fast {
			R = bdd.Or(bdd.Replace(bdd.AndExist(normvar, R, T), unprime), R)
		} else {
			R = bdd.Or(bdd.Replace(bdd.Exist(bdd.And(R, T), normvar), unprime), R)
		}
		if bdd.Equal(prev, R) {
			break
		}
	}
	return bdd, R
}

// milner_expected is the analytical size of the state space, N * 2^(4N+1).
func milner_expected(N int) *big.Int {
	expected := big.NewInt(int64(N))
	pow := big.NewInt(0)
	pow.SetBit(pow, 4*N+1, 1)
	return expected.Mul(expected, pow)
}

func TestMilnerSlow(t *testing.T) {
	for _, N := range []int{4, 5, 7, 11} {
		// we choose a small size to stress test garbage collection
		fast, Rfast := milner_system(t, 100, N, true)
		slow, Rslow := milner_system(t, 100, N, false)
		expected := milner_expected(N)
		fastresult := fast.Satcount(Rfast)
		slowresult := slow.Satcount(Rslow)
		if fastresult.Cmp(expected) != 0 || slowresult.Cmp(expected) != 0 {
			t.Errorf("Error in Milner(%d), expected %s, actual %s (fast) and %s (slow)", N, expected, fastresult, slowresult)
		}
	}
}

func TestMilner(t *testing.T) {
	for _, N := range []int{16, 20, 30} {
		bdd, R := milner_system(t, 100000, N, true)
		expected := milner_expected(N)
		result := bdd.Satcount(R)
		if result.Cmp(expected) != 0 {
			t.Errorf("Error in Milner(%d), expected %s, actual %s", N, expected, result)
		}
	}
}

func TestMilnerBuddy(t *testing.T) {
	N := 20
	// we choose a small size to stress test garbage collection and resizing
	bdd, R := milner_system(t, 50, N, true, BuddyStore())
	expected := milner_expected(N)
	result := bdd.Satcount(R)
	if result.Cmp(expected) != 0 {
		t.Errorf("Error in Milner(%d), expected %s, actual %s", N, expected, result)
	}
}

func BenchmarkMilner(b *testing.B) {
	for n := 0; n < b.N; n++ {
		milner_system(b, 500000, 50, true)
	}
}
