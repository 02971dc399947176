// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"fmt"
	"math/rand"
	"testing"
)

//********************************************************************************************

func TestMin3(t *testing.T) {
	var minusTests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range minusTests {
		actual := min3(tt.p, tt.q, tt.r)
		if actual != tt.expected {
			t.Errorf("min3(%d, %d, %d): expected %d, actual %d", tt.p, tt.q, tt.r, tt.expected, actual)
		}
	}
}

//********************************************************************************************

func TestIte_1(t *testing.T) {
	for _, opt := range []func(*configs){HashmapStore(), BuddyStore()} {
		bdd, err := New(4, Nodesize(5000), Cachesize(1000), opt)
		if err != nil {
			t.Fatal(err)
		}
		n1 := bdd.Makeset([]int{0, 2, 3})
		n2 := bdd.Makeset([]int{0, 3})
		nn2 := bdd.Not(n2)
		actual := bdd.Equiv(bdd.Ite(n1, n2, nn2), bdd.Or(bdd.And(n1, n2), bdd.And(bdd.Not(n1), nn2)))
		if !actual.IsOne() {
			t.Errorf("ite(f,g,h) <=> (f and g) or (!f and h): expected true, actual false")
		}
	}
}

//********************************************************************************************

// TestOperations implements the same tests than the bddtest program in the
// BuDDy distribution. It uses function Allsat for checking that all
// assignments are detected.

func TestOperations(t *testing.T) {
	bdd, err := New(4, Nodesize(1000), Cachesize(1000))
	if err != nil {
		t.Fatal(err)
	}
	varnum := 4

	test1_check := func(x *Node) error {
		allsatBDD := x.Clone()
		allsatSumBDD := bdd.False()
		// Calculate whole set of assignments and remove all assignments
		// from original set
		err := bdd.Allsat(x, func(varset []int) error {
			m := bdd.True()
			for k, v := range varset {
				switch v {
				case 0:
					m = m.AndWith(bdd.NIthvar(k))
				case 1:
					m = m.AndWith(bdd.Ithvar(k))
				}
			}
			// Sum up all assignments
			allsatSumBDD = allsatSumBDD.OrWith(m.Clone())
			// Remove assignment from initial set
			allsatBDD = allsatBDD.ApplyWith(m, OPdiff)
			return nil
		})
		if err != nil {
			return err
		}

		// Now the summed set should be equal to the original set and the
		// subtracted set should be empty
		if !bdd.Equal(allsatSumBDD, x) {
			return fmt.Errorf("Allsat sum is not the initial BDD")
		}

		if !allsatBDD.IsZero() {
			return fmt.Errorf("Allsat remainder is not False")
		}
		allsatSumBDD.Free()
		allsatBDD.Free()
		return nil
	}

	a := bdd.Ithvar(0)
	b := bdd.Ithvar(1)
	c := bdd.Ithvar(2)
	d := bdd.Ithvar(3)
	na := bdd.NIthvar(0)
	nb := bdd.NIthvar(1)
	nc := bdd.NIthvar(2)
	nd := bdd.NIthvar(3)

	check := func(x *Node) {
		if err := test1_check(x); err != nil {
			t.Error(err)
		}
	}

	check(bdd.True())
	check(bdd.False())

	// a & b | !a & !b
	check(bdd.Or(bdd.And(a, b), bdd.And(na, nb)))

	// a & b | c & d
	check(bdd.Or(bdd.And(a, b), bdd.And(c, d)))

	// a & !b | a & !d | a & b & !c
	check(bdd.Or(bdd.And(a, nb), bdd.And(a, nd), bdd.And(a, b, nc)))

	for i := 0; i < varnum; i++ {
		check(bdd.Ithvar(i))
		check(bdd.NIthvar(i))
	}

	set := bdd.True()
	for i := 0; i < 50; i++ {
		v := rand.Intn(varnum)
		s := rand.Intn(2)
		if s == 0 {
			set = set.AndWith(bdd.Ithvar(v))
		} else {
			set = set.AndWith(bdd.NIthvar(v))
		}
		check(set)
	}
}

//********************************************************************************************

// TestApplyShortcuts checks every dyadic operator against its truth table on
// constant operands.

func TestApplyShortcuts(t *testing.T) {
	bdd, err := New(2)
	if err != nil {
		t.Fatal(err)
	}
	cst := []*Node{bdd.False(), bdd.True()}
	for op := OPand; op <= OPinvimp; op++ {
		for l := 0; l < 2; l++ {
			for r := 0; r < 2; r++ {
				res := bdd.Apply(cst[l], cst[r], op)
				if res.id != opres[op][l][r] {
					t.Errorf("%s(%d, %d): expected %d, actual %d", op, l, r, opres[op][l][r], res.id)
				}
			}
		}
	}
}
