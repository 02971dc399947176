// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd_test

import (
	"fmt"

	"github.com/magoorden/godd"
)

// This example shows the basic usage of the package: create a factory,
// compute some expressions and output the result.
func Example_basic() {
	// Create a new factory with 6 variables, a node table of 10 000 slots
	// and an initial cache size of 3 000 entries.
	bdd, _ := godd.New(6, godd.Nodesize(10000), godd.Cachesize(3000))
	// n1 is a set comprising the three variables {x2, x3, x5}. It can also
	// be interpreted as the Boolean expression: x2 & x3 & x5
	n1 := bdd.Makeset([]int{2, 3, 5})
	// n2 == x1 | !x3 | x4
	n2 := bdd.Or(bdd.Ithvar(1), bdd.NIthvar(3), bdd.Ithvar(4))
	// n3 == exists x2,x3,x5 . (n1 & n2)
	set, _ := bdd.NewVarSet(2, 3, 5)
	n3 := bdd.AndExist(set, n1, n2)
	fmt.Printf("Number of sat. assignments: %s\n", bdd.Satcount(n3))
	// Output:
	// Number of sat. assignments: 48
}

// This example shows the finite domain layer and the printing of a node with
// its domains.
func Example_domains() {
	bdd, _ := godd.New(1)
	doms, _ := bdd.ExtDomain(8)
	day := doms[0]
	day.SetName("day")
	weekend := bdd.Or(day.IthVar(4), day.IthVar(5))
	fmt.Println(bdd.StringWithDomains(weekend))
	// Output:
	// <day:4-5>
}
