// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"fmt"
	"math/big"
)

// Satcount computes the number of satisfying variable assignments for the
// function denoted by n. We return a result using arbitrary-precision
// arithmetic to avoid possible overflows. The result is zero (and we set the
// error flag of b) if there is an error.
//
// In BDD mode, variables that n does not depend on count for two assignments
// each, so that Satcount(True) is two to the power of Varnum. In ZDD mode the
// result is the number of sets in the family, so that the universe counts two
// to the power of Varnum and the constant true counts one.
func (b *BDD) Satcount(n *Node) *big.Int {
	res := big.NewInt(0)
	if b.checknode(n, "Satcount") != nil {
		return res
	}
	if n.id == 0 {
		return res
	}
	satc := make(map[int]*big.Int)
	if b.zdd {
		return res.Add(res, b.satcountzdd(n.id, satc))
	}
	// We compute 2^level with a bit shift 1 << level
	res.SetBit(res, int(b.level(n.id)), 1)
	return res.Mul(res, b.satcount(n.id, satc))
}

func (b *BDD) satcount(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	// we use satc to memoize the value of satcount for each node
	res, ok := satc[n]
	if ok {
		return res
	}
	level := b.level(n)
	low := b.low(n)
	high := b.high(n)

	res = big.NewInt(0)
	two := big.NewInt(0)
	two.SetBit(two, int(b.level(low)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(low, satc)))
	two = big.NewInt(0)
	two.SetBit(two, int(b.level(high)-level-1), 1)
	res.Add(res, two.Mul(two, b.satcount(high, satc)))
	satc[n] = res
	return res
}

func (b *BDD) satcountzdd(n int, satc map[int]*big.Int) *big.Int {
	if n < 2 {
		return big.NewInt(int64(n))
	}
	res, ok := satc[n]
	if ok {
		return res
	}
	res = big.NewInt(0)
	res.Add(b.satcountzdd(b.low(n), satc), b.satcountzdd(b.high(n), satc))
	satc[n] = res
	return res
}

// SatcountSet computes the number of satisfying assignments of n relative to
// the variables in set: the count of Satcount is divided by two for every
// variable outside of set. The result is exact when n only depends on
// variables of set, and a floating-point approximation otherwise.
func (b *BDD) SatcountSet(n *Node, set *VarSet) float64 {
	if b.checknode(n, "SatcountSet") != nil {
		return 0
	}
	if _, err := b.checkvarset(set, "SatcountSet"); err != nil {
		return 0
	}
	unused := int(b.varnum) - set.Size()
	count := new(big.Float).SetInt(b.Satcount(n))
	count.SetMantExp(count, -unused)
	res, _ := count.Float64()
	return res
}

// NodeCount returns the number of inner nodes in the diagram rooted at n. The
// two constants count for zero.
func (b *BDD) NodeCount(n *Node) int {
	if b.checknode(n, "NodeCount") != nil {
		return -1
	}
	res := b.markcount(n.id)
	b.store.unmarkall()
	return res
}

func (b *BDD) markcount(n int) int {
	if n < 2 || b.store.ismarked(n) {
		return 0
	}
	b.store.marknode(n)
	return 1 + b.markcount(b.low(n)) + b.markcount(b.high(n))
}

// AnyNodeCount returns the number of inner nodes in the union of the diagrams
// rooted at the given nodes; shared subgraphs are counted once.
func (b *BDD) AnyNodeCount(n ...*Node) int {
	res := 0
	for _, m := range n {
		if b.checknode(m, "AnyNodeCount") != nil {
			b.store.unmarkall()
			return -1
		}
		res += b.markcount(m.id)
	}
	b.store.unmarkall()
	return res
}

// PathCount returns the number of paths from n to the true terminal.
func (b *BDD) PathCount(n *Node) float64 {
	if b.checknode(n, "PathCount") != nil {
		return -1
	}
	memo := make(map[int]float64)
	return b.pathcount(n.id, memo)
}

func (b *BDD) pathcount(n int, memo map[int]float64) float64 {
	if n < 2 {
		return float64(n)
	}
	if res, ok := memo[n]; ok {
		return res
	}
	res := b.pathcount(b.low(n), memo) + b.pathcount(b.high(n), memo)
	memo[n] = res
	return res
}

// VarProfile returns, for each variable, the number of nodes labeled by it in
// the diagram rooted at n.
func (b *BDD) VarProfile(n *Node) []int {
	if b.checknode(n, "VarProfile") != nil {
		return nil
	}
	res := make([]int, b.varnum)
	b.profilerec(n.id, res)
	b.store.unmarkall()
	return res
}

func (b *BDD) profilerec(n int, counts []int) {
	if n < 2 || b.store.ismarked(n) {
		return
	}
	b.store.marknode(n)
	counts[b.level2var[b.level(n)]]++
	b.profilerec(b.low(n), counts)
	b.profilerec(b.high(n), counts)
}

// Support returns the set of variables that node n depends on.
func (b *BDD) Support(n *Node) *VarSet {
	if b.checknode(n, "Support") != nil {
		return nil
	}
	seen := make([]bool, b.varnum)
	b.supportrec(n.id, seen)
	b.store.unmarkall()
	vars := []int{}
	for lvl, ok := range seen {
		if ok {
			vars = append(vars, int(b.level2var[lvl]))
		}
	}
	cube := b.Makeset(vars)
	if cube == nil {
		return nil
	}
	return &VarSet{n: cube}
}

func (b *BDD) supportrec(n int, seen []bool) {
	if n < 2 || b.store.ismarked(n) {
		return
	}
	b.store.marknode(n)
	seen[b.level(n)] = true
	b.supportrec(b.low(n), seen)
	b.supportrec(b.high(n), seen)
}

// Allnodes applies function f over all the active nodes of the factory, or
// over all the nodes accessible from the nodes in the sequence n if it is not
// empty. The parameters to function f are the id, level, and id's of the low
// and high successors of each node. The two constant nodes (True and False)
// have always the id 1 and 0, respectively. The order in which nodes are
// visited is not specified. We stop the computation and return an error if f
// returns an error at some point.
func (b *BDD) Allnodes(f func(id, level, low, high int) error, n ...*Node) error {
	if len(n) == 0 {
		return b.store.allnodes(f)
	}
	roots := make([]int, 0, len(n))
	for _, v := range n {
		if err := b.checknode(v, "Allnodes"); err != nil {
			return fmt.Errorf("wrong node in call to Allnodes: %w", err)
		}
		roots = append(roots, v.id)
	}
	return b.store.allnodesfrom(f, roots)
}
