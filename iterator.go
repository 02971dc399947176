// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"math/big"
	"sort"
)

// Allsat iterates through all legal variable assignments for n and calls the
// function f on each of them. We pass an int slice of length Varnum to f,
// indexed by variable, where each entry is either 0 if the variable is false,
// 1 if it is true, and -1 if it is a don't care. We stop and return an error
// if f returns an error at some point.
//
// In ZDD mode a variable absent from a path is false rather than a don't
// care, and a level is a don't care exactly when the low and high branches of
// its node are equal.
func (b *BDD) Allsat(n *Node, f func([]int) error) error {
	if err := b.checknode(n, "Allsat"); err != nil {
		return err
	}
	prof := make([]int8, b.varnum)
	for k := range prof {
		prof[k] = b.allsatdefault()
	}
	// the function does not create new nodes, so we do not need to take care
	// of possible resizing
	return b.allsat(n.id, prof, f)
}

// allsatdefault is the value of a level absent from a path: don't care in BDD
// mode, false in ZDD mode.
func (b *BDD) allsatdefault() int8 {
	if b.zdd {
		return 0
	}
	return -1
}

func (b *BDD) allsat(n int, prof []int8, f func([]int) error) error {
	if n == 1 {
		res := make([]int, len(prof))
		for lvl, v := range prof {
			res[b.level2var[lvl]] = int(v)
		}
		return f(res)
	}
	if n == 0 {
		return nil
	}
	lvl := b.level(n)
	low, high := b.low(n), b.high(n)
	if b.zdd && low == high {
		prof[lvl] = -1
		for v := b.level(low) - 1; v > lvl; v-- {
			prof[v] = 0
		}
		return b.allsat(low, prof, f)
	}
	if low != 0 {
		prof[lvl] = 0
		for v := b.level(low) - 1; v > lvl; v-- {
			prof[v] = b.allsatdefault()
		}
		if err := b.allsat(low, prof, f); err != nil {
			return err
		}
	}
	if high != 0 {
		prof[lvl] = 1
		for v := b.level(high) - 1; v > lvl; v-- {
			prof[v] = b.allsatdefault()
		}
		if err := b.allsat(high, prof, f); err != nil {
			return err
		}
	}
	return nil
}

// ************************************************************

// AllsatIterator produces each satisfying assignment of a node as a ternary
// vector indexed by variable: 0, 1, or -1 for a don't care. Expanding the
// don't cares of one vector into concrete minterms is left to the consumer
// (or to the minterm iterator, see Iterator). The iteration can only be
// restarted by creating a new iterator.
//
// The iterator holds a reference over the node it was created from, released
// when the iteration is exhausted.
type AllsatIterator struct {
	bdd     *BDD
	root    *Node
	lostack []int
	histack []int
	profile []int8 // pending assignment, indexed by level
	done    bool
}

// AllsatIterator returns an iterator over the satisfying assignments of this
// node.
func (n *Node) AllsatIterator() *AllsatIterator {
	b := n.bdd
	it := &AllsatIterator{bdd: b}
	if b.checknode(n, "AllsatIterator") != nil {
		it.done = true
		return it
	}
	if n.id == 0 {
		it.done = true
		return it
	}
	it.profile = make([]int8, b.varnum)
	for k := range it.profile {
		it.profile[k] = b.allsatdefault()
	}
	it.root = n.Clone()
	if n.id != 1 {
		it.lostack = append(it.lostack, n.id)
		if !it.gotonext() {
			it.exhaust()
		}
	}
	return it
}

func (it *AllsatIterator) exhaust() {
	it.done = true
	if it.root != nil {
		it.root.Free()
		it.root = nil
	}
}

// gotonext walks the diagram depth-first, low branches before high branches,
// and leaves the next assignment in the profile. It returns false when every
// path to the true terminal has been visited.
func (it *AllsatIterator) gotonext() bool {
	b := it.bdd
	for {
		var r int
		loEmpty := len(it.lostack) == 0
		if loEmpty {
			if len(it.histack) == 0 {
				return false
			}
			r = it.histack[len(it.histack)-1]
			it.histack = it.histack[:len(it.histack)-1]
		} else {
			r = it.lostack[len(it.lostack)-1]
			it.lostack = it.lostack[:len(it.lostack)-1]
		}
		lvl := b.level(r)
		var rn int
		if loEmpty {
			it.profile[lvl] = 1
			rn = b.high(r)
		} else {
			it.profile[lvl] = 0
			rn = b.low(r)
		}
		var v int32
		if rn < 2 {
			v = b.varnum - 1
		} else {
			v = b.level(rn) - 1
		}
		for ; v > lvl; v-- {
			it.profile[v] = b.allsatdefault()
		}
		if !loEmpty {
			if b.zdd && b.low(r) == b.high(r) {
				// low child == high child, this is a don't care level
				it.profile[lvl] = -1
			} else {
				it.histack = append(it.histack, r)
			}
		}
		if rn == 1 {
			return true
		}
		if rn == 0 {
			continue
		}
		it.lostack = append(it.lostack, rn)
	}
}

// HasNext reports whether another assignment is pending.
func (it *AllsatIterator) HasNext() bool {
	return !it.done
}

// Next returns the pending assignment, indexed by variable, and advances the
// iteration. The second result is false when the iteration is exhausted.
func (it *AllsatIterator) Next() ([]int, bool) {
	if it.done {
		return nil, false
	}
	b := it.bdd
	res := make([]int, b.varnum)
	for lvl, v := range it.profile {
		res[b.level2var[lvl]] = int(v)
	}
	if !it.gotonext() {
		it.exhaust()
	}
	return res, true
}

// ************************************************************

// MintermIterator iterates through the concrete satisfying assignments of a
// node over a given set of variables: every don't care within the set is
// expanded, by incrementing an in-place bit vector in descending level order
// (odometer semantics). Variables outside the set are ignored.
//
// Remove subtracts the most recently returned minterm from the diagram the
// iterator was created on, mutating the original handle. This is a side
// effect on an object the iterator does not own; prefer an explicit Diff on a
// copy when the original must survive.
type MintermIterator struct {
	bdd     *BDD
	inner   *AllsatIterator
	initial *Node  // the handle the iterator was created on, mutated by Remove
	levels  []int  // the levels we iterate over, in ascending order
	bits    []bool // current bit assignment, indexed like levels
	cur     []int8 // ternary assignment behind the current expansion, indexed by level
	last    *Node  // last returned minterm, used by Remove
	done    bool
}

// Iterator returns an iterator over the minterms of this node, with respect
// to the variables in set.
func (n *Node) Iterator(set *VarSet) (*MintermIterator, error) {
	b := n.bdd
	if err := b.checknode(n, "Iterator"); err != nil {
		return nil, err
	}
	if _, err := b.checkvarset(set, "Iterator"); err != nil {
		return nil, err
	}
	it := &MintermIterator{bdd: b, initial: n}
	it.levels = set.Levels()
	sort.Ints(it.levels)
	it.bits = make([]bool, len(it.levels))
	it.cur = make([]int8, b.varnum)
	it.inner = n.AllsatIterator()
	it.nextprofile()
	return it, nil
}

// nextprofile pulls the next ternary assignment from the inner iterator and
// resets the odometer.
func (it *MintermIterator) nextprofile() {
	if it.inner.done {
		it.done = true
		return
	}
	copy(it.cur, it.inner.profile)
	for i, lvl := range it.levels {
		it.bits[i] = it.cur[lvl] == 1
	}
	if !it.inner.gotonext() {
		it.inner.exhaust()
	}
}

// nextbits increments the odometer over the don't care positions, deepest
// level first. It returns false when the expansion of the current ternary
// assignment is complete.
func (it *MintermIterator) nextbits() bool {
	for i := len(it.levels) - 1; i >= 0; i-- {
		if it.cur[it.levels[i]] != -1 {
			continue
		}
		if !it.bits[i] {
			it.bits[i] = true
			return true
		}
		it.bits[i] = false
	}
	return false
}

func (it *MintermIterator) advance() {
	if !it.nextbits() {
		it.nextprofile()
	}
}

// HasNext reports whether another minterm is pending.
func (it *MintermIterator) HasNext() bool {
	return !it.done
}

// Next returns the pending minterm as a cube over the iteration variables and
// advances the iteration. The second result is false when the iteration is
// exhausted.
func (it *MintermIterator) Next() (*Node, bool) {
	if it.done {
		return nil, false
	}
	b := it.bdd
	b.initref()
	res := 1
	for i := len(it.levels) - 1; i >= 0; i-- {
		lvl := int32(it.levels[i])
		b.pushref(res)
		if it.bits[i] {
			res = b.makenode(lvl, 0, res)
		} else if !b.zdd {
			res = b.makenode(lvl, res, 0)
		}
		b.popref(1)
		if res < 0 {
			return nil, false
		}
	}
	it.last = b.retnode(res)
	it.advance()
	return it.last, true
}

// NextSat returns the pending minterm as a boolean vector indexed by
// variable, and advances the iteration.
func (it *MintermIterator) NextSat() ([]bool, error) {
	if it.done {
		return nil, it.bdd.seterror(ErrIterator, "Next called after exhaustion")
	}
	b := it.bdd
	it.last = nil
	res := make([]bool, b.varnum)
	for i, lvl := range it.levels {
		res[b.level2var[lvl]] = it.bits[i]
	}
	it.advance()
	return res, nil
}

// NextValue returns the value of domain dom in the pending minterm, and
// advances the iteration. Every variable of the domain must belong to the
// iteration set.
func (it *MintermIterator) NextValue(dom *Domain) (*big.Int, error) {
	b := it.bdd
	if it.done {
		return nil, b.seterror(ErrIterator, "Next called after exhaustion")
	}
	if dom == nil || dom.bdd != b {
		return nil, b.seterror(ErrMismatch, "foreign domain in call to NextValue")
	}
	it.last = nil
	val, err := it.domainvalue(dom)
	if err != nil {
		return nil, err
	}
	it.advance()
	return val, nil
}

// NextTuple returns the values of every domain of the factory in the pending
// minterm, and advances the iteration. The entry of a domain whose variables
// are not covered by the iteration set is nil.
func (it *MintermIterator) NextTuple() ([]*big.Int, error) {
	b := it.bdd
	if it.done {
		return nil, b.seterror(ErrIterator, "Next called after exhaustion")
	}
	it.last = nil
	res := make([]*big.Int, len(b.domains))
	for k, dom := range b.domains {
		val, err := it.domainvalue(dom)
		if err == nil {
			res[k] = val
		}
	}
	it.advance()
	return res, nil
}

func (it *MintermIterator) domainvalue(dom *Domain) (*big.Int, error) {
	b := it.bdd
	val := big.NewInt(0)
	for m := len(dom.ivar) - 1; m >= 0; m-- {
		val.Lsh(val, 1)
		lvl := int(b.var2level[dom.ivar[m]])
		k := sort.SearchInts(it.levels, lvl)
		if k >= len(it.levels) || it.levels[k] != lvl {
			return nil, b.seterror(ErrArgument, "domain %s is not covered by the iteration set", dom.name)
		}
		if it.bits[k] {
			val.Add(val, bigOne)
		}
	}
	return val, nil
}

// Remove subtracts the most recently returned minterm from the diagram the
// iterator was created on. The original handle is mutated in place. It is an
// error to call Remove before the first Next, after an exhausted iteration,
// or twice for the same minterm.
func (it *MintermIterator) Remove() error {
	if it.last == nil {
		return it.bdd.seterror(ErrIterator, "Remove without a pending minterm")
	}
	if it.initial.ApplyWith(it.last.Clone(), OPdiff) == nil {
		return it.bdd.error
	}
	it.last = nil
	return nil
}

// IsDontCare reports whether variable v is a don't care at the current point
// of the iteration. The variable must belong to the iteration set.
func (it *MintermIterator) IsDontCare(v int) bool {
	b := it.bdd
	if it.done || v < 0 || int32(v) >= b.varnum {
		return false
	}
	return it.cur[b.var2level[v]] == -1
}

// IsDontCareDomain reports whether every variable of the domain is a don't
// care at the current point of the iteration.
func (it *MintermIterator) IsDontCareDomain(d *Domain) bool {
	if it.done {
		return false
	}
	for _, v := range d.ivar {
		if !it.IsDontCare(v) {
			return false
		}
	}
	return true
}

// FastForward forces the don't care variable v to true, skipping half of the
// pending expansion. It is an error when v is not a don't care of the current
// assignment.
func (it *MintermIterator) FastForward(v int) error {
	b := it.bdd
	if it.done {
		return b.seterror(ErrIterator, "FastForward called after exhaustion")
	}
	if v < 0 || int32(v) >= b.varnum {
		return b.seterror(ErrArgument, "unknown variable (%d) in call to FastForward", v)
	}
	lvl := int(b.var2level[v])
	k := sort.SearchInts(it.levels, lvl)
	if k >= len(it.levels) || it.levels[k] != lvl || it.cur[lvl] != -1 {
		return b.seterror(ErrIterator, "FastForward on a position that is not a don't care")
	}
	it.bits[k] = true
	return nil
}

// SkipDontCare forces every variable of the domain to true and advances past
// the remaining expansion of the domain. The domain must be a don't care, see
// IsDontCareDomain.
func (it *MintermIterator) SkipDontCare(d *Domain) error {
	if d == nil || d.bdd != it.bdd {
		return it.bdd.seterror(ErrMismatch, "foreign domain in call to SkipDontCare")
	}
	for _, v := range d.ivar {
		if err := it.FastForward(v); err != nil {
			return err
		}
	}
	it.advance()
	return nil
}
