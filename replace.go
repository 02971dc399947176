// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import "math"

// generation counter shared by all the pairings of a factory; folded into the
// cache keys of Replace and VecCompose so that mutating a pairing invalidates
// its memoized results.
var _PAIRGEN = 1

// Pairing is a finite, mutable association from variables to replacements,
// where a replacement is either a single variable (used by Replace) or an
// arbitrary diagram (used by VecCompose). Every mutation bumps a generation
// counter that participates in the operator cache keys.
type Pairing struct {
	bdd   *BDD
	gen   int     // generation, used for caching intermediate results
	image []int32 // map the level of old variables to the level of new variables
	inode []int   // map the level of old variables to the replacement node
	isvar []bool  // whether the replacement is a plain variable
	last  int32   // last level with a non-identity mapping, to speed up computations
}

// NewPairing returns an empty (identity) pairing.
func (b *BDD) NewPairing() *Pairing {
	p := &Pairing{bdd: b, last: -1}
	p.image = make([]int32, b.varnum)
	p.inode = make([]int, b.varnum)
	p.isvar = make([]bool, b.varnum)
	for k := range p.image {
		p.image[k] = int32(k)
		p.inode[k] = b.varset[b.level2var[k]][0]
		p.isvar[k] = true
	}
	p.bump()
	return p
}

func (p *Pairing) bump() error {
	if _PAIRGEN >= (math.MaxInt32 >> 3) {
		return p.bdd.seterror(ErrMemory, "too many pairing generations")
	}
	p.gen = _PAIRGEN
	_PAIRGEN++
	return nil
}

// release drops the references held over diagram replacements.
func (p *Pairing) release(lvl int32) {
	if !p.isvar[lvl] {
		p.bdd.store.decref(p.inode[lvl])
	}
}

// SetVar records the replacement of variable oldvar by variable newvar.
func (p *Pairing) SetVar(oldvar, newvar int) error {
	b := p.bdd
	if oldvar < 0 || int32(oldvar) >= b.varnum {
		return b.seterror(ErrArgument, "invalid variable (%d) in call to SetVar", oldvar)
	}
	if newvar < 0 || int32(newvar) >= b.varnum {
		return b.seterror(ErrArgument, "invalid variable (%d) in call to SetVar", newvar)
	}
	lvl := b.var2level[oldvar]
	p.release(lvl)
	p.image[lvl] = b.var2level[newvar]
	p.inode[lvl] = b.varset[newvar][0]
	p.isvar[lvl] = true
	if lvl > p.last {
		p.last = lvl
	}
	return p.bump()
}

// SetPairs records the simultaneous replacement of the variables in oldvars
// by the ones in newvars. We return an error if the two slices do not have
// the same length or if we find the same index twice in oldvars.
func (p *Pairing) SetPairs(oldvars, newvars []int) error {
	b := p.bdd
	if len(oldvars) != len(newvars) {
		return b.seterror(ErrArgument, "unmatched length of slices in call to SetPairs")
	}
	support := make([]bool, b.varnum)
	for k, v := range oldvars {
		if v < 0 || int32(v) >= b.varnum {
			return b.seterror(ErrArgument, "invalid variable in oldvars (%d)", v)
		}
		if support[v] {
			return b.seterror(ErrArgument, "duplicate variable (%d) in oldvars", v)
		}
		support[v] = true
		if err := p.SetVar(v, newvars[k]); err != nil {
			return err
		}
	}
	return nil
}

// SetNode records the replacement of variable oldvar by the diagram repl. The
// pairing holds a reference over repl, so the diagram stays protected from
// garbage collection even if the caller frees its own handle. Pairings with
// diagram replacements can only be used with VecCompose.
func (p *Pairing) SetNode(oldvar int, repl *Node) error {
	b := p.bdd
	if oldvar < 0 || int32(oldvar) >= b.varnum {
		return b.seterror(ErrArgument, "invalid variable (%d) in call to SetNode", oldvar)
	}
	if err := b.checknode(repl, "SetNode"); err != nil {
		return err
	}
	lvl := b.var2level[oldvar]
	p.release(lvl)
	b.store.incref(repl.id)
	p.image[lvl] = lvl
	p.inode[lvl] = repl.id
	p.isvar[lvl] = false
	if lvl > p.last {
		p.last = lvl
	}
	return p.bump()
}

// Reset restores the identity pairing.
func (p *Pairing) Reset() {
	b := p.bdd
	for k := range p.image {
		p.release(int32(k))
		p.image[k] = int32(k)
		p.inode[k] = b.varset[b.level2var[k]][0]
		p.isvar[k] = true
	}
	p.last = -1
	p.bump()
}

// varonly reports whether every replacement in the pairing is a plain
// variable.
func (p *Pairing) varonly() bool {
	for _, ok := range p.isvar {
		if !ok {
			return false
		}
	}
	return true
}

// checkpairing controls that p is a usable pairing of this factory.
func (b *BDD) checkpairing(p *Pairing, op string) error {
	if p == nil {
		return b.seterror(ErrArgument, "nil pairing in call to %s", op)
	}
	if p.bdd != b {
		return b.seterror(ErrMismatch, "foreign pairing in call to %s", op)
	}
	return nil
}

// ************************************************************

// Replace takes a pairing and computes the result of n after replacing old
// variables with new ones. The pairing must only contain variable to variable
// associations. Replacements are not required to preserve the variable order:
// when a naive rebuild would break it, the operation falls back to an
// if-then-else at the replacement level.
func (b *BDD) Replace(n *Node, p *Pairing) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Replace is not available in ZDD mode")
	}
	if b.checknode(n, "Replace") != nil {
		return nil
	}
	if b.checkpairing(p, "Replace") != nil {
		return nil
	}
	if !p.varonly() {
		return b.errnode(ErrArgument, "pairing with diagram replacements in call to Replace")
	}
	b.initref()
	b.pushref(n.id)
	b.replacecache.id = (p.gen << 2) | cacheid_REPLACE
	res := b.replace(n.id, p)
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) replace(n int, p *Pairing) int {
	if n < 2 || b.level(n) > p.last {
		return n
	}
	if res := b.matchreplace(n); res >= 0 {
		return res
	}
	low := b.pushref(b.replace(b.low(n), p))
	high := b.pushref(b.replace(b.high(n), p))
	res := b.correctify(p.image[b.level(n)], low, high)
	b.popref(2)
	return b.setreplace(n, res)
}

// correctify rebuilds a node (level, low, high) when the replacement level
// may sit below the levels of the children, which would break the variable
// order of the diagram.
func (b *BDD) correctify(level int32, low, high int) int {
	if (level < b.level(low)) && (level < b.level(high)) {
		return b.makenode(level, low, high)
	}
	if (level == b.level(low)) || (level == b.level(high)) {
		b.seterror(ErrArgument, "replacement level (%d) cannot appear in the operand", level)
		return -1
	}
	if b.level(low) == b.level(high) {
		left := b.pushref(b.correctify(level, b.low(low), b.low(high)))
		right := b.pushref(b.correctify(level, b.high(low), b.high(high)))
		res := b.makenode(b.level(low), left, right)
		b.popref(2)
		return res
	}
	if b.level(low) < b.level(high) {
		left := b.pushref(b.correctify(level, b.low(low), high))
		right := b.pushref(b.correctify(level, b.high(low), high))
		res := b.makenode(b.level(low), left, right)
		b.popref(2)
		return res
	}
	left := b.pushref(b.correctify(level, low, b.low(high)))
	right := b.pushref(b.correctify(level, low, b.high(high)))
	res := b.makenode(b.level(high), left, right)
	b.popref(2)
	return res
}

// ************************************************************

// VecCompose substitutes, simultaneously, every variable recorded in the
// pairing with its image. Unlike Replace, the images can be arbitrary
// diagrams; unlike a sequence of Compose, every substitution happens at once
// on the original diagram.
func (b *BDD) VecCompose(n *Node, p *Pairing) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "VecCompose is not available in ZDD mode")
	}
	if b.checknode(n, "VecCompose") != nil {
		return nil
	}
	if b.checkpairing(p, "VecCompose") != nil {
		return nil
	}
	b.initref()
	b.pushref(n.id)
	b.replacecache.id = (p.gen << 2) | cacheid_VECCOMPOSE
	res := b.veccompose(n.id, p)
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) veccompose(n int, p *Pairing) int {
	if n < 2 || b.level(n) > p.last {
		return n
	}
	if res := b.matchreplace(n); res >= 0 {
		return res
	}
	low := b.pushref(b.veccompose(b.low(n), p))
	high := b.pushref(b.veccompose(b.high(n), p))
	res := b.ite(p.inode[b.level(n)], high, low)
	b.popref(2)
	return b.setreplace(n, res)
}
