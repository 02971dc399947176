// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

// Compose returns the result of substituting the diagram g for variable v in
// node f. Above the level of v the recursion visits both children; at the
// level of v the result is [Ite g (high f) (low f)]; below it f does not
// depend on v and is returned unchanged.
func (b *BDD) Compose(f, g *Node, v int) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Compose is not available in ZDD mode")
	}
	if b.checknode(f, "Compose") != nil {
		return nil
	}
	if b.checknode(g, "Compose") != nil {
		return nil
	}
	if v < 0 || int32(v) >= b.varnum {
		return b.errnode(ErrArgument, "unknown variable (%d) in call to Compose", v)
	}
	b.composelevel = b.var2level[v]
	b.replacecache.id = (int(b.composelevel) << 2) | cacheid_COMPOSE
	b.initref()
	b.pushref(f.id)
	b.pushref(g.id)
	res := b.compose(f.id, g.id)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) compose(f, g int) int {
	if b.level(f) > b.composelevel {
		return f
	}
	if res := b.matchcompose(f, g); res >= 0 {
		return res
	}
	var res int
	if b.level(f) < b.composelevel {
		low := b.pushref(b.compose(b.low(f), g))
		high := b.pushref(b.compose(b.high(f), g))
		res = b.makenode(b.level(f), low, high)
		b.popref(2)
	} else {
		res = b.ite(g, b.high(f), b.low(f))
	}
	return b.setcompose(f, g, res)
}

// Constrain returns the generalized cofactor of f by c: a diagram that agrees
// with f on every assignment satisfying c, and that is often smaller than f.
func (b *BDD) Constrain(f, c *Node) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Constrain is not available in ZDD mode")
	}
	if b.checknode(f, "Constrain") != nil {
		return nil
	}
	if b.checknode(c, "Constrain") != nil {
		return nil
	}
	b.misccache.id = cacheid_CONSTRAIN
	b.initref()
	b.pushref(f.id)
	b.pushref(c.id)
	res := b.constrain(f.id, c.id)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) constrain(f, c int) int {
	if c == 1 {
		return f
	}
	if f < 2 {
		return f
	}
	if c == f {
		return 1
	}
	if c == 0 {
		return 0
	}
	if res := b.matchmisc(f, c); res >= 0 {
		return res
	}
	lf, lc := b.level(f), b.level(c)
	var res int
	switch {
	case lc < lf:
		if b.low(c) == 0 {
			res = b.constrain(f, b.high(c))
		} else if b.high(c) == 0 {
			res = b.constrain(f, b.low(c))
		} else {
			low := b.pushref(b.constrain(f, b.low(c)))
			high := b.pushref(b.constrain(f, b.high(c)))
			res = b.makenode(lc, low, high)
			b.popref(2)
		}
	case lf < lc:
		low := b.pushref(b.constrain(b.low(f), c))
		high := b.pushref(b.constrain(b.high(f), c))
		res = b.makenode(lf, low, high)
		b.popref(2)
	default:
		if b.low(c) == 0 {
			res = b.constrain(b.high(f), b.high(c))
		} else if b.high(c) == 0 {
			res = b.constrain(b.low(f), b.low(c))
		} else {
			low := b.pushref(b.constrain(b.low(f), b.low(c)))
			high := b.pushref(b.constrain(b.high(f), b.high(c)))
			res = b.makenode(lf, low, high)
			b.popref(2)
		}
	}
	return b.setmisc(f, c, res)
}

// Restrict restricts node f with the cube c: at each level appearing in c the
// recursion descends into the child selected by the polarity of the literal;
// other levels are preserved. The operand c must be a cube, a conjunction of
// literals.
func (b *BDD) Restrict(f, c *Node) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Restrict is not available in ZDD mode")
	}
	if b.checknode(f, "Restrict") != nil {
		return nil
	}
	if b.checknode(c, "Restrict") != nil {
		return nil
	}
	if c.id == 0 {
		return b.errnode(ErrArgument, "false cube in call to Restrict")
	}
	if c.id == 1 {
		return b.retnode(f.id)
	}
	if err := b.cube2quantset(c.id); err != nil {
		return nil
	}
	b.misccache.id = (c.id << 3) | cacheid_RESTRICT
	b.initref()
	b.pushref(f.id)
	b.pushref(c.id)
	res := b.restrict(f.id)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) restrict(n int) int {
	if n < 2 || b.level(n) > b.quantlast {
		return n
	}
	if res := b.matchmisc(n, 0); res >= 0 {
		return res
	}
	var res int
	switch b.quantset[b.level(n)] {
	case b.quantsetID:
		res = b.restrict(b.high(n))
	case -b.quantsetID:
		res = b.restrict(b.low(n))
	default:
		low := b.pushref(b.restrict(b.low(n)))
		high := b.pushref(b.restrict(b.high(n)))
		res = b.makenode(b.level(n), low, high)
		b.popref(2)
	}
	return b.setmisc(n, 0, res)
}

// Simplify tries to simplify node f using the care set d, with the
// Coudert-Madre restrict algorithm: whenever one branch of d is the constant
// false, only the other branch is visited. The result agrees with f on every
// assignment satisfying d. There is no check that the result is smaller than
// f. The operation keys on the BDD reduction rule and is not available in ZDD
// mode.
func (b *BDD) Simplify(f, d *Node) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Simplify is not available in ZDD mode")
	}
	if b.checknode(f, "Simplify") != nil {
		return nil
	}
	if b.checknode(d, "Simplify") != nil {
		return nil
	}
	b.misccache.id = cacheid_SIMPLIFY
	b.initref()
	b.pushref(f.id)
	b.pushref(d.id)
	res := b.simplify(f.id, d.id)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) simplify(f, d int) int {
	if d == 1 || f < 2 {
		return f
	}
	if d == f {
		return 1
	}
	if d == 0 {
		return 0
	}
	if res := b.matchmisc(f, d); res >= 0 {
		return res
	}
	lf, ld := b.level(f), b.level(d)
	var res int
	switch {
	case lf == ld:
		if b.low(d) == 0 {
			res = b.simplify(b.high(f), b.high(d))
		} else if b.high(d) == 0 {
			res = b.simplify(b.low(f), b.low(d))
		} else {
			low := b.pushref(b.simplify(b.low(f), b.low(d)))
			high := b.pushref(b.simplify(b.high(f), b.high(d)))
			res = b.makenode(lf, low, high)
			b.popref(2)
		}
	case lf < ld:
		low := b.pushref(b.simplify(b.low(f), d))
		high := b.pushref(b.simplify(b.high(f), d))
		res = b.makenode(lf, low, high)
		b.popref(2)
	default:
		if b.low(d) == 0 {
			res = b.simplify(f, b.high(d))
		} else if b.high(d) == 0 {
			res = b.simplify(f, b.low(d))
		} else {
			// f does not depend on the variable at the level of d, the care
			// set is widened to the union of the two branches
			oldop := b.applycache.op
			b.applycache.op = OPor
			dd := b.pushref(b.apply(b.low(d), b.high(d)))
			b.applycache.op = oldop
			if dd < 0 {
				res = -1
			} else {
				res = b.simplify(f, dd)
			}
			b.popref(1)
		}
	}
	return b.setmisc(f, d, res)
}

// SatOne returns one satisfying assignment of node n as a cube: along one
// path to the true terminal, every variable encountered is fixed, and the
// variables that are absent from the path are left unconstrained.
func (b *BDD) SatOne(n *Node) *Node {
	if b.checknode(n, "SatOne") != nil {
		return nil
	}
	b.initref()
	b.pushref(n.id)
	res := b.satone(n.id)
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) satone(n int) int {
	if n < 2 {
		return n
	}
	if b.zdd {
		// in ZDD mode an absent variable is already constrained to false
		if b.low(n) != 0 {
			return b.satone(b.low(n))
		}
		r := b.pushref(b.satone(b.high(n)))
		res := b.makenode(b.level(n), 0, r)
		b.popref(1)
		return res
	}
	var res int
	if b.low(n) == 0 {
		r := b.pushref(b.satone(b.high(n)))
		res = b.makenode(b.level(n), 0, r)
		b.popref(1)
	} else {
		r := b.pushref(b.satone(b.low(n)))
		res = b.makenode(b.level(n), r, 0)
		b.popref(1)
	}
	return res
}

// FullSatOne returns one satisfying assignment of node n as a minterm over
// every variable of the factory; variables that n does not constrain are set
// to false. In ZDD mode absent variables are already false and the result is
// the same as SatOne.
func (b *BDD) FullSatOne(n *Node) *Node {
	if b.checknode(n, "FullSatOne") != nil {
		return nil
	}
	if n.id == 0 {
		return b.retnode(0)
	}
	if b.zdd {
		return b.SatOne(n)
	}
	b.initref()
	b.pushref(n.id)
	res := b.fullsatone(n.id)
	for v := b.level(n.id) - 1; v >= 0; v-- {
		b.pushref(res)
		res = b.makenode(v, res, 0)
		b.popref(1)
	}
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) fullsatone(n int) int {
	if n < 2 {
		return n
	}
	var res int
	var child int
	if b.low(n) != 0 {
		child = b.low(n)
		res = b.fullsatone(child)
		for v := b.level(child) - 1; v > b.level(n); v-- {
			b.pushref(res)
			res = b.makenode(v, res, 0)
			b.popref(1)
		}
		b.pushref(res)
		res = b.makenode(b.level(n), res, 0)
		b.popref(1)
		return res
	}
	child = b.high(n)
	res = b.fullsatone(child)
	for v := b.level(child) - 1; v > b.level(n); v-- {
		b.pushref(res)
		res = b.makenode(v, res, 0)
		b.popref(1)
	}
	b.pushref(res)
	res = b.makenode(b.level(n), 0, res)
	b.popref(1)
	return res
}

// SatOneSet returns one satisfying assignment of node n, mentioning at least
// every variable in set; variables of set that n does not constrain are given
// the default polarity pol.
func (b *BDD) SatOneSet(n *Node, set *VarSet, pol bool) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "SatOneSet is not available in ZDD mode")
	}
	if b.checknode(n, "SatOneSet") != nil {
		return nil
	}
	varset, err := b.checkvarset(set, "SatOneSet")
	if err != nil {
		return nil
	}
	if n.id == 0 {
		return b.retnode(0)
	}
	b.satPolarity = pol
	b.initref()
	b.pushref(n.id)
	b.pushref(varset)
	res := b.satoneset(n.id, varset)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) satoneset(r, v int) int {
	if r < 2 && v < 2 {
		return r
	}
	lr, lv := b.level(r), b.level(v)
	var res int
	switch {
	case lr < lv:
		if b.low(r) == 0 {
			h := b.pushref(b.satoneset(b.high(r), v))
			res = b.makenode(lr, 0, h)
			b.popref(1)
		} else {
			l := b.pushref(b.satoneset(b.low(r), v))
			res = b.makenode(lr, l, 0)
			b.popref(1)
		}
	case lv < lr:
		t := b.pushref(b.satoneset(r, b.high(v)))
		if b.satPolarity {
			res = b.makenode(lv, 0, t)
		} else {
			res = b.makenode(lv, t, 0)
		}
		b.popref(1)
	default:
		if b.low(r) == 0 {
			h := b.pushref(b.satoneset(b.high(r), b.high(v)))
			res = b.makenode(lr, 0, h)
			b.popref(1)
		} else {
			l := b.pushref(b.satoneset(b.low(r), b.high(v)))
			res = b.makenode(lr, l, 0)
			b.popref(1)
		}
	}
	return res
}
