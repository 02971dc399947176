// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"log"
)

// Scanset returns the set of variables found when following the high branch
// of node n. This is the dual of function Makeset. The result may be nil if
// there is an error. The result follows the level order.
func (b *BDD) Scanset(n *Node) []int {
	if b.checknode(n, "Scanset") != nil {
		return nil
	}
	if n.id < 2 {
		return nil
	}
	res := []int{}
	for i := n.id; i > 1; i = b.high(i) {
		res = append(res, int(b.level2var[b.level(i)]))
	}
	return res
}

// Makeset returns a node corresponding to the conjunction (the cube) of all
// the variables in varset, in their positive form. It is such that
// Scanset(Makeset(a)) == a. It returns nil and sets the error condition in b
// if one of the variables is outside the scope of the factory (see
// documentation for function Ithvar).
func (b *BDD) Makeset(varset []int) *Node {
	levels := make([]int32, 0, len(varset))
	for _, v := range varset {
		if v < 0 || int32(v) >= b.varnum {
			return b.errnode(ErrArgument, "unknown variable (%d) in call to Makeset", v)
		}
		levels = append(levels, b.var2level[v])
	}
	// the cube is built bottom-up, so levels are visited in descending order
	sortlevels(levels)
	b.initref()
	res := 1
	last := int32(-1)
	for _, lvl := range levels {
		if lvl == last {
			continue
		}
		last = lvl
		b.pushref(res)
		res = b.makenode(lvl, 0, res)
		b.popref(1)
		if res < 0 {
			return nil
		}
	}
	return b.retnode(res)
}

// sortlevels sorts a slice of levels in descending order.
func sortlevels(levels []int32) {
	for i := 1; i < len(levels); i++ {
		for j := i; j > 0 && levels[j] > levels[j-1]; j-- {
			levels[j], levels[j-1] = levels[j-1], levels[j]
		}
	}
}

// Not returns the negation of the expression corresponding to node n. It
// negates a diagram by exchanging all references to the zero-terminal with
// references to the one-terminal and vice versa. The operation keys on the
// reduction rule: in ZDD mode the result is the complement with respect to
// the universe.
func (b *BDD) Not(n *Node) *Node {
	if b.checknode(n, "Not") != nil {
		return nil
	}
	b.initref()
	b.pushref(n.id)
	var res int
	if b.zdd {
		u := b.pushref(b.universeid())
		b.applycache.op = OPdiff
		res = b.apply(u, n.id)
		b.popref(1)
	} else {
		res = b.not(n.id)
	}
	b.popref(1)
	return b.retnode(res)
}

func (b *BDD) not(n int) int {
	if n == 0 {
		return 1
	}
	if n == 1 {
		return 0
	}
	// The hash for a not operation is simply n
	if res := b.matchnot(n); res >= 0 {
		return res
	}
	low := b.pushref(b.not(b.low(n)))
	high := b.pushref(b.not(b.high(n)))
	res := b.makenode(b.level(n), low, high)
	b.popref(2)
	return b.setnot(n, res)
}

// Apply performs all of the basic binary operations with two operands, such as
// AND, OR etc. Left and right are the operands and op is the requested
// operation and must be one of the following:
//
//	Identifier    Description          Truth table
//
//	OPand         logical and          [0,0,0,1]
//	OPxor         logical xor          [0,1,1,0]
//	OPor          logical or           [0,1,1,1]
//	OPnand        logical not-and      [1,1,1,0]
//	OPnor         logical not-or       [1,0,0,0]
//	OPimp         implication          [1,1,0,1]
//	OPbiimp       equivalence          [1,0,0,1]
//	OPdiff        set difference       [0,0,1,0]
//	OPless        less than            [0,1,0,0]
//	OPinvimp      reverse implication  [1,0,1,1]
func (b *BDD) Apply(left *Node, right *Node, op Operator) *Node {
	if b.checknode(left, "Apply") != nil {
		return nil
	}
	if b.checknode(right, "Apply") != nil {
		return nil
	}
	if op > OPinvimp {
		return b.errnode(ErrArgument, "unauthorized operation (%s) in call to Apply", op)
	}
	if b.zdd && !zddop(op) {
		return b.errnode(ErrMode, "operation %s involves a complement and is not available in ZDD mode", op)
	}
	b.applycache.op = op
	b.initref()
	b.pushref(left.id)
	b.pushref(right.id)
	res := b.apply(left.id, right.id)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) apply(left int, right int) int {
	if b.zdd {
		return b.applyzdd(left, right)
	}
	switch b.applycache.op {
	case OPand:
		if left == right {
			return left
		}
		if (left == 0) || (right == 0) {
			return 0
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPor:
		if left == right {
			return left
		}
		if (left == 1) || (right == 1) {
			return 1
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPnand:
		if (left == 0) || (right == 0) {
			return 1
		}
	case OPnor:
		if (left == 1) || (right == 1) {
			return 0
		}
	case OPimp:
		if left == 0 {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	case OPbiimp:
		if left == right {
			return 1
		}
		if left == 1 {
			return right
		}
		if right == 1 {
			return left
		}
	case OPdiff:
		if left == right {
			return 0
		}
		if right == 1 {
			return 0
		}
		if left == 0 {
			return 0
		}
	case OPless:
		if (left == right) || (left == 1) {
			return 0
		}
		if left == 0 {
			return right
		}
	case OPinvimp:
		if right == 0 {
			return 1
		}
		if right == 1 {
			return left
		}
		if left == 1 {
			return 1
		}
		if left == right {
			return 1
		}
	default:
		// unary operations, op_not and op_simplify, should not be used in apply
		b.seterror(ErrArgument, "unauthorized operation (%s) in apply", b.applycache.op)
		return -1
	}

	// we check for errors
	if left < 0 || right < 0 {
		if _DEBUG {
			log.Panicf("panic in apply(%d,%d,%s)\n", left, right, b.applycache.op)
		}
		return -1
	}

	// we deal with the other cases where the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.applycache.op][left][right]
	}
	if res := b.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.pushref(b.apply(b.low(left), b.low(right)))
		high := b.pushref(b.apply(b.high(left), b.high(right)))
		res = b.makenode(leftlvl, low, high)
	} else {
		if leftlvl < rightlvl {
			low := b.pushref(b.apply(b.low(left), right))
			high := b.pushref(b.apply(b.high(left), right))
			res = b.makenode(leftlvl, low, high)
		} else {
			low := b.pushref(b.apply(left, b.low(right)))
			high := b.pushref(b.apply(left, b.high(right)))
			res = b.makenode(rightlvl, low, high)
		}
	}
	b.popref(2)
	return b.setapply(left, right, res)
}

// zddop reports whether op is one of the set operations available in ZDD
// mode. The other operators involve a complement with respect to the
// universe, which the structural recursion cannot see.
func zddop(op Operator) bool {
	switch op {
	case OPand, OPxor, OPor, OPdiff, OPless:
		return true
	}
	return false
}

// applyzdd is the variant of apply used with the zero-suppressed reduction
// rule. A level absent from an operand means that the variable is false, so
// the high cofactor of the operand with the deeper root is the empty family
// rather than the operand itself.
func (b *BDD) applyzdd(left int, right int) int {
	switch b.applycache.op {
	case OPand:
		if left == right {
			return left
		}
		if (left == 0) || (right == 0) {
			return 0
		}
	case OPor:
		if left == right {
			return left
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return right
		}
		if right == 0 {
			return left
		}
	case OPdiff:
		if (left == right) || (left == 0) {
			return 0
		}
		if right == 0 {
			return left
		}
	case OPless:
		if (left == right) || (right == 0) {
			return 0
		}
		if left == 0 {
			return right
		}
	default:
		b.seterror(ErrMode, "operation %s is not available in ZDD mode", b.applycache.op)
		return -1
	}

	// we check for errors
	if left < 0 || right < 0 {
		if _DEBUG {
			log.Panicf("panic in applyzdd(%d,%d,%s)\n", left, right, b.applycache.op)
		}
		return -1
	}

	// we deal with the other cases where the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.applycache.op][left][right]
	}
	if res := b.matchapply(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	switch {
	case leftlvl == rightlvl:
		low := b.pushref(b.applyzdd(b.low(left), b.low(right)))
		high := b.pushref(b.applyzdd(b.high(left), b.high(right)))
		res = b.makenode(leftlvl, low, high)
	case leftlvl < rightlvl:
		low := b.pushref(b.applyzdd(b.low(left), right))
		high := b.pushref(b.applyzdd(b.high(left), 0))
		res = b.makenode(leftlvl, low, high)
	default:
		low := b.pushref(b.applyzdd(left, b.low(right)))
		high := b.pushref(b.applyzdd(0, b.high(right)))
		res = b.makenode(rightlvl, low, high)
	}
	b.popref(2)
	return b.setapply(left, right, res)
}

// Ite, short for if-then-else operator, computes the diagram for the
// expression [(f /\ g) \/ (not f /\ h)] more efficiently than doing the three
// operations separately.
func (b *BDD) Ite(f, g, h *Node) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "Ite is not available in ZDD mode")
	}
	if b.checknode(f, "Ite") != nil {
		return nil
	}
	if b.checknode(g, "Ite") != nil {
		return nil
	}
	if b.checknode(h, "Ite") != nil {
		return nil
	}
	b.initref()
	b.pushref(f.id)
	b.pushref(g.id)
	b.pushref(h.id)
	res := b.ite(f.id, g.id, h.id)
	b.popref(3)
	return b.retnode(res)
}

// ite_low returns n if the level p is strictly higher than q or r, otherwise
// it returns the low branch of n. This is used in function ite to know which
// node to follow: we always follow the smallest(s) nodes.
func (b *BDD) ite_low(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.low(n)
}

func (b *BDD) ite_high(p, q, r int32, n int) int {
	if (p > q) || (p > r) {
		return n
	}
	return b.high(n)
}

// min3 returns the smallest value between p, q and r. This is used in function
// ite to compute the smallest level.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r { // p <= q && p <= r
			return p
		}
		return r // r < p <= q
	}
	if q <= r { // q < p && q <= r
		return q
	}
	return r // r < q < p
}

func (b *BDD) ite(f, g, h int) int {
	switch {
	case f == 1:
		return g
	case f == 0:
		return h
	case g == h:
		return g
	case (g == 1) && (h == 0):
		return f
	case (g == 0) && (h == 1):
		return b.not(f)
	}
	// we check for possible errors
	if f < 0 || g < 0 || h < 0 {
		b.seterror(ErrMemory, "unexpected error in ite")
		if _DEBUG {
			log.Panicf("panic in ite(%d,%d,%d)\n", f, g, h)
		}
		return -1
	}
	if res := b.matchite(f, g, h); res >= 0 {
		return res
	}
	p := b.level(f)
	q := b.level(g)
	r := b.level(h)
	low := b.pushref(b.ite(b.ite_low(p, q, r, f), b.ite_low(q, p, r, g), b.ite_low(r, p, q, h)))
	high := b.pushref(b.ite(b.ite_high(p, q, r, f), b.ite_high(q, p, r, g), b.ite_high(r, p, q, h)))
	res := b.makenode(min3(p, q, r), low, high)
	b.popref(2)
	return b.setite(f, g, h, res)
}

// checkvarset controls that set is a usable VarSet of this factory and
// returns the id of its underlying cube.
func (b *BDD) checkvarset(set *VarSet, op string) (int, error) {
	if set == nil {
		return -1, b.seterror(ErrArgument, "nil varset in call to %s", op)
	}
	if err := b.checknode(set.n, op); err != nil {
		return -1, err
	}
	return set.n.id, nil
}

// Exist returns the existential quantification of n for the variables in set.
func (b *BDD) Exist(n *Node, set *VarSet) *Node {
	return b.quantify(n, set, cacheid_EXIST, OPor, "Exist")
}

// Forall returns the universal quantification of n for the variables in set.
func (b *BDD) Forall(n *Node, set *VarSet) *Node {
	return b.quantify(n, set, cacheid_FORALL, OPand, "Forall")
}

// Unique returns the unique quantification of n for the variables in set: the
// two cofactors at a quantified level are combined with an exclusive or.
func (b *BDD) Unique(n *Node, set *VarSet) *Node {
	return b.quantify(n, set, cacheid_UNIQUE, OPxor, "Unique")
}

func (b *BDD) quantify(n *Node, set *VarSet, qid int, qop Operator, opname string) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "%s is not available in ZDD mode", opname)
	}
	if b.checknode(n, opname) != nil {
		return nil
	}
	varset, err := b.checkvarset(set, opname)
	if err != nil {
		return nil
	}
	if varset < 2 { // we have an empty set or a constant
		return b.retnode(n.id)
	}
	if err := b.quantset2cache(varset); err != nil {
		return nil
	}
	b.quantcache.id = (varset << 3) | qid
	b.applycache.op = qop
	b.initref()
	b.pushref(n.id)
	b.pushref(varset)
	res := b.quant(n.id, varset)
	b.popref(2)
	return b.retnode(res)
}

func (b *BDD) quant(n, varset int) int {
	if (n < 2) || (b.level(n) > b.quantlast) {
		return n
	}
	// the hash for a quantification operation is simply n
	if res := b.matchquant(n); res >= 0 {
		return res
	}
	low := b.pushref(b.quant(b.low(n), varset))
	high := b.pushref(b.quant(b.high(n), varset))
	var res int
	if b.quantset[b.level(n)] == b.quantsetID {
		res = b.apply(low, high)
	} else {
		res = b.makenode(b.level(n), low, high)
	}
	b.popref(2)
	return b.setquant(n, res)
}

// AppEx applies the binary operator op on the two operands left and right
// then performs an existential quantification over the variables in set. This
// is done in a bottom up manner such that both the apply and quantification
// is done on the lower nodes before stepping up to the higher nodes. This
// makes AppEx much more efficient than an Apply operation followed by a
// quantification. Note that, when op is a conjunction, this operation returns
// the relational product of two diagrams.
func (b *BDD) AppEx(left, right *Node, op Operator, set *VarSet) *Node {
	return b.appquantify(left, right, op, set, cacheid_APPEX, OPor, "AppEx")
}

// AppAll is the universal counterpart of AppEx: it applies op and then
// performs a universal quantification over the variables in set.
func (b *BDD) AppAll(left, right *Node, op Operator, set *VarSet) *Node {
	return b.appquantify(left, right, op, set, cacheid_APPAL, OPand, "AppAll")
}

// AppUni is the unique-quantification counterpart of AppEx.
func (b *BDD) AppUni(left, right *Node, op Operator, set *VarSet) *Node {
	return b.appquantify(left, right, op, set, cacheid_APPUN, OPxor, "AppUni")
}

func (b *BDD) appquantify(left, right *Node, op Operator, set *VarSet, qid int, qop Operator, opname string) *Node {
	if b.zdd {
		return b.errnode(ErrMode, "%s is not available in ZDD mode", opname)
	}
	if op > OPnand {
		return b.errnode(ErrArgument, "operator %s not supported in call to %s", op, opname)
	}
	varset, err := b.checkvarset(set, opname)
	if err != nil {
		return nil
	}
	if varset < 2 { // we have an empty set
		return b.Apply(left, right, op)
	}
	if b.checknode(left, opname) != nil {
		return nil
	}
	if b.checknode(right, opname) != nil {
		return nil
	}
	if err := b.quantset2cache(varset); err != nil {
		return nil
	}
	b.applycache.op = qop
	b.appexcache.op = op
	b.appexcache.id = (varset << 6) | (int(op) << 3) | qid
	b.quantcache.id = (b.appexcache.id << 3) | qid
	b.initref()
	b.pushref(left.id)
	b.pushref(right.id)
	b.pushref(varset)
	res := b.appquant(left.id, right.id, varset)
	b.popref(3)
	return b.retnode(res)
}

func (b *BDD) appquant(left, right, varset int) int {
	switch b.appexcache.op {
	case OPand:
		if left == 0 || right == 0 {
			return 0
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 1 {
			return b.quant(right, varset)
		}
		if right == 1 {
			return b.quant(left, varset)
		}
	case OPor:
		if left == 1 || right == 1 {
			return 1
		}
		if left == right {
			return b.quant(left, varset)
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPxor:
		if left == right {
			return 0
		}
		if left == 0 {
			return b.quant(right, varset)
		}
		if right == 0 {
			return b.quant(left, varset)
		}
	case OPnand:
		if left == 0 || right == 0 {
			return 1
		}
	default:
		b.seterror(ErrArgument, "unauthorized operation (%s) in quantified apply", b.appexcache.op)
		return -1
	}

	// we check for errors
	if left < 0 || right < 0 {
		b.seterror(ErrMemory, "unexpected error in appquant")
		return -1
	}

	// we deal with the other cases when the two operands are constants
	if (left < 2) && (right < 2) {
		return opres[b.appexcache.op][left][right]
	}

	// and the case where we have no more variables to quantify
	if (b.level(left) > b.quantlast) && (b.level(right) > b.quantlast) {
		oldop := b.applycache.op
		b.applycache.op = b.appexcache.op
		res := b.apply(left, right)
		b.applycache.op = oldop
		return res
	}

	// next we check if the operation is already in our cache
	if res := b.matchappex(left, right); res >= 0 {
		return res
	}
	leftlvl := b.level(left)
	rightlvl := b.level(right)
	var res int
	if leftlvl == rightlvl {
		low := b.pushref(b.appquant(b.low(left), b.low(right), varset))
		high := b.pushref(b.appquant(b.high(left), b.high(right), varset))
		if b.quantset[leftlvl] == b.quantsetID {
			res = b.apply(low, high)
		} else {
			res = b.makenode(leftlvl, low, high)
		}
	} else {
		if leftlvl < rightlvl {
			low := b.pushref(b.appquant(b.low(left), right, varset))
			high := b.pushref(b.appquant(b.high(left), right, varset))
			if b.quantset[leftlvl] == b.quantsetID {
				res = b.apply(low, high)
			} else {
				res = b.makenode(leftlvl, low, high)
			}
		} else {
			low := b.pushref(b.appquant(left, b.low(right), varset))
			high := b.pushref(b.appquant(left, b.high(right), varset))
			if b.quantset[rightlvl] == b.quantsetID {
				res = b.apply(low, high)
			} else {
				res = b.makenode(rightlvl, low, high)
			}
		}
	}
	b.popref(2)
	return b.setappex(left, right, res)
}
