// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import "log"

// Node is a reference to an element of a decision diagram. It represents the
// atomic unit of interactions and computations within a factory.
//
// Every handle owns exactly one external reference to its node: operations
// returning a Node account for one reference, and Free releases it. A handle
// becomes invalid after a call to Free, or when it is consumed by one of the
// ...With operations; any further use is reported with ErrFreed.
type Node struct {
	bdd *BDD
	id  int
}

// Factory returns the factory that produced this node.
func (n *Node) Factory() *BDD {
	if n == nil {
		return nil
	}
	return n.bdd
}

// Free releases the reference owned by this handle. The underlying node can
// be reclaimed by a later garbage collection unless it is still protected by
// another handle. Freeing a handle twice is an error.
func (n *Node) Free() error {
	if n == nil {
		return ErrArgument
	}
	b := n.bdd
	if n.id < 0 {
		if _DEBUG {
			log.Panicf("double free of node\n")
		}
		return b.seterror(ErrFreed, "double free of node")
	}
	b.store.decref(n.id)
	n.id = -1
	return nil
}

// Clone returns a new handle to the same node, accounting for one more
// external reference.
func (n *Node) Clone() *Node {
	if n == nil || n.bdd.checknode(n, "Clone") != nil {
		return nil
	}
	return n.bdd.retnode(n.id)
}

// consume releases the reference of a handle taken as operand by one of the
// ...With operations.
func (n *Node) consume() {
	if n.id >= 0 {
		n.bdd.store.decref(n.id)
		n.id = -1
	}
}

// become transfers the node referenced by res to the receiver, releasing the
// receiver's previous reference. The handle res must not be used afterwards.
func (n *Node) become(res *Node) *Node {
	if res == nil {
		return nil
	}
	n.bdd.store.decref(n.id)
	n.id = res.id
	return n
}

// Equal tests equivalence between nodes. Since diagrams are canonical, two
// equivalent expressions are always represented by the same node of their
// factory.
func (n *Node) Equal(m *Node) bool {
	if n == m {
		return true
	}
	if n == nil || m == nil {
		return false
	}
	return n.bdd == m.bdd && n.id == m.id && n.id >= 0
}

// IsZero returns true if this node is the constant false.
func (n *Node) IsZero() bool {
	return n != nil && n.id == 0
}

// IsOne returns true if this node is the constant true. In ZDD mode the
// constant true is the family that only contains the empty set.
func (n *Node) IsOne() bool {
	return n != nil && n.id == 1
}

// IsUniverse returns true if this node is satisfied by every assignment: the
// constant true in BDD mode, the family of all subsets in ZDD mode.
func (n *Node) IsUniverse() bool {
	if n == nil || n.id < 0 {
		return false
	}
	b := n.bdd
	if !b.zdd {
		return n.id == 1
	}
	b.initref()
	return n.id == b.universeid()
}

// Var returns the variable labeling node n. We set the factory to its error
// state and return -1 if n is a constant node.
func (n *Node) Var() int {
	b := n.bdd
	if b.checknode(n, "Var") != nil {
		return -1
	}
	if n.id < 2 {
		b.seterror(ErrArgument, "access to the variable of a constant node")
		return -1
	}
	return int(b.level2var[b.level(n.id)])
}

// Level returns the level of node n in the current variable order. We set the
// factory to its error state and return -1 if n is a constant node.
func (n *Node) Level() int {
	b := n.bdd
	if b.checknode(n, "Level") != nil {
		return -1
	}
	if n.id < 2 {
		b.seterror(ErrArgument, "access to the level of a constant node")
		return -1
	}
	return int(b.level(n.id))
}

// Low returns the false branch of node n, or nil if there is an error.
func (n *Node) Low() *Node {
	b := n.bdd
	if b.checknode(n, "Low") != nil {
		return nil
	}
	if n.id < 2 {
		return b.errnode(ErrArgument, "access to the low branch of a constant node")
	}
	return b.retnode(b.low(n.id))
}

// High returns the true branch of node n, or nil if there is an error.
func (n *Node) High() *Node {
	b := n.bdd
	if b.checknode(n, "High") != nil {
		return nil
	}
	if n.id < 2 {
		return b.errnode(ErrArgument, "access to the high branch of a constant node")
	}
	return b.retnode(b.high(n.id))
}

// Not returns the negation of this node.
func (n *Node) Not() *Node {
	return n.bdd.Not(n)
}

// And returns the conjunction of this node and that.
func (n *Node) And(that *Node) *Node {
	return n.bdd.Apply(n, that, OPand)
}

// Or returns the disjunction of this node and that.
func (n *Node) Or(that *Node) *Node {
	return n.bdd.Apply(n, that, OPor)
}

// Xor returns the exclusive or of this node and that.
func (n *Node) Xor(that *Node) *Node {
	return n.bdd.Apply(n, that, OPxor)
}

// Imp returns the implication of this node by that.
func (n *Node) Imp(that *Node) *Node {
	return n.bdd.Apply(n, that, OPimp)
}

// Biimp returns the biimplication (equivalence) of this node and that.
func (n *Node) Biimp(that *Node) *Node {
	return n.bdd.Apply(n, that, OPbiimp)
}

// Diff returns the difference of this node and that, the expression
// [n /\ not that].
func (n *Node) Diff(that *Node) *Node {
	return n.bdd.Apply(n, that, OPdiff)
}

// Apply is the generic dyadic operation, see the method with the same name on
// the factory.
func (n *Node) Apply(that *Node, op Operator) *Node {
	return n.bdd.Apply(n, that, op)
}

// ApplyWith is the consuming form of Apply: the receiver is updated with the
// result and the operand that is freed. It avoids an extra pair of reference
// count updates around the common idiom "x = x op y; free y". The handle that
// must not be used afterwards.
func (n *Node) ApplyWith(that *Node, op Operator) *Node {
	b := n.bdd
	res := b.Apply(n, that, op)
	if res == nil {
		return nil
	}
	if that != n && that.bdd == b {
		that.consume()
	}
	return n.become(res)
}

// AndWith is ApplyWith with the and operator.
func (n *Node) AndWith(that *Node) *Node {
	return n.ApplyWith(that, OPand)
}

// OrWith is ApplyWith with the or operator.
func (n *Node) OrWith(that *Node) *Node {
	return n.ApplyWith(that, OPor)
}

// XorWith is ApplyWith with the xor operator.
func (n *Node) XorWith(that *Node) *Node {
	return n.ApplyWith(that, OPxor)
}

// ImpWith is ApplyWith with the implication operator.
func (n *Node) ImpWith(that *Node) *Node {
	return n.ApplyWith(that, OPimp)
}

// BiimpWith is ApplyWith with the biimplication operator.
func (n *Node) BiimpWith(that *Node) *Node {
	return n.ApplyWith(that, OPbiimp)
}

// Ite computes the if-then-else of this node with the two branches g and h.
func (n *Node) Ite(g, h *Node) *Node {
	return n.bdd.Ite(n, g, h)
}

// Exist returns the existential quantification of this node over set.
func (n *Node) Exist(set *VarSet) *Node {
	return n.bdd.Exist(n, set)
}

// Forall returns the universal quantification of this node over set.
func (n *Node) Forall(set *VarSet) *Node {
	return n.bdd.Forall(n, set)
}

// Unique returns the unique quantification of this node over set.
func (n *Node) Unique(set *VarSet) *Node {
	return n.bdd.Unique(n, set)
}

// ApplyEx is the fused form of Apply followed by Exist, see AppEx.
func (n *Node) ApplyEx(that *Node, op Operator, set *VarSet) *Node {
	return n.bdd.AppEx(n, that, op, set)
}

// ApplyAll is the fused form of Apply followed by Forall, see AppAll.
func (n *Node) ApplyAll(that *Node, op Operator, set *VarSet) *Node {
	return n.bdd.AppAll(n, that, op, set)
}

// ApplyUni is the fused form of Apply followed by Unique, see AppUni.
func (n *Node) ApplyUni(that *Node, op Operator, set *VarSet) *Node {
	return n.bdd.AppUni(n, that, op, set)
}

// Relprod returns the relational product of this node and that with respect
// to set, the result of [Exist set . n /\ that].
func (n *Node) Relprod(that *Node, set *VarSet) *Node {
	return n.bdd.AppEx(n, that, OPand, set)
}

// Compose returns the result of substituting diagram g for variable v in this
// node.
func (n *Node) Compose(g *Node, v int) *Node {
	return n.bdd.Compose(n, g, v)
}

// VecCompose substitutes every variable recorded in the pairing with its
// image, simultaneously.
func (n *Node) VecCompose(p *Pairing) *Node {
	return n.bdd.VecCompose(n, p)
}

// Replace renames the variables of this node according to the pairing, which
// must only record variable to variable associations.
func (n *Node) Replace(p *Pairing) *Node {
	return n.bdd.Replace(n, p)
}

// ReplaceWith is the consuming form of Replace: the receiver is updated with
// the result.
func (n *Node) ReplaceWith(p *Pairing) *Node {
	res := n.bdd.Replace(n, p)
	if res == nil {
		return nil
	}
	return n.become(res)
}

// Restrict restricts this node with the cube c: variables appearing in c are
// fixed to the polarity of their literal. Note that this is not the
// Coudert-Madre restrict, see Simplify.
func (n *Node) Restrict(c *Node) *Node {
	return n.bdd.Restrict(n, c)
}

// RestrictWith is the consuming form of Restrict: the receiver is updated
// with the result and the cube c is freed.
func (n *Node) RestrictWith(c *Node) *Node {
	b := n.bdd
	res := b.Restrict(n, c)
	if res == nil {
		return nil
	}
	if c != n && c.bdd == b {
		c.consume()
	}
	return n.become(res)
}

// Constrain returns the generalized cofactor of this node by c.
func (n *Node) Constrain(c *Node) *Node {
	return n.bdd.Constrain(n, c)
}

// Simplify uses the care set d to try and reduce the size of this node, using
// the Coudert-Madre restrict algorithm. The result agrees with n inside d; no
// check is made that the result is actually smaller, callers are responsible.
func (n *Node) Simplify(d *Node) *Node {
	return n.bdd.Simplify(n, d)
}

// Support returns the set of variables this node depends on.
func (n *Node) Support() *VarSet {
	return n.bdd.Support(n)
}

// SatOne returns one satisfying assignment of this node, as a cube over the
// variables mentioned along one path to the true terminal; unconstrained
// variables are absent from the result.
func (n *Node) SatOne() *Node {
	return n.bdd.SatOne(n)
}

// FullSatOne returns one satisfying assignment of this node as a minterm over
// every variable of the factory.
func (n *Node) FullSatOne() *Node {
	return n.bdd.FullSatOne(n)
}

// SatOneSet returns one satisfying assignment, mentioning at least the
// variables of set; variables of set that are unconstrained in n are given
// the polarity pol.
func (n *Node) SatOneSet(set *VarSet, pol bool) *Node {
	return n.bdd.SatOneSet(n, set, pol)
}
