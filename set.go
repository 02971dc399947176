// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

// And returns the logical 'and' of a sequence of nodes. The result is a fresh
// handle; the operands are not consumed.
func (b *BDD) And(n ...*Node) *Node {
	if len(n) == 0 {
		return b.True()
	}
	if b.checknode(n[0], "And") != nil {
		return nil
	}
	res := b.retnode(n[0].id)
	for _, m := range n[1:] {
		tmp := b.Apply(res, m, OPand)
		res.Free()
		if tmp == nil {
			return nil
		}
		res = tmp
	}
	return res
}

// Or returns the logical 'or' of a sequence of nodes.
func (b *BDD) Or(n ...*Node) *Node {
	if len(n) == 0 {
		return b.False()
	}
	if b.checknode(n[0], "Or") != nil {
		return nil
	}
	res := b.retnode(n[0].id)
	for _, m := range n[1:] {
		tmp := b.Apply(res, m, OPor)
		res.Free()
		if tmp == nil {
			return nil
		}
		res = tmp
	}
	return res
}

// Imp returns the logical 'implication' between two nodes.
func (b *BDD) Imp(n1, n2 *Node) *Node {
	return b.Apply(n1, n2, OPimp)
}

// Equiv returns the logical 'bi-implication' between two nodes.
func (b *BDD) Equiv(n1, n2 *Node) *Node {
	return b.Apply(n1, n2, OPbiimp)
}

// Xor returns the logical 'exclusive or' of two nodes.
func (b *BDD) Xor(n1, n2 *Node) *Node {
	return b.Apply(n1, n2, OPxor)
}

// Equal tests equivalence between nodes.
func (b *BDD) Equal(low, high *Node) bool {
	if low == high {
		return true
	}
	if low == nil || high == nil {
		return false
	}
	return low.id == high.id && low.id >= 0 && low.bdd == high.bdd
}

// AndExist returns the "relational product" of two nodes with respect to
// varset, meaning the result of [Exist set . n1 & n2].
func (b *BDD) AndExist(set *VarSet, n1, n2 *Node) *Node {
	return b.AppEx(n1, n2, OPand, set)
}
