// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

// VarSet is a set of variables, canonically represented by the cube of their
// positive literals. A VarSet holds a node handle and therefore participates
// in reference counting: call Free when the set is no longer needed.
type VarSet struct {
	n *Node
}

// NewVarSet returns the set of the given variables. We return an error if one
// of the variables is outside the scope of the factory.
func (b *BDD) NewVarSet(vars ...int) (*VarSet, error) {
	cube := b.Makeset(vars)
	if cube == nil {
		return nil, b.error
	}
	return &VarSet{n: cube}, nil
}

// ToVarSet interprets node n as a cube of positive literals and returns the
// corresponding set of variables.
func (n *Node) ToVarSet() (*VarSet, error) {
	b := n.bdd
	if err := b.checknode(n, "ToVarSet"); err != nil {
		return nil, err
	}
	for i := n.id; i > 1; i = b.high(i) {
		if b.low(i) != 0 {
			return nil, b.seterror(ErrArgument, "node is not a cube of positive literals in call to ToVarSet")
		}
	}
	return &VarSet{n: b.retnode(n.id)}, nil
}

// AsNode returns a fresh handle over the cube backing this set.
func (s *VarSet) AsNode() *Node {
	return s.n.Clone()
}

// Free releases the reference held by this set.
func (s *VarSet) Free() error {
	return s.n.Free()
}

// Clone returns a new set over the same variables, holding its own reference.
func (s *VarSet) Clone() *VarSet {
	n := s.n.Clone()
	if n == nil {
		return nil
	}
	return &VarSet{n: n}
}

// Size returns the number of variables in the set.
func (s *VarSet) Size() int {
	b := s.n.bdd
	if b.checknode(s.n, "Size") != nil {
		return -1
	}
	res := 0
	for i := s.n.id; i > 1; i = b.high(i) {
		res++
	}
	return res
}

// IsEmpty reports whether the set contains no variable.
func (s *VarSet) IsEmpty() bool {
	return s.n != nil && s.n.id == 1
}

// Contains reports whether variable v belongs to the set.
func (s *VarSet) Contains(v int) bool {
	b := s.n.bdd
	if b.checknode(s.n, "Contains") != nil {
		return false
	}
	if v < 0 || int32(v) >= b.varnum {
		return false
	}
	lvl := b.var2level[v]
	for i := s.n.id; i > 1; i = b.high(i) {
		if b.level(i) == lvl {
			return true
		}
	}
	return false
}

// Levels returns the levels of the variables in the set, in ascending order.
func (s *VarSet) Levels() []int {
	b := s.n.bdd
	if b.checknode(s.n, "Levels") != nil {
		return nil
	}
	res := []int{}
	for i := s.n.id; i > 1; i = b.high(i) {
		res = append(res, int(b.level(i)))
	}
	return res
}

// Vars returns the variables in the set, following the level order.
func (s *VarSet) Vars() []int {
	return s.n.bdd.Scanset(s.n)
}

// Union returns a new set with the variables of both s and t.
func (s *VarSet) Union(t *VarSet) *VarSet {
	b := s.n.bdd
	if b.checknode(t.n, "Union") != nil {
		return nil
	}
	vars := s.Vars()
	for _, v := range t.Vars() {
		if !s.Contains(v) {
			vars = append(vars, v)
		}
	}
	res, err := b.NewVarSet(vars...)
	if err != nil {
		return nil
	}
	return res
}

// Intersect returns a new set with the variables common to s and t.
func (s *VarSet) Intersect(t *VarSet) *VarSet {
	b := s.n.bdd
	if b.checknode(t.n, "Intersect") != nil {
		return nil
	}
	vars := []int{}
	for _, v := range s.Vars() {
		if t.Contains(v) {
			vars = append(vars, v)
		}
	}
	res, err := b.NewVarSet(vars...)
	if err != nil {
		return nil
	}
	return res
}

// Difference returns a new set with the variables of s that are not in t.
func (s *VarSet) Difference(t *VarSet) *VarSet {
	b := s.n.bdd
	if b.checknode(t.n, "Difference") != nil {
		return nil
	}
	vars := []int{}
	for _, v := range s.Vars() {
		if !t.Contains(v) {
			vars = append(vars, v)
		}
	}
	res, err := b.NewVarSet(vars...)
	if err != nil {
		return nil
	}
	return res
}
