// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

// bvec is a vector of nodes encoding a binary integer, least-significant bit
// first. It is the internal support for the ripple-carry construction of
// BuildAdd.
type bvec []*Node

// buildvector returns a vector whose k'th bit is the literal of the k'th
// variable in ivars.
func (b *BDD) buildvector(ivars []int) bvec {
	res := make(bvec, len(ivars))
	for k, v := range ivars {
		res[k] = b.Ithvar(v)
	}
	return res
}

// constantvector returns a vector encoding the constant value over the given
// number of bits.
func (b *BDD) constantvector(bits int, value int64) bvec {
	res := make(bvec, bits)
	for k := range res {
		res[k] = b.From(value&1 == 1)
		value >>= 1
	}
	return res
}

// add returns the bitwise sum of the two vectors, modulo two to the power of
// their size. The operands are left untouched.
func (v bvec) add(w bvec) bvec {
	if len(v) == 0 {
		return bvec{}
	}
	b := v[0].bdd
	res := make(bvec, len(v))
	c := b.False()
	for k := range v {
		// sum = v[k] xor w[k] xor carry
		t := v[k].Xor(w[k])
		res[k] = t.Xor(c)
		// carry = (v[k] and w[k]) or (carry and (v[k] or w[k]))
		t2 := v[k].And(w[k])
		t3 := v[k].Or(w[k])
		t3 = t3.AndWith(c.Clone())
		t2 = t2.OrWith(t3)
		c.Free()
		c = t2
		t.Free()
	}
	c.Free()
	return res
}

// free releases every bit of the vector.
func (v bvec) free() {
	for _, n := range v {
		if n != nil && n.id >= 0 {
			n.Free()
		}
	}
}
