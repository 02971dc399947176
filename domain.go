// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"math/big"
	"strconv"
)

// Domain represents a finite domain block: an integer-valued variable encoded
// over a group of Boolean variables, least-significant bit first. Domains are
// created with ExtDomain and live for the whole life of their factory.
type Domain struct {
	bdd      *BDD
	name     string
	index    int
	realsize *big.Int // the values of the domain are 0 ... realsize-1
	ivar     []int    // indices of the variables encoding the domain
	set      *VarSet  // the variables of the domain, as a VarSet
}

var bigOne = big.NewInt(1)
var bigTwo = big.NewInt(2)

// ExtDomain extends the factory with new finite domain blocks, one per entry
// in sizes. Each block gets ceil(log2(size)) fresh Boolean variables,
// allocated after the variables already present. We return an error if one of
// the sizes is not at least two.
func (b *BDD) ExtDomain(sizes ...int64) ([]*Domain, error) {
	bigs := make([]*big.Int, len(sizes))
	for k, v := range sizes {
		bigs[k] = big.NewInt(v)
	}
	return b.ExtDomainBig(bigs...)
}

// ExtDomainBig is the arbitrary-precision form of ExtDomain.
func (b *BDD) ExtDomainBig(sizes ...*big.Int) ([]*Domain, error) {
	res := make([]*Domain, 0, len(sizes))
	for _, size := range sizes {
		if size == nil || size.Cmp(bigTwo) < 0 {
			return nil, b.seterror(ErrArgument, "domain size must be at least two in call to ExtDomain")
		}
		binsize := 1
		calcsize := new(big.Int).Set(bigTwo)
		for calcsize.Cmp(size) < 0 {
			binsize++
			calcsize.Lsh(calcsize, 1)
		}
		first, err := b.ExtVarnum(binsize)
		if err != nil {
			return nil, err
		}
		d := &Domain{
			bdd:      b,
			index:    len(b.domains),
			realsize: new(big.Int).Set(size),
			ivar:     make([]int, binsize),
		}
		d.name = strconv.Itoa(d.index)
		for k := range d.ivar {
			d.ivar[k] = first + k
		}
		set, err := b.NewVarSet(d.ivar...)
		if err != nil {
			return nil, err
		}
		d.set = set
		b.domains = append(b.domains, d)
		res = append(res, d)
	}
	return res, nil
}

// NumberOfDomains returns the number of finite domain blocks defined in the
// factory.
func (b *BDD) NumberOfDomains() int {
	return len(b.domains)
}

// GetDomain returns the i'th finite domain block of the factory.
func (b *BDD) GetDomain(i int) (*Domain, error) {
	if i < 0 || i >= len(b.domains) {
		return nil, b.seterror(ErrArgument, "unknown domain (%d) in call to GetDomain", i)
	}
	return b.domains[i], nil
}

// Name returns the name of the domain, its index by default.
func (d *Domain) Name() string {
	return d.name
}

// SetName changes the name of the domain, used by StringWithDomains.
func (d *Domain) SetName(name string) {
	d.name = name
}

// Index returns the position of the domain in its factory.
func (d *Domain) Index() int {
	return d.index
}

// Size returns the size of the domain.
func (d *Domain) Size() *big.Int {
	return new(big.Int).Set(d.realsize)
}

// VarNum returns the number of Boolean variables used to encode the domain.
func (d *Domain) VarNum() int {
	return len(d.ivar)
}

// Vars returns the indices of the Boolean variables encoding the domain,
// least-significant bit first.
func (d *Domain) Vars() []int {
	res := make([]int, len(d.ivar))
	copy(res, d.ivar)
	return res
}

// Set returns the variables of the domain as a VarSet. The result is a fresh
// copy holding its own reference.
func (d *Domain) Set() *VarSet {
	return d.set.Clone()
}

// IthVar returns the node that is true exactly when the domain takes the
// value val. We return an error when val is outside [0, size).
func (d *Domain) IthVar(val int64) *Node {
	return d.IthVarBig(big.NewInt(val))
}

// IthVarBig is the arbitrary-precision form of IthVar.
func (d *Domain) IthVarBig(val *big.Int) *Node {
	b := d.bdd
	if val == nil || val.Sign() < 0 || val.Cmp(d.realsize) >= 0 {
		return b.errnode(ErrArgument, "value %v out of range in call to IthVar on domain %s", val, d.name)
	}
	v := new(big.Int).Set(val)
	res := b.True()
	for n := 0; n < len(d.ivar); n++ {
		var lit *Node
		if v.Bit(0) == 1 {
			lit = b.Ithvar(d.ivar[n])
		} else {
			lit = b.NIthvar(d.ivar[n])
		}
		res = res.AndWith(lit)
		if res == nil {
			return nil
		}
		v.Rsh(v, 1)
	}
	return res
}

// Domain returns the node representing [V <= size-1] over the variables of
// the block: the disjunction of IthVar(v) for every value of the domain.
func (d *Domain) Domain() *Node {
	b := d.bdd
	val := new(big.Int).Sub(d.realsize, bigOne)
	res := b.True()
	for n := 0; n < len(d.ivar); n++ {
		lit := b.NIthvar(d.ivar[n])
		if lit == nil {
			return nil
		}
		if val.Bit(0) == 1 {
			res = res.OrWith(lit)
		} else {
			res = res.AndWith(lit)
		}
		if res == nil {
			return nil
		}
		val.Rsh(val, 1)
	}
	return res
}

// VarRange returns the node that is true exactly when the domain takes a
// value in the inclusive interval [lo, hi]. The interval is decomposed
// greedily into aligned power-of-two blocks, each contributing one cube to
// the result.
func (d *Domain) VarRange(lo, hi int64) *Node {
	return d.VarRangeBig(big.NewInt(lo), big.NewInt(hi))
}

// VarRangeBig is the arbitrary-precision form of VarRange.
func (d *Domain) VarRangeBig(lo, hi *big.Int) *Node {
	b := d.bdd
	if lo == nil || hi == nil || lo.Sign() < 0 || hi.Cmp(d.realsize) >= 0 || lo.Cmp(hi) > 0 {
		return b.errnode(ErrArgument, "range <%v, %v> is invalid on domain %s", lo, hi, d.name)
	}
	lo = new(big.Int).Set(lo)
	res := b.False()
	for lo.Cmp(hi) <= 0 {
		cube := b.True()
		for n := len(d.ivar) - 1; n >= 0; n-- {
			var lit *Node
			if lo.Bit(n) == 1 {
				lit = b.Ithvar(d.ivar[n])
			} else {
				lit = b.NIthvar(d.ivar[n])
			}
			cube = cube.AndWith(lit)
			if cube == nil {
				return nil
			}
			// mask covers the n lowest bits: when lo is aligned on the block
			// and the whole block fits under hi, emit the cube covering
			// [lo, lo+2^n-1] and restart just after it. The break always
			// triggers at n == 0, where the cube denotes the single value lo.
			mask := new(big.Int).Lsh(bigOne, uint(n))
			mask.Sub(mask, bigOne)
			low := new(big.Int).And(lo, mask)
			or := new(big.Int).Or(lo, mask)
			if low.Sign() == 0 && or.Cmp(hi) <= 0 {
				lo.Add(or, bigOne)
				break
			}
		}
		res = res.OrWith(cube)
		if res == nil {
			return nil
		}
	}
	return res
}

// BuildEquals returns the node that is true exactly when this domain and that
// take the same value. The two domains must have the same size.
func (d *Domain) BuildEquals(that *Domain) *Node {
	b := d.bdd
	if that == nil || that.bdd != b {
		return b.errnode(ErrMismatch, "foreign domain in call to BuildEquals")
	}
	if d.realsize.Cmp(that.realsize) != 0 {
		return b.errnode(ErrArgument, "size of domain %s differs from size of domain %s", d.name, that.name)
	}
	res := b.True()
	for n := 0; n < len(d.ivar); n++ {
		a := b.Ithvar(d.ivar[n])
		bb := b.Ithvar(that.ivar[n])
		a = a.BiimpWith(bb)
		if a == nil {
			return nil
		}
		res = res.AndWith(a)
		if res == nil {
			return nil
		}
	}
	return res
}

// BuildAdd returns the node encoding [this = that + value], computed over the
// full width of the two domains. See BuildAddBits.
func (d *Domain) BuildAdd(that *Domain, value int64) *Node {
	if that == nil || that.bdd != d.bdd {
		return d.bdd.errnode(ErrMismatch, "foreign domain in call to BuildAdd")
	}
	if len(d.ivar) != len(that.ivar) {
		return d.bdd.errnode(ErrArgument, "domains %s and %s have different bit widths", d.name, that.name)
	}
	return d.BuildAddBits(that, len(d.ivar), value)
}

// BuildAddBits returns the node encoding [this = that + value], where the
// addition is computed modulo two to the power of bits with a ripple-carry
// equivalence, bit by bit. Bits beyond the requested width are constrained to
// zero in both domains. When value is zero the operation degenerates to a
// biconditional per bit.
func (d *Domain) BuildAddBits(that *Domain, bits int, value int64) *Node {
	b := d.bdd
	if that == nil || that.bdd != b {
		return b.errnode(ErrMismatch, "foreign domain in call to BuildAdd")
	}
	if bits < 0 || bits > len(d.ivar) || bits > len(that.ivar) {
		return b.errnode(ErrArgument, "number of bits requested (%d) is larger than domain sizes %d, %d",
			bits, len(d.ivar), len(that.ivar))
	}

	// constrain the bits beyond the requested width to zero
	highzero := func(res *Node) *Node {
		for n := bits; n < len(d.ivar) || n < len(that.ivar); n++ {
			if n < len(d.ivar) {
				res = res.AndWith(b.NIthvar(d.ivar[n]))
				if res == nil {
					return nil
				}
			}
			if n < len(that.ivar) {
				res = res.AndWith(b.NIthvar(that.ivar[n]))
				if res == nil {
					return nil
				}
			}
		}
		return res
	}

	if value == 0 {
		res := b.True()
		for n := 0; n < bits; n++ {
			bit := b.Ithvar(d.ivar[n])
			bit = bit.BiimpWith(b.Ithvar(that.ivar[n]))
			if bit == nil {
				return nil
			}
			res = res.AndWith(bit)
			if res == nil {
				return nil
			}
		}
		return highzero(res)
	}

	y := b.buildvector(that.ivar[:bits])
	v := b.constantvector(bits, value)
	z := y.add(v)
	x := b.buildvector(d.ivar[:bits])
	res := b.True()
	for n := 0; n < bits; n++ {
		bit := x[n].Biimp(z[n])
		if bit == nil {
			return nil
		}
		res = res.AndWith(bit)
		if res == nil {
			return nil
		}
	}
	x.free()
	y.free()
	z.free()
	v.free()
	return highzero(res)
}

// EnsureCapacity widens the recorded size of the domain so that values up to
// range (inclusive) are considered part of it. The new size must fit within
// the bit width allocated when the domain was created; adding bits to an
// existing domain is not supported and reported as an error.
func (d *Domain) EnsureCapacity(rng int64) (int, error) {
	return d.EnsureCapacityBig(big.NewInt(rng))
}

// EnsureCapacityBig is the arbitrary-precision form of EnsureCapacity.
func (d *Domain) EnsureCapacityBig(rng *big.Int) (int, error) {
	b := d.bdd
	if rng == nil || rng.Sign() < 0 {
		return 0, b.seterror(ErrArgument, "negative range in call to EnsureCapacity on domain %s", d.name)
	}
	if rng.Cmp(d.realsize) < 0 {
		return len(d.ivar), nil
	}
	binsize := 1
	calcsize := new(big.Int).Set(bigTwo)
	for calcsize.Cmp(rng) <= 0 {
		binsize++
		calcsize.Lsh(calcsize, 1)
	}
	if binsize != len(d.ivar) {
		return 0, b.seterror(ErrArgument, "cannot add bits to domain %s, requested upper limit %v", d.name, rng)
	}
	d.realsize = new(big.Int).Add(rng, bigOne)
	return binsize, nil
}

// value reads the value of the domain from a full assignment of the Boolean
// variables, least-significant bit first.
func (d *Domain) value(store []bool) *big.Int {
	val := big.NewInt(0)
	for m := len(d.ivar) - 1; m >= 0; m-- {
		val.Lsh(val, 1)
		if store[d.ivar[m]] {
			val.Add(val, bigOne)
		}
	}
	return val
}

// ScanVar finds one satisfying assignment in node n and returns the value of
// the domain in it. The result is -1 when n is the constant false.
func (n *Node) ScanVar(d *Domain) *big.Int {
	b := n.bdd
	if b.checknode(n, "ScanVar") != nil {
		return nil
	}
	if d == nil || d.bdd != b {
		b.seterror(ErrMismatch, "foreign domain in call to ScanVar")
		return nil
	}
	if n.id == 0 {
		return big.NewInt(-1)
	}
	allvar := n.ScanAllVar()
	if allvar == nil {
		return nil
	}
	return allvar[d.index]
}

// ScanAllVar finds one satisfying assignment in node n and returns the value
// of every domain of the factory in it, indexed by domain. The result is nil
// when n is the constant false.
func (n *Node) ScanAllVar() []*big.Int {
	b := n.bdd
	if b.checknode(n, "ScanAllVar") != nil {
		return nil
	}
	if n.id == 0 {
		return nil
	}
	store := make([]bool, b.varnum)
	p := n.id
	for p >= 2 {
		if b.low(p) != 0 {
			store[b.level2var[b.level(p)]] = false
			p = b.low(p)
		} else {
			store[b.level2var[b.level(p)]] = true
			p = b.high(p)
		}
	}
	res := make([]*big.Int, len(b.domains))
	for k, d := range b.domains {
		res[k] = d.value(store)
	}
	return res
}

// GetVarIndices converts node n, assumed to be a disjunction of IthVar
// constraints on this domain, to the list of domain values present in it. At
// most max values are returned; pass a negative max for no limit.
func (d *Domain) GetVarIndices(n *Node, max int) ([]*big.Int, error) {
	b := d.bdd
	if err := b.checknode(n, "GetVarIndices"); err != nil {
		return nil, err
	}
	set := d.Set()
	defer set.Free()
	count := int(b.SatcountSet(n, set))
	if max >= 0 && count > max {
		count = max
	}
	res := make([]*big.Int, 0, count)
	it, err := n.Iterator(set)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		val, err := it.NextValue(d)
		if err != nil {
			return nil, err
		}
		res = append(res, val)
	}
	return res, nil
}
