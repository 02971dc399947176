// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"errors"
	"strconv"
)

// _MINFREENODES is the minimal number of nodes (%) that has to be left after a
// garbage collect unless a resize should be done.
const _MINFREENODES int = 20

// _MAXVAR is the maximal number of levels in a decision diagram. We use only
// the first 21 bits for encoding levels (so also the max number of variables).
// We use 11 other bits for markings. Hence we make sure to always use int32 to
// avoid problem when we change architecture.
const _MAXVAR int32 = 0x1FFFFF

// _MAXREFCOUNT is the maximal value of the reference counter (refcou), also
// used to stick nodes (like constants and variables) in the node list. It is
// egal to 1023 (10 bits).
const _MAXREFCOUNT int32 = 0x3FF

// _DEFAULTMAXNODEINC is the default value for the maximal increase in the
// number of nodes during a resize. It is approx. one million nodes (1 048 576).
const _DEFAULTMAXNODEINC int = 1 << 20

var errMemory = errors.New("unable to free memory or resize node table")
var errResize = errors.New("should cache resize") // when gbc and then noderesize
var errReset = errors.New("should cache reset")   // when gbc only, without resizing

// storage is the interface implemented by the concrete node stores. It only
// exposes the primitive operations over the flat table of (level, low, high)
// triples: allocation with hash-consing, reference counting and marking. Every
// compound operation (apply, ite, quantification, ...) is provided once by the
// generic engine in this package, so that the backends never duplicate them.
type storage interface {
	// makenode returns the node (level, low, high), either from the unique
	// table or freshly allocated. It can trigger a garbage collection, in
	// which case it protects the nodes listed in refstack and reports the
	// event with errReset (GC only) or errResize (GC followed by a resize).
	makenode(level int32, low, high int, refstack []int) (int, error)
	// gc explicitly collects every node that is not protected by an external
	// reference or by the refstack.
	gc(refstack []int)
	level(n int) int32
	low(n int) int
	high(n int) int
	// valid reports whether n is the index of an active node.
	valid(n int) bool
	incref(n int)
	decref(n int)
	refcount(n int) int32
	// pin gives n a permanent reference, used for variables and terminals.
	pin(n int)
	// setlevel is only used to keep the level of the two constant nodes equal
	// to varnum when the number of variables grows.
	setlevel(n int, level int32)
	size() int
	live() int
	ismarked(n int) bool
	marknode(n int)
	unmarknode(n int)
	unmarkall()
	allnodes(f func(id, level, low, high int) error) error
	allnodesfrom(f func(id, level, low, high int) error, roots []int) error
	stats() string
}

// BDD is a factory of decision diagram nodes. A factory carries its node
// store, its operator caches and its variable ordering; all the nodes produced
// by a factory belong to it and must never be mixed with nodes from another
// one. A factory is not safe for concurrent use: all mutating operations must
// be serialized by the caller. Independent factories can be used from
// different goroutines without synchronization.
type BDD struct {
	store        storage
	zdd          bool     // reduction rule: false for BDD, true for ZDD
	varnum       int32    // number of variables
	varset       [][2]int // for each variable, the nodes for its positive and negative literal
	var2level    []int32  // variable index to level
	level2var    []int32  // level to variable index
	refstack     []int    // internal node reference stack, pinning in-flight results against GC
	domains      []*Domain
	quantset     []int32 // current variable set for quantifications
	quantsetID   int32   // current id used in quantset
	quantlast    int32   // last level to be quantified
	composelevel int32   // level substituted by the current compose
	satPolarity  bool    // polarity forced on unconstrained variables in SatOneSet
	applycache   *applycache
	itecache     *itecache
	quantcache   *quantcache
	appexcache   *appexcache
	replacecache *replacecache
	misccache    *misccache
	cachesize    int
	cacheratio   int
	cacheStat
	error // sticky error status, helps chaining operations
}

// New initializes a new factory with varnum variables. The default
// configuration uses the BDD reduction rule and a node store based on the
// runtime hashmap; both can be changed with the options ZDD and BuddyStore.
// Other options control the initial size of the node table and of the operator
// caches, see Nodesize, Maxnodesize, Maxnodeincrease, Minfreenodes, Cachesize
// and Cacheratio.
func New(varnum int, options ...func(*configs)) (*BDD, error) {
	c := makeconfigs(varnum)
	for _, f := range options {
		f(c)
	}
	b := &BDD{}
	b.zdd = c.zdd
	if (varnum < 1) || (int32(varnum) > _MAXVAR) {
		b.seterror(ErrArgument, "bad number of variables (%d)", varnum)
		return nil, b.error
	}
	b.varnum = int32(varnum)
	b.varset = make([][2]int, varnum)
	b.var2level = make([]int32, varnum)
	b.level2var = make([]int32, varnum)
	for k := range b.var2level {
		b.var2level[k] = int32(k)
		b.level2var[k] = int32(k)
	}
	b.refstack = make([]int, 0, 2*varnum+4)
	b.initref()
	nodesize := c.nodesize
	if nodesize < 2*varnum+2 {
		nodesize = 2*varnum + 2
	}
	switch c.backend {
	case storeBuddy:
		b.store = makebuddystore(nodesize, b.varnum, c)
	default:
		b.store = makehashstore(nodesize, b.varnum, c)
	}
	b.cachesize = c.cachesize
	b.cacheratio = c.cacheratio
	b.cacheinit(c.cachesize, c.cacheratio)
	if err := b.allocvars(0, varnum); err != nil {
		return nil, err
	}
	return b, nil
}

// allocvars builds and pins the nodes for the literals of variables in the
// range [from, to). In ZDD mode the node for a negated literal would be erased
// by the reduction rule, so only positive literals are built.
func (b *BDD) allocvars(from, to int) error {
	for k := int32(from); k < int32(to); k++ {
		v0 := b.makenode(k, 0, 1)
		if v0 < 0 {
			b.seterror(ErrMemory, "cannot allocate variable %d", k)
			return b.error
		}
		b.pushref(v0)
		b.store.pin(v0)
		if b.zdd {
			b.varset[k] = [2]int{v0, -1}
			b.popref(1)
			continue
		}
		v1 := b.makenode(k, 1, 0)
		b.popref(1)
		if v1 < 0 {
			b.seterror(ErrMemory, "cannot allocate variable %d", k)
			return b.error
		}
		b.store.pin(v1)
		b.varset[k] = [2]int{v0, v1}
	}
	return nil
}

// makenode applies the reduction rule for the current mode and defers to the
// store for hash-consing. The store reports garbage collections with the
// errReset and errResize sentinels so that we can invalidate the operator
// caches, whose entries may refer to swept nodes.
func (b *BDD) makenode(level int32, low, high int) int {
	if b.zdd {
		if high == 0 {
			return low
		}
	} else if low == high {
		return low
	}
	res, err := b.store.makenode(level, low, high, b.refstack)
	switch err {
	case nil:
	case errReset:
		b.cachereset()
	case errResize:
		b.cacheresize()
	default:
		b.seterror(ErrMemory, "cannot allocate node (%d, %d, %d)", level, low, high)
		return -1
	}
	return res
}

// retnode returns a fresh handle over node n, accounting for one external
// reference. Terminals and variables are pinned and ignore reference counts.
func (b *BDD) retnode(n int) *Node {
	if n < 0 {
		return nil
	}
	b.store.incref(n)
	return &Node{bdd: b, id: n}
}

// checknode controls that n is a usable handle of this factory.
func (b *BDD) checknode(n *Node, op string) error {
	if n == nil {
		return b.seterror(ErrArgument, "nil node in call to %s", op)
	}
	if n.bdd != b {
		return b.seterror(ErrMismatch, "foreign node in call to %s", op)
	}
	if n.id < 0 {
		return b.seterror(ErrFreed, "freed node in call to %s", op)
	}
	if n.id >= b.store.size() || !b.store.valid(n.id) {
		return b.seterror(ErrArgument, "invalid node (%d) in call to %s", n.id, op)
	}
	return nil
}

// shorthands over the store, used by the recursive operations.

func (b *BDD) level(n int) int32 { return b.store.level(n) }
func (b *BDD) low(n int) int     { return b.store.low(n) }
func (b *BDD) high(n int) int    { return b.store.high(n) }

// Varnum returns the number of defined variables.
func (b *BDD) Varnum() int {
	return int(b.varnum)
}

// IsZDD reports whether the factory uses the zero-suppressed reduction rule.
func (b *BDD) IsZDD() bool {
	return b.zdd
}

// Level returns the current level of variable v, and -1 if v is out of range.
func (b *BDD) Level(v int) int {
	if v < 0 || int32(v) >= b.varnum {
		return -1
	}
	return int(b.var2level[v])
}

// VarAtLevel returns the variable sitting at the given level, and -1 if the
// level is out of range.
func (b *BDD) VarAtLevel(level int) int {
	if level < 0 || int32(level) >= b.varnum {
		return -1
	}
	return int(b.level2var[level])
}

// True returns the constant true node. In ZDD mode this is the family that
// only contains the empty set, which is distinct from the universe.
func (b *BDD) True() *Node {
	return b.retnode(1)
}

// False returns the constant false node.
func (b *BDD) False() *Node {
	return b.retnode(0)
}

// From returns a constant node from a boolean value.
func (b *BDD) From(v bool) *Node {
	if v {
		return b.retnode(1)
	}
	return b.retnode(0)
}

// Ithvar returns a node representing the i'th variable on success, otherwise
// we set the error status in the factory and return nil. The requested
// variable must be in the range [0..Varnum). In ZDD mode the result is the
// family whose only member is the singleton {i}.
func (b *BDD) Ithvar(i int) *Node {
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.errnode(ErrArgument, "unknown variable used (%d) in call to Ithvar", i)
	}
	return b.retnode(b.varset[i][0])
}

// NIthvar returns a node representing the negation of the i'th variable on
// success. See Ithvar for further info. The operation is not available in ZDD
// mode, where the zero-suppressed reduction rule erases the node.
func (b *BDD) NIthvar(i int) *Node {
	if (i < 0) || (int32(i) >= b.varnum) {
		return b.errnode(ErrArgument, "unknown variable used (%d) in call to NIthvar", i)
	}
	if b.zdd {
		return b.errnode(ErrMode, "NIthvar is not available in ZDD mode")
	}
	return b.retnode(b.varset[i][1])
}

// universeid returns the id of the node representing the universe: the
// constant true in BDD mode, and the family of all subsets of the variables in
// ZDD mode.
func (b *BDD) universeid() int {
	if !b.zdd {
		return 1
	}
	res := 1
	for k := b.varnum - 1; k >= 0; k-- {
		b.pushref(res)
		res = b.makenode(k, res, res)
		b.popref(1)
		if res < 0 {
			return -1
		}
	}
	return res
}

// Universe returns the node satisfied by every assignment. In BDD mode this is
// the constant true; in ZDD mode it is the family of all 2^Varnum subsets,
// which is a chain of Varnum nodes.
func (b *BDD) Universe() *Node {
	b.initref()
	return b.retnode(b.universeid())
}

// Live returns the number of active nodes in the store, including the two
// constants and the pinned variable nodes.
func (b *BDD) Live() int {
	return b.store.live()
}

// GC explicitly starts a garbage collection of unused nodes. The operator
// caches are cleared, since their entries may refer to swept nodes.
func (b *BDD) GC() {
	b.store.gc(b.refstack)
	b.cachereset()
}

// Stats returns information about the factory: mode, number of variables, and
// node store usage.
func (b *BDD) Stats() string {
	mode := "bdd"
	if b.zdd {
		mode = "zdd"
	}
	res := "Mode:       " + mode + "\n"
	res += "Varnum:     " + strconv.Itoa(int(b.varnum)) + "\n"
	return res + b.store.stats()
}
