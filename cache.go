// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"fmt"
	"math"
)

// ************************************************************
// cache is used for caching apply/exist etc. results
type cache struct {
	cacheratio int // value used to resize the caches as a factor of the number of nodes
	table      []cacheData
}

// cacheStat stores status information about cache usage
type cacheStat struct {
	opHit  int // entries found in the operator caches
	opMiss int // entries not found in the operator caches
}

// cacheData is a unit of information stored in the operator caches
type cacheData struct {
	res int
	a   int
	b   int
	c   int
}

// ************************************************************

// Different kind of caches used in the factory

type applycache struct {
	cache          // Cache for apply results
	op    Operator // Current operation during an apply
}

type itecache struct {
	cache // Cache for ITE results
}

type quantcache struct {
	cache     // Cache for exist/forall/unique results
	id    int // Current cache id for quantifications
}

// appexcache are a mix of quant and apply caches
type appexcache struct {
	cache          // Cache for appex/appall/appuni results
	id    int      // Current cache id for quantifications
	op    Operator // Current operator for appex
}

type replacecache struct {
	cache     // Cache for replace/compose/veccompose results
	id    int // Current cache id for replace
}

type misccache struct {
	cache     // Cache for constrain/restrict/simplify results
	id    int // Current cache id for misc computations
}

// ************************************************************

// Hash value modifiers to distinguish between entries in misccache
const cacheid_CONSTRAIN int = 0x0
const cacheid_RESTRICT int = 0x1
const cacheid_SIMPLIFY int = 0x2

// Hash value modifiers for replace/compose
const cacheid_REPLACE int = 0x0
const cacheid_COMPOSE int = 0x1
const cacheid_VECCOMPOSE int = 0x2

// Hash value modifiers for quantification
const cacheid_EXIST int = 0x0
const cacheid_FORALL int = 0x1
const cacheid_UNIQUE int = 0x2
const cacheid_APPEX int = 0x3
const cacheid_APPAL int = 0x4
const cacheid_APPUN int = 0x5

// ************************************************************

// Basic functions shared by all caches

func (bc *cache) cacheinit(size int) {
	// we never check if the creation of the slice panic because of lack of memory
	size = primeGte(size)
	bc.table = make([]cacheData, size)
	bc.cachereset()
}

func (bc *cache) cacheresize(nodesize int) {
	// OPTIM: reuse the existing slice and append to it, or take a subslice if
	// we shrink the cache; not sure if it is possible
	if bc.cacheratio > 0 {
		bc.cacheinit(nodesize / bc.cacheratio)
		return
	}
	bc.cachereset()
}

func (bc *cache) cachereset() {
	for k := range bc.table {
		bc.table[k].a = -1
	}
}

// *************************************************************************
// Setup and shutdown

func (b *BDD) cacheinit(cachesize int, cacheratio int) {
	b.quantset = make([]int32, b.varnum)
	if cachesize <= 0 {
		cachesize = b.store.size()/5 + 1
	}
	cachesize = primeGte(cachesize)
	b.applycache = &applycache{}
	b.applycache.cacheratio = cacheratio
	b.applycache.cacheinit(cachesize)
	b.itecache = &itecache{}
	b.itecache.cacheratio = cacheratio
	b.itecache.cacheinit(cachesize)
	b.quantcache = &quantcache{}
	b.quantcache.cacheratio = cacheratio
	b.quantcache.cacheinit(cachesize)
	b.appexcache = &appexcache{}
	b.appexcache.cacheratio = cacheratio
	b.appexcache.cacheinit(cachesize)
	b.replacecache = &replacecache{}
	b.replacecache.cacheratio = cacheratio
	b.replacecache.cacheinit(cachesize)
	b.misccache = &misccache{}
	b.misccache.cacheratio = cacheratio
	b.misccache.cacheinit(cachesize)
}

func (b *BDD) cachereset() {
	b.applycache.cachereset()
	b.itecache.cachereset()
	b.quantcache.cachereset()
	b.appexcache.cachereset()
	b.replacecache.cachereset()
	b.misccache.cachereset()
}

func (b *BDD) cacheresize() {
	size := b.store.size()
	b.applycache.cacheresize(size)
	b.itecache.cacheresize(size)
	b.quantcache.cacheresize(size)
	b.appexcache.cacheresize(size)
	b.replacecache.cacheresize(size)
	b.misccache.cacheresize(size)
}

// *************************************************************************

// SetCacheratio sets the cache ratio for the operator caches.
//
// The ratio between the number of nodes in the node table and the number of
// entries in the operator caches is called the cache ratio. So a cache ratio
// of say, four, allocates one cache entry for each four unique node entries.
// This value can be set to any positive value. When this is done the caches
// are resized instantly to fit the new ratio. The default is a fixed cache
// size determined at initialization time.
func (b *BDD) SetCacheratio(r int) error {
	if r <= 0 {
		return b.seterror(ErrArgument, "negative ratio (%d) in call to SetCacheratio", r)
	}
	b.cacheratio = r
	b.applycache.cacheratio = r
	b.itecache.cacheratio = r
	b.quantcache.cacheratio = r
	b.appexcache.cacheratio = r
	b.replacecache.cacheratio = r
	b.misccache.cacheratio = r
	b.cacheresize()
	return nil
}

// ************************************************************
//
// Quantification Cache
//

// quantset2cache takes a variable list, similar to the ones generated with
// Makeset, and set the variables in the quantification cache.
func (b *BDD) quantset2cache(n int) error {
	if n < 2 {
		return b.seterror(ErrArgument, "illegal variable (%d) in varset to cache", n)
	}
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	for i := n; i > 1; i = b.high(i) {
		b.quantset[b.level(i)] = b.quantsetID
		b.quantlast = b.level(i)
	}
	return nil
}

// cube2quantset is the variant of quantset2cache used by Restrict: the cube
// can mix positive and negative literals, and we record the polarity with the
// sign of the entry.
func (b *BDD) cube2quantset(n int) error {
	if n < 2 {
		return b.seterror(ErrArgument, "illegal cube (%d) in call to Restrict", n)
	}
	b.quantsetID++
	if b.quantsetID == math.MaxInt32 {
		b.quantset = make([]int32, b.varnum)
		b.quantsetID = 1
	}
	b.quantlast = 0
	for i := n; i > 1; {
		switch {
		case b.low(i) == 0:
			b.quantset[b.level(i)] = b.quantsetID
			b.quantlast = b.level(i)
			i = b.high(i)
		case b.high(i) == 0:
			b.quantset[b.level(i)] = -b.quantsetID
			b.quantlast = b.level(i)
			i = b.low(i)
		default:
			return b.seterror(ErrArgument, "operand is not a cube in call to Restrict")
		}
	}
	return nil
}

// ************************************************************

// Prints information about the cache performance. Hit and miss count is given
// for the operator caches.

func (c cacheStat) String() string {
	res := fmt.Sprintf("Operator Hits:  %d\n", c.opHit)
	res += fmt.Sprintf("Operator Miss:  %d", c.opMiss)
	return res
}
