// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

// Hash functions

func _TRIPLE(a, b, c, len int) int {
	return int(_PAIR64(uint64(c), _PAIR(a, b, len), uint64(len)))
}

// _PAIR is the Cantor pairing function, which maps (bijectively) a pair of
// integer (a, b) into a unique integer, reduced modulo len. Because of the
// reduction, distinct pairs can collide.
func _PAIR(a, b, len int) uint64 {
	return (((uint64(a+b) * uint64(a+b+1)) / 2) + uint64(a)) % uint64(len)
}

func _PAIR64(a, b, len uint64) uint64 {
	return (((((a + b) % len) * ((a + b + 1) % len)) / 2) + a) % len
}

// ************************************************************

// The hash function for operation Not(n) is simply n.

func (b *BDD) matchnot(n int) int {
	entry := b.applycache.table[n%len(b.applycache.table)]
	if entry.a == n && entry.c == int(op_not) {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setnot(n int, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to Not")
		return -1
	}
	b.applycache.table[n%len(b.applycache.table)] = cacheData{
		a:   n,
		c:   int(op_not),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for Apply is #(left, right, applycache.op).

func (b *BDD) matchapply(left, right int) int {
	entry := b.applycache.table[_TRIPLE(left, right, int(b.applycache.op), len(b.applycache.table))]
	if entry.a == left && entry.b == right && entry.c == int(b.applycache.op) {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setapply(left, right, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to Apply(%d,%d,%s)", left, right, b.applycache.op)
		return -1
	}
	b.applycache.table[_TRIPLE(left, right, int(b.applycache.op), len(b.applycache.table))] = cacheData{
		a:   left,
		b:   right,
		c:   int(b.applycache.op),
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for ITE is #(f,g,h).

func (b *BDD) matchite(f, g, h int) int {
	entry := b.itecache.table[_TRIPLE(f, g, h, len(b.itecache.table))]
	if entry.a == f && entry.b == g && entry.c == h {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setite(f, g, h, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to Ite")
		return -1
	}
	b.itecache.table[_TRIPLE(f, g, h, len(b.itecache.table))] = cacheData{
		a:   f,
		b:   g,
		c:   h,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for quantification is simply n. The varset and the kind of
// quantifier are folded in quantcache.id.

func (b *BDD) matchquant(n int) int {
	entry := b.quantcache.table[n%len(b.quantcache.table)]
	if entry.a == n && entry.c == b.quantcache.id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setquant(n int, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to quantification")
		return -1
	}
	b.quantcache.table[n%len(b.quantcache.table)] = cacheData{
		a:   n,
		c:   b.quantcache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for AppEx is #(left, right)

func (b *BDD) matchappex(left, right int) int {
	entry := b.appexcache.table[int(_PAIR(left, right, len(b.appexcache.table)))]
	if entry.a == left && entry.b == right && entry.c == b.appexcache.id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setappex(left, right, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to ApplyEx")
		return -1
	}
	b.appexcache.table[int(_PAIR(left, right, len(b.appexcache.table)))] = cacheData{
		a:   left,
		b:   right,
		c:   b.appexcache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for operation Replace(n) and VecCompose(n) is simply n.
// The pairing generation is folded in replacecache.id.

func (b *BDD) matchreplace(n int) int {
	entry := b.replacecache.table[n%len(b.replacecache.table)]
	if entry.a == n && entry.c == b.replacecache.id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setreplace(n int, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to Replace")
		return -1
	}
	b.replacecache.table[n%len(b.replacecache.table)] = cacheData{
		a:   n,
		c:   b.replacecache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for Compose is #(f, g, replacecache.id), where the id
// folds the level being substituted.

func (b *BDD) matchcompose(f, g int) int {
	entry := b.replacecache.table[_TRIPLE(f, g, b.replacecache.id, len(b.replacecache.table))]
	if entry.a == f && entry.b == g && entry.c == b.replacecache.id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setcompose(f, g, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in call to Compose")
		return -1
	}
	b.replacecache.table[_TRIPLE(f, g, b.replacecache.id, len(b.replacecache.table))] = cacheData{
		a:   f,
		b:   g,
		c:   b.replacecache.id,
		res: res,
	}
	return res
}

// ************************************************************

// The hash function for the misc cache (Constrain, Restrict, Simplify) is
// #(f, g, misccache.id).

func (b *BDD) matchmisc(f, g int) int {
	entry := b.misccache.table[_TRIPLE(f, g, b.misccache.id, len(b.misccache.table))]
	if entry.a == f && entry.b == g && entry.c == b.misccache.id {
		if _DEBUG {
			b.opHit++
		}
		return entry.res
	}
	if _DEBUG {
		b.opMiss++
	}
	return -1
}

func (b *BDD) setmisc(f, g, res int) int {
	if res < 0 {
		b.seterror(ErrMemory, "problem in cofactor operation")
		return -1
	}
	b.misccache.table[_TRIPLE(f, g, b.misccache.id, len(b.misccache.table))] = cacheData{
		a:   f,
		b:   g,
		c:   b.misccache.id,
		res: res,
	}
	return res
}
