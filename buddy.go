// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"fmt"
	"log"
	"math"
	"unsafe"
)

// buddystore implements the node store using the data structures found in the
// BuDDy library: a flat array of nodes doubling as a chained hash table for
// hash-consing. Allocated nodes that are not reclaimed do not move.
type buddystore struct {
	nodes           []buddynode // List of all the nodes. Constants are always kept at index 0 and 1
	freenum         int         // Number of free nodes
	freepos         int         // First free node
	produced        int         // Total number of new nodes ever produced
	maxnodesize     int         // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int         // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int         // Minimum number of nodes that should be left after GC before triggering a resize
	uniqueAccess    int         // accesses to the unique node table
	uniqueChain     int         // iterations through the hash chains in the unique node table
	uniqueHit       int         // entries actually found in the the unique node table
	uniqueMiss      int         // entries not found in the the unique node table
	gcstat                      // Information about garbage collections
}

type buddynode struct {
	refcou int32 // Count the number of external references
	level  int32 // Order of the variable in the diagram
	low    int   // Reference to the false branch
	high   int   // Reference to the true branch
	hash   int   // Index where to (possibly) find node with this hash value
	next   int   // Next index to check in case of a collision, 0 if last
}

// we use the first 21 bits of the level field for the level and one of the
// remaining bits for marking nodes during traversals.

func (b *buddystore) ismarked(n int) bool {
	return (b.nodes[n].level & 0x200000) != 0
}

func (b *buddystore) marknode(n int) {
	b.nodes[n].level = b.nodes[n].level | 0x200000
}

func (b *buddystore) unmarknode(n int) {
	b.nodes[n].level = b.nodes[n].level & 0x1FFFFF
}

func makebuddystore(nodesize int, varnum int32, c *configs) *buddystore {
	b := &buddystore{}
	nodesize = primeGte(nodesize)
	b.minfreenodes = c.minfreenodes
	b.maxnodesize = c.maxnodesize
	b.maxnodeincrease = c.maxnodeincrease
	// initializing the list of nodes
	b.nodes = make([]buddynode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = buddynode{
			refcou: 0,
			level:  0,
			low:    -1,
			high:   0,
			hash:   0,
			next:   k + 1,
		}
	}
	b.nodes[nodesize-1].next = 0
	b.nodes[0].refcou = _MAXREFCOUNT
	b.nodes[1].refcou = _MAXREFCOUNT
	b.nodes[0].low = 0
	b.nodes[0].high = 0
	b.nodes[1].low = 1
	b.nodes[1].high = 1
	b.nodes[0].level = varnum
	b.nodes[1].level = varnum
	b.freepos = 2
	b.freenum = nodesize - 2
	b.gcstat.history = []gcpoint{}
	return b
}

// The hash function for nodes is #(level, low, high)

func (b *buddystore) ptrhash(n int) int {
	return _TRIPLE(int(b.nodes[n].level&0x1FFFFF), b.nodes[n].low, b.nodes[n].high, len(b.nodes))
}

func (b *buddystore) nodehash(level int32, low, high int) int {
	return _TRIPLE(int(level), low, high, len(b.nodes))
}

func (b *buddystore) makenode(level int32, low, high int, refstack []int) (int, error) {
	if _DEBUG {
		b.uniqueAccess++
	}
	// try to find an existing node using the hash and next fields
	hash := b.nodehash(level, low, high)
	res := b.nodes[hash].hash
	for res != 0 {
		if b.nodes[res].level == level && b.nodes[res].low == low && b.nodes[res].high == high {
			if _DEBUG {
				b.uniqueHit++
			}
			return res, nil
		}
		res = b.nodes[res].next
		if _DEBUG {
			b.uniqueChain++
		}
	}
	if _DEBUG {
		b.uniqueMiss++
	}
	// If no existing node, we build one. If there is no available spot
	// (b.freepos == 0), we try garbage collection and, as a last resort,
	// resizing the node list.
	var err error
	if b.freepos == 0 {
		// We garbage collect unused nodes to try and find spare space.
		b.gc(refstack)
		err = errReset
		// We also test if we are under the threshold for resizing.
		if (b.freenum*100)/len(b.nodes) <= b.minfreenodes {
			rerr := b.noderesize()
			if rerr != errResize {
				return -1, errMemory
			}
			err = errResize
		}
		// The hash position may have changed after a GC or a resize.
		hash = b.nodehash(level, low, high)
		// Report a memory error if we still have no free positions.
		if b.freepos == 0 {
			return -1, errMemory
		}
	}
	// We can now build the new node in the first available spot
	res = b.freepos
	b.freepos = b.nodes[b.freepos].next
	b.freenum--
	b.produced++
	b.nodes[res].level = level
	b.nodes[res].low = low
	b.nodes[res].high = high
	b.nodes[res].next = b.nodes[hash].hash
	b.nodes[hash].hash = res
	return res, err
}

func (b *buddystore) noderesize() error {
	if _LOGLEVEL > 0 {
		log.Printf("start resize: %d\n", len(b.nodes))
	}
	oldsize := len(b.nodes)
	nodesize := len(b.nodes)
	if (oldsize >= b.maxnodesize) && (b.maxnodesize > 0) {
		return errMemory
	}
	if oldsize > (math.MaxInt32 >> 1) {
		nodesize = math.MaxInt32 - 1
	} else {
		nodesize = nodesize << 1
	}
	if b.maxnodeincrease > 0 && nodesize > (oldsize+b.maxnodeincrease) {
		nodesize = oldsize + b.maxnodeincrease
	}
	if (nodesize > b.maxnodesize) && (b.maxnodesize > 0) {
		nodesize = b.maxnodesize
	}
	nodesize = primeLte(nodesize)
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := b.nodes
	b.nodes = make([]buddynode, nodesize)
	copy(b.nodes, tmp)

	// We recompute all the hash chains since the table size changed. Unused
	// slots are linked in the free list, starting from the highest positions.
	for n := 0; n < nodesize; n++ {
		b.nodes[n].hash = 0
	}
	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].refcou = 0
		b.nodes[n].level = 0
		b.nodes[n].low = -1
	}
	b.freepos = 0
	b.freenum = 0
	for n := nodesize - 1; n > 1; n-- {
		if b.nodes[n].low != -1 {
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}

	if _LOGLEVEL > 0 {
		log.Printf("end resize: %d\n", len(b.nodes))
	}
	return errResize
}

// gc is the garbage collector called for reclaiming memory, inside a call to
// makenode, when there are no free positions available. Allocated nodes that
// are not reclaimed do not move.
func (b *buddystore) gc(refstack []int) {
	if _LOGLEVEL > 0 {
		log.Println("starting GC")
	}
	// we append the current stats to the GC history
	b.gcstat.history = append(b.gcstat.history, gcpoint{
		nodes:     len(b.nodes),
		freenodes: b.freenum,
	})
	// we mark the nodes in the refstack to avoid collecting them
	for _, r := range refstack {
		b.markrec(r)
	}
	// we also protect nodes with a positive refcount (and therefore also the
	// ones with a MAXREFCOUNT, such as variables)
	for k := range b.nodes {
		if b.nodes[k].refcou > 0 {
			b.markrec(k)
		}
		b.nodes[k].hash = 0
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to update the hash chains and void
	// the unmarked nodes. After finishing this pass, b.freepos points to the
	// first free position in b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].low != -1) {
			b.unmarknode(n)
			hash := b.ptrhash(n)
			b.nodes[n].next = b.nodes[hash].hash
			b.nodes[hash].hash = n
		} else {
			b.nodes[n].low = -1
			b.nodes[n].next = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	if _LOGLEVEL > 0 {
		log.Printf("end GC; freenum: %d\n", b.freenum)
	}
}

func (b *buddystore) markrec(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

func (b *buddystore) unmarkall() {
	for k, v := range b.nodes {
		if k < 2 || !b.ismarked(k) || (v.low == -1) {
			continue
		}
		b.unmarknode(k)
	}
}

func (b *buddystore) size() int {
	return len(b.nodes)
}

func (b *buddystore) live() int {
	return len(b.nodes) - b.freenum
}

func (b *buddystore) level(n int) int32 {
	return b.nodes[n].level & 0x1FFFFF
}

func (b *buddystore) low(n int) int {
	return b.nodes[n].low
}

func (b *buddystore) high(n int) int {
	return b.nodes[n].high
}

func (b *buddystore) valid(n int) bool {
	return n >= 0 && n < len(b.nodes) && b.nodes[n].low != -1
}

func (b *buddystore) incref(n int) {
	if b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
	}
}

func (b *buddystore) decref(n int) {
	if b.nodes[n].refcou > 0 && b.nodes[n].refcou < _MAXREFCOUNT {
		b.nodes[n].refcou--
	}
}

func (b *buddystore) refcount(n int) int32 {
	return b.nodes[n].refcou
}

func (b *buddystore) pin(n int) {
	b.nodes[n].refcou = _MAXREFCOUNT
}

func (b *buddystore) setlevel(n int, level int32) {
	b.nodes[n].level = level
}

func (b *buddystore) allnodesfrom(f func(id, level, low, high int) error, roots []int) error {
	for _, v := range roots {
		b.markrec(v)
	}
	if err := f(0, int(b.level(0)), 0, 0); err != nil {
		b.unmarkall()
		return err
	}
	if err := f(1, int(b.level(1)), 1, 1); err != nil {
		b.unmarkall()
		return err
	}
	for k := range b.nodes {
		if k > 1 && b.ismarked(k) {
			b.unmarknode(k)
			if err := f(k, int(b.level(k)), b.nodes[k].low, b.nodes[k].high); err != nil {
				b.unmarkall()
				return err
			}
		}
	}
	return nil
}

func (b *buddystore) allnodes(f func(id, level, low, high int) error) error {
	if err := f(0, int(b.level(0)), 0, 0); err != nil {
		return err
	}
	if err := f(1, int(b.level(1)), 1, 1); err != nil {
		return err
	}
	for k, v := range b.nodes {
		if k > 1 && v.low != -1 {
			if err := f(k, int(b.level(k)), v.low, v.high); err != nil {
				return err
			}
		}
	}
	return nil
}

// stats returns information about the implementation
func (b *buddystore) stats() string {
	res := fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(b.nodes)-b.freenum, (100.0 - r))
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(b.nodes), unsafe.Sizeof(buddynode{})))
	res += fmt.Sprintf("# of GC:    %d\n", len(b.gcstat.history))
	if _DEBUG {
		res += fmt.Sprintf("Unique Access:  %d\n", b.uniqueAccess)
		res += fmt.Sprintf("Unique Chain:   %d\n", b.uniqueChain)
		res += fmt.Sprintf("Unique Hit:     %d\n", b.uniqueHit)
		res += fmt.Sprintf("Unique Miss:    %d\n", b.uniqueMiss)
	}
	return res
}
