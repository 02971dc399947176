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

// number of bytes used to serialize a triplet (level, low, high), adapted from
// uintSize in the math/bits package.
const hkeysize = (2*(32<<(^uint(0)>>32&1)) + 32) / 8 // 12 (32 bits) or 20 (64 bits)

// hashstore implements the node store using the runtime hashmap. We hash a
// triplet (level, low, high) to a fixed-size byte array and use the unique
// table to associate an entry in the nodes table. We use more space than with
// the chained-hash store but the code is simpler and it is the safer default.
type hashstore struct {
	nodes           []hashnode             // List of all the nodes. Constants are always kept at index 0 and 1
	unique          map[[hkeysize]byte]int // Unicity table, used to associate each triplet to a single node
	freenum         int                    // Number of free nodes
	freepos         int                    // First free node
	produced        int                    // Total number of new nodes ever produced
	hbuff           [hkeysize]byte         // Used to compute the hash of nodes
	maxnodesize     int                    // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int                    // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int                    // Minimum number of nodes that should be left after GC before triggering a resize
	uniqueAccess    int                    // accesses to the unique node table
	uniqueHit       int                    // entries actually found in the the unique node table
	uniqueMiss      int                    // entries not found in the the unique node table
	gcstat                                 // Information about garbage collections
}

type hashnode struct {
	level  int32 // Order of the variable in the diagram
	low    int   // Reference to the false branch
	high   int   // Reference to the true branch
	refcou int32 // Count the number of external references
}

func (b *hashstore) ismarked(n int) bool {
	return (b.nodes[n].refcou & 0x200000) != 0
}

func (b *hashstore) marknode(n int) {
	b.nodes[n].refcou |= 0x200000
}

func (b *hashstore) unmarknode(n int) {
	b.nodes[n].refcou &= 0x1FFFFF
}

// makehashstore initializes a store with the given initial size. The two
// constants are created at position 0 and 1 with their level set to varnum.
func makehashstore(nodesize int, varnum int32, c *configs) *hashstore {
	b := &hashstore{}
	b.minfreenodes = c.minfreenodes
	b.maxnodesize = c.maxnodesize
	b.maxnodeincrease = c.maxnodeincrease
	// initializing the list of nodes; when a slot is unused we have low set to
	// -1 and high set to the next free position
	b.nodes = make([]hashnode, nodesize)
	for k := range b.nodes {
		b.nodes[k] = hashnode{
			level:  0,
			low:    -1,
			high:   k + 1,
			refcou: 0,
		}
	}
	b.nodes[nodesize-1].high = 0
	b.unique = make(map[[hkeysize]byte]int, nodesize)
	// creating the two constants. We do not add them to the unique table.
	b.nodes[0] = hashnode{
		level:  varnum,
		low:    0,
		high:   0,
		refcou: _MAXREFCOUNT,
	}
	b.nodes[1] = hashnode{
		level:  varnum,
		low:    1,
		high:   1,
		refcou: _MAXREFCOUNT,
	}
	b.freepos = 2
	b.freenum = nodesize - 2
	b.gcstat.history = []gcpoint{}
	return b
}

func (b *hashstore) hash(level int32, low, high int) {
	b.hbuff[0] = byte(level)
	b.hbuff[1] = byte(level >> 8)
	b.hbuff[2] = byte(level >> 16)
	b.hbuff[3] = byte(level >> 24)
	b.hbuff[4] = byte(low)
	b.hbuff[5] = byte(low >> 8)
	b.hbuff[6] = byte(low >> 16)
	b.hbuff[7] = byte(low >> 24)
	if hkeysize == 20 {
		// 64 bits machine
		b.hbuff[8] = byte(low >> 32)
		b.hbuff[9] = byte(low >> 40)
		b.hbuff[10] = byte(low >> 48)
		b.hbuff[11] = byte(low >> 56)
		b.hbuff[12] = byte(high)
		b.hbuff[13] = byte(high >> 8)
		b.hbuff[14] = byte(high >> 16)
		b.hbuff[15] = byte(high >> 24)
		b.hbuff[16] = byte(high >> 32)
		b.hbuff[17] = byte(high >> 40)
		b.hbuff[18] = byte(high >> 48)
		b.hbuff[19] = byte(high >> 56)
		return
	}
	// 32 bits machine
	b.hbuff[8] = byte(high)
	b.hbuff[9] = byte(high >> 8)
	b.hbuff[10] = byte(high >> 16)
	b.hbuff[11] = byte(high >> 24)
}

func (b *hashstore) nodehash(level int32, low, high int) (int, bool) {
	b.hash(level, low, high)
	hn, ok := b.unique[b.hbuff]
	return hn, ok
}

func (b *hashstore) setnode(level int32, low int, high int) int {
	b.hash(level, low, high)
	b.freenum--
	b.unique[b.hbuff] = b.freepos
	res := b.freepos
	b.freepos = b.nodes[b.freepos].high
	b.nodes[res] = hashnode{level, low, high, 0}
	return res
}

func (b *hashstore) delnode(hn hashnode) {
	b.hash(hn.level, hn.low, hn.high)
	delete(b.unique, b.hbuff)
}

func (b *hashstore) makenode(level int32, low int, high int, refstack []int) (int, error) {
	if _DEBUG {
		b.uniqueAccess++
	}
	// try to find an existing node using the unique table
	if res, ok := b.nodehash(level, low, high); ok {
		if _DEBUG {
			b.uniqueHit++
		}
		return res, nil
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
		// Report a memory error if we still have no free positions.
		if b.freepos == 0 {
			return -1, errMemory
		}
	}
	b.produced++
	return b.setnode(level, low, high), err
}

func (b *hashstore) gc(refstack []int) {
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
	}
	b.freepos = 0
	b.freenum = 0
	// we do a pass through the nodes list to void the unmarked nodes. After
	// finishing this pass, b.freepos points to the first free position in
	// b.nodes, or it is 0 if we found none.
	for n := len(b.nodes) - 1; n > 1; n-- {
		if b.ismarked(n) && (b.nodes[n].low != -1) {
			b.unmarknode(n)
		} else {
			if b.nodes[n].low != -1 {
				b.delnode(b.nodes[n])
			}
			b.nodes[n].low = -1
			b.nodes[n].high = b.freepos
			b.freepos = n
			b.freenum++
		}
	}
	if _LOGLEVEL > 0 {
		log.Printf("end GC; freenum: %d\n", b.freenum)
	}
}

func (b *hashstore) noderesize() error {
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
	if nodesize <= oldsize {
		return errMemory
	}

	tmp := b.nodes
	b.nodes = make([]hashnode, nodesize)
	copy(b.nodes, tmp)

	for n := oldsize; n < nodesize; n++ {
		b.nodes[n].refcou = 0
		b.nodes[n].level = 0
		b.nodes[n].low = -1
		b.nodes[n].high = n + 1
	}
	b.nodes[nodesize-1].high = b.freepos
	b.freepos = oldsize
	b.freenum += (nodesize - oldsize)

	if _LOGLEVEL > 0 {
		log.Printf("end resize: %d\n", len(b.nodes))
	}
	return errResize
}

func (b *hashstore) markrec(n int) {
	if n < 2 || b.ismarked(n) || (b.nodes[n].low == -1) {
		return
	}
	b.marknode(n)
	b.markrec(b.nodes[n].low)
	b.markrec(b.nodes[n].high)
}

func (b *hashstore) unmarkall() {
	for k, v := range b.nodes {
		if k < 2 || !b.ismarked(k) || (v.low == -1) {
			continue
		}
		b.unmarknode(k)
	}
}

func (b *hashstore) size() int {
	return len(b.nodes)
}

func (b *hashstore) live() int {
	return len(b.nodes) - b.freenum
}

func (b *hashstore) level(n int) int32 {
	return b.nodes[n].level
}

func (b *hashstore) low(n int) int {
	return b.nodes[n].low
}

func (b *hashstore) high(n int) int {
	return b.nodes[n].high
}

func (b *hashstore) valid(n int) bool {
	return n >= 0 && n < len(b.nodes) && b.nodes[n].low != -1
}

func (b *hashstore) incref(n int) {
	refcou := b.nodes[n].refcou & 0x1FFFFF
	if refcou < _MAXREFCOUNT {
		b.nodes[n].refcou++
	}
}

func (b *hashstore) decref(n int) {
	refcou := b.nodes[n].refcou & 0x1FFFFF
	if refcou > 0 && refcou < _MAXREFCOUNT {
		b.nodes[n].refcou--
	}
}

func (b *hashstore) refcount(n int) int32 {
	return b.nodes[n].refcou & 0x1FFFFF
}

func (b *hashstore) pin(n int) {
	b.nodes[n].refcou = _MAXREFCOUNT
}

func (b *hashstore) setlevel(n int, level int32) {
	b.nodes[n].level = level
}

func (b *hashstore) allnodesfrom(f func(id, level, low, high int) error, roots []int) error {
	for _, v := range roots {
		b.markrec(v)
	}
	if err := f(0, int(b.nodes[0].level), 0, 0); err != nil {
		b.unmarkall()
		return err
	}
	if err := f(1, int(b.nodes[1].level), 1, 1); err != nil {
		b.unmarkall()
		return err
	}
	for k := range b.nodes {
		if k > 1 && b.ismarked(k) {
			b.unmarknode(k)
			if err := f(k, int(b.nodes[k].level), b.nodes[k].low, b.nodes[k].high); err != nil {
				b.unmarkall()
				return err
			}
		}
	}
	return nil
}

func (b *hashstore) allnodes(f func(id, level, low, high int) error) error {
	if err := f(0, int(b.nodes[0].level), 0, 0); err != nil {
		return err
	}
	if err := f(1, int(b.nodes[1].level), 1, 1); err != nil {
		return err
	}
	for k, v := range b.nodes {
		if k > 1 && v.low != -1 {
			if err := f(k, int(v.level), v.low, v.high); err != nil {
				return err
			}
		}
	}
	return nil
}

// stats returns information about the implementation
func (b *hashstore) stats() string {
	res := fmt.Sprintf("Allocated:  %d\n", len(b.nodes))
	res += fmt.Sprintf("Produced:   %d\n", b.produced)
	r := (float64(b.freenum) / float64(len(b.nodes))) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", b.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)\n", len(b.nodes)-b.freenum, (100.0 - r))
	res += fmt.Sprintf("Size:       %s\n", humanSize(len(b.nodes), unsafe.Sizeof(hashnode{})))
	res += fmt.Sprintf("# of GC:    %d\n", len(b.gcstat.history))
	if _DEBUG {
		res += fmt.Sprintf("Unique Access:  %d\n", b.uniqueAccess)
		res += fmt.Sprintf("Unique Hit:     %d\n", b.uniqueHit)
		res += fmt.Sprintf("Unique Miss:    %d\n", b.uniqueMiss)
	}
	return res
}
