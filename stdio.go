// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"
	"text/tabwriter"
)

// humanSize returns a readable form of the memory footprint of count objects
// of the given size.
func humanSize(count int, size uintptr) string {
	total := float64(count) * float64(size)
	for _, unit := range []string{"B", "kB", "MB", "GB"} {
		if total < 1024 {
			return fmt.Sprintf("%.3g %s", total, unit)
		}
		total /= 1024
	}
	return fmt.Sprintf("%.3g TB", total)
}

// PrintStats outputs a textual representation of the factory statistics.
func (b *BDD) PrintStats() {
	fmt.Println("==============")
	fmt.Println(b.Stats())
	if _DEBUG {
		fmt.Println("==============")
		fmt.Println(b.cacheStat)
	}
	fmt.Println("==============")
}

// Print returns a one-line description of node n.
func (b *BDD) Print(n *Node) string {
	if n == nil {
		return "Error (nil node)"
	}
	if n.id == 0 {
		return "False"
	}
	if n.id == 1 {
		return "True"
	}
	if n.id < 0 {
		return "Error (freed node)"
	}
	if n.id >= b.store.size() || !b.store.valid(n.id) {
		return fmt.Sprintf("Error (%d not a valid index)", n.id)
	}
	return fmt.Sprintf("(%d[%d] ? %d : %d)", n.id, b.level(n.id), b.low(n.id), b.high(n.id))
}

// PrintAll prints the totality of the node table on the standard output.
func (b *BDD) PrintAll() {
	b.printtable(os.Stdout)
}

func (b *BDD) printtable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	err := b.store.allnodes(func(id, level, low, high int) error {
		if id > 1 {
			fmt.Fprintf(tw, "%d\t[%d\t] ? \t%d\t : %d\n", id, level, low, high)
		}
		return nil
	})
	tw.Flush()
	return err
}

// ************************************************************

// String returns a set-of-minterms notation for the node: one block
// <v1:p1, v2:p2, ...> per path to the true terminal, where each vi is a
// variable index and pi its polarity. Don't care variables are absent from
// the blocks. The constants are printed F and T.
func (n *Node) String() string {
	if n == nil {
		return "Error"
	}
	b := n.bdd
	if n.id < 0 || !b.store.valid(n.id) {
		return "Error"
	}
	if n.id == 0 {
		return "F"
	}
	if n.id == 1 && !b.zdd {
		return "T"
	}
	// set records the polarity of the variables along the current path: 0 for
	// unused, 1 for negative, 2 for positive
	set := make([]int8, b.varnum)
	if b.zdd {
		for k := range set {
			set[k] = 1
		}
	}
	sb := &strings.Builder{}
	b.printset(sb, n.id, set)
	return sb.String()
}

func (b *BDD) printset(sb *strings.Builder, r int, set []int8) {
	if r == 0 {
		return
	}
	if r == 1 {
		sb.WriteByte('<')
		first := true
		for lvl, v := range set {
			if v > 0 {
				if !first {
					sb.WriteString(", ")
				}
				first = false
				pol := 0
				if v == 2 {
					pol = 1
				}
				fmt.Fprintf(sb, "%d:%d", b.level2var[lvl], pol)
			}
		}
		sb.WriteByte('>')
		return
	}
	lvl := b.level(r)
	if b.zdd {
		if b.low(r) == b.high(r) {
			// a don't care level in a ZDD
			set[lvl] = 0
		} else {
			b.printset(sb, b.low(r), set)
			set[lvl] = 2
		}
		b.printset(sb, b.high(r), set)
		set[lvl] = 1
		return
	}
	set[lvl] = 1
	b.printset(sb, b.low(r), set)
	set[lvl] = 2
	b.printset(sb, b.high(r), set)
	set[lvl] = 0
}

// ************************************************************

// ElementNamer specifies the printing behavior of nodes with finite domains.
// Implement this interface and pass it to StringWithDomains to print domain
// elements with your own names instead of their numeric values.
type ElementNamer interface {
	// ElementName returns the name of element j in domain i.
	ElementName(i int, j *big.Int) string
	// ElementNames returns the name of the inclusive range of elements
	// [lo, hi] in domain i.
	ElementNames(i int, lo, hi *big.Int) string
}

type defaultNamer struct{}

func (defaultNamer) ElementName(i int, j *big.Int) string {
	return j.String()
}

func (defaultNamer) ElementNames(i int, lo, hi *big.Int) string {
	return lo.String() + "-" + hi.String()
}

var bigMinusTwo = big.NewInt(-2)

// outputBuffer coalesces consecutive domain values into ranges lo-hi while
// printing with domains.
type outputBuffer struct {
	ts       ElementNamer
	sb       *strings.Builder
	domain   int
	lastLow  *big.Int
	lastHigh *big.Int
	done     bool
}

func makeOutputBuffer(ts ElementNamer, sb *strings.Builder, domain int) *outputBuffer {
	return &outputBuffer{ts: ts, sb: sb, domain: domain, lastHigh: bigMinusTwo}
}

func (ob *outputBuffer) append(low, high *big.Int) {
	if low.Cmp(new(big.Int).Add(ob.lastHigh, bigOne)) == 0 {
		ob.lastHigh = high
		return
	}
	ob.finish()
	ob.lastLow = low
	ob.lastHigh = high
}

func (ob *outputBuffer) finish() {
	if ob.lastHigh.Cmp(bigMinusTwo) != 0 {
		if ob.done {
			ob.sb.WriteByte('/')
		}
		if ob.lastLow.Cmp(ob.lastHigh) == 0 {
			ob.sb.WriteString(ob.ts.ElementName(ob.domain, ob.lastHigh))
		} else {
			ob.sb.WriteString(ob.ts.ElementNames(ob.domain, ob.lastLow, ob.lastHigh))
		}
		ob.lastHigh = bigMinusTwo
		ob.done = true
	}
}

// StringWithDomains returns a string representation of node n using the
// finite domains defined on the factory. Each path to the true terminal is
// printed as a block <name:values, ...> where consecutive integer values of a
// domain coalesce into ranges lo-hi. An optional ElementNamer chooses the
// names of domains elements; the default prints their numeric value.
func (b *BDD) StringWithDomains(n *Node, ts ...ElementNamer) string {
	if b.checknode(n, "StringWithDomains") != nil {
		return "Error"
	}
	if n.id == 0 {
		return "F"
	}
	if n.id == 1 {
		return "T"
	}
	var namer ElementNamer = defaultNamer{}
	if len(ts) > 0 {
		namer = ts[0]
	}
	sb := &strings.Builder{}
	set := make([]int8, b.varnum) // indexed by variable: 0 unused, 1 negative, 2 positive
	b.fddprintset(sb, namer, n.id, set)
	return sb.String()
}

func (b *BDD) fddprintset(sb *strings.Builder, ts ElementNamer, r int, set []int8) {
	if r == 0 {
		return
	}
	if r == 1 {
		sb.WriteByte('<')
		first := true
		for _, d := range b.domains {
			used := false
			for _, v := range d.ivar {
				if set[v] != 0 {
					used = true
				}
			}
			if !used {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(d.name)
			sb.WriteByte(':')

			// pos holds the value encoded by the positive bits; maxSkip is
			// the largest contiguous run of don't care bits starting at the
			// least significant one
			pos := big.NewInt(0)
			maxSkip := -1
			hasDontCare := false
			for i, v := range d.ivar {
				if set[v] == 0 {
					hasDontCare = true
					if maxSkip == i-1 {
						maxSkip = i
					}
				}
			}
			for i := len(d.ivar) - 1; i >= 0; i-- {
				pos.Lsh(pos, 1)
				if set[d.ivar[i]] == 2 {
					pos.SetBit(pos, 0, 1)
				}
			}
			if !hasDontCare {
				sb.WriteString(ts.ElementName(d.index, pos))
				continue
			}
			ob := makeOutputBuffer(ts, sb, d.index)
			b.fddprinthelper(ob, pos, len(d.ivar)-1, set, d.ivar, maxSkip)
			ob.finish()
		}
		sb.WriteByte('>')
		return
	}
	v := int(b.level2var[b.level(r)])
	set[v] = 1
	b.fddprintset(sb, ts, b.low(r), set)
	set[v] = 2
	b.fddprintset(sb, ts, b.high(r), set)
	set[v] = 0
}

func (b *BDD) fddprinthelper(ob *outputBuffer, value *big.Int, i int, set []int8, ivar []int, maxSkip int) {
	if i == maxSkip {
		// every bit below is a don't care, the whole aligned block is covered
		maxValue := new(big.Int).Lsh(bigOne, uint(i+1))
		maxValue.Sub(maxValue, bigOne)
		maxValue.Or(maxValue, value)
		ob.append(value, maxValue)
		return
	}
	if set[ivar[i]] == 0 {
		temp := new(big.Int).SetBit(value, i, 1)
		b.fddprinthelper(ob, temp, i-1, set, ivar, maxSkip)
	}
	b.fddprinthelper(ob, value, i-1, set, ivar, maxSkip)
}

// ************************************************************

// Dot prints a graph-like description of the diagrams rooted at the nodes in
// n using the DOT format, or of all the active nodes if n is empty. The two
// terminals are drawn as boxes; low branches are drawn as dotted edges and
// high branches as solid ones.
func (b *BDD) Dot(w io.Writer, n ...*Node) error {
	fmt.Fprintln(w, "digraph G {")
	fmt.Fprintln(w, "0 [shape=box, label=\"0\", style=filled, height=0.3, width=0.3];")
	fmt.Fprintln(w, "1 [shape=box, label=\"1\", style=filled, height=0.3, width=0.3];")
	err := b.Allnodes(func(id, level, low, high int) error {
		if id > 1 {
			fmt.Fprintf(w, "%d %s\n", id, dotlabel(id, b.level2var[level]))
			fmt.Fprintf(w, "%d -> %d [style=dotted];\n", id, low)
			fmt.Fprintf(w, "%d -> %d [style=filled];\n", id, high)
		}
		return nil
	}, n...)
	fmt.Fprintln(w, "}")
	return err
}

// PrintDot prints the result of Dot on the standard output.
func (b *BDD) PrintDot(n ...*Node) error {
	return b.Dot(os.Stdout, n...)
}

// FPrintDot prints the result of Dot to the given file, or to the standard
// output when filename is "-".
func (b *BDD) FPrintDot(filename string, n ...*Node) error {
	var out *os.File
	var err error
	if filename == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(filename)
		if err != nil {
			return err
		}
		defer out.Close()
	}
	w := bufio.NewWriter(out)
	defer w.Flush()
	return b.Dot(w, n...)
}

func dotlabel(a int, b int32) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, b, a)
}
