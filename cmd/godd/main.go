// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Command godd evaluates Boolean expressions with binary decision diagrams.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/magoorden/godd"
)

var (
	varnum  int
	zdd     bool
	showall bool
	output  string
)

func newFactory() (*godd.BDD, error) {
	if zdd {
		return godd.New(varnum, godd.ZDD())
	}
	return godd.New(varnum)
}

func main() {
	root := &cobra.Command{
		Use:   "godd",
		Short: "godd manipulates Boolean expressions as binary decision diagrams",
		Long: `godd builds binary decision diagrams from Boolean expressions and
reports satisfying assignments, counts, and DOT renderings.

Expressions use variables x0, x1, ..., the constants true and false, and the
connectives ! & ^ | -> <->.`,
	}
	root.PersistentFlags().IntVarP(&varnum, "vars", "n", 8, "number of variables in the factory")
	root.PersistentFlags().BoolVar(&zdd, "zdd", false, "use the zero-suppressed reduction rule")

	eval := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression and print its satisfying assignments",
		Args:  cobra.ExactArgs(1),
		RunE:  runEval,
	}
	eval.Flags().BoolVarP(&showall, "allsat", "a", false, "print every satisfying assignment")

	dot := &cobra.Command{
		Use:   "dot <expression>",
		Short: "Print the diagram of an expression in DOT format",
		Args:  cobra.ExactArgs(1),
		RunE:  runDot,
	}
	dot.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout)")

	queens := &cobra.Command{
		Use:   "queens <N>",
		Short: "Count the solutions of the N-queens problem",
		Args:  cobra.ExactArgs(1),
		RunE:  runQueens,
	}

	root.AddCommand(eval, dot, queens)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEval(cmd *cobra.Command, args []string) error {
	b, err := newFactory()
	if err != nil {
		return err
	}
	n, err := b.FromString(args[0])
	if err != nil {
		return err
	}
	bold := color.New(color.Bold)
	bold.Print("expression: ")
	fmt.Println(args[0])
	bold.Print("nodes:      ")
	fmt.Println(b.NodeCount(n))
	bold.Print("satcount:   ")
	fmt.Println(b.Satcount(n))
	if showall {
		bold.Println("assignments:")
		green := color.New(color.FgGreen)
		yellow := color.New(color.FgYellow)
		return b.Allsat(n, func(assignment []int) error {
			for v, val := range assignment {
				switch val {
				case -1:
					yellow.Printf("x%d=* ", v)
				case 1:
					green.Printf("x%d=1 ", v)
				default:
					fmt.Printf("x%d=0 ", v)
				}
			}
			fmt.Println()
			return nil
		})
	}
	return nil
}

func runDot(cmd *cobra.Command, args []string) error {
	b, err := newFactory()
	if err != nil {
		return err
	}
	n, err := b.FromString(args[0])
	if err != nil {
		return err
	}
	return b.FPrintDot(output, n)
}

// runQueens counts the solutions of the N-queens problem: place N queens on
// an NxN board so that no two queens attack each other. Square (i,j) is
// encoded as variable i*N+j.
func runQueens(cmd *cobra.Command, args []string) error {
	N, err := strconv.Atoi(args[0])
	if err != nil || N < 1 {
		return fmt.Errorf("invalid board size %q", args[0])
	}
	b, err := godd.New(N*N, godd.Nodesize(N*N*256), godd.Cachesize(N*N*64), godd.Cacheratio(30))
	if err != nil {
		return err
	}
	X := make([][]*godd.Node, N)
	for i := range X {
		X[i] = make([]*godd.Node, N)
		for j := range X[i] {
			X[i][j] = b.Ithvar(i*N + j)
		}
	}
	queen := b.True()
	// place a queen in each column
	for i := 0; i < N; i++ {
		e := b.False()
		for j := 0; j < N; j++ {
			e = e.OrWith(X[i][j].Clone())
		}
		queen = queen.AndWith(e)
		if queen == nil {
			return b.Err()
		}
	}
	// build the attack constraints for each square
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			for k := 0; k < N; k++ {
				// no one in the same column
				if k != j {
					queen = constrainFree(b, queen, X[i][j], X[i][k])
				}
				// no one in the same row
				if k != i {
					queen = constrainFree(b, queen, X[i][j], X[k][j])
				}
				// no one in the two diagonals
				if ll := k - i + j; k != i && ll >= 0 && ll < N {
					queen = constrainFree(b, queen, X[i][j], X[k][ll])
				}
				if ll := i + j - k; k != i && ll >= 0 && ll < N {
					queen = constrainFree(b, queen, X[i][j], X[k][ll])
				}
				if queen == nil {
					return b.Err()
				}
			}
		}
	}
	bold := color.New(color.Bold)
	bold.Printf("%d-queens solutions: ", N)
	fmt.Println(b.Satcount(queen))
	return nil
}

// constrainFree conjoins queen with [a -> !c], freeing the intermediate
// handles.
func constrainFree(b *godd.BDD, queen, a, c *godd.Node) *godd.Node {
	nc := b.Not(c)
	if nc == nil {
		return nil
	}
	imp := b.Imp(a, nc)
	nc.Free()
	if imp == nil {
		return nil
	}
	return queen.AndWith(imp)
}
