// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Boolean expression parser. The grammar implements the usual precedence
// rules: ! binds tighter than &, then ^, then |, then -> and finally <->.
// Variables are written x0, x1, ... and the constants are true and false.

type exprEquiv struct {
	Left  *exprImp   `@@`
	Right []*exprImp `( "<" "-" ">" @@ )*`
}

type exprImp struct {
	Left  *exprOr   `@@`
	Right []*exprOr `( "-" ">" @@ )*`
}

type exprOr struct {
	Left  *exprXor   `@@`
	Right []*exprXor `( "|" @@ )*`
}

type exprXor struct {
	Left  *exprAnd   `@@`
	Right []*exprAnd `( "^" @@ )*`
}

type exprAnd struct {
	Left  *exprUnary   `@@`
	Right []*exprUnary `( "&" @@ )*`
}

type exprUnary struct {
	Not  *exprUnary `"!" @@`
	Atom *exprAtom  `| @@`
}

type exprAtom struct {
	True  bool       `@"true"`
	False bool       `| @"false"`
	Var   string     `| @Ident`
	Sub   *exprEquiv `| "(" @@ ")"`
}

var exprParser = participle.MustBuild(&exprEquiv{})

// FromString parses a Boolean expression and returns the corresponding node.
// The syntax supports the constants true and false, variables of the form xN
// where N is a variable index of the factory, grouping with parentheses, and
// the connectives ! (negation), & (conjunction), ^ (exclusive or),
// | (disjunction), -> (implication) and <-> (equivalence).
func (b *BDD) FromString(s string) (*Node, error) {
	ast := &exprEquiv{}
	if err := exprParser.ParseString("expr", s, ast); err != nil {
		return nil, b.seterror(ErrArgument, "cannot parse expression: %s", err)
	}
	return b.evalEquiv(ast)
}

// fold evaluates a chain [left op e1 op e2 ...], consuming the intermediate
// handles.
func (b *BDD) fold(left *Node, err error, op Operator, rest []*Node) (*Node, error) {
	if err != nil {
		if left != nil {
			left.Free()
		}
		return nil, err
	}
	for _, right := range rest {
		left = left.ApplyWith(right, op)
		if left == nil {
			return nil, b.error
		}
	}
	return left, nil
}

func (b *BDD) evalEquiv(e *exprEquiv) (*Node, error) {
	left, err := b.evalImp(e.Left)
	rest, err := evalList(err, e.Right, b.evalImp)
	return b.fold(left, err, OPbiimp, rest)
}

func (b *BDD) evalImp(e *exprImp) (*Node, error) {
	left, err := b.evalOr(e.Left)
	rest, err := evalList(err, e.Right, b.evalOr)
	return b.fold(left, err, OPimp, rest)
}

func (b *BDD) evalOr(e *exprOr) (*Node, error) {
	left, err := b.evalXor(e.Left)
	rest, err := evalList(err, e.Right, b.evalXor)
	return b.fold(left, err, OPor, rest)
}

func (b *BDD) evalXor(e *exprXor) (*Node, error) {
	left, err := b.evalAnd(e.Left)
	rest, err := evalList(err, e.Right, b.evalAnd)
	return b.fold(left, err, OPxor, rest)
}

func (b *BDD) evalAnd(e *exprAnd) (*Node, error) {
	left, err := b.evalUnary(e.Left)
	rest, err := evalList(err, e.Right, b.evalUnary)
	return b.fold(left, err, OPand, rest)
}

// evalList evaluates a sequence of sub-expressions, freeing the ones already
// built if one of them fails.
func evalList[T any](err error, list []*T, eval func(*T) (*Node, error)) ([]*Node, error) {
	if err != nil {
		return nil, err
	}
	res := make([]*Node, 0, len(list))
	for _, e := range list {
		n, err := eval(e)
		if err != nil {
			for _, m := range res {
				m.Free()
			}
			return nil, err
		}
		res = append(res, n)
	}
	return res, nil
}

func (b *BDD) evalUnary(e *exprUnary) (*Node, error) {
	if e.Not != nil {
		n, err := b.evalUnary(e.Not)
		if err != nil {
			return nil, err
		}
		res := b.Not(n)
		n.Free()
		if res == nil {
			return nil, b.error
		}
		return res, nil
	}
	return b.evalAtom(e.Atom)
}

func (b *BDD) evalAtom(e *exprAtom) (*Node, error) {
	switch {
	case e.True:
		return b.True(), nil
	case e.False:
		return b.False(), nil
	case e.Sub != nil:
		return b.evalEquiv(e.Sub)
	default:
		if !strings.HasPrefix(e.Var, "x") {
			return nil, b.seterror(ErrArgument, "unknown identifier %q in expression", e.Var)
		}
		v, err := strconv.Atoi(e.Var[1:])
		if err != nil {
			return nil, b.seterror(ErrArgument, "unknown identifier %q in expression", e.Var)
		}
		res := b.Ithvar(v)
		if res == nil {
			return nil, b.error
		}
		return res, nil
	}
}
