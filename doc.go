// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

/*
Package godd defines a concrete type for Binary Decision Diagrams (BDD), a
data structure used to efficiently represent Boolean functions over a fixed
set of variables or, equivalently, sets of Boolean vectors with a fixed size.
The package also supports Zero-suppressed Decision Diagrams (ZDD), a variant
of the same structure tuned for sparse families of sets, selected with the
ZDD option when the factory is created.

# Basics

Each factory has a number of variables, declared when it is initialized
(using the function New); each variable has a stable index and a level, its
position in the variable order. While the package does not implement dynamic
reordering, every structural operation goes through the variable/level maps,
and user code should not assume that the two always coincide. The library
supports the creation of multiple factories, with possibly different numbers
of variables, but nodes from different factories must never be mixed.

Most operations return a Node; that is a handle over a vertex of the diagram
that includes a variable level, and the address of the low and high branch
for this node. Each handle accounts for exactly one external reference to its
node: the node stays protected from garbage collection until the handle is
released with Free. The consuming operations (ApplyWith, AndWith, ...)
release their operand as part of producing their result, which avoids an
extra pair of reference-count updates around the common idiom "x = x op y;
free y". A handle is invalid after it was freed or consumed, and any use is
reported as an error.

# Node stores

For the most part, data structures and algorithms implemented in this library
are a direct adaptation of those found in the C-library BuDDy, developed by
Jorn Lind-Nielsen. We provide two interchangeable node stores behind the same
engine. The default store relies on a standard Go runtime hashmap to encode
the unicity table. With the option BuddyStore, the factory switches to an
implementation that is very close to the one of the BuDDy library, based on a
specialized data-structure that mixes a dynamic array with a hash table.

To get access to better statistics about caches and garbage collection, as
well as to unlock logging of some operations, you can compile your executable
with the build tag `debug`.

# Finite domains

On top of the Boolean layer, the package supports finite-domain variables
(see ExtDomain): integer-valued variables encoded over a block of Boolean
variables, with operations to build equality, addition and interval
constraints, and to read integer values back from satisfying assignments.

# Memory management

The library is written in pure Go, without the need for CGo. Apart from the
expression parser behind FromString, which relies on
github.com/alecthomas/participle, it only uses the standard library. Nodes are stored in a table managed by the factory; when the
table fills up, nodes that are no longer referenced by a live handle, a
VarSet, a Pairing, or an in-flight operation are reclaimed, and the operator
caches are invalidated. Reference counting is explicit: user code owns every
handle it receives and must release it with Free (or consume it with one of
the ...With operations) for the memory to be reclaimable.
*/
package godd
