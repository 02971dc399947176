// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import (
	"errors"
	"fmt"
	"log"
)

// The errors reported by a factory all wrap one of the following sentinel
// values, so that the different kinds stay distinguishable with errors.Is.
var (
	// ErrArgument reports an invalid argument, such as an out-of-range
	// variable or an integer outside of a finite domain.
	ErrArgument = errors.New("invalid argument")
	// ErrFreed reports the use of a node handle after it was freed or
	// consumed by one of the ...With operations.
	ErrFreed = errors.New("use of a freed node")
	// ErrMemory reports that the node table is exhausted and cannot grow.
	// The factory stays consistent but further allocations will fail again.
	ErrMemory = errors.New("node table exhausted")
	// ErrMode reports an operation that is not available with the current
	// reduction rule, such as NIthvar or Simplify in ZDD mode.
	ErrMode = errors.New("operation not available in this mode")
	// ErrIterator reports a misused iterator: Next after exhaustion, Remove
	// before the first Next, or FastForward on a position that is not a
	// don't-care.
	ErrIterator = errors.New("iterator misuse")
	// ErrMismatch reports a node that belongs to a different factory.
	ErrMismatch = errors.New("node belongs to a different factory")
)

// Error returns the error status of the factory. We return an empty string if
// there are no errors.
func (b *BDD) Error() string {
	if b.error == nil {
		return ""
	}
	return b.error.Error()
}

// Err returns the error status of the factory, nil if there are no errors.
// The result wraps one of the sentinel errors of this package.
func (b *BDD) Err() error {
	return b.error
}

// Errored returns true if there was an error during a computation.
func (b *BDD) Errored() bool {
	return b.error != nil
}

// ClearError resets the error status of the factory.
func (b *BDD) ClearError() {
	b.error = nil
}

func (b *BDD) seterror(kind error, format string, a ...interface{}) error {
	err := fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))
	if b.error != nil {
		err = fmt.Errorf("%s; %w", err.Error(), b.error)
	}
	b.error = err
	if _DEBUG {
		log.Println(err)
	}
	return err
}

// errnode is a convenience over seterror for the operations that return a
// node handle.
func (b *BDD) errnode(kind error, format string, a ...interface{}) *Node {
	b.seterror(kind, format, a...)
	return nil
}
