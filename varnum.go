// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package godd

import "log"

// SetVarnum sets the number of variables of the factory. It may be called
// more than once, but only to increase the number of variables: the variables
// already allocated keep their index and their level.
func (b *BDD) SetVarnum(num int) error {
	inum := int32(num)
	if (inum < b.varnum) || (inum > _MAXVAR) {
		return b.seterror(ErrArgument, "bad number of variables (%d) in SetVarnum", inum)
	}
	if inum == b.varnum {
		return nil
	}
	oldnum := int(b.varnum)
	b.varnum = inum
	// Constants always have the highest level.
	b.store.setlevel(0, inum)
	b.store.setlevel(1, inum)
	// We extend the slices for the fields related to the list of variables:
	// varset, level2var, var2level, and the quantification cache.
	varset := make([][2]int, inum)
	copy(varset, b.varset)
	b.varset = varset
	var2level := make([]int32, inum)
	copy(var2level, b.var2level)
	b.var2level = var2level
	level2var := make([]int32, inum)
	copy(level2var, b.level2var)
	b.level2var = level2var
	for k := int32(oldnum); k < inum; k++ {
		b.var2level[k] = k
		b.level2var[k] = k
	}
	b.quantset = make([]int32, inum)
	b.quantsetID = 0
	if err := b.allocvars(oldnum, num); err != nil {
		return err
	}
	if _LOGLEVEL > 0 {
		log.Printf("set varnum to %d\n", b.varnum)
	}
	return nil
}

// ExtVarnum extends the current number of allocated variables with num extra
// variables, and returns the index of the first of them.
func (b *BDD) ExtVarnum(num int) (int, error) {
	if (num < 0) || (num > 0x3FFFFFFF) {
		return -1, b.seterror(ErrArgument, "bad choice of value (%d) when extending varnum in ExtVarnum", num)
	}
	first := int(b.varnum)
	if err := b.SetVarnum(first + num); err != nil {
		return -1, err
	}
	return first, nil
}
