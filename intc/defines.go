package intc

import (
	"fmt"
	"iter"
)

// Defines returns the monitor register names, and their offsets.
func Defines() iter.Seq2[string, uint32] {
	return func(yield func(name string, offset uint32) bool) {
		if !yield("EXC02MON", REG_EXC02MON) {
			return
		}
		for n := range 32 {
			if !yield(fmt.Sprintf("IRQ%02dMON", n), REG_IRQ00MON+uint32(n)*4) {
				return
			}
		}
	}
}
