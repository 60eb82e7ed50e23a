package gpio

import (
	"fmt"
	"iter"

	"github.com/ezrec/fm3/topology"
)

// Defines returns the register names of the bank, and their offsets.
func Defines() iter.Seq2[string, uint32] {
	return func(yield func(name string, offset uint32) bool) {
		for _, reg := range []struct {
			Name string
			Base uint32
		}{
			{"PFR%X", REG_PFR},
			{"PCR%X", REG_PCR},
			{"DDR%X", REG_DDR},
			{"PDIR%X", REG_PDIR},
			{"PDOR%X", REG_PDOR},
			{"EPFR%02d", REG_EPFR},
		} {
			for block := range topology.BLOCK_COUNT {
				if !yield(fmt.Sprintf(reg.Name, block), reg.Base+uint32(block)*4) {
					return
				}
			}
		}

		yield("ADE", REG_ADE)
	}
}
