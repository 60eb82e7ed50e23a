package uart

import (
	"fmt"
	"iter"

	"github.com/ezrec/fm3/topology"
)

var _uart_registers = []struct {
	Name   string
	Offset uint32
}{
	{"SMR", REG_SMR},
	{"SCR", REG_SCR},
	{"ESCR", REG_ESCR},
	{"SSR", REG_SSR},
	{"RDR", REG_RDR},
	{"TDR", REG_TDR},
	{"BGR0", REG_BGR0},
	{"BGR1", REG_BGR1},
	{"ISBA", REG_ISBA},
	{"ISMK", REG_ISMK},
	{"FCR0", REG_FCR0},
	{"FCR1", REG_FCR1},
	{"FBYTE1", REG_FBYTE1},
	{"FBYTE2", REG_FBYTE2},
}

// Defines returns the register names of every channel, and their offsets.
func Defines() iter.Seq2[string, uint32] {
	return func(yield func(name string, offset uint32) bool) {
		for ch := range topology.UART_COUNT {
			for _, reg := range _uart_registers {
				name := fmt.Sprintf("MFS%d_%v", ch, reg.Name)
				if !yield(name, uint32(ch)*CHANNEL_STRIDE+reg.Offset) {
					return
				}
			}
		}
	}
}
