// Package intc emulates the interrupt aggregator of the FM3: it forwards
// peripheral interrupt requests to the host interrupt lines, and derives its
// read-only monitor registers from the live state of the peripherals.
package intc

import (
	"log"

	"github.com/ezrec/fm3/internal"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

// IRQ_COUNT is the number of aggregator inputs and host lines.
const IRQ_COUNT = 48

// Register offsets.
const (
	REG_EXC02MON = 0x10
	REG_IRQ00MON = 0x14
	REG_IRQ04MON = REG_IRQ00MON + 4*IRQ_EXTI0
	REG_IRQ05MON = REG_IRQ00MON + 4*IRQ_EXTI1
	REG_IRQ07MON = REG_IRQ00MON + 4*IRQ_MFS_RX
	REG_IRQ08MON = REG_IRQ00MON + 4*IRQ_MFS_TX
	REG_IRQ31MON = REG_IRQ00MON + 4*31
)

// Input numbers of the peripheral interrupts.
const (
	IRQ_EXTI0  = 4 // External interrupts 0-6.
	IRQ_EXTI1  = 5 // External interrupts 7-31.
	IRQ_MFS_RX = 7 // MFS channel n receive is IRQ_MFS_RX + 2*n.
	IRQ_MFS_TX = 8 // MFS channel n transmit and status is IRQ_MFS_TX + 2*n.
)

// MfsRx returns the input number of a UART channel's receive interrupt.
func MfsRx(ch int) int {
	return IRQ_MFS_RX + 2*ch
}

// MfsTx returns the input number of a UART channel's transmit interrupt.
func MfsTx(ch int) int {
	return IRQ_MFS_TX + 2*ch
}

// Exti is the interrupt status of the external interrupt controller.
type Exti interface {
	IrqStatus(ch int) bool
}

// Uart is the interrupt status of the MFS channels.
type Uart interface {
	RxIrqStatus(ch int) bool
	TxIrqStatus(ch int) bool
	StatusIrqStatus(ch int) bool
}

// Aggregator routes interrupt inputs to the host lines.
type Aggregator struct {
	Verbose bool

	input [IRQ_COUNT]irq.Edge
	exti  Exti
	uart  Uart
}

// New creates an aggregator driving the host lines. Missing parents leave
// their inputs unconnected.
func New(parents []irq.Line) (agg *Aggregator) {
	agg = &Aggregator{}

	for n := range min(len(parents), IRQ_COUNT) {
		agg.input[n].Line = parents[n]
	}

	return
}

// Attach the peripherals whose live state backs the monitor registers.
func (agg *Aggregator) Attach(exti Exti, uart Uart) {
	agg.exti = exti
	agg.uart = uart
}

// Input returns the line of an aggregator input. Levels are forwarded to the
// host only when they change.
func (agg *Aggregator) Input(n int) irq.Line {
	if n < 0 || n >= IRQ_COUNT {
		translate.Logf("intc: no such interrupt input %d", n)
		return irq.LineFunc(func(bool) {})
	}

	return irq.LineFunc(func(level bool) {
		if agg.Verbose {
			log.Printf("intc: IRQ%02d = %v", n, level)
		}
		agg.input[n].SetLevel(level)
	})
}

// Level returns the last level forwarded to a host line.
func (agg *Aggregator) Level(n int) bool {
	if n < 0 || n >= IRQ_COUNT {
		return false
	}
	return agg.input[n].Level()
}

// Reset forgets the forwarded levels.
func (agg *Aggregator) Reset() {
	for n := range agg.input {
		agg.input[n].Reset()
	}
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// monitor computes a monitor register from the peripheral state.
func (agg *Aggregator) monitor(offset uint32) (value uint32) {
	switch {
	case offset == REG_IRQ04MON:
		for ch := range 8 {
			value |= boolBit(agg.exti != nil && agg.exti.IrqStatus(ch)) << ch
		}
	case offset == REG_IRQ05MON:
		for ch := 8; ch < topology.EXTI_COUNT; ch++ {
			value |= boolBit(agg.exti != nil && agg.exti.IrqStatus(ch)) << (ch - 8)
		}
	case offset >= REG_IRQ07MON && offset < REG_IRQ07MON+8*topology.UART_COUNT:
		if agg.uart == nil {
			break
		}
		ch := int(offset-REG_IRQ07MON) >> 3
		if (offset-REG_IRQ07MON)&4 == 0 {
			value = boolBit(agg.uart.RxIrqStatus(ch))
		} else {
			value = boolBit(agg.uart.TxIrqStatus(ch)) |
				boolBit(agg.uart.StatusIrqStatus(ch))<<1
		}
	}

	return
}

// Read a monitor register.
func (agg *Aggregator) Read(offset uint32, width int) (value uint32) {
	if !internal.ValidWidth(width) {
		translate.Logf("intc: invalid access size %d", width)
		return
	}

	reg := (offset & 0xff) &^ 3
	switch {
	case reg == REG_EXC02MON:
	case reg >= REG_IRQ00MON && reg <= REG_IRQ31MON:
		value = internal.Extract(agg.monitor(reg), offset, width)
	default:
		translate.Logf("intc: read of unknown register 0x%03x", offset)
	}

	if agg.Verbose {
		log.Printf("intc: 0x%03x -> 0x%08x", offset, value)
	}

	return
}

// Write is ignored; the monitor registers are read only.
func (agg *Aggregator) Write(offset uint32, value uint32, width int) {
	if agg.Verbose {
		log.Printf("intc: 0x%03x <- 0x%08x ignored, registers are read only", offset, value)
	}
}
