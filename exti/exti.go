// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package exti emulates the FM3 external interrupt controller: 32 channels,
// each with a level or edge detection mode, a request latch and an enable,
// aggregated onto two interrupt lines.
package exti

import (
	"log"

	periph "periph.io/x/conn/v3/gpio"

	"github.com/ezrec/fm3/internal"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

// Register offsets.
const (
	REG_ENIR  = 0x00 // Enable.
	REG_EIRR  = 0x04 // Request latch, read only.
	REG_EICL  = 0x08 // Request clear.
	REG_ELVR  = 0x0C // Mode, channels 0-15.
	REG_ELVR1 = 0x10 // Mode, channels 16-31.
	REG_NMIRR = 0x14 // NMI request.
	REG_NMICL = 0x18 // NMI clear.
)

const (
	IRQ_COUNT = 2

	// IRQ_0_MASK selects the channels aggregated onto line 0.
	IRQ_0_MASK = 0x7f
)

// Mode is the detection mode of a channel, and the signal it detects.
type Mode int

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_UNKNOWN = Mode(-1) // unknown
	LEVEL_LOW    = Mode(0)  // level-low
	LEVEL_HIGH   = Mode(1)  // level-high
	EDGE_RISING  = Mode(2)  // edge-rising
	EDGE_FALLING = Mode(3)  // edge-falling
)

// IsLevel returns true for the level sensitive modes.
func (mode Mode) IsLevel() bool {
	return mode == LEVEL_LOW || mode == LEVEL_HIGH
}

// Pins queries the pin function settings of the GPIO bank.
type Pins interface {
	PortSetting(port topology.Port) topology.Function
	ExtPortSetting(block int) uint32
}

// Controller is the external interrupt controller state.
type Controller struct {
	Verbose bool

	table *topology.Table
	pins  Pins
	irq   [IRQ_COUNT]irq.Edge

	enable uint32
	latch  uint32
	mode   [2]uint32
	signal [topology.EXTI_COUNT]Mode
}

// New creates an external interrupt controller, driving line0 for channels
// 0 to 6 and line1 for the rest.
func New(table *topology.Table, pins Pins, line0, line1 irq.Line) (ctl *Controller) {
	ctl = &Controller{
		table: table,
		pins:  pins,
	}
	ctl.irq[0].Line = line0
	ctl.irq[1].Line = line1

	ctl.Reset()

	return
}

// Reset to the power-on state.
func (ctl *Controller) Reset() {
	ctl.enable = 0
	ctl.latch = 0
	ctl.mode = [2]uint32{}
	for n := range ctl.signal {
		ctl.signal[n] = MODE_UNKNOWN
	}

	ctl.updateIrq()
}

// Mode returns the configured mode of a channel.
func (ctl *Controller) Mode(ch int) Mode {
	if ch < 0 || ch >= topology.EXTI_COUNT {
		return MODE_UNKNOWN
	}

	return Mode((ctl.mode[ch/16] >> ((ch % 16) * 2)) & 3)
}

// Latch returns the request latch register.
func (ctl *Controller) Latch() uint32 {
	return ctl.latch
}

// Enable returns the enable register.
func (ctl *Controller) Enable() uint32 {
	return ctl.enable
}

// Level returns the current level of an aggregate interrupt line.
func (ctl *Controller) Level(n int) bool {
	if n < 0 || n >= IRQ_COUNT {
		return false
	}
	return ctl.irq[n].Level()
}

// IrqStatus returns true if a channel is both latched and enabled.
func (ctl *Controller) IrqStatus(ch int) bool {
	if ch < 0 || ch >= topology.EXTI_COUNT {
		return false
	}

	return ((ctl.latch & ctl.enable) >> ch & 1) != 0
}

// routed returns true if the board pin of a channel is configured for it.
func (ctl *Controller) routed(ch int) bool {
	port, ok := ctl.table.ExtiPort(ch)
	if !ok {
		return false
	}

	if ctl.table.PortFunction(port) != ctl.pins.PortSetting(port) {
		if ctl.Verbose {
			pinNo, _ := ctl.table.PinFromPort(port)
			log.Printf("exti: %v [%v, pin %d] function %d, setting %d", ctl.table.PinFunc(port), port, pinNo, ctl.table.PortFunction(port), ctl.pins.PortSetting(port))
		}
		return false
	}

	setting := ctl.pins.ExtPortSetting(topology.ExtiEpfr(ch))

	return topology.CheckExtportExti(ch, setting)
}

// signalOf translates a pin level to the signal detected in a channel's mode.
func (ctl *Controller) signalOf(ch int, level periph.Level) Mode {
	if ctl.Mode(ch).IsLevel() {
		if level {
			return LEVEL_HIGH
		}
		return LEVEL_LOW
	}

	if level {
		return EDGE_RISING
	}
	return EDGE_FALLING
}

// SetRequest presents a new pin level to a channel. The request is ignored
// unless the channel's board pin is routed to the channel.
func (ctl *Controller) SetRequest(ch int, level periph.Level) {
	if ch < 0 || ch >= topology.EXTI_COUNT {
		return
	}

	if !ctl.routed(ch) {
		if ctl.Verbose {
			log.Printf("exti: INT%02d=%v ignored", ch, level)
		}
		return
	}

	signal := ctl.signalOf(ch, level)
	ctl.signal[ch] = signal

	if ctl.Mode(ch) == signal {
		ctl.latch |= 1 << ch
	} else {
		ctl.latch &^= 1 << ch
	}

	ctl.updateIrq()
}

func (ctl *Controller) updateIrq() {
	request := ctl.latch & ctl.enable

	ctl.irq[0].SetLevel((request & IRQ_0_MASK) != 0)
	ctl.irq[1].SetLevel((request &^ IRQ_0_MASK) != 0)
}

func (ctl *Controller) register(offset uint32) (value uint32, ok bool) {
	ok = true

	switch offset &^ 3 {
	case REG_ENIR:
		value = ctl.enable
	case REG_EIRR:
		value = ctl.latch
	case REG_EICL:
		value = 0xffffffff
	case REG_ELVR:
		value = ctl.mode[0]
	case REG_ELVR1:
		value = ctl.mode[1]
	case REG_NMIRR:
		value = 0
	case REG_NMICL:
		value = 1
	default:
		ok = false
	}

	return
}

// Read a register.
func (ctl *Controller) Read(offset uint32, width int) (value uint32) {
	if !internal.ValidWidth(width) {
		translate.Logf("exti: invalid access size %d", width)
		return
	}

	word, ok := ctl.register(offset)
	if !ok {
		translate.Logf("exti: read of unknown register 0x%02x", offset&0xff)
		return
	}

	value = internal.Extract(word, offset, width)

	if ctl.Verbose {
		log.Printf("exti: 0x%02x -> 0x%08x", offset, value)
	}

	return
}

// Write a register.
func (ctl *Controller) Write(offset uint32, value uint32, width int) {
	if ctl.Verbose {
		log.Printf("exti: 0x%02x <- 0x%08x", offset, value)
	}

	if !internal.ValidWidth(width) {
		translate.Logf("exti: invalid access size %d", width)
		return
	}

	word, ok := ctl.register(offset)
	if !ok {
		translate.Logf("exti: write of unknown register 0x%02x", offset&0xff)
		return
	}

	value = internal.Insert(word, offset, value, width)

	switch offset &^ 3 {
	case REG_ENIR:
		ctl.enable = value
		ctl.updateIrq()
	case REG_EICL:
		ctl.clear(value)
	case REG_ELVR:
		ctl.mode[0] = value
	case REG_ELVR1:
		ctl.mode[1] = value
	}
}

// clear the request latch by mask. Level channels whose signal still
// matches their mode stay latched.
func (ctl *Controller) clear(mask uint32) {
	ctl.latch &= mask

	for ch := range topology.EXTI_COUNT {
		mode := ctl.Mode(ch)
		if mode.IsLevel() && ctl.signal[ch] == mode {
			ctl.latch |= 1 << ch
		}
	}

	ctl.updateIrq()
}
