// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package gpio emulates the GPIO bank of the FM3: 16 port blocks of 16 bits,
// their function select and extended function select registers, and a text
// control channel used to stimulate input pins from outside the emulator.
package gpio

import (
	"fmt"
	"io"
	"log"
	"strings"

	periph "periph.io/x/conn/v3/gpio"

	"github.com/ezrec/fm3/internal"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

// Register block bases, relative to the GPIO window.
const (
	REG_PFR  = 0x000 // Port function select.
	REG_PCR  = 0x100 // Pull-up control.
	REG_DDR  = 0x200 // Data direction.
	REG_PDIR = 0x300 // Input data, read only.
	REG_PDOR = 0x400 // Output data.
	REG_ADE  = 0x500 // Analog input enable.
	REG_EPFR = 0x600 // Extended function select.

	REG_MASK = ^uint32(0xff)
)

// Direction register values.
const (
	DDR_IN  = 0
	DDR_OUT = 1
)

// Bank is the state of the GPIO port blocks.
type Bank struct {
	Verbose bool      // If set, logs register accesses.
	Status  io.Writer // Receives a status line when an output vector changes.

	pfr  [topology.BLOCK_COUNT]uint32
	pcr  [topology.BLOCK_COUNT]uint32
	ddr  [topology.BLOCK_COUNT]uint32
	pdir [topology.BLOCK_COUNT]uint32
	pdor [topology.BLOCK_COUNT]uint32
	epfr [topology.BLOCK_COUNT]uint32
	ade  uint32
}

// NewBank creates a GPIO bank in its reset state.
func NewBank() (bank *Bank) {
	bank = &Bank{}
	bank.Reset()

	return
}

// Reset all ports to GPIO inputs.
func (bank *Bank) Reset() {
	bank.pfr = [topology.BLOCK_COUNT]uint32{}
	bank.pcr = [topology.BLOCK_COUNT]uint32{}
	bank.ddr = [topology.BLOCK_COUNT]uint32{}
	bank.pdir = [topology.BLOCK_COUNT]uint32{}
	bank.pdor = [topology.BLOCK_COUNT]uint32{}
	bank.epfr = [topology.BLOCK_COUNT]uint32{}
	bank.ade = 0
}

// register returns the storage of a register, and whether it is writable.
func (bank *Bank) register(offset uint32) (reg *uint32, writable bool) {
	block := (offset & 0xff) >> 2
	base := offset & REG_MASK

	if base == REG_ADE {
		if block == 0 {
			reg = &bank.ade
			writable = true
		}
		return
	}

	if block >= topology.BLOCK_COUNT {
		return
	}

	switch base {
	case REG_PFR:
		reg, writable = &bank.pfr[block], true
	case REG_PCR:
		reg, writable = &bank.pcr[block], true
	case REG_DDR:
		reg, writable = &bank.ddr[block], true
	case REG_PDIR:
		reg = &bank.pdir[block]
	case REG_PDOR:
		reg, writable = &bank.pdor[block], true
	case REG_EPFR:
		reg, writable = &bank.epfr[block], true
	}

	return
}

// Read a register. Unknown offsets read as zero.
func (bank *Bank) Read(offset uint32, width int) (value uint32) {
	if !internal.ValidWidth(width) {
		translate.Logf("gpio: invalid access size %d", width)
		return
	}

	reg, _ := bank.register(offset)
	if reg != nil {
		value = internal.Extract(*reg, offset, width)
	}

	if bank.Verbose {
		log.Printf("gpio: 0x%03x -> 0x%08x", offset, value)
	}

	return
}

// Write a register. Writes to unknown or read-only offsets are ignored.
func (bank *Bank) Write(offset uint32, value uint32, width int) {
	if bank.Verbose {
		log.Printf("gpio: 0x%03x <- 0x%08x", offset, value)
	}

	if !internal.ValidWidth(width) {
		translate.Logf("gpio: invalid access size %d", width)
		return
	}

	reg, writable := bank.register(offset)
	if !writable {
		return
	}

	block := (offset & 0xff) >> 2
	out, dir := bank.pdor[block%topology.BLOCK_COUNT], bank.ddr[block%topology.BLOCK_COUNT]

	*reg = internal.Insert(*reg, offset, value, width)

	if block >= topology.BLOCK_COUNT {
		return
	}

	if out != bank.pdor[block] || dir != bank.ddr[block] {
		// Output pins read back their driven level.
		bank.pdir[block] = (bank.pdir[block] &^ bank.ddr[block]) | (bank.pdor[block] & bank.ddr[block])

		if bank.Status != nil {
			io.WriteString(bank.Status, bank.BlockStatus(int(block)))
		}
	}
}

// PortSetting returns the function select of a port.
func (bank *Bank) PortSetting(port topology.Port) topology.Function {
	return topology.Function((bank.pfr[port.Block()] >> port.Bit()) & 1)
}

// ExtPortSetting returns the extended function select register of a block.
func (bank *Bank) ExtPortSetting(block int) uint32 {
	if block < 0 || block >= topology.BLOCK_COUNT {
		return 0
	}
	return bank.epfr[block]
}

// Direction returns the data direction of a port.
func (bank *Bank) Direction(port topology.Port) int {
	return int((bank.ddr[port.Block()] >> port.Bit()) & 1)
}

// Input returns the input level of a port.
func (bank *Bank) Input(port topology.Port) periph.Level {
	return bank.pdir[port.Block()]&port.Mask() != 0
}

// Output returns the driven output level of a port.
func (bank *Bank) Output(port topology.Port) periph.Level {
	return bank.pdor[port.Block()]&port.Mask() != 0
}

// SetInput sets the input level of a port, as if driven from outside.
func (bank *Bank) SetInput(port topology.Port, level periph.Level) {
	if level {
		bank.pdir[port.Block()] |= port.Mask()
	} else {
		bank.pdir[port.Block()] &^= port.Mask()
	}
}

// IsOutput returns true if the port is a GPIO output.
func (bank *Bank) IsOutput(port topology.Port) bool {
	return bank.PortSetting(port) == topology.GPIO && bank.Direction(port) == DDR_OUT
}

// outputChar describes a port's output: 'H' or 'L' for a GPIO output, '-'
// for anything else.
func (bank *Bank) outputChar(port topology.Port) byte {
	if !bank.IsOutput(port) {
		return '-'
	}
	if bank.Output(port) {
		return 'H'
	}
	return 'L'
}

// BlockStatus formats the output vector of a block, bit 15 first.
func (bank *Bank) BlockStatus(block int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%X*:", block)
	for bit := 15; bit >= 0; bit-- {
		sb.WriteByte(bank.outputChar(topology.MakePort(block, bit)))
	}
	sb.WriteString("\r\n")

	return sb.String()
}

// BitStatus formats the output state of a single port.
func (bank *Bank) BitStatus(port topology.Port) string {
	return fmt.Sprintf("%X%X:%c\r\n", port.Block(), port.Bit(), bank.outputChar(port))
}
