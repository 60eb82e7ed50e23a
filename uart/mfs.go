// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package uart emulates the multi-function serial (MFS) block of the FM3 in
// asynchronous UART mode, with the dual FIFO banks of the upper channels.
package uart

import (
	"log"

	"github.com/ezrec/fm3/internal"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

// CHANNEL_STRIDE is the register window size of each channel.
const CHANNEL_STRIDE = 0x100

// Mfs is the set of UART channels in the MFS window. Channels that have no
// board pins are not populated.
type Mfs struct {
	channel [topology.UART_COUNT]*Channel
}

// New creates the populated channels of a board.
func New(table *topology.Table, pins Pins) (mfs *Mfs) {
	mfs = &Mfs{}

	for ch := range topology.UART_COUNT {
		if table.UartPopulated(ch) {
			mfs.channel[ch] = NewChannel(ch, table, pins)
		}
	}

	return
}

// SetVerbose sets the verbose flag of all channels.
func (mfs *Mfs) SetVerbose(verbose bool) {
	for _, c := range mfs.channel {
		if c != nil {
			c.Verbose = verbose
		}
	}
}

// Channel returns a populated channel, or nil.
func (mfs *Mfs) Channel(ch int) *Channel {
	if ch < 0 || ch >= topology.UART_COUNT {
		return nil
	}
	return mfs.channel[ch]
}

// Populated returns the populated channel numbers.
func (mfs *Mfs) Populated() (list []int) {
	for ch, c := range mfs.channel {
		if c != nil {
			list = append(list, ch)
		}
	}

	return
}

// Connect the interrupt lines of a channel.
func (mfs *Mfs) Connect(ch int, rx irq.Line, tx irq.Line) {
	if c := mfs.Channel(ch); c != nil {
		c.Connect(rx, tx)
	}
}

// Reset all channels.
func (mfs *Mfs) Reset() {
	for _, c := range mfs.channel {
		if c != nil {
			c.Reset()
		}
	}
}

// lookup returns the channel addressed by a window offset.
func (mfs *Mfs) lookup(offset uint32) (c *Channel) {
	ch := int((offset >> 8) & 0xf)
	c = mfs.Channel(ch)
	if c == nil {
		translate.Logf("uart: access to unpopulated channel %d (offset 0x%03x)", ch, offset)
	}

	return
}

// Read a register. Wider accesses read consecutive byte registers, little
// endian.
func (mfs *Mfs) Read(offset uint32, width int) (value uint32) {
	if !internal.ValidWidth(width) {
		translate.Logf("uart: invalid access size %d", width)
		return
	}

	c := mfs.lookup(offset)
	if c == nil {
		return
	}

	known := false
	for lane := range width {
		b, ok := c.ReadReg(offset + uint32(lane))
		known = known || ok
		value |= uint32(b) << (8 * lane)
	}

	if !known {
		translate.Logf("uart%d: read of unknown register 0x%02x", c.ch, offset&0xff)
	}

	return
}

// Write a register. Wider accesses write consecutive byte registers, little
// endian.
func (mfs *Mfs) Write(offset uint32, value uint32, width int) {
	if !internal.ValidWidth(width) {
		translate.Logf("uart: invalid access size %d", width)
		return
	}

	c := mfs.lookup(offset)
	if c == nil {
		return
	}

	known := false
	for lane := range width {
		ok := c.WriteReg(offset+uint32(lane), uint8(value>>(8*lane)))
		known = known || ok
	}

	if !known {
		translate.Logf("uart%d: write of unknown register 0x%02x", c.ch, offset&0xff)
	}
}

// RxIrqStatus returns the receive interrupt level of a channel.
func (mfs *Mfs) RxIrqStatus(ch int) bool {
	if c := mfs.Channel(ch); c != nil {
		return c.RxLevel()
	}
	return false
}

// TxIrqStatus returns the transmit interrupt level of a channel.
func (mfs *Mfs) TxIrqStatus(ch int) bool {
	if c := mfs.Channel(ch); c != nil {
		return c.TxLevel()
	}
	return false
}

// StatusIrqStatus returns the status interrupt level of a channel, which is
// never raised in UART mode.
func (mfs *Mfs) StatusIrqStatus(ch int) bool {
	if c := mfs.Channel(ch); c != nil && c.Verbose {
		log.Printf("uart%d: status interrupt not implemented", ch)
	}
	return false
}
