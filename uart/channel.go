package uart

import (
	"io"
	"log"
	"slices"

	"github.com/ezrec/fm3/chardev"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

// Register byte offsets, relative to the channel.
const (
	REG_SMR    = 0x00
	REG_SCR    = 0x01
	REG_ESCR   = 0x04
	REG_SSR    = 0x05
	REG_RDR    = 0x08 // Read.
	REG_TDR    = 0x08 // Write.
	REG_RDR_HI = 0x09
	REG_BGR0   = 0x0C
	REG_BGR1   = 0x0D
	REG_ISBA   = 0x10
	REG_ISMK   = 0x11
	REG_FCR0   = 0x14
	REG_FCR1   = 0x15
	REG_FBYTE1 = 0x18
	REG_FBYTE2 = 0x19
)

// SMR bits.
const (
	SMR_MD_SHIFT = 5
	SMR_MD_MASK  = 7 << SMR_MD_SHIFT
	SMR_WUCR     = 1 << 4
	SMR_SBL      = 1 << 3
	SMR_BDS      = 1 << 2
	SMR_SOE      = 1 << 0
)

// SMR operating modes.
const (
	MODE_NORMAL = 0 // Asynchronous normal.
	MODE_MULTI  = 1 // Asynchronous multiprocessor.
)

// SCR bits.
const (
	SCR_UPCL = 1 << 7
	SCR_RIE  = 1 << 4
	SCR_TIE  = 1 << 3
	SCR_TBIE = 1 << 2
	SCR_RXE  = 1 << 1
	SCR_TXE  = 1 << 0
)

// ESCR bits.
const (
	ESCR_FLWEN = 1 << 7
	ESCR_ESBL  = 1 << 6
	ESCR_INV   = 1 << 5
	ESCR_PEN   = 1 << 4
	ESCR_P     = 1 << 3
	ESCR_L     = 7 << 0
)

// SSR bits.
const (
	SSR_REC  = 1 << 7
	SSR_PE   = 1 << 5
	SSR_FRE  = 1 << 4
	SSR_ORE  = 1 << 3
	SSR_RDRF = 1 << 2
	SSR_TDRE = 1 << 1
	SSR_TBI  = 1 << 0

	SSR_ERROR = SSR_PE | SSR_FRE | SSR_ORE
)

// BGR1 bits.
const (
	BGR1_EXT = 1 << 7
)

// FCR0 bits.
const (
	FCR0_FLST = 1 << 6
	FCR0_FLD  = 1 << 5
	FCR0_FSET = 1 << 4
	FCR0_FCL2 = 1 << 3
	FCR0_FCL1 = 1 << 2
	FCR0_FE2  = 1 << 1
	FCR0_FE1  = 1 << 0
)

// FCR1 bits.
const (
	FCR1_FLSTE = 1 << 4
	FCR1_FRIIE = 1 << 3
	FCR1_FDRQ  = 1 << 2
	FCR1_FTIE  = 1 << 1
	FCR1_FSEL  = 1 << 0
)

// Pins queries the pin function settings of the GPIO bank.
type Pins interface {
	PortSetting(port topology.Port) topology.Function
	ExtPortSetting(block int) uint32
}

// Channel is a single MFS channel in UART mode.
type Channel struct {
	Verbose bool
	Output  io.Writer // Serial line output. Writes are best effort.

	ch     int
	table  *topology.Table
	pins   Pins
	rxPort topology.Port
	txPort topology.Port

	smr  uint8
	scr  uint8
	escr uint8
	ssr  uint8
	bgr0 uint8
	bgr1 uint8
	isba uint8
	ismk uint8
	fcr0 uint8
	fcr1 uint8

	fifo   [2]*Fifo // FIFO banks 1 and 2.
	txBank int
	rxBank int

	irqRx irq.Edge
	irqTx irq.Edge
}

var _ chardev.Receiver = (*Channel)(nil)

// NewChannel creates a UART channel whose pins are found in the topology
// table. Channels 4 and up have 16 byte FIFO banks.
func NewChannel(ch int, table *topology.Table, pins Pins) (c *Channel) {
	capacity := 1
	if HasFifo(ch) {
		capacity = FIFO_MAX
	}

	c = &Channel{
		ch:    ch,
		table: table,
		pins:  pins,
		fifo:  [2]*Fifo{NewFifo(capacity), NewFifo(capacity)},
	}

	c.rxPort, _ = table.UartPort(ch, false)
	c.txPort, _ = table.UartPort(ch, true)

	c.Reset()

	return
}

// HasFifo returns true if a channel number has hardware FIFO banks.
func HasFifo(ch int) bool {
	return ch >= 4
}

// Connect the receive and transmit interrupt lines.
func (c *Channel) Connect(rx irq.Line, tx irq.Line) {
	c.irqRx.Line = rx
	c.irqTx.Line = tx
}

// Number returns the channel number.
func (c *Channel) Number() int {
	return c.ch
}

// Reset the channel registers and FIFOs.
func (c *Channel) Reset() {
	c.smr = 0
	c.scr = 0
	c.escr = 0
	c.ssr = SSR_TDRE | SSR_TBI
	c.bgr0 = 0
	c.bgr1 = 0
	c.isba = 0
	c.ismk = 0
	c.fcr0 = 0
	c.fcr1 = FCR1_FDRQ
	c.txBank = 0
	c.rxBank = 1
	c.fifo[0].Clear(1)
	c.fifo[1].Clear(1)

	c.updateIrq()
}

// Fifo returns FIFO bank 1 or 2.
func (c *Channel) Fifo(bank int) *Fifo {
	if bank < 1 || bank > 2 {
		return nil
	}
	return c.fifo[bank-1]
}

// online returns the bank that is enabled, if any.
func (c *Channel) online(bank int) *Fifo {
	enable := [2]uint8{FCR0_FE1, FCR0_FE2}[bank]
	if c.fcr0&enable == 0 {
		return nil
	}
	return c.fifo[bank]
}

func (c *Channel) onlineTx() *Fifo {
	return c.online(c.txBank)
}

func (c *Channel) onlineRx() *Fifo {
	return c.online(c.rxBank)
}

func (c *Channel) isError() bool {
	return c.ssr&SSR_ERROR != 0
}

// routed returns true if the board pin of the receive or transmit line is
// configured for this channel.
func (c *Channel) routed(tx bool) bool {
	port := c.rxPort
	if tx {
		port = c.txPort
	}

	if _, ok := c.table.UartPort(c.ch, tx); !ok {
		return false
	}

	if c.table.PortFunction(port) != c.pins.PortSetting(port) {
		return false
	}

	setting := c.pins.ExtPortSetting(topology.UartEpfr(c.ch))

	return topology.CheckExtportUart(c.ch, tx, setting)
}

// emit sends bytes to the serial line, if serial output is enabled and the
// transmit pin is routed.
func (c *Channel) emit(data []byte) {
	if len(data) == 0 {
		return
	}

	if c.smr&SMR_SOE == 0 {
		if c.Verbose {
			log.Printf("uart%d: tx %q dropped, SOE not set", c.ch, data)
		}
		return
	}

	if !c.routed(true) {
		if c.Verbose {
			log.Printf("uart%d: tx %q dropped, %v not routed", c.ch, data, c.table.PinFunc(c.txPort))
		}
		return
	}

	if c.Output != nil {
		// A partial write is not retried.
		c.Output.Write(data)
	}
}

func (c *Channel) setTxIdle() {
	c.ssr |= SSR_TDRE | SSR_TBI
	c.fcr1 |= FCR1_FDRQ
}

// flush sends the contents of the online transmit FIFO.
func (c *Channel) flush() {
	fifo := c.onlineTx()
	if fifo == nil {
		return
	}

	// Drained bytes stay reloadable until overwritten.
	c.emit(slices.Collect(fifo.Drain()))
	c.setTxIdle()
}

// TxLevel returns the live level of the transmit interrupt.
func (c *Channel) TxLevel() bool {
	return (c.scr&SCR_TIE != 0 && c.ssr&SSR_TDRE != 0) ||
		(c.scr&SCR_TBIE != 0 && c.ssr&SSR_TBI != 0) ||
		(c.fcr1&FCR1_FTIE != 0 && c.fcr1&FCR1_FDRQ != 0)
}

// RxLevel returns the live level of the receive interrupt.
func (c *Channel) RxLevel() bool {
	return c.scr&SCR_RIE != 0 && c.ssr&(SSR_RDRF|SSR_ERROR) != 0
}

func (c *Channel) updateIrq() {
	c.irqTx.SetLevel(c.TxLevel())
	c.irqRx.SetLevel(c.RxLevel())
}

// ReadReg reads a byte register.
func (c *Channel) ReadReg(offset uint32) (value uint8, ok bool) {
	ok = true

	switch offset & 0xff {
	case REG_SMR:
		value = c.smr
	case REG_SCR:
		value = c.scr &^ SCR_UPCL
	case REG_ESCR:
		value = c.escr
	case REG_SSR:
		value = c.ssr &^ SSR_REC
	case REG_RDR:
		value = c.readData()
	case REG_RDR_HI:
		// Nine bit data is not supported.
	case REG_BGR0:
		value = c.bgr0
	case REG_BGR1:
		value = c.bgr1
	case REG_ISBA:
		value = c.isba
	case REG_ISMK:
		value = c.ismk
	case REG_FCR0:
		value = c.fcr0
	case REG_FCR1:
		value = c.fcr1
	case REG_FBYTE1:
		value = uint8(c.fifo[0].Count())
	case REG_FBYTE2:
		value = uint8(c.fifo[1].Count())
	default:
		ok = false
		return
	}

	if c.Verbose {
		log.Printf("uart%d: 0x%02x -> 0x%02x", c.ch, offset&0xff, value)
	}

	c.updateIrq()

	return
}

func (c *Channel) readData() (value uint8) {
	if fifo := c.onlineRx(); fifo != nil {
		value, _ = fifo.Pop()
		if fifo.Count() == 0 {
			c.ssr &^= SSR_RDRF
		}
		return
	}

	fifo := c.fifo[c.rxBank]
	value = fifo.Data[0]
	fifo.Clear(fifo.Trigger)
	c.ssr &^= SSR_RDRF

	return
}

// WriteReg writes a byte register.
func (c *Channel) WriteReg(offset uint32, value uint8) (ok bool) {
	ok = true

	if c.Verbose {
		log.Printf("uart%d: 0x%02x <- 0x%02x", c.ch, offset&0xff, value)
	}

	switch offset & 0xff {
	case REG_SMR:
		c.writeSmr(value)
	case REG_SCR:
		if value&SCR_UPCL != 0 {
			c.fifo[0].Clear(c.fifo[0].Trigger)
			c.fifo[1].Clear(c.fifo[1].Trigger)
		}
		c.scr = value &^ SCR_UPCL
	case REG_ESCR:
		c.unsupported(value, ESCR_FLWEN, "ESCR FLWEN")
		c.unsupported(value, ESCR_ESBL, "ESCR ESBL")
		c.unsupported(value, ESCR_INV, "ESCR INV")
		c.unsupported(value, ESCR_PEN, "ESCR PEN")
		c.unsupported(value, ESCR_P, "ESCR P")
		c.unsupported(value, ESCR_L, "ESCR L2-0")
		c.escr = value
	case REG_SSR:
		if value&SSR_REC != 0 {
			c.ssr &^= SSR_ERROR
		}
	case REG_TDR:
		c.writeData(value)
	case REG_RDR_HI:
		// Nine bit data is not supported.
	case REG_BGR0:
		c.bgr0 = value
	case REG_BGR1:
		c.unsupported(value, BGR1_EXT, "BGR1 EXT")
		c.bgr1 = value
	case REG_ISBA:
		c.isba = value
	case REG_ISMK:
		c.ismk = value
	case REG_FCR0:
		c.writeFcr0(value)
	case REG_FCR1:
		c.writeFcr1(value)
	case REG_FBYTE1:
		c.fifo[0].SetTrigger(int(value))
	case REG_FBYTE2:
		c.fifo[1].SetTrigger(int(value))
	default:
		ok = false
		return
	}

	c.updateIrq()

	return
}

func (c *Channel) unsupported(value uint8, mask uint8, name string) {
	if value&mask != 0 && c.Verbose {
		log.Printf("uart%d: %v is not supported", c.ch, name)
	}
}

func (c *Channel) writeSmr(value uint8) {
	mode := (value & SMR_MD_MASK) >> SMR_MD_SHIFT
	if mode != MODE_NORMAL && mode != MODE_MULTI {
		translate.Logf("uart%d: invalid mode (MD2-0 = %d)", c.ch, mode)
	}

	c.unsupported(value, SMR_WUCR, "SMR WUCR")
	c.unsupported(value, SMR_SBL, "SMR SBL")
	c.unsupported(value, SMR_BDS, "SMR BDS")

	c.smr = value
}

func (c *Channel) writeData(value uint8) {
	if c.scr&SCR_TXE == 0 {
		return
	}

	fifo := c.onlineTx()
	if fifo == nil {
		c.emit([]byte{value})
		c.setTxIdle()
		return
	}

	if err := fifo.Push(value); err != nil {
		if c.Verbose {
			log.Printf("uart%d: tx 0x%02x: %v", c.ch, value, err)
		}
		return
	}

	if fifo.Lost {
		c.fcr0 |= FCR0_FLST
	}

	if !fifo.Full() {
		c.fcr1 &^= FCR1_FDRQ
	}
	c.ssr &^= SSR_TDRE | SSR_TBI

	if fifo.Triggered() {
		c.flush()
	}
}

func (c *Channel) writeFcr0(value uint8) {
	tx := c.fifo[c.txBank]

	if value&FCR0_FLD != 0 {
		tx.Reload()
	}
	if value&FCR0_FSET != 0 {
		tx.Save()
	}

	for bank, fcl := range [2]uint8{FCR0_FCL1, FCR0_FCL2} {
		if value&fcl == 0 {
			continue
		}
		c.fifo[bank].Clear(c.fifo[bank].Trigger)
		if bank == c.txBank {
			c.fcr0 &^= FCR0_FLST
		}
	}

	enable := value & (FCR0_FE1 | FCR0_FE2)
	for bank, fe := range [2]uint8{FCR0_FE1, FCR0_FE2} {
		if enable&fe != 0 && bank == c.rxBank && c.isError() {
			if c.Verbose {
				log.Printf("uart%d: FE%d refused, receive error latched", c.ch, bank+1)
			}
			enable &^= fe
		}
	}

	c.fcr0 = (c.fcr0 & FCR0_FLST) | enable

	fe := [2]uint8{FCR0_FE1, FCR0_FE2}[c.txBank]
	if enable&fe != 0 && tx.Count() > 0 && c.scr&SCR_TXE != 0 {
		c.flush()
	}
}

func (c *Channel) writeFcr1(value uint8) {
	c.unsupported(value, FCR1_FRIIE, "FCR1 FRIIE")

	value |= FCR1_FDRQ

	if value&FCR1_FSEL != 0 {
		c.txBank, c.rxBank = 1, 0
	} else {
		c.txBank, c.rxBank = 0, 1
	}

	c.fcr1 = value
}

// CanReceive returns the number of bytes the channel can accept from the
// serial line.
func (c *Channel) CanReceive() int {
	if c.scr&SCR_RXE == 0 || !c.routed(false) {
		return 0
	}

	if fifo := c.onlineRx(); fifo != nil && HasFifo(c.ch) {
		return FIFO_MAX - fifo.Count()
	}

	// The host line waits for the receive data register to be read.
	if c.ssr&SSR_RDRF != 0 {
		return 0
	}

	return 1
}

// Receive accepts bytes from the serial line, returning the number taken.
func (c *Channel) Receive(p []byte) (n int) {
	if len(p) == 0 {
		return
	}

	if fifo := c.onlineRx(); fifo != nil {
		for _, value := range p {
			if fifo.Push(value) != nil {
				break
			}
			n++
			if fifo.Triggered() {
				c.ssr |= SSR_RDRF
			}
		}
	} else {
		n = 1
		if c.ssr&SSR_RDRF != 0 {
			// Overrun: the unread byte is kept, the new one is lost.
			c.ssr |= SSR_ORE
			if c.Verbose {
				log.Printf("uart%d: rx %q overrun", c.ch, p[:n])
			}
			c.updateIrq()
			return
		}
		fifo := c.fifo[c.rxBank]
		fifo.Clear(fifo.Trigger)
		fifo.Push(p[0])
		c.ssr |= SSR_RDRF
	}

	if c.Verbose {
		log.Printf("uart%d: rx %q", c.ch, p[:n])
	}

	c.updateIrq()

	return
}
