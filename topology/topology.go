// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package topology describes the static pin topology of the FM3 board: which
// package pin drives which GPIO port, and which ports the board assigns to a
// UART (MFS) or external interrupt (EXTI) channel.
//
// Everything in this package is read-only. Lookups are total: a pin, port or
// channel with no assignment reports "not found" rather than failing.
package topology

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/pin"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

// Package is a physical package variant of the MCU.
type Package int

//go:generate go tool stringer -linecomment -type=Package
const (
	LQFP176 = Package(0) // LQFP176
	LQFP144 = Package(1) // LQFP144
)

const (
	PACKAGE_COUNT = 2   // Number of supported packages.
	PORT_COUNT    = 256 // Number of GPIO ports (16 blocks of 16 bits).
	BLOCK_COUNT   = 16  // Number of GPIO port blocks.
	UART_COUNT    = 8   // Number of MFS channel slots.
	EXTI_COUNT    = 32  // Number of external interrupt channels.
)

var packageName = map[Package]string{
	LQFP176: "LQFP176",
	LQFP144: "LQFP144",
}

// ParsePackage returns the package variant for a name like "LQFP176".
func ParsePackage(name string) (pkg Package, err error) {
	for p, n := range packageName {
		if strings.EqualFold(n, name) {
			pkg = p
			return
		}
	}

	err = ErrPackage(name)
	return
}

// Valid returns true if the package is supported.
func (pkg Package) Valid() bool {
	_, ok := packageName[pkg]
	return ok
}

// Name returns the package name.
func (pkg Package) Name() string {
	name, ok := packageName[pkg]
	if !ok {
		return fmt.Sprintf("Package(%d)", int(pkg))
	}
	return name
}

// Function is the function a port is assigned to.
type Function int

//go:generate go tool stringer -linecomment -type=Function
const (
	GPIO       = Function(0) // gpio
	PERIPHERAL = Function(1) // peripheral
)

// Extended port function register (EPFR) block numbers.
const (
	EPFR_SYSTEM = 0
	EPFR_EINT0  = 6  // External interrupts 0-15.
	EPFR_MFS0   = 7  // MFS channels 0-3.
	EPFR_MFS1   = 8  // MFS channels 4-7.
	EPFR_EINT1  = 15 // External interrupts 16-31.
)

// Port is a GPIO port number: (block << 4) | bit.
type Port uint8

// MakePort creates a port number from a block and bit position.
func MakePort(block int, bit int) Port {
	return Port(((block & 0xf) << 4) | (bit & 0xf))
}

// Block returns the port block number.
func (port Port) Block() int {
	return int(port>>4) & 0xf
}

// Bit returns the bit position within the port block.
func (port Port) Bit() int {
	return int(port) & 0xf
}

// Mask returns the bit mask of the port within its block.
func (port Port) Mask() uint32 {
	return 1 << port.Bit()
}

func (port Port) String() string {
	return fmt.Sprintf("P%X%X", port.Block(), port.Bit())
}

// PortFromPin returns the port driven by a package pin.
func PortFromPin(pinNo int, pkg Package) (port Port, ok bool) {
	if !pkg.Valid() || pinNo < 0 {
		translate.Logf("topology: invalid pin-package type(%d) or pin_no(%d)", int(pkg), pinNo)
		return
	}

	for n := range pinTable {
		if pinTable[n][pkg] == pinNo {
			port = Port(n)
			ok = true
			return
		}
	}

	return
}

// Board assignments of the CQ-FRK-FM3 board, by port.
var portAssign = map[Port](struct {
	Func pin.Func
	Uart int
	Exti int
}){
	0x05: {Func: "SIN4_2", Uart: 4, Exti: -1},
	0x06: {Func: "SOT4_2", Uart: 4, Exti: -1},
	0x21: {Func: "SIN0_0", Uart: 0, Exti: -1},
	0x22: {Func: "SOT0_0", Uart: 0, Exti: -1},
	0x48: {Func: "SIN3_2", Uart: 3, Exti: -1},
	0x49: {Func: "SOT3_2", Uart: 3, Exti: -1},
	0x7D: {Func: "INT12_0", Uart: -1, Exti: 12},
	0xF0: {Func: "INT13_0", Uart: -1, Exti: 13},
	0xF1: {Func: "INT14_0", Uart: -1, Exti: 14},
	0xF2: {Func: "INT15_0", Uart: -1, Exti: 15},
}

// Board pins of the UART channels, as {rx, tx}, per package.
var uartPin = [PACKAGE_COUNT][UART_COUNT][2]int{
	LQFP176: {
		{126, 125}, // ch0 (SIN0_0, SOT0_0)
		{-1, -1},
		{-1, -1},
		{58, 59}, // ch3 (SIN3_2, SOT3_2)
		{8, 9},   // ch4 (SIN4_2, SOT4_2)
		{-1, -1},
		{-1, -1},
		{-1, -1},
	},
	LQFP144: {
		{102, 101}, // ch0 (SIN0_0, SOT0_0)
		{-1, -1},
		{-1, -1},
		{50, 51}, // ch3 (SIN3_2, SOT3_2)
		{8, 9},   // ch4 (SIN4_2, SOT4_2)
		{-1, -1},
		{-1, -1},
		{-1, -1},
	},
}

// Board pins of the external interrupt channels, per package.
// INT12_0 to INT15_0 are not bonded out on the LQFP144 package.
var extiPin = [PACKAGE_COUNT][EXTI_COUNT]int{
	LQFP176: {
		-1, -1, -1, -1, -1, -1, -1, -1,
		-1, -1, -1, -1, 78, 81, 82, 83,
		-1, -1, -1, -1, -1, -1, -1, -1,
		-1, -1, -1, -1, -1, -1, -1, -1,
	},
	LQFP144: {
		-1, -1, -1, -1, -1, -1, -1, -1,
		-1, -1, -1, -1, -1, -1, -1, -1,
		-1, -1, -1, -1, -1, -1, -1, -1,
		-1, -1, -1, -1, -1, -1, -1, -1,
	},
}

// Table is the pin topology of a board built with a specific package.
type Table struct {
	pkg Package
}

// New creates the topology table for a package variant.
func New(pkg Package) (table *Table) {
	if !pkg.Valid() {
		translate.Logf("topology: unknown package %d, using %v", int(pkg), LQFP176.Name())
		pkg = LQFP176
	}

	table = &Table{pkg: pkg}

	return
}

// Package returns the package variant of the table.
func (table *Table) Package() Package {
	return table.pkg
}

// PortFromPin returns the port driven by a pin of this package.
func (table *Table) PortFromPin(pinNo int) (port Port, ok bool) {
	return PortFromPin(pinNo, table.pkg)
}

// PinFromPort returns the package pin of a port.
func (table *Table) PinFromPort(port Port) (pinNo int, ok bool) {
	pinNo = pinTable[port][table.pkg]
	ok = pinNo >= 0
	return
}

// PortFunction returns the function the board assigns to a port.
func (table *Table) PortFunction(port Port) Function {
	if _, ok := portAssign[port]; ok {
		return PERIPHERAL
	}
	return GPIO
}

// PinFunc returns the name of the board function of a port.
func (table *Table) PinFunc(port Port) pin.Func {
	assign, ok := portAssign[port]
	if !ok {
		return pin.Func(f("GPIO%v", port))
	}
	return assign.Func
}

// UartChannelOf returns the UART channel a port is assigned to.
func (table *Table) UartChannelOf(port Port) (ch int, ok bool) {
	assign, ok := portAssign[port]
	if !ok || assign.Uart < 0 {
		return -1, false
	}
	return assign.Uart, true
}

// ExtiChannelOf returns the external interrupt channel a port is assigned to.
func (table *Table) ExtiChannelOf(port Port) (ch int, ok bool) {
	assign, ok := portAssign[port]
	if !ok || assign.Exti < 0 {
		return -1, false
	}
	return assign.Exti, true
}

// UartPin returns the board pin of a UART channel's receive or transmit line.
func (table *Table) UartPin(ch int, tx bool) (pinNo int, ok bool) {
	if ch < 0 || ch >= UART_COUNT {
		return -1, false
	}
	index := 0
	if tx {
		index = 1
	}
	pinNo = uartPin[table.pkg][ch][index]
	ok = pinNo >= 0
	return
}

// UartPort returns the port of a UART channel's receive or transmit line.
func (table *Table) UartPort(ch int, tx bool) (port Port, ok bool) {
	pinNo, ok := table.UartPin(ch, tx)
	if !ok {
		return
	}
	return table.PortFromPin(pinNo)
}

// ExtiPin returns the board pin of an external interrupt channel.
func (table *Table) ExtiPin(ch int) (pinNo int, ok bool) {
	if ch < 0 || ch >= EXTI_COUNT {
		return -1, false
	}
	pinNo = extiPin[table.pkg][ch]
	ok = pinNo >= 0
	return
}

// ExtiPort returns the port of an external interrupt channel.
func (table *Table) ExtiPort(ch int) (port Port, ok bool) {
	pinNo, ok := table.ExtiPin(ch)
	if !ok {
		return
	}
	return table.PortFromPin(pinNo)
}

// UartPopulated returns true if the board routes both lines of a UART channel.
func (table *Table) UartPopulated(ch int) bool {
	_, rx := table.UartPort(ch, false)
	_, tx := table.UartPort(ch, true)
	return rx && tx
}

// UartEpfr returns the EPFR block selecting the pins of a UART channel.
func UartEpfr(ch int) int {
	if ch < 4 {
		return EPFR_MFS0
	}
	return EPFR_MFS1
}

// ExtiEpfr returns the EPFR block selecting the pins of an external interrupt channel.
func ExtiEpfr(ch int) int {
	if ch < 16 {
		return EPFR_EINT0
	}
	return EPFR_EINT1
}

// Allowed EPFR field patterns of each external interrupt channel.
var extiPatterns = [EXTI_COUNT][]uint32{
	12: {0, 1}, // INT12_0
	13: {0, 1}, // INT13_0
	14: {0, 1}, // INT14_0
	15: {0, 1}, // INT15_0
}

// CheckExtportExti returns true if the EINT EPFR setting routes the board pin
// of an external interrupt channel to that channel.
func CheckExtportExti(ch int, setting uint32) bool {
	if ch < 0 || ch >= EXTI_COUNT {
		return false
	}

	shift := uint32(ch&0xf) << 1
	field := (setting >> shift) & 3
	for _, pattern := range extiPatterns[ch] {
		if field == pattern {
			return true
		}
	}

	return false
}

// CheckExtportUart returns true if the MFS EPFR setting routes the board pin
// of a UART channel's receive (SIN) or transmit (SOT) line to that channel.
func CheckExtportUart(ch int, tx bool, setting uint32) bool {
	field := func(shift uint) uint32 {
		return (setting >> shift) & 3
	}

	if tx {
		switch ch {
		case 0: // SOT0_0
			return field(6) == 1
		case 3: // SOT3_2
			return field(24) == 3
		case 4: // SOT4_2
			return field(6) == 3
		}
	} else {
		switch ch {
		case 0: // SIN0_0
			return field(4) == 0 || field(4) == 1
		case 3: // SIN3_2
			return field(22) == 3
		case 4: // SIN4_2
			return field(4) == 3
		}
	}

	return false
}
