// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator assembles the FM3 peripheral blocks into a board: the
// register address map, the interrupt wiring to the host, and the serial
// endpoints of the UART channels.
package emulator

import (
	"errors"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/fm3/chardev"
	"github.com/ezrec/fm3/exti"
	"github.com/ezrec/fm3/gpio"
	"github.com/ezrec/fm3/intc"
	"github.com/ezrec/fm3/internal"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/uart"
)

// Peripheral register windows.
const (
	EXTI_BASE   = 0x40030000
	INTC_BASE   = 0x40031000
	GPIO_BASE   = 0x40033000
	MFS_BASE    = 0x40038000
	WINDOW_SIZE = 0x1000
)

var _emulator_defines = map[string]uint32{
	"EXTI_BASE": EXTI_BASE,
	"INT_BASE":  INTC_BASE,
	"GPIO_BASE": GPIO_BASE,
	"MFS_BASE":  MFS_BASE,
}

// Device is a block of memory mapped registers.
type Device interface {
	Read(offset uint32, width int) uint32
	Write(offset uint32, value uint32, width int)
}

type window struct {
	Name   string
	Base   uint32
	Device Device
}

// Emulator state. Peripheral blocks, their address map, and the host.
type Emulator struct {
	Verbose bool // If set, enables verbose logging.

	Table   *topology.Table
	Cpu     *irq.Recorder // Host interrupt inputs.
	Gpio    *gpio.Bank
	Control *gpio.Control // GPIO text control channel.
	Exti    *exti.Controller
	Mfs     *uart.Mfs
	Intc    *intc.Aggregator

	serial [topology.UART_COUNT]*chardev.Tape
	window []window
	halted bool
}

// NewEmulator creates a board from a configuration. A nil configuration
// selects the defaults.
func NewEmulator(cfg *Config) (emu *Emulator, err error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	err = cfg.Validate()
	if err != nil {
		return
	}

	pkg, _ := topology.ParsePackage(cfg.Package)

	emu = &Emulator{
		Table: topology.New(pkg),
		Cpu:   irq.NewRecorder(intc.IRQ_COUNT),
		Gpio:  gpio.NewBank(),
	}

	emu.Intc = intc.New(emu.Cpu.Lines())
	emu.Exti = exti.New(emu.Table, emu.Gpio,
		emu.Intc.Input(intc.IRQ_EXTI0),
		emu.Intc.Input(intc.IRQ_EXTI1))
	emu.Mfs = uart.New(emu.Table, emu.Gpio)
	emu.Intc.Attach(emu.Exti, emu.Mfs)

	for _, ch := range emu.Mfs.Populated() {
		emu.Mfs.Connect(ch, emu.Intc.Input(intc.MfsRx(ch)), emu.Intc.Input(intc.MfsTx(ch)))

		tape := &chardev.Tape{}
		emu.Mfs.Channel(ch).Output = tape
		emu.serial[ch] = tape
	}

	emu.Control = gpio.NewControl(emu.Gpio, emu.Table, emu.Exti)
	emu.Control.Resume = emu.Resume

	emu.window = []window{
		{Name: "EXTI", Base: EXTI_BASE, Device: emu.Exti},
		{Name: "INT", Base: INTC_BASE, Device: emu.Intc},
		{Name: "GPIO", Base: GPIO_BASE, Device: emu.Gpio},
		{Name: "MFS", Base: MFS_BASE, Device: emu.Mfs},
	}

	emu.SetVerbose(cfg.Verbose)

	return
}

// SetVerbose sets the verbose flag of the board and every block.
func (emu *Emulator) SetVerbose(verbose bool) {
	emu.Verbose = verbose
	emu.Cpu.Verbose = verbose
	emu.Gpio.Verbose = verbose
	emu.Control.Verbose = verbose
	emu.Exti.Verbose = verbose
	emu.Mfs.SetVerbose(verbose)
	emu.Intc.Verbose = verbose
}

// relocate prefixes the names, and offsets the addresses, of a block's
// register defines.
func relocate(prefix string, base uint32, defines iter.Seq2[string, uint32]) iter.Seq2[string, uint32] {
	return func(yield func(name string, addr uint32) bool) {
		for name, offset := range defines {
			if !yield(prefix+name, base+offset) {
				return
			}
		}
	}
}

// Defines returns an iterator over the absolute addresses of all registers.
func (emu *Emulator) Defines() iter.Seq2[string, uint32] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		relocate("EXTI_", EXTI_BASE, exti.Defines()),
		relocate("INT_", INTC_BASE, intc.Defines()),
		relocate("GPIO_", GPIO_BASE, gpio.Defines()),
		relocate("", MFS_BASE, uart.Defines()),
	)
}

// lookup finds the window containing an address.
func (emu *Emulator) lookup(addr uint32) (win *window, offset uint32, ok bool) {
	for n := range emu.window {
		win = &emu.window[n]
		if addr >= win.Base && addr < win.Base+WINDOW_SIZE {
			offset = addr - win.Base
			ok = true
			return
		}
	}

	return
}

// Read a register.
func (emu *Emulator) Read(addr uint32, width int) (value uint32, err error) {
	if !internal.ValidWidth(width) {
		err = &ErrBus{Addr: addr, Width: width, Err: ErrWidth}
		return
	}

	win, offset, ok := emu.lookup(addr)
	if !ok {
		err = &ErrBus{Addr: addr, Width: width, Err: ErrUnmapped}
		return
	}

	value = win.Device.Read(offset, width)

	return
}

// Write a register.
func (emu *Emulator) Write(addr uint32, value uint32, width int) (err error) {
	if !internal.ValidWidth(width) {
		err = &ErrBus{Addr: addr, Width: width, Err: ErrWidth}
		return
	}

	win, offset, ok := emu.lookup(addr)
	if !ok {
		err = &ErrBus{Addr: addr, Width: width, Err: ErrUnmapped}
		return
	}

	win.Device.Write(offset, value, width)

	return
}

// Serial returns the endpoint of a populated UART channel, or nil.
func (emu *Emulator) Serial(ch int) *chardev.Tape {
	if ch < 0 || ch >= topology.UART_COUNT {
		return nil
	}
	return emu.serial[ch]
}

// Poll delivers pending serial input to the UART channels, returning the
// number of bytes delivered.
func (emu *Emulator) Poll() (n int, err error) {
	for _, ch := range emu.Mfs.Populated() {
		var got int
		got, err = emu.serial[ch].Feed(emu.Mfs.Channel(ch))
		n += got
		if errors.Is(err, chardev.ErrClosed) {
			err = nil
		}
		if err != nil {
			err = &ErrSerial{Channel: ch, Err: err}
			return
		}
	}

	return
}

// Halt stops the host, until resumed from the GPIO control channel.
func (emu *Emulator) Halt() {
	if emu.Verbose {
		log.Printf("emulator: halted")
	}
	emu.halted = true
}

// Resume a halted host.
func (emu *Emulator) Resume() {
	if emu.Verbose && emu.halted {
		log.Printf("emulator: resumed")
	}
	emu.halted = false
}

// Halted returns true while the host is halted.
func (emu *Emulator) Halted() bool {
	return emu.halted
}

// Reset every block to its power-on state. Serial endpoints stay attached.
func (emu *Emulator) Reset() {
	emu.Gpio.Reset()
	emu.Control.Reset()
	emu.Exti.Reset()
	emu.Mfs.Reset()
	emu.Intc.Reset()
	emu.Cpu.Reset()
	emu.halted = false
}

// Close the serial endpoints.
func (emu *Emulator) Close() (err error) {
	for _, tape := range emu.serial {
		if tape != nil {
			tape.Close()
		}
	}

	return
}
