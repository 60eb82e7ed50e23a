// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package script runs starlark scenarios against an emulated board.
//
// Every register name of the board is predeclared as its absolute address,
// along with these builtins:
//
//	read(addr, width=4)           register read
//	write(addr, value, width=4)   register write
//	gpio(cmd)                     GPIO control command, returns the response
//	uart_send(ch, data)           queue serial input, returns bytes delivered
//	uart_recv(ch)                 serial output since the last call
//	poll()                        deliver queued serial input
//	irq(n)                        host interrupt line level
//	monitor(n)                    IRQnnMON register value
//	halted(), halt()              host execution state
package script

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/fm3/emulator"
	"github.com/ezrec/fm3/intc"
	"github.com/ezrec/fm3/topology"
)

// Script is a starlark harness bound to an emulator.
type Script struct {
	Verbose bool
	Output  io.Writer // Destination of print(), discarded if nil.

	emu     *emulator.Emulator
	capture [topology.UART_COUNT]*bytes.Buffer
}

// New creates a harness, capturing the serial output of every populated
// UART channel.
func New(emu *emulator.Emulator) (sc *Script) {
	sc = &Script{
		emu: emu,
	}

	for _, ch := range emu.Mfs.Populated() {
		sc.capture[ch] = &bytes.Buffer{}
		emu.Serial(ch).Output = sc.capture[ch]
	}

	return
}

// Predeclared returns the names visible to a script.
func (sc *Script) Predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{}

	for name, addr := range sc.emu.Defines() {
		pred[name] = starlark.MakeUint64(uint64(addr))
	}

	for name, fn := range map[string]func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error){
		"read":      sc.read,
		"write":     sc.write,
		"gpio":      sc.gpio,
		"uart_send": sc.uartSend,
		"uart_recv": sc.uartRecv,
		"poll":      sc.poll,
		"irq":       sc.irq,
		"monitor":   sc.monitor,
		"halted":    sc.halted,
		"halt":      sc.halt,
	} {
		pred[name] = starlark.NewBuiltin(name, fn)
	}

	return
}

// Exec runs a script. The source may be a string, []byte or io.Reader, or
// nil to read the named file.
func (sc *Script) Exec(filename string, src any) (globals starlark.StringDict, err error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			if sc.Output != nil {
				fmt.Fprintln(sc.Output, msg)
			}
		},
	}

	if sc.Verbose {
		log.Printf("script: exec %v", filename)
	}

	opts := syntax.FileOptions{
		TopLevelControl: true,
		GlobalReassign:  true,
		While:           true,
	}
	globals, err = starlark.ExecFileOptions(&opts, thread, filename, src, sc.Predeclared())
	if err != nil {
		err = &ErrScript{File: filename, Err: err}
	}

	return
}

func toUint32(value starlark.Int) (u uint32, err error) {
	u64, ok := value.Uint64()
	if !ok || u64 > 0xffffffff {
		err = ErrValue
		return
	}

	u = uint32(u64)
	return
}

func (sc *Script) read(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr starlark.Int
	width := 4
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &addr, "width?", &width); err != nil {
		return nil, err
	}

	a, err := toUint32(addr)
	if err != nil {
		return nil, err
	}

	value, err := sc.emu.Read(a, width)
	if err != nil {
		return nil, err
	}

	return starlark.MakeUint64(uint64(value)), nil
}

func (sc *Script) write(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var addr, value starlark.Int
	width := 4
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "addr", &addr, "value", &value, "width?", &width); err != nil {
		return nil, err
	}

	a, err := toUint32(addr)
	if err != nil {
		return nil, err
	}

	v, err := toUint32(value)
	if err != nil {
		return nil, err
	}

	err = sc.emu.Write(a, v, width)
	if err != nil {
		return nil, err
	}

	return starlark.None, nil
}

func (sc *Script) gpio(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cmd string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &cmd); err != nil {
		return nil, err
	}

	return starlark.String(sc.emu.Control.Command(cmd)), nil
}

func (sc *Script) channel(ch int) (err error) {
	if sc.emu.Serial(ch) == nil {
		err = fmt.Errorf("uart%d: %w", ch, ErrChannel)
	}
	return
}

func (sc *Script) uartSend(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var ch int
	var data string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &ch, &data); err != nil {
		return nil, err
	}

	if err := sc.channel(ch); err != nil {
		return nil, err
	}

	tape := sc.emu.Serial(ch)
	tape.Queue([]byte(data))

	n, err := tape.Feed(sc.emu.Mfs.Channel(ch))
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(n), nil
}

func (sc *Script) uartRecv(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var ch int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &ch); err != nil {
		return nil, err
	}

	if err := sc.channel(ch); err != nil {
		return nil, err
	}

	data := sc.capture[ch].String()
	sc.capture[ch].Reset()

	return starlark.String(data), nil
}

func (sc *Script) poll(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	n, err := sc.emu.Poll()
	if err != nil {
		return nil, err
	}

	return starlark.MakeInt(n), nil
}

func (sc *Script) irq(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}

	return starlark.Bool(sc.emu.Cpu.Level(n)), nil
}

func (sc *Script) monitor(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}

	if n < 0 || n >= 32 {
		return nil, ErrValue
	}

	value, err := sc.emu.Read(emulator.INTC_BASE+intc.REG_IRQ00MON+uint32(n)*4, 4)
	if err != nil {
		return nil, err
	}

	return starlark.MakeUint64(uint64(value)), nil
}

func (sc *Script) halted(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	return starlark.Bool(sc.emu.Halted()), nil
}

func (sc *Script) halt(_ *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}

	sc.emu.Halt()

	return starlark.None, nil
}
