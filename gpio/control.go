package gpio

import (
	"bytes"
	"io"
	"log"
	"strings"

	periph "periph.io/x/conn/v3/gpio"

	"github.com/ezrec/fm3/chardev"
	"github.com/ezrec/fm3/topology"
	"github.com/ezrec/fm3/translate"
)

const (
	RESPONSE_OK = "OK\r\n"
	RESPONSE_NG = "NG\r\n"

	// CONTROL_LINE_MAX is the longest command line accepted.
	CONTROL_LINE_MAX = 256

	wildcard = 16
)

// Sink receives pin levels forwarded to an external interrupt channel.
type Sink interface {
	SetRequest(ch int, level periph.Level)
}

// Control is the text control channel of the GPIO bank.
//
// Each newline terminated command is answered on Output:
//
//	XY=       query port bit (hex block X, hex bit Y)
//	X*=       query port block
//	**=       query all port blocks
//	XY=H      drive port input high ('L' for low, '-' leaves it)
//	X*=HL..   drive all 16 bits of a block, bit 15 first
//	c, cont   resume a halted host
//
// Responses end in "OK\r\n" or "NG\r\n".
type Control struct {
	Verbose bool
	Output  io.Writer // Responses.
	Resume  func()    // Called on 'c' or 'cont'.

	bank  *Bank
	table *topology.Table
	exti  Sink

	line     []byte
	overflow bool
}

var _ chardev.Receiver = (*Control)(nil)

// NewControl creates the control channel for a bank. The sink may be nil.
func NewControl(bank *Bank, table *topology.Table, exti Sink) (ctl *Control) {
	ctl = &Control{
		bank:  bank,
		table: table,
		exti:  exti,
	}

	return
}

// Reset drops any partial command line.
func (ctl *Control) Reset() {
	ctl.line = nil
	ctl.overflow = false
}

// Write accepts command bytes, executing each complete line.
func (ctl *Control) Write(p []byte) (n int, err error) {
	n = len(p)

	for len(p) > 0 {
		eol := bytes.IndexByte(p, '\n')
		if eol < 0 {
			ctl.line = append(ctl.line, p...)
			if len(ctl.line) > CONTROL_LINE_MAX {
				// Discard until the end of the line.
				ctl.line = nil
				ctl.overflow = true
			}
			return
		}

		ctl.line = append(ctl.line, p[:eol]...)
		p = p[eol+1:]

		line := strings.TrimRight(string(ctl.line), "\r")
		overflow := ctl.overflow
		ctl.line = nil
		ctl.overflow = false
		if overflow || len(line) > CONTROL_LINE_MAX {
			translate.Logf("gpio: control line too long, dropped")
			continue
		}
		if len(line) == 0 {
			continue
		}

		response := ctl.Command(line)
		if ctl.Output != nil {
			io.WriteString(ctl.Output, response)
		}
	}

	return
}

// CanReceive implements chardev.Receiver.
func (ctl *Control) CanReceive() int {
	return 32
}

// Receive implements chardev.Receiver.
func (ctl *Control) Receive(p []byte) int {
	n, _ := ctl.Write(p)
	return n
}

func hexDigit(c byte) (value int) {
	switch {
	case c == '*':
		value = wildcard
	case c >= '0' && c <= '9':
		value = int(c - '0')
	case c >= 'a' && c <= 'f':
		value = int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		value = int(c-'A') + 10
	default:
		value = -1
	}
	return
}

// Command executes one command line, returning the response text.
func (ctl *Control) Command(line string) (response string) {
	if ctl.Verbose {
		log.Printf("gpio: control %q", line)
	}

	if len(line) < 3 || line[2] != '=' {
		return ctl.misc(line)
	}

	block := hexDigit(line[0])
	bit := hexDigit(line[1])
	if block < 0 || bit < 0 {
		return RESPONSE_NG
	}

	var value string
	if fields := strings.Fields(line[3:]); len(fields) > 0 {
		value = strings.ToUpper(fields[0])
	}

	if len(value) == 0 {
		return ctl.query(block, bit) + RESPONSE_OK
	}

	for _, c := range []byte(value) {
		if c != 'H' && c != 'L' && c != '-' {
			return RESPONSE_NG
		}
	}

	// Collect the requested changes, so a rejected bit leaves every port as is.
	type change struct {
		port topology.Port
		set  byte
	}
	var changes []change

	switch {
	case block == wildcard:
		return RESPONSE_NG
	case bit == wildcard:
		if len(value) < 16 {
			return RESPONSE_NG
		}
		for i := range 16 {
			changes = append(changes, change{port: topology.MakePort(block, i), set: value[15-i]})
		}
	default:
		changes = append(changes, change{port: topology.MakePort(block, bit), set: value[0]})
	}

	for _, ch := range changes {
		if ch.set == '-' {
			continue
		}
		if !ctl.controllable(ch.port) {
			return RESPONSE_NG
		}
	}

	for _, ch := range changes {
		if ch.set == '-' {
			continue
		}
		ctl.drive(ch.port, ch.set == 'H')
	}

	return RESPONSE_OK
}

func (ctl *Control) misc(line string) string {
	if line == "c" || strings.EqualFold(line, "cont") {
		if ctl.Resume != nil {
			ctl.Resume()
		}
		return RESPONSE_OK
	}

	return RESPONSE_NG
}

func (ctl *Control) query(block int, bit int) string {
	switch {
	case block == wildcard:
		var sb strings.Builder
		for n := range topology.BLOCK_COUNT {
			sb.WriteString(ctl.bank.BlockStatus(n))
		}
		return sb.String()
	case bit == wildcard:
		return ctl.bank.BlockStatus(block)
	default:
		return ctl.bank.BitStatus(topology.MakePort(block, bit))
	}
}

// controllable returns true if a port may be driven from the control channel.
func (ctl *Control) controllable(port topology.Port) bool {
	if _, ok := ctl.table.UartChannelOf(port); ok {
		translate.Logf("gpio: %v is assigned to MFS", port)
		return false
	}

	if ctl.bank.IsOutput(port) {
		translate.Logf("gpio: %v is a GPIO output, ignored", port)
		return false
	}

	return true
}

func (ctl *Control) drive(port topology.Port, high bool) {
	level := periph.Level(high)

	ctl.bank.SetInput(port, level)

	if ch, ok := ctl.table.ExtiChannelOf(port); ok && ctl.exti != nil {
		ctl.exti.SetRequest(ch, level)
	}
}
