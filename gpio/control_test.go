package gpio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	periph "periph.io/x/conn/v3/gpio"

	"github.com/ezrec/fm3/topology"
)

type request struct {
	Ch    int
	Level periph.Level
}

type testSink struct {
	requests []request
}

func (sink *testSink) SetRequest(ch int, level periph.Level) {
	sink.requests = append(sink.requests, request{Ch: ch, Level: level})
}

func newTestControl() (bank *Bank, ctl *Control, sink *testSink) {
	bank = NewBank()
	sink = &testSink{}
	ctl = NewControl(bank, topology.New(topology.LQFP176), sink)
	return
}

func TestControl_Query(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, _ := newTestControl()
	bank.Write(REG_DDR+0x0c, 0x8001, 4)
	bank.Write(REG_PDOR+0x0c, 0x8000, 4)

	assert.Equal("3*:H--------------L\r\nOK\r\n", ctl.Command("3*="))
	assert.Equal("30:L\r\nOK\r\n", ctl.Command("30="))
	assert.Equal("3F:H\r\nOK\r\n", ctl.Command("3f="))
	assert.Equal("31:-\r\nOK\r\n", ctl.Command("31="))

	all := ctl.Command("**=")
	lines := strings.Split(all, "\r\n")
	assert.Len(lines, 18)
	assert.Equal("0*:----------------", lines[0])
	assert.Equal("3*:H--------------L", lines[3])
	assert.Equal("F*:----------------", lines[15])
	assert.Equal("OK", lines[16])
}

func TestControl_WriteBit(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, sink := newTestControl()

	assert.Equal(RESPONSE_OK, ctl.Command("10=H"))
	assert.True(bool(bank.Input(0x10)))
	assert.Empty(sink.requests)

	assert.Equal(RESPONSE_OK, ctl.Command("10=l"))
	assert.False(bool(bank.Input(0x10)))

	assert.Equal(RESPONSE_OK, ctl.Command("10=-"))
	assert.False(bool(bank.Input(0x10)))

	// EXTI ports forward the level after updating the input.
	assert.Equal(RESPONSE_OK, ctl.Command("7D=H"))
	assert.True(bool(bank.Input(0x7D)))
	assert.Equal([]request{{Ch: 12, Level: periph.High}}, sink.requests)

	assert.Equal(RESPONSE_OK, ctl.Command("F2=L"))
	assert.Equal(request{Ch: 15, Level: periph.Low}, sink.requests[1])
}

func TestControl_WriteBlock(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, _ := newTestControl()

	assert.Equal(RESPONSE_OK, ctl.Command("1*=HLLLLLLLLLLLLLLH"))
	assert.Equal(uint32(0x8001), bank.Read(REG_PDIR+0x04, 4))

	assert.Equal(RESPONSE_OK, ctl.Command("1*=L--------------L"))
	assert.Equal(uint32(0x0000), bank.Read(REG_PDIR+0x04, 4))

	// Too short.
	assert.Equal(RESPONSE_NG, ctl.Command("1*=HHHH"))
	assert.Equal(uint32(0x0000), bank.Read(REG_PDIR+0x04, 4))
}

func TestControl_Reject(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, sink := newTestControl()
	bank.Write(REG_DDR+0x10, 0x0001, 4)

	table := []string{
		"X0=H", // not hex
		"0G=H", // not hex
		"*0=H", // wildcard block write
		"**=H",
		"10=Q",        // bad level
		"10=HQ",       // bad level
		"21=H",        // UART SIN0
		"06=L",        // UART SOT4
		"40=H",        // GPIO output
		"help",        // unknown
		"co",          // unknown
		"0*=H-------", // short block
	}

	for _, cmd := range table {
		assert.Equal(RESPONSE_NG, ctl.Command(cmd), cmd)
	}

	// A block write touching a rejected bit has no side effect at all.
	assert.Equal(RESPONSE_NG, ctl.Command("4*=HHHHHHHHHHHHHHHH"))
	assert.Equal(uint32(0), bank.Read(REG_PDIR+0x10, 4)&^1)

	assert.Equal(RESPONSE_NG, ctl.Command("0*=HHHHHHHHHHHHHHHH"))
	assert.Equal(uint32(0), bank.Read(REG_PDIR, 4))

	// Leaving the reserved bits alone is fine.
	assert.Equal(RESPONSE_OK, ctl.Command("2*=HHHHHHHHHHHHH--H"))
	assert.Equal(uint32(0xfff9), bank.Read(REG_PDIR+0x08, 4))

	assert.Empty(sink.requests)
}

func TestControl_Resume(t *testing.T) {
	assert := assert.New(t)

	_, ctl, _ := newTestControl()

	resumed := 0
	ctl.Resume = func() { resumed++ }

	assert.Equal(RESPONSE_OK, ctl.Command("c"))
	assert.Equal(RESPONSE_OK, ctl.Command("cont"))
	assert.Equal(RESPONSE_OK, ctl.Command("CONT"))
	assert.Equal(RESPONSE_NG, ctl.Command("C"))
	assert.Equal(3, resumed)

	// No resumer is still acknowledged.
	ctl.Resume = nil
	assert.Equal(RESPONSE_OK, ctl.Command("c"))
}

func TestControl_Write(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, _ := newTestControl()
	out := &bytes.Buffer{}
	ctl.Output = out

	n, err := ctl.Write([]byte("10="))
	assert.NoError(err)
	assert.Equal(3, n)
	assert.Empty(out.String())

	ctl.Write([]byte("H\r\n\r\n11=H\n1"))
	assert.Equal(RESPONSE_OK+RESPONSE_OK, out.String())
	assert.Equal(uint32(0x3), bank.Read(REG_PDIR+0x04, 4))

	out.Reset()
	ctl.Reset()
	assert.Equal(32, ctl.CanReceive())
	assert.Equal(4, ctl.Receive([]byte("xx\r\n")))
	assert.Equal(RESPONSE_NG, out.String())
}

func TestControl_WriteLong(t *testing.T) {
	assert := assert.New(t)

	bank, ctl, _ := newTestControl()
	out := &bytes.Buffer{}
	ctl.Output = out

	long := "12=H" + strings.Repeat(" ", CONTROL_LINE_MAX)

	// In a single chunk.
	ctl.Write([]byte(long + "\n"))
	assert.Empty(out.String())

	// Split, with the newline in the last chunk.
	ctl.Write([]byte(long[:200]))
	ctl.Write([]byte(long[200:] + "\r\n"))
	assert.Empty(out.String())

	// The tail of an overlong line is not a command.
	ctl.Write([]byte(strings.Repeat(" ", CONTROL_LINE_MAX+1)))
	ctl.Write([]byte("13=H\n"))
	assert.Empty(out.String())
	assert.Equal(uint32(0), bank.Read(REG_PDIR+0x04, 4))

	ctl.Write([]byte("14=H\n"))
	assert.Equal(RESPONSE_OK, out.String())
	assert.Equal(uint32(1<<4), bank.Read(REG_PDIR+0x04, 4))
}
