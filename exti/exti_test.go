package exti

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	periph "periph.io/x/conn/v3/gpio"

	"github.com/ezrec/fm3/gpio"
	"github.com/ezrec/fm3/irq"
	"github.com/ezrec/fm3/topology"
)

// newRouted creates a controller with INT12 routed to pin 78 (P7D).
func newRouted() (ctl *Controller, bank *gpio.Bank, rec *irq.Recorder) {
	bank = gpio.NewBank()
	rec = irq.NewRecorder(2)
	ctl = New(topology.New(topology.LQFP176), bank, rec.Line(0), rec.Line(1))

	bank.Write(gpio.REG_PFR+0x1c, 1<<13, 4)
	bank.Write(gpio.REG_EPFR+0x18, 1<<24, 4)

	return
}

func TestController_Aggregation(t *testing.T) {
	assert := assert.New(t)

	rec := irq.NewRecorder(2)
	ctl := New(topology.New(topology.LQFP176), gpio.NewBank(), rec.Line(0), rec.Line(1))

	ctl.enable = 0x00FF
	ctl.latch = 0x0001
	ctl.updateIrq()

	assert.True(ctl.IrqStatus(0))
	for ch := 1; ch < topology.EXTI_COUNT; ch++ {
		assert.False(ctl.IrqStatus(ch), "INT%d", ch)
	}
	assert.True(rec.Level(0))
	assert.False(rec.Level(1))
	assert.True(ctl.Level(0))
	assert.False(ctl.Level(1))

	// Channel 7 lands on the second line.
	ctl.latch = 0x0080
	ctl.updateIrq()
	assert.False(rec.Level(0))
	assert.True(rec.Level(1))

	assert.False(ctl.IrqStatus(-1))
	assert.False(ctl.IrqStatus(32))
}

func TestController_PinGate(t *testing.T) {
	assert := assert.New(t)

	bank := gpio.NewBank()
	rec := irq.NewRecorder(2)
	ctl := New(topology.New(topology.LQFP176), bank, rec.Line(0), rec.Line(1))

	// INT12 level-high.
	ctl.Write(REG_ELVR, uint32(LEVEL_HIGH)<<24, 4)
	ctl.Write(REG_ENIR, 1<<12, 4)

	// P7D still a GPIO.
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(0), ctl.Latch())

	// P7D a peripheral, but EPFR06 routes INT12 elsewhere.
	bank.Write(gpio.REG_PFR+0x1c, 1<<13, 4)
	bank.Write(gpio.REG_EPFR+0x18, 2<<24, 4)
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(0), ctl.Latch())

	// Fully routed.
	bank.Write(gpio.REG_EPFR+0x18, 0, 4)
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(1<<12), ctl.Latch())
	assert.True(ctl.IrqStatus(12))
	assert.False(rec.Level(0))
	assert.True(rec.Level(1))

	// Channels without a board pin never latch.
	ctl.SetRequest(0, periph.Low)
	ctl.SetRequest(33, periph.Low)
	assert.Equal(uint32(1<<12), ctl.Latch())
}

func TestController_Level(t *testing.T) {
	assert := assert.New(t)

	ctl, _, rec := newRouted()
	ctl.Write(REG_ELVR, uint32(LEVEL_HIGH)<<24, 4)
	ctl.Write(REG_ENIR, 1<<12, 4)

	ctl.SetRequest(12, periph.High)
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(1<<12), ctl.Latch())
	assert.Equal([]irq.Event{{Line: 1, Level: true}}, rec.Events)

	// A level interrupt cannot be cleared while the level persists.
	ctl.Write(REG_EICL, ^uint32(1<<12), 4)
	assert.Equal(uint32(1<<12), ctl.Latch())

	ctl.SetRequest(12, periph.Low)
	assert.Equal(uint32(0), ctl.Latch())
	assert.False(rec.Level(1))

	ctl.SetRequest(12, periph.Low)
	ctl.Write(REG_EICL, ^uint32(1<<12), 4)
	assert.Equal(uint32(0), ctl.Latch())

	// Level low.
	ctl.Write(REG_ELVR, uint32(LEVEL_LOW)<<24, 4)
	ctl.SetRequest(12, periph.Low)
	assert.Equal(uint32(1<<12), ctl.Latch())
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(0), ctl.Latch())
}

func TestController_Edge(t *testing.T) {
	assert := assert.New(t)

	ctl, _, rec := newRouted()
	ctl.Write(REG_ELVR, uint32(EDGE_RISING)<<24, 4)
	ctl.Write(REG_ENIR, 1<<12, 4)

	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(1<<12), ctl.Latch())
	assert.True(rec.Level(1))

	// Edge requests clear.
	ctl.Write(REG_EICL, ^uint32(1<<12), 4)
	assert.Equal(uint32(0), ctl.Latch())
	assert.False(rec.Level(1))

	ctl.Write(REG_ELVR, uint32(EDGE_FALLING)<<24, 4)
	ctl.SetRequest(12, periph.Low)
	assert.Equal(uint32(1<<12), ctl.Latch())
	ctl.SetRequest(12, periph.High)
	assert.Equal(uint32(0), ctl.Latch())
}

func TestController_Registers(t *testing.T) {
	assert := assert.New(t)

	ctl, _, rec := newRouted()

	assert.Equal(uint32(0xffffffff), ctl.Read(REG_EICL, 4))
	assert.Equal(uint32(0xff), ctl.Read(REG_EICL+3, 1))
	assert.Equal(uint32(0), ctl.Read(REG_NMIRR, 4))
	assert.Equal(uint32(1), ctl.Read(REG_NMICL, 4))
	assert.Equal(uint32(0), ctl.Read(0x40, 4))

	ctl.Write(REG_ELVR1, 0x12345678, 4)
	assert.Equal(uint32(0x12345678), ctl.Read(REG_ELVR1, 4))
	assert.Equal(uint32(0x1234), ctl.Read(REG_ELVR1+2, 2))
	assert.Equal(EDGE_RISING, ctl.Mode(17))
	assert.Equal(EDGE_FALLING, ctl.Mode(18))
	assert.Equal(LEVEL_HIGH, ctl.Mode(19))
	assert.Equal(MODE_UNKNOWN, ctl.Mode(32))

	// Sub-word writes merge into the register.
	ctl.Write(REG_ENIR, 0xffff0000, 4)
	ctl.Write(REG_ENIR+1, 0x10, 1)
	assert.Equal(uint32(0xffff1000), ctl.Read(REG_ENIR, 4))
	assert.Equal(uint32(0xffff1000), ctl.Enable())

	// The latch is not writable.
	ctl.Write(REG_ELVR, uint32(LEVEL_HIGH)<<24, 4)
	ctl.SetRequest(12, periph.High)
	ctl.Write(REG_EIRR, 0, 4)
	assert.Equal(uint32(1<<12), ctl.Read(REG_EIRR, 4))
	assert.True(rec.Level(1))

	ctl.Reset()
	assert.Equal(uint32(0), ctl.Latch())
	assert.Equal(uint32(0), ctl.Enable())
	assert.False(rec.Level(1))

	// Signals are forgotten, so a clear does not re-latch.
	ctl.Write(REG_ELVR, uint32(LEVEL_LOW)<<24, 4)
	ctl.Write(REG_EICL, 0, 4)
	assert.Equal(uint32(0), ctl.Latch())
}

func TestController_RoutingLog(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	defer log.SetOutput(log.Writer())
	log.SetOutput(buf)

	ctl := New(topology.New(topology.LQFP176), gpio.NewBank(), nil, nil)
	ctl.Verbose = true

	ctl.SetRequest(12, periph.High)
	assert.Contains(buf.String(), "INT12_0 [P7D, pin 78]")
	assert.Equal(uint32(0), ctl.Latch())
}
