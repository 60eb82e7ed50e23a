package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/fm3/topology"
)

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadConfig(strings.NewReader(`
package = "LQFP144"
verbose = true
gpio_control = "/dev/ttyS1"

[[serial]]
channel = 0
input = "-"
output = "uart0.log"

[[serial]]
channel = 4
device = "/dev/ttyUSB0"
`))
	assert.NoError(err)
	assert.Equal("LQFP144", cfg.Package)
	assert.True(cfg.Verbose)
	assert.Equal("/dev/ttyS1", cfg.GpioControl)
	assert.Equal([]Serial{
		{Channel: 0, Input: "-", Output: "uart0.log"},
		{Channel: 4, Device: "/dev/ttyUSB0"},
	}, cfg.Serial)

	// Defaults.
	cfg, err = LoadConfig(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		Text string
		Key  string
		Err  error
	}){
		{Text: `package = "LQFP64"`, Key: "package", Err: topology.ErrPackage("LQFP64")},
		{Text: `baud = 9600`, Key: "baud", Err: ErrUnknownKey},
		{Text: "[[serial]]\nchannel = 1", Key: "serial", Err: ErrChannel},
		{Text: "[[serial]]\nchannel = 3\n[[serial]]\nchannel = 3", Key: "serial", Err: ErrDuplicate},
		{Text: "[[serial]]\nchannel = 0\ninput = \"-\"", Key: "serial", Err: ErrStdin},
		{Text: "gpio_control = \"/dev/ttyS1\"\n[[serial]]\nchannel = 0\ninput = \"-\"\n[[serial]]\nchannel = 4\ninput = \"-\"", Key: "serial", Err: ErrStdin},
	}

	for _, tc := range table {
		cfg, err := LoadConfig(strings.NewReader(tc.Text))
		assert.Nil(cfg, tc.Text)
		var cerr *ErrConfig
		if assert.True(errors.As(err, &cerr), tc.Text) {
			assert.Equal(tc.Key, cerr.Key, tc.Text)
		}
		assert.ErrorIs(err, tc.Err, tc.Text)
	}

	// Syntax errors.
	_, err := LoadConfig(strings.NewReader(`package = `))
	var cerr *ErrConfig
	assert.True(errors.As(err, &cerr))
	assert.Empty(cerr.Key)
}
