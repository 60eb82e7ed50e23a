package emulator

import (
	"io"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/fm3/topology"
)

// Serial describes the backing of a UART channel.
//
// Input and Output are file paths, with "-" for standard input or output.
// Device is a host serial device, used for both directions when set.
type Serial struct {
	Channel int    `toml:"channel"`
	Input   string `toml:"input"`
	Output  string `toml:"output"`
	Device  string `toml:"device"`
}

// Config is the board configuration.
type Config struct {
	Package     string   `toml:"package"`
	Verbose     bool     `toml:"verbose"`
	Serial      []Serial `toml:"serial"`
	GpioControl string   `toml:"gpio_control"` // "stdio", or a device path.
}

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() *Config {
	return &Config{
		Package:     topology.LQFP176.Name(),
		GpioControl: "stdio",
	}
}

// LoadConfig reads a TOML board configuration. Missing keys keep their
// default values.
func LoadConfig(r io.Reader) (cfg *Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		err = &ErrConfig{Err: err}
		cfg = nil
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		err = &ErrConfig{Key: undecoded[0].String(), Err: ErrUnknownKey}
		cfg = nil
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}

	return
}

// Validate checks the package name and the serial channel assignments.
// Standard input may back only one of the serial inputs and the GPIO control
// channel.
func (cfg *Config) Validate() (err error) {
	pkg, err := topology.ParsePackage(cfg.Package)
	if err != nil {
		err = &ErrConfig{Key: "package", Err: err}
		return
	}

	table := topology.New(pkg)

	stdin := 0
	if cfg.GpioControl == "stdio" {
		stdin++
	}

	var seen []int
	for _, serial := range cfg.Serial {
		if !table.UartPopulated(serial.Channel) {
			err = &ErrConfig{Key: "serial", Err: ErrChannel}
			return
		}
		if slices.Contains(seen, serial.Channel) {
			err = &ErrConfig{Key: "serial", Err: ErrDuplicate}
			return
		}
		seen = append(seen, serial.Channel)

		if serial.Input == "-" && len(serial.Device) == 0 {
			stdin++
		}
		if stdin > 1 {
			err = &ErrConfig{Key: "serial", Err: ErrStdin}
			return
		}
	}

	return
}
