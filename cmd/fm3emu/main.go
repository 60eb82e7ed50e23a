// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/ezrec/fm3/chardev"
	"github.com/ezrec/fm3/emulator"
	"github.com/ezrec/fm3/script"
)

// POLL_INTERVAL is how often queued serial input is offered to the UARTs.
const POLL_INTERVAL = time.Millisecond

const CONTROL = -1

type chunk struct {
	Target int // UART channel, or CONTROL.
	Data   []byte
	EOF    bool
}

func openInput(path string) (r io.ReadCloser, err error) {
	if path == "-" {
		r = os.Stdin
		return
	}
	return os.Open(path)
}

func openOutput(path string) (w io.WriteCloser, err error) {
	if path == "-" {
		w = os.Stdout
		return
	}
	return os.Create(path)
}

func main() {
	var config string
	var pkg string
	var scriptFile string
	var control string
	var verbose bool

	flag.StringVar(&config, "c", "", ".toml board configuration")
	flag.StringVar(&pkg, "p", "", "MCU package (LQFP176 or LQFP144)")
	flag.StringVar(&scriptFile, "s", "", ".star scenario script to run")
	flag.StringVar(&control, "g", "", "GPIO control channel ('stdio' or a device)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		inf, err := os.Open(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
		cfg, err = emulator.LoadConfig(inf)
		inf.Close()
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	if len(pkg) != 0 {
		cfg.Package = pkg
	}
	if len(control) != 0 {
		cfg.GpioControl = control
	}
	cfg.Verbose = cfg.Verbose || verbose

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer emu.Close()

	if len(scriptFile) != 0 {
		sc := script.New(emu)
		sc.Verbose = cfg.Verbose
		sc.Output = os.Stdout
		_, err = sc.Exec(scriptFile, nil)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	events := make(chan chunk)
	forward := func(target int, r io.Reader) {
		go func() {
			for data := range chardev.Pump(r) {
				events <- chunk{Target: target, Data: data}
			}
			events <- chunk{Target: target, EOF: true}
		}()
	}

	for _, serial := range cfg.Serial {
		tape := emu.Serial(serial.Channel)

		if len(serial.Device) != 0 {
			dev, err := chardev.OpenDevice(serial.Device)
			if err != nil {
				log.Fatal(err)
			}
			defer dev.Close()
			tape.Output = dev
			forward(serial.Channel, dev)
			continue
		}

		if len(serial.Output) != 0 {
			ouf, err := openOutput(serial.Output)
			if err != nil {
				log.Fatalf("%v: %v", serial.Output, err)
			}
			defer ouf.Close()
			tape.Output = ouf
		}

		if len(serial.Input) != 0 {
			inf, err := openInput(serial.Input)
			if err != nil {
				log.Fatalf("%v: %v", serial.Input, err)
			}
			defer inf.Close()
			forward(serial.Channel, inf)
		}
	}

	var ctlIn io.Reader = os.Stdin
	var ctlOut io.Writer = os.Stdout
	if cfg.GpioControl != "stdio" {
		dev, err := chardev.OpenDevice(cfg.GpioControl)
		if err != nil {
			log.Fatal(err)
		}
		defer dev.Close()
		ctlIn, ctlOut = dev, dev
	}

	ctlTape := &chardev.Tape{}
	emu.Control.Output = ctlOut
	emu.Gpio.Status = ctlOut
	forward(CONTROL, ctlIn)

	ticker := time.NewTicker(POLL_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch {
			case ev.Target == CONTROL && ev.EOF:
				return
			case ev.Target == CONTROL:
				ctlTape.Queue(ev.Data)
				for ctlTape.Pending() > 0 {
					ctlTape.Feed(emu.Control)
				}
			case !ev.EOF:
				emu.Serial(ev.Target).Queue(ev.Data)
			}
		case <-ticker.C:
		}

		_, err = emu.Poll()
		if err != nil {
			log.Print(err)
			return
		}
	}
}
