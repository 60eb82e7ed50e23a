package emulator

import (
	"errors"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

var (
	ErrUnmapped   = errors.New(f("address not mapped"))
	ErrWidth      = errors.New(f("invalid access width"))
	ErrUnknownKey = errors.New(f("unknown configuration key"))
	ErrChannel    = errors.New(f("serial channel not populated"))
	ErrDuplicate  = errors.New(f("serial channel assigned twice"))
	ErrStdin      = errors.New(f("standard input read twice"))
)

// ErrBus indicates a failed register access.
type ErrBus struct {
	Addr  uint32
	Width int
	Err   error
}

func (err *ErrBus) Error() string {
	return f("0x%08x (width %v): %v", err.Addr, err.Width, err.Err)
}

func (err *ErrBus) Unwrap() error {
	return err.Err
}

// ErrConfig indicates an invalid board configuration.
type ErrConfig struct {
	Key string
	Err error
}

func (err *ErrConfig) Error() string {
	if len(err.Key) == 0 {
		return f("config: %v", err.Err)
	}
	return f("config: %v: %v", err.Key, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// ErrSerial indicates a failed serial endpoint of a UART channel.
type ErrSerial struct {
	Channel int
	Err     error
}

func (err *ErrSerial) Error() string {
	return f("uart%v: %v", err.Channel, err.Err)
}

func (err *ErrSerial) Unwrap() error {
	return err.Err
}
