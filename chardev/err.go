package chardev

import (
	"errors"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

var (
	ErrClosed = errors.New(f("character device closed"))
)

// ErrDevice indicates a host device that could not be opened.
type ErrDevice struct {
	Path string
	Err  error
}

func (err *ErrDevice) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrDevice) Unwrap() error {
	return err.Err
}
