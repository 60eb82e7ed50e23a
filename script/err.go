package script

import (
	"errors"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

var (
	ErrChannel = errors.New(f("uart channel not populated"))
	ErrValue   = errors.New(f("value out of range"))
)

// ErrScript indicates the script that failed.
type ErrScript struct {
	File string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("%v: %v", err.File, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
