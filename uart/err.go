package uart

import (
	"errors"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

var (
	ErrFifoFull = errors.New(f("fifo full"))
)
