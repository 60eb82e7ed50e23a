package uart

import (
	"iter"
)

// FIFO_MAX is the depth of a hardware FIFO bank.
const FIFO_MAX = 16

// Fifo is one FIFO bank of a channel: a fixed capacity circular byte buffer
// with a trigger level, and a saved read position for retransmission.
type Fifo struct {
	Capacity int // 1 for channels without a hardware FIFO.
	Trigger  int // Fill level that raises a flush or ready condition.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       [FIFO_MAX]byte

	Lost bool // Saved bytes were overwritten before a Reload.

	saved    bool
	consumed int // Bytes read since the last Save, still reloadable.
}

// NewFifo creates an empty FIFO bank with the given capacity.
func NewFifo(capacity int) (fifo *Fifo) {
	fifo = &Fifo{Capacity: min(max(capacity, 1), FIFO_MAX)}
	fifo.Clear(1)

	return
}

// Clear empties the FIFO and sets its trigger level.
func (fifo *Fifo) Clear(trigger int) {
	fifo.ReadIndex = 0
	fifo.WriteIndex = 0
	fifo.Size = 0
	fifo.Lost = false
	fifo.saved = false
	fifo.consumed = 0
	fifo.SetTrigger(trigger)
}

// SetTrigger sets the trigger level, clamped to [1, Capacity].
func (fifo *Fifo) SetTrigger(trigger int) {
	fifo.Trigger = min(max(trigger, 1), fifo.Capacity)
}

// Count returns the number of bytes held.
func (fifo *Fifo) Count() int {
	return fifo.Size
}

// Full returns true if no more bytes can be pushed.
func (fifo *Fifo) Full() bool {
	return fifo.Size >= fifo.Capacity
}

// Triggered returns true once the fill level reaches the trigger.
func (fifo *Fifo) Triggered() bool {
	return fifo.Size >= fifo.Trigger
}

// Push appends a byte. A full FIFO is left untouched.
func (fifo *Fifo) Push(value byte) (err error) {
	if fifo.Full() {
		err = ErrFifoFull
		return
	}

	if fifo.consumed > 0 && fifo.Size+fifo.consumed >= fifo.Capacity {
		fifo.consumed--
		fifo.Lost = true
	}

	fifo.Data[fifo.WriteIndex] = value

	fifo.WriteIndex++
	if fifo.WriteIndex == fifo.Capacity {
		fifo.WriteIndex = 0
	}
	fifo.Size++

	return
}

// Pop removes the oldest byte.
func (fifo *Fifo) Pop() (value byte, ok bool) {
	if fifo.Size == 0 {
		return
	}

	value = fifo.Data[fifo.ReadIndex]
	ok = true

	fifo.ReadIndex++
	if fifo.ReadIndex == fifo.Capacity {
		fifo.ReadIndex = 0
	}
	fifo.Size--
	if fifo.saved {
		fifo.consumed++
	}

	return
}

// Drain returns an iterator that pops every byte held.
func (fifo *Fifo) Drain() iter.Seq[byte] {
	return func(yield func(value byte) bool) {
		for {
			value, ok := fifo.Pop()
			if !ok {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}

// Save remembers the current read position (FSET).
func (fifo *Fifo) Save() {
	fifo.saved = true
	fifo.consumed = 0
}

// Reload rewinds the read position to the last Save (FLD), making the bytes
// read since then available again. Bytes overwritten since the Save are not
// recovered.
func (fifo *Fifo) Reload() {
	fifo.ReadIndex = (fifo.ReadIndex - fifo.consumed + fifo.Capacity) % fifo.Capacity
	fifo.Size += fifo.consumed
	fifo.consumed = 0
}
