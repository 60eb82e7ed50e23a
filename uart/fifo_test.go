package uart

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFifo_Basic(t *testing.T) {
	assert := assert.New(t)

	fifo := NewFifo(4)
	assert.Equal(4, fifo.Capacity)
	assert.Equal(1, fifo.Trigger)
	assert.Equal(0, fifo.Count())

	_, ok := fifo.Pop()
	assert.False(ok)

	for n := range 4 {
		assert.NoError(fifo.Push(byte('a' + n)))
	}
	assert.True(fifo.Full())
	assert.ErrorIs(fifo.Push('z'), ErrFifoFull)
	assert.Equal(4, fifo.Count())

	value, ok := fifo.Pop()
	assert.True(ok)
	assert.Equal(byte('a'), value)

	// Wrap around.
	assert.NoError(fifo.Push('e'))
	assert.Equal([]byte("bcde"), slices.Collect(fifo.Drain()))
	assert.Equal(0, fifo.Count())
}

func TestFifo_Trigger(t *testing.T) {
	assert := assert.New(t)

	fifo := NewFifo(FIFO_MAX)

	fifo.SetTrigger(0)
	assert.Equal(1, fifo.Trigger)
	fifo.SetTrigger(100)
	assert.Equal(FIFO_MAX, fifo.Trigger)

	fifo.SetTrigger(3)
	fifo.Push(1)
	fifo.Push(2)
	assert.False(fifo.Triggered())
	fifo.Push(3)
	assert.True(fifo.Triggered())

	fifo.Clear(5)
	assert.Equal(0, fifo.Count())
	assert.Equal(5, fifo.Trigger)

	assert.Equal(1, NewFifo(0).Capacity)
	assert.Equal(FIFO_MAX, NewFifo(99).Capacity)
}

func TestFifo_SaveReload(t *testing.T) {
	assert := assert.New(t)

	fifo := NewFifo(4)
	fifo.Push('a')
	fifo.Push('b')
	fifo.Save()

	fifo.Pop()
	fifo.Pop()
	assert.Equal(0, fifo.Count())

	fifo.Reload()
	assert.Equal(2, fifo.Count())
	assert.False(fifo.Lost)
	assert.Equal([]byte("ab"), slices.Collect(fifo.Drain()))

	// Overwriting saved bytes loses them.
	fifo.Clear(1)
	fifo.Push('a')
	fifo.Push('b')
	fifo.Save()
	fifo.Pop()
	fifo.Pop()
	fifo.Push('c')
	fifo.Push('d')
	assert.False(fifo.Lost)
	fifo.Push('e')
	assert.True(fifo.Lost)

	fifo.Reload()
	assert.Equal([]byte("bcde"), slices.Collect(fifo.Drain()))
}

func FuzzFifo(f *testing.F) {
	f.Add(uint8(16), []byte("0123456789abcdef!"))
	f.Add(uint8(1), []byte("xy"))

	f.Fuzz(func(t *testing.T, capacity uint8, data []byte) {
		fifo := NewFifo(int(capacity))

		var accepted []byte
		for _, value := range data {
			count := fifo.Count()
			snapshot := fifo.Data

			if fifo.Push(value) != nil {
				if fifo.Count() != count || fifo.Data != snapshot {
					t.Fatalf("push to a full fifo changed it")
				}
				continue
			}
			accepted = append(accepted, value)
		}

		if len(accepted) > fifo.Capacity {
			t.Fatalf("accepted %d bytes into capacity %d", len(accepted), fifo.Capacity)
		}

		if got := slices.Collect(fifo.Drain()); !slices.Equal(got, accepted) {
			t.Fatalf("drained %q, expected %q", got, accepted)
		}
	})
}
