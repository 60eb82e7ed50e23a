package chardev

import (
	"io"

	"github.com/mattn/go-tty"
)

// Device is a host terminal or serial device in raw mode.
type Device struct {
	Path string

	tty     *tty.TTY
	restore func() error
}

var _ io.ReadWriteCloser = (*Device)(nil)

// OpenDevice opens a host terminal device, and switches it to raw mode.
func OpenDevice(path string) (dev *Device, err error) {
	term, err := tty.OpenDevice(path)
	if err != nil {
		err = &ErrDevice{Path: path, Err: err}
		return
	}

	dev = &Device{
		Path:    path,
		tty:     term,
		restore: term.MustRaw(),
	}

	return
}

func (dev *Device) Read(p []byte) (n int, err error) {
	return dev.tty.Input().Read(p)
}

func (dev *Device) Write(p []byte) (n int, err error) {
	return dev.tty.Output().Write(p)
}

// Close restores the terminal mode and closes the device.
func (dev *Device) Close() (err error) {
	if dev.restore != nil {
		err = dev.restore()
		dev.restore = nil
	}

	cerr := dev.tty.Close()
	if err == nil {
		err = cerr
	}

	return
}

// Pump reads from r on its own goroutine, delivering each chunk read on the
// returned channel. The channel is closed when r fails or reaches EOF.
func Pump(r io.Reader) <-chan []byte {
	ch := make(chan []byte)

	go func() {
		defer close(ch)
		for {
			buf := make([]byte, 256)
			n, err := r.Read(buf)
			if n > 0 {
				ch <- buf[:n]
			}
			if err != nil {
				return
			}
		}
	}()

	return ch
}
