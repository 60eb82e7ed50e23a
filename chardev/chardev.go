// Package chardev provides the byte stream endpoints that back the serial
// channels and the GPIO control channel of the emulator.
package chardev

import (
	"io"
)

// Receiver is a front end that accepts bytes from a character device.
type Receiver interface {
	// CanReceive returns the number of bytes the front end can accept now.
	CanReceive() int
	// Receive pushes bytes to the front end, returning the number accepted.
	Receive(p []byte) int
}

// Tape is a character device backed by a reader and a writer.
//
// Writes are best effort: a missing Output, or an Output error, loses the
// bytes. Input is consumed only as fast as a Receiver accepts it.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	pending []byte
	closed  bool
	eof     bool
}

var _ io.WriteCloser = (*Tape)(nil)

// Reset drops pending input and reopens the tape.
func (tc *Tape) Reset() {
	tc.pending = nil
	tc.closed = false
	tc.eof = false
}

// Write sends bytes to the tape output.
func (tc *Tape) Write(p []byte) (n int, err error) {
	if tc.closed {
		err = ErrClosed
		return
	}

	n = len(p)
	if tc.Output == nil {
		return
	}

	// A partial write is not retried.
	tc.Output.Write(p)

	return
}

// Close the tape. Further writes fail with ErrClosed.
func (tc *Tape) Close() (err error) {
	tc.closed = true
	return
}

// Queue appends bytes to the pending input, ahead of anything still unread
// from Input.
func (tc *Tape) Queue(p []byte) {
	tc.pending = append(tc.pending, p...)
}

// Pending returns the number of queued input bytes not yet accepted.
func (tc *Tape) Pending() int {
	return len(tc.pending)
}

// EOF returns true once Input has been exhausted.
func (tc *Tape) EOF() bool {
	return tc.eof
}

// Feed makes a single delivery of input to a receiver, of at most as many
// bytes as it can accept, returning the number of bytes delivered.
func (tc *Tape) Feed(rx Receiver) (n int, err error) {
	if tc.closed {
		err = ErrClosed
		return
	}

	room := rx.CanReceive()
	if room <= 0 {
		return
	}

	if len(tc.pending) == 0 && tc.Input != nil && !tc.eof {
		buf := make([]byte, room)
		var got int
		got, err = tc.Input.Read(buf)
		tc.pending = append(tc.pending, buf[:got]...)
		if err == io.EOF {
			tc.eof = true
			err = nil
		}
		if err != nil {
			return
		}
	}

	if len(tc.pending) == 0 {
		return
	}

	n = rx.Receive(tc.pending[:min(room, len(tc.pending))])
	tc.pending = tc.pending[n:]

	return
}
