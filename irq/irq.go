// Package irq describes the interrupt line contract shared by the peripheral
// blocks, and a recording host interrupt controller used by the board and
// its tests.
package irq

import (
	"log"

	"github.com/ezrec/fm3/translate"
)

var f = translate.From

// Line is a consumer interrupt input.
type Line interface {
	// SetLevel drives the line to the given level.
	SetLevel(level bool)
}

// LineFunc adapts a function to the Line interface.
type LineFunc func(level bool)

func (fn LineFunc) SetLevel(level bool) {
	fn(level)
}

// Edge forwards a level to its Line only when the level changes.
type Edge struct {
	Line  Line
	level bool
}

// SetLevel implements Line.
func (edge *Edge) SetLevel(level bool) {
	if edge.level == level {
		return
	}

	edge.level = level
	if edge.Line != nil {
		edge.Line.SetLevel(level)
	}
}

// Level returns the last forwarded level.
func (edge *Edge) Level() bool {
	return edge.level
}

// Reset forgets the last forwarded level without driving the line.
func (edge *Edge) Reset() {
	edge.level = false
}

// Event is a single level transition seen by a Recorder.
type Event struct {
	Line  int
	Level bool
}

func (ev Event) String() string {
	return f("irq%d=%v", ev.Line, ev.Level)
}

// Recorder stands in for the host CPU's interrupt inputs. It keeps the
// current level of each input, and queues every transition.
type Recorder struct {
	Verbose bool

	Levels []bool
	Events []Event
}

// NewRecorder creates a recorder with count interrupt inputs.
func NewRecorder(count int) (rec *Recorder) {
	rec = &Recorder{
		Levels: make([]bool, count),
	}

	return
}

// Reset clears all levels and pending events.
func (rec *Recorder) Reset() {
	clear(rec.Levels)
	rec.Events = nil
}

// Line returns the n'th interrupt input as a Line.
func (rec *Recorder) Line(n int) Line {
	return LineFunc(func(level bool) {
		rec.SetLevel(n, level)
	})
}

// Lines returns all interrupt inputs.
func (rec *Recorder) Lines() (lines []Line) {
	lines = make([]Line, len(rec.Levels))
	for n := range lines {
		lines[n] = rec.Line(n)
	}

	return
}

// SetLevel records a transition of the n'th input.
func (rec *Recorder) SetLevel(n int, level bool) {
	if n < 0 || n >= len(rec.Levels) {
		translate.Logf("irq: input %d out of range", n)
		return
	}

	if rec.Verbose {
		log.Printf("irq: %v", Event{Line: n, Level: level})
	}

	rec.Levels[n] = level
	rec.Events = append(rec.Events, Event{Line: n, Level: level})
}

// Level returns the current level of the n'th input.
func (rec *Recorder) Level(n int) bool {
	if n < 0 || n >= len(rec.Levels) {
		return false
	}
	return rec.Levels[n]
}

// Await pops the oldest pending event.
func (rec *Recorder) Await() (ev Event, ok bool) {
	if len(rec.Events) > 0 {
		ok = true
		ev = rec.Events[0]
		rec.Events = rec.Events[1:]
	}
	return
}
