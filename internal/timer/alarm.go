package timer

import (
	"io"
)

// Alarm is the audible cue fired once when a countdown reaches zero.
type Alarm interface {
	Ring() error
}

type AlarmFunc func() error

func (f AlarmFunc) Ring() error { return f() }

// BellAlarm rings the terminal bell.
type BellAlarm struct {
	W io.Writer
}

func (b BellAlarm) Ring() error {
	if b.W == nil {
		return nil
	}
	_, err := io.WriteString(b.W, "\a")
	return err
}

// Alarms rings every alarm in order and returns the first error.
type Alarms []Alarm

func (a Alarms) Ring() error {
	var first error
	for _, alarm := range a {
		if err := alarm.Ring(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
