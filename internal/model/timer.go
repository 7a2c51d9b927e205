package model

import (
	"errors"
	"fmt"
)

var ErrInvalidTimerState = errors.New("model: invalid timer state")

type TimerState string

const (
	TimerIdle      TimerState = "IDLE"
	TimerRunning   TimerState = "RUNNING"
	TimerPaused    TimerState = "PAUSED"
	TimerCompleted TimerState = "COMPLETED"
)

func (s TimerState) IsValid() bool {
	switch s {
	case TimerIdle, TimerRunning, TimerPaused, TimerCompleted:
		return true
	default:
		return false
	}
}

const DefaultFocusSeconds = 25 * 60

// TimerRecord is the persisted timer. EndTime is epoch milliseconds and is only set while running.
type TimerRecord struct {
	EndTime             *int64     `json:"endTime"`
	RemainingWhenPaused int        `json:"remainingWhenPaused"`
	InitialTime         int        `json:"initialTime"`
	State               TimerState `json:"state"`
	Task                string     `json:"task"`
	SessionsCompleted   int        `json:"sessionsCompleted"`
}

func (r TimerRecord) Validate() error {
	if !r.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTimerState, r.State)
	}
	if r.State == TimerRunning && r.EndTime == nil {
		return errors.New("model: running timer requires end time")
	}
	if r.InitialTime < 0 || r.RemainingWhenPaused < 0 || r.SessionsCompleted < 0 {
		return errors.New("model: timer durations and counters must be non-negative")
	}
	return nil
}
