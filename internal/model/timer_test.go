package model

import (
	"errors"
	"testing"
)

func TestTimerRecordValidate(t *testing.T) {
	end := int64(1_700_000_000_000)
	ok := TimerRecord{EndTime: &end, InitialTime: 1500, State: TimerRunning, Task: "Escrever copy"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid record, got: %v", err)
	}

	bad := ok
	bad.State = TimerState("STOPPED")
	if err := bad.Validate(); !errors.Is(err, ErrInvalidTimerState) {
		t.Fatalf("expected ErrInvalidTimerState, got: %v", err)
	}

	bad = ok
	bad.EndTime = nil
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for running record without end time")
	}

	bad = ok
	bad.State = TimerPaused
	bad.RemainingWhenPaused = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative remaining")
	}
}
