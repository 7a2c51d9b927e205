package commands

import (
	"errors"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/task Escrever a landing page", TypeTask},
		{"start", TypeStart},
		{"/start 50", TypeStart},
		{"pause", TypePause},
		{"reset 5", TypeReset},
		{"yes", TypeYes},
		{"/não", TypeNo},
		{"sim", TypeYes},
		{"map Funil de vendas", TypeMap},
		{"new", TypeNew},
		{"open 3f2a", TypeOpen},
		{"delete 3f2a", TypeDelete},
		{"LOGOUT", TypeLogout},
		{"progress", TypeProgress},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseArguments(t *testing.T) {
	cmd, err := Parse("/task  Ligar para  3 leads ")
	if err != nil {
		t.Fatalf("parse task: %v", err)
	}
	if cmd.Task.Label != "Ligar para 3 leads" {
		t.Fatalf("unexpected label: %q", cmd.Task.Label)
	}

	cmd, err = Parse("start")
	if err != nil {
		t.Fatalf("parse start: %v", err)
	}
	if cmd.Duration == nil || cmd.Duration.Seconds != 0 {
		t.Fatalf("bare start should resume, got %+v", cmd.Duration)
	}

	cmd, err = Parse("reset 12:30")
	if err != nil {
		t.Fatalf("parse reset: %v", err)
	}
	if cmd.Duration.Seconds != 750 {
		t.Fatalf("unexpected seconds: %d", cmd.Duration.Seconds)
	}

	cmd, err = Parse("map Rotina matinal")
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	if cmd.Map.Topic != "Rotina matinal" {
		t.Fatalf("unexpected topic: %q", cmd.Map.Topic)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"25", 25 * time.Minute, true},
		{"0:45", 45 * time.Second, true},
		{"90s", 90 * time.Second, true},
		{"1h", time.Hour, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"3:75", 0, false},
		{"48h", 0, false},
		{"soon", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDuration(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDuration(%q) expected error, got %v", tc.in, got)
		}
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{"task", "map", "open", "open a b", "pause now", "start 5 10", "start never", ""} {
		_, err := Parse(in)
		if err == nil {
			t.Fatalf("parse %q: expected error", in)
		}
		var ce *CommandError
		if !errors.As(err, &ce) {
			t.Fatalf("parse %q: expected CommandError, got %T", in, err)
		}
		if in == "" && ce.Code != ErrCodeEmptyInput {
			t.Fatalf("empty input code = %s", ce.Code)
		}
		if in != "" && ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q code = %s, want %s", in, ce.Code, ErrCodeInvalidArgument)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/snooze overdue 2 days")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/task write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Task: func(a TaskArgs) (Result, error) {
			called = true
			if a.Label != "write docs" {
				t.Fatalf("unexpected label: %q", a.Label)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteResolveCarriesOutcome(t *testing.T) {
	var got []bool
	handlers := Handlers{Resolve: func(success bool) (Result, error) {
		got = append(got, success)
		return Result{}, nil
	}}
	for _, in := range []string{"yes", "no"} {
		cmd, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if _, err := Execute(cmd, handlers); err != nil {
			t.Fatalf("execute %q: %v", in, err)
		}
	}
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("unexpected resolve calls: %v", got)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("progress")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
