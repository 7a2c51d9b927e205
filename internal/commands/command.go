package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	TypeTask     Type = "task"
	TypeStart    Type = "start"
	TypePause    Type = "pause"
	TypeReset    Type = "reset"
	TypeYes      Type = "yes"
	TypeNo       Type = "no"
	TypeMap      Type = "map"
	TypeNew      Type = "new"
	TypeOpen     Type = "open"
	TypeDelete   Type = "delete"
	TypeLogout   Type = "logout"
	TypeProgress Type = "progress"
)

var aliases = map[string]Type{
	"sim":       TypeYes,
	"nao":       TypeNo,
	"não":       TypeNo,
	"mapa":      TypeMap,
	"tarefa":    TypeTask,
	"novo":      TypeNew,
	"sair":      TypeLogout,
	"progresso": TypeProgress,
}

const maxDuration = 24 * time.Hour

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type TaskArgs struct {
	Label string
}

// DurationArgs carries an optional countdown length; zero means keep the current one.
type DurationArgs struct {
	Seconds int
}

type MapArgs struct {
	Topic string
}

type TargetArgs struct {
	ID string
}

type Command struct {
	Type     Type
	Raw      string
	Task     *TaskArgs
	Duration *DurationArgs
	Map      *MapArgs
	Target   *TargetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeTask:
		label := strings.Join(args, " ")
		if label == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "task requires a label"}
		}
		return Command{Type: typ, Raw: input, Task: &TaskArgs{Label: label}}, nil
	case TypeStart, TypeReset:
		return parseDuration(input, typ, args)
	case TypeMap:
		topic := strings.Join(args, " ")
		if topic == "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "map requires a topic"}
		}
		return Command{Type: typ, Raw: input, Map: &MapArgs{Topic: topic}}, nil
	case TypeOpen, TypeDelete:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one id", typ)}
		}
		return Command{Type: typ, Raw: input, Target: &TargetArgs{ID: args[0]}}, nil
	case TypePause, TypeYes, TypeNo, TypeNew, TypeLogout, TypeProgress:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", typ)}
		}
		return Command{Type: typ, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseDuration(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{Type: typ, Raw: raw, Duration: &DurationArgs{}}, nil
	}
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes at most one duration", typ)}
	}
	d, err := ParseDuration(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
	}
	return Command{Type: typ, Raw: raw, Duration: &DurationArgs{Seconds: int(d / time.Second)}}, nil
}

// ParseDuration accepts bare minutes ("25"), mm:ss ("12:30") or a Go duration ("90s", "1h").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	var d time.Duration
	if mins, err := strconv.Atoi(s); err == nil {
		d = time.Duration(mins) * time.Minute
	} else if m, sec, ok := strings.Cut(s, ":"); ok {
		mm, err1 := strconv.Atoi(m)
		ss, err2 := strconv.Atoi(sec)
		if err1 != nil || err2 != nil || ss < 0 || ss > 59 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d = time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second
	} else {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		d = parsed.Truncate(time.Second)
	}
	if d < time.Second || d > maxDuration {
		return 0, fmt.Errorf("duration %q out of range", s)
	}
	return d, nil
}
