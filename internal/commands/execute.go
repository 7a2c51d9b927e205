package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Task     func(TaskArgs) (Result, error)
	Start    func(DurationArgs) (Result, error)
	Pause    func() (Result, error)
	Reset    func(DurationArgs) (Result, error)
	Resolve  func(success bool) (Result, error)
	Map      func(MapArgs) (Result, error)
	New      func() (Result, error)
	Open     func(TargetArgs) (Result, error)
	Delete   func(TargetArgs) (Result, error)
	Logout   func() (Result, error)
	Progress func() (Result, error)
}

func missing(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeTask:
		if handlers.Task == nil {
			return Result{}, missing("task")
		}
		return handlers.Task(*cmd.Task)
	case TypeStart:
		if handlers.Start == nil {
			return Result{}, missing("start")
		}
		return handlers.Start(*cmd.Duration)
	case TypePause:
		if handlers.Pause == nil {
			return Result{}, missing("pause")
		}
		return handlers.Pause()
	case TypeReset:
		if handlers.Reset == nil {
			return Result{}, missing("reset")
		}
		return handlers.Reset(*cmd.Duration)
	case TypeYes, TypeNo:
		if handlers.Resolve == nil {
			return Result{}, missing("resolve")
		}
		return handlers.Resolve(cmd.Type == TypeYes)
	case TypeMap:
		if handlers.Map == nil {
			return Result{}, missing("map")
		}
		return handlers.Map(*cmd.Map)
	case TypeNew:
		if handlers.New == nil {
			return Result{}, missing("new")
		}
		return handlers.New()
	case TypeOpen:
		if handlers.Open == nil {
			return Result{}, missing("open")
		}
		return handlers.Open(*cmd.Target)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing("delete")
		}
		return handlers.Delete(*cmd.Target)
	case TypeLogout:
		if handlers.Logout == nil {
			return Result{}, missing("logout")
		}
		return handlers.Logout()
	case TypeProgress:
		if handlers.Progress == nil {
			return Result{}, missing("progress")
		}
		return handlers.Progress()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
