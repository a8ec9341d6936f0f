package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/clockwise/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeDelete Type = "delete"
	TypeMove   Type = "move"
	TypeEdit   Type = "edit"
	TypeTheme  Type = "theme"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
	ErrCodeUnknownTask     ErrorCode = "unknown_task"
	ErrCodeAmbiguousTask   ErrorCode = "ambiguous_task"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs creates a task today; Days pushes the end date forward.
type AddArgs struct {
	Description string
	Start       model.TimeOfDay
	End         model.TimeOfDay
	Days        int
}

type RefArgs struct {
	Ref string
}

type MoveArgs struct {
	From string
	To   string
}

type EditField string

const (
	EditDescription EditField = "desc"
	EditStart       EditField = "start"
	EditEnd         EditField = "end"
)

type EditArgs struct {
	Ref   string
	Field EditField
	Value string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Done   *RefArgs
	Delete *RefArgs
	Move   *MoveArgs
	Edit   *EditArgs
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

	switch head {
	case "add", "new":
		return parseAdd(input, args)
	case "done", "toggle":
		return parseRef(input, TypeDone, args)
	case "delete", "rm", "del":
		return parseRef(input, TypeDelete, args)
	case "move", "mv":
		return parseMove(input, args)
	case "edit":
		return parseEdit(input, args)
	case "theme", "dark":
		return Command{Type: TypeTheme, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a description and HH:MM-HH:MM"}
	}
	start, end, days, err := ParseRange(args[len(args)-1])
	if err != nil {
		return Command{}, err
	}
	desc := strings.TrimSpace(strings.Join(args[:len(args)-1], " "))
	if desc == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a description"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Description: desc, Start: start, End: end, Days: days}}, nil
}

// ParseRange reads "HH:MM-HH:MM", optionally suffixed "+Nd" for an end N days
// after the start.
func ParseRange(s string) (model.TimeOfDay, model.TimeOfDay, int, error) {
	invalid := &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("expected HH:MM-HH:MM[+Nd], got %q", s)}
	body, days := s, 0
	if i := strings.Index(s, "+"); i >= 0 {
		body = s[:i]
		n, err := strconv.Atoi(strings.TrimSuffix(s[i+1:], "d"))
		if err != nil || n < 0 {
			return 0, 0, 0, invalid
		}
		days = n
	}
	a, b, ok := strings.Cut(body, "-")
	if !ok {
		return 0, 0, 0, invalid
	}
	start, err := model.ParseTimeOfDay(a)
	if err != nil {
		return 0, 0, 0, invalid
	}
	end, err := model.ParseTimeOfDay(b)
	if err != nil {
		return 0, 0, 0, invalid
	}
	return start, end, days, nil
}

func parseRef(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires one task reference", typ)}
	}
	cmd := Command{Type: typ, Raw: raw}
	ref := &RefArgs{Ref: args[0]}
	if typ == TypeDone {
		cmd.Done = ref
	} else {
		cmd.Delete = ref
	}
	return cmd, nil
}

func parseMove(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "move requires source and target references"}
	}
	return Command{Type: TypeMove, Raw: raw, Move: &MoveArgs{From: args[0], To: args[1]}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	if len(args) < 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires reference, field and value"}
	}
	field := EditField(strings.ToLower(args[1]))
	switch field {
	case EditDescription, EditStart, EditEnd:
	case "description":
		field = EditDescription
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown field %q (desc|start|end)", args[1])}
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Ref: args[0], Field: field, Value: strings.Join(args[2:], " ")}}, nil
}

// Resolve finds a task by 1-based position in ordered, or by id prefix.
func Resolve(ref string, ordered []model.Task) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(ordered) {
			return model.Task{}, &CommandError{Code: ErrCodeUnknownTask, Message: fmt.Sprintf("no task #%d", n)}
		}
		return ordered[n-1], nil
	}
	var match *model.Task
	for i := range ordered {
		if !strings.HasPrefix(ordered[i].ID, ref) || ref == "" {
			continue
		}
		if match != nil {
			return model.Task{}, &CommandError{Code: ErrCodeAmbiguousTask, Message: fmt.Sprintf("%q matches more than one task", ref)}
		}
		match = &ordered[i]
	}
	if match == nil {
		return model.Task{}, &CommandError{Code: ErrCodeUnknownTask, Message: fmt.Sprintf("no task matches %q", ref)}
	}
	return *match, nil
}
