package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/clockwise/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent 09:00-09:30", TypeAdd},
		{"done 2", TypeDone},
		{"rm 3f2a", TypeDelete},
		{"move 1 4", TypeMove},
		{"edit 1 desc call the bank", TypeEdit},
		{"/theme", TypeTheme},
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

func TestParseAddRange(t *testing.T) {
	cmd, err := Parse("add night shift 22:00-06:00+1d")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Description != "night shift" || a.Start.String() != "22:00" || a.End.String() != "06:00" || a.Days != 1 {
		t.Fatalf("unexpected add args: %+v", a)
	}

	for _, bad := range []string{"add lunch", "add lunch noon-1pm", "add lunch 12:00-13:00+xd", "add 12:00-13:00"} {
		_, err := Parse(bad)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", bad, err)
		}
	}
}

func TestParseEdit(t *testing.T) {
	cmd, err := Parse("edit 2 description Weekly review")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Edit.Field != EditDescription || cmd.Edit.Value != "Weekly review" || cmd.Edit.Ref != "2" {
		t.Fatalf("unexpected edit args: %+v", cmd.Edit)
	}
	if _, err := Parse("edit 2 colour red"); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	_, err = Parse("   /  ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	tasks := []model.Task{{ID: "abc123"}, {ID: "abd456"}, {ID: "xyz"}}

	got, err := Resolve("2", tasks)
	if err != nil || got.ID != "abd456" {
		t.Fatalf("resolve by number: %+v %v", got, err)
	}
	got, err = Resolve("xy", tasks)
	if err != nil || got.ID != "xyz" {
		t.Fatalf("resolve by prefix: %+v %v", got, err)
	}

	var ce *CommandError
	if _, err := Resolve("ab", tasks); !errors.As(err, &ce) || ce.Code != ErrCodeAmbiguousTask {
		t.Fatalf("expected ambiguous, got %v", err)
	}
	if _, err := Resolve("4", tasks); !errors.As(err, &ce) || ce.Code != ErrCodeUnknownTask {
		t.Fatalf("expected unknown task, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/move 1 3")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Move: func(a MoveArgs) (Result, error) {
			called = true
			if a.From != "1" || a.To != "3" {
				t.Fatalf("unexpected move args: %+v", a)
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

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("theme")
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
