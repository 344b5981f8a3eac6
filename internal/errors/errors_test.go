package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "duplicate id",
			code:    CodeDuplicateID,
			wantMsg: "Duplicate sibling id",
			wantCat: CategoryInvariant,
		},
		{
			name:    "overlapping pass",
			code:    CodeOverlappingRun,
			wantMsg: "Diff pass started while another pass is running",
			wantCat: CategoryConcurrency,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New(CodeDuplicateID).WithOp("vdom.Build").WithDetail("id %q under %q", "a", "root")
	got := err.Error()
	for _, want := range []string{"R001", "vdom.Build", "Duplicate sibling id", `id "a" under "root"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() = %q, missing %q", got, want)
		}
	}
}

func TestIsAndCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeEmptyID).WithOp("x"))

	if !stderrors.Is(err, New(CodeEmptyID)) {
		t.Error("errors.Is should match on code")
	}
	if stderrors.Is(err, New(CodeNilView)) {
		t.Error("errors.Is should not match a different code")
	}
	if got := Code(err); got != CodeEmptyID {
		t.Errorf("Code() = %q, want %q", got, CodeEmptyID)
	}
	if got := Code(stderrors.New("plain")); got != "" {
		t.Errorf("Code(plain) = %q, want empty", got)
	}
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("boom")
	err := New(CodeInvalidCommand).Wrap(inner)
	if !stderrors.Is(err, inner) {
		t.Error("wrapped error should be reachable through Unwrap")
	}
}

func TestRaise(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*Error)
		if !ok {
			t.Fatalf("recovered %T, want *Error", r)
		}
		if err.Code != CodeNilView || err.Op != "op" || err.Detail != "child 2" {
			t.Errorf("unexpected error: %+v", err)
		}
	}()
	Raise(CodeNilView, "op", "child %d", 2)
}

func TestRegistered(t *testing.T) {
	for _, code := range []string{CodeDuplicateID, CodeEmptyID, CodeOverlappingRun, CodeNilView, CodeInvalidCommand} {
		if !Registered(code) {
			t.Errorf("%s should be registered", code)
		}
	}
	if Registered("R999") {
		t.Error("R999 should not be registered")
	}
}
