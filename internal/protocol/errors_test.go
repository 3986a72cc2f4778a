package protocol

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrIO,
		ErrFormat,
		ErrSchema,
		ErrData,
		ErrInvalid,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCode_Wrapped(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&IOError{Op: "read", Path: "x", Err: fs.ErrNotExist}, ErrIO},
		{fmt.Errorf("decode: %w", &FormatError{Stage: "base64", Err: errors.New("bad")}), ErrFormat},
		{fmt.Errorf("parse: %w", &SchemaError{Path: "/blueprint/item", Msg: "missing"}), ErrSchema},
		{&DataError{Msg: "nope"}, ErrData},
		{&ValidationError{Problems: []Problem{{Msg: "x"}}}, ErrInvalid},
		{errors.New("boom"), ErrInternal},
	}
	for _, tc := range cases {
		if got := Code(tc.err); got != tc.want {
			t.Fatalf("Code(%v)=%q want %q", tc.err, got, tc.want)
		}
		if !IsKnownCode(Code(tc.err)) {
			t.Fatalf("Code(%v) returned unknown code", tc.err)
		}
	}
}

func TestIOError_UnwrapsUnmodified(t *testing.T) {
	err := &IOError{Op: "open", Path: "in.txt", Err: fs.ErrPermission}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected errors.Is to reach the wrapped error")
	}
	if !strings.Contains(err.Error(), "in.txt") {
		t.Fatalf("message should name the path: %q", err.Error())
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Problems: []Problem{
		{Path: "/blueprint_book/active_index", Msg: "out of range"},
		{Msg: "duplicate entity_number 3"},
	}}
	msg := err.Error()
	if !strings.Contains(msg, "2 problems") || !strings.Contains(msg, "active_index") {
		t.Fatalf("unexpected message: %q", msg)
	}
}
