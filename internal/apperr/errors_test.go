package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIsByKind(t *testing.T) {
	err := fmt.Errorf("analyze: %w", New(KindTimeout, "post", context.DeadlineExceeded))
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected errors.Is to match ErrTimeout")
	}
	if errors.Is(err, ErrNetwork) {
		t.Fatalf("did not expect ErrNetwork match")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped cause to be reachable")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "empty", err: New(KindEmptyInput, "normalize", nil), want: MsgEmptyInput},
		{name: "validation", err: New(KindValidation, "normalize", nil), want: MsgMissingScheme},
		{name: "busy", err: ErrBusy, want: MsgAlreadyRunning},
		{name: "network", err: New(KindNetwork, "post", errors.New("dial tcp")), want: MsgUnableAnalyze},
		{name: "timeout", err: New(KindTimeout, "post", nil), want: MsgUnableAnalyze},
		{name: "http", err: &Error{Kind: KindHTTP, Op: "post", Status: 502}, want: MsgUnableAnalyze},
		{name: "malformed", err: New(KindMalformedResponse, "decode", nil), want: MsgUnableAnalyze},
		{name: "foreign", err: errors.New("boom"), want: MsgUnableAnalyze},
		{name: "nil", err: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindHTTP, Op: "post", Status: 503}
	if got, want := err.Error(), "post: http status=503"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !IsInputError(New(KindEmptyInput, "normalize", nil)) {
		t.Fatalf("empty input should be an input error")
	}
	if IsInputError(err) {
		t.Fatalf("http error should not be an input error")
	}
}
