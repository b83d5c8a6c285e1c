// Package apperr defines the failure kinds of an analysis and the messages
// shown to the user for each of them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies why an analysis did not render.
type Kind string

const (
	KindEmptyInput        Kind = "empty_input"
	KindValidation        Kind = "validation"
	KindNetwork           Kind = "network"
	KindTimeout           Kind = "timeout"
	KindHTTP              Kind = "http"
	KindMalformedResponse Kind = "malformed_response"
	KindBusy              Kind = "busy"
)

// User-facing texts.
const (
	MsgEmptyInput     = "Please enter a website URL."
	MsgMissingScheme  = "Please include http:// or https:// at the start of the URL."
	MsgUnableAnalyze  = "Unable to analyze the website. Please try again later."
	MsgAlreadyRunning = "An analysis is already in progress. Please wait for it to finish."
)

// Error is the single error type returned by the analysis pipeline.
type Error struct {
	Kind   Kind
	Op     string
	Status int // HTTP status, KindHTTP only
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s status=%d", msg, e.Status)
	}
	if e.Msg != "" {
		msg = msg + " " + e.Msg
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind so errors.Is(err, ErrTimeout) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Op == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrEmptyInput        = &Error{Kind: KindEmptyInput}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNetwork           = &Error{Kind: KindNetwork}
	ErrTimeout           = &Error{Kind: KindTimeout}
	ErrHTTP              = &Error{Kind: KindHTTP}
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrBusy              = &Error{Kind: KindBusy}
)

// New builds an *Error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage maps err to the text shown in the UI. Unknown errors get the
// generic failure message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindEmptyInput:
		return MsgEmptyInput
	case KindValidation:
		return MsgMissingScheme
	case KindBusy:
		return MsgAlreadyRunning
	default:
		return MsgUnableAnalyze
	}
}

// IsInputError reports whether err was caused by the user's input rather
// than by the backend or the network. Such errors are logged at a lower level.
func IsInputError(err error) bool {
	switch KindOf(err) {
	case KindEmptyInput, KindValidation, KindBusy:
		return true
	}
	return false
}
