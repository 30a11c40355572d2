// Package errs defines the three terminal runtime error kinds. A raised
// error is never recovered inside the language: it propagates out of the
// evaluator and ends the run.
package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	NameError  Kind = "NameError"
	TypeError  Kind = "TypeError"
	FaultError Kind = "FaultError"
)

type RuntimeError struct {
	Kind    Kind
	Message string
}

func (e *RuntimeError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func Name(format string, a ...any) *RuntimeError {
	return &RuntimeError{Kind: NameError, Message: fmt.Sprintf(format, a...)}
}

func Type(format string, a ...any) *RuntimeError {
	return &RuntimeError{Kind: TypeError, Message: fmt.Sprintf(format, a...)}
}

func Fault(format string, a ...any) *RuntimeError {
	return &RuntimeError{Kind: FaultError, Message: fmt.Sprintf(format, a...)}
}

// KindOf reports the runtime kind of err, or false when err is not a
// language-level error (e.g. a parse or I/O failure).
func KindOf(err error) (Kind, bool) {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}
