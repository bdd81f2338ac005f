package input

import (
	"errors"
	"fmt"
)

// Validation error codes.
const (
	CodeTooFewPlayers  = "E201"
	CodeTooManyPlayers = "E202"
	CodeEmptyName      = "E203"
	CodeNameTooLong    = "E204"
	CodeDuplicateName  = "E205"
	CodeInvalidTarget  = "E206"
	CodeUnknownPlayer  = "E207"
	CodeInvalidScore   = "E208"
	CodeNoScores       = "E209"
	CodeRepeatedPlayer = "E210"
)

// Error is a validation failure.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the validation code carried by err, or "".
func CodeOf(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
