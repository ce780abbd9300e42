package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an engine error. The leading letter selects the
// error kind; the outer evaluation boundary keys off it:
//
//	S0xxx  syntax errors from the lexer or parser; always surfaced
//	L1xxx  lookup/shape failures; converted to an empty collection at the
//	       outermost evaluation call ("absence is data")
//	T1xxx  comparison coercion failures; always surfaced
//	U1xxx  unsupported or unknown operations; always surfaced
//	D1xxx  index-representation failures; always surfaced
type ErrorCode string

const (
	// S01xx: lexer errors
	ErrUnexpectedChar  ErrorCode = "S0101"
	ErrStringNotClosed ErrorCode = "S0102"
	ErrInvalidNumber   ErrorCode = "S0103"

	// S02xx: parser errors
	ErrSyntaxError   ErrorCode = "S0201"
	ErrExpectedToken ErrorCode = "S0202"
	ErrUnexpectedEnd ErrorCode = "S0203"
	ErrNodeLimit     ErrorCode = "S0204"

	// L1xxx: lookup/shape failures (recoverable)
	ErrFieldNotFound   ErrorCode = "L1001"
	ErrIndexOutOfRange ErrorCode = "L1002"
	ErrShapeMismatch   ErrorCode = "L1003"
	ErrEmptyCollection ErrorCode = "L1004"

	// T1xxx: comparison coercion failures
	ErrIncomparableTypes ErrorCode = "T1001"
	ErrNumberNotInteger  ErrorCode = "T1002"
	ErrUncomparableValue ErrorCode = "T1003"

	// U1xxx: unsupported or unknown operations
	ErrUnknownFunction    ErrorCode = "U1001"
	ErrStandaloneFunction ErrorCode = "U1002"
	ErrFunctionName       ErrorCode = "U1003"
	ErrIndexExpression    ErrorCode = "U1004"
	ErrNotImplemented     ErrorCode = "U1005"
	ErrDepthExceeded      ErrorCode = "U1006"

	// D1xxx: index-representation failures
	ErrIndexNegative ErrorCode = "D1001"
)

// Error is a structured engine error carrying a code, a human-readable
// message, and, when known, the source position and offending token text.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new engine error. Pass position -1 when the error has
// no meaningful source location.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds the offending token text to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// kindOf returns the leading letter of the error's code, or 0 when err is
// not an engine *Error.
func kindOf(err error) byte {
	var ee *Error
	if !errors.As(err, &ee) || len(ee.Code) == 0 {
		return 0
	}
	return ee.Code[0]
}

// IsLookup reports whether err is a recoverable lookup/shape failure.
// These are the only errors the outer evaluation boundary downgrades to an
// empty collection.
func IsLookup(err error) bool { return kindOf(err) == 'L' }

// IsSyntax reports whether err is a lexer or parser error.
func IsSyntax(err error) bool { return kindOf(err) == 'S' }

// IsCoercion reports whether err is a comparison coercion failure.
func IsCoercion(err error) bool { return kindOf(err) == 'T' }
