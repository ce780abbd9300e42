package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := NewError(ErrFieldNotFound, "couldn't retrieve member: given", 5)
	require.Equal(t, "L1001 at position 5: couldn't retrieve member: given", err.Error())

	err = NewError(ErrDepthExceeded, "evaluation recursion depth exceeded", -1)
	require.Equal(t, "U1006: evaluation recursion depth exceeded", err.Error())
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		lookup   bool
		syntax   bool
		coercion bool
	}{
		{ErrFieldNotFound, true, false, false},
		{ErrIndexOutOfRange, true, false, false},
		{ErrShapeMismatch, true, false, false},
		{ErrEmptyCollection, true, false, false},
		{ErrSyntaxError, false, true, false},
		{ErrUnexpectedChar, false, true, false},
		{ErrIncomparableTypes, false, false, true},
		{ErrUnknownFunction, false, false, false},
		{ErrIndexNegative, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := NewError(tt.code, "boom", 0)
			require.Equal(t, tt.lookup, IsLookup(err))
			require.Equal(t, tt.syntax, IsSyntax(err))
			require.Equal(t, tt.coercion, IsCoercion(err))
		})
	}
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := NewError(ErrFieldNotFound, "boom", 3)
	wrapped := fmt.Errorf("evaluating: %w", err)
	require.True(t, IsLookup(wrapped))
	require.False(t, IsLookup(errors.New("plain")))
	require.False(t, IsLookup(nil))
}

func TestErrorCause(t *testing.T) {
	cause := errors.New("root cause")
	err := NewError(ErrInvalidNumber, "invalid number", 0).WithCause(cause)
	require.ErrorIs(t, err, cause)
}

func TestErrorToken(t *testing.T) {
	err := NewError(ErrExpectedToken, "expected ], got (eof)", 6).WithToken("")
	require.Equal(t, ErrExpectedToken, err.Code)
	require.Equal(t, 6, err.Position)
}
