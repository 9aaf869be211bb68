package parser

import (
	"fmt"

	"github.com/hyp3rd/sigma/sentinel"
)

// InvalidTokenError reports the first token that is not an integer.
// Position is the 1-based index of the token among the tokens seen so far.
type InvalidTokenError struct {
	Position int
	Token    string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("%s at position %d: %q", sentinel.ErrInvalidToken.Error(), e.Position, e.Token)
}

// Unwrap lets errors.Is match sentinel.ErrInvalidToken.
func (*InvalidTokenError) Unwrap() error {
	return sentinel.ErrInvalidToken
}

// NumberTooLargeError reports a token outside the signed 64-bit range.
type NumberTooLargeError struct {
	Token string
	Err   error
}

func (e *NumberTooLargeError) Error() string {
	return fmt.Sprintf("%s: %q", sentinel.ErrNumberTooLarge.Error(), e.Token)
}

// Unwrap exposes both sentinel.ErrNumberTooLarge and the conversion cause.
func (e *NumberTooLargeError) Unwrap() []error {
	if e.Err == nil {
		return []error{sentinel.ErrNumberTooLarge}
	}

	return []error{sentinel.ErrNumberTooLarge, e.Err}
}
