package sigma

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyp3rd/sigma/pkg/parser"
	"github.com/hyp3rd/sigma/sentinel"
)

// Message codes, one per error kind.
const (
	CodeEmptyInput      = "empty_input"
	CodeInvalidToken    = "invalid_token"
	CodeNumberTooLarge  = "number_too_large"
	CodeNoValidIntegers = "no_valid_integers"
	CodeNegativeInput   = "negative_input"
	CodeInternal        = "internal"
)

// Message is the user-facing rendering of an error.
type Message struct {
	Code     string `json:"code"               msgpack:"code"               codec:"code"`
	Text     string `json:"message"            msgpack:"message"            codec:"message"`
	Position int    `json:"position,omitempty" msgpack:"position,omitempty" codec:"position,omitempty"`
	Token    string `json:"token,omitempty"    msgpack:"token,omitempty"    codec:"token,omitempty"`
}

// Describe maps err to the message shown to the user.
func Describe(err error) Message {
	var (
		invalid  *parser.InvalidTokenError
		tooLarge *parser.NumberTooLargeError
	)

	switch {
	case errors.As(err, &invalid):
		return Message{
			Code:     CodeInvalidToken,
			Text:     fmt.Sprintf("Invalid token at position %d: \"%s\". Use only integers.", invalid.Position, invalid.Token),
			Position: invalid.Position,
			Token:    invalid.Token,
		}
	case errors.As(err, &tooLarge):
		return Message{
			Code:  CodeNumberTooLarge,
			Text:  fmt.Sprintf("Number too large: \"%s\".", tooLarge.Token),
			Token: tooLarge.Token,
		}
	case errors.Is(err, sentinel.ErrEmptyInput):
		return Message{Code: CodeEmptyInput, Text: "Please enter at least one integer."}
	case errors.Is(err, sentinel.ErrNoValidIntegers):
		return Message{Code: CodeNoValidIntegers, Text: "No valid integers found."}
	case errors.Is(err, sentinel.ErrNegativeInput):
		return Message{Code: CodeNegativeInput, Text: "Cannot take the square root of a negative value."}
	case err == nil:
		return Message{}
	default:
		return Message{Code: CodeInternal, Text: err.Error()}
	}
}

// IsInputError reports whether err was caused by the caller's input rather than by the service.
func IsInputError(err error) bool {
	code := Describe(err).Code

	return code != CodeInternal && code != ""
}

// StatusLine is the one-line summary shown after a successful calculation.
func StatusLine(n int) string {
	return fmt.Sprintf("Calculated σ for n = %d.", n)
}

// HintLine is the typing hint for raw, empty when there is nothing to say.
func HintLine(raw string) string {
	switch {
	case strings.TrimSpace(raw) == "":
		return ""
	case parser.LooksValid(raw):
		return "Press Enter to calculate."
	default:
		return "Hint: Only integers, separated by spaces/commas/newlines."
	}
}
