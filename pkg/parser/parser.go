// Package parser turns a free-form blob of text into an ordered list of
// signed 64-bit integers.
//
// Commas and whitespace are equivalent separators and runs of them collapse,
// so "1, 2,,3\n4" yields four tokens. Every token must be an optionally signed
// run of decimal digits; the first token that is not fails the whole parse.
package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/sigma/sentinel"
)

// NumberList is an ordered sequence of parsed integers.
// A list returned by Parse without error is never empty.
type NumberList []int64

var (
	// \s in RE2 excludes the vertical tab, which TrimSpace strips.
	separators = regexp.MustCompile(`[,\s\v]+`)
	integer    = regexp.MustCompile(`^-?[0-9]+$`)
	// hint is the loose shape check used while the user is still typing.
	hint = regexp.MustCompile(`^[\s\v]*-?\d+(?:[\s\v,]+-?\d+)*[\s\v]*$`)
)

// Parse validates raw and returns the integers it holds, in input order.
func Parse(raw string) (NumberList, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, sentinel.ErrEmptyInput
	}

	tokens := separators.Split(trimmed, -1)
	values := make(NumberList, 0, len(tokens))

	position := 0

	for _, token := range tokens {
		if token == "" {
			continue
		}

		position++

		if !integer.MatchString(token) {
			return nil, &InvalidTokenError{Position: position, Token: token}
		}

		value, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return nil, &NumberTooLargeError{Token: token, Err: err}
			}

			return nil, ewrap.Wrapf(err, "parsing token %q", token)
		}

		values = append(values, value)
	}

	if len(values) == 0 {
		return nil, sentinel.ErrNoValidIntegers
	}

	return values, nil
}

// LooksValid reports whether raw has the rough shape of an integer list.
// It is a typing hint only and is not consulted by Parse.
func LooksValid(raw string) bool {
	return hint.MatchString(raw)
}

// Strings returns the decimal representation of every value.
func (l NumberList) Strings() []string {
	out := make([]string, len(l))
	for i, v := range l {
		out[i] = strconv.FormatInt(v, 10)
	}

	return out
}
