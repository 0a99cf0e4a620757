// Package expression implements the pattern language used to identify
// testable code units by their fully qualified names.
//
// A pattern is a dot-separated chain of Go identifiers with an optional
// trailing wildcard segment:
//
//	calc
//	calc.Add
//	calc.Calculator.Divide
//	calc.*
//
// Expressions are immutable values. They order totally by their canonical
// syntax and support a structural prefix test, which is what the subject
// matcher and the start-expression filter are built on.
package expression

import (
	"fmt"
	"strings"
	"unicode"
)

// Wildcard is the segment that matches any single name.
const Wildcard = "*"

// Expression is a parsed, validated pattern.
type Expression struct {
	segments []string
	syntax   string
}

// Parse validates text and returns its Expression.
//
// Rules: at least one segment, segments separated by single dots, every
// segment a Go identifier, except that the final segment may be the
// wildcard "*".
func Parse(text string) (Expression, error) {
	if strings.TrimSpace(text) == "" {
		return Expression{}, fmt.Errorf("empty expression")
	}

	segments := strings.Split(text, ".")

	for i, segment := range segments {
		if segment == Wildcard {
			if i != len(segments)-1 {
				return Expression{}, fmt.Errorf("wildcard must be the last segment in %q", text)
			}

			continue
		}

		if !isIdentifier(segment) {
			return Expression{}, fmt.Errorf("invalid segment %q in %q", segment, text)
		}
	}

	return Expression{
		segments: segments,
		syntax:   strings.Join(segments, "."),
	}, nil
}

// MustParse parses text and panics on failure. Intended for literals in
// tests and package-level defaults.
func MustParse(text string) Expression {
	expr, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return expr
}

// Syntax returns the canonical pattern text. It doubles as the total
// ordering key: expressions sort by Syntax ascending.
func (e Expression) Syntax() string {
	return e.syntax
}

// String implements fmt.Stringer.
func (e Expression) String() string {
	return e.syntax
}

// Zero reports whether e is the zero value rather than a parsed pattern.
func (e Expression) Zero() bool {
	return len(e.segments) == 0
}

// Prefix reports whether e is a structural prefix of other.
//
// Every segment of e must equal the corresponding segment of other, with a
// wildcard segment matching any name. An expression is a prefix of itself.
// A wildcard requires the corresponding position to exist in other:
// "a.*" is a prefix of "a.b" but not of "a".
func (e Expression) Prefix(other Expression) bool {
	if len(e.segments) > len(other.segments) {
		return false
	}

	for i, segment := range e.segments {
		if segment == Wildcard {
			continue
		}

		if segment != other.segments[i] {
			return false
		}
	}

	return true
}

func isIdentifier(segment string) bool {
	if segment == "" {
		return false
	}

	for i, r := range segment {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
