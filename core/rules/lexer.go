// Package rules evaluates recommendation rules against metric payloads.
//
// Conditions use a small expression language over named numeric fields:
//
//	avg > 10
//	pending > 10 && pending <= 15
//	byPriority.critical > 5 || !(efficiency >= 70)
//
// Supported are number and boolean literals, dotted identifiers, unary ! and -,
// the arithmetic operators * / % + -, comparisons (< <= > >= == != and the strict
// forms === !==), && and || and parentheses. Expressions are parsed into a tree and
// interpreted; nothing is ever compiled or executed from the rule text.
package rules

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrSyntax is returned for conditions that cannot be parsed.
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownIdentifier is returned when a condition references a field missing from the payload.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrDivisionByZero is returned when a condition divides by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrType is returned when an operator is applied to the wrong kind of value.
	ErrType = errors.New("type mismatch")
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// operators is ordered longest first so "===" wins over "==" and "=".
var operators = []string{
	"===", "!==",
	"==", "!=", "<=", ">=", "&&", "||",
	"<", ">", "!", "+", "-", "*", "/", "%",
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		c := rune(src[i])
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "(", pos: i})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")", pos: i})
			i++
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(rune(src[i+1]))):
			start := i
			for i < len(src) && (isDigit(rune(src[i])) || src[i] == '.') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: src[start:i], pos: start})
		case isIdentStart(c):
			start := i
			for i < len(src) && (isIdentPart(rune(src[i])) || src[i] == '.') {
				i++
			}
			text := src[start:i]
			if strings.HasSuffix(text, ".") || strings.Contains(text, "..") {
				return nil, fmt.Errorf("%w: malformed identifier %q at %d", ErrSyntax, text, start)
			}
			tokens = append(tokens, token{kind: tokIdent, text: text, pos: start})
		default:
			op := matchOperator(src[i:])
			if op == "" {
				return nil, fmt.Errorf("%w: unexpected character %q at %d", ErrSyntax, c, i)
			}
			tokens = append(tokens, token{kind: tokOp, text: op, pos: i})
			i += len(op)
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

func matchOperator(s string) string {
	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}
