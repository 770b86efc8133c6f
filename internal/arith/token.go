// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"fmt"
	"regexp"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp     // + - * / ^
	tokLParen // (
	tokRParen // )
	tokLBrack // [
	tokRBrack // ]
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// numberRegex is anchored at the scan position. Signs are never part of a
// literal here: a leading sign is always read as a unary operator first.
var numberRegex = regexp.MustCompile(`^\d+(?:\.\d*)?(?:[eE][+-]?\d+)?`)

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

// tokenize splits input into tokens. Identifiers start with a letter and
// continue with letters or underscores.
func tokenize(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c >= '0' && c <= '9':
			m := numberRegex.FindString(input[i:])
			toks = append(toks, token{kind: tokNumber, text: m, pos: i})
			i += len(m)
		case isLetter(c):
			j := i + 1
			for j < len(input) && (isLetter(input[j]) || input[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: input[i:j], pos: i})
			i = j
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, &SyntaxError{Input: input, Offset: i, Msg: fmt.Sprintf("unexpected character %q", c)}
			}
			toks = append(toks, token{kind: kind, text: string(c), pos: i})
			i++
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: len(input)})
	return toks, nil
}

var punctuation = map[byte]tokenKind{
	'+': tokOp,
	'-': tokOp,
	'*': tokOp,
	'/': tokOp,
	'^': tokOp,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBrack,
	']': tokRBrack,
	',': tokComma,
}
