// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when an expression does not match the grammar
	// in its entirety or when its stack does not reduce to exactly one value.
	ErrMalformed = errors.New("malformed expression")
	// ErrArity is returned when a call receives the wrong number of arguments.
	ErrArity = errors.New("arity mismatch")
	// ErrMissingDomain is returned when IMPORT is evaluated without a spatial
	// domain handle.
	ErrMissingDomain = errors.New("a spatial domain is required to evaluate IMPORT")
	// ErrUnknownFunction is returned for calls of names that are not functions.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrNotCallable is returned when a constant or variable is called.
	ErrNotCallable = errors.New("value is not callable")
	// ErrOperandType is returned when an operator or function does not accept
	// the operand it was given.
	ErrOperandType = errors.New("unsupported operand type")
	// ErrDivisionByZero is returned for numeric division or negative powers of
	// zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrComplexResult is returned when a real power would be complex.
	ErrComplexResult = errors.New("result is not a real number")
)

// SyntaxError describes where an expression stopped matching the grammar.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error in %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

// Is makes every SyntaxError match ErrMalformed.
func (e *SyntaxError) Is(target error) bool { return target == ErrMalformed }

// LiteralError is returned for a token that is neither a known name nor a
// valid integer or float literal. It wraps the underlying parse failure.
type LiteralError struct {
	Token string
	Err   error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("unresolvable literal %q: %v", e.Token, e.Err)
}

func (e *LiteralError) Unwrap() error { return e.Err }
