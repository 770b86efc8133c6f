// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/pdeconf/internal/field"
)

// Env is everything an evaluation may read besides the stack itself.
type Env struct {
	// ImportDir is passed to the Resolver for IMPORT calls.
	ImportDir string
	// Time is bound to the reserved name t. A nil Time evaluates to None.
	Time *field.Param
	// Variables holds the live model variables. It is only read.
	Variables Variables
	// Domain is required by IMPORT and otherwise ignored.
	Domain Domain
}

// Evaluator reduces postfix stacks into values. Its lookup tables are built
// once and never modified, so an Evaluator can be shared.
type Evaluator struct {
	grammar   *Grammar
	resolver  Resolver
	funcs     map[string]field.Func
	constants map[string]any
}

// NewEvaluator returns an evaluator that resolves IMPORT calls with resolver.
// resolver may be nil, in which case every IMPORT fails.
func NewEvaluator(resolver Resolver) *Evaluator {
	return &Evaluator{
		grammar:   NewGrammar(),
		resolver:  resolver,
		funcs:     builtinFuncs(),
		constants: builtinConstants(),
	}
}

// Grammar returns the grammar used by EvalString and ParseValue.
func (ev *Evaluator) Grammar() *Grammar { return ev.grammar }

// Eval consumes stack and returns its value. The stack must reduce to exactly
// one value. Eval has no source text, so a LiveExpression result carries an
// empty Expression; EvalString and ParseValue fill it in.
func (ev *Evaluator) Eval(stack *Stack, env Env) (Result, error) {
	v, l, err := ev.reduce(stack, &env)
	if err != nil {
		return Result{}, err
	}
	if stack.Len() > 0 {
		return Result{}, fmt.Errorf("%w: %d entries left after reduction: %s", ErrMalformed, stack.Len(), stack)
	}
	return Result{Value: v, Live: l.signal("")}, nil
}

// EvalString parses and evaluates a single expression.
func (ev *Evaluator) EvalString(s string, env Env) (Result, error) {
	stack := &Stack{}
	if err := ev.grammar.Parse(s, stack); err != nil {
		return Result{}, err
	}
	res, err := ev.Eval(stack, env)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating %q: %w", s, err)
	}
	if res.Live.Kind == LiveExpression {
		res.Live.Expression = s
	}
	return res, nil
}

func isBinary(op string) bool {
	switch op {
	case "+", "-", "*", "/", "^":
		return true
	}
	return false
}

func (ev *Evaluator) reduce(s *Stack, env *Env) (any, live, error) {
	entry, ok := s.Pop()
	if !ok {
		return nil, live{}, fmt.Errorf("%w: missing operand", ErrMalformed)
	}
	op := entry.Token

	if entry.Tagged {
		return ev.call(s, env, op, entry.Arity)
	}

	switch {
	case op == UnaryMinus:
		v, l, err := ev.reduce(s, env)
		if err != nil {
			return nil, live{}, err
		}
		n, err := negate(v)
		return n, l, err
	case isBinary(op):
		// Operands come off the stack right first.
		r, rl, err := ev.reduce(s, env)
		if err != nil {
			return nil, live{}, err
		}
		l, ll, err := ev.reduce(s, env)
		if err != nil {
			return nil, live{}, err
		}
		v, err := applyBinary(op, l, r)
		return v, rl.or(ll), err
	}

	if v, l, ok, err := ev.lookup(op, env); ok {
		return v, l, err
	}
	if _, isFunc := ev.funcs[op]; isFunc || op == ImportKeyword {
		return ev.call(s, env, op, 0)
	}
	if isIdent(op) {
		return op, live{}, nil
	}
	return literal(op)
}

// lookup resolves constants, reserved names and model variables.
func (ev *Evaluator) lookup(name string, env *Env) (any, live, bool, error) {
	if v, ok := ev.constants[name]; ok {
		return v, live{}, true, nil
	}
	switch name {
	case "x":
		return field.X, live{}, true, nil
	case "y":
		return field.Y, live{}, true, nil
	case "z":
		return field.Z, live{}, true, nil
	case "t":
		if env.Time == nil {
			return nil, live{}, true, nil
		}
		return env.Time, live{}, true, nil
	}
	v, ok := env.Variables[name]
	if !ok {
		return nil, live{}, false, nil
	}
	v, err := current(name, v)
	return v, live{variable: true}, true, err
}

// current picks the value used for evaluation out of a time-staggered entry.
func current(name string, v any) (any, error) {
	switch s := v.(type) {
	case []any:
		if len(s) == 0 {
			return nil, fmt.Errorf("model variable %q has no values", name)
		}
		return s[0], nil
	case []float64:
		if len(s) == 0 {
			return nil, fmt.Errorf("model variable %q has no values", name)
		}
		return s[0], nil
	}
	return v, nil
}

func (ev *Evaluator) call(s *Stack, env *Env, name string, arity int) (any, live, error) {
	if name == ImportKeyword {
		return ev.importCall(s, env, arity)
	}
	if _, _, ok, _ := ev.lookup(name, env); ok {
		return nil, live{}, fmt.Errorf("%w: %s", ErrNotCallable, name)
	}
	if _, ok := ev.funcs[name]; !ok && name != VectorCall {
		return nil, live{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}

	args := make([]any, arity)
	var merged live
	// Arguments come off the stack last first; fill from the back.
	for i := arity - 1; i >= 0; i-- {
		v, l, err := ev.reduce(s, env)
		if err != nil {
			return nil, live{}, err
		}
		args[i] = v
		merged = merged.or(l)
	}
	v, err := ev.applyFunc(name, args)
	return v, merged, err
}

func (ev *Evaluator) importCall(s *Stack, env *Env, arity int) (any, live, error) {
	if arity != 1 {
		return nil, live{}, fmt.Errorf("%w: %s takes exactly one argument, got %d", ErrArity, ImportKeyword, arity)
	}
	arg, ok := s.Pop()
	if !ok {
		return nil, live{}, fmt.Errorf("%w: missing %s argument", ErrMalformed, ImportKeyword)
	}
	if arg.Tagged || !isIdent(arg.Token) {
		return nil, live{}, fmt.Errorf("%w: %s expects a bare function name, got %s", ErrMalformed, ImportKeyword, arg)
	}
	name := arg.Token
	if env.Domain == nil {
		return nil, live{}, fmt.Errorf("%w: %s(%s)", ErrMissingDomain, ImportKeyword, name)
	}
	if ev.resolver == nil {
		return nil, live{}, fmt.Errorf("%w: no resolver for %s(%s)", ErrUnknownFunction, ImportKeyword, name)
	}
	fn, err := ev.resolver.Resolve(env.ImportDir, name)
	if err != nil {
		return nil, live{}, fmt.Errorf("resolving %s(%s) in %q: %w", ImportKeyword, name, env.ImportDir, err)
	}
	v, err := fn(env.Time, env.Variables, env.Domain)
	if err != nil {
		return nil, live{}, fmt.Errorf("calling imported %s: %w", name, err)
	}
	return v, live{imp: &Import{Name: name, Fn: fn}}, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// isIdent also admits underscores after the first letter.
func isIdent(s string) bool {
	return s != "" && isAlpha(s[:1]) && isAlpha(strings.ReplaceAll(s, "_", "a"))
}

// literal parses an integer and falls back to a float.
func literal(tok string) (any, live, error) {
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return i, live{}, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return nil, live{}, &LiteralError{Token: tok, Err: err}
	}
	return f, live{}, nil
}
