// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is a point literal written as <a, b[, c]>.
type Coord []float64

// ParseValue evaluates a configuration value of any supported shape: a
// coordinate or coordinate list, a single expression, or a comma separated
// list whose items may be vector literals. Lists become []any in order.
//
// The liveness of the result is LiveImport when any item imported a function,
// LiveExpression carrying raw unchanged when any item read a model variable,
// and NotLive otherwise.
func (ev *Evaluator) ParseValue(raw string, env Env) (Result, error) {
	s := strings.Join(strings.Fields(raw), "")
	if s == "" {
		return Result{}, &SyntaxError{Input: raw, Msg: "empty value"}
	}

	if isCoordinates(s) {
		v, err := parseCoordinates(s)
		if err != nil {
			return Result{}, err
		}
		return Result{Value: v}, nil
	}

	pieces, err := splitTopLevel(s)
	if err != nil {
		return Result{}, err
	}
	values := make([]any, len(pieces))
	var merged live
	for i, piece := range pieces {
		stack := &Stack{}
		if err := ev.grammar.Parse(piece, stack); err != nil {
			return Result{}, err
		}
		v, l, err := ev.reduce(stack, &env)
		if err != nil {
			return Result{}, fmt.Errorf("evaluating %q: %w", piece, err)
		}
		if stack.Len() > 0 {
			return Result{}, fmt.Errorf("%w: %q left %d entries", ErrMalformed, piece, stack.Len())
		}
		values[i] = v
		// The leftmost import is kept.
		merged = merged.or(l)
	}

	res := Result{Live: merged.signal(raw)}
	if len(values) == 1 {
		res.Value = values[0]
	} else {
		res.Value = values
	}
	return res, nil
}

func isCoordinates(s string) bool {
	return strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") && strings.Contains(s, ",")
}

// parseCoordinates returns a Coord for a single point and []Coord otherwise.
func parseCoordinates(s string) (any, error) {
	groups := strings.Split(s, ">,")
	coords := make([]Coord, 0, len(groups))
	for _, g := range groups {
		g = strings.Trim(g, "<> ")
		parts := strings.Split(g, ",")
		c := make(Coord, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.Trim(p, "<> "), 64)
			if err != nil {
				return nil, &LiteralError{Token: p, Err: err}
			}
			c[i] = f
		}
		coords = append(coords, c)
	}
	if len(coords) == 1 {
		return coords[0], nil
	}
	return coords, nil
}

// splitTopLevel splits s on commas that are not nested in parentheses or
// brackets.
func splitTopLevel(s string) ([]string, error) {
	var pieces []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, &SyntaxError{Input: s, Offset: i, Msg: fmt.Sprintf("unbalanced %q", r)}
			}
		case ',':
			if depth == 0 {
				pieces = append(pieces, s[start:i])
				start = i + 1
			}
		}
	}
	pieces = append(pieces, s[start:])
	for i, p := range pieces {
		if p == "" {
			return nil, &SyntaxError{Input: s, Msg: fmt.Sprintf("list item %d is empty", i)}
		}
	}
	return pieces, nil
}
