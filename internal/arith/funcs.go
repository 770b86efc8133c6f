// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"fmt"
	"maps"
	"math"

	"github.com/vk/pdeconf/internal/field"
)

// integral lists the functions whose numeric result is an integer.
var integral = map[string]bool{"trunc": true, "round": true, "sgn": true}

func builtinFuncs() map[string]field.Func {
	return maps.Clone(field.Funcs)
}

func builtinConstants() map[string]any {
	return map[string]any{
		"pi":    math.Pi,
		"e":     math.E,
		"None":  nil,
		"True":  true,
		"False": false,
	}
}

// applyFunc calls a table function on ordered, already evaluated arguments.
func (ev *Evaluator) applyFunc(name string, args []any) (any, error) {
	if name == VectorCall {
		return vector(args)
	}
	fn, ok := ev.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if len(args) < fn.MinArgs || len(args) > fn.MaxArgs {
		return nil, fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrArity, name, fn.MinArgs, fn.MaxArgs, len(args))
	}

	nums := make([]float64, len(args))
	symbolic := false
	for i, a := range args {
		n, ok := number(a)
		if ok {
			nums[i] = n
			continue
		}
		if _, ok := a.(field.Expr); !ok {
			return nil, fmt.Errorf("%w: %s(%s)", ErrOperandType, name, typeName(a))
		}
		symbolic = true
	}
	if symbolic {
		exprs := make([]field.Expr, len(args))
		for i, a := range args {
			exprs[i], _ = toExpr(a)
		}
		e, err := field.CallOf(name, exprs...)
		if err != nil {
			return nil, err
		}
		return fromExpr(e), nil
	}

	switch name {
	case "abs":
		if i, ok := integer(args[0]); ok && i != math.MinInt64 {
			if i < 0 {
				return -i, nil
			}
			return i, nil
		}
	case "trunc":
		if i, ok := integer(args[0]); ok {
			return i, nil
		}
	case "sqrt":
		if nums[0] < 0 {
			return nil, fmt.Errorf("%w: sqrt(%v)", ErrComplexResult, nums[0])
		}
	case "round":
		if len(args) == 2 {
			return fn.Fn(nums), nil
		}
		if i, ok := integer(args[0]); ok {
			return i, nil
		}
	}
	out := fn.Fn(nums)
	if integral[name] {
		return toInt(out), nil
	}
	return out, nil
}

// toInt converts an integral float to int64 when it fits.
func toInt(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return f
	}
	return int64(f)
}

func vector(args []any) (*field.Vector, error) {
	comps := make([]field.Expr, len(args))
	for i, a := range args {
		e, ok := toExpr(a)
		if !ok {
			return nil, fmt.Errorf("%w: vector component %s", ErrOperandType, typeName(a))
		}
		comps[i] = e
	}
	return field.VectorOf(comps...), nil
}
