// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import (
	"fmt"
	"math"

	"github.com/vk/pdeconf/internal/field"
)

// number normalizes the numeric kinds an imported function may return.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// toExpr lifts a numeric or symbolic scalar into a field expression.
func toExpr(v any) (field.Expr, bool) {
	if e, ok := v.(field.Expr); ok {
		return e, true
	}
	if n, ok := number(v); ok {
		return field.Num(n), true
	}
	return nil, false
}

// fromExpr demotes constant trees back to plain floats.
func fromExpr(e field.Expr) any {
	if n, ok := field.IsConstant(e); ok {
		return float64(n)
	}
	return e
}

func typeName(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("%T", v)
}

func operandError(op string, l, r any) error {
	return fmt.Errorf("%w: %s %s %s", ErrOperandType, typeName(l), op, typeName(r))
}

func negate(v any) (any, error) {
	switch n := v.(type) {
	case int64:
		if n == math.MinInt64 {
			return -float64(n), nil
		}
		return -n, nil
	case int:
		return -int64(n), nil
	case float64:
		return -n, nil
	case float32:
		return -float64(n), nil
	case *field.Vector:
		return n.Map(func(c field.Expr) (field.Expr, error) { return field.Neg(c), nil })
	case field.Expr:
		return fromExpr(field.Neg(n)), nil
	default:
		return nil, fmt.Errorf("%w: -%s", ErrOperandType, typeName(v))
	}
}

func applyBinary(op string, l, r any) (any, error) {
	lv, lvec := l.(*field.Vector)
	rv, rvec := r.(*field.Vector)
	if lvec || rvec {
		return applyVector(op, l, r, lv, rv)
	}
	if li, ok := integer(l); ok {
		if ri, ok := integer(r); ok {
			return applyInt(op, li, ri)
		}
	}
	lf, lnum := number(l)
	rf, rnum := number(r)
	if lnum && rnum {
		return applyFloat(op, lf, rf)
	}
	le, lok := toExpr(l)
	re, rok := toExpr(r)
	if !lok || !rok {
		return nil, operandError(op, l, r)
	}
	e, err := field.BinaryOf(op[0], le, re)
	if err != nil {
		return nil, err
	}
	return fromExpr(e), nil
}

func applyInt(op string, a, b int64) (any, error) {
	switch op {
	case "+":
		s := a + b
		if (a^s)&(b^s) < 0 {
			return float64(a) + float64(b), nil
		}
		return s, nil
	case "-":
		d := a - b
		if (a^b)&(a^d) < 0 {
			return float64(a) - float64(b), nil
		}
		return d, nil
	case "*":
		if a == 0 || b == 0 {
			return int64(0), nil
		}
		p := a * b
		if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return float64(a) * float64(b), nil
		}
		return p, nil
	case "^":
		if b >= 0 {
			if p, ok := intPow(a, b); ok {
				return p, nil
			}
		}
	}
	return applyFloat(op, float64(a), float64(b))
}

// intPow computes a^b by squaring and reports false on overflow.
func intPow(a, b int64) (int64, bool) {
	result := int64(1)
	for b > 0 {
		if b&1 == 1 {
			next := result * a
			if a != 0 && next/a != result {
				return 0, false
			}
			result = next
		}
		b >>= 1
		if b > 0 {
			sq := a * a
			if a != 0 && sq/a != a {
				return 0, false
			}
			a = sq
		}
	}
	return result, true
}

func applyFloat(op string, a, b float64) (any, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("%w: %v / %v", ErrDivisionByZero, a, b)
		}
		return a / b, nil
	case "^":
		if a == 0 && b < 0 {
			return nil, fmt.Errorf("%w: 0 ^ %v", ErrDivisionByZero, b)
		}
		if a < 0 && b != math.Trunc(b) {
			return nil, fmt.Errorf("%w: %v ^ %v", ErrComplexResult, a, b)
		}
		return math.Pow(a, b), nil
	default:
		return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformed, op)
	}
}

// applyVector supports scaling by a scalar and component-wise sums.
func applyVector(op string, l, r any, lv, rv *field.Vector) (any, error) {
	combine := func(a, b field.Expr) (field.Expr, error) { return field.BinaryOf(op[0], a, b) }
	switch {
	case lv != nil && rv != nil:
		if op != "+" && op != "-" {
			return nil, operandError(op, l, r)
		}
		out, err := lv.Zip(rv, combine)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOperandType, err)
		}
		return out, nil
	case lv != nil:
		s, ok := toExpr(r)
		if !ok || (op != "*" && op != "/") {
			return nil, operandError(op, l, r)
		}
		if n, isNum := field.IsConstant(s); isNum && n == 0 && op == "/" {
			return nil, fmt.Errorf("%w: vector / 0", ErrDivisionByZero)
		}
		return lv.Map(func(c field.Expr) (field.Expr, error) { return combine(c, s) })
	default:
		s, ok := toExpr(l)
		if !ok || op != "*" {
			return nil, operandError(op, l, r)
		}
		return rv.Map(func(c field.Expr) (field.Expr, error) { return combine(s, c) })
	}
}
