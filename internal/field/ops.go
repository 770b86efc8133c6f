// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package field

import (
	"fmt"
	"math"
	"strings"
)

// SignEpsilon is the dead zone around zero used by the sgn function.
const SignEpsilon = 1e-12

// Unary is pointwise negation.
type Unary struct {
	Arg Expr
}

// Neg returns -a, folding constants.
func Neg(a Expr) Expr {
	if v, ok := IsConstant(a); ok {
		return Num(-v)
	}
	if u, ok := a.(*Unary); ok {
		return u.Arg
	}
	return &Unary{Arg: a}
}

func (u *Unary) Eval(p Point) float64 { return -u.Arg.Eval(p) }
func (u *Unary) String() string       { return "-" + u.Arg.String() }

// Binary is a pointwise arithmetic operation.
type Binary struct {
	Op   byte
	L, R Expr
}

// BinaryOf returns l op r. Constant operands are folded and the trivial
// identities (0+a, 1*a, a^1) are dropped.
func BinaryOf(op byte, l, r Expr) (Expr, error) {
	if !strings.ContainsRune("+-*/^", rune(op)) {
		return nil, fmt.Errorf("field: unknown operator %q", op)
	}
	lv, lc := IsConstant(l)
	rv, rc := IsConstant(r)
	if lc && rc {
		return Num(applyOp(op, lv, rv)), nil
	}
	switch {
	case op == '+' && lc && lv == 0:
		return r, nil
	case (op == '+' || op == '-') && rc && rv == 0:
		return l, nil
	case op == '*' && lc && lv == 1:
		return r, nil
	case (op == '*' || op == '/' || op == '^') && rc && rv == 1:
		return l, nil
	}
	return &Binary{Op: op, L: l, R: r}, nil
}

func applyOp(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	default:
		return math.Pow(a, b)
	}
}

func (b *Binary) Eval(p Point) float64 { return applyOp(b.Op, b.L.Eval(p), b.R.Eval(p)) }

func (b *Binary) String() string {
	return "(" + b.L.String() + " " + string(b.Op) + " " + b.R.String() + ")"
}

// Func is a scalar function usable in a Call.
type Func struct {
	MinArgs, MaxArgs int
	Fn               func(args []float64) float64
}

func unary(fn func(float64) float64) Func {
	return Func{MinArgs: 1, MaxArgs: 1, Fn: func(a []float64) float64 { return fn(a[0]) }}
}

// Sig is the logistic function.
func Sig(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// Heaviside is the smoothed step 0.5*(1+tanh(x)).
func Heaviside(x float64) float64 { return 0.5 * (1 + math.Tanh(x)) }

// Sign returns -1, 0 or 1 with a SignEpsilon dead zone around zero.
func Sign(x float64) float64 {
	switch {
	case x < -SignEpsilon:
		return -1
	case x > SignEpsilon:
		return 1
	default:
		return 0
	}
}

// RoundEven rounds half to even, optionally to a number of decimal digits.
func RoundEven(x float64, digits int) float64 {
	if digits == 0 {
		return math.RoundToEven(x)
	}
	scale := math.Pow(10, float64(digits))
	return math.RoundToEven(x*scale) / scale
}

// Ramp rises from p1 at t=0 to p2 at t=tr following half a cosine period and
// stays at the end values outside [0, tr].
func Ramp(t, p1, p2, tr float64) float64 {
	if t <= 0 {
		return p1
	}
	if t >= tr {
		return p2
	}
	return p1 + (p2-p1)*(1-math.Cos(math.Pi*t/tr))/2
}

// Funcs is the table of scalar functions that can appear in a Call.
var Funcs = map[string]Func{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"exp":   unary(math.Exp),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"trunc": unary(math.Trunc),
	"tanh":  unary(math.Tanh),
	"sig":   unary(Sig),
	"H":     unary(Heaviside),
	"sgn":   unary(Sign),
	"round": {MinArgs: 1, MaxArgs: 2, Fn: func(a []float64) float64 {
		if len(a) == 2 {
			return RoundEven(a[0], int(a[1]))
		}
		return RoundEven(a[0], 0)
	}},
	"ramp": {MinArgs: 1, MaxArgs: 4, Fn: func(a []float64) float64 {
		args := []float64{0, 0, 1, 1}
		copy(args, a)
		return Ramp(args[0], args[1], args[2], args[3])
	}},
}

// Call is the pointwise application of a table function.
type Call struct {
	Name string
	Args []Expr
	fn   Func
}

// CallOf applies a table function to args, folding when every argument is
// constant.
func CallOf(name string, args ...Expr) (Expr, error) {
	fn, ok := Funcs[name]
	if !ok {
		return nil, fmt.Errorf("field: unknown function %q", name)
	}
	if len(args) < fn.MinArgs || len(args) > fn.MaxArgs {
		return nil, fmt.Errorf("field: %s takes %d to %d arguments, got %d", name, fn.MinArgs, fn.MaxArgs, len(args))
	}
	consts := make([]float64, 0, len(args))
	for _, a := range args {
		v, ok := IsConstant(a)
		if !ok {
			return &Call{Name: name, Args: args, fn: fn}, nil
		}
		consts = append(consts, v)
	}
	return Num(fn.Fn(consts)), nil
}

func (c *Call) Eval(p Point) float64 {
	vals := make([]float64, len(c.Args))
	for i, a := range c.Args {
		vals[i] = a.Eval(p)
	}
	return c.fn.Fn(vals)
}

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}
