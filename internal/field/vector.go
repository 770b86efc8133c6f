// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package field

import (
	"fmt"
	"strings"
)

// Vector is an ordered list of scalar components, the value built by the
// vec constructor and by square-bracket literals.
type Vector struct {
	Components []Expr
}

// VectorOf builds a vector from its components.
func VectorOf(components ...Expr) *Vector {
	return &Vector{Components: components}
}

// Len returns the number of components.
func (v *Vector) Len() int { return len(v.Components) }

// Eval evaluates every component at p.
func (v *Vector) Eval(p Point) []float64 {
	out := make([]float64, len(v.Components))
	for i, c := range v.Components {
		out[i] = c.Eval(p)
	}
	return out
}

// Constant returns the component values when no component depends on space
// or time.
func (v *Vector) Constant() ([]float64, bool) {
	out := make([]float64, len(v.Components))
	for i, c := range v.Components {
		n, ok := IsConstant(c)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// Map applies fn to every component.
func (v *Vector) Map(fn func(Expr) (Expr, error)) (*Vector, error) {
	out := make([]Expr, len(v.Components))
	for i, c := range v.Components {
		r, err := fn(c)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return VectorOf(out...), nil
}

// Zip combines two vectors of the same length component by component.
func (v *Vector) Zip(o *Vector, fn func(a, b Expr) (Expr, error)) (*Vector, error) {
	if v.Len() != o.Len() {
		return nil, fmt.Errorf("field: vector length mismatch %d != %d", v.Len(), o.Len())
	}
	out := make([]Expr, len(v.Components))
	for i := range v.Components {
		r, err := fn(v.Components[i], o.Components[i])
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return VectorOf(out...), nil
}

func (v *Vector) String() string {
	parts := make([]string, len(v.Components))
	for i, c := range v.Components {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
