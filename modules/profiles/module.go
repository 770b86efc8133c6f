// Package profiles provides compiled-in functions for IMPORT calls that are
// common across runs: inflow profiles, time ramps and zero fields.
package profiles

import (
	"fmt"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// dimensioned is satisfied by domain handles that know their dimension.
type dimensioned interface {
	Dimension() int
}

// ParabolicInflow returns 4*y*(1-y), scaled by the u_max model variable when
// it is set.
func ParabolicInflow(_ *field.Param, vars arith.Variables, _ arith.Domain) (any, error) {
	oneMinusY, err := field.BinaryOf('-', field.Num(1), field.Y)
	if err != nil {
		return nil, err
	}
	profile, err := field.BinaryOf('*', field.Num(4), field.Y)
	if err != nil {
		return nil, err
	}
	profile, err = field.BinaryOf('*', profile, oneMinusY)
	if err != nil {
		return nil, err
	}

	raw, ok := vars["u_max"]
	if !ok {
		return profile, nil
	}
	if staggered, isList := raw.([]any); isList && len(staggered) > 0 {
		raw = staggered[0]
	}
	var scale field.Expr
	switch v := raw.(type) {
	case float64:
		scale = field.Num(v)
	case int64:
		scale = field.Num(float64(v))
	case field.Expr:
		scale = v
	default:
		return nil, fmt.Errorf("parabolic_inflow: u_max must be numeric, got %T", raw)
	}
	return field.BinaryOf('*', profile, scale)
}

// CosineRamp rises from 0 to 1 over the first unit of time.
func CosineRamp(t *field.Param, _ arith.Variables, _ arith.Domain) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("cosine_ramp: no time parameter")
	}
	return field.CallOf("ramp", t, field.Num(0), field.Num(1), field.Num(1))
}

// Zero returns a zero vector with one component per axis of the domain.
func Zero(_ *field.Param, _ arith.Variables, domain arith.Domain) (any, error) {
	d, ok := domain.(dimensioned)
	if !ok {
		return nil, fmt.Errorf("zero: domain %T has no dimension", domain)
	}
	comps := make([]field.Expr, d.Dimension())
	for i := range comps {
		comps[i] = field.Num(0)
	}
	return field.VectorOf(comps...), nil
}

// Register registers the functions with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register("parabolic_inflow", ParabolicInflow)
	r.Register("cosine_ramp", CosineRamp)
	r.Register("zero", Zero)
}
