package domain

import (
	"errors"
	"fmt"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/field"
)

// ErrNotSampleable is returned for values that cannot be evaluated at a point.
var ErrNotSampleable = errors.New("value cannot be sampled")

// Points converts a coordinate value from the dispatcher into probe points.
func Points(v any) ([]field.Point, error) {
	switch c := v.(type) {
	case arith.Coord:
		p, err := point(c)
		if err != nil {
			return nil, err
		}
		return []field.Point{p}, nil
	case []arith.Coord:
		out := make([]field.Point, len(c))
		for i, coord := range c {
			p, err := point(coord)
			if err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
			out[i] = p
		}
		return out, nil
	default:
		return nil, fmt.Errorf("probe points must be written as <x, y[, z]>, got %T", v)
	}
}

func point(c arith.Coord) (field.Point, error) {
	var p field.Point
	if len(c) > 3 {
		return p, fmt.Errorf("a point has at most 3 coordinates, got %d", len(c))
	}
	axes := []*float64{&p.X, &p.Y, &p.Z}
	for i, v := range c {
		*axes[i] = v
	}
	return p, nil
}

// Sample evaluates v at p. Numbers become float64, fields and vectors are
// evaluated, lists are sampled element by element and plain values (bool,
// string, nil) pass through.
func Sample(v any, p field.Point) (any, error) {
	switch x := v.(type) {
	case nil, bool, string:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case float64:
		return x, nil
	case *field.Vector:
		return x.Eval(p), nil
	case field.Expr:
		return x.Eval(p), nil
	case arith.Coord:
		return []float64(x), nil
	case []arith.Coord:
		out := make([][]float64, len(x))
		for i, c := range x {
			out[i] = c
		}
		return out, nil
	case []float64:
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			s, err := Sample(item, p)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSampleable, v)
	}
}
