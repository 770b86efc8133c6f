// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package field provides the symbolic coefficient values produced when a
// configuration expression depends on the spatial coordinates or on the time
// parameter. A field is a small expression tree that the finite-element engine
// evaluates pointwise; here it can be evaluated at a Point or printed.
//
// Numbers never become fields on their own. Constructors such as BinaryOf and
// CallOf fold constant operands eagerly, so a tree only exists when at least
// one leaf is a Coord or a Param.
package field

import (
	"strconv"
)

// Point is a location in the spatial domain. Unused axes are zero.
type Point struct {
	X, Y, Z float64
}

// At returns the coordinate of p along the given axis.
func (p Point) At(axis Axis) float64 {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// Expr is a scalar symbolic value.
type Expr interface {
	// Eval returns the value of the expression at p.
	Eval(p Point) float64
	String() string
}

// Num is a constant leaf.
type Num float64

func (n Num) Eval(Point) float64 { return float64(n) }
func (n Num) String() string     { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Axis selects a spatial coordinate.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Coord is the coordinate function along one axis.
type Coord struct {
	Axis Axis
}

// Coordinate handles bound to the reserved variables x, y and z.
var (
	X Expr = Coord{Axis: AxisX}
	Y Expr = Coord{Axis: AxisY}
	Z Expr = Coord{Axis: AxisZ}
)

func (c Coord) Eval(p Point) float64 { return p.At(c.Axis) }

func (c Coord) String() string {
	switch c.Axis {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	default:
		return "z"
	}
}

// Param is a named scalar whose value can change after expressions that
// reference it have been built. The time parameter t is a Param: advancing the
// clock updates every field holding it without re-parsing.
type Param struct {
	name  string
	value float64
}

// NewParam creates a parameter with an initial value.
func NewParam(name string, value float64) *Param {
	return &Param{name: name, value: value}
}

// Set changes the parameter value.
func (p *Param) Set(v float64) { p.value = v }

// Value returns the current parameter value.
func (p *Param) Value() float64 { return p.value }

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

func (p *Param) Eval(Point) float64 { return p.value }
func (p *Param) String() string     { return p.name }

// IsConstant reports whether e is a Num, returning its value.
func IsConstant(e Expr) (float64, bool) {
	n, ok := e.(Num)
	return float64(n), ok
}
