// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package arith

import "github.com/vk/pdeconf/internal/field"

// Domain is an opaque spatial-domain handle (for example a mesh). It is passed
// to imported functions unchanged.
type Domain any

// Variables maps model-variable names to their current values. A slice value
// holds time-staggered values, of which index 0 is used for evaluation.
type Variables map[string]any

// ImportFunc is a dynamically imported function.
type ImportFunc func(t *field.Param, vars Variables, domain Domain) (any, error)

// Import is a resolved IMPORT call.
type Import struct {
	Name string
	Fn   ImportFunc
}

// Invoke calls the imported function with fresh arguments.
func (i *Import) Invoke(t *field.Param, vars Variables, domain Domain) (any, error) {
	return i.Fn(t, vars, domain)
}

// Resolver maps an import directory and a function name to a callable.
type Resolver interface {
	Resolve(dir, name string) (ImportFunc, error)
}

// LiveKind says why a value must be recomputed later.
type LiveKind int

const (
	// NotLive values never change.
	NotLive LiveKind = iota
	// LiveExpression values depend on a model variable; the expression string
	// must be parsed again when the variable changes.
	LiveExpression
	// LiveImport values come from an imported function that must be invoked
	// again with fresh arguments.
	LiveImport
)

func (k LiveKind) String() string {
	switch k {
	case LiveExpression:
		return "expression"
	case LiveImport:
		return "import"
	default:
		return "none"
	}
}

// Liveness is the re-evaluation signal attached to every evaluation result.
type Liveness struct {
	Kind       LiveKind
	Expression string
	Import     *Import
}

// IsLive reports whether the value must be recomputed later.
func (l Liveness) IsLive() bool { return l.Kind != NotLive }

// Result is one evaluated value and its liveness.
type Result struct {
	Value any
	Live  Liveness
}

// live is the liveness tracked while reducing a stack.
type live struct {
	variable bool
	imp      *Import
}

// or merges two signals. An import outranks a variable dependency and the
// receiver's import is kept when both carry one.
func (l live) or(o live) live {
	if l.imp == nil {
		l.imp = o.imp
	}
	l.variable = l.variable || o.variable
	return l
}

// signal converts the internal flags into the public union for source.
func (l live) signal(source string) Liveness {
	switch {
	case l.imp != nil:
		return Liveness{Kind: LiveImport, Import: l.imp}
	case l.variable:
		return Liveness{Kind: LiveExpression, Expression: source}
	default:
		return Liveness{Kind: NotLive}
	}
}
