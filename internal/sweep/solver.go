package sweep

import (
	"context"
	"fmt"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctxlog"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/params"
)

// Solver advances the model variables by one time step. Implementations
// update vars in place.
type Solver interface {
	Step(ctx context.Context, t *field.Param, vars arith.Variables) error
}

// ExpressionSolver advances model variables with the update expressions of
// their configuration. Every variable holds a time-staggered pair
// []any{current, previous}.
type ExpressionSolver struct {
	fns  *params.Functions
	vars []*config.ModelVariable
}

// NewExpressionSolver returns a solver for the given variables.
func NewExpressionSolver(fns *params.Functions, vars []*config.ModelVariable) *ExpressionSolver {
	return &ExpressionSolver{fns: fns, vars: vars}
}

// Init evaluates the initial expression of every variable in declaration
// order. Later variables may read earlier ones.
func (s *ExpressionSolver) Init(ctx context.Context, t *field.Param) (arith.Variables, error) {
	vars := make(arith.Variables, len(s.vars))
	for _, mv := range s.vars {
		res, err := s.fns.Parse(mv.Initial, t, vars)
		if err != nil {
			return nil, fmt.Errorf("model variable %s: initial %q: %w", mv.Name, mv.Initial, err)
		}
		vars[mv.Name] = []any{res.Value, res.Value}
	}
	ctxlog.FromContext(ctx).Debug("Model variables initialised.", "count", len(vars))
	return vars, nil
}

// Step evaluates every update expression against the variables of the
// previous step, then shifts each updated pair. Variables without an update
// expression keep their value.
func (s *ExpressionSolver) Step(ctx context.Context, t *field.Param, vars arith.Variables) error {
	next := make(map[string]any, len(s.vars))
	for _, mv := range s.vars {
		if mv.Update == "" {
			continue
		}
		res, err := s.fns.Parse(mv.Update, t, vars)
		if err != nil {
			return fmt.Errorf("model variable %s: update %q: %w", mv.Name, mv.Update, err)
		}
		next[mv.Name] = res.Value
	}
	for name, v := range next {
		prev := v
		if pair, ok := vars[name].([]any); ok && len(pair) > 0 {
			prev = pair[0]
		}
		vars[name] = []any{v, prev}
	}
	ctxlog.FromContext(ctx).Debug("Solver step complete.", "t", t.Value(), "updated", len(next))
	return nil
}
