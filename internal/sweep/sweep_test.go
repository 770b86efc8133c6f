package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctyval"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/params"
	"github.com/vk/pdeconf/internal/registry"
	"github.com/vk/pdeconf/internal/store"
)

type published struct {
	event   string
	payload any
}

type capturePublisher struct {
	got []published
}

func (c *capturePublisher) Publish(_ context.Context, event string, payload any) error {
	c.got = append(c.got, published{event: event, payload: payload})
	return nil
}

func (c *capturePublisher) Close() error { return nil }

func newFunctions() *params.Functions {
	return params.New(arith.NewEvaluator(nil), "", nil)
}

func TestExpressionSolver_Init(t *testing.T) {
	s := NewExpressionSolver(newFunctions(), []*config.ModelVariable{
		{Name: "a", Initial: "2"},
		{Name: "b", Initial: "a*3"},
	})

	vars, err := s.Init(context.Background(), field.NewParam("t", 0))

	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), int64(2)}, vars["a"])
	assert.Equal(t, []any{int64(6), int64(6)}, vars["b"])
}

func TestExpressionSolver_StepStaggers(t *testing.T) {
	// --- Arrange ---
	s := NewExpressionSolver(newFunctions(), []*config.ModelVariable{
		{Name: "u", Initial: "1", Update: "u + v"},
		{Name: "v", Initial: "10", Update: "u"},
		{Name: "w", Initial: "5"},
	})
	clock := field.NewParam("t", 0)
	vars, err := s.Init(context.Background(), clock)
	require.NoError(t, err)

	// --- Act ---
	err = s.Step(context.Background(), clock, vars)

	// --- Assert ---
	require.NoError(t, err)
	// Updates read the previous step, not each other.
	assert.Equal(t, []any{int64(11), int64(1)}, vars["u"])
	assert.Equal(t, []any{int64(1), int64(10)}, vars["v"])
	assert.Equal(t, []any{int64(5), int64(5)}, vars["w"])
}

func TestExpressionSolver_StepError(t *testing.T) {
	s := NewExpressionSolver(newFunctions(), []*config.ModelVariable{
		{Name: "u", Initial: "1", Update: "nope(u)"},
	})
	clock := field.NewParam("t", 0)
	vars, err := s.Init(context.Background(), clock)
	require.NoError(t, err)

	err = s.Step(context.Background(), clock, vars)

	require.ErrorIs(t, err, arith.ErrUnknownFunction)
	assert.Contains(t, err.Error(), "model variable u")
}

func newPlan(t *testing.T, ctx context.Context, fns *params.Functions, steps int) (*Plan, *ExpressionSolver) {
	t.Helper()
	clock := field.NewParam("t", 0)
	solver := NewExpressionSolver(fns, []*config.ModelVariable{{Name: "u", Initial: "1", Update: "u + 1"}})
	vars, err := solver.Init(ctx, clock)
	require.NoError(t, err)
	set, err := fns.Load(ctx, config.SectionModelParameters, map[string]string{
		"k": "2*u",
		"c": "3",
		"g": "x + t",
	}, clock, vars)
	require.NoError(t, err)
	return &Plan{
		Run:    store.Run{ID: "run-1", Model: "heat"},
		Time:   clock,
		Dt:     0.5,
		Steps:  steps,
		Vars:   vars,
		Sets:   []*params.Set{set},
		Probes: []field.Point{{X: 1}},
	}, solver
}

func TestRunner_Run(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	fns := newFunctions()
	plan, solver := newPlan(t, ctx, fns, 2)
	mem := store.NewMemory()
	pub := &capturePublisher{}
	r := &Runner{Functions: fns, Solver: solver, Store: mem, Publisher: pub}

	// --- Act ---
	frames, err := r.Run(ctx, plan)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, frames, 3)

	wantK := []int64{2, 4, 6}
	wantG := []float64{1, 1.5, 2}
	for i, frame := range frames {
		assert.Equal(t, i, frame.Step)
		assert.InDelta(t, 0.5*float64(i), frame.Time, 1e-12)

		native, err := ctyval.ToNative(frame.Values)
		require.NoError(t, err)
		values := native.(map[string]any)
		section := values[config.SectionModelParameters].(map[string]any)
		assert.Equal(t, []any{wantK[i]}, section["k"], "step %d", i)
		assert.Equal(t, []any{int64(3)}, section["c"], "step %d", i)
		require.Len(t, section["g"], 1)
		assert.InDelta(t, wantG[i], section["g"].([]any)[0], 1e-12, "step %d", i)
	}

	last, err := ctyval.ToNative(frames[2].Values)
	require.NoError(t, err)
	vars := last.(map[string]any)[VariablesKey].(map[string]any)
	assert.Equal(t, []any{[]any{int64(3), int64(2)}}, vars["u"])

	stored, err := mem.Frames(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	require.Len(t, pub.got, 3)
	assert.Equal(t, "frame", pub.got[0].event)
	payload := pub.got[2].payload.(map[string]any)
	assert.Equal(t, "run-1", payload["run_id"])
	assert.Equal(t, 2, payload["step"])
}

func TestRunner_Stationary(t *testing.T) {
	ctx := context.Background()
	fns := newFunctions()
	plan, solver := newPlan(t, ctx, fns, 0)
	r := &Runner{Functions: fns, Solver: solver, Store: store.NewMemory(), Event: "state"}

	frames, err := r.Run(ctx, plan)

	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 0.0, frames[0].Time)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fns := newFunctions()
	plan, solver := newPlan(t, ctx, fns, 3)
	r := &Runner{Functions: fns, Solver: solver, Store: store.NewMemory()}
	cancel()

	frames, err := r.Run(ctx, plan)

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, frames)
}

func TestRunner_DuplicateRun(t *testing.T) {
	ctx := context.Background()
	fns := newFunctions()
	mem := store.NewMemory()
	require.NoError(t, mem.BeginRun(ctx, store.Run{ID: "run-1"}))
	plan, solver := newPlan(t, ctx, fns, 1)
	r := &Runner{Functions: fns, Solver: solver, Store: mem}

	_, err := r.Run(ctx, plan)

	require.ErrorIs(t, err, store.ErrRunExists)
}

func TestRunner_RefreshesImportInsideExpression(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	reg := registry.New()
	reg.Register("level", func(_ *field.Param, vars arith.Variables, _ arith.Domain) (any, error) {
		return vars["u"].([]any)[0], nil
	})
	fns := params.New(arith.NewEvaluator(reg), "", "mesh")
	clock := field.NewParam("t", 0)
	solver := NewExpressionSolver(fns, []*config.ModelVariable{{Name: "u", Initial: "1", Update: "u + 1"}})
	vars, err := solver.Init(ctx, clock)
	require.NoError(t, err)
	set, err := fns.Load(ctx, config.SectionModelParameters, map[string]string{"p": "2*IMPORT(level)"}, clock, vars)
	require.NoError(t, err)
	plan := &Plan{Run: store.Run{ID: "run-2"}, Time: clock, Dt: 1, Steps: 2, Vars: vars, Sets: []*params.Set{set}}
	r := &Runner{Functions: fns, Solver: solver, Store: store.NewMemory()}

	// --- Act ---
	frames, err := r.Run(ctx, plan)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, frames, 3)
	for i, frame := range frames {
		native, err := ctyval.ToNative(frame.Values)
		require.NoError(t, err)
		section := native.(map[string]any)[config.SectionModelParameters].(map[string]any)
		assert.Equal(t, []any{int64(2 * (i + 1))}, section["p"], "step %d", i)
	}
}
