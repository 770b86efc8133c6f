package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/domain"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/registry"
)

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	assert.Equal(t, []string{"cosine_ramp", "parabolic_inflow", "zero"}, r.Names())
}

func TestParabolicInflow(t *testing.T) {
	v, err := ParabolicInflow(nil, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v.(field.Expr).Eval(field.Point{Y: 0.5}), 1e-12)

	v, err = ParabolicInflow(nil, arith.Variables{"u_max": []any{1.5, 0.0}}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, v.(field.Expr).Eval(field.Point{Y: 0.5}), 1e-12)

	_, err = ParabolicInflow(nil, arith.Variables{"u_max": "fast"}, nil)
	assert.ErrorContains(t, err, "must be numeric")
}

func TestCosineRamp(t *testing.T) {
	clock := field.NewParam("t", 0)
	v, err := CosineRamp(clock, nil, nil)
	require.NoError(t, err)
	e := v.(field.Expr)
	assert.Equal(t, 0.0, e.Eval(field.Point{}))

	clock.Set(2)
	assert.Equal(t, 1.0, e.Eval(field.Point{}))

	_, err = CosineRamp(nil, nil, nil)
	assert.Error(t, err)
}

func TestZero(t *testing.T) {
	v, err := Zero(nil, nil, &domain.Mesh{File: "m.vol", Dim: 3})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, v.(*field.Vector).Eval(field.Point{}))

	_, err = Zero(nil, nil, "mesh")
	assert.ErrorContains(t, err, "no dimension")
}

func TestImportThroughEvaluator(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)
	ev := arith.NewEvaluator(r)

	res, err := ev.EvalString("2*IMPORT(parabolic_inflow)", arith.Env{Domain: &domain.Mesh{Dim: 2}})
	require.NoError(t, err)
	assert.Equal(t, arith.LiveImport, res.Live.Kind)
	assert.InDelta(t, 2.0, res.Value.(field.Expr).Eval(field.Point{Y: 0.5}), 1e-12)
}
