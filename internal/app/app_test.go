package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/hcl_adapter"
	"github.com/vk/pdeconf/internal/store"
	"github.com/vk/pdeconf/internal/yaml_adapter"
)

type decodedReport struct {
	RunID  string `json:"run_id"`
	Model  string `json:"model"`
	Frames []struct {
		Step   int                       `json:"step"`
		Time   float64                   `json:"time"`
		Values map[string]map[string]any `json:"values"`
	} `json:"frames"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decode(t *testing.T, out *SafeBuffer) decodedReport {
	t.Helper()
	var r decodedReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &r), out.String())
	return r
}

const heatHCL = `
run {
  model = "heat"
}

mesh {
  file = "square.vol"
  dim  = 3
}

time {
  step  = 0.5
  steps = 2
}

model_variable "u" {
  initial = 1
  update  = "u + 1"
}

model_parameters {
  kappa  = 0.5
  source = "2*u"
  inflow = "IMPORT(parabolic_inflow)"
  rest   = "IMPORT(zero)"
}

boundary_conditions "dirichlet" {
  u = {
    left  = "0"
    right = "IMPORT(scaled)"
  }
}

probe {
  points = "<0.5, 0.5>"
}

output {
  store = "runs.db"
}
`

const importFunctions = `
function "scaled" {
  description = "grows linearly in time"
  value       = "t*10"
}
`

func TestApp_Run_HCL(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	path := writeFile(t, dir, "heat.hcl", heatHCL)
	writeFile(t, dir, "square.vol", "mesh")
	writeFile(t, dir, "import_functions.hcl", importFunctions)

	cfg, err := NewConfig(Config{ConfigPaths: []string{path}})
	require.NoError(t, err)
	a, out, _ := SetupAppTest(t, cfg)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	report := decode(t, out)
	assert.Equal(t, "heat", report.Model)
	require.Len(t, report.Frames, 3)

	wantSource := []float64{2, 4, 6}
	wantRight := []float64{0, 5, 10}
	for i, frame := range report.Frames {
		assert.Equal(t, i, frame.Step)
		assert.InDelta(t, 0.5*float64(i), frame.Time, 1e-12)

		mp := frame.Values[config.SectionModelParameters]
		assert.Equal(t, []any{0.5}, mp["kappa"])
		assert.Equal(t, []any{wantSource[i]}, mp["source"], "step %d", i)
		assert.Equal(t, []any{1.0}, mp["inflow"])
		assert.Equal(t, []any{[]any{0.0, 0.0, 0.0}}, mp["rest"])

		bc := frame.Values[config.BoundarySection("dirichlet")]
		assert.Equal(t, []any{0.0}, bc["u/left"])
		assert.Equal(t, []any{wantRight[i]}, bc["u/right"], "step %d", i)
	}

	db, err := store.NewSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	defer db.Close()
	frames, err := db.Frames(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Len(t, frames, 3)
}

const heatYAML = `
run:
  model: heat
time:
  step: 0.1
  steps: 5
model_variables:
  u:
    initial: 2
model_parameters:
  k: "x*2"
  g: "u*t"
`

func TestApp_Run_YAMLWithOverrides(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	path := writeFile(t, dir, "heat.yaml", heatYAML)
	start, steps := 1.5, 0
	cfg, err := NewConfig(Config{
		ConfigPaths: []string{path},
		StartTime:   &start,
		Steps:       &steps,
		Vars:        map[string]string{"k": "3"},
	})
	require.NoError(t, err)
	a, out, _ := SetupAppTest(t, cfg)

	// --- Act ---
	err = a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	report := decode(t, out)
	require.Len(t, report.Frames, 1)
	assert.Equal(t, 1.5, report.Frames[0].Time)
	mp := report.Frames[0].Values[config.SectionModelParameters]
	assert.Equal(t, []any{3.0}, mp["k"])
	assert.Equal(t, []any{3.0}, mp["g"])
}

func TestApp_Run_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bad expression", content: `model_parameters { k = "1 +" }`, want: "model_parameters"},
		{name: "unknown import", content: `model_parameters { k = "IMPORT(nope)" }`, want: "nope"},
		{name: "missing mesh", content: `mesh { file = "absent.vol" }`, want: "loading mesh"},
		{name: "invalid time", content: "time {\n  steps = 2\n}", want: "invalid configuration"},
		{name: "bad probe", content: `probe { points = "1, 2" }`, want: "probe points"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "bad.hcl", tc.content)
			cfg, err := NewConfig(Config{ConfigPaths: []string{path}})
			require.NoError(t, err)
			a, _, _ := SetupAppTest(t, cfg)

			err = a.Run(context.Background())

			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestApp_ImportDir(t *testing.T) {
	a := NewApp(&SafeBuffer{}, &SafeBuffer{}, &Config{ConfigPaths: []string{"x.hcl"}})
	m := &config.Model{Dir: "/runs/heat"}
	assert.Equal(t, "/runs/heat", a.importDir(m))

	m.Run.ImportDir = "imports"
	assert.Equal(t, filepath.Join("/runs/heat", "imports"), a.importDir(m))

	a.config.ImportDir = "/custom"
	assert.Equal(t, "/custom", a.importDir(m))
}

func TestLoaderFor(t *testing.T) {
	assert.IsType(t, &yaml_adapter.Loader{}, loaderFor("run.yaml"))
	assert.IsType(t, &yaml_adapter.Loader{}, loaderFor("RUN.YML"))
	assert.IsType(t, &hcl_adapter.Loader{}, loaderFor("run.hcl"))
	assert.IsType(t, &hcl_adapter.Loader{}, loaderFor("configs"))
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.ErrorContains(t, err, "configuration path is required")

	steps := -1
	_, err = NewConfig(Config{ConfigPaths: []string{"a.hcl"}, Steps: &steps})
	assert.ErrorContains(t, err, "must not be negative")

	cfg, err := NewConfig(Config{ConfigPaths: []string{"a.hcl"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.hcl"}, cfg.ConfigPaths)
}

func TestNewApp_RegistersCoreModules(t *testing.T) {
	a := NewApp(&SafeBuffer{}, &SafeBuffer{}, &Config{ConfigPaths: []string{"x.hcl"}})
	assert.Equal(t, []string{"cosine_ramp", "parabolic_inflow", "zero"}, a.Registry().Names())
}

func TestNewLogger(t *testing.T) {
	buf := &SafeBuffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "WARN", line["level"])
}
