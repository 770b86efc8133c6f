package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctxlog"
	"github.com/vk/pdeconf/internal/domain"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/params"
	"github.com/vk/pdeconf/internal/publish"
	"github.com/vk/pdeconf/internal/registry"
	"github.com/vk/pdeconf/internal/store"
	"github.com/vk/pdeconf/internal/sweep"
)

// TimeParam is the name of the time parameter seen by expressions.
const TimeParam = "t"

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loadModel(ctx)
	if err != nil {
		return err
	}

	var dom arith.Domain
	if model.Mesh != nil {
		mesh, err := domain.Load(model.Mesh.File, model.Dir, model.Mesh.Dim)
		if err != nil {
			return err
		}
		a.logger.Debug("Mesh resolved.", "mesh", mesh.String())
		dom = mesh
	}

	importDir := a.importDir(model)
	resolver := registry.Chain{a.registry, registry.NewHCLModule(), registry.Plugin{}}
	fns := params.New(arith.NewEvaluator(resolver), importDir, dom)
	a.logger.Debug("Functions configured.", "import_dir", importDir)

	clock := field.NewParam(TimeParam, model.Time.Start)
	solver := sweep.NewExpressionSolver(fns, model.ModelVariables)
	vars, err := solver.Init(ctx, clock)
	if err != nil {
		return err
	}

	sets := make([]*params.Set, 0, len(model.Sections))
	for _, name := range model.SectionNames() {
		set, err := fns.Load(ctx, name, model.Sections[name], clock, vars)
		if err != nil {
			return err
		}
		sets = append(sets, set)
	}

	probes, err := probePoints(fns, model.Probe, clock, vars)
	if err != nil {
		return err
	}

	st, err := store.Open(relOrEmpty(model.Dir, model.Output.Store))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	pub, err := a.publisher(ctx, model.Output)
	if err != nil {
		return err
	}
	defer pub.Close()

	runner := &sweep.Runner{Functions: fns, Solver: solver, Store: st, Publisher: pub, Event: model.Output.Event}
	plan := &sweep.Plan{
		Run: store.Run{
			ID:     uuid.NewString(),
			Model:  model.Run.Model,
			Config: strings.Join(a.config.ConfigPaths, ","),
		},
		Time:   clock,
		Start:  model.Time.Start,
		Dt:     model.Time.Step,
		Steps:  model.Time.Steps,
		Vars:   vars,
		Sets:   sets,
		Probes: probes,
	}

	a.logger.Info("🚀 Starting run...", "run_id", plan.Run.ID, "steps", plan.Steps)
	frames, err := runner.Run(ctx, plan)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	a.logger.Info("🏁 Run finished.", "frames", len(frames))

	if err := writeReport(a.outW, plan.Run, frames); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func probePoints(fns *params.Functions, probe *config.Probe, t *field.Param, vars arith.Variables) ([]field.Point, error) {
	if probe == nil || probe.Points == "" {
		return nil, nil
	}
	res, err := fns.Parse(probe.Points, t, vars)
	if err != nil {
		return nil, fmt.Errorf("probe points %q: %w", probe.Points, err)
	}
	points, err := domain.Points(res.Value)
	if err != nil {
		return nil, fmt.Errorf("probe points %q: %w", probe.Points, err)
	}
	return points, nil
}

func (a *App) publisher(ctx context.Context, out config.Output) (publish.Publisher, error) {
	if out.Publish == "" {
		return publish.Nop{}, nil
	}
	ns := out.Namespace
	if ns == "" {
		ns = "/"
	}
	pub, err := publish.DialSocketIO(ctx, publish.SocketIOOptions{URL: out.Publish, Namespace: ns})
	if err != nil {
		return nil, fmt.Errorf("connecting publisher: %w", err)
	}
	return pub, nil
}

func relOrEmpty(dir, path string) string {
	if path == "" {
		return ""
	}
	return relTo(dir, path)
}
