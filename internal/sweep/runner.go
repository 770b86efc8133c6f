package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/ctxlog"
	"github.com/vk/pdeconf/internal/ctyval"
	"github.com/vk/pdeconf/internal/domain"
	"github.com/vk/pdeconf/internal/field"
	"github.com/vk/pdeconf/internal/params"
	"github.com/vk/pdeconf/internal/publish"
	"github.com/vk/pdeconf/internal/store"
)

// VariablesKey is the frame entry holding the sampled model variables.
const VariablesKey = "model_variables"

// Plan is everything a run needs once configuration has been evaluated.
type Plan struct {
	Run   store.Run
	Time  *field.Param
	Start float64
	Dt    float64
	Steps int
	Vars  arith.Variables
	Sets  []*params.Set
	// Probes are the sample points. An empty list samples the origin.
	Probes []field.Point
}

// Runner executes plans.
type Runner struct {
	Functions *params.Functions
	Solver    Solver
	Store     store.Store
	Publisher publish.Publisher
	Event     string
}

// Run records frame 0 and then one frame per time step. It returns the
// recorded frames in step order.
func (r *Runner) Run(ctx context.Context, plan *Plan) ([]store.Frame, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", plan.Run.ID)
	ctx = ctxlog.WithLogger(ctx, logger)

	if plan.Run.StartedAt.IsZero() {
		plan.Run.StartedAt = time.Now().UTC()
	}
	if err := r.Store.BeginRun(ctx, plan.Run); err != nil {
		return nil, fmt.Errorf("beginning run: %w", err)
	}
	logger.Info("Run started.", "steps", plan.Steps, "sections", len(plan.Sets), "probes", len(plan.Probes))

	probes := plan.Probes
	if len(probes) == 0 {
		probes = []field.Point{{}}
	}

	frames := make([]store.Frame, 0, plan.Steps+1)
	for step := 0; step <= plan.Steps; step++ {
		if err := ctx.Err(); err != nil {
			return frames, fmt.Errorf("run cancelled at step %d: %w", step, err)
		}
		if step > 0 {
			if err := r.advance(ctx, plan, step); err != nil {
				return frames, fmt.Errorf("step %d: %w", step, err)
			}
		}
		frame, err := r.frame(ctx, plan, step, probes)
		if err != nil {
			return frames, fmt.Errorf("step %d: %w", step, err)
		}
		if err := r.Store.Record(ctx, frame); err != nil {
			return frames, fmt.Errorf("step %d: recording frame: %w", step, err)
		}
		if err := r.publish(ctx, frame); err != nil {
			return frames, fmt.Errorf("step %d: %w", step, err)
		}
		frames = append(frames, frame)
		logger.Debug("Frame recorded.", "step", step, "t", frame.Time)
	}

	logger.Info("Run finished.", "frames", len(frames))
	return frames, nil
}

func (r *Runner) advance(ctx context.Context, plan *Plan, step int) error {
	plan.Time.Set(plan.Start + float64(step)*plan.Dt)
	if r.Solver != nil {
		if err := r.Solver.Step(ctx, plan.Time, plan.Vars); err != nil {
			return err
		}
	}
	for _, set := range plan.Sets {
		if !set.Live() {
			continue
		}
		if err := r.Functions.Refresh(ctx, set, plan.Time, plan.Vars); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) frame(ctx context.Context, plan *Plan, step int, probes []field.Point) (store.Frame, error) {
	values := make(map[string]any, len(plan.Sets)+1)
	for _, set := range plan.Sets {
		entries := make(map[string]any, len(set.Values))
		for key, v := range set.Values {
			s, err := sampleAll(ctx, v, probes)
			if err != nil {
				return store.Frame{}, fmt.Errorf("section %s: sampling %s: %w", set.Name, key, err)
			}
			entries[key] = s
		}
		values[set.Name] = entries
	}
	vars := make(map[string]any, len(plan.Vars))
	for name, v := range plan.Vars {
		s, err := sampleAll(ctx, v, probes)
		if err != nil {
			return store.Frame{}, fmt.Errorf("sampling model variable %s: %w", name, err)
		}
		vars[name] = s
	}
	values[VariablesKey] = vars

	cv, err := ctyval.FromValue(values)
	if err != nil {
		return store.Frame{}, fmt.Errorf("converting frame: %w", err)
	}
	return store.Frame{RunID: plan.Run.ID, Step: step, Time: plan.Time.Value(), Values: cv}, nil
}

// sampleAll evaluates v at every probe. Values that cannot be sampled are
// recorded by their printed form.
func sampleAll(ctx context.Context, v any, probes []field.Point) ([]any, error) {
	out := make([]any, len(probes))
	for i, p := range probes {
		s, err := domain.Sample(v, p)
		if errors.Is(err, domain.ErrNotSampleable) {
			ctxlog.FromContext(ctx).Debug("Recording unsampleable value as text.", "type", fmt.Sprintf("%T", v))
			s, err = fmt.Sprint(v), nil
		}
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func (r *Runner) publish(ctx context.Context, frame store.Frame) error {
	if r.Publisher == nil {
		return nil
	}
	values, err := ctyval.ToNative(frame.Values)
	if err != nil {
		return fmt.Errorf("converting frame for publishing: %w", err)
	}
	event := r.Event
	if event == "" {
		event = publish.DefaultEvent
	}
	payload := map[string]any{
		"run_id": frame.RunID,
		"step":   frame.Step,
		"time":   frame.Time,
		"values": values,
	}
	if err := r.Publisher.Publish(ctx, event, payload); err != nil {
		return fmt.Errorf("publishing frame: %w", err)
	}
	return nil
}
