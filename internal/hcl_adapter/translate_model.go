// This file contains the logic for translating the HCL schema structs into
// the format-agnostic configuration model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctxlog"
)

// translateFile converts the blocks of one file.
func (l *Loader) translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	m := config.NewModel()

	if root.Run != nil {
		m.Run = config.Run{Model: root.Run.Model, ImportDir: root.Run.ImportDir}
	}
	if root.Mesh != nil {
		m.Mesh = &config.Mesh{File: root.Mesh.File, Dim: root.Mesh.Dim}
	}
	if root.Time != nil {
		m.Time = config.Time{Start: root.Time.Start, Step: root.Time.Step, Steps: root.Time.Steps}
	}
	if root.Output != nil {
		m.Output = config.Output{
			Store:     root.Output.Store,
			Publish:   root.Output.Publish,
			Namespace: root.Output.Namespace,
			Event:     root.Output.Event,
		}
	}

	for _, mv := range root.ModelVariables {
		v, err := translateModelVariable(mv)
		if err != nil {
			return nil, err
		}
		m.ModelVariables = append(m.ModelVariables, v)
	}

	if root.Probe != nil {
		points, err := exprText(root.Probe.Points)
		if err != nil {
			return nil, fmt.Errorf("probe points: %w", err)
		}
		m.Probe = &config.Probe{Points: points}
	}

	sections := map[string]*sectionBlock{
		config.SectionModelParameters:    root.ModelParameters,
		config.SectionInitialConditions:  root.InitialConditions,
		config.SectionReferenceSolutions: root.ReferenceSolutions,
	}
	for name, block := range sections {
		if block == nil {
			continue
		}
		entries, err := sectionEntries(block.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m.Sections[name] = entries
	}
	for _, bc := range root.BoundaryConditions {
		name := config.BoundarySection(bc.Kind)
		if _, dup := m.Sections[name]; dup {
			return nil, fmt.Errorf("duplicate boundary_conditions %q block", bc.Kind)
		}
		entries, err := sectionEntries(bc.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m.Sections[name] = entries
	}

	logger.Debug("Translated HCL file.", "model_variables", len(m.ModelVariables), "sections", len(m.Sections))
	return m, nil
}

func translateModelVariable(mv *modelVariableBlock) (*config.ModelVariable, error) {
	initial, err := exprText(mv.Initial)
	if err != nil {
		return nil, fmt.Errorf("model_variable %q: initial: %w", mv.Name, err)
	}
	v := &config.ModelVariable{Name: mv.Name, Initial: initial}
	if isExprDefined(mv.Update) {
		update, err := exprText(mv.Update)
		if err != nil {
			return nil, fmt.Errorf("model_variable %q: update: %w", mv.Name, err)
		}
		v.Update = update
	}
	return v, nil
}
