// Package yaml_adapter loads run configurations written in YAML. The layout
// mirrors the HCL format:
//
//	run: {model: heat}
//	mesh: {file: square.vol}
//	time: {step: 0.01, steps: 100}
//	model_variables:
//	  u: {initial: "0", update: "u + 0.01"}
//	model_parameters:
//	  kappa: 0.5
//	boundary_conditions:
//	  dirichlet:
//	    u: {left: "0", right: "IMPORT(parabolic_inflow)"}
package yaml_adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctxlog"
)

// Loader is the YAML implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

type document struct {
	Run                runDoc                    `yaml:"run"`
	Mesh               *meshDoc                  `yaml:"mesh"`
	Time               timeDoc                   `yaml:"time"`
	ModelVariables     yaml.Node                 `yaml:"model_variables"`
	ModelParameters    map[string]any            `yaml:"model_parameters"`
	BoundaryConditions map[string]map[string]any `yaml:"boundary_conditions"`
	InitialConditions  map[string]any            `yaml:"initial_conditions"`
	ReferenceSolutions map[string]any            `yaml:"reference_solutions"`
	Probe              *probeDoc                 `yaml:"probe"`
	Output             outputDoc                 `yaml:"output"`
}

type runDoc struct {
	Model     string `yaml:"model"`
	ImportDir string `yaml:"import_dir"`
}

type meshDoc struct {
	File string `yaml:"file"`
	Dim  int    `yaml:"dim"`
}

type timeDoc struct {
	Start float64 `yaml:"start"`
	Step  float64 `yaml:"step"`
	Steps int     `yaml:"steps"`
}

type modelVariableDoc struct {
	Initial any `yaml:"initial"`
	Update  any `yaml:"update"`
}

type probeDoc struct {
	Points any `yaml:"points"`
}

type outputDoc struct {
	Store     string `yaml:"store"`
	Publish   string `yaml:"publish"`
	Namespace string `yaml:"namespace"`
	Event     string `yaml:"event"`
}

// Load reads each YAML file in paths and merges them into one model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no configuration paths given")
	}

	model := config.NewModel()
	model.Dir = filepath.Dir(paths[0])
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		part, err := Parse(data, path)
		if err != nil {
			return nil, err
		}
		if err := model.Merge(part); err != nil {
			return nil, fmt.Errorf("merging %s: %w", path, err)
		}
		logger.Debug("Loaded YAML file.", "path", path)
	}
	return model, nil
}

// Parse translates YAML content into a model. The path is used only for error
// messages.
func Parse(data []byte, path string) (*config.Model, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	m := config.NewModel()
	m.Run = config.Run(doc.Run)
	if doc.Mesh != nil {
		m.Mesh = &config.Mesh{File: doc.Mesh.File, Dim: doc.Mesh.Dim}
	}
	m.Time = config.Time(doc.Time)
	m.Output = config.Output(doc.Output)

	vars, err := modelVariables(&doc.ModelVariables)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.ModelVariables = vars

	if doc.Probe != nil {
		points, err := valueText(doc.Probe.Points)
		if err != nil {
			return nil, fmt.Errorf("%s: probe points: %w", path, err)
		}
		m.Probe = &config.Probe{Points: points}
	}

	sections := map[string]map[string]any{
		config.SectionModelParameters:    doc.ModelParameters,
		config.SectionInitialConditions:  doc.InitialConditions,
		config.SectionReferenceSolutions: doc.ReferenceSolutions,
	}
	for kind, entries := range doc.BoundaryConditions {
		sections[config.BoundarySection(kind)] = entries
	}
	for name, entries := range sections {
		if entries == nil {
			continue
		}
		if err := addSection(m, name, entries); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, name, err)
		}
	}
	return m, nil
}

// modelVariables keeps the declaration order of the mapping.
func modelVariables(node *yaml.Node) ([]*config.ModelVariable, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("model_variables must be a mapping")
	}
	var out []*config.ModelVariable
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var doc modelVariableDoc
		if err := node.Content[i+1].Decode(&doc); err != nil {
			return nil, fmt.Errorf("model_variable %q: %w", name, err)
		}
		v := &config.ModelVariable{Name: name}
		var err error
		if doc.Initial != nil {
			if v.Initial, err = valueText(doc.Initial); err != nil {
				return nil, fmt.Errorf("model_variable %q: initial: %w", name, err)
			}
		}
		if doc.Update != nil {
			if v.Update, err = valueText(doc.Update); err != nil {
				return nil, fmt.Errorf("model_variable %q: update: %w", name, err)
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func addSection(m *config.Model, name string, entries map[string]any) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if _, ok := m.Sections[name]; !ok {
		m.Sections[name] = config.Section{}
	}
	for _, key := range keys {
		if markers, ok := entries[key].(map[string]any); ok {
			for marker, v := range markers {
				s, err := valueText(v)
				if err != nil {
					return fmt.Errorf("entry %s, marker %s: %w", key, marker, err)
				}
				m.Set(name, config.EntryKey(key, marker), s)
			}
			continue
		}
		s, err := valueText(entries[key])
		if err != nil {
			return fmt.Errorf("entry %s: %w", key, err)
		}
		m.Set(name, key, s)
	}
	return nil
}

// valueText renders a decoded YAML scalar or sequence as expression text.
func valueText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "None", nil
	case string:
		return x, nil
	case bool:
		if x {
			return "True", nil
		}
		return "False", nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			s, err := valueText(item)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	default:
		return "", fmt.Errorf("cannot use a %T as an expression", v)
	}
}
