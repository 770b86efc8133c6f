package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Names of the expression sections.
const (
	SectionModelParameters    = "model_parameters"
	SectionInitialConditions  = "initial_conditions"
	SectionReferenceSolutions = "reference_solutions"
	SectionBoundaryPrefix     = "boundary_conditions"
)

// MarkerSeparator joins a parameter name and a boundary marker in section
// keys, as in "u/inlet".
const MarkerSeparator = "/"

// EntryKey returns the section key for a parameter, optionally restricted to
// one boundary marker.
func EntryKey(name, marker string) string {
	if marker == "" {
		return name
	}
	return name + MarkerSeparator + marker
}

// BoundarySection returns the section name for one boundary condition type,
// such as "boundary_conditions.dirichlet".
func BoundarySection(kind string) string {
	return SectionBoundaryPrefix + "." + kind
}

// Model is the unified, format-agnostic representation of a run
// configuration.
type Model struct {
	// Dir is the directory the configuration was loaded from. Relative file
	// references are resolved against it.
	Dir            string
	Run            Run
	Mesh           *Mesh
	Time           Time
	ModelVariables []*ModelVariable
	// Sections maps a section name to its entries. Entry keys are a
	// parameter name or "name/marker" for per-boundary-marker values.
	Sections map[string]Section
	Probe    *Probe
	Output   Output
}

// Run holds run-wide settings.
type Run struct {
	Model     string
	ImportDir string
}

// Mesh references the spatial domain.
type Mesh struct {
	File string
	Dim  int
}

// Time describes the time axis. Steps == 0 is a stationary run.
type Time struct {
	Start float64
	Step  float64
	Steps int
}

// ModelVariable is a named value owned by the solver. Initial is evaluated
// once; Update, when set, produces the value of the next step.
type ModelVariable struct {
	Name    string
	Initial string
	Update  string
}

// Section is the raw text of every entry of one configuration section.
type Section map[string]string

// Probe lists the points at which values are sampled each step.
type Probe struct {
	Points string
}

// Output configures where frames go.
type Output struct {
	Store     string
	Publish   string
	Namespace string
	Event     string
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Sections: make(map[string]Section)}
}

// SectionNames returns the section names in evaluation order: model
// parameters first, then the boundary sections sorted, then initial
// conditions and reference solutions.
func (m *Model) SectionNames() []string {
	order := func(name string) int {
		switch {
		case name == SectionModelParameters:
			return 0
		case strings.HasPrefix(name, SectionBoundaryPrefix+"."):
			return 1
		case name == SectionInitialConditions:
			return 2
		case name == SectionReferenceSolutions:
			return 3
		default:
			return 4
		}
	}
	names := slices.Collect(maps.Keys(m.Sections))
	slices.SortFunc(names, func(a, b string) int {
		if d := order(a) - order(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})
	return names
}

// Set stores the raw text of one entry, creating the section when needed.
func (m *Model) Set(section, key, raw string) {
	if m.Sections == nil {
		m.Sections = make(map[string]Section)
	}
	s, ok := m.Sections[section]
	if !ok {
		s = make(Section)
		m.Sections[section] = s
	}
	s[key] = raw
}

// Merge adds the settings of other to m. Singleton blocks may only be set by
// one of the two models and section entries may not collide.
func (m *Model) Merge(other *Model) error {
	var errs []error
	if other.Run != (Run{}) {
		if m.Run != (Run{}) {
			errs = append(errs, errors.New("duplicate run block"))
		}
		m.Run = other.Run
	}
	if other.Mesh != nil {
		if m.Mesh != nil {
			errs = append(errs, errors.New("duplicate mesh block"))
		}
		m.Mesh = other.Mesh
	}
	if other.Time != (Time{}) {
		if m.Time != (Time{}) {
			errs = append(errs, errors.New("duplicate time block"))
		}
		m.Time = other.Time
	}
	if other.Probe != nil {
		if m.Probe != nil {
			errs = append(errs, errors.New("duplicate probe block"))
		}
		m.Probe = other.Probe
	}
	if other.Output != (Output{}) {
		if m.Output != (Output{}) {
			errs = append(errs, errors.New("duplicate output block"))
		}
		m.Output = other.Output
	}
	m.ModelVariables = append(m.ModelVariables, other.ModelVariables...)
	for name, section := range other.Sections {
		for key, raw := range section {
			if _, exists := m.Sections[name][key]; exists {
				errs = append(errs, fmt.Errorf("%s: duplicate entry %q", name, key))
				continue
			}
			m.Set(name, key, raw)
		}
	}
	return errors.Join(errs...)
}

// Validate checks the model for semantic errors.
func (m *Model) Validate() error {
	var errs []error
	if m.Time.Steps < 0 {
		errs = append(errs, fmt.Errorf("time: steps must not be negative, got %d", m.Time.Steps))
	}
	if m.Time.Steps > 0 && m.Time.Step <= 0 {
		errs = append(errs, fmt.Errorf("time: step must be positive for a transient run, got %g", m.Time.Step))
	}
	seen := make(map[string]bool)
	for _, v := range m.ModelVariables {
		switch {
		case v.Name == "":
			errs = append(errs, errors.New("model_variable: name is required"))
		case seen[v.Name]:
			errs = append(errs, fmt.Errorf("model_variable %q declared twice", v.Name))
		case v.Initial == "":
			errs = append(errs, fmt.Errorf("model_variable %q: initial is required", v.Name))
		}
		seen[v.Name] = true
	}
	for _, name := range m.SectionNames() {
		if name == SectionBoundaryPrefix+"." {
			errs = append(errs, errors.New("boundary_conditions: a type label is required"))
		}
		for key, raw := range m.Sections[name] {
			if strings.TrimSpace(raw) == "" {
				errs = append(errs, fmt.Errorf("%s: entry %q is empty", name, key))
			}
		}
	}
	return errors.Join(errs...)
}
