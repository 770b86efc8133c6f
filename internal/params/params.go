package params

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/ctxlog"
	"github.com/vk/pdeconf/internal/field"
)

// Set is one evaluated configuration section.
type Set struct {
	Name string
	// Values holds the current value of every entry.
	Values map[string]any
	// ReParse holds the original text of entries that read a model variable
	// or that use IMPORT inside a larger expression or list.
	ReParse map[string]string
	// Imports holds the callables of entries written as exactly IMPORT(name).
	Imports map[string]*arith.Import
}

// Live reports whether any entry of the set needs refreshing.
func (s *Set) Live() bool { return len(s.ReParse) > 0 || len(s.Imports) > 0 }

// Functions evaluates configuration sections for one run.
type Functions struct {
	eval      *arith.Evaluator
	importDir string
	domain    arith.Domain
}

// New returns Functions that evaluate with ev and pass importDir and domain to
// every IMPORT.
func New(ev *arith.Evaluator, importDir string, domain arith.Domain) *Functions {
	return &Functions{eval: ev, importDir: importDir, domain: domain}
}

// ImportDir returns the directory IMPORT calls resolve against.
func (f *Functions) ImportDir() string { return f.importDir }

// Evaluator returns the evaluator shared by all sections.
func (f *Functions) Evaluator() *arith.Evaluator { return f.eval }

func (f *Functions) env(t *field.Param, vars arith.Variables) arith.Env {
	return arith.Env{ImportDir: f.importDir, Time: t, Variables: vars, Domain: f.domain}
}

// Parse dispatches a single raw value.
func (f *Functions) Parse(raw string, t *field.Param, vars arith.Variables) (arith.Result, error) {
	return f.eval.ParseValue(raw, f.env(t, vars))
}

// Load evaluates every entry of section. Keys are evaluated in sorted order so
// that import side effects and logs are reproducible.
func (f *Functions) Load(ctx context.Context, name string, section map[string]string, t *field.Param, vars arith.Variables) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	set := &Set{
		Name:    name,
		Values:  make(map[string]any, len(section)),
		ReParse: make(map[string]string),
		Imports: make(map[string]*arith.Import),
	}

	for _, key := range slices.Sorted(maps.Keys(section)) {
		raw := section[key]
		res, err := f.Parse(raw, t, vars)
		if err != nil {
			return nil, fmt.Errorf("section %s: parameter %s = %q: %w", name, key, raw, err)
		}
		set.Values[key] = res.Value
		switch res.Live.Kind {
		case arith.LiveExpression:
			set.ReParse[key] = res.Live.Expression
		case arith.LiveImport:
			if isBareImport(raw, res.Live.Import.Name) {
				set.Imports[key] = res.Live.Import
			} else {
				set.ReParse[key] = raw
			}
		}
		logger.Debug("Evaluated parameter.", "section", name, "key", key, "live", res.Live.Kind.String())
	}

	logger.Debug("Section loaded.", "section", name, "entries", len(set.Values), "reparse", len(set.ReParse), "imports", len(set.Imports))
	return set, nil
}

// isBareImport reports whether raw is nothing but IMPORT(name), so that the
// function result is the whole value.
func isBareImport(raw, name string) bool {
	return strings.Join(strings.Fields(raw), "") == arith.ImportKeyword+"("+name+")"
}

// ReParse dispatches every string of reparse again with the given time and
// model variables and overwrites the matching entry of values in place. Keys
// of values that are not in reparse are left untouched.
func (f *Functions) ReParse(ctx context.Context, values map[string]any, reparse map[string]string, t *field.Param, vars arith.Variables) error {
	for _, key := range slices.Sorted(maps.Keys(reparse)) {
		res, err := f.Parse(reparse[key], t, vars)
		if err != nil {
			return fmt.Errorf("re-parsing %s = %q: %w", key, reparse[key], err)
		}
		values[key] = res.Value
	}
	ctxlog.FromContext(ctx).Debug("Re-parsed live parameters.", "count", len(reparse))
	return nil
}

// ReInvoke calls every imported function of imports with fresh arguments and
// overwrites the matching entry of values in place.
func (f *Functions) ReInvoke(ctx context.Context, values map[string]any, imports map[string]*arith.Import, t *field.Param, vars arith.Variables) error {
	for _, key := range slices.Sorted(maps.Keys(imports)) {
		imp := imports[key]
		v, err := imp.Invoke(t, vars, f.domain)
		if err != nil {
			return fmt.Errorf("re-invoking %s for %s: %w", imp.Name, key, err)
		}
		values[key] = v
	}
	ctxlog.FromContext(ctx).Debug("Re-invoked imported parameters.", "count", len(imports))
	return nil
}

// Refresh brings every live entry of set up to date.
func (f *Functions) Refresh(ctx context.Context, set *Set, t *field.Param, vars arith.Variables) error {
	if err := f.ReParse(ctx, set.Values, set.ReParse, t, vars); err != nil {
		return fmt.Errorf("section %s: %w", set.Name, err)
	}
	if err := f.ReInvoke(ctx, set.Values, set.Imports, t, vars); err != nil {
		return fmt.Errorf("section %s: %w", set.Name, err)
	}
	return nil
}
