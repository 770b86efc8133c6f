package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/pdeconf/internal/config"
	"github.com/vk/pdeconf/internal/ctxlog"
	"github.com/vk/pdeconf/internal/hcl_adapter"
	"github.com/vk/pdeconf/internal/yaml_adapter"
)

// loaderFor picks the configuration format from the extension of path.
// Directories and .hcl files are read as HCL.
func loaderFor(path string) config.Loader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml_adapter.NewLoader()
	default:
		return hcl_adapter.NewLoader()
	}
}

// loadModel loads, overrides and validates the configuration model.
func (a *App) loadModel(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	paths := a.config.ConfigPaths
	logger.Debug("Loading configuration...", "paths", paths)

	model, err := loaderFor(paths[0]).Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := a.applyOverrides(model); err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Info("Configuration loaded.", "model", model.Run.Model, "sections", len(model.Sections), "model_variables", len(model.ModelVariables))
	return model, nil
}

func (a *App) applyOverrides(m *config.Model) error {
	cfg := a.config
	for name, raw := range cfg.Vars {
		m.Set(config.SectionModelParameters, name, raw)
	}
	if cfg.StartTime != nil {
		m.Time.Start = *cfg.StartTime
	}
	if cfg.Steps != nil {
		m.Time.Steps = *cfg.Steps
	}
	if cfg.Store != "" {
		abs, err := filepath.Abs(cfg.Store)
		if err != nil {
			return fmt.Errorf("resolving store path: %w", err)
		}
		m.Output.Store = abs
	}
	if cfg.Publish != "" {
		m.Output.Publish = cfg.Publish
	}
	if cfg.Namespace != "" {
		m.Output.Namespace = cfg.Namespace
	}
	return nil
}

// importDir returns the directory IMPORT calls resolve against: the -import-dir
// flag, then run.import_dir relative to the configuration, then the
// configuration directory itself.
func (a *App) importDir(m *config.Model) string {
	switch {
	case a.config.ImportDir != "":
		return a.config.ImportDir
	case m.Run.ImportDir != "":
		return relTo(m.Dir, m.Run.ImportDir)
	default:
		return m.Dir
	}
}

func relTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
