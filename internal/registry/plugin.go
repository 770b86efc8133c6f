package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"plugin"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/field"
)

// PluginFileName is the Go plugin looked up in the import directory.
const PluginFileName = "import_functions.so"

// Plugin resolves functions exported by a Go plugin built with
// -buildmode=plugin. An exported symbol must be a function with the ImportFunc
// signature or a variable of type arith.ImportFunc.
type Plugin struct{}

// Resolve implements arith.Resolver.
func (Plugin) Resolve(dir, name string) (arith.ImportFunc, error) {
	path := filepath.Join(dir, PluginFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no %s in %q", ErrNotFound, PluginFileName, dir)
	}
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plugin %s: %w", path, err)
	}
	sym, err := p.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, path, err)
	}
	return asImportFunc(path, name, sym)
}

func asImportFunc(path, name string, sym any) (arith.ImportFunc, error) {
	switch fn := sym.(type) {
	case func(*field.Param, arith.Variables, arith.Domain) (any, error):
		return fn, nil
	case arith.ImportFunc:
		return fn, nil
	case *arith.ImportFunc:
		return *fn, nil
	default:
		return nil, fmt.Errorf("%s: symbol %q has type %T, not an import function", path, name, sym)
	}
}
