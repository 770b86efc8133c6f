package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/pdeconf/internal/arith"
	"github.com/vk/pdeconf/internal/field"
)

// HCLFileName is the import file looked up in the import directory.
const HCLFileName = "import_functions.hcl"

type hclFile struct {
	Functions []*hclFunction `hcl:"function,block"`
}

type hclFunction struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Value       string `hcl:"value"`
}

// HCLModule resolves functions defined in an import_functions.hcl file:
//
//	function "inflow" {
//	  description = "parabolic inflow scaled by the current velocity"
//	  value       = "4*y*(1-y)*u_max"
//	}
//
// Calling such a function dispatches its value with the caller's time,
// model variables and domain. Definitions cannot IMPORT other functions.
type HCLModule struct {
	eval *arith.Evaluator
}

// NewHCLModule returns a resolver for import files.
func NewHCLModule() *HCLModule {
	return &HCLModule{eval: arith.NewEvaluator(nil)}
}

// Resolve implements arith.Resolver. The file is read on every call so that
// edits are picked up by the next evaluation.
func (m *HCLModule) Resolve(dir, name string) (arith.ImportFunc, error) {
	path := filepath.Join(dir, HCLFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no %s in %q", ErrNotFound, HCLFileName, dir)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	var decoded hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &decoded); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	for _, fn := range decoded.Functions {
		if fn.Name != name {
			continue
		}
		expr := fn.Value
		return func(t *field.Param, vars arith.Variables, domain arith.Domain) (any, error) {
			res, err := m.eval.ParseValue(expr, arith.Env{ImportDir: dir, Time: t, Variables: vars, Domain: domain})
			if err != nil {
				return nil, fmt.Errorf("%s: function %q: %w", path, name, err)
			}
			return res.Value, nil
		}, nil
	}
	return nil, fmt.Errorf("%w: %s has no function %q", ErrNotFound, path, name)
}
