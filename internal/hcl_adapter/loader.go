package hcl_adapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/slidegridgo/internal/config"
	"github.com/specialistvlad/slidegridgo/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// LookupEnv backs the `env()` function. Nil means os.LookupEnv.
	LookupEnv LookupEnvFunc
}

// NewLoader creates a new HCL plan loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load discovers every .hcl file under paths, resolves variables against
// vars and decodes the rest of each file into the returned model.
func (l *Loader) Load(ctx context.Context, vars map[string]string, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl plan files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	files := make([]*hcl.File, 0, len(hclFiles))
	for _, path := range hclFiles {
		f, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		files = append(files, f)
	}

	// Pass 1: variables only, no evaluation context.
	var declared []*Variable
	for i, f := range files {
		var root variablesRoot
		if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode variables in %s: %w", hclFiles[i], diags)
		}
		declared = append(declared, root.Variables...)
	}

	values, err := resolveVariables(declared, vars)
	if err != nil {
		return nil, err
	}

	model := config.NewModel()
	for name, v := range values {
		model.Variables[name] = renderValue(v)
	}

	// Pass 2: everything else, with var.* and functions in scope.
	evalCtx := evalContext(values, l.LookupEnv)
	for i, f := range files {
		var root fileRoot
		if diags := gohcl.DecodeBody(f.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", hclFiles[i], diags)
		}
		if err := l.merge(ctx, model, &root); err != nil {
			return nil, err
		}
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	logger.Debug("HCL loading complete.",
		"variables", len(model.Variables),
		"models", len(model.Models),
		"agents", len(model.Agents),
		"steps", len(model.Steps),
	)
	return model, nil
}

// merge translates the blocks of one file and adds them to model.
func (l *Loader) merge(ctx context.Context, model *config.Model, root *fileRoot) error {
	var problems []error

	for _, m := range root.Models {
		def, err := translateModel(m)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if _, dup := model.Models[def.Name]; dup {
			problems = append(problems, fmt.Errorf("%s: model '%s' is declared more than once", m.DeclRange, m.Name))
			continue
		}
		model.Models[def.Name] = def
	}

	for _, a := range root.Agents {
		agent, err := translateAgent(a)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		if _, dup := model.Agents[agent.Kind]; dup {
			problems = append(problems, fmt.Errorf("%s: agent '%s' is declared more than once", a.DeclRange, a.Kind))
			continue
		}
		model.Agents[agent.Kind] = agent
	}

	for _, s := range root.Steps {
		st, err := l.translateStep(ctx, s)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		model.Steps = append(model.Steps, st)
	}

	return errors.Join(problems...)
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing plan path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) != ".hcl" {
				return nil, fmt.Errorf("plan file %s does not have the .hcl extension", path)
			}
			add(path)
			continue
		}

		// WalkDir visits entries in lexical order, so load order is stable.
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == ".hcl" {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return allFiles, nil
}
