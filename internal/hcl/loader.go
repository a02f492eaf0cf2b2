// Package hcl is the HCL-specific implementation of the config.Loader
// interface: it discovers, parses and translates specification documents
// into the format-agnostic model.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/ctxlog"
	"github.com/pipewright/pipewright/internal/fsutil"
	"github.com/pipewright/pipewright/internal/schema"
)

// Loader reads .hcl specification files.
type Loader struct{}

// NewLoader creates a new HCL specification loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file reachable from the given paths and merges all
// discovered blocks into one model. Declarations may be split across files
// in any combination; merge order follows path order, then directory walk
// order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findSpecFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered specification files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.FileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if err := l.mergeFile(model, &root); err != nil {
			return nil, fmt.Errorf("in %s: %w", file, err)
		}
	}

	logger.Debug("HCL loading complete.",
		"datatypes", len(model.Datatypes),
		"transforms", len(model.Transforms),
		"stages", len(model.Stages),
		"checks", len(model.Checks),
		"generators", len(model.Generators))
	return model, nil
}

// mergeFile translates one file's blocks into the model.
func (l *Loader) mergeFile(model *config.Model, root *schema.FileRoot) error {
	if root.Spec != nil {
		model.Meta = config.Meta{
			Name:        root.Spec.Name,
			Description: root.Spec.Description,
			Version:     root.Spec.Version,
		}
	}
	for _, block := range root.Datatypes {
		decl, err := translateDatatype(block)
		if err != nil {
			return err
		}
		model.Datatypes = append(model.Datatypes, decl)
	}
	for _, block := range root.Checks {
		model.Checks = append(model.Checks, translateCheck(block))
	}
	for _, block := range root.Generators {
		decl, err := translateGenerator(block)
		if err != nil {
			return err
		}
		model.Generators = append(model.Generators, decl)
	}
	for _, block := range root.Transforms {
		decl, err := translateTransform(block)
		if err != nil {
			return err
		}
		model.Transforms = append(model.Transforms, decl)
	}
	for _, block := range root.Stages {
		decl, err := translateStage(block)
		if err != nil {
			return err
		}
		model.Stages = append(model.Stages, decl)
	}
	return nil
}

// findSpecFiles resolves the given paths into a deduplicated flat list of
// .hcl files. Directories are walked recursively; missing paths are
// ignored.
func (l *Loader) findSpecFiles(paths []string) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})

	add := func(file string) {
		if _, ok := seen[file]; !ok {
			all = append(all, file)
			seen[file] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, err
			}
			for _, file := range found {
				add(file)
			}
		} else if filepath.Ext(path) == ".hcl" {
			add(path)
		}
	}
	return all, nil
}
