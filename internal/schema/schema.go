// Package schema defines the HCL block structures for pipeline
// specification documents. These are the raw decode targets; translation
// into the config model happens in the hcl package.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// SpecBlock describes the specification document itself.
type SpecBlock struct {
	Name        string `hcl:"name,optional"`
	Description string `hcl:"description,optional"`
	Version     string `hcl:"version,optional"`
}

// DatatypeBlock declares a named datatype in the type catalog.
type DatatypeBlock struct {
	Name        string `hcl:"name,label"`
	Kind        string `hcl:"kind"`
	Description string `hcl:"description,optional"`
}

// ParamBlock declares a single parameter of a transform or generator. Type
// is an expression so datatype names can appear as bare identifiers, the
// same way native type keywords do.
type ParamBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Optional    bool           `hcl:"optional,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// TransformBlock declares a transform: its registry implementation
// reference, expected source location, parameters and return type.
type TransformBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Impl        string         `hcl:"impl"`
	File        string         `hcl:"file,optional"`
	Returns     hcl.Expression `hcl:"returns"`
	Params      []*ParamBlock  `hcl:"param,block"`
}

// CheckBlock declares a validation check implementation.
type CheckBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
	Impl        string `hcl:"impl"`
	File        string `hcl:"file,optional"`
}

// GeneratorBlock declares a data generator implementation.
type GeneratorBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Impl        string         `hcl:"impl"`
	File        string         `hcl:"file,optional"`
	Returns     hcl.Expression `hcl:"returns"`
	Params      []*ParamBlock  `hcl:"param,block"`
}

// StageBlock declares one pipeline stage and its selection rules.
type StageBlock struct {
	Name             string         `hcl:"name,label"`
	Description      string         `hcl:"description,optional"`
	Input            hcl.Expression `hcl:"input"`
	Output           hcl.Expression `hcl:"output"`
	SelectionMode    string         `hcl:"selection_mode"`
	MaxSelect        *int           `hcl:"max_select,optional"`
	Candidates       []string       `hcl:"candidates,optional"`
	DefaultTransform string         `hcl:"default_transform,optional"`
	CollectOutput    bool           `hcl:"collect_output,optional"`
}

// FileRoot decodes all possible top-level blocks from any specification
// file. Declarations may be split across files in any combination.
type FileRoot struct {
	Spec       *SpecBlock        `hcl:"spec,block"`
	Datatypes  []*DatatypeBlock  `hcl:"datatype,block"`
	Checks     []*CheckBlock     `hcl:"check,block"`
	Generators []*GeneratorBlock `hcl:"generator,block"`
	Transforms []*TransformBlock `hcl:"transform,block"`
	Stages     []*StageBlock     `hcl:"stage,block"`
	Remain     hcl.Body          `hcl:",remain"`
}
