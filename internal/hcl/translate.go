package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/schema"
)

func translateDatatype(block *schema.DatatypeBlock) (config.DatatypeDecl, error) {
	kind := config.DatatypeKind(block.Kind)
	if !kind.Valid() {
		return config.DatatypeDecl{}, fmt.Errorf("datatype %q: unknown kind %q", block.Name, block.Kind)
	}
	return config.DatatypeDecl{
		ID:          block.Name,
		Kind:        kind,
		Description: block.Description,
	}, nil
}

func translateCheck(block *schema.CheckBlock) config.CheckDecl {
	return config.CheckDecl{
		ID:          block.Name,
		Description: block.Description,
		Impl:        block.Impl,
		FilePath:    block.File,
	}
}

func translateTransform(block *schema.TransformBlock) (config.TransformDecl, error) {
	returns, err := typeExprToRef(block.Returns)
	if err != nil {
		return config.TransformDecl{}, fmt.Errorf("transform %q: returns: %w", block.Name, err)
	}
	params, err := translateParams(block.Name, block.Params)
	if err != nil {
		return config.TransformDecl{}, err
	}
	return config.TransformDecl{
		ID:          block.Name,
		Description: block.Description,
		Impl:        block.Impl,
		FilePath:    block.File,
		Params:      params,
		Returns:     returns,
	}, nil
}

func translateGenerator(block *schema.GeneratorBlock) (config.GeneratorDecl, error) {
	returns, err := typeExprToRef(block.Returns)
	if err != nil {
		return config.GeneratorDecl{}, fmt.Errorf("generator %q: returns: %w", block.Name, err)
	}
	params, err := translateParams(block.Name, block.Params)
	if err != nil {
		return config.GeneratorDecl{}, err
	}
	return config.GeneratorDecl{
		ID:          block.Name,
		Description: block.Description,
		Impl:        block.Impl,
		FilePath:    block.File,
		Params:      params,
		Returns:     returns,
	}, nil
}

func translateStage(block *schema.StageBlock) (config.StageDecl, error) {
	input, err := typeExprToRef(block.Input)
	if err != nil {
		return config.StageDecl{}, fmt.Errorf("stage %q: input: %w", block.Name, err)
	}
	output, err := typeExprToRef(block.Output)
	if err != nil {
		return config.StageDecl{}, fmt.Errorf("stage %q: output: %w", block.Name, err)
	}
	return config.StageDecl{
		ID:               block.Name,
		Description:      block.Description,
		Input:            input,
		Output:           output,
		Mode:             config.SelectionMode(block.SelectionMode),
		MaxSelect:        block.MaxSelect,
		Candidates:       block.Candidates,
		DefaultTransform: block.DefaultTransform,
		CollectOutput:    block.CollectOutput,
	}, nil
}

func translateParams(owner string, blocks []*schema.ParamBlock) ([]config.ParameterDecl, error) {
	var params []config.ParameterDecl
	for _, block := range blocks {
		ref, err := typeExprToRef(block.Type)
		if err != nil {
			return nil, fmt.Errorf("%q parameter %q: %w", owner, block.Name, err)
		}
		decl := config.ParameterDecl{
			Name:        block.Name,
			Type:        ref,
			Optional:    block.Optional,
			Description: block.Description,
		}
		if block.Default != nil {
			value, err := defaultValue(ref, *block.Default)
			if err != nil {
				return nil, fmt.Errorf("%q parameter %q: %w", owner, block.Name, err)
			}
			decl.Default = value
		}
		params = append(params, decl)
	}
	return params, nil
}

// defaultValue converts a cty default literal into the Go representation the
// declared type calls for. Only native types may carry defaults; catalog
// types flow through the pipeline, they are not configured inline.
func defaultValue(ref config.TypeRef, v cty.Value) (any, error) {
	if !ref.IsNative() {
		return nil, fmt.Errorf("default values are only supported for native types, not %q", ref)
	}

	switch ref {
	case config.TypeInt:
		var n int
		if err := gocty.FromCtyValue(v, &n); err != nil {
			return nil, fmt.Errorf("default does not fit type int: %w", err)
		}
		return n, nil
	case config.TypeFloat:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("default does not fit type float: %w", err)
		}
		return f, nil
	case config.TypeString:
		var s string
		if err := gocty.FromCtyValue(v, &s); err != nil {
			return nil, fmt.Errorf("default does not fit type string: %w", err)
		}
		return s, nil
	case config.TypeBool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("default does not fit type bool: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported native type %q", ref)
}
