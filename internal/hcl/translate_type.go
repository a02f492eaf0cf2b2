package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/pipewright/pipewright/internal/config"
)

// typeExprToRef converts an HCL type expression into a type reference.
// References are bare identifiers: the native keywords (int, float, string,
// bool) or the name of a declared datatype. Quoted names are accepted too.
// Resolvability against the catalog is validated downstream.
func typeExprToRef(expr hcl.Expression) (config.TypeRef, error) {
	if expr == nil {
		return "", fmt.Errorf("missing type expression")
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return "", fmt.Errorf("invalid type reference: traversal path is not a single identifier")
		}
		return config.TypeRef(v.Traversal.RootName()), nil

	case *hclsyntax.TemplateExpr:
		if len(v.Parts) == 1 {
			if lit, ok := v.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type().Equals(cty.String) {
				return config.TypeRef(lit.Val.AsString()), nil
			}
		}
		return "", fmt.Errorf("invalid type reference: templates are not allowed")

	default:
		return "", fmt.Errorf("unsupported expression for type reference: %T", v)
	}
}
