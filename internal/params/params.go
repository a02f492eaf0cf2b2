// Package params merges a transform's declared parameter defaults with
// caller-supplied overrides and validates every supplied value against the
// declared parameter type.
package params

import (
	"fmt"

	"github.com/pipewright/pipewright/internal/config"
	"github.com/pipewright/pipewright/internal/diag"
)

// sizeLike names parameters that, by convention, carry a size-like quantity
// and must resolve to a strictly positive number. Matches the well-known
// names the spec language uses for window lengths and lag counts.
var sizeLike = map[string]struct{}{
	"window": {},
	"n_lags": {},
	"lags":   {},
	"size":   {},
	"length": {},
	"count":  {},
}

// Resolve merges declared defaults with overrides for every parameter
// beyond the implicit pipeline-data parameter, validating supplied values
// along the way. All issues from one resolution are accumulated and
// returned together; resolution never stops at the first problem.
//
// Resolving twice with the same declaration and overrides yields identical
// merged maps.
func Resolve(transform config.TransformDecl, overrides map[string]any) (map[string]any, diag.List) {
	var issues diag.List
	merged := make(map[string]any)

	declared := make(map[string]config.ParameterDecl)
	for _, p := range transform.Params[min(1, len(transform.Params)):] {
		declared[p.Name] = p
	}

	// Fail closed on override keys the transform never declared. The
	// pipeline-data parameter is supplied by the engine and cannot be
	// overridden either.
	for name := range overrides {
		if _, ok := declared[name]; ok {
			continue
		}
		if name == transform.DataParam() {
			issues.Add(diag.Parameter, transform.ID+"/"+name,
				"transform '%s': parameter '%s' is the pipeline data input and cannot be overridden",
				transform.ID, name)
			continue
		}
		issues.Add(diag.Parameter, transform.ID+"/"+name,
			"transform '%s': unknown parameter '%s'", transform.ID, name)
	}

	for _, p := range transform.Params[min(1, len(transform.Params)):] {
		value, supplied := overrides[p.Name]
		switch {
		case supplied:
			if ok, got := valueMatches(p.Type, value); !ok {
				issues.Add(diag.Parameter, transform.ID+"/"+p.Name,
					"transform '%s': parameter '%s' expected type %s, got %s",
					transform.ID, p.Name, p.Type, got)
				continue
			}
			merged[p.Name] = value
		case p.HasDefault():
			merged[p.Name] = p.Default
		case !p.Optional:
			issues.Add(diag.Parameter, transform.ID+"/"+p.Name,
				"transform '%s': missing required parameter '%s'", transform.ID, p.Name)
			continue
		default:
			continue
		}

		if issue := checkDomainRules(transform.ID, p.Name, merged[p.Name]); issue != nil {
			issues = append(issues, *issue)
		}
	}

	return merged, issues
}

// checkDomainRules applies the positivity rule to size-like parameters.
func checkDomainRules(transformID, name string, value any) *diag.Issue {
	if _, ok := sizeLike[name]; !ok {
		return nil
	}
	num, isNumeric := asFloat(value)
	if !isNumeric || num > 0 {
		return nil
	}
	return &diag.Issue{
		Category: diag.Parameter,
		ID:       transformID + "/" + name,
		Message: fmt.Sprintf("transform '%s': parameter '%s' must be positive, got %v",
			transformID, name, value),
	}
}

// valueMatches checks a supplied value against a declared parameter type.
// Native kinds are checked strictly, with one widening: an integer value is
// accepted where a float is declared, never the reverse. Catalog references
// cannot be value-checked here and pass through.
func valueMatches(ref config.TypeRef, value any) (bool, string) {
	if !ref.IsNative() {
		return true, ""
	}

	switch ref {
	case config.TypeInt:
		if isInt(value) {
			return true, ""
		}
	case config.TypeFloat:
		if isInt(value) || isFloat(value) {
			return true, ""
		}
	case config.TypeString:
		if _, ok := value.(string); ok {
			return true, ""
		}
	case config.TypeBool:
		if _, ok := value.(bool); ok {
			return true, ""
		}
	}
	return false, typeName(value)
}

func isInt(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return true
	}
	return false
}

func isFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// asFloat converts a numeric value to float64 for domain checks.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// typeName renders the native-kind name of a runtime value for error
// messages, falling back to the Go type.
func typeName(v any) string {
	switch {
	case isInt(v):
		return "int"
	case isFloat(v):
		return "float"
	}
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}
