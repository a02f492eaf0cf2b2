package registry

import (
	"context"
	"fmt"
	"reflect"

	"github.com/pipewright/pipewright/internal/ctxlog"
)

// InvokeTransform resolves and calls a transform handler with the running
// pipeline data value and a fully merged parameter map. The parameter map
// is bound onto the handler's params struct by pipe tag name.
func (r *Registry) InvokeTransform(ctx context.Context, ref string, data any, params map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	h, err := r.ResolveTransform(ref)
	if err != nil {
		return nil, err
	}

	fnVal := reflect.ValueOf(h.Fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func || fnType.NumIn() != 3 || fnType.NumOut() != 2 {
		return nil, fmt.Errorf("transform handler %q has unsupported signature %s", ref, fnType)
	}

	dataArg, err := valueForArg(fnType.In(1), data)
	if err != nil {
		return nil, fmt.Errorf("transform %q: pipeline data %w", ref, err)
	}

	paramsArg, err := buildParamsArg(fnType.In(2), h.NewParams, params)
	if err != nil {
		return nil, fmt.Errorf("transform %q: %w", ref, err)
	}

	logger.Debug("Calling transform handler.", "ref", ref)
	results := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), dataArg, paramsArg})
	if errResult := results[1].Interface(); errResult != nil {
		return nil, errResult.(error)
	}
	return results[0].Interface(), nil
}

// InvokeCheck resolves and calls a check handler against a pipeline data
// value. Checks report pass/fail; the error return covers the handler
// failing to evaluate at all.
func (r *Registry) InvokeCheck(ctx context.Context, ref string, data any) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	h, err := r.ResolveCheck(ref)
	if err != nil {
		return false, err
	}

	fnVal := reflect.ValueOf(h.Fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func || fnType.NumIn() != 2 || fnType.NumOut() != 2 {
		return false, fmt.Errorf("check handler %q has unsupported signature %s", ref, fnType)
	}

	dataArg, err := valueForArg(fnType.In(1), data)
	if err != nil {
		return false, fmt.Errorf("check %q: pipeline data %w", ref, err)
	}

	logger.Debug("Calling check handler.", "ref", ref)
	results := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), dataArg})
	if errResult := results[1].Interface(); errResult != nil {
		return false, errResult.(error)
	}
	passed, ok := results[0].Interface().(bool)
	if !ok {
		return false, fmt.Errorf("check handler %q must return bool, got %s", ref, fnType.Out(0))
	}
	return passed, nil
}

// InvokeGenerator resolves and calls a generator handler with a parameter
// map.
func (r *Registry) InvokeGenerator(ctx context.Context, ref string, params map[string]any) (any, error) {
	logger := ctxlog.FromContext(ctx)

	h, err := r.ResolveGenerator(ref)
	if err != nil {
		return nil, err
	}

	fnVal := reflect.ValueOf(h.Fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func || fnType.NumIn() != 2 || fnType.NumOut() != 2 {
		return nil, fmt.Errorf("generator handler %q has unsupported signature %s", ref, fnType)
	}

	paramsArg, err := buildParamsArg(fnType.In(1), h.NewParams, params)
	if err != nil {
		return nil, fmt.Errorf("generator %q: %w", ref, err)
	}

	logger.Debug("Calling generator handler.", "ref", ref)
	results := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), paramsArg})
	if errResult := results[1].Interface(); errResult != nil {
		return nil, errResult.(error)
	}
	return results[0].Interface(), nil
}

// valueForArg adapts a runtime value to a function argument type, rejecting
// values whose dynamic type does not fit the handler's declared input.
func valueForArg(argType reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(argType), nil
	}
	val := reflect.ValueOf(v)
	if !val.Type().AssignableTo(argType) {
		return reflect.Value{}, fmt.Errorf("of type %s does not match expected type %s", val.Type(), argType)
	}
	return val, nil
}

// buildParamsArg allocates the handler's params struct and binds the merged
// parameter map onto it. A handler with no params struct accepts a zero
// value for its params argument.
func buildParamsArg(argType reflect.Type, newParams func() any, params map[string]any) (reflect.Value, error) {
	if newParams == nil {
		return reflect.Zero(argType), nil
	}

	paramsStruct := newParams()
	if err := bindParams(paramsStruct, params); err != nil {
		return reflect.Value{}, err
	}

	val := reflect.ValueOf(paramsStruct)
	if !val.Type().AssignableTo(argType) {
		return reflect.Value{}, fmt.Errorf("params struct %s does not match handler argument type %s", val.Type(), argType)
	}
	return val, nil
}

// bindParams assigns named values onto the pipe-tagged fields of a params
// struct. Integer values widen into float fields; every other conversion
// must be directly assignable.
func bindParams(paramsStruct any, params map[string]any) error {
	structVal := reflect.ValueOf(paramsStruct)
	if structVal.Kind() != reflect.Ptr || structVal.IsNil() {
		return fmt.Errorf("params struct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get(ParamTag)
		if tag == "" || tag == "-" {
			continue
		}
		raw, ok := params[tag]
		if !ok || raw == nil {
			continue
		}

		if err := setField(fieldVal, raw); err != nil {
			return fmt.Errorf("parameter %q: %w", tag, err)
		}
	}
	return nil
}

// setField assigns a raw parameter value to a struct field, applying the
// numeric widening the type rules allow.
func setField(fieldVal reflect.Value, raw any) error {
	rawVal := reflect.ValueOf(raw)

	if rawVal.Type().AssignableTo(fieldVal.Type()) {
		fieldVal.Set(rawVal)
		return nil
	}

	switch fieldVal.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if isIntKind(rawVal.Kind()) {
			fieldVal.SetInt(rawVal.Int())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if isIntKind(rawVal.Kind()) {
			fieldVal.SetFloat(float64(rawVal.Int()))
			return nil
		}
		if rawVal.Kind() == reflect.Float32 || rawVal.Kind() == reflect.Float64 {
			fieldVal.SetFloat(rawVal.Float())
			return nil
		}
	}

	return fmt.Errorf("cannot assign value of type %s to field of type %s", rawVal.Type(), fieldVal.Type())
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}
