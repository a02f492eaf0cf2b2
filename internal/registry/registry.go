package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sort"
)

// Module is the interface all compiled-in modules implement to register
// their transform, check, and generator handlers.
type Module interface {
	Register(r *Registry)
}

// ParamTag is the struct tag key naming a handler parameter. Fields without
// the tag are invisible to the binding and signature checks.
const ParamTag = "pipe"

// Registry holds every registered handler for a single application
// instance, keyed by the "module:function" reference strings declarations
// use.
type Registry struct {
	transforms map[string]*RegisteredTransform
	checks     map[string]*RegisteredCheck
	generators map[string]*RegisteredGenerator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		transforms: make(map[string]*RegisteredTransform),
		checks:     make(map[string]*RegisteredCheck),
		generators: make(map[string]*RegisteredGenerator),
	}
}

// RegisteredTransform holds the compiled Go parts of a transform.
type RegisteredTransform struct {
	// NewParams allocates the params struct the handler receives; nil when
	// the transform takes no parameters beyond the pipeline data.
	NewParams func() any
	// Fn is the handler: func(ctx, data, *Params) (out, error).
	Fn any
	// Stub marks a scaffolded handler whose body is a placeholder. Marking
	// is the registering module's concern, not source inspection.
	Stub bool

	sourceFile string
}

// RegisteredCheck holds the compiled Go parts of a check function.
type RegisteredCheck struct {
	// Fn is the handler: func(ctx, data) (bool, error).
	Fn   any
	Stub bool

	sourceFile string
}

// RegisteredGenerator holds the compiled Go parts of a data generator.
type RegisteredGenerator struct {
	NewParams func() any
	// Fn is the handler: func(ctx, *Params) (out, error).
	Fn   any
	Stub bool

	sourceFile string
}

// RegisterTransform registers a transform handler under its reference.
func (r *Registry) RegisterTransform(ref string, h *RegisteredTransform) {
	if _, exists := r.transforms[ref]; exists {
		panic(fmt.Sprintf("transform handler with reference '%s' already registered", ref))
	}
	h.sourceFile = sourceFileOf(h.Fn)
	slog.Debug("Registering transform handler.", "ref", ref, "source", h.sourceFile)
	r.transforms[ref] = h
}

// RegisterCheck registers a check handler under its reference.
func (r *Registry) RegisterCheck(ref string, h *RegisteredCheck) {
	if _, exists := r.checks[ref]; exists {
		panic(fmt.Sprintf("check handler with reference '%s' already registered", ref))
	}
	h.sourceFile = sourceFileOf(h.Fn)
	slog.Debug("Registering check handler.", "ref", ref, "source", h.sourceFile)
	r.checks[ref] = h
}

// RegisterGenerator registers a generator handler under its reference.
func (r *Registry) RegisterGenerator(ref string, h *RegisteredGenerator) {
	if _, exists := r.generators[ref]; exists {
		panic(fmt.Sprintf("generator handler with reference '%s' already registered", ref))
	}
	h.sourceFile = sourceFileOf(h.Fn)
	slog.Debug("Registering generator handler.", "ref", ref, "source", h.sourceFile)
	r.generators[ref] = h
}

// ResolveTransform returns the transform handler for a reference.
func (r *Registry) ResolveTransform(ref string) (*RegisteredTransform, error) {
	h, ok := r.transforms[ref]
	if !ok {
		return nil, fmt.Errorf("no transform handler registered for reference %q", ref)
	}
	return h, nil
}

// ResolveCheck returns the check handler for a reference.
func (r *Registry) ResolveCheck(ref string) (*RegisteredCheck, error) {
	h, ok := r.checks[ref]
	if !ok {
		return nil, fmt.Errorf("no check handler registered for reference %q", ref)
	}
	return h, nil
}

// ResolveGenerator returns the generator handler for a reference.
func (r *Registry) ResolveGenerator(ref string) (*RegisteredGenerator, error) {
	h, ok := r.generators[ref]
	if !ok {
		return nil, fmt.Errorf("no generator handler registered for reference %q", ref)
	}
	return h, nil
}

// IsStub reports whether the transform reference resolves to a handler
// registered as a stub. Unresolvable references report false; resolvability
// is a separate check.
func (r *Registry) IsStub(ref string) bool {
	h, ok := r.transforms[ref]
	return ok && h.Stub
}

// TransformRefs returns every registered transform reference, sorted.
func (r *Registry) TransformRefs() []string {
	refs := make([]string, 0, len(r.transforms))
	for ref := range r.transforms {
		refs = append(refs, ref)
	}
	sort.Strings(refs)
	return refs
}

// SourceFile returns the file the handler function was compiled from.
func (h *RegisteredTransform) SourceFile() string { return h.sourceFile }

// SourceFile returns the file the handler function was compiled from.
func (h *RegisteredCheck) SourceFile() string { return h.sourceFile }

// SourceFile returns the file the handler function was compiled from.
func (h *RegisteredGenerator) SourceFile() string { return h.sourceFile }

// ParamNames returns the parameter names the handler's params struct
// declares via its pipe tags, sorted.
func (h *RegisteredTransform) ParamNames() []string {
	if h.NewParams == nil {
		return nil
	}
	return taggedFieldNames(reflect.TypeOf(h.NewParams()))
}

// ParamNames returns the parameter names the generator's params struct
// declares via its pipe tags, sorted.
func (h *RegisteredGenerator) ParamNames() []string {
	if h.NewParams == nil {
		return nil
	}
	return taggedFieldNames(reflect.TypeOf(h.NewParams()))
}

// taggedFieldNames collects pipe tag names from a (pointer to) struct type.
func taggedFieldNames(t reflect.Type) []string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	var names []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get(ParamTag)
		if tag != "" && tag != "-" {
			names = append(names, tag)
		}
	}
	sort.Strings(names)
	return names
}

// sourceFileOf reports the file a function value was compiled from, or ""
// when it cannot be determined.
func sourceFileOf(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return ""
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return ""
	}
	file, _ := rf.FileLine(v.Pointer())
	return file
}
