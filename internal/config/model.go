package config

// TypeRef is a reference to a type: either one of the native kinds (int,
// float, string, bool) or the id of a datatype declared in the catalog.
type TypeRef string

// Native type references.
const (
	TypeInt    TypeRef = "int"
	TypeFloat  TypeRef = "float"
	TypeString TypeRef = "string"
	TypeBool   TypeRef = "bool"
)

// IsNative reports whether the reference names one of the built-in kinds.
func (t TypeRef) IsNative() bool {
	switch t {
	case TypeInt, TypeFloat, TypeString, TypeBool:
		return true
	}
	return false
}

// SelectionMode controls how many transforms a user may select for a stage.
type SelectionMode string

const (
	// ModeSingle stages have exactly one candidate and are auto-selected;
	// explicit selections are not accepted.
	ModeSingle SelectionMode = "single"
	// ModeExclusive stages require exactly one explicit selection.
	ModeExclusive SelectionMode = "exclusive"
	// ModeMultiple stages require at least one selection, bounded above by
	// MaxSelect when set.
	ModeMultiple SelectionMode = "multiple"
)

// Valid reports whether the mode is one of the known values. Unknown modes
// are a declaration error, never silently defaulted.
func (m SelectionMode) Valid() bool {
	switch m {
	case ModeSingle, ModeExclusive, ModeMultiple:
		return true
	}
	return false
}

// DatatypeKind categorizes a catalog entry.
type DatatypeKind string

const (
	KindFrame   DatatypeKind = "frame"
	KindRecord  DatatypeKind = "record"
	KindEnum    DatatypeKind = "enum"
	KindAlias   DatatypeKind = "alias"
	KindGeneric DatatypeKind = "generic"
)

// Valid reports whether the kind is one of the known categories.
func (k DatatypeKind) Valid() bool {
	switch k {
	case KindFrame, KindRecord, KindEnum, KindAlias, KindGeneric:
		return true
	}
	return false
}

// DatatypeDecl declares a catalog entry.
type DatatypeDecl struct {
	ID          string
	Kind        DatatypeKind
	Description string
}

// ParameterDecl declares a single parameter of a transform or generator.
type ParameterDecl struct {
	Name        string
	Type        TypeRef
	Optional    bool
	Default     any // nil means no declared default
	Description string
}

// HasDefault reports whether the declaration carries a default value.
func (p ParameterDecl) HasDefault() bool {
	return p.Default != nil
}

// TransformDecl declares a named, typed, invocable processing step. The
// first parameter is implicitly the pipeline data input; only parameters
// after it are subject to override merging.
type TransformDecl struct {
	ID          string
	Description string
	// Impl is the registry reference in "module:function" form.
	Impl string
	// FilePath is the source location the implementation is expected to
	// live in, relative to the repository root. Used by integrity checks.
	FilePath string
	Params   []ParameterDecl
	Returns  TypeRef
}

// DataParam returns the name of the implicit pipeline-data parameter, or ""
// when the transform declares no parameters at all.
func (t TransformDecl) DataParam() string {
	if len(t.Params) == 0 {
		return ""
	}
	return t.Params[0].Name
}

// CheckDecl declares a validation check implementation.
type CheckDecl struct {
	ID          string
	Description string
	Impl        string
	FilePath    string
}

// GeneratorDecl declares a data-producing implementation used to synthesize
// initial pipeline inputs.
type GeneratorDecl struct {
	ID          string
	Description string
	Impl        string
	FilePath    string
	Params      []ParameterDecl
	Returns     TypeRef
}

// StageDecl declares one position in the pipeline: an input/output type
// contract plus a pool of candidate transforms.
type StageDecl struct {
	ID          string
	Description string
	Input       TypeRef
	Output      TypeRef
	Mode        SelectionMode
	// MaxSelect bounds the number of selections for multiple-mode stages.
	// nil means unlimited.
	MaxSelect *int
	// Candidates is the explicit candidate list. When empty, candidates are
	// auto-collected by matching transform signatures against Input/Output.
	Candidates []string
	// DefaultTransform names the candidate used for adjacency derivation.
	// When empty it is backfilled with the first resolved candidate.
	DefaultTransform string
	// CollectOutput retains this stage's output in the run result even when
	// the caller did not ask for all intermediates.
	CollectOutput bool
}

// Meta describes the specification document itself.
type Meta struct {
	Name        string
	Description string
	Version     string
}

// Model is the unified, format-agnostic representation of a loaded pipeline
// specification: the type catalog entries, the transform pool, and the
// ordered stage declarations.
type Model struct {
	Meta       Meta
	Datatypes  []DatatypeDecl
	Checks     []CheckDecl
	Generators []GeneratorDecl
	Transforms []TransformDecl
	Stages     []StageDecl
}

// Transform returns the declaration with the given id, if present.
func (m *Model) Transform(id string) (TransformDecl, bool) {
	for _, t := range m.Transforms {
		if t.ID == id {
			return t, true
		}
	}
	return TransformDecl{}, false
}

// Stage returns the declaration with the given id, if present.
func (m *Model) Stage(id string) (StageDecl, bool) {
	for _, s := range m.Stages {
		if s.ID == id {
			return s, true
		}
	}
	return StageDecl{}, false
}
