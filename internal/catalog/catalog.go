// Package catalog provides the read-only type catalog: a registry mapping
// type identifiers to their declared category, used by every validation
// layer to decide whether a type reference is resolvable.
package catalog

import (
	"github.com/pipewright/pipewright/internal/config"
)

// Kind is the resolved category of a type reference.
type Kind string

const (
	// KindNative covers the built-in int/float/string/bool references.
	KindNative Kind = "native"

	KindFrame   Kind = Kind(config.KindFrame)
	KindRecord  Kind = Kind(config.KindRecord)
	KindEnum    Kind = Kind(config.KindEnum)
	KindAlias   Kind = Kind(config.KindAlias)
	KindGeneric Kind = Kind(config.KindGeneric)
)

// Catalog maps declared type ids to their category. It is built once from
// the loaded datatype declarations and never mutated afterwards.
type Catalog struct {
	kinds map[config.TypeRef]Kind
}

// New builds a catalog from datatype declarations. Later declarations with
// a duplicate id do not overwrite earlier ones; duplicate detection is the
// declaration validator's job.
func New(datatypes []config.DatatypeDecl) *Catalog {
	c := &Catalog{kinds: make(map[config.TypeRef]Kind, len(datatypes))}
	for _, dt := range datatypes {
		ref := config.TypeRef(dt.ID)
		if _, exists := c.kinds[ref]; exists {
			continue
		}
		c.kinds[ref] = Kind(dt.Kind)
	}
	return c
}

// Resolve returns the category of the reference. Native kinds resolve
// without a catalog entry. The second result is false for references that
// are neither native nor declared.
func (c *Catalog) Resolve(ref config.TypeRef) (Kind, bool) {
	if ref.IsNative() {
		return KindNative, true
	}
	kind, ok := c.kinds[ref]
	return kind, ok
}

// Resolvable reports whether the reference names a native kind or a
// declared catalog entry.
func (c *Catalog) Resolvable(ref config.TypeRef) bool {
	_, ok := c.Resolve(ref)
	return ok
}

// Len returns the number of declared (non-native) entries.
func (c *Catalog) Len() int {
	return len(c.kinds)
}
