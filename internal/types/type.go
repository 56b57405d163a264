// Package types implements the structural type system for the While language.
// Types are immutable values compared by structure, not by name; the package
// has no AST dependencies.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns the source-level notation for the type.
	String() string

	// aType is a marker method to restrict implementations to this package.
	aType()
}

// typ is a base struct for all type implementations.
type typ struct{}

func (typ) aType() {}
