package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	// Void describes the absence of a value. It may only appear as a method
	// return type, and it is the universal subtype: a "no value yet" always
	// fits. The ownership analysis also uses it to mark moved variables.
	Void BasicKind = iota

	// Null describes the type whose sole value is null.
	Null

	// Bool describes the type of true and false.
	Bool

	// Int describes 32-bit two's complement integers.
	Int
)

// Basic represents one of the primitive types: void, null, bool, int.
type Basic struct {
	typ
	kind BasicKind
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// String implements Type.
func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
var Typ = []*Basic{
	Void: {kind: Void, name: "void"},
	Null: {kind: Null, name: "null"},
	Bool: {kind: Bool, name: "bool"},
	Int:  {kind: Int, name: "int"},
}

// isKind reports whether t is the basic type of the given kind.
func isKind(t Type, k BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == k
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	return isKind(t, Void)
}
