package types

import "strings"

// Named represents a reference to a declared type name which has yet to be
// unfolded in the given context. Unfolding happens lazily, one level at a
// time, via Table.Unfold.
type Named struct {
	typ
	name string
}

// NewNamed creates a new named type reference.
func NewNamed(name string) *Named {
	return &Named{name: name}
}

// Name returns the declared type name.
func (n *Named) Name() string {
	return n.name
}

// String implements Type.
func (n *Named) String() string {
	return n.name
}

// Array represents the array type T[] describing any sequence of zero or
// more values of the element type.
type Array struct {
	typ
	elem Type
}

// NewArray creates a new array type with the given element type.
func NewArray(elem Type) *Array {
	return &Array{elem: elem}
}

// Elem returns the array element type.
func (a *Array) Elem() Type {
	return a.elem
}

// String implements Type.
func (a *Array) String() string {
	return a.elem.String() + "[]"
}

// Field is a single named field of a record type.
type Field struct {
	Type Type
	Name string
}

// Record represents a record type, such as {int x, int y}. Fields are kept
// in declaration order and field names are unique.
type Record struct {
	typ
	fields []Field
}

// NewRecord creates a new record type. Record types have at least one field.
func NewRecord(fields ...Field) *Record {
	if len(fields) == 0 {
		panic("record type requires at least one field")
	}
	return &Record{fields: fields}
}

// NumFields returns the number of fields.
func (r *Record) NumFields() int {
	return len(r.fields)
}

// Field returns the field at the given index.
func (r *Record) Field(i int) Field {
	return r.fields[i]
}

// Fields returns all fields in declaration order.
func (r *Record) Fields() []Field {
	return r.fields
}

// Lookup returns the field with the given name, if any.
func (r *Record) Lookup(name string) (Field, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String implements Type.
func (r *Record) String() string {
	var buf strings.Builder
	buf.WriteString("{")
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString(f.Type.String())
		buf.WriteString(" ")
		buf.WriteString(f.Name)
	}
	buf.WriteString("}")
	return buf.String()
}

// Reference represents the reference type &T, a pointer to a heap cell of
// the element type.
type Reference struct {
	typ
	elem Type
}

// NewReference creates a new reference type.
func NewReference(elem Type) *Reference {
	return &Reference{elem: elem}
}

// Elem returns the type of the referenced cell.
func (r *Reference) Elem() Type {
	return r.elem
}

// String implements Type.
func (r *Reference) String() string {
	return "&" + r.elem.String()
}

// UniqueReference represents the unique reference type &T:1, a reference
// carrying a linear-ownership obligation: there is exactly one live owner,
// and moving the reference invalidates the source.
type UniqueReference struct {
	typ
	elem Type
}

// NewUniqueReference creates a new unique reference type.
func NewUniqueReference(elem Type) *UniqueReference {
	return &UniqueReference{elem: elem}
}

// Elem returns the type of the referenced cell.
func (r *UniqueReference) Elem() Type {
	return r.elem
}

// String implements Type.
func (r *UniqueReference) String() string {
	return "&" + r.elem.String() + ":1"
}

// Union represents a union type, such as int|null, consisting of two or
// more type bounds. Bound order is not significant for equality.
type Union struct {
	typ
	bounds []Type
}

// NewUnion creates a new union type from the given bounds.
func NewUnion(bounds ...Type) *Union {
	if len(bounds) < 2 {
		panic("union type requires at least two bounds")
	}
	return &Union{bounds: bounds}
}

// Bounds returns the type bounds making up this union.
func (u *Union) Bounds() []Type {
	return u.bounds
}

// String implements Type.
func (u *Union) String() string {
	var buf strings.Builder
	for i, b := range u.bounds {
		if i > 0 {
			buf.WriteString("|")
		}
		buf.WriteString(b.String())
	}
	return buf.String()
}
