package types

import "fmt"

// UnknownTypeError reports a reference to a type name with no declaration.
type UnknownTypeError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type encountered: %s", e.Name)
}

// Table maps declared type names to their defining bodies. It is built once
// per compiled unit, before any analysis runs, and is read-only afterwards;
// callers thread it explicitly through every comparison. Named types may be
// mutually referential, but must resolve to a non-named body after finitely
// many unfoldings.
type Table struct {
	decls map[string]Type
}

// NewTable creates an empty declaration table.
func NewTable() *Table {
	return &Table{decls: make(map[string]Type)}
}

// Declare binds a type name to its body. It reports false if the name is
// already bound, leaving the existing binding intact.
func (t *Table) Declare(name string, body Type) bool {
	if _, ok := t.decls[name]; ok {
		return false
	}
	t.decls[name] = body
	return true
}

// Lookup returns the body bound to the given name, if any.
func (t *Table) Lookup(name string) (Type, bool) {
	body, ok := t.decls[name]
	return body, ok
}

// Unfold replaces a named type by its declared body, one level only.
func (t *Table) Unfold(n *Named) (Type, error) {
	body, ok := t.decls[n.name]
	if !ok {
		return nil, &UnknownTypeError{Name: n.name}
	}
	return body, nil
}

// IsCopy reports whether values of the given type may be duplicated by
// ordinary assignment. A type is copy unless a unique reference is reachable
// at some position within it, through arrays, record fields, union bounds or
// named-type bodies. Unknown names are treated as non-copy; the type checker
// rejects them before any ownership analysis runs.
func (t *Table) IsCopy(ty Type) bool {
	return t.isCopy(ty, nil)
}

func (t *Table) isCopy(ty Type, visited map[string]bool) bool {
	switch ty := ty.(type) {
	case *UniqueReference:
		return false
	case *Record:
		for _, f := range ty.fields {
			if !t.isCopy(f.Type, visited) {
				return false
			}
		}
		return true
	case *Array:
		return t.isCopy(ty.elem, visited)
	case *Union:
		for _, b := range ty.bounds {
			if !t.isCopy(b, visited) {
				return false
			}
		}
		return true
	case *Named:
		// A name already being unfolded contributes no new unique
		// references of its own.
		if visited[ty.name] {
			return true
		}
		body, ok := t.decls[ty.name]
		if !ok {
			return false
		}
		if visited == nil {
			visited = make(map[string]bool)
		}
		visited[ty.name] = true
		return t.isCopy(body, visited)
	default:
		return true
	}
}
