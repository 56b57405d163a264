package types

// Equal reports whether x and y are structurally equal types. Two types are
// equal iff they have the same variant and equal substructure; union bound
// order is not significant.
func Equal(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Named:
		if y, ok := y.(*Named); ok {
			return x.name == y.name
		}
	case *Array:
		if y, ok := y.(*Array); ok {
			return Equal(x.elem, y.elem)
		}
	case *Record:
		if y, ok := y.(*Record); ok {
			return equalFields(x.fields, y.fields)
		}
	case *UniqueReference:
		if y, ok := y.(*UniqueReference); ok {
			return Equal(x.elem, y.elem)
		}
	case *Reference:
		if y, ok := y.(*Reference); ok {
			return Equal(x.elem, y.elem)
		}
	case *Union:
		if y, ok := y.(*Union); ok {
			return equalBounds(x.bounds, y.bounds)
		}
	}
	return false
}

func equalFields(x, y []Field) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i].Name != y[i].Name || !Equal(x[i].Type, y[i].Type) {
			return false
		}
	}
	return true
}

// equalBounds compares two bound sets ignoring order.
func equalBounds(x, y []Type) bool {
	if len(x) != len(y) {
		return false
	}
	return containsBounds(x, y) && containsBounds(y, x)
}

func containsBounds(x, y []Type) bool {
	for _, b := range x {
		found := false
		for _, c := range y {
			if Equal(b, c) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
