package types

import "fmt"

// MismatchError reports that one type is not a subtype of another, even
// after both sides have been expanded to disjunctive normal form.
type MismatchError struct {
	Want Type
	Got  Type
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected type %s, found %s", e.Want, e.Got)
}

// IsSubtype reports whether sub is a (syntactic) subtype of sup. The relation
// is structural: array element types are covariant, records support width
// subtyping over a positional field prefix, plain references are invariant
// and unique references are covariant. Named types on either side are
// unfolded one level at a time; an error is returned only for undeclared
// names.
func (t *Table) IsSubtype(sup, sub Type) (bool, error) {
	// void fits anywhere. It denotes the absence of a value, so there is
	// nothing a context could reject.
	if IsVoid(sub) {
		return true, nil
	}
	switch sup := sup.(type) {
	case *Basic:
		if sub, ok := sub.(*Basic); ok && sup.kind == sub.kind {
			return true, nil
		}
	case *Array:
		if sub, ok := sub.(*Array); ok {
			return t.IsSubtype(sup.elem, sub.elem)
		}
	case *Reference:
		switch sub := sub.(type) {
		case *Reference:
			// Plain references are readable and writable, so the cell
			// type must match in both directions.
			if ok, err := t.IsSubtype(sup.elem, sub.elem); !ok || err != nil {
				return ok, err
			}
			return t.IsSubtype(sub.elem, sup.elem)
		case *UniqueReference:
			// A unique reference may be weakened to a plain one.
			return t.IsSubtype(sup.elem, sub.elem)
		}
	case *UniqueReference:
		if sub, ok := sub.(*UniqueReference); ok {
			return t.IsSubtype(sup.elem, sub.elem)
		}
		// A plain reference never regains uniqueness.
		return false, nil
	case *Record:
		if sub, ok := sub.(*Record); ok {
			if sup.NumFields() > sub.NumFields() {
				return false, nil
			}
			for i, f := range sup.fields {
				g := sub.fields[i]
				if f.Name != g.Name {
					return false, nil
				}
				if ok, err := t.IsSubtype(f.Type, g.Type); !ok || err != nil {
					return ok, err
				}
			}
			return true, nil
		}
	}
	if sup, ok := sup.(*Named); ok {
		body, err := t.Unfold(sup)
		if err != nil {
			return false, err
		}
		return t.IsSubtype(body, sub)
	}
	if sub, ok := sub.(*Named); ok {
		body, err := t.Unfold(sub)
		if err != nil {
			return false, err
		}
		return t.IsSubtype(sup, body)
	}
	// Every bound of a subtype union must fit; checked before the supertype
	// union so that a union fits itself bound-for-bound.
	if sub, ok := sub.(*Union); ok {
		for _, b := range sub.bounds {
			ok, err := t.IsSubtype(sup, b)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	}
	if sup, ok := sup.(*Union); ok {
		for _, b := range sup.bounds {
			ok, err := t.IsSubtype(b, sub)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// CheckSubtype checks that sub flows into a context expecting sup. It first
// tries the syntactic subtype relation directly, and falls back to comparing
// the disjunctive normal forms of both sides, so that for example
// {int|null f} fits {int f}|{null f}. On failure the result is a
// *MismatchError reporting the original, unexpanded types.
func (t *Table) CheckSubtype(sup, sub Type) error {
	ok, err := t.IsSubtype(sup, sub)
	if err != nil {
		return err
	}
	if !ok {
		esup, err := t.Expand(sup)
		if err != nil {
			return err
		}
		esub, err := t.Expand(sub)
		if err != nil {
			return err
		}
		ok, err = t.IsSubtype(esup, esub)
		if err != nil {
			return err
		}
	}
	if !ok {
		return &MismatchError{Want: sup, Got: sub}
	}
	return nil
}

// LeastUpperBound computes the most precise type into which every one of the
// given types flows. Bounds subsumed by a later one are dropped, as are
// duplicates. The result is void for no types, the sole survivor for one,
// and a union otherwise.
func (t *Table) LeastUpperBound(ts []Type) (Type, error) {
	var bounds []Type
outer:
	for i, ti := range ts {
		for j := i + 1; j < len(ts); j++ {
			ok, err := t.IsSubtype(ts[j], ti)
			if err != nil {
				return nil, err
			}
			if ok {
				continue outer
			}
		}
		for _, b := range bounds {
			if Equal(b, ti) {
				continue outer
			}
		}
		bounds = append(bounds, ti)
	}
	switch len(bounds) {
	case 0:
		return Typ[Void], nil
	case 1:
		return bounds[0], nil
	default:
		return NewUnion(bounds...), nil
	}
}
