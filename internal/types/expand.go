package types

// Expand rewrites a type into disjunctive normal form: a flat set of atoms,
// each atom free of unions at any depth. A record whose fields mention unions
// is multiplied out into one atom per combination of field atoms, so
// {int|null f, int|null g} becomes four record atoms. Named types are
// unfolded as they are met. The atom count is exponential in the number of
// union positions, so expansion runs only as a fallback when the direct
// subtype check fails.
func (t *Table) Expand(ty Type) (Type, error) {
	atoms, err := t.ExpandAtoms(ty)
	if err != nil {
		return nil, err
	}
	if len(atoms) == 1 {
		return atoms[0], nil
	}
	return NewUnion(atoms...), nil
}

// ExpandAtoms returns the atoms of the disjunctive normal form of ty.
func (t *Table) ExpandAtoms(ty Type) ([]Type, error) {
	switch ty := ty.(type) {
	case *Basic:
		return []Type{ty}, nil
	case *Array:
		elems, err := t.ExpandAtoms(ty.elem)
		if err != nil {
			return nil, err
		}
		atoms := make([]Type, len(elems))
		for i, e := range elems {
			atoms[i] = NewArray(e)
		}
		return atoms, nil
	case *Reference:
		elems, err := t.ExpandAtoms(ty.elem)
		if err != nil {
			return nil, err
		}
		atoms := make([]Type, len(elems))
		for i, e := range elems {
			atoms[i] = NewReference(e)
		}
		return atoms, nil
	case *UniqueReference:
		elems, err := t.ExpandAtoms(ty.elem)
		if err != nil {
			return nil, err
		}
		atoms := make([]Type, len(elems))
		for i, e := range elems {
			atoms[i] = NewUniqueReference(e)
		}
		return atoms, nil
	case *Record:
		fieldAtoms := make([][]Type, ty.NumFields())
		for i, f := range ty.fields {
			atoms, err := t.ExpandAtoms(f.Type)
			if err != nil {
				return nil, err
			}
			fieldAtoms[i] = atoms
		}
		var atoms []Type
		expandRecord(ty, fieldAtoms, make([]Field, ty.NumFields()), 0, &atoms)
		return atoms, nil
	case *Union:
		var atoms []Type
		for _, b := range ty.bounds {
			sub, err := t.ExpandAtoms(b)
			if err != nil {
				return nil, err
			}
			atoms = append(atoms, sub...)
		}
		return atoms, nil
	case *Named:
		body, err := t.Unfold(ty)
		if err != nil {
			return nil, err
		}
		return t.ExpandAtoms(body)
	default:
		return []Type{ty}, nil
	}
}

// expandRecord enumerates the cross product of per-field atom choices,
// appending one record atom per complete choice vector.
func expandRecord(r *Record, fieldAtoms [][]Type, acc []Field, i int, out *[]Type) {
	if i == len(fieldAtoms) {
		fields := make([]Field, len(acc))
		copy(fields, acc)
		*out = append(*out, NewRecord(fields...))
		return
	}
	for _, a := range fieldAtoms[i] {
		acc[i] = Field{Type: a, Name: r.fields[i].Name}
		expandRecord(r, fieldAtoms, acc, i+1, out)
	}
}
