package types

import "testing"

func TestExpandAtoms(t *testing.T) {
	tbl := NewTable()
	tbl.Declare("opt", NewUnion(Typ[Int], Typ[Null]))
	tests := []struct {
		name string
		typ  Type
		want []Type
	}{
		{"basic", Typ[Int], []Type{Typ[Int]}},
		{"union flattens", NewUnion(Typ[Int], NewUnion(Typ[Bool], Typ[Null])), []Type{Typ[Int], Typ[Bool], Typ[Null]}},
		{"array distributes", NewArray(NewUnion(Typ[Int], Typ[Null])), []Type{NewArray(Typ[Int]), NewArray(Typ[Null])}},
		{"reference distributes", NewReference(NewUnion(Typ[Int], Typ[Null])), []Type{NewReference(Typ[Int]), NewReference(Typ[Null])}},
		{"named unfolds", NewNamed("opt"), []Type{Typ[Int], Typ[Null]}},
		{
			"record cross product",
			NewRecord(field("f", NewUnion(Typ[Int], Typ[Null])), field("g", NewUnion(Typ[Bool], Typ[Null]))),
			[]Type{
				NewRecord(field("f", Typ[Int]), field("g", Typ[Bool])),
				NewRecord(field("f", Typ[Int]), field("g", Typ[Null])),
				NewRecord(field("f", Typ[Null]), field("g", Typ[Bool])),
				NewRecord(field("f", Typ[Null]), field("g", Typ[Null])),
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			atoms, err := tbl.ExpandAtoms(test.typ)
			if err != nil {
				t.Fatal(err)
			}
			if len(atoms) != len(test.want) {
				t.Fatalf("ExpandAtoms(%s) yields %d atoms, want %d", test.typ, len(atoms), len(test.want))
			}
			for i, a := range atoms {
				if !Equal(a, test.want[i]) {
					t.Errorf("atom %d = %s, want %s", i, a, test.want[i])
				}
			}
		})
	}
}

// Three optional fields expand to eight record atoms, and the lifted record
// is then interchangeable with the eight-way union of its atoms.
func TestExpandRecordEquivalence(t *testing.T) {
	tbl := NewTable()
	opt := NewUnion(Typ[Int], Typ[Null])
	optArr := NewUnion(NewArray(Typ[Int]), Typ[Null])
	lifted := NewRecord(field("f", opt), field("g", opt), field("h", optArr))

	atoms, err := tbl.ExpandAtoms(lifted)
	if err != nil {
		t.Fatal(err)
	}
	if len(atoms) != 8 {
		t.Fatalf("ExpandAtoms(%s) yields %d atoms, want 8", lifted, len(atoms))
	}
	distributed := NewUnion(atoms...)

	if err := tbl.CheckSubtype(distributed, lifted); err != nil {
		t.Errorf("lifted record does not fit its normal form: %v", err)
	}
	if err := tbl.CheckSubtype(lifted, distributed); err != nil {
		t.Errorf("normal form does not fit the lifted record: %v", err)
	}
}

func TestExpandUnknownName(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Expand(NewNamed("missing")); err == nil {
		t.Error("expansion of undeclared name succeeded")
	}
}
