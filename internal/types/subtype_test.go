package types

import "testing"

func TestIsSubtype(t *testing.T) {
	tbl := NewTable()
	tbl.Declare("nat", Typ[Int])
	tbl.Declare("point", NewRecord(field("x", Typ[Int]), field("y", Typ[Int])))
	tests := []struct {
		name     string
		sup, sub Type
		want     bool
	}{
		{"reflexive basic", Typ[Int], Typ[Int], true},
		{"distinct basics", Typ[Int], Typ[Bool], false},
		{"void fits int", Typ[Int], Typ[Void], true},
		{"void fits record", NewRecord(field("x", Typ[Int])), Typ[Void], true},
		{"int does not fit void", Typ[Void], Typ[Int], false},

		{"array covariant", NewArray(NewUnion(Typ[Int], Typ[Null])), NewArray(Typ[Int]), true},
		{"array contravariant rejected", NewArray(Typ[Int]), NewArray(NewUnion(Typ[Int], Typ[Null])), false},

		{"record width", NewRecord(field("x", Typ[Int])), NewRecord(field("x", Typ[Int]), field("y", Typ[Int])), true},
		{"record width wrong direction", NewRecord(field("x", Typ[Int]), field("y", Typ[Int])), NewRecord(field("x", Typ[Int])), false},
		{"record field covariant", NewRecord(field("x", NewUnion(Typ[Int], Typ[Null]))), NewRecord(field("x", Typ[Int])), true},
		{"record positional", NewRecord(field("y", Typ[Int])), NewRecord(field("x", Typ[Int]), field("y", Typ[Int])), false},

		{"reference invariant", NewReference(Typ[Int]), NewReference(Typ[Int]), true},
		{"reference covariance rejected", NewReference(NewUnion(Typ[Int], Typ[Null])), NewReference(Typ[Int]), false},
		{"unique weakens to plain", NewReference(Typ[Int]), NewUniqueReference(Typ[Int]), true},
		{"unique weakens covariantly", NewReference(NewUnion(Typ[Int], Typ[Null])), NewUniqueReference(Typ[Int]), true},
		{"plain never unique", NewUniqueReference(Typ[Int]), NewReference(Typ[Int]), false},
		{"unique covariant", NewUniqueReference(NewUnion(Typ[Int], Typ[Null])), NewUniqueReference(Typ[Int]), true},

		{"bound into union", NewUnion(Typ[Int], Typ[Null]), Typ[Int], true},
		{"union into bound rejected", Typ[Int], NewUnion(Typ[Int], Typ[Null]), false},
		{"union into wider union", NewUnion(Typ[Int], Typ[Null], Typ[Bool]), NewUnion(Typ[Int], Typ[Null]), true},
		{"union reordered", NewUnion(Typ[Null], Typ[Int]), NewUnion(Typ[Int], Typ[Null]), true},

		{"named unfolds as sup", NewNamed("nat"), Typ[Int], true},
		{"named unfolds as sub", Typ[Int], NewNamed("nat"), true},
		{"named record width", NewRecord(field("x", Typ[Int])), NewNamed("point"), true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := tbl.IsSubtype(test.sup, test.sub)
			if err != nil {
				t.Fatal(err)
			}
			if got != test.want {
				t.Errorf("IsSubtype(%s, %s) = %v, want %v", test.sup, test.sub, got, test.want)
			}
		})
	}
}

func TestIsSubtypeUnknownName(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.IsSubtype(NewNamed("missing"), Typ[Int]); err == nil {
		t.Error("subtype check against undeclared name succeeded")
	}
}

func TestCheckSubtypeExpands(t *testing.T) {
	tbl := NewTable()
	// {int|null f} fits {int f}|{null f} only after both sides are put
	// into disjunctive normal form.
	lifted := NewRecord(field("f", NewUnion(Typ[Int], Typ[Null])))
	distributed := NewUnion(
		NewRecord(field("f", Typ[Int])),
		NewRecord(field("f", Typ[Null])),
	)
	if err := tbl.CheckSubtype(distributed, lifted); err != nil {
		t.Errorf("CheckSubtype(%s, %s): %v", distributed, lifted, err)
	}
	if err := tbl.CheckSubtype(lifted, distributed); err != nil {
		t.Errorf("CheckSubtype(%s, %s): %v", lifted, distributed, err)
	}
}

func TestCheckSubtypeMismatch(t *testing.T) {
	tbl := NewTable()
	err := tbl.CheckSubtype(Typ[Int], Typ[Bool])
	if err == nil {
		t.Fatal("CheckSubtype(int, bool) succeeded")
	}
	me, ok := err.(*MismatchError)
	if !ok {
		t.Fatalf("error has type %T", err)
	}
	if !Equal(me.Want, Typ[Int]) || !Equal(me.Got, Typ[Bool]) {
		t.Errorf("mismatch reports want %s, got %s", me.Want, me.Got)
	}
}

func TestLeastUpperBound(t *testing.T) {
	tbl := NewTable()
	tests := []struct {
		name string
		ts   []Type
		want Type
	}{
		{"empty", nil, Typ[Void]},
		{"single", []Type{Typ[Int]}, Typ[Int]},
		{"duplicates collapse", []Type{Typ[Int], Typ[Int]}, Typ[Int]},
		{"distinct union", []Type{Typ[Int], Typ[Null]}, NewUnion(Typ[Int], Typ[Null])},
		{"subsumed dropped", []Type{Typ[Int], NewUnion(Typ[Int], Typ[Null])}, NewUnion(Typ[Int], Typ[Null])},
		{"void absorbed", []Type{Typ[Void], Typ[Int]}, Typ[Int]},
		{
			"narrow record dropped",
			[]Type{NewRecord(field("x", Typ[Int]), field("y", Typ[Int])), NewRecord(field("x", Typ[Int]))},
			NewRecord(field("x", Typ[Int])),
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := tbl.LeastUpperBound(test.ts)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(got, test.want) {
				t.Errorf("LeastUpperBound = %s, want %s", got, test.want)
			}
		})
	}
}
