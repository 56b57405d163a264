package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/while-lang/wlc/internal/flow"
	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

// env is the ownership fact: for every variable in scope, its declared type
// together with its current type. The current type is void once the
// variable has been moved or deleted, and contains void at a field position
// once that field alone has been moved. Values are immutable; the update
// operations copy.
type env struct {
	declared map[string]types.Type
	current  map[string]types.Type
}

func (d env) clone() env {
	out := env{
		declared: make(map[string]types.Type, len(d.declared)),
		current:  make(map[string]types.Type, len(d.current)),
	}
	for k, v := range d.declared {
		out.declared[k] = v
	}
	for k, v := range d.current {
		out.current[k] = v
	}
	return out
}

// declare binds a new variable. Its current type starts as void; an
// initialiser, when present, writes it afterwards.
func (d env) declare(name string, t types.Type) env {
	out := d.clone()
	out.declared[name] = t
	out.current[name] = types.Typ[types.Void]
	return out
}

// write updates the current type of a declared variable.
func (d env) write(name string, t types.Type) env {
	out := d.clone()
	out.current[name] = t
	return out
}

// read returns the current type of a variable.
func (d env) read(name string) (types.Type, bool) {
	t, ok := d.current[name]
	return t, ok
}

// declaredOf returns the declared type of a variable.
func (d env) declaredOf(name string) (types.Type, bool) {
	t, ok := d.declared[name]
	return t, ok
}

// Merge implements flow.Fact. Declared types are unioned across the two
// environments; for the current types, ownership given away on either path
// is gone, so differing types collapse towards void, fieldwise where both
// sides are records of the same shape.
func (d env) Merge(o env) env {
	out := env{
		declared: make(map[string]types.Type, len(d.declared)),
		current:  make(map[string]types.Type, len(d.current)),
	}
	for k, v := range d.declared {
		out.declared[k] = v
	}
	for k, v := range o.declared {
		if _, ok := out.declared[k]; !ok {
			out.declared[k] = v
		}
	}
	for k, v := range d.current {
		if w, ok := o.current[k]; ok {
			out.current[k] = mergeOwned(v, w)
		} else {
			out.current[k] = v
		}
	}
	for k, v := range o.current {
		if _, ok := out.current[k]; !ok {
			out.current[k] = v
		}
	}
	return out
}

func mergeOwned(x, y types.Type) types.Type {
	if types.Equal(x, y) {
		return x
	}
	rx, okx := x.(*types.Record)
	ry, oky := y.(*types.Record)
	if okx && oky && rx.NumFields() == ry.NumFields() {
		fields := make([]types.Field, rx.NumFields())
		for i := 0; i != rx.NumFields(); i++ {
			fx, fy := rx.Field(i), ry.Field(i)
			if fx.Name != fy.Name {
				return types.Typ[types.Void]
			}
			fields[i] = types.Field{Type: mergeOwned(fx.Type, fy.Type), Name: fx.Name}
		}
		return types.NewRecord(fields...)
	}
	return types.Typ[types.Void]
}

// Equal implements flow.Fact.
func (d env) Equal(o env) bool {
	return equalTyping(d.declared, o.declared) && equalTyping(d.current, o.current)
}

func equalTyping(x, y map[string]types.Type) bool {
	if len(x) != len(y) {
		return false
	}
	for k, v := range x {
		w, ok := y[k]
		if !ok || !types.Equal(v, w) {
			return false
		}
	}
	return true
}

func (d env) String() string {
	names := make([]string, 0, len(d.current))
	for k := range d.current {
		names = append(names, k)
	}
	sort.Strings(names)
	var buf strings.Builder
	for i, k := range names {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=%s", k, d.current[k])
	}
	return "{" + buf.String() + "}"
}

// uniqueness enforces the ownership invariant for unique references: at any
// time there is exactly one live owner of each uniquely referenced cell. It
// runs as a dataflow analysis driven by the occurrence marks of the
// consumption pass.
type uniqueness struct {
	table *types.Table
	m     *marks
	a     *flow.Analysis[env]
}

func checkUniqueness(md *syntax.MethodDecl, table *types.Table, m *marks) error {
	u := &uniqueness{table: table, m: m}
	a := &flow.Analysis[env]{}
	a.VarDecl = u.varDecl
	a.Assign = u.assign
	a.Variable = u.variable
	a.RecordAccess = u.recordAccess
	a.FieldDereference = u.fieldDeref
	u.a = a

	seed := env{
		declared: make(map[string]types.Type, len(md.Params)),
		current:  make(map[string]types.Type, len(md.Params)),
	}
	for _, p := range md.Params {
		seed.declared[p.Name] = p.Type
		seed.current[p.Name] = p.Type
	}
	_, err := a.Block(md.Body, seed)
	return err
}

func (u *uniqueness) varDecl(s *syntax.VarDecl, d env) (env, error) {
	d = d.declare(s.Name, s.Type)
	if s.Init != nil {
		d, err := u.a.Expr(s.Init, d)
		if err != nil {
			return d, err
		}
		return d.write(s.Name, s.Type), nil
	}
	return d, nil
}

func (u *uniqueness) assign(s *syntax.Assign, d env) (env, error) {
	switch lhs := s.LHS.(type) {
	case *syntax.Variable:
		// Reassignment restores full ownership, even to a variable that
		// was previously moved or deleted.
		d, err := u.a.Expr(s.RHS, d)
		if err != nil {
			return d, err
		}
		if t, ok := d.declaredOf(lhs.Name); ok {
			d = d.write(lhs.Name, t)
		}
		return d, nil

	case *syntax.RecordAccess:
		if v, ok := lhs.Source.(*syntax.Variable); ok {
			d, err := u.a.Expr(s.RHS, d)
			if err != nil {
				return d, err
			}
			return u.restoreField(d, v, lhs.Field, lhs)
		}
	}
	d, err := u.a.Expr(s.LHS, d)
	if err != nil {
		return d, err
	}
	return u.a.Expr(s.RHS, d)
}

func (u *uniqueness) variable(e *syntax.Variable, d env) (env, error) {
	cur, ok := d.read(e.Name)
	if !ok {
		return d, nil
	}
	if types.IsVoid(cur) {
		// Ownership is gone either way; the current type does not record
		// whether a move or a delete took it.
		if u.m.deleted[e] {
			return d, errAt(e, DoubleDelete, "variable %s already moved or deleted", e.Name)
		}
		return d, errAt(e, MovedVariable, "variable %s already moved", e.Name)
	}
	if u.m.moved[e] {
		if containsVoid(cur) {
			return d, errAt(e, MovedVariable, "variable %s partially moved", e.Name)
		}
		return d.write(e.Name, types.Typ[types.Void]), nil
	}
	return d, nil
}

func (u *uniqueness) recordAccess(e *syntax.RecordAccess, d env) (env, error) {
	v, ok := e.Source.(*syntax.Variable)
	if !ok {
		return u.a.Expr(e.Source, d)
	}
	cur, ok := d.read(v.Name)
	if !ok {
		return d, nil
	}
	if types.IsVoid(cur) {
		return d, errAt(e.Source, MovedVariable, "variable %s already moved", v.Name)
	}
	rec, ok := u.record(cur)
	if !ok {
		return d, nil
	}
	f, ok := rec.Lookup(e.Field)
	if !ok {
		return d, nil
	}
	if types.IsVoid(f.Type) {
		if u.m.deleted[e] {
			return d, errAt(e, DoubleDelete, "field %s already moved or deleted", e.Field)
		}
		return d, errAt(e, MovedVariable, "field %s already moved", e.Field)
	}
	if u.m.moved[e] {
		// Partial consumption: only this field loses ownership.
		return d.write(v.Name, setField(rec, e.Field, types.Typ[types.Void])), nil
	}
	return d, nil
}

func (u *uniqueness) fieldDeref(e *syntax.FieldDereference, d env) (env, error) {
	d, err := u.a.Expr(e.Source, d)
	if err != nil {
		return d, err
	}
	// Heap cells are not tracked, so ownership cannot be taken through a
	// reference. Deleting through one is fine: the cell is released, not
	// moved.
	if u.m.moved[e] && !u.m.deleted[e] {
		return d, errAt(e, MovedVariable, "cannot move out of a reference")
	}
	return d, nil
}

// restoreField returns ownership of a single field after an assignment of
// the form x.f = e.
func (u *uniqueness) restoreField(d env, v *syntax.Variable, field string, at syntax.Node) (env, error) {
	cur, ok := d.read(v.Name)
	if !ok {
		return d, nil
	}
	if types.IsVoid(cur) {
		return d, errAt(at, MovedVariable, "variable %s already moved", v.Name)
	}
	rec, ok := u.record(cur)
	if !ok {
		return d, nil
	}
	decl, ok := d.declaredOf(v.Name)
	if !ok {
		return d, nil
	}
	declRec, ok := u.record(decl)
	if !ok {
		return d, nil
	}
	f, ok := declRec.Lookup(field)
	if !ok {
		return d, nil
	}
	return d.write(v.Name, setField(rec, field, f.Type)), nil
}

// record resolves a current type to its record shape, unfolding named types
// as needed.
func (u *uniqueness) record(t types.Type) (*types.Record, bool) {
	visited := make(map[string]bool)
	for {
		switch ty := t.(type) {
		case *types.Record:
			return ty, true
		case *types.Named:
			if visited[ty.Name()] {
				return nil, false
			}
			visited[ty.Name()] = true
			body, err := u.table.Unfold(ty)
			if err != nil {
				return nil, false
			}
			t = body
		default:
			return nil, false
		}
	}
}

// setField rebuilds a record with one field's type replaced.
func setField(rec *types.Record, name string, t types.Type) *types.Record {
	fields := make([]types.Field, rec.NumFields())
	for i := 0; i != rec.NumFields(); i++ {
		f := rec.Field(i)
		if f.Name == name {
			f = types.Field{Type: t, Name: name}
		}
		fields[i] = f
	}
	return types.NewRecord(fields...)
}

// containsVoid reports whether ownership of some part of the given current
// type has already been given away.
func containsVoid(t types.Type) bool {
	switch t := t.(type) {
	case *types.Basic:
		return types.IsVoid(t)
	case *types.Record:
		for _, f := range t.Fields() {
			if containsVoid(f.Type) {
				return true
			}
		}
	}
	return false
}
