package check

import (
	"sort"
	"strings"

	"github.com/while-lang/wlc/internal/flow"
	"github.com/while-lang/wlc/internal/syntax"
)

// defs is the definite assignment fact: the set of variables assigned on
// every path reaching a program point. The merge is intersection, since a
// variable is definitely assigned at a join only when both paths assign it.
// Values are immutable; add copies.
type defs struct {
	set map[string]bool
}

func newDefs(names ...string) defs {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return defs{set: set}
}

func (d defs) contains(name string) bool {
	return d.set[name]
}

func (d defs) add(name string) defs {
	out := make(map[string]bool, len(d.set)+1)
	for k := range d.set {
		out[k] = true
	}
	out[name] = true
	return defs{set: out}
}

// Merge implements flow.Fact.
func (d defs) Merge(o defs) defs {
	out := make(map[string]bool)
	for k := range d.set {
		if o.set[k] {
			out[k] = true
		}
	}
	return defs{set: out}
}

// Equal implements flow.Fact.
func (d defs) Equal(o defs) bool {
	if len(d.set) != len(o.set) {
		return false
	}
	for k := range d.set {
		if !o.set[k] {
			return false
		}
	}
	return true
}

func (d defs) String() string {
	names := make([]string, 0, len(d.set))
	for k := range d.set {
		names = append(names, k)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}

// checkDefiniteAssignment checks that every variable in the method is
// assigned on all paths before it is read. Parameters count as assigned on
// entry; a variable becomes assigned by a declaration with an initialiser or
// by a direct assignment, in both cases only after the right hand side has
// been checked.
func checkDefiniteAssignment(md *syntax.MethodDecl) error {
	a := &flow.Analysis[defs]{}
	a.Variable = func(e *syntax.Variable, d defs) (defs, error) {
		if !d.contains(e.Name) {
			return d, errAt(e, UnassignedVariable, "variable %s is not definitely assigned", e.Name)
		}
		return d, nil
	}
	a.Assign = func(s *syntax.Assign, d defs) (defs, error) {
		if v, ok := s.LHS.(*syntax.Variable); ok {
			d, err := a.Expr(s.RHS, d)
			if err != nil {
				return d, err
			}
			return d.add(v.Name), nil
		}
		// Assigning through an array element, field or reference reads
		// the base as well.
		d, err := a.Expr(s.LHS, d)
		if err != nil {
			return d, err
		}
		return a.Expr(s.RHS, d)
	}
	a.VarDecl = func(s *syntax.VarDecl, d defs) (defs, error) {
		if s.Init == nil {
			return d, nil
		}
		d, err := a.Expr(s.Init, d)
		if err != nil {
			return d, err
		}
		return d.add(s.Name), nil
	}
	params := make([]string, len(md.Params))
	for i, p := range md.Params {
		params[i] = p.Name
	}
	_, err := a.Block(md.Body, newDefs(params...))
	return err
}
