package check

import (
	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

// marks records, per syntactic occurrence, the result of the consumption
// analysis. An occurrence is moved when its value outlives the enclosing
// expression, such as the right hand side of an assignment or a method
// argument; it is deleted when it is the operand of a delete statement.
// Later occurrences of the same variable are separate keys, so the ownership
// analysis can tell the moving use from the uses after it.
type marks struct {
	moved   map[syntax.Expr]bool
	deleted map[syntax.Expr]bool
}

// consumer walks method bodies marking consumed occurrences. Only values
// whose type involves a unique reference can be consumed; everything else is
// freely copied.
type consumer struct {
	table *types.Table
	info  *Info
	m     *marks
}

// markConsumption runs the consumption analysis over every method of the
// file. It relies on the types recorded during type checking.
func markConsumption(file *syntax.File, table *types.Table, info *Info) (*marks, error) {
	c := &consumer{
		table: table,
		info:  info,
		m: &marks{
			moved:   make(map[syntax.Expr]bool),
			deleted: make(map[syntax.Expr]bool),
		},
	}
	for _, d := range file.Decls {
		if md, ok := d.(*syntax.MethodDecl); ok {
			if err := c.stmts(md.Body); err != nil {
				return nil, err
			}
		}
	}
	return c.m, nil
}

func (c *consumer) stmts(stmts []syntax.Stmt) error {
	for _, s := range stmts {
		if err := c.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *consumer) stmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.Assert:
		return c.prop(s.Cond, false)

	case *syntax.Assign:
		// Assigning to a plain variable replaces its value outright, so
		// the left hand side is not a read at all.
		if _, ok := s.LHS.(*syntax.Variable); !ok {
			if err := c.prop(s.LHS, false); err != nil {
				return err
			}
		}
		return c.prop(s.RHS, true)

	case *syntax.Break, *syntax.Continue:
		return nil

	case *syntax.Delete:
		c.m.deleted[s.Operand] = true
		return c.prop(s.Operand, true)

	case *syntax.DoWhile:
		if err := c.prop(s.Cond, false); err != nil {
			return err
		}
		return c.stmts(s.Body)

	case *syntax.ExprStmt:
		return c.prop(s.X, false)

	case *syntax.For:
		if s.Decl != nil {
			if err := c.stmt(s.Decl); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := c.prop(s.Cond, false); err != nil {
				return err
			}
		}
		if s.Incr != nil {
			if err := c.stmt(s.Incr); err != nil {
				return err
			}
		}
		return c.stmts(s.Body)

	case *syntax.IfElse:
		if err := c.prop(s.Cond, false); err != nil {
			return err
		}
		if err := c.stmts(s.Then); err != nil {
			return err
		}
		return c.stmts(s.Else)

	case *syntax.Return:
		if s.Value != nil {
			return c.prop(s.Value, true)
		}
		return nil

	case *syntax.Switch:
		if err := c.prop(s.Subject, false); err != nil {
			return err
		}
		for _, cs := range s.Cases {
			if cs.Value != nil {
				if err := c.prop(cs.Value, false); err != nil {
					return err
				}
			}
			if err := c.stmts(cs.Body); err != nil {
				return err
			}
		}
		return nil

	case *syntax.VarDecl:
		if s.Init != nil {
			return c.prop(s.Init, true)
		}
		return nil

	case *syntax.While:
		if err := c.prop(s.Cond, false); err != nil {
			return err
		}
		return c.stmts(s.Body)
	}
	return nil
}

// prop pushes the consumption flag down through an expression, marking the
// variable, field access and field dereference occurrences whose value is
// taken.
func (c *consumer) prop(e syntax.Expr, consumed bool) error {
	switch e := e.(type) {
	case *syntax.ArrayAccess:
		// Taking an element takes ownership reachable through the whole
		// array, since elements cannot be tracked individually.
		if err := c.prop(e.Source, consumed); err != nil {
			return err
		}
		return c.prop(e.Index, false)

	case *syntax.ArrayGenerator:
		if !c.isCopy(e.Value) {
			if err := c.prop(e.Value, true); err != nil {
				return err
			}
			if lit, ok := e.Size.(*syntax.Literal); ok && lit.Kind == syntax.IntLit && lit.Int64 > 1 {
				return errAt(e, MovedVariable, "cannot replicate a unique reference")
			}
			return c.prop(e.Size, false)
		}
		if err := c.prop(e.Value, consumed); err != nil {
			return err
		}
		return c.prop(e.Size, false)

	case *syntax.ArrayInitialiser:
		for _, el := range e.Elems {
			if err := c.prop(el, consumed); err != nil {
				return err
			}
		}
		return nil

	case *syntax.Binary:
		if err := c.prop(e.LHS, consumed); err != nil {
			return err
		}
		return c.prop(e.RHS, consumed)

	case *syntax.Cast:
		return c.prop(e.X, consumed)

	case *syntax.Dereference:
		// Reading through a reference copies the cell contents; the
		// reference itself stays put.
		return c.prop(e.Source, false)

	case *syntax.FieldDereference:
		if consumed && !c.isCopy(e) {
			c.m.moved[e] = true
		}
		return c.prop(e.Source, false)

	case *syntax.Invoke:
		// Arguments escape into the callee.
		for _, arg := range e.Args {
			if err := c.prop(arg, true); err != nil {
				return err
			}
		}
		return nil

	case *syntax.Is:
		return c.prop(e.X, false)

	case *syntax.Literal:
		return nil

	case *syntax.RecordAccess:
		if consumed && !c.isCopy(e) {
			c.m.moved[e] = true
		}
		return c.prop(e.Source, false)

	case *syntax.RecordConstructor:
		for _, f := range e.Fields {
			if err := c.prop(f.Value, consumed); err != nil {
				return err
			}
		}
		return nil

	case *syntax.Unary:
		return c.prop(e.X, consumed)

	case *syntax.Variable:
		if consumed && !c.isCopy(e) {
			c.m.moved[e] = true
		}
		return nil
	}
	return nil
}

func (c *consumer) isCopy(e syntax.Expr) bool {
	t := c.info.TypeOf(e)
	if t == nil {
		return true
	}
	return c.table.IsCopy(t)
}
