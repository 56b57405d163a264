package check

import (
	"fmt"

	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

// checker holds the state shared across the type checking of one file.
type checker struct {
	table   *types.Table
	methods map[string]*syntax.MethodDecl
	info    *Info

	// method is the declaration being checked, for return statements.
	method *syntax.MethodDecl
}

func (c *checker) methodDecl(md *syntax.MethodDecl) error {
	c.method = md
	env := make(map[string]types.Type)
	for _, p := range md.Params {
		if err := c.checkNotVoid(p.Type, p); err != nil {
			return err
		}
		env[p.Name] = p.Type
	}
	return c.stmts(env, md.Body)
}

func (c *checker) stmts(env map[string]types.Type, stmts []syntax.Stmt) error {
	for _, s := range stmts {
		if err := c.stmt(env, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) stmt(env map[string]types.Type, s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.Assert:
		return c.condition(env, s.Cond)

	case *syntax.Assign:
		lhs, err := c.expr(env, s.LHS)
		if err != nil {
			return err
		}
		rhs, err := c.expr(env, s.RHS)
		if err != nil {
			return err
		}
		return c.checkSubtype(lhs, rhs, s.RHS)

	case *syntax.Break, *syntax.Continue:
		return nil

	case *syntax.Delete:
		t, err := c.expr(env, s.Operand)
		if err != nil {
			return err
		}
		u, err := c.unfold(t, s.Operand)
		if err != nil {
			return err
		}
		if _, ok := u.(*types.UniqueReference); !ok {
			return errAt(s.Operand, InvalidDelete, "cannot delete %s of type %s, expected a unique reference", syntax.String(s.Operand), t)
		}
		return nil

	case *syntax.DoWhile:
		if err := c.stmts(env, s.Body); err != nil {
			return err
		}
		return c.condition(env, s.Cond)

	case *syntax.ExprStmt:
		if inv, ok := s.X.(*syntax.Invoke); ok {
			// The result of an invocation statement is discarded, so a
			// void method is fine here.
			_, err := c.invoke(env, inv, false)
			return err
		}
		_, err := c.expr(env, s.X)
		return err

	case *syntax.For:
		// The loop variable is scoped to the loop itself. All three header
		// pieces are optional; a bare for runs until a break.
		env = cloneEnv(env)
		if s.Decl != nil {
			if err := c.stmt(env, s.Decl); err != nil {
				return err
			}
		}
		if s.Cond != nil {
			if err := c.condition(env, s.Cond); err != nil {
				return err
			}
		}
		if s.Incr != nil {
			if err := c.stmt(env, s.Incr); err != nil {
				return err
			}
		}
		return c.stmts(env, s.Body)

	case *syntax.IfElse:
		if err := c.condition(env, s.Cond); err != nil {
			return err
		}
		if err := c.stmts(env, s.Then); err != nil {
			return err
		}
		return c.stmts(env, s.Else)

	case *syntax.Return:
		if s.Value == nil {
			if !types.IsVoid(c.method.Return) {
				return errAt(s, TypeMismatch, "method %s must return a value of type %s", c.method.Name, c.method.Return)
			}
			return nil
		}
		t, err := c.expr(env, s.Value)
		if err != nil {
			return err
		}
		return c.checkSubtype(c.method.Return, t, s.Value)

	case *syntax.Switch:
		subject, err := c.expr(env, s.Subject)
		if err != nil {
			return err
		}
		for _, cs := range s.Cases {
			if !cs.IsDefault {
				t, err := c.expr(env, cs.Value)
				if err != nil {
					return err
				}
				if err := c.checkSubtype(subject, t, cs.Value); err != nil {
					return err
				}
			}
			if err := c.stmts(env, cs.Body); err != nil {
				return err
			}
		}
		return nil

	case *syntax.VarDecl:
		if _, ok := env[s.Name]; ok {
			return errAt(s, DuplicateDeclaration, "variable %s already declared", s.Name)
		}
		if err := c.checkNotVoid(s.Type, s); err != nil {
			return err
		}
		if s.Init != nil {
			t, err := c.expr(env, s.Init)
			if err != nil {
				return err
			}
			if err := c.checkSubtype(s.Type, t, s.Init); err != nil {
				return err
			}
		}
		env[s.Name] = s.Type
		return nil

	case *syntax.While:
		if err := c.condition(env, s.Cond); err != nil {
			return err
		}
		return c.stmts(env, s.Body)

	default:
		panic(fmt.Sprintf("internal failure: unknown statement encountered (%T)", s))
	}
}

// condition checks a loop or branch condition has bool type.
func (c *checker) condition(env map[string]types.Type, e syntax.Expr) error {
	t, err := c.expr(env, e)
	if err != nil {
		return err
	}
	return c.expectKind(t, types.Bool, e)
}

// checkSubtype checks that a value of the second type can flow into a
// context expecting the first, reporting a mismatch against the given node.
func (c *checker) checkSubtype(sup, sub types.Type, n syntax.Node) error {
	if err := c.table.CheckSubtype(sup, sub); err != nil {
		return c.typeErr(n, err)
	}
	return nil
}

// checkNotVoid checks that void does not occur within a declared type.
// Method return types are the one place void is allowed.
func (c *checker) checkNotVoid(t types.Type, n syntax.Node) error {
	switch t := t.(type) {
	case *types.Basic:
		if types.IsVoid(t) {
			return errAt(n, VoidNotPermitted, "void type not permitted here")
		}
	case *types.Record:
		for _, f := range t.Fields() {
			if err := c.checkNotVoid(f.Type, n); err != nil {
				return err
			}
		}
	case *types.Array:
		return c.checkNotVoid(t.Elem(), n)
	}
	return nil
}

// unfold resolves named types until a structural type is reached, erroring
// on undeclared names and on cycles of bare names.
func (c *checker) unfold(t types.Type, n syntax.Node) (types.Type, error) {
	var visited map[string]bool
	for {
		named, ok := t.(*types.Named)
		if !ok {
			return t, nil
		}
		if visited[named.Name()] {
			return nil, errAt(n, UnknownType, "cyclic type encountered: %s", named.Name())
		}
		if visited == nil {
			visited = make(map[string]bool)
		}
		visited[named.Name()] = true
		body, err := c.table.Unfold(named)
		if err != nil {
			return nil, c.typeErr(n, err)
		}
		t = body
	}
}

// expectKind checks that a type unfolds to the given basic type.
func (c *checker) expectKind(t types.Type, kind types.BasicKind, n syntax.Node) error {
	u, err := c.unfold(t, n)
	if err != nil {
		return err
	}
	if b, ok := u.(*types.Basic); !ok || b.Kind() != kind {
		return errAt(n, TypeMismatch, "expected type %s, found %s", types.Typ[kind], t)
	}
	return nil
}

// typeErr converts an error from the types package into a positioned
// diagnostic.
func (c *checker) typeErr(n syntax.Node, err error) error {
	switch err := err.(type) {
	case *types.MismatchError:
		return errAt(n, TypeMismatch, "%s", err.Error())
	case *types.UnknownTypeError:
		return errAt(n, UnknownType, "%s", err.Error())
	case *Error:
		return err
	default:
		return errAt(n, TypeMismatch, "%s", err.Error())
	}
}

func cloneEnv(env map[string]types.Type) map[string]types.Type {
	out := make(map[string]types.Type, len(env))
	for k, v := range env {
		out[k] = v
	}
	return out
}
