package check

import (
	"fmt"

	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

// expr type checks an expression and records its inferred type so that
// subsequent phases can reuse it.
func (c *checker) expr(env map[string]types.Type, e syntax.Expr) (types.Type, error) {
	t, err := c.exprInner(env, e)
	if err != nil {
		return nil, err
	}
	c.info.Types[e] = t
	return t, nil
}

func (c *checker) exprInner(env map[string]types.Type, e syntax.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *syntax.ArrayAccess:
		src, err := c.expr(env, e.Source)
		if err != nil {
			return nil, err
		}
		idx, err := c.expr(env, e.Index)
		if err != nil {
			return nil, err
		}
		if err := c.expectKind(idx, types.Int, e.Index); err != nil {
			return nil, err
		}
		arr, err := c.expectArray(src, e.Source)
		if err != nil {
			return nil, err
		}
		return arr.Elem(), nil

	case *syntax.ArrayGenerator:
		elem, err := c.expr(env, e.Value)
		if err != nil {
			return nil, err
		}
		size, err := c.expr(env, e.Size)
		if err != nil {
			return nil, err
		}
		if err := c.expectKind(size, types.Int, e.Size); err != nil {
			return nil, err
		}
		return types.NewArray(elem), nil

	case *syntax.ArrayInitialiser:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, err := c.expr(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		lub, err := c.table.LeastUpperBound(elems)
		if err != nil {
			return nil, c.typeErr(e, err)
		}
		return types.NewArray(lub), nil

	case *syntax.Binary:
		return c.binary(env, e)

	case *syntax.Cast:
		t, err := c.expr(env, e.X)
		if err != nil {
			return nil, err
		}
		// A cast may move either up or down the subtype relation; the
		// downward direction is checked at run time.
		up, err := c.table.IsSubtype(e.Type, t)
		if err != nil {
			return nil, c.typeErr(e, err)
		}
		if !up {
			down, err := c.table.IsSubtype(t, e.Type)
			if err != nil {
				return nil, c.typeErr(e, err)
			}
			if !down {
				return nil, errAt(e.X, TypeMismatch, "expected type %s, found %s", e.Type, t)
			}
		}
		return e.Type, nil

	case *syntax.Dereference:
		src, err := c.expr(env, e.Source)
		if err != nil {
			return nil, err
		}
		elem, err := c.expectReference(src, e.Source)
		if err != nil {
			return nil, err
		}
		return elem, nil

	case *syntax.FieldDereference:
		src, err := c.expr(env, e.Source)
		if err != nil {
			return nil, err
		}
		elem, err := c.expectReference(src, e.Source)
		if err != nil {
			return nil, err
		}
		rec, err := c.expectRecord(elem, e.Source)
		if err != nil {
			return nil, err
		}
		f, ok := rec.Lookup(e.Field)
		if !ok {
			return nil, errAt(e, UnknownField, "%s does not contain field %s", syntax.String(e.Source), e.Field)
		}
		return f.Type, nil

	case *syntax.Invoke:
		return c.invoke(env, e, true)

	case *syntax.Is:
		t, err := c.expr(env, e.X)
		if err != nil {
			return nil, err
		}
		// The tested type must make sense for the subject; a test that
		// could never hold is rejected.
		if err := c.checkSubtype(t, e.Type, e.X); err != nil {
			return nil, err
		}
		return types.Typ[types.Bool], nil

	case *syntax.Literal:
		switch e.Kind {
		case syntax.NullLit:
			return types.Typ[types.Null], nil
		case syntax.BoolLit:
			return types.Typ[types.Bool], nil
		case syntax.IntLit:
			return types.Typ[types.Int], nil
		case syntax.StringLit:
			// Strings are arrays of character codes.
			return types.NewArray(types.Typ[types.Int]), nil
		}

	case *syntax.RecordAccess:
		src, err := c.expr(env, e.Source)
		if err != nil {
			return nil, err
		}
		rec, err := c.expectRecord(src, e.Source)
		if err != nil {
			return nil, err
		}
		f, ok := rec.Lookup(e.Field)
		if !ok {
			return nil, errAt(e, UnknownField, "%s does not contain field %s", syntax.String(e.Source), e.Field)
		}
		return f.Type, nil

	case *syntax.RecordConstructor:
		if len(e.Fields) == 0 {
			return nil, errAt(e, TypeMismatch, "record must have at least one field")
		}
		fields := make([]types.Field, len(e.Fields))
		for i, f := range e.Fields {
			t, err := c.expr(env, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = types.Field{Type: t, Name: f.Name}
		}
		return types.NewRecord(fields...), nil

	case *syntax.Unary:
		return c.unary(env, e)

	case *syntax.Variable:
		t, ok := env[e.Name]
		if !ok {
			return nil, errAt(e, UnknownVariable, "unknown variable encountered: %s", e.Name)
		}
		return t, nil
	}
	panic(fmt.Sprintf("internal failure: unknown expression encountered (%T)", e))
}

func (c *checker) binary(env map[string]types.Type, e *syntax.Binary) (types.Type, error) {
	lhs, err := c.expr(env, e.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := c.expr(env, e.RHS)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.And, syntax.Or:
		if err := c.expectKind(lhs, types.Bool, e.LHS); err != nil {
			return nil, err
		}
		if err := c.expectKind(rhs, types.Bool, e.RHS); err != nil {
			return nil, err
		}
		return types.Typ[types.Bool], nil

	case syntax.Add, syntax.Sub, syntax.Mul, syntax.Div, syntax.Rem:
		if err := c.expectKind(lhs, types.Int, e.LHS); err != nil {
			return nil, err
		}
		if err := c.expectKind(rhs, types.Int, e.RHS); err != nil {
			return nil, err
		}
		return types.Typ[types.Int], nil

	case syntax.Eq, syntax.Neq:
		// Equality is defined between values of any types.
		return types.Typ[types.Bool], nil

	case syntax.Lt, syntax.Lteq, syntax.Gt, syntax.Gteq:
		if err := c.expectKind(lhs, types.Int, e.LHS); err != nil {
			return nil, err
		}
		if err := c.expectKind(rhs, types.Int, e.RHS); err != nil {
			return nil, err
		}
		return types.Typ[types.Bool], nil
	}
	return nil, errAt(e, TypeMismatch, "unknown binary operator %s", e.Op)
}

func (c *checker) unary(env map[string]types.Type, e *syntax.Unary) (types.Type, error) {
	t, err := c.expr(env, e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case syntax.Neg:
		if err := c.expectKind(t, types.Int, e.X); err != nil {
			return nil, err
		}
		return types.Typ[types.Int], nil

	case syntax.Not:
		if err := c.expectKind(t, types.Bool, e.X); err != nil {
			return nil, err
		}
		return types.Typ[types.Bool], nil

	case syntax.LengthOf:
		if _, err := c.expectArray(t, e.X); err != nil {
			return nil, err
		}
		return types.Typ[types.Int], nil

	case syntax.New:
		// Allocation yields sole ownership of the fresh cell.
		return types.NewUniqueReference(t), nil
	}
	return nil, errAt(e, TypeMismatch, "unknown unary operator %s", e.Op)
}

// invoke checks a method invocation. When the result is used as a value the
// invoked method must return one.
func (c *checker) invoke(env map[string]types.Type, e *syntax.Invoke, returnRequired bool) (types.Type, error) {
	md, ok := c.methods[e.Name]
	if !ok {
		return nil, errAt(e, UnknownMethod, "unknown method encountered: %s", e.Name)
	}
	if len(e.Args) != len(md.Params) {
		return nil, errAt(e, TypeMismatch, "incorrect number of arguments to method %s", e.Name)
	}
	for i, arg := range e.Args {
		t, err := c.expr(env, arg)
		if err != nil {
			return nil, err
		}
		if err := c.checkSubtype(md.Params[i].Type, t, arg); err != nil {
			return nil, err
		}
	}
	if returnRequired && types.IsVoid(md.Return) {
		return nil, errAt(e, VoidNotPermitted, "method %s does not return a value", e.Name)
	}
	// Record the type here as well, since an invocation statement skips
	// the expression wrapper.
	c.info.Types[e] = md.Return
	return md.Return, nil
}

// expectArray checks that a type unfolds to an array and returns it.
func (c *checker) expectArray(t types.Type, n syntax.Node) (*types.Array, error) {
	u, err := c.unfold(t, n)
	if err != nil {
		return nil, err
	}
	arr, ok := u.(*types.Array)
	if !ok {
		return nil, errAt(n, TypeMismatch, "expected array type, found %s", t)
	}
	return arr, nil
}

// expectRecord checks that a type unfolds to a record and returns it.
func (c *checker) expectRecord(t types.Type, n syntax.Node) (*types.Record, error) {
	u, err := c.unfold(t, n)
	if err != nil {
		return nil, err
	}
	rec, ok := u.(*types.Record)
	if !ok {
		return nil, errAt(n, TypeMismatch, "expected record type, found %s", t)
	}
	return rec, nil
}

// expectReference checks that a type unfolds to a reference of either kind
// and returns the referenced cell type.
func (c *checker) expectReference(t types.Type, n syntax.Node) (types.Type, error) {
	u, err := c.unfold(t, n)
	if err != nil {
		return nil, err
	}
	switch u := u.(type) {
	case *types.Reference:
		return u.Elem(), nil
	case *types.UniqueReference:
		return u.Elem(), nil
	}
	return nil, errAt(n, TypeMismatch, "expected reference type, found %s", t)
}
