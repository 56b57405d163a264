package flow

import (
	"fmt"

	"github.com/while-lang/wlc/internal/syntax"
)

// Analysis drives a forward dataflow analysis over statements and
// expressions. The default transfer for every node is structural traversal
// in evaluation order, leaving the fact unchanged at the leaves; an analysis
// overrides the nodes it cares about by setting the corresponding hook. A
// hook replaces the default traversal for its node entirely, so a hook that
// still wants the operands visited calls back into Expr itself.
type Analysis[T Fact[T]] struct {
	VarDecl          func(*syntax.VarDecl, T) (T, error)
	Assign           func(*syntax.Assign, T) (T, error)
	Variable         func(*syntax.Variable, T) (T, error)
	RecordAccess     func(*syntax.RecordAccess, T) (T, error)
	FieldDereference func(*syntax.FieldDereference, T) (T, error)
}

// Block transfers a fact across a statement sequence, joining the break and
// continue exits of its statements. Statements after a point no control path
// reaches, such as code following a return, are not analysed.
func (a *Analysis[T]) Block(stmts []syntax.Stmt, data T) (Flow[T], error) {
	out := FlowNext(data)
	for _, s := range stmts {
		cur, ok := out.Next()
		if !ok {
			break
		}
		f, err := a.Stmt(s, cur)
		if err != nil {
			return Flow[T]{}, err
		}
		out = Flow[T]{
			next: f.next,
			brk:  join(out.brk, f.brk),
			cont: join(out.cont, f.cont),
		}
	}
	return out, nil
}

// Stmt transfers a fact across a single statement.
func (a *Analysis[T]) Stmt(s syntax.Stmt, data T) (Flow[T], error) {
	var zero Flow[T]
	switch s := s.(type) {
	case *syntax.Assert:
		data, err := a.Expr(s.Cond, data)
		if err != nil {
			return zero, err
		}
		return FlowNext(data), nil

	case *syntax.Assign:
		data, err := a.assign(s, data)
		if err != nil {
			return zero, err
		}
		return FlowNext(data), nil

	case *syntax.Break:
		return Flow[T]{brk: some(data)}, nil

	case *syntax.Continue:
		return Flow[T]{cont: some(data)}, nil

	case *syntax.Delete:
		data, err := a.Expr(s.Operand, data)
		if err != nil {
			return zero, err
		}
		return FlowNext(data), nil

	case *syntax.DoWhile:
		// The body runs once before the condition is first tested.
		f1, err := a.Block(s.Body, data)
		if err != nil {
			return zero, err
		}
		exit, err := a.loop(s.Cond, s.Body, join(f1.next, f1.cont))
		if err != nil {
			return zero, err
		}
		return Flow[T]{next: join(f1.brk, exit)}, nil

	case *syntax.ExprStmt:
		data, err := a.Expr(s.X, data)
		if err != nil {
			return zero, err
		}
		return FlowNext(data), nil

	case *syntax.For:
		if s.Decl != nil {
			d, err := a.varDecl(s.Decl, data)
			if err != nil {
				return zero, err
			}
			data = d
		}
		// The increment runs at the end of every iteration, so it joins
		// the body for fixpoint purposes.
		body := make([]syntax.Stmt, 0, len(s.Body)+1)
		body = append(body, s.Body...)
		if s.Incr != nil {
			body = append(body, s.Incr)
		}
		exit, err := a.loop(s.Cond, body, some(data))
		if err != nil {
			return zero, err
		}
		return Flow[T]{next: exit}, nil

	case *syntax.IfElse:
		data, err := a.Expr(s.Cond, data)
		if err != nil {
			return zero, err
		}
		left, err := a.Block(s.Then, data)
		if err != nil {
			return zero, err
		}
		right, err := a.Block(s.Else, data)
		if err != nil {
			return zero, err
		}
		return left.Merge(right), nil

	case *syntax.Return:
		if s.Value != nil {
			if _, err := a.Expr(s.Value, data); err != nil {
				return zero, err
			}
		}
		return Flow[T]{}, nil

	case *syntax.Switch:
		return a.switchStmt(s, data)

	case *syntax.VarDecl:
		data, err := a.varDecl(s, data)
		if err != nil {
			return zero, err
		}
		return FlowNext(data), nil

	case *syntax.While:
		exit, err := a.loop(s.Cond, s.Body, some(data))
		if err != nil {
			return zero, err
		}
		return Flow[T]{next: exit}, nil

	default:
		panic(fmt.Sprintf("internal failure: unknown statement encountered (%T)", s))
	}
}

// switchStmt transfers a fact across a switch. Each case is entered either
// by matching the subject or by falling through from the case before it;
// break exits the switch as a whole. When no default case is present the
// subject may match nothing, so the entry fact joins the exit.
func (a *Analysis[T]) switchStmt(s *syntax.Switch, data T) (Flow[T], error) {
	var zero Flow[T]
	data, err := a.Expr(s.Subject, data)
	if err != nil {
		return zero, err
	}
	entry := some(data)
	var brk, cont, fall fact[T]
	hasDefault := false
	for _, c := range s.Cases {
		if c.IsDefault {
			hasDefault = true
		}
		in := join(entry, fall)
		f, err := a.Block(c.Body, in.val)
		if err != nil {
			return zero, err
		}
		brk = join(brk, f.brk)
		cont = join(cont, f.cont)
		fall = f.next
	}
	next := join(brk, fall)
	if !hasDefault {
		next = join(next, entry)
	}
	return Flow[T]{next: next, cont: cont}, nil
}

// loop iterates a loop with the given condition and body to a fixpoint,
// starting from the fact reaching the condition for the first time. The
// condition may be nil for a for loop with an empty header. The result is
// the fact following the loop, joining normal exit with any breaks; it is
// absent when the loop head itself is unreachable.
func (a *Analysis[T]) loop(cond syntax.Expr, body []syntax.Stmt, in fact[T]) (fact[T], error) {
	if !in.ok {
		return in, nil
	}
	x := Flow[T]{next: in}
	for {
		tmp := x.next.val
		if cond != nil {
			var err error
			tmp, err = a.Expr(cond, tmp)
			if err != nil {
				return fact[T]{}, err
			}
		}
		f, err := a.Block(body, tmp)
		if err != nil {
			return fact[T]{}, err
		}
		next := Flow[T]{
			next: join(in, join(f.next, f.cont)),
			brk:  f.brk,
		}
		if next.Equal(x) {
			return join(next.next, next.brk), nil
		}
		x = next
	}
}

func (a *Analysis[T]) assign(s *syntax.Assign, data T) (T, error) {
	if a.Assign != nil {
		return a.Assign(s, data)
	}
	data, err := a.Expr(s.LHS, data)
	if err != nil {
		return data, err
	}
	return a.Expr(s.RHS, data)
}

func (a *Analysis[T]) varDecl(s *syntax.VarDecl, data T) (T, error) {
	if a.VarDecl != nil {
		return a.VarDecl(s, data)
	}
	if s.Init != nil {
		return a.Expr(s.Init, data)
	}
	return data, nil
}

// Expr transfers a fact across an expression, visiting operands in
// evaluation order.
func (a *Analysis[T]) Expr(e syntax.Expr, data T) (T, error) {
	var err error
	switch e := e.(type) {
	case *syntax.ArrayAccess:
		data, err = a.Expr(e.Source, data)
		if err != nil {
			return data, err
		}
		return a.Expr(e.Index, data)

	case *syntax.ArrayGenerator:
		data, err = a.Expr(e.Value, data)
		if err != nil {
			return data, err
		}
		return a.Expr(e.Size, data)

	case *syntax.ArrayInitialiser:
		for _, el := range e.Elems {
			data, err = a.Expr(el, data)
			if err != nil {
				return data, err
			}
		}
		return data, nil

	case *syntax.Binary:
		data, err = a.Expr(e.LHS, data)
		if err != nil {
			return data, err
		}
		return a.Expr(e.RHS, data)

	case *syntax.Cast:
		return a.Expr(e.X, data)

	case *syntax.Dereference:
		return a.Expr(e.Source, data)

	case *syntax.FieldDereference:
		if a.FieldDereference != nil {
			return a.FieldDereference(e, data)
		}
		return a.Expr(e.Source, data)

	case *syntax.Invoke:
		for _, arg := range e.Args {
			data, err = a.Expr(arg, data)
			if err != nil {
				return data, err
			}
		}
		return data, nil

	case *syntax.Is:
		return a.Expr(e.X, data)

	case *syntax.Literal:
		return data, nil

	case *syntax.RecordAccess:
		if a.RecordAccess != nil {
			return a.RecordAccess(e, data)
		}
		return a.Expr(e.Source, data)

	case *syntax.RecordConstructor:
		for _, f := range e.Fields {
			data, err = a.Expr(f.Value, data)
			if err != nil {
				return data, err
			}
		}
		return data, nil

	case *syntax.Unary:
		return a.Expr(e.X, data)

	case *syntax.Variable:
		if a.Variable != nil {
			return a.Variable(e, data)
		}
		return data, nil

	default:
		panic(fmt.Sprintf("internal failure: unknown expression encountered (%T)", e))
	}
}
