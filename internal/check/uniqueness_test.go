package check

import (
	"strings"
	"testing"

	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

func TestUniquenessMoveOnce(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(p, "q", v("p")),
		&syntax.Delete{Operand: v("q")},
	))
	wantOK(t, f)
}

func TestUniquenessUseAfterMove(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(p, "q", v("p")),
		declVar(p, "r", v("p")),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessPlainReadDoesNotMove(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		&syntax.Assert{Cond: &syntax.Binary{
			Op:  syntax.Eq,
			LHS: &syntax.Dereference{Source: v("p")},
			RHS: intLit(1),
		}},
		&syntax.Delete{Operand: v("p")},
	))
	wantOK(t, f)
}

func TestUniquenessDoubleDelete(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		&syntax.Delete{Operand: v("p")},
		&syntax.Delete{Operand: v("p")},
	))
	wantCode(t, f, DoubleDelete)
}

func TestUniquenessUseAfterDelete(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		&syntax.Delete{Operand: v("p")},
		declVar(p, "q", v("p")),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessDeleteAfterMove(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(p, "q", v("p")),
		&syntax.Delete{Operand: v("p")},
	))
	e := wantCode(t, f, DoubleDelete)
	// The diagnostic must not claim a delete the program never made.
	if !strings.Contains(e.Msg, "moved or deleted") {
		t.Errorf("message %q does not account for the earlier move", e.Msg)
	}
}

func TestUniquenessReassignmentRestores(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(p, "q", v("p")),
		assign(v("p"), newRef(intLit(2))),
		&syntax.Delete{Operand: v("p")},
		&syntax.Delete{Operand: v("q")},
	))
	wantOK(t, f)
}

func TestUniquenessMoveInOneBranch(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(boolT, "b")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.IfElse{
			Cond: v("b"),
			Then: []syntax.Stmt{
				declVar(p, "q", v("p")),
				&syntax.Delete{Operand: v("q")},
			},
		},
		// p may or may not have been moved, so it is unusable here.
		declVar(p, "r", v("p")),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessMoveInBothBranches(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(boolT, "b")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.IfElse{
			Cond: v("b"),
			Then: []syntax.Stmt{&syntax.Delete{Operand: v("p")}},
			Else: []syntax.Stmt{&syntax.Delete{Operand: v("p")}},
		},
	))
	wantOK(t, f)
}

func TestUniquenessParameterMove(t *testing.T) {
	p := uniqRef(intT)
	f := file(
		method("sink", voidT, []*syntax.Param{param(p, "q")},
			&syntax.Delete{Operand: v("q")},
		),
		method("f", voidT, []*syntax.Param{param(p, "p")},
			&syntax.ExprStmt{X: &syntax.Invoke{Name: "sink", Args: []syntax.Expr{v("p")}}},
			&syntax.Delete{Operand: v("p")},
		),
	)
	wantCode(t, f, DoubleDelete)
}

func TestUniquenessReturnMoves(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", p, nil,
		declVar(p, "p", newRef(intLit(1))),
		ret(v("p")),
	))
	wantOK(t, f)
}

var vecT = types.NewRecord(
	types.Field{Type: intT, Name: "len"},
	types.Field{Type: types.NewUniqueReference(intT), Name: "data"},
)

func newVec() *syntax.RecordConstructor {
	return &syntax.RecordConstructor{Fields: []syntax.FieldInit{
		{Name: "len", Value: intLit(0)},
		{Name: "data", Value: newRef(intLit(1))},
	}}
}

func TestUniquenessPartialConsumption(t *testing.T) {
	f := file(method("f", intT, nil,
		declVar(vecT, "x", newVec()),
		&syntax.Delete{Operand: access(v("x"), "data")},
		// The untouched field remains usable after the sibling moved.
		ret(access(v("x"), "len")),
	))
	wantOK(t, f)
}

func TestUniquenessFieldUseAfterMove(t *testing.T) {
	f := file(method("f", voidT, nil,
		declVar(vecT, "x", newVec()),
		&syntax.Delete{Operand: access(v("x"), "data")},
		declVar(uniqRef(intT), "q", access(v("x"), "data")),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessFieldDoubleDelete(t *testing.T) {
	f := file(method("f", voidT, nil,
		declVar(vecT, "x", newVec()),
		&syntax.Delete{Operand: access(v("x"), "data")},
		&syntax.Delete{Operand: access(v("x"), "data")},
	))
	wantCode(t, f, DoubleDelete)
}

func TestUniquenessFieldRestore(t *testing.T) {
	f := file(method("f", voidT, nil,
		declVar(vecT, "x", newVec()),
		&syntax.Delete{Operand: access(v("x"), "data")},
		assign(access(v("x"), "data"), newRef(intLit(2))),
		&syntax.Delete{Operand: access(v("x"), "data")},
	))
	wantOK(t, f)
}

func TestUniquenessWholeMoveAfterPartial(t *testing.T) {
	f := file(method("f", voidT, nil,
		declVar(vecT, "x", newVec()),
		&syntax.Delete{Operand: access(v("x"), "data")},
		declVar(vecT, "y", v("x")),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessNamedRecordSurgery(t *testing.T) {
	f := file(
		&syntax.TypeDecl{Name: "vec", Type: vecT},
		method("f", intT, nil,
			declVar(types.NewNamed("vec"), "x", newVec()),
			&syntax.Delete{Operand: access(v("x"), "data")},
			ret(access(v("x"), "len")),
		),
	)
	wantOK(t, f)
}

func TestUniquenessCannotMoveOutOfReference(t *testing.T) {
	inner := types.NewRecord(types.Field{Type: types.NewUniqueReference(intT), Name: "f"})
	f := file(method("f", voidT, []*syntax.Param{param(types.NewReference(inner), "p")},
		declVar(uniqRef(intT), "q", &syntax.FieldDereference{Source: v("p"), Field: "f"}),
		&syntax.Delete{Operand: v("q")},
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessDeleteThroughReference(t *testing.T) {
	inner := types.NewRecord(types.Field{Type: types.NewUniqueReference(intT), Name: "f"})
	f := file(method("f", voidT, []*syntax.Param{param(types.NewReference(inner), "p")},
		&syntax.Delete{Operand: &syntax.FieldDereference{Source: v("p"), Field: "f"}},
	))
	wantOK(t, f)
}

func TestUniquenessReplicateUniqueReference(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(types.NewArray(p), "xs", &syntax.ArrayGenerator{Value: v("p"), Size: intLit(2)}),
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessSingleElementGenerator(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, nil,
		declVar(p, "p", newRef(intLit(1))),
		declVar(types.NewArray(p), "xs", &syntax.ArrayGenerator{Value: v("p"), Size: intLit(1)}),
	))
	wantOK(t, f)
}

func TestUniquenessSwitchFallThroughMove(t *testing.T) {
	// Case one moves p and does not break, so its exit flows into case
	// two, where p can no longer be moved again.
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(intT, "s")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.Switch{Subject: v("s"), Cases: []*syntax.Case{
			{Value: intLit(1), Body: []syntax.Stmt{
				declVar(p, "q", v("p")),
				&syntax.Delete{Operand: v("q")},
			}},
			{Value: intLit(2), Body: []syntax.Stmt{
				declVar(p, "r", v("p")),
				&syntax.Delete{Operand: v("r")},
			}},
		}},
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessSwitchBreakKeepsCasesApart(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(intT, "s")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.Switch{Subject: v("s"), Cases: []*syntax.Case{
			{Value: intLit(1), Body: []syntax.Stmt{
				declVar(p, "q", v("p")),
				&syntax.Delete{Operand: v("q")},
				&syntax.Break{},
			}},
			{Value: intLit(2), Body: []syntax.Stmt{
				declVar(p, "r", v("p")),
				&syntax.Delete{Operand: v("r")},
				&syntax.Break{},
			}},
		}},
	))
	wantOK(t, f)
}

func TestUniquenessLoopMove(t *testing.T) {
	// A move inside the loop body conflicts with the next iteration.
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(boolT, "b")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.While{
			Cond: v("b"),
			Body: []syntax.Stmt{
				declVar(p, "q", v("p")),
				&syntax.Delete{Operand: v("q")},
			},
		},
	))
	wantCode(t, f, MovedVariable)
}

func TestUniquenessLoopMoveAndRestore(t *testing.T) {
	p := uniqRef(intT)
	f := file(method("f", voidT, []*syntax.Param{param(boolT, "b")},
		declVar(p, "p", newRef(intLit(1))),
		&syntax.While{
			Cond: v("b"),
			Body: []syntax.Stmt{
				declVar(p, "q", v("p")),
				&syntax.Delete{Operand: v("q")},
				assign(v("p"), newRef(intLit(2))),
			},
		},
		&syntax.Delete{Operand: v("p")},
	))
	wantOK(t, f)
}
