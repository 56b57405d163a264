// Package syntax defines the abstract syntax of the While language, as
// produced by a front end and consumed by the static analyses. Nodes carry
// source positions for diagnostics; expression nodes additionally serve as
// keys for recording inferred types.
package syntax

import (
	"github.com/while-lang/wlc/internal/types"
)

// Node is the interface implemented by all syntax tree nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() Pos

	// End returns the position immediately after the node.
	End() Pos

	// SetPos records the source extent of the node.
	SetPos(pos, end Pos)

	aNode()
}

// Decl is a top-level declaration.
type Decl interface {
	Node
	aDecl()
}

// Stmt is a statement.
type Stmt interface {
	Node
	aStmt()
}

// Expr is an expression.
type Expr interface {
	Node
	aExpr()
}

type node struct {
	pos, end Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) End() Pos { return n.end }

func (n *node) SetPos(pos, end Pos) {
	n.pos = pos
	n.end = end
}

func (*node) aNode() {}

type decl struct{ node }

func (*decl) aDecl() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type expr struct{ node }

func (*expr) aExpr() {}

// File is a single source file: an ordered sequence of declarations.
type File struct {
	Name  string
	Decls []Decl
}

// ----------------------------------------------------------------------------
// Declarations

type (
	// TypeDecl binds a name to a type, as in "type point is {int x, int y}".
	TypeDecl struct {
		decl
		Name string
		Type types.Type
	}

	// MethodDecl declares a method with zero or more parameters, a return
	// type and a statement body.
	MethodDecl struct {
		decl
		Name   string
		Return types.Type
		Params []*Param
		Body   []Stmt
	}
)

// Param is a single method parameter.
type Param struct {
	node
	Name string
	Type types.Type
}

// ----------------------------------------------------------------------------
// Statements

type (
	// Assert evaluates a boolean condition at run time.
	Assert struct {
		stmt
		Cond Expr
	}

	// Assign writes the value of RHS into the location denoted by LHS.
	Assign struct {
		stmt
		LHS Expr
		RHS Expr
	}

	// Break transfers control past the end of the enclosing loop or switch.
	Break struct {
		stmt
	}

	// Continue transfers control to the condition of the enclosing loop.
	Continue struct {
		stmt
	}

	// Delete releases the heap cell owned by a unique reference.
	Delete struct {
		stmt
		Operand Expr
	}

	// DoWhile executes its body at least once, repeating while the
	// condition holds.
	DoWhile struct {
		stmt
		Body []Stmt
		Cond Expr
	}

	// ExprStmt evaluates an expression for its effect, such as a method
	// invocation whose result is discarded.
	ExprStmt struct {
		stmt
		X Expr
	}

	// For is a C-style loop with an optional declaration, condition and
	// increment.
	For struct {
		stmt
		Decl *VarDecl
		Cond Expr
		Incr Stmt
		Body []Stmt
	}

	// IfElse branches on a boolean condition. Else may be empty.
	IfElse struct {
		stmt
		Cond Expr
		Then []Stmt
		Else []Stmt
	}

	// Return exits the enclosing method, optionally yielding a value.
	Return struct {
		stmt
		Value Expr // nil for a bare return
	}

	// Switch compares a subject against a sequence of cases. Control falls
	// through from one case body into the next unless a break intervenes.
	Switch struct {
		stmt
		Subject Expr
		Cases   []*Case
	}

	// VarDecl declares a local variable with an optional initialiser.
	VarDecl struct {
		stmt
		Type types.Type
		Name string
		Init Expr // nil if absent
	}

	// While repeats its body while the condition holds, checking the
	// condition first.
	While struct {
		stmt
		Cond Expr
		Body []Stmt
	}
)

// Case is a single arm of a switch statement.
type Case struct {
	node
	Value     Expr // nil for the default case
	IsDefault bool
	Body      []Stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Op identifies a unary or binary operator.
type Op int

const (
	_ Op = iota

	// binary
	And  // &&
	Or   // ||
	Add  // +
	Sub  // -
	Mul  // *
	Div  // /
	Rem  // %
	Eq   // ==
	Neq  // !=
	Lt   // <
	Lteq // <=
	Gt   // >
	Gteq // >=

	// unary
	Neg      // -
	Not      // !
	LengthOf // |x|
	New      // new
)

var opNames = [...]string{
	And:      "&&",
	Or:       "||",
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Div:      "/",
	Rem:      "%",
	Eq:       "==",
	Neq:      "!=",
	Lt:       "<",
	Lteq:     "<=",
	Gt:       ">",
	Gteq:     ">=",
	Neg:      "-",
	Not:      "!",
	LengthOf: "|",
	New:      "new",
}

// String returns the source notation for the operator.
func (op Op) String() string {
	if 0 < int(op) && int(op) < len(opNames) {
		return opNames[op]
	}
	return "<invalid op>"
}

// LitKind identifies the kind of a literal expression.
type LitKind int

const (
	NullLit LitKind = iota
	BoolLit
	IntLit
	StringLit
)

type (
	// ArrayAccess reads an element of an array, as in xs[i].
	ArrayAccess struct {
		expr
		Source Expr
		Index  Expr
	}

	// ArrayGenerator constructs an array of Size copies of Value, as in
	// [0; n].
	ArrayGenerator struct {
		expr
		Value Expr
		Size  Expr
	}

	// ArrayInitialiser constructs an array from listed elements, as in
	// [1, 2, 3].
	ArrayInitialiser struct {
		expr
		Elems []Expr
	}

	// Binary applies a binary operator to two operands.
	Binary struct {
		expr
		Op  Op
		LHS Expr
		RHS Expr
	}

	// Cast asserts the type of its operand, as in (int) x.
	Cast struct {
		expr
		Type types.Type
		X    Expr
	}

	// Dereference reads the cell behind a reference, as in *p.
	Dereference struct {
		expr
		Source Expr
	}

	// FieldDereference reads a record field through a reference, as in
	// p->f.
	FieldDereference struct {
		expr
		Source Expr
		Field  string
	}

	// Invoke calls a named method with the given arguments.
	Invoke struct {
		expr
		Name string
		Args []Expr
	}

	// Is tests the run-time type of an expression, as in "x is int".
	Is struct {
		expr
		X    Expr
		Type types.Type
	}

	// Literal is a null, boolean, integer or string literal.
	Literal struct {
		expr
		Kind  LitKind
		Bool  bool
		Int64 int64
		Str   string
	}

	// RecordAccess reads a field of a record value, as in r.f.
	RecordAccess struct {
		expr
		Source Expr
		Field  string
	}

	// RecordConstructor builds a record value from named field
	// initialisers, in declaration order.
	RecordConstructor struct {
		expr
		Fields []FieldInit
	}

	// Unary applies a unary operator to a single operand.
	Unary struct {
		expr
		Op Op
		X  Expr
	}

	// Variable is a use of a named variable.
	Variable struct {
		expr
		Name string
	}
)

// FieldInit is a single field initialiser within a record constructor.
type FieldInit struct {
	Name  string
	Value Expr
}
