package check

import (
	"fmt"

	"github.com/while-lang/wlc/internal/syntax"
)

// Code classifies the errors reported by the static analyses.
type Code int

const (
	_ Code = iota

	// TypeMismatch reports a value flowing into a context whose type does
	// not accept it.
	TypeMismatch

	// UnknownType reports a reference to an undeclared type name, or a
	// cycle of type names with no body.
	UnknownType

	// UnknownVariable reports a use of an undeclared variable.
	UnknownVariable

	// UnknownField reports an access to a field the record does not have.
	UnknownField

	// UnknownMethod reports an invocation of an undeclared method.
	UnknownMethod

	// DuplicateDeclaration reports a name declared twice in one scope.
	DuplicateDeclaration

	// UnassignedVariable reports a variable read on some path before it
	// has been assigned.
	UnassignedVariable

	// MovedVariable reports a use of a value whose ownership has already
	// been given away.
	MovedVariable

	// DoubleDelete reports a delete of a reference whose ownership is
	// already gone, through an earlier delete or move.
	DoubleDelete

	// InvalidDelete reports a delete of something other than a unique
	// reference.
	InvalidDelete

	// VoidNotPermitted reports void used anywhere other than a method
	// return type.
	VoidNotPermitted
)

// Error is a positioned diagnostic produced by Check.
type Error struct {
	Code Code
	Pos  syntax.Pos
	End  syntax.Pos
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return e.Msg
}

// errAt builds a diagnostic spanning the given node.
func errAt(n syntax.Node, code Code, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Pos:  n.Pos(),
		End:  n.End(),
		Msg:  fmt.Sprintf(format, args...),
	}
}
