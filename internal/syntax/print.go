package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders an expression on one line, in source notation. It is used
// for diagnostics and is not a faithful pretty printer; parentheses are
// inserted around every binary operand.
func String(e Expr) string {
	var buf strings.Builder
	writeExpr(&buf, e)
	return buf.String()
}

func writeExpr(buf *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *ArrayAccess:
		writeExpr(buf, e.Source)
		buf.WriteString("[")
		writeExpr(buf, e.Index)
		buf.WriteString("]")
	case *ArrayGenerator:
		buf.WriteString("[")
		writeExpr(buf, e.Value)
		buf.WriteString("; ")
		writeExpr(buf, e.Size)
		buf.WriteString("]")
	case *ArrayInitialiser:
		buf.WriteString("[")
		for i, el := range e.Elems {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeExpr(buf, el)
		}
		buf.WriteString("]")
	case *Binary:
		buf.WriteString("(")
		writeExpr(buf, e.LHS)
		buf.WriteString(" ")
		buf.WriteString(e.Op.String())
		buf.WriteString(" ")
		writeExpr(buf, e.RHS)
		buf.WriteString(")")
	case *Cast:
		buf.WriteString("(")
		buf.WriteString(e.Type.String())
		buf.WriteString(") ")
		writeExpr(buf, e.X)
	case *Dereference:
		buf.WriteString("*")
		writeExpr(buf, e.Source)
	case *FieldDereference:
		writeExpr(buf, e.Source)
		buf.WriteString("->")
		buf.WriteString(e.Field)
	case *Invoke:
		buf.WriteString(e.Name)
		buf.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				buf.WriteString(", ")
			}
			writeExpr(buf, a)
		}
		buf.WriteString(")")
	case *Is:
		writeExpr(buf, e.X)
		buf.WriteString(" is ")
		buf.WriteString(e.Type.String())
	case *Literal:
		switch e.Kind {
		case NullLit:
			buf.WriteString("null")
		case BoolLit:
			buf.WriteString(strconv.FormatBool(e.Bool))
		case IntLit:
			buf.WriteString(strconv.FormatInt(e.Int64, 10))
		case StringLit:
			buf.WriteString(strconv.Quote(e.Str))
		}
	case *RecordAccess:
		writeExpr(buf, e.Source)
		buf.WriteString(".")
		buf.WriteString(e.Field)
	case *RecordConstructor:
		buf.WriteString("{")
		for i, f := range e.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(f.Name)
			buf.WriteString(": ")
			writeExpr(buf, f.Value)
		}
		buf.WriteString("}")
	case *Unary:
		switch e.Op {
		case LengthOf:
			buf.WriteString("|")
			writeExpr(buf, e.X)
			buf.WriteString("|")
		case New:
			buf.WriteString("new ")
			writeExpr(buf, e.X)
		default:
			buf.WriteString(e.Op.String())
			writeExpr(buf, e.X)
		}
	case *Variable:
		buf.WriteString(e.Name)
	default:
		fmt.Fprintf(buf, "<%T>", e)
	}
}
