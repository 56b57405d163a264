package syntax

import "fmt"

// Pos is a source position: a filename together with a 1-based line and
// column. The zero value is an unknown position.
type Pos struct {
	filename string
	line     uint32
	col      uint32
}

// NewPos creates a source position.
func NewPos(filename string, line, col uint) Pos {
	return Pos{filename: filename, line: uint32(line), col: uint32(col)}
}

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Filename returns the name of the source file.
func (p Pos) Filename() string { return p.filename }

// Line returns the 1-based line number.
func (p Pos) Line() uint { return uint(p.line) }

// Col returns the 1-based column number.
func (p Pos) Col() uint { return uint(p.col) }

// String returns the position in file:line:col notation.
func (p Pos) String() string {
	if !p.IsValid() {
		return "<unknown position>"
	}
	return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
}
