// Package check implements the static analyses for While programs. A file is
// checked in four phases: structural type checking, definite assignment,
// consumption marking and unique-reference ownership. The first error found
// aborts checking.
package check

import (
	"github.com/while-lang/wlc/internal/syntax"
	"github.com/while-lang/wlc/internal/types"
)

// Config configures a call to Check.
type Config struct {
	// Error is called with the error that aborted checking, before Check
	// returns it. It gives callers the structured form; the returned
	// error carries the same value.
	Error func(*Error)
}

// Info records the results of type checking for later phases and for
// clients such as interpreters or code generators.
type Info struct {
	// Types maps every checked expression to its inferred type.
	Types map[syntax.Expr]types.Type
}

// TypeOf returns the inferred type of the given expression, or nil if the
// expression was not checked.
func (info *Info) TypeOf(e syntax.Expr) types.Type {
	return info.Types[e]
}

// Check analyses a source file, returning the type information gathered
// along the way. The returned Info is valid in full only when the error is
// nil; on error it holds whatever had been inferred before the failure.
func Check(file *syntax.File, conf *Config) (*Info, error) {
	if conf == nil {
		conf = &Config{}
	}
	info := &Info{Types: make(map[syntax.Expr]types.Type)}
	err := check(file, info)
	if err != nil {
		if e, ok := err.(*Error); ok && conf.Error != nil {
			conf.Error(e)
		}
		return info, err
	}
	return info, nil
}

func check(file *syntax.File, info *Info) error {
	c := &checker{
		table:   types.NewTable(),
		methods: make(map[string]*syntax.MethodDecl),
		info:    info,
	}
	// Declarations are visible throughout the file, regardless of order.
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *syntax.TypeDecl:
			if !c.table.Declare(d.Name, d.Type) {
				return errAt(d, DuplicateDeclaration, "type %s already declared", d.Name)
			}
		case *syntax.MethodDecl:
			if _, ok := c.methods[d.Name]; ok {
				return errAt(d, DuplicateDeclaration, "method %s already declared", d.Name)
			}
			c.methods[d.Name] = d
		}
	}
	for _, d := range file.Decls {
		switch d := d.(type) {
		case *syntax.TypeDecl:
			if err := c.checkNotVoid(d.Type, d); err != nil {
				return err
			}
		case *syntax.MethodDecl:
			if err := c.methodDecl(d); err != nil {
				return err
			}
		}
	}
	for _, d := range file.Decls {
		if md, ok := d.(*syntax.MethodDecl); ok {
			if err := checkDefiniteAssignment(md); err != nil {
				return err
			}
		}
	}
	// Ownership runs last; it relies on the types inferred above.
	m, err := markConsumption(file, c.table, info)
	if err != nil {
		return err
	}
	for _, d := range file.Decls {
		if md, ok := d.(*syntax.MethodDecl); ok {
			if err := checkUniqueness(md, c.table, m); err != nil {
				return err
			}
		}
	}
	return nil
}
