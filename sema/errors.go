// Package sema is semantic analysis (spec §4.5): scope resolution,
// type checking, and the diagnostics they raise.
package sema

import (
	"fmt"
	"strings"

	"github.com/l0lang/l0c/ast"
)

// SemanticError is one diagnostic raised against a specific AST node.
type SemanticError struct {
	Node    ast.Node
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s: %s", describe(e.Node), e.Message)
}

func describe(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Identifier:
		return fmt.Sprintf("identifier %q", v.Name)
	case *ast.FuncDecl:
		return fmt.Sprintf("function %q", v.Name)
	case *ast.VarDecl:
		return fmt.Sprintf("variable %q", v.Name)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// ErrorList collects every SemanticError raised while analyzing one
// translation unit.
type ErrorList []*SemanticError

func (l ErrorList) Error() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

// Failure is the single fatal error raised at translation-unit close
// when any SemanticError was recorded, mirroring the original's
// `SemanticAnalysis.failed` flag (ex10/AST/analysis.py).
type Failure struct {
	Errors ErrorList
}

func (f *Failure) Error() string {
	return fmt.Sprintf("semantic analysis failed with %d error(s):\n%s", len(f.Errors), f.Errors.Error())
}

func (f *Failure) Unwrap() []error {
	out := make([]error, len(f.Errors))
	for i, e := range f.Errors {
		out[i] = e
	}
	return out
}
