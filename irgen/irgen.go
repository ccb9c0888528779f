// Package irgen lowers a type-checked AST into ir.TranslationUnit
// (spec §4.6): one ir.Function per ast.FuncDecl, built by walking
// statements and expressions in the rvalue/lvalue pattern the
// original codegen.py uses (ex10/CFG/codegen.py).
package irgen

import (
	"fmt"

	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/ir"
)

// Error reports a codegen-time invariant violation: an identifier with
// no resolved declaration, or an unresolved call target. Semantic
// analysis is expected to have already rejected anything that would
// normally reach here; Error exists for defense in depth.
type Error struct {
	Node    ast.Node
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("irgen: %s", e.Message) }

// Generate lowers tu, whose attrs must already carry the declaration
// and type information semantic analysis produces.
func Generate(tu *ast.TranslationUnit, attrs *ast.Attrs) (*ir.TranslationUnit, error) {
	itu := &ir.TranslationUnit{}

	var funcs []*ast.FuncDecl
	for _, d := range tu.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok {
			continue
		}
		f := ir.NewFunction(fd.Name)
		for _, p := range fd.Params {
			attrs.SetIRObj(p, f.CreateParameter(p.Name))
		}
		attrs.SetIRObj(fd, f)
		itu.Functions = append(itu.Functions, f)
		funcs = append(funcs, fd)
	}

	for _, fd := range funcs {
		if err := genFunction(fd, attrs); err != nil {
			return nil, err
		}
	}
	return itu, nil
}

// loopContext is the enclosing While/For's break/continue targets.
type loopContext struct {
	header *ir.Label
	after  *ir.Label
}

type funcCodegen struct {
	fn    *ir.Function
	attrs *ast.Attrs
	block *ir.BasicBlock
	loops []loopContext
}

func genFunction(fd *ast.FuncDecl, attrs *ast.Attrs) error {
	f, _ := attrs.IRObj(fd).(*ir.Function)
	cg := &funcCodegen{fn: f, attrs: attrs, block: f.CreateBlock()}

	for _, s := range fd.Statements {
		if err := cg.genStmt(s); err != nil {
			return err
		}
		if cg.block.Closed() {
			break
		}
	}
	// Defensive trailing return so every path through the function is
	// terminated (spec §4.6).
	if !cg.block.Closed() {
		cg.block.Append(&ir.Return{Value: ir.Const(0)})
	}

	f.SortBlocks()
	return nil
}

func (cg *funcCodegen) irVarFor(d ast.NamedDecl) (*ir.Variable, error) {
	v, ok := cg.attrs.IRObj(d).(*ir.Variable)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("no IR variable recorded for %q", d.DeclName())}
	}
	return v, nil
}

func (cg *funcCodegen) irFuncFor(d ast.NamedDecl) (*ir.Function, error) {
	f, ok := cg.attrs.IRObj(d).(*ir.Function)
	if !ok {
		return nil, &Error{Message: fmt.Sprintf("no IR function recorded for %q", d.DeclName())}
	}
	return f, nil
}

func binopKind(op ast.BinopKind) ir.BinopKind {
	switch op {
	case ast.OpAdd:
		return ir.Add
	case ast.OpSub:
		return ir.Sub
	case ast.OpMul:
		return ir.Mul
	case ast.OpDiv:
		return ir.Div
	case ast.OpLessEqual:
		return ir.LessEqual
	}
	panic(fmt.Sprintf("irgen: unhandled binary operator %v", op))
}

func (cg *funcCodegen) closeWith(bb *ir.BasicBlock, target *ir.Label) {
	if !bb.Closed() {
		bb.Append(&ir.Goto{Target: target})
	}
}
