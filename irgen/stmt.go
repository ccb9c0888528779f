package irgen

import (
	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/ir"
)

func (cg *funcCodegen) genStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		cg.attrs.SetIRObj(n, cg.fn.CreateVariable(n.Name))
		return nil
	case *ast.CodeBlock:
		return cg.genCodeBlock(n)
	case *ast.IfStmt:
		return cg.genIf(n)
	case *ast.WhileStmt:
		return cg.genWhile(n)
	case *ast.ForStmt:
		return cg.genFor(n)
	case *ast.ReturnStmt:
		v, err := cg.rvalue(n.Expr)
		if err != nil {
			return err
		}
		cg.block.Append(&ir.Return{Value: v})
		return nil
	case *ast.BreakStmt:
		if len(cg.loops) == 0 {
			return &Error{Node: n, Message: "break with no enclosing loop"}
		}
		cg.block.Append(&ir.Goto{Target: cg.loops[len(cg.loops)-1].after})
		return nil
	case *ast.ContinueStmt:
		if len(cg.loops) == 0 {
			return &Error{Node: n, Message: "continue with no enclosing loop"}
		}
		cg.block.Append(&ir.Goto{Target: cg.loops[len(cg.loops)-1].header})
		return nil
	case ast.Expr:
		_, err := cg.rvalue(n)
		return err
	default:
		return &Error{Node: s, Message: "unhandled statement kind"}
	}
}

func (cg *funcCodegen) genCodeBlock(cb *ast.CodeBlock) error {
	for _, s := range cb.Statements {
		if err := cg.genStmt(s); err != nil {
			return err
		}
		if cg.block.Closed() {
			break
		}
	}
	return nil
}

func (cg *funcCodegen) genIf(n *ast.IfStmt) error {
	cond, err := cg.rvalue(n.Cond)
	if err != nil {
		return err
	}

	then := cg.fn.CreateBlock()
	elseBlock := cg.fn.CreateBlock()
	after := cg.fn.CreateBlock()

	cg.block.Append(&ir.IfGoto{Cond: cond, Then: then.Label, Else: elseBlock.Label})

	cg.block = then
	if err := cg.genCodeBlock(n.Then); err != nil {
		return err
	}
	cg.closeWith(cg.block, after.Label)

	cg.block = elseBlock
	if n.Else != nil {
		if err := cg.genCodeBlock(n.Else); err != nil {
			return err
		}
	}
	cg.closeWith(cg.block, after.Label)

	cg.block = after
	return nil
}

func (cg *funcCodegen) genWhile(n *ast.WhileStmt) error {
	header := cg.fn.CreateBlock()
	body := cg.fn.CreateBlock()
	after := cg.fn.CreateBlock()

	cg.block.Append(&ir.Goto{Target: header.Label})

	cg.block = header
	cond, err := cg.rvalue(n.Cond)
	if err != nil {
		return err
	}
	cg.block.Append(&ir.IfGoto{Cond: cond, Then: body.Label, Else: after.Label})

	cg.block = body
	cg.loops = append(cg.loops, loopContext{header: header.Label, after: after.Label})
	err = cg.genCodeBlock(n.Body)
	cg.loops = cg.loops[:len(cg.loops)-1]
	if err != nil {
		return err
	}
	cg.closeWith(cg.block, header.Label)

	cg.block = after
	return nil
}

func (cg *funcCodegen) genFor(n *ast.ForStmt) error {
	if n.Init != nil {
		if _, err := cg.rvalue(n.Init); err != nil {
			return err
		}
	}

	header := cg.fn.CreateBlock()
	body := cg.fn.CreateBlock()
	after := cg.fn.CreateBlock()

	cg.block.Append(&ir.Goto{Target: header.Label})

	cg.block = header
	cond, err := cg.rvalue(n.Cond)
	if err != nil {
		return err
	}
	cg.block.Append(&ir.IfGoto{Cond: cond, Then: body.Label, Else: after.Label})

	cg.block = body
	cg.loops = append(cg.loops, loopContext{header: header.Label, after: after.Label})
	err = cg.genCodeBlock(n.Body)
	if err == nil && !cg.block.Closed() && n.Next != nil {
		_, err = cg.rvalue(n.Next)
	}
	cg.loops = cg.loops[:len(cg.loops)-1]
	if err != nil {
		return err
	}
	cg.closeWith(cg.block, header.Label)

	cg.block = after
	return nil
}
