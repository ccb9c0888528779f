package irgen

import (
	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/ir"
)

// rvalue lowers expr to an operand holding its value: either a fresh
// instruction's destination, or (for a pure literal) the constant
// itself (spec §4.6).
func (cg *funcCodegen) rvalue(expr ast.Expr) (ir.Operand, error) {
	switch n := expr.(type) {
	case *ast.Literal:
		return ir.Const(n.Value), nil

	case *ast.Identifier:
		decl := cg.attrs.Decl(n)
		if decl == nil {
			return nil, &Error{Node: n, Message: "unresolved identifier " + n.Name}
		}
		vd, ok := decl.(*ast.VarDecl)
		if !ok {
			return nil, &Error{Node: n, Message: n.Name + " does not name a variable"}
		}
		return cg.irVarFor(vd)

	case *ast.UnopExpr:
		return cg.rvalueUnop(n)

	case *ast.BinopExpr:
		if n.Op == ast.OpAssign {
			return cg.genAssign(n)
		}
		lhs, err := cg.rvalue(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := cg.rvalue(n.RHS)
		if err != nil {
			return nil, err
		}
		dst := cg.fn.CreateVariable("")
		cg.block.Append(&ir.Binop{Op: binopKind(n.Op), DstVar: dst, LHS: lhs, RHS: rhs})
		return dst, nil

	case *ast.CallExpr:
		return cg.genCall(n)

	default:
		return nil, &Error{Node: expr, Message: "unhandled expression kind"}
	}
}

func (cg *funcCodegen) rvalueUnop(n *ast.UnopExpr) (ir.Operand, error) {
	switch n.Op {
	case ast.OpNeg:
		src, err := cg.rvalue(n.Expr)
		if err != nil {
			return nil, err
		}
		dst := cg.fn.CreateVariable("")
		cg.block.Append(&ir.Binop{Op: ir.Sub, DstVar: dst, LHS: ir.Const(0), RHS: src})
		return dst, nil

	case ast.OpNot:
		// L0's only boolean values are the 0/1 results of comparisons, so
		// logical not is lowered as `src <= 0`.
		src, err := cg.rvalue(n.Expr)
		if err != nil {
			return nil, err
		}
		dst := cg.fn.CreateVariable("")
		cg.block.Append(&ir.Binop{Op: ir.LessEqual, DstVar: dst, LHS: src, RHS: ir.Const(0)})
		return dst, nil

	case ast.OpRef:
		return cg.lvalue(n.Expr)

	case ast.OpDeref:
		ptr, err := cg.rvalue(n.Expr)
		if err != nil {
			return nil, err
		}
		ptrVar, ok := ptr.(*ir.Variable)
		if !ok {
			return nil, &Error{Node: n, Message: "cannot dereference a constant"}
		}
		dst := cg.fn.CreateVariable("")
		cg.block.Append(&ir.Load{DstVar: dst, Ptr: ptrVar})
		return dst, nil

	default:
		return nil, &Error{Node: n, Message: "unhandled unary operator"}
	}
}

func (cg *funcCodegen) genAssign(n *ast.BinopExpr) (ir.Operand, error) {
	rhs, err := cg.rvalue(n.RHS)
	if err != nil {
		return nil, err
	}

	if id, ok := n.LHS.(*ast.Identifier); ok {
		decl := cg.attrs.Decl(id)
		vd, ok := decl.(*ast.VarDecl)
		if !ok {
			return nil, &Error{Node: id, Message: "assignment target does not name a variable"}
		}
		v, err := cg.irVarFor(vd)
		if err != nil {
			return nil, err
		}
		cg.block.Append(&ir.Assign{DstVar: v, Value: rhs})
		return rhs, nil
	}

	ptr, err := cg.lvalue(n.LHS)
	if err != nil {
		return nil, err
	}
	ptrVar, ok := ptr.(*ir.Variable)
	if !ok {
		return nil, &Error{Node: n.LHS, Message: "assignment target is not addressable"}
	}
	cg.block.Append(&ir.Store{Ptr: ptrVar, Value: rhs})
	return rhs, nil
}

func (cg *funcCodegen) genCall(n *ast.CallExpr) (ir.Operand, error) {
	args := make([]ir.Operand, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := cg.rvalue(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	decl := cg.attrs.Decl(n.Callee)
	fd, ok := decl.(*ast.FuncDecl)
	if !ok {
		return nil, &Error{Node: n.Callee, Message: "call target does not name a function"}
	}
	callee, err := cg.irFuncFor(fd)
	if err != nil {
		return nil, err
	}

	dst := cg.fn.CreateVariable("")
	cg.block.Append(&ir.Call{DstVar: dst, Callee: callee, Args: args})
	return dst, nil
}

// lvalue lowers expr to a pointer-valued operand (spec §4.6).
func (cg *funcCodegen) lvalue(expr ast.Expr) (ir.Operand, error) {
	switch n := expr.(type) {
	case *ast.Identifier:
		decl := cg.attrs.Decl(n)
		vd, ok := decl.(*ast.VarDecl)
		if !ok {
			return nil, &Error{Node: n, Message: "cannot take the address of " + n.Name}
		}
		v, err := cg.irVarFor(vd)
		if err != nil {
			return nil, err
		}
		dst := cg.fn.CreateVariable("")
		cg.block.Append(&ir.Reference{DstVar: dst, Var: v})
		return dst, nil

	case *ast.UnopExpr:
		switch n.Op {
		case ast.OpDeref:
			// The lvalue of *e is just e's rvalue (the pointer itself).
			return cg.rvalue(n.Expr)
		case ast.OpRef:
			inner, err := cg.lvalue(n.Expr)
			if err != nil {
				return nil, err
			}
			innerVar, ok := inner.(*ir.Variable)
			if !ok {
				return nil, &Error{Node: n, Message: "cannot take the address of a constant"}
			}
			dst := cg.fn.CreateVariable("")
			cg.block.Append(&ir.Reference{DstVar: dst, Var: innerVar})
			return dst, nil
		}
	}
	return nil, &Error{Node: expr, Message: "expression is not an lvalue"}
}
