// Package lang is the L0 front end (spec §4.1-§4.3): it builds the
// language's grammar.Grammar once, compiles it with genparser, and
// exposes Parse as the single entry point from source text to an
// *ast.TranslationUnit.
//
// The expression rules use the closure-folding technique Design Note
// §9 prescribes for eliminating left recursion by hand: a tail rule's
// action does not return a list of suffix operations to fold
// afterward, it returns a func(ast.Expr) ast.Expr closure that the
// base rule applies to the already-parsed left operand. Left-assoc
// chains (+ - * /) fold inside the closure before recursing into the
// rest of the tail; right-assoc chains (:=) just recurse directly.
package lang

import (
	"strconv"

	"github.com/l0lang/l0c/ast"
	"github.com/l0lang/l0c/genparser"
	"github.com/l0lang/l0c/grammar"
	"github.com/l0lang/l0c/scanner"
)

// exprTail is the closure-folding carrier: given the expression parsed
// so far to its left, it returns the complete expression for the
// chain starting at that point.
type exprTail func(left ast.Expr) ast.Expr

// callSuffix distinguishes a bare identifier from a call expression;
// isCall must be tracked explicitly since a zero-argument call still
// carries an (empty) argument list.
type callSuffix struct {
	isCall bool
	args   []ast.Expr
}

func act(f func(args []any) any) genparser.Action { return genparser.Action(f) }

func tok(a any) scanner.Token { return a.(scanner.Token) }

// buildGrammar constructs the L0 grammar: program structure, types,
// statements, and the precedence-climbing expression hierarchy
// (Assign -> Compare -> Add -> Mul -> Unary -> Primary).
func buildGrammar() *grammar.Grammar {
	g := grammar.New()

	// Terminals. Keywords are declared before IDENT so that, at equal
	// match length, the scanner's first-in-table tie-break picks the
	// keyword (spec §4.2).
	g.T("WS", `[ \t\r\n]+`, true)
	g.T("COMMENT", `//[^\n]*`, true)

	kwFunc := g.T("func", `func`, false)
	kwVar := g.T("var", `var`, false)
	kwIf := g.T("if", `if`, false)
	kwElse := g.T("else", `else`, false)
	kwWhile := g.T("while", `while`, false)
	kwFor := g.T("for", `for`, false)
	kwReturn := g.T("return", `return`, false)
	kwBreak := g.T("break", `break`, false)
	kwContinue := g.T("continue", `continue`, false)
	kwInt := g.T("int", `int`, false)

	ident := g.T("IDENT", `[A-Za-z_][A-Za-z0-9_]*`, false)
	intLit := g.T("INT", `[0-9]+`, false)

	lparen := g.T("(", `\(`, false)
	rparen := g.T(")", `\)`, false)
	lbrace := g.T("{", `\{`, false)
	rbrace := g.T("}", `\}`, false)
	colon := g.T(":", `:`, false)
	comma := g.T(",", `,`, false)
	semi := g.T(";", `;`, false)
	assignOp := g.T(":=", `:=`, false)
	le := g.T("<=", `<=`, false)
	ge := g.T(">=", `>=`, false)
	eq := g.T("==", `==`, false)
	plus := g.T("+", `\+`, false)
	minus := g.T("-", `-`, false)
	star := g.T("*", `\*`, false)
	slash := g.T("/", `/`, false)
	not := g.T("!", `!`, false)
	amp := g.T("&", `&`, false)

	// Non-terminals.
	program := g.NT("Program", true)
	funcDeclList := g.NT("FuncDeclList", false)
	funcDecl := g.NT("FuncDecl", false)
	paramList := g.NT("ParamList", false)
	param := g.NT("Param", false)
	paramListRest := g.NT("ParamListRest", false)
	typeNT := g.NT("Type", false)
	stmtList := g.NT("StmtList", false)
	stmt := g.NT("Stmt", false)
	varDeclStmt := g.NT("VarDeclStmt", false)
	codeBlock := g.NT("CodeBlock", false)
	ifStmt := g.NT("IfStmt", false)
	elseOpt := g.NT("ElseOpt", false)
	whileStmt := g.NT("WhileStmt", false)
	forStmt := g.NT("ForStmt", false)
	forInitOpt := g.NT("ForInitOpt", false)
	forNextOpt := g.NT("ForNextOpt", false)
	returnStmt := g.NT("ReturnStmt", false)
	breakStmt := g.NT("BreakStmt", false)
	continueStmt := g.NT("ContinueStmt", false)
	expr := g.NT("Expr", false)
	assignExpr := g.NT("AssignExpr", false)
	assignTail := g.NT("AssignTail", false)
	compareExpr := g.NT("CompareExpr", false)
	compareTail := g.NT("CompareTail", false)
	addExpr := g.NT("AddExpr", false)
	addTail := g.NT("AddTail", false)
	mulExpr := g.NT("MulExpr", false)
	mulTail := g.NT("MulTail", false)
	unaryExpr := g.NT("UnaryExpr", false)
	primary := g.NT("Primary", false)
	callSuffixNT := g.NT("CallSuffix", false)
	argList := g.NT("ArgList", false)
	argListRest := g.NT("ArgListRest", false)

	// Program -> FuncDeclList
	g.AddRule(program, grammar.Word{funcDeclList}, act(func(args []any) any {
		return &ast.TranslationUnit{Decls: args[0].([]ast.Decl)}
	}))

	// FuncDeclList -> FuncDecl FuncDeclList | EPSILON
	g.AddRule(funcDeclList, grammar.Word{funcDecl, funcDeclList}, act(func(args []any) any {
		return append([]ast.Decl{args[0].(*ast.FuncDecl)}, args[1].([]ast.Decl)...)
	}))
	g.AddRule(funcDeclList, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []ast.Decl{}
	}))

	// FuncDecl -> "func" IDENT "(" ParamList ")" ":" Type "{" StmtList "}"
	g.AddRule(funcDecl, grammar.Word{kwFunc, ident, lparen, paramList, rparen, colon, typeNT, lbrace, stmtList, rbrace},
		act(func(args []any) any {
			name := tok(args[1]).Lexeme
			params := args[3].([]*ast.VarDecl)
			retType := args[6].(ast.TypeExpr)
			body := args[8].([]ast.Stmt)

			paramTypes := make([]ast.TypeExpr, len(params))
			for i, p := range params {
				paramTypes[i] = p.Type
			}
			return &ast.FuncDecl{
				Name:       name,
				Type:       ast.TypeFunc{Return: retType, Params: paramTypes},
				Params:     params,
				Statements: body,
			}
		}))

	// ParamList -> Param ParamListRest | EPSILON
	g.AddRule(paramList, grammar.Word{param, paramListRest}, act(func(args []any) any {
		return append([]*ast.VarDecl{args[0].(*ast.VarDecl)}, args[1].([]*ast.VarDecl)...)
	}))
	g.AddRule(paramList, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []*ast.VarDecl{}
	}))

	// Param -> IDENT ":" Type
	g.AddRule(param, grammar.Word{ident, colon, typeNT}, act(func(args []any) any {
		return &ast.VarDecl{Name: tok(args[0]).Lexeme, Type: args[2].(ast.TypeExpr)}
	}))

	// ParamListRest -> "," Param ParamListRest | EPSILON
	g.AddRule(paramListRest, grammar.Word{comma, param, paramListRest}, act(func(args []any) any {
		return append([]*ast.VarDecl{args[1].(*ast.VarDecl)}, args[2].([]*ast.VarDecl)...)
	}))
	g.AddRule(paramListRest, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []*ast.VarDecl{}
	}))

	// Type -> "int" | "&" Type
	g.AddRule(typeNT, grammar.Word{kwInt}, act(func(args []any) any {
		return ast.TypeInt{}
	}))
	g.AddRule(typeNT, grammar.Word{amp, typeNT}, act(func(args []any) any {
		return ast.TypePointer{Pointee: args[1].(ast.TypeExpr)}
	}))

	// StmtList -> Stmt StmtList | EPSILON
	g.AddRule(stmtList, grammar.Word{stmt, stmtList}, act(func(args []any) any {
		return append([]ast.Stmt{args[0].(ast.Stmt)}, args[1].([]ast.Stmt)...)
	}))
	g.AddRule(stmtList, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []ast.Stmt{}
	}))

	// Stmt's alternatives, one per statement form plus the
	// fallback expression-statement.
	g.AddRule(stmt, grammar.Word{varDeclStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{ifStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{whileStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{forStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{returnStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{breakStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{continueStmt}, genparser.TakeArg(0))
	g.AddRule(stmt, grammar.Word{codeBlock}, act(func(args []any) any {
		return args[0].(*ast.CodeBlock)
	}))
	g.AddRule(stmt, grammar.Word{expr, semi}, act(func(args []any) any {
		return args[0].(ast.Expr)
	}))

	// VarDeclStmt -> "var" IDENT ":" Type ";"
	g.AddRule(varDeclStmt, grammar.Word{kwVar, ident, colon, typeNT, semi}, act(func(args []any) any {
		return &ast.VarDecl{Name: tok(args[1]).Lexeme, Type: args[3].(ast.TypeExpr)}
	}))

	// CodeBlock -> "{" StmtList "}"
	g.AddRule(codeBlock, grammar.Word{lbrace, stmtList, rbrace}, act(func(args []any) any {
		return &ast.CodeBlock{Statements: args[1].([]ast.Stmt)}
	}))

	// IfStmt -> "if" "(" Expr ")" CodeBlock ElseOpt
	g.AddRule(ifStmt, grammar.Word{kwIf, lparen, expr, rparen, codeBlock, elseOpt}, act(func(args []any) any {
		var elseBlock *ast.CodeBlock
		if args[5] != nil {
			elseBlock = args[5].(*ast.CodeBlock)
		}
		return &ast.IfStmt{Cond: args[2].(ast.Expr), Then: args[4].(*ast.CodeBlock), Else: elseBlock}
	}))

	// ElseOpt -> "else" CodeBlock | EPSILON
	g.AddRule(elseOpt, grammar.Word{kwElse, codeBlock}, act(func(args []any) any {
		return args[1].(*ast.CodeBlock)
	}))
	g.AddRule(elseOpt, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return nil
	}))

	// WhileStmt -> "while" "(" Expr ")" CodeBlock
	g.AddRule(whileStmt, grammar.Word{kwWhile, lparen, expr, rparen, codeBlock}, act(func(args []any) any {
		return &ast.WhileStmt{Cond: args[2].(ast.Expr), Body: args[4].(*ast.CodeBlock)}
	}))

	// ForStmt -> "for" "(" ForInitOpt ";" Expr ";" ForNextOpt ")" CodeBlock
	g.AddRule(forStmt, grammar.Word{kwFor, lparen, forInitOpt, semi, expr, semi, forNextOpt, rparen, codeBlock},
		act(func(args []any) any {
			var init, next ast.Expr
			if args[2] != nil {
				init = args[2].(ast.Expr)
			}
			if args[6] != nil {
				next = args[6].(ast.Expr)
			}
			return &ast.ForStmt{Init: init, Cond: args[4].(ast.Expr), Next: next, Body: args[8].(*ast.CodeBlock)}
		}))

	// ForInitOpt -> Expr | EPSILON
	g.AddRule(forInitOpt, grammar.Word{expr}, genparser.TakeArg(0))
	g.AddRule(forInitOpt, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return nil
	}))

	// ForNextOpt -> Expr | EPSILON
	g.AddRule(forNextOpt, grammar.Word{expr}, genparser.TakeArg(0))
	g.AddRule(forNextOpt, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return nil
	}))

	// ReturnStmt -> "return" Expr ";"
	g.AddRule(returnStmt, grammar.Word{kwReturn, expr, semi}, act(func(args []any) any {
		return &ast.ReturnStmt{Expr: args[1].(ast.Expr)}
	}))

	// BreakStmt -> "break" ";"
	g.AddRule(breakStmt, grammar.Word{kwBreak, semi}, act(func(args []any) any {
		return &ast.BreakStmt{}
	}))

	// ContinueStmt -> "continue" ";"
	g.AddRule(continueStmt, grammar.Word{kwContinue, semi}, act(func(args []any) any {
		return &ast.ContinueStmt{}
	}))

	// Expr -> AssignExpr
	g.AddRule(expr, grammar.Word{assignExpr}, genparser.TakeArg(0))

	// AssignExpr -> CompareExpr AssignTail (right-assoc: AssignTail
	// recurses into AssignExpr directly rather than folding).
	g.AddRule(assignExpr, grammar.Word{compareExpr, assignTail}, act(func(args []any) any {
		return args[1].(exprTail)(args[0].(ast.Expr))
	}))
	g.AddRule(assignTail, grammar.Word{assignOp, assignExpr}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		return exprTail(func(left ast.Expr) ast.Expr {
			return &ast.BinopExpr{Op: ast.OpAssign, LHS: left, RHS: rhs}
		})
	}))
	g.AddRule(assignTail, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return exprTail(func(left ast.Expr) ast.Expr { return left })
	}))

	// CompareExpr -> AddExpr CompareTail. Comparisons do not chain:
	// CompareTail is not itself recursive, it resolves to a single
	// optional <=/>=/== applied once. >= and == have no BinopKind of
	// their own, so CompareTail's action desugars them:
	// a>=b -> LessEqual(b,a), a==b -> Mul(LessEqual(a,b), LessEqual(b,a)).
	g.AddRule(compareExpr, grammar.Word{addExpr, compareTail}, act(func(args []any) any {
		return args[1].(exprTail)(args[0].(ast.Expr))
	}))
	g.AddRule(compareTail, grammar.Word{le, addExpr}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		return exprTail(func(left ast.Expr) ast.Expr {
			return &ast.BinopExpr{Op: ast.OpLessEqual, LHS: left, RHS: rhs}
		})
	}))
	g.AddRule(compareTail, grammar.Word{ge, addExpr}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		return exprTail(func(left ast.Expr) ast.Expr {
			return &ast.BinopExpr{Op: ast.OpLessEqual, LHS: rhs, RHS: left}
		})
	}))
	g.AddRule(compareTail, grammar.Word{eq, addExpr}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		return exprTail(func(left ast.Expr) ast.Expr {
			a := &ast.BinopExpr{Op: ast.OpLessEqual, LHS: left, RHS: rhs}
			b := &ast.BinopExpr{Op: ast.OpLessEqual, LHS: rhs, RHS: left}
			return &ast.BinopExpr{Op: ast.OpMul, LHS: a, RHS: b}
		})
	}))
	g.AddRule(compareTail, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return exprTail(func(left ast.Expr) ast.Expr { return left })
	}))

	// AddExpr -> MulExpr AddTail (left-assoc, closure-folded).
	g.AddRule(addExpr, grammar.Word{mulExpr, addTail}, act(func(args []any) any {
		return args[1].(exprTail)(args[0].(ast.Expr))
	}))
	g.AddRule(addTail, grammar.Word{plus, mulExpr, addTail}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		rest := args[2].(exprTail)
		return exprTail(func(left ast.Expr) ast.Expr {
			return rest(&ast.BinopExpr{Op: ast.OpAdd, LHS: left, RHS: rhs})
		})
	}))
	g.AddRule(addTail, grammar.Word{minus, mulExpr, addTail}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		rest := args[2].(exprTail)
		return exprTail(func(left ast.Expr) ast.Expr {
			return rest(&ast.BinopExpr{Op: ast.OpSub, LHS: left, RHS: rhs})
		})
	}))
	g.AddRule(addTail, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return exprTail(func(left ast.Expr) ast.Expr { return left })
	}))

	// MulExpr -> UnaryExpr MulTail (left-assoc, closure-folded).
	g.AddRule(mulExpr, grammar.Word{unaryExpr, mulTail}, act(func(args []any) any {
		return args[1].(exprTail)(args[0].(ast.Expr))
	}))
	g.AddRule(mulTail, grammar.Word{star, unaryExpr, mulTail}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		rest := args[2].(exprTail)
		return exprTail(func(left ast.Expr) ast.Expr {
			return rest(&ast.BinopExpr{Op: ast.OpMul, LHS: left, RHS: rhs})
		})
	}))
	g.AddRule(mulTail, grammar.Word{slash, unaryExpr, mulTail}, act(func(args []any) any {
		rhs := args[1].(ast.Expr)
		rest := args[2].(exprTail)
		return exprTail(func(left ast.Expr) ast.Expr {
			return rest(&ast.BinopExpr{Op: ast.OpDiv, LHS: left, RHS: rhs})
		})
	}))
	g.AddRule(mulTail, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return exprTail(func(left ast.Expr) ast.Expr { return left })
	}))

	// UnaryExpr -> "!" UnaryExpr | "-" UnaryExpr | "*" UnaryExpr | "&" UnaryExpr | Primary
	g.AddRule(unaryExpr, grammar.Word{not, unaryExpr}, act(func(args []any) any {
		return &ast.UnopExpr{Op: ast.OpNot, Expr: args[1].(ast.Expr)}
	}))
	g.AddRule(unaryExpr, grammar.Word{minus, unaryExpr}, act(func(args []any) any {
		return &ast.UnopExpr{Op: ast.OpNeg, Expr: args[1].(ast.Expr)}
	}))
	g.AddRule(unaryExpr, grammar.Word{star, unaryExpr}, act(func(args []any) any {
		return &ast.UnopExpr{Op: ast.OpDeref, Expr: args[1].(ast.Expr)}
	}))
	g.AddRule(unaryExpr, grammar.Word{amp, unaryExpr}, act(func(args []any) any {
		return &ast.UnopExpr{Op: ast.OpRef, Expr: args[1].(ast.Expr)}
	}))
	g.AddRule(unaryExpr, grammar.Word{primary}, genparser.TakeArg(0))

	// Primary -> IDENT CallSuffix | INT | "(" Expr ")"
	g.AddRule(primary, grammar.Word{ident, callSuffixNT}, act(func(args []any) any {
		name := tok(args[0]).Lexeme
		suf := args[1].(callSuffix)
		if suf.isCall {
			return &ast.CallExpr{Callee: &ast.Identifier{Name: name}, Arguments: suf.args}
		}
		return &ast.Identifier{Name: name}
	}))
	g.AddRule(primary, grammar.Word{intLit}, act(func(args []any) any {
		n, err := strconv.Atoi(tok(args[0]).Lexeme)
		if err != nil {
			panic("lang: scanner produced a non-numeric INT lexeme: " + err.Error())
		}
		return &ast.Literal{Value: n}
	}))
	g.AddRule(primary, grammar.Word{lparen, expr, rparen}, genparser.TakeArg(1))

	// CallSuffix -> "(" ArgList ")" | EPSILON
	g.AddRule(callSuffixNT, grammar.Word{lparen, argList, rparen}, act(func(args []any) any {
		return callSuffix{isCall: true, args: args[1].([]ast.Expr)}
	}))
	g.AddRule(callSuffixNT, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return callSuffix{isCall: false}
	}))

	// ArgList -> Expr ArgListRest | EPSILON
	g.AddRule(argList, grammar.Word{expr, argListRest}, act(func(args []any) any {
		return append([]ast.Expr{args[0].(ast.Expr)}, args[1].([]ast.Expr)...)
	}))
	g.AddRule(argList, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []ast.Expr{}
	}))

	// ArgListRest -> "," Expr ArgListRest | EPSILON
	g.AddRule(argListRest, grammar.Word{comma, expr, argListRest}, act(func(args []any) any {
		return append([]ast.Expr{args[1].(ast.Expr)}, args[2].([]ast.Expr)...)
	}))
	g.AddRule(argListRest, grammar.Word{grammar.Eps}, act(func(args []any) any {
		return []ast.Expr{}
	}))

	return g
}
