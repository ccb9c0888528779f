package ast

// Attrs is the side table for post-construction AST attributes: an
// Expr's Type, an Identifier's resolved Decl, and a NamedDecl's
// generated IR object. Design Note §9 keeps these out of the node
// structs entirely (a Decl's ir_obj would otherwise force an import
// cycle with the ir package, and a node tied back to its own attribute
// owner invites accidental retention cycles), keyed instead by node
// identity in maps owned by whichever pass produces the attribute.
type Attrs struct {
	types  map[Expr]TypeExpr
	decls  map[*Identifier]NamedDecl
	irObjs map[NamedDecl]any
}

// NewAttrs returns an empty attribute table.
func NewAttrs() *Attrs {
	return &Attrs{
		types:  map[Expr]TypeExpr{},
		decls:  map[*Identifier]NamedDecl{},
		irObjs: map[NamedDecl]any{},
	}
}

// SetType records the type semantic analysis computed for e.
func (a *Attrs) SetType(e Expr, t TypeExpr) { a.types[e] = t }

// Type returns the type recorded for e, or nil if none was set.
func (a *Attrs) Type(e Expr) TypeExpr { return a.types[e] }

// SetDecl records which declaration an identifier resolved to.
func (a *Attrs) SetDecl(id *Identifier, d NamedDecl) { a.decls[id] = d }

// Decl returns the declaration id resolved to, or nil if unresolved.
func (a *Attrs) Decl(id *Identifier) NamedDecl { return a.decls[id] }

// SetIRObj records the IR object codegen built for a declaration (an
// *ir.Function for a FuncDecl, an *ir.Variable for a VarDecl). Typed as
// any to avoid an ast->ir import cycle; codegen callers type-assert.
func (a *Attrs) SetIRObj(d NamedDecl, obj any) { a.irObjs[d] = obj }

// IRObj returns the IR object recorded for d, or nil if none was set.
func (a *Attrs) IRObj(d NamedDecl) any { return a.irObjs[d] }
