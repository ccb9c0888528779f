package sema

import "github.com/l0lang/l0c/ast"

// Namespace is one lexical scope: variables and functions declared
// directly in it, plus a link to the enclosing scope for
// closest-nested-scope resolution (spec §4.5).
//
// Functions are kept in their own list-valued map, mirroring the
// original's "singleton list, overloading reserved but not
// implemented" shape: registration never rejects a duplicate function
// name; Resolve returns the whole list, and Analysis.Post_Identifier
// reports a semantic error unless it has exactly one candidate,
// instead of silently picking one.
type Namespace struct {
	parent *Namespace
	vars   map[string]*ast.VarDecl
	funcs  map[string][]*ast.FuncDecl
}

func newNamespace(parent *Namespace) *Namespace {
	return &Namespace{
		parent: parent,
		vars:   map[string]*ast.VarDecl{},
		funcs:  map[string][]*ast.FuncDecl{},
	}
}

// declareVar registers a variable in this namespace. It returns false,
// registering nothing, if name was already declared here (a
// duplicate-declaration error, checked only within the same namespace
// per spec §4.5), and true otherwise.
func (ns *Namespace) declareVar(v *ast.VarDecl) bool {
	if _, exists := ns.vars[v.Name]; exists {
		return false
	}
	if _, exists := ns.funcs[v.Name]; exists {
		return false
	}
	ns.vars[v.Name] = v
	return true
}

// declareFunc appends f to its name's overload list in this namespace.
func (ns *Namespace) declareFunc(f *ast.FuncDecl) {
	ns.funcs[f.Name] = append(ns.funcs[f.Name], f)
}

// SymbolTable is the active stack of namespaces during a single
// semantic-analysis pass.
type SymbolTable struct {
	top *Namespace
}

// NewSymbolTable returns a table with no open scopes.
func NewSymbolTable() *SymbolTable { return &SymbolTable{} }

// Push opens a new nested scope.
func (st *SymbolTable) Push() { st.top = newNamespace(st.top) }

// Pop closes the innermost scope.
func (st *SymbolTable) Pop() { st.top = st.top.parent }

// DeclareVar registers v in the innermost scope.
func (st *SymbolTable) DeclareVar(v *ast.VarDecl) bool { return st.top.declareVar(v) }

// DeclareFunc registers f in the innermost scope.
func (st *SymbolTable) DeclareFunc(f *ast.FuncDecl) { st.top.declareFunc(f) }

// resolution is what Resolve found for a name: at most one of var/funcs
// is non-empty, since a single namespace never lets a name be both.
type resolution struct {
	v     *ast.VarDecl
	funcs []*ast.FuncDecl
}

// Resolve walks outward from the innermost scope looking for name,
// returning the first namespace that declares it at all (as either a
// variable or a function overload set).
func (st *SymbolTable) Resolve(name string) (resolution, bool) {
	for ns := st.top; ns != nil; ns = ns.parent {
		if v, ok := ns.vars[name]; ok {
			return resolution{v: v}, true
		}
		if fs, ok := ns.funcs[name]; ok {
			return resolution{funcs: fs}, true
		}
	}
	return resolution{}, false
}
