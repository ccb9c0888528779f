package ast

import (
	"reflect"
	"strings"
)

// Walk traverses n depth-first, dispatching to v's Pre_<Type> method
// before visiting children and its Post_<Type> method after (spec
// §4.4). Visitors implement only the node types they care about; a
// visitor missing a specific Pre_/Post_ method falls back to
// Pre_Node/Post_Node if present, otherwise the call is skipped.
//
// Dispatch is by the node's dynamic type name, found via
// reflect.ValueOf(v).MethodByName, rather than a generated switch —
// following Design Note §9's guidance that the visitor framework stays
// data-driven rather than hand-enumerated per node kind. Hook methods
// must be exported: reflect.Value.MethodByName only ever resolves
// exported names, so an unexported pre_/post_ method would silently
// never be called.
//
// A Pre_<Type> method may return a bool; returning false skips that
// node's children (and its Post_ call). Methods returning nothing are
// always followed by a full child walk.
func Walk(v any, n Node) {
	if n == nil {
		return
	}
	rv := reflect.ValueOf(v)

	descend := true
	if m := dispatch(rv, "Pre_", n); m.IsValid() {
		descend = callHook(m, n)
	}
	if !descend {
		return
	}

	for _, child := range n.Children() {
		Walk(v, child)
	}

	if m := dispatch(rv, "Post_", n); m.IsValid() {
		callHook(m, n)
	}
}

// dispatch finds v's hook method for n: prefix + the node's dynamic
// type name (e.g. "Pre_BinopExpr"), falling back to prefix + "Node".
func dispatch(rv reflect.Value, prefix string, n Node) reflect.Value {
	name := typeName(n)
	if m := rv.MethodByName(prefix + name); m.IsValid() {
		return m
	}
	return rv.MethodByName(prefix + "Node")
}

// typeName strips the pointer and package qualifier off n's dynamic
// type, e.g. *ast.BinopExpr -> "BinopExpr".
func typeName(n Node) string {
	t := reflect.TypeOf(n)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := t.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// callHook invokes a Pre_/Post_ method found by dispatch, accepting
// either a func(Node) or a func(Node) bool signature.
func callHook(m reflect.Value, n Node) bool {
	out := m.Call([]reflect.Value{reflect.ValueOf(n)})
	if len(out) == 1 && out[0].Kind() == reflect.Bool {
		return out[0].Bool()
	}
	return true
}

// Visitor is a marker interface for documentation purposes only: any
// type with exported Pre_/Post_ methods works with Walk without
// implementing it explicitly.
type Visitor interface{}
