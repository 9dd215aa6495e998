// Package check implements Oat's static type checker: well-formedness of
// types, structural subtyping, expression/statement typing, and the
// top-level program rule (pre-binding every global, then checking every
// function body, optionally in parallel across goroutines).
package check

import (
	"oatc/src/ast"
	"oatc/src/symbol"
	"oatc/src/util"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// TypingContext maps a struct name to its insertion-ordered field list.
type TypingContext struct {
	structs map[symbol.Symbol][]ast.FieldDecl
}

// Scope is one lexical level of a LocalsContext: a mapping from identifier
// to its declared type.
type Scope map[symbol.Symbol]ast.Type

// LocalsContext is a stack of scopes. lookup walks outward from the
// innermost scope; set writes into the innermost scope. It is built on
// util.Stack.
type LocalsContext struct {
	scopes util.Stack
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewTypingContext builds a TypingContext from every TypeDecl in prog.
func NewTypingContext(prog ast.Program) *TypingContext {
	tc := &TypingContext{structs: make(map[symbol.Symbol][]ast.FieldDecl)}
	for _, d := range prog {
		if td, ok := d.(ast.TypeDecl); ok {
			tc.structs[td.Name] = td.Fields
		}
	}
	return tc
}

// Fields returns the field list declared for struct name, in declaration
// order, and whether it is declared at all.
func (tc *TypingContext) Fields(name symbol.Symbol) ([]ast.FieldDecl, bool) {
	f, ok := tc.structs[name]
	return f, ok
}

// FieldType returns the declared type of field on struct name, and whether
// the field exists.
func (tc *TypingContext) FieldType(structName, field symbol.Symbol) (ast.Type, bool) {
	fields, ok := tc.structs[structName]
	if !ok {
		return nil, false
	}
	for _, f := range fields {
		if f.Name == field {
			return f.Type, true
		}
	}
	return nil, false
}

// NewLocalsContext returns a LocalsContext with one (the top-level) scope.
func NewLocalsContext() *LocalsContext {
	lc := &LocalsContext{}
	lc.Push()
	return lc
}

// Push opens a new, innermost scope. Scopes are opened on function entry,
// on each block, and on for-loop headers.
func (lc *LocalsContext) Push() {
	lc.scopes.Push(make(Scope))
}

// Pop closes the innermost scope.
func (lc *LocalsContext) Pop() {
	lc.scopes.Pop()
}

// Set binds name to typ in the innermost scope.
func (lc *LocalsContext) Set(name symbol.Symbol, typ ast.Type) {
	lc.scopes.Peek().(Scope)[name] = typ
}

// Lookup walks outward from the innermost scope, returning the first
// binding found for name.
func (lc *LocalsContext) Lookup(name symbol.Symbol) (ast.Type, bool) {
	n := lc.scopes.Size()
	for i := 1; i <= n; i++ {
		scope := lc.scopes.Get(i).(Scope)
		if t, ok := scope[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Base returns a fresh LocalsContext seeded with a flattened copy of every
// binding visible in lc, collapsed into a single scope. Concurrent
// function-body checks each call Base once on the shared top-level
// context rather than sharing its util.Stack directly: util.Stack mutates
// shared linked nodes on Push, so two goroutines pushing onto the same
// instance would race. A flattened copy has no such aliasing.
func (lc *LocalsContext) Base() *LocalsContext {
	merged := make(Scope)
	n := lc.scopes.Size()
	for i := n; i >= 1; i-- {
		scope := lc.scopes.Get(i).(Scope)
		for k, v := range scope {
			merged[k] = v
		}
	}
	base := &LocalsContext{}
	base.scopes.Push(merged)
	return base
}
