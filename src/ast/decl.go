package ast

import "oatc/src/symbol"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Decl is a top-level declaration: a global variable, a function, or a
// named struct type.
type Decl interface {
	isDecl()
}

// Param is one named, typed function argument.
type Param struct {
	Name symbol.Symbol
	Type Type
}

// FieldDecl is one named, typed struct field, in declaration order.
type FieldDecl struct {
	Name symbol.Symbol
	Type Type
}

// GlobalDecl declares a global variable with a constant initializer
// (restricted per the program's well-formedness rule to null, boolean,
// integer, string literals, and references to other globals).
type GlobalDecl struct {
	Name symbol.Symbol
	Init Expr
}

// FuncDecl declares a function: its return type, name, typed parameters,
// and body.
type FuncDecl struct {
	Name   symbol.Symbol
	Ret    ReturnType
	Params []Param
	Body   Block
}

// TypeDecl declares a named struct type with an insertion-ordered field
// list. Field names must be unique within the declaration.
type TypeDecl struct {
	Name   symbol.Symbol
	Fields []FieldDecl
}

func (GlobalDecl) isDecl() {}
func (FuncDecl) isDecl()   {}
func (TypeDecl) isDecl()   {}

// Program is an ordered list of declarations in source order.
type Program []Decl
