// Package llvmlite defines the subset-of-LLVM intermediate representation
// that the lowering stage (package lower) translates Oat programs into, and
// that the backend stage (package backend) translates into x86 assembly.
//
// LLVMLite is pure data: a Program is a tree of types, operands,
// instructions and control-flow graphs with no attached behavior beyond
// debug printing. The lowering pass builds these structs directly in
// package lower rather than through a fluent builder, which keeps the
// data model identical to the one the backend consumes, with no
// builder-state invariants to satisfy on the read side.
package llvmlite

import (
	"fmt"
	"strings"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Tid names a named struct type.
type Tid string

// Gid names a global value: a global variable or a function.
type Gid string

// Uid names a local virtual register, bound by exactly one instruction.
type Uid string

// Label names a basic block within a function.
type Label string

// Type is an LLVMLite type.
type Type interface {
	isType()
	String() string
}

// Void is the empty return type.
type Void struct{}

// I1 is a one-bit boolean.
type I1 struct{}

// I8 is a one-byte integer, used for string bytes.
type I8 struct{}

// I64 is a 64-bit integer, used for Oat's Int and for every pointer-sized
// scalar.
type I64 struct{}

// Ptr is a pointer to a value of type Elem.
type Ptr struct {
	Elem Type
}

// StructTy is an anonymous or named-backed aggregate of fields in order.
type StructTy struct {
	Fields []Type
}

// ArrayTy is a fixed-length array of N elements of type Elem.
type ArrayTy struct {
	N    int
	Elem Type
}

// FunTy is a function's type signature as a first-class type (used for
// function pointer operands).
type FunTy struct {
	Args []Type
	Ret  Type
}

// NamedT references a named struct type declared in Program.Types.
type NamedT struct {
	Name Tid
}

func (Void) isType()     {}
func (I1) isType()       {}
func (I8) isType()       {}
func (I64) isType()      {}
func (Ptr) isType()      {}
func (StructTy) isType() {}
func (ArrayTy) isType()  {}
func (FunTy) isType()    {}
func (NamedT) isType()   {}

func (Void) String() string { return "void" }
func (I1) String() string   { return "i1" }
func (I8) String() string   { return "i8" }
func (I64) String() string  { return "i64" }
func (t Ptr) String() string {
	return t.Elem.String() + "*"
}
func (t StructTy) String() string {
	parts := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		parts[i] = f.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (t ArrayTy) String() string {
	return fmt.Sprintf("[%d x %s]", t.N, t.Elem.String())
}
func (t FunTy) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s (%s)*", t.Ret.String(), strings.Join(parts, ", "))
}
func (t NamedT) String() string { return "%" + string(t.Name) }

// FunctionType is the type signature of a defined function.
type FunctionType struct {
	ArgTypes []Type
	RetType  Type
}
