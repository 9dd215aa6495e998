package llvmlite

import (
	"fmt"
	"strings"
)

// program.go holds the top-level containers: global initializers, function
// declarations, and the Program that bundles every named type, global,
// function, and external declaration in a compilation unit.

// GlobalInitializer is a constant value legal in global-variable position:
// more restricted than a general Operand, since globals have no
// instruction stream to compute them in.
type GlobalInitializer interface {
	isGlobalInitializer()
	String() string
}

// NullInit initializes a global to the null pointer.
type NullInit struct{}

// GidInit initializes a global to the address of another global.
type GidInit struct {
	Name Gid
}

// IntInit initializes a global to a 64-bit integer constant.
type IntInit struct {
	Val int64
}

// StringInit initializes a global string's backing byte array.
type StringInit struct {
	Val string
}

// TypedInit pairs a Type with a GlobalInitializer, used inside Array/Struct
// initializers where element types can differ from the enclosing array's
// declared element type (e.g. struct fields).
type TypedInit struct {
	T    Type
	Init GlobalInitializer
}

// ArrayInit initializes a global array element by element.
type ArrayInit struct {
	Elems []TypedInit
}

// StructInit initializes a global struct field by field, in declaration
// order.
type StructInit struct {
	Fields []TypedInit
}

// BitcastInit reinterprets another GlobalInitializer as a different
// pointer type; lowering uses it to present a string literal's byte-array
// global as an i8* global initializer.
type BitcastInit struct {
	From Type
	Val  GlobalInitializer
	To   Type
}

func (NullInit) isGlobalInitializer()    {}
func (GidInit) isGlobalInitializer()     {}
func (IntInit) isGlobalInitializer()     {}
func (StringInit) isGlobalInitializer()  {}
func (ArrayInit) isGlobalInitializer()   {}
func (StructInit) isGlobalInitializer()  {}
func (BitcastInit) isGlobalInitializer() {}

func (NullInit) String() string   { return "null" }
func (g GidInit) String() string  { return "@" + string(g.Name) }
func (g IntInit) String() string  { return fmt.Sprintf("%d", g.Val) }
func (g StringInit) String() string {
	return fmt.Sprintf("%q", g.Val)
}
func (g ArrayInit) String() string {
	parts := make([]string, len(g.Elems))
	for i, e := range g.Elems {
		parts[i] = fmt.Sprintf("%s %s", e.T.String(), e.Init.String())
	}
	return "[ " + strings.Join(parts, ", ") + " ]"
}
func (g StructInit) String() string {
	parts := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		parts[i] = fmt.Sprintf("%s %s", f.T.String(), f.Init.String())
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
func (g BitcastInit) String() string {
	return fmt.Sprintf("bitcast %s %s to %s", g.From.String(), g.Val.String(), g.To.String())
}

// GlobalDeclaration is one top-level value definition: its type and its
// constant initializer.
type GlobalDeclaration struct {
	T    Type
	Init GlobalInitializer
}

// FunctionDecl is a defined function: its signature, its parameters' Uids
// (bound on entry to the values passed by the caller), and its body.
type FunctionDecl struct {
	Sig    FunctionType
	Params []Uid
	CFG    CFG
}

// Program is a complete LLVMLite compilation unit, ready for the backend.
// Types, Globals, Functions and Externals are all insertion-ordered so
// that repeated compiles of the same Oat program emit byte-identical
// assembly, carrying source declaration order through to the final x86
// text.
type Program struct {
	TypeOrder []Tid
	Types     map[Tid]Type

	GlobalOrder []Gid
	Globals     map[Gid]GlobalDeclaration

	FunctionOrder []Gid
	Functions     map[Gid]FunctionDecl

	ExternOrder []Gid
	Externals   map[Gid]Type
}

// NewProgram returns an empty Program ready for incremental population by
// package lower.
func NewProgram() *Program {
	return &Program{
		Types:     make(map[Tid]Type),
		Globals:   make(map[Gid]GlobalDeclaration),
		Functions: make(map[Gid]FunctionDecl),
		Externals: make(map[Gid]Type),
	}
}

// AddType records a named struct type, preserving declaration order.
func (p *Program) AddType(name Tid, t Type) {
	if _, exists := p.Types[name]; !exists {
		p.TypeOrder = append(p.TypeOrder, name)
	}
	p.Types[name] = t
}

// AddGlobal records a global variable, preserving declaration order.
func (p *Program) AddGlobal(name Gid, g GlobalDeclaration) {
	if _, exists := p.Globals[name]; !exists {
		p.GlobalOrder = append(p.GlobalOrder, name)
	}
	p.Globals[name] = g
}

// AddFunction records a function definition, preserving declaration order.
func (p *Program) AddFunction(name Gid, f FunctionDecl) {
	if _, exists := p.Functions[name]; !exists {
		p.FunctionOrder = append(p.FunctionOrder, name)
	}
	p.Functions[name] = f
}

// AddExternal records an external function declaration (a runtime helper
// such as oat_alloc_array or print_string), preserving
// declaration order.
func (p *Program) AddExternal(name Gid, t Type) {
	if _, exists := p.Externals[name]; !exists {
		p.ExternOrder = append(p.ExternOrder, name)
	}
	p.Externals[name] = t
}

// String renders the whole Program as LLVMLite assembly text, in
// declaration order: types, then externals, then globals, then functions.
func (p *Program) String() string {
	sb := strings.Builder{}
	for _, name := range p.TypeOrder {
		sb.WriteString(fmt.Sprintf("%%%s = type %s\n", name, p.Types[name].String()))
	}
	for _, name := range p.ExternOrder {
		sb.WriteString(fmt.Sprintf("declare %s @%s\n", p.Externals[name].String(), name))
	}
	for _, name := range p.GlobalOrder {
		g := p.Globals[name]
		sb.WriteString(fmt.Sprintf("@%s = global %s %s\n", name, g.T.String(), g.Init.String()))
	}
	for _, name := range p.FunctionOrder {
		f := p.Functions[name]
		params := make([]string, len(f.Params))
		for i, u := range f.Params {
			params[i] = fmt.Sprintf("%s %%%s", f.Sig.ArgTypes[i].String(), u)
		}
		sb.WriteString(fmt.Sprintf("define %s @%s(%s) {\n", f.Sig.RetType.String(), name, strings.Join(params, ", ")))
		sb.WriteString(f.CFG.String())
		sb.WriteString("}\n")
	}
	return sb.String()
}
