package lower

import (
	"oatc/src/ast"
	"oatc/src/check"
	"oatc/src/llvmlite"
)

// types.go translates surface types to LLVMLite types.

// TranslateType translates a surface Type to its LLVMLite representation.
func TranslateType(tc *check.TypingContext, t ast.Type) llvmlite.Type {
	switch t := t.(type) {
	case ast.BoolType:
		return llvmlite.I1{}
	case ast.IntType:
		return llvmlite.I64{}
	case ast.RefT:
		return llvmlite.Ptr{Elem: translateR(tc, t.R)}
	case ast.NullRefT:
		return llvmlite.Ptr{Elem: translateR(tc, t.R)}
	}
	panic("lower: unrecognized surface type")
}

// translateR translates the payload R of a Ref/NullRef surface type.
func translateR(tc *check.TypingContext, r ast.RType) llvmlite.Type {
	switch r := r.(type) {
	case ast.StringT:
		return llvmlite.I8{}
	case ast.StructT:
		return llvmlite.NamedT{Name: llvmlite.Tid(r.Name.String())}
	case ast.ArrayT:
		return arrayRepr(TranslateType(tc, r.Elem))
	case ast.FuncT:
		args := make([]llvmlite.Type, len(r.Args))
		for i, a := range r.Args {
			args[i] = TranslateType(tc, a)
		}
		return llvmlite.FunTy{Args: args, Ret: translateReturn(tc, r.Ret)}
	}
	panic("lower: unrecognized reference type")
}

// arrayRepr builds the length-prefixed representation `{ i64, [0 x T] }`
// that every Oat array lowers to: a length field followed by a flexible
// tail of elements.
func arrayRepr(elem llvmlite.Type) llvmlite.Type {
	return llvmlite.StructTy{Fields: []llvmlite.Type{llvmlite.I64{}, llvmlite.ArrayTy{N: 0, Elem: elem}}}
}

// translateReturn translates a surface ReturnType.
func translateReturn(tc *check.TypingContext, rt ast.ReturnType) llvmlite.Type {
	switch rt := rt.(type) {
	case ast.VoidReturn:
		return llvmlite.Void{}
	case ast.ValueReturn:
		return TranslateType(tc, rt.T)
	}
	panic("lower: unrecognized return type")
}
