package check

import (
	"oatc/src/ast"
	"oatc/src/symbol"
)

// subtype.go implements a reflexive, structural subtyping relation
// over surface types, reference types, and return types.

// Subtype reports whether t1 <= t2.
func Subtype(tc *TypingContext, t1, t2 ast.Type) bool {
	switch a := t1.(type) {
	case ast.BoolType:
		_, ok := t2.(ast.BoolType)
		return ok
	case ast.IntType:
		_, ok := t2.(ast.IntType)
		return ok
	case ast.RefT:
		switch b := t2.(type) {
		case ast.RefT:
			return subtypeR(tc, a.R, b.R)
		case ast.NullRefT:
			return subtypeR(tc, a.R, b.R)
		}
		return false
	case ast.NullRefT:
		b, ok := t2.(ast.NullRefT)
		if !ok {
			return false
		}
		return subtypeR(tc, a.R, b.R)
	}
	return false
}

// subtypeR implements R1 <=_R R2.
func subtypeR(tc *TypingContext, r1, r2 ast.RType) bool {
	switch a := r1.(type) {
	case ast.StringT:
		_, ok := r2.(ast.StringT)
		return ok
	case ast.ArrayT:
		b, ok := r2.(ast.ArrayT)
		if !ok {
			return false
		}
		// Arrays are invariant: equality only.
		return TypeEqual(tc, a.Elem, b.Elem)
	case ast.StructT:
		b, ok := r2.(ast.StructT)
		if !ok {
			return false
		}
		if a.Name == b.Name {
			return true
		}
		return structSubtype(tc, a.Name, b.Name)
	case ast.FuncT:
		b, ok := r2.(ast.FuncT)
		if !ok {
			return false
		}
		if len(a.Args) != len(b.Args) {
			return false
		}
		// Arguments are contravariant: A2j <= A1j.
		for i := range a.Args {
			if !Subtype(tc, b.Args[i], a.Args[i]) {
				return false
			}
		}
		return returnSubtype(tc, a.Ret, b.Ret)
	}
	return false
}

// structSubtype implements width-with-ordered-prefix-depth subtyping:
// struct s1 <=_R struct s2 iff s1 has at least as many fields as s2, and for
// every prefix position i < |fields(s2)| the field names match and
// fields(s1)[i].Type <= fields(s2)[i].Type.
func structSubtype(tc *TypingContext, s1, s2 symbol.Symbol) bool {
	f1, ok := tc.Fields(s1)
	if !ok {
		return false
	}
	f2, ok := tc.Fields(s2)
	if !ok {
		return false
	}
	if len(f1) < len(f2) {
		return false
	}
	for i := range f2 {
		if f1[i].Name != f2[i].Name {
			return false
		}
		if !Subtype(tc, f1[i].Type, f2[i].Type) {
			return false
		}
	}
	return true
}

func returnSubtype(tc *TypingContext, r1, r2 ast.ReturnType) bool {
	switch a := r1.(type) {
	case ast.VoidReturn:
		_, ok := r2.(ast.VoidReturn)
		return ok
	case ast.ValueReturn:
		b, ok := r2.(ast.ValueReturn)
		if !ok {
			return false
		}
		return Subtype(tc, a.T, b.T)
	}
	return false
}

// TypeEqual reports structural equality: t1 <= t2 and t2 <= t1, except for
// Array's base case which this relation uses directly (subtypeR already
// routes array element comparison through TypeEqual, so this stays a plain
// mutual-subtype check without recursing through Array again).
func TypeEqual(tc *TypingContext, t1, t2 ast.Type) bool {
	return Subtype(tc, t1, t2) && Subtype(tc, t2, t1)
}
