package check

import "oatc/src/ast"

// wellformed.go: a type is well-formed iff its structural
// descendants resolve. Struct references carry a seen-set so that
// recursive/mutually-recursive structs do not recurse forever.

// WellFormed reports whether t is well-formed under tc.
func WellFormed(tc *TypingContext, t ast.Type) bool {
	return wellFormed(tc, t, map[interface{}]bool{})
}

func wellFormed(tc *TypingContext, t ast.Type, seen map[interface{}]bool) bool {
	switch t := t.(type) {
	case ast.BoolType, ast.IntType:
		return true
	case ast.RefT:
		return wellFormedR(tc, t.R, seen)
	case ast.NullRefT:
		return wellFormedR(tc, t.R, seen)
	}
	return false
}

func wellFormedR(tc *TypingContext, r ast.RType, seen map[interface{}]bool) bool {
	switch r := r.(type) {
	case ast.StringT:
		return true
	case ast.StructT:
		if seen[r.Name] {
			// Already descending into this struct: recursion is fine so
			// long as it bottoms out through a pointer, which it always
			// does here (Ref/NullRef is the only way to reach a struct).
			return true
		}
		fields, ok := tc.Fields(r.Name)
		if !ok {
			return false
		}
		seen[r.Name] = true
		for _, f := range fields {
			if !wellFormed(tc, f.Type, seen) {
				return false
			}
		}
		return true
	case ast.ArrayT:
		return wellFormed(tc, r.Elem, seen)
	case ast.FuncT:
		for _, a := range r.Args {
			if !wellFormed(tc, a, seen) {
				return false
			}
		}
		return wellFormedReturn(tc, r.Ret, seen)
	}
	return false
}

func wellFormedReturn(tc *TypingContext, rt ast.ReturnType, seen map[interface{}]bool) bool {
	switch rt := rt.(type) {
	case ast.VoidReturn:
		return true
	case ast.ValueReturn:
		return wellFormed(tc, rt.T, seen)
	}
	return false
}
