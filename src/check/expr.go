package check

import (
	"oatc/src/ast"
	"oatc/src/symbol"
)

// expr.go implements expression typing.

// TypeOf infers the type of expression e under locals lc and typing
// context tc, or returns one of the Kind errors defined in errors.go.
func TypeOf(tc *TypingContext, lc *LocalsContext, e ast.Expr) (ast.Type, error) {
	switch e := e.(type) {
	case ast.NullLit:
		return ast.NullRefT{R: e.R}, nil
	case ast.BoolLit:
		return ast.BoolType{}, nil
	case ast.IntLit:
		return ast.IntType{}, nil
	case ast.StringLit:
		return ast.RefT{R: ast.StringT{}}, nil
	case ast.IdentExpr:
		t, ok := lc.Lookup(e.Name)
		if !ok {
			return nil, errName(UndefinedVariable, e.Name, "")
		}
		return t, nil
	case ast.LengthExpr:
		at, err := TypeOf(tc, lc, e.Arr)
		if err != nil {
			return nil, err
		}
		if !isArrayRef(at) {
			return nil, errKind(CannotGetLength, "operand is not an array reference")
		}
		return ast.IntType{}, nil
	case ast.IndexExpr:
		at, err := TypeOf(tc, lc, e.Arr)
		if err != nil {
			return nil, err
		}
		elem, ok := arrayElemType(at)
		if !ok {
			return nil, errKind(CannotSubscript, "operand is not an array reference")
		}
		it, err := TypeOf(tc, lc, e.Index)
		if err != nil {
			return nil, err
		}
		if _, ok := it.(ast.IntType); !ok {
			return nil, errKind(NonIntegerIndex, "")
		}
		return elem, nil
	case ast.StructLit:
		fields, ok := tc.Fields(e.Name)
		if !ok {
			return nil, errName(StructNotFound, e.Name, "")
		}
		seen := map[interface{}]bool{}
		given := map[interface{}]ast.Expr{}
		for _, fi := range e.Fields {
			if seen[fi.Name] {
				return nil, errName(DuplicateField, fi.Name, "in struct literal")
			}
			seen[fi.Name] = true
			given[fi.Name] = fi.Value
		}
		for _, f := range fields {
			ve, ok := given[f.Name]
			if !ok {
				return nil, errName(MissingField, f.Name, "in struct literal for "+e.Name.String())
			}
			vt, err := TypeOf(tc, lc, ve)
			if err != nil {
				return nil, err
			}
			if !Subtype(tc, vt, f.Type) {
				return nil, errName(IncompatibleType, f.Name, "field initializer type mismatch")
			}
		}
		return ast.RefT{R: ast.StructT{Name: e.Name}}, nil
	case ast.ProjExpr:
		bt, err := TypeOf(tc, lc, e.Base)
		if err != nil {
			return nil, err
		}
		structName, ok := structRefName(bt)
		if !ok {
			return nil, errKind(FieldNotFound, "projection base is not a struct reference")
		}
		ft, ok := tc.FieldType(structName, e.Field)
		if !ok {
			return nil, errName(FieldNotFound, e.Field, "")
		}
		return ft, nil
	case ast.CallExpr:
		t, isVoid, err := typeCall(tc, lc, e)
		if err != nil {
			return nil, err
		}
		if isVoid {
			return nil, errKind(VoidExpression, "a void-returning call cannot be used as a value")
		}
		return t, nil
	case ast.BinExpr:
		return typeBin(tc, lc, e)
	case ast.UnExpr:
		return typeUn(tc, lc, e)
	case ast.ArrayCtor:
		for _, el := range e.Elems {
			et, err := TypeOf(tc, lc, el)
			if err != nil {
				return nil, err
			}
			if !Subtype(tc, et, e.Elem) {
				return nil, errKind(IncompatibleArrayElement, "")
			}
		}
		return ast.RefT{R: ast.ArrayT{Elem: e.Elem}}, nil
	case ast.NewArray:
		nt, err := TypeOf(tc, lc, e.Len)
		if err != nil {
			return nil, err
		}
		if _, ok := nt.(ast.IntType); !ok {
			return nil, errKind(ArrayLength, "array length must be an int")
		}
		return ast.RefT{R: ast.ArrayT{Elem: e.Elem}}, nil
	}
	return nil, errKind(IncompatibleType, "unrecognized expression form")
}

// typeCall types a call expression, returning the unwrapped return value
// type and whether the callee's declared return is Void (the void flag is
// used by void-call statement typing and by the VoidExpression check here).
func typeCall(tc *TypingContext, lc *LocalsContext, e ast.CallExpr) (ast.Type, bool, error) {
	ct, err := TypeOf(tc, lc, e.Callee)
	if err != nil {
		return nil, false, err
	}
	ref, ok := ct.(ast.RefT)
	if !ok {
		return nil, false, errKind(CanOnlyCallFunctions, "")
	}
	fn, ok := ref.R.(ast.FuncT)
	if !ok {
		return nil, false, errKind(CanOnlyCallFunctions, "")
	}
	if len(fn.Args) != len(e.Args) {
		return nil, false, &Error{Kind: IncompatibleFunctionArgCounts, Expected: len(fn.Args), Given: len(e.Args)}
	}
	for i, a := range e.Args {
		at, err := TypeOf(tc, lc, a)
		if err != nil {
			return nil, false, err
		}
		if !Subtype(tc, at, fn.Args[i]) {
			return nil, false, errKind(IncompatibleType, "call argument type mismatch")
		}
	}
	switch r := fn.Ret.(type) {
	case ast.VoidReturn:
		return nil, true, nil
	case ast.ValueReturn:
		return r.T, false, nil
	}
	return nil, false, errKind(IncompatibleType, "malformed function return type")
}

func typeBin(tc *TypingContext, lc *LocalsContext, e ast.BinExpr) (ast.Type, error) {
	lt, err := TypeOf(tc, lc, e.L)
	if err != nil {
		return nil, err
	}
	rt, err := TypeOf(tc, lc, e.R)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.BinAdd, ast.BinSub, ast.BinMul, ast.BinShl, ast.BinShr, ast.BinBitAnd, ast.BinBitOr:
		if !isInt(lt) || !isInt(rt) {
			return nil, errKind(IncompatibleType, "arithmetic/bitwise operator requires int operands")
		}
		return ast.IntType{}, nil
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if !isInt(lt) || !isInt(rt) {
			return nil, errKind(IncompatibleType, "ordering operator requires int operands")
		}
		return ast.BoolType{}, nil
	case ast.BinAnd, ast.BinOr:
		if !isBool(lt) || !isBool(rt) {
			return nil, errKind(IncompatibleType, "boolean operator requires bool operands")
		}
		return ast.BoolType{}, nil
	case ast.BinEq, ast.BinNeq:
		if !TypeEqual(tc, lt, rt) {
			return nil, errKind(IncompatibleType, "== / != requires operands of equal type")
		}
		return ast.BoolType{}, nil
	}
	return nil, errKind(IncompatibleType, "unrecognized binary operator")
}

func typeUn(tc *TypingContext, lc *LocalsContext, e ast.UnExpr) (ast.Type, error) {
	t, err := TypeOf(tc, lc, e.E)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.UnNeg, ast.UnBitNot:
		if !isInt(t) {
			return nil, errKind(IncompatibleType, "unary operator requires an int operand")
		}
		return ast.IntType{}, nil
	case ast.UnNot:
		if !isBool(t) {
			return nil, errKind(IncompatibleType, "'!' requires a bool operand")
		}
		return ast.BoolType{}, nil
	}
	return nil, errKind(IncompatibleType, "unrecognized unary operator")
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

func isInt(t ast.Type) bool {
	_, ok := t.(ast.IntType)
	return ok
}

func isBool(t ast.Type) bool {
	_, ok := t.(ast.BoolType)
	return ok
}

func isArrayRef(t ast.Type) bool {
	_, ok := arrayElemType(t)
	return ok
}

func arrayElemType(t ast.Type) (ast.Type, bool) {
	ref, ok := t.(ast.RefT)
	if !ok {
		return nil, false
	}
	arr, ok := ref.R.(ast.ArrayT)
	if !ok {
		return nil, false
	}
	return arr.Elem, true
}

func structRefName(t ast.Type) (symbol.Symbol, bool) {
	ref, ok := t.(ast.RefT)
	if !ok {
		return symbol.Symbol{}, false
	}
	st, ok := ref.R.(ast.StructT)
	if !ok {
		return symbol.Symbol{}, false
	}
	return st.Name, true
}
