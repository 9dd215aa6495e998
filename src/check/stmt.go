package check

import "oatc/src/ast"

// stmt.go implements statement typing and the "returns" flag used to
// enforce that every control-flow path through a function body reaches a
// return.

// CheckStmt type-checks s, opening/closing scopes as needed, and reports
// whether every path through s returns.
func CheckStmt(tc *TypingContext, lc *LocalsContext, retTy ast.ReturnType, s ast.Stmt) (bool, error) {
	switch s := s.(type) {
	case ast.AssignStmt:
		lt, err := TypeOf(tc, lc, s.LHS)
		if err != nil {
			return false, err
		}
		if isFuncType(lt) {
			return false, errKind(CannotAssignFunction, "")
		}
		rt, err := TypeOf(tc, lc, s.RHS)
		if err != nil {
			return false, err
		}
		if !Subtype(tc, rt, lt) {
			return false, errKind(IncompatibleType, "assignment type mismatch")
		}
		return false, nil

	case ast.DeclStmt:
		t, err := TypeOf(tc, lc, s.Init)
		if err != nil {
			return false, err
		}
		lc.Set(s.Name, t)
		return false, nil

	case ast.CallStmt:
		_, _, err := typeCall(tc, lc, s.Call)
		return false, err

	case ast.IfStmt:
		ct, err := TypeOf(tc, lc, s.Cond)
		if err != nil {
			return false, err
		}
		if !isBool(ct) {
			return false, errKind(IncompatibleType, "if condition must be bool")
		}
		thenReturns, err := checkBlock(tc, lc, retTy, s.Then)
		if err != nil {
			return false, err
		}
		if s.Else == nil {
			return false, nil
		}
		elseReturns, err := checkBlock(tc, lc, retTy, s.Else)
		if err != nil {
			return false, err
		}
		return thenReturns && elseReturns, nil

	case ast.IfNullCastStmt:
		srcTy, err := TypeOf(tc, lc, s.Src)
		if err != nil {
			return false, err
		}
		srcRef, ok := srcTy.(ast.NullRefT)
		if !ok {
			return false, errKind(IncompatibleType, "if? source must be a nullable reference")
		}
		if !subtypeR(tc, srcRef.R, s.R) {
			return false, errKind(IncompatibleType, "if? source does not narrow to the declared reference type")
		}
		lc.Push()
		lc.Set(s.Name, ast.RefT{R: s.R})
		thenReturns, err := checkBlockNoScope(tc, lc, retTy, s.Then)
		lc.Pop()
		if err != nil {
			return false, err
		}
		if s.Else == nil {
			return false, nil
		}
		elseReturns, err := checkBlock(tc, lc, retTy, s.Else)
		if err != nil {
			return false, err
		}
		return thenReturns && elseReturns, nil

	case ast.ForStmt:
		lc.Push()
		defer lc.Pop()
		for _, init := range s.Init {
			if _, err := CheckStmt(tc, lc, retTy, init); err != nil {
				return false, err
			}
		}
		if s.Cond != nil {
			ct, err := TypeOf(tc, lc, s.Cond)
			if err != nil {
				return false, err
			}
			if !isBool(ct) {
				return false, errKind(IncompatibleType, "for condition must be bool")
			}
		}
		if s.Update != nil {
			if _, err := CheckStmt(tc, lc, retTy, s.Update); err != nil {
				return false, err
			}
		}
		bodyReturns, err := checkBlock(tc, lc, retTy, s.Body)
		if err != nil {
			return false, err
		}
		// The body's returns flag only counts when the loop is certain to
		// enter it: no condition, or a condition that is literally true.
		if s.Cond == nil {
			return bodyReturns, nil
		}
		if b, ok := s.Cond.(ast.BoolLit); ok && b.Val {
			return bodyReturns, nil
		}
		return false, nil

	case ast.WhileStmt:
		ct, err := TypeOf(tc, lc, s.Cond)
		if err != nil {
			return false, err
		}
		if !isBool(ct) {
			return false, errKind(IncompatibleType, "while condition must be bool")
		}
		if _, err := checkBlock(tc, lc, retTy, s.Body); err != nil {
			return false, err
		}
		return false, nil

	case ast.ReturnStmt:
		switch rt := retTy.(type) {
		case ast.VoidReturn:
			if s.Value != nil {
				return false, errKind(ReturnValueProvidedInVoidFunction, "")
			}
			return true, nil
		case ast.ValueReturn:
			if s.Value == nil {
				return false, errKind(ReturnValueMissing, "")
			}
			vt, err := TypeOf(tc, lc, s.Value)
			if err != nil {
				return false, err
			}
			if !Subtype(tc, vt, rt.T) {
				return false, errKind(IncompatibleType, "return value type mismatch")
			}
			return true, nil
		}
	}
	return false, errKind(IncompatibleType, "unrecognized statement form")
}

// checkBlock opens a fresh scope, type-checks every statement in order,
// and reports whether the block always returns. A statement that is not
// the last one in the block but is found to return makes every statement
// after it dead code.
func checkBlock(tc *TypingContext, lc *LocalsContext, retTy ast.ReturnType, b ast.Block) (bool, error) {
	lc.Push()
	defer lc.Pop()
	return checkBlockNoScope(tc, lc, retTy, b)
}

// checkBlockNoScope is checkBlock without opening its own scope, for
// callers (like if?) that need the binding introduced by their own
// construct to be visible inside the block.
func checkBlockNoScope(tc *TypingContext, lc *LocalsContext, retTy ast.ReturnType, b ast.Block) (bool, error) {
	returned := false
	for _, s := range b {
		if returned {
			return false, errKind(DeadCodeAfterReturn, "")
		}
		r, err := CheckStmt(tc, lc, retTy, s)
		if err != nil {
			return false, err
		}
		if r {
			returned = true
		}
	}
	return returned, nil
}

func isFuncType(t ast.Type) bool {
	ref, ok := t.(ast.RefT)
	if !ok {
		return false
	}
	_, ok = ref.R.(ast.FuncT)
	return ok
}
