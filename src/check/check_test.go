package check

import (
	"testing"

	"oatc/src/ast"
	"oatc/src/symbol"
)

func TestSubtypeReflexiveForPrimitives(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		tc := NewTypingContext(nil)
		if !Subtype(tc, ast.BoolType{}, ast.BoolType{}) {
			t.Fatal("bool is not reflexively a subtype of itself")
		}
		if !Subtype(tc, ast.IntType{}, ast.IntType{}) {
			t.Fatal("int is not reflexively a subtype of itself")
		}
		if Subtype(tc, ast.IntType{}, ast.BoolType{}) {
			t.Fatal("int must not be a subtype of bool")
		}
		_ = sess
	})
}

func TestStructWidthAndDepthSubtyping(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		point := sess.Intern("point")
		point3d := sess.Intern("point3d")
		x := sess.Intern("x")
		y := sess.Intern("y")
		z := sess.Intern("z")

		prog := ast.Program{
			ast.TypeDecl{Name: point, Fields: []ast.FieldDecl{
				{Name: x, Type: ast.IntType{}},
				{Name: y, Type: ast.IntType{}},
			}},
			ast.TypeDecl{Name: point3d, Fields: []ast.FieldDecl{
				{Name: x, Type: ast.IntType{}},
				{Name: y, Type: ast.IntType{}},
				{Name: z, Type: ast.IntType{}},
			}},
		}
		tc := NewTypingContext(prog)

		p3 := ast.RefT{R: ast.StructT{Name: point3d}}
		p2 := ast.RefT{R: ast.StructT{Name: point}}
		if !Subtype(tc, p3, p2) {
			t.Fatal("point3d (more fields, matching prefix) should be a subtype of point")
		}
		if Subtype(tc, p2, p3) {
			t.Fatal("point must not be a subtype of point3d: it is missing a field")
		}
	})
}

func TestStructSubtypingIsTransitive(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		x := sess.Intern("x")
		y := sess.Intern("y")
		z := sess.Intern("z")
		p1 := sess.Intern("p1")
		p2 := sess.Intern("p2")
		p3 := sess.Intern("p3")

		prog := ast.Program{
			ast.TypeDecl{Name: p1, Fields: []ast.FieldDecl{
				{Name: x, Type: ast.IntType{}},
			}},
			ast.TypeDecl{Name: p2, Fields: []ast.FieldDecl{
				{Name: x, Type: ast.IntType{}},
				{Name: y, Type: ast.IntType{}},
			}},
			ast.TypeDecl{Name: p3, Fields: []ast.FieldDecl{
				{Name: x, Type: ast.IntType{}},
				{Name: y, Type: ast.IntType{}},
				{Name: z, Type: ast.BoolType{}},
			}},
		}
		tc := NewTypingContext(prog)

		a := ast.RefT{R: ast.StructT{Name: p3}}
		b := ast.RefT{R: ast.StructT{Name: p2}}
		c := ast.RefT{R: ast.StructT{Name: p1}}
		if !Subtype(tc, a, b) || !Subtype(tc, b, c) {
			t.Fatal("expected p3 <= p2 and p2 <= p1")
		}
		if !Subtype(tc, a, c) {
			t.Fatal("subtyping must be transitive: p3 <= p1")
		}
	})
}

func TestStructLiteralDuplicateFieldRejected(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		s := sess.Intern("s")
		f := sess.Intern("f")
		prog := ast.Program{
			ast.TypeDecl{Name: s, Fields: []ast.FieldDecl{
				{Name: f, Type: ast.IntType{}},
			}},
		}
		tc := NewTypingContext(prog)
		lc := NewLocalsContext()
		lit := ast.StructLit{Name: s, Fields: []ast.FieldInit{
			{Name: f, Value: ast.IntLit{Val: 1}},
			{Name: f, Value: ast.IntLit{Val: 2}},
		}}
		_, err := TypeOf(tc, lc, lit)
		ce, ok := err.(*Error)
		if !ok || ce.Kind != DuplicateField {
			t.Fatalf("expected DuplicateField for a repeated literal field, got %v", err)
		}
	})
}

func TestDuplicateFieldRejected(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		s := sess.Intern("s")
		f := sess.Intern("f")
		td := ast.TypeDecl{Name: s, Fields: []ast.FieldDecl{
			{Name: f, Type: ast.IntType{}},
			{Name: f, Type: ast.BoolType{}},
		}}
		err := checkStructDecl(td)
		if err == nil {
			t.Fatal("expected DuplicateField error")
		}
		ce, ok := err.(*Error)
		if !ok || ce.Kind != DuplicateField {
			t.Fatalf("expected DuplicateField, got %v", err)
		}
	})
}

func TestFunctionMustReturnOnEveryPath(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		f := sess.Intern("f")
		prog := ast.Program{
			ast.FuncDecl{
				Name: f,
				Ret:  ast.ValueReturn{T: ast.IntType{}},
				Body: ast.Block{},
			},
		}
		errs := Program(prog, 1)
		if len(errs) == 0 {
			t.Fatal("expected DidNotReturn for an empty body declared to return int")
		}
		found := false
		for _, e := range errs {
			if ce, ok := e.(*Error); ok && ce.Kind == DidNotReturn {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected a DidNotReturn error, got %v", errs)
		}
	})
}

func TestDeadCodeAfterReturnRejected(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		f := sess.Intern("f")
		x := sess.Intern("x")
		prog := ast.Program{
			ast.FuncDecl{
				Name: f,
				Ret:  ast.VoidReturn{},
				Body: ast.Block{
					ast.ReturnStmt{Value: nil},
					ast.DeclStmt{Name: x, Init: ast.IntLit{Val: 1}},
				},
			},
		}
		errs := Program(prog, 1)
		found := false
		for _, e := range errs {
			if ce, ok := e.(*Error); ok && ce.Kind == DeadCodeAfterReturn {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected DeadCodeAfterReturn, got %v", errs)
		}
	})
}

func TestIfNullCastSourceMustNarrowToDeclaredType(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		f := sess.Intern("f")
		a := sess.Intern("a")
		s := sess.Intern("s")
		mismatched := ast.Program{
			ast.FuncDecl{
				Name:   f,
				Ret:    ast.VoidReturn{},
				Params: []ast.Param{{Name: a, Type: ast.NullRefT{R: ast.ArrayT{Elem: ast.IntType{}}}}},
				Body: ast.Block{
					ast.IfNullCastStmt{R: ast.StringT{}, Name: s, Src: ast.IdentExpr{Name: a}, Then: ast.Block{}},
				},
			},
		}
		errs := Program(mismatched, 1)
		found := false
		for _, e := range errs {
			if ce, ok := e.(*Error); ok && ce.Kind == IncompatibleType {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected IncompatibleType for an if? whose source cannot narrow to the declared type, got %v", errs)
		}

		matching := ast.Program{
			ast.FuncDecl{
				Name:   f,
				Ret:    ast.VoidReturn{},
				Params: []ast.Param{{Name: a, Type: ast.NullRefT{R: ast.ArrayT{Elem: ast.IntType{}}}}},
				Body: ast.Block{
					ast.IfNullCastStmt{R: ast.ArrayT{Elem: ast.IntType{}}, Name: s, Src: ast.IdentExpr{Name: a}, Then: ast.Block{}},
				},
			},
		}
		if errs := Program(matching, 1); len(errs) != 0 {
			t.Fatalf("expected a matching if? narrowing to type-check, got %v", errs)
		}
	})
}

func TestGlobalInitializerMustBeConstantForm(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		f := sess.Intern("f")
		x := sess.Intern("x")
		prog := ast.Program{
			ast.FuncDecl{
				Name: f,
				Ret:  ast.ValueReturn{T: ast.IntType{}},
				Body: ast.Block{ast.ReturnStmt{Value: ast.IntLit{Val: 1}}},
			},
			ast.GlobalDecl{Name: x, Init: ast.CallExpr{Callee: ast.IdentExpr{Name: f}}},
		}
		errs := Program(prog, 1)
		found := false
		for _, e := range errs {
			if ce, ok := e.(*Error); ok && ce.Kind == IncompatibleType {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected IncompatibleType for a call-initialized global, got %v", errs)
		}
	})
}

func TestParallelProgramCheckMatchesSequential(t *testing.T) {
	symbol.WithSession(func(sess *symbol.Session) {
		var funcs ast.Program
		for i := 0; i < 8; i++ {
			name := sess.Intern(string(rune('a' + i)))
			funcs = append(funcs, ast.FuncDecl{
				Name: name,
				Ret:  ast.ValueReturn{T: ast.IntType{}},
				Body: ast.Block{ast.ReturnStmt{Value: ast.IntLit{Val: int64(i)}}},
			})
		}
		seqErrs := Program(funcs, 1)
		parErrs := Program(funcs, 4)
		if len(seqErrs) != 0 || len(parErrs) != 0 {
			t.Fatalf("expected no errors, got sequential=%v parallel=%v", seqErrs, parErrs)
		}
	})
}
