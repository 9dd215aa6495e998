package fold

import (
	"testing"

	"oatc/src/ast"
	"oatc/src/frontend"
	"oatc/src/symbol"
)

func foldSource(t *testing.T, src string) ast.Program {
	t.Helper()
	sess := symbol.NewSession()
	prog, err := frontend.Parse(src, sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	return Program(prog, 1)
}

func TestFoldIntegerArithmetic(t *testing.T) {
	prog := foldSource(t, "int f() { return 2 + 3 * 4; }\n")
	fn := prog[0].(ast.FuncDecl)
	ret := fn.Body[0].(ast.ReturnStmt)
	lit, ok := ret.Value.(ast.IntLit)
	if !ok || lit.Val != 14 {
		t.Fatalf("expected 2+3*4 to fold to 14, got %#v", ret.Value)
	}
}

func TestFoldComparisonToBool(t *testing.T) {
	prog := foldSource(t, "bool f() { return 1 < 2; }\n")
	fn := prog[0].(ast.FuncDecl)
	ret := fn.Body[0].(ast.ReturnStmt)
	lit, ok := ret.Value.(ast.BoolLit)
	if !ok || !lit.Val {
		t.Fatalf("expected 1<2 to fold to true, got %#v", ret.Value)
	}
}

func TestFoldIfTrueReducesToThenBranch(t *testing.T) {
	prog := foldSource(t, `
int f() {
  if (true) { return 1; } else { return 2; }
}
`)
	fn := prog[0].(ast.FuncDecl)
	if len(fn.Body) != 1 {
		t.Fatalf("expected the if to reduce to one statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected the then branch's return, got %#v", fn.Body[0])
	}
	if lit, ok := ret.Value.(ast.IntLit); !ok || lit.Val != 1 {
		t.Fatalf("expected return 1, got %#v", ret.Value)
	}
}

func TestFoldIfKeptWhenBranchDeclares(t *testing.T) {
	prog := foldSource(t, `
void f() {
  var x = 1;
  if (true) { var x = 2; g(x); }
  g(x);
}
void g(int n) { }
`)
	fn := prog[0].(ast.FuncDecl)
	// Splicing the branch would leak its `var x` into the outer scope
	// and change what the trailing g(x) sees, so the if must survive.
	if _, ok := fn.Body[1].(ast.IfStmt); !ok {
		t.Fatalf("expected the if to be kept, got %#v", fn.Body[1])
	}
}

func TestFoldWhileFalseRemoved(t *testing.T) {
	prog := foldSource(t, `
int f() {
  while (false) { g(); }
  return 0;
}
void g() { }
`)
	fn := prog[0].(ast.FuncDecl)
	if len(fn.Body) != 1 {
		t.Fatalf("expected while(false) to disappear, got %d statements", len(fn.Body))
	}
	if _, ok := fn.Body[0].(ast.ReturnStmt); !ok {
		t.Fatalf("expected only the return to remain, got %#v", fn.Body[0])
	}
}

func TestFoldNeverTouchesCalls(t *testing.T) {
	prog := foldSource(t, "int f() { return g(1 + 1); }\nint g(int n) { return n; }\n")
	fn := prog[0].(ast.FuncDecl)
	ret := fn.Body[0].(ast.ReturnStmt)
	call, ok := ret.Value.(ast.CallExpr)
	if !ok {
		t.Fatalf("expected the call to survive folding, got %#v", ret.Value)
	}
	if lit, ok := call.Args[0].(ast.IntLit); !ok || lit.Val != 2 {
		t.Fatalf("expected the call's argument to fold to 2, got %#v", call.Args[0])
	}
}
