package frontend

import (
	"testing"

	"oatc/src/ast"
	"oatc/src/symbol"
)

func TestParseEmptyStructAndVoidFunction(t *testing.T) {
	sess := symbol.NewSession()
	prog, err := Parse("struct empty {}\nvoid f() { }\n", sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	if len(prog) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(prog))
	}
	td, ok := prog[0].(ast.TypeDecl)
	if !ok || len(td.Fields) != 0 {
		t.Fatalf("expected empty struct declaration, got %#v", prog[0])
	}
	fd, ok := prog[1].(ast.FuncDecl)
	if !ok {
		t.Fatalf("expected function declaration, got %#v", prog[1])
	}
	if _, ok := fd.Ret.(ast.VoidReturn); !ok {
		t.Fatalf("expected void return type, got %#v", fd.Ret)
	}
	if len(fd.Body) != 0 {
		t.Fatalf("expected empty body, got %d statements", len(fd.Body))
	}
}

func TestParseLeftAssociativeAddition(t *testing.T) {
	sess := symbol.NewSession()
	prog, err := Parse("int f() { return a+b+c; }\n", sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	fd := prog[0].(ast.FuncDecl)
	ret := fd.Body[0].(ast.ReturnStmt)
	outer, ok := ret.Value.(ast.BinExpr)
	if !ok || outer.Op != ast.BinAdd {
		t.Fatalf("expected outer BinAdd, got %#v", ret.Value)
	}
	inner, ok := outer.L.(ast.BinExpr)
	if !ok || inner.Op != ast.BinAdd {
		t.Fatalf("expected left-associative Bin(+, Bin(+, a, b), c), got %#v", outer)
	}
	if _, ok := outer.R.(ast.IdentExpr); !ok {
		t.Fatalf("expected identifier on the right, got %#v", outer.R)
	}
}

func TestParseMulBindsTighterThanAdd(t *testing.T) {
	sess := symbol.NewSession()
	prog, err := Parse("int f() { return a+b*c; }\n", sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	fd := prog[0].(ast.FuncDecl)
	ret := fd.Body[0].(ast.ReturnStmt)
	top, ok := ret.Value.(ast.BinExpr)
	if !ok || top.Op != ast.BinAdd {
		t.Fatalf("expected top-level Add, got %#v", ret.Value)
	}
	if _, ok := top.R.(ast.BinExpr); !ok {
		t.Fatalf("expected b*c nested on the right, got %#v", top.R)
	}
}

func TestParseDidNotConsumeAllInputReportsRemainingInput(t *testing.T) {
	sess := symbol.NewSession()
	_, err := Parse("void f() {} garbage", sess)
	if err == nil {
		t.Fatal("expected an error for trailing input")
	}
	if _, ok := err.(*RemainingInput); !ok {
		t.Fatalf("expected *RemainingInput, got %T: %s", err, err)
	}
}

func TestParseStructLiteralAndProjection(t *testing.T) {
	sess := symbol.NewSession()
	src := `struct point { int x; int y; }
int dist(point p) { return p.x + p.y; }
`
	prog, err := Parse(src, sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	fd := prog[1].(ast.FuncDecl)
	ret := fd.Body[0].(ast.ReturnStmt)
	bin := ret.Value.(ast.BinExpr)
	if _, ok := bin.L.(ast.ProjExpr); !ok {
		t.Fatalf("expected a projection on the left, got %#v", bin.L)
	}
}

func TestParseDidNotReturnScenario(t *testing.T) {
	sess := symbol.NewSession()
	src := `int f(int x) { if (x==0) { return 1; } }`
	prog, err := Parse(src, sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	fd := prog[0].(ast.FuncDecl)
	ifs := fd.Body[0].(ast.IfStmt)
	if ifs.Else != nil {
		t.Fatalf("expected no else branch")
	}
}
