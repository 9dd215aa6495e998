package lower

import (
	"strings"
	"testing"

	"oatc/src/check"
	"oatc/src/frontend"
	"oatc/src/llvmlite"
	"oatc/src/symbol"
)

func lowerSource(t *testing.T, src string) *llvmlite.Program {
	t.Helper()
	sess := symbol.NewSession()
	prog, err := frontend.Parse(src, sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	if errs := check.Program(prog, 1); len(errs) > 0 {
		t.Fatalf("type check failed: %v", errs)
	}
	return Lower(sess, prog)
}

func TestLowerArithmeticFunction(t *testing.T) {
	ll := lowerSource(t, "int add(int a, int b) { return a + b; }\n")

	fn, ok := ll.Functions["add"]
	if !ok {
		t.Fatal("expected function @add in lowered program")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if _, ok := fn.Sig.RetType.(llvmlite.I64); !ok {
		t.Fatalf("expected int return type to lower to i64, got %#v", fn.Sig.RetType)
	}

	var foundAdd bool
	for _, e := range fn.CFG.Entry.Instructions {
		if b, ok := e.Inst.(llvmlite.Binop); ok && b.Op == llvmlite.Add {
			foundAdd = true
		}
	}
	if !foundAdd {
		t.Fatalf("expected an add Binop in entry block, got %#v", fn.CFG.Entry.Instructions)
	}
	if _, ok := fn.CFG.Entry.Terminator.Term.(llvmlite.Ret); !ok {
		t.Fatalf("expected entry block to end in ret, got %#v", fn.CFG.Entry.Terminator.Term)
	}
}

func TestLowerWhileLoopProducesBranchingBlocks(t *testing.T) {
	ll := lowerSource(t, `
int count(int n) {
  var i = 0;
  while (i < n) {
    i := i + 1;
  }
  return i;
}
`)
	fn := ll.Functions["count"]
	if len(fn.CFG.Order) == 0 {
		t.Fatal("expected a while loop to lower to more than just the entry block")
	}
	if _, ok := fn.CFG.Entry.Terminator.Term.(llvmlite.Br); !ok {
		t.Fatalf("expected entry block to fall through to the loop condition via an unconditional branch, got %#v", fn.CFG.Entry.Terminator.Term)
	}

	var sawCondBr bool
	for _, lbl := range fn.CFG.Order {
		if _, ok := fn.CFG.Blocks[lbl].Terminator.Term.(llvmlite.CondBr); ok {
			sawCondBr = true
		}
	}
	if !sawCondBr {
		t.Fatal("expected at least one conditional branch among the loop's blocks")
	}
}

func TestLowerArrayLengthUsesPointeeGepType(t *testing.T) {
	ll := lowerSource(t, `
int len(int[] a) {
  return length(a);
}
`)
	fn := ll.Functions["len"]
	var gep llvmlite.Gep
	var found bool
	for _, e := range fn.CFG.Entry.Instructions {
		if g, ok := e.Inst.(llvmlite.Gep); ok {
			gep, found = g, true
		}
	}
	if !found {
		t.Fatal("expected length() to lower through a Gep instruction")
	}
	if _, ok := gep.T.(llvmlite.I64); ok {
		t.Fatalf("Gep.T must be the pointee aggregate the indices walk, not the destination field type i64: %#v", gep.T)
	}
	if _, ok := gep.T.(llvmlite.StructTy); !ok {
		t.Fatalf("expected length()'s Gep to walk the array's struct representation, got %#v", gep.T)
	}
}

func TestLowerCFGIsClosedAndSSA(t *testing.T) {
	ll := lowerSource(t, `
struct point { int x; int y; }
int dist(point p) {
  var d = 0;
  if (p.x > p.y) {
    d := p.x - p.y;
  } else {
    d := p.y - p.x;
  }
  while (d > 10) {
    d := d - 10;
  }
  return d;
}
`)
	for name, fn := range ll.Functions {
		labels := map[llvmlite.Label]bool{}
		for _, lbl := range fn.CFG.Order {
			labels[lbl] = true
		}

		seen := map[llvmlite.Uid]bool{}
		define := func(u llvmlite.Uid) {
			if seen[u] {
				t.Fatalf("%s: uid %%%s defined twice", name, u)
			}
			seen[u] = true
		}
		for _, p := range fn.Params {
			define(p)
		}
		checkBlock := func(b llvmlite.Block) {
			for _, e := range b.Instructions {
				define(e.Uid)
			}
			switch term := b.Terminator.Term.(type) {
			case llvmlite.Br:
				if !labels[term.Dst] {
					t.Fatalf("%s: branch target %q is not a block in the CFG", name, term.Dst)
				}
			case llvmlite.CondBr:
				if !labels[term.Then] || !labels[term.Else] {
					t.Fatalf("%s: conditional branch targets %q/%q not both in the CFG", name, term.Then, term.Else)
				}
			}
		}
		checkBlock(fn.CFG.Entry)
		for _, lbl := range fn.CFG.Order {
			checkBlock(fn.CFG.Blocks[lbl])
		}
	}
}

func TestLowerPreservesDeclarationOrder(t *testing.T) {
	ll := lowerSource(t, `
var a = 1;
var b = 2;
int first() { return a; }
int second() { return b; }
`)
	wantGlobals := []llvmlite.Gid{"a", "b"}
	for i, g := range wantGlobals {
		if ll.GlobalOrder[i] != g {
			t.Fatalf("expected global %d to be @%s, got @%s", i, g, ll.GlobalOrder[i])
		}
	}
	wantFuncs := []llvmlite.Gid{"first", "second"}
	if len(ll.FunctionOrder) != len(wantFuncs) {
		t.Fatalf("expected %d functions, got %d", len(wantFuncs), len(ll.FunctionOrder))
	}
	for i, f := range wantFuncs {
		if ll.FunctionOrder[i] != f {
			t.Fatalf("expected function %d to be @%s, got @%s", i, f, ll.FunctionOrder[i])
		}
	}
}

func TestLowerGlobalStringInitializerBitcasts(t *testing.T) {
	ll := lowerSource(t, `var greeting = "hi";
void f() {}
`)
	g, ok := ll.Globals["greeting"]
	if !ok {
		t.Fatal("expected global @greeting")
	}
	bc, ok := g.Init.(llvmlite.BitcastInit)
	if !ok {
		t.Fatalf("expected a string global to initialize via a bitcast from its backing array, got %#v", g.Init)
	}
	if !strings.Contains(bc.String(), "bitcast") {
		t.Fatalf("unexpected bitcast rendering: %s", bc.String())
	}
}
