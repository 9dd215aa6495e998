package llvmgen

import (
	"testing"

	"oatc/src/check"
	"oatc/src/frontend"
	"oatc/src/lower"
	"oatc/src/symbol"
)

func generateSource(t *testing.T, src string) {
	t.Helper()
	sess := symbol.NewSession()
	prog, err := frontend.Parse(src, sess)
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	if errs := check.Program(prog, 1); len(errs) > 0 {
		t.Fatalf("type check failed: %v", errs)
	}
	ll := lower.Lower(sess, prog)
	ctx, _, err := Generate(ll, t.Name())
	if err != nil {
		t.Fatalf("llvm translation failed: %s", err)
	}
	ctx.Dispose()
}

func TestGenerateVerifiesSimpleFunction(t *testing.T) {
	generateSource(t, "int main() { return 42; }\n")
}

func TestGenerateVerifiesControlFlow(t *testing.T) {
	generateSource(t, `
int count(int n) {
  var i = 0;
  while (i < n) {
    i := i + 1;
  }
  return i;
}
`)
}

func TestGenerateVerifiesStructsAndArrays(t *testing.T) {
	generateSource(t, `
struct point { int x; int y; }
int sum(point p, int[] xs) {
  return p.x + p.y + xs[0] + length(xs);
}
`)
}
