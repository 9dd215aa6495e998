package backend

import (
	"strings"
	"testing"

	"oatc/src/check"
	"oatc/src/frontend"
	"oatc/src/lower"
	"oatc/src/symbol"
)

func generateSource(t *testing.T, src string, linux bool) string {
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
	return Generate(ll, linux).String()
}

func TestGenerateEmitsPrologueAndEpilogue(t *testing.T) {
	asm := generateSource(t, "int add(int a, int b) { return a + b; }\n", true)

	if !strings.Contains(asm, "pushq\t%rbp") {
		t.Fatalf("expected a pushq %%rbp prologue, got:\n%s", asm)
	}
	if !strings.Contains(asm, "movq\t%rsp, %rbp") {
		t.Fatalf("expected the frame pointer to be set up, got:\n%s", asm)
	}
	if !strings.Contains(asm, "popq\t%rbp") || !strings.Contains(asm, "retq") {
		t.Fatalf("expected a matching epilogue, got:\n%s", asm)
	}
}

func TestGenerateMachOLabelsGetUnderscorePrefix(t *testing.T) {
	asm := generateSource(t, "int f() { return 1; }\n", false)
	if !strings.Contains(asm, "_f:") {
		t.Fatalf("expected Mach-O style underscore-prefixed label _f, got:\n%s", asm)
	}
	if strings.Contains(asm, "\nf:\n") {
		t.Fatalf("did not expect an unmangled label on a Mach-O target:\n%s", asm)
	}
}

func TestGenerateLinuxLabelsAreUnmangled(t *testing.T) {
	asm := generateSource(t, "int f() { return 1; }\n", true)
	if !strings.Contains(asm, ".globl\tf\n") {
		t.Fatalf("expected an unmangled .globl directive for f, got:\n%s", asm)
	}
	if strings.Contains(asm, "_f:") {
		t.Fatalf("did not expect a Mach-O underscore prefix with linux labels set, got:\n%s", asm)
	}
}

func TestGenerateWhileLoopBranchesToOwnBlock(t *testing.T) {
	asm := generateSource(t, `
int count(int n) {
  var i = 0;
  while (i < n) {
    i := i + 1;
  }
  return i;
}
`, true)
	if !strings.Contains(asm, "jmp") {
		t.Fatalf("expected at least one jmp into the loop condition, got:\n%s", asm)
	}
	if !strings.Contains(asm, "cmpq") {
		t.Fatalf("expected the loop condition to compile to a cmpq, got:\n%s", asm)
	}
}

func TestGenerateGlobalStringEmitsAscizInDataSection(t *testing.T) {
	asm := generateSource(t, `var greeting = "hi";
void f() {}
`, true)
	dataIdx := strings.Index(asm, ".data")
	textIdx := strings.Index(asm, ".text")
	ascizIdx := strings.Index(asm, ".asciz")
	if dataIdx == -1 || textIdx == -1 || ascizIdx == -1 {
		t.Fatalf("expected both sections and an asciz item, got:\n%s", asm)
	}
	if !(dataIdx < ascizIdx && ascizIdx < textIdx) {
		t.Fatalf("expected the asciz item to fall inside .data, before .text, got:\n%s", asm)
	}
}

func TestGenerateStructProjectionUsesGepOffsets(t *testing.T) {
	asm := generateSource(t, `
struct point { int x; int y; }
int dist(point p) { return p.x + p.y; }
`, true)
	if !strings.Contains(asm, "addq") {
		t.Fatalf("expected the field sum to compile to an addq, got:\n%s", asm)
	}
	if !strings.Contains(asm, "addq\t$8, %rax") {
		t.Fatalf("expected projecting field y to add its 8-byte GEP offset to the base, got:\n%s", asm)
	}
}
