package x86ir

import (
	"strings"
	"testing"
)

func TestInstructionStringUsesATTOperandOrder(t *testing.T) {
	i := Ins2(Movq, Imm{Val: ImmInt{Val: 1}}, Reg{R: RAX})
	if got, want := i.String(), "\tmovq\t$1, %rax"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestReg8NamesLowByteOfRaxAndRcx(t *testing.T) {
	if got := (Reg8{R: RAX}).String(); got != "%al" {
		t.Fatalf("expected %%al for Reg8{RAX}, got %q", got)
	}
	if got := (Reg8{R: RCX}).String(); got != "%cl" {
		t.Fatalf("expected %%cl for Reg8{RCX}, got %q", got)
	}
}

func TestSetccBuildsSetByteMnemonic(t *testing.T) {
	i := Ins1(Setcc(Lt), Reg8{R: RAX})
	if got, want := i.String(), "\tsetl\t%al"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestProgramStringGroupsAllDataBeforeAllText(t *testing.T) {
	p := &Program{}
	p.AddText("f", true, []Instruction{Ins0(Retq)})
	p.AddData("msg", false, []Data{Asciz{Val: "hi"}})

	out := p.String()
	dataIdx := strings.Index(out, ".data")
	textIdx := strings.Index(out, ".text")
	if dataIdx == -1 || textIdx == -1 || dataIdx > textIdx {
		t.Fatalf("expected a .data section before a .text section, got:\n%s", out)
	}
	if strings.Index(out, "msg:") > textIdx {
		t.Fatalf("expected msg's AsmBlock to land in the .data section, got:\n%s", out)
	}
	if strings.Index(out, "f:") < textIdx {
		t.Fatalf("expected f's AsmBlock to land in the .text section, got:\n%s", out)
	}
}

func TestQuadRendersLabelReferenceWithoutDollarSign(t *testing.T) {
	d := Quad{Val: ImmLabel{Name: "other"}}
	if got, want := d.String(), "\t.quad\tother"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
