package backend

import (
	"fmt"

	"oatc/src/llvmlite"
	"oatc/src/x86ir"
)

// function.go builds the prologue/epilogue shape, translates the entry
// block inline after the prologue, and emits every other block as its own
// labeled AsmBlock: allocate the frame, spill incoming arguments to their
// slots, generate the body, deallocate the frame on every return.

// fnCtx holds one function's translation state: its slot assignments, the
// platform's label mangling, and the instruction buffer for the block
// currently being translated.
type fnCtx struct {
	types   map[llvmlite.Tid]llvmlite.Type
	slots   map[llvmlite.Uid]x86ir.Operand
	allocas map[llvmlite.Uid]bool
	linux   bool
	fnLabel x86ir.Label
	cur     []x86ir.Instruction
}

func (fc *fnCtx) emit(i x86ir.Instruction) { fc.cur = append(fc.cur, i) }

func (fc *fnCtx) mangle(name string) x86ir.Label { return mangleLabel(fc.linux, name) }

// translateFunction lowers one LLVMLite FunctionDecl to its x86 AsmBlocks:
// the entry block (carrying the prologue) first, then one AsmBlock per
// remaining CFG block in declaration order.
func translateFunction(types map[llvmlite.Tid]llvmlite.Type, linux bool, name llvmlite.Gid, fn llvmlite.FunctionDecl) []x86ir.AsmBlock {
	slots, allocas, tmpsize := layoutFunction(types, fn)
	fc := &fnCtx{types: types, slots: slots, allocas: allocas, linux: linux, fnLabel: mangleLabel(linux, string(name))}

	fc.emit(x86ir.Ins1(x86ir.Pushq, x86ir.Reg{R: x86ir.RBP}))
	fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: x86ir.RSP}, x86ir.Reg{R: x86ir.RBP}))
	if tmpsize > 0 {
		fc.emit(x86ir.Ins2(x86ir.Subq, x86ir.Imm{Val: x86ir.ImmInt{Val: int64(tmpsize)}}, x86ir.Reg{R: x86ir.RSP}))
	}
	for i, p := range fn.Params {
		if i < 6 {
			fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: x86ir.ArgRegisters[i]}, slots[p]))
			continue
		}
		disp := int64(16 + 8*(i-6))
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.IndDispReg{Disp: x86ir.ImmInt{Val: disp}, Base: x86ir.RBP}, x86ir.Reg{R: x86ir.RAX}))
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: x86ir.RAX}, slots[p]))
	}

	fc.translateBlock(fn.CFG.Entry)
	blocks := []x86ir.AsmBlock{{Label: fc.fnLabel, Global: true, Text: fc.cur}}

	for _, lbl := range fn.CFG.Order {
		fc.cur = nil
		fc.translateBlock(fn.CFG.Blocks[lbl])
		blocks = append(blocks, x86ir.AsmBlock{
			Label: x86ir.Label(fmt.Sprintf("%s.%s", fc.fnLabel, lbl)),
			Text:  fc.cur,
		})
	}
	return blocks
}

func (fc *fnCtx) translateBlock(b llvmlite.Block) {
	for _, e := range b.Instructions {
		fc.translateInst(e)
	}
	fc.translateTerm(b.Terminator.Term)
}

// translateTerm closes the current block with a return, jump, or
// conditional jump pair.
func (fc *fnCtx) translateTerm(term llvmlite.Terminator) {
	switch term := term.(type) {
	case llvmlite.Ret:
		if term.Val != nil {
			fc.loadOperand(term.Val, x86ir.RAX)
		}
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: x86ir.RBP}, x86ir.Reg{R: x86ir.RSP}))
		fc.emit(x86ir.Ins1(x86ir.Popq, x86ir.Reg{R: x86ir.RBP}))
		fc.emit(x86ir.Ins0(x86ir.Retq))
	case llvmlite.Br:
		fc.emit(x86ir.Ins1(x86ir.Jmp, x86ir.Imm{Val: x86ir.ImmLabel{Name: x86ir.Label(fmt.Sprintf("%s.%s", fc.fnLabel, term.Dst))}}))
	case llvmlite.CondBr:
		fc.loadOperand(term.Cond, x86ir.RAX)
		fc.emit(x86ir.Ins2(x86ir.Cmpq, x86ir.Imm{Val: x86ir.ImmInt{Val: 0}}, x86ir.Reg{R: x86ir.RAX}))
		fc.emit(x86ir.Ins1(x86ir.Jcc(x86ir.Neq), x86ir.Imm{Val: x86ir.ImmLabel{Name: x86ir.Label(fmt.Sprintf("%s.%s", fc.fnLabel, term.Then))}}))
		fc.emit(x86ir.Ins1(x86ir.Jmp, x86ir.Imm{Val: x86ir.ImmLabel{Name: x86ir.Label(fmt.Sprintf("%s.%s", fc.fnLabel, term.Else))}}))
	default:
		panic("backend: unrecognized terminator")
	}
}
