package backend

import (
	"oatc/src/llvmlite"
	"oatc/src/x86ir"
)

// layout.go: every uid that ever holds a value (a parameter, or the
// result of an Alloca or any other instruction) gets its own 8-byte stack
// slot, assigned in order of appearance. Slots are never reused or
// coalesced - this backend does no register allocation and no liveness
// analysis, trading stack space for simplicity.

const stackAlign = 16

// layoutFunction assigns every uid in fn a stack slot relative to %rbp, in
// appearance order (parameters first, then each block's instructions in
// CFG order, entry first). It returns the slot map, the set of uids
// produced by an Alloca instruction (whose operand value is the slot's
// address rather than its content, see instr.go), and tmpsize: the total
// frame size to reserve, rounded up to a 16-byte multiple so the prologue
// leaves %rsp 16-byte aligned for every subsequent callq.
func layoutFunction(types map[llvmlite.Tid]llvmlite.Type, fn llvmlite.FunctionDecl) (map[llvmlite.Uid]x86ir.Operand, map[llvmlite.Uid]bool, int) {
	slots := make(map[llvmlite.Uid]x86ir.Operand)
	allocas := make(map[llvmlite.Uid]bool)
	k := 0

	slot := func(u llvmlite.Uid) x86ir.Operand {
		k++
		disp := int64(-8 * k)
		op := x86ir.IndDispReg{Disp: x86ir.ImmInt{Val: disp}, Base: x86ir.RBP}
		slots[u] = op
		return op
	}

	for _, p := range fn.Params {
		slot(p)
	}

	assignBlock := func(b llvmlite.Block) {
		for _, e := range b.Instructions {
			slot(e.Uid)
			if _, ok := e.Inst.(llvmlite.Alloca); ok {
				allocas[e.Uid] = true
			}
		}
	}
	assignBlock(fn.CFG.Entry)
	for _, lbl := range fn.CFG.Order {
		assignBlock(fn.CFG.Blocks[lbl])
	}

	tmpsize := k * 8
	if rem := tmpsize % stackAlign; rem != 0 {
		tmpsize += stackAlign - rem
	}
	return slots, allocas, tmpsize
}
