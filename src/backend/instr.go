package backend

import (
	"fmt"

	"oatc/src/llvmlite"
	"oatc/src/x86ir"
)

// instr.go holds the fixed instruction-translation scheme. Every
// translation here materializes its operands into rax/rcx, the two
// reserved scratch registers, and writes its result straight back to the
// destination uid's stack slot - no value is ever held in a register
// across more than one x86 instruction.

// loadOperand emits the instructions needed to materialize op's value into
// reg. For a uid produced by Alloca, the uid's "value" is the address of
// its own slot (computed with leaq); for every other operand kind, it is
// the slot's stored content (movq).
func (fc *fnCtx) loadOperand(op llvmlite.Operand, reg x86ir.Register) {
	switch op := op.(type) {
	case llvmlite.NullOp:
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Imm{Val: x86ir.ImmInt{Val: 0}}, x86ir.Reg{R: reg}))
	case llvmlite.ConstOp:
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Imm{Val: x86ir.ImmInt{Val: op.Val}}, x86ir.Reg{R: reg}))
	case llvmlite.GidOp:
		fc.emit(x86ir.Ins2(x86ir.Leaq, x86ir.IndDisp{Disp: x86ir.ImmLabel{Name: fc.mangle(string(op.Name))}}, x86ir.Reg{R: reg}))
	case llvmlite.IdOp:
		slot := fc.slots[op.Name]
		if fc.allocas[op.Name] {
			fc.emit(x86ir.Ins2(x86ir.Leaq, slot, x86ir.Reg{R: reg}))
		} else {
			fc.emit(x86ir.Ins2(x86ir.Movq, slot, x86ir.Reg{R: reg}))
		}
	default:
		panic("backend: unrecognized LLVMLite operand")
	}
}

// storeResult writes reg's content into uid's slot, recording its computed
// value.
func (fc *fnCtx) storeResult(uid llvmlite.Uid, reg x86ir.Register) {
	fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: reg}, fc.slots[uid]))
}

// translateInst appends the x86 translation of one LLVMLite instruction.
// Alloca needs no code: its slot was reserved at layout time, and its value
// (the slot's address) is materialized lazily at each use site.
func (fc *fnCtx) translateInst(e llvmlite.InstructionEntry) {
	switch inst := e.Inst.(type) {
	case llvmlite.Alloca:
		return
	case llvmlite.Binop:
		fc.translateBinop(e.Uid, inst)
	case llvmlite.Icmp:
		fc.translateIcmp(e.Uid, inst)
	case llvmlite.Load:
		fc.loadOperand(inst.Src, x86ir.RAX)
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.IndReg{Base: x86ir.RAX}, x86ir.Reg{R: x86ir.RAX}))
		fc.storeResult(e.Uid, x86ir.RAX)
	case llvmlite.Store:
		fc.loadOperand(inst.Dst, x86ir.RAX)
		fc.loadOperand(inst.Src, x86ir.RCX)
		fc.emit(x86ir.Ins2(x86ir.Movq, x86ir.Reg{R: x86ir.RCX}, x86ir.IndReg{Base: x86ir.RAX}))
	case llvmlite.Bitcast:
		fc.loadOperand(inst.Val, x86ir.RAX)
		fc.storeResult(e.Uid, x86ir.RAX)
	case llvmlite.Call:
		fc.translateCall(e.Uid, inst)
	case llvmlite.Gep:
		fc.translateGep(e.Uid, inst)
	default:
		panic("backend: unrecognized LLVMLite instruction")
	}
}

func (fc *fnCtx) translateBinop(uid llvmlite.Uid, inst llvmlite.Binop) {
	fc.loadOperand(inst.Op1, x86ir.RAX)
	fc.loadOperand(inst.Op2, x86ir.RCX)
	switch inst.Op {
	case llvmlite.Add:
		fc.emit(x86ir.Ins2(x86ir.Addq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Sub:
		fc.emit(x86ir.Ins2(x86ir.Subq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Mul:
		fc.emit(x86ir.Ins2(x86ir.Imulq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.And:
		fc.emit(x86ir.Ins2(x86ir.Andq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Or:
		fc.emit(x86ir.Ins2(x86ir.Orq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Xor:
		fc.emit(x86ir.Ins2(x86ir.Xorq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Shl:
		fc.emit(x86ir.Ins2(x86ir.Shlq, x86ir.Reg8{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Ashr:
		fc.emit(x86ir.Ins2(x86ir.Sarq, x86ir.Reg8{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	case llvmlite.Lshr:
		fc.emit(x86ir.Ins2(x86ir.Shrq, x86ir.Reg8{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	default:
		panic("backend: unrecognized binary operator")
	}
	fc.storeResult(uid, x86ir.RAX)
}

func (fc *fnCtx) translateIcmp(uid llvmlite.Uid, inst llvmlite.Icmp) {
	fc.loadOperand(inst.Op1, x86ir.RAX)
	fc.loadOperand(inst.Op2, x86ir.RCX)
	fc.emit(x86ir.Ins2(x86ir.Cmpq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
	fc.emit(x86ir.Ins1(x86ir.Setcc(translateCond(inst.Cond)), x86ir.Reg8{R: x86ir.RAX}))
	fc.emit(x86ir.Ins2(x86ir.Andq, x86ir.Imm{Val: x86ir.ImmInt{Val: 1}}, x86ir.Reg{R: x86ir.RAX}))
	fc.storeResult(uid, x86ir.RAX)
}

func translateCond(c llvmlite.Condition) x86ir.Condition {
	switch c {
	case llvmlite.Eq:
		return x86ir.Eq
	case llvmlite.Ne:
		return x86ir.Neq
	case llvmlite.Slt:
		return x86ir.Lt
	case llvmlite.Sle:
		return x86ir.Le
	case llvmlite.Sge:
		return x86ir.Ge
	}
	panic("backend: unrecognized condition")
}

// translateCall places the first six arguments in rdi,rsi,rdx,rcx,r8,r9;
// the rest are pushed right-to-left, padded to
// keep %rsp 16-byte aligned across the callq, and popped off afterward.
func (fc *fnCtx) translateCall(uid llvmlite.Uid, inst llvmlite.Call) {
	var spilled []llvmlite.Arg
	if len(inst.Args) > 6 {
		spilled = inst.Args[6:]
	}
	if len(spilled)%2 != 0 {
		fc.emit(x86ir.Ins2(x86ir.Subq, x86ir.Imm{Val: x86ir.ImmInt{Val: 8}}, x86ir.Reg{R: x86ir.RSP}))
	}
	for i := len(spilled) - 1; i >= 0; i-- {
		fc.loadOperand(spilled[i].Val, x86ir.RAX)
		fc.emit(x86ir.Ins1(x86ir.Pushq, x86ir.Reg{R: x86ir.RAX}))
	}

	nReg := len(inst.Args)
	if nReg > 6 {
		nReg = 6
	}
	for i := 0; i < nReg; i++ {
		fc.loadOperand(inst.Args[i].Val, x86ir.ArgRegisters[i])
	}

	if gid, ok := inst.Callee.(llvmlite.GidOp); ok {
		fc.emit(x86ir.Ins1(x86ir.Callq, x86ir.Imm{Val: x86ir.ImmLabel{Name: fc.mangle(string(gid.Name))}}))
	} else {
		fc.loadOperand(inst.Callee, x86ir.R10)
		fc.emit(x86ir.Ins1(x86ir.Callq, x86ir.Reg{R: x86ir.R10}))
	}

	popBytes := len(spilled) * 8
	if len(spilled)%2 != 0 {
		popBytes += 8
	}
	if popBytes > 0 {
		fc.emit(x86ir.Ins2(x86ir.Addq, x86ir.Imm{Val: x86ir.ImmInt{Val: int64(popBytes)}}, x86ir.Reg{R: x86ir.RSP}))
	}

	if _, void := inst.T.(llvmlite.Void); !void {
		fc.storeResult(uid, x86ir.RAX)
	}
}

// translateGep computes a getelementptr address. inst.T is the aggregate
// type Base points to; the first index scales by sizeof(T) itself (every
// Gep this backend receives passes a constant 0 here, the "dereference the
// base pointer" step of LLVM's getelementptr); every subsequent index
// descends one level into the current aggregate, a Const field index for a
// Struct or a runtime-computed element index for an Array.
func (fc *fnCtx) translateGep(uid llvmlite.Uid, inst llvmlite.Gep) {
	fc.loadOperand(inst.Base, x86ir.RAX)
	if len(inst.Indices) == 0 {
		panic("backend: gep with no indices")
	}
	idx0, ok := inst.Indices[0].(llvmlite.ConstOp)
	if !ok {
		panic("backend: gep's leading index must be a constant")
	}
	if off := idx0.Val * int64(sizeof(fc.types, inst.T)); off != 0 {
		fc.emit(x86ir.Ins2(x86ir.Addq, x86ir.Imm{Val: x86ir.ImmInt{Val: off}}, x86ir.Reg{R: x86ir.RAX}))
	}

	cur := inst.T
	for _, idx := range inst.Indices[1:] {
		switch agg := underlying(fc.types, cur).(type) {
		case llvmlite.StructTy:
			c, ok := idx.(llvmlite.ConstOp)
			if !ok {
				panic("backend: struct gep index must be a constant")
			}
			off := 0
			for i := 0; i < int(c.Val); i++ {
				off += sizeof(fc.types, agg.Fields[i])
			}
			if off != 0 {
				fc.emit(x86ir.Ins2(x86ir.Addq, x86ir.Imm{Val: x86ir.ImmInt{Val: int64(off)}}, x86ir.Reg{R: x86ir.RAX}))
			}
			cur = agg.Fields[c.Val]
		case llvmlite.ArrayTy:
			fc.loadOperand(idx, x86ir.RCX)
			elemSize := sizeof(fc.types, agg.Elem)
			fc.emit(x86ir.Ins2(x86ir.Imulq, x86ir.Imm{Val: x86ir.ImmInt{Val: int64(elemSize)}}, x86ir.Reg{R: x86ir.RCX}))
			fc.emit(x86ir.Ins2(x86ir.Addq, x86ir.Reg{R: x86ir.RCX}, x86ir.Reg{R: x86ir.RAX}))
			cur = agg.Elem
		default:
			panic(fmt.Sprintf("backend: gep descends into non-aggregate type %T", agg))
		}
	}
	fc.storeResult(uid, x86ir.RAX)
}

// underlying resolves a NamedT to its declared type; every other type is
// returned unchanged.
func underlying(types map[llvmlite.Tid]llvmlite.Type, t llvmlite.Type) llvmlite.Type {
	if n, ok := t.(llvmlite.NamedT); ok {
		return types[n.Name]
	}
	return t
}
