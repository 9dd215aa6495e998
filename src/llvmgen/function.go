package llvmgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"oatc/src/llvmlite"
)

// function.go walks one LLVMLite CFG and emits it through an llvm.Builder.
// Every basic block is created up front so forward branches (loop exits,
// if-joins) resolve before they're emitted.

// funcGen holds one function's translation state: its defining module, the
// llvm.Value bound to each Uid as it's produced, and the llvm.BasicBlock
// bound to each CFG Label.
type funcGen struct {
	*module
	fn     llvm.Value
	locals map[llvmlite.Uid]llvm.Value
	blocks map[llvmlite.Label]llvm.BasicBlock
}

func (m *module) genFunctionBody(name llvmlite.Gid, fd llvmlite.FunctionDecl) error {
	fn := m.globals[name]

	fg := &funcGen{
		module: m,
		fn:     fn,
		locals: make(map[llvmlite.Uid]llvm.Value),
		blocks: make(map[llvmlite.Label]llvm.BasicBlock),
	}

	entryBB := llvm.AddBasicBlock(fn, "entry")
	for _, lbl := range fd.CFG.Order {
		fg.blocks[lbl] = llvm.AddBasicBlock(fn, string(lbl))
	}

	for i, p := range fd.Params {
		fg.locals[p] = fn.Param(i)
	}

	m.b.SetInsertPointAtEnd(entryBB)
	if err := fg.genBlock(fd.CFG.Entry); err != nil {
		return err
	}
	for _, lbl := range fd.CFG.Order {
		m.b.SetInsertPointAtEnd(fg.blocks[lbl])
		if err := fg.genBlock(fd.CFG.Blocks[lbl]); err != nil {
			return err
		}
	}
	return nil
}

func (fg *funcGen) genBlock(b llvmlite.Block) error {
	for _, e := range b.Instructions {
		v, err := fg.genInst(e.Inst)
		if err != nil {
			return fmt.Errorf("llvmgen: %%%s: %w", e.Uid, err)
		}
		fg.locals[e.Uid] = v
	}
	return fg.genTerm(b.Terminator.Term)
}

// operand materializes op as an llvm.Value of the given type.
func (fg *funcGen) operand(op llvmlite.Operand, hint llvm.Type) llvm.Value {
	switch op := op.(type) {
	case llvmlite.NullOp:
		return llvm.ConstNull(hint)
	case llvmlite.ConstOp:
		return llvm.ConstInt(hint, uint64(op.Val), true)
	case llvmlite.GidOp:
		return fg.globals[op.Name]
	case llvmlite.IdOp:
		return fg.locals[op.Name]
	}
	panic("llvmgen: unrecognized operand")
}

func (fg *funcGen) genInst(inst llvmlite.Instruction) (llvm.Value, error) {
	switch inst := inst.(type) {
	case llvmlite.Binop:
		t := fg.translateType(inst.T)
		lhs, rhs := fg.operand(inst.Op1, t), fg.operand(inst.Op2, t)
		switch inst.Op {
		case llvmlite.Add:
			return fg.b.CreateAdd(lhs, rhs, ""), nil
		case llvmlite.Sub:
			return fg.b.CreateSub(lhs, rhs, ""), nil
		case llvmlite.Mul:
			return fg.b.CreateMul(lhs, rhs, ""), nil
		case llvmlite.Shl:
			return fg.b.CreateShl(lhs, rhs, ""), nil
		case llvmlite.Lshr:
			return fg.b.CreateLShr(lhs, rhs, ""), nil
		case llvmlite.Ashr:
			return fg.b.CreateAShr(lhs, rhs, ""), nil
		case llvmlite.And:
			return fg.b.CreateAnd(lhs, rhs, ""), nil
		case llvmlite.Or:
			return fg.b.CreateOr(lhs, rhs, ""), nil
		case llvmlite.Xor:
			return fg.b.CreateXor(lhs, rhs, ""), nil
		}
		return llvm.Value{}, fmt.Errorf("unrecognized binary operator %v", inst.Op)

	case llvmlite.Alloca:
		return fg.b.CreateAlloca(fg.translateType(inst.T), ""), nil

	case llvmlite.Load:
		ptr := fg.operand(inst.Src, llvm.PointerType(fg.translateType(inst.T), 0))
		return fg.b.CreateLoad(ptr, ""), nil

	case llvmlite.Store:
		t := fg.translateType(inst.T)
		src := fg.operand(inst.Src, t)
		dst := fg.operand(inst.Dst, llvm.PointerType(t, 0))
		return fg.b.CreateStore(src, dst), nil

	case llvmlite.Icmp:
		t := fg.translateType(inst.T)
		lhs, rhs := fg.operand(inst.Op1, t), fg.operand(inst.Op2, t)
		return fg.b.CreateICmp(translatePred(inst.Cond), lhs, rhs, ""), nil

	case llvmlite.Call:
		callee := fg.operand(inst.Callee, llvm.Type{})
		args := make([]llvm.Value, len(inst.Args))
		for i, a := range inst.Args {
			args[i] = fg.operand(a.Val, fg.translateType(a.T))
		}
		name := ""
		if _, void := inst.T.(llvmlite.Void); !void {
			name = "calltmp"
		}
		return fg.b.CreateCall(callee, args, name), nil

	case llvmlite.Bitcast:
		val := fg.operand(inst.Val, fg.translateType(inst.From))
		return fg.b.CreateBitCast(val, fg.translateType(inst.To), ""), nil

	case llvmlite.Gep:
		base := fg.operand(inst.Base, llvm.PointerType(fg.translateType(inst.T), 0))
		indices := make([]llvm.Value, len(inst.Indices))
		for i, idx := range inst.Indices {
			indices[i] = fg.operand(idx, fg.ctx.Int64Type())
		}
		return fg.b.CreateGEP(base, indices, ""), nil
	}
	return llvm.Value{}, fmt.Errorf("unrecognized instruction %T", inst)
}

func (fg *funcGen) genTerm(term llvmlite.Terminator) error {
	switch term := term.(type) {
	case llvmlite.Ret:
		if term.Val == nil {
			fg.b.CreateRetVoid()
			return nil
		}
		fg.b.CreateRet(fg.operand(term.Val, fg.translateType(term.T)))
		return nil
	case llvmlite.Br:
		fg.b.CreateBr(fg.blocks[term.Dst])
		return nil
	case llvmlite.CondBr:
		cond := fg.operand(term.Cond, fg.ctx.Int1Type())
		fg.b.CreateCondBr(cond, fg.blocks[term.Then], fg.blocks[term.Else])
		return nil
	}
	return fmt.Errorf("unrecognized terminator %T", term)
}

func translatePred(c llvmlite.Condition) llvm.IntPredicate {
	switch c {
	case llvmlite.Eq:
		return llvm.IntEQ
	case llvmlite.Ne:
		return llvm.IntNE
	case llvmlite.Slt:
		return llvm.IntSLT
	case llvmlite.Sle:
		return llvm.IntSLE
	case llvmlite.Sge:
		return llvm.IntSGE
	}
	panic("llvmgen: unrecognized condition")
}
