package lower

import (
	"oatc/src/ast"
	"oatc/src/check"
	"oatc/src/llvmlite"
)

// stmt.go lowers statements against the current block fc maintains (see
// context.go's startEntry/startBlock/terminate).

// lowerBlock lowers every statement of b in order, opening and closing its
// own lexical scope - matching check.checkBlock's fresh-scope-per-block
// rule.
func lowerBlock(fc *FuncCtx, tc *check.TypingContext, b ast.Block) {
	fc.pushScope()
	lowerBlockNoScope(fc, tc, b)
	fc.popScope()
}

// lowerBlockNoScope lowers b's statements without opening its own scope,
// for callers (function bodies, if?) that need a binding introduced by
// their own construct to remain visible across the block.
func lowerBlockNoScope(fc *FuncCtx, tc *check.TypingContext, b ast.Block) {
	for _, s := range b {
		lowerStmt(fc, tc, s)
		if fc.terminated {
			// A return closed the current block; the type checker's
			// dead-code rule guarantees no further statement follows it
			// in a well-typed program.
			return
		}
	}
}

func lowerStmt(fc *FuncCtx, tc *check.TypingContext, s ast.Stmt) {
	switch s := s.(type) {
	case ast.AssignStmt:
		lowerAssign(fc, tc, s)
	case ast.DeclStmt:
		lowerDecl(fc, tc, s)
	case ast.CallStmt:
		lowerCall(fc, tc, s.Call)
	case ast.IfStmt:
		lowerIf(fc, tc, s)
	case ast.IfNullCastStmt:
		lowerIfNullCast(fc, tc, s)
	case ast.ForStmt:
		lowerFor(fc, tc, s)
	case ast.WhileStmt:
		lowerWhile(fc, tc, s)
	case ast.ReturnStmt:
		lowerReturn(fc, tc, s)
	default:
		panic("lower: unrecognized statement form")
	}
}

func lowerAssign(fc *FuncCtx, tc *check.TypingContext, s ast.AssignStmt) {
	addr, t := lowerAddr(fc, tc, s.LHS)
	v, _ := lowerExpr(fc, tc, s.RHS)
	fc.emit(llvmlite.Store{T: t, Src: v, Dst: addr})
}

func lowerDecl(fc *FuncCtx, tc *check.TypingContext, s ast.DeclStmt) {
	srcTy := fc.astType(s.Init)
	v, t := lowerExpr(fc, tc, s.Init)
	allocaU := fc.emit(llvmlite.Alloca{T: t})
	addr := llvmlite.IdOp{Name: allocaU}
	fc.emit(llvmlite.Store{T: t, Src: v, Dst: addr})
	fc.bind(s.Name, binding{addr: addr, t: t, src: srcTy})
}

// lowerIf emits a fresh then/else/merge label triple,
// a CondBreak terminating the current block, each branch terminating with
// Break(merge) unless it already returns. When both branches return, merge
// is unreachable and is never added to the CFG.
func lowerIf(fc *FuncCtx, tc *check.TypingContext, s ast.IfStmt) {
	cond, _ := lowerExpr(fc, tc, s.Cond)
	thenLbl := fc.freshLabel("if.then")
	elseLbl := fc.freshLabel("if.else")
	mergeLbl := fc.freshLabel("if.merge")
	fc.terminate(llvmlite.CondBr{Cond: cond, Then: thenLbl, Else: elseLbl})

	fc.startBlock(thenLbl)
	lowerBlock(fc, tc, s.Then)
	thenReturned := fc.terminated
	fc.terminate(llvmlite.Br{Dst: mergeLbl})

	fc.startBlock(elseLbl)
	elseReturned := false
	if s.Else != nil {
		lowerBlock(fc, tc, s.Else)
		elseReturned = fc.terminated
	}
	fc.terminate(llvmlite.Br{Dst: mergeLbl})

	if thenReturned && elseReturned {
		fc.terminated = true
		return
	}
	fc.startBlock(mergeLbl)
}

// lowerIfNullCast implements the nullable-cast if: compare the source
// pointer against null, and in the non-null branch bind the narrowed
// identifier to a fresh alloca holding the already-non-null pointer.
func lowerIfNullCast(fc *FuncCtx, tc *check.TypingContext, s ast.IfNullCastStmt) {
	src, srcTy := lowerExpr(fc, tc, s.Src)
	cmpU := fc.emit(llvmlite.Icmp{Cond: llvmlite.Ne, T: srcTy, Op1: src, Op2: llvmlite.NullOp{}})

	thenLbl := fc.freshLabel("ifcast.then")
	elseLbl := fc.freshLabel("ifcast.else")
	mergeLbl := fc.freshLabel("ifcast.merge")
	fc.terminate(llvmlite.CondBr{Cond: llvmlite.IdOp{Name: cmpU}, Then: thenLbl, Else: elseLbl})

	fc.startBlock(thenLbl)
	fc.pushScope()
	narrowed := llvmlite.Ptr{Elem: translateR(tc, s.R)}
	allocaU := fc.emit(llvmlite.Alloca{T: narrowed})
	addr := llvmlite.IdOp{Name: allocaU}
	fc.emit(llvmlite.Store{T: narrowed, Src: src, Dst: addr})
	fc.bind(s.Name, binding{addr: addr, t: narrowed, src: ast.RefT{R: s.R}})
	lowerBlockNoScope(fc, tc, s.Then)
	thenReturned := fc.terminated
	fc.terminate(llvmlite.Br{Dst: mergeLbl})
	fc.popScope()

	fc.startBlock(elseLbl)
	elseReturned := false
	if s.Else != nil {
		lowerBlock(fc, tc, s.Else)
		elseReturned = fc.terminated
	}
	fc.terminate(llvmlite.Br{Dst: mergeLbl})

	if thenReturned && elseReturned {
		fc.terminated = true
		return
	}
	fc.startBlock(mergeLbl)
}

// lowerWhile emits cond/body/exit labels, the
// current block jumping into cond, cond CondBreaking into body or exit,
// and body looping back to cond.
func lowerWhile(fc *FuncCtx, tc *check.TypingContext, s ast.WhileStmt) {
	condLbl := fc.freshLabel("while.cond")
	bodyLbl := fc.freshLabel("while.body")
	exitLbl := fc.freshLabel("while.exit")
	fc.terminate(llvmlite.Br{Dst: condLbl})

	fc.startBlock(condLbl)
	cond, _ := lowerExpr(fc, tc, s.Cond)
	fc.terminate(llvmlite.CondBr{Cond: cond, Then: bodyLbl, Else: exitLbl})

	fc.startBlock(bodyLbl)
	lowerBlock(fc, tc, s.Body)
	fc.terminate(llvmlite.Br{Dst: condLbl})

	fc.startBlock(exitLbl)
}

// lowerFor desugars to
// `{ init; while (cond) { body; update; } }`, with init bindings scoped to
// the loop header (outliving each body iteration's own nested scope) and
// update executed, in that scope, after the body on every iteration.
func lowerFor(fc *FuncCtx, tc *check.TypingContext, s ast.ForStmt) {
	fc.pushScope()
	for _, init := range s.Init {
		lowerStmt(fc, tc, init)
	}

	condLbl := fc.freshLabel("for.cond")
	bodyLbl := fc.freshLabel("for.body")
	exitLbl := fc.freshLabel("for.exit")
	fc.terminate(llvmlite.Br{Dst: condLbl})

	fc.startBlock(condLbl)
	var cond llvmlite.Operand = llvmlite.ConstOp{Val: 1}
	if s.Cond != nil {
		cond, _ = lowerExpr(fc, tc, s.Cond)
	}
	fc.terminate(llvmlite.CondBr{Cond: cond, Then: bodyLbl, Else: exitLbl})

	fc.startBlock(bodyLbl)
	lowerBlock(fc, tc, s.Body)
	if !fc.terminated && s.Update != nil {
		lowerStmt(fc, tc, s.Update)
	}
	fc.terminate(llvmlite.Br{Dst: condLbl})

	fc.startBlock(exitLbl)
	fc.popScope()
}

func lowerReturn(fc *FuncCtx, tc *check.TypingContext, s ast.ReturnStmt) {
	if s.Value == nil {
		fc.terminate(llvmlite.Ret{T: llvmlite.Void{}, Val: nil})
		return
	}
	v, t := lowerExpr(fc, tc, s.Value)
	fc.terminate(llvmlite.Ret{T: t, Val: v})
}
