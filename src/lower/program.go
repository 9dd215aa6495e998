package lower

import (
	"oatc/src/ast"
	"oatc/src/check"
	"oatc/src/llvmlite"
	"oatc/src/symbol"
)

// program.go drives top-level lowering: translate every
// struct declaration to a named LL type, pre-bind every global and
// function into a shared global scope (mirroring check.Program's
// sequential pre-binding pass exactly, so the two stages agree on which
// forward references are legal), then lower every function body.

// Lower translates a type-checked Oat program into LLVMLite. prog must
// already have passed check.Program with zero errors: lowering assumes a
// well-typed tree and panics on any shape it cannot reconcile, treating
// that as an internal invariant violation rather than a user-facing
// error.
func Lower(sess *symbol.Session, prog ast.Program) *llvmlite.Program {
	tc := check.NewTypingContext(prog)
	c := NewCtx(sess, tc)

	for _, d := range prog {
		if td, ok := d.(ast.TypeDecl); ok {
			fields := make([]llvmlite.Type, len(td.Fields))
			for i, f := range td.Fields {
				fields[i] = TranslateType(tc, f.Type)
			}
			c.prog.AddType(llvmlite.Tid(td.Name.String()), llvmlite.StructTy{Fields: fields})
		}
	}

	globals := scope{}
	var funcs []ast.FuncDecl

	for _, d := range prog {
		switch d := d.(type) {
		case ast.GlobalDecl:
			gid := llvmlite.Gid(d.Name.String())
			srcTy := deriveType(tc, []scope{globals}, d.Init)
			init, llty := lowerGlobalInit(c, globals, d.Init)
			c.prog.AddGlobal(gid, llvmlite.GlobalDeclaration{T: llty, Init: init})
			globals[d.Name] = binding{addr: llvmlite.GidOp{Name: gid}, t: llty, src: srcTy}

		case ast.FuncDecl:
			ft := ast.FuncT{Ret: d.Ret}
			for _, p := range d.Params {
				ft.Args = append(ft.Args, p.Type)
			}
			srcTy := ast.RefT{R: ft}
			llty := TranslateType(tc, srcTy)
			globals[d.Name] = binding{addr: llvmlite.GidOp{Name: llvmlite.Gid(d.Name.String())}, t: llty, src: srcTy, isFunc: true}
			funcs = append(funcs, d)
		}
	}

	for _, fn := range funcs {
		fd := lowerFunction(c, tc, globals, fn)
		c.prog.AddFunction(llvmlite.Gid(fn.Name.String()), fd)
	}

	return c.prog
}

// lowerFunction lowers one function body: an entry block that allocas and
// stores every parameter (so a parameter reads like any other local -
// through an alloca - supporting reassignment), followed by the body
// statements in the same scope the parameters were bound in, matching
// check.checkFunc's single-push, no-separate-block-scope shape.
func lowerFunction(c *Ctx, tc *check.TypingContext, globals scope, fn ast.FuncDecl) llvmlite.FunctionDecl {
	fc := newFuncCtx(c, globals)
	fc.pushScope()
	fc.startEntry()

	paramUids := make([]llvmlite.Uid, len(fn.Params))
	argTypes := make([]llvmlite.Type, len(fn.Params))
	for i, p := range fn.Params {
		pu := fc.freshUid()
		paramUids[i] = pu
		llty := TranslateType(tc, p.Type)
		argTypes[i] = llty
		allocaU := fc.emit(llvmlite.Alloca{T: llty})
		addr := llvmlite.IdOp{Name: allocaU}
		fc.emit(llvmlite.Store{T: llty, Src: llvmlite.IdOp{Name: pu}, Dst: addr})
		fc.bind(p.Name, binding{addr: addr, t: llty, src: p.Type})
	}

	retLL := translateReturn(tc, fn.Ret)
	lowerBlockNoScope(fc, tc, fn.Body)
	if !fc.terminated {
		// A void function may fall off the end of its body with no
		// explicit return; check.Program only requires every path to
		// return for a Value(T)-returning function.
		fc.terminate(llvmlite.Ret{T: llvmlite.Void{}, Val: nil})
	}
	fc.popScope()

	return llvmlite.FunctionDecl{
		Sig:    llvmlite.FunctionType{ArgTypes: argTypes, RetType: retLL},
		Params: paramUids,
		CFG:    fc.cfg,
	}
}

// lowerGlobalInit translates a global variable's constant initializer.
// check.Program restricts these to null, boolean, integer, and string
// literals, and references to other already-bound globals; any
// other shape reaching here is a compiler bug, since the type checker
// would have rejected it first.
func lowerGlobalInit(c *Ctx, globals scope, e ast.Expr) (llvmlite.GlobalInitializer, llvmlite.Type) {
	switch e := e.(type) {
	case ast.NullLit:
		return llvmlite.NullInit{}, llvmlite.Ptr{Elem: translateR(c.tc, e.R)}

	case ast.BoolLit:
		v := int64(0)
		if e.Val {
			v = 1
		}
		return llvmlite.IntInit{Val: v}, llvmlite.I1{}

	case ast.IntLit:
		return llvmlite.IntInit{Val: e.Val}, llvmlite.I64{}

	case ast.StringLit:
		aux := c.freshString(e.Val)
		arrPtr := llvmlite.Ptr{Elem: llvmlite.ArrayTy{N: len(e.Val) + 1, Elem: llvmlite.I8{}}}
		ptrI8 := llvmlite.Ptr{Elem: llvmlite.I8{}}
		return llvmlite.BitcastInit{From: arrPtr, Val: llvmlite.GidInit{Name: aux}, To: ptrI8}, ptrI8

	case ast.IdentExpr:
		b, ok := globals[e.Name]
		if !ok {
			panic("lower: global initializer references an unbound identifier")
		}
		gid, ok := b.addr.(llvmlite.GidOp)
		if !ok {
			panic("lower: global initializer must reference another global")
		}
		return llvmlite.GidInit{Name: gid.Name}, b.t
	}
	panic("lower: unsupported global initializer form")
}
