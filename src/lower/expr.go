package lower

import (
	"oatc/src/ast"
	"oatc/src/check"
	"oatc/src/llvmlite"
	"oatc/src/symbol"
)

// expr.go lowers expressions. lowerExpr yields the
// rvalue of an expression (loading through any address it computes);
// lowerAddr yields the address of an expression usable as an assignment
// target, for the subset of expressions that denote one (identifiers,
// projections, and indexing).

// lowerExpr lowers e to an operand of type t, appending instructions to
// fc's current block.
func lowerExpr(fc *FuncCtx, tc *check.TypingContext, e ast.Expr) (llvmlite.Operand, llvmlite.Type) {
	switch e := e.(type) {
	case ast.NullLit:
		return llvmlite.NullOp{}, llvmlite.Ptr{Elem: translateR(tc, e.R)}

	case ast.BoolLit:
		v := int64(0)
		if e.Val {
			v = 1
		}
		return llvmlite.ConstOp{Val: v}, llvmlite.I1{}

	case ast.IntLit:
		return llvmlite.ConstOp{Val: e.Val}, llvmlite.I64{}

	case ast.StringLit:
		gid := fc.c.freshString(e.Val)
		return llvmlite.GidOp{Name: gid}, llvmlite.Ptr{Elem: llvmlite.I8{}}

	case ast.IdentExpr:
		b, ok := fc.lookup(e.Name)
		if !ok {
			panic("lower: unbound identifier " + e.Name.String() + " escaped type checking")
		}
		if b.isFunc {
			return b.addr, b.t
		}
		u := fc.emit(llvmlite.Load{T: b.t, Src: b.addr})
		return llvmlite.IdOp{Name: u}, b.t

	case ast.LengthExpr:
		addr, addrTy := lowerExpr(fc, tc, e.Arr)
		ptr, ok := addrTy.(llvmlite.Ptr)
		if !ok {
			panic("lower: length argument did not lower to a pointer")
		}
		g := fc.emit(llvmlite.Gep{T: ptr.Elem, Base: addr, Indices: []llvmlite.Operand{llvmlite.ConstOp{Val: 0}, llvmlite.ConstOp{Val: 0}}})
		u := fc.emit(llvmlite.Load{T: llvmlite.I64{}, Src: llvmlite.IdOp{Name: g}})
		return llvmlite.IdOp{Name: u}, llvmlite.I64{}

	case ast.IndexExpr:
		addr, elemTy := lowerArrayElemAddr(fc, tc, e)
		u := fc.emit(llvmlite.Load{T: elemTy, Src: addr})
		return llvmlite.IdOp{Name: u}, elemTy

	case ast.StructLit:
		return lowerStructLit(fc, tc, e)

	case ast.ProjExpr:
		addr, fieldTy := lowerProjAddr(fc, tc, e)
		u := fc.emit(llvmlite.Load{T: fieldTy, Src: addr})
		return llvmlite.IdOp{Name: u}, fieldTy

	case ast.CallExpr:
		return lowerCall(fc, tc, e)

	case ast.BinExpr:
		return lowerBin(fc, tc, e)

	case ast.UnExpr:
		return lowerUn(fc, tc, e)

	case ast.ArrayCtor:
		return lowerArrayCtor(fc, tc, e)

	case ast.NewArray:
		return lowerNewArray(fc, tc, e)
	}
	panic("lower: unrecognized expression form")
}

// lowerAddr lowers e to the address of its storage, for use as an
// assignment target. e must be an IdentExpr, ProjExpr, or IndexExpr: the
// only lvalue-shaped surface expressions (enforced earlier by the parser
// and type checker; any other shape reaching here is a compiler bug).
func lowerAddr(fc *FuncCtx, tc *check.TypingContext, e ast.Expr) (llvmlite.Operand, llvmlite.Type) {
	switch e := e.(type) {
	case ast.IdentExpr:
		b, ok := fc.lookup(e.Name)
		if !ok {
			panic("lower: unbound identifier " + e.Name.String() + " escaped type checking")
		}
		return b.addr, b.t
	case ast.ProjExpr:
		return lowerProjAddr(fc, tc, e)
	case ast.IndexExpr:
		return lowerArrayElemAddr(fc, tc, e)
	}
	panic("lower: expression is not assignable; type checker should have rejected it")
}

func lowerProjAddr(fc *FuncCtx, tc *check.TypingContext, e ast.ProjExpr) (llvmlite.Operand, llvmlite.Type) {
	base, baseTy := lowerExpr(fc, tc, e.Base)
	ptr, ok := baseTy.(llvmlite.Ptr)
	if !ok {
		panic("lower: projection base did not lower to a pointer")
	}
	named, ok := ptr.Elem.(llvmlite.NamedT)
	if !ok {
		panic("lower: projection base is not a named struct")
	}
	structName := structNameOf(fc.astType(e.Base))
	fields, _ := tc.Fields(structName)
	idx := -1
	for i, f := range fields {
		if f.Name == e.Field {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("lower: field " + e.Field.String() + " not found on struct " + structName.String())
	}
	fieldTy := TranslateType(tc, fields[idx].Type)
	g := fc.emit(llvmlite.Gep{
		T:       named,
		Base:    base,
		Indices: []llvmlite.Operand{llvmlite.ConstOp{Val: 0}, llvmlite.ConstOp{Val: int64(idx)}},
	})
	return llvmlite.IdOp{Name: g}, fieldTy
}

func lowerArrayElemAddr(fc *FuncCtx, tc *check.TypingContext, e ast.IndexExpr) (llvmlite.Operand, llvmlite.Type) {
	base, baseTy := lowerExpr(fc, tc, e.Arr)
	ptr, ok := baseTy.(llvmlite.Ptr)
	if !ok {
		panic("lower: indexed expression did not lower to a pointer")
	}
	idxOp, _ := lowerExpr(fc, tc, e.Index)
	elemTy := TranslateType(tc, arrayElemOf(fc.astType(e.Arr)))
	g := fc.emit(llvmlite.Gep{
		T:    ptr.Elem,
		Base: base,
		Indices: []llvmlite.Operand{
			llvmlite.ConstOp{Val: 0},
			llvmlite.ConstOp{Val: 1},
			idxOp,
		},
	})
	return llvmlite.IdOp{Name: g}, elemTy
}

func lowerStructLit(fc *FuncCtx, tc *check.TypingContext, e ast.StructLit) (llvmlite.Operand, llvmlite.Type) {
	named := llvmlite.NamedT{Name: llvmlite.Tid(e.Name.String())}
	ptrTy := llvmlite.Ptr{Elem: named}
	allocU := fc.emit(llvmlite.Alloca{T: named})
	addr := llvmlite.IdOp{Name: allocU}
	fields, _ := tc.Fields(e.Name)
	values := make(map[interface{}]ast.Expr, len(e.Fields))
	for _, fi := range e.Fields {
		values[fi.Name] = fi.Value
	}
	for i, f := range fields {
		val, valTy := lowerExpr(fc, tc, values[f.Name])
		g := fc.emit(llvmlite.Gep{T: named, Base: addr, Indices: []llvmlite.Operand{llvmlite.ConstOp{Val: 0}, llvmlite.ConstOp{Val: int64(i)}}})
		fc.emit(llvmlite.Store{T: valTy, Src: val, Dst: llvmlite.IdOp{Name: g}})
	}
	return addr, ptrTy
}

func lowerCall(fc *FuncCtx, tc *check.TypingContext, e ast.CallExpr) (llvmlite.Operand, llvmlite.Type) {
	callee, calleeTy := lowerExpr(fc, tc, e.Callee)
	ptr, ok := calleeTy.(llvmlite.Ptr)
	if !ok {
		panic("lower: call target did not lower to a function pointer")
	}
	fn, ok := ptr.Elem.(llvmlite.FunTy)
	if !ok {
		panic("lower: call target is not a function type")
	}
	args := make([]llvmlite.Arg, len(e.Args))
	for i, a := range e.Args {
		v, t := lowerExpr(fc, tc, a)
		args[i] = llvmlite.Arg{T: t, Val: v}
	}
	u := fc.emit(llvmlite.Call{T: fn.Ret, Callee: callee, Args: args})
	return llvmlite.IdOp{Name: u}, fn.Ret
}

func lowerBin(fc *FuncCtx, tc *check.TypingContext, e ast.BinExpr) (llvmlite.Operand, llvmlite.Type) {
	l, lt := lowerExpr(fc, tc, e.L)
	r, _ := lowerExpr(fc, tc, e.R)
	switch e.Op {
	case ast.BinAdd:
		return lowerBinop(fc, llvmlite.Add, lt, l, r)
	case ast.BinSub:
		return lowerBinop(fc, llvmlite.Sub, lt, l, r)
	case ast.BinMul:
		return lowerBinop(fc, llvmlite.Mul, lt, l, r)
	case ast.BinShl:
		return lowerBinop(fc, llvmlite.Shl, lt, l, r)
	case ast.BinShr:
		return lowerBinop(fc, llvmlite.Ashr, lt, l, r)
	case ast.BinBitAnd, ast.BinAnd:
		return lowerBinop(fc, llvmlite.And, lt, l, r)
	case ast.BinBitOr, ast.BinOr:
		return lowerBinop(fc, llvmlite.Or, lt, l, r)
	case ast.BinLt:
		return lowerIcmp(fc, llvmlite.Slt, lt, l, r)
	case ast.BinLe:
		return lowerIcmp(fc, llvmlite.Sle, lt, l, r)
	case ast.BinGt:
		// a > b  <=>  b < a
		return lowerIcmp(fc, llvmlite.Slt, lt, r, l)
	case ast.BinGe:
		return lowerIcmp(fc, llvmlite.Sge, lt, l, r)
	case ast.BinEq:
		return lowerIcmp(fc, llvmlite.Eq, lt, l, r)
	case ast.BinNeq:
		return lowerIcmp(fc, llvmlite.Ne, lt, l, r)
	}
	panic("lower: unrecognized binary operator")
}

func lowerBinop(fc *FuncCtx, op llvmlite.BinaryOperator, t llvmlite.Type, l, r llvmlite.Operand) (llvmlite.Operand, llvmlite.Type) {
	u := fc.emit(llvmlite.Binop{Op: op, T: t, Op1: l, Op2: r})
	return llvmlite.IdOp{Name: u}, t
}

func lowerIcmp(fc *FuncCtx, cond llvmlite.Condition, t llvmlite.Type, l, r llvmlite.Operand) (llvmlite.Operand, llvmlite.Type) {
	u := fc.emit(llvmlite.Icmp{Cond: cond, T: t, Op1: l, Op2: r})
	return llvmlite.IdOp{Name: u}, llvmlite.I1{}
}

func lowerUn(fc *FuncCtx, tc *check.TypingContext, e ast.UnExpr) (llvmlite.Operand, llvmlite.Type) {
	v, t := lowerExpr(fc, tc, e.E)
	switch e.Op {
	case ast.UnNeg:
		return lowerBinop(fc, llvmlite.Sub, t, llvmlite.ConstOp{Val: 0}, v)
	case ast.UnBitNot:
		return lowerBinop(fc, llvmlite.Xor, t, v, llvmlite.ConstOp{Val: -1})
	case ast.UnNot:
		return lowerBinop(fc, llvmlite.Xor, t, v, llvmlite.ConstOp{Val: 1})
	}
	panic("lower: unrecognized unary operator")
}

// lowerNewArray implements `new T[n]`: call oat_alloc_array, bitcast to
// the array's length-prefixed representation, store the length.
func lowerNewArray(fc *FuncCtx, tc *check.TypingContext, e ast.NewArray) (llvmlite.Operand, llvmlite.Type) {
	lenOp, _ := lowerExpr(fc, tc, e.Len)
	elemLL := TranslateType(tc, e.Elem)
	repr := arrayRepr(elemLL)
	reprPtr := llvmlite.Ptr{Elem: repr}

	rawU := fc.emit(llvmlite.Call{
		T:      llvmlite.Ptr{Elem: llvmlite.I8{}},
		Callee: llvmlite.GidOp{Name: "oat_alloc_array"},
		Args:   []llvmlite.Arg{{T: llvmlite.I64{}, Val: lenOp}},
	})
	castU := fc.emit(llvmlite.Bitcast{From: llvmlite.Ptr{Elem: llvmlite.I8{}}, Val: llvmlite.IdOp{Name: rawU}, To: reprPtr})
	addr := llvmlite.IdOp{Name: castU}

	g := fc.emit(llvmlite.Gep{T: repr, Base: addr, Indices: []llvmlite.Operand{llvmlite.ConstOp{Val: 0}, llvmlite.ConstOp{Val: 0}}})
	fc.emit(llvmlite.Store{T: llvmlite.I64{}, Src: lenOp, Dst: llvmlite.IdOp{Name: g}})
	return addr, reprPtr
}

// lowerArrayCtor implements `new T[]{e1, ..., en}`: allocate an array of
// the literal's length, then store each element in source order.
func lowerArrayCtor(fc *FuncCtx, tc *check.TypingContext, e ast.ArrayCtor) (llvmlite.Operand, llvmlite.Type) {
	addr, reprPtr := lowerNewArray(fc, tc, ast.NewArray{Elem: e.Elem, Len: ast.IntLit{Val: int64(len(e.Elems))}})
	repr := reprPtr.(llvmlite.Ptr).Elem
	for i, el := range e.Elems {
		val, valTy := lowerExpr(fc, tc, el)
		g := fc.emit(llvmlite.Gep{T: repr, Base: addr, Indices: []llvmlite.Operand{
			llvmlite.ConstOp{Val: 0}, llvmlite.ConstOp{Val: 1}, llvmlite.ConstOp{Val: int64(i)},
		}})
		fc.emit(llvmlite.Store{T: valTy, Src: val, Dst: llvmlite.IdOp{Name: g}})
	}
	return addr, reprPtr
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// structNameOf extracts the struct name named by a reference-to-struct
// surface type. t must be ast.RefT{R: ast.StructT{...}}; any other shape
// reaching here is a compiler bug since the type checker already verified
// the projection's base is a struct reference.
func structNameOf(t ast.Type) symbol.Symbol {
	ref, ok := t.(ast.RefT)
	if !ok {
		panic("lower: projection base's surface type is not a reference")
	}
	st, ok := ref.R.(ast.StructT)
	if !ok {
		panic("lower: projection base's surface type is not a struct reference")
	}
	return st.Name
}

// arrayElemOf extracts the element type named by a reference-to-array
// surface type.
func arrayElemOf(t ast.Type) ast.Type {
	ref, ok := t.(ast.RefT)
	if !ok {
		panic("lower: indexed expression's surface type is not a reference")
	}
	arr, ok := ref.R.(ast.ArrayT)
	if !ok {
		panic("lower: indexed expression's surface type is not an array reference")
	}
	return arr.Elem
}
