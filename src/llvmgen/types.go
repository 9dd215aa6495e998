package llvmgen

import (
	"tinygo.org/x/go-llvm"

	"oatc/src/llvmlite"
)

// types.go translates LLVMLite types into real LLVM types. Named struct
// types are pre-declared opaque (llvm.Context.StructCreateNamed) before
// any field is translated, so mutually-recursive Oat structs - which
// LLVMLite already represents as Named(Tid) indirection rather than
// inline bodies - translate without infinite recursion.

// declareNamedTypes creates an opaque struct for every named type in prog,
// then fills in each one's field list. Must run before any other
// translation touches a NamedT.
func (m *module) declareNamedTypes() {
	m.named = make(map[llvmlite.Tid]llvm.Type, len(m.prog.TypeOrder))
	for _, tid := range m.prog.TypeOrder {
		m.named[tid] = m.ctx.StructCreateNamed(string(tid))
	}
	for _, tid := range m.prog.TypeOrder {
		st := m.prog.Types[tid].(llvmlite.StructTy)
		fields := make([]llvm.Type, len(st.Fields))
		for i, f := range st.Fields {
			fields[i] = m.translateType(f)
		}
		m.named[tid].StructSetBody(fields, false)
	}
}

func (m *module) translateType(t llvmlite.Type) llvm.Type {
	switch t := t.(type) {
	case llvmlite.Void:
		return m.ctx.VoidType()
	case llvmlite.I1:
		return m.ctx.Int1Type()
	case llvmlite.I8:
		return m.ctx.Int8Type()
	case llvmlite.I64:
		return m.ctx.Int64Type()
	case llvmlite.Ptr:
		return llvm.PointerType(m.translateType(t.Elem), 0)
	case llvmlite.StructTy:
		fields := make([]llvm.Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = m.translateType(f)
		}
		return m.ctx.StructType(fields, false)
	case llvmlite.ArrayTy:
		return llvm.ArrayType(m.translateType(t.Elem), t.N)
	case llvmlite.FunTy:
		return llvm.PointerType(m.funcType(t), 0)
	case llvmlite.NamedT:
		return m.named[t.Name]
	}
	panic("llvmgen: unrecognized LLVMLite type")
}

func (m *module) funcType(ft llvmlite.FunTy) llvm.Type {
	args := make([]llvm.Type, len(ft.Args))
	for i, a := range ft.Args {
		args[i] = m.translateType(a)
	}
	return llvm.FunctionType(m.translateType(ft.Ret), args, false)
}

// translateInit builds a constant matching a global's declared type.
func (m *module) translateInit(init llvmlite.GlobalInitializer) llvm.Value {
	switch init := init.(type) {
	case llvmlite.NullInit:
		return llvm.ConstNull(m.ctx.Int64Type())
	case llvmlite.IntInit:
		return llvm.ConstInt(m.ctx.Int64Type(), uint64(init.Val), true)
	case llvmlite.StringInit:
		return m.ctx.ConstString(init.Val, true)
	case llvmlite.GidInit:
		return m.globals[init.Name]
	case llvmlite.BitcastInit:
		return llvm.ConstBitCast(m.translateInit(init.Val), m.translateType(init.To))
	case llvmlite.ArrayInit:
		vals := make([]llvm.Value, len(init.Elems))
		var elemTy llvm.Type
		for i, e := range init.Elems {
			vals[i] = m.translateInit(e.Init)
			elemTy = m.translateType(e.T)
		}
		return llvm.ConstArray(elemTy, vals)
	case llvmlite.StructInit:
		vals := make([]llvm.Value, len(init.Fields))
		for i, f := range init.Fields {
			vals[i] = m.translateInit(f.Init)
		}
		return m.ctx.ConstStruct(vals, false)
	}
	panic("llvmgen: unrecognized global initializer")
}
