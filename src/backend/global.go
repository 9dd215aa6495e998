package backend

import (
	"oatc/src/llvmlite"
	"oatc/src/x86ir"
)

// global.go: every LLVMLite global becomes a `.data`
// AsmBlock; a flat list of quad/asciz items in initializer order, walking
// through Bitcast/Array/Struct initializers the same way the backend walks
// Gep paths (the exact shape of the constant is already baked into the
// GlobalInitializer tree by package lower).

func translateGlobal(linux bool, name llvmlite.Gid, g llvmlite.GlobalDeclaration) x86ir.AsmBlock {
	return x86ir.AsmBlock{
		Label:  mangleLabel(linux, string(name)),
		Global: true,
		Data:   translateInit(linux, g.Init),
		IsData: true,
	}
}

func translateInit(linux bool, init llvmlite.GlobalInitializer) []x86ir.Data {
	switch init := init.(type) {
	case llvmlite.NullInit:
		return []x86ir.Data{x86ir.Quad{Val: x86ir.ImmInt{Val: 0}}}
	case llvmlite.IntInit:
		return []x86ir.Data{x86ir.Quad{Val: x86ir.ImmInt{Val: init.Val}}}
	case llvmlite.GidInit:
		return []x86ir.Data{x86ir.Quad{Val: x86ir.ImmLabel{Name: mangleLabel(linux, string(init.Name))}}}
	case llvmlite.StringInit:
		return []x86ir.Data{x86ir.Asciz{Val: init.Val}}
	case llvmlite.BitcastInit:
		return translateInit(linux, init.Val)
	case llvmlite.ArrayInit:
		var items []x86ir.Data
		for _, e := range init.Elems {
			items = append(items, translateInit(linux, e.Init)...)
		}
		return items
	case llvmlite.StructInit:
		var items []x86ir.Data
		for _, f := range init.Fields {
			items = append(items, translateInit(linux, f.Init)...)
		}
		return items
	}
	panic("backend: unrecognized global initializer")
}
