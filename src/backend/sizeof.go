// Package backend translates a finished LLVMLite program (package llvmlite)
// into the structured x86 IR of package x86ir: a per-function layout pass
// assigning every uid a stack slot, a prologue/epilogue built around the
// System V AMD64 calling convention, and a fixed per-instruction
// translation scheme that never holds a value in a register across more
// than one x86 instruction (rax and rcx are reserved scratch).
//
// The backend walks a typed llvmlite.CFG and produces x86ir.Instruction
// values rather than writing text directly - the textual form is produced
// later by x86ir.Program.String.
package backend

import "oatc/src/llvmlite"

// Every LLVMLite scalar used by this backend is 8 bytes once it reaches a
// stack slot or an aggregate field, except I8 itself, which keeps its
// natural 1-byte size for string byte access. Oat never embeds an I8
// inside an aggregate the backend builds.

// sizeof returns t's size in bytes, resolving Named types through types.
func sizeof(types map[llvmlite.Tid]llvmlite.Type, t llvmlite.Type) int {
	switch t := t.(type) {
	case llvmlite.Void:
		return 0
	case llvmlite.I1, llvmlite.I64, llvmlite.Ptr, llvmlite.FunTy:
		return 8
	case llvmlite.I8:
		return 1
	case llvmlite.StructTy:
		n := 0
		for _, f := range t.Fields {
			n += sizeof(types, f)
		}
		return n
	case llvmlite.ArrayTy:
		return t.N * sizeof(types, t.Elem)
	case llvmlite.NamedT:
		return sizeof(types, types[t.Name])
	}
	panic("backend: sizeof of unrecognized type")
}
