package backend

import (
	"oatc/src/llvmlite"
	"oatc/src/x86ir"
)

// program.go is the package's entry point: translate a whole LLVMLite
// Program into an x86ir.Program, preserving declaration order throughout
// so two compiles of the same Oat source emit byte-identical assembly.

// Generate translates prog into x86-64 assembly IR. linux selects GAS/ELF
// label syntax; externals declared in prog are left unresolved, to be
// satisfied at link time by the runtime support library.
func Generate(prog *llvmlite.Program, linux bool) *x86ir.Program {
	out := &x86ir.Program{}
	for _, name := range prog.GlobalOrder {
		out.Blocks = append(out.Blocks, translateGlobal(linux, name, prog.Globals[name]))
	}
	for _, name := range prog.FunctionOrder {
		out.Blocks = append(out.Blocks, translateFunction(prog.Types, linux, name, prog.Functions[name])...)
	}
	return out
}
