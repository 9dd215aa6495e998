// Package llvmgen is the optional alternate code-generation path selected
// by the CLI's `-llvm` flag. It translates a finished llvmlite.Program -
// the same IR the custom x86 backend consumes - into a real
// tinygo.org/x/go-llvm module, asks LLVM to verify it, and can hand it to
// a target machine for assembly/object emission.
package llvmgen

import (
	"fmt"

	"tinygo.org/x/go-llvm"

	"oatc/src/llvmlite"
)

// module holds the translation state shared across one Program's worth of
// globals and functions: the owning llvm.Context/Module/Builder, and a
// symbol table from LLVMLite Gid/Uid names to the llvm.Value that
// represents them.
type module struct {
	ctx     llvm.Context
	mod     llvm.Module
	b       llvm.Builder
	prog    *llvmlite.Program
	globals map[llvmlite.Gid]llvm.Value
	named   map[llvmlite.Tid]llvm.Type
}

// Generate translates prog into an llvm.Module named name and verifies it.
// The caller owns the returned module's Context and must Dispose both when
// finished (ctx is returned alongside mod so the caller can do so).
func Generate(prog *llvmlite.Program, name string) (llvm.Context, llvm.Module, error) {
	ctx := llvm.NewContext()
	mod := ctx.NewModule(name)
	b := ctx.NewBuilder()
	defer b.Dispose()

	m := &module{ctx: ctx, mod: mod, b: b, prog: prog, globals: map[llvmlite.Gid]llvm.Value{}}
	m.declareNamedTypes()

	for _, name := range prog.ExternOrder {
		t := prog.Externals[name]
		ft, ok := t.(llvmlite.FunTy)
		if !ok {
			ctx.Dispose()
			return llvm.Context{}, llvm.Module{}, fmt.Errorf("llvmgen: external %q is not a function type", name)
		}
		fn := llvm.AddFunction(mod, string(name), m.funcType(ft))
		m.globals[name] = fn
	}

	for _, name := range prog.GlobalOrder {
		g := prog.Globals[name]
		gv := llvm.AddGlobal(mod, m.translateType(g.T), string(name))
		switch init := g.Init.(type) {
		case llvmlite.NullInit:
			gv.SetInitializer(llvm.ConstNull(m.translateType(g.T)))
		case llvmlite.IntInit:
			gv.SetInitializer(llvm.ConstInt(m.translateType(g.T), uint64(init.Val), true))
		default:
			gv.SetInitializer(m.translateInit(g.Init))
		}
		m.globals[name] = gv
	}

	for _, name := range prog.FunctionOrder {
		fd := prog.Functions[name]
		fn := llvm.AddFunction(mod, string(name), m.funcType(llvmlite.FunTy{Args: fd.Sig.ArgTypes, Ret: fd.Sig.RetType}))
		m.globals[name] = fn
	}

	for _, name := range prog.FunctionOrder {
		if err := m.genFunctionBody(name, prog.Functions[name]); err != nil {
			ctx.Dispose()
			return llvm.Context{}, llvm.Module{}, err
		}
	}

	if err := llvm.VerifyModule(mod, llvm.ReturnStatusAction); err != nil {
		ctx.Dispose()
		return llvm.Context{}, llvm.Module{}, fmt.Errorf("llvmgen: module verification failed: %w", err)
	}
	return ctx, mod, nil
}

// EmitAssembly asks a target machine for triple to print mod as textual
// target assembly.
func EmitAssembly(mod llvm.Module, triple string) (string, error) {
	llvm.InitializeAllTargetInfos()
	llvm.InitializeAllTargetMCs()
	llvm.InitializeAllAsmParsers()
	llvm.InitializeAllAsmPrinters()

	if triple == "" {
		triple = llvm.DefaultTargetTriple()
	}
	target, err := llvm.GetTargetFromTriple(triple)
	if err != nil {
		return "", fmt.Errorf("llvmgen: %w", err)
	}
	tm := target.CreateTargetMachine(triple, "generic", "", llvm.CodeGenLevelNone, llvm.RelocDefault, llvm.CodeModelDefault)
	defer tm.Dispose()

	td := tm.CreateTargetData()
	defer td.Dispose()
	mod.SetDataLayout(td.String())
	mod.SetTarget(tm.Triple())

	buf, err := tm.EmitToMemoryBuffer(mod, llvm.AssemblyFile)
	if err != nil {
		return "", fmt.Errorf("llvmgen: %w", err)
	}
	return string(buf.Bytes()), nil
}
