// Package lower translates a type-checked Oat program (package ast) into
// LLVMLite (package llvmlite): name discipline, type translation,
// expression and statement lowering.
//
// A program-level Ctx owns the output Program and the TypingContext; a
// per-function FuncCtx owns the fresh-name counters and the block
// currently being built. There is always exactly one open block rather
// than a general basic-block builder API.
package lower

import (
	"fmt"

	"oatc/src/ast"
	"oatc/src/check"
	"oatc/src/llvmlite"
	"oatc/src/symbol"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Ctx holds the state shared across an entire program lowering.
type Ctx struct {
	sess    *symbol.Session
	tc      *check.TypingContext
	prog    *llvmlite.Program
	strings int // fresh-name counter for global string literals.
}

// binding records how a bound identifier (local, global, or function) is
// reached during lowering.
type binding struct {
	addr   llvmlite.Operand // the pointer operand: an alloca result or a Gid.
	t      llvmlite.Type    // the pointee type: what Load(addr) yields.
	src    ast.Type         // the surface type, kept so expression lowering can re-derive struct/array shapes.
	isFunc bool             // true if addr is already the callable value (no load).
}

// scope is one lexical level of bindings, mirroring check.Scope.
type scope map[symbol.Symbol]binding

// FuncCtx holds the state local to lowering one function body: the block
// currently being built, its label
// ("" while building the entry block), and whether it has already been
// closed off by a terminator.
type FuncCtx struct {
	c          *Ctx
	uids       int
	labels     int
	scopes     []scope
	cur        []llvmlite.InstructionEntry // instructions accumulated into the block being built.
	label      llvmlite.Label              // current block's label; "" denotes the entry block.
	terminated bool                        // true once the current block has received its terminator.
	cfg        llvmlite.CFG
}

// ---------------------
// ----- Functions -----
// ---------------------

// NewCtx returns a program-lowering context seeded with the runtime
// externals every Oat program may call into.
func NewCtx(sess *symbol.Session, tc *check.TypingContext) *Ctx {
	c := &Ctx{sess: sess, tc: tc, prog: llvmlite.NewProgram()}
	c.declareExternals()
	return c
}

func (c *Ctx) declareExternals() {
	ptrI8 := llvmlite.Ptr{Elem: llvmlite.I8{}}
	c.prog.AddExternal("oat_alloc_array", llvmlite.FunTy{Args: []llvmlite.Type{llvmlite.I64{}}, Ret: ptrI8})
	c.prog.AddExternal("oat_malloc", llvmlite.FunTy{Args: []llvmlite.Type{llvmlite.I64{}}, Ret: ptrI8})
	c.prog.AddExternal("string_of_int", llvmlite.FunTy{Args: []llvmlite.Type{llvmlite.I64{}}, Ret: ptrI8})
	c.prog.AddExternal("string_cat", llvmlite.FunTy{Args: []llvmlite.Type{ptrI8, ptrI8}, Ret: ptrI8})
	c.prog.AddExternal("print_string", llvmlite.FunTy{Args: []llvmlite.Type{ptrI8}, Ret: llvmlite.Void{}})
	c.prog.AddExternal("print_int", llvmlite.FunTy{Args: []llvmlite.Type{llvmlite.I64{}}, Ret: llvmlite.Void{}})
}

// freshString interns a string literal as a global byte array and returns
// its Gid.
func (c *Ctx) freshString(val string) llvmlite.Gid {
	c.strings++
	name := llvmlite.Gid(fmt.Sprintf("str%d", c.strings))
	c.prog.AddGlobal(name, llvmlite.GlobalDeclaration{
		T:    llvmlite.ArrayTy{N: len(val) + 1, Elem: llvmlite.I8{}},
		Init: llvmlite.StringInit{Val: val},
	})
	return name
}

// newFuncCtx opens a fresh per-function lowering context, seeded with the
// global scope (so function bodies can read and call globals) as the
// outermost scope.
func newFuncCtx(c *Ctx, globals scope) *FuncCtx {
	fc := &FuncCtx{c: c}
	fc.scopes = []scope{globals}
	return fc
}

func (fc *FuncCtx) pushScope() { fc.scopes = append(fc.scopes, scope{}) }
func (fc *FuncCtx) popScope()  { fc.scopes = fc.scopes[:len(fc.scopes)-1] }

func (fc *FuncCtx) bind(name symbol.Symbol, b binding) {
	fc.scopes[len(fc.scopes)-1][name] = b
}

func (fc *FuncCtx) lookup(name symbol.Symbol) (binding, bool) {
	for i := len(fc.scopes) - 1; i >= 0; i-- {
		if b, ok := fc.scopes[i][name]; ok {
			return b, true
		}
	}
	return binding{}, false
}

// freshUid returns a new, function-unique local register name.
func (fc *FuncCtx) freshUid() llvmlite.Uid {
	fc.uids++
	return llvmlite.Uid(fmt.Sprintf("u%d", fc.uids))
}

// freshLabel returns a new, function-unique block label.
func (fc *FuncCtx) freshLabel(hint string) llvmlite.Label {
	fc.labels++
	return llvmlite.Label(fmt.Sprintf("%s%d", hint, fc.labels))
}

// emit appends inst to the block currently being built, binding its result
// to a fresh Uid, and returns that Uid as an operand.
func (fc *FuncCtx) emit(inst llvmlite.Instruction) llvmlite.Uid {
	u := fc.freshUid()
	fc.cur = append(fc.cur, llvmlite.InstructionEntry{Uid: u, Inst: inst})
	return u
}

// startEntry opens the function's entry block.
func (fc *FuncCtx) startEntry() {
	fc.label = ""
	fc.cur = nil
	fc.terminated = false
}

// startBlock opens a fresh, empty block under lbl, becoming the block that
// emit and terminate operate on until the next startEntry/startBlock call.
func (fc *FuncCtx) startBlock(lbl llvmlite.Label) {
	fc.label = lbl
	fc.cur = nil
	fc.terminated = false
}

// terminate closes the block currently being built with term, recording it
// into the CFG under its label (or as the entry block). It is a no-op if
// the current block was already closed - statement lowering for if/while/for
// unconditionally tries to terminate the block it opened with a fallthrough
// jump, but a return statement nested inside may have already closed it.
func (fc *FuncCtx) terminate(term llvmlite.Terminator) {
	if fc.terminated {
		return
	}
	u := fc.freshUid()
	blk := llvmlite.Block{Instructions: fc.cur, Terminator: llvmlite.TerminatorEntry{Uid: u, Term: term}}
	if fc.label == "" {
		fc.cfg.Entry = blk
	} else {
		fc.cfg.AddBlock(fc.label, blk)
	}
	fc.terminated = true
}

// astType re-derives the surface type of an already type-checked
// expression. Lower does not carry an attributed AST (the type checker
// validates in place rather than annotating nodes), so wherever lowering
// needs to recover a struct name or an array's element type (projection,
// indexing) it re-runs check.TypeOf against a snapshot of the bindings
// currently visible, built from the same surface types recorded alongside
// every binding. The program already type-checked successfully by the
// time lowering runs, so TypeOf cannot fail here.
func (fc *FuncCtx) astType(e ast.Expr) ast.Type {
	return deriveType(fc.c.tc, fc.scopes, e)
}

// deriveType builds a throwaway check.LocalsContext from a flattened
// snapshot of scopes (outer to inner, later entries shadowing earlier
// ones) and asks the type checker what e's type is. Used both by
// FuncCtx.astType and by top-level global-initializer lowering, which has
// no FuncCtx of its own.
func deriveType(tc *check.TypingContext, scopes []scope, e ast.Expr) ast.Type {
	lc := check.NewLocalsContext()
	for _, sc := range scopes {
		for name, b := range sc {
			lc.Set(name, b.src)
		}
	}
	t, err := check.TypeOf(tc, lc, e)
	if err != nil {
		panic("lower: re-deriving type of a checked expression failed: " + err.Error())
	}
	return t
}

