package llvmlite

import (
	"fmt"
	"strings"
)

// instruction.go holds LLVMLite's non-terminating instructions, each bound
// to a Uid within its owning Block.

// Instruction is a non-terminating instruction. Every Instruction is paired
// with the Uid it defines in Block.Instructions.
type Instruction interface {
	isInstruction()
	String() string
}

// Binop computes Op1 `Op` Op2 at type T.
type Binop struct {
	Op   BinaryOperator
	T    Type
	Op1  Operand
	Op2  Operand
}

// Alloca reserves stack space for one value of type T, yielding a pointer.
type Alloca struct {
	T Type
}

// Load reads the value of type T pointed to by Src.
type Load struct {
	T   Type
	Src Operand
}

// Store writes Src (of type T) to the address Dst.
type Store struct {
	T   Type
	Src Operand
	Dst Operand
}

// Icmp compares Op1 and Op2 (both of type T) using Cond, yielding i1.
type Icmp struct {
	Cond Condition
	T    Type
	Op1  Operand
	Op2  Operand
}

// Arg is one (type, operand) actual argument of a Call.
type Arg struct {
	T   Type
	Val Operand
}

// Call invokes the function named by Callee, of type T (the function's
// return type), with the given Args.
type Call struct {
	T      Type
	Callee Operand
	Args   []Arg
}

// Bitcast reinterprets Val (of type From) as type To without changing its
// bit pattern; lowering uses it to cast oat_alloc_array's i8* result to
// the array's representation pointer.
type Bitcast struct {
	From Type
	Val  Operand
	To   Type
}

// Gep computes a pointer offset from Base (of type T) by Indices, used for
// array indexing, struct field projection, and array-length access.
type Gep struct {
	T       Type
	Base    Operand
	Indices []Operand
}

func (Binop) isInstruction()   {}
func (Alloca) isInstruction()  {}
func (Load) isInstruction()    {}
func (Store) isInstruction()   {}
func (Icmp) isInstruction()    {}
func (Call) isInstruction()    {}
func (Bitcast) isInstruction() {}
func (Gep) isInstruction()     {}

func (i Binop) String() string {
	return fmt.Sprintf("%s %s %s, %s", i.Op.String(), i.T.String(), i.Op1.String(), i.Op2.String())
}
func (i Alloca) String() string { return fmt.Sprintf("alloca %s", i.T.String()) }
func (i Load) String() string   { return fmt.Sprintf("load %s, %s", i.T.String(), i.Src.String()) }
func (i Store) String() string {
	return fmt.Sprintf("store %s %s, %s", i.T.String(), i.Src.String(), i.Dst.String())
}
func (i Icmp) String() string {
	return fmt.Sprintf("icmp %s %s %s, %s", i.Cond.String(), i.T.String(), i.Op1.String(), i.Op2.String())
}
func (i Call) String() string {
	args := make([]string, len(i.Args))
	for j, a := range i.Args {
		args[j] = fmt.Sprintf("%s %s", a.T.String(), a.Val.String())
	}
	return fmt.Sprintf("call %s %s(%s)", i.T.String(), i.Callee.String(), strings.Join(args, ", "))
}
func (i Bitcast) String() string {
	return fmt.Sprintf("bitcast %s %s to %s", i.From.String(), i.Val.String(), i.To.String())
}
func (i Gep) String() string {
	idx := make([]string, len(i.Indices))
	for j, o := range i.Indices {
		idx[j] = o.String()
	}
	return fmt.Sprintf("getelementptr %s, %s, %s", i.T.String(), i.Base.String(), strings.Join(idx, ", "))
}

// InstructionEntry pairs an Instruction with the Uid it defines.
type InstructionEntry struct {
	Uid  Uid
	Inst Instruction
}
