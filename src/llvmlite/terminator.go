package llvmlite

import "fmt"

// terminator.go holds LLVMLite's block terminators. Every Block has
// exactly one, as its last entry.

// Terminator ends a Block's instruction stream.
type Terminator interface {
	isTerminator()
	String() string
}

// Ret returns from the current function. Val is nil for a Void return.
type Ret struct {
	T   Type
	Val Operand // nil for void.
}

// Br unconditionally transfers control to Dst.
type Br struct {
	Dst Label
}

// CondBr transfers control to Then if Cond is true, else to Else.
type CondBr struct {
	Cond Operand
	Then Label
	Else Label
}

func (Ret) isTerminator()     {}
func (Br) isTerminator()      {}
func (CondBr) isTerminator()  {}

func (t Ret) String() string {
	if t.Val == nil {
		return "ret void"
	}
	return fmt.Sprintf("ret %s %s", t.T.String(), t.Val.String())
}
func (t Br) String() string { return "br label %" + string(t.Dst) }
func (t CondBr) String() string {
	return fmt.Sprintf("br %s, label %%%s, label %%%s", t.Cond.String(), t.Then, t.Else)
}

// TerminatorEntry pairs a Terminator with the Uid it defines.
type TerminatorEntry struct {
	Uid  Uid
	Term Terminator
}
