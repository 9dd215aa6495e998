package ast

import (
	"fmt"
	"strings"
)

// ----------------------------------
// ----- Debug-print functions -----
// ----------------------------------

func (BoolType) String() string { return "bool" }
func (IntType) String() string  { return "int" }

func (t RefT) String() string     { return t.R.String() }
func (t NullRefT) String() string { return t.R.String() + "?" }

func (StringT) String() string { return "string" }
func (t StructT) String() string { return t.Name.String() }
func (t ArrayT) String() string  { return t.Elem.String() + "[]" }

func (t FuncT) String() string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(args, ", "), t.Ret.String())
}

func (VoidReturn) String() string { return "void" }
func (t ValueReturn) String() string { return t.T.String() }
