package check

import (
	"fmt"

	"oatc/src/symbol"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Kind identifies the taxonomy of type-checking failures. The testable
// property suite asserts on Kind, not on formatted message text, so Kind is
// a proper comparable enum rather than distinct error message strings.
type Kind int

const (
	StructNotFound Kind = iota
	FieldNotFound
	DuplicateField
	MissingField
	IncompatibleType
	UndefinedVariable
	CannotSubscript
	NonIntegerIndex
	CannotGetLength
	ArrayLength
	IncompatibleArrayElement
	CanOnlyCallFunctions
	IncompatibleFunctionArgCounts
	VoidExpression
	CannotAssignFunction
	ReturnValueMissing
	ReturnValueProvidedInVoidFunction
	DeadCodeAfterReturn
	DidNotReturn
)

func (k Kind) String() string {
	switch k {
	case StructNotFound:
		return "StructNotFound"
	case FieldNotFound:
		return "FieldNotFound"
	case DuplicateField:
		return "DuplicateField"
	case MissingField:
		return "MissingField"
	case IncompatibleType:
		return "IncompatibleType"
	case UndefinedVariable:
		return "UndefinedVariable"
	case CannotSubscript:
		return "CannotSubscript"
	case NonIntegerIndex:
		return "NonIntegerIndex"
	case CannotGetLength:
		return "CannotGetLength"
	case ArrayLength:
		return "ArrayLength"
	case IncompatibleArrayElement:
		return "IncompatibleArrayElement"
	case CanOnlyCallFunctions:
		return "CanOnlyCallFunctions"
	case IncompatibleFunctionArgCounts:
		return "IncompatibleFunctionArgCounts"
	case VoidExpression:
		return "VoidExpression"
	case CannotAssignFunction:
		return "CannotAssignFunction"
	case ReturnValueMissing:
		return "ReturnValueMissing"
	case ReturnValueProvidedInVoidFunction:
		return "ReturnValueProvidedInVoidFunction"
	case DeadCodeAfterReturn:
		return "DeadCodeAfterReturn"
	case DidNotReturn:
		return "DidNotReturn"
	}
	return "UnknownKind"
}

// Error is the concrete type-checking error. Callers distinguish failures
// by Kind (switch/==), not by parsing Error()'s text.
type Error struct {
	Kind     Kind
	Name     symbol.Symbol // the offending identifier/field/struct, when applicable.
	Expected int           // IncompatibleFunctionArgCounts.
	Given    int           // IncompatibleFunctionArgCounts.
	Detail   string        // free-form context for the diagnostic line.
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Name != (symbol.Symbol{}) {
		msg += fmt.Sprintf(" %q", e.Name.String())
	}
	switch e.Kind {
	case IncompatibleFunctionArgCounts:
		msg += fmt.Sprintf(" (expected %d, given %d)", e.Expected, e.Given)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func errKind(k Kind, detail string) *Error {
	return &Error{Kind: k, Detail: detail}
}

func errName(k Kind, name symbol.Symbol, detail string) *Error {
	return &Error{Kind: k, Name: name, Detail: detail}
}
