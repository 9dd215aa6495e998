package frontend

import "fmt"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// ParseError is a generic syntactic failure at a source position.
type ParseError struct {
	Line int
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d:%d: %s", e.Line, e.Pos, e.Msg)
}

// RemainingInput is returned when the top-level parse succeeds but does not
// consume all input.
type RemainingInput struct {
	Tail string
}

func (e *RemainingInput) Error() string {
	return fmt.Sprintf("unconsumed input remains: %.20q", e.Tail)
}
