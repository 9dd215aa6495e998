package ast

import "oatc/src/symbol"

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Stmt is a surface statement node.
type Stmt interface {
	isStmt()
}

// Block is an ordered sequence of statements forming a lexical scope.
type Block []Stmt

// AssignStmt is `lhs := rhs`.
type AssignStmt struct {
	LHS Expr
	RHS Expr
}

// DeclStmt is `var name = init;`, introducing name in the innermost scope.
type DeclStmt struct {
	Name symbol.Symbol
	Init Expr
}

// CallStmt is an expression-statement; the expression must be a call whose
// return type is Void.
type CallStmt struct {
	Call CallExpr
}

// IfStmt is `if (cond) Then [else Else]`.
type IfStmt struct {
	Cond Expr
	Then Block
	Else Block // nil if no else clause.
}

// IfNullCastStmt is `if? (R id = src) Then [else Else]`: narrows a nullable
// reference and binds the non-null value as id in Then.
type IfNullCastStmt struct {
	R    RType
	Name symbol.Symbol
	Src  Expr
	Then Block
	Else Block // nil if no else clause.
}

// ForStmt is `for (init; cond; update) Body`. Cond and Update are optional.
type ForStmt struct {
	Init   []Stmt
	Cond   Expr // nil if absent.
	Update Stmt // nil if absent.
	Body   Block
}

// WhileStmt is `while (cond) Body`.
type WhileStmt struct {
	Cond Expr
	Body Block
}

// ReturnStmt is `return [value];`.
type ReturnStmt struct {
	Value Expr // nil for a bare `return;`.
}

func (AssignStmt) isStmt()      {}
func (DeclStmt) isStmt()        {}
func (CallStmt) isStmt()        {}
func (IfStmt) isStmt()          {}
func (IfNullCastStmt) isStmt()  {}
func (ForStmt) isStmt()         {}
func (WhileStmt) isStmt()       {}
func (ReturnStmt) isStmt()      {}
