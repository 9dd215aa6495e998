// Package fold is the optional constant-folding rewrite over the surface
// AST: binary and unary operators applied to literals collapse to their
// result, an if with a constant condition reduces to the chosen branch,
// and a while(false) loop disappears. The rewrite is pure - it returns new
// nodes and never mutates its input - and it never touches a call, so
// side effects are preserved exactly.
package fold

import (
	"sync"

	"oatc/src/ast"
)

// Program folds every function body in prog, fanning the work out over up
// to threads goroutines when threads > 1. Global initializers are
// restricted to literal constant forms by the checker, so only function
// bodies contain anything to fold.
func Program(prog ast.Program, threads int) ast.Program {
	out := make(ast.Program, len(prog))

	if threads <= 1 {
		for i, d := range prog {
			out[i] = foldDecl(d)
		}
		return out
	}

	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	for i, d := range prog {
		i, d := i, d
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			out[i] = foldDecl(d)
		}()
	}
	wg.Wait()
	return out
}

func foldDecl(d ast.Decl) ast.Decl {
	fn, ok := d.(ast.FuncDecl)
	if !ok {
		return d
	}
	fn.Body = foldBlock(fn.Body)
	return fn
}

// foldBlock folds every statement, splicing in the statements a reduced
// if-with-constant-condition leaves behind.
func foldBlock(b ast.Block) ast.Block {
	var out ast.Block
	for _, s := range b {
		out = append(out, foldStmt(s)...)
	}
	return out
}

// foldStmt returns the folded replacement for s: usually one statement,
// several when an if reduces to its branch's statements, none when the
// statement is eliminated outright.
func foldStmt(s ast.Stmt) []ast.Stmt {
	switch s := s.(type) {
	case ast.AssignStmt:
		s.LHS = foldExpr(s.LHS)
		s.RHS = foldExpr(s.RHS)
		return []ast.Stmt{s}

	case ast.DeclStmt:
		s.Init = foldExpr(s.Init)
		return []ast.Stmt{s}

	case ast.CallStmt:
		s.Call = foldCall(s.Call)
		return []ast.Stmt{s}

	case ast.IfStmt:
		s.Cond = foldExpr(s.Cond)
		s.Then = foldBlock(s.Then)
		if s.Else != nil {
			s.Else = foldBlock(s.Else)
		}
		if c, ok := s.Cond.(ast.BoolLit); ok {
			branch := s.Then
			if !c.Val {
				branch = s.Else
			}
			// Splicing a branch into the enclosing block is only
			// scope-preserving when the branch declares nothing at its
			// own top level; a declaration would escape into the outer
			// scope and shadow differently after the if.
			if !declaresAtTopLevel(branch) {
				return branch
			}
		}
		return []ast.Stmt{s}

	case ast.IfNullCastStmt:
		s.Src = foldExpr(s.Src)
		s.Then = foldBlock(s.Then)
		if s.Else != nil {
			s.Else = foldBlock(s.Else)
		}
		return []ast.Stmt{s}

	case ast.ForStmt:
		init := make([]ast.Stmt, len(s.Init))
		for i, is := range s.Init {
			init[i] = foldStmt(is)[0]
		}
		s.Init = init
		if s.Cond != nil {
			s.Cond = foldExpr(s.Cond)
		}
		if s.Update != nil {
			s.Update = foldStmt(s.Update)[0]
		}
		s.Body = foldBlock(s.Body)
		return []ast.Stmt{s}

	case ast.WhileStmt:
		s.Cond = foldExpr(s.Cond)
		s.Body = foldBlock(s.Body)
		if c, ok := s.Cond.(ast.BoolLit); ok && !c.Val {
			return nil
		}
		return []ast.Stmt{s}

	case ast.ReturnStmt:
		if s.Value != nil {
			s.Value = foldExpr(s.Value)
		}
		return []ast.Stmt{s}
	}
	return []ast.Stmt{s}
}

func foldCall(e ast.CallExpr) ast.CallExpr {
	e.Callee = foldExpr(e.Callee)
	args := make([]ast.Expr, len(e.Args))
	for i, a := range e.Args {
		args[i] = foldExpr(a)
	}
	e.Args = args
	return e
}

// foldExpr folds e bottom-up.
func foldExpr(e ast.Expr) ast.Expr {
	switch e := e.(type) {
	case ast.BinExpr:
		e.L = foldExpr(e.L)
		e.R = foldExpr(e.R)
		return foldBin(e)

	case ast.UnExpr:
		e.E = foldExpr(e.E)
		return foldUn(e)

	case ast.CallExpr:
		return foldCall(e)

	case ast.IndexExpr:
		e.Arr = foldExpr(e.Arr)
		e.Index = foldExpr(e.Index)
		return e

	case ast.LengthExpr:
		e.Arr = foldExpr(e.Arr)
		return e

	case ast.ProjExpr:
		e.Base = foldExpr(e.Base)
		return e

	case ast.StructLit:
		fields := make([]ast.FieldInit, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = ast.FieldInit{Name: f.Name, Value: foldExpr(f.Value)}
		}
		e.Fields = fields
		return e

	case ast.ArrayCtor:
		elems := make([]ast.Expr, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = foldExpr(el)
		}
		e.Elems = elems
		return e

	case ast.NewArray:
		e.Len = foldExpr(e.Len)
		return e
	}
	return e
}

func foldBin(e ast.BinExpr) ast.Expr {
	if l, ok := e.L.(ast.IntLit); ok {
		if r, ok := e.R.(ast.IntLit); ok {
			return foldIntBin(e, l.Val, r.Val)
		}
	}
	if l, ok := e.L.(ast.BoolLit); ok {
		if r, ok := e.R.(ast.BoolLit); ok {
			return foldBoolBin(e, l.Val, r.Val)
		}
	}
	return e
}

func foldIntBin(e ast.BinExpr, a, b int64) ast.Expr {
	switch e.Op {
	case ast.BinAdd:
		return ast.IntLit{Val: a + b}
	case ast.BinSub:
		return ast.IntLit{Val: a - b}
	case ast.BinMul:
		return ast.IntLit{Val: a * b}
	case ast.BinShl:
		if b < 0 || b >= 64 {
			return e
		}
		return ast.IntLit{Val: a << uint(b)}
	case ast.BinShr:
		if b < 0 || b >= 64 {
			return e
		}
		return ast.IntLit{Val: a >> uint(b)}
	case ast.BinBitAnd:
		return ast.IntLit{Val: a & b}
	case ast.BinBitOr:
		return ast.IntLit{Val: a | b}
	case ast.BinLt:
		return ast.BoolLit{Val: a < b}
	case ast.BinLe:
		return ast.BoolLit{Val: a <= b}
	case ast.BinGt:
		return ast.BoolLit{Val: a > b}
	case ast.BinGe:
		return ast.BoolLit{Val: a >= b}
	case ast.BinEq:
		return ast.BoolLit{Val: a == b}
	case ast.BinNeq:
		return ast.BoolLit{Val: a != b}
	}
	return e
}

func foldBoolBin(e ast.BinExpr, a, b bool) ast.Expr {
	switch e.Op {
	case ast.BinAnd:
		return ast.BoolLit{Val: a && b}
	case ast.BinOr:
		return ast.BoolLit{Val: a || b}
	case ast.BinEq:
		return ast.BoolLit{Val: a == b}
	case ast.BinNeq:
		return ast.BoolLit{Val: a != b}
	}
	return e
}

func foldUn(e ast.UnExpr) ast.Expr {
	switch v := e.E.(type) {
	case ast.IntLit:
		switch e.Op {
		case ast.UnNeg:
			return ast.IntLit{Val: -v.Val}
		case ast.UnBitNot:
			return ast.IntLit{Val: ^v.Val}
		}
	case ast.BoolLit:
		if e.Op == ast.UnNot {
			return ast.BoolLit{Val: !v.Val}
		}
	}
	return e
}

func declaresAtTopLevel(b ast.Block) bool {
	for _, s := range b {
		if _, ok := s.(ast.DeclStmt); ok {
			return true
		}
	}
	return false
}
