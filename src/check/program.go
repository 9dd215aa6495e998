package check

import (
	"fmt"
	"sync"

	"oatc/src/ast"
	"oatc/src/symbol"
	"oatc/src/util"
)

// program.go implements the top-level program rule: every global is
// pre-bound into the top scope (sequentially, so later globals and
// functions can see earlier ones regardless of evaluation order), every
// struct declaration is checked for well-formedness and duplicate field
// names, and every function body is checked against its own locals scope.
// When threads > 1, function bodies are checked concurrently across
// goroutines: the pre-binding pass always runs
// sequentially first since it establishes the shared TypingContext and
// top-level Scope that every worker then only reads from.

// Program type-checks every declaration in prog and returns every error
// found, not just the first. threads bounds how many function bodies may
// be checked concurrently; 1 checks them sequentially in declaration
// order.
func Program(prog ast.Program, threads int) []error {
	tc := NewTypingContext(prog)

	var errs []error
	for _, d := range prog {
		if td, ok := d.(ast.TypeDecl); ok {
			if err := checkStructDecl(td); err != nil {
				errs = append(errs, err)
			}
		}
	}

	top := NewLocalsContext()
	var funcs []ast.FuncDecl

	for _, d := range prog {
		switch d := d.(type) {
		case ast.GlobalDecl:
			if err := checkGlobalInit(d); err != nil {
				errs = append(errs, err)
				continue
			}
			t, err := TypeOf(tc, top, d.Init)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			top.Set(d.Name, t)
		case ast.FuncDecl:
			ft := ast.FuncT{Ret: d.Ret}
			for _, p := range d.Params {
				ft.Args = append(ft.Args, p.Type)
			}
			top.Set(d.Name, ast.RefT{R: ft})
			funcs = append(funcs, d)
		}
	}

	for _, t := range tc.structs {
		for _, f := range t {
			if !WellFormed(tc, f.Type) {
				errs = append(errs, errKind(StructNotFound, "field type is not well-formed"))
			}
		}
	}

	if threads <= 1 {
		for _, fn := range funcs {
			if err := checkFunc(tc, top, fn); err != nil {
				errs = append(errs, err)
			}
		}
		return errs
	}

	pe := util.NewPerror(len(funcs))
	sem := make(chan struct{}, threads)
	var wg sync.WaitGroup
	for _, fn := range funcs {
		fn := fn
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := checkFunc(tc, top, fn); err != nil {
				pe.Append(err)
			}
		}()
	}
	wg.Wait()
	pe.Stop()
	for err := range pe.Errors() {
		errs = append(errs, err)
	}
	return errs
}

// checkGlobalInit restricts a global's initializer to the constant forms
// lowering can emit into a .data block: null, boolean, integer and string
// literals, and references to other globals. Anything else is rejected
// here, during pre-binding, so lowering never sees it.
func checkGlobalInit(d ast.GlobalDecl) error {
	switch d.Init.(type) {
	case ast.NullLit, ast.BoolLit, ast.IntLit, ast.StringLit, ast.IdentExpr:
		return nil
	}
	return errName(IncompatibleType, d.Name, "global initializer must be a literal or a reference to another global")
}

// checkStructDecl enforces unique field names within one struct
// declaration. Cross-field well-formedness is checked once the full
// TypingContext exists, by Program.
func checkStructDecl(td ast.TypeDecl) error {
	seen := map[symbol.Symbol]bool{}
	for _, f := range td.Fields {
		if seen[f.Name] {
			return errName(DuplicateField, f.Name, fmt.Sprintf("in struct %q", td.Name.String()))
		}
		seen[f.Name] = true
	}
	return nil
}

// checkFunc type-checks one function body in its own LocalsContext, seeded
// with the function's parameters and closed over the shared top-level
// scope (globals and every function's own reference type).
func checkFunc(tc *TypingContext, top *LocalsContext, fn ast.FuncDecl) error {
	for _, p := range fn.Params {
		if !WellFormed(tc, p.Type) {
			return errName(StructNotFound, fn.Name, "parameter type names an undeclared struct")
		}
	}
	if vr, ok := fn.Ret.(ast.ValueReturn); ok && !WellFormed(tc, vr.T) {
		return errName(StructNotFound, fn.Name, "return type names an undeclared struct")
	}

	lc := top.Base()
	lc.Push()
	for _, p := range fn.Params {
		lc.Set(p.Name, p.Type)
	}
	returns, err := checkBlockNoScope(tc, lc, fn.Ret, fn.Body)
	if err != nil {
		return err
	}
	if !returns {
		if _, void := fn.Ret.(ast.VoidReturn); !void {
			return errName(DidNotReturn, fn.Name, "")
		}
	}
	return nil
}
