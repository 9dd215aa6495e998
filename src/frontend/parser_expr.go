package frontend

import "oatc/src/ast"

// parser_expr.go implements precedence-climbing expression parsing:
// `* > + > shifts > comparisons > bitwise-logical > boolean-logical`,
// unary prefix operators binding tighter than any binary operator, and
// left-associative postfix suffixes (call, index, projection) applied to
// atoms.

// binPrec returns the precedence of a binary operator token (higher binds
// tighter), and whether typ is a binary operator at all.
func binPrec(typ itemType) (int, ast.BinOp, bool) {
	switch typ {
	case OROR:
		return 1, ast.BinOr, true
	case ANDAND:
		return 2, ast.BinAnd, true
	case itemType('|'):
		return 3, ast.BinBitOr, true
	case itemType('&'):
		return 3, ast.BinBitAnd, true
	case EQ:
		return 4, ast.BinEq, true
	case NEQ:
		return 4, ast.BinNeq, true
	case itemType('<'):
		return 4, ast.BinLt, true
	case LE:
		return 4, ast.BinLe, true
	case itemType('>'):
		return 4, ast.BinGt, true
	case GE:
		return 4, ast.BinGe, true
	case LSHIFT:
		return 5, ast.BinShl, true
	case RSHIFT:
		return 5, ast.BinShr, true
	case itemType('+'):
		return 6, ast.BinAdd, true
	case itemType('-'):
		return 6, ast.BinSub, true
	case itemType('*'):
		return 7, ast.BinMul, true
	}
	return 0, 0, false
}

// parseExpr parses an expression whose binary operators all bind at least
// as tightly as minPrec (precedence climbing / operator-precedence
// parsing).
func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, op, ok := binPrec(p.cur.typ)
		if !ok || prec < minPrec {
			return lhs, nil
		}
		p.advance()
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = ast.BinExpr{Op: op, L: lhs, R: rhs}
	}
}

// parseUnary parses a (possibly chained) unary prefix operator applied to a
// postfix expression.
func (p *Parser) parseUnary() (ast.Expr, error) {
	var op ast.UnOp
	switch {
	case p.at(itemType('-')):
		op = ast.UnNeg
	case p.at(itemType('!')):
		op = ast.UnNot
	case p.at(itemType('~')):
		op = ast.UnBitNot
	default:
		return p.parsePostfix()
	}
	p.advance()
	e, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.UnExpr{Op: op, E: e}, nil
}

// parsePostfix parses an atom followed by any number of left-associative
// call/index/projection suffixes.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	e, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(itemType('(')):
			p.advance()
			var args []ast.Expr
			for !p.at(itemType(')')) {
				if len(args) > 0 {
					if _, err := p.expect(itemType(',')); err != nil {
						return nil, err
					}
				}
				a, err := p.parseExpr(0)
				if err != nil {
					return nil, err
				}
				args = append(args, a)
			}
			if _, err := p.expect(itemType(')')); err != nil {
				return nil, err
			}
			e = ast.CallExpr{Callee: e, Args: args}
		case p.at(itemType('[')):
			p.advance()
			idx, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(itemType(']')); err != nil {
				return nil, err
			}
			e = ast.IndexExpr{Arr: e, Index: idx}
		case p.at(itemType('.')):
			p.advance()
			f, err := p.expect(IDENTIFIER)
			if err != nil {
				return nil, err
			}
			e = ast.ProjExpr{Base: e, Field: p.sess.Intern(f.val)}
		default:
			return e, nil
		}
	}
}

// parseAtom parses the base case of the expression grammar: literals,
// identifiers (including struct literals, when immediately followed by
// `{`), parenthesized expressions, `new`, and `length`.
func (p *Parser) parseAtom() (ast.Expr, error) {
	switch {
	case p.at(TRUEKW):
		p.advance()
		return ast.BoolLit{Val: true}, nil
	case p.at(FALSEKW):
		p.advance()
		return ast.BoolLit{Val: false}, nil
	case p.at(INTEGER):
		v, err := parseIntLiteral(p.cur.val)
		if err != nil {
			return nil, p.errorf("invalid integer literal %q: %s", p.cur.val, err)
		}
		p.advance()
		return ast.IntLit{Val: v}, nil
	case p.at(STRING):
		s := unescapeString(p.cur.val)
		p.advance()
		return ast.StringLit{Val: s}, nil
	case p.at(NULLKW):
		p.advance()
		if _, err := p.expect(itemType('<')); err != nil {
			return nil, err
		}
		r, err := p.parseRType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemType('>')); err != nil {
			return nil, err
		}
		return ast.NullLit{R: r}, nil
	case p.at(IDENTIFIER):
		name := p.cur.val
		p.advance()
		if p.at(itemType('{')) {
			return p.parseStructLitFields(name)
		}
		return ast.IdentExpr{Name: p.sess.Intern(name)}, nil
	case p.at(itemType('(')):
		p.advance()
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemType(')')); err != nil {
			return nil, err
		}
		return e, nil
	case p.at(NEWKW):
		return p.parseNew()
	case p.at(LENGTHKW):
		p.advance()
		if _, err := p.expect(itemType('(')); err != nil {
			return nil, err
		}
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemType(')')); err != nil {
			return nil, err
		}
		return ast.LengthExpr{Arr: e}, nil
	}
	return nil, p.errorf("expected an expression, got %s %q", p.cur.typ.name(), p.cur.val)
}

func (p *Parser) parseStructLitFields(name string) (ast.Expr, error) {
	if _, err := p.expect(itemType('{')); err != nil {
		return nil, err
	}
	var fields []ast.FieldInit
	for !p.at(itemType('}')) {
		if len(fields) > 0 {
			if _, err := p.expect(itemType(',')); err != nil {
				return nil, err
			}
		}
		fn, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(itemType('=')); err != nil {
			return nil, err
		}
		v, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldInit{Name: p.sess.Intern(fn.val), Value: v})
	}
	if _, err := p.expect(itemType('}')); err != nil {
		return nil, err
	}
	return ast.StructLit{Name: p.sess.Intern(name), Fields: fields}, nil
}

// parseNew parses `new T[]{e1,...}` (array constructor) or `new T[expr]`
// (length-initialized new array). T itself is a non-array atomic type; the
// immediately following `[` belongs to the `new` production, not to a type
// suffix.
func (p *Parser) parseNew() (ast.Expr, error) {
	if _, err := p.expect(NEWKW); err != nil {
		return nil, err
	}
	elem, err := p.parseAtomType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('[')); err != nil {
		return nil, err
	}
	if p.at(itemType(']')) {
		p.advance()
		if _, err := p.expect(itemType('{')); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for !p.at(itemType('}')) {
			if len(elems) > 0 {
				if _, err := p.expect(itemType(',')); err != nil {
					return nil, err
				}
			}
			e, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if _, err := p.expect(itemType('}')); err != nil {
			return nil, err
		}
		return ast.ArrayCtor{Elem: elem, Elems: elems}, nil
	}
	n, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType(']')); err != nil {
		return nil, err
	}
	return ast.NewArray{Elem: elem, Len: n}, nil
}
