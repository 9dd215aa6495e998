package frontend

import "oatc/src/ast"

// parser_stmt.go implements the statement and block grammar.

func (p *Parser) parseBlock() (ast.Block, error) {
	if _, err := p.expect(itemType('{')); err != nil {
		return nil, err
	}
	var stmts ast.Block
	for !p.at(itemType('}')) {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(itemType('}')); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch {
	case p.at(VARKW):
		return p.parseDeclStmt()
	case p.at(IFKW):
		return p.parseIfStmt()
	case p.at(IFNULLKW):
		return p.parseIfNullStmt()
	case p.at(FORKW):
		return p.parseForStmt()
	case p.at(WHILEKW):
		return p.parseWhileStmt()
	case p.at(RETURNKW):
		return p.parseReturnStmt()
	default:
		return p.parseSimpleStmt(true)
	}
}

func (p *Parser) parseDeclStmt() (ast.Stmt, error) {
	if _, err := p.expect(VARKW); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('=')); err != nil {
		return nil, err
	}
	init, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType(';')); err != nil {
		return nil, err
	}
	return ast.DeclStmt{Name: p.sess.Intern(name.val), Init: init}, nil
}

// parseSimpleStmt parses an assignment or a call-statement: both start with
// an expression, disambiguated by what follows it. requireSemi controls
// whether the trailing ';' is consumed here (false inside a for-header,
// where the caller owns the delimiter).
func (p *Parser) parseSimpleStmt(requireSemi bool) (ast.Stmt, error) {
	lhs, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.at(ASSIGN) {
		switch lhs.(type) {
		case ast.IdentExpr, ast.ProjExpr, ast.IndexExpr:
		default:
			return nil, p.errorf("left side of ':=' must be a variable, field or array element")
		}
		p.advance()
		rhs, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if requireSemi {
			if _, err := p.expect(itemType(';')); err != nil {
				return nil, err
			}
		}
		return ast.AssignStmt{LHS: lhs, RHS: rhs}, nil
	}
	ce, ok := lhs.(ast.CallExpr)
	if !ok {
		return nil, p.errorf("expression statement must be an assignment or a call")
	}
	if requireSemi {
		if _, err := p.expect(itemType(';')); err != nil {
			return nil, err
		}
	}
	return ast.CallStmt{Call: ce}, nil
}

func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	if _, err := p.expect(IFKW); err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('(')); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType(')')); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Block
	if p.at(ELSEKW) {
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfStmt{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseIfNullStmt() (ast.Stmt, error) {
	if _, err := p.expect(IFNULLKW); err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('(')); err != nil {
		return nil, err
	}
	r, err := p.parseRType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('=')); err != nil {
		return nil, err
	}
	src, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType(')')); err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var els ast.Block
	if p.at(ELSEKW) {
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfNullCastStmt{R: r, Name: p.sess.Intern(name.val), Src: src, Then: then, Else: els}, nil
}

func (p *Parser) parseForStmt() (ast.Stmt, error) {
	if _, err := p.expect(FORKW); err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('(')); err != nil {
		return nil, err
	}
	var init []ast.Stmt
	for !p.at(itemType(';')) {
		if len(init) > 0 {
			if _, err := p.expect(itemType(',')); err != nil {
				return nil, err
			}
		}
		var s ast.Stmt
		var err error
		if p.at(VARKW) {
			s, err = p.parseDeclStmtNoSemi()
		} else {
			s, err = p.parseSimpleStmt(false)
		}
		if err != nil {
			return nil, err
		}
		init = append(init, s)
	}
	if _, err := p.expect(itemType(';')); err != nil {
		return nil, err
	}
	var cond ast.Expr
	if !p.at(itemType(';')) {
		var err error
		cond, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(itemType(';')); err != nil {
		return nil, err
	}
	var update ast.Stmt
	if !p.at(itemType(')')) {
		var err error
		update, err = p.parseSimpleStmt(false)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(itemType(')')); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body}, nil
}

// parseDeclStmtNoSemi parses `var id = expr` without consuming a trailing
// ';', for use inside a for-loop's init list.
func (p *Parser) parseDeclStmtNoSemi() (ast.Stmt, error) {
	if _, err := p.expect(VARKW); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('=')); err != nil {
		return nil, err
	}
	init, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	return ast.DeclStmt{Name: p.sess.Intern(name.val), Init: init}, nil
}

func (p *Parser) parseWhileStmt() (ast.Stmt, error) {
	if _, err := p.expect(WHILEKW); err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('(')); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType(')')); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Cond: cond, Body: body}, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	if _, err := p.expect(RETURNKW); err != nil {
		return nil, err
	}
	var val ast.Expr
	if !p.at(itemType(';')) {
		var err error
		val, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(itemType(';')); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: val}, nil
}
