// parser.go implements a hand-written recursive-descent parser with up to
// two tokens of lookahead over the item stream produced by the channel-fed
// lexer (lexer.go, lexerStates.go).
package frontend

import (
	"fmt"
	"strconv"
	"strings"

	"oatc/src/ast"
	"oatc/src/symbol"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Parser holds the lexer and current lookahead token. peeked buffers one
// extra token for the two-token lookahead parseProgram needs to decide
// whether a lone identifier begins a declaration.
type Parser struct {
	l      *lexer
	sess   *symbol.Session
	cur    item
	peeked *item
}

// ---------------------
// ----- Functions -----
// ---------------------

// Parse parses src as a full Oat program. It reports RemainingInput if a
// well-formed prefix parses but input remains, and *ParseError for a
// syntactic failure.
func Parse(src string, sess *symbol.Session) (ast.Program, error) {
	p := newParser(src, sess)
	prog, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if p.cur.typ != itemEOF {
		return nil, &RemainingInput{Tail: p.l.input[p.l.start:]}
	}
	return prog, nil
}

func newParser(src string, sess *symbol.Session) *Parser {
	l := newLexer(src, lexGlobal)
	go l.run()
	p := &Parser{l: l, sess: sess}
	p.advance()
	return p
}

func (p *Parser) advance() {
	if p.peeked != nil {
		p.cur = *p.peeked
		p.peeked = nil
		return
	}
	p.cur = p.l.nextItem()
}

// peek returns the token following the current one without consuming it.
func (p *Parser) peek() item {
	if p.peeked == nil {
		it := p.l.nextItem()
		p.peeked = &it
	}
	return *p.peeked
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Line: p.cur.line, Pos: p.cur.pos, Msg: fmt.Sprintf(format, args...)}
}

// expect consumes the current token if it has type typ, else returns a
// *ParseError.
func (p *Parser) expect(typ itemType) (item, error) {
	if p.cur.typ == itemError {
		return item{}, &ParseError{Line: p.cur.line, Pos: p.cur.pos, Msg: p.cur.val}
	}
	if p.cur.typ != typ {
		return item{}, p.errorf("expected %s, got %s %q", typ.name(), p.cur.typ.name(), p.cur.val)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) at(typ itemType) bool {
	return p.cur.typ == typ
}

// ------------------------------
// ----- Declarations/types -----
// ------------------------------

func (p *Parser) parseProgram() (ast.Program, error) {
	var prog ast.Program
	for p.startsDecl() {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		prog = append(prog, d)
	}
	return prog, nil
}

// startsDecl reports whether the current token can begin a top-level
// declaration. A lone identifier only does when followed by another
// identifier or a type suffix, which distinguishes a struct-returning
// function header from trailing junk (reported as RemainingInput rather
// than a failure inside a declaration that never really started).
func (p *Parser) startsDecl() bool {
	switch p.cur.typ {
	case STRUCTKW, VARKW, VOIDKW, BOOLKW, INTKW, STRINGKW, itemType('('):
		return true
	case IDENTIFIER:
		switch p.peek().typ {
		case IDENTIFIER, itemType('['), itemType('?'):
			return true
		}
	}
	return false
}

// parseDecl parses one top-level declaration: a struct type, a global
// variable (reusing the `var id = expr;` production from statement-level
// local declarations, since the grammar has no separate "global" keyword),
// or a function.
func (p *Parser) parseDecl() (ast.Decl, error) {
	switch {
	case p.at(STRUCTKW):
		return p.parseTypeDecl()
	case p.at(VARKW):
		return p.parseGlobalDecl()
	default:
		return p.parseFuncDecl()
	}
}

func (p *Parser) parseTypeDecl() (ast.Decl, error) {
	if _, err := p.expect(STRUCTKW); err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('{')); err != nil {
		return nil, err
	}
	var fields []ast.FieldDecl
	seen := map[string]bool{}
	for !p.at(itemType('}')) {
		ft, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if seen[fn.val] {
			return nil, p.errorf("duplicate field %q in struct %q", fn.val, name.val)
		}
		seen[fn.val] = true
		if _, err := p.expect(itemType(';')); err != nil {
			return nil, err
		}
		fields = append(fields, ast.FieldDecl{Name: p.sess.Intern(fn.val), Type: ft})
	}
	if _, err := p.expect(itemType('}')); err != nil {
		return nil, err
	}
	return ast.TypeDecl{Name: p.sess.Intern(name.val), Fields: fields}, nil
}

func (p *Parser) parseGlobalDecl() (ast.Decl, error) {
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
	return ast.GlobalDecl{Name: p.sess.Intern(name.val), Init: init}, nil
}

func (p *Parser) parseFuncDecl() (ast.Decl, error) {
	ret, err := p.parseReturnType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(itemType('(')); err != nil {
		return nil, err
	}
	var params []ast.Param
	seen := map[string]bool{}
	for !p.at(itemType(')')) {
		if len(params) > 0 {
			if _, err := p.expect(itemType(',')); err != nil {
				return nil, err
			}
		}
		pt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		pn, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		if seen[pn.val] {
			return nil, p.errorf("duplicate parameter name %q", pn.val)
		}
		seen[pn.val] = true
		params = append(params, ast.Param{Name: p.sess.Intern(pn.val), Type: pt})
	}
	if _, err := p.expect(itemType(')')); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.FuncDecl{Name: p.sess.Intern(name.val), Ret: ret, Params: params, Body: body}, nil
}

func (p *Parser) parseReturnType() (ast.ReturnType, error) {
	if p.at(VOIDKW) {
		p.advance()
		return ast.VoidReturn{}, nil
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ast.ValueReturn{T: t}, nil
}

// parseType parses a full Type: an atomic form followed by any number of
// `[]` (array) and `?` (nullable) suffixes.
func (p *Parser) parseType() (ast.Type, error) {
	t, err := p.parseAtomType()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(itemType('[')):
			p.advance()
			if _, err := p.expect(itemType(']')); err != nil {
				return nil, err
			}
			t = ast.RefT{R: ast.ArrayT{Elem: t}}
		case p.at(itemType('?')):
			p.advance()
			ref, ok := t.(ast.RefT)
			if !ok {
				return nil, p.errorf("'?' may only follow a reference type")
			}
			t = ast.NullRefT{R: ref.R}
		default:
			return t, nil
		}
	}
}

func (p *Parser) parseAtomType() (ast.Type, error) {
	switch {
	case p.at(BOOLKW):
		p.advance()
		return ast.BoolType{}, nil
	case p.at(INTKW):
		p.advance()
		return ast.IntType{}, nil
	case p.at(STRINGKW):
		p.advance()
		return ast.RefT{R: ast.StringT{}}, nil
	case p.at(IDENTIFIER):
		name := p.cur.val
		p.advance()
		return ast.RefT{R: ast.StructT{Name: p.sess.Intern(name)}}, nil
	case p.at(itemType('(')):
		p.advance()
		var args []ast.Type
		for !p.at(itemType(')')) {
			if len(args) > 0 {
				if _, err := p.expect(itemType(',')); err != nil {
					return nil, err
				}
			}
			at, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, at)
		}
		if _, err := p.expect(itemType(')')); err != nil {
			return nil, err
		}
		if _, err := p.expect(ARROW); err != nil {
			return nil, err
		}
		ret, err := p.parseReturnType()
		if err != nil {
			return nil, err
		}
		return ast.RefT{R: ast.FuncT{Args: args, Ret: ret}}, nil
	}
	return nil, p.errorf("expected a type, got %s %q", p.cur.typ.name(), p.cur.val)
}

// parseRType parses a bare reference type R (used by `if?`'s binder, where
// the grammar names a reference type rather than a full Type).
func (p *Parser) parseRType() (ast.RType, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case ast.RefT:
		return t.R, nil
	default:
		return nil, p.errorf("expected a reference type")
	}
}

// ---------------------------
// ----- Literal parsing -----
// ---------------------------

// parseIntLiteral parses a decimal/hex/octal/binary integer with optional
// '_' grouping separators, as produced by lexNumber.
func parseIntLiteral(s string) (int64, error) {
	s = strings.ReplaceAll(s, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base = 8
		s = s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base = 2
		s = s[2:]
	}
	return strconv.ParseInt(s, base, 64)
}

// unescapeString resolves standard backslash escapes in a string literal's
// raw contents (\n \t \\ \" and similar).
func unescapeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		case '"':
			sb.WriteByte('"')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}
