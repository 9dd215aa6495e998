// Tests the lexer by verifying that a small Oat snippet is tokenized in the
// expected order.

package frontend

import "testing"

func TestLexer(t *testing.T) {
	src := `struct point { int x; int y; }
int dist(point p) {
	if? (point q = null) {
		return 0;
	} else {
		return q.x + q.y;
	}
}
`

	exp := []item{
		{typ: STRUCTKW, val: "struct"},
		{typ: IDENTIFIER, val: "point"},
		{typ: itemType('{'), val: "{"},
		{typ: INTKW, val: "int"},
		{typ: IDENTIFIER, val: "x"},
		{typ: itemType(';'), val: ";"},
		{typ: INTKW, val: "int"},
		{typ: IDENTIFIER, val: "y"},
		{typ: itemType(';'), val: ";"},
		{typ: itemType('}'), val: "}"},
		{typ: INTKW, val: "int"},
		{typ: IDENTIFIER, val: "dist"},
		{typ: itemType('('), val: "("},
		{typ: IDENTIFIER, val: "point"},
		{typ: IDENTIFIER, val: "p"},
		{typ: itemType(')'), val: ")"},
		{typ: itemType('{'), val: "{"},
		{typ: IFNULLKW, val: "if?"},
		{typ: itemType('('), val: "("},
		{typ: IDENTIFIER, val: "point"},
		{typ: IDENTIFIER, val: "q"},
		{typ: itemType('='), val: "="},
		{typ: NULLKW, val: "null"},
		{typ: itemType(')'), val: ")"},
		{typ: itemType('{'), val: "{"},
		{typ: RETURNKW, val: "return"},
		{typ: INTEGER, val: "0"},
		{typ: itemType(';'), val: ";"},
		{typ: itemType('}'), val: "}"},
		{typ: ELSEKW, val: "else"},
		{typ: itemType('{'), val: "{"},
		{typ: RETURNKW, val: "return"},
		{typ: IDENTIFIER, val: "q"},
		{typ: itemType('.'), val: "."},
		{typ: IDENTIFIER, val: "x"},
		{typ: itemType('+'), val: "+"},
		{typ: IDENTIFIER, val: "q"},
		{typ: itemType('.'), val: "."},
		{typ: IDENTIFIER, val: "y"},
		{typ: itemType(';'), val: ";"},
		{typ: itemType('}'), val: "}"},
		{typ: itemType('}'), val: "}"},
	}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i1 := 0; ; i1++ {
		tok := l.nextItem()
		if tok.typ == itemEOF {
			if i1 < len(exp) {
				t.Fatalf("expected %d tokens, got %d", len(exp), i1)
			}
			break
		}
		if i1 >= len(exp) {
			t.Fatalf("expected %d tokens, got more: %s", len(exp), tok.String())
		}
		if tok.typ != exp[i1].typ || tok.val != exp[i1].val {
			t.Errorf("(token %d): expected %q (%d), got %q (%d)", i1+1, exp[i1].val, exp[i1].typ, tok.val, tok.typ)
		}
	}
}

func TestLexerHexOctalBinary(t *testing.T) {
	src := `0x1F 0o17 0b101 42`
	exp := []string{"0x1F", "0o17", "0b101", "42"}

	l := newLexer(src, lexGlobal)
	go l.run()

	for i1, want := range exp {
		tok := l.nextItem()
		if tok.typ != INTEGER {
			t.Fatalf("token %d: expected INTEGER, got %s", i1, tok.String())
		}
		if tok.val != want {
			t.Errorf("token %d: expected %q, got %q", i1, want, tok.val)
		}
	}
}
