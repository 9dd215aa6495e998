package frontend

// lexGlobal starts the lexing process and serves as the default state.
func lexGlobal(l *lexer) stateFunc {
	for {
		r := l.next()
		switch {
		case isAlpha(r) || r == '_':
			// Keyword or identifier.
			return lexWord
		case isDigit(r):
			// Number.
			return lexNumber
		case r == '\n':
			// Newline.
			l.ignore()
			l.line++
			l.startOnLine = 1
		case isSpace(r):
			// Ignore whitespace. Newlines are caught before whitespaces.
			l.ignore()
		case r == '"':
			// String.
			return lexString
		case r == ':' && l.peek() == '=':
			// Assignment operator.
			l.next()
			l.emit(ASSIGN)
		case r == '<' && l.peek() == '<':
			l.next()
			l.emit(LSHIFT)
		case r == '<' && l.peek() == '=':
			l.next()
			l.emit(LE)
		case r == '>' && l.peek() == '>':
			l.next()
			l.emit(RSHIFT)
		case r == '>' && l.peek() == '=':
			l.next()
			l.emit(GE)
		case r == '=' && l.peek() == '=':
			l.next()
			l.emit(EQ)
		case r == '!' && l.peek() == '=':
			l.next()
			l.emit(NEQ)
		case r == '&' && l.peek() == '&':
			l.next()
			l.emit(ANDAND)
		case r == '|' && l.peek() == '|':
			l.next()
			l.emit(OROR)
		case r == '-' && l.peek() == '>':
			l.next()
			l.emit(ARROW)
		case r == '/' && l.peek() == '/':
			// Ignore comments.
			for c := l.next(); c != '\n' && c != eof; c = l.next() {
			}
			l.backup()
			l.ignore()
		case r == eof:
			// End of file: stop the state machine.
			l.emit(itemEOF)
			return nil
		default:
			// Single-character punctuation and operators: + - * ( ) [ ] { }
			// , . ; ? ! ~ & | < > =. The parser disambiguates by context.
			l.emit(itemType(r))
		}
	}
}

// lexWord scans the input string for keywords and identifiers. The only
// two-word reserved word, "if?", is detected here by peeking past "if" for
// an immediately following '?'.
func lexWord(l *lexer) stateFunc {
	for {
		r := l.next()
		if !isAlpha(r) && !isDigit(r) && r != '_' {
			l.backup()
			word := l.input[l.start:l.pos]
			kw, typ := isKeyword(word)
			switch {
			case kw && typ == IFKW && l.peek() == '?':
				l.next()
				l.emit(IFNULLKW)
			case kw:
				l.emit(typ)
			default:
				l.emit(IDENTIFIER)
			}
			return lexGlobal
		}
	}
}

// lexNumber scans an integer literal: decimal, or hex/octal/binary given a
// 0x/0o/0b prefix, with '_' permitted as a grouping separator. The lexer
// never scans a leading '-'; the parser applies unary minus by grammar.
func lexNumber(l *lexer) stateFunc {
	digits := "0123456789_"
	if l.input[l.pos-1] == '0' {
		switch l.peek() {
		case 'x', 'X':
			l.next()
			digits = "0123456789abcdefABCDEF_"
		case 'o', 'O':
			l.next()
			digits = "01234567_"
		case 'b', 'B':
			l.next()
			digits = "01_"
		}
	}
	l.acceptRun(digits)
	l.emit(INTEGER)
	return lexGlobal
}

// lexString scans a string literal from the input stream.
func lexString(l *lexer) stateFunc {
	// By this point we're inside the string. Accept anything until the next
	// unescaped '"' appears.
	l.ignore()
	for {
		r := l.next()
		if r == eof {
			return l.errorf("unclosed string literal at line %d:%d", l.line, l.startOnLine)
		}
		if r == '\\' {
			// Consume the escaped character without inspecting it further;
			// the parser is responsible for validating/unescaping it.
			l.next()
			continue
		}
		if r == '"' {
			l.backup()
			l.emit(STRING)
			l.next()
			l.ignore()
			return lexGlobal
		}
	}
}

// ----------------------------
// ----- Helper functions -----
// ----------------------------

// isAlpha return true if rune r is an alphabetic character in the set [a-zA-Z].
func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isDigit return true if rune r is a digit in the range [0-9].
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isSpace return true if rune r is a whitespace character.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\f' || r == '\r'
}
