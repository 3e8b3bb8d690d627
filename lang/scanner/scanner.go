// Package scanner implements the Slang lexer: a single-pass, byte-oriented
// tokenizer that turns source bytes into a stream of token.Token values with
// positions and lexemes.
package scanner

import (
	"unicode"
	"unicode/utf8"

	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

// TokenValue is one scanned token: its kind, its raw lexeme, and its
// resolved position.
type TokenValue struct {
	Tok  token.Token
	Lit  string
	Pos  token.Position
}

// Scanner turns a byte slice into a sequence of TokenValue. It is single-pass
// and does not attempt error recovery beyond emitting an ILLEGAL token and
// recording a diagnostic; the caller (parser) decides how to recover.
type Scanner struct {
	file *token.File
	src  []byte
	errs *diag.Bag

	off    int  // offset of cur
	roff   int  // offset of the next rune
	cur    rune // current rune, or -1 at EOF
}

// New creates a Scanner over file, reporting lexical errors into errs.
func New(file *token.File, errs *diag.Bag) *Scanner {
	s := &Scanner{file: file, src: file.Src, errs: errs}
	s.skipBOMAndHashbang()
	s.advance()
	return s
}

func (s *Scanner) skipBOMAndHashbang() {
	if len(s.src) >= 3 && s.src[0] == 0xEF && s.src[1] == 0xBB && s.src[2] == 0xBF {
		s.src = s.src[3:]
	}
	if len(s.src) >= 2 && s.src[0] == '#' && s.src[1] == '!' {
		i := 0
		for i < len(s.src) && s.src[i] != '\n' {
			i++
		}
		s.src = s.src[i:]
	}
}

const eof rune = -1

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		s.cur = eof
		return
	}
	s.off = s.roff
	r, sz := utf8.DecodeRune(s.src[s.roff:])
	if r == utf8.RuneError && sz <= 1 {
		r = rune(s.src[s.roff])
		sz = 1
	}
	s.cur = r
	s.roff += sz
}

func (s *Scanner) peek() rune {
	if s.roff >= len(s.src) {
		return eof
	}
	r, _ := utf8.DecodeRune(s.src[s.roff:])
	return r
}

func isLetter(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isDigit(r rune) bool  { return unicode.IsDigit(r) }

func (s *Scanner) skipWhitespace() {
	for {
		switch {
		case s.cur == ' ' || s.cur == '\t' || s.cur == '\r' || s.cur == '\n':
			s.advance()
		case s.cur == '/' && s.peek() == '/':
			for s.cur != '\n' && s.cur != eof {
				s.advance()
			}
		case s.cur == '/' && s.peek() == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

// skipBlockComment consumes a /* ... */ comment, nesting on inner /* and
// unnesting on */, ending consumption at depth 0.
func (s *Scanner) skipBlockComment() {
	start := s.off
	s.advance() // '/'
	s.advance() // '*'
	depth := 1
	for depth > 0 {
		if s.cur == eof {
			s.errf(diag.InvalidSyntax, start, s.off-start, "unterminated block comment")
			return
		}
		if s.cur == '/' && s.peek() == '*' {
			s.advance()
			s.advance()
			depth++
			continue
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			depth--
			continue
		}
		s.advance()
	}
}

func (s *Scanner) errf(code diag.Code, start, length int, format string, args ...interface{}) {
	pos := s.file.Position(start, length)
	s.errs.Addf(code, pos, format, args...)
}

// Scan returns the next token in the stream. It always eventually returns an
// EOF token and may be called repeatedly past EOF, which keeps returning
// EOF.
func (s *Scanner) Scan() TokenValue {
	s.skipWhitespace()
	start := s.off

	if s.cur == eof {
		return s.tok(token.EOF, "", start)
	}

	switch {
	case isLetter(s.cur):
		return s.scanIdent(start)
	case isDigit(s.cur):
		return s.scanNumber(start)
	case s.cur == '"':
		return s.scanString(start)
	}

	return s.scanOperator(start)
}

func (s *Scanner) tok(tok token.Token, lit string, start int) TokenValue {
	length := s.off - start
	if length <= 0 {
		length = len(lit)
	}
	return TokenValue{Tok: tok, Lit: lit, Pos: s.file.Position(start, length)}
}

func (s *Scanner) scanIdent(start int) TokenValue {
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	lit := string(s.src[start:s.off])
	return s.tok(token.Lookup(lit), lit, start)
}

// scanOperator handles punctuation and multi-character operators, longest
// match first, and reports unknown bytes as ILLEGAL.
func (s *Scanner) scanOperator(start int) TokenValue {
	ch := s.cur
	s.advance()

	two := func(next rune, tt token.Token, single token.Token) TokenValue {
		if s.cur == next {
			s.advance()
			return s.tok(tt, "", start)
		}
		return s.tok(single, "", start)
	}

	switch ch {
	case '+':
		return s.tok(token.PLUS, "", start)
	case '-':
		return two('>', token.ARROW, token.MINUS)
	case '*':
		return s.tok(token.STAR, "", start)
	case '/':
		return s.tok(token.SLASH, "", start)
	case '!':
		return two('=', token.NEQ, token.BANG)
	case '=':
		return two('=', token.EQ, token.ASSIGN)
	case '<':
		return two('=', token.LE, token.LT)
	case '>':
		return two('=', token.GE, token.GT)
	case '&':
		if s.cur == '&' {
			s.advance()
			return s.tok(token.AND, "", start)
		}
	case '|':
		if s.cur == '|' {
			s.advance()
			return s.tok(token.OR, "", start)
		}
	case '(':
		return s.tok(token.LPAREN, "", start)
	case ')':
		return s.tok(token.RPAREN, "", start)
	case '{':
		return s.tok(token.LBRACE, "", start)
	case '}':
		return s.tok(token.RBRACE, "", start)
	case ',':
		return s.tok(token.COMMA, "", start)
	case ':':
		return s.tok(token.COLON, "", start)
	case ';':
		return s.tok(token.SEMI, "", start)
	}

	lit := string(s.src[start:s.off])
	s.errf(diag.InvalidSyntax, start, s.off-start, "unexpected character %q", lit)
	return s.tok(token.ILLEGAL, lit, start)
}

// ScanAll scans every token in the file and returns the full list, including
// the terminal EOF.
func ScanAll(file *token.File, errs *diag.Bag) []TokenValue {
	sc := New(file, errs)
	var out []TokenValue
	for {
		tv := sc.Scan()
		out = append(out, tv)
		if tv.Tok == token.EOF {
			return out
		}
	}
}
