package scanner

import (
	"unicode/utf8"

	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

// scanString scans a "..." string literal. The closing quote must appear on
// the same logical line; an unterminated string emits ExpectedClosingQuote.
// Backslash escapes \" \\ \n \t \r are recognized.
func (s *Scanner) scanString(start int) TokenValue {
	s.advance() // opening quote

	var val []byte
	for {
		switch s.cur {
		case '"':
			s.advance()
			return TokenValue{Tok: token.STRING, Lit: string(val), Pos: s.file.Position(start, s.off-start)}
		case eof, '\n':
			s.errf(diag.ExpectedClosingQuote, start, s.off-start, "unterminated string literal")
			return TokenValue{Tok: token.STRING, Lit: string(val), Pos: s.file.Position(start, s.off-start)}
		case '\\':
			s.advance()
			switch s.cur {
			case '"':
				val = append(val, '"')
			case '\\':
				val = append(val, '\\')
			case 'n':
				val = append(val, '\n')
			case 't':
				val = append(val, '\t')
			case 'r':
				val = append(val, '\r')
			default:
				val = append(val, '\\')
				if s.cur != eof {
					val = appendRune(val, s.cur)
				}
			}
			s.advance()
		default:
			val = appendRune(val, s.cur)
			s.advance()
		}
	}
}

func appendRune(b []byte, r rune) []byte {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return append(b, buf[:n]...)
}
