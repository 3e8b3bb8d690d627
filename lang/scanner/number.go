package scanner

import (
	"github.com/mna/slang/lang/diag"
	"github.com/mna/slang/lang/token"
)

var intSuffixes = []string{"i32", "i64", "u32", "u64"}
var floatSuffixes = []string{"f32", "f64"}

// scanNumber scans an integer or float literal starting at start, where
// s.cur is the first digit. Floats are digits with a '.', optional exponent
// [eE][+-]?digits, and optional suffix f32|f64; integers are digits with an
// optional suffix i32|i64|u32|u64.
func (s *Scanner) scanNumber(start int) TokenValue {
	for isDigit(s.cur) {
		s.advance()
	}

	isFloat := false
	if s.cur == '.' && isDigit(s.peek()) {
		isFloat = true
		s.advance() // '.'
		for isDigit(s.cur) {
			s.advance()
		}
	}
	if s.cur == 'e' || s.cur == 'E' {
		save := s.off
		saveRoff, saveCur := s.roff, s.cur
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		if isDigit(s.cur) {
			isFloat = true
			for isDigit(s.cur) {
				s.advance()
			}
		} else {
			// not a valid exponent, backtrack.
			s.off, s.roff, s.cur = save, saveRoff, saveCur
		}
	}

	digitsEnd := s.off
	tok := token.INT
	if isFloat {
		tok = token.FLOAT
	}

	if isFloat {
		for _, suf := range floatSuffixes {
			if s.matchSuffix(suf) {
				break
			}
		}
	} else {
		for _, suf := range intSuffixes {
			if s.matchSuffix(suf) {
				break
			}
		}
	}

	lit := string(s.src[start:s.off])
	if !isFloat && !fitsU64(s.src[start:digitsEnd]) {
		s.errf(diag.InvalidNumberLiteral, start, s.off-start, "integer literal %q is too large", lit)
	}

	return s.tok(tok, lit, start)
}

// matchSuffix consumes suf if it appears at the current position and is not
// itself followed by another identifier character (so that "i32x" is not
// mistaken for suffix "i32" on identifier continuation "x").
func (s *Scanner) matchSuffix(suf string) bool {
	save := s.off
	saveRoff, saveCur := s.roff, s.cur
	for _, want := range suf {
		if s.cur != want {
			s.off, s.roff, s.cur = save, saveRoff, saveCur
			return false
		}
		s.advance()
	}
	if isLetter(s.cur) || isDigit(s.cur) {
		s.off, s.roff, s.cur = save, saveRoff, saveCur
		return false
	}
	return true
}

func fitsU64(digits []byte) bool {
	if len(digits) == 0 {
		return true
	}
	const maxU64 = "18446744073709551615"
	if len(digits) < len(maxU64) {
		return true
	}
	if len(digits) > len(maxU64) {
		return false
	}
	for i := range digits {
		if digits[i] != maxU64[i] {
			return digits[i] < maxU64[i]
		}
	}
	return true
}
