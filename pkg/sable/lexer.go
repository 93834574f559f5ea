package sable

import (
	"strings"
	"unicode"
)

// Lex splits source into tokens. The result always ends with an
// EndOfInput token. Characters that cannot start a token are reported and
// skipped, so one bad character never hides later problems.
func Lex(filename, source string) ([]Token, Diagnostics) {
	l := &lexer{
		filename: filename,
		src:      []rune(source),
		line:     1,
		col:      1,
	}
	l.run()
	return l.tokens, l.diags
}

type lexer struct {
	filename string
	src      []rune
	pos      int
	line     int
	col      int

	tokens []Token
	diags  Diagnostics
}

// two-character operators, checked before single characters
var twoCharOps = []string{"==", "!=", "<=", ">=", "&&", "||"}

const singleCharOps = "+-*/%=<>!\\λ"

const punctuation = "(){},;."

func (l *lexer) run() {
	for {
		l.skipSpaceAndComments()
		if l.pos >= len(l.src) {
			l.tokens = append(l.tokens, Token{Category: EndOfInput, Line: l.line, Column: l.col})
			return
		}

		r := l.src[l.pos]
		line, col := l.line, l.col

		switch {
		case unicode.IsDigit(r):
			l.emit(Number, l.takeWhile(unicode.IsDigit), line, col)

		case r == '_' || (unicode.IsLetter(r) && r != 'λ'):
			word := l.takeWhile(isIdentRune)
			if keywords[word] {
				l.emit(Keyword, word, line, col)
			} else {
				l.emit(IdentifierToken, word, line, col)
			}

		case r == '"':
			l.lexString(line, col)

		default:
			if op, ok := l.matchTwoCharOp(); ok {
				l.advance()
				l.advance()
				l.emit(Operator, op, line, col)
			} else if strings.ContainsRune(singleCharOps, r) {
				l.advance()
				l.emit(Operator, string(r), line, col)
			} else if strings.ContainsRune(punctuation, r) {
				l.advance()
				l.emit(Punctuation, string(r), line, col)
			} else {
				l.advance()
				l.diags = append(l.diags, newDiagnostic(LexicalError, InvalidCharacter,
					&SourceLocation{Filename: l.filename, Line: line, Column: col, Length: 1},
					"invalid character %q", r))
			}
		}
	}
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsDigit(r) || (unicode.IsLetter(r) && r != 'λ')
}

func (l *lexer) emit(cat TokenCategory, lexeme string, line, col int) {
	l.tokens = append(l.tokens, Token{
		Category: cat,
		Lexeme:   lexeme,
		Line:     line,
		Column:   col,
	})
}

func (l *lexer) advance() rune {
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) peekAt(offset int) (rune, bool) {
	if l.pos+offset >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos+offset], true
}

func (l *lexer) takeWhile(pred func(rune) bool) string {
	start := l.pos
	for l.pos < len(l.src) && pred(l.src[l.pos]) {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

func (l *lexer) matchTwoCharOp() (string, bool) {
	next, ok := l.peekAt(1)
	if !ok {
		return "", false
	}
	pair := string([]rune{l.src[l.pos], next})
	for _, op := range twoCharOps {
		if pair == op {
			return op, true
		}
	}
	return "", false
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		if unicode.IsSpace(r) {
			l.advance()
			continue
		}
		if next, ok := l.peekAt(1); ok && r == '/' && next == '/' {
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.advance()
			}
			continue
		}
		return
	}
}

// lexString scans a double-quoted string. The token's lexeme is the
// decoded contents without quotes.
func (l *lexer) lexString(line, col int) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) || l.src[l.pos] == '\n' {
			l.diags = append(l.diags, newDiagnostic(LexicalError, UnterminatedString,
				&SourceLocation{Filename: l.filename, Line: line, Column: col, Length: 1},
				"unterminated string literal"))
			return
		}
		r := l.advance()
		switch r {
		case '"':
			l.emit(String, sb.String(), line, col)
			return
		case '\\':
			if l.pos >= len(l.src) {
				continue
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}
