package sable

import "fmt"

// TokenCategory classifies a token.
type TokenCategory int

const (
	EndOfInput TokenCategory = iota
	Number
	IdentifierToken
	Keyword
	Operator
	Punctuation
	String
)

func (c TokenCategory) String() string {
	switch c {
	case EndOfInput:
		return "end of input"
	case Number:
		return "number"
	case IdentifierToken:
		return "identifier"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	case Punctuation:
		return "punctuation"
	case String:
		return "string"
	default:
		return fmt.Sprintf("TokenCategory(%d)", int(c))
	}
}

// Token is a single lexeme with its 1-based position.
type Token struct {
	Category TokenCategory
	Lexeme   string
	Line     int
	Column   int
}

// Is reports whether the token has the given category and lexeme.
func (t Token) Is(cat TokenCategory, lexeme string) bool {
	return t.Category == cat && t.Lexeme == lexeme
}

func (t Token) String() string {
	switch t.Category {
	case EndOfInput:
		return "end of input"
	case String:
		return fmt.Sprintf("string %q", t.Lexeme)
	default:
		return quote(t.Lexeme)
	}
}

// Location returns the token's position as a SourceLocation.
func (t Token) Location(filename string) *SourceLocation {
	length := len([]rune(t.Lexeme))
	if t.Category == String {
		length += 2
	}
	return &SourceLocation{
		Filename: filename,
		Line:     t.Line,
		Column:   t.Column,
		Length:   max(length, 1),
	}
}

var keywords = map[string]bool{
	"let":    true,
	"fn":     true,
	"if":     true,
	"else":   true,
	"while":  true,
	"return": true,
	"break":  true,
	"true":   true,
	"false":  true,
}

// statementKeywords start a statement; the parser resynchronizes on them.
var statementKeywords = map[string]bool{
	"let":    true,
	"fn":     true,
	"if":     true,
	"while":  true,
	"return": true,
	"break":  true,
}
