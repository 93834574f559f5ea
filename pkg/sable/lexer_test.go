package sable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexemes(tokens []Token) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, tok.Lexeme)
	}
	return out
}

func TestLexStatement(t *testing.T) {
	tokens, diags := Lex("test.sable", "let x = 1 + 23;")
	require.Empty(t, diags)
	require.Equal(t, []string{"let", "x", "=", "1", "+", "23", ";", ""}, lexemes(tokens))

	assert.Equal(t, Token{Category: Keyword, Lexeme: "let", Line: 1, Column: 1}, tokens[0])
	assert.Equal(t, Token{Category: IdentifierToken, Lexeme: "x", Line: 1, Column: 5}, tokens[1])
	assert.Equal(t, Token{Category: Number, Lexeme: "23", Line: 1, Column: 13}, tokens[5])
	assert.Equal(t, Token{Category: Punctuation, Lexeme: ";", Line: 1, Column: 15}, tokens[6])
	assert.Equal(t, EndOfInput, tokens[7].Category)
}

func TestLexOperators(t *testing.T) {
	tokens, diags := Lex("", "a==b != c<=d>=e&&f||!g <h> i % j")
	require.Empty(t, diags)
	assert.Equal(t, []string{
		"a", "==", "b", "!=", "c", "<=", "d", ">=", "e", "&&", "f", "||", "!", "g",
		"<", "h", ">", "i", "%", "j", "",
	}, lexemes(tokens))
}

func TestLexLambda(t *testing.T) {
	tokens, diags := Lex("", `\x y. λz. x`)
	require.Empty(t, diags)
	assert.Equal(t, []string{`\`, "x", "y", ".", "λ", "z", ".", "x", ""}, lexemes(tokens))
	assert.Equal(t, Operator, tokens[0].Category)
	assert.Equal(t, Operator, tokens[4].Category)
	assert.Equal(t, 8, tokens[5].Column)
}

func TestLexPositionsAcrossLines(t *testing.T) {
	tokens, diags := Lex("", "let a = 1;\n  // comment\n  a;")
	require.Empty(t, diags)
	last := tokens[len(tokens)-3]
	assert.Equal(t, "a", last.Lexeme)
	assert.Equal(t, 3, last.Line)
	assert.Equal(t, 3, last.Column)
}

func TestLexStrings(t *testing.T) {
	tokens, diags := Lex("", `"a \"quoted\"\tword\n"`)
	require.Empty(t, diags)
	require.Len(t, tokens, 2)
	assert.Equal(t, String, tokens[0].Category)
	assert.Equal(t, "a \"quoted\"\tword\n", tokens[0].Lexeme)
}

func TestLexUnterminatedString(t *testing.T) {
	tokens, diags := Lex("f.sable", "let s = \"abc\nlet t = 1;")
	require.Len(t, diags, 1)
	assert.Equal(t, LexicalError, diags[0].Kind)
	assert.Equal(t, UnterminatedString, diags[0].Code)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 9, diags[0].Column)
	assert.Equal(t, "f.sable", diags[0].Filename)

	// scanning resumes on the next line
	assert.Contains(t, lexemes(tokens), "t")
}

func TestLexSkipsInvalidCharacters(t *testing.T) {
	tokens, diags := Lex("", "let x = 1 @ $;")
	require.Len(t, diags, 2)
	assert.Equal(t, []DiagnosticCode{InvalidCharacter, InvalidCharacter}, diags.Codes())
	assert.Equal(t, 11, diags[0].Column)
	assert.Equal(t, 13, diags[1].Column)
	assert.Equal(t, []string{"let", "x", "=", "1", ";", ""}, lexemes(tokens))
}

func TestLexKeywords(t *testing.T) {
	tokens, _ := Lex("", "fn if else while return break true false letter")
	for _, tok := range tokens[:8] {
		assert.Equal(t, Keyword, tok.Category, tok.Lexeme)
	}
	assert.Equal(t, IdentifierToken, tokens[8].Category)
}
