package sable

// DefaultMaxDepth is the nesting depth at which parsing gives up with
// RecursionLimitExceeded.
const DefaultMaxDepth = 512

// Parser turns a token stream into a Program. It never panics on bad
// input; every problem becomes a diagnostic and parsing resumes at the
// next statement boundary.
type Parser struct {
	filename string
	tokens   []Token
	pos      int

	depth    int
	maxDepth int
	tooDeep  bool

	loopDepth int
	fnDepth   int

	diags Diagnostics
}

// NewParser creates a parser over tokens, which must end with EndOfInput.
// A maxDepth of zero or less selects DefaultMaxDepth.
func NewParser(filename string, tokens []Token, maxDepth int) *Parser {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Category != EndOfInput {
		line, col := 1, 1
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			line, col = last.Line, last.Column+len([]rune(last.Lexeme))
		}
		tokens = append(tokens, Token{Category: EndOfInput, Line: line, Column: col})
	}
	return &Parser{
		filename: filename,
		tokens:   tokens,
		maxDepth: maxDepth,
	}
}

// Parse lexes and parses source. Lexical and syntax diagnostics are
// returned together, ordered by position.
func Parse(filename, source string, maxDepth int) (*Program, Diagnostics) {
	tokens, lexDiags := Lex(filename, source)
	p := NewParser(filename, tokens, maxDepth)
	prog := p.ParseProgram()
	diags := append(lexDiags, p.Diagnostics()...)
	diags.Sort()
	return prog, diags
}

// Diagnostics returns the syntax problems found so far, in the order they
// were found.
func (p *Parser) Diagnostics() Diagnostics {
	return p.diags
}

// ParseProgram parses the whole token stream as a top-level block.
func (p *Parser) ParseProgram() *Program {
	body := &Block{Loc: p.loc(p.peek())}
	for !p.atEnd() {
		if p.tooDeep {
			p.pos = len(p.tokens) - 1
			break
		}
		if p.peek().Is(Punctuation, ";") {
			p.next()
			continue
		}
		start := p.pos
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize(true)
			if p.pos == start && !p.atEnd() {
				p.next()
			}
			continue
		}
		body.Stmts = append(body.Stmts, stmt)
	}
	return &Program{Filename: p.filename, Body: body}
}

func (p *Parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+offset]
}

func (p *Parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Category != EndOfInput {
		p.pos++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.peek().Category == EndOfInput
}

func (p *Parser) loc(tok Token) *SourceLocation {
	return tok.Location(p.filename)
}

// enter guards recursive descent. Once the limit is hit every further
// call fails so that the error unwinds without further reports.
func (p *Parser) enter() bool {
	if p.tooDeep {
		return false
	}
	p.depth++
	if p.depth > p.maxDepth {
		p.tooDeep = true
		p.errorf(ParseError, RecursionLimitExceeded, p.loc(p.peek()),
			"nesting exceeds the limit of %d levels", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) errorf(kind DiagnosticKind, code DiagnosticCode, loc *SourceLocation, format string, args ...any) {
	p.diags = append(p.diags, newDiagnostic(kind, code, loc, format, args...))
}

// expect consumes a token with the given category and lexeme, or reports
// ExpectedToken and leaves the stream where it is.
func (p *Parser) expect(cat TokenCategory, lexeme string) (Token, bool) {
	tok := p.peek()
	if tok.Is(cat, lexeme) {
		return p.next(), true
	}
	p.expectedToken(quote(lexeme), tok)
	return tok, false
}

func (p *Parser) expectIdentifier(what string) (Token, bool) {
	tok := p.peek()
	if tok.Category == IdentifierToken {
		return p.next(), true
	}
	p.expectedToken(what, tok)
	return tok, false
}

func (p *Parser) expectedToken(expected string, found Token) {
	d := newDiagnostic(ParseError, ExpectedToken, p.loc(found),
		"expected %s, found %s", expected, found)
	d.Expected = expected
	d.Found = found.String()
	p.diags = append(p.diags, d)
}

// expectClose consumes the closing delimiter matching open. Running out of
// input reports UnclosedDelimiter at the opener instead of ExpectedToken.
func (p *Parser) expectClose(open Token, closing string) bool {
	tok := p.peek()
	if tok.Is(Punctuation, closing) {
		p.next()
		return true
	}
	if tok.Category == EndOfInput {
		p.errorf(ParseError, UnclosedDelimiter, p.loc(open),
			"%s is never closed", quote(open.Lexeme))
		return false
	}
	p.expectedToken(quote(closing), tok)
	return false
}

// synchronize skips tokens up to a point where a new statement can start:
// just past a ';', or before a statement keyword or a '}'. At the top
// level a stray '}' is skipped as well.
func (p *Parser) synchronize(topLevel bool) {
	for !p.atEnd() {
		tok := p.peek()
		switch {
		case tok.Is(Punctuation, ";"):
			p.next()
			return
		case tok.Is(Punctuation, "}"):
			if topLevel {
				p.next()
			}
			return
		case tok.Category == Keyword && statementKeywords[tok.Lexeme]:
			return
		}
		p.next()
	}
}

func quote(s string) string {
	return "'" + s + "'"
}
