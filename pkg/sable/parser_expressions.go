package sable

// Binding powers. Higher binds tighter.
const (
	bpAssign     = 10
	bpOr         = 20
	bpAnd        = 30
	bpEquality   = 40
	bpComparison = 50
	bpSum        = 60
	bpProduct    = 70
	bpPrefix     = 80
	bpCall       = 90
	bpAtom       = 100
)

type infixOp struct {
	bp         int
	rightAssoc bool
}

var infixOps = map[string]infixOp{
	"=":  {bpAssign, true},
	"||": {bpOr, false},
	"&&": {bpAnd, false},
	"==": {bpEquality, false},
	"!=": {bpEquality, false},
	"<":  {bpComparison, false},
	"<=": {bpComparison, false},
	">":  {bpComparison, false},
	">=": {bpComparison, false},
	"+":  {bpSum, false},
	"-":  {bpSum, false},
	"*":  {bpProduct, false},
	"/":  {bpProduct, false},
	"%":  {bpProduct, false},
}

var prefixOps = map[string]bool{
	"-": true,
	"!": true,
}

// ParseExpression parses a single expression spanning all of tokens.
func (p *Parser) ParseExpression() Expr {
	expr := p.parseExpression(0)
	if expr != nil && !p.atEnd() {
		p.expectedToken("end of input", p.peek())
	}
	return expr
}

// parseExpression parses operators whose binding power exceeds minBP. It
// returns nil after reporting a diagnostic.
func (p *Parser) parseExpression(minBP int) Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		tok := p.peek()

		if tok.Is(Punctuation, "(") {
			if bpCall <= minBP {
				break
			}
			left = p.parseCall(left)
			if left == nil {
				return nil
			}
			continue
		}

		if tok.Category != Operator {
			break
		}
		op, ok := infixOps[tok.Lexeme]
		if !ok || op.bp <= minBP {
			break
		}
		p.next()

		rbp := op.bp
		if op.rightAssoc {
			rbp = op.bp - 1
		}
		right := p.parseExpression(rbp)
		if right == nil {
			return nil
		}

		if tok.Lexeme == "=" {
			if _, isIdent := left.(*Identifier); !isIdent {
				p.errorf(ParseError, InvalidAssignmentTarget, left.GetSourceLocation(),
					"cannot assign to %s", Format(left))
				return nil
			}
		}

		left = &Binary{
			Op:    tok.Lexeme,
			Left:  left,
			Right: right,
			Loc:   left.GetSourceLocation(),
		}
	}

	return left
}

func (p *Parser) parsePrefix() Expr {
	tok := p.peek()
	loc := p.loc(tok)

	switch tok.Category {
	case Number:
		p.next()
		return &NumberLiteral{Text: tok.Lexeme, Loc: loc}

	case String:
		p.next()
		return &StringLiteral{Value: tok.Lexeme, Loc: loc}

	case IdentifierToken:
		p.next()
		return &Identifier{Name: tok.Lexeme, Loc: loc}

	case Keyword:
		switch tok.Lexeme {
		case "true", "false":
			p.next()
			return &BoolLiteral{Value: tok.Lexeme == "true", Loc: loc}
		}

	case Operator:
		switch {
		case prefixOps[tok.Lexeme]:
			p.next()
			operand := p.parseExpression(bpPrefix)
			if operand == nil {
				return nil
			}
			return &Unary{Op: tok.Lexeme, Operand: operand, Loc: loc}
		case tok.Lexeme == `\` || tok.Lexeme == "λ":
			return p.parseLambda()
		}

	case Punctuation:
		if tok.Lexeme == "(" {
			p.next()
			inner := p.parseExpression(0)
			if inner == nil {
				return nil
			}
			if !p.expectClose(tok, ")") {
				return nil
			}
			return inner
		}
	}

	p.errorf(ParseError, ExpectedExpression, loc, "expected expression, found %s", tok)
	return nil
}

// parseCall parses an argument list following callee.
func (p *Parser) parseCall(callee Expr) Expr {
	open := p.next()
	call := &Call{Callee: callee, Loc: callee.GetSourceLocation()}
	if p.peek().Is(Punctuation, ")") {
		p.next()
		return call
	}
	for {
		arg := p.parseExpression(0)
		if arg == nil {
			return nil
		}
		call.Args = append(call.Args, arg)
		if p.peek().Is(Punctuation, ",") {
			p.next()
			continue
		}
		if !p.expectClose(open, ")") {
			return nil
		}
		return call
	}
}

// parseLambda parses \x y. body. The body extends as far right as
// possible.
func (p *Parser) parseLambda() Expr {
	start := p.next()
	lam := &Lambda{Loc: p.loc(start)}
	for p.peek().Category == IdentifierToken {
		lam.Params = append(lam.Params, p.next().Lexeme)
	}
	if _, ok := p.expect(Punctuation, "."); !ok {
		return nil
	}
	body := p.parseExpression(0)
	if body == nil {
		return nil
	}
	lam.Body = body
	return lam
}
