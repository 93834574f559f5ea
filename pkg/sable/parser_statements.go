package sable

// parseStatement parses one statement. It returns nil after reporting a
// diagnostic; the caller resynchronizes.
func (p *Parser) parseStatement() Stmt {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	tok := p.peek()
	if tok.Category == Keyword {
		switch tok.Lexeme {
		case "let":
			return p.parseLet()
		case "fn":
			return p.parseFn()
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "return":
			return p.parseReturn()
		case "break":
			return p.parseBreak()
		}
	}
	if tok.Is(Punctuation, "{") {
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		return &BlockStmt{Body: body, Loc: body.Loc}
	}
	return p.parseExprStmt()
}

// parseBlock parses { stmt* }. A statement that fails to parse is reported,
// skipped up to the next boundary and left out of the block.
func (p *Parser) parseBlock() *Block {
	open, ok := p.expect(Punctuation, "{")
	if !ok {
		return nil
	}
	block := &Block{Loc: p.loc(open)}
	for {
		if p.tooDeep {
			return nil
		}
		tok := p.peek()
		switch {
		case tok.Is(Punctuation, "}"):
			p.next()
			return block
		case tok.Category == EndOfInput:
			p.errorf(ParseError, UnclosedDelimiter, p.loc(open), "'{' is never closed")
			return nil
		case tok.Is(Punctuation, ";"):
			p.next()
			continue
		}

		start := p.pos
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize(false)
			if p.pos == start && !p.atEnd() {
				p.next()
			}
			continue
		}
		block.Stmts = append(block.Stmts, stmt)
	}
}

func (p *Parser) parseLet() Stmt {
	kw := p.next()
	name, ok := p.expectIdentifier("identifier")
	if !ok {
		return nil
	}
	if _, ok := p.expect(Operator, "="); !ok {
		return nil
	}
	value := p.parseExpression(0)
	if value == nil {
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	return &Let{Name: name.Lexeme, Value: value, Loc: p.loc(kw), NameLoc: p.loc(name)}
}

func (p *Parser) parseFn() Stmt {
	kw := p.next()
	name, ok := p.expectIdentifier("function name")
	if !ok {
		return nil
	}
	open, ok := p.expect(Punctuation, "(")
	if !ok {
		return nil
	}
	fn := &Fn{Name: name.Lexeme, Loc: p.loc(kw), NameLoc: p.loc(name)}
	if !p.peek().Is(Punctuation, ")") {
		for {
			param, ok := p.expectIdentifier("parameter name")
			if !ok {
				return nil
			}
			fn.Params = append(fn.Params, param.Lexeme)
			if !p.peek().Is(Punctuation, ",") {
				break
			}
			p.next()
		}
	}
	if !p.expectClose(open, ")") {
		return nil
	}

	outerLoops := p.loopDepth
	p.loopDepth = 0
	p.fnDepth++
	body := p.parseBlock()
	p.fnDepth--
	p.loopDepth = outerLoops
	if body == nil {
		return nil
	}
	fn.Body = body
	return fn
}

func (p *Parser) parseIf() Stmt {
	kw := p.next()
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	stmt := &If{Cond: cond, Then: then, Loc: p.loc(kw)}

	if p.peek().Is(Keyword, "else") {
		elseTok := p.next()
		if p.peek().Is(Keyword, "if") {
			nested := p.parseIf()
			if nested == nil {
				return nil
			}
			stmt.Else = &Block{Stmts: []Stmt{nested}, Loc: p.loc(elseTok)}
		} else {
			els := p.parseBlock()
			if els == nil {
				return nil
			}
			stmt.Else = els
		}
	}
	return stmt
}

func (p *Parser) parseWhile() Stmt {
	kw := p.next()
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	if body == nil {
		return nil
	}
	return &While{Cond: cond, Body: body, Loc: p.loc(kw)}
}

// parseCondition parses the parenthesized condition of if and while.
func (p *Parser) parseCondition() Expr {
	open, ok := p.expect(Punctuation, "(")
	if !ok {
		return nil
	}
	cond := p.parseExpression(0)
	if cond == nil {
		return nil
	}
	if !p.expectClose(open, ")") {
		return nil
	}
	return cond
}

func (p *Parser) parseReturn() Stmt {
	kw := p.next()
	if p.fnDepth == 0 {
		p.errorf(ParseError, ReturnOutsideFunction, p.loc(kw), "return outside of a function")
	}
	stmt := &Return{Loc: p.loc(kw)}
	if !p.peek().Is(Punctuation, ";") {
		stmt.Value = p.parseExpression(0)
		if stmt.Value == nil {
			return nil
		}
	}
	if !p.expectSemicolon() {
		return nil
	}
	return stmt
}

func (p *Parser) parseBreak() Stmt {
	kw := p.next()
	if p.loopDepth == 0 {
		p.errorf(ParseError, BreakOutsideLoop, p.loc(kw), "break outside of a loop")
	}
	if !p.expectSemicolon() {
		return nil
	}
	return &Break{Loc: p.loc(kw)}
}

// parseExprStmt parses an expression statement. A top-level assignment to
// a name becomes an Assign.
func (p *Parser) parseExprStmt() Stmt {
	expr := p.parseExpression(0)
	if expr == nil {
		return nil
	}
	if !p.expectSemicolon() {
		return nil
	}
	if bin, ok := expr.(*Binary); ok && bin.Op == "=" {
		return &Assign{
			Name:  bin.Left.(*Identifier).Name,
			Value: bin.Right,
			Loc:   bin.Loc,
		}
	}
	return &ExprStmt{Expr: expr, Loc: expr.GetSourceLocation()}
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(Punctuation, ";")
	return ok
}
