package sable

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sexpr renders an expression fully parenthesized, to make grouping
// visible in assertions.
func sexpr(e Expr) string {
	switch e := e.(type) {
	case *NumberLiteral:
		return e.Text
	case *BoolLiteral:
		return strconv.FormatBool(e.Value)
	case *StringLiteral:
		return strconv.Quote(e.Value)
	case *Identifier:
		return e.Name
	case *Unary:
		return "(" + e.Op + " " + sexpr(e.Operand) + ")"
	case *Binary:
		return "(" + e.Op + " " + sexpr(e.Left) + " " + sexpr(e.Right) + ")"
	case *Call:
		parts := []string{"call", sexpr(e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, sexpr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *Lambda:
		return "(lambda (" + strings.Join(e.Params, " ") + ") " + sexpr(e.Body) + ")"
	default:
		panic(fmt.Sprintf("sexpr: %T", e))
	}
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	tokens, lexDiags := Lex("test.sable", src)
	require.Empty(t, lexDiags)
	p := NewParser("test.sable", tokens, 0)
	expr := p.ParseExpression()
	require.Empty(t, p.Diagnostics(), "parsing %q", src)
	require.NotNil(t, expr)
	return expr
}

func parseProgram(t *testing.T, src string) (*Program, Diagnostics) {
	t.Helper()
	prog, diags := Parse("test.sable", src, 0)
	require.NotNil(t, prog)
	return prog, diags
}

func TestParseExpressionPrecedence(t *testing.T) {
	for _, tc := range []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"1 % 2 / 3", "(/ (% 1 2) 3)"},
		{"a = b = c", "(= a (= b c))"},
		{"a = b || c", "(= a (|| b c))"},
		{"-a * b", "(* (- a) b)"},
		{"-f(x)", "(- (call f x))"},
		{"!a && b || c", "(|| (&& (! a) b) c)"},
		{"a == b < c", "(== a (< b c))"},
		{"a < b == c > d", "(== (< a b) (> c d))"},
		{"x != y", "(!= x y)"},
		{"f(1)(2)", "(call (call f 1) 2)"},
		{"f()", "(call f)"},
		{"f(1, 2 + 3)", "(call f 1 (+ 2 3))"},
		{`\x y. x + y`, "(lambda (x y) (+ x y))"},
		{"λx. x", "(lambda (x) x)"},
		{`\. 1`, "(lambda () 1)"},
		{`f(\x. x, 2)`, "(call f (lambda (x) x) 2)"},
		{`1 + \x. x * 2`, "(+ 1 (lambda (x) (* x 2)))"},
		{`"hi\n"`, `"hi\n"`},
		{"true || false", "(|| true false)"},
		{"--1", "(- (- 1))"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			assert.Equal(t, tc.want, sexpr(parseExpr(t, tc.src)))
		})
	}
}

func TestParseStatements(t *testing.T) {
	prog, diags := parseProgram(t, `
let x = 1;
x = x + 1;
print(x);
if (x > 1) { print(1); } else if (x > 0) { print(0); } else { print(2); }
while (x < 10) { x = x + 1; if (x == 5) { break; } }
{ let y = 2; }
fn add(a, b) { return a + b; }
fn nothing() { return; }
`)
	require.Empty(t, diags)
	require.Len(t, prog.Body.Stmts, 8)

	let := prog.Body.Stmts[0].(*Let)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, 2, let.Loc.Line)

	assign := prog.Body.Stmts[1].(*Assign)
	assert.Equal(t, "x", assign.Name)
	assert.Equal(t, "(+ x 1)", sexpr(assign.Value))

	assert.IsType(t, &ExprStmt{}, prog.Body.Stmts[2])

	ifStmt := prog.Body.Stmts[3].(*If)
	require.NotNil(t, ifStmt.Else)
	require.Len(t, ifStmt.Else.Stmts, 1)
	elseIf := ifStmt.Else.Stmts[0].(*If)
	assert.Equal(t, "(> x 0)", sexpr(elseIf.Cond))
	require.NotNil(t, elseIf.Else)

	while := prog.Body.Stmts[4].(*While)
	require.Len(t, while.Body.Stmts, 2)

	assert.IsType(t, &BlockStmt{}, prog.Body.Stmts[5])

	fn := prog.Body.Stmts[6].(*Fn)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	ret := fn.Body.Stmts[0].(*Return)
	assert.Equal(t, "(+ a b)", sexpr(ret.Value))

	bare := prog.Body.Stmts[7].(*Fn).Body.Stmts[0].(*Return)
	assert.Nil(t, bare.Value)
}

func TestParseOptionalSemicolons(t *testing.T) {
	a, diags := parseProgram(t, "if (x) { y; }; while (x) { y; };;")
	require.Empty(t, diags)
	b, diags := parseProgram(t, "if (x) { y; } while (x) { y; }")
	require.Empty(t, diags)
	assert.True(t, Equal(a, b), "%# v", pretty.Formatter(a))
}

func TestParseExpectedExpression(t *testing.T) {
	_, diags := parseProgram(t, "let x = ;")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, ParseError, d.Kind)
	assert.Equal(t, ExpectedExpression, d.Code)
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 9, d.Column)
	assert.Contains(t, d.Message, "';'")
}

func TestParseExpectedToken(t *testing.T) {
	_, diags := parseProgram(t, "let x = 1 2;")
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, ExpectedToken, d.Code)
	assert.Equal(t, "';'", d.Expected)
	assert.Equal(t, "'2'", d.Found)
	assert.Equal(t, 11, d.Column)
}

func TestParseUnclosedDelimiter(t *testing.T) {
	_, diags := parseProgram(t, "let x = f(1, 2")
	require.Len(t, diags, 1)
	assert.Equal(t, UnclosedDelimiter, diags[0].Code)
	assert.Equal(t, 10, diags[0].Column)

	_, diags = parseProgram(t, "while (true) {\n  let x = 1;\n")
	require.Len(t, diags, 1)
	assert.Equal(t, UnclosedDelimiter, diags[0].Code)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 14, diags[0].Column)
}

func TestParseResynchronizes(t *testing.T) {
	prog, diags := parseProgram(t, "let = 1;\nlet y = 2;\nlet z = * 3;\nlet w = 4;\n")
	require.Equal(t, []DiagnosticCode{ExpectedToken, ExpectedExpression}, diags.Codes())
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 5, diags[0].Column)
	assert.Equal(t, 3, diags[1].Line)
	assert.Equal(t, 9, diags[1].Column)

	require.Len(t, prog.Body.Stmts, 2)
	assert.Equal(t, "y", prog.Body.Stmts[0].(*Let).Name)
	assert.Equal(t, "w", prog.Body.Stmts[1].(*Let).Name)
}

func TestParseResynchronizesInsideBlocks(t *testing.T) {
	prog, diags := parseProgram(t, "fn f(x) {\n  let a = ;\n  let b = );\n  return x;\n}\nlet ok = 1;")
	require.Equal(t, []DiagnosticCode{ExpectedExpression, ExpectedExpression}, diags.Codes())
	require.Len(t, prog.Body.Stmts, 2)
	fn := prog.Body.Stmts[0].(*Fn)
	require.Len(t, fn.Body.Stmts, 1)
	assert.IsType(t, &Return{}, fn.Body.Stmts[0])
}

func TestParseBreakOutsideLoop(t *testing.T) {
	_, diags := parseProgram(t, "break;")
	assert.Equal(t, []DiagnosticCode{BreakOutsideLoop}, diags.Codes())

	_, diags = parseProgram(t, "while (true) { if (x) { break; } }")
	assert.Empty(t, diags)

	_, diags = parseProgram(t, "while (true) { fn f() { break; } }")
	assert.Equal(t, []DiagnosticCode{BreakOutsideLoop}, diags.Codes())
}

func TestParseReturnOutsideFunction(t *testing.T) {
	prog, diags := parseProgram(t, "return 1;\nlet x = 2;")
	assert.Equal(t, []DiagnosticCode{ReturnOutsideFunction}, diags.Codes())
	assert.Len(t, prog.Body.Stmts, 2)
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, diags := parseProgram(t, "1 = 2;\nf(x) = 3;")
	require.Equal(t, []DiagnosticCode{InvalidAssignmentTarget, InvalidAssignmentTarget}, diags.Codes())
	assert.Equal(t, 1, diags[0].Column)
	assert.Equal(t, 2, diags[1].Line)
}

func TestParseInvalidLambdaAssignmentTarget(t *testing.T) {
	_, diags := parseProgram(t, "(\\x. x) = 1;\nlet y = 2;")
	require.Equal(t, []DiagnosticCode{InvalidAssignmentTarget}, diags.Codes())
	assert.Contains(t, diags[0].Message, `\x. x`)
}

func TestParseRecursionLimit(t *testing.T) {
	deep := "let x = " + strings.Repeat("(", 600) + "1" + strings.Repeat(")", 600) + ";"

	_, diags := parseProgram(t, deep)
	require.Equal(t, []DiagnosticCode{RecursionLimitExceeded}, diags.Codes())

	prog, diags := Parse("test.sable", deep, 1000)
	require.Empty(t, diags)
	require.Len(t, prog.Body.Stmts, 1)

	blocks := strings.Repeat("{", 700) + strings.Repeat("}", 700)
	_, diags = parseProgram(t, blocks)
	require.Equal(t, []DiagnosticCode{RecursionLimitExceeded}, diags.Codes())

	unary := "let x = " + strings.Repeat("-", 10000) + "1;"
	_, diags = parseProgram(t, unary)
	require.Equal(t, []DiagnosticCode{RecursionLimitExceeded}, diags.Codes())
}

func TestParseLexicalAndSyntaxErrorsTogether(t *testing.T) {
	_, diags := parseProgram(t, "let x = 1 # 2;")
	require.Equal(t, []DiagnosticCode{InvalidCharacter, ExpectedToken}, diags.Codes())
	assert.Equal(t, LexicalError, diags[0].Kind)
	assert.Equal(t, 11, diags[0].Column)
	assert.Equal(t, 13, diags[1].Column)
}

func TestParseLocations(t *testing.T) {
	prog, diags := parseProgram(t, "let total = a +\n  b;")
	require.Empty(t, diags)
	let := prog.Body.Stmts[0].(*Let)
	bin := let.Value.(*Binary)
	assert.Equal(t, 13, bin.Loc.Column)
	assert.Equal(t, 2, bin.Right.GetSourceLocation().Line)
	assert.Equal(t, 3, bin.Right.GetSourceLocation().Column)
	assert.Equal(t, "test.sable", bin.Loc.Filename)
}
