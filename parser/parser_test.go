package parser_test

import (
	"strings"
	"testing"

	"github.com/concoctist/concoct-go/ast"
	"github.com/concoctist/concoct-go/lexer"
	"github.com/concoctist/concoct-go/parser"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	lex, err := lexer.New(strings.NewReader(src))
	if err != nil {
		t.Fatalf("lexer.New: %v", err)
	}
	p, err := parser.New(lex)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, "var x = 42")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	if decl.Name != "x" {
		t.Fatalf("got name %q, want x", decl.Name)
	}
	lit, ok := decl.Init.(*ast.Literal)
	if !ok || lit.Text != "42" {
		t.Fatalf("got init %#v, want Literal 42", decl.Init)
	}
}

func TestParseAssignment(t *testing.T) {
	prog := parse(t, "x = 1 + 2")
	assign, ok := prog.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", prog.Statements[0])
	}
	if assign.Target != "x" {
		t.Fatalf("got target %q, want x", assign.Target)
	}
	bin, ok := assign.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("got value %#v, want Binary +", assign.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3).
	prog := parse(t, "x = 1 + 2 * 3")
	assign := prog.Statements[0].(*ast.Assign)
	add, ok := assign.Value.(*ast.Binary)
	if !ok || add.Op != "+" {
		t.Fatalf("top-level op = %#v, want +", assign.Value)
	}
	mul, ok := add.Y.(*ast.Binary)
	if !ok || mul.Op != "*" {
		t.Fatalf("right operand = %#v, want * chain", add.Y)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, "if x > 0 { y = 1 } else { y = 2 }")
	ifStmt, ok := prog.Statements[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Statements[0])
	}
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
	if len(ifStmt.Then.Statements) != 1 {
		t.Fatalf("expected 1 then-statement, got %d", len(ifStmt.Then.Statements))
	}
}

func TestParseWhile(t *testing.T) {
	prog := parse(t, "while x < 10 { x = x + 1 }")
	w, ok := prog.Statements[0].(*ast.While)
	if !ok {
		t.Fatalf("expected *ast.While, got %T", prog.Statements[0])
	}
	if len(w.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(w.Body.Statements))
	}
}

func TestParseFuncDecl(t *testing.T) {
	prog := parse(t, "func add(a, b) { return a + b }")
	fn, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("got %+v", fn)
	}
	ret, ok := fn.Body.Statements[0].(*ast.Return)
	if !ok || ret.Value == nil {
		t.Fatalf("expected return with value, got %#v", fn.Body.Statements[0])
	}
}

func TestParseCallExpression(t *testing.T) {
	prog := parse(t, "add(1, 2)")
	exprStmt, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Statements[0])
	}
	call, ok := exprStmt.X.(*ast.Call)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("got %#v", exprStmt.X)
	}
}

func TestParseClassAndEnum(t *testing.T) {
	prog := parse(t, "class Foo {\nvar bar = 1\n}\nenum Color { RED, GREEN, BLUE }")
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.ClassDecl); !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Statements[0])
	}
	enum, ok := prog.Statements[1].(*ast.EnumDecl)
	if !ok || len(enum.Values) != 3 {
		t.Fatalf("got %#v", prog.Statements[1])
	}
}

func TestParseSwitch(t *testing.T) {
	prog := parse(t, "switch x {\ncase 1\ny = 1\ndefault\ny = 2\n}")
	sw, ok := prog.Statements[0].(*ast.Switch)
	if !ok {
		t.Fatalf("expected *ast.Switch, got %T", prog.Statements[0])
	}
	if len(sw.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sw.Cases))
	}
}

func TestParseErrorCarriesLine(t *testing.T) {
	lex, _ := lexer.New(strings.NewReader("var\nvar x = )"))
	p, err := parser.New(lex)
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	_, err = p.Parse()
	if err == nil {
		t.Fatalf("expected a parse error")
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("expected *parser.Error, got %T", err)
	}
	if perr.Line == 0 {
		t.Fatalf("expected a non-zero line number")
	}
}
