// Package compiler walks an *ast.Program and emits a *vm.Program: opcode
// bytes into the instruction-store-shaped buffer plus the constant pool
// PSH instructions draw from. Per spec.md §2 ("code generator, stub in
// the source") this is intentionally minimal: it lowers the straight-line
// subset of the grammar — var declarations, assignment, and expression
// statements built from literals and operators — and reports a clear
// compile error for anything that would require a control-flow opcode
// (if/while/for/func bodies) or a variable read, since the opcode set of
// spec.md §6.2 has no implemented "load variable by name" instruction
// (only ASN, the write side, is implemented; LOE/LOP/LOZ are reserved).
package compiler

import (
	"fmt"

	"github.com/concoctist/concoct-go/ast"
	"github.com/concoctist/concoct-go/value"
	"github.com/concoctist/concoct-go/vm"
)

// Error is a compile-time failure, carrying the source line of the AST
// node that could not be lowered, matching the lexer.Error/parser.Error
// shape.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

var binaryOps = map[string]vm.Op{
	"+": vm.ADD, "-": vm.SUB, "*": vm.MUL, "/": vm.DIV, "%": vm.MOD, "**": vm.POW,
	"==": vm.EQL, "!=": vm.NEQ, "$=": vm.SLE, "$!": vm.SLN,
	">": vm.GT, "<": vm.LT, ">=": vm.GTE, "<=": vm.LTE,
	"&&": vm.AND, "||": vm.OR,
	"&": vm.BND, "|": vm.BOR, "^": vm.XOR, "<<": vm.SHL, ">>": vm.SHR,
}

var unaryOps = map[string]vm.Op{
	"++": vm.INC, "--": vm.DEC, "~": vm.BNT, "-": vm.NEG, "+": vm.POS, "!": vm.NOT,
}

type compiler struct {
	prog *vm.Program
	ip   int
}

// Compile lowers prog into a runnable vm.Program, or returns the first
// construct it cannot lower.
func Compile(prog *ast.Program) (*vm.Program, error) {
	c := &compiler{prog: vm.NewProgram()}
	for _, stmt := range prog.Statements {
		if err := c.compileStmt(stmt); err != nil {
			return nil, err
		}
	}
	if err := c.emitOp(vm.END); err != nil {
		return nil, err
	}
	return c.prog, nil
}

func (c *compiler) emitByte(line int, b byte) error {
	if c.ip >= vm.InstructionStoreSize {
		return &Error{Line: line, Message: "program exceeds the 128-byte instruction store"}
	}
	c.prog.Code[c.ip] = b
	c.ip++
	return nil
}

func (c *compiler) emitOp(op vm.Op) error { return c.emitByte(0, byte(op)) }

func (c *compiler) emitPush(line int, v value.Value) error {
	idx := len(c.prog.Constants)
	c.prog.Constants = append(c.prog.Constants, v)
	if idx > 255 {
		return &Error{Line: line, Message: "constant pool exceeds 256 entries"}
	}
	if err := c.emitByte(line, byte(vm.PSH)); err != nil {
		return err
	}
	if err := c.emitByte(line, vm.EmptyRegister); err != nil {
		return err
	}
	return c.emitByte(line, byte(idx))
}

func (c *compiler) compileStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		return c.compileBind(n.Line(), n.Name, n.Init)
	case *ast.Assign:
		return c.compileBind(n.Line(), n.Target, n.Value)
	case *ast.ExprStmt:
		return c.compileExpr(n.X)
	default:
		return &Error{Line: s.Line(), Message: "construct requires a control-flow opcode the VM does not implement"}
	}
}

// compileBind lowers `var name = expr` and `name = expr` identically:
// push the value, push the key, ASN. A var declaration with no
// initializer binds NIL, matching the textual-coercion rule's NIL case.
func (c *compiler) compileBind(line int, name string, init ast.Expr) error {
	if init == nil {
		if err := c.emitPush(line, value.NewNil()); err != nil {
			return err
		}
	} else if err := c.compileExpr(init); err != nil {
		return err
	}
	if err := c.emitPush(line, value.NewString(name)); err != nil {
		return err
	}
	return c.emitOp(vm.ASN)
}

func (c *compiler) compileExpr(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.Literal:
		return c.emitPush(n.Line(), value.NewFromText(n.Text))
	case *ast.StringLiteral:
		return c.emitPush(n.Line(), value.NewString(n.Value))
	case *ast.Binary:
		op, ok := binaryOps[n.Op]
		if !ok {
			return &Error{Line: n.Line(), Message: "unsupported operator " + n.Op}
		}
		// Producers before consumers, left operand first, per spec.md
		// §4.7's instruction-ordering rule.
		if err := c.compileExpr(n.X); err != nil {
			return err
		}
		if err := c.compileExpr(n.Y); err != nil {
			return err
		}
		return c.emitOp(op)
	case *ast.Unary:
		op, ok := unaryOps[n.Op]
		if !ok {
			return &Error{Line: n.Line(), Message: "unsupported unary operator " + n.Op}
		}
		if err := c.compileExpr(n.X); err != nil {
			return err
		}
		return c.emitOp(op)
	case *ast.Ident:
		return &Error{
			Line:    n.Line(),
			Message: "cannot read variable " + n.Name + ": no load-by-name opcode is implemented (ASN is write-only; LOE/LOP/LOZ are reserved)",
		}
	default:
		return &Error{Line: e.Line(), Message: "expression form requires an opcode the VM does not implement"}
	}
}
