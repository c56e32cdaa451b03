// Package ast defines the syntax tree the parser produces and the
// compiler walks. It covers the full grammar surface of the language
// (including class/enum/switch/func, which the compiler does not yet
// lower to bytecode), kept deliberately small: plain structs, no visitor
// machinery, matching the teacher's preference for concrete types over
// dynamic-dispatch abstractions on a closed, hot-path-adjacent node set.
package ast

// Program is the root of a parsed source file: a flat list of top-level
// statements.
type Program struct {
	Statements []Stmt
}

// Node is implemented by every AST node, statement or expression, to
// carry its source line for diagnostics.
type Node interface {
	Line() int
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

type base struct{ line int }

func (b base) Line() int { return b.line }

// VarDecl is `var name = expr` or `var name` (expr nil).
type VarDecl struct {
	base
	Name string
	Init Expr
}

func (VarDecl) stmtNode() {}

// NewVarDecl constructs a VarDecl at the given source line.
func NewVarDecl(line int, name string, init Expr) *VarDecl {
	return &VarDecl{base: base{line}, Name: name, Init: init}
}

// Assign is `target = expr`.
type Assign struct {
	base
	Target string
	Value  Expr
}

func (Assign) stmtNode() {}

func NewAssign(line int, target string, value Expr) *Assign {
	return &Assign{base: base{line}, Target: target, Value: value}
}

// ExprStmt is a bare expression used for its side effect or value.
type ExprStmt struct {
	base
	X Expr
}

func (ExprStmt) stmtNode() {}

func NewExprStmt(line int, x Expr) *ExprStmt { return &ExprStmt{base: base{line}, X: x} }

// Block is `{ statements }`.
type Block struct {
	base
	Statements []Stmt
}

func (Block) stmtNode() {}

func NewBlock(line int, stmts []Stmt) *Block { return &Block{base: base{line}, Statements: stmts} }

// If is `if cond { then } else { else }` (Else may be nil, or itself an
// *If for an "else if" chain).
type If struct {
	base
	Cond Expr
	Then *Block
	Else Stmt
}

func (If) stmtNode() {}

func NewIf(line int, cond Expr, then *Block, els Stmt) *If {
	return &If{base: base{line}, Cond: cond, Then: then, Else: els}
}

// While is `while cond { body }`.
type While struct {
	base
	Cond Expr
	Body *Block
}

func (While) stmtNode() {}

func NewWhile(line int, cond Expr, body *Block) *While {
	return &While{base: base{line}, Cond: cond, Body: body}
}

// DoWhile is `do { body } while cond`.
type DoWhile struct {
	base
	Body *Block
	Cond Expr
}

func (DoWhile) stmtNode() {}

func NewDoWhile(line int, body *Block, cond Expr) *DoWhile {
	return &DoWhile{base: base{line}, Body: body, Cond: cond}
}

// For is `for (init, cond, post) { body }`; any clause may be nil.
type For struct {
	base
	Init Stmt
	Cond Expr
	Post Stmt
	Body *Block
}

func (For) stmtNode() {}

func NewFor(line int, init Stmt, cond Expr, post Stmt, body *Block) *For {
	return &For{base: base{line}, Init: init, Cond: cond, Post: post, Body: body}
}

// FuncDecl is `func name(params) { body }`.
type FuncDecl struct {
	base
	Name   string
	Params []string
	Body   *Block
}

func (FuncDecl) stmtNode() {}

func NewFuncDecl(line int, name string, params []string, body *Block) *FuncDecl {
	return &FuncDecl{base: base{line}, Name: name, Params: params, Body: body}
}

// Return is `return expr` (expr nil for a bare return).
type Return struct {
	base
	Value Expr
}

func (Return) stmtNode() {}

func NewReturn(line int, value Expr) *Return { return &Return{base: base{line}, Value: value} }

// Break is `break`.
type Break struct{ base }

func (Break) stmtNode() {}

func NewBreak(line int) *Break { return &Break{base{line}} }

// Continue is `continue`.
type Continue struct{ base }

func (Continue) stmtNode() {}

func NewContinue(line int) *Continue { return &Continue{base{line}} }

// ClassDecl is `class name { members }`, recognized syntactically; the
// compiler does not lower member access or construction (see compiler
// package doc).
type ClassDecl struct {
	base
	Name    string
	Members []Stmt
}

func (ClassDecl) stmtNode() {}

func NewClassDecl(line int, name string, members []Stmt) *ClassDecl {
	return &ClassDecl{base: base{line}, Name: name, Members: members}
}

// EnumDecl is `enum name { values }`.
type EnumDecl struct {
	base
	Name   string
	Values []string
}

func (EnumDecl) stmtNode() {}

func NewEnumDecl(line int, name string, values []string) *EnumDecl {
	return &EnumDecl{base: base{line}, Name: name, Values: values}
}

// SwitchCase is one `case expr, ... body` or the `default body` arm (no
// colon: the body runs up to the next case, default, or closing brace).
type SwitchCase struct {
	Values  []Expr // empty for default
	Default bool
	Body    []Stmt
}

// Switch is `switch subject { case ... default ... }`.
type Switch struct {
	base
	Subject Expr
	Cases   []SwitchCase
}

func (Switch) stmtNode() {}

func NewSwitch(line int, subject Expr, cases []SwitchCase) *Switch {
	return &Switch{base: base{line}, Subject: subject, Cases: cases}
}

// UseStmt is `use name` (module/namespace reference, parsed but not
// resolved: module/import resolution is an explicit Non-goal).
type UseStmt struct {
	base
	Name string
}

func (UseStmt) stmtNode() {}

func NewUseStmt(line int, name string) *UseStmt { return &UseStmt{base: base{line}, Name: name} }

// NamespaceDecl is `namespace name { members }`.
type NamespaceDecl struct {
	base
	Name    string
	Members []Stmt
}

func (NamespaceDecl) stmtNode() {}

func NewNamespaceDecl(line int, name string, members []Stmt) *NamespaceDecl {
	return &NamespaceDecl{base: base{line}, Name: name, Members: members}
}

// --- Expressions ---

// Literal is a null/true/false or numeric literal, kept as its source
// text; it is not tagged until the compiler applies value.NewFromText.
// Quoted strings are StringLiteral instead.
type Literal struct {
	base
	Text string // the lexed text; the compiler applies value.NewFromText
}

func (Literal) exprNode() {}

func NewLiteral(line int, text string) *Literal { return &Literal{base: base{line}, Text: text} }

// StringLiteral is a quoted string literal; unlike Literal it is never
// subject to textual coercion (an empty string must stay STRING, not
// become some other tag).
type StringLiteral struct {
	base
	Value string
}

func (StringLiteral) exprNode() {}

func NewStringLiteral(line int, v string) *StringLiteral {
	return &StringLiteral{base: base{line}, Value: v}
}

// Ident is a bare identifier reference.
type Ident struct {
	base
	Name string
}

func (Ident) exprNode() {}

func NewIdent(line int, name string) *Ident { return &Ident{base: base{line}, Name: name} }

// Unary is a prefix operator applied to an operand: ++ -- ~ - + !.
type Unary struct {
	base
	Op string
	X  Expr
}

func (Unary) exprNode() {}

func NewUnary(line int, op string, x Expr) *Unary { return &Unary{base: base{line}, Op: op, X: x} }

// Binary is a binary operator applied to two operands.
type Binary struct {
	base
	Op    string
	X, Y  Expr
}

func (Binary) exprNode() {}

func NewBinary(line int, op string, x, y Expr) *Binary {
	return &Binary{base: base{line}, Op: op, X: x, Y: y}
}

// Call is `callee(args)`.
type Call struct {
	base
	Callee Expr
	Args   []Expr
}

func (Call) exprNode() {}

func NewCall(line int, callee Expr, args []Expr) *Call {
	return &Call{base: base{line}, Callee: callee, Args: args}
}

// Index is `x[i]`.
type Index struct {
	base
	X     Expr
	Index Expr
}

func (Index) exprNode() {}

func NewIndex(line int, x, index Expr) *Index { return &Index{base: base{line}, X: x, Index: index} }

// Member is `x.name`.
type Member struct {
	base
	X    Expr
	Name string
}

func (Member) exprNode() {}

func NewMember(line int, x Expr, name string) *Member {
	return &Member{base: base{line}, X: x, Name: name}
}

// Super is the `super` keyword used as a primary expression inside a
// class method body.
type Super struct{ base }

func (Super) exprNode() {}

func NewSuper(line int) *Super { return &Super{base{line}} }
