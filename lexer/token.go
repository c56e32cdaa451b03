package lexer

// TokenType identifies the kind of lexeme a Token represents.
type TokenType int

const (
	EOF TokenType = iota
	EOL
	Ident
	Int
	Float
	String
	Char

	// Punctuation.
	Dot
	Comma
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	// Operators.
	Assign
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
	PowAssign
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	Inc
	Dec
	Equal
	NotEqual
	StrLenEqual
	StrLenNotEqual
	Greater
	Less
	GreaterEqual
	LessEqual
	And
	Or
	Not
	BitAnd
	BitOr
	BitXor
	BitNot
	Shl
	Shr

	// Keywords.
	Break
	Continue
	Case
	Class
	Do
	Default
	Else
	Enum
	False
	For
	Func
	Goto
	If
	In
	Namespace
	Null
	Return
	Super
	Switch
	True
	Use
	Var
	While
)

var typeNames = map[TokenType]string{
	EOF: "EOF", EOL: "EOL", Ident: "identifier", Int: "int", Float: "float",
	String: "string", Char: "char",
	Dot: ".", Comma: ",", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]",
	Assign: "=", AddAssign: "+=", SubAssign: "-=", MulAssign: "*=",
	DivAssign: "/=", ModAssign: "%=", PowAssign: "**=",
	Add: "+", Sub: "-", Mul: "*", Div: "/", Mod: "%", Pow: "**",
	Inc: "++", Dec: "--",
	Equal: "==", NotEqual: "!=", StrLenEqual: "$=", StrLenNotEqual: "$!",
	Greater: ">", Less: "<", GreaterEqual: ">=", LessEqual: "<=",
	And: "&&", Or: "||", Not: "!",
	BitAnd: "&", BitOr: "|", BitXor: "^", BitNot: "~", Shl: "<<", Shr: ">>",
	Break: "break", Continue: "continue", Case: "case", Class: "class",
	Do: "do", Default: "default", Else: "else", Enum: "enum", False: "false",
	For: "for", Func: "func", Goto: "goto", If: "if", In: "in",
	Namespace: "namespace", Null: "null", Return: "return", Super: "super",
	Switch: "switch", True: "true", Use: "use", Var: "var", While: "while",
}

// String returns the token type's canonical display text, used both in
// diagnostics and as the keyword spelling installed in the keyword table.
func (t TokenType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Token is one lexeme: its type, source text (for identifiers and
// literals), and the 1-based line it started on.
type Token struct {
	Type TokenType
	Text string
	Line int
}
