package lexer

import "fmt"

// Error is a lex-time failure: unexpected character, unterminated
// string/char literal, or unterminated multi-line comment (spec.md §7's
// lex-error taxonomy). It carries the line the failure occurred on.
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
