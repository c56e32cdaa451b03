package parser

import "fmt"

// Error is a parse-time failure, carrying the line it occurred on and
// following the taxonomy of spec.md §7 ("expected token X at line N",
// "expected statement", "expected expression").
type Error struct {
	Line    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
