package vm

import "github.com/pkg/errors"

// Sentinel errors for the VM-structural and arithmetic error kinds named
// in spec.md §7.
var (
	ErrStackOverflow   = errors.New("vm: stack overflow")
	ErrStackUnderflow  = errors.New("vm: stack underflow")
	ErrInvalidRegister = errors.New("vm: invalid register index")
	ErrIllegalOpcode   = errors.New("vm: illegal opcode")
	ErrDivisionByZero  = errors.New("vm: division by zero")
	ErrTypeMismatch    = errors.New("vm: invalid operand type")
)
