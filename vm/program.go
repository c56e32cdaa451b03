package vm

import "github.com/concoctist/concoct-go/value"

// InstructionStoreSize is the fixed size of the opcode byte array
// (spec.md §3.5).
const InstructionStoreSize = 128

// Program is a compiled unit: a fixed-size instruction stream plus the
// constant pool PSH draws immediate operands from. The compiler package
// produces Programs; the VM loads and executes them.
type Program struct {
	Code      [InstructionStoreSize]byte
	Constants []value.Value
}

// NewProgram returns a Program with every instruction byte set to the
// sentinel fill value.
func NewProgram() *Program {
	p := &Program{}
	for i := range p.Code {
		p.Code[i] = sentinelByte
	}
	return p
}

// at returns the instruction byte at ip, or the sentinel fill byte when ip
// lies outside the instruction store.
func (p *Program) at(ip int) byte {
	if ip < 0 || ip >= len(p.Code) {
		return sentinelByte
	}
	return p.Code[ip]
}
