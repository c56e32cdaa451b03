// Package vm implements the register-plus-stack bytecode virtual machine:
// the operand stack, register file, instruction store, operation kernel,
// and the interpreter loop that dispatches across them.
package vm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/concoctist/concoct-go/store"
	"github.com/concoctist/concoct-go/symtab"
	"github.com/concoctist/concoct-go/value"
)

// State is the interpreter loop's run state (spec.md §4.7).
type State int

const (
	Running State = iota
	Halted
	Faulted
)

func (s State) String() string {
	switch s {
	case Running:
		return "RUNNING"
	case Halted:
		return "HALTED"
	case Faulted:
		return "FAULTED"
	default:
		return "UNKNOWN"
	}
}

// Machine owns every piece of VM-mutable state: the instruction stream and
// its pointer, the operand stack, the register file, the object store,
// and the variable environment (a Symbol Map shared in kind, not in
// instance, with the lexer's keyword table).
type Machine struct {
	Store *store.Store
	Stack *Stack
	Regs  *Registers
	Env   *symtab.Map[store.Handle]

	program *Program
	ip      int
	state   State
	err     error

	// Debug, when non-nil, receives a trace line before each dispatch. Set
	// from the driver's -debug flag.
	Debug func(line string)
}

// New constructs a Machine around a fresh store, stack, registers, and
// variable environment.
func New() *Machine {
	return NewWithStore(store.New())
}

// NewWithStore is New but around a caller-provided store, letting the
// driver honor a -store-size override without the core needing to know
// about flags.
func NewWithStore(s *store.Store) *Machine {
	return &Machine{
		Store: s,
		Stack: NewStack(),
		Regs:  NewRegisters(),
		Env:   symtab.New[store.Handle](),
	}
}

// Load installs a program and resets run state to RUNNING at IP 0.
func (m *Machine) Load(p *Program) {
	m.program = p
	m.ip = 0
	m.state = Running
	m.err = nil
}

// State reports the current run state.
func (m *Machine) State() State { return m.state }

// Err returns the error that caused FAULTED, if any.
func (m *Machine) Err() error { return m.err }

func (m *Machine) fault(err error) {
	m.state = Faulted
	m.err = err
}

func (m *Machine) readOperand() byte {
	b := m.program.at(m.ip)
	m.ip++
	return b
}

// Run drives the interpreter loop to completion (HALTED or FAULTED), or
// until ctx is cancelled between instructions — the host-driven abort
// point spec.md §5 allows implementations to add.
func (m *Machine) Run(ctx context.Context) error {
	for m.state == Running {
		select {
		case <-ctx.Done():
			m.fault(ctx.Err())
			return m.err
		default:
		}
		m.Step()
	}
	if m.state == Faulted {
		return m.err
	}
	return nil
}

// Step executes exactly one dispatch: read the opcode at IP, invoke its
// handler (or transition to a terminal state), and advance IP past the
// opcode and any operand bytes it consumed. Dispatch is a dense switch
// over opcode ordinals, not per-opcode dynamic-dispatch objects, per
// spec.md §9.
func (m *Machine) Step() {
	if m.state != Running {
		return
	}
	op := Op(m.program.at(m.ip))
	if m.Debug != nil {
		m.Debug(fmt.Sprintf("ip=%d op=%s stack=%d", m.ip, op, m.Stack.Len()))
	}
	m.ip++

	switch op {
	case END:
		m.state = Halted
		return
	case HLT:
		m.state = Halted
		return
	case NOP:
		return
	}

	if op.IsReserved() || int(op) >= int(opCount) {
		m.fault(errors.Wrapf(ErrIllegalOpcode, "opcode %s", op))
		return
	}

	var err error
	switch {
	case isBinaryArith(op):
		err = m.execBinaryArith(op)
	case isBitwise(op) && op != BNT:
		err = m.execBitwise(op)
	case isLogical(op):
		err = m.execLogical(op)
	case isEquality(op):
		err = m.execEquality(op)
	case isOrder(op):
		err = m.execOrder(op)
	case op == SLE || op == SLN:
		err = m.execStringLength(op)
	case isUnary(op):
		err = m.execUnary(op)
	default:
		err = m.execStackRegister(op)
	}
	if err != nil {
		m.fault(err)
	}
}

func isBinaryArith(op Op) bool {
	switch op {
	case ADD, SUB, MUL, DIV, MOD, POW:
		return true
	}
	return false
}

func isBitwise(op Op) bool {
	switch op {
	case BND, BOR, XOR, BNT, SHL, SHR:
		return true
	}
	return false
}

func isLogical(op Op) bool { return op == AND || op == OR }

func isEquality(op Op) bool { return op == EQL || op == NEQ }

func isOrder(op Op) bool {
	switch op {
	case GT, GTE, LT, LTE:
		return true
	}
	return false
}

func isUnary(op Op) bool {
	switch op {
	case INC, DEC, NEG, POS, NOT, BNT:
		return true
	}
	return false
}

func (m *Machine) popValue() (value.Value, store.Handle, error) {
	h, err := m.Stack.Pop()
	if err != nil {
		return value.Value{}, store.Nil, err
	}
	v, err := m.Store.Get(h)
	if err != nil {
		return value.Value{}, store.Nil, err
	}
	return v, h, nil
}

func (m *Machine) pushValue(v value.Value) error {
	h, err := m.Store.Alloc(v)
	if err != nil {
		return err
	}
	return m.Stack.Push(h)
}

// execBinaryArith handles ADD SUB MUL DIV MOD POW. Pop order is
// right-operand-first: the compiler emits producers left-to-right, so the
// right operand of `a OP b` sits on top of the stack (spec.md §4.7
// "instruction ordering").
func (m *Machine) execBinaryArith(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	if !binaryOperandsValid(op, a, b) {
		return errors.Wrapf(ErrTypeMismatch, "%s on %s and %s", op, a.Tag, b.Tag)
	}
	result, err := binaryArithmetic(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

func (m *Machine) execBitwise(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	if !binaryOperandsValid(op, a, b) {
		return errors.Wrapf(ErrTypeMismatch, "%s on %s and %s", op, a.Tag, b.Tag)
	}
	result, err := bitwiseBinary(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

func (m *Machine) execLogical(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	if !binaryOperandsValid(op, a, b) {
		return errors.Wrapf(ErrTypeMismatch, "%s requires BOOL operands", op)
	}
	result, err := logicalBinary(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

func (m *Machine) execEquality(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	result, err := compareEquality(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

func (m *Machine) execOrder(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	if !binaryOperandsValid(op, a, b) {
		return errors.Wrapf(ErrTypeMismatch, "%s on %s and %s", op, a.Tag, b.Tag)
	}
	result, err := compareOrder(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

func (m *Machine) execStringLength(op Op) error {
	b, _, err := m.popValue()
	if err != nil {
		return err
	}
	a, _, err := m.popValue()
	if err != nil {
		return err
	}
	result, err := compareStringLength(op, a, b)
	if err != nil {
		return err
	}
	return m.pushValue(result)
}

// execUnary handles !, ~, unary -/+, and ++/--. Unlike the binary
// handlers it mutates the popped operand's own slot in place via
// Store.Set and re-pushes the same handle, rather than allocating a
// fresh one: the result always has the same tag as the operand, so there
// is no need to free the old slot and grow the store for it.
func (m *Machine) execUnary(op Op) error {
	a, h, err := m.popValue()
	if err != nil {
		return err
	}
	if !unaryOperandValid(op, a) {
		return errors.Wrapf(ErrTypeMismatch, "%s on %s", op, a.Tag)
	}
	var result value.Value
	if op == NOT {
		result = value.NewBool(!a.Bl)
	} else if op == BNT {
		result = unaryBitwise(a)
	} else {
		result, err = unaryArithmetic(op, a)
		if err != nil {
			return err
		}
	}
	if err := m.Store.Set(h, result); err != nil {
		return err
	}
	return m.Stack.Push(h)
}

// execStackRegister handles PSH POP LOD STR MOV XCG CLR CLS ASN.
func (m *Machine) execStackRegister(op Op) error {
	switch op {
	case PSH:
		reg := int(m.readOperand())
		if reg == EmptyRegister {
			idx := int(m.readOperand())
			if idx < 0 || idx >= len(m.program.Constants) {
				return errors.Errorf("PSH: constant index %d out of range", idx)
			}
			return m.pushValue(m.program.Constants[idx].Clone())
		}
		h, err := m.Regs.Get(reg)
		if err != nil {
			return err
		}
		return m.Stack.Push(h)

	case POP:
		_, err := m.Stack.Pop()
		return err

	case LOD:
		reg := int(m.readOperand())
		return m.Regs.Load(reg, m.Stack)

	case STR:
		reg := int(m.readOperand())
		return m.Regs.Store(reg, m.Stack)

	case MOV:
		dst := int(m.readOperand())
		src := int(m.readOperand())
		return m.Regs.Move(dst, src)

	case XCG:
		a := int(m.readOperand())
		b := int(m.readOperand())
		return m.Regs.Exchange(a, b)

	case CLR:
		m.Regs.ClearAll()
		return nil

	case CLS:
		m.Stack.Clear()
		return nil

	case ASN:
		return m.execAssign()

	default:
		return errors.Wrapf(ErrIllegalOpcode, "opcode %s", op)
	}
}

// execAssign implements ASN (spec.md §4.6): pops a key (top) and a value,
// requires the key to be STRING, and installs the value under that key in
// the variable environment. The key's handle is marked unreachable so it
// is eligible for the next collection cycle.
func (m *Machine) execAssign() error {
	key, keyHandle, err := m.popValue()
	if err != nil {
		return err
	}
	val, valHandle, err := m.popValue()
	if err != nil {
		return err
	}
	if key.Tag != value.String {
		return errors.Wrapf(ErrTypeMismatch, "ASN key must be STRING, got %s", key.Tag)
	}
	m.Env.Set(key.Str, valHandle)
	_ = m.Store.MarkGlobal(valHandle)
	_ = m.Store.MarkUnreachable(keyHandle)
	return nil
}

// Collect runs a GC cycle. Roots are the operand stack and register file;
// variables bound via ASN are flagged global at bind time (see
// execAssign), so they are already covered by the store's global-root
// rule without needing a third root source here.
func (m *Machine) Collect() store.Stats {
	roots := m.Stack.Roots()
	roots = append(roots, m.Regs.Roots()...)
	return m.Store.Collect(roots)
}
