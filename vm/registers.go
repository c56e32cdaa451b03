package vm

import "github.com/concoctist/concoct-go/store"

// RegisterCount is 16 general-purpose registers plus the result slot RS
// (spec.md §3.3).
const RegisterCount = 17

// RS is the designated result register's index.
const RS = 16

// Registers is the VM's fixed bank of value-reference slots.
type Registers struct {
	slots [RegisterCount]store.Handle
}

// NewRegisters returns a register file with every slot in the empty
// (absent) state. The zero Registers value is not usable directly: Go
// zero-initializes store.Handle to {index: 0}, which would alias the
// store's first slot rather than meaning "absent".
func NewRegisters() *Registers {
	r := &Registers{}
	r.ClearAll()
	return r
}

func validRegister(i int) bool { return i >= 0 && i < RegisterCount }

// Get returns the handle held by register i.
func (r *Registers) Get(i int) (store.Handle, error) {
	if !validRegister(i) {
		return store.Nil, ErrInvalidRegister
	}
	return r.slots[i], nil
}

// Set installs h into register i.
func (r *Registers) Set(i int, h store.Handle) error {
	if !validRegister(i) {
		return ErrInvalidRegister
	}
	r.slots[i] = h
	return nil
}

// ClearAll sets every register to the empty (nil-handle) state, the CLR
// opcode's handler.
func (r *Registers) ClearAll() {
	for i := range r.slots {
		r.slots[i] = store.Nil
	}
}

// Move copies src's content into dst (the MOV opcode's handler).
func (r *Registers) Move(dst, src int) error {
	v, err := r.Get(src)
	if err != nil {
		return err
	}
	return r.Set(dst, v)
}

// Exchange swaps the contents of two registers (the XCG opcode's
// handler).
func (r *Registers) Exchange(a, b int) error {
	if !validRegister(a) || !validRegister(b) {
		return ErrInvalidRegister
	}
	r.slots[a], r.slots[b] = r.slots[b], r.slots[a]
	return nil
}

// Load pops the stack and stores the popped handle into register i (the
// LOD opcode's handler).
func (r *Registers) Load(i int, stack *Stack) error {
	h, err := stack.Pop()
	if err != nil {
		return err
	}
	return r.Set(i, h)
}

// Store pushes register i's content onto the stack (the STR opcode's
// handler).
func (r *Registers) Store(i int, stack *Stack) error {
	h, err := r.Get(i)
	if err != nil {
		return err
	}
	return stack.Push(h)
}

// Roots returns every non-nil handle held by a register, for GC root
// collection.
func (r *Registers) Roots() []store.Handle {
	roots := make([]store.Handle, 0, RegisterCount)
	for _, h := range r.slots {
		if !h.IsNil() {
			roots = append(roots, h)
		}
	}
	return roots
}
