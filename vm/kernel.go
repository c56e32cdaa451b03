package vm

import (
	"math"

	"github.com/concoctist/concoct-go/value"
)

// promote returns the widest of a and b's tags, per the promotion lattice
// BYTE < NUMBER < BIGNUM < DECIMAL (spec.md §4.6). Every binary
// arithmetic/comparison handler below calls this once instead of
// switching over (tagA, tagB); each then operates in int64 when the
// widest tag is an integer one and only drops to float64 when DECIMAL is
// involved, so a BIGNUM pair never loses precision through a float64
// round-trip (spec.md §8.4, §9).
func promote(a, b value.Value) value.Tag {
	return value.Widest(a.Tag, b.Tag)
}

// numericEqual reports whether a and b, both numeric, are equal after
// promotion. BYTE/NUMBER/BIGNUM pairs compare as int64 so values above
// 2^53 don't collide the way they would through a float64 round-trip;
// DECIMAL is the only case that compares as float64.
func numericEqual(a, b value.Value) bool {
	if promote(a, b) == value.Decimal {
		return a.AsFloat64() == b.AsFloat64()
	}
	return a.AsInt64() == b.AsInt64()
}

// numericCompare returns -1, 0, or 1 for a vs b, both numeric, using the
// same int64-unless-DECIMAL rule as numericEqual.
func numericCompare(a, b value.Value) int {
	if promote(a, b) == value.Decimal {
		fa, fb := a.AsFloat64(), b.AsFloat64()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	ia, ib := a.AsInt64(), b.AsInt64()
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}

// binaryArithmetic implements +, -, *, /, %, ** for numeric operand pairs,
// plus the string special cases of + and *. It assumes both operands have
// already passed binaryOperandsValid for op.
func binaryArithmetic(op Op, a, b value.Value) (value.Value, error) {
	if op == ADD && a.Tag == value.String && b.Tag == value.String {
		return value.NewString(a.Str + b.Str), nil
	}
	if op == MUL && (a.Tag == value.String || b.Tag == value.String) {
		s, n := a, b
		if a.Tag != value.String {
			s, n = b, a
		}
		count := n.AsInt64()
		if count <= 0 {
			return value.NewString(""), nil
		}
		out := make([]byte, 0, len(s.Str)*int(count))
		for i := int64(0); i < count; i++ {
			out = append(out, s.Str...)
		}
		return value.NewString(string(out)), nil
	}

	wide := promote(a, b)

	if op == POW {
		// Exponentiation uses binary-64 under the hood regardless of
		// operand tag and re-wraps to the widest one.
		return value.WithFloat64(wide, math.Pow(a.AsFloat64(), b.AsFloat64())), nil
	}

	if wide == value.Decimal {
		fa, fb := a.AsFloat64(), b.AsFloat64()
		switch op {
		case ADD:
			return value.NewDecimal(fa + fb), nil
		case SUB:
			return value.NewDecimal(fa - fb), nil
		case MUL:
			return value.NewDecimal(fa * fb), nil
		case DIV:
			if fb == 0 {
				return value.Value{}, ErrDivisionByZero
			}
			return value.NewDecimal(fa / fb), nil
		case MOD:
			// Modulo truncates DECIMAL to BIGNUM before operating and
			// re-wraps as DECIMAL, per spec.md §4.6.
			ib := b.AsInt64()
			if ib == 0 {
				return value.Value{}, ErrDivisionByZero
			}
			return value.NewDecimal(float64(a.AsInt64() % ib)), nil
		default:
			return value.Value{}, ErrIllegalOpcode
		}
	}

	// BYTE/NUMBER/BIGNUM: operate in int64 so a BIGNUM pair keeps full
	// precision instead of losing bits above 2^53 through float64.
	ia, ib := a.AsInt64(), b.AsInt64()
	switch op {
	case ADD:
		return value.WithInt64(wide, ia+ib), nil
	case SUB:
		return value.WithInt64(wide, ia-ib), nil
	case MUL:
		return value.WithInt64(wide, ia*ib), nil
	case DIV:
		if ib == 0 {
			return value.Value{}, ErrDivisionByZero
		}
		return value.WithInt64(wide, ia/ib), nil
	case MOD:
		if ib == 0 {
			return value.Value{}, ErrDivisionByZero
		}
		return value.WithInt64(wide, ia%ib), nil
	default:
		return value.Value{}, ErrIllegalOpcode
	}
}

// bitwiseBinary implements &, |, ^, <<, >>, truncating both operands to
// int64 first (spec.md §4.6: "bitwise operators truncate DECIMAL to
// BIGNUM before operating").
func bitwiseBinary(op Op, a, b value.Value) (value.Value, error) {
	wide := value.Widest(a.Tag, b.Tag)
	ia, ib := a.AsInt64(), b.AsInt64()
	var result int64
	switch op {
	case BND:
		result = ia & ib
	case BOR:
		result = ia | ib
	case XOR:
		result = ia ^ ib
	case SHL:
		result = ia << uint(ib)
	case SHR:
		result = ia >> uint(ib)
	default:
		return value.Value{}, ErrIllegalOpcode
	}
	if wide == value.Decimal {
		return value.NewDecimal(float64(result)), nil
	}
	return value.WithInt64(wide, result), nil
}

// unaryBitwise implements ~ (bitwise NOT).
func unaryBitwise(a value.Value) value.Value {
	n := ^a.AsInt64()
	if a.Tag == value.Decimal {
		return value.NewDecimal(float64(n))
	}
	return value.WithInt64(a.Tag, n)
}

// logicalBinary implements &&, ||; both operands must already be BOOL.
func logicalBinary(op Op, a, b value.Value) (value.Value, error) {
	switch op {
	case AND:
		return value.NewBool(a.Bl && b.Bl), nil
	case OR:
		return value.NewBool(a.Bl || b.Bl), nil
	default:
		return value.Value{}, ErrIllegalOpcode
	}
}

// compareEquality implements ==, != over any of: same-tag BOOL, same-tag
// STRING (byte equality), any numeric pair (by value after promotion),
// and NIL==NIL (true). Any other cross-tag pair is a type error, per
// spec.md §4.6.
func compareEquality(op Op, a, b value.Value) (value.Value, error) {
	var eq bool
	switch {
	case a.Tag == value.Nil && b.Tag == value.Nil:
		eq = true
	case a.Tag == value.Bool && b.Tag == value.Bool:
		eq = a.Bl == b.Bl
	case a.Tag == value.String && b.Tag == value.String:
		eq = a.Str == b.Str
	case a.IsNumeric() && b.IsNumeric():
		eq = numericEqual(a, b)
	default:
		return value.Value{}, ErrTypeMismatch
	}
	if op == NEQ {
		eq = !eq
	}
	return value.NewBool(eq), nil
}

// compareOrder implements <, <=, >, >=. On numeric pairs it compares by
// value; on STRING pairs it deliberately compares lengths, not
// lexicographic order (spec.md §4.6: "this is a deliberate language
// choice, not a bug"). Invalid on NIL and BOOL.
func compareOrder(op Op, a, b value.Value) (value.Value, error) {
	var cmp int
	switch {
	case a.IsNumeric() && b.IsNumeric():
		cmp = numericCompare(a, b)
	case a.Tag == value.String && b.Tag == value.String:
		la, lb := len(a.Str), len(b.Str)
		switch {
		case la < lb:
			cmp = -1
		case la > lb:
			cmp = 1
		default:
			cmp = 0
		}
	default:
		return value.Value{}, ErrTypeMismatch
	}
	var result bool
	switch op {
	case LT:
		result = cmp < 0
	case LTE:
		result = cmp <= 0
	case GT:
		result = cmp > 0
	case GTE:
		result = cmp >= 0
	default:
		return value.Value{}, ErrIllegalOpcode
	}
	return value.NewBool(result), nil
}

// compareStringLength implements $=, $!: STRING-length (in)equality,
// requiring both operands to be STRING.
func compareStringLength(op Op, a, b value.Value) (value.Value, error) {
	if a.Tag != value.String || b.Tag != value.String {
		return value.Value{}, ErrTypeMismatch
	}
	eq := len(a.Str) == len(b.Str)
	if op == SLN {
		eq = !eq
	}
	return value.NewBool(eq), nil
}

// unaryArithmetic implements ++, --, unary - (negate), unary + (absolute);
// defined only on numeric tags, per spec.md §4.6.
func unaryArithmetic(op Op, a value.Value) (value.Value, error) {
	if a.Tag == value.Decimal {
		f := a.AsFloat64()
		switch op {
		case INC:
			return value.NewDecimal(f + 1), nil
		case DEC:
			return value.NewDecimal(f - 1), nil
		case NEG:
			return value.NewDecimal(-f), nil
		case POS:
			return value.NewDecimal(math.Abs(f)), nil
		default:
			return value.Value{}, ErrIllegalOpcode
		}
	}
	// BYTE/NUMBER/BIGNUM: operate in int64, same reasoning as
	// binaryArithmetic — a BIGNUM must not round-trip through float64.
	n := a.AsInt64()
	switch op {
	case INC:
		return value.WithInt64(a.Tag, n+1), nil
	case DEC:
		return value.WithInt64(a.Tag, n-1), nil
	case NEG:
		return value.WithInt64(a.Tag, -n), nil
	case POS:
		if n < 0 {
			n = -n
		}
		return value.WithInt64(a.Tag, n), nil
	default:
		return value.Value{}, ErrIllegalOpcode
	}
}

// binaryOperandsValid enforces the operand-validity table of spec.md
// §4.6 before a binary handler runs.
func binaryOperandsValid(op Op, a, b value.Value) bool {
	switch op {
	case ADD, MUL:
		if a.IsNumeric() && b.IsNumeric() {
			return true
		}
		if op == ADD {
			return a.Tag == value.String && b.Tag == value.String
		}
		// MUL: STRING x NUMBER or NUMBER x STRING repetition only — not
		// any numeric tag (spec.md §4.6).
		return (a.Tag == value.String && b.Tag == value.Number) || (a.Tag == value.Number && b.Tag == value.String)
	case SUB, DIV, MOD, POW, BND, BOR, XOR, SHL, SHR:
		return a.IsNumeric() && b.IsNumeric()
	case AND, OR:
		return a.Tag == value.Bool && b.Tag == value.Bool
	case EQL, NEQ:
		return true // compareEquality itself enforces the pairwise rule
	case GT, GTE, LT, LTE:
		if a.Tag == value.Nil || a.Tag == value.Bool || b.Tag == value.Nil || b.Tag == value.Bool {
			return false
		}
		return (a.IsNumeric() && b.IsNumeric()) || (a.Tag == value.String && b.Tag == value.String)
	case SLE, SLN:
		return a.Tag == value.String && b.Tag == value.String
	default:
		return false
	}
}

// unaryOperandValid enforces the unary operand-validity rule: numeric only
// for the arithmetic unary ops and for bitwise ~, BOOL only for !
// (spec.md §4.6).
func unaryOperandValid(op Op, a value.Value) bool {
	switch op {
	case INC, DEC, NEG, POS, BNT:
		return a.IsNumeric()
	case NOT:
		return a.Tag == value.Bool
	default:
		return false
	}
}
