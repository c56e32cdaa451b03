package value_test

import (
	"math"
	"testing"

	"github.com/concoctist/concoct-go/value"
)

func TestNewFromText(t *testing.T) {
	cases := []struct {
		text string
		tag  value.Tag
	}{
		{"null", value.Nil},
		{"NULL", value.Nil},
		{"true", value.Bool},
		{"TRUE", value.Bool},
		{"false", value.Bool},
		{"42", value.Number},
		{"-7", value.Number},
		{"9999999999", value.BigNum}, // overflows int32
		{"3.14", value.Decimal},
		{"hello", value.String},
		{"", value.String},
	}
	for _, c := range cases {
		got := value.NewFromText(c.text)
		if got.Tag != c.tag {
			t.Errorf("NewFromText(%q) tag = %v, want %v", c.text, got.Tag, c.tag)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []struct {
		v    value.Value
		want string
	}{
		{value.NewNil(), "null"},
		{value.NewBool(true), "true"},
		{value.NewBool(false), "false"},
		{value.NewByte(200), "200"},
		{value.NewNumber(-123), "-123"},
		{value.NewBigNum(1 << 40), "1099511627776"},
		{value.NewString("Concocter!"), "Concocter!"},
		{value.NewString(""), ""},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestCloneIsIndependentForStrings(t *testing.T) {
	v := value.NewString("hello")
	c := v.Clone()
	if c.Str != v.Str {
		t.Fatalf("clone diverged before mutation: %q != %q", c.Str, v.Str)
	}
	// Go strings are immutable, so independence is structural rather than
	// observable via mutation; assert the contract holds regardless.
	if &v == &c {
		t.Fatalf("clone returned the same Value")
	}
}

func TestWidest(t *testing.T) {
	if value.Widest(value.Byte, value.Decimal) != value.Decimal {
		t.Fatalf("expected Decimal to win promotion")
	}
	if value.Widest(value.BigNum, value.Number) != value.BigNum {
		t.Fatalf("expected BigNum to win promotion")
	}
}

func TestWithFloat64Truncates(t *testing.T) {
	got := value.WithFloat64(value.Number, 3.99)
	if got.Num != 3 {
		t.Fatalf("expected truncation toward zero, got %v", got.Num)
	}
	got = value.WithFloat64(value.Decimal, math.Pi)
	if got.Dec != math.Pi {
		t.Fatalf("decimal rewrap should be lossless")
	}
}
