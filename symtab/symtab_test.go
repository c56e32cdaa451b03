package symtab_test

import (
	"fmt"
	"testing"

	"github.com/concoctist/concoct-go/symtab"
)

func TestHashIsDeterministic(t *testing.T) {
	a := symtab.Hash("concoct")
	b := symtab.Hash("concoct")
	if a != b {
		t.Fatalf("Hash not deterministic: %d != %d", a, b)
	}
	if symtab.Hash("concoct") == symtab.Hash("retro") {
		t.Fatalf("unexpected hash collision between unrelated keys")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	m := symtab.New[int]()
	m.Set("if", 1)
	m.Set("while", 2)

	v, ok := m.Get("if")
	if !ok || v != 1 {
		t.Fatalf("Get(if) = %v, %v; want 1, true", v, ok)
	}
	v, ok = m.Get("while")
	if !ok || v != 2 {
		t.Fatalf("Get(while) = %v, %v; want 2, true", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatalf("Get(missing) should report not found")
	}
}

func TestSetOverwritesExistingKey(t *testing.T) {
	m := symtab.New[int]()
	m.Set("x", 1)
	m.Set("x", 2)
	if v, _ := m.Get("x"); v != 2 {
		t.Fatalf("overwrite failed: got %v, want 2", v)
	}
	if m.Len() != 1 {
		t.Fatalf("overwrite should not duplicate entries, Len() = %d", m.Len())
	}
}

// TestDeleteHeadPreservesChainTail exercises the fix for the upstream
// bucket-unlink bug: removing the head of a chain with a non-nil next must
// relink the bucket to that next node, not lose it.
func TestDeleteHeadPreservesChainTail(t *testing.T) {
	m := symtab.NewSize[int](1) // force every key into the same bucket
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("c", 3)

	// "c" was inserted last and sits at the head of the bucket's chain.
	m.Delete("c")

	if _, ok := m.Get("a"); !ok {
		t.Fatalf("deleting chain head lost a surviving chain member (a)")
	}
	if _, ok := m.Get("b"); !ok {
		t.Fatalf("deleting chain head lost a surviving chain member (b)")
	}
	if _, ok := m.Get("c"); ok {
		t.Fatalf("deleted key c still present")
	}
	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after deleting one of three chained keys", m.Len())
	}
}

func TestDeleteMiddleAndTail(t *testing.T) {
	m := symtab.NewSize[int](1)
	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprintf("k%d", i), i)
	}
	m.Delete("k2") // middle
	m.Delete("k0") // tail of chain (inserted first, so pushed deepest)

	if _, ok := m.Get("k2"); ok {
		t.Fatalf("k2 should be gone")
	}
	if _, ok := m.Get("k0"); ok {
		t.Fatalf("k0 should be gone")
	}
	for _, k := range []string{"k1", "k3", "k4"} {
		if _, ok := m.Get(k); !ok {
			t.Fatalf("%s should still be present", k)
		}
	}
}

func TestSharedAcrossValueTypes(t *testing.T) {
	// The same generic Map type serves both as a keyword table (int token
	// codes) and a variable environment (an opaque handle type); this just
	// exercises that a non-int value type instantiates and works the same.
	type handle struct{ idx int32 }
	m := symtab.New[handle]()
	m.Set("x", handle{idx: 7})
	v, ok := m.Get("x")
	if !ok || v.idx != 7 {
		t.Fatalf("Get(x) = %+v, %v; want {7}, true", v, ok)
	}
}
