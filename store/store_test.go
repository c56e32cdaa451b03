package store_test

import (
	"testing"

	"github.com/concoctist/concoct-go/store"
	"github.com/concoctist/concoct-go/value"
)

func TestAllocGetRoundTrip(t *testing.T) {
	s := store.New()
	h, err := s.Alloc(value.NewNumber(42))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	got, err := s.Get(h)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Num != 42 {
		t.Fatalf("got %v, want 42", got.Num)
	}
}

func TestStaleHandleAfterCollect(t *testing.T) {
	s := store.New()
	h, _ := s.Alloc(value.NewNumber(1))
	s.Collect(nil) // no roots: h's value is unreachable and gets swept
	if _, err := s.Get(h); err != store.ErrStaleHandle {
		t.Fatalf("expected ErrStaleHandle, got %v", err)
	}
}

func TestGrowthPreservesOtherHandles(t *testing.T) {
	s := store.New()
	handles := make([]store.Handle, 0, 200)
	for i := 0; i < 200; i++ {
		h, err := s.Alloc(value.NewNumber(int32(i)))
		if err != nil {
			t.Fatalf("Alloc #%d: %v", i, err)
		}
		handles = append(handles, h)
	}
	for i, h := range handles {
		v, err := s.Get(h)
		if err != nil {
			t.Fatalf("Get #%d after growth: %v", i, err)
		}
		if v.Num != int32(i) {
			t.Fatalf("Get #%d after growth = %v, want %d", i, v.Num, i)
		}
	}
	if s.Free() < 1 {
		t.Fatalf("invariant violated: free slots should be >=1 after allocation, got %d", s.Free())
	}
}

func TestCollectKeepsGlobalsAndConstantsOnly(t *testing.T) {
	s := store.New()
	for i := 0; i < 200; i++ {
		if _, err := s.Alloc(value.NewNumber(int32(i))); err != nil {
			t.Fatalf("Alloc #%d: %v", i, err)
		}
	}
	g, err := s.AllocGlobal(value.NewString("g"))
	if err != nil {
		t.Fatalf("AllocGlobal: %v", err)
	}
	c, err := s.AllocConstant("PI", value.NewDecimal(3.14))
	if err != nil {
		t.Fatalf("AllocConstant: %v", err)
	}

	stats := s.Collect(nil) // empty stack: only globals/constants survive
	if stats.LastFreed != 200 {
		t.Fatalf("expected 200 objects freed, got %d", stats.LastFreed)
	}
	if s.Used() != 2 {
		t.Fatalf("expected 2 survivors, got %d", s.Used())
	}
	if _, err := s.Get(g); err != nil {
		t.Fatalf("global should have survived: %v", err)
	}
	if _, err := s.Get(c); err != nil {
		t.Fatalf("constant should have survived: %v", err)
	}
}

func TestCollectHonorsStackRoots(t *testing.T) {
	s := store.New()
	kept, err := s.Alloc(value.NewString("kept"))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	dropped, err := s.Alloc(value.NewString("dropped"))
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	s.Collect([]store.Handle{kept})

	if _, err := s.Get(kept); err != nil {
		t.Fatalf("stack root should survive: %v", err)
	}
	if _, err := s.Get(dropped); err == nil {
		t.Fatalf("non-root should have been collected")
	}
}

func TestShrinkNeverBelowInitialCapacity(t *testing.T) {
	s := store.New()
	for i := 0; i < 500; i++ {
		if _, err := s.Alloc(value.NewByte(1)); err != nil {
			t.Fatalf("Alloc #%d: %v", i, err)
		}
	}
	s.Collect(nil) // drops everything (no roots), capacity should shrink back down
	if s.Capacity() < store.InitialCapacity {
		t.Fatalf("capacity %d fell below initial capacity %d", s.Capacity(), store.InitialCapacity)
	}
}

func TestConstantSurvivesRepeatedCollection(t *testing.T) {
	s := store.New()
	c, _ := s.AllocConstant("E", value.NewDecimal(2.71))
	for i := 0; i < 3; i++ {
		s.Collect(nil)
	}
	v, err := s.Get(c)
	if err != nil {
		t.Fatalf("constant did not survive repeated collection: %v", err)
	}
	if v.Dec != 2.71 {
		t.Fatalf("constant value corrupted: %v", v.Dec)
	}
}
