package main

import (
	"context"
	"testing"

	"github.com/concoctist/concoct-go/vm"
)

func TestCompileSourceRunsToHalted(t *testing.T) {
	prog, err := compileSource("<test>", "var x = 1 + 2\n")
	if err != nil {
		t.Fatalf("compileSource: %v", err)
	}
	storeSize = 128
	m := newMachine()
	m.Load(prog)
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if m.State() != vm.Halted {
		t.Fatalf("expected HALTED, got %s", m.State())
	}
	h, ok := m.Env.Get("x")
	if !ok {
		t.Fatalf("expected x to be bound")
	}
	v, err := m.Store.Get(h)
	if err != nil {
		t.Fatalf("Get(x): %v", err)
	}
	if v.Num != 3 {
		t.Fatalf("x = %v, want NUMBER 3", v)
	}
}

func TestCompileSourceRejectsControlFlow(t *testing.T) {
	if _, err := compileSource("<test>", "if x { y = 1 }\n"); err == nil {
		t.Fatalf("expected a compile error for an if statement")
	}
}
