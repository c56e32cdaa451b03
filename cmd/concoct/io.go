package main

import (
	"context"
	"io"
	"strings"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	return string(b), err
}

// rootCtx is the background context a single run of the interpreter
// loop is driven under; concoct has no signal-driven cancellation, so
// there's nothing further to attach to it.
func rootCtx() context.Context { return context.Background() }
