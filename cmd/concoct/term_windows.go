package main

import "github.com/pkg/errors"

// setRawIO has no termios equivalent wired on Windows; the REPL falls
// back to buffered line input there. Grounded on cmd/retro's per-OS
// term_*.go split (the teacher ships a real term_windows.go using the
// console API; this port only needs the fallback path since raw mode
// isn't required for a line-oriented REPL).
func setRawIO() (func(), error) {
	return nil, errors.New("raw terminal mode is not supported on windows")
}
