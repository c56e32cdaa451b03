// Command concoct runs a Concoct program file, or drops into a REPL when
// given none. Thin shell around the lexer/parser/compiler/vm packages: it
// owns argument parsing, I/O, and process exit status, nothing else.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/concoctist/concoct-go/compiler"
	"github.com/concoctist/concoct-go/lexer"
	"github.com/concoctist/concoct-go/parser"
	"github.com/concoctist/concoct-go/store"
	"github.com/concoctist/concoct-go/vm"
)

var (
	debug     bool
	dump      bool
	stackSize int
	storeSize int
)

func atExit(m *vm.Machine, err error) {
	if err == nil {
		return
	}
	if !debug {
		fmt.Fprintf(os.Stderr, "concoct: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "concoct: %+v\n", err)
	if m != nil {
		fmt.Fprintf(os.Stderr, "state: %s, stack depth: %d\n", m.State(), m.Stack.Len())
	}
	os.Exit(1)
}

func newMachine() *vm.Machine {
	m := vm.NewWithStore(store.NewSize(storeSize))
	if debug {
		m.Debug = func(line string) { fmt.Fprintln(os.Stderr, line) }
	}
	return m
}

// compileSource lexes, parses, and compiles src into a runnable program.
func compileSource(name, src string) (*vm.Program, error) {
	lex, err := lexer.New(stringsReader(src))
	if err != nil {
		return nil, errors.Wrapf(err, "%s: lexer", name)
	}
	p, err := parser.New(lex)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: parser", name)
	}
	prog, err := p.Parse()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: parse", name)
	}
	compiled, err := compiler.Compile(prog)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: compile", name)
	}
	return compiled, nil
}

func runFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer f.Close()

	src, err := readAll(f)
	if err != nil {
		return errors.Wrap(err, "read")
	}
	prog, err := compileSource(path, src)
	if err != nil {
		return err
	}
	m := newMachine()
	m.Load(prog)
	if err := m.Run(rootCtx()); err != nil {
		atExit(m, err)
		return err
	}
	if dump {
		dumpMachine(m, os.Stdout)
	}
	return nil
}

func main() {
	flag.BoolVar(&debug, "debug", false, "enable opcode/GC trace on stderr")
	flag.BoolVar(&dump, "dump", false, "dump stack/register state on exit")
	flag.IntVar(&stackSize, "stack-size", vm.StackCapacity, "operand stack capacity (fixed at compile time)")
	flag.IntVar(&storeSize, "store-size", store.InitialCapacity, "initial object store capacity")
	flag.Parse()

	if stackSize != vm.StackCapacity {
		atExit(nil, errors.Errorf("operand stack capacity is fixed at %d; -stack-size cannot change it", vm.StackCapacity))
	}

	args := flag.Args()
	if len(args) == 0 {
		repl()
		return
	}
	if err := runFile(args[0]); err != nil {
		atExit(nil, err)
	}
}

func dumpMachine(m *vm.Machine, w *os.File) {
	fmt.Fprintf(w, "state=%s stack=%d\n", m.State(), m.Stack.Len())
	for i := 0; i < vm.RegisterCount; i++ {
		h, err := m.Regs.Get(i)
		if err != nil {
			continue
		}
		if h.IsNil() {
			continue
		}
		v, err := m.Store.Get(h)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "r%d=%v\n", i, v)
	}
	for _, name := range m.Env.Keys() {
		h, ok := m.Env.Get(name)
		if !ok {
			continue
		}
		v, err := m.Store.Get(h)
		if err != nil {
			continue
		}
		tag := ""
		if cn := m.Store.ConstantName(h); cn != "" {
			tag = " const=" + cn
		} else if m.Store.IsGlobal(h) {
			tag = " global"
		}
		fmt.Fprintf(w, "%s=%v%s\n", name, v, tag)
	}
}

// repl switches the terminal to raw mode when stdin is a TTY (so the
// VM, not the line discipline, sees Ctrl-D/Ctrl-C), falling back to a
// plain buffered reader otherwise — mirroring the teacher's
// setupIO/rawtty split in cmd/retro/main.go.
func repl() {
	if st, err := os.Stdin.Stat(); err == nil && st.Mode()&os.ModeCharDevice != 0 {
		if tearDown, err := setRawIO(); err == nil {
			defer tearDown()
		}
	}

	in := bufio.NewReader(os.Stdin)
	fmt.Fprintln(os.Stdout, "concoct REPL — Ctrl-D to exit")
	m := newMachine()
	line := 1
	for {
		fmt.Fprintf(os.Stdout, "%d> ", line)
		text, err := in.ReadString('\n')
		if text == "" && err != nil {
			fmt.Fprintln(os.Stdout)
			return
		}
		prog, cerr := compileSource("<repl>", text)
		if cerr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", cerr)
			line++
			continue
		}
		m.Load(prog)
		if rerr := m.Run(rootCtx()); rerr != nil {
			fmt.Fprintf(os.Stderr, "%v\n", rerr)
		}
		line++
	}
}
