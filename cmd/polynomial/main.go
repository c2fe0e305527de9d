// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"golang.org/x/term"

	polynomial "github.com/complex-gh/polynomial_go"
	"github.com/complex-gh/polynomial_go/internal/config"
	"github.com/complex-gh/polynomial_go/internal/log"
	"github.com/complex-gh/polynomial_go/vm"
)

const (
	appName    = "polynomial"
	promptMain = "f(x) = "
	promptRead = "? "
)

var helpText = `usage: polynomial <command> [flags] [file]

commands:
  run        decode a polynomial (or built program) and execute it
  translate  print the generated source
  decode     print the decoded instructions
  build      decode, check and store a program (-o file)
  encode     assemble instructions into a polynomial
  repl       read polynomials interactively
  version    print the version

A program given on stdin cannot use read, since stdin holds the program
itself; pass it as a file instead.

common flags:
  -config file   YAML configuration
  -v             debug logging
`

func usage() {
	fmt.Fprint(os.Stderr, helpText)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "translate":
		os.Exit(cmdTranslate(os.Args[2:]))
	case "decode":
		os.Exit(cmdDecode(os.Args[2:]))
	case "build":
		os.Exit(cmdBuild(os.Args[2:]))
	case "encode":
		os.Exit(cmdEncode(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(polynomial.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

// options are the flags shared by every command
type options struct {
	configPath string
	verbose    bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
}

// load resolves the configuration and installs the default logger
func (o *options) load() (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	level := log.LevelFromString(cfg.LogLevel)
	if o.verbose {
		level = slog.LevelDebug
	}
	log.SetDefault(log.New(os.Stderr, level))
	return cfg, nil
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
	return 1
}

// readInput reads the named file, or stdin for "" and "-"
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// loadProgram accepts either polynomial text or a stored program. Text is
// decoded and, when translate is set, lowered to source.
func loadProgram(raw []byte, cfg config.Config, translate bool) (*polynomial.Program, error) {
	if polynomial.IsStored(raw) {
		p, err := polynomial.Load(raw)
		if err != nil {
			return nil, err
		}
		if translate {
			g := &polynomial.Generator{Indent: cfg.Indent}
			if p.Source, err = g.Translate(p.Instructions); err != nil {
				return nil, err
			}
		}
		return p, nil
	}
	if !translate {
		return polynomial.Decode(string(raw))
	}
	g := &polynomial.Generator{Indent: cfg.Indent}
	return g.Compile(string(raw))
}

// parseCommand parses flags and returns the config and the single optional
// file argument.
func parseCommand(name string, args []string, o *options, fs *flag.FlagSet) (config.Config, string, error) {
	o.register(fs)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, "", err
	}
	if fs.NArg() > 1 {
		return config.Config{}, "", fmt.Errorf("%s takes at most one file", name)
	}
	cfg, err := o.load()
	return cfg, fs.Arg(0), err
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

// checkRunInput rejects programs that read input when the polynomial itself
// came from stdin, since stdin is then already consumed.
func checkRunInput(path string, instrs []polynomial.Instruction) error {
	if path != "" && path != "-" {
		return nil
	}
	for i, in := range instrs {
		if op, _ := in.Op(); op == polynomial.OpRead {
			return fmt.Errorf("instruction %d reads input but the program came from stdin; pass it as a file", i)
		}
	}
	return nil
}

func cmdRun(args []string) int {
	var o options
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	maxSteps := fs.Int("max-steps", -1, "step limit, overrides the configuration")
	cfg, path, err := parseCommand("run", args, &o, fs)
	if err != nil {
		return fail(err)
	}
	if *maxSteps >= 0 {
		cfg.MaxSteps = *maxSteps
	}

	raw, err := readInput(path)
	if err != nil {
		return fail(err)
	}
	p, err := loadProgram(raw, cfg, true)
	if err != nil {
		return fail(err)
	}

	if err := checkRunInput(path, p.Instructions); err != nil {
		return fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := vm.New(vm.Config{Stdin: os.Stdin, Stdout: os.Stdout, MaxSteps: cfg.MaxSteps})
	if err := m.Run(ctx, p.Instructions); err != nil {
		return fail(err)
	}
	return 0
}

// -----------------------------------------------------------------------------
// translate / decode / build
// -----------------------------------------------------------------------------

func cmdTranslate(args []string) int {
	var o options
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	cfg, path, err := parseCommand("translate", args, &o, fs)
	if err != nil {
		return fail(err)
	}
	raw, err := readInput(path)
	if err != nil {
		return fail(err)
	}
	p, err := loadProgram(raw, cfg, true)
	if err != nil {
		return fail(err)
	}
	fmt.Print(p.SourceText())
	return 0
}

func cmdDecode(args []string) int {
	var o options
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	showRoots := fs.Bool("roots", false, "also print the cleaned roots")
	cfg, path, err := parseCommand("decode", args, &o, fs)
	if err != nil {
		return fail(err)
	}
	raw, err := readInput(path)
	if err != nil {
		return fail(err)
	}
	p, err := loadProgram(raw, cfg, false)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("# fingerprint %s\n", p.Fingerprint())
	if *showRoots {
		for i, r := range p.Roots {
			fmt.Printf("# root %d: %v\n", i, r)
		}
	}
	fmt.Print(polynomial.FormatAssembly(p.Instructions))
	return 0
}

func cmdBuild(args []string) int {
	var o options
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	outPath := fs.String("o", "", "output file (required)")
	cfg, path, err := parseCommand("build", args, &o, fs)
	if err != nil {
		return fail(err)
	}
	if *outPath == "" {
		return fail(errors.New("build needs -o"))
	}
	raw, err := readInput(path)
	if err != nil {
		return fail(err)
	}
	p, err := loadProgram(raw, cfg, true)
	if err != nil {
		return fail(err)
	}
	b, err := p.Store()
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		return fail(err)
	}
	log.Info("program stored", "path", *outPath, "instructions", len(p.Instructions), "fingerprint", p.Fingerprint())
	return 0
}

// -----------------------------------------------------------------------------
// encode
// -----------------------------------------------------------------------------

func cmdEncode(args []string) int {
	var o options
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	name := fs.String("name", "f", "function name of the polynomial")
	variable := fs.String("var", "x", "variable symbol")
	_, path, err := parseCommand("encode", args, &o, fs)
	if err != nil {
		return fail(err)
	}
	raw, err := readInput(path)
	if err != nil {
		return fail(err)
	}
	instrs, err := polynomial.ParseAssembly(string(raw))
	if err != nil {
		return fail(err)
	}
	text, err := polynomial.EncodeText(polynomial.Header{Name: *name, Var: *variable}, instrs)
	if err != nil {
		return fail(err)
	}
	fmt.Println(text)
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

// promptReader feeds the read instruction from liner prompts
type promptReader struct {
	ln  *liner.State
	buf []byte
}

func (r *promptReader) Read(p []byte) (int, error) {
	if len(r.buf) == 0 {
		line, err := r.ln.Prompt(promptRead)
		if err != nil {
			return 0, io.EOF
		}
		r.buf = []byte(line + "\n")
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// evalLine compiles and runs one polynomial; the input is prefixed with the
// f(x) = header when the user typed only the terms.
func evalLine(line string, cfg config.Config, stdin io.Reader) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !strings.Contains(line, "=") {
		line = promptMain + line
	}
	g := &polynomial.Generator{Indent: cfg.Indent}
	p, err := g.Compile(line)
	if err != nil {
		return err
	}
	fmt.Print(p.SourceText())
	m := vm.New(vm.Config{Stdin: stdin, Stdout: os.Stdout, MaxSteps: cfg.MaxSteps})
	err = m.Run(ctx, p.Instructions)
	fmt.Println()
	return err
}

func cmdRepl(args []string) int {
	var o options
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	cfg, _, err := parseCommand("repl", args, &o, fs)
	if err != nil {
		return fail(err)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// piped input: one polynomial per line, no prompts
		sc := bufio.NewScanner(os.Stdin)
		sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == "" {
				continue
			}
			if err := evalLine(sc.Text(), cfg, strings.NewReader("")); err != nil {
				return fail(err)
			}
		}
		if err := sc.Err(); err != nil {
			return fail(err)
		}
		return 0
	}

	fmt.Printf("Polynomial %s REPL\nCtrl+D exits. Type :quit to exit.\n", polynomial.Version)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.HistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	stdin := &promptReader{ln: ln}
	for {
		line, err := ln.Prompt(promptMain)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			fmt.Println()
			return 0
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case line == ":quit":
			return 0
		case strings.HasPrefix(line, ":"):
			fmt.Println("unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(line)
		if err := evalLine(line, cfg, stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
