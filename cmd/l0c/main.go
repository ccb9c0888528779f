// Command l0c drives the L0 pipeline end to end: scan, parse, check,
// generate IR, optimize, then either interpret the result directly or
// emit x86-32 assembly (spec §6 "Driver CLI").
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/l0lang/l0c/config"
	"github.com/l0lang/l0c/interp"
	"github.com/l0lang/l0c/ir"
	"github.com/l0lang/l0c/irgen"
	"github.com/l0lang/l0c/lang"
	"github.com/l0lang/l0c/optimize"
	"github.com/l0lang/l0c/sema"
	"github.com/l0lang/l0c/x86"
)

// Exit codes (spec §6: "Exit 0 on success, non-zero on
// scanner/parser/semantic/IR errors").
const (
	exitOK = iota
	exitUsage
	exitParseError
	exitSemaError
	exitIRError
	exitRuntimeError
	exitBackendError
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		runInterp   = flag.Bool("interp", false, "Run the program under the IR interpreter")
		emitAsm     = flag.String("emit-asm", "", "Emit x86-32 assembly to this file instead of interpreting")
		dumpIR      = flag.Bool("dump-ir", false, "Dump the generated (and optimized) IR to stdout")
		noOptimize  = flag.Bool("no-optimize", false, "Skip the optimizer pass, overriding config")
		configPath  = flag.String("config", "", "Path to a config.toml (default: platform config dir)")
		regAlloc    = flag.String("register-allocator", "", "Override config: spilling | remember")
		callConv    = flag.String("calling-convention", "", "Override config: stack | register")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("l0c (dev)")
		os.Exit(exitOK)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: l0c [flags] <source.l0>")
		flag.PrintDefaults()
		os.Exit(exitUsage)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "l0c: config error: %v\n", err)
		os.Exit(exitUsage)
	}
	if *regAlloc != "" {
		cfg.Backend.RegisterAllocator = *regAlloc
	}
	if *callConv != "" {
		cfg.Backend.CallingConvention = *callConv
	}
	if *noOptimize {
		cfg.Optimizer.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "l0c: invalid config: %v\n", err)
		os.Exit(exitUsage)
	}

	srcPath := flag.Arg(0)
	src, err := os.ReadFile(srcPath) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		fmt.Fprintf(os.Stderr, "l0c: %v\n", err)
		os.Exit(exitUsage)
	}

	itu, stage, err := compile(string(src), srcPath, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "l0c: %v\n", err)
		os.Exit(stage)
	}

	if *dumpIR {
		fmt.Print(itu.Dump())
	}

	switch {
	case *emitAsm != "":
		if err := emitAssembly(itu, *emitAsm, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "l0c: %v\n", err)
			os.Exit(exitBackendError)
		}
	case *runInterp:
		result, ok, err := runInterpreter(itu, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "l0c: %v\n", err)
			os.Exit(exitRuntimeError)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "l0c: program exceeded max_steps without returning")
			os.Exit(exitRuntimeError)
		}
		fmt.Printf("L0 Return:%d\n", result)
	}

	os.Exit(exitOK)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// compile runs scan->parse->check->irgen->optimize over src, returning
// the resulting IR translation unit. On failure it also reports which
// exit code the stage that failed corresponds to, so main and tests
// share one pipeline implementation.
func compile(src, filename string, cfg *config.Config) (*ir.TranslationUnit, int, error) {
	tu, err := lang.Parse(src, filename)
	if err != nil {
		return nil, exitParseError, err
	}

	attrs, err := sema.Analyze(tu)
	if err != nil {
		return nil, exitSemaError, err
	}

	itu, err := irgen.Generate(tu, attrs)
	if err != nil {
		return nil, exitIRError, err
	}

	if cfg.Optimizer.Enabled {
		optimize.Optimize(itu)
	}
	return itu, exitOK, nil
}

func runInterpreter(itu *ir.TranslationUnit, cfg *config.Config) (int, bool, error) {
	prog, err := interp.Build(itu)
	if err != nil {
		return 0, false, err
	}
	m := interp.NewMachine(prog,
		interp.WithMemoryWords(cfg.Interpreter.MemoryWords),
		interp.WithMaxSteps(int(cfg.Interpreter.MaxSteps)),
	)
	return m.Run()
}

func emitAssembly(itu *ir.TranslationUnit, outPath string, cfg *config.Config) error {
	f, err := os.Create(outPath) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := x86.NewBackend(f, cfg.Backend.RegisterAllocator, cfg.Backend.CallingConvention)
	if err != nil {
		return err
	}
	return b.Emit(itu)
}
