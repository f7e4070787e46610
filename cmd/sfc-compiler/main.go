package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/kinetic-sfc/compiler/internal/compiler"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/replinspect"
)

var (
	// Version info - set by ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	// Color output
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag   = flag.Bool("version", false, "Print version information")
		helpFlag      = flag.Bool("help", false, "Show help")
		prodFlag      = flag.Bool("prod", false, "Enable production optimizations (drop non-Boolean prop types)")
		sourceMapFlag = flag.Bool("source-map", false, "Emit a source map alongside the compiled module")
		destructFlag  = flag.Bool("props-destructure", false, "Rewrite destructured defineProps() bindings to stay reactive")
		defineModel   = flag.Bool("define-model", true, "Allow the defineModel() macro")
		frameworkFlag = flag.String("framework-module", "vue", "Import source for generated helper imports")
		outFlag       = flag.String("out", "", "Write compiled output to this file instead of stdout")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	opts := compiler.Options{
		IsProd:           *prodFlag,
		PropsDestructure: *destructFlag,
		AllowDefineModel: *defineModel,
		SourceMap:        *sourceMapFlag,
		FrameworkModule:  *frameworkFlag,
	}

	command := flag.Arg(0)

	switch command {
	case "compile":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sfc-compiler compile <file.vue>")
			os.Exit(1)
		}
		compileFile(flag.Arg(1), opts, *outFlag)

	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sfc-compiler check <file.vue>")
			os.Exit(1)
		}
		checkFile(flag.Arg(1), opts)

	case "watch":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: sfc-compiler watch <file.vue>")
			os.Exit(1)
		}
		watchFile(flag.Arg(1), opts)

	case "inspect":
		replinspect.New(*frameworkFlag, "<inspect>").Start(os.Stdout)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("sfc-compiler %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
	fmt.Println("\nA standalone Vue single-file-component compiler")
}

func printHelp() {
	fmt.Println(bold("sfc-compiler - Vue single-file-component compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  sfc-compiler <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>   Compile a .vue file and print the generated module\n", cyan("compile"))
	fmt.Printf("  %s <file>     Type-check and validate a .vue file without emitting output\n", cyan("check"))
	fmt.Printf("  %s <file>     Recompile a .vue file whenever it changes on disk\n", cyan("watch"))
	fmt.Printf("  %s             Start an interactive type-expression inspector\n", cyan("inspect"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version              Print version information")
	fmt.Println("  --help                 Show this help message")
	fmt.Println("  --prod                 Enable production optimizations")
	fmt.Println("  --source-map           Emit a source map alongside the compiled module")
	fmt.Println("  --props-destructure    Rewrite destructured defineProps() bindings")
	fmt.Println("  --define-model         Allow the defineModel() macro (default true)")
	fmt.Println("  --framework-module     Import source for generated helpers (default \"vue\")")
	fmt.Println("  --out <file>           Write compiled output to this file instead of stdout")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s          # Compile and print to stdout\n", cyan("sfc-compiler compile App.vue"))
	fmt.Printf("  %s  # Compile with source map\n", cyan("sfc-compiler compile App.vue --source-map --out App.js"))
	fmt.Printf("  %s             # Validate only\n", cyan("sfc-compiler check App.vue"))
}

// newCompiler builds a compiler.Compiler that prints every diagnostic it
// reports through OnError (spec §7's single-callback contract) to
// stderr, colored by severity the same way the rest of this CLI reports
// errors.
func newCompiler(opts compiler.Options) *compiler.Compiler {
	opts.OnError = func(r *errors.Report) {
		fmt.Fprintf(os.Stderr, "%s [%s] %s\n", red("error"), r.Code, r.Message)
		if r.Span != nil {
			fmt.Fprintf(os.Stderr, "  at %s:%d:%d\n", r.Span.File, r.Span.Start.Line, r.Span.Start.Column)
		}
		if r.Fix != nil {
			fmt.Fprintf(os.Stderr, "  %s %s\n", yellow("fix:"), r.Fix.Description)
		}
	}
	return compiler.New(opts)
}

func compileFile(path string, opts compiler.Options, out string) {
	c := newCompiler(opts)

	res, err := c.Compile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: compilation of %s failed\n", red("Error"), path)
		os.Exit(1)
	}

	if out == "" {
		fmt.Println(res.Code)
		if opts.SourceMap {
			if js, err := res.ToJSON(); err == nil && js != "" {
				fmt.Fprintln(os.Stderr, dimNote("source map:"))
				fmt.Fprintln(os.Stderr, js)
			}
		}
		return
	}

	if err := os.WriteFile(out, []byte(res.Code), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot write %s: %v\n", red("Error"), out, err)
		os.Exit(1)
	}
	if opts.SourceMap {
		if js, err := res.ToJSON(); err == nil && js != "" {
			_ = os.WriteFile(out+".map", []byte(js), 0o644)
		}
	}
	fmt.Printf("%s compiled %s -> %s\n", green("✓"), path, out)
}

func checkFile(path string, opts compiler.Options) {
	opts.SourceMap = false
	c := newCompiler(opts)

	fmt.Printf("%s Checking %s...\n", cyan("→"), path)
	if _, err := c.Compile(path); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s has errors\n", red("Error"), path)
		os.Exit(1)
	}
	fmt.Printf("%s No errors found!\n", green("✓"))
}

// watchFile polls path's modification time rather than using a
// filesystem-event library: none of the retrieved example repos or their
// dependency graphs carries one (e.g. fsnotify), and a project this size
// (single-file recompiles, not a directory tree) does not need the extra
// dependency to stay responsive.
func watchFile(path string, opts compiler.Options) {
	fmt.Printf("%s Watching %s for changes...\n", cyan("👁"), path)
	fmt.Println("Press Ctrl+C to stop")

	var lastMod time.Time
	recompile := func() {
		c := newCompiler(opts)
		if _, err := c.Compile(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: compilation failed\n", red("Error"))
			return
		}
		fmt.Printf("%s recompiled %s\n", green("✓"), path)
	}

	for {
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot stat %s: %v\n", red("Error"), path, err)
			os.Exit(1)
		}
		if info.ModTime().After(lastMod) {
			lastMod = info.ModTime()
			recompile()
		}
		time.Sleep(300 * time.Millisecond)
	}
}

func dimNote(s string) string {
	return color.New(color.Faint).Sprint(s)
}
