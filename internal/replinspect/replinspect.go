// Package replinspect is a small interactive loop for resolving a
// standalone TypeScript type expression through C2 (internal/typeresolve)
// and printing the element map it normalizes to, plus the runtime-tag
// list a defineProps<T>() declaration of that shape would synthesize.
// It is not part of the compile pipeline; it exists purely as a
// development aid for inspecting what the type resolver does with a
// given expression, the same role the teacher's REPL plays for
// inspecting evaluation of a standalone expression.
package replinspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/kinetic-sfc/compiler/internal/scope"
	"github.com/kinetic-sfc/compiler/internal/tsparser"
	"github.com/kinetic-sfc/compiler/internal/typeresolve"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

const historyFileName = ".sfc_inspect_history"

// REPL holds one inspection session's resolver, which keeps its memoization
// cache warm across input lines (spec §4.2 "memoizes on the node").
type REPL struct {
	resolver *typeresolve.Resolver
	file     string
}

// New builds a REPL whose resolver resolves against an empty in-process
// scope graph rooted at file — good enough for inspecting self-contained
// type literals/unions/mapped types; a reference to another file's
// export requires running the real compiler against that project instead.
func New(frameworkModule, file string) *REPL {
	g := scope.NewGraph(nil, nil)
	return &REPL{resolver: typeresolve.NewResolver(g, frameworkModule), file: file}
}

// Start runs the prompt loop until EOF or :quit.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), historyFileName)
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(false)

	fmt.Fprintf(out, "%s\n", bold("sfc-compiler inspect"))
	fmt.Fprintln(out, dim("Enter a TypeScript type expression to resolve it. :help for commands, :quit to exit."))
	fmt.Fprintln(out)

	for {
		input, err := line.Prompt("ts> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}
		line.AppendHistory(input)

		input = strings.TrimSpace(input)
		switch {
		case input == "":
			continue
		case input == ":quit" || input == ":q":
			fmt.Fprintln(out, green("Goodbye!"))
			return
		case input == ":help":
			fmt.Fprintln(out, dim("Enter any type expression, e.g.: { msg: string; count?: number }"))
			continue
		}

		r.eval(out, input)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (r *REPL) eval(out io.Writer, expr string) {
	t, err := tsparser.ParseTypeExpression(expr, r.file)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("parse error"), err)
		return
	}

	els, err := r.resolver.ResolveTypeElements(t, nil)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("resolve error"), err)
		return
	}

	keys := make([]string, 0, len(els.Props))
	for k := range els.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 && len(els.Calls) == 0 {
		fmt.Fprintln(out, dim("(no properties or call signatures)"))
		return
	}

	for _, k := range keys {
		p := els.Props[k]
		tags := r.resolver.InferRuntimeType(p.Type)
		tagNames := make([]string, len(tags))
		for i, tag := range tags {
			tagNames[i] = string(tag)
		}
		opt := ""
		if p.Optional {
			opt = yellow("?")
		}
		fmt.Fprintf(out, "  %s%s: %s\n", cyan(k), opt, strings.Join(tagNames, " | "))
	}
	for i, c := range els.Calls {
		fmt.Fprintf(out, "  %s: %d param(s)\n", dim(fmt.Sprintf("call[%d]", i)), len(c.Params))
	}
}
