// Package codegen implements C7: the final assembly step that turns
// C3's rewritten script (internal/script.ScriptContext) and C5's
// template IR (internal/ir, produced by internal/template) into one
// compiled component module, plus an optional source map (spec §4.3
// "script macro pipeline" and §6 "External interfaces" together name
// everything this package emits; neither section specifies the
// assembly itself, so this is glue grounded directly in those two
// sections' output contracts rather than in any single teacher file).
package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ir"
	"github.com/kinetic-sfc/compiler/internal/rope"
	"github.com/kinetic-sfc/compiler/internal/script"
	"github.com/kinetic-sfc/compiler/internal/typeresolve"
)

// Options controls this assembly step (spec §6 "Options recognized by
// the compiler"); only the subset that changes C7's own output shape —
// the rest (babelParserPlugins, globalTypeFiles, fs, ...) belongs to the
// earlier phases that already consumed them by the time Generate runs.
type Options struct {
	IsProd bool

	// SourceMap gates emitting a Source Map V3 document alongside Code
	// (spec §6 "sourceMap: bool — emit map alongside output").
	SourceMap bool

	// GenDefaultAs names the variable the component options object is
	// bound to before being default-exported (spec §6 "genDefaultAs:
	// string — variable name to attach the default export to"). Defaults
	// to "__sfc__" when empty, matching the convention an anonymous SFC
	// compiles to.
	GenDefaultAs string

	// FrameworkModule is the import source for helper imports
	// (useModel/useSlots) ScriptContext.HelperImports names (spec's
	// Options resolution of `compiler.Options.FrameworkModule`, default
	// "vue"). Defaults to "vue" when empty.
	FrameworkModule string
}

// Result is C7's output (spec §6 "Output: Rewritten script text,
// optional source map (high-resolution), and bindingMetadata used by
// the template transform for expression prefixing decisions").
type Result struct {
	Code            string
	Map             *rope.SourceMap
	MapJSON         string
	BindingMetadata map[string]script.BindingKind
}

// Generate assembles one component module from sc's rewritten script
// and root's template IR: helper imports, a props/emits options object
// derived from sc's macro analysis, the rewritten setup body, and a
// render function compiled from root. Every structural decision —
// runtime props shape, patch flags, slot flags — was already made by C3
// and C5; this layer only serializes it, so it cannot itself fail on
// well-formed input and returns an error only if source-map
// marshaling does.
func Generate(sc *script.ScriptContext, root []ir.Node, opts Options) (*Result, error) {
	frameworkModule := opts.FrameworkModule
	if frameworkModule == "" {
		frameworkModule = "vue"
	}
	exportName := opts.GenDefaultAs
	if exportName == "" {
		exportName = "__sfc__"
	}

	var scriptText string
	var sm *rope.SourceMap
	if opts.SourceMap {
		scriptText, sm = sc.Rope.GenerateMap()
	} else {
		scriptText = sc.Rope.ToString()
	}

	var b strings.Builder
	writeHelperImports(&b, sc, frameworkModule)

	p := &printer{out: &b}
	p.writeRenderFunction(root)
	b.WriteString("\n")

	fmt.Fprintf(&b, "const %s = {\n", exportName)
	writeComponentOptions(&b, sc, opts.IsProd)
	b.WriteString("  setup(__props, { expose: __expose, emit: __emit }) {\n")
	b.WriteString("    __expose();\n\n")
	if opts.SourceMap {
		// rope.GenerateMap's segments are 0-based from scriptText's own
		// start, but scriptText lands partway down the final file (past the
		// helper imports, render function, and component header written
		// above). Shift every mapping down by that many lines with leading
		// ';' separators — each one advances Source Map V3's generated-line
		// counter without encoding a segment — instead of indenting, which
		// would shift columns GenerateMap already computed.
		sm.Mappings = strings.Repeat(";", strings.Count(b.String(), "\n")) + sm.Mappings
		b.WriteString(scriptText)
	} else {
		writeIndented(&b, scriptText, "    ")
	}
	b.WriteString("\n\n    return {};\n")
	b.WriteString("  },\n")
	b.WriteString("  render\n")
	b.WriteString("};\n\n")
	fmt.Fprintf(&b, "export default %s;\n", exportName)

	return &Result{Code: b.String(), Map: sm, BindingMetadata: sc.BindingMetadata}, nil
}

// ToJSON is a convenience wrapper over Result.Map.ToJSON, returning ""
// when no map was requested.
func (r *Result) ToJSON() (string, error) {
	if r.Map == nil {
		return "", nil
	}
	js, err := r.Map.ToJSON()
	if err != nil {
		return "", err
	}
	r.MapJSON = js
	return js, nil
}

// writeHelperImports emits one named import from frameworkModule per
// helper ScriptContext.HelperImports marked true (spec §6's useModel /
// useSlots helper names), sorted for deterministic output.
func writeHelperImports(b *strings.Builder, sc *script.ScriptContext, frameworkModule string) {
	if len(sc.HelperImports) == 0 {
		return
	}
	names := make([]string, 0, len(sc.HelperImports))
	for name, used := range sc.HelperImports {
		if used {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	fmt.Fprintf(b, "import { %s } from %s;\n\n", strings.Join(names, ", "), strconv.Quote(frameworkModule))
}

// writeComponentOptions emits the props/emits entries of the component
// options object, in source order, omitting either key entirely when
// neither defineProps nor defineEmits was called.
func writeComponentOptions(b *strings.Builder, sc *script.ScriptContext, isProd bool) {
	if propsText, ok := buildPropsOption(sc, isProd); ok {
		fmt.Fprintf(b, "  props: %s,\n", propsText)
	}
	if emitsText, ok := buildEmitsOption(sc); ok {
		fmt.Fprintf(b, "  emits: %s,\n", emitsText)
	}
}

// buildPropsOption implements spec §4.3's runtime-props codegen output
// side: a type-based declaration serializes the RuntimeProp table C3's
// ResolveProps built; a runtime declaration re-emits PropsRuntimeDecl
// verbatim, merged with PropsRuntimeDefaults via the mergeDefaults
// helper when withDefaults supplied one C3 could not statically fold in
// (the ObjectExpression case C3 already folds per-key; anything else —
// e.g. a spread — falls through to this helper call instead).
func buildPropsOption(sc *script.ScriptContext, isProd bool) (string, bool) {
	if !sc.HasDefinePropsCall {
		return "", false
	}
	if len(sc.RuntimeProps) > 0 {
		return runtimePropsLiteral(sc.RuntimeProps, isProd), true
	}
	if sc.PropsRuntimeDecl == nil {
		return "", false
	}
	decl := script.RenderExpr(sc.PropsRuntimeDecl)
	if sc.PropsRuntimeDefaults != nil {
		return fmt.Sprintf("mergeDefaults(%s, %s)", decl, script.RenderExpr(sc.PropsRuntimeDefaults)), true
	}
	return decl, true
}

func runtimePropsLiteral(props []script.RuntimeProp, isProd bool) string {
	var b strings.Builder
	b.WriteString("{ ")
	for i, p := range props {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", strconv.Quote(p.Key), runtimePropEntry(p, isProd))
	}
	b.WriteString(" }")
	return b.String()
}

// runtimePropEntry drops the non-Boolean type tag in production builds
// (spec §6 "isProd: bool — enables optimizations that drop non-Boolean
// prop-type tags"): only a Boolean-typed prop needs its type known at
// runtime, for attribute coercion; every other tag exists solely for
// the dev-mode type-mismatch warning.
func runtimePropEntry(p script.RuntimeProp, isProd bool) string {
	if isProd && !includesBoolean(p.Types) {
		return "{ required: " + strconv.FormatBool(p.Required) + defaultField(p) + " }"
	}
	if p.SkipCheck {
		return "{ type: null, required: " + strconv.FormatBool(p.Required) + defaultField(p) + " }"
	}
	return "{ type: " + typeTagsLiteral(p.Types) + ", required: " + strconv.FormatBool(p.Required) + defaultField(p) + " }"
}

func includesBoolean(tags []typeresolve.RuntimeTag) bool {
	for _, t := range tags {
		if t == typeresolve.TagBoolean {
			return true
		}
	}
	return false
}

func defaultField(p script.RuntimeProp) string {
	if p.Default == nil {
		return ""
	}
	return ", default: " + script.RenderExpr(p.Default)
}

// typeTagsLiteral prints a RuntimeProp's resolved tag set as the bare
// constructor reference defineProps expects: a single tag prints
// unwrapped (`type: String`), multiple print as an array
// (`type: [String, Number]`), matching how InferRuntimeType's result is
// consumed at the real framework's runtime.
func typeTagsLiteral(tags []typeresolve.RuntimeTag) string {
	if len(tags) == 1 {
		return string(tags[0])
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// buildEmitsOption mirrors buildPropsOption for defineEmits (spec §4.3):
// a type-based declaration's parsed call-signature event names print as
// a quoted array; a runtime array/object declaration re-emits verbatim.
func buildEmitsOption(sc *script.ScriptContext) (string, bool) {
	if !sc.HasDefineEmitsCall {
		return "", false
	}
	if len(sc.EmitNames) > 0 {
		parts := make([]string, len(sc.EmitNames))
		for i, n := range sc.EmitNames {
			parts[i] = strconv.Quote(n)
		}
		return "[" + strings.Join(parts, ", ") + "]", true
	}
	if sc.EmitsRuntimeDecl == nil {
		return "", false
	}
	return script.RenderExpr(sc.EmitsRuntimeDecl), true
}

func writeIndented(b *strings.Builder, text, indent string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if line == "" {
			continue
		}
		b.WriteString(indent)
		b.WriteString(line)
	}
}
