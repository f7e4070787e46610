package codegen

import (
	"strings"
	"testing"

	"github.com/go-sourcemap/sourcemap"
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/ir"
	"github.com/kinetic-sfc/compiler/internal/rope"
	"github.com/kinetic-sfc/compiler/internal/script"
	"github.com/kinetic-sfc/compiler/internal/typeresolve"
)

func newCtx(source string) *script.ScriptContext {
	return &script.ScriptContext{
		File:            "Comp.vue",
		Source:          source,
		Rope:            rope.New(source, "Comp.vue"),
		BindingMetadata: map[string]script.BindingKind{},
		HelperImports:   map[string]bool{},
	}
}

func TestGenerate_HelperImportsSortedAndGated(t *testing.T) {
	sc := newCtx("const x = 1;")
	sc.HelperImports["useSlots"] = true
	sc.HelperImports["useModel"] = true

	res, err := Generate(sc, nil, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := `import { useModel, useSlots } from "vue";`
	if !strings.Contains(res.Code, want) {
		t.Fatalf("expected sorted import line %q, got:\n%s", want, res.Code)
	}
}

func TestGenerate_NoHelperImportsWhenNoneUsed(t *testing.T) {
	sc := newCtx("const x = 1;")
	res, err := Generate(sc, nil, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(res.Code, "import {") {
		t.Fatalf("expected no import line, got:\n%s", res.Code)
	}
}

func TestGenerate_FrameworkModuleOverride(t *testing.T) {
	sc := newCtx("")
	sc.HelperImports["useModel"] = true
	res, err := Generate(sc, nil, Options{FrameworkModule: "@vue/runtime-core"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Code, `from "@vue/runtime-core";`) {
		t.Fatalf("expected custom framework module, got:\n%s", res.Code)
	}
}

func TestGenerate_DefaultExportNameAndOverride(t *testing.T) {
	sc := newCtx("")
	res, err := Generate(sc, nil, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Code, "const __sfc__ = {") || !strings.Contains(res.Code, "export default __sfc__;") {
		t.Fatalf("expected default __sfc__ export name, got:\n%s", res.Code)
	}

	res, err = Generate(sc, nil, Options{GenDefaultAs: "_comp"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(res.Code, "const _comp = {") || !strings.Contains(res.Code, "export default _comp;") {
		t.Fatalf("expected overridden export name, got:\n%s", res.Code)
	}
}

func TestBuildPropsOption_RuntimePropsLiteral(t *testing.T) {
	sc := newCtx("")
	sc.HasDefinePropsCall = true
	sc.RuntimeProps = []script.RuntimeProp{
		{Key: "title", Types: []typeresolve.RuntimeTag{typeresolve.TagString}, Required: true},
		{Key: "count", Types: []typeresolve.RuntimeTag{typeresolve.TagNumber}, Default: &ast.NumericLiteral{Value: 0, Text: "0"}},
		{Key: "flags", Types: []typeresolve.RuntimeTag{typeresolve.TagString, typeresolve.TagNumber}},
		{Key: "anything", SkipCheck: true},
	}

	text, ok := buildPropsOption(sc, false)
	if !ok {
		t.Fatal("expected buildPropsOption to report ok")
	}
	for _, want := range []string{
		`"title": { type: String, required: true }`,
		`"count": { type: Number, required: false, default: 0 }`,
		`"flags": { type: [String, Number], required: false }`,
		`"anything": { type: null, required: false }`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected props literal to contain %q, got: %s", want, text)
		}
	}
}

func TestBuildPropsOption_IsProdDropsNonBooleanType(t *testing.T) {
	sc := newCtx("")
	sc.HasDefinePropsCall = true
	sc.RuntimeProps = []script.RuntimeProp{
		{Key: "title", Types: []typeresolve.RuntimeTag{typeresolve.TagString}, Required: true},
		{Key: "disabled", Types: []typeresolve.RuntimeTag{typeresolve.TagBoolean}},
	}

	text, ok := buildPropsOption(sc, true)
	if !ok {
		t.Fatal("expected ok")
	}
	if !strings.Contains(text, `"title": { required: true }`) {
		t.Errorf("expected non-Boolean prop's type tag dropped in prod, got: %s", text)
	}
	if !strings.Contains(text, `"disabled": { type: Boolean, required: false }`) {
		t.Errorf("expected Boolean prop's type tag retained in prod, got: %s", text)
	}
}

func TestBuildPropsOption_RuntimeDeclVerbatim(t *testing.T) {
	sc := newCtx("")
	sc.HasDefinePropsCall = true
	sc.PropsRuntimeDecl = &ast.ArrayExpression{Elements: []ast.Node{
		&ast.StringLiteral{Value: "foo"},
		&ast.StringLiteral{Value: "bar"},
	}}

	text, ok := buildPropsOption(sc, false)
	if !ok {
		t.Fatal("expected ok")
	}
	if text != `["foo", "bar"]` {
		t.Fatalf("expected verbatim runtime decl, got: %s", text)
	}
}

func TestBuildPropsOption_RuntimeDeclWithMergeDefaults(t *testing.T) {
	sc := newCtx("")
	sc.HasDefinePropsCall = true
	sc.PropsRuntimeDecl = &ast.Identifier{Name: "propsRuntimeOptions"}
	sc.PropsRuntimeDefaults = &ast.ObjectExpression{Properties: []ast.ObjectProperty{
		{Key: "count", Value: &ast.NumericLiteral{Value: 1, Text: "1"}},
	}}

	text, ok := buildPropsOption(sc, false)
	if !ok {
		t.Fatal("expected ok")
	}
	want := `mergeDefaults(propsRuntimeOptions, { count: 1 })`
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestBuildPropsOption_NoDefinePropsCall(t *testing.T) {
	sc := newCtx("")
	if _, ok := buildPropsOption(sc, false); ok {
		t.Fatal("expected no props option without defineProps")
	}
}

func TestBuildEmitsOption_Names(t *testing.T) {
	sc := newCtx("")
	sc.HasDefineEmitsCall = true
	sc.EmitNames = []string{"update", "close"}

	text, ok := buildEmitsOption(sc)
	if !ok {
		t.Fatal("expected ok")
	}
	if text != `["update", "close"]` {
		t.Fatalf("got %q", text)
	}
}

func TestBuildEmitsOption_RuntimeDeclVerbatim(t *testing.T) {
	sc := newCtx("")
	sc.HasDefineEmitsCall = true
	sc.EmitsRuntimeDecl = &ast.ArrayExpression{Elements: []ast.Node{&ast.StringLiteral{Value: "change"}}}

	text, ok := buildEmitsOption(sc)
	if !ok {
		t.Fatal("expected ok")
	}
	if text != `["change"]` {
		t.Fatalf("got %q", text)
	}
}

func TestPrinter_PlainElement(t *testing.T) {
	root := []ir.Node{
		&ir.VNodeCall{Tag: "div", PatchFlag: ir.PatchText, Children: []ir.Node{
			&ir.RawExpr{Text: `toDisplayString(_ctx.msg)`},
		}},
	}
	var b strings.Builder
	p := &printer{out: &b}
	p.writeRenderFunction(root)
	got := b.String()
	want := `createVNode("div", null, toDisplayString(_ctx.msg), 1 /* TEXT */)`
	if !strings.Contains(got, want) {
		t.Fatalf("expected render body to contain %q, got:\n%s", want, got)
	}
}

func TestPrinter_ForNodeDelegatesToCodegen(t *testing.T) {
	forNode := &ir.For{
		Source: "_ctx.items", ValueAlias: "item", Codegen: &ir.VNodeCall{
			Tag:             "Fragment",
			IsBlock:         true,
			DisableTracking: true,
			PatchFlag:       ir.PatchUnkeyedFragment,
			Children: []ir.Node{
				&ir.CallExpression{Callee: "renderList", Args: []ir.Node{
					&ir.RawExpr{Text: "_ctx.items"},
					&ir.FunctionExpression{Params: []string{"item"}, Body: &ir.VNodeCall{Tag: "li"}},
				}},
			},
		},
	}
	var b strings.Builder
	p := &printer{out: &b}
	p.node(forNode)
	got := b.String()
	if !strings.Contains(got, "RENDER_LIST(_ctx.items, (item) => createVNode(\"li\", null, null))") {
		t.Fatalf("expected RENDER_LIST call with translated callee spelling, got: %s", got)
	}
	if !strings.HasPrefix(got, "(OPEN_BLOCK(true), createBlock(FRAGMENT,") {
		t.Fatalf("expected block-tracking-disabled fragment block, got: %s", got)
	}
	if !strings.Contains(got, "256 /* UNKEYED_FRAGMENT */") {
		t.Fatalf("expected unkeyed fragment patch flag comment, got: %s", got)
	}
}

func TestPrinter_IfElseChain(t *testing.T) {
	cond := &ir.Conditional{
		Test:       "_ctx.ok",
		Consequent: &ir.VNodeCall{Tag: "span", IsBlock: true},
		Alternate: &ir.Conditional{
			Test:       "_ctx.warn",
			Consequent: &ir.VNodeCall{Tag: "b", IsBlock: true},
			Alternate:  nil,
		},
	}
	var b strings.Builder
	p := &printer{out: &b}
	p.node(cond)
	got := b.String()
	if !strings.Contains(got, `(_ctx.ok) ? (`) || !strings.Contains(got, `(_ctx.warn) ? (`) {
		t.Fatalf("expected nested ternary chain, got: %s", got)
	}
	if !strings.Contains(got, `createCommentVNode("v-if", true)`) {
		t.Fatalf("expected dangling else branch to fall back to comment vnode, got: %s", got)
	}
}

func TestPrinter_ComponentWithSlots(t *testing.T) {
	slots := &ir.SlotsObject{
		Static: []*ir.Slot{
			{Name: "default", Fn: &ir.FunctionExpression{IsSlot: true, Body: &ir.VNodeCall{Tag: "span", IsBlock: true}}},
		},
		Dynamic: []ir.Node{
			&ir.Conditional{
				Test: "_ctx.cond",
				Consequent: &ir.Slot{
					Name: "foo",
					Fn:   &ir.FunctionExpression{IsSlot: true, Body: &ir.VNodeCall{Tag: "i", IsBlock: true}},
					Key:  "0",
				},
				Alternate: nil,
			},
		},
		Flag: ir.SlotDynamic,
	}
	root := &ir.VNodeCall{Tag: "MyComp", IsComponent: true, Children: []ir.Node{slots}}

	var b strings.Builder
	p := &printer{out: &b}
	p.node(root)
	got := b.String()
	if !strings.Contains(got, `createVNode(MyComp, null,`) {
		t.Fatalf("expected bare component identifier as tag, got: %s", got)
	}
	if !strings.Contains(got, `CREATE_SLOTS({`) {
		t.Fatalf("expected CREATE_SLOTS wrapper for dynamic slot, got: %s", got)
	}
	if !strings.Contains(got, `"default": WITH_CTX((`) {
		t.Fatalf("expected static slot fn wrapped in WITH_CTX, got: %s", got)
	}
	if !strings.Contains(got, `_: 2 /* DYNAMIC */`) {
		t.Fatalf("expected dynamic slot flag comment, got: %s", got)
	}
	if !strings.Contains(got, `{ name: "foo", fn:`) || !strings.Contains(got, `, key: "0" }`) {
		t.Fatalf("expected dynamic slot entry with key, got: %s", got)
	}
}

func TestPrinter_MemoWrappedForBody(t *testing.T) {
	memo := &ir.CallExpression{
		Callee: "withMemo",
		Args: []ir.Node{
			&ir.RawExpr{Text: "[item.id]"},
			&ir.FunctionExpression{Body: &ir.VNodeCall{Tag: "li"}},
			&ir.RawExpr{Text: "_cache[0]"},
		},
	}
	var b strings.Builder
	p := &printer{out: &b}
	p.node(memo)
	got := b.String()
	if !strings.Contains(got, `withMemo([item.id], () => createVNode("li", null, null), _cache[0])`) {
		t.Fatalf("expected withMemo passed through verbatim (not a spec-mandated name), got: %s", got)
	}
}

func TestGenerate_SourceMapRoundTrip(t *testing.T) {
	source := "const greeting = 'hi';\nconst count = 1;\n"
	sc := newCtx(source)
	sc.Rope.Overwrite(len("const greeting = "), len("const greeting = 'hi'"), "'hello'")

	res, err := Generate(sc, nil, Options{SourceMap: true})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Map == nil {
		t.Fatal("expected a source map")
	}
	mapJSON, err := res.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	consumer, err := sourcemap.Parse("Comp.vue.map", []byte(mapJSON))
	if err != nil {
		t.Fatalf("sourcemap.Parse: %v", err)
	}

	lines := strings.Split(res.Code, "\n")
	setupIdx := -1
	for i, l := range lines {
		if strings.Contains(l, "count") {
			setupIdx = i
			break
		}
	}
	if setupIdx < 0 {
		t.Fatal("expected rewritten script text embedded in generated code")
	}
	col := strings.Index(lines[setupIdx], "count")
	file, _, line, origCol, ok := consumer.Source(setupIdx+1, col)
	if !ok {
		t.Fatalf("expected a mapping for the untouched `count` reference at generated %d:%d", setupIdx, col)
	}
	if file != "Comp.vue" {
		t.Errorf("expected source file Comp.vue, got %s", file)
	}
	origLine := strings.Split(source, "\n")[line]
	if !strings.Contains(origLine, "count") || origCol < 0 {
		t.Errorf("expected mapping to resolve back onto the original `count` declaration, got line %q col %d", origLine, origCol)
	}
}
