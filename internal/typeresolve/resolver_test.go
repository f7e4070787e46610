package typeresolve

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/scope"
	"github.com/kinetic-sfc/compiler/internal/tsparser"
)

type memFS struct {
	files map[string]string
}

func (m memFS) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m memFS) ReadFile(path string) (string, error) {
	if text, ok := m.files[path]; ok {
		return text, nil
	}
	return "", os.ErrNotExist
}

func propKeys(els *ResolvedElements) []string {
	var out []string
	for k := range els.Props {
		out = append(out, k)
	}
	return out
}

func TestResolveTypeLiteralProps(t *testing.T) {
	tn, err := tsparser.ParseTypeExpression(`{ a: string; b?: number }`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	els, err := r.ResolveTypeElements(tn, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, propKeys(els))
	require.False(t, els.Props["a"].Optional)
	require.True(t, els.Props["b"].Optional)
}

func TestResolveTypeElementsMemoizesByNode(t *testing.T) {
	tn, err := tsparser.ParseTypeExpression(`{ a: string }`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	e1, err := r.ResolveTypeElements(tn, nil)
	require.NoError(t, err)
	e2, err := r.ResolveTypeElements(tn, nil)
	require.NoError(t, err)
	require.Same(t, e1, e2)
}

func TestResolveUnionKeyMissingFromABranchBecomesOptional(t *testing.T) {
	tn, err := tsparser.ParseTypeExpression(`{ a: string } | { a: string; b: number }`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	els, err := r.ResolveTypeElements(tn, nil)
	require.NoError(t, err)
	require.False(t, els.Props["a"].Optional)
	require.True(t, els.Props["b"].Optional)
}

func TestResolveTypeReferenceAcrossScope(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/use.ts":   `import { Props } from './props'`,
		"/src/props.ts": `export interface Props { label: string }`,
	}}
	g := scope.NewGraph(fs, nil)
	s, err := g.Scope("/src/use.ts")
	require.NoError(t, err)

	tn, err := tsparser.ParseTypeExpression(`Props`, "/src/use.ts")
	require.NoError(t, err)
	r := NewResolver(g, "")
	els, err := r.ResolveTypeElements(tn, s)
	require.NoError(t, err)
	require.Contains(t, els.Props, "label")
}

func TestResolvePickAndOmit(t *testing.T) {
	base, err := tsparser.ParseTypeExpression(`{ a: string; b: number; c: boolean }`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")

	pick := &ast.TypeReference{Name: "Pick", TypeArgs: []ast.TypeNode{base, &ast.LiteralType{LitKind: ast.LiteralString, Text: `"a"`}}}
	picked, err := r.ResolveTypeElements(pick, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a"}, propKeys(picked))

	omit := &ast.TypeReference{Name: "Omit", TypeArgs: []ast.TypeNode{base, &ast.LiteralType{LitKind: ast.LiteralString, Text: `"a"`}}}
	omitted, err := r.ResolveTypeElements(omit, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"b", "c"}, propKeys(omitted))
}

func TestResolvePartialMakesAllOptional(t *testing.T) {
	base, err := tsparser.ParseTypeExpression(`{ a: string; b: number }`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	partial := &ast.TypeReference{Name: "Partial", TypeArgs: []ast.TypeNode{base}}
	els, err := r.ResolveTypeElements(partial, nil)
	require.NoError(t, err)
	require.True(t, els.Props["a"].Optional)
	require.True(t, els.Props["b"].Optional)
}

func TestExtractPropTypesReverseInference(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/c.ts": `import { ExtractPropTypes } from 'vue'`,
	}}
	g := scope.NewGraph(fs, nil)
	s, err := g.Scope("/src/c.ts")
	require.NoError(t, err)

	propsDef, err := tsparser.ParseTypeExpression(`{ msg: { type: string; required: true }; count: NumberConstructor }`, "t.ts")
	require.NoError(t, err)

	r := NewResolver(g, "vue")
	ref := &ast.TypeReference{Name: "ExtractPropTypes", TypeArgs: []ast.TypeNode{propsDef}}
	els, err := r.ResolveTypeElements(ref, s)
	require.NoError(t, err)

	require.False(t, els.Props["msg"].Optional)
	require.True(t, els.Props["count"].Optional)
	if diff := cmp.Diff(&ast.KeywordType{Name: "number"}, els.Props["count"].Type, cmpopts.IgnoreUnexported(ast.Base{})); diff != "" {
		t.Errorf("count type mismatch (-want +got):\n%s", diff)
	}
}

func TestInferRuntimeTypeCollapsesUnresolvedToUnknown(t *testing.T) {
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	tags := r.InferRuntimeType(nil)
	require.Equal(t, []RuntimeTag{TagUnknown}, tags)
}

func TestInferRuntimeTypeUnionFlattensAndDedupes(t *testing.T) {
	tn, err := tsparser.ParseTypeExpression(`string | number | string`, "t.ts")
	require.NoError(t, err)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	tags := r.InferRuntimeType(tn)
	require.ElementsMatch(t, []RuntimeTag{TagString, TagNumber}, tags)
}

func TestEvalStringSetTemplateLiteralCrossProduct(t *testing.T) {
	tn, err := tsparser.ParseTypeExpression("`on${\"Click\" | \"Close\"}`", "t.ts")
	require.NoError(t, err)
	tpl, ok := tn.(*ast.TemplateLiteralType)
	require.True(t, ok)
	r := NewResolver(scope.NewGraph(memFS{files: map[string]string{}}, nil), "")
	set, err := evalStringSet(tpl, nil, r)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"onClick", "onClose"}, keysOf(set))
}

func keysOf(m map[string]bool) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
