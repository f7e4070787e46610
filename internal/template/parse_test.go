package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinetic-sfc/compiler/internal/ast"
)

func TestParseSimpleElement(t *testing.T) {
	nodes, err := Parse(`<div class="box">hi</div>`, 0, "Comp.vue")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	el := nodes[0].(*ast.Element)
	require.Equal(t, "div", el.Tag)
	require.False(t, el.TemplateTag)
	require.Len(t, el.Attrs, 1)
	require.Equal(t, "class", el.Attrs[0].Name)
	require.Equal(t, "box", el.Attrs[0].Value)
	require.Len(t, el.Children, 1)
	text := el.Children[0].(*ast.TextNode)
	require.Equal(t, "hi", text.Text)
}

func TestParseVoidElement(t *testing.T) {
	nodes, err := Parse(`<div><img src="a.png"></div>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Len(t, el.Children, 1)
	img := el.Children[0].(*ast.Element)
	require.Equal(t, "img", img.Tag)
	require.Empty(t, img.Children)
}

func TestParseSelfClosingElement(t *testing.T) {
	nodes, err := Parse(`<MyWidget />`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Equal(t, "MyWidget", el.Tag)
	require.Empty(t, el.Children)
}

func TestParseInterpolation(t *testing.T) {
	nodes, err := Parse(`<span>{{ count + 1 }}</span>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Len(t, el.Children, 1)
	interp := el.Children[0].(*ast.Interpolation)
	require.Equal(t, "count + 1", interp.Expr)
}

func TestParseMixedTextAndInterpolation(t *testing.T) {
	nodes, err := Parse(`<p>Hello {{ name }}!</p>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Len(t, el.Children, 3)
	require.Equal(t, "Hello ", el.Children[0].(*ast.TextNode).Text)
	require.Equal(t, "name", el.Children[1].(*ast.Interpolation).Expr)
	require.Equal(t, "!", el.Children[2].(*ast.TextNode).Text)
}

func TestParseDirectiveAttrClassification(t *testing.T) {
	nodes, err := Parse(`<li v-for="item in items" :key="item.id">{{ item.name }}</li>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	forAttr, ok := attr(el, "for")
	require.True(t, ok)
	require.Equal(t, "item in items", forAttr.Value)
	keyAttr, ok := attr(el, "key")
	require.True(t, ok)
	require.Equal(t, "item.id", keyAttr.Value)
}

func TestParseVSlotShorthand(t *testing.T) {
	nodes, err := Parse(`<template #header="{ title }"></template>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.True(t, el.TemplateTag)
	slotAttr, ok := attr(el, "slot")
	require.True(t, ok)
	require.Equal(t, "header", slotAttr.Arg)
	require.Equal(t, "{ title }", slotAttr.Value)
}

func TestParseVSlotNamedColon(t *testing.T) {
	nodes, err := Parse(`<template v-slot:footer></template>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	slotAttr, ok := attr(el, "slot")
	require.True(t, ok)
	require.Equal(t, "footer", slotAttr.Arg)
}

func TestParseComment(t *testing.T) {
	nodes, err := Parse(`<div><!-- skip --><span>x</span></div>`, 0, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Len(t, el.Children, 1)
	require.Equal(t, "span", el.Children[0].(*ast.Element).Tag)
}

func TestParseMultipleRoots(t *testing.T) {
	nodes, err := Parse(`<div>a</div><div>b</div>`, 0, "Comp.vue")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
}

func TestParseSpanOffsetsAreRebased(t *testing.T) {
	nodes, err := Parse(`<div>x</div>`, 50, "Comp.vue")
	require.NoError(t, err)
	el := nodes[0].(*ast.Element)
	require.Equal(t, 50, el.Span().Start.Offset)
	require.Equal(t, "Comp.vue", el.Span().File)
}

func TestParseUnterminatedTagErrors(t *testing.T) {
	_, err := Parse(`<div`, 0, "Comp.vue")
	require.Error(t, err)
}
