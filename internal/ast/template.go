package ast

// Attr is a static or bound attribute/directive on an Element, e.g.
// `:key="i"`, `v-for="(x,i) in xs"`, `v-slot:foo="{bar}"`.
type Attr struct {
	Name        string // "key", "for", "slot", "if", "else", "else-if", "memo", or a plain attribute name
	Arg         string // directive argument, e.g. "foo" in `v-slot:foo`
	Value       string // raw expression source, unparsed
	IsDirective bool
	Span        Span // whole attribute, name through closing quote
	ValueSpan   Span // Value's own byte range, for directive-expression reparsing (e.g. C5's v-for grammar)
}

// Element is an SFC template element: `<div>`, `<template>`, or a
// component tag (any non-lowercase-builtin tag name, per the framework's
// own resolution — this compiler does not need to distinguish the two
// cases beyond templateTag).
type Element struct {
	Base
	Tag         string
	TemplateTag bool // true for a literal `<template>` wrapper element
	Attrs       []Attr
	Children    []Node // Element, TextNode, Interpolation
}

func (*Element) Kind() NodeKind {
	return KindElement
}

type TextNode struct {
	Base
	Text string
}

func (*TextNode) Kind() NodeKind { return KindTextNode }

// Interpolation is a `{{ expr }}` mustache.
type Interpolation struct {
	Base
	Expr string
}

func (*Interpolation) Kind() NodeKind { return KindInterpolation }

// ForParse is the parsed form of a v-for expression (spec §4.5.1, §8
// round-trip: `"(v, k, i) in list"` -> `{value: "v", key: "k", index: "i",
// source: "list"}`). Each alias keeps the byte span it occupied in the
// original directive value (spec §4.5.1 "Every alias expression carries
// its byte range in the original source for later map emission"); a zero
// Span marks an alias slot that wasn't present.
type ForParse struct {
	Source     string
	Value      string
	Key        string
	Index      string
	SourceSpan Span
	ValueSpan  Span
	KeySpan    Span
	IndexSpan  Span
}

// ForDirective wraps the element a `v-for` was found on, carrying its
// parsed expression form.
type ForDirective struct {
	Base
	Parsed ForParse
	Target *Element
}

func (*ForDirective) Kind() NodeKind { return KindForDirective }

// SlotDirective wraps a `v-slot[:arg]["="expr"]` occurrence, either on a
// component tag directly or on a child `<template>`.
type SlotDirective struct {
	Base
	Name       string // directive arg, default "default"
	NameIsExpr bool   // true when the arg itself was a dynamic binding, e.g. v-slot:[name]
	Props      string // raw destructure expression, e.g. "{ bar }"
	Target     *Element
}

func (*SlotDirective) Kind() NodeKind { return KindSlotDirective }

// IfDirective models `v-if`/`v-else-if`/`v-else` attached to Target.
type IfDirective struct {
	Base
	Branch string // "if", "else-if", "else"
	Test   string // "" for else
	Target *Element
}

func (*IfDirective) Kind() NodeKind { return KindIfDirective }

// MemoDirective models `v-memo="[deps]"`.
type MemoDirective struct {
	Base
	Deps   string
	Target *Element
}

func (*MemoDirective) Kind() NodeKind { return KindMemoDirective }
