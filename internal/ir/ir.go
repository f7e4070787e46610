// Package ir defines the template-side intermediate representation
// internal/template produces and internal/codegen serializes (spec §3
// "IR node kinds (template)"). It has no analog in the teacher's own
// Core IR (internal/core, ANF Var/App/Let) — those model an expression
// language's evaluation order, while this IR models a render-function
// call graph a renderer walks once per flush. The node shapes below
// come directly from spec §3, not from adapting ANF nodes.
package ir

// Node is implemented by every IR node internal/codegen walks.
type Node interface {
	irNode()
}

// For models a v-for transform's output: the element is replaced by a
// fragment that calls RENDER_LIST over Source with an iterator function
// built from ValueAlias/KeyAlias/IndexAlias (spec §4.5.1).
type For struct {
	Source       string
	ValueAlias   string
	KeyAlias     string
	IndexAlias   string
	Children     []Node
	Codegen      *VNodeCall
}

func (*For) irNode() {}

// Slot models one entry of a synthesized slots object (spec §3, §4.5.2).
type Slot struct {
	Name string // a dynamic name keeps its bracket form, e.g. "[name]"
	Fn   *FunctionExpression
	Key  string // conditional-branch index, stabilizes diffing; "" if static
}

func (*Slot) irNode() {}

// VNodeCall is the generic createVNode/createBlock call shape (spec §3).
type VNodeCall struct {
	Tag               string
	Props             string // raw codegen expression for the props object, "" if none
	Children          []Node
	PatchFlag         PatchFlag
	DynamicProps      []string
	IsBlock           bool
	DisableTracking   bool
	IsComponent       bool
}

func (*VNodeCall) irNode() {}

// Conditional models a ternary-shaped branch, used both for v-if chains
// in element position and for dynamic-slot conditionals (spec §4.5.2
// step 3).
type Conditional struct {
	Test       string
	Consequent Node
	Alternate  Node
}

func (*Conditional) irNode() {}

// CallExpression is a generic helper invocation in the generated call
// graph, e.g. `renderList(source, iterator)` or `createSlots(...)`.
type CallExpression struct {
	Callee string
	Args   []Node
}

func (*CallExpression) irNode() {}

// RawExpr wraps a ready-to-emit JS expression used in an argument
// position (spec §3 treats CallExpression args as nodes, but most of our
// arguments — the v-for source, a slot's destructure pattern, a quoted
// text node, a toDisplayString(...)-wrapped interpolation — are carried
// as finished expression text rather than re-parsed into this IR).
type RawExpr struct {
	Text string
}

func (*RawExpr) irNode() {}

// SlotsObject models the synthesized slots object a component or
// `<template>` element's v-slot usages compile to (spec §4.5.2 step 5:
// `{ ...namedSlots, _: flag }`, wrapped in `createSlots(static,
// [dynamic])` when Dynamic is non-empty).
type SlotsObject struct {
	Static  []*Slot
	Dynamic []Node
	Flag    SlotFlag
}

func (*SlotsObject) irNode() {}

// FunctionExpression models the iterator/slot function bodies (spec §3):
// `(value, key, index) => ...` or `(scopedProps) => ...`.
type FunctionExpression struct {
	Params  []string
	Body    Node
	Newline bool
	IsSlot  bool
}

func (*FunctionExpression) irNode() {}
