package template

import (
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/ir"
)

// synthesizeSlots implements spec §4.5.2: build the `{ ...namedSlots, _:
// flag }` slots object (wrapped in createSlots(...) when any slot is
// dynamic) for a component or `<template>` element, from any v-slot on
// e itself or on its direct `<template>` children.
func (t *Transformer) synthesizeSlots(e *ast.Element) (ir.Node, error) {
	ownSlot, hasOwn := attr(e, "slot")
	var named []*ir.Slot
	var dynamic []ir.Node
	anyDynamicName := false
	anyTemplateDirective := false

	if hasOwn {
		for _, c := range e.Children {
			if ce, ok := c.(*ast.Element); ok && ce.TemplateTag && hasAttr(ce, "slot") {
				return nil, tplErr(errors.TPL005, e, "v-slot on the component cannot be mixed with <template v-slot> children")
			}
		}
		name := slotNameOrDefault(ownSlot.Arg)
		anyDynamicName = isDynamicSlotName(name)
		body, err := t.slotBody(e.Children)
		if err != nil {
			return nil, err
		}
		named = append(named, &ir.Slot{Name: name, Fn: &ir.FunctionExpression{Body: body, IsSlot: true}})
	} else {
		seen := map[string]bool{}
		hasDefault := false
		var implicit []ast.Node

		i := 0
		for i < len(e.Children) {
			child, ok := e.Children[i].(*ast.Element)
			if !ok || !child.TemplateTag || !hasAttr(child, "slot") {
				implicit = append(implicit, e.Children[i])
				i++
				continue
			}

			switch {
			case hasAttr(child, "if"):
				anyTemplateDirective = true
				cond, consumed, err := t.slotIfChain(e.Children[i:])
				if err != nil {
					return nil, err
				}
				dynamic = append(dynamic, cond)
				i += consumed
			case hasAttr(child, "else-if") || hasAttr(child, "else"):
				return nil, tplErr(errors.TPL003, child, "v-else/v-else-if with no matching v-if slot")
			case hasAttr(child, "for"):
				anyTemplateDirective = true
				node, err := t.slotForEntry(child)
				if err != nil {
					return nil, err
				}
				dynamic = append(dynamic, node)
				i++
			default:
				slotAttr, _ := attr(child, "slot")
				name := slotNameOrDefault(slotAttr.Arg)
				if isDynamicSlotName(name) {
					anyDynamicName = true
				}
				if seen[name] {
					return nil, tplErr(errors.TPL002, child, "duplicate slot name "+name)
				}
				seen[name] = true
				if name == "default" {
					hasDefault = true
				}
				body, err := t.slotBody(child.Children)
				if err != nil {
					return nil, err
				}
				named = append(named, &ir.Slot{Name: name, Fn: &ir.FunctionExpression{Body: body, IsSlot: true}})
				i++
			}
		}

		if len(implicit) > 0 && !isWhitespaceOnly(implicit) {
			if hasDefault {
				return nil, tplErr(errors.TPL002, e, "implicit default slot content conflicts with an explicit named default slot")
			}
			body, err := t.slotBody(implicit)
			if err != nil {
				return nil, err
			}
			named = append(named, &ir.Slot{Name: "default", Fn: &ir.FunctionExpression{Body: body, IsSlot: true}})
		}
	}

	flag := ir.SlotStable
	switch {
	case t.dynamicDepth > 0 || anyDynamicName || anyTemplateDirective:
		flag = ir.SlotDynamic
	case findSlotOutlet(e.Children):
		flag = ir.SlotForwarded
	}
	return &ir.SlotsObject{Static: named, Dynamic: dynamic, Flag: flag}, nil
}

// slotIfChain mirrors Transformer.ifChain but over `<template v-slot
// v-if>` siblings, producing an ir.Conditional whose branches are *ir.Slot
// entries stamped with their branch index as Key (spec §4.5.2 step 3:
// "key being the conditional branch index to stabilize diffing").
func (t *Transformer) slotIfChain(nodes []ast.Node) (ir.Node, int, error) {
	head := nodes[0].(*ast.Element)
	testAttr, _ := attr(head, "if")
	slot, err := t.slotEntry(head, 0)
	if err != nil {
		return nil, 0, err
	}
	root := &ir.Conditional{Test: testAttr.Value, Consequent: slot}
	cur := root
	consumed := 1
	branch := 1

	for consumed < len(nodes) {
		// Whitespace text between branches does not end the chain.
		j := consumed
		for j < len(nodes) && isWhitespaceOnly(nodes[j:j+1]) {
			j++
		}
		if j == len(nodes) {
			break
		}
		next, ok := nodes[j].(*ast.Element)
		if !ok {
			break
		}
		if a, has := attr(next, "else-if"); has {
			slot, err := t.slotEntry(next, branch)
			if err != nil {
				return nil, 0, err
			}
			alt := &ir.Conditional{Test: a.Value, Consequent: slot}
			cur.Alternate = alt
			cur = alt
			consumed = j + 1
			branch++
			continue
		}
		if hasAttr(next, "else") {
			slot, err := t.slotEntry(next, branch)
			if err != nil {
				return nil, 0, err
			}
			cur.Alternate = slot
			consumed = j + 1
			break
		}
		break
	}
	return root, consumed, nil
}

func (t *Transformer) slotEntry(child *ast.Element, branch int) (*ir.Slot, error) {
	slotAttr, _ := attr(child, "slot")
	name := slotNameOrDefault(slotAttr.Arg)
	body, err := t.slotBody(child.Children)
	if err != nil {
		return nil, err
	}
	return &ir.Slot{Name: name, Fn: &ir.FunctionExpression{Body: body, IsSlot: true}, Key: itoa(branch)}, nil
}

// slotForEntry implements a `v-for` on a `<template v-slot>` child: a
// `renderList(source, iterator)` call whose iterator body is the slot
// entry for that iteration (spec §4.5.2 step 3).
func (t *Transformer) slotForEntry(child *ast.Element) (ir.Node, error) {
	forAttr, _ := attr(child, "for")
	parsed, err := ParseForExpression(forAttr.Value, forAttr.ValueSpan.Start.Offset, forAttr.ValueSpan.File)
	if err != nil {
		return nil, err
	}
	slot, err := t.slotEntry(child, 0)
	if err != nil {
		return nil, err
	}
	fn := &ir.FunctionExpression{Params: iteratorParams(parsed), Body: slot}
	return &ir.CallExpression{Callee: "renderList", Args: []ir.Node{&ir.RawExpr{Text: parsed.Source}, fn}}, nil
}

// slotBody transforms a slot's content in the scope §4.5.2 classifies as
// "dynamic" (dynamicDepth > 0 while inside it).
func (t *Transformer) slotBody(nodes []ast.Node) (ir.Node, error) {
	t.dynamicDepth++
	children, err := t.siblings(nodes)
	t.dynamicDepth--
	if err != nil {
		return nil, err
	}
	return wrapFragment(children), nil
}

func wrapFragment(nodes []ir.Node) ir.Node {
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &ir.VNodeCall{Tag: "Fragment", Children: nodes}
}

func slotNameOrDefault(arg string) string {
	if arg == "" {
		return "default"
	}
	return arg
}

func isDynamicSlotName(name string) bool {
	return strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]")
}
