package template

import (
	"strconv"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/ir"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// Transformer runs C5 over one template's root node list. It carries the
// monotonic v-memo cache-slot counter (spec §4.5.1 "cache slot index is
// allocated monotonically per outer render function"), one instance per
// template since each compiled render function owns its own cache array.
type Transformer struct {
	memoSlot int

	// dynamicDepth tracks whether the node currently being transformed
	// sits inside a v-for body or a slot function body (spec §4.5.2's
	// "any enclosing v-for or v-slot scope active" DYNAMIC rule).
	dynamicDepth int
}

// Transform is C5's entry point: the parsed root node list of one
// `<template>` block to its IR forest (spec §4.5).
func Transform(roots []ast.Node) ([]ir.Node, error) {
	t := &Transformer{}
	return t.siblings(roots)
}

func (t *Transformer) siblings(nodes []ast.Node) ([]ir.Node, error) {
	var out []ir.Node
	for i := 0; i < len(nodes); {
		el, ok := nodes[i].(*ast.Element)
		if !ok {
			node, err := t.node(nodes[i])
			if err != nil {
				return nil, err
			}
			out = append(out, node)
			i++
			continue
		}
		if hasAttr(el, "else-if") || hasAttr(el, "else") {
			return nil, tplErr(errors.TPL003, el, "v-else/v-else-if with no matching v-if")
		}
		if hasAttr(el, "if") {
			cond, consumed, err := t.ifChain(nodes[i:])
			if err != nil {
				return nil, err
			}
			out = append(out, cond)
			i += consumed
			continue
		}
		node, err := t.node(el)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
		i++
	}
	return out, nil
}

// ifChain consumes a `v-if` element and every immediately-following
// `v-else-if`/`v-else` sibling, returning the merged ir.Conditional and
// how many input nodes it consumed.
func (t *Transformer) ifChain(nodes []ast.Node) (ir.Node, int, error) {
	head := nodes[0].(*ast.Element)
	testAttr, _ := attr(head, "if")
	body, err := t.node(withoutAttr(head, "if"))
	if err != nil {
		return nil, 0, err
	}
	root := &ir.Conditional{Test: testAttr.Value, Consequent: body}
	cur := root
	consumed := 1

	for consumed < len(nodes) {
		next, ok := nodes[consumed].(*ast.Element)
		if !ok {
			break
		}
		if a, has := attr(next, "else-if"); has {
			branchBody, err := t.node(withoutAttr(next, "else-if"))
			if err != nil {
				return nil, 0, err
			}
			branch := &ir.Conditional{Test: a.Value, Consequent: branchBody}
			cur.Alternate = branch
			cur = branch
			consumed++
			continue
		}
		if hasAttr(next, "else") {
			elseBody, err := t.node(withoutAttr(next, "else"))
			if err != nil {
				return nil, 0, err
			}
			cur.Alternate = elseBody
			consumed++
			break
		}
		break
	}
	return root, consumed, nil
}

func (t *Transformer) node(n ast.Node) (ir.Node, error) {
	switch v := n.(type) {
	case *ast.TextNode:
		// Quoted so C7 can print every RawExpr.Text verbatim in an
		// argument position without having to re-derive whether it came
		// from literal text or an interpolation.
		return &ir.RawExpr{Text: strconv.Quote(v.Text)}, nil
	case *ast.Interpolation:
		return &ir.RawExpr{Text: "toDisplayString(" + v.Expr + ")"}, nil
	case *ast.Element:
		if hasAttr(v, "for") {
			return t.forDirective(v)
		}
		return t.element(v)
	default:
		return &ir.RawExpr{}, nil
	}
}

func (t *Transformer) element(e *ast.Element) (ir.Node, error) {
	if isComponentTag(e.Tag) && !e.TemplateTag {
		slots, err := t.synthesizeSlots(e)
		if err != nil {
			return nil, err
		}
		return &ir.VNodeCall{
			Tag:         e.Tag,
			Children:    []ir.Node{slots},
			IsComponent: true,
		}, nil
	}
	children, err := t.siblings(e.Children)
	if err != nil {
		return nil, err
	}
	return &ir.VNodeCall{Tag: e.Tag, Children: children}, nil
}

// forDirective implements spec §4.5.1's transform: replace e with a For
// node over an iterator built from the parsed (value, key, index)
// aliases, selecting a fragment patch flag from the source expression's
// staticness and whether a `:key` binding is present.
func (t *Transformer) forDirective(e *ast.Element) (ir.Node, error) {
	forAttr, _ := attr(e, "for")
	parsed, err := ParseForExpression(forAttr.Value, forAttr.ValueSpan.Start.Offset, forAttr.ValueSpan.File)
	if err != nil {
		return nil, err
	}

	stripped := withoutAttr(e, "for")
	t.dynamicDepth++
	body, keyed, err := t.forBody(stripped)
	t.dynamicDepth--
	if err != nil {
		return nil, err
	}

	flag := ir.PatchUnkeyedFragment
	switch {
	case isConstantSource(parsed.Source):
		flag = ir.PatchStableFragment
	case keyed:
		flag = ir.PatchKeyedFragment
	}
	isStable := flag == ir.PatchStableFragment

	fn := &ir.FunctionExpression{Params: iteratorParams(parsed), Body: body}
	if memoAttr, has := attr(e, "memo"); has {
		fn.Body = t.wrapMemo(memoAttr.Value, body)
	}

	render := &ir.CallExpression{Callee: "renderList", Args: []ir.Node{&ir.RawExpr{Text: parsed.Source}, fn}}
	codegen := &ir.VNodeCall{
		Tag:             "Fragment",
		Children:        []ir.Node{render},
		PatchFlag:       flag,
		IsBlock:         true,
		DisableTracking: !isStable,
	}

	return &ir.For{
		Source:     parsed.Source,
		ValueAlias: parsed.Value,
		KeyAlias:   parsed.Key,
		IndexAlias: parsed.Index,
		Children:   []ir.Node{body},
		Codegen:    codegen,
	}, nil
}

// forBody finalizes the iterator body per spec §4.5.1's three exit
// cases, and reports whether a `:key` binding was present on the target
// (keyed selects KEYED_FRAGMENT over UNKEYED_FRAGMENT when the source
// isn't constant-enough for STABLE_FRAGMENT).
func (t *Transformer) forBody(e *ast.Element) (ir.Node, bool, error) {
	keyed := hasAttr(e, "key")

	if e.TemplateTag {
		if len(e.Children) == 1 {
			if child, ok := e.Children[0].(*ast.Element); ok && child.Tag == "slot" &&
				!hasAttr(child, "if") && !hasAttr(child, "for") {
				node, err := t.element(child)
				if err != nil {
					return nil, keyed, err
				}
				if vc, ok := node.(*ir.VNodeCall); ok {
					vc.DynamicProps = append(vc.DynamicProps, "key")
				}
				return node, keyed, nil
			}
		}
		children, err := t.siblings(e.Children)
		if err != nil {
			return nil, keyed, err
		}
		if len(children) == 1 {
			if vc, ok := children[0].(*ir.VNodeCall); ok {
				vc.IsBlock = true
				return vc, keyed, nil
			}
			// Already a For/Conditional/etc. from a directive on the lone
			// child: nothing left to promote to a block.
			return children[0], keyed, nil
		}
		// Multiple children, or a single text/interpolation child: synthesize
		// a fragment child block.
		return &ir.VNodeCall{Tag: "Fragment", Children: children, IsBlock: true}, keyed, nil
	}

	node, err := t.element(e)
	if err != nil {
		return nil, keyed, err
	}
	if vc, ok := node.(*ir.VNodeCall); ok {
		vc.IsBlock = true
	}
	return node, keyed, nil
}

func (t *Transformer) wrapMemo(deps string, body ir.Node) ir.Node {
	slot := t.memoSlot
	t.memoSlot++
	return &ir.CallExpression{
		Callee: "withMemo",
		Args: []ir.Node{
			&ir.RawExpr{Text: deps},
			&ir.FunctionExpression{Body: body},
			&ir.RawExpr{Text: cacheSlotExpr(slot)},
		},
	}
}

func cacheSlotExpr(slot int) string {
	var b strings.Builder
	b.WriteString("_cache[")
	b.WriteString(itoa(slot))
	b.WriteString("]")
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func iteratorParams(f ast.ForParse) []string {
	value := f.Value
	if value == "" {
		value = "_"
	}
	params := []string{value}
	if f.Index != "" {
		key := f.Key
		if key == "" {
			key = "__key"
		}
		return append(params, key, f.Index)
	}
	if f.Key != "" {
		return append(params, f.Key)
	}
	return params
}

// isConstantSource approximates the framework's "constType > NOT_CONSTANT"
// check (spec §4.5.1): a v-for source made up only of literal tokens
// (array/object brackets, numbers, strings, booleans) needs no per-item
// tracking at all.
func isConstantSource(src string) bool {
	tokens := lexer.Tokenize(src, "")
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		switch tok.Type {
		case lexer.LBRACKET, lexer.RBRACKET, lexer.LBRACE, lexer.RBRACE,
			lexer.COMMA, lexer.COLON, lexer.STRING, lexer.INT, lexer.FLOAT,
			lexer.TRUE, lexer.FALSE, lexer.NULL:
		default:
			return false
		}
	}
	return true
}

func tplErr(code string, e *ast.Element, msg string) error {
	sp := e.Span()
	return errors.WrapReport(&errors.Report{
		Schema:  "sfc.error/v1",
		Code:    code,
		Phase:   "template",
		Message: msg,
		Span:    &sp,
	})
}
