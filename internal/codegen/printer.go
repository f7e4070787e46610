package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ir"
)

// helperSpelling maps C5's internal callee identifiers to the exact
// generated-helper spelling spec §6 mandates ("RENDER_LIST, OPEN_BLOCK,
// FRAGMENT, IS_MEMO_SAME, CREATE_SLOTS, WITH_CTX, mergeDefaults,
// mergeModels, useModel, useSlots. Output preserves exact spelling.").
// internal/template names these informally ("renderList", "createSlots")
// since it only needs a stable internal tag; this printer is the single
// place that translates to the wire contract's required spelling. A
// callee absent from this table (e.g. "withMemo") is not one of the
// spec-mandated names and is printed verbatim.
var helperSpelling = map[string]string{
	"renderList":  "RENDER_LIST",
	"createSlots": "CREATE_SLOTS",
}

func calleeName(name string) string {
	if s, ok := helperSpelling[name]; ok {
		return s
	}
	return name
}

// printer walks one template's IR forest into JS expression text (spec
// §4.3/§6). A render function body is always a single returned
// expression, so unlike a general statement printer it needs no
// indentation or semicolon bookkeeping beyond the one top-level wrapper.
type printer struct {
	out *strings.Builder
}

func (p *printer) writeRenderFunction(root []ir.Node) {
	p.out.WriteString("function render(_ctx, _cache) {\n  return (")
	switch len(root) {
	case 0:
		p.out.WriteString("null")
	case 1:
		p.node(root[0])
	default:
		p.out.WriteString("(OPEN_BLOCK(), createBlock(FRAGMENT, null, [")
		for i, n := range root {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.node(n)
		}
		p.out.WriteString("], 64 /* STABLE_FRAGMENT */))")
	}
	p.out.WriteString(");\n}\n")
}

func (p *printer) node(n ir.Node) {
	switch v := n.(type) {
	case *ir.VNodeCall:
		p.vnodeCall(v)
	case *ir.For:
		p.node(v.Codegen)
	case *ir.Conditional:
		p.conditional(v)
	case *ir.CallExpression:
		p.callExpression(v)
	case *ir.RawExpr:
		p.out.WriteString(v.Text)
	case *ir.SlotsObject:
		p.slotsObject(v)
	case *ir.FunctionExpression:
		p.functionExpression(v)
	case *ir.Slot:
		p.slotEntry(v)
	case nil:
		p.out.WriteString("null")
	default:
		fmt.Fprintf(p.out, "/* unhandled ir node %T */null", n)
	}
}

// tagExpr decides how a VNodeCall's Tag prints: the Fragment sentinel
// becomes the FRAGMENT helper reference, a component tag is an
// identifier (the imported/resolved component binding), and a plain
// element tag is a quoted string.
func tagExpr(v *ir.VNodeCall) string {
	switch {
	case v.Tag == "Fragment":
		return "FRAGMENT"
	case v.IsComponent:
		return v.Tag
	default:
		return strconv.Quote(v.Tag)
	}
}

func (p *printer) vnodeCall(v *ir.VNodeCall) {
	callee := "createVNode"
	if v.IsBlock {
		if v.DisableTracking {
			p.out.WriteString("(OPEN_BLOCK(true), ")
		} else {
			p.out.WriteString("(OPEN_BLOCK(), ")
		}
		callee = "createBlock"
	}

	fmt.Fprintf(p.out, "%s(%s, ", callee, tagExpr(v))
	if v.Props == "" {
		p.out.WriteString("null")
	} else {
		p.out.WriteString(v.Props)
	}
	p.out.WriteString(", ")
	p.children(v.Children)

	switch {
	case v.PatchFlag != 0:
		fmt.Fprintf(p.out, ", %d /* %s */", int(v.PatchFlag), patchFlagComment(v.PatchFlag))
	case len(v.DynamicProps) > 0:
		// dynamicProps occupies the argument slot after patchFlag; emit a
		// placeholder 0 so the array still lands in the right position.
		p.out.WriteString(", 0")
	}
	if len(v.DynamicProps) > 0 {
		fmt.Fprintf(p.out, ", [%s]", quoteJoin(v.DynamicProps))
	}
	p.out.WriteString(")")

	if v.IsBlock {
		p.out.WriteString(")")
	}
}

func (p *printer) children(nodes []ir.Node) {
	switch len(nodes) {
	case 0:
		p.out.WriteString("null")
	case 1:
		p.node(nodes[0])
	default:
		p.out.WriteString("[")
		for i, c := range nodes {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.node(c)
		}
		p.out.WriteString("]")
	}
}

func (p *printer) conditional(c *ir.Conditional) {
	p.out.WriteString("(")
	p.out.WriteString(c.Test)
	p.out.WriteString(") ? (")
	if c.Consequent == nil {
		p.out.WriteString("createCommentVNode(\"v-if\", true)")
	} else {
		p.node(c.Consequent)
	}
	p.out.WriteString(") : (")
	if c.Alternate == nil {
		p.out.WriteString("createCommentVNode(\"v-if\", true)")
	} else {
		p.node(c.Alternate)
	}
	p.out.WriteString(")")
}

func (p *printer) callExpression(c *ir.CallExpression) {
	p.out.WriteString(calleeName(c.Callee))
	p.out.WriteString("(")
	for i, a := range c.Args {
		if i > 0 {
			p.out.WriteString(", ")
		}
		p.node(a)
	}
	p.out.WriteString(")")
}

func (p *printer) functionExpression(f *ir.FunctionExpression) {
	if f.IsSlot {
		p.out.WriteString("WITH_CTX(")
	}
	p.out.WriteString("(")
	p.out.WriteString(strings.Join(f.Params, ", "))
	p.out.WriteString(") => ")
	if f.IsSlot {
		p.out.WriteString("[")
		p.node(f.Body)
		p.out.WriteString("]")
		p.out.WriteString(")")
	} else {
		p.node(f.Body)
	}
}

func (p *printer) slotEntry(s *ir.Slot) {
	p.out.WriteString("{ name: ")
	p.slotName(s.Name)
	p.out.WriteString(", fn: ")
	p.node(s.Fn)
	if s.Key != "" {
		fmt.Fprintf(p.out, ", key: %q", s.Key)
	}
	p.out.WriteString(" }")
}

func (p *printer) slotName(name string) {
	if isDynamicSlotNameLiteral(name) {
		p.out.WriteString(name[1 : len(name)-1])
	} else {
		p.out.WriteString(strconv.Quote(name))
	}
}

func isDynamicSlotNameLiteral(name string) bool {
	return len(name) >= 2 && name[0] == '[' && name[len(name)-1] == ']'
}

func (p *printer) slotsObject(s *ir.SlotsObject) {
	staticText := staticSlotsLiteral(s.Static, s.Flag)
	if len(s.Dynamic) == 0 {
		p.out.WriteString(staticText)
		return
	}
	fmt.Fprintf(p.out, "%s(%s, [", calleeName("createSlots"), staticText)
	for i, d := range s.Dynamic {
		if i > 0 {
			p.out.WriteString(", ")
		}
		p.node(d)
	}
	p.out.WriteString("])")
}

func staticSlotsLiteral(slots []*ir.Slot, flag ir.SlotFlag) string {
	var b strings.Builder
	b.WriteString("{ ")
	for _, s := range slots {
		if isDynamicSlotNameLiteral(s.Name) {
			fmt.Fprintf(&b, "[%s]: ", s.Name[1:len(s.Name)-1])
		} else {
			fmt.Fprintf(&b, "%s: ", strconv.Quote(s.Name))
		}
		sub := &printer{out: &b}
		sub.node(s.Fn)
		b.WriteString(", ")
	}
	fmt.Fprintf(&b, "_: %d /* %s */", int(flag), flag.String())
	b.WriteString(" }")
	return b.String()
}

func quoteJoin(props []string) string {
	parts := make([]string, len(props))
	for i, p := range props {
		parts[i] = strconv.Quote(p)
	}
	return strings.Join(parts, ", ")
}

// patchFlagComment renders the dev-mode comment spec §6's wire contract
// pairs with every non-zero patch flag it lists.
func patchFlagComment(f ir.PatchFlag) string {
	switch f {
	case ir.PatchText:
		return "TEXT"
	case ir.PatchClass:
		return "CLASS"
	case ir.PatchStyle:
		return "STYLE"
	case ir.PatchProps:
		return "PROPS"
	case ir.PatchFullProps:
		return "FULL_PROPS"
	case ir.PatchHydrateEvents:
		return "HYDRATE_EVENTS"
	case ir.PatchStableFragment:
		return "STABLE_FRAGMENT"
	case ir.PatchKeyedFragment:
		return "KEYED_FRAGMENT"
	case ir.PatchUnkeyedFragment:
		return "UNKEYED_FRAGMENT"
	case ir.PatchNeedPatch:
		return "NEED_PATCH"
	case ir.PatchDynamicSlots:
		return "DYNAMIC_SLOTS"
	case ir.PatchDevRootFragment:
		return "DEV_ROOT_FRAGMENT"
	case ir.PatchHoisted:
		return "HOISTED"
	case ir.PatchBail:
		return "BAIL"
	default:
		return strconv.Itoa(int(f))
	}
}
