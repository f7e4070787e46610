package template

import "github.com/kinetic-sfc/compiler/internal/ast"

// attr returns the first Attrs entry with the given classified Name
// (spec §4.5 only looks at "for", "if", "else-if", "else", "slot",
// "memo", "key" — see ast.Attr's doc comment for the full enumeration).
func attr(e *ast.Element, name string) (*ast.Attr, bool) {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			return &e.Attrs[i], true
		}
	}
	return nil, false
}

func hasAttr(e *ast.Element, name string) bool {
	_, ok := attr(e, name)
	return ok
}

// withoutAttr returns a shallow copy of e with every Attrs entry named
// name removed, used so re-transforming an element's body after peeling
// off one structural directive doesn't re-dispatch on that directive.
func withoutAttr(e *ast.Element, name string) *ast.Element {
	clone := *e
	clone.Attrs = nil
	for _, a := range e.Attrs {
		if a.Name != name {
			clone.Attrs = append(clone.Attrs, a)
		}
	}
	return &clone
}

// isComponentTag approximates the framework's own tag-resolution split
// between a built-in element and a component reference: PascalCase or
// kebab-case (custom-element-style) tag names are treated as components,
// matching the common convention real SFC authors follow (spec leaves
// the exact resolution rule external — "this compiler does not need to
// distinguish the two cases beyond templateTag" for anything but v-slot
// synthesis, which does need to know).
func isComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] >= 'A' && tag[0] <= 'Z' {
		return true
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] == '-' {
			return true
		}
	}
	return false
}

// isWhitespaceOnly reports whether every TextNode in nodes (and there
// are no other node kinds) is pure whitespace (spec §4.5.2 step 4:
// "unless whitespace-only").
func isWhitespaceOnly(nodes []ast.Node) bool {
	for _, n := range nodes {
		tn, ok := n.(*ast.TextNode)
		if !ok {
			return false
		}
		for _, r := range tn.Text {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
				return false
			}
		}
	}
	return true
}

// findSlotOutlet reports whether subtree contains a `<slot>` element,
// recursing through v-if/v-for bodies but not into nested components
// (spec §4.5.2 "FORWARDED ... recursing through if-branches and
// for-bodies"; per SPEC_FULL.md's Open-Question resolution, forwarding
// detection does not look inside nested component subtrees).
func findSlotOutlet(nodes []ast.Node) bool {
	for _, n := range nodes {
		el, ok := n.(*ast.Element)
		if !ok {
			continue
		}
		if el.Tag == "slot" {
			return true
		}
		if hasAttr(el, "for") || hasAttr(el, "if") || hasAttr(el, "else-if") || hasAttr(el, "else") {
			if findSlotOutlet(el.Children) {
				return true
			}
			continue
		}
		if isComponentTag(el.Tag) {
			continue
		}
		if findSlotOutlet(el.Children) {
			return true
		}
	}
	return false
}
