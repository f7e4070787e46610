package typeresolve

import (
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/scope"
)

// evalStringSetFromType evaluates a type expression as a finite set of
// string literals (spec §4.2 "string-type evaluation": literal type,
// union of literals, template-literal type, keyof, and the
// Extract/Exclude/Uppercase/Lowercase/Capitalize/Uncapitalize builtin
// string utilities). Anything that does not reduce to a finite set
// returns an empty, non-error set — callers treat that as "unknown",
// not as a hard failure (spec §4.2 "collapses to [Unknown], never
// propagates").
func (r *Resolver) evalStringSetFromType(t ast.TypeNode, sc *scope.Scope) (map[string]bool, error) {
	switch n := t.(type) {
	case *ast.LiteralType:
		if n.LitKind == ast.LiteralString {
			return map[string]bool{unquoteLiteral(n.Text): true}, nil
		}
		return nil, nil
	case *ast.UnionType:
		out := map[string]bool{}
		for _, sub := range n.Types {
			set, err := r.evalStringSetFromType(sub, sc)
			if err != nil {
				return nil, err
			}
			for k := range set {
				out[k] = true
			}
		}
		return out, nil
	case *ast.TemplateLiteralType:
		return evalStringSet(n, sc, r)
	case *ast.KeyofType:
		els, err := r.ResolveTypeElements(n.Operand, sc)
		if err != nil {
			return nil, err
		}
		out := map[string]bool{}
		for k := range els.Props {
			out[k] = true
		}
		return out, nil
	case *ast.TypeReference:
		if len(n.TypeArgs) == 1 {
			switch n.Name {
			case "Uppercase", "Lowercase", "Capitalize", "Uncapitalize":
				base, err := r.evalStringSetFromType(n.TypeArgs[0], sc)
				if err != nil {
					return nil, err
				}
				return mapStrings(base, stringCaseFn(n.Name)), nil
			}
		}
		if len(n.TypeArgs) == 2 && (n.Name == "Extract" || n.Name == "Exclude") {
			base, err := r.evalStringSetFromType(n.TypeArgs[0], sc)
			if err != nil {
				return nil, err
			}
			filter, err := r.evalStringSetFromType(n.TypeArgs[1], sc)
			if err != nil {
				return nil, err
			}
			out := map[string]bool{}
			for k := range base {
				_, inFilter := filter[k]
				if (n.Name == "Extract") == inFilter {
					out[k] = true
				}
			}
			return out, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func stringCaseFn(name string) func(string) string {
	switch name {
	case "Uppercase":
		return strings.ToUpper
	case "Lowercase":
		return strings.ToLower
	case "Capitalize":
		return func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		}
	case "Uncapitalize":
		return func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToLower(s[:1]) + s[1:]
		}
	default:
		return func(s string) string { return s }
	}
}

func mapStrings(in map[string]bool, f func(string) string) map[string]bool {
	out := make(map[string]bool, len(in))
	for k := range in {
		out[f(k)] = true
	}
	return out
}

// evalStringSet expands a template-literal type's spans into every
// concrete string combination, e.g. `on${Capitalize<Event>}` over
// Event = "click" | "close" expands to {"onClick", "onClose"}.
func evalStringSet(n *ast.TemplateLiteralType, sc *scope.Scope, r *Resolver) (map[string]bool, error) {
	combos := []string{""}
	for _, span := range n.Spans {
		var exprSet map[string]bool
		if span.Expr != nil {
			set, err := r.evalStringSetFromType(span.Expr, sc)
			if err != nil {
				return nil, err
			}
			exprSet = set
		}
		next := make([]string, 0, len(combos))
		if len(exprSet) == 0 {
			for _, c := range combos {
				next = append(next, c+span.Quasi)
			}
		} else {
			for _, c := range combos {
				for piece := range exprSet {
					next = append(next, c+span.Quasi+piece)
				}
			}
		}
		combos = next
	}
	out := make(map[string]bool, len(combos))
	for _, c := range combos {
		out[c] = true
	}
	return out, nil
}
