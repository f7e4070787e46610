package typeresolve

import (
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/scope"
)

// tryReverseInference handles ExtractPropTypes<T>/ExtractPublicPropTypes<T>
// (spec §4.2.2) when the name resolves to an import from r.FrameworkModule
// (DESIGN.md Open Question: keyed off the literal import source string,
// default "vue", matching the original's own hardcoded check).
func (r *Resolver) tryReverseInference(n *ast.TypeReference, sc *scope.Scope) (*ResolvedElements, bool, error) {
	if n.Name != "ExtractPropTypes" && n.Name != "ExtractPublicPropTypes" {
		return nil, false, nil
	}
	if !r.importedFromFramework(sc, n.Name) {
		return nil, false, nil
	}
	if len(n.TypeArgs) == 0 {
		return newElements(), true, nil
	}
	base, err := r.ResolveTypeElements(n.TypeArgs[0], sc)
	if err != nil {
		return nil, true, err
	}
	out := newElements()
	for k, p := range base.Props {
		reified, required := r.reifyPropOption(p.Type, sc)
		out.Props[k] = Property{Key: k, Optional: !required, Type: reified, OwnerScope: p.OwnerScope}
	}
	return out, true, nil
}

func (r *Resolver) importedFromFramework(sc *scope.Scope, name string) bool {
	imp, ok := sc.Imports[name]
	return ok && imp.Source == r.FrameworkModule
}

var nullKeyword ast.TypeNode = &ast.KeywordType{Name: "null"}

// reifyPropOption reinterprets a prop-options value type as {type,
// required}, per §4.2.2's three shapes: a type-literal with `type`/
// `required` members, an `XxxConstructor` reference, or `PropType<U>`.
func (r *Resolver) reifyPropOption(t ast.TypeNode, sc *scope.Scope) (ast.TypeNode, bool) {
	switch n := t.(type) {
	case *ast.TypeLiteral:
		var typ ast.TypeNode
		required := false
		for _, m := range n.Members {
			key, ok := memberKey(m.Key)
			if !ok {
				continue
			}
			switch key {
			case "type":
				typ = m.Type
			case "required":
				if lit, ok := m.Type.(*ast.LiteralType); ok && lit.LitKind == ast.LiteralBoolean {
					required = lit.Text == "true"
				}
			}
		}
		if typ != nil {
			return typ, required
		}
	case *ast.TypeReference:
		if n.Name == "PropType" && len(n.TypeArgs) > 0 {
			return n.TypeArgs[0], false
		}
		if strings.HasSuffix(n.Name, "Constructor") {
			return constructorToKeyword(n.Name), false
		}
	}
	return nullKeyword, false
}

func constructorToKeyword(name string) ast.TypeNode {
	base := strings.TrimSuffix(name, "Constructor")
	switch base {
	case "String":
		return &ast.KeywordType{Name: "string"}
	case "Number":
		return &ast.KeywordType{Name: "number"}
	case "Boolean":
		return &ast.KeywordType{Name: "boolean"}
	case "Array":
		return &ast.ArrayType{}
	case "Object":
		return &ast.KeywordType{Name: "object"}
	case "Function":
		return &ast.FunctionType{}
	default:
		return nullKeyword
	}
}
