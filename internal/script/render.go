package script

import (
	"strconv"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
)

// RenderExpr reprints a node produced by parseExpr/parseObjectExpression
// back into source text. It mirrors, in reverse, the exact grammar those
// functions parse — it is not a general AST printer and does not need to
// cover any node kind the rest of this package never constructs. C7
// (internal/codegen) reuses it to serialize RuntimeProps defaults,
// PropsRuntimeDecl/EmitsRuntimeDecl, and ModelDecl.Options into the
// generated component options object, instead of re-deriving an AST
// printer for the same node kinds.
func RenderExpr(n ast.Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *ast.Identifier:
		return v.Name
	case *ast.StringLiteral:
		return strconv.Quote(v.Value)
	case *ast.NumericLiteral:
		return v.Text
	case *ast.BooleanLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.MemberExpression:
		return RenderExpr(v.Object) + "." + v.Property
	case *ast.CallExpression:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = RenderExpr(a)
		}
		return RenderExpr(v.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.ArrowFunction:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = RenderExpr(p)
		}
		return "(" + strings.Join(params, ", ") + ") => " + RenderExpr(v.Body)
	case *ast.ObjectExpression:
		props := make([]string, len(v.Properties))
		for i, p := range v.Properties {
			switch {
			case p.Spread:
				props[i] = "..." + RenderExpr(p.Value)
			case p.Shorthand:
				props[i] = p.Key
			default:
				key := p.Key
				if p.Computed {
					key = "[" + p.Key + "]"
				}
				props[i] = key + ": " + RenderExpr(p.Value)
			}
		}
		return "{ " + strings.Join(props, ", ") + " }"
	case *ast.ArrayExpression:
		els := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			els[i] = RenderExpr(e)
		}
		return "[" + strings.Join(els, ", ") + "]"
	case *ast.ObjectPattern:
		props := make([]string, len(v.Properties))
		for i, p := range v.Properties {
			if p.Shorthand {
				props[i] = p.Key
			} else {
				props[i] = p.Key + ": " + p.Local
			}
			if p.Default != nil {
				props[i] += " = " + RenderExpr(p.Default)
			}
		}
		if v.Rest != "" {
			props = append(props, "..."+v.Rest)
		}
		return "{ " + strings.Join(props, ", ") + " }"
	case *ast.RawExpression:
		return v.Text
	default:
		return ""
	}
}
