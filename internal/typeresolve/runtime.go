package typeresolve

import "github.com/kinetic-sfc/compiler/internal/ast"

// RuntimeTag is one of the runtime constructor tags a prop's type
// annotation compiles down to (spec §3 "Patch flags"/§4.2 "Runtime-type
// inference").
type RuntimeTag string

const (
	TagString  RuntimeTag = "String"
	TagNumber  RuntimeTag = "Number"
	TagBoolean RuntimeTag = "Boolean"
	TagObject  RuntimeTag = "Object"
	TagArray   RuntimeTag = "Array"
	TagFunc    RuntimeTag = "Function"
	TagDate    RuntimeTag = "Date"
	TagPromise RuntimeTag = "Promise"
	TagSet     RuntimeTag = "Set"
	TagMap     RuntimeTag = "Map"
	TagWeakSet RuntimeTag = "WeakSet"
	TagWeakMap RuntimeTag = "WeakMap"
	TagSymbol  RuntimeTag = "Symbol"
	TagNull    RuntimeTag = "null"
	TagUnknown RuntimeTag = "Unknown"
)

var refTypeTags = map[string]RuntimeTag{
	"Date": TagDate, "Promise": TagPromise, "Set": TagSet, "Map": TagMap,
	"WeakSet": TagWeakSet, "WeakMap": TagWeakMap, "Symbol": TagSymbol,
}

// InferRuntimeType is spec §4.2's `inferRuntimeType(node) -> [tag]`. It
// never returns an error: any node shape it cannot classify collapses to
// [Unknown], matching "any failure ... is caught and collapses to
// [Unknown] — never propagates".
func (r *Resolver) InferRuntimeType(t ast.TypeNode) []RuntimeTag {
	tags := r.inferRuntimeType(t)
	if len(tags) == 0 {
		return []RuntimeTag{TagUnknown}
	}
	return dedupeTags(tags)
}

func (r *Resolver) inferRuntimeType(t ast.TypeNode) []RuntimeTag {
	switch n := t.(type) {
	case nil:
		return []RuntimeTag{TagUnknown}
	case *ast.KeywordType:
		switch n.Name {
		case "string":
			return []RuntimeTag{TagString}
		case "number":
			return []RuntimeTag{TagNumber}
		case "boolean":
			return []RuntimeTag{TagBoolean}
		case "object", "unknown", "any":
			return []RuntimeTag{TagObject}
		case "null", "undefined", "void":
			return []RuntimeTag{TagNull}
		default:
			return []RuntimeTag{TagUnknown}
		}
	case *ast.LiteralType:
		switch n.LitKind {
		case ast.LiteralString:
			return []RuntimeTag{TagString}
		case ast.LiteralNumber:
			return []RuntimeTag{TagNumber}
		case ast.LiteralBoolean:
			return []RuntimeTag{TagBoolean}
		}
		return []RuntimeTag{TagUnknown}
	case *ast.TemplateLiteralType:
		return []RuntimeTag{TagString}
	case *ast.ArrayType, *ast.TupleType:
		return []RuntimeTag{TagArray}
	case *ast.FunctionType:
		return []RuntimeTag{TagFunc}
	case *ast.ParenthesizedType:
		return r.inferRuntimeType(n.Inner)
	case *ast.UnionType:
		var out []RuntimeTag
		for _, sub := range n.Types {
			out = append(out, r.inferRuntimeType(sub)...)
		}
		return dedupeTags(out)
	case *ast.IntersectionType:
		var out []RuntimeTag
		for _, sub := range n.Types {
			out = append(out, r.inferRuntimeType(sub)...)
		}
		return dropUnknown(dedupeTags(out))
	case *ast.TypeLiteral:
		return []RuntimeTag{TagObject}
	case *ast.MappedType:
		return []RuntimeTag{TagObject}
	case *ast.TypeReference:
		if tag, ok := refTypeTags[n.Name]; ok {
			return []RuntimeTag{tag}
		}
		if n.Name == "Array" || n.Name == "ReadonlyArray" {
			return []RuntimeTag{TagArray}
		}
		if n.Name == "Record" {
			return []RuntimeTag{TagObject}
		}
		// A reference to a user-defined interface/alias needs a scope to
		// resolve, which this node-only signature does not carry; treat
		// it as an object rather than chase the reference (spec §4.2: any
		// failure to resolve collapses toward a safe default).
		return []RuntimeTag{TagObject}
	default:
		return []RuntimeTag{TagUnknown}
	}
}

func dedupeTags(in []RuntimeTag) []RuntimeTag {
	seen := map[RuntimeTag]bool{}
	var out []RuntimeTag
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func dropUnknown(in []RuntimeTag) []RuntimeTag {
	var out []RuntimeTag
	for _, t := range in {
		if t != TagUnknown {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []RuntimeTag{TagUnknown}
	}
	return out
}
