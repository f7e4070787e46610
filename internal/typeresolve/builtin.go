package typeresolve

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/scope"
)

// builtinUtilities is the set of TypeScript utility types spec §4.2
// names directly ("Partial, Required, Readonly, Pick, Omit, ReturnType,
// and friends").
var builtinUtilities = map[string]bool{
	"Partial": true, "Required": true, "Readonly": true,
	"Pick": true, "Omit": true, "ReturnType": true, "Record": true,
}

// tryBuiltinUtility evaluates n if its name is a recognized builtin
// utility type, returning handled=false otherwise so the caller falls
// through to ordinary type-reference resolution.
func (r *Resolver) tryBuiltinUtility(n *ast.TypeReference, sc *scope.Scope) (*ResolvedElements, bool, error) {
	if !builtinUtilities[n.Name] {
		return nil, false, nil
	}
	switch n.Name {
	case "Partial":
		els, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		return mapOptional(els, true), true, nil
	case "Required":
		els, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		return mapOptional(els, false), true, nil
	case "Readonly":
		els, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		return els, true, nil
	case "Pick":
		base, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		keys, err := r.keysArg(n, sc, 1)
		if err != nil {
			return nil, true, err
		}
		out := newElements()
		for k := range keys {
			if p, ok := base.Props[k]; ok {
				out.Props[k] = p
			}
		}
		return out, true, nil
	case "Omit":
		base, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		keys, err := r.keysArg(n, sc, 1)
		if err != nil {
			return nil, true, err
		}
		out := newElements()
		for k, p := range base.Props {
			if !keys[k] {
				out.Props[k] = p
			}
		}
		return out, true, nil
	case "Record":
		if len(n.TypeArgs) != 2 {
			return nil, true, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.TYP003, Phase: "typeresolve",
				Message: "Record<K, V> requires exactly two type arguments",
			})
		}
		keys, err := r.evalStringSetFromType(n.TypeArgs[0], sc)
		if err != nil {
			return nil, true, err
		}
		out := newElements()
		for k := range keys {
			out.Props[k] = Property{Key: k, Type: n.TypeArgs[1], OwnerScope: sc}
		}
		return out, true, nil
	case "ReturnType":
		els, err := r.requireArg(n, sc, 0)
		if err != nil {
			return nil, true, err
		}
		if len(els.Calls) == 0 {
			return newElements(), true, nil
		}
		ret, err := r.ResolveTypeElements(els.Calls[0].ReturnType, sc)
		if err != nil {
			return nil, true, err
		}
		return ret, true, nil
	}
	return nil, false, nil
}

func (r *Resolver) requireArg(n *ast.TypeReference, sc *scope.Scope, i int) (*ResolvedElements, error) {
	if i >= len(n.TypeArgs) {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.TYP003, Phase: "typeresolve",
			Message: n.Name + " requires a type argument",
		})
	}
	return r.ResolveTypeElements(n.TypeArgs[i], sc)
}

func (r *Resolver) keysArg(n *ast.TypeReference, sc *scope.Scope, i int) (map[string]bool, error) {
	if i >= len(n.TypeArgs) {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.TYP003, Phase: "typeresolve",
			Message: n.Name + " requires a key-set type argument",
		})
	}
	return r.evalStringSetFromType(n.TypeArgs[i], sc)
}

func mapOptional(in *ResolvedElements, optional bool) *ResolvedElements {
	out := newElements()
	out.Calls = in.Calls
	for k, p := range in.Props {
		p.Optional = optional
		out.Props[k] = p
	}
	return out
}
