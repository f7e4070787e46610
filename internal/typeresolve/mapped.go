package typeresolve

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/scope"
)

// resolveMapped evaluates a mapped type `{ [K in Constraint]: Value }` by
// enumerating the constraint as a finite string set (spec §4.2 "Mapped
// types require evaluating the key constraint as a string-literal
// union"). Any constraint that does not reduce to a finite set of string
// literals is a TYP004.
func (r *Resolver) resolveMapped(n *ast.MappedType, sc *scope.Scope) (*ResolvedElements, error) {
	keys, err := r.evalStringSetFromType(n.Constraint, sc)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.TYP004, Phase: "typeresolve",
			Message: "mapped-type key constraint did not evaluate to a finite string set",
		})
	}
	els := newElements()
	for k := range keys {
		els.Props[k] = Property{Key: k, Optional: n.Optional, Type: n.ValueType, OwnerScope: sc}
	}
	return els, nil
}

// resolveIndexedAccess evaluates `T[K]` by resolving T's elements and
// projecting out the K property, or by rewrapping T[keyof T] as a union
// of all property types when K is a keyof operand over T itself.
func (r *Resolver) resolveIndexedAccess(n *ast.IndexedAccessType, sc *scope.Scope) (*ResolvedElements, error) {
	base, err := r.ResolveTypeElements(n.ObjectType, sc)
	if err != nil {
		return nil, err
	}
	if lit, ok := n.IndexType.(*ast.LiteralType); ok && lit.LitKind == ast.LiteralString {
		key := unquoteLiteral(lit.Text)
		if p, ok := base.Props[key]; ok {
			return r.ResolveTypeElements(p.Type, p.OwnerScope)
		}
		return newElements(), nil
	}
	// T[keyof T]: union of every property type.
	if _, ok := n.IndexType.(*ast.KeyofType); ok {
		var types []ast.TypeNode
		for _, p := range base.Props {
			types = append(types, p.Type)
		}
		if len(types) == 0 {
			return newElements(), nil
		}
		return r.ResolveTypeElements(unionOf(types), sc)
	}
	return newElements(), nil
}

func unquoteLiteral(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}
