// Package typeresolve evaluates TypeScript type expressions into the
// normalized element maps and runtime-type tag lists the macro pipeline
// needs (spec §4.2). The dispatch-by-node-kind shape mirrors the
// teacher's internal/types/inference.go Infer function; the parent-chain
// scope lookup mirrors internal/types/env.go's TypeEnv.
package typeresolve

import (
	"fmt"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/scope"
)

// Property is one entry of ResolvedElements.Props (spec §3).
type Property struct {
	Key        string
	Optional   bool
	Type       ast.TypeNode
	OwnerScope *scope.Scope
}

// ResolvedElements is the normalized product of evaluating a type
// expression (spec §3, §4.2).
type ResolvedElements struct {
	Props map[string]Property
	Calls []*ast.FunctionType
}

func newElements() *ResolvedElements {
	return &ResolvedElements{Props: make(map[string]Property)}
}

// Resolver evaluates type expressions against a scope.Graph, memoizing
// on the node so repeated resolution of the same node is free and
// structurally identical (spec §4.2 "Memoizes on the node", spec §8
// invariant 2).
type Resolver struct {
	Graph *scope.Graph

	// FrameworkModule is the import source string PropType<U>/
	// ExtractPropTypes resolution keys off (SPEC_FULL.md Open Question
	// resolution 3; spec §9 "a target implementation should keep the
	// analogous string configurable"). Defaults to "vue".
	FrameworkModule string

	cache map[cacheKey]*ResolvedElements
}

// cacheKey identifies a memoized resolution by the node's identity
// (pointer) plus the resolving scope, since the same type-literal node
// can be reached from two different import paths with different
// surrounding scopes.
type cacheKey struct {
	node  ast.TypeNode
	scope *scope.Scope
}

// NewResolver constructs a Resolver; frameworkModule "" defaults to
// "vue".
func NewResolver(g *scope.Graph, frameworkModule string) *Resolver {
	if frameworkModule == "" {
		frameworkModule = "vue"
	}
	return &Resolver{Graph: g, FrameworkModule: frameworkModule, cache: make(map[cacheKey]*ResolvedElements)}
}

// ResolveTypeElements is spec §4.2's `resolveTypeElements(ctx, node,
// scope) -> ResolvedElements`.
func (r *Resolver) ResolveTypeElements(node ast.TypeNode, sc *scope.Scope) (*ResolvedElements, error) {
	if node == nil {
		return newElements(), nil
	}
	key := cacheKey{node: node, scope: sc}
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	els, err := r.resolve(node, sc)
	if err != nil {
		return nil, err
	}
	r.cache[key] = els
	return els, nil
}

func (r *Resolver) resolve(node ast.TypeNode, sc *scope.Scope) (*ResolvedElements, error) {
	switch n := node.(type) {
	case *ast.TypeLiteral:
		return r.resolveTypeLiteral(n, sc)
	case *ast.InterfaceDecl:
		return r.resolveInterface(n, sc)
	case *ast.TypeAliasDecl:
		return r.ResolveTypeElements(n.Type, sc)
	case *ast.ParenthesizedType:
		return r.ResolveTypeElements(n.Inner, sc)
	case *ast.FunctionType:
		els := newElements()
		els.Calls = append(els.Calls, n)
		return els, nil
	case *ast.UnionType:
		return r.resolveUnion(n, sc)
	case *ast.IntersectionType:
		return r.resolveIntersection(n, sc)
	case *ast.MappedType:
		return r.resolveMapped(n, sc)
	case *ast.IndexedAccessType:
		return r.resolveIndexedAccess(n, sc)
	case *ast.TypeReference:
		return r.resolveTypeReference(n, sc)
	case *ast.ImportType:
		return r.resolveImportType(n, sc)
	case *ast.TypeQuery:
		return r.resolveTypeQuery(n, sc)
	default:
		return newElements(), nil
	}
}

func (r *Resolver) resolveTypeLiteral(n *ast.TypeLiteral, sc *scope.Scope) (*ResolvedElements, error) {
	els := newElements()
	for _, m := range n.Members {
		if m.Call != nil {
			els.Calls = append(els.Calls, m.Call)
			continue
		}
		// Template-literal keys expand to one concrete property per
		// combination the key's string-set evaluation produces (spec
		// §4.2 TypeLiteral rule); not yet reachable from the current
		// declaration-grammar parser, which only accepts a bare
		// identifier inside a computed key's brackets, but the resolver
		// implements the full table regardless.
		if lit, ok := m.Key.(*ast.TemplateLiteralType); ok {
			set, err := evalStringSet(lit, sc, r)
			if err != nil {
				return nil, err
			}
			for concrete := range set {
				els.Props[concrete] = Property{Key: concrete, Optional: m.Optional, Type: m.Type, OwnerScope: sc}
			}
			continue
		}
		key, ok := memberKey(m.Key)
		if !ok {
			return nil, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.TYP002, Phase: "typeresolve",
				Message: "computed non-static property key is not supported",
			})
		}
		els.Props[key] = Property{Key: key, Optional: m.Optional, Type: m.Type, OwnerScope: sc}
	}
	return els, nil
}

// memberKey extracts the static string key of a Member.Key node
// (Identifier or StringLiteral); anything else is a computed key.
func memberKey(key ast.Node) (string, bool) {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name, true
	case *ast.StringLiteral:
		return k.Value, true
	default:
		return "", false
	}
}

func (r *Resolver) resolveInterface(n *ast.InterfaceDecl, sc *scope.Scope) (*ResolvedElements, error) {
	merged := newElements()
	for _, ext := range n.Extends {
		if ext.Ignore {
			continue
		}
		base, err := r.ResolveTypeElements(ext.Type, sc)
		if err != nil {
			return nil, err
		}
		merged = mergeBaseFirst(merged, base)
	}
	if n.Body != nil {
		own, err := r.resolveTypeLiteral(n.Body, sc)
		if err != nil {
			return nil, err
		}
		merged = mergeBaseFirst(merged, own) // child (own) overrides retained: own wins on key collision
	}
	return merged, nil
}

// mergeBaseFirst merges base into acc, with later (child) entries
// overriding earlier (base) ones on key collision (spec §4.1 step 5 /
// §4.2 InterfaceDecl rule: "base merges base-first, child overrides
// retain").
func mergeBaseFirst(acc, incoming *ResolvedElements) *ResolvedElements {
	for k, v := range incoming.Props {
		acc.Props[k] = v
	}
	acc.Calls = append(acc.Calls, incoming.Calls...)
	return acc
}

func (r *Resolver) resolveUnion(n *ast.UnionType, sc *scope.Scope) (*ResolvedElements, error) {
	var branches []*ResolvedElements
	for _, t := range n.Types {
		b, err := r.ResolveTypeElements(t, sc)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return unionMerge(branches), nil
}

// unionMerge implements spec §3/§4.2's union rule: a key present in
// every branch is non-optional only if non-optional in all of them; a
// key missing from at least one branch becomes optional. Types of
// shared keys are unioned (represented here as a synthetic UnionType
// node so downstream runtime-type inference still flattens correctly).
func unionMerge(branches []*ResolvedElements) *ResolvedElements {
	out := newElements()
	if len(branches) == 0 {
		return out
	}
	counts := map[string]int{}
	optionalAnywhere := map[string]bool{}
	types := map[string][]ast.TypeNode{}
	for _, b := range branches {
		for k, p := range b.Props {
			counts[k]++
			types[k] = append(types[k], p.Type)
			if p.Optional {
				optionalAnywhere[k] = true
			}
		}
		out.Calls = append(out.Calls, b.Calls...)
	}
	for k, n := range counts {
		optional := optionalAnywhere[k] || n < len(branches)
		out.Props[k] = Property{Key: k, Optional: optional, Type: unionOf(types[k])}
	}
	return out
}

func unionOf(types []ast.TypeNode) ast.TypeNode {
	if len(types) == 1 {
		return types[0]
	}
	return &ast.UnionType{Types: types}
}

func (r *Resolver) resolveIntersection(n *ast.IntersectionType, sc *scope.Scope) (*ResolvedElements, error) {
	out := newElements()
	for _, t := range n.Types {
		b, err := r.ResolveTypeElements(t, sc)
		if err != nil {
			return nil, err
		}
		for k, p := range b.Props {
			if isUnknownKeyword(p.Type) {
				continue
			}
			out.Props[k] = p
		}
		out.Calls = append(out.Calls, b.Calls...)
	}
	return out, nil
}

func isUnknownKeyword(t ast.TypeNode) bool {
	kw, ok := t.(*ast.KeywordType)
	return ok && kw.Name == "unknown"
}

func (r *Resolver) resolveImportType(n *ast.ImportType, sc *scope.Scope) (*ResolvedElements, error) {
	target, _, ok := r.Graph.Resolve(n.Qualifier, sc, true)
	if !ok {
		return newElements(), nil
	}
	if tn, ok := target.(ast.TypeNode); ok {
		return r.ResolveTypeElements(tn, sc)
	}
	return newElements(), nil
}

func (r *Resolver) resolveTypeQuery(n *ast.TypeQuery, sc *scope.Scope) (*ResolvedElements, error) {
	if decl, ok := sc.Declares[n.ExprName]; ok {
		if tn, ok := decl.(ast.TypeNode); ok {
			return r.ResolveTypeElements(tn, sc)
		}
	}
	return newElements(), nil
}

func (r *Resolver) resolveTypeReference(n *ast.TypeReference, sc *scope.Scope) (*ResolvedElements, error) {
	if els, handled, err := r.tryReverseInference(n, sc); handled {
		return els, err
	}
	if els, handled, err := r.tryBuiltinUtility(n, sc); handled {
		return els, err
	}

	node, owner, ok := r.Graph.Resolve(n.Name, sc, false)
	if !ok {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.TYP001, Phase: "typeresolve",
			Message: fmt.Sprintf("unresolvable type reference %q", n.Name),
			Fix:     &errors.Fix{Description: `annotate the extends clause with "@vue-ignore" to skip it`},
		})
	}
	tn, ok := node.(ast.TypeNode)
	if !ok {
		return newElements(), nil
	}
	return r.ResolveTypeElements(tn, owner)
}
