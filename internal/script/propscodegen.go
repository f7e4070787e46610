package script

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/scope"
	"github.com/kinetic-sfc/compiler/internal/typeresolve"
)

// ResolveProps finishes defineProps's runtime-props codegen once C2 is
// available (spec §4.3 "Runtime-props codegen"). For a type-based
// declaration it resolves PropsTypeDecl through resolver and builds one
// RuntimeProp per key, merging withDefaults/destructure defaults
// (spec's "mergeDefaults helper"). For a runtime declaration codegen
// re-emits PropsRuntimeDecl verbatim elsewhere; this only needs to fill
// bindingMetadata here. A no-op when defineProps was never called.
func (ctx *ScriptContext) ResolveProps(resolver *typeresolve.Resolver, sc *scope.Scope) error {
	if !ctx.HasDefinePropsCall {
		return nil
	}
	switch {
	case ctx.PropsTypeDecl != nil:
		els, err := resolver.ResolveTypeElements(ctx.PropsTypeDecl, sc)
		if err != nil {
			return err
		}
		defaults := ctx.propsDefaults()
		for key, prop := range els.Props {
			rp := RuntimeProp{
				Key:      key,
				Types:    resolver.InferRuntimeType(prop.Type),
				Required: !prop.Optional,
			}
			if def, ok := defaults[key]; ok {
				rp.Default = def
				rp.Required = false
			}
			rp.SkipCheck = len(rp.Types) == 1 && rp.Types[0] == typeresolve.TagUnknown
			ctx.RuntimeProps = append(ctx.RuntimeProps, rp)
			ctx.bindPropKey(key)
		}
	case ctx.PropsRuntimeDecl != nil:
		switch decl := ctx.PropsRuntimeDecl.(type) {
		case *ast.ObjectExpression:
			for _, p := range decl.Properties {
				if !p.Spread {
					ctx.bindPropKey(p.Key)
				}
			}
		case *ast.ArrayExpression:
			for _, el := range decl.Elements {
				if s, ok := el.(*ast.StringLiteral); ok {
					ctx.bindPropKey(s.Value)
				}
			}
		}
	default:
		for key := range ctx.PropsDestructuredBindings {
			ctx.bindPropKey(key)
		}
	}
	return nil
}

// ResolveEmits finishes defineEmits's runtime-codegen once C2 is
// available, mirroring ResolveProps: a type-based declaration's call
// signatures each resolve to one event name, taken from the first
// parameter's string-literal type (spec §8 end-to-end scenario 2:
// `defineEmits<{(e:'change', id:number):void; (e:'close'):void}>()`
// produces emits `["change", "close"]`). A runtime declaration already
// has EmitNames filled in by emitNamesFromRuntimeDecl at macro-walk
// time, so this is a no-op whenever EmitsTypeDecl is nil.
func (ctx *ScriptContext) ResolveEmits(resolver *typeresolve.Resolver, sc *scope.Scope) error {
	if !ctx.HasDefineEmitsCall || ctx.EmitsTypeDecl == nil {
		return nil
	}
	els, err := resolver.ResolveTypeElements(ctx.EmitsTypeDecl, sc)
	if err != nil {
		return err
	}
	for _, call := range els.Calls {
		if len(call.Params) == 0 {
			continue
		}
		lit, ok := call.Params[0].Type.(*ast.LiteralType)
		if !ok || lit.LitKind != ast.LiteralString {
			continue
		}
		ctx.EmitNames = append(ctx.EmitNames, unquoteEventName(lit.Text))
	}
	return nil
}

func unquoteEventName(text string) string {
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}

// propsDefaults merges withDefaults' defaults object with destructured
// default values into one key -> expr map (spec §4.3 "merging destructure
// defaults via a mergeDefaults helper when present"). handleWithDefaults
// already rejects the case where both are present, so this is a plain
// union, never an override.
func (ctx *ScriptContext) propsDefaults() map[string]ast.Node {
	out := map[string]ast.Node{}
	if obj, ok := ctx.PropsRuntimeDefaults.(*ast.ObjectExpression); ok {
		for _, p := range obj.Properties {
			if !p.Spread {
				out[p.Key] = p.Value
			}
		}
	}
	for key, b := range ctx.PropsDestructuredBindings {
		if b.Default != nil {
			out[key] = b.Default
		}
	}
	return out
}

func (ctx *ScriptContext) bindPropKey(key string) {
	if b, ok := ctx.PropsDestructuredBindings[key]; ok && b.Local != key {
		ctx.BindingMetadata[b.Local] = BindingPropsAliased
		return
	}
	ctx.BindingMetadata[key] = BindingProps
}
