package script

import (
	"fmt"
	"strconv"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
)

func handleDefineProps(ctx *ScriptContext, call *macroCall, declName string, declPattern ast.Node) error {
	if ctx.HasDefinePropsCall {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: "defineProps called more than once",
		})
	}
	if call.TypeArg != nil && len(call.Args) > 0 {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC002, Phase: "macro",
			Message: "defineProps cannot mix a type parameter with a runtime argument",
		})
	}
	ctx.HasDefinePropsCall = true
	ctx.PropsTypeDecl = call.TypeArg
	if len(call.Args) > 0 {
		ctx.PropsRuntimeDecl = call.Args[0]
	}
	return bindPropsDeclaration(ctx, declName, declPattern)
}

// bindPropsDeclaration records how defineProps's result was bound: a
// destructuring pattern hands the keys to C4's rewriter, a plain
// identifier just records the binding name (spec §4.3).
func bindPropsDeclaration(ctx *ScriptContext, declName string, declPattern ast.Node) error {
	switch pat := declPattern.(type) {
	case *ast.ObjectPattern:
		for _, p := range pat.Properties {
			if p.Computed {
				return errors.WrapReport(&errors.Report{
					Schema: "sfc.error/v1", Code: errors.PAR007, Phase: "parse",
					Message: "defineProps destructuring does not support computed keys",
				})
			}
			ctx.PropsDestructuredBindings[p.Key] = DestructuredBinding{Local: p.Local, Default: p.Default}
		}
		ctx.PropsDestructureDecl = pat
		ctx.PropsDestructureRestID = pat.Rest
		if pat.Rest != "" {
			ctx.BindingMetadata[pat.Rest] = BindingSetupReactiveConst
		}
	case *ast.Identifier:
		ctx.PropsIdentifier = pat.Name
		ctx.BindingMetadata[pat.Name] = BindingSetupReactiveConst
	default:
		if declName != "" {
			ctx.PropsIdentifier = declName
			ctx.BindingMetadata[declName] = BindingSetupReactiveConst
		}
	}
	return nil
}

func handleWithDefaults(ctx *ScriptContext, call *macroCall, declName string, declPattern ast.Node) error {
	if err := handleDefineProps(ctx, call.WithDefaultsProps, declName, declPattern); err != nil {
		return err
	}
	for _, b := range ctx.PropsDestructuredBindings {
		if b.Default != nil {
			return errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.MAC003, Phase: "macro",
				Message: "withDefaults cannot be combined with destructured prop defaults",
			})
		}
	}
	ctx.PropsRuntimeDefaults = call.WithDefaultsDefaults
	return nil
}

func handleDefineEmits(ctx *ScriptContext, call *macroCall, declName string) error {
	if ctx.HasDefineEmitsCall {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: "defineEmits called more than once",
		})
	}
	if call.TypeArg != nil && len(call.Args) > 0 {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC002, Phase: "macro",
			Message: "defineEmits cannot mix a type parameter with a runtime argument",
		})
	}
	ctx.HasDefineEmitsCall = true
	ctx.EmitsTypeDecl = call.TypeArg
	ctx.EmitsIdentifier = declName
	if declName != "" {
		ctx.BindingMetadata[declName] = BindingSetup
	}
	if len(call.Args) > 0 {
		ctx.EmitsRuntimeDecl = call.Args[0]
		ctx.EmitNames = append(ctx.EmitNames, emitNamesFromRuntimeDecl(call.Args[0])...)
	}
	return nil
}

func emitNamesFromRuntimeDecl(decl ast.Node) []string {
	switch v := decl.(type) {
	case *ast.ArrayExpression:
		var names []string
		for _, el := range v.Elements {
			if s, ok := el.(*ast.StringLiteral); ok {
				names = append(names, s.Value)
			}
		}
		return names
	case *ast.ObjectExpression:
		var names []string
		for _, p := range v.Properties {
			if !p.Spread {
				names = append(names, p.Key)
			}
		}
		return names
	default:
		return nil
	}
}

func handleDefineModel(ctx *ScriptContext, opts Options, call *macroCall, declName string) error {
	if !opts.AllowDefineModel {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC002, Phase: "macro",
			Message: "defineModel is experimental and must be enabled via compiler options",
		})
	}
	name := "modelValue"
	var optionsArg ast.Node
	switch len(call.Args) {
	case 0:
	case 1:
		if s, ok := call.Args[0].(*ast.StringLiteral); ok {
			name = s.Value
		} else {
			optionsArg = call.Args[0]
		}
	case 2:
		s, ok := call.Args[0].(*ast.StringLiteral)
		if !ok {
			return errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.MAC002, Phase: "macro",
				Message: "defineModel's first argument must be a string literal name when two arguments are given",
			})
		}
		name = s.Value
		optionsArg = call.Args[1]
	default:
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC002, Phase: "macro",
			Message: "defineModel accepts at most a name and an options object",
		})
	}
	if _, dup := ctx.ModelDecls[name]; dup {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: fmt.Sprintf("defineModel(%q) called more than once", name),
		})
	}
	ctx.HasDefineModelCall = true
	ctx.ModelDecls[name] = &ModelDecl{Name: name, Type: call.TypeArg, Options: optionsArg, Identifier: declName}
	ctx.EmitNames = append(ctx.EmitNames, "update:"+name)
	ctx.HelperImports["useModel"] = true
	if declName != "" {
		ctx.BindingMetadata[declName] = BindingSetupMaybeRef
	}

	rewritten := "useModel(__props, " + strconv.Quote(name) + modelLocalOptions(optionsArg) + ")"
	ctx.Rope.Overwrite(call.StartOffset, call.EndOffset, rewritten)
	return nil
}

// modelLocalOptions extracts defineModel's "local" subfield if the
// options object statically declares one; otherwise it passes the whole
// options expression through (spec §9's resolved Open Question: the
// source does the same narrowing, preserved here rather than redesigned).
func modelLocalOptions(optionsArg ast.Node) string {
	if optionsArg == nil {
		return ""
	}
	if obj, ok := optionsArg.(*ast.ObjectExpression); ok {
		for _, p := range obj.Properties {
			if !p.Spread && !p.Computed && p.Key == "local" {
				return ", " + RenderExpr(p.Value)
			}
		}
	}
	return ", " + RenderExpr(optionsArg)
}

func handleDefineExpose(ctx *ScriptContext) error {
	if ctx.HasDefineExposeCall {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: "defineExpose called more than once",
		})
	}
	ctx.HasDefineExposeCall = true
	return nil
}

var reservedOptionsKeys = map[string]bool{"props": true, "emits": true, "expose": true, "slots": true}

func handleDefineOptions(ctx *ScriptContext, call *macroCall) error {
	if ctx.HasDefineOptionsCall {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: "defineOptions called more than once",
		})
	}
	if call.TypeArg != nil {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC007, Phase: "macro",
			Message: "defineOptions does not accept a type parameter",
		})
	}
	if len(call.Args) == 1 {
		if obj, ok := call.Args[0].(*ast.ObjectExpression); ok {
			for _, p := range obj.Properties {
				if !p.Spread && reservedOptionsKeys[p.Key] {
					return errors.WrapReport(&errors.Report{
						Schema: "sfc.error/v1", Code: errors.MAC004, Phase: "macro",
						Message: fmt.Sprintf("defineOptions cannot declare %q; use its dedicated macro instead", p.Key),
					})
				}
			}
		}
		ctx.OptionsDecl = call.Args[0]
	}
	ctx.HasDefineOptionsCall = true
	return nil
}

func handleDefineSlots(ctx *ScriptContext, call *macroCall) error {
	if ctx.HasDefineSlotsCall {
		return errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.MAC001, Phase: "macro",
			Message: "defineSlots called more than once",
		})
	}
	ctx.HasDefineSlotsCall = true
	ctx.SlotsTypeDecl = call.TypeArg
	ctx.HelperImports["useSlots"] = true
	ctx.Rope.Overwrite(call.StartOffset, call.EndOffset, "useSlots()")
	return nil
}
