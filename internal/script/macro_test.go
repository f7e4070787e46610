package script

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func walk(t *testing.T, src string, opts Options) *ScriptContext {
	t.Helper()
	ctx := NewScriptContext("Comp.vue", src)
	require.NoError(t, Walk(ctx, opts))
	return ctx
}

func TestDefinePropsRuntimeObject(t *testing.T) {
	ctx := walk(t, `const props = defineProps({ foo: String, bar: Number });`, Options{})
	require.True(t, ctx.HasDefinePropsCall)
	require.Equal(t, "props", ctx.PropsIdentifier)
	require.NotNil(t, ctx.PropsRuntimeDecl)
	require.Equal(t, BindingSetupReactiveConst, ctx.BindingMetadata["props"])
}

func TestDefinePropsTypeParameter(t *testing.T) {
	ctx := walk(t, `const props = defineProps<{ foo: string; bar?: number }>();`, Options{})
	require.True(t, ctx.HasDefinePropsCall)
	require.NotNil(t, ctx.PropsTypeDecl)
	require.Nil(t, ctx.PropsRuntimeDecl)
}

func TestDefinePropsMixedArgsIsError(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `const props = defineProps<{ foo: string }>({ foo: String });`)
	err := Walk(ctx, Options{})
	require.Error(t, err)
}

func TestDefinePropsDuplicateCallIsError(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `defineProps({ a: String }); defineProps({ b: Number });`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestDefinePropsDestructurePattern(t *testing.T) {
	ctx := walk(t, `const { foo, bar: renamed = 1 } = defineProps<{ foo: string; bar?: number }>();`, Options{})
	require.True(t, ctx.HasDefinePropsCall)
	require.NotNil(t, ctx.PropsDestructureDecl)
	require.Equal(t, "foo", ctx.PropsDestructuredBindings["foo"].Local)
	require.Equal(t, "renamed", ctx.PropsDestructuredBindings["bar"].Local)
	require.NotNil(t, ctx.PropsDestructuredBindings["bar"].Default)
}

func TestWithDefaultsRequiresTypeBasedProps(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `const props = withDefaults(defineProps({ a: String }), { a: 'x' });`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestWithDefaultsRecordsDefaults(t *testing.T) {
	ctx := walk(t, `const props = withDefaults(defineProps<{ a?: string }>(), { a: 'x' });`, Options{})
	require.True(t, ctx.HasDefinePropsCall)
	require.NotNil(t, ctx.PropsRuntimeDefaults)
}

func TestWithDefaultsRejectsDestructuredDefaults(t *testing.T) {
	ctx := NewScriptContext("Comp.vue",
		`const { a = 'y' } = withDefaults(defineProps<{ a?: string }>(), { a: 'x' });`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestDefineEmitsArrayLiteral(t *testing.T) {
	ctx := walk(t, `const emit = defineEmits(['change', 'close']);`, Options{})
	require.True(t, ctx.HasDefineEmitsCall)
	require.Equal(t, "emit", ctx.EmitsIdentifier)
	require.ElementsMatch(t, []string{"change", "close"}, ctx.EmitNames)
	require.Equal(t, BindingSetup, ctx.BindingMetadata["emit"])
}

func TestDefineEmitsTypeParameter(t *testing.T) {
	ctx := walk(t, `const emit = defineEmits<(e: 'change', id: number) => void>();`, Options{})
	require.True(t, ctx.HasDefineEmitsCall)
	require.NotNil(t, ctx.EmitsTypeDecl)
}

func TestDefineModelGatedByOption(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `const model = defineModel();`)
	require.Error(t, Walk(ctx, Options{AllowDefineModel: false}))
}

func TestDefineModelDefaultName(t *testing.T) {
	ctx := walk(t, `const model = defineModel();`, Options{AllowDefineModel: true})
	require.True(t, ctx.HasDefineModelCall)
	decl, ok := ctx.ModelDecls["modelValue"]
	require.True(t, ok)
	require.Equal(t, "model", decl.Identifier)
	require.Contains(t, ctx.EmitNames, "update:modelValue")
	require.Contains(t, ctx.Rope.ToString(), `useModel(__props, "modelValue")`)
	require.Equal(t, BindingSetupMaybeRef, ctx.BindingMetadata["model"])
}

func TestDefineModelNamedWithOptions(t *testing.T) {
	ctx := walk(t, `const title = defineModel('title', { required: true });`, Options{AllowDefineModel: true})
	decl, ok := ctx.ModelDecls["title"]
	require.True(t, ok)
	require.Equal(t, "title", decl.Name)
	require.Contains(t, ctx.Rope.ToString(), `useModel(__props, "title"`)
}

func TestDefineModelDuplicateNameIsError(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `defineModel('a'); defineModel('a');`)
	require.Error(t, Walk(ctx, Options{AllowDefineModel: true}))
}

func TestDefineExposePresenceFlag(t *testing.T) {
	ctx := walk(t, `defineExpose();`, Options{})
	require.True(t, ctx.HasDefineExposeCall)
}

func TestDefineExposeDuplicateIsError(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `defineExpose(); defineExpose();`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestDefineOptionsRejectsReservedKey(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `defineOptions({ props: {} });`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestDefineOptionsRejectsTypeParameter(t *testing.T) {
	ctx := NewScriptContext("Comp.vue", `defineOptions<Foo>({ name: 'x' });`)
	require.Error(t, Walk(ctx, Options{}))
}

func TestDefineOptionsRecordsDecl(t *testing.T) {
	ctx := walk(t, `defineOptions({ name: 'MyComp' });`, Options{})
	require.True(t, ctx.HasDefineOptionsCall)
	require.NotNil(t, ctx.OptionsDecl)
}

func TestDefineSlotsRewritesCallSite(t *testing.T) {
	ctx := walk(t, `const slots = defineSlots<{ default: () => any }>();`, Options{})
	require.True(t, ctx.HasDefineSlotsCall)
	require.Contains(t, ctx.Rope.ToString(), "useSlots()")
	require.True(t, ctx.HelperImports["useSlots"])
}
