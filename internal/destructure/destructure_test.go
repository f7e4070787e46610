package destructure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinetic-sfc/compiler/internal/scope"
	"github.com/kinetic-sfc/compiler/internal/script"
)

func rewrite(t *testing.T, src string, sc *scope.Scope) (*script.ScriptContext, error) {
	t.Helper()
	ctx := script.NewScriptContext("Comp.vue", src)
	require.NoError(t, script.Walk(ctx, script.Options{}))
	err := Rewrite(ctx, sc)
	return ctx, err
}

func TestRewritePlainReference(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
console.log(foo);`, nil)
	require.NoError(t, err)
	out := ctx.Rope.ToString()
	require.Contains(t, out, "console.log(__props.foo);")
	require.NotContains(t, out, "const { foo }")
}

func TestRewriteAliasedBinding(t *testing.T) {
	ctx, err := rewrite(t, `const { foo: renamed } = defineProps<{ foo: string }>();
console.log(renamed);`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "console.log(__props.foo);")
}

func TestRewriteShorthandObjectProperty(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
const payload = { foo, other: 1 };`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "{ foo: __props.foo, other: 1 }")
}

func TestRewriteSkipsFunctionParamShadow(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
function run(foo) { console.log(foo); }
console.log(foo);`, nil)
	require.NoError(t, err)
	out := ctx.Rope.ToString()
	require.Contains(t, out, "function run(foo) { console.log(foo); }")
	require.Contains(t, out, "console.log(__props.foo);")
}

func TestRewriteSkipsArrowExpressionBodyShadow(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
const mapped = items.map(foo => foo.id);`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "items.map(foo => foo.id)")
}

func TestRewriteSkipsInnerConstShadow(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
function run() {
  const foo = 1;
  console.log(foo);
}`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "console.log(foo);")
}

func TestRewriteForOfShadow(t *testing.T) {
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
for (const foo of list) { console.log(foo); }`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "for (const foo of list) { console.log(foo); }")
}

func TestAssignmentToDestructuredPropIsError(t *testing.T) {
	_, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
foo = 1;`, nil)
	require.Error(t, err)
}

func TestWatchOnDestructuredPropLosesReactivity(t *testing.T) {
	sc := &scope.Scope{Imports: map[string]scope.Imported{
		"watch": {Source: "vue", Imported: "watch"},
	}}
	_, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
watch(foo, () => {});`, sc)
	require.Error(t, err)
}

func TestWatchOnGetterIsFine(t *testing.T) {
	sc := &scope.Scope{Imports: map[string]scope.Imported{
		"watch": {Source: "vue", Imported: "watch"},
	}}
	ctx, err := rewrite(t, `const { foo } = defineProps<{ foo: string }>();
watch(() => foo, () => {});`, sc)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "watch(() => __props.foo, () => {});")
}

func TestRestBindingUntouched(t *testing.T) {
	ctx, err := rewrite(t, `const { foo, ...rest } = defineProps<{ foo: string; bar: number }>();
console.log(rest);`, nil)
	require.NoError(t, err)
	require.Contains(t, ctx.Rope.ToString(), "console.log(rest);")
}

func TestNoOpWithoutDestructure(t *testing.T) {
	ctx, err := rewrite(t, `const props = defineProps<{ foo: string }>();
console.log(props.foo);`, nil)
	require.NoError(t, err)
	require.Equal(t, ctx.Source, ctx.Rope.ToString())
}
