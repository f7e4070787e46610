package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/ir"
)

func TestSlotsOwnVSlotOnComponent(t *testing.T) {
	out := transformSrc(t, `<MyList v-slot="{ item }">{{ item.name }}</MyList>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Len(t, slots.Static, 1)
	require.Equal(t, "default", slots.Static[0].Name)
}

func TestSlotsMixedVSlotAndTemplateVSlotErrors(t *testing.T) {
	nodes, err := Parse(`<MyList v-slot="{ item }"><template v-slot:other>x</template></MyList>`, 0, "Comp.vue")
	require.NoError(t, err)
	_, err = Transform(nodes)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.TPL005, rep.Code)
}

func TestSlotsNamedTemplateSlots(t *testing.T) {
	out := transformSrc(t, `<Layout>
<template #header>{{ title }}</template>
<template #default>{{ body }}</template>
</Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	names := map[string]bool{}
	for _, s := range slots.Static {
		names[s.Name] = true
	}
	require.True(t, names["header"])
	require.True(t, names["default"])
}

func TestSlotsDuplicateNameErrors(t *testing.T) {
	nodes, err := Parse(`<Layout><template #header>a</template><template #header>b</template></Layout>`, 0, "Comp.vue")
	require.NoError(t, err)
	_, err = Transform(nodes)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.TPL002, rep.Code)
}

func TestSlotsImplicitDefaultConflictsWithExplicitDefault(t *testing.T) {
	nodes, err := Parse(`<Layout>implicit text<template #default>explicit</template></Layout>`, 0, "Comp.vue")
	require.NoError(t, err)
	_, err = Transform(nodes)
	require.Error(t, err)
	rep, ok := errors.AsReport(err)
	require.True(t, ok)
	require.Equal(t, errors.TPL002, rep.Code)
}

func TestSlotsDynamicNameMarksSlotFlagDynamic(t *testing.T) {
	out := transformSrc(t, `<Layout><template v-slot:[name]>{{ body }}</template></Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotDynamic, slots.Flag)
}

func TestSlotsStableWhenNoDynamismPresent(t *testing.T) {
	out := transformSrc(t, `<Layout><template #header>static</template></Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotStable, slots.Flag)
}

func TestSlotsForwardedWhenSlotOutletPresent(t *testing.T) {
	out := transformSrc(t, `<Layout><template #header><slot name="header"></slot></template></Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotForwarded, slots.Flag)
}

func TestSlotsDynamicWhenNestedInVFor(t *testing.T) {
	out := transformSrc(t, `<div v-for="row in rows"><Layout><template #header>{{ row }}</template></Layout></div>`)
	f := out[0].(*ir.For)
	outer := f.Children[0].(*ir.VNodeCall)
	inner := outer.Children[0].(*ir.VNodeCall)
	slots := inner.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotDynamic, slots.Flag)
}

func TestSlotsTemplateVIfProducesConditionalInDynamicSlice(t *testing.T) {
	out := transformSrc(t, `<Layout>
<template #header v-if="showHeader">{{ title }}</template>
<template #header v-else>{{ fallback }}</template>
</Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotDynamic, slots.Flag)
	require.Len(t, slots.Dynamic, 1)
	cond := slots.Dynamic[0].(*ir.Conditional)
	require.Equal(t, "showHeader", cond.Test)
	consequent := cond.Consequent.(*ir.Slot)
	require.Equal(t, "header", consequent.Name)
	require.Equal(t, "0", consequent.Key)
	alt := cond.Alternate.(*ir.Slot)
	require.Equal(t, "1", alt.Key)
}

func TestSlotsTemplateVForProducesRenderListInDynamicSlice(t *testing.T) {
	out := transformSrc(t, `<Layout><template v-for="col in columns" #[col.id]>{{ col.label }}</template></Layout>`)
	vc := out[0].(*ir.VNodeCall)
	slots := vc.Children[0].(*ir.SlotsObject)
	require.Equal(t, ir.SlotDynamic, slots.Flag)
	require.Len(t, slots.Dynamic, 1)
	call := slots.Dynamic[0].(*ir.CallExpression)
	require.Equal(t, "renderList", call.Callee)
}
