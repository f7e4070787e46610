package sourcefile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSFC = `<script setup lang="ts">
const msg = "hi"
</script>
<template>
  <div>{{ msg }}</div>
</template>
<style scoped>
div { color: red; }
</style>
`

func TestParseSFCSplitsBlocks(t *testing.T) {
	d := ParseSFC(sampleSFC)

	require.NotNil(t, d.ScriptSetup)
	require.Nil(t, d.Script)
	require.Contains(t, d.ScriptSetup.Content, `const msg = "hi"`)
	require.Equal(t, LangTS, d.ScriptSetup.Lang)

	require.NotNil(t, d.Template)
	require.Contains(t, d.Template.Content, "{{ msg }}")

	require.Len(t, d.Styles, 1)
	require.Contains(t, d.Styles[0].Attrs, "scoped")
}

func TestParseSFCOffsetsRoundTrip(t *testing.T) {
	d := ParseSFC(sampleSFC)
	got := sampleSFC[d.ScriptSetup.Start:d.ScriptSetup.End]
	require.Equal(t, d.ScriptSetup.Content, got)
}

func TestScriptTextPreservesOffsets(t *testing.T) {
	d := ParseSFC(sampleSFC)
	text, base := d.ScriptText()
	require.Equal(t, d.ScriptSetup.Start, base)
	require.Equal(t, d.ScriptSetup.Content, text)
}

func TestDetectLang(t *testing.T) {
	require.Equal(t, LangVue, DetectLang("Foo.vue"))
	require.Equal(t, LangTS, DetectLang("foo.ts"))
	require.Equal(t, LangTSX, DetectLang("foo.tsx"))
	require.Equal(t, LangJS, DetectLang("foo.js"))
}
