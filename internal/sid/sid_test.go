package sid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewNodeIDIsStableAcrossCalls(t *testing.T) {
	a := NewNodeID("/src/Foo.vue", 10, 20, "InterfaceDecl", []int{0, 1})
	b := NewNodeID("/src/Foo.vue", 10, 20, "InterfaceDecl", []int{0, 1})
	require.Equal(t, a, b)
	require.Len(t, string(a), 16)
}

func TestNewNodeIDDiffersOnSpan(t *testing.T) {
	a := NewNodeID("/src/Foo.vue", 10, 20, "InterfaceDecl", nil)
	b := NewNodeID("/src/Foo.vue", 10, 21, "InterfaceDecl", nil)
	require.NotEqual(t, a, b)
}

func TestNewNodeIDDiffersOnKind(t *testing.T) {
	a := NewNodeID("/src/Foo.vue", 10, 20, "InterfaceDecl", nil)
	b := NewNodeID("/src/Foo.vue", 10, 20, "TypeAliasDecl", nil)
	require.NotEqual(t, a, b)
}

func TestNewNodeIDDiffersOnChildPath(t *testing.T) {
	a := NewNodeID("/src/Foo.vue", 10, 20, "Member", []int{0})
	b := NewNodeID("/src/Foo.vue", 10, 20, "Member", []int{1})
	require.NotEqual(t, a, b)
}

func TestNewNodeIDStableAcrossRelativeVsAbsolutePath(t *testing.T) {
	rel := NewNodeID("./Foo.vue", 0, 5, "TypeLiteral", nil)
	require.Len(t, string(rel), 16)
	abs, err := filepath.Abs("Foo.vue")
	require.NoError(t, err)
	require.Equal(t, rel, NewNodeID(abs, 0, 5, "TypeLiteral", nil))
}
