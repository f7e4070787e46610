package scope

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kinetic-sfc/compiler/internal/ast"
)

type memFS struct {
	files map[string]string
}

func (m memFS) FileExists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m memFS) ReadFile(path string) (string, error) {
	if text, ok := m.files[path]; ok {
		return text, nil
	}
	return "", os.ErrNotExist
}

func TestScopeClassifiesLocalTypesAndDeclares(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/foo.ts": `
			interface Props { msg: string }
			type Alias = Props
			declare const globalThing: number
			export interface Exported { id: number }
		`,
	}}
	g := NewGraph(fs, nil)

	s, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	require.Contains(t, s.Types, "Props")
	require.Contains(t, s.Types, "Alias")
	require.Contains(t, s.Declares, "globalThing")
	require.Contains(t, s.Types, "Exported")
	require.Contains(t, s.ExportedTypes, "Exported")
	require.NotContains(t, s.ExportedTypes, "Props")
}

func TestScopeRecordsImports(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/foo.ts": `import { Bar as Baz } from './bar'`,
	}}
	g := NewGraph(fs, nil)
	s, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	imp, ok := s.Imports["Baz"]
	require.True(t, ok)
	require.Equal(t, "./bar", imp.Source)
	require.Equal(t, "Bar", imp.Imported)
}

func TestResolveFollowsRelativeImport(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/foo.ts":    `import { Bar } from './bar'`,
		"/src/bar.ts":    `export interface Bar { n: number }`,
	}}
	g := NewGraph(fs, nil)
	s, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)

	node, owner, ok := g.Resolve("Bar", s, false)
	require.True(t, ok)
	require.NotNil(t, node)
	require.Equal(t, "/src/bar.ts", owner.Filename)
}

func TestScopeCacheIsMemoized(t *testing.T) {
	fs := memFS{files: map[string]string{"/src/foo.ts": `interface A {}`}}
	g := NewGraph(fs, nil)
	s1, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	s2, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	require.Same(t, s1, s2)
}

func TestInvalidateTypeCacheForcesRebuild(t *testing.T) {
	fs := memFS{files: map[string]string{"/src/foo.ts": `interface A {}`}}
	g := NewGraph(fs, nil)
	s1, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)

	g.InvalidateTypeCache("/src/foo.ts")
	s2, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	require.NotSame(t, s1, s2)
}

func TestInterfaceDeclarationMergeConcatenatesMembers(t *testing.T) {
	fs := memFS{files: map[string]string{
		"/src/foo.ts": `
			interface Props { a: string }
			interface Props { b: number }
		`,
	}}
	g := NewGraph(fs, nil)
	s, err := g.Scope("/src/foo.ts")
	require.NoError(t, err)
	iface := s.Types["Props"].(*ast.InterfaceDecl)
	require.Len(t, iface.Body.Members, 2)
}
