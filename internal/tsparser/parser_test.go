package tsparser

import (
	"testing"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/stretchr/testify/require"
)

func TestParseTypeExpressionKeyword(t *testing.T) {
	ty, err := ParseTypeExpression("string", "x.ts")
	require.NoError(t, err)
	kw, ok := ty.(*ast.KeywordType)
	require.True(t, ok, "got %T", ty)
	require.Equal(t, "string", kw.Name)
}

func TestParseTypeExpressionUnion(t *testing.T) {
	ty, err := ParseTypeExpression(`"a" | "b" | number`, "x.ts")
	require.NoError(t, err)
	u, ok := ty.(*ast.UnionType)
	require.True(t, ok, "got %T", ty)
	require.Len(t, u.Types, 3)
	lit, ok := u.Types[0].(*ast.LiteralType)
	require.True(t, ok)
	require.Equal(t, ast.LiteralString, lit.LitKind)
}

func TestParseTypeExpressionIntersectionBindsTighterThanUnion(t *testing.T) {
	ty, err := ParseTypeExpression("A & B | C", "x.ts")
	require.NoError(t, err)
	u, ok := ty.(*ast.UnionType)
	require.True(t, ok, "got %T", ty)
	require.Len(t, u.Types, 2)
	_, ok = u.Types[0].(*ast.IntersectionType)
	require.True(t, ok, "first union member should be the intersection, got %T", u.Types[0])
}

func TestParseTypeExpressionGenericReference(t *testing.T) {
	ty, err := ParseTypeExpression("Pick<T, 'a' | 'b'>", "x.ts")
	require.NoError(t, err)
	ref, ok := ty.(*ast.TypeReference)
	require.True(t, ok, "got %T", ty)
	require.Equal(t, "Pick", ref.Name)
	require.Len(t, ref.TypeArgs, 2)
}

func TestParseTypeExpressionArrayAndIndexedAccess(t *testing.T) {
	ty, err := ParseTypeExpression("T[K][]", "x.ts")
	require.NoError(t, err)
	arr, ok := ty.(*ast.ArrayType)
	require.True(t, ok, "got %T", ty)
	_, ok = arr.Element.(*ast.IndexedAccessType)
	require.True(t, ok, "got %T", arr.Element)
}

func TestParseTypeExpressionFunctionType(t *testing.T) {
	ty, err := ParseTypeExpression("(e: 'change', id: number) => void", "x.ts")
	require.NoError(t, err)
	fn, ok := ty.(*ast.FunctionType)
	require.True(t, ok, "got %T", ty)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "e", fn.Params[0].Name)
	kw, ok := fn.ReturnType.(*ast.KeywordType)
	require.True(t, ok)
	require.Equal(t, "void", kw.Name)
}

func TestParseTypeExpressionParenthesizedVsFunctionType(t *testing.T) {
	ty, err := ParseTypeExpression("(string)", "x.ts")
	require.NoError(t, err)
	paren, ok := ty.(*ast.ParenthesizedType)
	require.True(t, ok, "got %T", ty)
	_, ok = paren.Inner.(*ast.KeywordType)
	require.True(t, ok)
}

func TestParseTypeExpressionMappedType(t *testing.T) {
	ty, err := ParseTypeExpression("{ readonly [K in Keys]?: T[K] }", "x.ts")
	require.NoError(t, err)
	m, ok := ty.(*ast.MappedType)
	require.True(t, ok, "got %T", ty)
	require.Equal(t, "K", m.TypeParam)
	require.True(t, m.Readonly)
	require.True(t, m.Optional)
	ref, ok := m.Constraint.(*ast.TypeReference)
	require.True(t, ok)
	require.Equal(t, "Keys", ref.Name)
}

func TestParseTypeExpressionTypeLiteral(t *testing.T) {
	ty, err := ParseTypeExpression(`{ foo: string; bar?: number; baz(): void }`, "x.ts")
	require.NoError(t, err)
	lit, ok := ty.(*ast.TypeLiteral)
	require.True(t, ok, "got %T", ty)
	require.Len(t, lit.Members, 3)
	require.False(t, lit.Members[1].Optional == false && lit.Members[1].Key.(*ast.Identifier).Name != "bar")
	require.True(t, lit.Members[1].Optional)
	require.NotNil(t, lit.Members[2].Call)
}

func TestParseTypeExpressionKeyofTypeof(t *testing.T) {
	ty, err := ParseTypeExpression("keyof typeof foo", "x.ts")
	require.NoError(t, err)
	k, ok := ty.(*ast.KeyofType)
	require.True(t, ok, "got %T", ty)
	q, ok := k.Operand.(*ast.TypeQuery)
	require.True(t, ok, "got %T", k.Operand)
	require.Equal(t, "foo", q.ExprName)
}

func TestParseTypeExpressionTemplateLiteralType(t *testing.T) {
	ty, err := ParseTypeExpression("`on${Capitalize<E>}`", "x.ts")
	require.NoError(t, err)
	tl, ok := ty.(*ast.TemplateLiteralType)
	require.True(t, ok, "got %T", ty)
	require.Len(t, tl.Spans, 2)
	require.Equal(t, "on", tl.Spans[0].Quasi)
	require.NotNil(t, tl.Spans[0].Expr)
	ref, ok := tl.Spans[0].Expr.(*ast.TypeReference)
	require.True(t, ok)
	require.Equal(t, "Capitalize", ref.Name)
}

func TestParseTypeExpressionImportType(t *testing.T) {
	ty, err := ParseTypeExpression(`import("./foo").Bar<Baz>`, "x.ts")
	require.NoError(t, err)
	imp, ok := ty.(*ast.ImportType)
	require.True(t, ok, "got %T", ty)
	require.Equal(t, "./foo", imp.Source)
	require.Equal(t, "Bar", imp.Qualifier)
	require.Len(t, imp.TypeArgs, 1)
}

func TestParseTypeExpressionTupleType(t *testing.T) {
	ty, err := ParseTypeExpression("[string, number]", "x.ts")
	require.NoError(t, err)
	tup, ok := ty.(*ast.TupleType)
	require.True(t, ok, "got %T", ty)
	require.Len(t, tup.Elements, 2)
}

func TestParseProgramImportsAndInterface(t *testing.T) {
	src := `
import { Foo, Bar as Baz } from './other'
import Default from './d'

export interface Props {
  msg: string
  count?: number
}
`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 3)

	imp1, ok := nodes[0].(*ast.ImportDecl)
	require.True(t, ok, "got %T", nodes[0])
	require.Equal(t, "./other", imp1.Source)
	require.Len(t, imp1.Specifiers, 2)
	require.Equal(t, "Baz", imp1.Specifiers[1].Local)
	require.Equal(t, "Bar", imp1.Specifiers[1].Imported)

	imp2, ok := nodes[1].(*ast.ImportDecl)
	require.True(t, ok, "got %T", nodes[1])
	require.Equal(t, "Default", imp2.DefaultName)

	exp, ok := nodes[2].(*ast.ExportDecl)
	require.True(t, ok, "got %T", nodes[2])
	iface, ok := exp.Decl.(*ast.InterfaceDecl)
	require.True(t, ok, "got %T", exp.Decl)
	require.Equal(t, "Props", iface.Name)
	require.Len(t, iface.Body.Members, 2)
}

func TestParseProgramInterfaceExtendsWithIgnoreComment(t *testing.T) {
	src := `interface Props extends @vue-ignore Base, Other {
  msg: string
}`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	iface := nodes[0].(*ast.InterfaceDecl)
	require.Len(t, iface.Extends, 2)
	require.True(t, iface.Extends[0].Ignore)
	require.False(t, iface.Extends[1].Ignore)
}

func TestParseProgramTypeAliasAndEnum(t *testing.T) {
	src := `
type ID = string | number
enum Color { Red, Green, Blue }
`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	alias := nodes[0].(*ast.TypeAliasDecl)
	require.Equal(t, "ID", alias.Name)
	_, ok := alias.Type.(*ast.UnionType)
	require.True(t, ok)

	enum := nodes[1].(*ast.EnumDecl)
	require.Equal(t, []string{"Red", "Green", "Blue"}, enum.Members)
}

func TestParseProgramVarDeclAndFunctionDecl(t *testing.T) {
	src := `
export const count: number = 0
declare function emit(e: string, ...args: any[]): void
`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	exp := nodes[0].(*ast.ExportDecl)
	v := exp.Decl.(*ast.VarDecl)
	require.Equal(t, "const", v.Keyword)
	require.True(t, v.Exported)
	id, ok := v.Name.(*ast.Identifier)
	require.True(t, ok)
	require.Equal(t, "count", id.Name)

	fn := nodes[1].(*ast.FunctionDecl)
	require.Equal(t, "emit", fn.Name)
	require.True(t, fn.Ambient)
	require.Len(t, fn.Params, 2)
}

func TestParseProgramClassDeclSkipsBody(t *testing.T) {
	src := `class Foo extends Bar {
  x: number = 1
  method() { return this.x; }
}`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	cls := nodes[0].(*ast.ClassDecl)
	require.Equal(t, "Foo", cls.Name)
	ref, ok := cls.Extends.(*ast.TypeReference)
	require.True(t, ok)
	require.Equal(t, "Bar", ref.Name)
}

func TestParseProgramModuleDecl(t *testing.T) {
	src := `declare module "my-lib" {
  export const version: string
}`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	mod := nodes[0].(*ast.ModuleDecl)
	require.Equal(t, "my-lib", mod.Name)
	require.Len(t, mod.Body, 1)
}

func TestParseTypeExpressionEmptyInputReturnsParseError(t *testing.T) {
	_, err := ParseTypeExpression("", "x.ts")
	require.Error(t, err)
}

func TestSpanOffsetsCoverFullDeclaration(t *testing.T) {
	src := `type X = string`
	nodes, err := ParseProgram(src, "x.ts")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	span := nodes[0].Span()
	require.Equal(t, 0, span.Start.Offset)
	require.Equal(t, len(src), span.End.Offset)
	require.Equal(t, "x.ts", span.File)
}
