package ast

// TypeNode is the subset of Node produced by internal/tsparser when
// parsing a type-expression position. internal/typeresolve switches
// exhaustively on Kind() rather than a string tag, per the "dynamic
// dispatch over type-node kinds" design note.
type TypeNode interface {
	Node
	typeNode()
}

// Member is a single entry inside a TypeLiteral or interface body: either
// a property signature or a call signature (spec §3 ResolvedElements
// distinguishes these into `props` vs `calls`).
type Member struct {
	// Key is nil for a call signature.
	Key      Node // Identifier, StringLiteral, or a computed expression
	Optional bool
	Type     TypeNode
	// Call is non-nil when this member is a call signature; Key/Type
	// are unused in that case and Call itself is the FunctionType.
	Call *FunctionType
}

type TypeLiteral struct {
	Base
	Members []Member
}

func (*TypeLiteral) Kind() NodeKind { return KindTypeLiteral }
func (*TypeLiteral) typeNode()      {}

type InterfaceDecl struct {
	Base
	Name    string
	Extends []ExtendsClause
	Body    *TypeLiteral
}

func (*InterfaceDecl) Kind() NodeKind { return KindInterfaceDecl }
func (*InterfaceDecl) typeNode()      {}

// ExtendsClause pairs an extended type with whether it was preceded by a
// "@vue-ignore" comment (spec §4.2, §9 GLOSSARY), which instructs the
// resolver to skip the Base without error.
type ExtendsClause struct {
	Type   TypeNode
	Ignore bool
}

type TypeAliasDecl struct {
	Base
	Name       string
	TypeParams []string
	Type       TypeNode
}

func (*TypeAliasDecl) Kind() NodeKind { return KindTypeAliasDecl }
func (*TypeAliasDecl) typeNode()      {}

type EnumDecl struct {
	Base
	Name    string
	Members []string
}

func (*EnumDecl) Kind() NodeKind { return KindEnumDecl }
func (*EnumDecl) typeNode()      {}

type ClassDecl struct {
	Base
	Name    string
	Extends TypeNode
	Body    *TypeLiteral
}

func (*ClassDecl) Kind() NodeKind { return KindClassDecl }
func (*ClassDecl) typeNode()      {}

// ModuleDecl is a `declare module "x" { ... }` or `namespace X { ... }`
// block; its body's scope prototype-inherits from the parent (spec §3,
// "a module declaration carries a lazily built _resolvedChildScope").
type ModuleDecl struct {
	Base
	Name string
	Body []Node
}

func (*ModuleDecl) Kind() NodeKind { return KindModuleDecl }
func (*ModuleDecl) typeNode()      {}

type UnionType struct {
	Base
	Types []TypeNode
}

func (*UnionType) Kind() NodeKind { return KindUnionType }
func (*UnionType) typeNode()      {}

type IntersectionType struct {
	Base
	Types []TypeNode
}

func (*IntersectionType) Kind() NodeKind { return KindIntersectionType }
func (*IntersectionType) typeNode()      {}

// MappedType models `{ [K in Constraint]: ValueType }`.
type MappedType struct {
	Base
	TypeParam  string
	Constraint TypeNode
	ValueType  TypeNode
	Optional   bool
	Readonly   bool
}

func (*MappedType) Kind() NodeKind { return KindMappedType }
func (*MappedType) typeNode()      {}

// IndexedAccessType models `T[K]`.
type IndexedAccessType struct {
	Base
	ObjectType TypeNode
	IndexType  TypeNode
}

func (*IndexedAccessType) Kind() NodeKind { return KindIndexedAccessType }
func (*IndexedAccessType) typeNode()      {}

type Param struct {
	Name     string
	Type     TypeNode
	Optional bool
}

// FunctionType models a function-type or call-signature, e.g.
// `(e: 'change', id: number) => void`.
type FunctionType struct {
	Base
	Params     []Param
	ReturnType TypeNode
}

func (*FunctionType) Kind() NodeKind { return KindFunctionType }
func (*FunctionType) typeNode()      {}

// TypeReference models `Foo`, `Foo<Bar>`, `Pick<T, "a" | "b">`.
type TypeReference struct {
	Base
	Name     string // dotted, e.g. "Foo.Bar"
	TypeArgs []TypeNode
}

func (*TypeReference) Kind() NodeKind { return KindTypeReference }
func (*TypeReference) typeNode()      {}

// ImportType models `import("./foo").Bar`.
type ImportType struct {
	Base
	Source    string
	Qualifier string
	TypeArgs  []TypeNode
}

func (*ImportType) Kind() NodeKind { return KindImportType }
func (*ImportType) typeNode()      {}

// TypeQuery models `typeof x`.
type TypeQuery struct {
	Base
	ExprName string
}

func (*TypeQuery) Kind() NodeKind { return KindTypeQuery }
func (*TypeQuery) typeNode()      {}

type ParenthesizedType struct {
	Base
	Inner TypeNode
}

func (*ParenthesizedType) Kind() NodeKind { return KindParenthesizedType }
func (*ParenthesizedType) typeNode()      {}

// LiteralKind distinguishes the concrete primitive behind a LiteralType.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
)

type LiteralType struct {
	Base
	LitKind LiteralKind
	Text    string // source text, e.g. `"change"`, `42`, `true`
}

func (*LiteralType) Kind() NodeKind { return KindLiteralType }
func (*LiteralType) typeNode()      {}

// TemplateLiteralTypeSpan is one quasi/expression pair: Quasi is the
// literal text preceding an interpolated Expr (nil Expr on the final
// span).
type TemplateLiteralTypeSpan struct {
	Quasi string
	Expr  TypeNode
}

type TemplateLiteralType struct {
	Base
	Spans []TemplateLiteralTypeSpan
}

func (*TemplateLiteralType) Kind() NodeKind { return KindTemplateLiteralType }
func (*TemplateLiteralType) typeNode()      {}

type KeyofType struct {
	Base
	Operand TypeNode
}

func (*KeyofType) Kind() NodeKind { return KindKeyofType }
func (*KeyofType) typeNode()      {}

type ArrayType struct {
	Base
	Element TypeNode
}

func (*ArrayType) Kind() NodeKind { return KindArrayType }
func (*ArrayType) typeNode()      {}

type TupleType struct {
	Base
	Elements []TypeNode
}

func (*TupleType) Kind() NodeKind { return KindTupleType }
func (*TupleType) typeNode()      {}

// KeywordType models a predefined type keyword: string, number, boolean,
// any, unknown, void, null, undefined, never, object, bigint, symbol.
type KeywordType struct {
	Base
	Name string
}

func (*KeywordType) Kind() NodeKind { return KindKeyword }
func (*KeywordType) typeNode()      {}
