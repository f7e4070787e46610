package ast

// ImportSpecifier is one `{local}` or `{imported as local}` entry, or the
// default/namespace form, in an import declaration.
type ImportSpecifier struct {
	Local    string
	Imported string // "" for default import, "*" for namespace import
}

// ImportDecl models `import {a, b as c} from './x'` (spec §4.1, "For each
// top-level import record local -> {source, imported}").
type ImportDecl struct {
	Base
	Source      string
	Specifiers  []ImportSpecifier
	DefaultName string // "" if no default import
}

func (*ImportDecl) Kind() NodeKind { return KindImportDecl }

// ExportSpecifier is one `{local as exported}` entry in a re-export.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportDecl models `export <decl>`, `export {a as b} from './x'`, and
// `export default <decl>`.
type ExportDecl struct {
	Base
	Decl        Node // non-nil for `export <decl>` / `export default <decl>`
	IsDefault   bool
	Specifiers  []ExportSpecifier // non-nil for `export {...} from '...'`
	Source      string            // "" unless Specifiers came with a `from` clause
}

func (*ExportDecl) Kind() NodeKind { return KindExportDecl }

// ExportStarDecl models `export * from './x'`.
type ExportStarDecl struct {
	Base
	Source string
}

func (*ExportStarDecl) Kind() NodeKind { return KindExportStarDecl }

// VarDecl models `const|let|var name: Type = init` or, when ambient,
// `declare const name: Type` (no Init).
type VarDecl struct {
	Base
	Keyword  string // "const", "let", "var"
	Name     Node   // Identifier, ObjectPattern, or ArrayPattern
	Type     TypeNode
	Init     Node
	Ambient  bool
	Exported bool
}

func (*VarDecl) Kind() NodeKind { return KindVarDecl }

// FunctionDecl models a function declaration, ambient or concrete.
type FunctionDecl struct {
	Base
	Name     string
	Params   []Param
	Return   TypeNode
	Body     *BlockStatement // nil for an ambient declaration
	Ambient  bool
	Exported bool
}

func (*FunctionDecl) Kind() NodeKind { return KindFunctionDecl }

// AmbientDecl models any other `declare ...` statement whose shape this
// compiler only needs to record by name, not interpret further.
type AmbientDecl struct {
	Base
	Name string
	Type TypeNode
}

func (*AmbientDecl) Kind() NodeKind { return KindAmbientDecl }

type Identifier struct {
	Base
	Name string
}

func (*Identifier) Kind() NodeKind { return KindIdentifier }

// PatternProperty is one `{key: local = default}` or shorthand `{key}`
// entry in an ObjectPattern (spec §4.4 destructured-props rewriting).
type PatternProperty struct {
	Key       string
	Local     string // equals Key for shorthand
	Default   Node   // nil if no default
	Shorthand bool
	Computed  bool
}

type ObjectPattern struct {
	Base
	Properties []PatternProperty
	Rest       string // "" if no rest element
}

func (*ObjectPattern) Kind() NodeKind { return KindObjectPattern }

type ArrayPattern struct {
	Base
	Elements []Node // Identifier, ObjectPattern, ArrayPattern, or nil hole
	Rest     string
}

func (*ArrayPattern) Kind() NodeKind { return KindArrayPattern }

type RestElement struct {
	Base
	Argument Node
}

func (*RestElement) Kind() NodeKind { return KindRestElement }

// CallExpression models `callee(args...)` with an optional single type
// argument, the shape every macro call (`defineProps<T>()`) takes.
type CallExpression struct {
	Base
	Callee   Node
	TypeArgs []TypeNode
	Args     []Node
}

func (*CallExpression) Kind() NodeKind { return KindCallExpression }

type MemberExpression struct {
	Base
	Object   Node
	Property string
	Computed bool
}

func (*MemberExpression) Kind() NodeKind { return KindMemberExpression }

type ArrowFunction struct {
	Base
	Params []Node // Identifier or pattern nodes
	Body   Node   // BlockStatement or a single expression
}

func (*ArrowFunction) Kind() NodeKind { return KindArrowFunction }

type BlockStatement struct {
	Base
	Statements []Node
}

func (*BlockStatement) Kind() NodeKind { return KindBlockStatement }

type StringLiteral struct {
	Base
	Value string
}

func (*StringLiteral) Kind() NodeKind { return KindStringLiteral }

type NumericLiteral struct {
	Base
	Value float64
	Text  string
}

func (*NumericLiteral) Kind() NodeKind { return KindNumericLiteral }

type BooleanLiteral struct {
	Base
	Value bool
}

func (*BooleanLiteral) Kind() NodeKind { return KindBooleanLiteral }

// ObjectProperty is one `key: value` or shorthand `key` entry in an
// ObjectExpression — distinct from PatternProperty, which appears only in
// binding positions.
type ObjectProperty struct {
	Base
	Key       string
	Computed  bool
	Value     Node
	Shorthand bool
	Spread    bool // `...expr` entry; Key/Value unused, Spread target in Value
}

func (*ObjectProperty) Kind() NodeKind { return KindProperty }

type ObjectExpression struct {
	Base
	Properties []ObjectProperty
}

func (*ObjectExpression) Kind() NodeKind { return KindObjectExpression }

// ArrayExpression models `[a, b, ...c]`, the array-literal form
// defineProps/defineEmits accept as a runtime declaration.
type ArrayExpression struct {
	Base
	Elements []Node // nil entries are elided holes
}

func (*ArrayExpression) Kind() NodeKind { return KindArrayExpression }

// RawExpression is a leaf placeholder carrying verbatim source text for
// an expression the macro scanner does not need structural access to
// (spec §4.3: the source rewrite itself operates on a rope buffer over
// raw text, not a full expression AST). Mirrors internal/ir.RawExpr's
// role on the template side.
type RawExpression struct {
	Base
	Text string
}

func (*RawExpression) Kind() NodeKind { return KindRawExpression }
