// Package ast defines the node set shared by internal/tsparser,
// internal/scope, internal/typeresolve, internal/script, and
// internal/template. Nodes are arena-free (ordinary pointers), but every
// node that needs a stable identity across compiler runs (for memoization
// or diagnostics) carries a Span from which internal/sid derives a NodeID,
// per the "NodeId + side-table" design recommended for systems languages.
package ast

import "fmt"

// Pos is a byte offset into a SourceFile's normalized text, plus the
// human-facing line/column pair computed from it.
type Pos struct {
	Offset int
	Line   int
	Column int
}

// Span is a half-open [Start, End) byte range. File is the absolute path
// of the SourceFile the offsets are relative to — for text extracted from
// an SFC block (script/scriptSetup), offsets have already been re-based to
// the whole SFC file, per spec's "offsets map back to the original source"
// requirement.
type Span struct {
	Start Pos
	End   Pos
	File  string
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Start.Line, s.Start.Column)
}

// NodeKind tags every concrete node type with a single discriminant,
// replacing a switch on a ".type" string with an exhaustive Go switch.
type NodeKind int

const (
	KindInvalid NodeKind = iota

	// Type-expression nodes (internal/tsparser, internal/typeresolve).
	KindTypeLiteral
	KindInterfaceDecl
	KindTypeAliasDecl
	KindEnumDecl
	KindClassDecl
	KindModuleDecl
	KindUnionType
	KindIntersectionType
	KindMappedType
	KindIndexedAccessType
	KindFunctionType
	KindTypeReference
	KindImportType
	KindTypeQuery
	KindParenthesizedType
	KindLiteralType
	KindTemplateLiteralType
	KindKeyofType
	KindArrayType
	KindTupleType
	KindKeyword // string/number/boolean/any/unknown/void/null/undefined

	// Script-level nodes (internal/scope, internal/script, internal/destructure).
	KindImportDecl
	KindExportDecl
	KindExportStarDecl
	KindVarDecl
	KindFunctionDecl
	KindAmbientDecl
	KindIdentifier
	KindObjectPattern
	KindArrayPattern
	KindRestElement
	KindCallExpression
	KindMemberExpression
	KindArrowFunction
	KindBlockStatement
	KindStringLiteral
	KindNumericLiteral
	KindBooleanLiteral
	KindObjectExpression
	KindArrayExpression
	KindProperty
	KindRawExpression

	// Template nodes (internal/template).
	KindElement
	KindTemplateElement
	KindTextNode
	KindInterpolation
	KindForDirective
	KindSlotDirective
	KindIfDirective
	KindMemoDirective
)

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

var nodeKindNames = map[NodeKind]string{
	KindInvalid:             "Invalid",
	KindTypeLiteral:         "TypeLiteral",
	KindInterfaceDecl:       "InterfaceDecl",
	KindTypeAliasDecl:       "TypeAliasDecl",
	KindEnumDecl:            "EnumDecl",
	KindClassDecl:           "ClassDecl",
	KindModuleDecl:          "ModuleDecl",
	KindUnionType:           "UnionType",
	KindIntersectionType:    "IntersectionType",
	KindMappedType:          "MappedType",
	KindIndexedAccessType:   "IndexedAccessType",
	KindFunctionType:        "FunctionType",
	KindTypeReference:       "TypeReference",
	KindImportType:          "ImportType",
	KindTypeQuery:           "TypeQuery",
	KindParenthesizedType:   "ParenthesizedType",
	KindLiteralType:         "LiteralType",
	KindTemplateLiteralType: "TemplateLiteralType",
	KindKeyofType:           "KeyofType",
	KindArrayType:           "ArrayType",
	KindTupleType:           "TupleType",
	KindKeyword:             "Keyword",
	KindImportDecl:          "ImportDecl",
	KindExportDecl:          "ExportDecl",
	KindExportStarDecl:      "ExportStarDecl",
	KindVarDecl:             "VarDecl",
	KindFunctionDecl:        "FunctionDecl",
	KindAmbientDecl:         "AmbientDecl",
	KindIdentifier:          "Identifier",
	KindObjectPattern:       "ObjectPattern",
	KindArrayPattern:        "ArrayPattern",
	KindRestElement:         "RestElement",
	KindCallExpression:      "CallExpression",
	KindMemberExpression:    "MemberExpression",
	KindArrowFunction:       "ArrowFunction",
	KindBlockStatement:      "BlockStatement",
	KindStringLiteral:       "StringLiteral",
	KindNumericLiteral:      "NumericLiteral",
	KindBooleanLiteral:      "BooleanLiteral",
	KindObjectExpression:    "ObjectExpression",
	KindArrayExpression:     "ArrayExpression",
	KindProperty:            "Property",
	KindRawExpression:       "RawExpression",
	KindElement:             "Element",
	KindTemplateElement:     "TemplateElement",
	KindTextNode:            "TextNode",
	KindInterpolation:       "Interpolation",
	KindForDirective:        "ForDirective",
	KindSlotDirective:       "SlotDirective",
	KindIfDirective:         "IfDirective",
	KindMemoDirective:       "MemoDirective",
}

// Node is implemented by every AST node. Owner-scope back-references and
// memoized resolution results are attached out-of-band via NodeID-keyed
// side tables (internal/sid, internal/scope, internal/typeresolve) rather
// than as struct fields on every node, so a node type gains a new
// consumer without a field migration.
type Node interface {
	Kind() NodeKind
	Span() Span
}

// Base is embedded by every concrete node to supply Span() without
// repeating the field and accessor on each type.
type Base struct {
	span Span
}

func (b Base) Span() Span { return b.span }

// SetSpan lets a parser fill in a node's span after construction, when
// the end offset (the closing brace, the last token of a declaration)
// isn't known until parsing completes.
func (b *Base) SetSpan(s Span) { b.span = s }

// NewBase is used when a node's full span is known at construction time.
func NewBase(span Span) Base { return Base{span: span} }

// Spannable is satisfied by every pointer-to-concrete-node type, since
// each embeds Base by value and so promotes SetSpan with a pointer
// receiver. internal/tsparser's generic withBase helper uses this to set
// a span on a node after construction without a per-type switch.
type Spannable interface {
	Node
	SetSpan(Span)
}
