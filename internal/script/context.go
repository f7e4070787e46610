package script

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/rope"
	"github.com/kinetic-sfc/compiler/internal/typeresolve"
)

// BindingKind classifies how a script-setup identifier must be resolved
// when the template transform (C5) compiles an expression referencing it
// (spec §3 ScriptContext.bindingMetadata).
type BindingKind int

const (
	BindingProps BindingKind = iota + 1
	BindingData
	BindingSetup
	BindingSetupMaybeRef
	BindingSetupReactiveConst
	BindingPropsAliased
	BindingOptions
)

func (k BindingKind) String() string {
	switch k {
	case BindingProps:
		return "props"
	case BindingData:
		return "data"
	case BindingSetup:
		return "setup"
	case BindingSetupMaybeRef:
		return "setup-maybe-ref"
	case BindingSetupReactiveConst:
		return "setup-reactive-const"
	case BindingPropsAliased:
		return "props-aliased"
	case BindingOptions:
		return "options"
	default:
		return "unknown"
	}
}

// DestructuredBinding is one entry of propsDestructuredBindings (spec §3):
// the local name a destructured public prop key was bound to, plus its
// default value expression if the pattern supplied one.
type DestructuredBinding struct {
	Local   string
	Default ast.Node
}

// ModelDecl records one defineModel() call (spec §4.3, gated behind
// Options.AllowDefineModel).
type ModelDecl struct {
	Name       string       // event/prop name; defaults to "modelValue"
	Type       ast.TypeNode // non-nil for defineModel<T>(...)
	Options    ast.Node     // the options-object argument, if any
	Identifier string       // local binding name; "" if the result is discarded
}

// RuntimeProp is one entry of the synthesized runtime-props object built
// when defineProps used a type parameter rather than a runtime
// object/array literal (spec §4.3 "Runtime-props codegen").
type RuntimeProp struct {
	Key       string
	Types     []typeresolve.RuntimeTag
	Required  bool
	Default   ast.Node
	SkipCheck bool
}

// ScriptContext accumulates one file's script-setup macro analysis (spec
// §3). It is mutable per compile and carries no state across files.
type ScriptContext struct {
	File   string
	Source string
	Rope   *rope.Rope

	BindingMetadata map[string]BindingKind
	HelperImports   map[string]bool

	HasDefinePropsCall        bool
	PropsRuntimeDecl          ast.Node
	PropsTypeDecl             ast.TypeNode
	PropsIdentifier           string
	PropsDestructureDecl      *ast.ObjectPattern
	PropsDestructuredBindings map[string]DestructuredBinding
	PropsDestructureRestID    string
	PropsRuntimeDefaults      ast.Node // withDefaults' second argument
	RuntimeProps              []RuntimeProp

	HasDefineEmitsCall bool
	EmitsRuntimeDecl   ast.Node
	EmitsTypeDecl      ast.TypeNode
	EmitsIdentifier    string
	EmitNames          []string

	HasDefineModelCall bool
	ModelDecls         map[string]*ModelDecl

	HasDefineExposeCall bool

	HasDefineOptionsCall bool
	OptionsDecl          ast.Node

	HasDefineSlotsCall bool
	SlotsTypeDecl      ast.TypeNode

	// PropsDestructureStmtStart/End is the byte range (including a
	// trailing semicolon, if present) of the whole `const {...} =
	// defineProps(...)` statement. C4 (internal/destructure) removes it
	// once every reference has been rewritten to a __props.<key> access,
	// since the local variable it introduced no longer exists. -1 when
	// defineProps's result was not destructured.
	PropsDestructureStmtStart int
	PropsDestructureStmtEnd   int

	// Deps lists files touched while resolving macro types, for HMR
	// invalidation (spec §3 "deps (files touched for HMR invalidation)").
	Deps []string
}

// NewScriptContext prepares a ScriptContext over source, wiring a fresh
// rope buffer for in-place rewriting (spec §3 "Rope buffer (s)").
func NewScriptContext(file, source string) *ScriptContext {
	return &ScriptContext{
		File:                      file,
		Source:                    source,
		Rope:                      rope.New(source, file),
		BindingMetadata:           make(map[string]BindingKind),
		HelperImports:             make(map[string]bool),
		PropsDestructuredBindings: make(map[string]DestructuredBinding),
		ModelDecls:                make(map[string]*ModelDecl),
		PropsDestructureStmtStart: -1,
		PropsDestructureStmtEnd:   -1,
	}
}
