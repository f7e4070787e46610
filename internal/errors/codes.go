// Package errors provides the compiler's structured diagnostic type
// (Report/ReportError, report.go) and the error-code taxonomy below. Every
// code is namespaced by the phase that raises it, one three-letter prefix
// per phase, so a caller can route or filter diagnostics by prefix alone.
package errors

// Error code constants organized by phase.
const (
	// ============================================================================
	// Parser errors (PAR###) — internal/tsparser
	// ============================================================================

	// PAR001 indicates an unexpected token while parsing a type expression.
	PAR001 = "PAR001"

	// PAR002 indicates a missing closing delimiter (paren, bracket, brace).
	PAR002 = "PAR002"

	// PAR003 indicates an unterminated string or template literal.
	PAR003 = "PAR003"

	// PAR004 indicates an invalid v-for expression (spec §4.5.1 grammar).
	PAR004 = "PAR004"

	// PAR005 indicates an invalid import/export statement.
	PAR005 = "PAR005"

	// PAR006 indicates a malformed mapped-type clause.
	PAR006 = "PAR006"

	// PAR007 indicates a malformed object/array destructuring pattern.
	PAR007 = "PAR007"

	// ============================================================================
	// Scope graph errors (SCP###) — internal/scope
	// ============================================================================

	// SCP001 indicates an import could not be resolved to a file.
	SCP001 = "SCP001"

	// SCP002 indicates a circular import was detected while building a scope.
	SCP002 = "SCP002"

	// SCP003 indicates duplicate declaration merging failed (e.g. module +
	// non-module name collision that isn't a valid merge).
	SCP003 = "SCP003"

	// SCP004 indicates an import referenced a name the target scope does
	// not export.
	SCP004 = "SCP004"

	// SCP005 indicates a filesystem error while reading an import target.
	SCP005 = "SCP005"

	// SCP006 indicates an invalid tsconfig path-mapping entry.
	SCP006 = "SCP006"

	// ============================================================================
	// Type resolver errors (TYP###) — internal/typeresolve
	// ============================================================================

	// TYP001 indicates an unresolvable type reference while deriving
	// runtime props.
	TYP001 = "TYP001"

	// TYP002 indicates a computed, non-static property key in a type
	// literal (spec §4.2: "computed non-static keys are an error").
	TYP002 = "TYP002"

	// TYP003 indicates an unsupported builtin utility type.
	TYP003 = "TYP003"

	// TYP004 indicates a mapped-type constraint that did not evaluate to a
	// finite string set.
	TYP004 = "TYP004"

	// TYP005 indicates ExtractPropTypes reverse inference found no
	// recognizable shape and fell back to TSNullKeyword.
	TYP005 = "TYP005"

	// ============================================================================
	// Macro errors (MAC###) — internal/script
	// ============================================================================

	// MAC001 indicates a macro was called more than once in one file.
	MAC001 = "MAC001"

	// MAC002 indicates a macro mixed type-argument and runtime-argument
	// forms (spec §4.3: "never both").
	MAC002 = "MAC002"

	// MAC003 indicates withDefaults was used with non-type-based props.
	MAC003 = "MAC003"

	// MAC004 indicates defineOptions contained a reserved key
	// (props|emits|expose|slots).
	MAC004 = "MAC004"

	// MAC005 indicates an assignment to a destructured prop binding (spec
	// §4.4: "Assignment to a destructured prop -> compile error").
	MAC005 = "MAC005"

	// MAC006 indicates a destructured prop was passed directly to watch
	// or toRef, losing reactivity (spec §4.4 step 6).
	MAC006 = "MAC006"

	// MAC007 indicates defineOptions was given a type parameter, which is
	// rejected.
	MAC007 = "MAC007"

	// ============================================================================
	// Template transform errors (TPL###) — internal/template
	// ============================================================================

	// TPL001 indicates a malformed v-for expression.
	TPL001 = "TPL001"

	// TPL002 indicates a duplicate static slot name.
	TPL002 = "TPL002"

	// TPL003 indicates a v-else/v-else-if with no matching v-if.
	TPL003 = "TPL003"

	// TPL004 indicates a :key binding on a <template v-for> where the spec
	// requires the key to live on the iterated element instead.
	TPL004 = "TPL004"

	// TPL005 indicates both an explicit v-slot and a <template v-slot>
	// child were present on the same component.
	TPL005 = "TPL005"

	// ============================================================================
	// Scheduler errors (SCH###) — internal/scheduler
	// ============================================================================

	// SCH001 indicates a job's recursion-limit was exceeded during a flush
	// (non-fatal: further runs of that job are skipped for the flush).
	SCH001 = "SCH001"
)

// ErrorInfo provides structured information about an error code.
type ErrorInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// ErrorRegistry maps error codes to their information.
var ErrorRegistry = map[string]ErrorInfo{
	PAR001: {PAR001, "parse", "syntax", "Unexpected token"},
	PAR002: {PAR002, "parse", "syntax", "Missing closing delimiter"},
	PAR003: {PAR003, "parse", "syntax", "Unterminated string or template literal"},
	PAR004: {PAR004, "parse", "syntax", "Invalid v-for expression"},
	PAR005: {PAR005, "parse", "syntax", "Invalid import or export statement"},
	PAR006: {PAR006, "parse", "syntax", "Malformed mapped-type clause"},
	PAR007: {PAR007, "parse", "syntax", "Malformed destructuring pattern"},

	SCP001: {SCP001, "scope", "resolution", "Import not found"},
	SCP002: {SCP002, "scope", "dependency", "Circular import"},
	SCP003: {SCP003, "scope", "structure", "Invalid declaration merge"},
	SCP004: {SCP004, "scope", "resolution", "Import not exported"},
	SCP005: {SCP005, "scope", "filesystem", "Filesystem error resolving import"},
	SCP006: {SCP006, "scope", "config", "Invalid tsconfig path mapping"},

	TYP001: {TYP001, "typeresolve", "reference", "Unresolvable type reference"},
	TYP002: {TYP002, "typeresolve", "key", "Computed non-static property key"},
	TYP003: {TYP003, "typeresolve", "builtin", "Unsupported builtin utility type"},
	TYP004: {TYP004, "typeresolve", "mapped", "Mapped-type constraint not a finite string set"},
	TYP005: {TYP005, "typeresolve", "inference", "ExtractPropTypes reverse inference fell back"},

	MAC001: {MAC001, "macro", "duplicate", "Macro called more than once"},
	MAC002: {MAC002, "macro", "arity", "Mixed type and runtime arguments"},
	MAC003: {MAC003, "macro", "defaults", "withDefaults used with non-type props"},
	MAC004: {MAC004, "macro", "options", "defineOptions contained a reserved key"},
	MAC005: {MAC005, "macro", "destructure", "Assignment to destructured prop"},
	MAC006: {MAC006, "macro", "reactivity", "Destructured prop passed to watch/toRef"},
	MAC007: {MAC007, "macro", "options", "defineOptions given a type parameter"},

	TPL001: {TPL001, "template", "syntax", "Malformed v-for expression"},
	TPL002: {TPL002, "template", "slots", "Duplicate static slot name"},
	TPL003: {TPL003, "template", "directive", "v-else without matching v-if"},
	TPL004: {TPL004, "template", "directive", "Key on template v-for"},
	TPL005: {TPL005, "template", "slots", "Mixed v-slot and template v-slot children"},

	SCH001: {SCH001, "scheduler", "recursion", "Recursion limit exceeded"},
}

// GetErrorInfo returns information about an error code.
func GetErrorInfo(code string) (ErrorInfo, bool) {
	info, exists := ErrorRegistry[code]
	return info, exists
}

// IsParseError reports whether code was raised during parsing.
func IsParseError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "parse"
}

// IsScopeError reports whether code was raised while building the scope
// graph.
func IsScopeError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "scope"
}

// IsTypeResolveError reports whether code was raised while resolving type
// expressions.
func IsTypeResolveError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "typeresolve"
}

// IsMacroError reports whether code was raised by the script macro
// pipeline.
func IsMacroError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "macro"
}

// IsTemplateError reports whether code was raised by the template
// transform.
func IsTemplateError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "template"
}

// IsSchedulerError reports whether code was raised by the scheduler.
func IsSchedulerError(code string) bool {
	info, exists := GetErrorInfo(code)
	return exists && info.Phase == "scheduler"
}
