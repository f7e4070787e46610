package script

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// ParsePattern exposes parsePattern for C4 (internal/destructure), which
// needs to turn a function-parameter/catch-clause/for-of token span into
// the same Identifier/ObjectPattern/ArrayPattern shape a `const`
// declaration's left-hand side parses to, so both consumers share one
// pattern grammar instead of C4 re-implementing destructuring syntax.
func ParsePattern(tokens []lexer.Token, src string) (ast.Node, error) {
	return parsePattern(tokens, src)
}

// SplitTopLevelCommas exposes splitTopLevelCommas for C4, which needs it
// to break a parameter list or for-loop clause list into its top-level
// entries the same way a macro call's argument list is split.
func SplitTopLevelCommas(tokens []lexer.Token) [][]lexer.Token {
	return splitTopLevelCommas(tokens)
}

// MatchBracket exposes matchBracket for C4's header scanning (finding the
// end of a `(...)` parameter list or `[...]` array pattern).
func MatchBracket(tokens []lexer.Token, openIdx int) int {
	return matchBracket(tokens, openIdx)
}
