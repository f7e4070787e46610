// Package script implements C3: a one-pass walk of script-setup
// top-level statements that recognizes and dispatches macro calls
// (defineProps, defineEmits, defineModel, defineExpose, defineOptions,
// defineSlots, withDefaults), accumulating the results into a
// ScriptContext and rewriting the source via internal/rope (spec §4.3).
//
// internal/tsparser cannot be reused here: it deliberately only parses
// declarations and type expressions, discarding general statement and
// expression bodies (see its own package doc). This package is a
// second, narrower hand-rolled recursive-descent parser over the same
// internal/lexer token stream, scoped to exactly the statement and
// expression shapes a macro call site can take — not a general
// JS/TS parser.
package script

import "github.com/kinetic-sfc/compiler/internal/lexer"

// statement is one top-level script-setup statement's token slice, with
// the enclosing source so callers can recover verbatim text by byte
// offset.
type statement struct {
	tokens []lexer.Token
	src    string
	file   string
}

// splitStatements partitions a token stream into top-level statements by
// tracking bracket depth and splitting on depth-0 semicolons. A file
// that omits semicolons between script-setup top-level statements is
// not handled — every grounded example in this package's tests
// terminates statements explicitly, matching how `@vue/compiler-sfc`
// output and hand-authored script-setup blocks are conventionally
// formatted.
func splitStatements(tokens []lexer.Token, src, file string) []statement {
	var out []statement
	depth := 0
	start := 0
	for i, t := range tokens {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth--
		case lexer.SEMICOLON:
			if depth == 0 {
				if i > start {
					out = append(out, statement{tokens: tokens[start:i], src: src, file: file})
				}
				start = i + 1
			}
		case lexer.EOF:
			if i > start {
				out = append(out, statement{tokens: tokens[start:i], src: src, file: file})
			}
			start = i + 1
		}
	}
	return out
}

// matchBracket returns the index (within tokens) of the token that
// closes the bracket opened at openIdx, or -1 if unbalanced.
func matchBracket(tokens []lexer.Token, openIdx int) int {
	open := tokens[openIdx].Type
	var close lexer.TokenType
	switch open {
	case lexer.LPAREN:
		close = lexer.RPAREN
	case lexer.LBRACE:
		close = lexer.RBRACE
	case lexer.LBRACKET:
		close = lexer.RBRACKET
	case lexer.LT:
		close = lexer.GT
	default:
		return -1
	}
	depth := 1
	for i := openIdx + 1; i < len(tokens); i++ {
		switch tokens[i].Type {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits tokens (with outer brackets already
// stripped) into comma-separated argument spans at depth 0.
func splitTopLevelCommas(tokens []lexer.Token) [][]lexer.Token {
	if len(tokens) == 0 {
		return nil
	}
	var out [][]lexer.Token
	depth := 0
	start := 0
	for i, t := range tokens {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET, lexer.LT:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET, lexer.GT:
			depth--
		case lexer.COMMA:
			if depth == 0 {
				out = append(out, tokens[start:i])
				start = i + 1
			}
		}
	}
	if start < len(tokens) {
		out = append(out, tokens[start:])
	}
	return out
}

// rawText recovers the verbatim source slice a token span covers.
func rawText(src string, tokens []lexer.Token) string {
	if len(tokens) == 0 {
		return ""
	}
	return src[tokens[0].StartOffset:tokens[len(tokens)-1].EndOffset]
}
