// Package tsparser is a recursive-descent parser for the subset of
// TypeScript declaration and type-expression syntax internal/scope and
// internal/typeresolve need: imports/exports, interface/type-alias/enum/
// class/module declarations, and the full type-expression grammar
// (union, intersection, mapped, indexed access, function types, type
// references, template literal types, and the rest).
//
// The dispatch shape — switch on the current token, recurse into a
// per-construct parse function — mirrors the teacher compiler's own
// parser_type.go, and the binding-power table below plays the same role
// as its prefixParseFns/infixParseFns tables.
package tsparser

import (
	"fmt"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// Parser holds a flat token buffer (produced by lexer.Tokenize) and a
// cursor; type-expression lookahead (distinguishing a parenthesized type
// from a function type, for instance) needs more than one token of
// lookahead, which a buffered cursor gives for free.
type Parser struct {
	tokens []lexer.Token
	pos    int
	file   string
}

// New wraps a pre-tokenized buffer.
func New(tokens []lexer.Token, file string) *Parser {
	return &Parser{tokens: tokens, file: file}
}

// ParseProgram tokenizes src and parses every top-level statement it
// contains, stopping at the first error (spec §4.1's construction order
// assumes well-formed script text; malformed syntax is reported via
// internal/errors.Report by the caller).
func ParseProgram(src, file string) ([]ast.Node, error) {
	toks := lexer.Tokenize(src, file)
	p := New(toks, file)
	return p.Program()
}

// ParseTypeExpression tokenizes src as a standalone type expression
// (used by internal/script when a macro's type argument is lifted out of
// its surrounding call expression).
func ParseTypeExpression(src, file string) (ast.TypeNode, error) {
	toks := lexer.Tokenize(src, file)
	p := New(toks, file)
	return p.parseType()
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek looks n tokens ahead of the cursor; negative n looks behind it,
// which callers use to recover the last-consumed token (e.g. to compute
// a span's end) without holding onto it explicitly.
func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx < 0 || idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(t lexer.TokenType) bool {
	return p.cur().Type == t
}

func (p *Parser) accept(t lexer.TokenType) bool {
	if p.at(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	if !p.at(t) {
		tok := p.cur()
		return tok, p.errorf(tok, errors.PAR001, "expected %s, got %s %q", t, tok.Type, tok.Literal)
	}
	return p.advance(), nil
}

func (p *Parser) span(start, end lexer.Token) ast.Span {
	return ast.Span{
		Start: ast.Pos{Offset: start.StartOffset, Line: start.Line, Column: start.Column},
		End:   ast.Pos{Offset: end.EndOffset, Line: end.Line, Column: end.Column},
		File:  p.file,
	}
}

func (p *Parser) errorf(tok lexer.Token, code, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	sp := p.span(tok, tok)
	return errors.WrapReport(&errors.Report{
		Schema:  "sfc.error/v1",
		Code:    code,
		Phase:   "parse",
		Message: msg,
		Span:    &sp,
	})
}

// Program parses every top-level statement until EOF.
func (p *Parser) Program() ([]ast.Node, error) {
	var nodes []ast.Node
	for !p.at(lexer.EOF) {
		if p.accept(lexer.SEMICOLON) {
			continue
		}
		n, err := p.parseStatement()
		if err != nil {
			return nodes, err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	switch p.cur().Type {
	case lexer.IMPORT:
		return p.parseImportDecl()
	case lexer.EXPORT:
		return p.parseExportDecl()
	case lexer.DECLARE:
		p.advance()
		return p.parseDeclarable(true)
	case lexer.INTERFACE, lexer.TYPE, lexer.ENUM, lexer.CLASS,
		lexer.MODULE, lexer.NAMESPACE, lexer.CONST, lexer.LET,
		lexer.VAR, lexer.FUNCTION:
		return p.parseDeclarable(false)
	default:
		// Statement kinds this compiler never needs to interpret
		// (plain expression statements, control flow) are skipped
		// token-by-token rather than fully parsed.
		p.advance()
		return nil, nil
	}
}

func (p *Parser) parseDeclarable(ambient bool) (ast.Node, error) {
	switch p.cur().Type {
	case lexer.INTERFACE:
		return p.parseInterfaceDecl()
	case lexer.TYPE:
		return p.parseTypeAliasDecl()
	case lexer.ENUM:
		return p.parseEnumDecl()
	case lexer.CLASS:
		return p.parseClassDecl()
	case lexer.MODULE, lexer.NAMESPACE:
		return p.parseModuleDecl()
	case lexer.CONST, lexer.LET, lexer.VAR:
		return p.parseVarDecl(ambient, false)
	case lexer.FUNCTION:
		return p.parseFunctionDecl(ambient, false)
	default:
		tok := p.cur()
		return nil, p.errorf(tok, errors.PAR005, "unexpected token after declare: %s", tok.Type)
	}
}
