package tsparser

import (
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// parseType parses a full type expression at union precedence, the
// lowest binding power in the grammar (spec §3's ResolvedElements is
// built by walking exactly this node set).
func (p *Parser) parseType() (ast.TypeNode, error) {
	return p.parseUnionType()
}

func (p *Parser) parseUnionType() (ast.TypeNode, error) {
	p.accept(lexer.PIPE) // tolerate a leading `|` before the first member
	start := p.cur()
	first, err := p.parseIntersectionType()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.PIPE) {
		return first, nil
	}
	types := []ast.TypeNode{first}
	for p.accept(lexer.PIPE) {
		t, err := p.parseIntersectionType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	end := p.peek(-1)
	return withBase(&ast.UnionType{Types: types}, p.span(start, end)), nil
}

func (p *Parser) parseIntersectionType() (ast.TypeNode, error) {
	p.accept(lexer.AMP)
	start := p.cur()
	first, err := p.parseTypeOperator()
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.AMP) {
		return first, nil
	}
	types := []ast.TypeNode{first}
	for p.accept(lexer.AMP) {
		t, err := p.parseTypeOperator()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	end := p.peek(-1)
	return withBase(&ast.IntersectionType{Types: types}, p.span(start, end)), nil
}

// parseTypeOperator handles the prefix operators keyof/typeof, then falls
// through to postfix array/indexed-access suffixes.
func (p *Parser) parseTypeOperator() (ast.TypeNode, error) {
	start := p.cur()
	switch p.cur().Type {
	case lexer.KEYOF:
		p.advance()
		operand, err := p.parseTypeOperator()
		if err != nil {
			return nil, err
		}
		end := p.peek(-1)
		return withBase(&ast.KeyofType{Operand: operand}, p.span(start, end)), nil
	case lexer.TYPEOF:
		p.advance()
		name, err := p.parseEntityName()
		if err != nil {
			return nil, err
		}
		end := p.peek(-1)
		return withBase(&ast.TypeQuery{ExprName: name}, p.span(start, end)), nil
	case lexer.READONLY:
		p.advance()
		return p.parseTypeOperator()
	default:
		return p.parsePostfixType()
	}
}

// parsePostfixType handles trailing `[]` (array) and `[K]` (indexed
// access) suffixes, which may chain: `T[K][number]`.
func (p *Parser) parsePostfixType() (ast.TypeNode, error) {
	start := p.cur()
	t, err := p.parsePrimaryType()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.LBRACKET) {
		p.advance()
		if p.accept(lexer.RBRACKET) {
			end := p.peek(-1)
			t = withBase(&ast.ArrayType{Element: t}, p.span(start, end))
			continue
		}
		index, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		end := p.peek(-1)
		t = withBase(&ast.IndexedAccessType{ObjectType: t, IndexType: index}, p.span(start, end))
	}
	return t, nil
}

func (p *Parser) parsePrimaryType() (ast.TypeNode, error) {
	start := p.cur()
	switch p.cur().Type {
	case lexer.LBRACE:
		return p.parseTypeLiteralOrMappedType()
	case lexer.LPAREN:
		return p.parseParenOrFunctionType()
	case lexer.LBRACKET:
		return p.parseTupleType()
	case lexer.TEMPLATE_STRING:
		return p.parseTemplateLiteralType()
	case lexer.STRING:
		tok := p.advance()
		return withBase(&ast.LiteralType{LitKind: ast.LiteralString, Text: tok.Literal}, p.span(start, tok)), nil
	case lexer.INT, lexer.FLOAT:
		tok := p.advance()
		return withBase(&ast.LiteralType{LitKind: ast.LiteralNumber, Text: tok.Literal}, p.span(start, tok)), nil
	case lexer.TRUE, lexer.FALSE:
		tok := p.advance()
		return withBase(&ast.LiteralType{LitKind: ast.LiteralBoolean, Text: tok.Literal}, p.span(start, tok)), nil
	case lexer.IMPORT:
		return p.parseImportType()
	case lexer.NEW:
		p.advance()
		return p.parseFunctionType(start)
	case lexer.IDENT, lexer.UNDEFINED, lexer.NULL:
		return p.parseTypeReferenceOrKeyword()
	default:
		tok := p.cur()
		return nil, p.errorf(tok, errors.PAR001, "unexpected token in type position: %s %q", tok.Type, tok.Literal)
	}
}

// builtinKeywords are the predefined type keywords; everything else in
// IDENT position is a TypeReference, possibly generic.
var builtinKeywords = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true,
	"unknown": true, "void": true, "never": true, "object": true,
	"bigint": true, "symbol": true,
}

func (p *Parser) parseTypeReferenceOrKeyword() (ast.TypeNode, error) {
	start := p.cur()
	if p.at(lexer.UNDEFINED) || p.at(lexer.NULL) {
		tok := p.advance()
		return withBase(&ast.KeywordType{Name: tok.Literal}, p.span(start, tok)), nil
	}
	name, err := p.parseEntityName()
	if err != nil {
		return nil, err
	}
	end := p.peek(-1)
	if builtinKeywords[name] && !p.at(lexer.LT) {
		return withBase(&ast.KeywordType{Name: name}, p.span(start, end)), nil
	}
	ref := &ast.TypeReference{Name: name}
	if p.at(lexer.LT) {
		args, err := p.parseTypeArgs()
		if err != nil {
			return nil, err
		}
		ref.TypeArgs = args
		end = p.peek(-1)
	}
	return withBase(ref, p.span(start, end)), nil
}

// parseEntityName parses a dotted identifier chain, e.g. `Foo.Bar.Baz`.
func (p *Parser) parseEntityName() (string, error) {
	tok, err := p.expect(lexer.IDENT)
	if err != nil {
		return "", err
	}
	name := tok.Literal
	for p.at(lexer.DOT) {
		p.advance()
		next, err := p.expect(lexer.IDENT)
		if err != nil {
			return "", err
		}
		name += "." + next.Literal
	}
	return name, nil
}

func (p *Parser) parseTypeArgs() ([]ast.TypeNode, error) {
	if _, err := p.expect(lexer.LT); err != nil {
		return nil, err
	}
	var args []ast.TypeNode
	for !p.at(lexer.GT) && !p.at(lexer.EOF) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, t)
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseImportType() (ast.TypeNode, error) {
	start := p.cur()
	p.advance() // 'import'
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	src, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	imp := &ast.ImportType{Source: unquote(src.Literal)}
	if p.accept(lexer.DOT) {
		name, err := p.parseEntityName()
		if err != nil {
			return nil, err
		}
		imp.Qualifier = name
	}
	end := p.peek(-1)
	if p.at(lexer.LT) {
		args, err := p.parseTypeArgs()
		if err != nil {
			return nil, err
		}
		imp.TypeArgs = args
		end = p.peek(-1)
	}
	return withBase(imp, p.span(start, end)), nil
}

// parseParenOrFunctionType disambiguates `(T)` (a parenthesized type) from
// `(a: T, b: U) => R` (a function type) by scanning ahead for `=>` after
// the matching close-paren; both start identically on `(`.
func (p *Parser) parseParenOrFunctionType() (ast.TypeNode, error) {
	start := p.cur()
	if p.looksLikeFunctionType() {
		return p.parseFunctionType(start)
	}
	p.advance() // '('
	inner, err := p.parseType()
	if err != nil {
		return nil, err
	}
	end, err := p.expect(lexer.RPAREN)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.ParenthesizedType{Inner: inner}, p.span(start, end)), nil
}

// looksLikeFunctionType scans forward from the current '(' to its
// matching ')' and checks whether an '=>' immediately follows, without
// consuming any tokens.
func (p *Parser) looksLikeFunctionType() bool {
	depth := 0
	for i := p.pos; i < len(p.tokens); i++ {
		switch p.tokens[i].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				next := lexer.EOF
				if i+1 < len(p.tokens) {
					next = p.tokens[i+1].Type
				}
				return next == lexer.ARROW
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parseFunctionType(start lexer.Token) (ast.TypeNode, error) {
	params, err := p.parseTypeParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ARROW); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	end := p.peek(-1)
	return withBase(&ast.FunctionType{Params: params, ReturnType: ret}, p.span(start, end)), nil
}

// parseTypeParamList parses a function type's parameter list, where each
// parameter carries a type annotation rather than an initializer.
func (p *Parser) parseTypeParamList() ([]ast.Param, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		p.accept(lexer.SPREAD)
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: name.Literal}
		param.Optional = p.accept(lexer.QUESTION)
		if p.accept(lexer.COLON) {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			param.Type = t
		}
		params = append(params, param)
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseTupleType() (ast.TypeNode, error) {
	start := p.cur()
	p.advance() // '['
	var elems []ast.TypeNode
	for !p.at(lexer.RBRACKET) && !p.at(lexer.EOF) {
		p.accept(lexer.SPREAD)
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	end, err := p.expect(lexer.RBRACKET)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.TupleType{Elements: elems}, p.span(start, end)), nil
}

// parseTemplateLiteralType parses a backtick-delimited template literal
// type, e.g. `` `on${Capitalize<E>}` ``. The lexer hands back the whole
// literal as a single TEMPLATE_STRING token whose Literal is the raw text
// between the backticks, `${...}` spans included verbatim, so this
// re-scans that text rather than expecting separate tokens for each span.
func (p *Parser) parseTemplateLiteralType() (ast.TypeNode, error) {
	start := p.cur()
	tok := p.advance()

	var spans []ast.TemplateLiteralTypeSpan
	text := tok.Literal
	for {
		open := strings.Index(text, "${")
		if open < 0 {
			spans = append(spans, ast.TemplateLiteralTypeSpan{Quasi: text})
			break
		}
		quasi := text[:open]
		rest := text[open+2:]
		closeIdx, depth := -1, 1
		for i, r := range rest {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					closeIdx = i
				}
			}
			if closeIdx >= 0 {
				break
			}
		}
		if closeIdx < 0 {
			return nil, p.errorf(tok, errors.PAR003, "unterminated ${...} span in template literal type")
		}
		exprSrc := rest[:closeIdx]
		exprType, err := ParseTypeExpression(exprSrc, p.file)
		if err != nil {
			return nil, err
		}
		spans = append(spans, ast.TemplateLiteralTypeSpan{Quasi: quasi, Expr: exprType})
		text = rest[closeIdx+1:]
	}
	return withBase(&ast.TemplateLiteralType{Spans: spans}, p.span(start, tok)), nil
}

// parseTypeLiteralOrMappedType disambiguates `{ [K in C]: V }` (a mapped
// type) from `{ a: T; b(): U }` (an ordinary type literal/interface body)
// by looking past an optional `readonly`/`+`/`-` prefix for `[` IDENT `in`.
func (p *Parser) parseTypeLiteralOrMappedType() (ast.TypeNode, error) {
	if p.isMappedTypeAhead() {
		return p.parseMappedType()
	}
	return p.parseTypeLiteral()
}

func (p *Parser) isMappedTypeAhead() bool {
	i := p.pos + 1 // past '{'
	for i < len(p.tokens) && (p.tokens[i].Type == lexer.READONLY || p.tokens[i].Type == lexer.PLUS || p.tokens[i].Type == lexer.MINUS) {
		i++
	}
	if i >= len(p.tokens) || p.tokens[i].Type != lexer.LBRACKET {
		return false
	}
	i++
	if i >= len(p.tokens) || p.tokens[i].Type != lexer.IDENT {
		return false
	}
	i++
	return i < len(p.tokens) && p.tokens[i].Type == lexer.IN
}

func (p *Parser) parseMappedType() (ast.TypeNode, error) {
	start := p.cur()
	p.advance() // '{'
	readonly := p.accept(lexer.READONLY)
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	param, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN); err != nil {
		return nil, err
	}
	constraint, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	optional := p.accept(lexer.QUESTION)
	if _, err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	value, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.SEMICOLON)
	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.MappedType{
		TypeParam:  param.Literal,
		Constraint: constraint,
		ValueType:  value,
		Optional:   optional,
		Readonly:   readonly,
	}, p.span(start, end)), nil
}

// parseTypeLiteral parses `{ key?: Type; key2(): Type; ... }`, the body
// of an interface, a class, or an inline object type (spec §3's
// ResolvedElements merges exactly this member shape across Base clauses).
func (p *Parser) parseTypeLiteral() (*ast.TypeLiteral, error) {
	start, err := p.expect(lexer.LBRACE)
	if err != nil {
		return nil, err
	}
	var members []ast.Member
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		m, err := p.parseMember()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
		p.accept(lexer.SEMICOLON)
		p.accept(lexer.COMMA)
	}
	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.TypeLiteral{Members: members}, p.span(start, end)), nil
}

func (p *Parser) parseMember() (ast.Member, error) {
	p.accept(lexer.READONLY)

	if p.at(lexer.LPAREN) {
		fn, err := p.parseCallSignature()
		if err != nil {
			return ast.Member{}, err
		}
		return ast.Member{Call: fn}, nil
	}

	var key ast.Node
	start := p.cur()
	switch p.cur().Type {
	case lexer.STRING:
		tok := p.advance()
		key = withBase(&ast.StringLiteral{Value: unquote(tok.Literal)}, p.span(start, tok))
	case lexer.LBRACKET:
		p.advance()
		inner, err := p.expect(lexer.IDENT)
		if err != nil {
			return ast.Member{}, err
		}
		if _, err := p.expect(lexer.RBRACKET); err != nil {
			return ast.Member{}, err
		}
		key = withBase(&ast.Identifier{Name: inner.Literal}, p.span(start, inner))
	default:
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return ast.Member{}, err
		}
		key = withBase(&ast.Identifier{Name: tok.Literal}, p.span(start, tok))
	}

	optional := p.accept(lexer.QUESTION)

	if p.at(lexer.LPAREN) {
		fn, err := p.parseCallSignature()
		if err != nil {
			return ast.Member{}, err
		}
		return ast.Member{Key: key, Optional: optional, Call: fn}, nil
	}

	if _, err := p.expect(lexer.COLON); err != nil {
		return ast.Member{}, err
	}
	t, err := p.parseType()
	if err != nil {
		return ast.Member{}, err
	}
	return ast.Member{Key: key, Optional: optional, Type: t}, nil
}

// parseCallSignature parses a method/call signature's parameter list and
// return type, e.g. `(e: 'change', id: number): void`.
func (p *Parser) parseCallSignature() (*ast.FunctionType, error) {
	start := p.cur()
	params, err := p.parseTypeParamList()
	if err != nil {
		return nil, err
	}
	var ret ast.TypeNode
	if p.accept(lexer.COLON) {
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	end := p.peek(-1)
	fn := withBase(&ast.FunctionType{Params: params, ReturnType: ret}, p.span(start, end))
	return fn, nil
}
