package tsparser

import (
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// parseImportDecl handles every import form the scope graph needs to
// record (spec §4.1 step 2): default, namespace, named, and mixed.
func (p *Parser) parseImportDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'import'

	decl := &ast.ImportDecl{}

	if p.at(lexer.IDENT) {
		decl.DefaultName = p.advance().Literal
		if p.accept(lexer.COMMA) {
			// falls through to named or namespace form
		}
	}

	if p.at(lexer.STAR) {
		p.advance()
		if _, err := p.expect(lexer.AS); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{Local: name.Literal, Imported: "*"})
	} else if p.at(lexer.LBRACE) {
		specs, err := p.parseImportSpecifiers()
		if err != nil {
			return nil, err
		}
		decl.Specifiers = specs
	}

	if decl.DefaultName == "" && len(decl.Specifiers) == 0 {
		// Side-effect-only import: `import './style.css'`.
	} else if _, err := p.expect(lexer.FROM); err != nil {
		return nil, err
	}

	if p.at(lexer.FROM) {
		p.advance()
	}

	src, err := p.expect(lexer.STRING)
	if err != nil {
		return nil, err
	}
	decl.Source = src.Literal

	end := p.cur()
	p.accept(lexer.SEMICOLON)
	decl.Source = unquote(decl.Source)
	return withBase(decl, p.span(start, end)), nil
}

func (p *Parser) parseImportSpecifiers() ([]ast.ImportSpecifier, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var specs []ast.ImportSpecifier
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		name, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		local := name.Literal
		imported := name.Literal
		if p.accept(lexer.AS) {
			loc, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			local = loc.Literal
		}
		specs = append(specs, ast.ImportSpecifier{Local: local, Imported: imported})
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return specs, nil
}

// parseExportDecl handles `export <decl>`, `export default <decl>`,
// `export {a as b}[ from '...']`, and `export * from '...'` (spec §4.1
// step 4).
func (p *Parser) parseExportDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'export'

	if p.at(lexer.STAR) {
		p.advance()
		if _, err := p.expect(lexer.FROM); err != nil {
			return nil, err
		}
		src, err := p.expect(lexer.STRING)
		if err != nil {
			return nil, err
		}
		end := p.cur()
		p.accept(lexer.SEMICOLON)
		return withBase(&ast.ExportStarDecl{Source: unquote(src.Literal)}, p.span(start, end)), nil
	}

	if p.at(lexer.DEFAULT) {
		p.advance()
		decl, err := p.parseExportedValue()
		if err != nil {
			return nil, err
		}
		end := p.cur()
		p.accept(lexer.SEMICOLON)
		return withBase(&ast.ExportDecl{Decl: decl, IsDefault: true}, p.span(start, end)), nil
	}

	if p.at(lexer.LBRACE) {
		specs, err := p.parseImportSpecifiers() // `{a as b}` has identical shape
		if err != nil {
			return nil, err
		}
		exportSpecs := make([]ast.ExportSpecifier, len(specs))
		for i, s := range specs {
			exportSpecs[i] = ast.ExportSpecifier{Local: s.Local, Exported: s.Imported}
		}
		source := ""
		if p.accept(lexer.FROM) {
			src, err := p.expect(lexer.STRING)
			if err != nil {
				return nil, err
			}
			source = unquote(src.Literal)
		}
		end := p.cur()
		p.accept(lexer.SEMICOLON)
		return withBase(&ast.ExportDecl{Specifiers: exportSpecs, Source: source}, p.span(start, end)), nil
	}

	ambient := p.accept(lexer.DECLARE)
	decl, err := p.parseDeclarable(ambient)
	if err != nil {
		return nil, err
	}
	switch d := decl.(type) {
	case *ast.VarDecl:
		d.Exported = true
	case *ast.FunctionDecl:
		d.Exported = true
	}
	end := p.cur()
	return withBase(&ast.ExportDecl{Decl: decl}, p.span(start, end)), nil
}

// parseExportedValue parses the RHS of `export default`, which may be a
// declaration or a bare expression; this compiler only needs to recognize
// enough to record it, not to interpret arbitrary expressions.
func (p *Parser) parseExportedValue() (ast.Node, error) {
	switch p.cur().Type {
	case lexer.FUNCTION, lexer.CLASS, lexer.INTERFACE:
		return p.parseDeclarable(false)
	default:
		tok := p.advance()
		for !p.at(lexer.SEMICOLON) && !p.at(lexer.EOF) {
			p.advance()
		}
		return withBase(&ast.Identifier{Name: tok.Literal}, p.span(tok, tok)), nil
	}
}

func (p *Parser) parseInterfaceDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'interface'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.InterfaceDecl{Name: name.Literal}

	if p.at(lexer.LT) {
		if err := p.skipTypeParams(); err != nil {
			return nil, err
		}
	}

	if p.accept(lexer.EXTENDS) {
		for {
			ignore := p.accept(lexer.IGNORE_COMMENT)
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			decl.Extends = append(decl.Extends, ast.ExtendsClause{Type: t, Ignore: ignore})
			if !p.accept(lexer.COMMA) {
				break
			}
		}
	}

	body, err := p.parseTypeLiteral()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	end := p.cur()
	return withBase(decl, p.span(start, end)), nil
}

func (p *Parser) parseTypeAliasDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'type'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.TypeAliasDecl{Name: name.Literal}

	if p.at(lexer.LT) {
		params, err := p.parseTypeParamNames()
		if err != nil {
			return nil, err
		}
		decl.TypeParams = params
	}

	if _, err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	decl.Type = t
	end := p.cur()
	p.accept(lexer.SEMICOLON)
	return withBase(decl, p.span(start, end)), nil
}

func (p *Parser) parseEnumDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'enum'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var members []string
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		m, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		members = append(members, m.Literal)
		if p.accept(lexer.ASSIGN) {
			p.advance() // value, unexamined
		}
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.EnumDecl{Name: name.Literal, Members: members}, p.span(start, end)), nil
}

func (p *Parser) parseClassDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'class'
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.ClassDecl{Name: name.Literal}
	if p.at(lexer.LT) {
		if err := p.skipTypeParams(); err != nil {
			return nil, err
		}
	}
	if p.accept(lexer.EXTENDS) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Extends = t
	}
	// Class bodies are skipped token-by-token: this compiler only needs
	// a class's name and its extends clause for scope classification
	// (spec §4.1 step 3), never its members.
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	depth := 1
	var end lexer.Token
	for depth > 0 && !p.at(lexer.EOF) {
		switch p.cur().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
		end = p.advance()
	}
	return withBase(decl, p.span(start, end)), nil
}

func (p *Parser) parseModuleDecl() (ast.Node, error) {
	start := p.cur()
	p.advance() // 'module' or 'namespace'
	var name string
	if p.at(lexer.STRING) {
		name = unquote(p.advance().Literal)
	} else {
		parts := []string{}
		for {
			id, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			parts = append(parts, id.Literal)
			if !p.accept(lexer.DOT) {
				break
			}
		}
		name = strings.Join(parts, ".")
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var body []ast.Node
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.accept(lexer.SEMICOLON) {
			continue
		}
		ambient := p.accept(lexer.DECLARE)
		n, err := p.parseStatement()
		_ = ambient
		if err != nil {
			return nil, err
		}
		if n != nil {
			body = append(body, n)
		}
	}
	end, err := p.expect(lexer.RBRACE)
	if err != nil {
		return nil, err
	}
	return withBase(&ast.ModuleDecl{Name: name, Body: body}, p.span(start, end)), nil
}

func (p *Parser) parseVarDecl(ambient, exported bool) (ast.Node, error) {
	start := p.cur()
	keyword := p.advance().Literal // const/let/var

	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Name: nameTok.Literal}

	decl := &ast.VarDecl{Keyword: keyword, Name: withBase(name, p.span(nameTok, nameTok)), Ambient: ambient, Exported: exported}

	if p.accept(lexer.COLON) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = t
	}

	if p.accept(lexer.ASSIGN) {
		// Initializer expressions are not interpreted by this parser;
		// the scope graph only needs the declared name and type.
		depth := 0
		for !p.at(lexer.EOF) {
			if (p.at(lexer.SEMICOLON) || p.at(lexer.COMMA)) && depth == 0 {
				break
			}
			switch p.cur().Type {
			case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
				depth++
			case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
				depth--
			}
			p.advance()
		}
	}

	end := p.cur()
	p.accept(lexer.SEMICOLON)
	return withBase(decl, p.span(start, end)), nil
}

func (p *Parser) parseFunctionDecl(ambient, exported bool) (ast.Node, error) {
	start := p.cur()
	p.advance() // 'function'
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	decl := &ast.FunctionDecl{Name: nameTok.Literal, Ambient: ambient, Exported: exported}

	if p.at(lexer.LT) {
		if err := p.skipTypeParams(); err != nil {
			return nil, err
		}
	}

	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	decl.Params = params

	if p.accept(lexer.COLON) {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Return = t
	}

	if p.at(lexer.LBRACE) {
		body, end, err := p.skipBlock()
		if err != nil {
			return nil, err
		}
		decl.Body = body
		return withBase(decl, p.span(start, end)), nil
	}

	end := p.cur()
	p.accept(lexer.SEMICOLON)
	return withBase(decl, p.span(start, end)), nil
}

// skipBlock consumes a balanced {...} without interpreting statements,
// returning an (empty) BlockStatement placeholder — function bodies are
// opaque to the scope graph except insofar as internal/destructure walks
// script-setup bodies directly via its own scope-stack walker.
func (p *Parser) skipBlock() (*ast.BlockStatement, lexer.Token, error) {
	start := p.cur()
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, start, err
	}
	depth := 1
	var end lexer.Token
	for depth > 0 && !p.at(lexer.EOF) {
		switch p.cur().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
		end = p.advance()
	}
	return withBase(&ast.BlockStatement{}, p.span(start, end)), end, nil
}

func (p *Parser) parseParamList() ([]ast.Param, error) {
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

func (p *Parser) skipTypeParams() error {
	if _, err := p.expect(lexer.LT); err != nil {
		return err
	}
	depth := 1
	for depth > 0 && !p.at(lexer.EOF) {
		switch p.cur().Type {
		case lexer.LT:
			depth++
		case lexer.GT:
			depth--
		}
		p.advance()
	}
	return nil
}

func (p *Parser) parseTypeParamNames() ([]string, error) {
	if _, err := p.expect(lexer.LT); err != nil {
		return nil, err
	}
	var names []string
	for !p.at(lexer.GT) && !p.at(lexer.EOF) {
		n, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, n.Literal)
		if p.accept(lexer.EXTENDS) {
			if _, err := p.parseType(); err != nil {
				return nil, err
			}
		}
		if !p.accept(lexer.COMMA) {
			break
		}
	}
	if _, err := p.expect(lexer.GT); err != nil {
		return nil, err
	}
	return names, nil
}

func unquote(s string) string {
	return strings.Trim(s, `"'`)
}

// withBase stamps span onto a freshly constructed node. Every concrete
// node type embeds ast.Base by value, which promotes SetSpan with a
// pointer receiver, so this works uniformly across node types without a
// per-kind switch.
func withBase[N ast.Spannable](n N, span ast.Span) N {
	n.SetSpan(span)
	return n
}
