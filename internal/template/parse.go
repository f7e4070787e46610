// Package template implements C5: the structural-directive transform
// from a `<template>` block's markup to the spec's IR node kinds
// (v-for/v-slot, §4.5). Parsing the markup itself is a small hand-rolled
// rune scanner in the same style as internal/lexer's Lexer (own
// position/readPosition/ch cursor), since the grammar — tags, quoted
// attribute values, `{{ }}` interpolations — has nothing in common with
// internal/lexer's TS-expression token set and internal/tsparser
// deliberately doesn't parse markup either.
package template

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
)

// voidElements never carry children or a closing tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type parser struct {
	src    string
	pos    int
	file   string
	base   int // byte offset of src[0] within the whole SFC file
}

// Parse scans a `<template>` block's content into its top-level node
// list (spec §3 treats the template as Element/TextNode/Interpolation
// trees; a template may have more than one root since fragments are
// allowed). base re-bases every span into the owning SFC file the way
// internal/sourcefile's Block.Start already does for script blocks.
func Parse(src string, base int, file string) ([]ast.Node, error) {
	p := &parser{src: src, file: file, base: base}
	return p.parseChildren("")
}

// parseChildren parses nodes until EOF or a closing tag matching
// untilTag (the empty string means "parse to EOF", used for the
// template root and inside <template> wrapper elements which don't
// themselves nest a v-for/v-slot body tag name to match against).
func (p *parser) parseChildren(untilTag string) ([]ast.Node, error) {
	var nodes []ast.Node
	for p.pos < len(p.src) {
		if untilTag != "" && p.peekClosingTag(untilTag) {
			return nodes, nil
		}
		if p.peekAt("<!--") {
			p.skipComment()
			continue
		}
		if p.peekAt("</") {
			// Stray closing tag with no open element: stop, let the
			// caller (which owns the matching open tag, if any) decide.
			return nodes, nil
		}
		if p.cur() == '<' && isTagStart(p.peekRuneAt(1)) {
			el, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, el)
			continue
		}
		textNodes, err := p.parseText()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, textNodes...)
	}
	return nodes, nil
}

func (p *parser) parseElement() (*ast.Element, error) {
	start := p.pos + p.base
	p.pos++ // consume '<'
	tag := p.readName()
	lowerTag := strings.ToLower(tag)

	attrs, err := p.parseAttrs()
	if err != nil {
		return nil, err
	}

	selfClosing := false
	if p.peekAt("/>") {
		selfClosing = true
		p.pos += 2
	} else if p.cur() == '>' {
		p.pos++
	} else {
		return nil, parseErr(p.file, start, p.pos+p.base, "unterminated tag <"+tag)
	}

	el := &ast.Element{
		Tag:         tag,
		TemplateTag: lowerTag == "template",
		Attrs:       attrs,
	}

	if selfClosing || voidElements[lowerTag] {
		el.SetSpan(ast.Span{
			Start: ast.Pos{Offset: start},
			End:   ast.Pos{Offset: p.pos + p.base},
			File:  p.file,
		})
		return el, nil
	}

	children, err := p.parseChildren(tag)
	if err != nil {
		return nil, err
	}
	el.Children = children

	if p.peekClosingTag(tag) {
		p.consumeClosingTag(tag)
	}
	// A missing closing tag is tolerated: the element simply ends where
	// its parsed children ran out (matches how `</body>`/`</html>` are
	// routinely omitted in hand-written HTML).

	el.SetSpan(ast.Span{
		Start: ast.Pos{Offset: start},
		End:   ast.Pos{Offset: p.pos + p.base},
		File:  p.file,
	})
	return el, nil
}

func (p *parser) parseAttrs() ([]ast.Attr, error) {
	var attrs []ast.Attr
	for {
		p.skipSpace()
		if p.pos >= len(p.src) || p.cur() == '>' || p.peekAt("/>") {
			return attrs, nil
		}
		start := p.pos + p.base
		rawName := p.readAttrName()
		if rawName == "" {
			return nil, parseErr(p.file, start, p.pos+p.base, "malformed attribute")
		}
		var value string
		var valueSpan ast.Span
		p.skipSpace()
		if p.cur() == '=' {
			p.pos++
			p.skipSpace()
			quoted := p.cur() == '"' || p.cur() == '\''
			valueStart := p.pos
			if quoted {
				valueStart++ // past the opening quote
			}
			value = p.readAttrValue()
			valueSpan = ast.Span{
				Start: ast.Pos{Offset: valueStart + p.base},
				End:   ast.Pos{Offset: valueStart + p.base + len(value)},
				File:  p.file,
			}
		}
		name, arg, isDirective := classifyAttrName(rawName)
		attrs = append(attrs, ast.Attr{
			Name:        name,
			Arg:         arg,
			Value:       value,
			IsDirective: isDirective,
			Span: ast.Span{
				Start: ast.Pos{Offset: start},
				End:   ast.Pos{Offset: p.pos + p.base},
				File:  p.file,
			},
			ValueSpan: valueSpan,
		})
	}
}

// classifyAttrName maps a raw attribute token to the Name/Arg/IsDirective
// shape ast.Attr documents: "key", "for", "slot", "if", "else",
// "else-if", "memo", or a plain attribute name (spec §4.5 only
// interprets this fixed directive set; everything else — including
// `:foo`/`@foo` shorthands — is carried through as an opaque plain
// attribute, since element prop/event codegen is out of scope).
func classifyAttrName(raw string) (name, arg string, isDirective bool) {
	switch {
	case raw == "v-for":
		return "for", "", true
	case raw == "v-if":
		return "if", "", true
	case raw == "v-else-if":
		return "else-if", "", true
	case raw == "v-else":
		return "else", "", true
	case raw == "v-memo":
		return "memo", "", true
	case raw == "v-slot" || strings.HasPrefix(raw, "v-slot:"):
		return "slot", afterColon(raw), true
	case raw == "#" || strings.HasPrefix(raw, "#"):
		return "slot", strings.TrimPrefix(raw, "#"), true
	case raw == ":key" || raw == "v-bind:key":
		return "key", "", true
	default:
		return raw, "", false
	}
}

func afterColon(raw string) string {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		return raw[i+1:]
	}
	return ""
}

// parseText consumes a run of non-tag text, splitting `{{ expr }}`
// mustaches into Interpolation nodes interleaved with TextNode runs.
func (p *parser) parseText() ([]ast.Node, error) {
	var nodes []ast.Node
	for p.pos < len(p.src) {
		if p.cur() == '<' {
			break
		}
		start := p.pos + p.base
		if p.peekAt("{{") {
			p.pos += 2
			exprStart := p.pos
			end := strings.Index(p.src[p.pos:], "}}")
			if end < 0 {
				return nil, parseErr(p.file, start, start, "unterminated interpolation")
			}
			expr := strings.TrimSpace(p.src[exprStart : p.pos+end])
			p.pos += end + 2
			nodes = append(nodes, &ast.Interpolation{
				Base: ast.NewBase(ast.Span{
					Start: ast.Pos{Offset: start},
					End:   ast.Pos{Offset: p.pos + p.base},
					File:  p.file,
				}),
				Expr: expr,
			})
			continue
		}
		textStart := p.pos
		for p.pos < len(p.src) && p.cur() != '<' && !p.peekAt("{{") {
			p.pos++
		}
		nodes = append(nodes, &ast.TextNode{
			Base: ast.NewBase(ast.Span{
				Start: ast.Pos{Offset: textStart + p.base},
				End:   ast.Pos{Offset: p.pos + p.base},
				File:  p.file,
			}),
			Text: p.src[textStart:p.pos],
		})
	}
	return nodes, nil
}

func (p *parser) skipComment() {
	p.pos += len("<!--")
	if end := strings.Index(p.src[p.pos:], "-->"); end >= 0 {
		p.pos += end + len("-->")
	} else {
		p.pos = len(p.src)
	}
}

func (p *parser) readName() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// readAttrName accepts the wider character set directive/shorthand
// attribute names use (`:`, `@`, `#`, `.`, `-`) alongside plain names.
func (p *parser) readAttrName() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '=' || c == '>' || c == '/' || isSpaceByte(c) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) readAttrValue() string {
	if p.pos >= len(p.src) {
		return ""
	}
	quote := p.src[p.pos]
	if quote == '"' || quote == '\'' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != quote {
			p.pos++
		}
		val := p.src[start:p.pos]
		if p.pos < len(p.src) {
			p.pos++ // consume closing quote
		}
		return val
	}
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '>' && !isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) peekClosingTag(tag string) bool {
	if !p.peekAt("</") {
		return false
	}
	rest := p.src[p.pos+2:]
	if !strings.HasPrefix(strings.ToLower(rest), strings.ToLower(tag)) {
		return false
	}
	after := rest[len(tag):]
	i := 0
	for i < len(after) && isSpaceByte(after[i]) {
		i++
	}
	return i < len(after) && after[i] == '>'
}

func (p *parser) consumeClosingTag(tag string) {
	p.pos += 2 // "</"
	p.pos += len(tag)
	for p.pos < len(p.src) && p.src[p.pos] != '>' {
		p.pos++
	}
	if p.pos < len(p.src) {
		p.pos++ // consume '>'
	}
}

func (p *parser) cur() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) peekRuneAt(offset int) rune {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos+offset:])
	return r
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpaceByte(p.src[p.pos]) {
		p.pos++
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isTagStart(r rune) bool {
	return unicode.IsLetter(r)
}

func parseErr(file string, start, end int, msg string) error {
	sp := ast.Span{Start: ast.Pos{Offset: start}, End: ast.Pos{Offset: end}, File: file}
	return errors.WrapReport(&errors.Report{
		Schema:  "sfc.error/v1",
		Code:    errors.PAR001,
		Phase:   "parse",
		Message: msg,
		Span:    &sp,
	})
}
