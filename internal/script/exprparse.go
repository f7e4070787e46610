package script

import (
	"strconv"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// parsePattern parses a binding target: an identifier, an object
// destructuring pattern, or an array destructuring pattern (spec §4.4
// step 1's inputs). Nested patterns inside object properties are
// rejected per that same step ("Reject nested patterns and computed
// keys").
func parsePattern(tokens []lexer.Token, src string) (ast.Node, error) {
	if len(tokens) == 0 {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR001, Phase: "parse",
			Message: "expected a binding pattern",
		})
	}
	switch tokens[0].Type {
	case lexer.IDENT:
		return &ast.Identifier{Name: tokens[0].Literal}, nil
	case lexer.LBRACE:
		return parseObjectPattern(tokens, src)
	case lexer.LBRACKET:
		return parseArrayPattern(tokens, src)
	default:
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR001, Phase: "parse",
			Message: "unsupported binding pattern",
		})
	}
}

func parseObjectPattern(tokens []lexer.Token, src string) (*ast.ObjectPattern, error) {
	end := matchBracket(tokens, 0)
	if end < 0 {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR002, Phase: "parse",
			Message: "unterminated object pattern",
		})
	}
	pat := &ast.ObjectPattern{}
	for _, entry := range splitTopLevelCommas(tokens[1:end]) {
		if len(entry) == 0 {
			continue
		}
		if entry[0].Type == lexer.SPREAD {
			if len(entry) < 2 || entry[1].Type != lexer.IDENT {
				return nil, errors.WrapReport(&errors.Report{
					Schema: "sfc.error/v1", Code: errors.PAR007, Phase: "parse",
					Message: "rest element must bind a plain identifier",
				})
			}
			pat.Rest = entry[1].Literal
			continue
		}
		if entry[0].Type != lexer.IDENT {
			return nil, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.PAR007, Phase: "parse",
				Message: "computed destructuring keys are not supported",
			})
		}
		key := entry[0].Literal
		rest := entry[1:]
		prop := ast.PatternProperty{Key: key, Local: key, Shorthand: true}
		if len(rest) > 0 && rest[0].Type == lexer.COLON {
			if len(rest) < 2 || rest[1].Type != lexer.IDENT {
				return nil, errors.WrapReport(&errors.Report{
					Schema: "sfc.error/v1", Code: errors.PAR007, Phase: "parse",
					Message: "nested destructuring patterns are not supported",
				})
			}
			prop.Local = rest[1].Literal
			prop.Shorthand = false
			rest = rest[2:]
		}
		if len(rest) > 0 && rest[0].Type == lexer.ASSIGN {
			def, err := parseExpr(rest[1:], src)
			if err != nil {
				return nil, err
			}
			prop.Default = def
		}
		pat.Properties = append(pat.Properties, prop)
	}
	return pat, nil
}

func parseArrayPattern(tokens []lexer.Token, src string) (*ast.ArrayPattern, error) {
	end := matchBracket(tokens, 0)
	if end < 0 {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR002, Phase: "parse",
			Message: "unterminated array pattern",
		})
	}
	pat := &ast.ArrayPattern{}
	for _, entry := range splitTopLevelCommas(tokens[1:end]) {
		if len(entry) == 0 {
			pat.Elements = append(pat.Elements, nil)
			continue
		}
		if entry[0].Type == lexer.SPREAD && len(entry) > 1 && entry[1].Type == lexer.IDENT {
			pat.Rest = entry[1].Literal
			continue
		}
		el, err := parsePattern(entry, src)
		if err != nil {
			return nil, err
		}
		pat.Elements = append(pat.Elements, el)
	}
	return pat, nil
}

// parseExpr parses the bounded expression grammar a macro call site can
// contain: literals, identifiers, member/call chains, object literals,
// and arrow functions. Anything else is captured verbatim as a
// RawExpression rather than rejected, since most macro arguments (e.g.
// a `default` factory function, or a `defineOptions` value this package
// never inspects) are emitted back out unparsed.
func parseExpr(tokens []lexer.Token, src string) (ast.Node, error) {
	if len(tokens) == 0 {
		return nil, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR001, Phase: "parse",
			Message: "expected an expression",
		})
	}

	if arrow, ok, err := tryParseArrow(tokens, src); ok {
		return arrow, err
	}

	switch tokens[0].Type {
	case lexer.STRING:
		if len(tokens) == 1 {
			return &ast.StringLiteral{Value: tokens[0].Literal}, nil
		}
	case lexer.INT, lexer.FLOAT:
		if len(tokens) == 1 {
			v, _ := strconv.ParseFloat(tokens[0].Literal, 64)
			return &ast.NumericLiteral{Value: v, Text: tokens[0].Literal}, nil
		}
	case lexer.TRUE, lexer.FALSE:
		if len(tokens) == 1 {
			return &ast.BooleanLiteral{Value: tokens[0].Type == lexer.TRUE}, nil
		}
	case lexer.LBRACE:
		if matchBracket(tokens, 0) == len(tokens)-1 {
			return parseObjectExpression(tokens, src)
		}
	case lexer.LBRACKET:
		if matchBracket(tokens, 0) == len(tokens)-1 {
			return parseArrayExpression(tokens, src)
		}
	case lexer.IDENT:
		return parseIdentChain(tokens, src)
	}
	return &ast.RawExpression{Text: rawText(src, tokens)}, nil
}

// tryParseArrow recognizes `(params) => body` and `ident => body` at the
// start of tokens, spanning the whole slice. ok is false when tokens
// does not start with an arrow function, in which case err is always
// nil and the caller falls through to ordinary expression parsing.
func tryParseArrow(tokens []lexer.Token, src string) (ast.Node, bool, error) {
	var params []ast.Node
	var bodyStart int
	if tokens[0].Type == lexer.IDENT && len(tokens) > 1 && tokens[1].Type == lexer.ARROW {
		params = append(params, &ast.Identifier{Name: tokens[0].Literal})
		bodyStart = 2
	} else if tokens[0].Type == lexer.LPAREN {
		end := matchBracket(tokens, 0)
		if end < 0 || end+1 >= len(tokens) || tokens[end+1].Type != lexer.ARROW {
			return nil, false, nil
		}
		for _, entry := range splitTopLevelCommas(tokens[1:end]) {
			if len(entry) == 0 {
				continue
			}
			p, err := parsePattern(entry, src)
			if err != nil {
				return nil, true, err
			}
			params = append(params, p)
		}
		bodyStart = end + 2
	} else {
		return nil, false, nil
	}

	if bodyStart >= len(tokens) {
		return nil, true, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR001, Phase: "parse",
			Message: "arrow function is missing a body",
		})
	}
	bodyTokens := tokens[bodyStart:]
	var body ast.Node
	var err error
	if bodyTokens[0].Type == lexer.LBRACE {
		// A block body is opaque beyond its own brace matching: C3 never
		// needs to inspect statements inside a macro argument's callback.
		body = &ast.RawExpression{Text: rawText(src, bodyTokens)}
	} else {
		body, err = parseExpr(bodyTokens, src)
		if err != nil {
			return nil, true, err
		}
	}
	return &ast.ArrowFunction{Params: params, Body: body}, true, nil
}

func parseIdentChain(tokens []lexer.Token, src string) (ast.Node, error) {
	var node ast.Node = &ast.Identifier{Name: tokens[0].Literal}
	i := 1
	for i < len(tokens) {
		switch tokens[i].Type {
		case lexer.DOT:
			if i+1 >= len(tokens) || tokens[i+1].Type != lexer.IDENT {
				return &ast.RawExpression{Text: rawText(src, tokens)}, nil
			}
			node = &ast.MemberExpression{Object: node, Property: tokens[i+1].Literal}
			i += 2
		case lexer.LPAREN:
			end := matchBracket(tokens, i)
			if end < 0 {
				return &ast.RawExpression{Text: rawText(src, tokens)}, nil
			}
			var args []ast.Node
			for _, entry := range splitTopLevelCommas(tokens[i+1 : end]) {
				if len(entry) == 0 {
					continue
				}
				arg, err := parseExpr(entry, src)
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
			node = &ast.CallExpression{Callee: node, Args: args}
			i = end + 1
		default:
			if i != len(tokens) {
				return &ast.RawExpression{Text: rawText(src, tokens)}, nil
			}
			return node, nil
		}
	}
	return node, nil
}

func parseObjectExpression(tokens []lexer.Token, src string) (*ast.ObjectExpression, error) {
	end := matchBracket(tokens, 0)
	obj := &ast.ObjectExpression{}
	for _, entry := range splitTopLevelCommas(tokens[1:end]) {
		if len(entry) == 0 {
			continue
		}
		if entry[0].Type == lexer.SPREAD {
			val, err := parseExpr(entry[1:], src)
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, ast.ObjectProperty{Spread: true, Value: val})
			continue
		}
		key, computed, keyLen, err := parsePropertyKey(entry, src)
		if err != nil {
			return nil, err
		}
		rest := entry[keyLen:]
		if len(rest) > 0 && rest[0].Type == lexer.COLON {
			val, err := parseExpr(rest[1:], src)
			if err != nil {
				return nil, err
			}
			obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Computed: computed, Value: val})
			continue
		}
		// Shorthand `{x}` or a method shorthand `{fn() {...}}`; the
		// latter's body is opaque (never inspected by any macro this
		// package implements), so it is kept as a raw verbatim value.
		if len(rest) > 0 {
			obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Value: &ast.RawExpression{Text: rawText(src, rest)}})
			continue
		}
		obj.Properties = append(obj.Properties, ast.ObjectProperty{Key: key, Shorthand: true, Value: &ast.Identifier{Name: key}})
	}
	return obj, nil
}

// parseArrayExpression parses `[a, b, ...c]`, the array-literal runtime
// declaration form defineProps/defineEmits accept. A spread entry is kept
// as an opaque RawExpression (including its leading "..."): nothing in
// this package needs to inspect what a spread element contains.
func parseArrayExpression(tokens []lexer.Token, src string) (*ast.ArrayExpression, error) {
	end := matchBracket(tokens, 0)
	arr := &ast.ArrayExpression{}
	for _, entry := range splitTopLevelCommas(tokens[1:end]) {
		if len(entry) == 0 {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		if entry[0].Type == lexer.SPREAD {
			arr.Elements = append(arr.Elements, &ast.RawExpression{Text: rawText(src, entry)})
			continue
		}
		el, err := parseExpr(entry, src)
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
	}
	return arr, nil
}

func parsePropertyKey(entry []lexer.Token, src string) (key string, computed bool, consumed int, err error) {
	switch entry[0].Type {
	case lexer.IDENT, lexer.TRUE, lexer.FALSE, lexer.DEFAULT, lexer.TYPE:
		return entry[0].Literal, false, 1, nil
	case lexer.STRING:
		return entry[0].Literal, false, 1, nil
	case lexer.LBRACKET:
		end := matchBracket(entry, 0)
		if end < 0 {
			return "", false, 0, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.PAR002, Phase: "parse",
				Message: "unterminated computed property key",
			})
		}
		return strings.TrimSpace(rawText(src, entry[1:end])), true, end + 1, nil
	default:
		return "", false, 0, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR001, Phase: "parse",
			Message: "unsupported object-literal property key",
		})
	}
}
