package script

import (
	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
	"github.com/kinetic-sfc/compiler/internal/tsparser"
)

// Options gates macros whose availability is configurable (spec §6).
type Options struct {
	AllowDefineModel bool
}

var macroNames = map[string]bool{
	"defineProps":   true,
	"defineEmits":   true,
	"defineModel":   true,
	"defineExpose":  true,
	"defineOptions": true,
	"defineSlots":   true,
	"withDefaults":  true,
}

// macroCall is one recognized `macroName<T>(args...)` call site.
type macroCall struct {
	Name    string
	TypeArg ast.TypeNode
	Args    []ast.Node

	// WithDefaultsProps/WithDefaultsDefaults are populated only when
	// Name == "withDefaults": its first argument must itself be a
	// type-based defineProps call, never an ordinary expression
	// (spec §4.3).
	WithDefaultsProps    *macroCall
	WithDefaultsDefaults ast.Node

	StartOffset, EndOffset int
}

// matchMacroCall recognizes tokens as macroName<T>(args), spanning the
// entire slice. ok is false (err nil) when tokens is not shaped like a
// macro call at all, so callers can fall through to treating the
// statement as ordinary script code rather than raising a parse error.
func matchMacroCall(tokens []lexer.Token, src, file string) (*macroCall, bool, error) {
	if len(tokens) == 0 || tokens[0].Type != lexer.IDENT || !macroNames[tokens[0].Literal] {
		return nil, false, nil
	}
	name := tokens[0].Literal
	i := 1
	var typeArg ast.TypeNode
	if i < len(tokens) && tokens[i].Type == lexer.LT {
		end := matchBracket(tokens, i)
		if end < 0 {
			return nil, true, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.PAR002, Phase: "parse",
				Message: name + " has an unterminated type argument",
			})
		}
		t, err := tsparser.ParseTypeExpression(rawText(src, tokens[i+1:end]), file)
		if err != nil {
			return nil, true, err
		}
		typeArg = t
		i = end + 1
	}
	if i >= len(tokens) || tokens[i].Type != lexer.LPAREN {
		return nil, false, nil
	}
	end := matchBracket(tokens, i)
	if end < 0 {
		return nil, true, errors.WrapReport(&errors.Report{
			Schema: "sfc.error/v1", Code: errors.PAR002, Phase: "parse",
			Message: name + " call is missing a closing parenthesis",
		})
	}
	if end != len(tokens)-1 {
		return nil, false, nil
	}

	call := &macroCall{
		Name:        name,
		TypeArg:     typeArg,
		StartOffset: tokens[0].StartOffset,
		EndOffset:   tokens[end].EndOffset,
	}
	argGroups := splitTopLevelCommas(tokens[i+1 : end])

	if name == "withDefaults" {
		if len(argGroups) != 2 {
			return nil, true, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.MAC003, Phase: "macro",
				Message: "withDefaults requires exactly a defineProps<T>() call and a defaults object",
			})
		}
		nested, ok, err := matchMacroCall(argGroups[0], src, file)
		if err != nil {
			return nil, true, err
		}
		if !ok || nested.Name != "defineProps" || nested.TypeArg == nil {
			return nil, true, errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.MAC003, Phase: "macro",
				Message: "withDefaults is only valid wrapping a type-based defineProps<T>() call",
			})
		}
		defaults, err := parseExpr(argGroups[1], src)
		if err != nil {
			return nil, true, err
		}
		call.WithDefaultsProps = nested
		call.WithDefaultsDefaults = defaults
		return call, true, nil
	}

	for _, entry := range argGroups {
		if len(entry) == 0 {
			continue
		}
		arg, err := parseExpr(entry, src)
		if err != nil {
			return nil, true, err
		}
		call.Args = append(call.Args, arg)
	}
	return call, true, nil
}

// Walk performs C3's one-pass walk of script-setup top-level statements,
// dispatching every recognized macro call into ctx (spec §4.3
// "Contract"). A statement that is not a macro call, nor a var-decl
// wrapping one, is left entirely alone.
func Walk(ctx *ScriptContext, opts Options) error {
	tokens := lexer.Tokenize(ctx.Source, ctx.File)
	for _, stmt := range splitStatements(tokens, ctx.Source, ctx.File) {
		if err := walkStatement(ctx, opts, stmt); err != nil {
			return err
		}
	}
	return nil
}

func walkStatement(ctx *ScriptContext, opts Options, stmt statement) error {
	tokens := stmt.tokens
	if len(tokens) == 0 {
		return nil
	}

	var declName string
	var declPattern ast.Node
	rhs := tokens
	switch tokens[0].Type {
	case lexer.CONST, lexer.LET, lexer.VAR:
		assignIdx := findTopLevelAssign(tokens[1:])
		if assignIdx < 0 {
			return nil
		}
		patternTokens := tokens[1 : 1+assignIdx]
		rhs = tokens[1+assignIdx+1:]
		pat, err := parsePattern(patternTokens, stmt.src)
		if err != nil {
			return err
		}
		declPattern = pat
		if id, ok := pat.(*ast.Identifier); ok {
			declName = id.Name
		}
	}

	call, ok, err := matchMacroCall(rhs, stmt.src, stmt.file)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := dispatchMacro(ctx, opts, call, declName, declPattern); err != nil {
		return err
	}
	if _, isObjPat := declPattern.(*ast.ObjectPattern); isObjPat &&
		(call.Name == "defineProps" || call.Name == "withDefaults") {
		recordDestructureStmtRange(ctx, tokens, stmt.src)
	}
	return nil
}

// recordDestructureStmtRange stores the whole declaration statement's
// byte range so C4 can delete it once every destructured-prop reference
// has been rewritten in place (spec §4.4's rewrite leaves no local
// variable behind to declare).
func recordDestructureStmtRange(ctx *ScriptContext, tokens []lexer.Token, src string) {
	start := tokens[0].StartOffset
	end := tokens[len(tokens)-1].EndOffset
	if end < len(src) && src[end] == ';' {
		end++
	}
	ctx.PropsDestructureStmtStart = start
	ctx.PropsDestructureStmtEnd = end
}

func findTopLevelAssign(tokens []lexer.Token) int {
	depth := 0
	for i, t := range tokens {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth--
		case lexer.ASSIGN:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func dispatchMacro(ctx *ScriptContext, opts Options, call *macroCall, declName string, declPattern ast.Node) error {
	switch call.Name {
	case "defineProps":
		return handleDefineProps(ctx, call, declName, declPattern)
	case "withDefaults":
		return handleWithDefaults(ctx, call, declName, declPattern)
	case "defineEmits":
		return handleDefineEmits(ctx, call, declName)
	case "defineModel":
		return handleDefineModel(ctx, opts, call, declName)
	case "defineExpose":
		return handleDefineExpose(ctx)
	case "defineOptions":
		return handleDefineOptions(ctx, call)
	case "defineSlots":
		return handleDefineSlots(ctx, call)
	default:
		return nil
	}
}
