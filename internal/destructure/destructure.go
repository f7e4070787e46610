// Package destructure implements C4: rewriting every reference to a
// destructured defineProps() binding into a property access on
// __props, so the binding stays reactive instead of capturing its
// value once at destructure time (spec §4.4).
//
// It reuses internal/script's bounded statement/expression grammar
// (internal/script.ParsePattern, SplitTopLevelCommas, MatchBracket)
// rather than re-implementing destructuring syntax, and walks the raw
// internal/lexer token stream directly: the lexer is deliberately
// scoped to type-expression and directive-expression grammar (see its
// package doc) and does not tokenize general JS control-flow keywords
// (for, catch, ...) distinctly from identifiers, so this package
// recognizes those by literal text the same way a hand-rolled TS
// scanner would.
package destructure

import (
	"fmt"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
	"github.com/kinetic-sfc/compiler/internal/scope"
	"github.com/kinetic-sfc/compiler/internal/script"
)

// exprFrame shadows names for an arrow function's expression body (one
// without braces), which has no matching RBRACE to pop on. It pops once
// the walk's bracket depth drops below depthAtPush, or a top-level
// comma/semicolon is seen at depthAtPush itself (spec §4.4 step
// 3: "entering a function... pushes a scope").
type exprFrame struct {
	names       map[string]bool
	depthAtPush int
}

type walker struct {
	ctx        *script.ScriptContext
	sc         *scope.Scope
	localToKey map[string]string

	braceStack []map[string]bool
	exprStack  []exprFrame
	depth      int
	pendingSeed []string
}

// Rewrite performs C4 over ctx (spec §4.4). It is a no-op when
// defineProps's result was never destructured.
func Rewrite(ctx *script.ScriptContext, sc *scope.Scope) error {
	if ctx.PropsDestructureDecl == nil {
		return nil
	}
	localToKey := make(map[string]string, len(ctx.PropsDestructuredBindings))
	for key, b := range ctx.PropsDestructuredBindings {
		localToKey[b.Local] = key
	}

	w := &walker{
		ctx:        ctx,
		sc:         sc,
		localToKey: localToKey,
		braceStack: []map[string]bool{{}},
	}
	tokens := lexer.Tokenize(ctx.Source, ctx.File)
	if err := w.run(tokens); err != nil {
		return err
	}
	if ctx.PropsDestructureStmtStart >= 0 {
		ctx.Rope.Remove(ctx.PropsDestructureStmtStart, ctx.PropsDestructureStmtEnd)
	}
	return nil
}

func (w *walker) run(tokens []lexer.Token) error {
	src := w.ctx.Source
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		for len(w.exprStack) > 0 {
			top := w.exprStack[len(w.exprStack)-1]
			if w.depth == top.depthAtPush && (t.Type == lexer.COMMA || t.Type == lexer.SEMICOLON) {
				w.exprStack = w.exprStack[:len(w.exprStack)-1]
				continue
			}
			break
		}

		switch t.Type {
		case lexer.LPAREN, lexer.LBRACKET:
			w.depth++

		case lexer.LBRACE:
			w.depth++
			seed := toSet(w.pendingSeed)
			w.pendingSeed = nil
			w.braceStack = append(w.braceStack, seed)

		case lexer.RBRACE:
			w.depth--
			w.popExprFramesAbove(w.depth)
			if len(w.braceStack) > 1 {
				w.braceStack = w.braceStack[:len(w.braceStack)-1]
			}

		case lexer.RPAREN, lexer.RBRACKET:
			w.depth--
			w.popExprFramesAbove(w.depth)

		case lexer.CONST, lexer.LET, lexer.VAR:
			if t.StartOffset == w.ctx.PropsDestructureStmtStart {
				i = skipStatement(tokens, i, w.ctx.PropsDestructureStmtEnd)
				continue
			}
			end := declEnd(tokens[i+1:])
			if pat, err := script.ParsePattern(stripDefault(tokens[i+1:i+1+end]), src); err == nil {
				w.addNames(collectPatternNames(pat))
			}
			i += end

		case lexer.FUNCTION:
			i = w.handleFunction(tokens, i, src)

		case lexer.ARROW:
			w.handleArrow(tokens, i, src)

		case lexer.IDENT:
			switch t.Literal {
			case "catch":
				if j, ok := w.handleCatch(tokens, i, src); ok {
					i = j
					continue
				}
			case "for":
				if j, ok := w.handleFor(tokens, i, src); ok {
					i = j
					continue
				}
			}
			if err := w.handleIdent(tokens, i); err != nil {
				return err
			}
		}
	}
	return nil
}

// handleIdent rewrites a single identifier reference (spec §4.4 step
// 4), or reports the errors steps 5-6 describe.
func (w *walker) handleIdent(tokens []lexer.Token, i int) error {
	t := tokens[i]
	if w.sc != nil {
		if imp, ok := w.sc.Imports[t.Literal]; ok && imp.Source == "vue" && (imp.Imported == "watch" || imp.Imported == "toRef") {
			if err := w.checkReactivityLoss(tokens, i); err != nil {
				return err
			}
		}
	}

	key, bound := w.localToKey[t.Literal]
	if !bound || w.shadowed(t.Literal) {
		return nil
	}
	prevIdx, nextIdx := prevSignificant(tokens, i), nextSignificant(tokens, i)
	var prev, next *lexer.Token
	if prevIdx >= 0 {
		prev = &tokens[prevIdx]
	}
	if nextIdx >= 0 {
		next = &tokens[nextIdx]
	}
	if next != nil && next.Type == lexer.ARROW {
		// `foo => ...` introduces an arrow parameter, not a reference.
		return nil
	}

	switch {
	case isPropertyKeyPosition(prev) && next != nil && next.Type == lexer.COLON:
		// `{ foo: ... }` - foo is the literal object/pattern key, left untouched.
	case isPropertyKeyPosition(prev) && next != nil && (next.Type == lexer.COMMA || next.Type == lexer.RBRACE):
		// shorthand property: `{ foo }` -> `{ foo: __props.foo }`.
		w.ctx.Rope.AppendLeft(t.EndOffset, ": __props."+key)
	default:
		if next != nil && next.Type == lexer.ASSIGN {
			return errors.WrapReport(&errors.Report{
				Schema: "sfc.error/v1", Code: errors.MAC005, Phase: "macro",
				Message: fmt.Sprintf("cannot assign to destructured prop %q", t.Literal),
			})
		}
		w.ctx.Rope.Overwrite(t.StartOffset, t.EndOffset, "__props."+key)
	}
	return nil
}

// checkReactivityLoss implements spec §4.4 step 6: watch/toRef's first
// argument losing reactivity when it is exactly a bare destructured prop
// reference.
func (w *walker) checkReactivityLoss(tokens []lexer.Token, callerIdx int) error {
	open := nextSignificant(tokens, callerIdx)
	if open < 0 || tokens[open].Type != lexer.LPAREN {
		return nil
	}
	end := script.MatchBracket(tokens, open)
	if end < 0 {
		return nil
	}
	groups := script.SplitTopLevelCommas(tokens[open+1 : end])
	if len(groups) == 0 || len(groups[0]) != 1 || groups[0][0].Type != lexer.IDENT {
		return nil
	}
	name := groups[0][0].Literal
	if _, ok := w.localToKey[name]; !ok || w.shadowed(name) {
		return nil
	}
	return errors.WrapReport(&errors.Report{
		Schema: "sfc.error/v1", Code: errors.MAC006, Phase: "macro",
		Message: fmt.Sprintf("%s(%s, ...) loses reactivity on a destructured prop; pass a getter instead", tokens[callerIdx].Literal, name),
	})
}

func isPropertyKeyPosition(prev *lexer.Token) bool {
	return prev != nil && (prev.Type == lexer.LBRACE || prev.Type == lexer.COMMA)
}

func (w *walker) handleFunction(tokens []lexer.Token, i int, src string) int {
	j := i + 1
	if j < len(tokens) && tokens[j].Type == lexer.IDENT {
		j++
	}
	if j >= len(tokens) || tokens[j].Type != lexer.LPAREN {
		return i
	}
	closeParen := script.MatchBracket(tokens, j)
	if closeParen < 0 {
		return i
	}
	w.pendingSeed = paramNames(tokens[j+1:closeParen], src)
	k := closeParen + 1
	for k < len(tokens) && tokens[k].Type != lexer.LBRACE && k < closeParen+40 {
		k++
	}
	return k - 1
}

func (w *walker) handleArrow(tokens []lexer.Token, i int, src string) {
	var names []string
	if i > 0 && tokens[i-1].Type == lexer.RPAREN {
		if open := matchBracketBackward(tokens, i-1); open >= 0 {
			names = paramNames(tokens[open+1:i-1], src)
		}
	} else if i > 0 && tokens[i-1].Type == lexer.IDENT {
		names = []string{tokens[i-1].Literal}
	}
	if i+1 < len(tokens) && tokens[i+1].Type == lexer.LBRACE {
		w.pendingSeed = names
		return
	}
	w.exprStack = append(w.exprStack, exprFrame{names: toSet(names), depthAtPush: w.depth})
}

func (w *walker) handleCatch(tokens []lexer.Token, i int, src string) (int, bool) {
	if i+1 >= len(tokens) || tokens[i+1].Type != lexer.LPAREN {
		return i, false
	}
	close := script.MatchBracket(tokens, i+1)
	if close < 0 {
		return i, false
	}
	inner := tokens[i+2 : close]
	var names []string
	if len(inner) > 0 {
		if pat, err := script.ParsePattern(inner, src); err == nil {
			names = collectPatternNames(pat)
		}
	}
	w.pendingSeed = names
	return close, true
}

func (w *walker) handleFor(tokens []lexer.Token, i int, src string) (int, bool) {
	if i+1 >= len(tokens) || tokens[i+1].Type != lexer.LPAREN {
		return i, false
	}
	close := script.MatchBracket(tokens, i+1)
	if close < 0 {
		return i, false
	}
	w.pendingSeed = forHeaderNames(tokens[i+2:close], src)
	return close, true
}

func (w *walker) addNames(names []string) {
	if len(names) == 0 {
		return
	}
	if len(w.exprStack) > 0 {
		top := w.exprStack[len(w.exprStack)-1]
		for _, n := range names {
			top.names[n] = true
		}
		return
	}
	top := w.braceStack[len(w.braceStack)-1]
	for _, n := range names {
		top[n] = true
	}
}

func (w *walker) shadowed(name string) bool {
	for i := len(w.exprStack) - 1; i >= 0; i-- {
		if w.exprStack[i].names[name] {
			return true
		}
	}
	for i := len(w.braceStack) - 1; i >= 0; i-- {
		if w.braceStack[i][name] {
			return true
		}
	}
	return false
}

func (w *walker) popExprFramesAbove(newDepth int) {
	for len(w.exprStack) > 0 && w.exprStack[len(w.exprStack)-1].depthAtPush > newDepth {
		w.exprStack = w.exprStack[:len(w.exprStack)-1]
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

func collectPatternNames(n ast.Node) []string {
	switch v := n.(type) {
	case *ast.Identifier:
		return []string{v.Name}
	case *ast.ObjectPattern:
		var names []string
		for _, p := range v.Properties {
			names = append(names, p.Local)
		}
		if v.Rest != "" {
			names = append(names, v.Rest)
		}
		return names
	case *ast.ArrayPattern:
		var names []string
		for _, el := range v.Elements {
			names = append(names, collectPatternNames(el)...)
		}
		if v.Rest != "" {
			names = append(names, v.Rest)
		}
		return names
	default:
		return nil
	}
}

// paramNames extracts the bound names from a comma-separated parameter
// list, stripping default-value expressions (spec §4.4 step 3's
// "function params" shadowing source). A parameter's own default-value
// expression is not walked for prop references: a narrower scope than a
// full parser would cover, accepted the same way this package's other
// bounded scans are.
func paramNames(tokens []lexer.Token, src string) []string {
	var names []string
	for _, group := range script.SplitTopLevelCommas(tokens) {
		group = stripDefault(group)
		if len(group) == 0 {
			continue
		}
		if group[0].Type == lexer.SPREAD {
			group = group[1:]
		}
		if len(group) == 0 {
			continue
		}
		pat, err := script.ParsePattern(group, src)
		if err != nil {
			continue
		}
		names = append(names, collectPatternNames(pat)...)
	}
	return names
}

func stripDefault(tokens []lexer.Token) []lexer.Token {
	depth := 0
	for i, t := range tokens {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth--
		case lexer.ASSIGN:
			if depth == 0 {
				return tokens[:i]
			}
		}
	}
	return tokens
}

func declEnd(tokens []lexer.Token) int {
	depth := 0
	for i, t := range tokens {
		switch t.Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth--
		case lexer.ASSIGN, lexer.SEMICOLON, lexer.COMMA:
			if depth == 0 {
				return i
			}
		}
	}
	return len(tokens)
}

// forHeaderNames binds a for-of/for-in pattern, or a classic
// three-clause loop's initializer, to the loop body (spec §4.4 step 3's
// "for-of bindings").
func forHeaderNames(tokens []lexer.Token, src string) []string {
	start := 0
	if len(tokens) > 0 && (tokens[0].Type == lexer.CONST || tokens[0].Type == lexer.LET || tokens[0].Type == lexer.VAR) {
		start = 1
	}
	depth := 0
	for i := start; i < len(tokens); i++ {
		switch tokens[i].Type {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth--
		case lexer.OF, lexer.IN:
			if depth == 0 {
				if pat, err := script.ParsePattern(tokens[start:i], src); err == nil {
					return collectPatternNames(pat)
				}
				return nil
			}
		case lexer.SEMICOLON:
			if depth == 0 {
				if pat, err := script.ParsePattern(stripDefault(tokens[start:i]), src); err == nil {
					return collectPatternNames(pat)
				}
				return nil
			}
		}
	}
	return nil
}

func matchBracketBackward(tokens []lexer.Token, closeIdx int) int {
	depth := 0
	for i := closeIdx; i >= 0; i-- {
		switch tokens[i].Type {
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			depth++
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func prevSignificant(tokens []lexer.Token, i int) int {
	for j := i - 1; j >= 0; j-- {
		if tokens[j].Type != lexer.COMMENT {
			return j
		}
	}
	return -1
}

func nextSignificant(tokens []lexer.Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].Type != lexer.COMMENT {
			return j
		}
	}
	return -1
}

// skipStatement returns the index of the last token belonging to the
// props-destructure declaration itself (by its recorded end offset), so
// the walk doesn't shadow its pattern names or chase references inside
// the defineProps(...)/withDefaults(...) call it assigns from.
func skipStatement(tokens []lexer.Token, i, end int) int {
	j := i
	for j < len(tokens) && tokens[j].StartOffset < end {
		j++
	}
	return j - 1
}
