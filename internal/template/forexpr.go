package template

import (
	"fmt"

	"github.com/kinetic-sfc/compiler/internal/ast"
	"github.com/kinetic-sfc/compiler/internal/errors"
	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// ParseForExpression parses a `v-for` directive value (spec §4.5.1):
// `<lhs> (in|of) <rhs>` where `<lhs>` is `value`, `(value, key)`, or
// `(value, key, index)`. raw is the directive value's own text; base
// re-bases every token's offset into the whole SFC file the way
// internal/script's macro scanner re-bases script-block offsets.
func ParseForExpression(raw string, base int, file string) (ast.ForParse, error) {
	tokens := lexer.Tokenize(raw, file)
	tokens = rebase(tokens, base)

	splitAt := -1
	for i, t := range tokens {
		if t.Type == lexer.IN || t.Type == lexer.OF {
			splitAt = i
			break
		}
	}
	if splitAt < 0 {
		return ast.ForParse{}, malformed(raw, base, file, "v-for expression missing 'in'/'of'")
	}
	lhs := tokens[:splitAt]
	rhs := tokens[splitAt+1:]
	if len(rhs) == 0 {
		return ast.ForParse{}, malformed(raw, base, file, "v-for expression has no source after 'in'/'of'")
	}

	if len(lhs) > 0 && lhs[0].Type == lexer.LPAREN && lhs[len(lhs)-1].Type == lexer.RPAREN {
		lhs = lhs[1 : len(lhs)-1]
	}

	var slots [][]lexer.Token
	start := 0
	for i, t := range lhs {
		if t.Type == lexer.COMMA {
			slots = append(slots, lhs[start:i])
			start = i + 1
		}
	}
	slots = append(slots, lhs[start:])
	if len(slots) > 3 {
		return ast.ForParse{}, malformed(raw, base, file, "v-for expression has more than three aliases")
	}

	out := ast.ForParse{
		Source:     sliceSpan(raw, base, spanOf(rhs)),
		SourceSpan: spanOf(rhs),
	}
	names := []struct {
		name *string
		span *ast.Span
	}{
		{&out.Value, &out.ValueSpan},
		{&out.Key, &out.KeySpan},
		{&out.Index, &out.IndexSpan},
	}
	for i, slot := range slots {
		if len(slot) == 0 {
			continue
		}
		if len(slot) != 1 || slot[0].Type != lexer.IDENT {
			return ast.ForParse{}, malformed(raw, base, file, "v-for alias must be a plain identifier")
		}
		*names[i].name = slot[0].Literal
		*names[i].span = tokenSpan(slot[0])
	}
	return out, nil
}

func rebase(tokens []lexer.Token, base int) []lexer.Token {
	out := make([]lexer.Token, len(tokens))
	for i, t := range tokens {
		t.StartOffset += base
		t.EndOffset += base
		out[i] = t
	}
	return out
}

func tokenSpan(t lexer.Token) ast.Span {
	return ast.Span{
		Start: ast.Pos{Offset: t.StartOffset, Line: t.Line, Column: t.Column},
		End:   ast.Pos{Offset: t.EndOffset, Line: t.Line, Column: t.Column + (t.EndOffset - t.StartOffset)},
		File:  t.File,
	}
}

func spanOf(tokens []lexer.Token) ast.Span {
	if len(tokens) == 0 {
		return ast.Span{}
	}
	first, last := tokenSpan(tokens[0]), tokenSpan(tokens[len(tokens)-1])
	first.End = last.End
	return first
}

// sliceSpan recovers sp's exact original text from raw, undoing the
// +base rebase applied to every token offset, so a multi-token source
// expression (e.g. `list.filter(x => x.a)`) keeps its original spacing
// instead of being re-joined from token literals.
func sliceSpan(raw string, base int, sp ast.Span) string {
	if sp.Start.Offset == 0 && sp.End.Offset == 0 {
		return ""
	}
	start, end := sp.Start.Offset-base, sp.End.Offset-base
	if start < 0 || end > len(raw) || start > end {
		return ""
	}
	return raw[start:end]
}

func malformed(raw string, base int, file string, msg string) error {
	sp := ast.Span{
		Start: ast.Pos{Offset: base},
		End:   ast.Pos{Offset: base + len(raw)},
		File:  file,
	}
	return errors.WrapReport(&errors.Report{
		Schema:  "sfc.error/v1",
		Code:    errors.PAR004,
		Phase:   "parse",
		Message: fmt.Sprintf("%s: %q", msg, raw),
		Span:    &sp,
	})
}
