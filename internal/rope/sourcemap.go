package rope

import (
	"encoding/json"
	"strings"
)

// SourceMap is a minimal Source Map V3 document: one source, inline
// sourcesContent, and a mappings string built from VLQ-encoded segments.
// internal/codegen emits this alongside the rewritten script; tests
// decode it with go-sourcemap/sourcemap to confirm round-trip fidelity.
type SourceMap struct {
	Version        int      `json:"version"`
	Sources        []string `json:"sources"`
	SourcesContent []string `json:"sourcesContent"`
	Names          []string `json:"names"`
	Mappings       string   `json:"mappings"`
}

// GenerateMap renders the Rope's output and a source map describing
// which generated byte ranges correspond to untouched original bytes.
// Edited (Overwrite/Remove) chunks and inserted text have no faithful
// origin and are left unmapped, matching every original byte's position
// being "preserved" rather than invented (spec §9's rope requirement).
func (r *Rope) GenerateMap() (string, *SourceMap) {
	lineStarts := computeLineStarts(r.original)

	var out strings.Builder
	out.WriteString(r.prepend)

	var segs []segment
	genLine, genCol := 0, 0
	advanceGen := func(s string) {
		for _, ch := range s {
			if ch == '\n' {
				genLine++
				genCol = 0
			} else {
				genCol++
			}
		}
	}
	advanceGen(r.prepend)

	for _, c := range r.chunks {
		if s, ok := r.intros[c.start]; ok {
			out.WriteString(s)
			advanceGen(s)
		}
		if !c.edited {
			// Emit a segment at the chunk's start, then one more at the
			// start of every line the chunk's content itself contains,
			// so a generated line wholly inside an unedited chunk still
			// resolves to its original line rather than falling back to
			// the chunk's first line.
			origLine, origCol := lineColAt(lineStarts, c.start)
			segs = append(segs, segment{genLine: genLine, genCol: genCol, origLine: origLine, origCol: origCol})
			linesWithin := 0
			for i, ch := range c.content {
				if ch == '\n' {
					linesWithin++
					origLine, origCol = lineColAt(lineStarts, c.start+i+1)
					segs = append(segs, segment{genLine: genLine + linesWithin, genCol: 0, origLine: origLine, origCol: origCol})
				}
			}
		}
		out.WriteString(c.content)
		advanceGen(c.content)
	}
	if s, ok := r.intros[len(r.original)]; ok {
		out.WriteString(s)
	}

	sm := &SourceMap{
		Version:        3,
		Sources:        []string{r.file},
		SourcesContent: []string{r.original},
		Names:          []string{},
		Mappings:       encodeMappings(segs),
	}
	return out.String(), sm
}

// ToJSON marshals a SourceMap to its standard JSON document form.
func (sm *SourceMap) ToJSON() (string, error) {
	b, err := json.Marshal(sm)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type segment struct {
	genLine, genCol   int
	origLine, origCol int
}

func computeLineStarts(s string) []int {
	starts := []int{0}
	for i, ch := range s {
		if ch == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineColAt returns the 0-based (line, column) of byte offset into the
// source whose line-start table is starts.
func lineColAt(starts []int, offset int) (int, int) {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - starts[lo]
}

// encodeMappings builds a V3 "mappings" string: one line's segments
// joined by ',', lines joined by ';', each segment VLQ-encoding
// [generatedColumn, sourceIndex, originalLine, originalColumn] relative
// to the previous segment's fields (absolute for generatedColumn reset
// per line, per the spec's delta encoding).
func encodeMappings(segs []segment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	prevGenLine := 0
	prevGenCol := 0
	prevOrigLine := 0
	prevOrigCol := 0
	atLineStart := true

	for _, s := range segs {
		for prevGenLine < s.genLine {
			b.WriteByte(';')
			prevGenLine++
			prevGenCol = 0
			atLineStart = true
		}
		if !atLineStart {
			b.WriteByte(',')
		}
		atLineStart = false
		writeVLQ(&b, s.genCol-prevGenCol)
		writeVLQ(&b, 0) // sourceIndex delta: always source 0
		writeVLQ(&b, s.origLine-prevOrigLine)
		writeVLQ(&b, s.origCol-prevOrigCol)
		prevGenCol = s.genCol
		prevOrigLine = s.origLine
		prevOrigCol = s.origCol
	}
	return b.String()
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// writeVLQ base64-VLQ encodes a signed integer per the Source Map V3
// spec: the sign occupies the low bit, and each 5-bit group's high bit
// signals continuation.
func writeVLQ(b *strings.Builder, n int) {
	v := n << 1
	if n < 0 {
		v = (-n << 1) | 1
	}
	for {
		digit := v & 0x1f
		v >>= 5
		if v > 0 {
			digit |= 0x20
		}
		b.WriteByte(base64Chars[digit])
		if v == 0 {
			break
		}
	}
}
