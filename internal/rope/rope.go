// Package rope is a piece-table source rewriter over a single string,
// keyed by absolute byte offsets into that string. It supports the five
// operations the script and template transforms need to rewrite a file
// in place without re-parsing it: Overwrite, AppendLeft, Remove,
// Prepend, and ToString, plus source-map emission that preserves every
// untouched byte's original position.
//
// No pack repo ships a rope/piece-table implementation, so the chunk-
// splitting scheme here is new; the operation names and semantics
// (overwrite a range, append text immediately before a position, render
// with ToString) follow the conventional magic-string API this compiler
// family's source rewriting is built on.
package rope

import (
	"sort"
	"strings"
)

// chunk is a contiguous, possibly-edited span of the original source.
// [start, end) always refers to the *original* string; content is what
// actually renders for this span (equal to original[start:end] until an
// Overwrite replaces it, or empty after a Remove).
type chunk struct {
	start, end int
	content    string
	edited     bool
}

// Rope rewrites a single source string via offset-addressed edits. It is
// owned exclusively by the ScriptContext driving one file's transform,
// matching the single-writer assumption spec's shared-resources note
// makes about the rope buffer.
type Rope struct {
	original string
	file     string
	chunks   []*chunk       // sorted, contiguous, covering [0, len(original))
	intros   map[int]string // text inserted immediately before offset pos
	prepend  string
}

// New wraps source for in-place rewriting; file is carried through to
// source-map "sources" entries.
func New(source, file string) *Rope {
	r := &Rope{
		original: source,
		file:     file,
		intros:   make(map[int]string),
	}
	if len(source) > 0 {
		r.chunks = []*chunk{{start: 0, end: len(source), content: source}}
	}
	return r
}

// split ensures a chunk boundary exists exactly at offset, returning the
// index of the first chunk starting at or after offset. offset must fall
// within [0, len(original)].
func (r *Rope) split(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset >= len(r.original) {
		return len(r.chunks)
	}
	i := sort.Search(len(r.chunks), func(i int) bool { return r.chunks[i].end > offset })
	if i == len(r.chunks) {
		return i
	}
	c := r.chunks[i]
	if c.start == offset {
		return i
	}
	if c.edited {
		// Splitting an already-overwritten chunk would silently discard
		// part of its replacement text; callers never overlap edits, so
		// this indicates overlapping Overwrite calls on the same range.
		return i
	}
	left := &chunk{start: c.start, end: offset, content: r.original[c.start:offset]}
	right := &chunk{start: offset, end: c.end, content: r.original[offset:c.end]}
	r.chunks = append(r.chunks[:i], append([]*chunk{left, right}, r.chunks[i+1:]...)...)
	return i + 1
}

// Overwrite replaces the original text in [start, end) with text. The
// replaced range collapses to a single edited chunk; a later Overwrite
// that exactly re-targets [start, end) replaces it again.
func (r *Rope) Overwrite(start, end int, text string) {
	if start == end {
		r.AppendLeft(start, text)
		return
	}
	lo := r.split(start)
	hi := r.split(end)
	r.chunks[lo].content = text
	r.chunks[lo].edited = true
	r.chunks[lo].end = end
	if hi > lo+1 {
		r.chunks = append(r.chunks[:lo+1], r.chunks[hi:]...)
	}
}

// Remove deletes the original text in [start, end), equivalent to
// overwriting it with the empty string.
func (r *Rope) Remove(start, end int) {
	r.Overwrite(start, end, "")
}

// AppendLeft inserts text immediately before offset pos, ahead of
// whatever chunk starts there. Multiple calls at the same pos append in
// call order. split ensures a chunk boundary actually exists at pos so
// ToString has somewhere to render the intro when pos falls strictly
// inside an existing chunk.
func (r *Rope) AppendLeft(pos int, text string) {
	r.split(pos)
	r.intros[pos] += text
}

// Prepend inserts text at the very start of the output, ahead of any
// AppendLeft at offset 0.
func (r *Rope) Prepend(text string) {
	r.prepend = text + r.prepend
}

// ToString renders the current state of every chunk plus inserted text,
// in offset order: an AppendLeft at a chunk's start offset renders
// immediately before that chunk's content.
func (r *Rope) ToString() string {
	var b strings.Builder
	b.WriteString(r.prepend)
	for _, c := range r.chunks {
		if s, ok := r.intros[c.start]; ok {
			b.WriteString(s)
		}
		b.WriteString(c.content)
	}
	if s, ok := r.intros[len(r.original)]; ok {
		b.WriteString(s)
	}
	return b.String()
}

// Original returns the untouched source this Rope was constructed from.
func (r *Rope) Original() string { return r.original }
