// Package sourcefile loads SFC text and splits it into the block
// structure the rest of the compiler consumes (spec §3 SourceFile, §6
// "Input SFC block structure").
package sourcefile

import (
	"os"
	"strings"

	"github.com/kinetic-sfc/compiler/internal/lexer"
)

// Lang is the detected source language of a block or whole file.
type Lang string

const (
	LangJS  Lang = "js"
	LangTS  Lang = "ts"
	LangJSX Lang = "jsx"
	LangTSX Lang = "tsx"
	LangVue Lang = "vue"
)

// Block is one `<script>`, `<script setup>`, `<template>`, `<style>`, or
// custom block extracted from an SFC. Start/End are byte offsets into the
// whole (normalized) SFC text, so any span computed while parsing Content
// can be re-based by adding Start.
type Block struct {
	Content string
	Lang    Lang
	Start   int
	End     int
	Attrs   map[string]string
}

// SFCDescriptor is the parsed block structure of one `.vue` file (spec
// §6's external block parser output).
type SFCDescriptor struct {
	Script       *Block
	ScriptSetup  *Block
	Template     *Block
	Styles       []Block
	CustomBlocks []Block
}

// SourceFile is immutable after Load: absolute path, normalized source
// text, detected language, and — for `.vue` input — its parsed block
// structure.
type SourceFile struct {
	Path     string
	Text     string
	Lang     Lang
	SFC      *SFCDescriptor // nil unless Lang == LangVue
}

// FS abstracts file access so cross-file type resolution works the same
// way against the real filesystem or an in-memory/browser-hosted virtual
// one (spec §6 `fs: {fileExists, readFile}`).
type FS interface {
	FileExists(path string) bool
	ReadFile(path string) (string, error)
}

// OSFS implements FS against the real filesystem.
type OSFS struct{}

func (OSFS) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (OSFS) ReadFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(lexer.Normalize(b)), nil
}

// DetectLang infers a language from a file extension.
func DetectLang(path string) Lang {
	switch {
	case strings.HasSuffix(path, ".vue"):
		return LangVue
	case strings.HasSuffix(path, ".tsx"):
		return LangTSX
	case strings.HasSuffix(path, ".ts"):
		return LangTS
	case strings.HasSuffix(path, ".jsx"):
		return LangJSX
	default:
		return LangJS
	}
}

// Load reads path through fs, normalizes it, and — if it is a `.vue`
// file — splits it into blocks.
func Load(path string, fs FS) (*SourceFile, error) {
	text, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lang := DetectLang(path)
	sf := &SourceFile{Path: path, Text: text, Lang: lang}
	if lang == LangVue {
		sf.SFC = ParseSFC(text)
	}
	return sf, nil
}

// ScriptText concatenates the `<script>` and `<script setup>` block
// contents with enough intervening whitespace to preserve the original
// byte offsets, so a span computed while parsing the concatenation maps
// straight back to the original SFC (spec §4.1 step 1).
func (d *SFCDescriptor) ScriptText() (text string, baseOffset int) {
	var b strings.Builder
	start := -1
	write := func(blk *Block) {
		if blk == nil {
			return
		}
		if start == -1 {
			start = blk.Start
		}
		for b.Len() < blk.Start-start {
			b.WriteByte(' ')
		}
		b.WriteString(blk.Content)
	}
	write(d.Script)
	write(d.ScriptSetup)
	if start == -1 {
		return "", 0
	}
	return b.String(), start
}
