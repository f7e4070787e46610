package sourcefile

import (
	"regexp"
)

// ParseSFC splits raw SFC text into its top-level blocks. The compiler
// treats this scan as the external block parser spec §2 calls out
// ("raw SFC text -> block parser (external) -> {scriptAst, templateAst}");
// it only needs to find block boundaries and attributes, never to parse
// script or template content itself.
var topLevelTagRe = regexp.MustCompile(`(?s)<(script|template|style)([^>]*)>(.*?)</(?:script|template|style)>`)

var attrRe = regexp.MustCompile(`([a-zA-Z0-9_-]+)(?:="([^"]*)")?`)

func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(raw, -1) {
		name := m[1]
		if name == "" {
			continue
		}
		attrs[name] = m[2]
	}
	return attrs
}

func langOf(attrs map[string]string, tag string) Lang {
	if l, ok := attrs["lang"]; ok {
		switch l {
		case "ts":
			return LangTS
		case "tsx":
			return LangTSX
		case "jsx":
			return LangJSX
		}
	}
	if tag == "template" {
		return LangVue
	}
	return LangJS
}

// ParseSFC scans text for top-level <script>/<template>/<style> blocks.
// Custom blocks (any other tag name) are not split out by this minimal
// scanner; a project needing them supplies its own pre-pass, consistent
// with the block parser being an external collaborator (spec §1).
func ParseSFC(text string) *SFCDescriptor {
	d := &SFCDescriptor{}
	for _, loc := range topLevelTagRe.FindAllStringSubmatchIndex(text, -1) {
		tag := text[loc[2]:loc[3]]
		attrsRaw := text[loc[4]:loc[5]]
		contentStart, contentEnd := loc[6], loc[7]
		attrs := parseAttrs(attrsRaw)
		blk := Block{
			Content: text[contentStart:contentEnd],
			Lang:    langOf(attrs, tag),
			Start:   contentStart,
			End:     contentEnd,
			Attrs:   attrs,
		}
		switch tag {
		case "script":
			if _, ok := attrs["setup"]; ok {
				b := blk
				d.ScriptSetup = &b
			} else {
				b := blk
				d.Script = &b
			}
		case "template":
			b := blk
			d.Template = &b
		case "style":
			d.Styles = append(d.Styles, blk)
		}
	}
	return d
}
