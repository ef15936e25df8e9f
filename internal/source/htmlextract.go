// internal/source/htmlextract.go
package source

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// Segment is one inline <script> body extracted from an HTML document,
// carrying the offsets needed to map diagnostic positions and fix edits
// back into the enclosing document.
type Segment struct {
	Source []byte
	// ByteOffset locates Source within the document.
	ByteOffset int
	// LineOffset counts newlines before ByteOffset; add it to a 1-based
	// line inside the segment to get the document line.
	LineOffset int
	// ColumnOffset is the 0-based byte column of the segment start,
	// applied only to positions on the segment's first line.
	ColumnOffset int
}

// lintableScriptTypes hold JavaScript the rule set understands. An absent
// type attribute means classic script.
var lintableScriptTypes = map[string]bool{
	"":                       true,
	"text/javascript":        true,
	"application/javascript": true,
	"module":                 true,
}

// ExtractScripts tokenizes an HTML document and returns the inline script
// bodies. The tokenizer hands back exact input slices, so document offsets
// are recovered by summing raw token lengths.
func ExtractScripts(doc []byte) []Segment {
	tokenizer := html.NewTokenizer(bytes.NewReader(doc))

	var segments []Segment
	offset := 0
	inScript := false

	for {
		tokenType := tokenizer.Next()
		if tokenType == html.ErrorToken {
			return segments
		}
		raw := tokenizer.Raw()

		switch tokenType {
		case html.StartTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) == "script" {
				inScript = scriptIsLintable(tokenizer, hasAttr)
			}

		case html.TextToken:
			if inScript && len(bytes.TrimSpace(raw)) > 0 {
				segments = append(segments, Segment{
					Source:       append([]byte(nil), raw...),
					ByteOffset:   offset,
					LineOffset:   bytes.Count(doc[:offset], []byte{'\n'}),
					ColumnOffset: columnAt(doc, offset),
				})
			}

		case html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "script" {
				inScript = false
			}
		}

		offset += len(raw)
	}
}

// scriptIsLintable inspects the tag attributes: external scripts (src) have
// no body to lint, and non-JS types (JSON payloads, templates) are skipped.
func scriptIsLintable(tokenizer *html.Tokenizer, hasAttr bool) bool {
	lintable := true
	for hasAttr {
		var key, val []byte
		key, val, hasAttr = tokenizer.TagAttr()
		switch string(key) {
		case "type":
			if !lintableScriptTypes[strings.ToLower(strings.TrimSpace(string(val)))] {
				lintable = false
			}
		case "src":
			lintable = false
		}
	}
	return lintable
}

func columnAt(doc []byte, offset int) int {
	lineStart := 0
	if idx := bytes.LastIndexByte(doc[:offset], '\n'); idx >= 0 {
		lineStart = idx + 1
	}
	return offset - lineStart
}
