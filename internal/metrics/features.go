// Package metrics derives content-free measurements from prompt text. Only
// counts leave this package; the text itself is never recorded.
package metrics

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Features summarises one user prompt.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
	// Paths counts words that look like file paths: they contain a slash or
	// end in a file extension.
	Paths int
	// Fences counts complete ``` code blocks.
	Fences int
}

func CountFeatures(s string) Features {
	words := strings.Fields(s)
	f := Features{
		Bytes:  len(s),
		Runes:  utf8.RuneCountInString(s),
		Words:  len(words),
		Fences: strings.Count(s, "```") / 2,
	}
	if s != "" {
		f.Lines = 1 + strings.Count(s, "\n")
	}
	for _, w := range words {
		if pathLike(w) {
			f.Paths++
		}
	}
	return f
}

// Map returns the counts keyed the way telemetry events spell them.
func (f Features) Map() map[string]any {
	return map[string]any{
		"bytes":  f.Bytes,
		"runes":  f.Runes,
		"words":  f.Words,
		"lines":  f.Lines,
		"paths":  f.Paths,
		"fences": f.Fences,
	}
}

func pathLike(w string) bool {
	w = strings.TrimFunc(w, func(r rune) bool {
		return strings.ContainsRune("\"'`()[],;:?!", r)
	})
	w = strings.TrimRight(w, ".")
	if w == "" {
		return false
	}
	if strings.Contains(w, "/") {
		return true
	}
	ext := filepath.Ext(w)
	if len(ext) < 2 || len(ext) == len(w) {
		return false
	}
	// Extensions start with a letter, so "v1.2" is not a path.
	for i, r := range ext[1:] {
		if !unicode.IsLetter(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
