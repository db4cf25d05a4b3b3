package metrics_test

import (
	"testing"

	"github.com/petasbytes/sandbox-agent/internal/metrics"
)

func TestCountFeatures(t *testing.T) {
	cases := []struct {
		name string
		in   string
		exp  metrics.Features
	}{
		{"Empty", "", metrics.Features{}},
		{"ASCII", "hello world", metrics.Features{Bytes: 11, Runes: 11, Words: 2, Lines: 1}},
		{"Multibyte", "héllö 世界", metrics.Features{Bytes: 14, Runes: 8, Words: 2, Lines: 1}},
		{"TrailingNewline", "a\nb\n", metrics.Features{Bytes: 4, Runes: 4, Words: 2, Lines: 3}},
		{"CRLF", "a\r\nb\r\nc", metrics.Features{Bytes: 7, Runes: 7, Words: 3, Lines: 3}},
		{"OnlyWhitespace", " \t\n", metrics.Features{Bytes: 3, Runes: 3, Lines: 2}},
		{"NBSP", "foo bar", metrics.Features{Bytes: 8, Runes: 7, Words: 2, Lines: 1}},
		{"ZeroWidthSpace_NoSplit", "foo​bar", metrics.Features{Bytes: 9, Runes: 7, Words: 1, Lines: 1}},
		{"Emoji_Astral", "\U0001F44D\U0001F44D", metrics.Features{Bytes: 8, Runes: 2, Words: 1, Lines: 1}},
		{"FileName", "run main.py please", metrics.Features{Bytes: 18, Runes: 18, Words: 3, Lines: 1, Paths: 1}},
		{"NestedPathQuoted", `read "pkg/render.py".`, metrics.Features{Bytes: 21, Runes: 21, Words: 2, Lines: 1, Paths: 1}},
		{"SentenceEndIsNotExt", "done. ok", metrics.Features{Bytes: 8, Runes: 8, Words: 2, Lines: 1}},
		{"VersionIsNotPath", "v1.2", metrics.Features{Bytes: 4, Runes: 4, Words: 1, Lines: 1}},
		{"Fence", "```\nx\n```", metrics.Features{Bytes: 9, Runes: 9, Words: 3, Lines: 3, Fences: 1}},
		{"UnclosedFence", "```py", metrics.Features{Bytes: 5, Runes: 5, Words: 1, Lines: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := metrics.CountFeatures(tc.in); got != tc.exp {
				t.Fatalf("got %+v, want %+v", got, tc.exp)
			}
		})
	}
}

func TestFeatures_Map(t *testing.T) {
	m := metrics.CountFeatures("fix lib/a.py\n```\nx\n```").Map()
	want := map[string]int{"bytes": 22, "runes": 22, "words": 5, "lines": 4, "paths": 1, "fences": 1}
	if len(m) != len(want) {
		t.Fatalf("unexpected keys: %#v", m)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("%s: got %v want %d", k, m[k], v)
		}
	}
}
