package ui

import (
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	tests := map[string]struct {
		content string
		width   int
		want    string
	}{
		"short content":        {content: "hello", width: 10, want: "hello"},
		"newlines flattened":   {content: "a\n  b\tc", width: 0, want: "a b c"},
		"truncated":            {content: "hello world", width: 6, want: "hello…"},
		"wide runes truncated": {content: "日本語テキスト", width: 7, want: "日本語…"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Preview(tt.content, tt.width); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.content, tt.width, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("日", 4); got != "日  " {
		t.Errorf("PadRight wide = %q", got)
	}
}

func TestContentDiff_NoColor(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tests := map[string]struct {
		old, new string
		want     string
	}{
		"identical":  {old: "same", new: "same", want: "same"},
		"insert":     {old: "ac", new: "abc", want: "a{+b+}c"},
		"delete":     {old: "abc", new: "ac", want: "a[-b-]c"},
		"from empty": {old: "", new: "new", want: "{+new+}"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ContentDiff(tt.old, tt.new); got != tt.want {
				t.Errorf("ContentDiff(%q, %q) = %q, want %q", tt.old, tt.new, got, tt.want)
			}
		})
	}
}

func TestContentDiff_Color(t *testing.T) {
	EnableColors()

	got := ContentDiff("hello world", "hello there")
	if !strings.Contains(got, "hello ") {
		t.Errorf("expected shared prefix in output, got %q", got)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in colored diff, got %q", got)
	}
}
