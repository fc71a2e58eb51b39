package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffCleanupThreshold is the number of raw diff segments above which the
// diff is cleaned up for readability.
const diffCleanupThreshold = 2

// Preview flattens content onto one line and truncates it to width display
// columns. A width of zero or less disables truncation.
func Preview(content string, width int) string {
	flat := strings.Join(strings.Fields(content), " ")
	if width <= 0 {
		return flat
	}
	return runewidth.Truncate(flat, width, "…")
}

// PadRight pads s with spaces to width display columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// ContentDiff renders the character-level difference between two versions
// of a message. Inserted text is green and deleted text red when colors are
// enabled; otherwise insertions are wrapped in {+ +} and deletions in [- -].
func ContentDiff(oldContent, newContent string) string {
	dmp := diffmatchpatch.New()

	diffs := dmp.DiffMain(oldContent, newContent, false)
	if len(diffs) > diffCleanupThreshold {
		diffs = dmp.DiffCleanupSemantic(diffs)
	}

	if IsColorEnabled() {
		return dmp.DiffPrettyText(diffs)
	}

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+")
			sb.WriteString(d.Text)
			sb.WriteString("+}")
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-")
			sb.WriteString(d.Text)
			sb.WriteString("-]")
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
