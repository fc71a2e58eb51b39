package sync

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/klauern/msgsync/internal/logging"
)

// DeltaSeparator separates the fields of an encoded delta.
const DeltaSeparator = ":"

// ErrMalformedDelta is returned by ParseDelta when an encoded delta lacks
// its two numeric fields.
var ErrMalformedDelta = errors.New("malformed delta")

// Delta is a single contiguous edit: keep Prefix bytes, drop DeleteCount
// bytes, then splice in Insert.
type Delta struct {
	Prefix      int    `json:"prefix" yaml:"prefix"`
	DeleteCount int    `json:"delete_count" yaml:"delete_count"`
	Insert      string `json:"insert" yaml:"insert"`
}

// ComputeDelta finds the edit between oldContent and newContent by trimming
// their common prefix and then their common suffix. The suffix never
// overlaps the prefix. Positions are byte offsets, but the edited range is
// widened to whole UTF-8 characters so Insert stays valid text.
func ComputeDelta(oldContent, newContent string) Delta {
	p := 0
	for p < len(oldContent) && p < len(newContent) && oldContent[p] == newContent[p] {
		p++
	}
	for p > 0 && (!runeBoundary(oldContent, p) || !runeBoundary(newContent, p)) {
		p--
	}

	oldEnd, newEnd := len(oldContent), len(newContent)
	for oldEnd > p && newEnd > p && oldContent[oldEnd-1] == newContent[newEnd-1] {
		oldEnd--
		newEnd--
	}
	// The remaining suffixes are equal, so one check covers both sides.
	for oldEnd < len(oldContent) && !runeBoundary(oldContent, oldEnd) {
		oldEnd++
		newEnd++
	}

	return Delta{
		Prefix:      p,
		DeleteCount: oldEnd - p,
		Insert:      newContent[p:newEnd],
	}
}

// runeBoundary reports whether byte offset i of s starts a character or is
// the end of s.
func runeBoundary(s string, i int) bool {
	return i >= len(s) || utf8.RuneStart(s[i])
}

// GenerateDelta returns the encoded delta that turns oldContent into newContent.
func GenerateDelta(oldContent, newContent string) string {
	return ComputeDelta(oldContent, newContent).String()
}

// String encodes the delta as "prefix:deleteCount:insert".
func (d Delta) String() string {
	var sb strings.Builder
	sb.Grow(len(d.Insert) + 8)
	sb.WriteString(strconv.Itoa(d.Prefix))
	sb.WriteString(DeltaSeparator)
	sb.WriteString(strconv.Itoa(d.DeleteCount))
	sb.WriteString(DeltaSeparator)
	sb.WriteString(d.Insert)
	return sb.String()
}

// IsNoop reports whether applying the delta changes nothing.
func (d Delta) IsNoop() bool {
	return d.DeleteCount == 0 && d.Insert == ""
}

// Apply splices the delta into content. The prefix is clamped to the
// content length, and the tail after the deleted range is appended only
// when that range ends inside content.
func (d Delta) Apply(content string) string {
	prefix := max(d.Prefix, 0)
	deleteCount := max(d.DeleteCount, 0)
	p := min(prefix, len(content))

	var sb strings.Builder
	sb.Grow(len(content) + len(d.Insert))
	sb.WriteString(content[:p])
	sb.WriteString(d.Insert)
	// prefix+deleteCount < len(content), written to avoid overflow.
	if prefix < len(content) && deleteCount < len(content)-prefix {
		sb.WriteString(content[prefix+deleteCount:])
	}
	return sb.String()
}

// ParseDelta decodes "prefix:deleteCount:insert". Everything after the
// second separator is the inserted text, separators included.
func ParseDelta(s string) (Delta, error) {
	prefixField, rest, ok := strings.Cut(s, DeltaSeparator)
	if !ok {
		return Delta{}, fmt.Errorf("%w: missing prefix separator", ErrMalformedDelta)
	}
	deleteField, insert, ok := strings.Cut(rest, DeltaSeparator)
	if !ok {
		return Delta{}, fmt.Errorf("%w: missing delete-count separator", ErrMalformedDelta)
	}

	prefix, err := parseDeltaCount(prefixField)
	if err != nil {
		return Delta{}, fmt.Errorf("%w: prefix %q: %v", ErrMalformedDelta, prefixField, err)
	}
	deleteCount, err := parseDeltaCount(deleteField)
	if err != nil {
		return Delta{}, fmt.Errorf("%w: delete count %q: %v", ErrMalformedDelta, deleteField, err)
	}

	return Delta{Prefix: prefix, DeleteCount: deleteCount, Insert: insert}, nil
}

func parseDeltaCount(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("negative value")
	}
	return n, nil
}

// ApplyDelta applies an encoded delta to content. A malformed delta is
// ignored and content is returned unchanged.
func ApplyDelta(content, delta string) string {
	d, err := ParseDelta(delta)
	if err != nil {
		logging.Debug("ignoring malformed delta",
			logging.Operation("apply_delta"),
			logging.Err(err),
		)
		return content
	}
	return d.Apply(content)
}

// ApplyDeltaStrict applies an encoded delta to content and reports
// malformed input instead of ignoring it.
func ApplyDeltaStrict(content, delta string) (string, error) {
	d, err := ParseDelta(delta)
	if err != nil {
		return content, err
	}
	return d.Apply(content), nil
}
