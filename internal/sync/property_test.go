package sync

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var propertyAlphabet = []rune("ab:c \x00éè日😀")

func randomContent(r *rand.Rand) string {
	n := r.IntN(12)
	var sb strings.Builder
	for range n {
		sb.WriteRune(propertyAlphabet[r.IntN(len(propertyAlphabet))])
	}
	return sb.String()
}

// runeOffsets returns every byte offset of s that starts a character, plus len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}

func TestProperty_DeltaRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 5000 {
		oldContent := randomContent(r)
		newContent := randomContent(r)

		delta := GenerateDelta(oldContent, newContent)
		require.Equal(t, newContent, ApplyDelta(oldContent, delta),
			"round trip failed for old=%q new=%q delta=%q", oldContent, newContent, delta)

		parsed, err := ParseDelta(delta)
		require.NoError(t, err)
		assert.Equal(t, delta, parsed.String())
		assert.True(t, utf8.ValidString(parsed.Insert), "insert %q is not valid UTF-8", parsed.Insert)
	}
}

func TestProperty_DeltaIsMinimalForSingleEdit(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))

	for range 1000 {
		base := randomContent(r)
		offsets := runeOffsets(base)
		pos := offsets[r.IntN(len(offsets))]
		inserted := "XYZ"[:1+r.IntN(3)]
		edited := base[:pos] + inserted + base[pos:]

		d := ComputeDelta(base, edited)
		assert.Equal(t, 0, d.DeleteCount, "pure insertion should delete nothing")
		assert.Equal(t, len(inserted), len(d.Insert), "pure insertion should insert only the new bytes")
	}
}

func populateRandom(e *Engine, r *rand.Rand) {
	for range r.IntN(40) {
		id := r.IntN(30)
		if r.IntN(2) == 0 {
			e.AddLocal(id, "v"+string(rune('a'+r.IntN(3))), r.Int64N(10))
		} else {
			e.AddRemote(id, "v"+string(rune('a'+r.IntN(3))), r.Int64N(10))
		}
	}
}

func TestProperty_DiffPartitionAndStats(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))

	for range 500 {
		e := NewEngine()
		populateRandom(e, r)

		diff := e.ComputeDiff()
		stats := e.Stats()

		assert.Equal(t, len(diff.Modified), stats.Conflicts, "stats conflicts must match modified count")
		assert.Equal(t, e.Local().Size(), stats.LocalCount)
		assert.Equal(t, e.Remote().Size(), stats.RemoteCount)

		seen := make(map[int]ChangeKind)
		for kind, ids := range map[ChangeKind][]int{
			ChangeAdded:    diff.Added,
			ChangeModified: diff.Modified,
			ChangeDeleted:  diff.Deleted,
		} {
			for _, id := range ids {
				prev, dup := seen[id]
				require.False(t, dup, "id %d in both %s and %s", id, prev, kind)
				seen[id] = kind
			}
		}

		for _, id := range e.Remote().IDs() {
			remoteMsg, _ := e.Remote().Get(id)
			localMsg, inLocal := e.Local().Get(id)
			switch {
			case !inLocal:
				assert.Equal(t, ChangeAdded, seen[id])
			case !localMsg.SameContent(remoteMsg):
				assert.Equal(t, ChangeModified, seen[id])
			default:
				assert.NotContains(t, seen, id)
			}
		}
		for _, id := range e.Local().IDs() {
			if !e.Remote().Has(id) {
				assert.Equal(t, ChangeDeleted, seen[id])
			}
		}

		again := e.ComputeDiff().Sorted()
		sorted := diff.Sorted()
		assert.True(t, slices.Equal(sorted.Added, again.Added))
		assert.True(t, slices.Equal(sorted.Modified, again.Modified))
		assert.True(t, slices.Equal(sorted.Deleted, again.Deleted))
	}
}
