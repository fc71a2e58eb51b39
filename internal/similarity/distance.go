// Package similarity measures how far apart two versions of a message are.
package similarity

// EditDistance calculates the minimum number of single-character edits
// (insertions, deletions, or substitutions) required to change one string into another.
func EditDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len([]rune(s2))
	}
	if len(s2) == 0 {
		return len([]rune(s1))
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	// Shorter string as columns keeps the rows small.
	if len(r1) < len(r2) {
		r1, r2 = r2, r1
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}

// Ratio returns a normalized similarity score (0.0-1.0) based on EditDistance.
// Two empty strings are identical.
func Ratio(s1, s2 string) float64 {
	return Compare(s1, s2).Ratio
}

// Comparison summarizes how two versions of the same message differ.
type Comparison struct {
	Distance int     `json:"distance" yaml:"distance"`
	Ratio    float64 `json:"ratio" yaml:"ratio"`
}

// Compare returns the edit distance and ratio between two versions.
func Compare(oldContent, newContent string) Comparison {
	d := EditDistance(oldContent, newContent)
	if d == 0 {
		return Comparison{Distance: 0, Ratio: 1.0}
	}
	maxLen := max(len([]rune(oldContent)), len([]rune(newContent)))
	return Comparison{
		Distance: d,
		Ratio:    1.0 - float64(d)/float64(maxLen),
	}
}
