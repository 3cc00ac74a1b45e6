package match

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// DefaultThreshold is the similarity a candidate needs to be suggested.
const DefaultThreshold = 0.6

// Distance is the Levenshtein edit distance between a and b, counted in
// runes.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}

			curr[i] = min(prev[i]+1, curr[i-1]+1, prev[i-1]+cost)
		}

		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

// Normalize folds an identifier for comparison: lower case, without
// separators and without a leading accessor prefix ("GetFullName",
// "full_name" and "fullName" all become "fullname").
func Normalize(s string) string {
	for _, prefix := range []string{"Get", "Set", "Is"} {
		rest, ok := strings.CutPrefix(s, prefix)
		if ok && rest != "" && unicode.IsUpper([]rune(rest)[0]) {
			s = rest
			break
		}
	}

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Similarity scores two identifiers between 0 (unrelated) and 1 (equal
// after normalization).
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	longest := max(len([]rune(na)), len([]rune(nb)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(Distance(na, nb))/float64(longest)
}

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates similar to name, best first. Ties
// keep the candidate order. A limit of 0 or less means no limit.
func Suggest(name string, candidates []string, limit int) []string {
	var ranked []scored

	for _, c := range candidates {
		if s := Similarity(name, c); s >= DefaultThreshold {
			ranked = append(ranked, scored{name: c, score: s})
		}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.name
	}

	return out
}
