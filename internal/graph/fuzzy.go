package graph

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

// indel is a Levenshtein metric without substitutions (a substitution costs
// one delete plus one insert), which makes its distance the Indel distance.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// TokenSetRatio scores the similarity of a and b on a 0..100 scale while
// ignoring token order and repeated tokens. Tokens are whitespace separated
// and compared case-sensitively. Either side having no tokens scores 0.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for _, t := range sortedKeys(tokensA) {
		if tokensB[t] {
			sect = append(sect, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for _, t := range sortedKeys(tokensB) {
		if !tokensA[t] {
			diffBA = append(diffBA, t)
		}
	}

	// One side is a subset of the other.
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	abJoined := strings.Join(diffAB, " ")
	baJoined := strings.Join(diffBA, " ")
	abLen := utf8.RuneCountInString(abJoined)
	baLen := utf8.RuneCountInString(baJoined)
	sectLen := utf8.RuneCountInString(strings.Join(sect, " "))

	// Lengths of "sect ab" and "sect ba"; the joining space only exists when
	// the intersection is non-empty.
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// "sect ab" vs "sect ba" share their prefix, so their distance is the
	// distance of the differences alone.
	result := normalizedSimilarity(indel.Distance(abJoined, baJoined), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// "sect" is a prefix of "sect ab": the distance is the appended tail.
	sectABRatio := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+baLen, sectLen+sectBALen)

	return max(result, sectABRatio, sectBARatio)
}

func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lensum)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
