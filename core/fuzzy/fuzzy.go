package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil/metrics"
)

const (
	// unbaseScale weights token based scores against the plain ratio.
	unbaseScale = 0.95
	// partialScale weights partial scores when lengths differ a lot.
	partialScale = 0.9
	// longPartialScale applies instead of partialScale past a length ratio of 8.
	longPartialScale = 0.6
)

// indel is a Levenshtein metric where a substitution costs a deletion plus an
// insertion, which turns the edit distance into the Indel distance.
var indel = &metrics.Levenshtein{
	CaseSensitive: true,
	InsertCost:    1,
	DeleteCost:    1,
	ReplaceCost:   2,
}

// Ratio returns the normalized Indel similarity of a and b in the range 0-100.
// Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	distance := indel.Distance(a, b)
	return 100 * (1 - float64(distance)/float64(total))
}

// PartialRatio scores the shorter string against every equally long window of
// the longer one, and against the prefixes and suffixes of the longer string
// that are shorter than it, and returns the best score. The truncated
// windows let a needle that runs off either end of the longer string still
// align with the part it overlaps.
func PartialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	needle := string(shorter)
	windows := make([]string, 0, len(longer)+len(shorter))
	for i := 0; i+len(shorter) <= len(longer); i++ {
		windows = append(windows, string(longer[i:i+len(shorter)]))
	}
	for i := 1; i < len(shorter); i++ {
		windows = append(windows, string(longer[:i]), string(longer[len(longer)-i:]))
	}

	best := 0.0
	for _, w := range windows {
		best = max(best, Ratio(needle, w))
		if best == 100 {
			break
		}
	}
	return best
}

// TokenSortRatio compares both strings after sorting their whitespace separated tokens.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
}

// TokenSetRatio compares the shared tokens of a and b against each side's
// remainder, which makes the score tolerant of extra words on one side.
func TokenSetRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	sect, diffAB, diffBA := splitSets(setA, setB)
	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	common := strings.Join(sect, " ")
	combinedAB := strings.TrimSpace(common + " " + strings.Join(diffAB, " "))
	combinedBA := strings.TrimSpace(common + " " + strings.Join(diffBA, " "))

	best := Ratio(combinedAB, combinedBA)
	if common != "" {
		best = max(best, Ratio(common, combinedAB), Ratio(common, combinedBA))
	}
	return best
}

// PartialTokenRatio is the partial variant of the token ratios. Any shared
// token is a perfect partial match.
func PartialTokenRatio(a, b string) float64 {
	setA, setB := tokenSet(a), tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	sect, diffAB, diffBA := splitSets(setA, setB)
	if len(sect) > 0 {
		return 100
	}

	best := PartialRatio(sortedJoin(strings.Fields(a)), sortedJoin(strings.Fields(b)))
	return max(best, PartialRatio(strings.Join(diffAB, " "), strings.Join(diffBA, " ")))
}

// WRatio is a weighted ratio that picks the most suitable of the ratios above
// depending on how much the lengths of a and b differ. Scores are 0-100 and
// symmetric in a and b. An empty input scores 0.
func WRatio(a, b string) float64 {
	lenA, lenB := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if lenA == 0 || lenB == 0 {
		return 0
	}

	lenRatio := float64(max(lenA, lenB)) / float64(min(lenA, lenB))
	score := Ratio(a, b)

	if lenRatio < 1.5 {
		tokens := max(TokenSortRatio(a, b), TokenSetRatio(a, b))
		return max(score, tokens*unbaseScale)
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longPartialScale
	}

	score = max(score, PartialRatio(a, b)*scale)
	return max(score, PartialTokenRatio(a, b)*unbaseScale*scale)
}

func sortedJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// tokenSet returns the sorted unique tokens of s.
func tokenSet(s string) []string {
	seen := make(map[string]struct{})
	var tokens []string
	for _, t := range strings.Fields(s) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// splitSets partitions two sorted token sets into intersection and differences.
func splitSets(a, b []string) (sect, diffAB, diffBA []string) {
	inB := make(map[string]struct{}, len(b))
	for _, t := range b {
		inB[t] = struct{}{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, t := range a {
		inA[t] = struct{}{}
		if _, ok := inB[t]; ok {
			sect = append(sect, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for _, t := range b {
		if _, ok := inA[t]; !ok {
			diffBA = append(diffBA, t)
		}
	}
	return sect, diffAB, diffBA
}
