package reconcile

import "strings"

// NormalizeName trims surrounding whitespace and lower-cases s. It builds
// exact-match keys for both item names and indexed row names.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// matchReplacer maps bracket and separator punctuation to spaces.
var matchReplacer = strings.NewReplacer(
	// brackets
	"（", " ", "）", " ", "(", " ", ")", " ",
	"[", " ", "]", " ", "{", " ", "}", " ",
	"［", " ", "］", " ", "｛", " ", "｝", " ",
	// separators
	"・", " ", "／", " ", "/", " ", "\\", " ",
	"｜", " ", "|", " ", ":", " ", ";", " ",
	",", " ", "。", " ", "、", " ", "·", " ",
	"-", " ", "—", " ", "–", " ", "：", " ", "，", " ",
)

// CanonicalizeForMatch reduces s to the form used for fuzzy scoring:
// lower-cased, brackets and separators replaced by spaces, whitespace
// collapsed. It is never used for exact lookups.
func CanonicalizeForMatch(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = matchReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
