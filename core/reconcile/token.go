package reconcile

import "strings"

const (
	idMarker  = "/id/"
	arkMarker = "/ark:/"
)

// ExtractToken pulls a strong identifier out of raw. URLs yield the segment
// after "/id/" or the name part of an "/ark:/naan/name" path; any other URL
// carries no token. Non-URL input is taken as a token as is, trimmed.
func ExtractToken(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if !hasPrefixFold(s, "http://") && !hasPrefixFold(s, "https://") {
		return s, true
	}

	if i := indexFold(s, idMarker); i >= 0 {
		return cleanTokenTail(s[i+len(idMarker):])
	}

	if i := indexFold(s, arkMarker); i >= 0 {
		naan, name, ok := strings.Cut(s[i+len(arkMarker):], "/")
		if !ok || naan == "" || name == "" {
			return "", false
		}
		return cleanTokenTail(name)
	}

	return "", false
}

// cleanTokenTail strips the query string, fragment and surrounding slashes.
func cleanTokenTail(s string) (string, bool) {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "/")
	return s, s != ""
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// indexFold is strings.Index with ASCII case folding. The markers searched for
// are ASCII, so byte offsets in s stay valid.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
