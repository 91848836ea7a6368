package prices

import (
	"regexp"
	"strconv"
	"strings"

	"collection-merge/core/reconcile"
	"collection-merge/core/utils"
)

var (
	priceNoise  = regexp.MustCompile(`[\s,￥¥]`)
	priceDigits = regexp.MustCompile(`^-?\d+$`)
)

// ParsePrice reads a yen amount from a sheet cell. Currency signs, spaces and
// thousands separators are ignored and decimals are truncated.
func ParsePrice(v any) (int, bool) {
	s := strings.TrimSpace(utils.ToString(v))
	if s == "" {
		return 0, false
	}
	s = priceNoise.ReplaceAllString(s, "")
	s, _, _ = strings.Cut(s, ".")
	if !priceDigits.MatchString(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

var (
	choiceMarks = map[string]struct{}{"in collection": {}, "yes": {}, "true": {}}
	labelMarks  = map[string]struct{}{"in collection": {}, "collection": {}, "yes": {}, "true": {}}
)

func marked(s string, marks map[string]struct{}) bool {
	_, ok := marks[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// InCollection reports whether the item's property marks it as owned.
// Checkboxes, choices and text properties are understood.
func InCollection(item reconcile.Item, property string) bool {
	attr, ok := item.Attributes.Get(strings.TrimSpace(property))
	if !ok {
		return false
	}
	switch attr.Kind {
	case reconcile.KindSingleChoice:
		return marked(attr.Value, choiceMarks)
	case reconcile.KindMultiChoice:
		for _, l := range attr.Labels {
			if marked(l, labelMarks) {
				return true
			}
		}
		return false
	case reconcile.KindMultilineText, reconcile.KindPlainText:
		text, _ := attr.Text()
		return marked(text, choiceMarks)
	default:
		return false
	}
}

// FilterInCollection keeps the owned items. An empty property keeps all.
func FilterInCollection(items []reconcile.Item, property string) []reconcile.Item {
	if strings.TrimSpace(property) == "" {
		return items
	}
	kept := make([]reconcile.Item, 0, len(items))
	for _, it := range items {
		if InCollection(it, property) {
			kept = append(kept, it)
		}
	}
	return kept
}
