package prices

import (
	"testing"

	"collection-merge/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
		ok   bool
	}{
		{"Plain", "1500", 1500, true},
		{"Separators", "1,500", 1500, true},
		{"YenSign", "¥12,000", 12000, true},
		{"FullwidthYen", "￥ 3 000", 3000, true},
		{"DecimalsTruncated", "1500.99", 1500, true},
		{"Negative", "-200", -200, true},
		{"Int64Cell", int64(800), 800, true},
		{"FloatCell", 2500.0, 2500, true},
		{"Nil", nil, 0, false},
		{"Blank", "  ", 0, false},
		{"Text", "ask", 0, false},
		{"Mixed", "12a", 0, false},
		{"OnlyDecimals", ".50", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func owned(name string, attr reconcile.Attribute) reconcile.Item {
	return reconcile.Item{
		Name:       name,
		Attributes: reconcile.NewAttributes(reconcile.Field{Name: "In Collection", Value: attr}),
	}
}

func TestInCollection(t *testing.T) {
	tests := []struct {
		name string
		attr reconcile.Attribute
		want bool
	}{
		{"CheckboxTicked", reconcile.SingleChoice("true"), true},
		{"CheckboxEmpty", reconcile.SingleChoice(""), false},
		{"SelectInCollection", reconcile.SingleChoice("In Collection"), true},
		{"SelectYes", reconcile.SingleChoice(" Yes "), true},
		{"SelectCollectionOnly", reconcile.SingleChoice("Collection"), false},
		{"MultiCollection", reconcile.MultiChoice("wishlist", "Collection"), true},
		{"MultiOther", reconcile.MultiChoice("sold"), false},
		{"RichText", reconcile.MultilineText("in ", "collection"), true},
		{"Number", reconcile.Number(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InCollection(owned("x", tt.attr), "in collection"))
		})
	}

	t.Run("MissingProperty", func(t *testing.T) {
		assert.False(t, InCollection(reconcile.Item{Name: "x"}, "In Collection"))
	})
}

func TestFilterInCollection(t *testing.T) {
	items := []reconcile.Item{
		owned("a", reconcile.SingleChoice("true")),
		owned("b", reconcile.SingleChoice("")),
		owned("c", reconcile.MultiChoice("yes")),
	}

	kept := FilterInCollection(items, "In Collection")
	if assert.Len(t, kept, 2) {
		assert.Equal(t, "a", kept[0].Name)
		assert.Equal(t, "c", kept[1].Name)
	}

	assert.Len(t, FilterInCollection(items, ""), 3)
}
