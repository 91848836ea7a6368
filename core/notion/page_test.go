package notion

import (
	"encoding/json"
	"testing"

	"collection-merge/core/reconcile"

	"github.com/jomei/notionapi"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPage = `{
  "id": "abcd-1234",
  "properties": {
    "Title": {"type": "title", "title": [{"plain_text": "Black Raku Chawan"}]},
    "Price": {"type": "number", "number": 120000},
    "Weight": {"type": "number", "number": null},
    "Era": {"type": "select", "select": {"name": "Edo"}},
    "Stage": {"type": "status", "status": null},
    "Tags": {"type": "multi_select", "multi_select": [{"name": "tea"}, {"name": "bowl"}]},
    "In Collection": {"type": "checkbox", "checkbox": true},
    "Contact": {"type": "email", "email": "a@example.com"},
    "Code": {"type": "formula", "formula": {"type": "string", "string": "RK-1"}},
    "Related": {"type": "relation", "relation": []},
    "Photos": {"type": "files", "files": [
      {"name": "front.jpg", "file": {"url": "https://files.example/front.jpg"}},
      {"name": "back.jpg", "external": {"url": "https://cdn.example/back.jpg"}},
      {"name": "empty"}
    ]}
  }
}`

func TestPage_Item(t *testing.T) {
	var page Page
	require.NoError(t, json.Unmarshal([]byte(fullPage), &page))

	item := page.Item()

	assert.Equal(t, "abcd-1234", item.ID)
	assert.Equal(t, "Black Raku Chawan", item.Name)
	assert.Equal(t, "https://www.notion.so/abcd1234", item.SourceURL)
	assert.Equal(t, 11, item.Attributes.Len())

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"price", "120000", true},
		{"Weight", "", false},
		{"Era", "Edo", true},
		{"Stage", "", false},
		{"Tags", "tea, bowl", true},
		{"In Collection", "true", true},
		{"Contact", "a@example.com", true},
		{"Code", "RK-1", true},
		{"Related", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := item.Attributes.Text(tt.field)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	related, _ := item.Attributes.Get("Related")
	assert.Equal(t, reconcile.KindUnsupported, related.Kind)
	assert.Equal(t, "relation", related.Source)

	assert.Equal(t, []reconcile.File{
		{Name: "front.jpg", URL: "https://files.example/front.jpg"},
		{Name: "back.jpg", URL: "https://cdn.example/back.jpg"},
	}, item.Files)
}

func TestPage_ItemOrdersAttributesByName(t *testing.T) {
	var page Page
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p-1","properties":{
		"b":{"type":"url","url":null},
		"a":{"type":"number","number":1},
		"Name":{"type":"title","title":[{"plain_text":"Oribe Dish"}]}
	}}`), &page))

	item := page.Item()
	assert.Equal(t, "Oribe Dish", item.Name)

	var names []string
	for _, f := range item.Attributes.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Name", "a", "b"}, names)

	a, _ := item.Attributes.Get("a")
	assert.Equal(t, reconcile.KindNumber, a.Kind)
	_, ok := item.Attributes.Text("b")
	assert.False(t, ok)
}

func TestToAttribute_Formula(t *testing.T) {
	assert.Equal(t, reconcile.PlainText("RK-1"), formulaAttribute(notionapi.Formula{Type: "string", String: "RK-1"}))
	assert.Equal(t, reconcile.Number(2.5), formulaAttribute(notionapi.Formula{Type: "number", Number: 2.5}))
	assert.Equal(t, reconcile.SingleChoice("true"), formulaAttribute(notionapi.Formula{Type: "boolean", Boolean: true}))
	assert.Equal(t, reconcile.Unsupported("formula"), formulaAttribute(notionapi.Formula{Type: "date"}))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "", PageURL(""))
	assert.Equal(t, "https://www.notion.so/abc", PageURL("a-b-c"))
}
