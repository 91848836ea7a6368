package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttribute_Text(t *testing.T) {
	tests := []struct {
		name   string
		attr   Attribute
		want   string
		wantOK bool
	}{
		{"PlainText", PlainText("abc"), "abc", true},
		{"EmptyPlainText", PlainText(""), "", false},
		{"URL", URL("https://x/id/1"), "https://x/id/1", true},
		{"Multiline", MultilineText(" Hagi ", "Chawan "), "Hagi Chawan", true},
		{"BlankMultiline", MultilineText("  ", ""), "", false},
		{"Integer", Number(1200), "1200", true},
		{"Fraction", Number(12.5), "12.5", true},
		{"NullNumber", NullNumber(), "", false},
		{"SingleChoice", SingleChoice("Edo"), "Edo", true},
		{"UnsetChoice", SingleChoice(""), "", false},
		{"MultiChoice", MultiChoice("tea", "bowl"), "tea, bowl", true},
		{"EmptyMultiChoice", MultiChoice(), "", false},
		{"Unsupported", Unsupported("relation"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.attr.Text()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributes_Text(t *testing.T) {
	attrs := NewAttributes(
		Field{Name: "Object URL", Value: URL("")},
		Field{Name: "collection url", Value: URL("https://x/id/abc")},
		Field{Name: "Token", Value: PlainText("tok")},
	)

	// Empty candidates are skipped, later candidates are consulted.
	got, ok := attrs.Text("Object URL", "Collection URL", "Token")
	assert.True(t, ok)
	assert.Equal(t, "https://x/id/abc", got)

	// The first candidate with text wins.
	got, ok = attrs.Text("token", "Collection URL")
	assert.True(t, ok)
	assert.Equal(t, "tok", got)

	_, ok = attrs.Text("Missing")
	assert.False(t, ok)

	var zero Attributes
	_, ok = zero.Text("anything")
	assert.False(t, ok)
	assert.Equal(t, 0, zero.Len())
}

func TestAttributes_JSONKeepsOrder(t *testing.T) {
	attrs := NewAttributes(
		Field{Name: "Zeta", Value: PlainText("z")},
		Field{Name: "Alpha", Value: Number(3)},
	)

	data, err := json.Marshal(attrs)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Zeta":{"kind":"plain_text","value":"z"},"Alpha":{"kind":"number","number":3}}`, string(data))
	assert.Less(t, indexOf(string(data), "Zeta"), indexOf(string(data), "Alpha"))

	var decoded Attributes
	require.NoError(t, json.Unmarshal(data, &decoded))
	fields := decoded.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "Zeta", fields[0].Name)
	assert.Equal(t, "Alpha", fields[1].Name)
	got, ok := decoded.Text("alpha")
	assert.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestAttribute_UnmarshalUnknownKind(t *testing.T) {
	var attr Attribute
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"date","value":"2024-05-01"}`), &attr))
	assert.Equal(t, Unsupported("date"), attr)
	_, ok := attr.Text()
	assert.False(t, ok)

	require.NoError(t, json.Unmarshal([]byte(`{"value":"x"}`), &attr))
	assert.Equal(t, Unsupported("unknown"), attr)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"unsupported","source":"relation"}`), &attr))
	assert.Equal(t, Unsupported("relation"), attr)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"url","value":"https://x"}`), &attr))
	assert.Equal(t, URL("https://x"), attr)

	var attrs Attributes
	require.NoError(t, json.Unmarshal([]byte(`{"Acquired":{"kind":"date"}}`), &attrs))
	got, ok := attrs.Get("acquired")
	require.True(t, ok)
	assert.Equal(t, KindUnsupported, got.Kind)
	assert.Equal(t, "date", got.Source)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
