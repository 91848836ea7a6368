package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	data := "\ufeffName,Price,,Local ID,Rate\n" +
		"Hagi Chawan,1000,ignored,X-001,1.5\n" +
		",,,,\n" +
		"\"Shino, Mizusashi\",,x,0012,\n" +
		"Short row\n"

	rows, err := ParseRecords(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Name", "Price", "Local ID", "Rate"}, rows[0].Headers())
	price, _ := rows[0].Get("Price")
	assert.Equal(t, int64(1000), price)
	rate, _ := rows[0].Get("rate")
	assert.Equal(t, 1.5, rate)

	name, _ := rows[1].Get("Name")
	assert.Equal(t, "Shino, Mizusashi", name)
	blank, ok := rows[1].Get("Price")
	assert.True(t, ok)
	assert.Nil(t, blank)
	local, _ := rows[1].Get("Local ID")
	assert.Equal(t, int64(12), local)

	missing, ok := rows[2].Get("Rate")
	assert.True(t, ok)
	assert.Nil(t, missing)
}

func TestParseRecords_Empty(t *testing.T) {
	rows, err := ParseRecords(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNumericise(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", int64(42)},
		{" -7 ", int64(-7)},
		{"3.25", 3.25},
		{"1e3", 1000.0},
		{"", nil},
		{"   ", nil},
		{"1_000", "1_000"},
		{"X-001", "X-001"},
		{"inf", "inf"},
		{"NaN", "NaN"},
		{"¥1,000", "¥1,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Numericise(tt.in))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"Token", "Name", "Price (JPY)"}, [][]any{
		{"abc123", "Hagi Chawan", 1000},
		{"", "Shino, Mizusashi", nil},
	})
	require.NoError(t, err)
	assert.Equal(t, "Token,Name,Price (JPY)\nabc123,Hagi Chawan,1000\n,\"Shino, Mizusashi\",\n", buf.String())
}
