package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeToken stores an authorized user token that stays valid for the test.
func writeToken(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	body, err := json.Marshal(map[string]string{
		"token":         "tok",
		"refresh_token": "refresh",
		"client_id":     "client",
		"client_secret": "secret",
		"expiry":        time.Now().Add(time.Hour).UTC().Format(time.RFC3339Nano),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token.json"), body, 0o600))
	return dir
}

type sheetsAPI struct {
	mu       sync.Mutex
	auth     []string
	paths    []string
	addSheet map[string]any
	update   map[string]any
	query    string
}

func (a *sheetsAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.auth = append(a.auth, r.Header.Get("Authorization"))
		a.paths = append(a.paths, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/doc-1":
			_, _ = w.Write([]byte(`{"sheets":[{"properties":{"title":"Collection"}},{"properties":{"title":"Old"}}]}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/doc-1/values/'Collection'":
			_, _ = w.Write([]byte(`{"range":"Collection!A1:C3","majorDimension":"ROWS","values":[
				["Name","Token","Price"],
				["Black Raku Chawan","abc123","12000"],
				[],
				["Bizen Vase","def456"]
			]}`))
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/doc-1/values/"):
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"Unable to parse range","status":"INVALID_ARGUMENT"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v4/spreadsheets/doc-1:batchUpdate":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&a.addSheet))
			_, _ = w.Write([]byte(`{"spreadsheetId":"doc-1","replies":[{}]}`))
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/doc-1/values/"):
			a.query = r.URL.Query().Get("valueInputOption")
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&a.update))
			_, _ = w.Write([]byte(`{"spreadsheetId":"doc-1","updatedRows":3}`))
		default:
			http.NotFound(w, r)
		}
	})
}

func TestReader_Spreadsheet(t *testing.T) {
	api := &sheetsAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	cfg := Config{SpreadsheetID: "doc-1", TokenFile: writeToken(t), Endpoint: srv.URL}
	r, err := NewReader(cfg, nil, "", nil)
	require.NoError(t, err)

	rows, err := r.LoadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	token, _ := rows[0].Text("token")
	assert.Equal(t, "abc123", token)
	price, _ := rows[0].Get("Price")
	assert.Equal(t, int64(12000), price)
	price, ok := rows[1].Get("Price")
	assert.True(t, ok)
	assert.Nil(t, price)

	assert.Equal(t, []string{
		"GET /v4/spreadsheets/doc-1",
		"GET /v4/spreadsheets/doc-1/values/'Collection'",
	}, api.paths)
	for _, h := range api.auth {
		assert.Equal(t, "Bearer tok", h)
	}
}

func TestReader_SpreadsheetWorksheet(t *testing.T) {
	api := &sheetsAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	cfg := Config{SpreadsheetID: "doc-1", Worksheet: "Collection", TokenFile: writeToken(t), Endpoint: srv.URL}
	r, err := NewReader(cfg, nil, "", nil)
	require.NoError(t, err)

	rows, err := r.LoadRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"GET /v4/spreadsheets/doc-1/values/'Collection'"}, api.paths)

	cfg.Worksheet = "Missing"
	r, err = NewReader(cfg, nil, "", nil)
	require.NoError(t, err)
	_, err = r.LoadRows(context.Background())
	assert.ErrorContains(t, err, "failed to read worksheet Missing")
}

func TestReader_SpreadsheetNoCredentials(t *testing.T) {
	cfg := Config{SpreadsheetID: "doc-1", TokenFile: filepath.Join(t.TempDir(), "missing.json")}
	r, err := NewReader(cfg, nil, "", nil)
	require.NoError(t, err)

	_, err = r.LoadRows(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestNewWriter_NoSpreadsheet(t *testing.T) {
	_, err := NewWriter(Config{Path: "rows.csv"}, nil)
	assert.ErrorIs(t, err, ErrNoSpreadsheet)
}

func TestWriter_WriteWorksheet(t *testing.T) {
	api := &sheetsAPI{}
	srv := httptest.NewServer(api.handler(t))
	defer srv.Close()

	w, err := NewWriter(Config{SpreadsheetID: "doc-1", TokenFile: writeToken(t), Endpoint: srv.URL}, nil)
	require.NoError(t, err)

	header := []string{"Token", "Name", "Price"}
	rows := [][]any{
		{"tok1", "Black Raku Chawan", int64(12000)},
		{"tok2", "Bizen Vase", ""},
	}
	require.NoError(t, w.WriteWorksheet(context.Background(), "Merged Prices 20261019-0930", header, rows))

	require.Len(t, api.paths, 2)
	assert.Equal(t, "POST /v4/spreadsheets/doc-1:batchUpdate", api.paths[0])
	assert.Equal(t, "PUT /v4/spreadsheets/doc-1/values/'Merged Prices 20261019-0930'!A1", api.paths[1])
	assert.Equal(t, "USER_ENTERED", api.query)

	requests := api.addSheet["requests"].([]any)
	require.Len(t, requests, 1)
	props := requests[0].(map[string]any)["addSheet"].(map[string]any)["properties"].(map[string]any)
	assert.Equal(t, "Merged Prices 20261019-0930", props["title"])
	grid := props["gridProperties"].(map[string]any)
	assert.EqualValues(t, 12, grid["rowCount"])
	assert.EqualValues(t, 3, grid["columnCount"])

	assert.Equal(t, []any{
		[]any{"Token", "Name", "Price"},
		[]any{"tok1", "Black Raku Chawan", float64(12000)},
		[]any{"tok2", "Bizen Vase", ""},
	}, api.update["values"])
}

func TestA1Sheet(t *testing.T) {
	assert.Equal(t, "'Prices'", a1Sheet("Prices"))
	assert.Equal(t, "'Bob''s Sheet'", a1Sheet("Bob's Sheet"))
}

func TestCellText(t *testing.T) {
	assert.Equal(t, "", cellText(nil))
	assert.Equal(t, "abc", cellText("abc"))
	assert.Equal(t, "TRUE", cellText(true))
	assert.Equal(t, "12.5", cellText(12.5))
}
