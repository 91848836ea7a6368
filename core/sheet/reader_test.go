package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"collection-merge/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvBody = "Name,Token\nHagi Chawan,abc123\n"

func TestConfig_Source(t *testing.T) {
	assert.Equal(t, SourceNone, Config{}.Source())
	assert.Equal(t, SourcePath, Config{Path: "a.csv", URL: "http://x"}.Source())
	assert.Equal(t, SourceObject, Config{Object: "exports/a.csv", URL: "http://x"}.Source())
	assert.Equal(t, SourceURL, Config{URL: "http://x", SpreadsheetID: "id"}.Source())
	assert.Equal(t, SourceSheets, Config{SpreadsheetID: "id"}.Source())
}

func TestNewReader_NoSource(t *testing.T) {
	_, err := NewReader(Config{}, nil, "", nil)
	assert.ErrorIs(t, err, ErrNoSource)

	_, err = NewReader(Config{Object: "a.csv"}, nil, "bucket", nil)
	assert.Error(t, err)
}

func TestReader_Path(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0o644))

	r, err := NewReader(Config{Path: path}, nil, "", nil)
	require.NoError(t, err)

	rows, err := r.LoadRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	token, _ := rows[0].Text("token")
	assert.Equal(t, "abc123", token)

	r, err = NewReader(Config{Path: filepath.Join(t.TempDir(), "missing.csv")}, nil, "", nil)
	require.NoError(t, err)
	_, err = r.LoadRows(context.Background())
	assert.ErrorContains(t, err, "failed to read sheet file")
}

func TestReader_Object(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "collection", "exports/rows.csv", minio.GetObjectOptions{}).
		Return(mocks.Object(csvBody), nil)

	r, err := NewReader(Config{Object: "exports/rows.csv"}, client, "collection", nil)
	require.NoError(t, err)

	rows, err := r.LoadRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	client.AssertExpectations(t)
}

func TestReader_ObjectError(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "collection", "exports/rows.csv", minio.GetObjectOptions{}).
		Return(nil, errors.New("no such key"))

	r, err := NewReader(Config{Object: "exports/rows.csv"}, client, "collection", nil)
	require.NoError(t, err)

	_, err = r.LoadRows(ctx)
	assert.ErrorContains(t, err, "no such key")
}

func TestReader_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(csvBody))
	}))
	defer srv.Close()

	r, err := NewReader(Config{URL: srv.URL + "/rows.csv"}, nil, "", nil)
	require.NoError(t, err)
	rows, err := r.LoadRows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	r, err = NewReader(Config{URL: srv.URL + "/missing.csv"}, nil, "", nil)
	require.NoError(t, err)
	_, err = r.LoadRows(context.Background())
	assert.ErrorContains(t, err, "status 404")
}
