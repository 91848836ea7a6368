package utils

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeOrderedObject(t *testing.T) {
	data, err := EncodeOrderedObject([]string{"b", "a"}, []any{1, "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x"}`, string(data))

	data, err = EncodeOrderedObject(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestWalkObject(t *testing.T) {
	var keys []string
	err := WalkObject([]byte(`{"z":1,"a":{"nested":true},"m":null}`), func(key string, raw json.RawMessage) error {
		keys = append(keys, key)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "m"}, keys)

	assert.NoError(t, WalkObject([]byte(`null`), func(string, json.RawMessage) error {
		t.Fatal("unexpected member")
		return nil
	}))

	assert.Error(t, WalkObject([]byte(`[1]`), func(string, json.RawMessage) error { return nil }))

	stop := errors.New("stop")
	err = WalkObject([]byte(`{"a":1}`), func(string, json.RawMessage) error { return stop })
	assert.ErrorIs(t, err, stop)
}
