package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTodos(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParseTodos(`["a","b"]`))
	assert.Equal(t, []string{}, ParseTodos(`[]`))

	// Anything that is not a JSON string array is kept as one element.
	assert.Equal(t, []string{"a"}, ParseTodos("a"))
	assert.Equal(t, []string{"fix the build"}, ParseTodos("fix the build"))
	assert.Equal(t, []string{`{"not":"an array"}`}, ParseTodos(`{"not":"an array"}`))
	assert.Equal(t, []string{"[broken"}, ParseTodos("[broken"))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-19")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 19, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2026-02-19T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("19.02.2026")
	assert.Error(t, err)
}

func TestDecodeUpdate(t *testing.T) {
	req, err := DecodeUpdate(strings.NewReader(`{
		"name": "Sprint Planning",
		"todos": ["a", "b"],
		"date": "2026-02-19",
		"files": [{"storageName": "123-456.png", "originalName": "x.png", "size": 7, "accessPath": "/uploads/123-456.png"}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Sprint Planning", req.Name)
	assert.Equal(t, []string{"a", "b"}, req.Todos)
	assert.Equal(t, 2026, req.Date.Time().Year())
	require.Len(t, req.Files, 1)
	assert.Equal(t, "123-456.png", req.Files[0].StorageName)
}

func TestDecodeUpdateRejectsUnknownFields(t *testing.T) {
	_, err := DecodeUpdate(strings.NewReader(`{"name": "x", "isAdmin": true}`))
	assert.Error(t, err)
}
