package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/duely/internal/model"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "todos.json"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := tempStore(t)
	items, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := tempStore(t)
	due, err := model.ParseDate("2025-09-01")
	require.NoError(t, err)

	in := []model.Item{
		{ID: 1, Title: "Buy milk", Due: &due},
		{ID: 2, Title: "Walk the dog", Done: true},
	}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, in, out)

	// A second load after save(load()) is still identical.
	require.NoError(t, s.Save(out))
	again, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestLoadCorruptFile(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "this is not json"},
		{"wrong root", `{"next_id": 3, "tasks": []}`},
		{"bad due", `[{"id": 1, "title": "x", "due": "someday", "done": false}]`},
		{"duplicate ids", `[{"id": 1, "title": "a", "due": null, "done": false}, {"id": 1, "title": "b", "due": null, "done": false}]`},
		{"zero id", `[{"id": 0, "title": "a", "due": null, "done": false}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tempStore(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(tt.body), 0o644))

			_, err := s.Load()
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe), "want *ParseError, got %T: %v", err, err)
		})
	}
}

func TestLoadKeepsWireShape(t *testing.T) {
	// The minimal {id,title,due,done} shape written by other tools
	// must load as-is.
	s := tempStore(t)
	body := `[{"id": 7, "title": "Pay rent", "due": "2025-10-01", "done": false}]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o644))

	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].ID)
	require.NotNil(t, items[0].Due)
	assert.Equal(t, "2025-10-01", items[0].Due.String())
	assert.True(t, items[0].CreatedAt.IsZero())
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		items []model.Item
		want  int
	}{
		{"empty", nil, 1},
		{"sequential", []model.Item{{ID: 1}, {ID: 2}}, 3},
		{"gap after delete", []model.Item{{ID: 1}, {ID: 5}}, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextID(tt.items))
		})
	}
}

func TestOpenDefaultsToWorkingDir(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Equal(t, "todos.json", filepath.Base(s.Path()))

	explicit, err := Open("/tmp/elsewhere.json")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere.json", explicit.Path())
}
