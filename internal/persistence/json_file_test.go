package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-triage-service/internal/domain"
)

func TestJSONFileLoadMissing(t *testing.T) {
	store := NewJSONFile(filepath.Join(t.TempDir(), "data", "tickets.json"))
	tickets, err := store.Load()
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestJSONFileSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "tickets.json")
	store := NewJSONFile(path)

	category := domain.CategoryPayroll
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	in := []domain.Ticket{
		{ID: "a", Subject: "first", Status: domain.TicketStatusPending, CreatedAt: now, UpdatedAt: now},
		{ID: "b", Subject: "second", Status: domain.TicketStatusClassified, AICategory: &category, CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
	assert.Nil(t, out[0].AICategory)
	assert.Equal(t, domain.CategoryPayroll, *out[1].AICategory)
	assert.True(t, now.Equal(out[1].UpdatedAt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ai_category": null`)
	assert.NotContains(t, string(raw), "resolved_by")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestJSONFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))

	_, err := NewJSONFile(path).Load()
	require.Error(t, err)
}

func TestJSONFileSaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.json")
	require.NoError(t, NewJSONFile(path).Save(nil))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
