package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "driver: sqlite3")
	assert.Contains(t, string(content), filepath.Join(tmpDir, "session.json"))
}

func TestInsertCard(t *testing.T) {
	db := NewTestDB(t)
	InsertCategory(t, db, "cat-1", "Verbs")
	InsertCategory(t, db, "cat-2", "Nouns")

	InsertCard(t, db, CardFixture{
		ID:          "card-1",
		Front:       "run",
		Back:        "to move fast",
		CategoryIDs: []string{"cat-2", "cat-1"},
	})

	assert.Equal(t, 1, CountRows(t, db, "cards"))
	assert.Equal(t, 2, CountRows(t, db, "categories"))
	assert.Equal(t, []string{"cat-1", "cat-2"}, CardCategoryIDs(t, db, "card-1"))

	var createdAt time.Time
	require.NoError(t, db.Get(&createdAt, "SELECT created_at FROM cards WHERE id = 'card-1'"))
	assert.True(t, BaseTime.Equal(createdAt))
}
