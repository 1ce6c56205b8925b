// Package testutil provides shared test helpers for creating config files and database fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/cases"

	"github.com/at-ishikawa/flipset/internal/config"
	"github.com/at-ishikawa/flipset/internal/database"
)

// BaseTime is the timestamp fixtures are created at unless stated otherwise.
var BaseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// SetupTestConfig creates a config file using a SQLite database and a session file under tmpDir.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite3
  path: %s
session:
  store: file
  file: %s
outputs:
  export_directory: %s
`,
		filepath.Join(tmpDir, "flipset.db"),
		filepath.Join(tmpDir, "session.json"),
		filepath.Join(tmpDir, "exports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// NewTestDB opens a migrated in-memory SQLite database that is closed when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Connect(context.Background(), config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            database.MemoryPath,
		ConnectAttempts: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// InsertCategory inserts a category row created at BaseTime.
func InsertCategory(t *testing.T, db *sqlx.DB, id, name string) {
	t.Helper()

	_, err := db.Exec(db.Rebind("INSERT INTO categories (id, name, name_key, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		id, name, cases.Fold().String(name), BaseTime, BaseTime)
	require.NoError(t, err)
}

// CardFixture describes a card row and the categories it is linked to.
type CardFixture struct {
	ID          string
	Front       string
	Back        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CategoryIDs []string
}

// InsertCard inserts a card row with its category links.
// Zero timestamps default to BaseTime.
func InsertCard(t *testing.T, db *sqlx.DB, card CardFixture) {
	t.Helper()

	if card.CreatedAt.IsZero() {
		card.CreatedAt = BaseTime
	}
	if card.UpdatedAt.IsZero() {
		card.UpdatedAt = card.CreatedAt
	}
	_, err := db.Exec(db.Rebind("INSERT INTO cards (id, front_content, back_content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		card.ID, card.Front, card.Back, card.CreatedAt, card.UpdatedAt)
	require.NoError(t, err)

	for _, categoryID := range card.CategoryIDs {
		_, err := db.Exec(db.Rebind("INSERT INTO card_categories (card_id, category_id) VALUES (?, ?)"), card.ID, categoryID)
		require.NoError(t, err)
	}
}

// CardCategoryIDs returns the category ids linked to a card, sorted.
func CardCategoryIDs(t *testing.T, db *sqlx.DB, cardID string) []string {
	t.Helper()

	ids := []string{}
	require.NoError(t, db.Select(&ids, db.Rebind("SELECT category_id FROM card_categories WHERE card_id = ? ORDER BY category_id"), cardID))
	return ids
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM "+table))
	return count
}
