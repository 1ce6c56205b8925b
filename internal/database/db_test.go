package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/flipset/internal/config"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.DatabaseConfig
		wantDriver string
		wantErr    bool
	}{
		{
			name: "creates mysql connection with valid config",
			cfg: config.DatabaseConfig{
				Driver:   config.DriverMySQL,
				Host:     "localhost",
				Port:     3306,
				Database: "testdb",
				Username: "testuser",
				Password: "testpass",
			},
			wantDriver: "mysql",
		},
		{
			name: "creates mysql connection with pool settings",
			cfg: config.DatabaseConfig{
				Driver:          config.DriverMySQL,
				Host:            "localhost",
				Port:            3306,
				Database:        "testdb",
				Username:        "testuser",
				Password:        "testpass",
				MaxOpenConns:    25,
				MaxIdleConns:    5,
				ConnMaxLifetime: 300,
				TLS:             true,
				Params:          map[string]string{"charset": "utf8mb4"},
			},
			wantDriver: "mysql",
		},
		{
			name: "creates in-memory sqlite connection",
			cfg: config.DatabaseConfig{
				Driver: config.DriverSQLite,
				Path:   MemoryPath,
			},
			wantDriver: "sqlite3",
		},
		{
			name: "creates sqlite file in a new directory",
			cfg: config.DatabaseConfig{
				Driver: config.DriverSQLite,
				Path:   filepath.Join(t.TempDir(), "nested", "flipset.db"),
			},
			wantDriver: "sqlite3",
		},
		{
			name:    "unsupported driver",
			cfg:     config.DatabaseConfig{Driver: "postgres"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Open(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			defer got.Close()

			assert.Equal(t, tt.wantDriver, got.DriverName())
		})
	}
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?_busy_timeout=5000&_foreign_keys=on", sqliteDSN(MemoryPath))
	assert.Equal(t, "file:data/flipset.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL", sqliteDSN("data/flipset.db"))
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	db, err := Connect(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: MemoryPath, ConnectAttempts: 1})
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"))
	assert.Equal(t, []string{"card_categories", "cards", "categories", "schema_migrations", "session_slots"}, tables)

	// a second run finds every migration applied
	require.NoError(t, Migrate(ctx, db))
	var count int
	require.NoError(t, db.GetContext(ctx, &count, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, count)
}

func TestMigrate_AppliesInOrder(t *testing.T) {
	ctx := context.Background()
	db, err := Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: MemoryPath})
	require.NoError(t, err)
	defer db.Close()

	migrations := fstest.MapFS{
		"migrations/sqlite3/0001_a.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
		"migrations/sqlite3/0002_b.sql": {Data: []byte("ALTER TABLE a ADD COLUMN name TEXT;")},
		"migrations/sqlite3/README.md":  {Data: []byte("ignored")},
	}
	require.NoError(t, migrate(ctx, db, migrations))

	_, err = db.ExecContext(ctx, "INSERT INTO a (id, name) VALUES (1, 'x')")
	require.NoError(t, err)

	migrations["migrations/sqlite3/0003_broken.sql"] = &fstest.MapFile{Data: []byte("CREATE TABLE ???")}
	err = migrate(ctx, db, migrations)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0003_broken.sql")

	var versions []string
	require.NoError(t, db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations ORDER BY version"))
	assert.Equal(t, []string{"0001_a.sql", "0002_b.sql"}, versions)
}

func TestRunInTx(t *testing.T) {
	tests := []struct {
		name      string
		fn        func(ctx context.Context, tx *sqlx.Tx) error
		setupMock func(mock sqlmock.Sqlmock)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "commits on success",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
		},
		{
			name: "rolls back on error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return fmt.Errorf("something failed")
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantErr: true,
			errMsg:  "something failed",
		},
		{
			name: "begin error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))
			},
			wantErr: true,
			errMsg:  "begin transaction",
		},
		{
			name: "commit error",
			fn: func(ctx context.Context, tx *sqlx.Tx) error {
				return nil
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))
			},
			wantErr: true,
			errMsg:  "commit transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			sqlxDB := sqlx.NewDb(db, "mysql")
			tt.setupMock(mock)

			err = RunInTx(context.Background(), sqlxDB, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
