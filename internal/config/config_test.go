package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Path:            filepath.Join("data", "flipset.db"),
			Port:            3306,
			ConnectAttempts: 3,
		},
		Session: SessionConfig{
			Store:   SessionStoreFile,
			File:    filepath.Join("data", "session.json"),
			SlotKey: "@flipset/session",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Server: ServerConfig{
			Port:                   8080,
			ShutdownTimeoutSeconds: 10,
			CORS: CORSConfig{
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Outputs: OutputsConfig{
			ExportDirectory: "exports",
		},
	}
}

func TestConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:          "no config file uses defaults",
			configContent: "",
			want:          defaultConfig,
		},
		{
			name: "mysql database with custom session store",
			configContent: `database:
  driver: mysql
  host: db.example.com
  port: 3307
  database: flipset
  username: admin
session:
  store: database
  slot_key: device-1
`,
			useExplicitPath: true,
			env:             map[string]string{"FLIPSET_DB_PASSWORD": "secret"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Database.Driver = DriverMySQL
				cfg.Database.Host = "db.example.com"
				cfg.Database.Port = 3307
				cfg.Database.Database = "flipset"
				cfg.Database.Username = "admin"
				cfg.Database.Password = "secret"
				cfg.Session.Store = SessionStoreDatabase
				cfg.Session.SlotKey = "device-1"
				return cfg
			},
		},
		{
			name: "redis session store reads password from env",
			configContent: `session:
  store: redis
  redis:
    addr: cache:6379
    db: 2
`,
			env: map[string]string{"FLIPSET_REDIS_PASSWORD": "hunter2"},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Session.Store = SessionStoreRedis
				cfg.Session.Redis = RedisConfig{Addr: "cache:6379", Password: "hunter2", DB: 2}
				return cfg
			},
		},
		{
			name: "outputs and server settings",
			configContent: `server:
  port: 9090
  cors:
    allowed_origins: ["https://cards.example.com"]
outputs:
  export_directory: /tmp/flipset
  deck_template: templates/deck.md.go.tmpl
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Server.Port = 9090
				cfg.Server.CORS.AllowedOrigins = []string{"https://cards.example.com"}
				cfg.Outputs = OutputsConfig{
					ExportDirectory: "/tmp/flipset",
					DeckTemplate:    "templates/deck.md.go.tmpl",
				}
				return cfg
			},
		},
		{
			name: "invalid YAML format",
			configContent: `database:
  driver: sqlite3
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "unknown driver is rejected",
			configContent: `database:
  driver: postgres
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"driver must be one of [sqlite3 mysql]",
			},
		},
		{
			name: "mysql without host is rejected",
			configContent: `database:
  driver: mysql
  database: flipset
`,
			wantErr:           true,
			wantErrorContains: []string{"host is a required field"},
		},
		{
			name: "unknown session store is rejected",
			configContent: `session:
  store: memcached
`,
			wantErr:           true,
			wantErrorContains: []string{"store must be one of [file database redis]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FLIPSET_DB_PASSWORD", "")
			t.Setenv("FLIPSET_REDIS_PASSWORD", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			tempDir := t.TempDir()
			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(tempDir, "flipset.yml")
				require.NoError(t, os.WriteFile(configPath, []byte(tt.configContent), 0644))
			} else {
				if tt.configContent != "" {
					require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(tt.configContent), 0644))
				}
				t.Chdir(tempDir)
			}

			loader, err := NewConfigLoader(configPath)
			require.NoError(t, err)
			got, err := loader.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want(), got)
		})
	}
}
