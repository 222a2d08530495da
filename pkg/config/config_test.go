package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everline-data/sqlbridge/pkg/engine"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir()) // no config file present

	t.Setenv("DB_ENGINE", "postgresql")
	t.Setenv("DB_SERVER", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "billing")
	t.Setenv("DB_USER", "svc_billing")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("EXCEL_PATH", "/data/permissions.xlsx")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgresql", cfg.Database.Engine)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "billing", cfg.Database.Database)
	assert.Equal(t, "svc_billing", cfg.Database.User)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "/data/permissions.xlsx", cfg.ExcelPath)
	assert.Equal(t, "info", cfg.LogLevel, "default applies when unset")
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `database:
  engine: mssql
  host: sql01.corp
  port: 1433
  database: erp
  user: migrator
  encrypt: "true"
log_level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	// Secrets never live in YAML; the environment supplies them. The
	// environment also wins over file values.
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("DB_NAME", "erp_staging")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mssql", cfg.Database.Engine)
	assert.Equal(t, "sql01.corp", cfg.Database.Host)
	assert.Equal(t, "erp_staging", cfg.Database.Database)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "true", cfg.Database.Encrypt)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadPrefersDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	env := "DB_ENGINE=mysql\nDB_SERVER=localhost\nDB_NAME=app\nDB_USER=root\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"),
		[]byte("database:\n  engine: postgresql\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Engine)
}

func TestParamsResolvesEngineAndOptions(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Engine:   "Postgres",
			Host:     "db.internal",
			Port:     5432,
			Database: "billing",
			User:     "svc",
			Password: "pw",
			SSLMode:  "require",
		},
	}

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, engine.PostgreSQL, params.Engine)
	assert.Equal(t, "db.internal", params.Host)
	assert.Equal(t, "require", params.Options["sslmode"])
	_, hasEncrypt := params.Options["encrypt"]
	assert.False(t, hasEncrypt, "unset options stay absent")
}

func TestParamsRejectsUnknownEngine(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Engine: "oracle"}}

	_, err := cfg.Params()
	var cfgErr *engine.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
