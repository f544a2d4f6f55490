package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/erddl/compiler/gen"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "erddl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "oracle", cfg.Dialect)
	assert.Equal(t, 20000, cfg.ErrorBase)
	assert.False(t, cfg.NoTriggers)
	assert.Equal(t, "schema", cfg.Bindings.Package)
	assert.Equal(t, "postgres", cfg.Apply.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
dialect: postgres
output: out/schema.sql
error_base: 20100
no_triggers: true
bindings:
  output: out/schema.go
  package: hr
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, "out/schema.sql", cfg.Output)
	assert.Equal(t, 20100, cfg.ErrorBase)
	assert.True(t, cfg.NoTriggers)
	assert.Equal(t, "hr", cfg.Bindings.Package)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "dialect: postgres\n")
	t.Setenv("ERDDL_DIALECT", "sqlite")
	t.Setenv("ERDDL_DSN", "file:test.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "file:test.db", cfg.Apply.DSN)
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("header: from default file\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from default file", cfg.Header)
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, `
dialect: db2
workers: -1
apply:
  driver: oracle
log:
  level: loud
  format: xml
`)
	_, err := Load(path)
	require.Error(t, err)
	for _, s := range []string{"dialect", "apply driver", "log level", "log format", "workers"} {
		assert.ErrorContains(t, err, s)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := &Config{Dialect: "mysql", ErrorBase: 20300, NoTriggers: true, Header: " hr "}
	gc, err := gen.NewConfig(cfg.Options(zap.NewNop())...)
	require.NoError(t, err)

	assert.Equal(t, "mysql", gc.Dialect)
	assert.Equal(t, 20300, gc.ErrorBase)
	assert.False(t, gc.Triggers)
	assert.Equal(t, "hr", gc.Header)
}

func TestLogger(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		cfg := &Config{Log: LogConfig{Level: "warn", Format: format}}
		logger, err := cfg.Logger()
		require.NoError(t, err, format)
		assert.False(t, logger.Core().Enabled(zap.InfoLevel))
		assert.True(t, logger.Core().Enabled(zap.WarnLevel))
	}

	_, err := (&Config{Log: LogConfig{Level: "loud"}}).Logger()
	assert.Error(t, err)
}
