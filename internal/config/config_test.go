package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aadhaarclean/internal/shard"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvInputRoot, EnvOutputDir, EnvMaxRows, EnvWriteXLSX, EnvSQLite, EnvLogLevel} {
		t.Setenv(k, "")
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "clean.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.InputRoot)
	assert.Equal(t, "cleaned_data", cfg.OutputDir)
	assert.Equal(t, shard.DefaultMaxRows, cfg.MaxRows)
	assert.False(t, cfg.WriteXLSX)
	assert.Equal(t, filepath.Join("cleaned_data", "cleaned.sqlite"), cfg.SQLitePath())

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	p := writeYAML(t, `
input_root: /srv/uidai
output_dir: /srv/out
max_rows: 500000
input_dirs:
  biometric: bio_exports
sqlite: "off"
`)
	t.Setenv(EnvMaxRows, "1000")
	t.Setenv(EnvWriteXLSX, "true")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/srv/uidai", cfg.InputRoot)
	assert.Equal(t, "/srv/out", cfg.OutputDir)
	assert.Equal(t, 1000, cfg.MaxRows)
	assert.True(t, cfg.WriteXLSX)
	assert.Equal(t, "", cfg.SQLitePath())

	opts := cfg.Options()
	assert.Equal(t, "bio_exports", opts.InputDirs["biometric"])
	assert.Equal(t, 1000, opts.MaxRows)
	assert.True(t, opts.WriteXLSX)
}

func TestLoad_MalformedEnvIsRejected(t *testing.T) {
	for key, value := range map[string]string{
		EnvMaxRows:   "abc",
		EnvWriteXLSX: "sometimes",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load("")
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		yaml string
		env  map[string]string
	}{
		"zero cap":          {yaml: "max_rows: 0\n"},
		"negative cap env":  {env: map[string]string{EnvMaxRows: "-5"}},
		"xlsx beyond sheet": {yaml: "write_xlsx: true\nmax_rows: 1048576\n"},
		"unknown category":  {yaml: "input_dirs:\n  aadhaar: x\n"},
		"unknown field":     {yaml: "max_row: 10\n"},
		"bad level":         {env: map[string]string{EnvLogLevel: "loud"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			path := ""
			if tc.yaml != "" {
				path = writeYAML(t, tc.yaml)
			}
			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_LargeCapWithoutXLSXIsAllowed(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMaxRows, "5000000")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000000, cfg.MaxRows)
}

func TestSQLitePath_Absolute(t *testing.T) {
	cfg := Default()
	cfg.SQLite = "/var/lib/aadhaar.db"
	assert.Equal(t, "/var/lib/aadhaar.db", cfg.SQLitePath())
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	clearEnv(t)
	require.NoError(t, os.Unsetenv(EnvOutputDir))
	require.NoError(t, os.Unsetenv(EnvLogLevel))
	t.Setenv(EnvMaxRows, "77")

	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("AADHAAR_OUTPUT_DIR=from_dotenv\nAADHAAR_LOG_LEVEL=debug\nAADHAAR_MAX_ROWS=9\n"), 0o644))
	require.NoError(t, LoadDotEnv(p))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 77, cfg.MaxRows)
}
