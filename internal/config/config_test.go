package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `{"port": 8080}`))
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Equal(t, int64(64<<20), cfg.MaxUploadBytes)
	require.Equal(t, 30, cfg.APITimeoutSec)
	require.Equal(t, os.TempDir(), cfg.UploadTmpDir)
	require.Equal(t, "0 * * * *", cfg.Cleanup.Spec)
	require.Equal(t, 24, cfg.Cleanup.MaxAgeHours)
}

func TestLoad_PortRequired(t *testing.T) {
	_, err := Load(writeConfig(t, `{}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "port is required")
}

func TestLoad_BadUploadDir(t *testing.T) {
	_, err := Load(writeConfig(t, `{"port": 1, "upload_tmp_dir": "/definitely/not/here"}`))
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, `{
		"port": 9000,
		"max_upload_bytes": 1048576,
		"api_timeout_sec": 5,
		"rate_limit_ms": 2000,
		"cors_allowlist": ["https://rote.example.com"],
		"upload_tmp_dir": "`+dir+`",
		"cleanup": {"spec": "*/5 * * * *", "max_age_hours": 6}
	}`))
	require.NoError(t, err)
	require.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	require.Equal(t, 5, cfg.APITimeoutSec)
	require.Equal(t, 2000, cfg.RateLimitMS)
	require.Equal(t, []string{"https://rote.example.com"}, cfg.CORSAllowlist)
	require.Equal(t, dir, cfg.UploadTmpDir)
	require.Equal(t, "*/5 * * * *", cfg.Cleanup.Spec)
	require.Equal(t, 6, cfg.Cleanup.MaxAgeHours)
}
