package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port           int              `json:"port"`
	LogConfig      logger.LogConfig `json:"log_config"`
	CORSAllowlist  []string         `json:"cors_allowlist"`
	MaxUploadBytes int64            `json:"max_upload_bytes"`
	APITimeoutSec  int              `json:"api_timeout_sec"`
	RateLimitMS    int              `json:"rate_limit_ms"`
	UploadTmpDir   string           `json:"upload_tmp_dir"`
	Cleanup        CleanupConfig    `json:"cleanup"`
}

type CleanupConfig struct {
	Spec        string `json:"spec"`
	MaxAgeHours int    `json:"max_age_hours"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port == 0 {
		return nil, fmt.Errorf("port is required")
	}
	if cfg.LogConfig.Level == "" {
		cfg.LogConfig.Level = "info"
	}
	if cfg.MaxUploadBytes == 0 {
		cfg.MaxUploadBytes = 64 << 20
	}
	if cfg.APITimeoutSec == 0 {
		cfg.APITimeoutSec = 30
	}
	if cfg.UploadTmpDir == "" {
		cfg.UploadTmpDir = os.TempDir()
	}
	if info, err := os.Stat(cfg.UploadTmpDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("upload_tmp_dir %q is not a directory", cfg.UploadTmpDir)
	}
	if cfg.Cleanup.Spec == "" {
		cfg.Cleanup.Spec = "0 * * * *"
	}
	if cfg.Cleanup.MaxAgeHours == 0 {
		cfg.Cleanup.MaxAgeHours = 24
	}
	return &cfg, nil
}
