package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings read from the environment and an
// optional .env file.
type Config struct {
	Env             string        `mapstructure:"ENV"`
	Addr            string        `mapstructure:"ADDR"`
	DBPath          string        `mapstructure:"DB_PATH"`
	BackupDir       string        `mapstructure:"BACKUP_DIR"`
	AppPassword     string        `mapstructure:"APP_PASSWORD"`
	AppPasswordHash string        `mapstructure:"APP_PASSWORD_HASH"`
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	SnapshotMaxAge  time.Duration `mapstructure:"SNAPSHOT_MAX_AGE"`
	BackupCron      string        `mapstructure:"BACKUP_CRON"`
	DigestCron      string        `mapstructure:"DIGEST_CRON"`
	AllowDemoSeed   bool          `mapstructure:"ALLOW_DEMO_SEED"`
	LogFile         string        `mapstructure:"LOG_FILE"`
}

var keys = []string{
	"ENV", "ADDR", "DB_PATH", "BACKUP_DIR", "APP_PASSWORD", "APP_PASSWORD_HASH",
	"JWT_SECRET", "SNAPSHOT_MAX_AGE", "BACKUP_CRON", "DIGEST_CRON",
	"ALLOW_DEMO_SEED", "LOG_FILE",
}

var defaults = map[string]any{
	"ENV":              "development",
	"ADDR":             ":8080",
	"DB_PATH":          "vozicek.sqlite3",
	"BACKUP_DIR":       "backup",
	"SNAPSHOT_MAX_AGE": "30s",
	"BACKUP_CRON":      "0 3 * * *",
	"DIGEST_CRON":      "0 7 * * *",
	"ALLOW_DEMO_SEED":  false,
}

// Load reads the configuration. envFile may be empty, in which case only
// the process environment and defaults apply.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	for _, key := range keys {
		v.BindEnv(key)
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		// A missing .env file is fine; a broken one is not.
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	// Placeholder values count as unset, so they fall back to the default.
	for _, key := range keys {
		def, hasDefault := defaults[key]
		if hasDefault {
			v.SetDefault(key, def)
		}
		if !isBlank(v.GetString(key)) {
			continue
		}
		if hasDefault {
			v.Set(key, def)
		} else {
			v.Set(key, "")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// isBlank reports whether a raw setting value means "not configured".
func isBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", ".", "none", "null":
		return true
	}
	return false
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to serve with.
func (c *Config) Validate() error {
	if c.AppPassword == "" && c.AppPasswordHash == "" {
		return fmt.Errorf("APP_PASSWORD or APP_PASSWORD_HASH is required")
	}
	if c.AppPasswordHash != "" && !strings.HasPrefix(c.AppPasswordHash, "$2") {
		return fmt.Errorf("APP_PASSWORD_HASH must be a bcrypt hash")
	}
	if c.SnapshotMaxAge < 0 {
		return fmt.Errorf("SNAPSHOT_MAX_AGE must not be negative, got %s", c.SnapshotMaxAge)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	return nil
}
