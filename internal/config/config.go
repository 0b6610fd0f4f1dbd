package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Clippings
		Database
		Audit
		Session
		Sync
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Clippings struct {
		SourcePath string // Clippings file offered by default
		OutputDir  string // Directory exports are written to by default
	}
	Database struct {
		Path string
	}
	Audit struct {
		RetentionDays int // Days to keep export history (default: 30)
	}
	Session struct {
		Secret        string        // CSRF key; generated at startup when empty
		Lifetime      time.Duration // Web UI state lifetime
		SecureCookies bool          // Set to false for local dev without HTTPS
	}
	Sync struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("clippings_path", "")
	v.SetDefault("clippings_output_dir", "")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("session_secret", "")
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)

	v.SetDefault("sync_enabled", false)
	v.SetDefault("sync_schedule", DefaultSyncSchedule)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Clippings: Clippings{
			SourcePath: v.GetString("CLIPPINGS_PATH"),
			OutputDir:  v.GetString("CLIPPINGS_OUTPUT_DIR"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Session: Session{
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		Sync: Sync{
			Enabled:  v.GetBool("SYNC_ENABLED"),
			Schedule: v.GetString("SYNC_SCHEDULE"),
		},
	}
}
