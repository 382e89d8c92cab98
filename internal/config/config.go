package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Ledger
		Admin
		Auth
		Audit
		Tasks
		Metrics
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		SeedPath      string // Semicolon-delimited title;author;isbn file loaded at startup
		CaseSensitive bool   // Search matching mode (default: case-insensitive)
	}
	Ledger struct {
		LoanPeriod   time.Duration // Time from checkout to due (default: 14 days)
		DailyLateFee float64       // Late fee per whole day past due, in currency units
	}
	Admin struct {
		Email    string
		Password string
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		BcryptCost      int
		SecureCookies   bool // Set to false for local dev without HTTPS
	}
	Audit struct {
		RetentionDays   int    // Days to keep audit events (default: 90)
		CleanupSchedule string // Cron format: "30 3 * * *" = daily at 03:30
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Metrics struct {
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog defaults
	v.SetDefault("catalog_seed_path", "")
	v.SetDefault("catalog_search_case_sensitive", false)

	// Circulation defaults
	v.SetDefault("loan_period", DefaultLoanPeriod.String())
	v.SetDefault("late_fee_daily_rate", DefaultDailyLateFee)

	// Built-in administrator
	v.SetDefault("admin_email", DefaultAdminEmail)
	v.SetDefault("admin_password", "")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")      // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h") // 24 hours
	v.SetDefault("auth_bcrypt_cost", 12)         // bcrypt cost factor
	v.SetDefault("auth_secure_cookies", true)    // HTTPS-only cookies

	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", "30 3 * * *")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			SeedPath:      v.GetString("CATALOG_SEED_PATH"),
			CaseSensitive: v.GetBool("CATALOG_SEARCH_CASE_SENSITIVE"),
		},
		Ledger: Ledger{
			LoanPeriod:   v.GetDuration("LOAN_PERIOD"),
			DailyLateFee: v.GetFloat64("LATE_FEE_DAILY_RATE"),
		},
		Admin: Admin{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Auth: Auth{
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
		Audit: Audit{
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}
