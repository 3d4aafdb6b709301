package config

import (
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type MailDriver string

const (
	MailDriverLog  MailDriver = "log"  // Write messages to the application log (default)
	MailDriverSMTP MailDriver = "smtp" // Deliver through an SMTP relay
)

type (
	Config struct {
		HTTP
		Global
		Log
		Database
		Auth
		Mail
		Tasks
		Audit
		Maintenance
	}

	HTTP struct {
		Port int32
		Host string
		HSTS bool // Send Strict-Transport-Security, only behind TLS
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Log struct {
		Level  string // debug, info, warn, error
		Format string // text or json
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file
		DSN    string // PostgreSQL connection string
	}
	Auth struct {
		SecretKey   string
		TokenHeader string
		TokenExpiry time.Duration // 0 issues tokens without expiry
		BcryptCost  int
	}
	Mail struct {
		Driver       MailDriver
		From         string
		SMTPHost     string
		SMTPPort     int
		SMTPUsername string
		SMTPPassword string
		VerifyURL    string // Link prefix, the code is appended
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Audit struct {
		Enabled       bool
		RetentionDays int // Days to keep audit events (default: 30)
	}
	Maintenance struct {
		Enabled                   bool
		Schedule                  string // Cron format: "0 3 * * *" = daily at 03:00
		VerificationRetentionDays int    // Days to keep redeemed verification tickets
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("http_hsts", false)
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("database_driver", string(DatabaseDriverSQLite))
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")

	// Auth defaults
	v.SetDefault("auth_secret_key", "")        // Required
	v.SetDefault("auth_token_header", "x-jwt") // Header carrying the session token
	v.SetDefault("auth_token_expiry", "0s")    // Tokens never expire unless set
	v.SetDefault("auth_bcrypt_cost", 10)       // bcrypt cost factor

	// Mail defaults
	v.SetDefault("mail_driver", string(MailDriverLog))
	v.SetDefault("mail_from", "no-reply@localhost")
	v.SetDefault("mail_smtp_host", "localhost")
	v.SetDefault("mail_smtp_port", 25)
	v.SetDefault("mail_verify_url", "http://localhost:8080/api/verify-email?code=")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 30)

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 3 * * *")
	v.SetDefault("maintenance_verification_retention_days", 7)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
			HSTS: v.GetBool("HTTP_HSTS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			DSN:    v.GetString("DATABASE_DSN"),
		},
		Auth: Auth{
			SecretKey:   v.GetString("AUTH_SECRET_KEY"),
			TokenHeader: v.GetString("AUTH_TOKEN_HEADER"),
			TokenExpiry: v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
		},
		Mail: Mail{
			Driver:       MailDriver(v.GetString("MAIL_DRIVER")),
			From:         v.GetString("MAIL_FROM"),
			SMTPHost:     v.GetString("MAIL_SMTP_HOST"),
			SMTPPort:     v.GetInt("MAIL_SMTP_PORT"),
			SMTPUsername: v.GetString("MAIL_SMTP_USERNAME"),
			SMTPPassword: v.GetString("MAIL_SMTP_PASSWORD"),
			VerifyURL:    v.GetString("MAIL_VERIFY_URL"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Maintenance: Maintenance{
			Enabled:                   v.GetBool("MAINTENANCE_ENABLED"),
			Schedule:                  v.GetString("MAINTENANCE_SCHEDULE"),
			VerificationRetentionDays: v.GetInt("MAINTENANCE_VERIFICATION_RETENTION_DAYS"),
		},
	}
}

// Validate reports configuration that the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return ErrSecretKeyMissing
	}
	switch c.Database.Driver {
	case DatabaseDriverSQLite:
		if c.Database.Path == "" {
			return ErrDatabasePathMissing
		}
	case DatabaseDriverPostgres:
		if c.Database.DSN == "" {
			return ErrDatabaseDSNMissing
		}
	default:
		return ErrUnknownDatabaseDriver
	}
	return nil
}
