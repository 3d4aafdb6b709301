package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8080), cfg.HTTP.Port)
	assert.False(t, cfg.HTTP.HSTS)
	assert.Equal(t, "http://localhost:8080/api/verify-email?code=", cfg.Mail.VerifyURL)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "x-jwt", cfg.Auth.TokenHeader)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Zero(t, cfg.Auth.TokenExpiry)
	assert.Equal(t, MailDriverLog, cfg.Mail.Driver)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)
	assert.Equal(t, 30, cfg.Audit.RetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.Maintenance.Schedule)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_SECRET_KEY", "s3cret")
	t.Setenv("AUTH_TOKEN_HEADER", "X-Session")
	t.Setenv("AUTH_TOKEN_EXPIRY", "2h")
	t.Setenv("AUTH_BCRYPT_COST", "12")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/identity")
	t.Setenv("MAIL_DRIVER", "smtp")
	t.Setenv("TASK_WORKERS", "4")
	t.Setenv("TASK_RELEASE_AFTER", "30m")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "s3cret", cfg.Auth.SecretKey)
	assert.Equal(t, "X-Session", cfg.Auth.TokenHeader)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/identity", cfg.Database.DSN)
	assert.Equal(t, MailDriverSMTP, cfg.Mail.Driver)
	assert.Equal(t, 4, cfg.Tasks.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Tasks.ReleaseAfter)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:     Auth{SecretKey: "key"},
			Database: Database{Driver: DatabaseDriverSQLite, Path: "./x.db"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid sqlite", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.SecretKey = "" }, wantErr: ErrSecretKeyMissing},
		{name: "missing sqlite path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: ErrDatabasePathMissing},
		{
			name:    "postgres without dsn",
			mutate:  func(c *Config) { c.Database.Driver = DatabaseDriverPostgres },
			wantErr: ErrDatabaseDSNMissing,
		},
		{
			name: "valid postgres",
			mutate: func(c *Config) {
				c.Database.Driver = DatabaseDriverPostgres
				c.Database.DSN = "postgres://localhost/identity"
			},
		},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: ErrUnknownDatabaseDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
