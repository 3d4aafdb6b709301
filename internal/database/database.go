package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/identity/internal/config"
	"github.com/mrlokans/identity/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured store and migrates the schema.
func NewDatabase(cfg config.Database) (*Database, error) {
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		return open(postgres.Open(cfg.DSN), "postgres")
	case config.DatabaseDriverSQLite, "":
		return NewSQLiteDatabase(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// NewSQLiteDatabase opens a SQLite file with foreign keys enforced, which
// verification tickets rely on for cascading deletes.
func NewSQLiteDatabase(dbPath string) (*Database, error) {
	return open(sqlite.Open(sqliteDSN(dbPath)), dbPath)
}

func open(dialector gorm.Dialector, target string) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(slog.Default()),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Account{},
		&entities.Verification{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("database initialized", "target", target)

	return &Database{DB: db}, nil
}

// newGormLogger routes gorm warnings through slog. Bound values are kept out
// of the output since statements carry password digests.
func newGormLogger(l *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(l.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

// Transactions take the write lock up front so a read-then-write
// transaction cannot fail on lock upgrade while another writer is active.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks connectivity within a short deadline.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// IsDuplicateKey reports whether err is a unique constraint violation.
// Drivers that do not translate errors are matched on their message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
