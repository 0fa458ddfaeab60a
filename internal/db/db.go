package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EmpoweredVote/bookshelf/internal/config"
)

var DB *gorm.DB

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Connect opens the configured database, applies pool settings and stores the
// handle in DB.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Info
	if cfg.Production {
		level = logger.Warn
	}
	lg := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !cfg.Production,
		},
	)

	d, err := Open(cfg.Database, lg)
	if err != nil {
		return nil, err
	}
	DB = d
	return d, nil
}

// Open connects to the database described by dbc using lg for query logging.
func Open(dbc config.Database, lg logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dbc.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dbc.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(withForeignKeys(dbc.DSN))
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, dbc.Driver)
	}

	d, err := gorm.Open(dialector, &gorm.Config{Logger: lg})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if dbc.Driver == config.DriverSQLite {
		// A single connection keeps writes serialized and an in-memory
		// database alive for the life of the handle.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if err := d.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
		return d, nil
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return d, nil
}

func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// OpenMemory returns a fresh, quiet in-memory SQLite database.
func OpenMemory() (*gorm.DB, error) {
	return Open(config.Database{Driver: config.DriverSQLite, DSN: ":memory:"}, logger.Discard)
}

// Close releases the connection pool behind d.
func Close(d *gorm.DB) error {
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsUniqueViolation reports whether err came from a UNIQUE or primary key constraint.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// IsForeignKeyViolation reports whether err came from a FOREIGN KEY constraint.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		return sqErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}
