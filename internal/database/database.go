package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

// Connection parameters understood by mattn/go-sqlite3. Foreign keys must be
// on for the checkout cascades; immediate transactions take the write lock
// up front so concurrent returns queue on the busy timeout instead of
// failing on lock upgrade.
const sqliteParams = "_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"

// DriverName is go-sqlite3 with the library's SQL functions registered on
// every connection.
const DriverName = "sqlite3_library"

// LowerFunc folds case like strings.ToLower. SQLite's built-in LOWER only
// folds ASCII, so catalog search uses this instead.
const LowerFunc = "unicode_lower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(LowerFunc, strings.ToLower, true)
		},
	})
}

type Database struct {
	DB *gorm.DB
}

// Options tunes how the connection is opened.
type Options struct {
	LogLevel logger.LogLevel
}

func NewDatabase(dbPath string) (*Database, error) {
	return Open(dbPath, Options{LogLevel: logger.Warn})
}

func Open(dbPath string, opts Options) (*Database, error) {
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: DriverName, DSN: DSN(dbPath)}), &gorm.Config{
		Logger: logger.Default.LogMode(opts.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Account{},
		&entities.Checkout{},
		&entities.AuditEvent{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// DSN appends the connection parameters to a database path.
func DSN(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + sqliteParams
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
