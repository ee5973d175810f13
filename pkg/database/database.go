package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and tunes the database connection
type Options struct {
	Driver     string // "postgres" or "sqlite"
	DSN        string // postgres DSN
	SQLitePath string
	LogLevel   logger.LogLevel
}

func ConnectDB(opts Options) *gorm.DB {
	db, err := Open(opts)
	if err != nil {
		log.Fatal("Failed to connect to database. \n", err)
	}
	log.Printf("Database connection established (%s)", opts.Driver)
	return db
}

// Open returns a configured connection without terminating the process on failure
func Open(opts Options) (*gorm.DB, error) {
	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger:         newLogger,
		PrepareStmt:    false,
		TranslateError: true, // unique violations surface as gorm.ErrDuplicatedKey
	}

	switch opts.Driver {
	case "sqlite":
		path := opts.SQLitePath
		if path == "" {
			path = "storefront.db"
		}
		// SQLite ignores foreign keys unless every pooled connection asks for them
		return gorm.Open(sqlite.Open(withForeignKeys(path)), gormConfig)
	case "postgres", "":
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is empty: set DATABASE_URL or DB_HOST")
		}
		db, err := gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), gormConfig)
		if err != nil {
			return nil, err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}
}

func withForeignKeys(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}
