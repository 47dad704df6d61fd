// Package database owns the shared store handle. The handle is constructed
// explicitly and passed to each component; there is no package-level
// connection.
package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"social-ledger/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database configuration
type Config struct {
	Driver string // "sqlite" or "postgres"

	// sqlite
	Path string

	// postgres
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoadConfig loads database configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Driver:   getEnv("DB_DRIVER", "sqlite"),
		Path:     getEnv("DB_PATH", filepath.Join("data", "social_ledger.db")),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "social_ledger"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// Connect opens the configured database and returns the store handle.
// Startup failure here is the one fatal path for callers: no operation is
// meaningful without a store.
func Connect(config *Config) (*gorm.DB, error) {
	switch config.Driver {
	case "sqlite":
		return connectSQLite(config)
	case "postgres":
		return connectPostgres(config)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Driver)
	}
}

func connectSQLite(config *Config) (*gorm.DB, error) {
	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// WAL mode serializes concurrent writers without long lock waits; the
	// busy timeout covers the remaining contention window.
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 30000",
		"PRAGMA cache_size = -2000",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	log.Printf("Connected to sqlite database at %s", config.Path)
	return db, nil
}

func connectPostgres(config *Config) (*gorm.DB, error) {
	// Build DSN without empty password parameter
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.DBName, config.SSLMode,
	)
	if config.Password != "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode,
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to postgres database")
	return db, nil
}

// Migrate creates or updates the schema idempotently and ensures indexes
func Migrate(db *gorm.DB) error {
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := EnsureIndexes(db); err != nil {
		return err
	}
	log.Println("Database migrations completed successfully")
	return nil
}

// Recreate drops and rebuilds every table. Destructive; used only for
// test bootstrapping and explicit resets.
func Recreate(db *gorm.DB) error {
	if err := db.Migrator().DropTable(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	log.Println("Dropped all tables")
	return Migrate(db)
}

// indexDef names the secondary indexes used by metrics and safety lookups
type indexDef struct {
	Table  string
	Column string
	Name   string
}

func indexDefs() []indexDef {
	return []indexDef{
		{Table: "content_metrics", Column: "post_id", Name: "post_id_idx"},
		{Table: "content_metrics", Column: "first_tracked", Name: "metrics_time_idx"},
		{Table: "safety_logs", Column: "post_id", Name: "safety_post_idx"},
		{Table: "safety_logs", Column: "checked_at", Name: "safety_time_idx"},
	}
}

// EnsureIndexes creates the lookup indexes if they do not already exist
func EnsureIndexes(db *gorm.DB) error {
	for _, idx := range indexDefs() {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.Name, idx.Table, idx.Column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// CheckIndexes reports, per index name, whether the index exists
func CheckIndexes(db *gorm.DB) (map[string]bool, error) {
	status := make(map[string]bool, len(indexDefs()))
	for _, idx := range indexDefs() {
		var count int64
		var err error
		switch db.Dialector.Name() {
		case "sqlite", "sqlite3":
			err = db.Raw(
				"SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?", idx.Name,
			).Scan(&count).Error
		case "postgres":
			err = db.Raw(
				"SELECT COUNT(*) FROM pg_indexes WHERE indexname = ?", idx.Name,
			).Scan(&count).Error
		default:
			err = fmt.Errorf("unsupported dialect %q", db.Dialector.Name())
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check index %s: %w", idx.Name, err)
		}
		status[idx.Name] = count > 0
	}
	return status, nil
}

// VerifyReport summarizes store health after startup
type VerifyReport struct {
	Counts  map[string]int64 `json:"counts"`
	Indexes map[string]bool  `json:"indexes"`
}

// Verify checks that every table answers a count and every index exists
func Verify(db *gorm.DB) (*VerifyReport, error) {
	report := &VerifyReport{Counts: make(map[string]int64)}

	for _, model := range models.AllModels() {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count table for %T: %w", model, err)
		}
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, err
		}
		report.Counts[stmt.Schema.Table] = count
	}

	indexes, err := CheckIndexes(db)
	if err != nil {
		return nil, err
	}
	report.Indexes = indexes

	return report, nil
}

// Close closes the underlying connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
