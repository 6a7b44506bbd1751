package db

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	historyadapters "stock_scraper/internal/feature/historical/adapters"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	defaultSQLitePath = "./stocks.db"
	connectTimeout    = 60 * time.Second
	retryInterval     = 3 * time.Second
)

// Config holds the connection settings read from the environment.
type Config struct {
	Driver       string
	Path         string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	SSLMode      string
	InstanceName string
}

// Opener opens a gorm connection for a DSN. It exists so retries can be tested without a database.
type Opener func(dsn string) (*gorm.DB, error)

// LoadConfigFromEnv reads DB_DRIVER, DB_PATH, DB_USER, DB_PASSWORD, DB_NAME, DB_HOST,
// DB_PORT, DB_SSLMODE and INSTANCE_CONNECTION_NAME.
func LoadConfigFromEnv() Config {
	driver := strings.ToLower(strings.TrimSpace(os.Getenv("DB_DRIVER")))
	if driver == "" {
		driver = DriverSQLite
	}
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = defaultSQLitePath
	}
	return Config{
		Driver:       driver,
		Path:         path,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		SSLMode:      os.Getenv("DB_SSLMODE"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN builds a MySQL DSN. Cloud SQL unix sockets take precedence over TCP.
// Timestamps are read back in UTC so stored calendar dates do not shift.
func BuildDSN(cfg Config) string {
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// BuildPostgresDSN builds a key/value DSN for the pgx driver used by gorm.io/driver/postgres.
func BuildPostgresDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		host, port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses, waiting retryInterval between attempts.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Open connects to the database selected by cfg.Driver.
func Open(cfg Config) (*gorm.DB, error) {
	switch cfg.Driver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.Path), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		// SQLite は単一ライターのため書き込みを直列化する
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case DriverMySQL:
		return ConnectWithRetry(BuildDSN(cfg), connectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), gormConfig())
		})
	case DriverPostgres:
		return ConnectWithRetry(BuildPostgresDSN(cfg), connectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ShouldMigrate reports whether the schema should be migrated at startup.
// RUN_MIGRATIONS wins when set; otherwise only the local SQLite database is migrated.
func ShouldMigrate(cfg Config) bool {
	switch strings.ToLower(os.Getenv("RUN_MIGRATIONS")) {
	case "true":
		return true
	case "false":
		return false
	}
	return cfg.Driver == DriverSQLite
}

// Migrate creates or updates the stocks and historical_records tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&historyadapters.StockModel{},
		&historyadapters.HistoricalRecordModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// OpenDB loads the configuration from the environment, connects, and migrates when enabled.
func OpenDB() (*gorm.DB, error) {
	cfg := LoadConfigFromEnv()
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if ShouldMigrate(cfg) {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("database migrated", "driver", cfg.Driver)
	}
	return db, nil
}
