package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN_TCP はTCP接続用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN_TCP(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "3306",
	}

	dsn := BuildDSN(cfg)

	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=true&loc=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_CloudSQL はInstanceNameが設定されている場合にUnixソケットのDSNが優先されることを検証します。
func TestBuildDSN_CloudSQL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:         "testuser",
		Password:     "testpass",
		Name:         "testdb",
		Host:         "localhost",
		Port:         "3306",
		InstanceName: "project:region:instance",
	}

	dsn := BuildDSN(cfg)

	expected := "testuser:testpass@unix(/cloudsql/project:region:instance)/testdb?charset=utf8mb4&parseTime=true&loc=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildPostgresDSN はPostgreSQL用DSNの既定値とCloud SQLソケットを検証します。
func TestBuildPostgresDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "defaults for port and sslmode",
			cfg:  Config{User: "u", Password: "p", Name: "stocks", Host: "db"},
			want: "host=db port=5432 user=u password=p dbname=stocks sslmode=disable TimeZone=UTC",
		},
		{
			name: "explicit values",
			cfg:  Config{User: "u", Password: "p", Name: "stocks", Host: "db", Port: "6543", SSLMode: "require"},
			want: "host=db port=6543 user=u password=p dbname=stocks sslmode=require TimeZone=UTC",
		},
		{
			name: "cloud sql socket",
			cfg:  Config{User: "u", Password: "p", Name: "stocks", Host: "db", InstanceName: "proj:reg:inst"},
			want: "host=/cloudsql/proj:reg:inst port=5432 user=u password=p dbname=stocks sslmode=disable TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := BuildPostgresDSN(tt.cfg); got != tt.want {
				t.Errorf("expected DSN %q, got %q", tt.want, got)
			}
		})
	}
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if dsn != "test-dsn" {
			t.Errorf("unexpected dsn %q", dsn)
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 1 {
		t.Errorf("expected 1 attempt, got %d", attemptCount)
	}
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel because this test takes time due to retry sleeps

	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db != mockDB {
		t.Error("expected mock DB to be returned")
	}
	if attemptCount != 3 {
		t.Errorf("expected 3 attempts, got %d", attemptCount)
	}
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後に最後のエラーを包んで返すことを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	errRefused := errors.New("connection refused")
	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errRefused
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	if !errors.Is(err, errRefused) {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
	if attemptCount == 0 {
		t.Error("expected at least one connection attempt")
	}
}

// TestLoadConfigFromEnv は環境変数からデータベース設定が正しく読み込まれることを検証します。
func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_PATH", "")
	t.Setenv("DB_USER", "envuser")
	t.Setenv("DB_PASSWORD", "envpass")
	t.Setenv("DB_NAME", "envdb")
	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_SSLMODE", "")
	t.Setenv("INSTANCE_CONNECTION_NAME", "")

	cfg := LoadConfigFromEnv()

	want := Config{
		Driver:   DriverMySQL,
		Path:     defaultSQLitePath,
		User:     "envuser",
		Password: "envpass",
		Name:     "envdb",
		Host:     "envhost",
		Port:     "3307",
	}
	if cfg != want {
		t.Errorf("expected %+v, got %+v", want, cfg)
	}
}

// TestLoadConfigFromEnv_DefaultsToSQLite はDB_DRIVER未設定時にSQLiteが選ばれることを検証します。
func TestLoadConfigFromEnv_DefaultsToSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "/tmp/custom.db")

	cfg := LoadConfigFromEnv()

	if cfg.Driver != DriverSQLite {
		t.Errorf("expected driver %q, got %q", DriverSQLite, cfg.Driver)
	}
	if cfg.Path != "/tmp/custom.db" {
		t.Errorf("expected path %q, got %q", "/tmp/custom.db", cfg.Path)
	}
}

// TestShouldMigrate はRUN_MIGRATIONSとドライバーの組み合わせを検証します。
func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		driver string
		want   bool
	}{
		{"sqlite migrates by default", "", DriverSQLite, true},
		{"mysql does not migrate by default", "", DriverMySQL, false},
		{"explicit true", "true", DriverPostgres, true},
		{"explicit false wins for sqlite", "false", DriverSQLite, false},
		{"case insensitive", "TRUE", DriverMySQL, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RUN_MIGRATIONS", tt.env)
			if got := ShouldMigrate(Config{Driver: tt.driver}); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestOpen_UnsupportedDriver は未知のドライバーでエラーになることを検証します。
func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open(Config{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

// TestOpenDB_SQLite はSQLiteファイルを開いてテーブルが作成されることを検証します。
func TestOpenDB_SQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "stocks.db"))
	t.Setenv("RUN_MIGRATIONS", "")

	db, err := OpenDB()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, table := range []string{"stocks", "historical_records"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %q to exist", table)
		}
	}
}
