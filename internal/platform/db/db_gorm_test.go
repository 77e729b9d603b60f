package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestBuildDSN はPostgreSQL用のDSN文字列が正しく生成されることを検証します。
func TestBuildDSN(t *testing.T) {
	t.Parallel()

	cfg := Config{
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		Host:     "localhost",
		Port:     "5432",
		SSLMode:  "require",
	}

	dsn := BuildDSN(cfg)

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=require TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestBuildDSN_DefaultSSLMode はSSLModeが空の場合にdisableが使われることを検証します。
func TestBuildDSN_DefaultSSLMode(t *testing.T) {
	t.Parallel()

	dsn := BuildDSN(Config{Host: "db", Port: "5432", User: "u", Name: "n"})

	expected := "host=db port=5432 user=u password= dbname=n sslmode=disable TimeZone=UTC"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

// TestConnectWithRetry は失敗回数に応じてリトライ・タイムアウトすることを検証します。
func TestConnectWithRetry(t *testing.T) {
	t.Parallel()

	retry := Retry{Timeout: 200 * time.Millisecond, Interval: 10 * time.Millisecond}

	tests := []struct {
		name         string
		failures     int // 成功するまでに失敗する回数（-1は常に失敗）
		wantErr      bool
		wantAttempts int
	}{
		{name: "初回で成功", failures: 0, wantAttempts: 1},
		{name: "2回失敗後に成功", failures: 2, wantAttempts: 3},
		{name: "タイムアウト", failures: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := &gorm.DB{}
			attempts := 0
			opener := func(dsn string) (*gorm.DB, error) {
				attempts++
				if dsn != "test-dsn" {
					t.Errorf("unexpected dsn %q", dsn)
				}
				if tt.failures < 0 || attempts <= tt.failures {
					return nil, errors.New("connection refused")
				}
				return fake, nil
			}

			db, err := ConnectWithRetry("test-dsn", retry, opener)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error after timeout, got nil")
				}
				if attempts < 2 {
					t.Errorf("expected retries before giving up, got %d attempts", attempts)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if db != fake {
				t.Error("expected opened DB to be returned")
			}
			if attempts != tt.wantAttempts {
				t.Errorf("expected %d attempts, got %d", tt.wantAttempts, attempts)
			}
		})
	}
}

// testModel はマイグレーション検証用のモデルです。
type testModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

// TestOpenDB_SQLiteMigrates はSQLiteに接続し、モデルがマイグレーションされることを検証します。
func TestOpenDB_SQLiteMigrates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "bazi.db")
	db, err := OpenDB(Config{Driver: "sqlite", Path: path}, true, &testModel{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.Migrator().HasTable(&testModel{}) {
		t.Error("expected table to be migrated")
	}
}

// TestOpenDB_SkipMigration はmigrate=falseの場合にテーブルが作成されないことを検証します。
func TestOpenDB_SkipMigration(t *testing.T) {
	t.Parallel()

	db, err := OpenDB(Config{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "bazi.db")}, false, &testModel{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if db.Migrator().HasTable(&testModel{}) {
		t.Error("expected table not to be migrated")
	}
}

// TestOpenDB_UnsupportedDriver は未対応のドライバでエラーになることを検証します。
func TestOpenDB_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := OpenDB(Config{Driver: "mysql"}, false); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
