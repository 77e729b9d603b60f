// Package db はGORMによるデータベース接続を提供します。
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config はデータベース接続設定です。
type Config struct {
	Driver   string // sqlite, postgres
	Path     string // sqliteのファイルパス
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Opener はDSNからgorm.DBを開く関数です（テストで差し替え可能）。
type Opener func(dsn string) (*gorm.DB, error)

// Retry は接続リトライの設定です。
type Retry struct {
	Timeout  time.Duration
	Interval time.Duration
}

// defaultRetry はPostgreSQL起動待ちの既定値です。
var defaultRetry = Retry{Timeout: 60 * time.Second, Interval: 3 * time.Second}

// BuildDSN はPostgreSQL用のDSN文字列を生成します。
func BuildDSN(cfg Config) string {
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslmode)
}

// ConnectWithRetry はtimeoutに達するまで一定間隔で接続を再試行します。
// コンテナ起動直後などDBの準備ができていない場合に備えます。
func ConnectWithRetry(dsn string, r Retry, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(r.Timeout)
	for attempt := 1; ; attempt++ {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if !time.Now().Add(r.Interval).Before(deadline) {
			return nil, fmt.Errorf("DB connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err, "interval", r.Interval)
		time.Sleep(r.Interval)
	}
}

// OpenDB は設定に従ってSQLiteまたはPostgreSQLに接続し、migrateがtrueの場合はmodelsをAutoMigrateします。
func OpenDB(cfg Config, migrate bool, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = ConnectWithRetry(BuildDSN(cfg), defaultRetry, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), &gorm.Config{})
		})
	case "sqlite", "":
		db, err = openSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("マイグレーションが完了しました", "driver", cfg.Driver, "models", len(models))
	}
	return db, nil
}

func openSQLite(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return db, nil
}
