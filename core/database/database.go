package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// Registers the cgo-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"
)

// Connect opens the configured database and verifies it with a ping.
// The database is optional for most commands, so callers should handle the
// error gracefully.
func Connect(cfg Config) (*gorm.DB, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	dialector, err := dialectorFor(cfg, timeout)
	if err != nil {
		return nil, err
	}

	// Suppress GORM logging for cleaner optional warnings in main logger
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// A single connection keeps in-memory databases shared and avoids
		// SQLITE_BUSY on concurrent writes.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dialectorFor(cfg Config, timeout int) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverMySQL, "":
		// Special characters in the password must be URL encoded.
		userInfo := url.UserPassword(cfg.User, cfg.Password).String()
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
			userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: cfg.Name}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
