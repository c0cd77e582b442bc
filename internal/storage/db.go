// Package storage 基于 gorm 的本地缓存存储
package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 持有数据库连接和唯一的执行循环
type DB struct {
	gorm *gorm.DB
	exec *Executor
}

// Open 连接数据库并设置连接池
func Open(databaseURL string) (*DB, error) {
	gdb, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 所有操作都在一个 goroutine 上执行，连接数不需要多
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return New(gdb), nil
}

// New 包装已有的 gorm 连接
func New(gdb *gorm.DB) *DB {
	return &DB{gorm: gdb, exec: NewExecutor()}
}

// Gorm 底层连接，仅供测试和迁移使用
func (db *DB) Gorm() *gorm.DB {
	return db.gorm
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS genres (
		id         BIGINT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id            BIGINT NOT NULL,
		category      VARCHAR(20) NOT NULL CHECK (category IN ('now_playing', 'popular', 'detail')),
		title         TEXT NOT NULL DEFAULT '',
		overview      TEXT NOT NULL DEFAULT '',
		popularity    DOUBLE PRECISION NOT NULL DEFAULT 0,
		poster_path   TEXT,
		release_date  TEXT NOT NULL DEFAULT '',
		vote_average  DOUBLE PRECISION NOT NULL DEFAULT 0,
		genre_ids     INTEGER[],
		backdrop_path TEXT,
		runtime       INTEGER,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (id, category)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movies_category_created_at ON movies (category, created_at)`,
	`CREATE TABLE IF NOT EXISTS favourite_movies (
		id            BIGINT PRIMARY KEY,
		title         TEXT NOT NULL DEFAULT '',
		overview      TEXT NOT NULL DEFAULT '',
		popularity    DOUBLE PRECISION NOT NULL DEFAULT 0,
		poster_path   TEXT,
		release_date  TEXT NOT NULL DEFAULT '',
		vote_average  DOUBLE PRECISION NOT NULL DEFAULT 0,
		genre_ids     INTEGER[],
		backdrop_path TEXT,
		runtime       INTEGER,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate 建表，可重复执行
func (db *DB) Migrate(ctx context.Context) error {
	return db.exec.Do(ctx, func(ctx context.Context) error {
		return db.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, stmt := range schema {
				if err := tx.Exec(stmt).Error; err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			return nil
		})
	})
}

// Close 停止执行循环并关闭连接
func (db *DB) Close() error {
	db.exec.Close()
	sqlDB, err := db.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
