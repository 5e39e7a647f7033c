package db

import (
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront/internal/config"
	"storefront/internal/domain/model"
)

// Connect はDBに接続して *gorm.DB を返す。
// 接続はpgxのstdlibドライバで作り、gormに渡す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	sqlDB := stdlib.OpenDB(*pgCfg)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return gdb, nil
}

// Migrate は保存枠のテーブルを作る
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.CartSlot{},
		&model.CheckoutSession{},
	)
}
