package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB 数据库连接池封装
type DB struct {
	Pool *pgxpool.Pool
}

// New 创建数据库连接
func New(ctx context.Context, databaseURL string) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// 连接池配置
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// 测试连接
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close 关闭连接池
func (db *DB) Close() {
	db.Pool.Close()
}

// Migrate 执行数据库迁移
func (db *DB) Migrate(ctx context.Context) error {
	migrations := []string{
		migrationCreateCampuses,
		migrationCreateVehicles,
	}

	for _, m := range migrations {
		if _, err := db.Pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

const migrationCreateCampuses = `
CREATE TABLE IF NOT EXISTS campuses (
    id VARCHAR(64) PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    min_lat DOUBLE PRECISION NOT NULL,
    max_lat DOUBLE PRECISION NOT NULL,
    min_lng DOUBLE PRECISION NOT NULL,
    max_lng DOUBLE PRECISION NOT NULL,
    center_lat DOUBLE PRECISION NOT NULL,
    center_lng DOUBLE PRECISION NOT NULL,
    lat_delta DOUBLE PRECISION NOT NULL,
    lng_delta DOUBLE PRECISION NOT NULL,
    CHECK (min_lat <= max_lat AND min_lng <= max_lng)
);
`

// 同一 id 在不同校区可以重复
const migrationCreateVehicles = `
CREATE TABLE IF NOT EXISTS vehicles (
    campus_id VARCHAR(64) NOT NULL REFERENCES campuses(id),
    id VARCHAR(64) NOT NULL,
    position INT NOT NULL,
    name VARCHAR(255) NOT NULL DEFAULT '',
    license_plate VARCHAR(32) NOT NULL,
    license_color VARCHAR(32) NOT NULL DEFAULT '',
    latitude DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL,
    fuel_estimate DOUBLE PRECISION NOT NULL CHECK (fuel_estimate >= 0 AND fuel_estimate <= 1),
    PRIMARY KEY (campus_id, id)
);
CREATE INDEX IF NOT EXISTS idx_vehicles_campus_position ON vehicles(campus_id, position);
`
