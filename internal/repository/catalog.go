package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/langchou/driveoncampus/internal/models"
)

// CatalogRepository 校区与车辆目录仓库
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository 创建目录仓库
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCampuses 获取所有校区
func (r *CatalogRepository) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	query := `
		SELECT id, name, min_lat, max_lat, min_lng, max_lng, center_lat, center_lng, lat_delta, lng_delta
		FROM campuses ORDER BY id
	`
	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	defer rows.Close()

	var campuses []models.Campus
	for rows.Next() {
		var c models.Campus
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Bounds.MinLat,
			&c.Bounds.MaxLat,
			&c.Bounds.MinLng,
			&c.Bounds.MaxLng,
			&c.DefaultRegion.Latitude,
			&c.DefaultRegion.Longitude,
			&c.DefaultRegion.LatitudeDelta,
			&c.DefaultRegion.LongitudeDelta,
		)
		if err != nil {
			return nil, fmt.Errorf("scan campus: %w", err)
		}
		campuses = append(campuses, c)
	}

	return campuses, rows.Err()
}

// ListVehicles 获取校区车辆，按目录顺序
func (r *CatalogRepository) ListVehicles(ctx context.Context, campusID string) ([]models.VehicleRecord, error) {
	query := `
		SELECT id, name, license_plate, license_color, latitude, longitude, fuel_estimate
		FROM vehicles WHERE campus_id = $1 ORDER BY position, id
	`
	rows, err := r.db.Pool.Query(ctx, query, campusID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []models.VehicleRecord
	for rows.Next() {
		var v models.VehicleRecord
		err := rows.Scan(
			&v.ID,
			&v.Name,
			&v.LicensePlate,
			&v.LicenseColor,
			&v.Latitude,
			&v.Longitude,
			&v.FuelEstimate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// Seed 写入内置目录，已存在的记录保持不变
func (r *CatalogRepository) Seed(ctx context.Context, campuses []models.Campus, vehicles map[string][]models.VehicleRecord) error {
	batch := &pgx.Batch{}

	for _, c := range campuses {
		batch.Queue(`
			INSERT INTO campuses (id, name, min_lat, max_lat, min_lng, max_lng, center_lat, center_lng, lat_delta, lng_delta)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO NOTHING
		`,
			c.ID,
			c.Name,
			c.Bounds.MinLat,
			c.Bounds.MaxLat,
			c.Bounds.MinLng,
			c.Bounds.MaxLng,
			c.DefaultRegion.Latitude,
			c.DefaultRegion.Longitude,
			c.DefaultRegion.LatitudeDelta,
			c.DefaultRegion.LongitudeDelta,
		)

		for i, v := range vehicles[c.ID] {
			batch.Queue(`
				INSERT INTO vehicles (campus_id, id, position, name, license_plate, license_color, latitude, longitude, fuel_estimate)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (campus_id, id) DO NOTHING
			`,
				c.ID,
				v.ID,
				i,
				v.Name,
				v.LicensePlate,
				v.LicenseColor,
				v.Latitude,
				v.Longitude,
				v.FuelEstimate,
			)
		}
	}

	if err := r.db.Pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}
