package catalog

import (
	"context"

	"github.com/langchou/driveoncampus/internal/models"
)

// Source 目录数据来源
type Source interface {
	ListCampuses(ctx context.Context) ([]models.Campus, error)
	ListVehicles(ctx context.Context, campusID string) ([]models.VehicleRecord, error)
}

// StaticSource 内存中的目录来源
type StaticSource struct {
	campuses []models.Campus
	vehicles map[string][]models.VehicleRecord
}

// NewStaticSource 创建内存目录来源
func NewStaticSource(campuses []models.Campus, vehicles map[string][]models.VehicleRecord) *StaticSource {
	return &StaticSource{campuses: campuses, vehicles: vehicles}
}

// SeedSource 内置的 Evanston 目录
func SeedSource() *StaticSource {
	return NewStaticSource(Campuses(), Seed())
}

func (s *StaticSource) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	out := make([]models.Campus, len(s.campuses))
	copy(out, s.campuses)
	return out, nil
}

func (s *StaticSource) ListVehicles(ctx context.Context, campusID string) ([]models.VehicleRecord, error) {
	vehicles := s.vehicles[campusID]
	out := make([]models.VehicleRecord, len(vehicles))
	copy(out, vehicles)
	return out, nil
}
