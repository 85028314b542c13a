package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/langchou/driveoncampus/internal/catalog"
	"github.com/langchou/driveoncampus/internal/config"
	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/region"
	"github.com/langchou/driveoncampus/internal/rental"
	"github.com/langchou/driveoncampus/pkg/ws"
)

// ErrUnknownCampus 校区不存在
var ErrUnknownCampus = errors.New("unknown campus")

// Broadcaster 目录更新的推送目标
type Broadcaster interface {
	BroadcastToCampus(campus, msgType string, data interface{})
}

// CatalogUpdate 目录更新通知
type CatalogUpdate struct {
	Campus   string               `json:"campus"`
	Vehicles []models.VehicleView `json:"vehicles"`
}

// snapshot 某个校区的不可变目录快照
type snapshot struct {
	campus  models.Campus
	catalog *catalog.Catalog
}

// CampusService 校区目录服务
type CampusService struct {
	cfg         *config.Config
	logger      *zap.Logger
	source      catalog.Source
	pricing     rental.Pricing
	broadcaster Broadcaster

	mu        sync.RWMutex
	snapshots map[string]*snapshot
	order     []string
}

// NewCampusService 创建校区服务，broadcaster 可以为 nil
func NewCampusService(
	cfg *config.Config,
	logger *zap.Logger,
	source catalog.Source,
	broadcaster Broadcaster,
) *CampusService {
	return &CampusService{
		cfg:         cfg,
		logger:      logger,
		source:      source,
		broadcaster: broadcaster,
		pricing: rental.Pricing{
			BasePrice:     models.Money(cfg.BasePriceCents),
			PerMinuteRate: models.Money(cfg.PerMinuteCents),
		},
		snapshots: make(map[string]*snapshot),
	}
}

// Load 加载全部校区目录，整体替换
func (s *CampusService) Load(ctx context.Context) error {
	campuses, err := s.source.ListCampuses(ctx)
	if err != nil {
		return fmt.Errorf("list campuses: %w", err)
	}

	snapshots := make(map[string]*snapshot, len(campuses))
	order := make([]string, 0, len(campuses))
	for _, c := range campuses {
		snap, err := s.build(ctx, c)
		if err != nil {
			return err
		}
		snapshots[c.ID] = snap
		order = append(order, c.ID)
	}

	s.mu.Lock()
	s.snapshots = snapshots
	s.order = order
	s.mu.Unlock()

	s.logger.Info("Catalogs loaded", zap.Int("campuses", len(campuses)))
	return nil
}

// Reload 重新加载单个校区（范围、默认视口与车辆）并推送更新
// 失败时保留旧快照
func (s *CampusService) Reload(ctx context.Context, campusID string) (int, error) {
	if _, err := s.get(campusID); err != nil {
		return 0, err
	}

	campus, err := s.fetchCampus(ctx, campusID)
	if err != nil {
		return 0, err
	}
	snap, err := s.build(ctx, campus)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.snapshots[campusID] = snap
	s.mu.Unlock()

	update := &CatalogUpdate{
		Campus:   campusID,
		Vehicles: catalog.Views(snap.catalog.Visible(snap.campus.Bounds)),
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToCampus(campusID, ws.MsgTypeCatalogUpdate, update)
	}

	s.logger.Info("Catalog reloaded",
		zap.String("campus", campusID),
		zap.Int("vehicles", snap.catalog.Len()),
	)
	return snap.catalog.Len(), nil
}

// fetchCampus 从目录来源重新读取校区
func (s *CampusService) fetchCampus(ctx context.Context, campusID string) (models.Campus, error) {
	campuses, err := s.source.ListCampuses(ctx)
	if err != nil {
		return models.Campus{}, fmt.Errorf("list campuses: %w", err)
	}
	for _, c := range campuses {
		if c.ID == campusID {
			return c, nil
		}
	}
	return models.Campus{}, fmt.Errorf("%w: %s removed from source", ErrUnknownCampus, campusID)
}

func (s *CampusService) build(ctx context.Context, c models.Campus) (*snapshot, error) {
	if !c.Bounds.Valid() {
		return nil, fmt.Errorf("campus %s: invalid bounds", c.ID)
	}
	vehicles, err := s.source.ListVehicles(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list vehicles for %s: %w", c.ID, err)
	}
	cat, err := catalog.New(vehicles)
	if err != nil {
		return nil, fmt.Errorf("build catalog for %s: %w", c.ID, err)
	}
	return &snapshot{campus: c, catalog: cat}, nil
}

func (s *CampusService) get(campusID string) (*snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[campusID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCampus, campusID)
	}
	return snap, nil
}

// Campuses 获取所有校区
func (s *CampusService) Campuses() []models.Campus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	campuses := make([]models.Campus, 0, len(s.order))
	for _, id := range s.order {
		campuses = append(campuses, s.snapshots[id].campus)
	}
	return campuses
}

// Campus 获取校区
func (s *CampusService) Campus(campusID string) (models.Campus, error) {
	snap, err := s.get(campusID)
	if err != nil {
		return models.Campus{}, err
	}
	return snap.campus, nil
}

// Pricing 当前计价
func (s *CampusService) Pricing() rental.Pricing {
	return s.pricing
}

// Visible 获取范围内车辆，box 为 nil 时使用校区范围
func (s *CampusService) Visible(campusID string, box *models.BoundingBox) ([]models.VehicleRecord, error) {
	snap, err := s.get(campusID)
	if err != nil {
		return nil, err
	}
	bounds := snap.campus.Bounds
	if box != nil {
		bounds = *box
	}
	return snap.catalog.Visible(bounds), nil
}

// SelectVehicle 查找车辆并报价
func (s *CampusService) SelectVehicle(campusID, vehicleID string) (rental.Result, error) {
	snap, err := s.get(campusID)
	if err != nil {
		return rental.Result{}, err
	}
	return rental.Select(snap.catalog, vehicleID, s.pricing), nil
}

// Rent 确认租车，返回确认文案
func (s *CampusService) Rent(campusID, vehicleID string) (rental.Result, error) {
	res, err := s.SelectVehicle(campusID, vehicleID)
	if err != nil || res.Status != rental.StatusOK {
		return res, err
	}

	conf := rental.Confirm(*res.Quote)
	res.Confirmation = &conf
	res.Message = conf.Message

	s.logger.Info("Vehicle rented",
		zap.String("campus", campusID),
		zap.String("vehicle_id", vehicleID),
		zap.String("reference", conf.Reference),
	)
	return res, nil
}

// ResolveRegion 等待定位并解析视口，最长等待 LocationTimeout
func (s *CampusService) ResolveRegion(ctx context.Context, campusID string, locator region.Locator) (region.Resolution, error) {
	snap, err := s.get(campusID)
	if err != nil {
		return region.Resolution{}, err
	}

	if s.cfg.LocationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.LocationTimeout)
		defer cancel()
	}

	res := region.ResolveRegion(ctx, locator, snap.campus.DefaultRegion)
	if res.Status == region.StatusLocationUnavailable {
		s.logger.Debug("Location unavailable, using default region", zap.String("campus", campusID))
	}
	return res, nil
}
