package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/langchou/driveoncampus/internal/catalog"
	"github.com/langchou/driveoncampus/internal/config"
	"github.com/langchou/driveoncampus/internal/models"
	"github.com/langchou/driveoncampus/internal/region"
	"github.com/langchou/driveoncampus/internal/rental"
)

type broadcast struct {
	campus  string
	msgType string
	data    interface{}
}

type fakeBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
}

func (f *fakeBroadcaster) BroadcastToCampus(campus, msgType string, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, broadcast{campus, msgType, data})
}

// mutableSource 测试用：可替换校区与车辆列表
type mutableSource struct {
	mu       sync.Mutex
	campuses []models.Campus
	vehicles []models.VehicleRecord
	err      error
}

func (m *mutableSource) ListCampuses(ctx context.Context) ([]models.Campus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.campuses != nil {
		return m.campuses, nil
	}
	return catalog.Campuses(), nil
}

func (m *mutableSource) ListVehicles(ctx context.Context, campusID string) ([]models.VehicleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.vehicles, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DefaultCampus:   "evanston",
		BasePriceCents:  150,
		PerMinuteCents:  45,
		LocationTimeout: time.Second,
	}
}

func newLoadedService(t *testing.T, source catalog.Source, b Broadcaster) *CampusService {
	t.Helper()
	svc := NewCampusService(testConfig(), zap.NewNop(), source, b)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return svc
}

func TestVisibleUsesCampusBounds(t *testing.T) {
	svc := newLoadedService(t, catalog.SeedSource(), nil)

	vehicles, err := svc.Visible("evanston", nil)
	if err != nil {
		t.Fatalf("Visible: %v", err)
	}
	var got []string
	for _, v := range vehicles {
		got = append(got, v.ID)
	}
	if diff := cmp.Diff([]string{"v1", "v2", "v3"}, got); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	wide := &models.BoundingBox{MinLat: 41, MaxLat: 43, MinLng: -88, MaxLng: -87}
	vehicles, _ = svc.Visible("evanston", wide)
	if len(vehicles) != 4 {
		t.Errorf("wide box returned %d vehicles, want 4", len(vehicles))
	}
}

func TestUnknownCampus(t *testing.T) {
	svc := newLoadedService(t, catalog.SeedSource(), nil)

	if _, err := svc.Visible("skokie", nil); !errors.Is(err, ErrUnknownCampus) {
		t.Errorf("Visible error = %v", err)
	}
	if _, err := svc.SelectVehicle("skokie", "v1"); !errors.Is(err, ErrUnknownCampus) {
		t.Errorf("SelectVehicle error = %v", err)
	}
	if _, err := svc.Campus("skokie"); !errors.Is(err, ErrUnknownCampus) {
		t.Errorf("Campus error = %v", err)
	}
	if _, err := svc.ResolveRegion(context.Background(), "skokie", region.StaticLocator{}); !errors.Is(err, ErrUnknownCampus) {
		t.Errorf("ResolveRegion error = %v", err)
	}
}

func TestSelectAndRent(t *testing.T) {
	svc := newLoadedService(t, catalog.SeedSource(), nil)

	res, err := svc.SelectVehicle("evanston", "v2")
	if err != nil || res.Status != rental.StatusOK {
		t.Fatalf("SelectVehicle = %+v, %v", res, err)
	}
	if res.Quote.Vehicle.LicensePlate != "GTT 240" || res.Quote.PerMinuteRate != 45 || res.Quote.BasePrice != 150 {
		t.Errorf("quote = %+v", res.Quote)
	}

	res, _ = svc.SelectVehicle("evanston", "v9")
	if res.Status != rental.StatusNotFound {
		t.Errorf("v9 status = %s", res.Status)
	}

	res, err = svc.Rent("evanston", "v1")
	if err != nil || res.Confirmation == nil {
		t.Fatalf("Rent = %+v, %v", res, err)
	}
	if res.Message != "You have rented AYNL 794 at $0.45/min." {
		t.Errorf("Message = %q", res.Message)
	}

	res, _ = svc.Rent("evanston", "v9")
	if res.Status != rental.StatusNotFound || res.Confirmation != nil {
		t.Errorf("Rent(v9) = %+v", res)
	}
}

func TestResolveRegion(t *testing.T) {
	svc := newLoadedService(t, catalog.SeedSource(), nil)

	res, err := svc.ResolveRegion(context.Background(), "evanston", region.StaticLocator{})
	if err != nil {
		t.Fatalf("ResolveRegion: %v", err)
	}
	if res.Status != region.StatusLocationUnavailable || res.Region != catalog.CampusEvanston.DefaultRegion {
		t.Errorf("no fix: %+v", res)
	}

	fix := &models.Fix{Latitude: 42.055, Longitude: -87.672}
	res, _ = svc.ResolveRegion(context.Background(), "evanston", region.StaticLocator{Fix: fix})
	want := catalog.CampusEvanston.DefaultRegion
	want.Latitude, want.Longitude = fix.Latitude, fix.Longitude
	if res.Status != region.StatusLocated || res.Region != want {
		t.Errorf("with fix: %+v", res)
	}
}

func TestReloadSwapsSnapshotAndBroadcasts(t *testing.T) {
	source := &mutableSource{vehicles: catalog.EvanstonVehicles()}
	b := &fakeBroadcaster{}
	svc := newLoadedService(t, source, b)

	before, _ := svc.Visible("evanston", nil)

	source.mu.Lock()
	source.vehicles = source.vehicles[:1]
	source.mu.Unlock()

	n, err := svc.Reload(context.Background(), "evanston")
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if n != 1 {
		t.Errorf("Reload count = %d, want 1", n)
	}

	after, _ := svc.Visible("evanston", nil)
	if len(before) != 3 || len(after) != 1 {
		t.Errorf("before=%d after=%d", len(before), len(after))
	}

	if len(b.sent) != 1 || b.sent[0].campus != "evanston" || b.sent[0].msgType != "catalog_update" {
		t.Fatalf("broadcasts = %+v", b.sent)
	}
	u, ok := b.sent[0].data.(*CatalogUpdate)
	if !ok || u.Campus != "evanston" || len(u.Vehicles) != 1 || u.Vehicles[0].FuelPercent != 72 {
		t.Errorf("update = %+v", b.sent[0].data)
	}
}

func TestReloadRefreshesCampus(t *testing.T) {
	source := &mutableSource{vehicles: catalog.EvanstonVehicles()}
	svc := newLoadedService(t, source, nil)

	moved := catalog.CampusEvanston
	moved.DefaultRegion.Latitude = 42.06
	moved.Bounds.MinLat = 41.80

	source.mu.Lock()
	source.campuses = []models.Campus{moved}
	source.mu.Unlock()

	if _, err := svc.Reload(context.Background(), "evanston"); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	got, _ := svc.Campus("evanston")
	if diff := cmp.Diff(moved, got); diff != "" {
		t.Errorf("campus mismatch (-want +got):\n%s", diff)
	}
	if vehicles, _ := svc.Visible("evanston", nil); len(vehicles) != 4 {
		t.Errorf("widened bounds returned %d vehicles, want 4", len(vehicles))
	}

	source.mu.Lock()
	source.campuses = []models.Campus{}
	source.mu.Unlock()

	if _, err := svc.Reload(context.Background(), "evanston"); !errors.Is(err, ErrUnknownCampus) {
		t.Fatalf("Reload after removal error = %v", err)
	}
	if got, err := svc.Campus("evanston"); err != nil || got != moved {
		t.Errorf("old snapshot lost: %+v, %v", got, err)
	}
}

func TestReloadKeepsOldSnapshotOnError(t *testing.T) {
	source := &mutableSource{vehicles: catalog.EvanstonVehicles()}
	svc := newLoadedService(t, source, nil)

	source.mu.Lock()
	source.vehicles = []models.VehicleRecord{{ID: "bad", FuelEstimate: 3}}
	source.mu.Unlock()

	if _, err := svc.Reload(context.Background(), "evanston"); !errors.Is(err, catalog.ErrFuelOutOfRange) {
		t.Fatalf("Reload error = %v", err)
	}
	if vehicles, _ := svc.Visible("evanston", nil); len(vehicles) != 3 {
		t.Errorf("old snapshot lost: %d vehicles", len(vehicles))
	}
}

func TestLoadFailsOnSourceError(t *testing.T) {
	source := &mutableSource{err: errors.New("db down")}
	svc := NewCampusService(testConfig(), zap.NewNop(), source, nil)

	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("Load should fail")
	}
	if len(svc.Campuses()) != 0 {
		t.Error("no campuses should be loaded")
	}
}
