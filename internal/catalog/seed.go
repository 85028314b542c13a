package catalog

import "github.com/langchou/driveoncampus/internal/models"

// CampusEvanston 西北大学 Evanston 校区
var CampusEvanston = models.Campus{
	ID:   "evanston",
	Name: "Northwestern Evanston",
	Bounds: models.BoundingBox{
		MinLat: 42.02,
		MaxLat: 42.09,
		MinLng: -87.74,
		MaxLng: -87.60,
	},
	DefaultRegion: models.Region{
		Latitude:       42.0583,
		Longitude:      -87.6751,
		LatitudeDelta:  0.03,
		LongitudeDelta: 0.03,
	},
}

// EvanstonVehicles 内置样例车辆，v4 位于芝加哥市区，不在校区范围内
func EvanstonVehicles() []models.VehicleRecord {
	return []models.VehicleRecord{
		{ID: "v1", Name: "Vehicle 1", LicensePlate: "AYNL 794", LicenseColor: "red", Latitude: 42.0583, Longitude: -87.6751, FuelEstimate: 0.72},
		{ID: "v2", Name: "Vehicle 2", LicensePlate: "GTT 240", LicenseColor: "green", Latitude: 42.0600, Longitude: -87.6690, FuelEstimate: 0.45},
		{ID: "v3", Name: "Vehicle 3", LicensePlate: "FLT4FUN", LicenseColor: "plaid", Latitude: 42.0500, Longitude: -87.6800, FuelEstimate: 0.30},
		{ID: "v4", Name: "Vehicle 4", LicensePlate: "LOOP 12", LicenseColor: "blue", Latitude: 41.88, Longitude: -87.62, FuelEstimate: 0.50},
	}
}

// Seed 内置校区及其车辆
func Seed() map[string][]models.VehicleRecord {
	return map[string][]models.VehicleRecord{
		CampusEvanston.ID: EvanstonVehicles(),
	}
}

// Campuses 内置校区列表
func Campuses() []models.Campus {
	return []models.Campus{CampusEvanston}
}
