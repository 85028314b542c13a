package models

// VehicleRecord 校园可租车辆
type VehicleRecord struct {
	ID           string  `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	LicensePlate string  `json:"license_plate" db:"license_plate"`
	LicenseColor string  `json:"license_color" db:"license_color"`
	Latitude     float64 `json:"latitude" db:"latitude"`
	Longitude    float64 `json:"longitude" db:"longitude"`
	FuelEstimate float64 `json:"fuel_estimate" db:"fuel_estimate"` // 0-1
}

// VehicleView 对外展示的车辆信息（附带油量百分比）
type VehicleView struct {
	VehicleRecord
	FuelPercent int `json:"fuel_percent"`
}
