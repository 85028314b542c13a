package models

// BoundingBox 经纬度矩形范围，边界包含在内
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Contains 判断坐标是否落在范围内
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lng >= b.MinLng && lng <= b.MaxLng
}

// Valid 检查 min <= max
func (b BoundingBox) Valid() bool {
	return b.MinLat <= b.MaxLat && b.MinLng <= b.MaxLng
}

// Region 地图视口：中心点 + 跨度
type Region struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitude_delta"`
	LongitudeDelta float64 `json:"longitude_delta"`
}

// Fix 一次定位结果
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Campus 校园定义
type Campus struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Bounds        BoundingBox `json:"bounds"`
	DefaultRegion Region      `json:"default_region"`
}
