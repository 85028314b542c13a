// Package catalog 车辆目录：范围过滤与按 ID 查找
package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/langchou/driveoncampus/internal/models"
)

var (
	ErrEmptyID        = errors.New("vehicle id is empty")
	ErrDuplicateID    = errors.New("duplicate vehicle id")
	ErrFuelOutOfRange = errors.New("fuel estimate out of range [0,1]")
)

// Catalog 不可变的车辆目录
// 构造后不再修改，可在多个 goroutine 间共享
type Catalog struct {
	vehicles []models.VehicleRecord
	index    map[string]int
}

// New 创建车辆目录，校验 ID 唯一且油量在 [0,1] 内
func New(vehicles []models.VehicleRecord) (*Catalog, error) {
	c := &Catalog{
		vehicles: make([]models.VehicleRecord, len(vehicles)),
		index:    make(map[string]int, len(vehicles)),
	}
	copy(c.vehicles, vehicles)

	for i, v := range c.vehicles {
		if v.ID == "" {
			return nil, fmt.Errorf("vehicle #%d: %w", i, ErrEmptyID)
		}
		if _, ok := c.index[v.ID]; ok {
			return nil, fmt.Errorf("vehicle %s: %w", v.ID, ErrDuplicateID)
		}
		if math.IsNaN(v.FuelEstimate) || v.FuelEstimate < 0 || v.FuelEstimate > 1 {
			return nil, fmt.Errorf("vehicle %s (%v): %w", v.ID, v.FuelEstimate, ErrFuelOutOfRange)
		}
		c.index[v.ID] = i
	}

	return c, nil
}

// MustNew 用于编译期内置数据
func MustNew(vehicles []models.VehicleRecord) *Catalog {
	c, err := New(vehicles)
	if err != nil {
		panic(err)
	}
	return c
}

// Len 车辆数量
func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// All 返回全部车辆的副本
func (c *Catalog) All() []models.VehicleRecord {
	out := make([]models.VehicleRecord, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}

// Visible 返回范围内的车辆，保持目录顺序
func (c *Catalog) Visible(box models.BoundingBox) []models.VehicleRecord {
	return VisibleVehicles(c.vehicles, box)
}

// Find 按 ID 精确查找
func (c *Catalog) Find(id string) (models.VehicleRecord, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.VehicleRecord{}, false
	}
	return c.vehicles[i], true
}

// VisibleVehicles 线性扫描过滤，经纬度边界均包含
// 范围反转（min > max）时结果为空
func VisibleVehicles(vehicles []models.VehicleRecord, box models.BoundingBox) []models.VehicleRecord {
	visible := make([]models.VehicleRecord, 0, len(vehicles))
	for _, v := range vehicles {
		if box.Contains(v.Latitude, v.Longitude) {
			visible = append(visible, v)
		}
	}
	return visible
}

// FindVehicle 在任意车辆序列中按 ID 查找
func FindVehicle(vehicles []models.VehicleRecord, id string) (models.VehicleRecord, bool) {
	for _, v := range vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return models.VehicleRecord{}, false
}

// FuelPercent 油量百分比，四舍五入（.5 向上）
func FuelPercent(fuel float64) int {
	return int(math.Floor(fuel*100 + 0.5))
}

// View 附带油量百分比的展示结构
func View(v models.VehicleRecord) models.VehicleView {
	return models.VehicleView{
		VehicleRecord: v,
		FuelPercent:   FuelPercent(v.FuelEstimate),
	}
}

// Views 批量转换
func Views(vehicles []models.VehicleRecord) []models.VehicleView {
	views := make([]models.VehicleView, len(vehicles))
	for i, v := range vehicles {
		views[i] = View(v)
	}
	return views
}
