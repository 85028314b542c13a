// Package region 根据定位结果确定地图视口
package region

import (
	"context"
	"errors"

	"github.com/langchou/driveoncampus/internal/models"
)

// ErrNoFix 尚未获得定位
var ErrNoFix = errors.New("no location fix")

// Status 视口解析结果
type Status string

const (
	StatusLocated             Status = "located"
	StatusLocationUnavailable Status = "location_unavailable"
)

// Resolution 解析后的视口及其来源
type Resolution struct {
	Region models.Region `json:"region"`
	Status Status        `json:"status"`
}

// Locator 设备定位能力：先请求授权，再获取一次定位
type Locator interface {
	RequestPermission(ctx context.Context) (bool, error)
	CurrentPosition(ctx context.Context) (models.Fix, error)
}

// Resolve 有定位时以定位点为中心并保留 fallback 的跨度，否则原样返回 fallback
func Resolve(fix *models.Fix, fallback models.Region) models.Region {
	if fix == nil {
		return fallback
	}
	r := fallback
	r.Latitude = fix.Latitude
	r.Longitude = fix.Longitude
	return r
}

// ResolveRegion 等待授权与定位
// 拒绝授权、定位失败或 ctx 结束都回退到 fallback，不返回错误
func ResolveRegion(ctx context.Context, locator Locator, fallback models.Region) Resolution {
	unavailable := Resolution{Region: fallback, Status: StatusLocationUnavailable}

	granted, err := locator.RequestPermission(ctx)
	if err != nil || !granted || ctx.Err() != nil {
		return unavailable
	}

	fix, err := locator.CurrentPosition(ctx)
	if err != nil || ctx.Err() != nil {
		return unavailable
	}

	return Resolution{Region: Resolve(&fix, fallback), Status: StatusLocated}
}

// StaticLocator 已知结果的 Locator，nil 表示无定位
type StaticLocator struct {
	Fix *models.Fix
}

func (l StaticLocator) RequestPermission(ctx context.Context) (bool, error) {
	return l.Fix != nil, nil
}

func (l StaticLocator) CurrentPosition(ctx context.Context) (models.Fix, error) {
	if l.Fix == nil {
		return models.Fix{}, ErrNoFix
	}
	return *l.Fix, nil
}
