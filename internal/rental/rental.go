// Package rental 车辆选择与报价
package rental

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/langchou/driveoncampus/internal/models"
)

// NotFoundMessage 车辆不存在时的展示文案
const NotFoundMessage = "Vehicle not found."

// 默认计价，和租车页面一致
const (
	DefaultBasePrice     models.Money = 150
	DefaultPerMinuteRate models.Money = 45
)

// Status 查询结果类型，由展示层决定如何呈现
type Status string

const (
	StatusOK       Status = "ok"
	StatusNotFound Status = "not_found"
)

// Result 带类型的查询结果
type Result struct {
	Status       Status               `json:"status"`
	Quote        *models.RentalQuote  `json:"quote,omitempty"`
	Confirmation *models.Confirmation `json:"confirmation,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// Pricing 固定单价
type Pricing struct {
	BasePrice     models.Money
	PerMinuteRate models.Money
}

// DefaultPricing 默认计价
func DefaultPricing() Pricing {
	return Pricing{BasePrice: DefaultBasePrice, PerMinuteRate: DefaultPerMinuteRate}
}

// Finder 按 ID 查找车辆
type Finder interface {
	Find(id string) (models.VehicleRecord, bool)
}

// Quote 生成报价，只包含单价，不计算时长总价
func Quote(vehicle models.VehicleRecord, basePrice, perMinuteRate models.Money) models.RentalQuote {
	return models.RentalQuote{
		Vehicle:       vehicle,
		BasePrice:     basePrice,
		PerMinuteRate: perMinuteRate,
	}
}

// Select 查找车辆并报价
func Select(finder Finder, id string, pricing Pricing) Result {
	vehicle, ok := finder.Find(id)
	if !ok {
		return Result{Status: StatusNotFound, Message: NotFoundMessage}
	}
	q := Quote(vehicle, pricing.BasePrice, pricing.PerMinuteRate)
	return Result{Status: StatusOK, Quote: &q}
}

// ConfirmationMessage 购买确认文案
func ConfirmationMessage(q models.RentalQuote) string {
	return fmt.Sprintf("You have rented %s at %s.", q.Vehicle.LicensePlate, q.PerMinuteRate.Rate())
}

// Confirm 生成带引用号的确认信息
func Confirm(q models.RentalQuote) models.Confirmation {
	return models.Confirmation{
		Reference: uuid.NewString(),
		VehicleID: q.Vehicle.ID,
		Message:   ConfirmationMessage(q),
		Quote:     q,
	}
}
