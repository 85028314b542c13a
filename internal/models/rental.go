package models

import "fmt"

// Money 金额，单位为美分
type Money int64

// String 格式化为 $1.50
func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%02d", sign, m/100, m%100)
}

// Rate 格式化为单价，例如 $0.45/min
func (m Money) Rate() string {
	return m.String() + "/min"
}

// RentalQuote 租车报价（只展示单价，不计算总价）
type RentalQuote struct {
	Vehicle       VehicleRecord `json:"vehicle"`
	BasePrice     Money         `json:"base_price_cents"`
	PerMinuteRate Money         `json:"per_minute_cents"`
}

// Confirmation 租车确认信息
type Confirmation struct {
	Reference string      `json:"reference"`
	VehicleID string      `json:"vehicle_id"`
	Message   string      `json:"message"`
	Quote     RentalQuote `json:"quote"`
}
