package models

import "testing"

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{MinLat: 42.02, MaxLat: 42.09, MinLng: -87.74, MaxLng: -87.60}

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"inside", 42.0583, -87.6751, true},
		{"min corner", 42.02, -87.74, true},
		{"max corner", 42.09, -87.60, true},
		{"south of box", 41.88, -87.62, false},
		{"east of box", 42.05, -87.59, false},
		{"north of box", 42.0901, -87.70, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestBoundingBoxValid(t *testing.T) {
	if !(BoundingBox{MinLat: 1, MaxLat: 1, MinLng: 2, MaxLng: 2}).Valid() {
		t.Error("degenerate box should be valid")
	}
	if (BoundingBox{MinLat: 2, MaxLat: 1}).Valid() {
		t.Error("inverted latitude should be invalid")
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{150, "$1.50"},
		{45, "$0.45"},
		{0, "$0.00"},
		{1005, "$10.05"},
		{-45, "-$0.45"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", int64(tt.m), got, tt.want)
		}
	}
	if got := Money(45).Rate(); got != "$0.45/min" {
		t.Errorf("Rate() = %q", got)
	}
}
