package prediction

import (
	"errors"
	"testing"

	"binwatch-backend/internal/models"
)

// TestFillPercent verifies the distance-to-percentage conversion.
func TestFillPercent(t *testing.T) {
	tests := []struct {
		name      string
		raw       int
		binHeight int
		want      int
	}{
		{"empty bin", 100, 100, 0},
		{"full bin", 0, 100, 100},
		{"spec example", 20, 100, 80},
		{"floor rounding", 50, 120, 58}, // 70*100/120 = 58.33
		{"odd height", 33, 90, 63},      // 57*100/90 = 63.33
	}

	for _, tt := range tests {
		got, err := FillPercent(tt.raw, tt.binHeight)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: FillPercent(%d, %d) = %d, want %d",
				tt.name, tt.raw, tt.binHeight, got, tt.want)
		}
	}
}

// TestFillPercentRange verifies the result is always within [0,100] for
// valid inputs.
func TestFillPercentRange(t *testing.T) {
	for height := 1; height <= 150; height += 7 {
		for raw := 0; raw <= height; raw++ {
			got, err := FillPercent(raw, height)
			if err != nil {
				t.Fatalf("FillPercent(%d, %d) returned error: %v", raw, height, err)
			}
			if got < 0 || got > 100 {
				t.Fatalf("FillPercent(%d, %d) = %d, out of [0,100]", raw, height, got)
			}
		}
	}
}

// TestFillPercentInvalid verifies out-of-range inputs are rejected instead
// of producing undefined percentages.
func TestFillPercentInvalid(t *testing.T) {
	cases := []struct {
		name      string
		raw       int
		binHeight int
	}{
		{"zero bin height", 50, 0},
		{"negative bin height", 50, -10},
		{"distance beyond bin", 120, 100},
		{"negative distance", -5, 100},
	}

	for _, tt := range cases {
		_, err := FillPercent(tt.raw, tt.binHeight)
		if !errors.Is(err, ErrInvalidReading) {
			t.Errorf("%s: expected ErrInvalidReading, got %v", tt.name, err)
		}
	}
}

// TestNormalize verifies coordinate coercion alongside level conversion.
func TestNormalize(t *testing.T) {
	d := models.Device{
		UniqueID:  7,
		Level:     20,
		Battery:   15,
		BinHeight: 100,
		Lat:       "59.4370",
		Lng:       "24.7536",
	}

	snap, err := Normalize(d)
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if snap.FillPercent != 80 {
		t.Errorf("FillPercent = %d, want 80", snap.FillPercent)
	}
	if snap.Lat != 59.4370 || snap.Lng != 24.7536 {
		t.Errorf("coordinates = (%v, %v), want (59.4370, 24.7536)", snap.Lat, snap.Lng)
	}
	if snap.Battery != 15 {
		t.Errorf("Battery = %d, want 15", snap.Battery)
	}
}

// TestNormalizeAll verifies devices with broken calibration are dropped, not
// passed through with garbage levels.
func TestNormalizeAll(t *testing.T) {
	devices := []models.Device{
		{UniqueID: 1, Level: 10, BinHeight: 100},
		{UniqueID: 2, Level: 10, BinHeight: 0},   // invalid calibration
		{UniqueID: 3, Level: 200, BinHeight: 80}, // reading beyond bin
		{UniqueID: 4, Level: 40, BinHeight: 80},
	}

	snaps, dropped := NormalizeAll(devices)
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	if len(snaps) != 2 {
		t.Fatalf("len(snaps) = %d, want 2", len(snaps))
	}
	if snaps[0].UniqueID != 1 || snaps[1].UniqueID != 4 {
		t.Errorf("kept devices %d and %d, want 1 and 4", snaps[0].UniqueID, snaps[1].UniqueID)
	}
}
