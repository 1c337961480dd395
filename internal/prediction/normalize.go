package prediction

import (
	"errors"
	"fmt"
	"strconv"

	"binwatch-backend/internal/models"
)

// ErrInvalidReading means a raw distance reading cannot be converted to a
// fill percentage: the calibration is missing (bin_height <= 0) or the
// reading is outside the physical range of the bin.
var ErrInvalidReading = errors.New("invalid reading")

// Snapshot is the normalized current state of one device: raw distance
// converted to fill percent, lat/lng coerced to floats.
type Snapshot struct {
	UniqueID    int64   `json:"unique_id"`
	FillPercent int     `json:"fill_percent"`
	Battery     int     `json:"battery"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// FillPercent converts a raw ultrasonic distance reading (cm) to a fill
// percentage given the calibrated bin height (cm):
//
//	percent = floor((binHeight - raw) * 100 / binHeight)
//
// A reading is rejected rather than clamped when the calibration or the
// reading is physically impossible. For binHeight > 0 and 0 <= raw <=
// binHeight the result is always within [0,100].
func FillPercent(rawDistanceCM, binHeightCM int) (int, error) {
	if binHeightCM <= 0 {
		return 0, fmt.Errorf("%w: bin height %d cm", ErrInvalidReading, binHeightCM)
	}
	if rawDistanceCM < 0 || rawDistanceCM > binHeightCM {
		return 0, fmt.Errorf("%w: distance %d cm for bin height %d cm",
			ErrInvalidReading, rawDistanceCM, binHeightCM)
	}
	trashHeight := binHeightCM - rawDistanceCM
	return trashHeight * 100 / binHeightCM, nil
}

// Normalize converts a raw device row into a Snapshot.
func Normalize(d models.Device) (Snapshot, error) {
	percent, err := FillPercent(d.Level, d.BinHeight)
	if err != nil {
		return Snapshot{}, fmt.Errorf("device %d: %w", d.UniqueID, err)
	}

	// Hardware reports coordinates as strings; a device that has never been
	// placed has empty ones, which normalize to 0.
	lat, _ := strconv.ParseFloat(d.Lat, 64)
	lng, _ := strconv.ParseFloat(d.Lng, 64)

	return Snapshot{
		UniqueID:    d.UniqueID,
		FillPercent: percent,
		Battery:     d.Battery,
		Lat:         lat,
		Lng:         lng,
	}, nil
}

// NormalizeAll converts a device list, dropping devices with invalid
// readings and reporting how many were dropped.
func NormalizeAll(devices []models.Device) ([]Snapshot, int) {
	snapshots := make([]Snapshot, 0, len(devices))
	dropped := 0
	for _, d := range devices {
		snap, err := Normalize(d)
		if err != nil {
			dropped++
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, dropped
}
