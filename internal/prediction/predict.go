package prediction

import (
	"math"
	"time"
)

// Defaults used by the route planning endpoint. The horizon is the lead time
// within which a bin predicted to fill up gets flagged for pickup.
const (
	DefaultHorizonHours     = 6.0
	DefaultLowRateThreshold = 0.5 // percent per hour
)

// HoursUntilFull estimates the hours until a bin reaches 100% from its
// current fill percentage and fill rate. The second return value is false
// when the bin will never fill at the current rate (rate <= 0).
func HoursUntilFull(currentPercent int, ratePerHour float64) (float64, bool) {
	if ratePerHour <= 0 {
		return math.Inf(1), false
	}
	remaining := float64(100 - currentPercent)
	if remaining < 0 {
		remaining = 0
	}
	return remaining / ratePerHour, true
}

// PredictFullTimes maps each device with a known positive fill rate to its
// predicted saturation timestamp. Devices without a rate, or with a rate
// that never fills, are absent from the result.
func PredictFullTimes(levels map[int64]int, rates map[int64]float64, now time.Time) map[int64]time.Time {
	predicted := make(map[int64]time.Time, len(rates))
	for id, rate := range rates {
		level, ok := levels[id]
		if !ok {
			continue
		}
		hours, ok := HoursUntilFull(level, rate)
		if !ok {
			continue
		}
		predicted[id] = now.Add(time.Duration(hours * float64(time.Hour)))
	}
	return predicted
}

// DueForPickup returns the set of devices whose predicted full time falls
// within horizonHours from now. Devices with no prediction are excluded.
func DueForPickup(predicted map[int64]time.Time, now time.Time, horizonHours float64) map[int64]bool {
	deadline := now.Add(time.Duration(horizonHours * float64(time.Hour)))
	due := make(map[int64]bool)
	for id, t := range predicted {
		if !t.After(deadline) {
			due[id] = true
		}
	}
	return due
}

// LowFillRate returns the set of devices filling slower than threshold,
// candidates for reduced-frequency servicing. Informational: the work list
// does not exclude them automatically.
func LowFillRate(rates map[int64]float64, threshold float64) map[int64]bool {
	low := make(map[int64]bool)
	for id, rate := range rates {
		if rate < threshold {
			low[id] = true
		}
	}
	return low
}
