package prediction

import (
	"math"
	"reflect"
	"testing"
	"time"
)

// TestHoursUntilFull verifies the spec scenario: 60% full at 10%/hour means
// four hours to saturation.
func TestHoursUntilFull(t *testing.T) {
	hours, ok := HoursUntilFull(60, 10.0)
	if !ok {
		t.Fatal("expected a finite estimate")
	}
	if math.Abs(hours-4.0) > 1e-9 {
		t.Errorf("hours = %v, want 4.0", hours)
	}
}

// TestHoursUntilFullNeverFills verifies a zero or negative rate yields the
// "never" sentinel.
func TestHoursUntilFullNeverFills(t *testing.T) {
	for _, rate := range []float64{0, -2.5} {
		hours, ok := HoursUntilFull(50, rate)
		if ok {
			t.Errorf("rate %v: expected never-fills, got %v hours", rate, hours)
		}
		if !math.IsInf(hours, 1) {
			t.Errorf("rate %v: expected +Inf sentinel, got %v", rate, hours)
		}
	}
}

// TestHoursUntilFullOverfull verifies a bin already at or above 100% is due
// immediately, not in negative hours.
func TestHoursUntilFullOverfull(t *testing.T) {
	hours, ok := HoursUntilFull(100, 5.0)
	if !ok || hours != 0 {
		t.Errorf("hours = %v ok=%v, want 0 true", hours, ok)
	}
}

// TestPredictFullTimes verifies prediction composes level, rate and now.
func TestPredictFullTimes(t *testing.T) {
	now := time.Unix(1700000000, 0)
	levels := map[int64]int{1: 60, 2: 90, 3: 50}
	rates := map[int64]float64{1: 10.0, 2: 0, 3: 2.5}

	predicted := PredictFullTimes(levels, rates, now)

	if got, want := predicted[1], now.Add(4*time.Hour); !got.Equal(want) {
		t.Errorf("device 1 predicted %v, want %v", got, want)
	}
	if _, ok := predicted[2]; ok {
		t.Error("device 2 has a non-filling rate, expected no prediction")
	}
	if got, want := predicted[3], now.Add(20*time.Hour); !got.Equal(want) {
		t.Errorf("device 3 predicted %v, want %v", got, want)
	}
}

// TestPredictFullTimesNoRate verifies a device with history but no usable
// rate is excluded end to end (spec scenario: device C with one sample).
func TestPredictFullTimesNoRate(t *testing.T) {
	now := time.Unix(1700000000, 0)
	levels := map[int64]int{5: 70}
	rates := map[int64]float64{} // single sample yielded no rate

	predicted := PredictFullTimes(levels, rates, now)
	if len(predicted) != 0 {
		t.Errorf("expected no predictions, got %v", predicted)
	}

	due := DueForPickup(predicted, now, DefaultHorizonHours)
	if due[5] {
		t.Error("device without a rate must not be due for pickup")
	}
}

// TestDueForPickup verifies the horizon cut.
func TestDueForPickup(t *testing.T) {
	now := time.Unix(1700000000, 0)
	predicted := map[int64]time.Time{
		1: now.Add(2 * time.Hour),  // within horizon
		2: now.Add(6 * time.Hour),  // exactly on the horizon
		3: now.Add(10 * time.Hour), // beyond
	}

	due := DueForPickup(predicted, now, 6)
	if !due[1] || !due[2] {
		t.Errorf("devices 1 and 2 should be due, got %v", due)
	}
	if due[3] {
		t.Error("device 3 is beyond the horizon")
	}
}

// TestDueForPickupIdempotent verifies identical inputs yield identical sets.
func TestDueForPickupIdempotent(t *testing.T) {
	now := time.Unix(1700000000, 0)
	predicted := map[int64]time.Time{
		1: now.Add(time.Hour),
		2: now.Add(3 * time.Hour),
		3: now.Add(9 * time.Hour),
	}

	first := DueForPickup(predicted, now, 6)
	second := DueForPickup(predicted, now, 6)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("DueForPickup not idempotent: %v vs %v", first, second)
	}
}

// TestLowFillRate verifies the low-rate triage set.
func TestLowFillRate(t *testing.T) {
	rates := map[int64]float64{1: 0.1, 2: 0.5, 3: 4.0}

	low := LowFillRate(rates, DefaultLowRateThreshold)
	if !low[1] {
		t.Error("device 1 fills at 0.1%/h, should be low")
	}
	if low[2] {
		t.Error("device 2 is exactly at the threshold, should not be low")
	}
	if low[3] {
		t.Error("device 3 fills fast, should not be low")
	}
}
