package prediction

import (
	"math"
	"testing"

	"binwatch-backend/internal/models"
)

const hour = int64(3600)

func sample(id, t int64, level int) models.HistoricalSample {
	return models.HistoricalSample{UniqueID: id, SavedTime: t, LevelInPercents: level}
}

// TestEstimateFillRates verifies the basic slope: 50% -> 60% in one hour is
// 10 percent per hour.
func TestEstimateFillRates(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(1, 0, 50),
		sample(1, hour, 60),
	}

	rates := EstimateFillRates(samples)
	rate, ok := rates[1]
	if !ok {
		t.Fatal("expected a rate for device 1")
	}
	if math.Abs(rate-10.0) > 1e-9 {
		t.Errorf("rate = %v, want 10.0", rate)
	}
}

// TestEstimateFillRatesUnsorted verifies samples are ordered by saved_time
// before fitting, whatever order the backend returned them in.
func TestEstimateFillRatesUnsorted(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(1, 2*hour, 70),
		sample(1, 0, 50),
		sample(1, hour, 60),
	}

	rates := EstimateFillRates(samples)
	if math.Abs(rates[1]-10.0) > 1e-9 {
		t.Errorf("rate = %v, want 10.0", rates[1])
	}
}

// TestEstimateFillRatesSingleSample verifies a device with one sample gets
// no rate at all rather than a zero rate.
func TestEstimateFillRatesSingleSample(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(3, 0, 40),
	}

	rates := EstimateFillRates(samples)
	if _, ok := rates[3]; ok {
		t.Errorf("expected no rate for single-sample device, got %v", rates[3])
	}
}

// TestEstimateFillRatesEmptyingEvent verifies a reset is excluded from the
// fitted window: the rate across a window containing one reset must match
// the rate computed by discarding the pre-reset pair.
func TestEstimateFillRatesEmptyingEvent(t *testing.T) {
	withReset := []models.HistoricalSample{
		sample(1, 0, 60),
		sample(1, hour, 70),
		sample(1, 2*hour, 5), // emptied: 70 -> 5
		sample(1, 3*hour, 15),
	}
	withoutReset := []models.HistoricalSample{
		sample(1, 0, 60),
		sample(1, hour, 70),
		sample(1, 2*hour, 5),
	}
	// Discarding the pre-reset point leaves 60->70 and 5->15, both 10%/h.
	rates := EstimateFillRates(withReset)
	if math.Abs(rates[1]-10.0) > 1e-9 {
		t.Errorf("rate with reset = %v, want 10.0", rates[1])
	}

	// A trailing reset with nothing after it leaves only the rising pair.
	rates = EstimateFillRates(withoutReset)
	if math.Abs(rates[1]-10.0) > 1e-9 {
		t.Errorf("rate up to reset = %v, want 10.0", rates[1])
	}
}

// TestEstimateFillRatesNonNegative verifies non-decreasing series never
// produce a negative rate.
func TestEstimateFillRatesNonNegative(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(1, 0, 10),
		sample(1, hour, 10),
		sample(1, 2*hour, 25),
		sample(1, 5*hour, 60),
	}

	rates := EstimateFillRates(samples)
	if rates[1] < 0 {
		t.Errorf("rate = %v, want non-negative", rates[1])
	}
}

// TestEstimateFillRatesMultipleDevices verifies grouping by device.
func TestEstimateFillRatesMultipleDevices(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(1, 0, 50),
		sample(2, 0, 20),
		sample(1, hour, 60),
		sample(2, 2*hour, 30),
	}

	rates := EstimateFillRates(samples)
	if len(rates) != 2 {
		t.Fatalf("len(rates) = %d, want 2", len(rates))
	}
	if math.Abs(rates[1]-10.0) > 1e-9 {
		t.Errorf("device 1 rate = %v, want 10.0", rates[1])
	}
	if math.Abs(rates[2]-5.0) > 1e-9 {
		t.Errorf("device 2 rate = %v, want 5.0", rates[2])
	}
}

// TestEmptyingCounts verifies the emptying-event report matches the
// detection rule used for rate fitting.
func TestEmptyingCounts(t *testing.T) {
	samples := []models.HistoricalSample{
		sample(1, 0, 60),
		sample(1, hour, 5), // event
		sample(1, 2*hour, 40),
		sample(1, 3*hour, 8), // event
		sample(2, 0, 15),
		sample(2, hour, 5), // prev below 20, no event
	}

	counts := EmptyingCounts(samples)
	if counts[1] != 2 {
		t.Errorf("device 1 events = %d, want 2", counts[1])
	}
	if counts[2] != 0 {
		t.Errorf("device 2 events = %d, want 0", counts[2])
	}
}
