package prediction

import (
	"sort"

	"binwatch-backend/internal/models"
)

// Emptying event detection thresholds: a drop from at least 20% to at most
// 10% between consecutive samples means the bin was physically emptied.
const (
	emptyingPrevMin = 20
	emptyingCurMax  = 10
)

// IsEmptyingEvent reports whether the step between two consecutive fill
// levels is an emptying event.
func IsEmptyingEvent(prevPercent, curPercent int) bool {
	return prevPercent >= emptyingPrevMin && curPercent <= emptyingCurMax
}

// EstimateFillRates computes a fill rate in percent per hour for each device
// from its historical samples. Samples are grouped by device and ordered by
// saved_time; the rate is the total level change over the total elapsed time
// across usable consecutive pairs. Pairs spanning an emptying event are
// excluded so a reset does not show up as a large negative rate, and pairs
// with a non-positive time delta are ignored.
//
// Devices with no usable pair are absent from the result: no rate is not the
// same as a zero rate.
func EstimateFillRates(samples []models.HistoricalSample) map[int64]float64 {
	byDevice := groupSamples(samples)

	rates := make(map[int64]float64, len(byDevice))
	for id, series := range byDevice {
		rate, ok := fitRate(series)
		if ok {
			rates[id] = rate
		}
	}
	return rates
}

// EmptyingCounts counts emptying events per device, the same detection used
// to exclude resets from rate fitting.
func EmptyingCounts(samples []models.HistoricalSample) map[int64]int {
	counts := make(map[int64]int)
	for _, series := range groupSamples(samples) {
		for i := 1; i < len(series); i++ {
			if IsEmptyingEvent(series[i-1].LevelInPercents, series[i].LevelInPercents) {
				counts[series[i].UniqueID]++
			}
		}
	}
	return counts
}

func groupSamples(samples []models.HistoricalSample) map[int64][]models.HistoricalSample {
	byDevice := make(map[int64][]models.HistoricalSample)
	for _, s := range samples {
		byDevice[s.UniqueID] = append(byDevice[s.UniqueID], s)
	}
	for id := range byDevice {
		series := byDevice[id]
		sort.Slice(series, func(i, j int) bool {
			return series[i].SavedTime < series[j].SavedTime
		})
	}
	return byDevice
}

func fitRate(series []models.HistoricalSample) (float64, bool) {
	var deltaPercent float64
	var deltaHours float64
	usable := 0

	for i := 1; i < len(series); i++ {
		prev, cur := series[i-1], series[i]
		if IsEmptyingEvent(prev.LevelInPercents, cur.LevelInPercents) {
			continue
		}
		dt := cur.SavedTime - prev.SavedTime
		if dt <= 0 {
			continue
		}
		deltaPercent += float64(cur.LevelInPercents - prev.LevelInPercents)
		deltaHours += float64(dt) / 3600.0
		usable++
	}

	if usable == 0 {
		return 0, false
	}
	return deltaPercent / deltaHours, true
}
