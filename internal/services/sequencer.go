package services

import (
	"log"
	"math"
)

// Depot constants - all collection routes start and end here
const (
	DEPOT_LAT = 59.42817
	DEPOT_LNG = 24.73992
)

// GetDepotLocation returns the default depot location
func GetDepotLocation() Location {
	return Location{
		Latitude:  DEPOT_LAT,
		Longitude: DEPOT_LNG,
	}
}

// Location represents a geographic point
type Location struct {
	Latitude  float64
	Longitude float64
}

// Stop is a bin visit on a collection route
type Stop struct {
	UniqueID    int64
	Latitude    float64
	Longitude   float64
	FillPercent int
}

// Sequencer orders route stops using nearest neighbor TSP
type Sequencer struct{}

// NewSequencer creates a new stop sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// SequenceStops orders stops by always selecting the closest remaining stop
// from the current location, starting at startLocation.
func (s *Sequencer) SequenceStops(stops []Stop, startLocation Location) []Stop {
	if len(stops) <= 1 {
		return stops
	}

	log.Printf("🎯 Sequencing %d stops from (%.6f, %.6f)",
		len(stops), startLocation.Latitude, startLocation.Longitude)

	ordered := make([]Stop, 0, len(stops))
	remaining := make([]Stop, len(stops))
	copy(remaining, stops)

	current := startLocation

	for len(remaining) > 0 {
		bestIdx := 0
		bestDistance := math.MaxFloat64

		for i, stop := range remaining {
			distance := haversineDistance(
				current.Latitude,
				current.Longitude,
				stop.Latitude,
				stop.Longitude,
			)
			if distance < bestDistance {
				bestDistance = distance
				bestIdx = i
			}
		}

		best := remaining[bestIdx]
		ordered = append(ordered, best)

		current = Location{
			Latitude:  best.Latitude,
			Longitude: best.Longitude,
		}

		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	log.Printf("✅ Sequencing complete, total distance: %.2f km",
		s.TotalDistanceKm(ordered, startLocation))

	return ordered
}

// TotalDistanceKm sums the leg distances of a sequenced route, including the
// leg from startLocation to the first stop.
func (s *Sequencer) TotalDistanceKm(stops []Stop, startLocation Location) float64 {
	total := 0.0
	current := startLocation
	for _, stop := range stops {
		total += haversineDistance(
			current.Latitude,
			current.Longitude,
			stop.Latitude,
			stop.Longitude,
		)
		current = Location{
			Latitude:  stop.Latitude,
			Longitude: stop.Longitude,
		}
	}
	return total
}

// haversineDistance calculates the distance between two GPS coordinates in kilometers
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // Earth's radius in kilometers

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
