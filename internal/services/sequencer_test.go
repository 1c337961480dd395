package services

import (
	"math"
	"testing"
)

// TestHaversineDistance checks the distance helper against a known pair of
// points roughly 1km apart in central Tallinn.
func TestHaversineDistance(t *testing.T) {
	d := haversineDistance(59.43696, 24.75357, 59.44596, 24.75357)
	if d < 0.9 || d > 1.1 {
		t.Errorf("expected roughly 1 km, got %.3f km", d)
	}

	if zero := haversineDistance(59.43696, 24.75357, 59.43696, 24.75357); zero != 0 {
		t.Errorf("distance to self should be 0, got %f", zero)
	}
}

// TestSequenceStopsOrdersByProximity lays three stops on a line north of the
// start point and expects nearest neighbor to visit them in order.
func TestSequenceStopsOrdersByProximity(t *testing.T) {
	start := Location{Latitude: 59.40000, Longitude: 24.75000}
	stops := []Stop{
		{UniqueID: 3, Latitude: 59.43000, Longitude: 24.75000},
		{UniqueID: 1, Latitude: 59.41000, Longitude: 24.75000},
		{UniqueID: 2, Latitude: 59.42000, Longitude: 24.75000},
	}

	ordered := NewSequencer().SequenceStops(stops, start)

	if len(ordered) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(ordered))
	}
	want := []int64{1, 2, 3}
	for i, stop := range ordered {
		if stop.UniqueID != want[i] {
			t.Errorf("position %d: expected stop %d, got %d", i, want[i], stop.UniqueID)
		}
	}
}

// TestSequenceStopsSmallInputs verifies empty and single-stop inputs pass
// through unchanged.
func TestSequenceStopsSmallInputs(t *testing.T) {
	seq := NewSequencer()
	start := GetDepotLocation()

	if got := seq.SequenceStops(nil, start); len(got) != 0 {
		t.Errorf("expected empty result, got %d stops", len(got))
	}

	one := []Stop{{UniqueID: 7, Latitude: 59.43, Longitude: 24.75}}
	got := seq.SequenceStops(one, start)
	if len(got) != 1 || got[0].UniqueID != 7 {
		t.Errorf("single stop should pass through, got %v", got)
	}
}

// TestSequenceStopsDoesNotMutateInput ensures the caller's slice survives
// sequencing intact.
func TestSequenceStopsDoesNotMutateInput(t *testing.T) {
	stops := []Stop{
		{UniqueID: 3, Latitude: 59.43000, Longitude: 24.75000},
		{UniqueID: 1, Latitude: 59.41000, Longitude: 24.75000},
	}
	original := []int64{stops[0].UniqueID, stops[1].UniqueID}

	NewSequencer().SequenceStops(stops, Location{Latitude: 59.40, Longitude: 24.75})

	for i, id := range original {
		if stops[i].UniqueID != id {
			t.Errorf("input slice mutated at %d: expected %d, got %d", i, id, stops[i].UniqueID)
		}
	}
}

// TestTotalDistanceKm checks the sequenced route beats (or matches) the
// reverse visiting order on a simple layout.
func TestTotalDistanceKm(t *testing.T) {
	seq := NewSequencer()
	start := Location{Latitude: 59.40000, Longitude: 24.75000}
	near := Stop{UniqueID: 1, Latitude: 59.41000, Longitude: 24.75000}
	far := Stop{UniqueID: 2, Latitude: 59.43000, Longitude: 24.75000}

	good := seq.TotalDistanceKm([]Stop{near, far}, start)
	bad := seq.TotalDistanceKm([]Stop{far, near}, start)

	if good > bad {
		t.Errorf("near-first order should not be longer: %.3f vs %.3f", good, bad)
	}
	if math.IsNaN(good) || good <= 0 {
		t.Errorf("expected positive finite distance, got %f", good)
	}
}
