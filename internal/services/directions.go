package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// DirectionsEstimate contains the drive estimate for a sequenced route
type DirectionsEstimate struct {
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	OverviewPolyline     string  `json:"overview_polyline,omitempty"`
}

// DirectionsService calls the Google Directions API to turn a sequenced
// stop list into a drive-time estimate
type DirectionsService struct {
	apiKey string
}

// NewDirectionsService creates a new directions service
func NewDirectionsService(apiKey string) *DirectionsService {
	return &DirectionsService{
		apiKey: apiKey,
	}
}

// EstimateRoute requests driving directions through the stops in the given
// order and sums the leg distances and durations.
func (s *DirectionsService) EstimateRoute(start Location, stops []Stop) (*DirectionsEstimate, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("no stops to estimate")
	}

	log.Printf("🗺️  [Directions] Estimating route with %d stops", len(stops))

	baseURL := "https://maps.googleapis.com/maps/api/directions/json"
	params := url.Values{}
	params.Add("key", s.apiKey)
	params.Add("mode", "driving")
	params.Add("origin", fmt.Sprintf("%.6f,%.6f", start.Latitude, start.Longitude))

	last := stops[len(stops)-1]
	params.Add("destination", fmt.Sprintf("%.6f,%.6f", last.Latitude, last.Longitude))

	if len(stops) > 1 {
		waypoints := ""
		for i, stop := range stops[:len(stops)-1] {
			if i > 0 {
				waypoints += "|"
			}
			waypoints += fmt.Sprintf("%.6f,%.6f", stop.Latitude, stop.Longitude)
		}
		params.Add("waypoints", waypoints)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(baseURL + "?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("   ❌ Directions API error (%d): %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("directions API returned status %d", resp.StatusCode)
	}

	var directionsResp struct {
		Status string `json:"status"`
		Routes []struct {
			OverviewPolyline struct {
				Points string `json:"points"`
			} `json:"overview_polyline"`
			Legs []struct {
				Distance struct {
					Value int `json:"value"` // meters
				} `json:"distance"`
				Duration struct {
					Value int `json:"value"` // seconds
				} `json:"duration"`
			} `json:"legs"`
		} `json:"routes"`
	}

	if err := json.Unmarshal(body, &directionsResp); err != nil {
		return nil, fmt.Errorf("failed to parse directions response: %w", err)
	}

	if directionsResp.Status != "OK" || len(directionsResp.Routes) == 0 {
		return nil, fmt.Errorf("directions API status: %s", directionsResp.Status)
	}

	route := directionsResp.Routes[0]
	totalMeters := 0
	totalSeconds := 0
	for _, leg := range route.Legs {
		totalMeters += leg.Distance.Value
		totalSeconds += leg.Duration.Value
	}

	log.Printf("   ✅ Estimate: %.2f km, %.1f minutes",
		float64(totalMeters)/1000.0, float64(totalSeconds)/60.0)

	return &DirectionsEstimate{
		TotalDistanceKm:      float64(totalMeters) / 1000.0,
		TotalDurationSeconds: totalSeconds,
		OverviewPolyline:     route.OverviewPolyline.Points,
	}, nil
}
