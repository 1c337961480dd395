package handlers

import (
	"log"
	"net/http"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/prediction"
	"binwatch-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type DashboardSummary struct {
	TotalDevices      int                        `json:"total_devices"`
	RegisteredDevices int                        `json:"registered_devices"`
	FullBins          int                        `json:"full_bins"`
	LowBatteryBins    int                        `json:"low_battery_bins"`
	InvalidReadings   int                        `json:"invalid_readings"`
	RecentFeedbacks   []models.Feedback          `json:"recent_feedbacks"`
	RecentRoutes      []models.RouteWithEmployee `json:"recent_routes"`
}

// GetDashboardSummary computes the landing page counters from a fresh device
// snapshot. Nothing here is cached or persisted.
func GetDashboardSummary(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var devices []models.Device
		if err := db.Select(&devices, "SELECT * FROM devices ORDER BY unique_id ASC"); err != nil {
			log.Printf("❌ [DASHBOARD] Device query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch devices")
			return
		}

		summary := DashboardSummary{TotalDevices: len(devices)}

		snapshots, dropped := prediction.NormalizeAll(devices)
		summary.InvalidReadings = dropped

		for _, d := range devices {
			if d.IsRegistered {
				summary.RegisteredDevices++
			}
			if d.Battery <= 20 {
				summary.LowBatteryBins++
			}
		}
		for _, s := range snapshots {
			if s.FillPercent >= prediction.FullThreshold {
				summary.FullBins++
			}
		}

		err := db.Select(&summary.RecentFeedbacks,
			"SELECT * FROM feedbacks ORDER BY timestamp DESC LIMIT 5")
		if err != nil {
			log.Printf("❌ [DASHBOARD] Feedback query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch feedbacks")
			return
		}

		err = db.Select(&summary.RecentRoutes, `
			SELECT r.*, u.fname, u.lname
			FROM routes r
			LEFT JOIN users u ON u.id = r.employee_id
			ORDER BY r.created_at DESC
			LIMIT 5
		`)
		if err != nil {
			log.Printf("❌ [DASHBOARD] Route query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch routes")
			return
		}

		if summary.RecentFeedbacks == nil {
			summary.RecentFeedbacks = []models.Feedback{}
		}
		if summary.RecentRoutes == nil {
			summary.RecentRoutes = []models.RouteWithEmployee{}
		}

		utils.Success(w, summary)
	}
}
