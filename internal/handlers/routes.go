package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/prediction"
	"binwatch-backend/internal/services"
	"binwatch-backend/internal/websocket"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func GetRoutes(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var routes []models.RouteWithEmployee
		err := db.Select(&routes, `
			SELECT r.*, u.fname, u.lname
			FROM routes r
			LEFT JOIN users u ON u.id = r.employee_id
			ORDER BY r.created_at DESC
		`)
		if err != nil {
			log.Printf("❌ [GET-ROUTES] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch routes")
			return
		}

		if routes == nil {
			routes = []models.RouteWithEmployee{}
		}
		utils.Success(w, routes)
	}
}

func GetRoute(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var route models.RouteWithEmployee
		err := db.Get(&route, `
			SELECT r.*, u.fname, u.lname
			FROM routes r
			LEFT JOIN users u ON u.id = r.employee_id
			WHERE r.id = $1
		`, id)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.Success(w, route)
	}
}

type PreviewRouteRequest struct {
	EmptyBin      bool    `json:"empty_bin"`
	ChangeBattery bool    `json:"change_battery"`
	Optimize      bool    `json:"optimize"`
	HorizonHours  float64 `json:"horizon_hours,omitempty"`
}

type PreviewStop struct {
	prediction.Snapshot
	Reasons       prediction.WorkReasons `json:"reasons"`
	PredictedFull *int64                 `json:"predicted_full,omitempty"` // Unix timestamp
	LowFillRate   bool                   `json:"low_fill_rate"`
}

type PreviewRouteResponse struct {
	Stops           []PreviewStop                `json:"stops"`
	DeviceIDs       []int64                      `json:"device_ids"`
	InvalidReadings int                          `json:"invalid_readings"`
	Estimate        *services.DirectionsEstimate `json:"estimate,omitempty"`
}

// PreviewRoute runs the planning pipeline over a fresh snapshot: normalize
// current device state, fit fill rates from history, predict saturation
// times, then select and order the bins needing service. Nothing is
// persisted; creating the route happens in a separate call with the returned
// device_ids.
func PreviewRoute(db *sqlx.DB, directions *services.DirectionsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PreviewRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !req.EmptyBin && !req.ChangeBattery {
			utils.Error(w, http.StatusBadRequest, "At least one filter must be selected")
			return
		}

		var devices []models.Device
		err := db.Select(&devices,
			"SELECT * FROM devices WHERE is_registered = TRUE ORDER BY unique_id ASC")
		if err != nil {
			log.Printf("❌ [PREVIEW-ROUTE] Device query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch devices")
			return
		}

		var samples []models.HistoricalSample
		err = db.Select(&samples, "SELECT * FROM historical ORDER BY saved_time ASC")
		if err != nil {
			log.Printf("❌ [PREVIEW-ROUTE] Historical query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch samples")
			return
		}

		now := time.Now()
		snapshots, dropped := prediction.NormalizeAll(devices)

		levels := make(map[int64]int, len(snapshots))
		for _, s := range snapshots {
			levels[s.UniqueID] = s.FillPercent
		}

		horizon := req.HorizonHours
		if horizon <= 0 {
			horizon = prediction.DefaultHorizonHours
		}

		rates := prediction.EstimateFillRates(samples)
		predicted := prediction.PredictFullTimes(levels, rates, now)
		due := prediction.DueForPickup(predicted, now, horizon)
		lowRate := prediction.LowFillRate(rates, prediction.DefaultLowRateThreshold)

		filters := prediction.Filters{
			ChangeBattery: req.ChangeBattery,
			EmptyBin:      req.EmptyBin,
		}
		work := prediction.BuildWorkList(snapshots, due, filters)

		if req.Optimize && len(work) > 1 {
			stops := make([]services.Stop, len(work))
			bySnapshot := make(map[int64]prediction.Snapshot, len(work))
			for i, s := range work {
				stops[i] = services.Stop{
					UniqueID:    s.UniqueID,
					Latitude:    s.Lat,
					Longitude:   s.Lng,
					FillPercent: s.FillPercent,
				}
				bySnapshot[s.UniqueID] = s
			}
			ordered := services.NewSequencer().SequenceStops(stops, services.GetDepotLocation())
			work = work[:0]
			for _, stop := range ordered {
				work = append(work, bySnapshot[stop.UniqueID])
			}
		}

		response := PreviewRouteResponse{
			Stops:           make([]PreviewStop, 0, len(work)),
			DeviceIDs:       make([]int64, 0, len(work)),
			InvalidReadings: dropped,
		}
		for _, s := range work {
			stop := PreviewStop{
				Snapshot:    s,
				Reasons:     prediction.Reasons(s, due, filters),
				LowFillRate: lowRate[s.UniqueID],
			}
			if t, ok := predicted[s.UniqueID]; ok {
				ts := t.Unix()
				stop.PredictedFull = &ts
			}
			response.Stops = append(response.Stops, stop)
			response.DeviceIDs = append(response.DeviceIDs, s.UniqueID)
		}

		// A failed drive estimate degrades to no estimate, not an error.
		if directions != nil && len(work) > 0 {
			routeStops := make([]services.Stop, len(work))
			for i, s := range work {
				routeStops[i] = services.Stop{
					UniqueID:  s.UniqueID,
					Latitude:  s.Lat,
					Longitude: s.Lng,
				}
			}
			estimate, err := directions.EstimateRoute(services.GetDepotLocation(), routeStops)
			if err != nil {
				log.Printf("⚠️ [PREVIEW-ROUTE] Directions estimate unavailable: %v", err)
			} else {
				response.Estimate = estimate
			}
		}

		utils.Success(w, response)
	}
}

func CreateRoute(db *sqlx.DB, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateRouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if len(req.DeviceIDs) == 0 {
			utils.Error(w, http.StatusBadRequest, "device_ids must not be empty")
			return
		}

		var employee models.User
		err := db.Get(&employee, "SELECT * FROM users WHERE id = $1", req.EmployeeID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusBadRequest, "Unknown employee")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		route := models.Route{
			ID:            uuid.New().String(),
			EmployeeID:    req.EmployeeID,
			DeviceIDs:     pq.Int64Array(req.DeviceIDs),
			EmptyBin:      req.EmptyBin,
			ChangeBattery: req.ChangeBattery,
			Status:        models.RouteStatusPending,
			CreatedAt:     time.Now().Unix(),
		}

		_, err = db.Exec(`
			INSERT INTO routes (id, employee_id, device_ids, empty_bin, change_battery, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, route.ID, route.EmployeeID, route.DeviceIDs, route.EmptyBin, route.ChangeBattery,
			route.Status, route.CreatedAt)
		if err != nil {
			log.Printf("❌ [CREATE-ROUTE] Insert failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store route")
			return
		}

		hub.Publish("routes", websocket.EventInsert, route)

		if fcm != nil && employee.FCMToken != nil && *employee.FCMToken != "" {
			go func(token, routeID string, totalBins int) {
				if err := fcm.SendRouteAssignedNotification(token, routeID, totalBins); err != nil {
					log.Printf("⚠️ [CREATE-ROUTE] FCM notify failed: %v", err)
				}
			}(*employee.FCMToken, route.ID, len(route.DeviceIDs))
		}

		log.Printf("✅ [CREATE-ROUTE] Route %s for %s with %d bins",
			route.ID, employee.Email, len(route.DeviceIDs))
		utils.JSON(w, http.StatusCreated, route)
	}
}

// transitionRoute performs a guarded status change. The WHERE clause on the
// previous status makes concurrent transitions race-safe: exactly one caller
// sees an affected row.
func transitionRoute(db *sqlx.DB, hub *websocket.Hub, w http.ResponseWriter,
	id, from, to, stampColumn string) {

	result, err := db.Exec(`
		UPDATE routes SET status = $1, `+stampColumn+` = $2
		WHERE id = $3 AND status = $4
	`, to, time.Now().Unix(), id, from)
	if err != nil {
		log.Printf("❌ [ROUTE-TRANSITION] Update failed: %v", err)
		utils.Error(w, http.StatusInternalServerError, "Failed to update route")
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		var current string
		err := db.Get(&current, "SELECT status FROM routes WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Route not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}
		utils.Error(w, http.StatusConflict,
			models.ValidateTransition(current, to).Error())
		return
	}

	var route models.Route
	if err := db.Get(&route, "SELECT * FROM routes WHERE id = $1", id); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Database error")
		return
	}

	hub.Publish("routes", websocket.EventUpdate, route)
	utils.Success(w, route)
}

func StartRoute(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transitionRoute(db, hub, w, chi.URLParam(r, "id"),
			models.RouteStatusPending, models.RouteStatusStarted, "started")
	}
}

func FinishRoute(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		transitionRoute(db, hub, w, chi.URLParam(r, "id"),
			models.RouteStatusStarted, models.RouteStatusFinished, "finished")
	}
}

// DeleteRoute removes a finished route. Pending and started routes must be
// walked through the status chain first.
func DeleteRoute(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		result, err := db.Exec(`
			DELETE FROM routes WHERE id = $1 AND status = $2
		`, id, models.RouteStatusFinished)
		if err != nil {
			log.Printf("❌ [DELETE-ROUTE] Delete failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to delete route")
			return
		}

		if rows, _ := result.RowsAffected(); rows == 0 {
			var current string
			err := db.Get(&current, "SELECT status FROM routes WHERE id = $1", id)
			if err == sql.ErrNoRows {
				utils.Error(w, http.StatusNotFound, "Route not found")
				return
			}
			if err != nil {
				utils.Error(w, http.StatusInternalServerError, "Database error")
				return
			}
			utils.Error(w, http.StatusConflict, "Only finished routes can be deleted")
			return
		}

		hub.Publish("routes", websocket.EventDelete, map[string]string{"id": id})
		utils.Success(w, map[string]bool{"ok": true})
	}
}
