package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/prediction"
	"binwatch-backend/internal/websocket"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// toResponse derives the fill percentage for the client view. Devices with
// invalid calibration get a nil fill_percent rather than a clamped value.
func toResponse(d models.Device) models.DeviceResponse {
	if percent, err := prediction.FillPercent(d.Level, d.BinHeight); err == nil {
		return d.ToDeviceResponse(&percent)
	}
	return d.ToDeviceResponse(nil)
}

func GetDevices(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := "SELECT * FROM devices ORDER BY unique_id ASC"
		args := []interface{}{}

		if registered := r.URL.Query().Get("registered"); registered != "" {
			val, err := strconv.ParseBool(registered)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Invalid registered filter")
				return
			}
			query = "SELECT * FROM devices WHERE is_registered = $1 ORDER BY unique_id ASC"
			args = append(args, val)
		}

		var devices []models.Device
		if err := db.Select(&devices, query, args...); err != nil {
			log.Printf("❌ [GET-DEVICES] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch devices")
			return
		}

		responses := make([]models.DeviceResponse, len(devices))
		for i, d := range devices {
			responses[i] = toResponse(d)
		}
		utils.Success(w, responses)
	}
}

func GetDevice(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uniqueID, err := strconv.ParseInt(chi.URLParam(r, "unique_id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid device id")
			return
		}

		var device models.Device
		err = db.Get(&device, "SELECT * FROM devices WHERE unique_id = $1", uniqueID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Device not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.Success(w, toResponse(device))
	}
}

func CreateDevice(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.UniqueID <= 0 {
			utils.Error(w, http.StatusBadRequest, "unique_id is required")
			return
		}
		if req.BinHeight <= 0 {
			utils.Error(w, http.StatusBadRequest, "bin_height must be positive")
			return
		}

		now := time.Now().Unix()
		var device models.Device
		err := db.Get(&device, `
			INSERT INTO devices (unique_id, level, battery, bin_height, lat, lng, is_registered, created_at, updated_at)
			VALUES ($1, 0, 0, $2, $3, $4, TRUE, $5, $5)
			RETURNING *
		`, req.UniqueID, req.BinHeight, req.Lat, req.Lng, now)
		if err != nil {
			log.Printf("❌ [CREATE-DEVICE] Insert failed: %v", err)
			utils.Error(w, http.StatusConflict, "Device with this unique_id already exists")
			return
		}

		response := toResponse(device)
		hub.Publish("devices", websocket.EventInsert, response)

		log.Printf("✅ [CREATE-DEVICE] Registered device %d", device.UniqueID)
		utils.JSON(w, http.StatusCreated, response)
	}
}

func UpdateDevice(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uniqueID, err := strconv.ParseInt(chi.URLParam(r, "unique_id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid device id")
			return
		}

		var req models.UpdateDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.Device
		err = db.Get(&existing, "SELECT * FROM devices WHERE unique_id = $1", uniqueID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Device not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.BinHeight != nil {
			if *req.BinHeight <= 0 {
				utils.Error(w, http.StatusBadRequest, "bin_height must be positive")
				return
			}
			existing.BinHeight = *req.BinHeight
		}
		if req.Lat != nil {
			existing.Lat = *req.Lat
		}
		if req.Lng != nil {
			existing.Lng = *req.Lng
		}
		if req.IsRegistered != nil {
			existing.IsRegistered = *req.IsRegistered
		}
		existing.UpdatedAt = time.Now().Unix()

		_, err = db.Exec(`
			UPDATE devices
			SET bin_height = $1, lat = $2, lng = $3, is_registered = $4, updated_at = $5
			WHERE unique_id = $6
		`, existing.BinHeight, existing.Lat, existing.Lng, existing.IsRegistered, existing.UpdatedAt, uniqueID)
		if err != nil {
			log.Printf("❌ [UPDATE-DEVICE] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update device")
			return
		}

		response := toResponse(existing)
		hub.Publish("devices", websocket.EventUpdate, response)
		utils.Success(w, response)
	}
}

// DeleteDevice deregisters a device. The row and its history are kept so the
// device can re-register by reporting again.
func DeleteDevice(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uniqueID, err := strconv.ParseInt(chi.URLParam(r, "unique_id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid device id")
			return
		}

		result, err := db.Exec(`
			UPDATE devices SET is_registered = FALSE, updated_at = $1 WHERE unique_id = $2
		`, time.Now().Unix(), uniqueID)
		if err != nil {
			log.Printf("❌ [DELETE-DEVICE] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to deregister device")
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			utils.Error(w, http.StatusNotFound, "Device not found")
			return
		}

		hub.Publish("devices", websocket.EventDelete, map[string]int64{"unique_id": uniqueID})

		log.Printf("✅ [DELETE-DEVICE] Deregistered device %d", uniqueID)
		utils.Success(w, map[string]bool{"ok": true})
	}
}
