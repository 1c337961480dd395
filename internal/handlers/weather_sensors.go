package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/websocket"
	"binwatch-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func GetWeatherSensors(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sensors []models.WeatherSensor
		err := db.Select(&sensors, "SELECT * FROM weather_sensors ORDER BY unique_id ASC")
		if err != nil {
			log.Printf("❌ [GET-WEATHER-SENSORS] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch sensors")
			return
		}
		utils.Success(w, sensors)
	}
}

func UpdateWeatherSensor(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uniqueID, err := strconv.ParseInt(chi.URLParam(r, "unique_id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid sensor id")
			return
		}

		var req models.UpdateWeatherSensorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.WeatherSensor
		err = db.Get(&existing, "SELECT * FROM weather_sensors WHERE unique_id = $1", uniqueID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Sensor not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
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
			UPDATE weather_sensors
			SET lat = $1, lng = $2, is_registered = $3, updated_at = $4
			WHERE unique_id = $5
		`, existing.Lat, existing.Lng, existing.IsRegistered, existing.UpdatedAt, uniqueID)
		if err != nil {
			log.Printf("❌ [UPDATE-WEATHER-SENSOR] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update sensor")
			return
		}

		hub.Publish("weather_sensors", websocket.EventUpdate, existing)
		utils.Success(w, existing)
	}
}

// DeleteWeatherSensor deregisters a weather sensor, keeping the row.
func DeleteWeatherSensor(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uniqueID, err := strconv.ParseInt(chi.URLParam(r, "unique_id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid sensor id")
			return
		}

		result, err := db.Exec(`
			UPDATE weather_sensors SET is_registered = FALSE, updated_at = $1 WHERE unique_id = $2
		`, time.Now().Unix(), uniqueID)
		if err != nil {
			log.Printf("❌ [DELETE-WEATHER-SENSOR] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to deregister sensor")
			return
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			utils.Error(w, http.StatusNotFound, "Sensor not found")
			return
		}

		hub.Publish("weather_sensors", websocket.EventDelete, map[string]int64{"unique_id": uniqueID})
		utils.Success(w, map[string]bool{"ok": true})
	}
}
