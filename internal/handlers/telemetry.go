package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/prediction"
	"binwatch-backend/internal/websocket"
	"binwatch-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

// ReportTelemetry ingests a hardware report. Unknown devices are inserted
// unregistered so an operator can claim them later; known devices get their
// level and battery updated and, when the reading normalizes cleanly, a
// sample appended to the historical series.
func ReportTelemetry(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report models.TelemetryReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if report.UniqueID <= 0 {
			utils.Error(w, http.StatusBadRequest, "unique_id is required")
			return
		}

		now := time.Now().Unix()

		var device models.Device
		err := db.Get(&device, "SELECT * FROM devices WHERE unique_id = $1", report.UniqueID)
		if err == sql.ErrNoRows {
			// First contact: store the device unregistered with no calibration.
			err = db.Get(&device, `
				INSERT INTO devices (unique_id, level, battery, bin_height, lat, lng, is_registered, created_at, updated_at)
				VALUES ($1, $2, $3, 0, '', '', FALSE, $4, $4)
				RETURNING *
			`, report.UniqueID, report.Level, report.Battery, now)
			if err != nil {
				log.Printf("❌ [TELEMETRY] Insert failed for %d: %v", report.UniqueID, err)
				utils.Error(w, http.StatusInternalServerError, "Failed to store device")
				return
			}

			log.Printf("📡 [TELEMETRY] New unregistered device: %d", device.UniqueID)
			hub.Publish("devices", websocket.EventInsert, toResponse(device))
			utils.JSON(w, http.StatusCreated, toResponse(device))
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		device.Level = report.Level
		device.Battery = report.Battery
		device.UpdatedAt = now

		_, err = db.Exec(`
			UPDATE devices SET level = $1, battery = $2, updated_at = $3 WHERE unique_id = $4
		`, device.Level, device.Battery, device.UpdatedAt, device.UniqueID)
		if err != nil {
			log.Printf("❌ [TELEMETRY] Update failed for %d: %v", device.UniqueID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update device")
			return
		}

		hub.Publish("devices", websocket.EventUpdate, toResponse(device))

		percent, err := prediction.FillPercent(device.Level, device.BinHeight)
		if err != nil {
			// The raw update is kept but no historical sample is written for a
			// reading that cannot be normalized.
			if errors.Is(err, prediction.ErrInvalidReading) {
				log.Printf("⚠️ [TELEMETRY] Rejected reading from %d: %v", device.UniqueID, err)
				utils.Error(w, http.StatusUnprocessableEntity, "Reading outside bin calibration range")
				return
			}
			utils.Error(w, http.StatusInternalServerError, "Failed to normalize reading")
			return
		}

		var sample models.HistoricalSample
		err = db.Get(&sample, `
			INSERT INTO historical (unique_id, saved_time, level_in_percents)
			VALUES ($1, $2, $3)
			RETURNING *
		`, device.UniqueID, now, percent)
		if err != nil {
			log.Printf("❌ [TELEMETRY] Historical insert failed for %d: %v", device.UniqueID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store sample")
			return
		}

		hub.Publish("historical", websocket.EventInsert, sample)
		utils.Success(w, toResponse(device))
	}
}

// ReportWeather ingests a weather sensor report, upserting the sensor row.
func ReportWeather(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report models.WeatherReport
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if report.UniqueID <= 0 {
			utils.Error(w, http.StatusBadRequest, "unique_id is required")
			return
		}

		now := time.Now().Unix()

		var sensor models.WeatherSensor
		err := db.Get(&sensor, `
			INSERT INTO weather_sensors (unique_id, battery, temperature, humidity, lat, lng, is_registered, created_at, updated_at)
			VALUES ($1, $2, $3, $4, '', '', FALSE, $5, $5)
			ON CONFLICT (unique_id) DO UPDATE
			SET battery = $2, temperature = $3, humidity = $4, updated_at = $5
			RETURNING *
		`, report.UniqueID, report.Battery, report.Temperature, report.Humidity, now)
		if err != nil {
			log.Printf("❌ [TELEMETRY-WEATHER] Upsert failed for %d: %v", report.UniqueID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store sensor")
			return
		}

		hub.Publish("weather_sensors", websocket.EventUpdate, sensor)
		utils.Success(w, sensor)
	}
}
