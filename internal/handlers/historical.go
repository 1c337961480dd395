package handlers

import (
	"log"
	"net/http"
	"strconv"

	"binwatch-backend/internal/models"
	"binwatch-backend/internal/prediction"
	"binwatch-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

func GetHistorical(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := "SELECT * FROM historical ORDER BY saved_time ASC"
		args := []interface{}{}

		if deviceParam := r.URL.Query().Get("unique_id"); deviceParam != "" {
			uniqueID, err := strconv.ParseInt(deviceParam, 10, 64)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Invalid unique_id filter")
				return
			}
			query = "SELECT * FROM historical WHERE unique_id = $1 ORDER BY saved_time ASC"
			args = append(args, uniqueID)
		}

		var samples []models.HistoricalSample
		if err := db.Select(&samples, query, args...); err != nil {
			log.Printf("❌ [GET-HISTORICAL] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch samples")
			return
		}

		if samples == nil {
			samples = []models.HistoricalSample{}
		}
		utils.Success(w, samples)
	}
}

// GetEmptyEvents reports per-device emptying event counts derived from the
// historical series.
func GetEmptyEvents(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var samples []models.HistoricalSample
		err := db.Select(&samples, "SELECT * FROM historical ORDER BY saved_time ASC")
		if err != nil {
			log.Printf("❌ [EMPTY-EVENTS] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch samples")
			return
		}

		utils.Success(w, prediction.EmptyingCounts(samples))
	}
}

// ClearHistorical drops the whole fill time series. Admin only.
func ClearHistorical(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := db.Exec("DELETE FROM historical")
		if err != nil {
			log.Printf("❌ [CLEAR-HISTORICAL] Delete failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to clear samples")
			return
		}

		rows, _ := result.RowsAffected()
		log.Printf("🗑️ [CLEAR-HISTORICAL] Removed %d samples", rows)
		utils.Success(w, map[string]int64{"deleted": rows})
	}
}
