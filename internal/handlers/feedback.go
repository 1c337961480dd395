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

func GetFeedbacks(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var feedbacks []models.Feedback
		err := db.Select(&feedbacks, "SELECT * FROM feedbacks ORDER BY timestamp DESC")
		if err != nil {
			log.Printf("❌ [GET-FEEDBACKS] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch feedbacks")
			return
		}

		if feedbacks == nil {
			feedbacks = []models.Feedback{}
		}
		utils.Success(w, feedbacks)
	}
}

func CreateFeedback(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Title == "" {
			utils.Error(w, http.StatusBadRequest, "Title is required")
			return
		}

		var feedback models.Feedback
		err := db.Get(&feedback, `
			INSERT INTO feedbacks (device_id, title, description, resolved, timestamp)
			VALUES ($1, $2, $3, FALSE, $4)
			RETURNING *
		`, req.DeviceID, req.Title, req.Description, time.Now().Unix())
		if err != nil {
			log.Printf("❌ [CREATE-FEEDBACK] Insert failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store feedback")
			return
		}

		hub.Publish("feedbacks", websocket.EventInsert, feedback)
		utils.JSON(w, http.StatusCreated, feedback)
	}
}

func UpdateFeedback(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid feedback id")
			return
		}

		var req models.UpdateFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.Feedback
		err = db.Get(&existing, "SELECT * FROM feedbacks WHERE id = $1", id)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Feedback not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.Title != nil {
			existing.Title = *req.Title
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}
		if req.Resolved != nil {
			existing.Resolved = *req.Resolved
		}

		_, err = db.Exec(`
			UPDATE feedbacks SET title = $1, description = $2, resolved = $3 WHERE id = $4
		`, existing.Title, existing.Description, existing.Resolved, id)
		if err != nil {
			log.Printf("❌ [UPDATE-FEEDBACK] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update feedback")
			return
		}

		hub.Publish("feedbacks", websocket.EventUpdate, existing)
		utils.Success(w, existing)
	}
}
