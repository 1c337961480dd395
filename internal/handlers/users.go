package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"binwatch-backend/internal/middleware"
	"binwatch-backend/internal/models"
	"binwatch-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func GetUsers(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var users []models.User
		err := db.Select(&users, "SELECT * FROM users ORDER BY lname, fname")
		if err != nil {
			log.Printf("❌ [GET-USERS] Query failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		responses := make([]models.UserResponse, len(users))
		for i, u := range users {
			responses[i] = u.ToUserResponse()
		}
		utils.Success(w, responses)
	}
}

func CreateUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" {
			utils.Error(w, http.StatusBadRequest, "Email and password are required")
			return
		}
		if req.Role != "employee" && req.Role != "admin" {
			utils.Error(w, http.StatusBadRequest, "Role must be employee or admin")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hash),
			FName:     req.FName,
			LName:     req.LName,
			Role:      req.Role,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, fname, lname, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, user.ID, user.Email, user.Password, user.FName, user.LName, user.Role, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			log.Printf("❌ [CREATE-USER] Insert failed: %v", err)
			utils.Error(w, http.StatusConflict, "User with this email already exists")
			return
		}

		log.Printf("✅ [CREATE-USER] Created %s (%s)", user.Email, user.Role)
		utils.JSON(w, http.StatusCreated, user.ToUserResponse())
	}
}

type FCMTokenRequest struct {
	Token string `json:"token"`
}

// UpdateFCMToken stores the caller's push notification token.
func UpdateFCMToken(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req FCMTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		_, err := db.Exec(`
			UPDATE users SET fcm_token = $1, updated_at = $2 WHERE id = $3
		`, req.Token, time.Now().Unix(), claims.UserID)
		if err != nil {
			log.Printf("❌ [FCM-TOKEN] Update failed: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to store token")
			return
		}

		log.Printf("✅ [FCM-TOKEN] Stored token for %s", claims.Email)
		utils.Success(w, map[string]bool{"ok": true})
	}
}
