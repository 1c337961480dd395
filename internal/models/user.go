package models

type User struct {
	ID        string  `json:"id" db:"id"`
	Email     string  `json:"email" db:"email"`
	Password  string  `json:"-" db:"password"` // Never return password in JSON
	FName     string  `json:"fname" db:"fname"`
	LName     string  `json:"lname" db:"lname"`
	Role      string  `json:"role" db:"role"` // "employee" or "admin"
	FCMToken  *string `json:"-" db:"fcm_token"`
	CreatedAt int64   `json:"created_at" db:"created_at"`
	UpdatedAt int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FName     string `json:"fname"`
	LName     string `json:"lname"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FName:     u.FName,
		LName:     u.LName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// CreateUserRequest is the request body for POST /api/users
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FName    string `json:"fname"`
	LName    string `json:"lname"`
	Role     string `json:"role"`
}
