package models

// Feedback is a citizen report about a device (overflow, damage, smell...).
type Feedback struct {
	ID          int64  `json:"id" db:"id"`
	DeviceID    int64  `json:"device_id" db:"device_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	Resolved    bool   `json:"resolved" db:"resolved"`
	Timestamp   int64  `json:"timestamp" db:"timestamp"` // Unix timestamp
}

// CreateFeedbackRequest is the request body for POST /api/feedbacks
type CreateFeedbackRequest struct {
	DeviceID    int64  `json:"device_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateFeedbackRequest is the request body for PATCH /api/feedbacks/:id
type UpdateFeedbackRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Resolved    *bool   `json:"resolved,omitempty"`
}
