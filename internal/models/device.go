package models

// Device is a bin device row. Level holds the raw ultrasonic distance in cm
// as reported by the hardware; the fill percentage is derived from it and
// bin_height at read time. Lat/lng are stored as text (hardware reports them
// as strings) and coerced during normalization.
type Device struct {
	ID           int64  `json:"id" db:"id"`
	UniqueID     int64  `json:"unique_id" db:"unique_id"`
	Level        int    `json:"level" db:"level"` // raw distance, cm
	Battery      int    `json:"battery" db:"battery"`
	BinHeight    int    `json:"bin_height" db:"bin_height"` // cm
	Lat          string `json:"lat" db:"lat"`
	Lng          string `json:"lng" db:"lng"`
	IsRegistered bool   `json:"is_registered" db:"is_registered"`
	CreatedAt    int64  `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt    int64  `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// DeviceResponse is what we send to the client. FillPercent is nil when the
// device has no valid calibration (zero bin height or out-of-range reading).
type DeviceResponse struct {
	ID           int64  `json:"id"`
	UniqueID     int64  `json:"unique_id"`
	Level        int    `json:"level"`
	FillPercent  *int   `json:"fill_percent,omitempty"`
	Battery      int    `json:"battery"`
	BinHeight    int    `json:"bin_height"`
	Lat          string `json:"lat"`
	Lng          string `json:"lng"`
	IsRegistered bool   `json:"is_registered"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// ToDeviceResponse converts a Device to DeviceResponse. The caller supplies
// the derived fill percentage (nil when the reading is invalid).
func (d *Device) ToDeviceResponse(fillPercent *int) DeviceResponse {
	return DeviceResponse{
		ID:           d.ID,
		UniqueID:     d.UniqueID,
		Level:        d.Level,
		FillPercent:  fillPercent,
		Battery:      d.Battery,
		BinHeight:    d.BinHeight,
		Lat:          d.Lat,
		Lng:          d.Lng,
		IsRegistered: d.IsRegistered,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// CreateDeviceRequest is the request body for POST /api/devices
type CreateDeviceRequest struct {
	UniqueID  int64  `json:"unique_id"`
	BinHeight int    `json:"bin_height"`
	Lat       string `json:"lat"`
	Lng       string `json:"lng"`
}

// UpdateDeviceRequest is the request body for PATCH /api/devices/:unique_id
type UpdateDeviceRequest struct {
	BinHeight    *int    `json:"bin_height,omitempty"`
	Lat          *string `json:"lat,omitempty"`
	Lng          *string `json:"lng,omitempty"`
	IsRegistered *bool   `json:"is_registered,omitempty"`
}

// TelemetryReport is the request body for POST /api/telemetry, sent by the
// bin hardware on its reporting interval.
type TelemetryReport struct {
	UniqueID int64 `json:"unique_id"`
	Level    int   `json:"level"` // raw distance, cm
	Battery  int   `json:"battery"`
}
