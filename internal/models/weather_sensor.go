package models

// WeatherSensor is a companion sensor row. It shares the registration
// lifecycle with bin devices but carries no fill calibration.
type WeatherSensor struct {
	ID           int64   `json:"id" db:"id"`
	UniqueID     int64   `json:"unique_id" db:"unique_id"`
	Battery      int     `json:"battery" db:"battery"`
	Temperature  float64 `json:"temperature" db:"temperature"`
	Humidity     float64 `json:"humidity" db:"humidity"`
	Lat          string  `json:"lat" db:"lat"`
	Lng          string  `json:"lng" db:"lng"`
	IsRegistered bool    `json:"is_registered" db:"is_registered"`
	CreatedAt    int64   `json:"created_at" db:"created_at"` // Unix timestamp
	UpdatedAt    int64   `json:"updated_at" db:"updated_at"` // Unix timestamp
}

// WeatherReport is the request body for POST /api/telemetry/weather
type WeatherReport struct {
	UniqueID    int64   `json:"unique_id"`
	Battery     int     `json:"battery"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// UpdateWeatherSensorRequest is the request body for
// PATCH /api/weather-sensors/:unique_id
type UpdateWeatherSensorRequest struct {
	Lat          *string `json:"lat,omitempty"`
	Lng          *string `json:"lng,omitempty"`
	IsRegistered *bool   `json:"is_registered,omitempty"`
}
