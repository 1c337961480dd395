package models

// HistoricalSample is one point of the append-only per-device fill time
// series. SavedTime ordering is significant for rate estimation.
type HistoricalSample struct {
	ID              int64 `json:"id" db:"id"`
	UniqueID        int64 `json:"unique_id" db:"unique_id"`
	SavedTime       int64 `json:"saved_time" db:"saved_time"` // Unix timestamp
	LevelInPercents int   `json:"level_in_percents" db:"level_in_percents"`
}
