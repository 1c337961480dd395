package models

import (
	"fmt"

	"github.com/lib/pq"
)

// Route statuses. Transitions are one-directional and operator-triggered:
// pending -> started -> finished, then delete.
const (
	RouteStatusPending  = "pending"
	RouteStatusStarted  = "started"
	RouteStatusFinished = "finished"
)

// ErrInvalidTransition is returned when a route status change is requested
// out of order (e.g. finishing a pending route).
type ErrInvalidTransition struct {
	From string
	To   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid route transition: %s -> %s", e.From, e.To)
}

// routeTransitions maps each status to the only status it may move to.
var routeTransitions = map[string]string{
	RouteStatusPending: RouteStatusStarted,
	RouteStatusStarted: RouteStatusFinished,
}

// ValidateTransition returns an error when a requested status change is out
// of order.
func ValidateTransition(from, to string) error {
	if routeTransitions[from] != to {
		return &ErrInvalidTransition{From: from, To: to}
	}
	return nil
}

// Route is a persisted pickup route. DeviceIDs is an ordered snapshot of the
// work list taken at creation time; it is never recomputed afterwards.
type Route struct {
	ID            string        `json:"id" db:"id"`
	EmployeeID    string        `json:"employee_id" db:"employee_id"`
	DeviceIDs     pq.Int64Array `json:"device_ids" db:"device_ids"`
	EmptyBin      bool          `json:"empty_bin" db:"empty_bin"`
	ChangeBattery bool          `json:"change_battery" db:"change_battery"`
	Status        string        `json:"status" db:"status"`
	CreatedAt     int64         `json:"created_at" db:"created_at"` // Unix timestamp
	Started       *int64        `json:"started,omitempty" db:"started"`
	Finished      *int64        `json:"finished,omitempty" db:"finished"`
}

// RouteWithEmployee joins the creating employee's name onto the route for
// list views.
type RouteWithEmployee struct {
	Route
	EmployeeFName *string `json:"employee_fname,omitempty" db:"fname"`
	EmployeeLName *string `json:"employee_lname,omitempty" db:"lname"`
}

// CreateRouteRequest is the request body for POST /api/routes
type CreateRouteRequest struct {
	EmployeeID    string  `json:"employee_id"`
	DeviceIDs     []int64 `json:"device_ids"`
	EmptyBin      bool    `json:"empty_bin"`
	ChangeBattery bool    `json:"change_battery"`
}
