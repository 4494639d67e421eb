package punch

import "time"

type CreatePunchRequest struct {
	PunchType string   `json:"punch_type" binding:"required,oneof=in out"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	// Flagged lets the client flag a punch itself, e.g. after a location timeout.
	Flagged bool `json:"flagged"`
}

type ManualPunchRequest struct {
	EmployeeID string    `json:"employee_id" binding:"required,uuid"`
	PunchType  string    `json:"punch_type" binding:"required,oneof=in out"`
	Timestamp  time.Time `json:"timestamp" binding:"required"`
	Flagged    bool      `json:"flagged"`
}

type UpdatePunchRequest struct {
	Timestamp *time.Time `json:"timestamp"`
	PunchType *string    `json:"punch_type" binding:"omitempty,oneof=in out"`
	Flagged   *bool      `json:"flagged"`
}

type PunchResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	PunchType    string    `json:"punch_type"`
	Timestamp    time.Time `json:"timestamp"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	IPAddress    string    `json:"ip_address,omitempty"`
	Flagged      bool      `json:"flagged"`
	Source       string    `json:"source"`
	CreatedBy    string    `json:"created_by,omitempty"`
}

type StatusResponse struct {
	EmployeeID string         `json:"employee_id"`
	ClockedIn  bool           `json:"clocked_in"`
	LastPunch  *PunchResponse `json:"last_punch,omitempty"`
}
