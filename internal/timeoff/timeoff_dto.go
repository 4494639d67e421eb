package timeoff

type CreateTimeOffRequest struct {
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	IsPartialDay bool    `json:"is_partial_day"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Type         string  `json:"type" binding:"required,oneof=vacation sick personal other"`
	Reason       *string `json:"reason"`
}

type DecideTimeOffRequest struct {
	Status        string  `json:"status" binding:"required,oneof=approved denied"`
	AdminResponse *string `json:"admin_response"`
}

type TimeOffResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	IsPartialDay  bool    `json:"is_partial_day"`
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	Type          string  `json:"type"`
	Reason        *string `json:"reason,omitempty"`
	RequestDate   string  `json:"request_date"`
	Status        string  `json:"status"`
	AdminResponse *string `json:"admin_response,omitempty"`
	ProcessedDate *string `json:"processed_date,omitempty"`
	ProcessedBy   *string `json:"processed_by,omitempty"`
}
