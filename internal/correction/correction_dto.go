package correction

type CreateCorrectionRequest struct {
	PunchID *string `json:"punch_id" binding:"omitempty,uuid"`
	Date    string  `json:"date"`
	Note    string  `json:"note" binding:"required"`
}

type DecideCorrectionRequest struct {
	Status    string `json:"status" binding:"required,oneof=approved denied"`
	AdminNote string `json:"admin_note"`
}

type CorrectionResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name,omitempty"`
	PunchID      *string `json:"punch_id,omitempty"`
	Date         string  `json:"date"`
	Note         string  `json:"note"`
	Status       string  `json:"status"`
	AdminNote    *string `json:"admin_note,omitempty"`
	DecidedBy    *string `json:"decided_by,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
