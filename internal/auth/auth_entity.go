package auth

import "time"

// Session is the server-side record behind a token; deleting it revokes the
// token before it expires.
type Session struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	IsAdmin    bool      `json:"is_admin"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
