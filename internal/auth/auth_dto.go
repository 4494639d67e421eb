package auth

import "time"

type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type AuthResponse struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	IsAdmin    bool   `json:"is_admin"`
	Role       string `json:"role"`
}

type LoginResult struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Employee    AuthResponse `json:"employee"`
}
