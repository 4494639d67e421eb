package domain

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

// Principal is the authenticated caller resolved from a session token.
type Principal struct {
	EmployeeID string
	IsAdmin    bool
	SessionID  string
}

func (p Principal) Role() string {
	if p.IsAdmin {
		return RoleAdmin
	}
	return RoleEmployee
}
