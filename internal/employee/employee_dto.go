package employee

type CreateEmployeeRequest struct {
	FullName string `json:"full_name" binding:"required,max=150"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"max=30"`
	JobTitle string `json:"job_title" binding:"max=100"`
	PIN      string `json:"pin" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

type UpdateEmployeeRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=150"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	JobTitle *string `json:"job_title" binding:"omitempty,max=100"`
	PIN      *string `json:"pin"`
	IsAdmin  *bool   `json:"is_admin"`
	IsActive *bool   `json:"is_active"`
}

type EmployeeResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}
