package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName  string    `gorm:"type:varchar(150);not null"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex:uq_employee_email"`
	Phone     string    `gorm:"type:varchar(30)"`
	JobTitle  string    `gorm:"type:varchar(100)"`
	PinHash   string    `gorm:"type:varchar(100);not null"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	IsActive  bool      `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}
