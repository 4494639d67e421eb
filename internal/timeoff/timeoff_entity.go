package timeoff

import (
	"time"

	"go-timeclock/internal/punch"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"

	TypeVacation = "vacation"
	TypeSick     = "sick"
	TypePersonal = "personal"
	TypeOther    = "other"
)

// Request is a time-off request over whole days, or part of a single day.
type Request struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID   uuid.UUID `gorm:"type:uuid;not null;index:idx_time_off_employee"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_time_off_dates,priority:1"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_time_off_dates,priority:2"`
	IsPartialDay bool      `gorm:"not null;default:false"`
	StartTime    *string   `gorm:"type:varchar(5)"`
	EndTime      *string   `gorm:"type:varchar(5)"`
	Type         string    `gorm:"column:request_type;type:varchar(20);not null"`
	Reason       *string   `gorm:"type:text"`
	RequestDate  time.Time `gorm:"not null"`
	Status       string    `gorm:"type:varchar(10);not null;default:pending;index:idx_time_off_status"`

	AdminResponse *string    `gorm:"type:text"`
	ProcessedDate *time.Time
	ProcessedBy   *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *punch.EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Request) TableName() string {
	return "time_off_requests"
}

func validType(t string) bool {
	switch t {
	case TypeVacation, TypeSick, TypePersonal, TypeOther:
		return true
	}
	return false
}
