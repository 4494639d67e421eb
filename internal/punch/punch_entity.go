package punch

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeIn  = "in"
	TypeOut = "out"

	SourceSelf   = "self"
	SourceManual = "manual"
)

type Punch struct {
	ID         uuid.UUID    `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID    `gorm:"column:employee_id;type:uuid;not null;index:idx_punch_employee_type_time,priority:1"`
	PunchType  string       `gorm:"column:punch_type;type:varchar(3);not null;index:idx_punch_employee_type_time,priority:2"`
	Timestamp  time.Time    `gorm:"column:punched_at;type:timestamptz;not null;index:idx_punch_employee_type_time,priority:3;index"`
	Latitude   *float64     `gorm:"column:latitude"`
	Longitude  *float64     `gorm:"column:longitude"`
	IPAddress  string       `gorm:"column:ip_address;type:varchar(45)"`
	Flagged    bool         `gorm:"column:flagged;not null;default:false"`
	Source     string       `gorm:"column:source;type:varchar(10);not null;default:self"`
	CreatedBy  *uuid.UUID   `gorm:"column:created_by;type:uuid"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	Employee   *EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Punch) TableName() string {
	return "punches"
}

type EmployeeRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	IsAdmin  bool      `gorm:"column:is_admin"`
}

func (EmployeeRef) TableName() string {
	return "employees"
}

// Range is a half-open [From, To) filter on punch time. Zero bounds are open.
type Range struct {
	From time.Time
	To   time.Time
}

func ValidType(t string) bool {
	return t == TypeIn || t == TypeOut
}
