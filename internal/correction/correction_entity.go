package correction

import (
	"time"

	"go-timeclock/internal/punch"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// Correction asks an admin to fix a punch. Approval records the decision
// only; the ledger is edited separately.
type Correction struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID  `gorm:"type:uuid;not null;index:idx_corrections_employee"`
	PunchID    *uuid.UUID `gorm:"type:uuid"`
	Date       time.Time  `gorm:"type:date;not null"`
	Note       string     `gorm:"type:text;not null"`
	Status     string     `gorm:"type:varchar(10);not null;default:pending;index:idx_corrections_status"`
	AdminNote  *string    `gorm:"type:text"`
	DecidedBy  *uuid.UUID `gorm:"type:uuid"`
	DecidedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Employee *punch.EmployeeRef `gorm:"foreignKey:EmployeeID;references:ID"`
}

func (Correction) TableName() string {
	return "corrections"
}

// canMoveTo reports whether a decision may move a correction from current to
// target. Denied corrections may be denied again to replace the admin note.
func canMoveTo(current, target string) bool {
	switch current {
	case StatusPending:
		return target == StatusApproved || target == StatusDenied
	case StatusDenied:
		return target == StatusDenied
	default:
		return false
	}
}
