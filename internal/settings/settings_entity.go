package settings

import "time"

// singletonID is the primary key of the only settings row.
const singletonID = 1

type CompanySettings struct {
	ID                   uint    `gorm:"primaryKey"`
	CompanyName          string  `gorm:"type:varchar(150);not null;default:''"`
	GeofenceEnabled      bool    `gorm:"not null;default:false"`
	GeofenceLatitude     float64 `gorm:"not null;default:0"`
	GeofenceLongitude    float64 `gorm:"not null;default:0"`
	GeofenceRadiusMeters float64 `gorm:"not null;default:100"`
	UpdatedAt            time.Time
}

func (CompanySettings) TableName() string {
	return "company_settings"
}
