package settings

type GeofenceResponse struct {
	Enabled      bool    `json:"enabled"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

type SettingsResponse struct {
	CompanyName string           `json:"company_name"`
	Geofence    GeofenceResponse `json:"geofence"`
}

type UpdateGeofenceRequest struct {
	Enabled      bool     `json:"enabled"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	RadiusMeters *float64 `json:"radius_meters" binding:"omitempty,gt=0"`
}

type UpdateSettingsRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=150"`
}
