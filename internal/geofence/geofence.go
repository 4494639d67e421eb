// Package geofence decides whether a punch location lies inside the
// company's configured circle.
package geofence

import "math"

// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
const EarthRadiusMeters = 6371000.0

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

type Config struct {
	Enabled      bool
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Distance returns the great-circle distance in meters.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

func IsWithinGeofence(currentLat, currentLon, centerLat, centerLon, radiusMeters float64) bool {
	return Distance(currentLat, currentLon, centerLat, centerLon) <= radiusMeters
}

// ShouldFlag applies the punch flagging policy: with geofencing enabled a
// missing location or a location outside the radius flags the punch. It never
// rejects.
func ShouldFlag(cfg Config, loc *Coordinates) bool {
	if !cfg.Enabled {
		return false
	}
	if loc == nil {
		return true
	}
	return !IsWithinGeofence(loc.Latitude, loc.Longitude, cfg.Latitude, cfg.Longitude, cfg.RadiusMeters)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
