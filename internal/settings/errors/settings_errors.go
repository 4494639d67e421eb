package settingserrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrInvalidLatitude = apperror.New(
		apperror.CodeInvalidInput,
		"Latitude must be between -90 and 90",
		http.StatusBadRequest,
	)
	ErrInvalidLongitude = apperror.New(
		apperror.CodeInvalidInput,
		"Longitude must be between -180 and 180",
		http.StatusBadRequest,
	)
	ErrInvalidRadius = apperror.New(
		apperror.CodeInvalidInput,
		"Radius must be greater than zero",
		http.StatusBadRequest,
	)
	ErrCenterRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Latitude and longitude are required when geofencing is enabled",
		http.StatusBadRequest,
	)
)
