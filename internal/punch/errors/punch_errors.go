package puncherrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrDuplicatePunch = apperror.New(
		apperror.CodeDuplicatePunch,
		"Please wait before punching again",
		http.StatusTooManyRequests,
	)
	ErrPunchNotFound = apperror.New(
		apperror.CodeNotFound,
		"Punch not found",
		http.StatusNotFound,
	)
	ErrInvalidPunchID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid punch ID",
		http.StatusBadRequest,
	)
	ErrInvalidPunchType = apperror.New(
		apperror.CodeInvalidInput,
		"Punch type must be in or out",
		http.StatusBadRequest,
	)
	ErrIncompleteLocation = apperror.New(
		apperror.CodeInvalidInput,
		"Latitude and longitude must be sent together",
		http.StatusBadRequest,
	)
	ErrTimestampRequired = apperror.New(
		apperror.CodeInvalidInput,
		"timestamp is required",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be formatted as YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be before to",
		http.StatusBadRequest,
	)
)
