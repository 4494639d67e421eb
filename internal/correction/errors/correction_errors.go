package correctionerrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrCorrectionNotFound = apperror.New(
		apperror.CodeNotFound,
		"correction not found",
		http.StatusNotFound,
	)
	ErrInvalidCorrectionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid correction id",
		http.StatusBadRequest,
	)
	ErrNoteRequired = apperror.New(
		apperror.CodeInvalidInput,
		"note is required",
		http.StatusBadRequest,
	)
	ErrDateRequired = apperror.New(
		apperror.CodeInvalidInput,
		"date is required when no punch is referenced",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be approved or denied",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"status filter must be pending, approved or denied",
		http.StatusBadRequest,
	)
	ErrPunchNotOwned = apperror.New(
		apperror.CodeInvalidInput,
		"punch does not belong to this employee",
		http.StatusBadRequest,
	)
	ErrDenialNoteRequired = apperror.New(
		apperror.CodeConflict,
		"a note is required to deny a correction",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeConflict,
		"correction has already been decided",
		http.StatusConflict,
	)
)
