package employeeerrors

import (
	"net/http"

	"go-timeclock/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeNotFound,
		"Employee is not active",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrPINAlreadyInUse = apperror.New(
		apperror.CodeConflict,
		"PIN is already used by another active employee",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidPIN = apperror.New(
		apperror.CodeInvalidInput,
		"PIN must be 4 to 8 digits",
		http.StatusBadRequest,
	)
	ErrFullNameRequired = apperror.New(
		apperror.CodeInvalidInput,
		"full_name is required",
		http.StatusBadRequest,
	)
	ErrPINRequired = apperror.New(
		apperror.CodeInvalidInput,
		"A new PIN is required to reactivate an employee",
		http.StatusBadRequest,
	)
)
