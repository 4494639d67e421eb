package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		resp := HTTPError{Status: status, Code: appErr.Code, Message: appErr.Message}
		// driver errors are not echoed back to the client
		if appErr.Err != nil && status < http.StatusInternalServerError {
			resp.Details = appErr.Err.Error()
		}
		return resp
	}
	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
