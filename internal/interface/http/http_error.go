package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/surf-forecast/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

var codeStatus = map[string]int{
	apperrors.CodeInvalidArgument:  http.StatusBadRequest,
	apperrors.CodeLocationNotFound: http.StatusNotFound,
	apperrors.CodeDataUnavailable:  http.StatusServiceUnavailable,
	apperrors.CodeLocationError:    http.StatusServiceUnavailable,
}

// asHTTPError resolves the response for err. Application errors keep their
// code and message; anything else is an opaque 500.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status, ok := codeStatus[appErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		return NewHTTPError(status, appErr.Code, appErr.Message, err)
	}
	return NewHTTPError(http.StatusInternalServerError, apperrors.CodeInternal, "something went wrong", err)
}

func abortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
