package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/daily-briefing/internal/domain/auth"
	apperrors "github.com/yanqian/daily-briefing/pkg/errors"
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
	apperrors.CodeInvalidInput:             http.StatusBadRequest,
	apperrors.CodeNotFound:                 http.StatusNotFound,
	apperrors.CodeInsufficientForecastData: http.StatusUnprocessableEntity,
	apperrors.CodeUpstream:                 http.StatusBadGateway,
	apperrors.CodeNetwork:                  http.StatusBadGateway,
	apperrors.CodeMissingCredential:        http.StatusServiceUnavailable,
	"invalid_transition":                   http.StatusConflict,
	"session_not_found":                    http.StatusNotFound,
	"profile_not_found":                    http.StatusNotFound,
	auth.CodeInvalidCredentials:            http.StatusUnauthorized,
	auth.CodeInvalidToken:                  http.StatusForbidden,
	auth.CodeEmailExists:                   http.StatusConflict,
	auth.CodeUserNotFound:                  http.StatusNotFound,
}

// fromDomainError maps an AppError code onto its HTTP status. Errors without
// a known code become a 500 carrying fallbackCode.
func fromDomainError(err error, fallbackCode string) *HTTPError {
	code := apperrors.Code(err)
	if status, ok := codeStatus[code]; ok {
		return NewHTTPError(status, code, errMessage(err), err)
	}
	return NewHTTPError(http.StatusInternalServerError, fallbackCode, errMessage(err), err)
}

func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "something went wrong",
		Err:     err,
	}
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
