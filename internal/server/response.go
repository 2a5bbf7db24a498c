package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/holerite-dev/holerite/internal/money"
	"github.com/holerite-dev/holerite/internal/payslip"
)

// APIResponse is the envelope for every API response.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapError translates pipeline errors to HTTP status codes and error codes.
// Client errors carry the error text so callers can see which field failed.
func MapError(err error) (status int, code, msg string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "request body too large"
	case errors.Is(err, money.ErrUnknownLocale):
		return http.StatusBadRequest, "UNKNOWN_LOCALE", err.Error()
	case errors.Is(err, ErrInvalidOptions):
		return http.StatusBadRequest, "INVALID_OPTIONS", err.Error()
	case errors.Is(err, payslip.ErrIncompleteDocument):
		return http.StatusUnprocessableEntity, "INCOMPLETE_DOCUMENT", err.Error()
	case errors.Is(err, payslip.ErrMalformedAmount):
		return http.StatusUnprocessableEntity, "MALFORMED_AMOUNT", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps err and writes it, logging server-side failures.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapError(err)
	if status >= http.StatusInternalServerError {
		requestID, _ := c.Get(requestIDKey)
		log.Printf("[%v] %s %s: %v", requestID, c.Request.Method, c.Request.URL.Path, err)
	}
	RespondError(c, status, code, msg)
}

func respondBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		HandleError(c, err)
		return
	}
	RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
}
