package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhishekpnaik05/vigitrack/internal/flow"
	"github.com/abhishekpnaik05/vigitrack/internal/genai"
	"github.com/abhishekpnaik05/vigitrack/internal/middleware"
	"github.com/abhishekpnaik05/vigitrack/internal/repository"
	"github.com/abhishekpnaik05/vigitrack/internal/service"
)

// statusOf maps a service error to an HTTP status. fallback is used for
// errors with no sentinel.
func statusOf(err error, fallback int) int {
	switch {
	case errors.Is(err, flow.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidCoordinate),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, service.ErrInvalidSheet):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrFirmwareExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotEnoughData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, genai.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, flow.ErrInvalidOutput),
		errors.Is(err, flow.ErrNoOutput),
		errors.Is(err, flow.ErrGeneration):
		return http.StatusBadGateway
	}
	return fallback
}

var serverMessages = map[int]string{
	http.StatusInternalServerError: "internal server error",
	http.StatusBadGateway:          "the assistant could not produce a valid answer",
	http.StatusServiceUnavailable:  "the assistant is not configured",
}

// respondError writes {"error": ...}. Client errors carry the error text,
// server errors a generic message; the cause is attached to the context for
// the request logger.
func respondError(c *gin.Context, err error) {
	status := statusOf(err, http.StatusInternalServerError)
	_ = c.Error(err)

	msg := err.Error()
	switch {
	case status == http.StatusNotFound:
		msg = "not found"
	case status >= http.StatusInternalServerError:
		msg = serverMessages[status]
		if msg == "" {
			msg = http.StatusText(status)
		}
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// currentUser returns the authenticated user. The JWT middleware guarantees
// it on protected routes.
func currentUser(c *gin.Context) uint {
	id, _ := middleware.UserID(c)
	return id
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
