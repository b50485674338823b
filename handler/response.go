package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"github.com/turahe/ocr-identity-rest-api/service"
)

// abortWithError maps domain errors to HTTP statuses. Unknown errors
// become 500 without leaking internals.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrMediaNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidParent),
		errors.Is(err, repository.ErrCycleDetected):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrDuplicateAttachment),
		errors.Is(err, repository.ErrConcurrentModification):
		status = http.StatusConflict
	case errors.Is(err, service.ErrFileTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrUnsupportedMimeType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidDocumentStatus):
		status = http.StatusBadRequest
	default:
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
