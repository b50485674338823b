package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/turahe/ocr-identity-rest-api/middleware"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

type AuditHandler struct {
	logs repository.AuditLogRepository
}

func NewAuditHandler(logs repository.AuditLogRepository) *AuditHandler {
	return &AuditHandler{logs: logs}
}

// List returns the caller's own audit trail, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := h.logs.GetByUserID(userID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
