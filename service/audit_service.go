package service

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

// AuditRecorder appends audit_log rows. Recording is best-effort: a
// failed audit write never fails the request that triggered it.
type AuditRecorder struct {
	repo repository.AuditLogRepository
	log  *logrus.Logger
}

func NewAuditRecorder(repo repository.AuditLogRepository, log *logrus.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

func (a *AuditRecorder) Record(userID *uuid.UUID, action, resourceType string, resourceID *uuid.UUID, details interface{}, ip, userAgent string) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = raw
		}
	}
	if err := a.repo.Create(entry); err != nil {
		a.log.WithError(err).WithField("action", action).Warn("failed to write audit log")
	}
}
