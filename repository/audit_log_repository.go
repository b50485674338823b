package repository

import (
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(entry *models.AuditLog) error
	GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

type AuditLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &AuditLogRepositoryImpl{db: db}
}

func (r *AuditLogRepositoryImpl) Create(entry *models.AuditLog) error {
	return translateError(r.db.Create(entry).Error)
}

func (r *AuditLogRepositoryImpl) GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return logs, nil
}
