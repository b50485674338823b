package repository

import (
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/gorm"
)

type IdentityDocumentRepository interface {
	BaseRepository[models.IdentityDocument]
	GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.IdentityDocument, error)
	GetByStatus(status string, limit, offset int) ([]*models.IdentityDocument, error)
	UpdateStatus(id uuid.UUID, status, notes string) error
}

type IdentityDocumentRepositoryImpl struct {
	*BaseRepositoryImpl[models.IdentityDocument]
}

func NewIdentityDocumentRepository(db *gorm.DB) IdentityDocumentRepository {
	return &IdentityDocumentRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.IdentityDocument](db),
	}
}

func (r *IdentityDocumentRepositoryImpl) GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.IdentityDocument, error) {
	var docs []*models.IdentityDocument
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return docs, nil
}

func (r *IdentityDocumentRepositoryImpl) GetByStatus(status string, limit, offset int) ([]*models.IdentityDocument, error) {
	var docs []*models.IdentityDocument
	err := r.db.Where("status = ?", status).
		Limit(limit).Offset(offset).
		Find(&docs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return docs, nil
}

func (r *IdentityDocumentRepositoryImpl) UpdateStatus(id uuid.UUID, status, notes string) error {
	return translateError(r.db.Model(&models.IdentityDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             status,
			"verification_notes": notes,
		}).Error)
}
