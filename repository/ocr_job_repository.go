package repository

import (
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OCRJobRepository interface {
	BaseRepository[models.OCRJob]
	GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.OCRJob, error)
	MarkProcessing(id uuid.UUID) error
	MarkCompleted(id uuid.UUID, output datatypes.JSON, documentID *uuid.UUID, elapsedMs int64) error
	MarkFailed(id uuid.UUID, errMsg string, elapsedMs int64) error
}

type OCRJobRepositoryImpl struct {
	*BaseRepositoryImpl[models.OCRJob]
}

func NewOCRJobRepository(db *gorm.DB) OCRJobRepository {
	return &OCRJobRepositoryImpl{
		BaseRepositoryImpl: NewBaseRepository[models.OCRJob](db),
	}
}

func (r *OCRJobRepositoryImpl) GetByUserID(userID uuid.UUID, limit, offset int) ([]*models.OCRJob, error) {
	var jobs []*models.OCRJob
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error
	if err != nil {
		return nil, translateError(err)
	}
	return jobs, nil
}

func (r *OCRJobRepositoryImpl) MarkProcessing(id uuid.UUID) error {
	return translateError(r.db.Model(&models.OCRJob{}).
		Where("id = ?", id).
		Update("job_status", models.OCRJobStatusProcessing).Error)
}

func (r *OCRJobRepositoryImpl) MarkCompleted(id uuid.UUID, output datatypes.JSON, documentID *uuid.UUID, elapsedMs int64) error {
	return translateError(r.db.Model(&models.OCRJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"job_status":         models.OCRJobStatusCompleted,
			"output_data":        output,
			"document_id":        documentID,
			"processing_time_ms": elapsedMs,
		}).Error)
}

func (r *OCRJobRepositoryImpl) MarkFailed(id uuid.UUID, errMsg string, elapsedMs int64) error {
	return translateError(r.db.Model(&models.OCRJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"job_status":         models.OCRJobStatusFailed,
			"error_message":      errMsg,
			"processing_time_ms": elapsedMs,
		}).Error)
}
