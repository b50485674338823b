package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/gorm"
)

// MediableRepository manages polymorphic attachments between media
// rows and arbitrary owner entities. Operations are per-tuple; the
// composite primary key enforces uniqueness.
type MediableRepository interface {
	Attach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error
	Detach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error
	ListFor(ownerType string, ownerID uuid.UUID, group string) ([]*models.Media, error)
	GroupsFor(ownerType string, ownerID uuid.UUID) ([]string, error)
}

type MediableRepositoryImpl struct {
	db *gorm.DB
}

func NewMediableRepository(db *gorm.DB) MediableRepository {
	return &MediableRepositoryImpl{db: db}
}

// Attach inserts the join tuple. The media row must exist and not be
// soft-deleted; an existing identical tuple is ErrDuplicateAttachment.
func (r *MediableRepositoryImpl) Attach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var media models.Media
		if err := tx.First(&media, "id = ? AND deleted_at IS NULL", mediaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMediaNotFound
			}
			return err
		}
		m := models.Mediable{
			MediaID:      mediaID,
			MediableID:   ownerID,
			MediableType: ownerType,
			Group:        group,
		}
		if err := tx.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAttachment
			}
			return err
		}
		return nil
	}))
}

// Detach removes the tuple. Absence is success: callers detach
// speculatively during retries, so this is idempotent.
func (r *MediableRepositoryImpl) Detach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error {
	return translateError(r.db.
		Where(`media_id = ? AND mediable_id = ? AND mediable_type = ? AND "group" = ?`,
			mediaID, ownerID, ownerType, group).
		Delete(&models.Mediable{}).Error)
}

// ListFor returns the active media attached to an owner, optionally
// narrowed to one group, in stable display order.
func (r *MediableRepositoryImpl) ListFor(ownerType string, ownerID uuid.UUID, group string) ([]*models.Media, error) {
	q := r.db.Model(&models.Media{}).
		Joins("JOIN mediables ON mediables.media_id = media.id").
		Where("mediables.mediable_type = ? AND mediables.mediable_id = ?", ownerType, ownerID).
		Where("media.deleted_at IS NULL")
	if group != "" {
		q = q.Where(`mediables."group" = ?`, group)
	}
	var media []*models.Media
	err := q.Order("media.record_ordering ASC, media.record_left ASC").Find(&media).Error
	if err != nil {
		return nil, translateError(err)
	}
	return media, nil
}

// GroupsFor lists the distinct group labels with at least one active
// media attached for the owner.
func (r *MediableRepositoryImpl) GroupsFor(ownerType string, ownerID uuid.UUID) ([]string, error) {
	var groups []string
	err := r.db.Model(&models.Mediable{}).
		Distinct(`mediables."group"`).
		Joins("JOIN media ON media.id = mediables.media_id").
		Where("mediables.mediable_type = ? AND mediables.mediable_id = ?", ownerType, ownerID).
		Where("media.deleted_at IS NULL").
		Order(`mediables."group" ASC`).
		Pluck(`mediables."group"`, &groups).Error
	if err != nil {
		return nil, translateError(err)
	}
	return groups, nil
}
