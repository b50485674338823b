package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"gorm.io/gorm"
)

// MediaAttrs is what callers supply when creating a media node; the
// tree coordinates are computed here, never by the caller.
type MediaAttrs struct {
	Name            string
	Hash            string
	FileName        string
	Disk            string
	MimeType        string
	Size            int64
	CustomAttribute string
	CreatedBy       *uuid.UUID
}

// MediaRepository manages the nested-set media tree. Every mutation
// runs in a single transaction so readers observe either the old or
// the new tree, never an intermediate renumbering state.
type MediaRepository interface {
	Create(attrs MediaAttrs, parentID *uuid.UUID) (*models.Media, error)
	GetByID(id uuid.UUID) (*models.Media, error)
	Update(media *models.Media) error
	Move(nodeID uuid.UUID, newParentID *uuid.UUID) error
	Subtree(nodeID uuid.UUID) ([]*models.Media, error)
	SubtreeWithDeleted(nodeID uuid.UUID) ([]*models.Media, error)
	SoftDelete(nodeID uuid.UUID, by uuid.UUID) error
	Purge(nodeID uuid.UUID) error
	CountByFileName(fileName string) (int64, error)
}

type MediaRepositoryImpl struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &MediaRepositoryImpl{db: db}
}

// Create inserts a new leaf. With a parent, the classic nested-set
// insert applies: every boundary at or beyond parent.record_right
// shifts up by 2 to open a two-slot gap. Without a parent the node
// becomes a root appended after the highest existing boundary.
func (r *MediaRepositoryImpl) Create(attrs MediaAttrs, parentID *uuid.UUID) (*models.Media, error) {
	m := &models.Media{
		Name:            attrs.Name,
		Hash:            attrs.Hash,
		FileName:        attrs.FileName,
		Disk:            attrs.Disk,
		MimeType:        attrs.MimeType,
		Size:            attrs.Size,
		CustomAttribute: attrs.CustomAttribute,
	}
	m.CreatedBy = attrs.CreatedBy

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			var parent models.Media
			if err := tx.First(&parent, "id = ? AND deleted_at IS NULL", *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidParent
				}
				return err
			}

			// Soft-deleted nodes shift too: their ranges stay
			// reserved, so the whole numbering must move as one.
			if err := tx.Model(&models.Media{}).
				Where("record_right >= ?", parent.RecordRight).
				UpdateColumn("record_right", gorm.Expr("record_right + 2")).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Media{}).
				Where("record_left > ?", parent.RecordRight).
				UpdateColumn("record_left", gorm.Expr("record_left + 2")).Error; err != nil {
				return err
			}

			m.ParentID = &parent.ID
			m.RecordLeft = parent.RecordRight
			m.RecordRight = parent.RecordRight + 1
			m.RecordDept = parent.RecordDept + 1
		} else {
			var maxRight int64
			if err := tx.Model(&models.Media{}).
				Select("COALESCE(MAX(record_right), 0)").
				Scan(&maxRight).Error; err != nil {
				return err
			}
			m.RecordLeft = maxRight + 1
			m.RecordRight = maxRight + 2
			m.RecordDept = 0
		}

		ord, err := nextOrdering(tx, m.ParentID, uuid.Nil)
		if err != nil {
			return err
		}
		m.RecordOrdering = ord

		return tx.Create(m).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return m, nil
}

// GetByID returns an active node.
func (r *MediaRepositoryImpl) GetByID(id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.db.First(&m, "id = ? AND deleted_at IS NULL", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

// Update persists attribute changes (name, custom attribute, actors).
// Tree coordinates in the given struct are ignored on purpose: they
// are only ever written by Create/Move/Purge.
func (r *MediaRepositoryImpl) Update(media *models.Media) error {
	return translateError(r.db.Model(media).
		Select("name", "custom_attribute", "updated_by").
		Updates(media).Error)
}

// Move re-homes the subtree rooted at nodeID under newParentID (nil
// makes it a root). The subtree is parked in negative coordinate
// space, the gap it left is closed, a gap of the same width is opened
// at the destination, and the parked rows are shifted into it. The
// shift width always equals the subtree width, so no foreign range
// can be overlapped by construction.
func (r *MediaRepositoryImpl) Move(nodeID uuid.UUID, newParentID *uuid.UUID) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var node models.Media
		if err := tx.First(&node, "id = ? AND deleted_at IS NULL", nodeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if newParentID != nil {
			if *newParentID == node.ID {
				return ErrCycleDetected
			}
			var parent models.Media
			if err := tx.First(&parent, "id = ? AND deleted_at IS NULL", *newParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrInvalidParent
				}
				return err
			}
			if node.Contains(&parent) {
				return ErrCycleDetected
			}
		}

		width := node.RecordRight - node.RecordLeft + 1

		// Park the subtree out of the way.
		if err := tx.Model(&models.Media{}).
			Where("record_left >= ? AND record_right <= ?", node.RecordLeft, node.RecordRight).
			Updates(map[string]interface{}{
				"record_left":  gorm.Expr("-record_left"),
				"record_right": gorm.Expr("-record_right"),
			}).Error; err != nil {
			return err
		}

		// Close the gap it left behind.
		if err := tx.Model(&models.Media{}).
			Where("record_right > ?", node.RecordRight).
			UpdateColumn("record_right", gorm.Expr("record_right - ?", width)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Media{}).
			Where("record_left > ?", node.RecordRight).
			UpdateColumn("record_left", gorm.Expr("record_left - ?", width)).Error; err != nil {
			return err
		}

		// Find the insertion boundary. The destination parent must be
		// re-read: closing the gap may have shifted it.
		var pos, newDept int64
		if newParentID != nil {
			var parent models.Media
			if err := tx.First(&parent, "id = ?", *newParentID).Error; err != nil {
				return err
			}
			pos = parent.RecordRight
			newDept = parent.RecordDept + 1
		} else {
			var maxRight int64
			if err := tx.Model(&models.Media{}).
				Where("record_right > 0").
				Select("COALESCE(MAX(record_right), 0)").
				Scan(&maxRight).Error; err != nil {
				return err
			}
			pos = maxRight + 1
			newDept = 0
		}

		// Open a gap of the same width at the destination.
		if err := tx.Model(&models.Media{}).
			Where("record_right >= ?", pos).
			UpdateColumn("record_right", gorm.Expr("record_right + ?", width)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Media{}).
			Where("record_left >= ?", pos).
			UpdateColumn("record_left", gorm.Expr("record_left + ?", width)).Error; err != nil {
			return err
		}

		// Unpark: negate back and shift into the gap in one pass.
		offset := pos - node.RecordLeft
		depthDelta := newDept - node.RecordDept
		if err := tx.Model(&models.Media{}).
			Where("record_left < 0").
			Updates(map[string]interface{}{
				"record_left":  gorm.Expr("-record_left + ?", offset),
				"record_right": gorm.Expr("-record_right + ?", offset),
				"record_dept":  gorm.Expr("record_dept + ?", depthDelta),
			}).Error; err != nil {
			return err
		}

		// Keep sibling ordering dense at the old parent.
		if err := compactOrdering(tx, node.ParentID, node.RecordOrdering); err != nil {
			return err
		}

		ord, err := nextOrdering(tx, newParentID, node.ID)
		if err != nil {
			return err
		}
		return tx.Model(&models.Media{}).
			Where("id = ?", node.ID).
			Updates(map[string]interface{}{
				"parent_id":       newParentID,
				"record_ordering": ord,
			}).Error
	}))
}

// Subtree returns the node and all active descendants in pre-order
// (record_left ascending). Re-querying always reflects current state.
func (r *MediaRepositoryImpl) Subtree(nodeID uuid.UUID) ([]*models.Media, error) {
	var node models.Media
	if err := r.db.First(&node, "id = ? AND deleted_at IS NULL", nodeID).Error; err != nil {
		return nil, translateError(err)
	}
	var nodes []*models.Media
	err := r.db.
		Where("record_left >= ? AND record_right <= ? AND deleted_at IS NULL",
			node.RecordLeft, node.RecordRight).
		Order("record_left ASC").
		Find(&nodes).Error
	if err != nil {
		return nil, translateError(err)
	}
	return nodes, nil
}

// SubtreeWithDeleted returns the node and all descendants regardless
// of soft-delete state, in record_left order. Purge cleanup relies on
// it: soft-deleted rows still reference stored objects.
func (r *MediaRepositoryImpl) SubtreeWithDeleted(nodeID uuid.UUID) ([]*models.Media, error) {
	var node models.Media
	if err := r.db.First(&node, "id = ?", nodeID).Error; err != nil {
		return nil, translateError(err)
	}
	var nodes []*models.Media
	err := r.db.
		Where("record_left >= ? AND record_right <= ?", node.RecordLeft, node.RecordRight).
		Order("record_left ASC").
		Find(&nodes).Error
	if err != nil {
		return nil, translateError(err)
	}
	return nodes, nil
}

// CountByFileName counts the rows, deleted or not, that reference a
// stored object key. Objects are content-hash keyed, so several rows
// can share one key.
func (r *MediaRepositoryImpl) CountByFileName(fileName string) (int64, error) {
	var n int64
	err := r.db.Model(&models.Media{}).Where("file_name = ?", fileName).Count(&n).Error
	if err != nil {
		return 0, translateError(err)
	}
	return n, nil
}

// SoftDelete marks the node and its whole subtree deleted. Ranges are
// not renumbered: the hole stays reserved until an explicit Purge.
func (r *MediaRepositoryImpl) SoftDelete(nodeID uuid.UUID, by uuid.UUID) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var node models.Media
		if err := tx.First(&node, "id = ? AND deleted_at IS NULL", nodeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Model(&models.Media{}).
			Where("record_left >= ? AND record_right <= ? AND deleted_at IS NULL",
				node.RecordLeft, node.RecordRight).
			Updates(map[string]interface{}{
				"deleted_at": time.Now(),
				"deleted_by": by,
			}).Error
	}))
}

// Purge physically removes the node, its descendants (deleted or
// not), and every mediable row referencing them, then closes the
// numbering gap. Purging an absent id is a no-op.
func (r *MediaRepositoryImpl) Purge(nodeID uuid.UUID) error {
	return translateError(r.db.Transaction(func(tx *gorm.DB) error {
		var node models.Media
		if err := tx.First(&node, "id = ?", nodeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		width := node.RecordRight - node.RecordLeft + 1

		sub := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Media{}).
			Select("id").
			Where("record_left >= ? AND record_right <= ?", node.RecordLeft, node.RecordRight)
		if err := tx.Where("media_id IN (?)", sub).Delete(&models.Mediable{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("record_left >= ? AND record_right <= ?", node.RecordLeft, node.RecordRight).
			Delete(&models.Media{}).Error; err != nil {
			return err
		}

		// Close the gap so right-left stays tight.
		if err := tx.Model(&models.Media{}).
			Where("record_right > ?", node.RecordRight).
			UpdateColumn("record_right", gorm.Expr("record_right - ?", width)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Media{}).
			Where("record_left > ?", node.RecordRight).
			UpdateColumn("record_left", gorm.Expr("record_left - ?", width)).Error; err != nil {
			return err
		}

		return compactOrdering(tx, node.ParentID, node.RecordOrdering)
	}))
}

// nextOrdering computes a dense sibling ordering under parentID,
// ignoring exclude (the node being moved, if any). Like the left/right
// ranges, ordering binds all reserved siblings: soft-deleted rows keep
// their slot, so active orderings may have holes until a Move or Purge
// compacts them.
func nextOrdering(tx *gorm.DB, parentID *uuid.UUID, exclude uuid.UUID) (int64, error) {
	q := tx.Model(&models.Media{}).Select("COALESCE(MAX(record_ordering), 0)")
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var max int64
	if err := q.Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// compactOrdering closes the ordering gap left when a node departs
// its sibling group.
func compactOrdering(tx *gorm.DB, parentID *uuid.UUID, departedOrdering int64) error {
	q := tx.Model(&models.Media{}).Where("record_ordering > ?", departedOrdering)
	if parentID != nil {
		q = q.Where("parent_id = ?", *parentID)
	} else {
		q = q.Where("parent_id IS NULL")
	}
	return q.UpdateColumn("record_ordering", gorm.Expr("record_ordering - 1")).Error
}
