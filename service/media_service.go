package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/pkg/metrics"
	"github.com/turahe/ocr-identity-rest-api/queue"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

// Upload validation failures.
var (
	ErrFileTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedMimeType = errors.New("unsupported file type")
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// BlobStore is the slice of object storage the media pipeline needs.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// JobEnqueuer publishes OCR jobs for the background worker.
type JobEnqueuer interface {
	EnqueueOCRJob(ctx context.Context, msg queue.OCRJobMessage) error
}

type UploadInput struct {
	FileName string
	MimeType string
	Data     []byte
	UserID   uuid.UUID

	// Optional tree position and attachment.
	ParentID  *uuid.UUID
	OwnerType string
	OwnerID   uuid.UUID
	Group     string

	RunOCR bool
}

type UploadResult struct {
	Media *models.Media
	Job   *models.OCRJob
}

type MediaService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Media, string, error)
	Rename(id uuid.UUID, name string, by uuid.UUID) (*models.Media, error)
	Subtree(id uuid.UUID) ([]*models.Media, error)
	Move(id uuid.UUID, newParentID *uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, by uuid.UUID, purge bool) error
	Attach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error
	Detach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error
	ListFor(ownerType string, ownerID uuid.UUID, group string) ([]*models.Media, error)
	GroupsFor(ownerType string, ownerID uuid.UUID) ([]string, error)
}

type MediaServiceImpl struct {
	media         repository.MediaRepository
	mediables     repository.MediableRepository
	jobs          repository.OCRJobRepository
	store         BlobStore
	enqueuer      JobEnqueuer
	log           *logrus.Logger
	maxSize       int64
	presignExpiry time.Duration
}

func NewMediaService(
	media repository.MediaRepository,
	mediables repository.MediableRepository,
	jobs repository.OCRJobRepository,
	store BlobStore,
	enqueuer JobEnqueuer,
	log *logrus.Logger,
	maxSize int64,
	presignExpiry time.Duration,
) MediaService {
	return &MediaServiceImpl{
		media:         media,
		mediables:     mediables,
		jobs:          jobs,
		store:         store,
		enqueuer:      enqueuer,
		log:           log,
		maxSize:       maxSize,
		presignExpiry: presignExpiry,
	}
}

// Upload stores the bytes first, then records the media row; a row
// never references an object that was not durably written.
func (s *MediaServiceImpl) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if int64(len(in.Data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}
	if !allowedMimeTypes[in.MimeType] {
		return nil, ErrUnsupportedMimeType
	}

	sum := sha256.Sum256(in.Data)
	hash := hex.EncodeToString(sum[:])
	key := fmt.Sprintf("uploads/%s%s", hash, filepath.Ext(in.FileName))

	if err := s.store.Upload(ctx, key, in.MimeType, in.Data); err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(models.DiskS3, "error").Inc()
		return nil, fmt.Errorf("failed to upload object: %w", err)
	}

	media, err := s.media.Create(repository.MediaAttrs{
		Name:      in.FileName,
		Hash:      hash,
		FileName:  key,
		Disk:      models.DiskS3,
		MimeType:  in.MimeType,
		Size:      int64(len(in.Data)),
		CreatedBy: &in.UserID,
	}, in.ParentID)
	if err != nil {
		metrics.MediaUploadsTotal.WithLabelValues(models.DiskS3, "error").Inc()
		return nil, err
	}
	metrics.MediaUploadsTotal.WithLabelValues(models.DiskS3, "ok").Inc()

	if in.OwnerType != "" {
		if err := s.mediables.Attach(media.ID, in.OwnerType, in.OwnerID, in.Group); err != nil {
			return nil, err
		}
	}

	res := &UploadResult{Media: media}
	if in.RunOCR {
		job := &models.OCRJob{
			UserID:        in.UserID,
			MediaID:       media.ID,
			JobStatus:     models.OCRJobStatusPending,
			InputFilePath: key,
		}
		if err := s.jobs.Create(job); err != nil {
			return nil, err
		}
		if err := s.enqueuer.EnqueueOCRJob(ctx, queue.OCRJobMessage{
			TaskID:    job.ID.String(),
			MediaID:   media.ID.String(),
			UserID:    in.UserID.String(),
			ObjectKey: key,
			MimeType:  in.MimeType,
		}); err != nil {
			// The job row stays pending; a requeue sweep or manual
			// retry can pick it up.
			s.log.WithError(err).WithField("job_id", job.ID).Error("failed to enqueue OCR job")
		}
		res.Job = job
	}
	return res, nil
}

func (s *MediaServiceImpl) Get(ctx context.Context, id uuid.UUID) (*models.Media, string, error) {
	media, err := s.media.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	var link string
	if media.Disk == models.DiskS3 {
		link, err = s.store.PresignedGetURL(ctx, media.FileName, s.presignExpiry)
		if err != nil {
			s.log.WithError(err).WithField("media_id", id).Warn("failed to presign media URL")
			link = ""
		}
	}
	return media, link, nil
}

func (s *MediaServiceImpl) Rename(id uuid.UUID, name string, by uuid.UUID) (*models.Media, error) {
	media, err := s.media.GetByID(id)
	if err != nil {
		return nil, err
	}
	media.Name = name
	media.UpdatedBy = &by
	if err := s.media.Update(media); err != nil {
		return nil, err
	}
	return media, nil
}

func (s *MediaServiceImpl) Subtree(id uuid.UUID) ([]*models.Media, error) {
	return s.media.Subtree(id)
}

func (s *MediaServiceImpl) Move(id uuid.UUID, newParentID *uuid.UUID) error {
	return s.media.Move(id, newParentID)
}

// Delete soft-deletes by default. With purge the subtree rows go away
// for good, and stored objects are removed best-effort afterwards:
// the database stays the source of truth even if object cleanup fails.
func (s *MediaServiceImpl) Delete(ctx context.Context, id uuid.UUID, by uuid.UUID, purge bool) error {
	if !purge {
		return s.media.SoftDelete(id, by)
	}

	// Keys come from the deleted-inclusive subtree: soft-deleted rows
	// go away in the purge too, and their objects with them.
	var keys []string
	if nodes, err := s.media.SubtreeWithDeleted(id); err == nil {
		seen := make(map[string]bool)
		for _, n := range nodes {
			if n.Disk == models.DiskS3 && !seen[n.FileName] {
				seen[n.FileName] = true
				keys = append(keys, n.FileName)
			}
		}
	}
	if err := s.media.Purge(id); err != nil {
		return err
	}
	for _, key := range keys {
		// Objects are content-hash keyed; a row outside the purged
		// subtree may still reference this key.
		refs, err := s.media.CountByFileName(key)
		if err != nil {
			s.log.WithError(err).WithField("key", key).Warn("skipping object cleanup, reference check failed")
			continue
		}
		if refs > 0 {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("failed to delete purged object")
		}
	}
	return nil
}

func (s *MediaServiceImpl) Attach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error {
	return s.mediables.Attach(mediaID, ownerType, ownerID, group)
}

func (s *MediaServiceImpl) Detach(mediaID uuid.UUID, ownerType string, ownerID uuid.UUID, group string) error {
	return s.mediables.Detach(mediaID, ownerType, ownerID, group)
}

func (s *MediaServiceImpl) ListFor(ownerType string, ownerID uuid.UUID, group string) ([]*models.Media, error) {
	return s.mediables.ListFor(ownerType, ownerID, group)
}

func (s *MediaServiceImpl) GroupsFor(ownerType string, ownerID uuid.UUID) ([]string, error) {
	return s.mediables.GroupsFor(ownerType, ownerID)
}
