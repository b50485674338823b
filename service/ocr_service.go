package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/pkg/metrics"
	"github.com/turahe/ocr-identity-rest-api/queue"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

// ObjectDownloader is the slice of storage the worker needs.
type ObjectDownloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// OCRService runs one extraction job end to end: fetch bytes, OCR,
// rule-based field extraction, persist results.
type OCRService struct {
	jobs      repository.OCRJobRepository
	docs      repository.IdentityDocumentRepository
	store     ObjectDownloader
	engine    Engine
	extractor *Extractor
	log       *logrus.Logger
}

func NewOCRService(
	jobs repository.OCRJobRepository,
	docs repository.IdentityDocumentRepository,
	store ObjectDownloader,
	engine Engine,
	log *logrus.Logger,
) *OCRService {
	return &OCRService{
		jobs:      jobs,
		docs:      docs,
		store:     store,
		engine:    engine,
		extractor: NewExtractor(),
		log:       log,
	}
}

// jobOutput is what lands in ocr_jobs.output_data.
type jobOutput struct {
	ExtractedText string            `json:"extracted_text"`
	Fields        ExtractedIdentity `json:"fields"`
}

// Process handles one queued job. Failures are recorded on the job
// row and returned so the consumer can decide about the offset.
func (s *OCRService) Process(ctx context.Context, msg queue.OCRJobMessage) error {
	jobID, err := uuid.Parse(msg.TaskID)
	if err != nil {
		return fmt.Errorf("invalid task_id %q: %w", msg.TaskID, err)
	}
	userID, err := uuid.Parse(msg.UserID)
	if err != nil {
		return fmt.Errorf("invalid user_id %q: %w", msg.UserID, err)
	}

	start := time.Now()
	if err := s.jobs.MarkProcessing(jobID); err != nil {
		return err
	}

	data, err := s.store.Download(ctx, msg.ObjectKey)
	if err != nil {
		return s.fail(jobID, start, fmt.Errorf("download %s: %w", msg.ObjectKey, err))
	}

	text, err := s.engine.Recognize(ctx, data)
	if err != nil {
		return s.fail(jobID, start, fmt.Errorf("recognize: %w", err))
	}

	fields := s.extractor.Extract(text)
	output, err := json.Marshal(jobOutput{ExtractedText: text, Fields: fields})
	if err != nil {
		return s.fail(jobID, start, err)
	}

	doc := &models.IdentityDocument{
		UserID:         userID,
		DocumentType:   fields.DocumentType,
		DocumentNumber: fields.NIK,
		ExtractedData:  output,
		S3Key:          msg.ObjectKey,
		Status:         models.DocumentStatusPending,
	}
	if doc.DocumentType == "" {
		doc.DocumentType = models.DocumentTypeIDCard
	}
	if err := s.docs.Create(doc); err != nil {
		return s.fail(jobID, start, err)
	}

	elapsed := time.Since(start).Milliseconds()
	if err := s.jobs.MarkCompleted(jobID, output, &doc.ID, elapsed); err != nil {
		return err
	}
	metrics.OCRJobsProcessed.WithLabelValues(models.OCRJobStatusCompleted).Inc()
	s.log.WithFields(logrus.Fields{
		"job_id":      jobID,
		"document_id": doc.ID,
		"elapsed_ms":  elapsed,
	}).Info("OCR job completed")
	return nil
}

func (s *OCRService) fail(jobID uuid.UUID, start time.Time, cause error) error {
	metrics.OCRJobsProcessed.WithLabelValues(models.OCRJobStatusFailed).Inc()
	s.log.WithError(cause).WithField("job_id", jobID).Error("OCR job failed")
	if err := s.jobs.MarkFailed(jobID, cause.Error(), time.Since(start).Milliseconds()); err != nil {
		return err
	}
	return cause
}
