package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OCR job states.
const (
	OCRJobStatusPending    = "pending"
	OCRJobStatusProcessing = "processing"
	OCRJobStatusCompleted  = "completed"
	OCRJobStatusFailed     = "failed"
)

// OCRJob tracks one background extraction run over a media item.
type OCRJob struct {
	Base
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	MediaID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"media_id"`
	DocumentID       *uuid.UUID     `gorm:"type:uuid;index" json:"document_id,omitempty"`
	JobStatus        string         `gorm:"size:50;not null;default:'pending';index" json:"job_status"`
	InputFilePath    string         `gorm:"size:500" json:"input_file_path,omitempty"`
	OutputData       datatypes.JSON `gorm:"type:jsonb" json:"output_data,omitempty"`
	ErrorMessage     string         `gorm:"type:text" json:"error_message,omitempty"`
	ProcessingTimeMs int64          `json:"processing_time_ms,omitempty"`
}

func (OCRJob) TableName() string {
	return "ocr_jobs"
}
