package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Document types recognized by the extraction rules.
const (
	DocumentTypeIDCard        = "id_card"
	DocumentTypePassport      = "passport"
	DocumentTypeDriverLicense = "driver_license"
)

// Verification states of an identity document.
const (
	DocumentStatusPending  = "pending"
	DocumentStatusVerified = "verified"
	DocumentStatusRejected = "rejected"
)

type IdentityDocument struct {
	Base
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	DocumentType      string         `gorm:"size:100;not null" json:"document_type"`
	DocumentNumber    string         `gorm:"size:255;index" json:"document_number,omitempty"`
	IssuingCountry    string         `gorm:"size:100" json:"issuing_country,omitempty"`
	IssueDate         *time.Time     `json:"issue_date,omitempty"`
	ExpiryDate        *time.Time     `json:"expiry_date,omitempty"`
	ExtractedData     datatypes.JSON `gorm:"type:jsonb" json:"extracted_data,omitempty"`
	S3Key             string         `gorm:"size:500" json:"s3_key,omitempty"`
	Status            string         `gorm:"size:50;not null;default:'pending';index" json:"status"`
	VerificationNotes string         `gorm:"type:text" json:"verification_notes,omitempty"`
}

func (IdentityDocument) TableName() string {
	return "identity_documents"
}
