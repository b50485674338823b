package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
)

var ErrInvalidDocumentStatus = errors.New("invalid document status")

type DocumentService interface {
	Verify(id uuid.UUID, status, notes string) error
}

type DocumentServiceImpl struct {
	docs repository.IdentityDocumentRepository
}

func NewDocumentService(docs repository.IdentityDocumentRepository) DocumentService {
	return &DocumentServiceImpl{docs: docs}
}

func (s *DocumentServiceImpl) Verify(id uuid.UUID, status, notes string) error {
	switch status {
	case models.DocumentStatusPending, models.DocumentStatusVerified, models.DocumentStatusRejected:
	default:
		return ErrInvalidDocumentStatus
	}
	if _, err := s.docs.GetByID(id); err != nil {
		return err
	}
	return s.docs.UpdateStatus(id, status, notes)
}
