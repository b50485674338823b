package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/middleware"
	"github.com/turahe/ocr-identity-rest-api/models"
	"github.com/turahe/ocr-identity-rest-api/repository"
	"github.com/turahe/ocr-identity-rest-api/service"
)

type OCRHandler struct {
	jobs repository.OCRJobRepository
	docs repository.IdentityDocumentRepository
	doc  service.DocumentService
}

func NewOCRHandler(jobs repository.OCRJobRepository, docs repository.IdentityDocumentRepository, doc service.DocumentService) *OCRHandler {
	return &OCRHandler{jobs: jobs, docs: docs, doc: doc}
}

// GetJob is how clients poll an upload-triggered extraction.
func (h *OCRHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid job id")
		return
	}
	job, err := h.jobs.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (h *OCRHandler) ListJobs(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	jobs, err := h.jobs.GetByUserID(userID, limit, offset)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

func (h *OCRHandler) GetDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid document id")
		return
	}
	doc, err := h.docs.GetByID(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *OCRHandler) ListDocuments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var (
		docs []*models.IdentityDocument
		err  error
	)
	if status := c.Query("status"); status != "" {
		docs, err = h.docs.GetByStatus(status, limit, offset)
	} else {
		docs, err = h.docs.GetByUserID(userID, limit, offset)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

type verifyRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// VerifyDocument moves a document through the manual review states.
func (h *OCRHandler) VerifyDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid document id")
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.doc.Verify(id, req.Status, req.Notes); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document updated"})
}
