package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/turahe/ocr-identity-rest-api/middleware"
	"github.com/turahe/ocr-identity-rest-api/service"
)

type MediaHandler struct {
	media service.MediaService
	audit *service.AuditRecorder
}

func NewMediaHandler(media service.MediaService, audit *service.AuditRecorder) *MediaHandler {
	return &MediaHandler{media: media, audit: audit}
}

// Upload accepts a multipart form: file plus optional parent_id,
// owner_type/owner_id/group for attachment, and run_ocr.
func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "missing file field")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, err)
		return
	}

	in := service.UploadInput{
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Data:     data,
		UserID:   userID,
		RunOCR:   c.PostForm("run_ocr") == "true",
	}
	if v := c.PostForm("parent_id"); v != "" {
		parentID, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid parent_id")
			return
		}
		in.ParentID = &parentID
	}
	if v := c.PostForm("owner_id"); v != "" {
		ownerID, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid owner_id")
			return
		}
		in.OwnerID = ownerID
		in.OwnerType = c.PostForm("owner_type")
		in.Group = c.PostForm("group")
		if in.OwnerType == "" || in.Group == "" {
			badRequest(c, "owner_type and group are required with owner_id")
			return
		}
	}

	res, err := h.media.Upload(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	h.audit.Record(&userID, "media.upload", "media", &res.Media.ID, gin.H{"file_name": res.Media.Name},
		c.ClientIP(), c.Request.UserAgent())

	body := gin.H{"media": res.Media}
	if res.Job != nil {
		body["ocr_job_id"] = res.Job.ID
	}
	c.JSON(http.StatusCreated, body)
}

func (h *MediaHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	media, link, err := h.media.Get(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media, "url": link})
}

func (h *MediaHandler) Subtree(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	nodes, err := h.media.Subtree(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": nodes, "count": len(nodes)})
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *MediaHandler) Rename(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	media, err := h.media.Rename(id, req.Name, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

type moveRequest struct {
	// Null parent makes the node a new root.
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

func (h *MediaHandler) Move(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.media.Move(id, req.NewParentID); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "media.move", "media", &id, req, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"message": "media moved"})
}

// Delete soft-deletes the subtree; ?purge=true removes it physically
// together with every attachment referencing it.
func (h *MediaHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	purge := c.Query("purge") == "true"
	if err := h.media.Delete(c.Request.Context(), id, userID, purge); err != nil {
		abortWithError(c, err)
		return
	}
	action := "media.soft_delete"
	if purge {
		action = "media.purge"
	}
	h.audit.Record(&userID, action, "media", &id, nil, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"message": "media deleted"})
}

type attachRequest struct {
	OwnerType string    `json:"owner_type" binding:"required"`
	OwnerID   uuid.UUID `json:"owner_id" binding:"required"`
	Group     string    `json:"group" binding:"required"`
}

func (h *MediaHandler) Attach(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.media.Attach(id, req.OwnerType, req.OwnerID, req.Group); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "media.attach", "media", &id, req, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusCreated, gin.H{"message": "media attached"})
}

func (h *MediaHandler) Detach(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid media id")
		return
	}
	var req attachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.media.Detach(id, req.OwnerType, req.OwnerID, req.Group); err != nil {
		abortWithError(c, err)
		return
	}
	h.audit.Record(&userID, "media.detach", "media", &id, req, c.ClientIP(), c.Request.UserAgent())
	c.JSON(http.StatusOK, gin.H{"message": "media detached"})
}

// ListForOwner returns the media attached to an owner, ?group=...
// narrows to one slot.
func (h *MediaHandler) ListForOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("owner_id"))
	if err != nil {
		badRequest(c, "invalid owner id")
		return
	}
	media, err := h.media.ListFor(c.Param("owner_type"), ownerID, c.Query("group"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media, "count": len(media)})
}

func (h *MediaHandler) GroupsForOwner(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("owner_id"))
	if err != nil {
		badRequest(c, "invalid owner id")
		return
	}
	groups, err := h.media.GroupsFor(c.Param("owner_type"), ownerID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}
