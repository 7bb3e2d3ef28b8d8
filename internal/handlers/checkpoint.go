package handlers

import (
	"errors"
	"net/http"

	dom "github.com/meena20221515-star/CHECKPOINT-MASTER/internal/domain"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/dto"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/service"
	"github.com/meena20221515-star/CHECKPOINT-MASTER/internal/upload"

	"github.com/gin-gonic/gin"
)

// CheckpointHandler handles the checkpoint CRUD and file endpoints.
type CheckpointHandler struct {
	svc     *service.CheckpointService
	uploads *upload.Pipeline
}

// NewCheckpointHandler returns a new CheckpointHandler.
func NewCheckpointHandler(svc *service.CheckpointService, uploads *upload.Pipeline) *CheckpointHandler {
	return &CheckpointHandler{svc: svc, uploads: uploads}
}

// List godoc
// @Summary      List all checkpoints
// @Tags         checkpoints
// @Produce      json
// @Success      200  {array}   dto.CheckpointResponse
// @Failure      500  {object}  map[string]string
// @Router       /checkpoints [get]
func (h *CheckpointHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch checkpoints"})
		return
	}
	c.JSON(http.StatusOK, checkpointsToResponses(list))
}

// Create godoc
// @Summary      Create a checkpoint with its files
// @Tags         checkpoints
// @Accept       multipart/form-data
// @Produce      json
// @Param        name   formData  string  true   "Checkpoint name"
// @Param        todos  formData  string  true   "JSON-encoded array of todos, or a single todo"
// @Param        date   formData  string  true   "Effective date (YYYY-MM-DD or RFC3339)"
// @Param        files  formData  file    false  "Attached files (repeatable, max 10 MiB each)"
// @Success      201   {object}  dto.CheckpointResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /checkpoints [post]
func (h *CheckpointHandler) Create(c *gin.Context) {
	name := c.PostForm("name")
	todosRaw := c.PostForm("todos")
	dateRaw := c.PostForm("date")
	if name == "" || todosRaw == "" || dateRaw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, todos and date are required"})
		return
	}
	date, err := dto.ParseDate(dateRaw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	todos := dto.ParseTodos(todosRaw)

	var atts []dom.Attachment
	if form, err := c.MultipartForm(); err == nil && form != nil {
		atts, err = h.uploads.Process(c.Request.Context(), form.File["files"])
		if err != nil {
			if errors.Is(err, upload.ErrFileTooLarge) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
			return
		}
	}

	cp, err := h.svc.Create(c.Request.Context(), name, todos, date, atts)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkpoint"})
		return
	}
	c.JSON(http.StatusCreated, checkpointToResponse(cp))
}

// Update godoc
// @Summary      Replace a checkpoint's mutable fields
// @Description  Whole-document replacement of name, todos, date and files.
// @Description  Attachments dropped from files keep their blobs; use
// @Description  delete-file to remove the bytes.
// @Tags         checkpoints
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Checkpoint ID"
// @Param        body  body      dto.UpdateCheckpointRequest  true  "Replacement fields"
// @Success      200   {object}  dto.CheckpointResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /checkpoints/{id} [put]
func (h *CheckpointHandler) Update(c *gin.Context) {
	req, err := dto.DecodeUpdate(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.Name, req.Todos, req.Date.Time(), payloadsToAttachments(req.Files))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "checkpoint not found"})
			return
		}
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update checkpoint"})
		return
	}
	c.JSON(http.StatusOK, checkpointToResponse(cp))
}

// Delete godoc
// @Summary      Delete a checkpoint and its files
// @Tags         checkpoints
// @Produce      json
// @Param        id   path      string  true  "Checkpoint ID"
// @Success      200  {object}  dto.DeleteCheckpointResponse
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /checkpoints/{id} [delete]
func (h *CheckpointHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "checkpoint not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete checkpoint"})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteCheckpointResponse{Message: "checkpoint deleted successfully"})
}

// UploadOne godoc
// @Summary      Upload a single file
// @Description  Stores one file independently of any checkpoint; the caller
// @Description  attaches the returned metadata to a record later.
// @Tags         checkpoints
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File (max 10 MiB)"
// @Success      200   {object}  dto.AttachmentPayload
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /checkpoints/upload [post]
func (h *CheckpointHandler) UploadOne(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	att, err := h.uploads.ProcessOne(c.Request.Context(), fh)
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "file upload failed"})
		return
	}
	c.JSON(http.StatusOK, attachmentToPayload(att))
}

// RemoveFile godoc
// @Summary      Delete a file by access path
// @Description  Removes the blob (idempotent) and, when checkpointId is
// @Description  given, pulls the attachment from that record.
// @Tags         checkpoints
// @Accept       json
// @Produce      json
// @Param        body  body      dto.DeleteFileRequest  true  "Access path and optional checkpoint id"
// @Success      200   {object}  dto.DeleteFileResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /checkpoints/delete-file [post]
func (h *CheckpointHandler) RemoveFile(c *gin.Context) {
	var req dto.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accessPath is required"})
		return
	}
	if _, err := h.svc.RemoveFile(c.Request.Context(), req.CheckpointID, req.AccessPath); err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete file"})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteFileResponse{Success: true, Message: "file deleted successfully"})
}

func attachmentToPayload(a dom.Attachment) dto.AttachmentPayload {
	return dto.AttachmentPayload{
		StorageName:  a.StorageName,
		OriginalName: a.OriginalName,
		Size:         a.Size,
		AccessPath:   a.AccessPath,
		UploadDate:   a.UploadDate,
	}
}

func attachmentsToPayloads(atts []dom.Attachment) []dto.AttachmentPayload {
	out := make([]dto.AttachmentPayload, len(atts))
	for i := range atts {
		out[i] = attachmentToPayload(atts[i])
	}
	return out
}

func payloadsToAttachments(payloads []dto.AttachmentPayload) []dom.Attachment {
	out := make([]dom.Attachment, len(payloads))
	for i, p := range payloads {
		out[i] = dom.Attachment{
			StorageName:  p.StorageName,
			OriginalName: p.OriginalName,
			Size:         p.Size,
			AccessPath:   p.AccessPath,
			UploadDate:   p.UploadDate,
		}
	}
	return out
}

func checkpointToResponse(c dom.Checkpoint) dto.CheckpointResponse {
	return dto.CheckpointResponse{
		ID:        c.ID,
		Name:      c.Name,
		Todos:     c.Todos,
		Date:      c.Date,
		Files:     attachmentsToPayloads(c.Files),
		CreatedAt: c.CreatedAt,
	}
}

func checkpointsToResponses(list []dom.Checkpoint) []dto.CheckpointResponse {
	out := make([]dto.CheckpointResponse, len(list))
	for i := range list {
		out[i] = checkpointToResponse(list[i])
	}
	return out
}
