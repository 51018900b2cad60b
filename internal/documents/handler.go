package documents

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/shared/server/middleware"
	"resume-diagnosis/internal/shared/server/respond"
)

const maxMultipartOverhead = 1 << 20

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.upload)
	rg.POST("/documents/from-s3", h.createFromS3)
	rg.GET("/documents/:id", h.get)
	rg.DELETE("/documents/:id", h.delete)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.Validator.MaxUploadBytes+maxMultipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "unable to read file", nil)
		return
	}
	defer file.Close()

	out, err := h.Svc.Upload(c.Request.Context(), UploadInput{
		SessionID:      sessionID,
		FileName:       fileHeader.Filename,
		MimeType:       fileHeader.Header.Get("Content-Type"),
		TargetJobTitle: strings.TrimSpace(c.PostForm("targetJobTitle")),
		Reader:         file,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "file failed validation", gin.H{
				"errors":   out.Validation.Errors,
				"warnings": out.Validation.Warnings,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorageError, "failed to upload document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toUploadResponse(sessionID, out))
}

type createFromS3Request struct {
	S3Key          string `json:"s3Key"`
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	SizeBytes      int64  `json:"sizeBytes"`
	TargetJobTitle string `json:"targetJobTitle"`
}

func (h *Handler) createFromS3(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req createFromS3Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "invalid request body", nil)
		return
	}

	req.S3Key = strings.TrimSpace(req.S3Key)
	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.S3Key == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "s3Key is required", nil)
		return
	}
	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "fileName is required", nil)
		return
	}

	out, err := h.Svc.CreateFromS3(c.Request.Context(), sessionID, req.S3Key, req.FileName, req.ContentType, req.SizeBytes, strings.TrimSpace(req.TargetJobTitle))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "file failed validation", gin.H{
				"errors":   out.Validation.Errors,
				"warnings": out.Validation.Warnings,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorageError, "failed to create document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toUploadResponse(sessionID, out))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	doc, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, ErrGone):
			respond.Error(c, http.StatusGone, "gone", "document was deleted", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternalError, "failed to fetch document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(doc))
}

func (h *Handler) delete(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), sessionID, c.Param("id")); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeStorageError, "failed to delete document", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
