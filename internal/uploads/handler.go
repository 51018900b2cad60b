package uploads

import (
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"resume-diagnosis/internal/shared/server/middleware"
	"resume-diagnosis/internal/shared/server/respond"
	"resume-diagnosis/internal/shared/telemetry"
	"resume-diagnosis/internal/shared/util"
)

const presignExpires = 15 * time.Minute

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Handler issues presigned PUT URLs for direct-to-S3 uploads, applying the
// same type and size limits as the multipart upload path.
type Handler struct {
	Presign  *s3.PresignClient
	Bucket   string
	Prefix   string
	MaxBytes int64
}

// NewHandler constructs a Handler. Returns nil when presigned uploads are
// not configured; callers skip route registration in that case.
func NewHandler(presign *s3.PresignClient, bucket, prefix string, maxBytes int64) *Handler {
	if presign == nil || strings.TrimSpace(bucket) == "" {
		return nil
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Handler{Presign: presign, Bucket: bucket, Prefix: prefix, MaxBytes: maxBytes}
}

// RegisterRoutes attaches upload routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/presign", h.presign)
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
}

type presignResponse struct {
	UploadURL        string `json:"uploadUrl"`
	S3Key            string `json:"s3Key"`
	ExpiresInSeconds int64  `json:"expiresInSeconds"`
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)

	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "fileName is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "contentType is not allowed", nil)
		return
	}
	if req.SizeBytes <= 0 || (h.MaxBytes > 0 && req.SizeBytes > h.MaxBytes) {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "sizeBytes exceeds limit", nil)
		return
	}

	sanitized, err := util.SanitizeFileName(req.FileName)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "invalid fileName", nil)
		return
	}

	sessionID := middleware.SessionIDFromContext(c)
	key := path.Join(h.Prefix, util.HashSessionKey(sessionID), uuid.NewString()+"-"+sanitized)

	out, err := h.Presign.PresignPutObject(c.Request.Context(), &s3.PutObjectInput{
		Bucket: aws.String(h.Bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpires
	})
	if err != nil {
		telemetry.Error("uploads presign failed", map[string]any{
			"error":      err.Error(),
			"bucket":     h.Bucket,
			"key":        key,
			"request_id": c.GetString("requestId"),
		})
		respond.Error(c, http.StatusInternalServerError, respond.CodeStorageError, "failed to generate upload url", nil)
		return
	}

	respond.JSON(c, http.StatusOK, presignResponse{
		UploadURL:        out.URL,
		S3Key:            key,
		ExpiresInSeconds: int64(presignExpires.Seconds()),
	})
}
