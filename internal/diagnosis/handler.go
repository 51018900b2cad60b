package diagnosis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/documents"
	"resume-diagnosis/internal/shared/server/middleware"
	"resume-diagnosis/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches diagnosis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/diagnose", h.start)
	rg.GET("/diagnoses/:id", h.get)
}

type startRequest struct {
	TargetJobTitle   string `json:"targetJobTitle"`
	JobDescription   string `json:"jobDescription"`
	ApplicationCount int    `json:"applicationCount"`
}

func (h *Handler) start(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "invalid request body", nil)
		return
	}

	d, err := h.Svc.Start(c.Request.Context(), StartInput{
		SessionID:        sessionID,
		DocumentID:       c.Param("id"),
		TargetJobTitle:   req.TargetJobTitle,
		JobDescription:   req.JobDescription,
		ApplicationCount: req.ApplicationCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidationError, "targetJobTitle is required", nil)
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, documents.ErrGone):
			respond.Error(c, http.StatusGone, "gone", "document was deleted", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternalError, "failed to start diagnosis", nil)
		}
		return
	}

	respond.Accepted(c, toResponse(d))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	d, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "diagnosis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternalError, "failed to fetch diagnosis", nil)
		}
		return
	}
	if d.Status == StatusDeleted {
		respond.Error(c, http.StatusGone, "gone", "diagnosis was deleted", nil)
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(d))
}
