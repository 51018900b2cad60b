package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-diagnosis/internal/diagnosis"
	"resume-diagnosis/internal/documents"
	"resume-diagnosis/internal/shared/metrics"
	"resume-diagnosis/internal/shared/server/middleware"
	"resume-diagnosis/internal/shared/server/respond"
	"resume-diagnosis/internal/uploads"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	CORSAllowOrigin  []string
	DocumentsHandler *documents.Handler
	DiagnosisHandler *diagnosis.Handler
	UploadsHandler   *uploads.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	// Everything below requires a session and is rate limited per session.
	authed := api.Group("")
	authed.Use(
		middleware.Session(),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor:     rateLimitGroup,
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 2, Burst: 10},
				// Clients poll for results, so the read side gets more headroom.
				"POLLING": {Rate: 10, Burst: 30},
			},
		}),
	)

	if deps.DocumentsHandler != nil {
		deps.DocumentsHandler.RegisterRoutes(authed)
	}
	if deps.DiagnosisHandler != nil {
		deps.DiagnosisHandler.RegisterRoutes(authed)
	}
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(authed)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/diagnoses/:id" {
		return "POLLING"
	}
	return "DEFAULT"
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
