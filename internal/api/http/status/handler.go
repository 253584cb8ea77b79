package status

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcapi "github.com/oshokin/catpoint/internal/api/grpc/security"
	domain "github.com/oshokin/catpoint/internal/domain/security"
	"github.com/oshokin/catpoint/internal/logger"
	"github.com/oshokin/catpoint/internal/version"
)

// Service abstracts the read operations the HTTP API depends on.
type Service interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	Sensors(ctx context.Context) ([]*domain.Sensor, error)
}

// Handler serves the status endpoints.
type Handler struct {
	// service provides the controller state.
	service Service
}

// NewHandler creates a status handler over the provided service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

//nolint:gochecknoinits // Gin mode is process-wide and must be set before engines are built.
func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Router builds a gin engine with the status routes registered.
func (h *Handler) Router(ctx context.Context) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(ctx))

	v1 := router.Group("/v1")
	v1.GET("/health", h.health)
	v1.GET("/status", h.status)
	v1.GET("/sensors", h.sensors)

	return router
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"build":  version.Get(),
	})
}

func (h *Handler) status(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		logger.ErrorKV(c.Request.Context(), "Failed to read status", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read status"})

		return
	}

	c.JSON(http.StatusOK, grpcapi.ToStatusResponse(snapshot))
}

func (h *Handler) sensors(c *gin.Context) {
	sensors, err := h.service.Sensors(c.Request.Context())
	if err != nil {
		logger.ErrorKV(c.Request.Context(), "Failed to read sensors", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read sensors"})

		return
	}

	c.JSON(http.StatusOK, grpcapi.ToStatusResponse(&domain.Snapshot{Sensors: sensors}).Sensors)
}

// requestLogger logs every request with the base context logger.
func requestLogger(base context.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.WithKV(c.Request.Context(), "path", c.FullPath())
		c.Request = c.Request.WithContext(logger.ToContext(ctx, logger.FromContext(base)))

		c.Next()

		logger.DebugKV(c.Request.Context(), "HTTP request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
