package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nyumbani/backend/internal/infrastructure/persistence"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	db      *persistence.Database
	version string
	started time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database, version string) *HealthHandler {
	return &HealthHandler{db: db, version: version, started: time.Now()}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Check)
}

// Check responds 200 when the database is reachable, 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	overall := "ok"
	dbStatus := "up"
	if err := h.db.Ping(); err != nil {
		status = http.StatusServiceUnavailable
		overall = "degraded"
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"version":  h.version,
		"uptime":   time.Since(h.started).Round(time.Second).String(),
		"database": dbStatus,
	})
}
