package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/postgres"
)

// HealthHandler reports service liveness and database reachability
type HealthHandler struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewHealthHandler(db *postgres.DB, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Errorw("database ping failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
