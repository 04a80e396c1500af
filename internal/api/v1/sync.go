package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	ierr "github.com/nextplate/billing/internal/errors"
	"github.com/nextplate/billing/internal/logger"
	"github.com/nextplate/billing/internal/service"
)

// SyncHandler exposes manual catalog reconciliation endpoints
type SyncHandler struct {
	catalogSync service.CatalogSyncService
	logger      *logger.Logger
}

func NewSyncHandler(catalogSync service.CatalogSyncService, logger *logger.Logger) *SyncHandler {
	return &SyncHandler{
		catalogSync: catalogSync,
		logger:      logger,
	}
}

// @Summary Sync products
// @Description Reconcile the local product mirror with Stripe
// @Tags sync
// @Produce json
// @Success 200 {object} types.SyncResult
// @Router /api/admin/sync/products [post]
func (h *SyncHandler) SyncProducts(c *gin.Context) {
	result, err := h.catalogSync.SyncProducts(c.Request.Context())
	if err != nil {
		h.logger.Errorw("product sync failed", "error", err)
		c.JSON(ierr.HTTPStatusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Sync prices
// @Description Reconcile the local price mirror with Stripe
// @Tags sync
// @Produce json
// @Success 200 {object} types.SyncResult
// @Router /api/admin/sync/prices [post]
func (h *SyncHandler) SyncPrices(c *gin.Context) {
	result, err := h.catalogSync.SyncPrices(c.Request.Context())
	if err != nil {
		h.logger.Errorw("price sync failed", "error", err)
		c.JSON(ierr.HTTPStatusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Sync catalog
// @Description Reconcile products and prices in one pass
// @Tags sync
// @Produce json
// @Success 200 {object} types.SyncResult
// @Router /api/admin/sync/catalog [post]
func (h *SyncHandler) SyncCatalog(c *gin.Context) {
	result, err := h.catalogSync.SyncCatalog(c.Request.Context())
	if err != nil {
		h.logger.Errorw("catalog sync failed", "error", err)
		c.JSON(ierr.HTTPStatusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
