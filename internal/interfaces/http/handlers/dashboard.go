// internal/interfaces/http/handlers/dashboard.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"gorm.io/gorm"
)

// DashboardHandler aggregates production, stock and alert views
type DashboardHandler struct {
	lotService *lot.Service
	db         *gorm.DB
	config     *config.Config
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB, cfg *config.Config) *DashboardHandler {
	supplyService := supply.NewService(db, cfg)
	recipeService := recipe.NewService(db, cfg, supplyService)
	return &DashboardHandler{
		lotService: lot.NewService(db, cfg, recipeService, supplyService),
		db:         db,
		config:     cfg,
	}
}

// Overview returns the production dashboard: per-state lot counts, open
// stock alerts and expiring stock batches
func (h *DashboardHandler) Overview(c *gin.Context) {
	summary, err := h.lotService.Summary()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var openAlerts []supply.StockAlert
	if err := h.db.Preload("Supply").
		Where("is_resolved = ?", false).
		Order("created_at DESC").
		Limit(20).
		Find(&openAlerts).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	var expiringStocks []supply.SupplyStock
	cutoff := time.Now().AddDate(0, 0, 30)
	if err := h.db.
		Where("expires_at IS NOT NULL AND expires_at <= ? AND quantity_remaining > 0", cutoff).
		Order("expires_at ASC").
		Limit(20).
		Find(&expiringStocks).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"lots":            summary,
			"open_alerts":     openAlerts,
			"expiring_stocks": expiringStocks,
		},
	})
}

// RecentActivity returns the latest consumption events across both ledgers
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	var stockEvents []supply.ConsumptionEvent
	if err := h.db.Order("occurred_at DESC").Limit(20).Find(&stockEvents).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	var bagEvents []lot.BagConsumptionEvent
	if err := h.db.Order("occurred_at DESC").Limit(20).Find(&bagEvents).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"stock_events": stockEvents,
			"bag_events":   bagEvents,
		},
	})
}

// ResolveAlert marks a stock alert as resolved
func (h *DashboardHandler) ResolveAlert(c *gin.Context) {
	alertID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	now := time.Now()
	result := h.db.Model(&supply.StockAlert{}).
		Where("id = ? AND is_resolved = ?", alertID, false).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": &now,
		})
	if result.Error != nil {
		respondDomainError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Alert not found or already resolved",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert resolved successfully",
	})
}
