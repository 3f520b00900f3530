// internal/interfaces/http/handlers/supply.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"github.com/your-org/biolab-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SupplyHandler handles supply catalog and stock ledger endpoints
type SupplyHandler struct {
	supplyService *supply.Service
	config        *config.Config
}

// NewSupplyHandler creates a new supply handler
func NewSupplyHandler(db *gorm.DB, cfg *config.Config) *SupplyHandler {
	return &SupplyHandler{
		supplyService: supply.NewService(db, cfg),
		config:        cfg,
	}
}

// CreateSupply creates a supply catalog entry
func (h *SupplyHandler) CreateSupply(c *gin.Context) {
	var req supply.CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.supplyService.CreateSupply(&req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Supply created successfully",
		"data":    created,
	})
}

// GetSupplies lists the active supply catalog
func (h *SupplyHandler) GetSupplies(c *gin.Context) {
	supplies, err := h.supplyService.GetSupplies()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": supplies,
	})
}

// GetSupply returns a single supply by ID
func (h *SupplyHandler) GetSupply(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.supplyService.GetSupply(supplyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// ReceiveStock registers a received stock batch for a supply
func (h *SupplyHandler) ReceiveStock(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req supply.ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	stock, err := h.supplyService.ReceiveStock(supplyID, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock received successfully",
		"data":    stock,
	})
}

// GetStocks lists a supply's stock batches in consumption order
func (h *SupplyHandler) GetStocks(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	stocks, err := h.supplyService.GetStocks(supplyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stocks,
	})
}

// GetAvailability returns the total available quantity for a supply
func (h *SupplyHandler) GetAvailability(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	available, err := h.supplyService.AvailableQuantity(supplyID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"supply_id": supplyID,
			"available": available,
		},
	})
}

// PlanConsumption computes an oldest-first consumption plan without
// committing it
func (h *SupplyHandler) PlanConsumption(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	var req struct {
		Quantity decimal.Decimal `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	plan, err := h.supplyService.Plan(supplyID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": plan,
	})
}

// Consume plans and commits a direct consumption (e.g. a discard) in one call
func (h *SupplyHandler) Consume(c *gin.Context) {
	supplyID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req struct {
		Quantity    decimal.Decimal           `json:"quantity" binding:"required"`
		PurposeType supply.ConsumptionPurpose `json:"purpose_type" binding:"required"`
		PurposeID   uint                      `json:"purpose_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	plan, err := h.supplyService.Plan(supplyID, req.Quantity)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if err := h.supplyService.CommitConsumption(plan.Entries, req.PurposeType, req.PurposeID, userID); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Consumption committed successfully",
		"data":    plan,
	})
}

// GetConsumptionEvents lists the append-only event log for a stock batch
// along with the remaining quantity recomputed from it
func (h *SupplyHandler) GetConsumptionEvents(c *gin.Context) {
	stockID, err := parseIDParam(c, "stock_id")
	if err != nil {
		return
	}

	ledger, err := h.supplyService.GetStockLedger(stockID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": ledger,
	})
}

// parseIDParam parses a numeric path parameter, writing a 400 on failure
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name + " parameter",
		})
		return 0, err
	}
	return uint(id), nil
}
