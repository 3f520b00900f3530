// internal/interfaces/http/handlers/lot.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/lot"
	"github.com/your-org/biolab-backend/internal/domain/recipe"
	"github.com/your-org/biolab-backend/internal/domain/supply"
	"github.com/your-org/biolab-backend/internal/interfaces/http/middleware"
	"github.com/your-org/biolab-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// LotHandler handles production lot endpoints
type LotHandler struct {
	lotService *lot.Service
	pdfService *pdf.Service
	db         *gorm.DB
	config     *config.Config
}

// NewLotHandler creates a new lot handler
func NewLotHandler(db *gorm.DB, cfg *config.Config) *LotHandler {
	supplyService := supply.NewService(db, cfg)
	recipeService := recipe.NewService(db, cfg, supplyService)
	return &LotHandler{
		lotService: lot.NewService(db, cfg, recipeService, supplyService),
		pdfService: pdf.NewService(cfg),
		db:         db,
		config:     cfg,
	}
}

// CreateLot inoculates a new production lot, consuming recipe supplies
func (h *LotHandler) CreateLot(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	var req lot.CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	created, err := h.lotService.CreateLot(&req, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Lot created successfully",
		"data":    created,
	})
}

// GetLots lists lots with pagination and optional state filter
func (h *LotHandler) GetLots(c *gin.Context) {
	var req lot.LotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	lots, err := h.lotService.GetLots(&req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": lots,
	})
}

// GetLot returns a lot with its recomputed availability
func (h *LotHandler) GetLot(c *gin.Context) {
	lotID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.lotService.GetLot(lotID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": result,
	})
}

// Refrigerate moves an incubating lot to the refrigerated state
func (h *LotHandler) Refrigerate(c *gin.Context) {
	lotID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.lotService.Refrigerate(lotID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Lot refrigerated successfully",
		"data":    result,
	})
}

// ConsumeBags records a bag consumption event against a lot
func (h *LotHandler) ConsumeBags(c *gin.Context) {
	lotID, err := parseIDParam(c, "id")
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

	var req lot.ConsumeBagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.lotService.ConsumeBags(lotID, &req, userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bags consumed successfully",
		"data":    result,
	})
}

// Summary returns per-state lot counts and total available bags
func (h *LotHandler) Summary(c *gin.Context) {
	summary, err := h.lotService.Summary()
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summary,
	})
}

// Report generates and streams a PDF report for a lot
func (h *LotHandler) Report(c *gin.Context) {
	lotID, err := parseIDParam(c, "id")
	if err != nil {
		return
	}

	result, err := h.lotService.GetLot(lotID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var microorganism recipe.Microorganism
	if err := h.db.First(&microorganism, result.Lot.MicroorganismID).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	buf, err := h.pdfService.GenerateLotReport(&result.Lot, result.AvailableBags, microorganism.Name, result.Lot.Events)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate report: " + err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("lot-report-%s.pdf", result.Lot.LotCode)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
