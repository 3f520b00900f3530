// internal/interfaces/http/handlers/schedule.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/biolab-backend/internal/config"
	"github.com/your-org/biolab-backend/internal/domain/schedule"
)

// ScheduleHandler handles application date sequence generation
type ScheduleHandler struct {
	config *config.Config
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(cfg *config.Config) *ScheduleHandler {
	return &ScheduleHandler{
		config: cfg,
	}
}

// GenerateRequest represents a date sequence generation request
type GenerateRequest struct {
	StartDate      time.Time `json:"start_date" binding:"required"`
	Count          int       `json:"count" binding:"required"`
	IntervalMonths int       `json:"interval_months" binding:"required"`
}

// Generate computes a sequence of application dates from a start date
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	dates, err := schedule.Generate(req.StartDate, req.Count, req.IntervalMonths)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"start_date":      req.StartDate,
			"count":           req.Count,
			"interval_months": req.IntervalMonths,
			"dates":           dates,
		},
	})
}
