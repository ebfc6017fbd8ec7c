package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshuamachine/rotation-api-go/pkg/analytics"
	"github.com/joshuamachine/rotation-api-go/pkg/models"
)

// AvailabilitySummary reports per-date headcounts and per-person
// availability rates for a posted availability table.
func (h *Handler) AvailabilitySummary(c *gin.Context) {
	var table models.AvailabilityTable
	if err := c.ShouldBindJSON(&table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analytics.SummarizeAvailability(&table))
}

// ScheduleAnalytics reports fill rates, per-person totals, and the fairness
// score for a posted schedule grid.
func (h *Handler) ScheduleAnalytics(c *gin.Context) {
	var grid models.ScheduleGrid
	if err := c.ShouldBindJSON(&grid); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analytics.SummarizeSchedule(&grid))
}
