package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshuamachine/rotation-api-go/pkg/analytics"
	"github.com/joshuamachine/rotation-api-go/pkg/database"
	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"gorm.io/gorm"
)

// SaveSchedule persists a generated grid as a schedule run. Admin-only:
// routed behind the JWT middleware, so saving requires a logged-in master
// user.
func (h *Handler) SaveSchedule(c *gin.Context) {
	var grid models.ScheduleGrid
	if err := c.ShouldBindJSON(&grid); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(grid.Roles) == 0 || len(grid.Roles) != len(grid.Cells) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grid roles and cells are misaligned"})
		return
	}
	for _, row := range grid.Cells {
		if len(row) != len(grid.Dates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "grid row length does not match dates"})
			return
		}
	}

	username := c.GetString("username")
	summary := analytics.SummarizeSchedule(&grid)

	run := database.ScheduleRun{
		RunID:         uuid.NewString(),
		SavedBy:       username,
		FairnessScore: summary.FairnessScore,
	}

	entries := make([]database.ScheduleEntry, 0, len(grid.Roles)*len(grid.Dates))
	for ri, role := range grid.Roles {
		for di, date := range grid.Dates {
			entries = append(entries, database.ScheduleEntry{
				RunID:    run.RunID,
				Role:     role,
				Date:     date,
				Person:   grid.Cells[ri][di],
				Position: di,
			})
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, 200).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":         run.RunID,
		"fairness_score": run.FairnessScore,
	})
}

// LatestSchedule returns the most recently saved run as a grid, the shape
// callers feed back as history to resume a rotation.
func (h *Handler) LatestSchedule(c *gin.Context) {
	var run database.ScheduleRun
	if err := h.DB.Order("created_at desc").First(&run).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No saved schedule"})
		return
	}

	var entries []database.ScheduleEntry
	if err := h.DB.Where("run_id = ?", run.RunID).Order("position asc").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load schedule entries"})
		return
	}

	grid := entriesToGrid(entries)

	c.JSON(http.StatusOK, gin.H{
		"run_id":         run.RunID,
		"saved_by":       run.SavedBy,
		"created_at":     run.CreatedAt,
		"fairness_score": run.FairnessScore,
		"schedule":       grid,
	})
}

// entriesToGrid rebuilds the role×date grid from stored cells. Role order
// follows first appearance; date order follows the stored column positions.
func entriesToGrid(entries []database.ScheduleEntry) *models.ScheduleGrid {
	grid := &models.ScheduleGrid{}

	roleIdx := make(map[string]int)
	dateIdx := make(map[string]int)
	for _, e := range entries {
		if _, ok := roleIdx[e.Role]; !ok {
			roleIdx[e.Role] = len(grid.Roles)
			grid.Roles = append(grid.Roles, e.Role)
		}
		if _, ok := dateIdx[e.Date]; !ok {
			dateIdx[e.Date] = len(grid.Dates)
			grid.Dates = append(grid.Dates, e.Date)
		}
	}

	grid.Cells = make([][]string, len(grid.Roles))
	for i := range grid.Cells {
		grid.Cells[i] = make([]string, len(grid.Dates))
	}
	for _, e := range entries {
		grid.Cells[roleIdx[e.Role]][dateIdx[e.Date]] = e.Person
	}
	return grid
}
