package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/joshuamachine/rotation-api-go/pkg/rotation"
)

// ValidateInput handles the JSON-based validation request
func (h *Handler) ValidateInput(c *gin.Context) {
	var input models.RotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if input.Availability == nil || len(input.Availability.Rows) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "Availability table with at least one person is required",
		})
		return
	}

	if len(input.Availability.Dates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "Availability table has no date columns",
		})
		return
	}

	// Check for duplicate names and ragged rows
	names := make(map[string]bool)
	for _, row := range input.Availability.Rows {
		if row.Name == "" {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Availability row with empty name"})
			return
		}
		if names[row.Name] {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Duplicate person: " + row.Name})
			return
		}
		names[row.Name] = true
		if len(row.Available) != len(input.Availability.Dates) {
			c.JSON(http.StatusOK, gin.H{"valid": false, "error": "Availability row for " + row.Name + " does not match date columns"})
			return
		}
	}

	roles := h.roleSet(&input)
	if err := rotation.ValidateRoles(roles); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	// A role whose pool has no members is allowed (it stays unassigned),
	// but report it so callers can spot standing coverage gaps up front.
	var emptyPools []string
	seen := make(map[string]bool)
	for _, r := range roles {
		if seen[r.Pool] {
			continue
		}
		seen[r.Pool] = true
		if len(input.Pools[r.Pool]) == 0 {
			emptyPools = append(emptyPools, r.Pool)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"person_count": len(input.Availability.Rows),
			"date_count":   len(input.Availability.Dates),
			"role_count":   len(roles),
			"empty_pools":  emptyPools,
		},
	})
}
