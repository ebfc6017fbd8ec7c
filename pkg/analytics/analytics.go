package analytics

import (
	"math"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
)

// DateAvailability is the number of people marked available on one date.
type DateAvailability struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// PersonAvailability is one person's availability rate across the table.
type PersonAvailability struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"` // fraction of dates marked available
}

// AvailabilitySummary describes an availability table.
type AvailabilitySummary struct {
	Dates  []DateAvailability   `json:"dates"`
	People []PersonAvailability `json:"people"`
}

// SummarizeAvailability computes per-date headcounts and per-person
// availability rates, preserving the table's date and row order.
func SummarizeAvailability(table *models.AvailabilityTable) AvailabilitySummary {
	var summary AvailabilitySummary
	if table == nil {
		return summary
	}

	counts := make([]int, len(table.Dates))
	for _, row := range table.Rows {
		available := 0
		for i, ok := range row.Available {
			if ok && i < len(counts) {
				counts[i]++
				available++
			}
		}
		rate := 0.0
		if len(table.Dates) > 0 {
			rate = float64(available) / float64(len(table.Dates))
		}
		summary.People = append(summary.People, PersonAvailability{Name: row.Name, Rate: rate})
	}
	for i, date := range table.Dates {
		summary.Dates = append(summary.Dates, DateAvailability{Date: date, Count: counts[i]})
	}
	return summary
}

// RoleFill is how often a role's row was actually filled.
type RoleFill struct {
	Role     string  `json:"role"`
	Filled   int     `json:"filled"`
	Total    int     `json:"total"`
	FillRate float64 `json:"fill_rate"`
}

// ScheduleSummary describes a finished schedule grid.
type ScheduleSummary struct {
	RoleFill      []RoleFill     `json:"role_fill"`
	PersonTotals  map[string]int `json:"person_totals"`
	FairnessScore float64        `json:"fairness_score"`
}

// SummarizeSchedule tallies per-role fill rates and per-person serving
// totals over a grid, plus the fairness score of the totals.
func SummarizeSchedule(grid *models.ScheduleGrid) ScheduleSummary {
	summary := ScheduleSummary{PersonTotals: make(map[string]int)}
	if grid == nil {
		summary.FairnessScore = 100.0
		return summary
	}

	for ri, role := range grid.Roles {
		fill := RoleFill{Role: role, Total: len(grid.Dates)}
		if ri < len(grid.Cells) {
			for _, person := range grid.Cells[ri] {
				if person != models.Unassigned {
					fill.Filled++
					summary.PersonTotals[person]++
				}
			}
		}
		if fill.Total > 0 {
			fill.FillRate = float64(fill.Filled) / float64(fill.Total)
		}
		summary.RoleFill = append(summary.RoleFill, fill)
	}

	totals := make([]int, 0, len(summary.PersonTotals))
	for _, n := range summary.PersonTotals {
		totals = append(totals, n)
	}
	summary.FairnessScore = FairnessScore(totals)
	return summary
}

// FairnessScore returns a percentage (0-100) for how evenly the totals are
// distributed. 100 means a standard deviation of zero; 0 means the deviation
// is at least the mean.
func FairnessScore(totals []int) float64 {
	if len(totals) == 0 {
		return 100.0
	}

	var sum float64
	for _, n := range totals {
		sum += float64(n)
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(totals))
	var varianceSum float64
	for _, n := range totals {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(totals)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
