package analytics

import (
	"testing"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestFairnessScore(t *testing.T) {
	require.Equal(t, 100.0, FairnessScore(nil))
	require.Equal(t, 100.0, FairnessScore([]int{0, 0, 0}))
	require.Equal(t, 100.0, FairnessScore([]int{3, 3, 3}))

	// Mild imbalance lands in between.
	score := FairnessScore([]int{2, 3, 4})
	require.Greater(t, score, 0.0)
	require.Less(t, score, 100.0)

	// Deviation at or beyond the mean clamps at zero.
	require.Equal(t, 0.0, FairnessScore([]int{0, 0, 12}))
}

func TestSummarizeSchedule(t *testing.T) {
	grid := &models.ScheduleGrid{
		Roles: []string{"vocal_main", "drum"},
		Dates: []string{"05/01", "12/01"},
		Cells: [][]string{
			{"Alice", "Bob"},
			{"Carol", models.Unassigned},
		},
	}

	summary := SummarizeSchedule(grid)
	require.Equal(t, map[string]int{"Alice": 1, "Bob": 1, "Carol": 1}, summary.PersonTotals)
	require.Equal(t, 100.0, summary.FairnessScore)

	require.Len(t, summary.RoleFill, 2)
	require.Equal(t, RoleFill{Role: "vocal_main", Filled: 2, Total: 2, FillRate: 1.0}, summary.RoleFill[0])
	require.Equal(t, RoleFill{Role: "drum", Filled: 1, Total: 2, FillRate: 0.5}, summary.RoleFill[1])
}

func TestSummarizeAvailability(t *testing.T) {
	table := &models.AvailabilityTable{
		Dates: []string{"05/01", "12/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Alice", Available: []bool{true, true}},
			{Name: "Bob", Available: []bool{true, false}},
		},
	}

	summary := SummarizeAvailability(table)
	require.Equal(t, []DateAvailability{
		{Date: "05/01", Count: 2},
		{Date: "12/01", Count: 1},
	}, summary.Dates)
	require.Equal(t, []PersonAvailability{
		{Name: "Alice", Rate: 1.0},
		{Name: "Bob", Rate: 0.5},
	}, summary.People)
}

func TestSummarizeNil(t *testing.T) {
	require.Equal(t, 100.0, SummarizeSchedule(nil).FairnessScore)
	require.Empty(t, SummarizeAvailability(nil).Dates)
}
