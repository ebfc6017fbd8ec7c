package rotation

import (
	"testing"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestMinimalCandidates(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("piano", "Alice")
	tracker.Record("piano", "Alice")
	tracker.Record("piano", "Bob")

	require.Equal(t, []string{"Bob", "Carol"},
		tracker.MinimalCandidates("piano", []string{"Alice", "Bob", "Carol"}))

	// Carol has never played piano, so alone she is trivially minimal.
	require.Equal(t, []string{"Carol"}, tracker.MinimalCandidates("piano", []string{"Carol"}))

	require.Empty(t, tracker.MinimalCandidates("piano", nil))
}

func TestCountsArePerRole(t *testing.T) {
	tracker := NewTracker()
	tracker.Record("piano", "Alice")
	tracker.Record("drum", "Alice")
	tracker.Record("drum", "Alice")

	require.Equal(t, 1, tracker.Count("piano", "Alice"))
	require.Equal(t, 2, tracker.Count("drum", "Alice"))
	require.Equal(t, 0, tracker.Count("bass", "Alice"))

	counts := tracker.CountsFor("drum", []string{"Alice", "Bob"})
	require.Equal(t, map[string]int{"Alice": 2, "Bob": 0}, counts)

	require.Equal(t, map[string]int{"Alice": 3}, tracker.TotalsByPerson())
}

func TestTrackerFromGridSkipsUnassigned(t *testing.T) {
	grid := &models.ScheduleGrid{
		Roles: []string{"vocal_main", "piano"},
		Dates: []string{"05/01", "12/01"},
		Cells: [][]string{
			{"Alice", models.Unassigned},
			{"Bob", "Bob"},
		},
	}
	tracker := NewTrackerFromGrid(grid)

	require.Equal(t, 1, tracker.Count("vocal_main", "Alice"))
	require.Equal(t, 2, tracker.Count("piano", "Bob"))
	require.Equal(t, 0, tracker.Count("vocal_main", models.Unassigned))
}
