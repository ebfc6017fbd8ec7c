package rotation

import (
	"testing"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/stretchr/testify/require"
)

func TestLedgerPreservesDateOrder(t *testing.T) {
	ledger := NewLedger([]string{"vocal_main", "piano"})
	ledger.Append("12/01", map[string]string{"vocal_main": "Alice"})
	ledger.Append("05/01", map[string]string{"vocal_main": "Bob", "piano": "Carol"})

	// Insertion order is trusted as chronological, even when labels would
	// sort differently.
	require.Equal(t, []string{"12/01", "05/01"}, ledger.Dates())

	row := ledger.AssignmentsOf("vocal_main")
	require.Equal(t, []Slot{{Date: "12/01", Person: "Alice"}, {Date: "05/01", Person: "Bob"}}, row)

	grid := ledger.Grid()
	require.Equal(t, []string{"vocal_main", "piano"}, grid.Roles)
	require.Equal(t, [][]string{
		{"Alice", "Bob"},
		{models.Unassigned, "Carol"},
	}, grid.Cells)
}

func TestLedgerGridRoundTrip(t *testing.T) {
	ledger := NewLedger([]string{"vocal_main"})
	ledger.Append("05/01", map[string]string{"vocal_main": "Alice"})
	ledger.Append("12/01", map[string]string{})

	tracker := NewTrackerFromGrid(ledger.Grid())
	require.Equal(t, 1, tracker.Count("vocal_main", "Alice"))
}

func TestCatalog(t *testing.T) {
	catalog := NewCatalog(map[string][]string{
		"vocal_sub": {"Alice", "Bob", ""},
		"piano":     {},
	})

	require.True(t, catalog.Qualified("vocal_sub", "Alice"))
	require.False(t, catalog.Qualified("vocal_sub", "Carol"))
	require.False(t, catalog.Qualified("piano", "Alice"))
	require.False(t, catalog.Qualified("missing", "Alice"))

	require.Equal(t, []string{"Bob", "Alice"},
		catalog.QualifiedPeople("vocal_sub", []string{"Bob", "Carol", "Alice"}))
	require.Empty(t, catalog.QualifiedPeople("missing", []string{"Alice"}))
	require.Equal(t, 2, catalog.PoolSize("vocal_sub"))
}
