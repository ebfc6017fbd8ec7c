package rotation

import (
	"math/rand"
	"testing"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
	"github.com/stretchr/testify/require"
)

func leadOnly() []models.RoleDefinition {
	return []models.RoleDefinition{{Name: "vocal_main", Pool: "vocal_main"}}
}

func newTestEngine(roles []models.RoleDefinition, pools map[string][]string, tracker *Tracker, seed int64) *Engine {
	if tracker == nil {
		tracker = NewTracker()
	}
	return NewEngine(roles, NewCatalog(pools), tracker, rand.New(rand.NewSource(seed)))
}

func TestGenerateNoAvailability(t *testing.T) {
	engine := newTestEngine(leadOnly(), map[string][]string{"vocal_main": {"Alice"}}, nil, 1)

	_, err := engine.Generate(nil)
	require.ErrorIs(t, err, ErrDataUnavailable)
}

func TestTieThenAvailabilityDominates(t *testing.T) {
	table := &models.AvailabilityTable{
		Dates: []string{"05/01", "12/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Alice", Available: []bool{true, false}},
			{Name: "Bob", Available: []bool{true, true}},
		},
	}
	engine := newTestEngine(leadOnly(), map[string][]string{"vocal_main": {"Alice", "Bob"}}, nil, 7)

	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	row := ledger.AssignmentsOf("vocal_main")
	require.Len(t, row, 2)

	// Date 1 is a 0-0 tie: either pick is valid, and the pick is counted.
	first := row[0].Person
	require.Contains(t, []string{"Alice", "Bob"}, first)
	require.Equal(t, 1, engine.Tracker().Count("vocal_main", first))

	// Date 2: only Bob is available, so Bob serves even if his count is higher.
	require.Equal(t, "Bob", row[1].Person)
}

func TestExclusivityBetweenSubRoles(t *testing.T) {
	roles := []models.RoleDefinition{
		{Name: "vocal_sub1", Pool: "vocal_sub", Excludes: []string{"vocal_sub2"}},
		{Name: "vocal_sub2", Pool: "vocal_sub", Excludes: []string{"vocal_sub1"}},
	}
	table := &models.AvailabilityTable{
		Dates: []string{"05/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Carol", Available: []bool{true}},
			{Name: "Dan", Available: []bool{true}},
		},
	}
	// Seed Carol behind Dan so sub1 deterministically takes Carol.
	tracker := NewTracker()
	tracker.Record("vocal_sub1", "Dan")

	engine := newTestEngine(roles, map[string][]string{"vocal_sub": {"Carol", "Dan"}}, tracker, 1)
	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	grid := ledger.Grid()
	require.Equal(t, "Carol", grid.Cells[0][0])
	require.Equal(t, "Dan", grid.Cells[1][0])
}

func TestExclusivityLeavesSlotUnassigned(t *testing.T) {
	roles := []models.RoleDefinition{
		{Name: "vocal_sub1", Pool: "vocal_sub", Excludes: []string{"vocal_sub2"}},
		{Name: "vocal_sub2", Pool: "vocal_sub", Excludes: []string{"vocal_sub1"}},
	}
	table := &models.AvailabilityTable{
		Dates: []string{"05/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Carol", Available: []bool{true}},
		},
	}
	engine := newTestEngine(roles, map[string][]string{"vocal_sub": {"Carol"}}, nil, 1)

	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	grid := ledger.Grid()
	require.Equal(t, "Carol", grid.Cells[0][0])
	require.Equal(t, models.Unassigned, grid.Cells[1][0])
	require.Len(t, engine.Gaps, 1)
	require.Equal(t, "vocal_sub2", engine.Gaps[0].Role)
}

func TestEmptyPoolStaysUnassigned(t *testing.T) {
	table := &models.AvailabilityTable{
		Dates: []string{"05/01", "12/01", "19/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Alice", Available: []bool{true, true, true}},
		},
	}
	roles := []models.RoleDefinition{
		{Name: "vocal_main", Pool: "vocal_main"},
		{Name: "drum", Pool: "drum"},
	}
	engine := newTestEngine(roles, map[string][]string{"vocal_main": {"Alice"}}, nil, 1)

	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	for _, slot := range ledger.AssignmentsOf("drum") {
		require.Equal(t, models.Unassigned, slot.Person)
	}
	require.Equal(t, 0, engine.Tracker().Count("drum", "Alice"))
	require.Len(t, engine.Gaps, 3)
}

func TestMinimalCountSelection(t *testing.T) {
	table := &models.AvailabilityTable{
		Dates: []string{"05/01", "12/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Amy", Available: []bool{true, true}},
			{Name: "Ben", Available: []bool{true, true}},
			{Name: "Cid", Available: []bool{true, true}},
		},
	}
	tracker := NewTracker()
	tracker.Record("vocal_main", "Amy")
	tracker.Record("vocal_main", "Amy")
	tracker.Record("vocal_main", "Ben")
	tracker.Record("vocal_main", "Cid")

	engine := newTestEngine(leadOnly(), map[string][]string{"vocal_main": {"Amy", "Ben", "Cid"}}, tracker, 42)
	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	row := ledger.AssignmentsOf("vocal_main")
	// Amy is at 2, Ben and Cid at 1: date 1 must pick Ben or Cid, and date 2
	// must pick the other one.
	require.Contains(t, []string{"Ben", "Cid"}, row[0].Person)
	require.Contains(t, []string{"Ben", "Cid"}, row[1].Person)
	require.NotEqual(t, row[0].Person, row[1].Person)
}

func TestSameSeedSameSchedule(t *testing.T) {
	table := fullTable()
	pools := fullPools()

	first := newTestEngine(DefaultRoles(), pools, nil, 99)
	second := newTestEngine(DefaultRoles(), pools, nil, 99)

	a, err := first.Generate(table)
	require.NoError(t, err)
	b, err := second.Generate(table)
	require.NoError(t, err)

	require.Equal(t, a.Grid(), b.Grid())
}

func fullTable() *models.AvailabilityTable {
	people := []string{"Alice", "Bob", "Carol", "Dan", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Judy"}
	dates := []string{"05/01", "12/01", "19/01", "26/01", "02/02", "09/02"}
	table := &models.AvailabilityTable{Dates: dates}
	for i, name := range people {
		avail := make([]bool, len(dates))
		for d := range dates {
			// Everyone sits out a rolling date so availability varies.
			avail[d] = (d+i)%4 != 0
		}
		table.Rows = append(table.Rows, models.AvailabilityRow{Name: name, Available: avail})
	}
	return table
}

func fullPools() map[string][]string {
	return map[string][]string{
		"vocal_main": {"Alice", "Bob", "Carol"},
		"vocal_sub":  {"Alice", "Carol", "Dan", "Eve"},
		"piano":      {"Frank", "Grace"},
		"drum":       {"Heidi", "Ivan"},
		"bass":       {"Ivan", "Judy"},
		"pa":         {"Bob", "Judy"},
		"ppt":        {"Dan", "Heidi"},
	}
}

func TestGeneratedScheduleInvariants(t *testing.T) {
	table := fullTable()
	pools := fullPools()
	catalog := NewCatalog(pools)
	roles := DefaultRoles()

	engine := NewEngine(roles, catalog, NewTracker(), rand.New(rand.NewSource(5)))
	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	grid := ledger.Grid()
	require.Equal(t, table.Dates, grid.Dates)
	require.Equal(t, RoleNames(roles), grid.Roles)

	availableOn := make(map[string]map[string]bool)
	for di, date := range table.Dates {
		set := make(map[string]bool)
		for _, p := range table.AvailableOn(di) {
			set[p] = true
		}
		availableOn[date] = set
	}

	roleByName := make(map[string]models.RoleDefinition)
	for _, r := range roles {
		roleByName[r.Name] = r
	}

	tally := make(map[string]map[string]int)
	for di, date := range grid.Dates {
		used := make(map[string]string) // person -> role
		for ri, role := range grid.Roles {
			person := grid.Cells[ri][di]
			if person == models.Unassigned {
				continue
			}

			// No person fills two roles on one date.
			prev, dup := used[person]
			require.False(t, dup, "%s fills both %s and %s on %s", person, prev, role, date)
			used[person] = role

			// Assignee was available and qualified.
			require.True(t, availableOn[date][person], "%s not available on %s", person, date)
			require.True(t, catalog.Qualified(roleByName[role].Pool, person))

			// Exclusivity partners differ.
			for _, other := range roleByName[role].Excludes {
				for oi, name := range grid.Roles {
					if name == other {
						require.NotEqual(t, person, grid.Cells[oi][di])
					}
				}
			}

			if tally[role] == nil {
				tally[role] = make(map[string]int)
			}
			tally[role][person]++
		}
	}

	// Tracker counts equal the ledger tallies exactly.
	for _, role := range grid.Roles {
		for _, row := range table.Rows {
			require.Equal(t, tally[role][row.Name], engine.Tracker().Count(role, row.Name),
				"count mismatch for (%s, %s)", role, row.Name)
		}
	}
}

func TestHistorySeedingCarriesCounts(t *testing.T) {
	history := &models.ScheduleGrid{
		Roles: []string{"vocal_main"},
		Dates: []string{"05/01", "12/01"},
		Cells: [][]string{{"Alice", "Alice"}},
	}
	tracker := NewTrackerFromGrid(history)
	require.Equal(t, 2, tracker.Count("vocal_main", "Alice"))

	table := &models.AvailabilityTable{
		Dates: []string{"19/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Alice", Available: []bool{true}},
			{Name: "Bob", Available: []bool{true}},
		},
	}
	engine := newTestEngine(leadOnly(), map[string][]string{"vocal_main": {"Alice", "Bob"}}, tracker, 3)

	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	// Bob has never served; the seeded history outweighs Alice.
	require.Equal(t, "Bob", ledger.AssignmentsOf("vocal_main")[0].Person)
}

func TestNoAvailablePeopleLeavesDateEmpty(t *testing.T) {
	table := &models.AvailabilityTable{
		Dates: []string{"05/01"},
		Rows: []models.AvailabilityRow{
			{Name: "Alice", Available: []bool{false}},
		},
	}
	engine := newTestEngine(DefaultRoles(), fullPools(), nil, 1)

	ledger, err := engine.Generate(table)
	require.NoError(t, err)

	grid := ledger.Grid()
	for ri := range grid.Roles {
		require.Equal(t, models.Unassigned, grid.Cells[ri][0])
	}
	require.Len(t, engine.Gaps, len(grid.Roles))
	for _, gap := range engine.Gaps {
		require.True(t, gap.NoneAvailable)
	}
}
