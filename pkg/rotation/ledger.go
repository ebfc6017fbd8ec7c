package rotation

import (
	"github.com/joshuamachine/rotation-api-go/pkg/models"
)

// Slot is one (date, person) entry in a role's row of the schedule.
type Slot struct {
	Date   string
	Person string
}

// Ledger accumulates per-date assignment maps into the final schedule.
// It is purely additive during generation and preserves the input date order
// in every materialization.
type Ledger struct {
	roles []string
	dates []string
	slots map[string][]string // role -> person per appended date
}

// NewLedger creates an empty ledger for the given roles in priority order.
func NewLedger(roles []string) *Ledger {
	l := &Ledger{
		roles: roles,
		slots: make(map[string][]string, len(roles)),
	}
	return l
}

// Append records one date's role→person map. Roles absent from the map get
// an unassigned slot, so every (date, role) pair has exactly one cell.
func (l *Ledger) Append(date string, assignments map[string]string) {
	l.dates = append(l.dates, date)
	for _, role := range l.roles {
		l.slots[role] = append(l.slots[role], assignments[role])
	}
}

// Dates returns the appended date labels in insertion order.
func (l *Ledger) Dates() []string {
	return l.dates
}

// AssignmentsOf returns a role's row as an ordered (date, person) sequence.
func (l *Ledger) AssignmentsOf(role string) []Slot {
	row := l.slots[role]
	out := make([]Slot, len(row))
	for i, person := range row {
		out[i] = Slot{Date: l.dates[i], Person: person}
	}
	return out
}

// Grid materializes the ledger as the role×date grid that the persistence
// and history-seeding contracts are built on.
func (l *Ledger) Grid() *models.ScheduleGrid {
	grid := &models.ScheduleGrid{
		Roles: append([]string(nil), l.roles...),
		Dates: append([]string(nil), l.dates...),
		Cells: make([][]string, len(l.roles)),
	}
	for i, role := range l.roles {
		grid.Cells[i] = append([]string(nil), l.slots[role]...)
	}
	return grid
}
