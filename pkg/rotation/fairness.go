package rotation

import (
	"github.com/joshuamachine/rotation-api-go/pkg/models"
)

// Tracker counts how many times each person has filled each role. It is the
// single accumulator threaded through a generation run: counts only ever
// increase, and they increase exactly once per successful assignment.
type Tracker struct {
	counts map[string]map[string]int // role -> person -> count
}

// NewTracker returns an empty tracker (every count is zero).
func NewTracker() *Tracker {
	return &Tracker{counts: make(map[string]map[string]int)}
}

// NewTrackerFromGrid seeds a tracker by tallying every filled slot of a
// previously produced schedule grid. This is how a run resumes on top of a
// saved schedule.
func NewTrackerFromGrid(grid *models.ScheduleGrid) *Tracker {
	t := NewTracker()
	if grid == nil {
		return t
	}
	for ri, role := range grid.Roles {
		if ri >= len(grid.Cells) {
			break
		}
		for _, person := range grid.Cells[ri] {
			if person != models.Unassigned {
				t.Record(role, person)
			}
		}
	}
	return t
}

// Count returns the current count for one (role, person) pair.
func (t *Tracker) Count(role, person string) int {
	return t.counts[role][person]
}

// CountsFor returns the current count for each candidate in the given role,
// zero for anyone never assigned.
func (t *Tracker) CountsFor(role string, candidates []string) map[string]int {
	out := make(map[string]int, len(candidates))
	for _, p := range candidates {
		out[p] = t.counts[role][p]
	}
	return out
}

// MinimalCandidates returns the subset of candidates whose count for the role
// equals the minimum count among the candidates, preserving input order.
// Empty input yields empty output.
func (t *Tracker) MinimalCandidates(role string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}
	byRole := t.counts[role]
	min := byRole[candidates[0]]
	for _, p := range candidates[1:] {
		if c := byRole[p]; c < min {
			min = c
		}
	}
	var out []string
	for _, p := range candidates {
		if byRole[p] == min {
			out = append(out, p)
		}
	}
	return out
}

// Record increments the (role, person) count by exactly one. Every
// successful assignment must call this exactly once.
func (t *Tracker) Record(role, person string) {
	byRole := t.counts[role]
	if byRole == nil {
		byRole = make(map[string]int)
		t.counts[role] = byRole
	}
	byRole[person]++
}

// TotalsByPerson sums each person's counts across all roles.
func (t *Tracker) TotalsByPerson() map[string]int {
	totals := make(map[string]int)
	for _, byRole := range t.counts {
		for person, n := range byRole {
			totals[person] += n
		}
	}
	return totals
}
