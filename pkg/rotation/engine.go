package rotation

import (
	"errors"
	"math/rand"

	"github.com/joshuamachine/rotation-api-go/pkg/models"
)

// ErrDataUnavailable is returned when generation is attempted without an
// availability table. It is the engine's only hard failure; everything else
// (empty pools, empty candidate sets) flows through as unassigned slots.
var ErrDataUnavailable = errors.New("no availability data supplied")

// Engine assigns people to roles date by date. Each date's outcome feeds the
// tracker that the next date reads, so generation is a strict left-to-right
// fold over the date columns. An Engine is owned by a single run and is not
// safe for concurrent use.
type Engine struct {
	roles   []models.RoleDefinition
	catalog *Catalog
	tracker *Tracker
	rng     *rand.Rand

	// Gaps collects every (date, role) slot left unassigned, with counts of
	// why each eliminated person fell out of the candidate set.
	Gaps []models.CoverageGap
}

// NewEngine builds an engine over the given roles (in priority order), a
// qualification catalog, a fairness tracker (empty or seeded from history),
// and a random source for tie-breaking. The source is injected so tests can
// pin the tie-break outcome.
func NewEngine(roles []models.RoleDefinition, catalog *Catalog, tracker *Tracker, rng *rand.Rand) *Engine {
	return &Engine{
		roles:   roles,
		catalog: catalog,
		tracker: tracker,
		rng:     rng,
	}
}

// Tracker exposes the engine's fairness state, read-only by convention once
// generation has finished.
func (e *Engine) Tracker() *Tracker {
	return e.tracker
}

// AssignDate runs one priority-ordered pass over the roles for a single date
// and returns the role→person map. Roles with no viable candidate are absent
// from the map (an unassigned slot, not a failure). Every pick is recorded in
// the tracker immediately, so later dates see it; within the one pass each
// role is visited exactly once.
func (e *Engine) AssignDate(date string, available []string) map[string]string {
	assignments := make(map[string]string, len(e.roles))
	assignedToday := make(map[string]bool, len(e.roles))

	for _, role := range e.roles {
		gap := models.CoverageGap{Date: date, Role: role.Name}

		var candidates []string
		for _, person := range available {
			if assignedToday[person] {
				gap.AlreadyUsed++
				continue
			}
			if !e.catalog.Qualified(role.Pool, person) {
				gap.Unqualified++
				continue
			}
			blocked := false
			for _, other := range role.Excludes {
				if assignments[other] == person {
					blocked = true
					break
				}
			}
			if blocked {
				gap.Excluded++
				continue
			}
			candidates = append(candidates, person)
		}

		if len(candidates) == 0 {
			if len(available) == 0 {
				gap.NoneAvailable = true
			}
			e.Gaps = append(e.Gaps, gap)
			continue
		}

		best := e.tracker.MinimalCandidates(role.Name, candidates)
		chosen := best[0]
		if len(best) > 1 {
			chosen = best[e.rng.Intn(len(best))]
		}

		assignments[role.Name] = chosen
		assignedToday[chosen] = true
		e.tracker.Record(role.Name, chosen)
	}

	return assignments
}

// Generate processes every date column in order and returns the completed
// ledger. The availability table's date order is trusted as chronological;
// the engine never reorders it.
func (e *Engine) Generate(table *models.AvailabilityTable) (*Ledger, error) {
	if table == nil {
		return nil, ErrDataUnavailable
	}

	ledger := NewLedger(RoleNames(e.roles))
	for i, date := range table.Dates {
		assignments := e.AssignDate(date, table.AvailableOn(i))
		ledger.Append(date, assignments)
	}
	return ledger, nil
}
