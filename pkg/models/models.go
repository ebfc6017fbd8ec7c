package models

// Unassigned is the grid cell value for a slot no one could fill.
const Unassigned = ""

// RoleDefinition describes one logical role in the rotation.
// Pool names the qualification table the role draws from; several roles may
// share one pool. Excludes lists roles whose assignee for the same date must
// not be reused for this role.
type RoleDefinition struct {
	Name     string   `json:"name" yaml:"name"`
	Pool     string   `json:"pool" yaml:"pool"`
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`
}

// AvailabilityRow is one person's availability flags, aligned with the
// table's date columns.
type AvailabilityRow struct {
	Name      string `json:"name"`
	Available []bool `json:"available"`
}

// AvailabilityTable is the engine's availability input. Dates are opaque
// labels in caller-guaranteed chronological order; the engine never parses
// or reorders them.
type AvailabilityTable struct {
	Dates []string          `json:"dates"`
	Rows  []AvailabilityRow `json:"rows"`
}

// AvailableOn returns the people marked available for the date at column i,
// in row order.
func (t *AvailabilityTable) AvailableOn(i int) []string {
	var people []string
	for _, row := range t.Rows {
		if i < len(row.Available) && row.Available[i] {
			people = append(people, row.Name)
		}
	}
	return people
}

// ScheduleGrid is the role×date output shape: one row per role, one column
// per date, cell value = person name or Unassigned. The same shape is
// accepted back as history for fairness seeding.
type ScheduleGrid struct {
	Roles []string   `json:"roles"`
	Dates []string   `json:"dates"`
	Cells [][]string `json:"cells"` // Cells[roleIdx][dateIdx]
}

// CoverageGap records why a (date, role) slot stayed unassigned.
type CoverageGap struct {
	Date          string `json:"date"`
	Role          string `json:"role"`
	NoneAvailable bool   `json:"none_available"`
	Unqualified   int    `json:"unqualified,omitempty"`
	AlreadyUsed   int    `json:"already_used,omitempty"`
	Excluded      int    `json:"excluded,omitempty"`
}

// RotationInput is the JSON body of the rotation endpoint.
type RotationInput struct {
	Availability *AvailabilityTable  `json:"availability"`
	Pools        map[string][]string `json:"pools"`
	Roles        []RoleDefinition    `json:"roles,omitempty"`
	History      *ScheduleGrid       `json:"history,omitempty"`
	Seed         *int64              `json:"seed,omitempty"`
}

// RotationResponse is the rotation endpoint's result.
type RotationResponse struct {
	Schedule      *ScheduleGrid  `json:"schedule"`
	CoverageGaps  []CoverageGap  `json:"coverage_gaps,omitempty"`
	FairnessScore float64        `json:"fairness_score"`
	Assignments   map[string]int `json:"assignments"` // person -> total slots filled
}
