package seating

// Roster holds the students to place and the constraints attached to
// them. Students are opaque unique names; duplicate or unknown names
// in the constraint fields are accepted silently.
type Roster struct {
	Students []string

	// Apart lists mutual-exclusion groups. Members of a group never
	// share a desk and never occupy edge-adjacent desks.
	Apart [][]string

	// Large students consume two units of desk capacity instead of one.
	Large []string

	// PinnedRows and PinnedColumns fix a student to a row or column
	// (zero-indexed). A student present in both maps is pinned to a
	// single desk.
	PinnedRows    map[string]int
	PinnedColumns map[string]int
}

func (r Roster) largeSet() map[string]bool {
	set := make(map[string]bool, len(r.Large))
	for _, name := range r.Large {
		set[name] = true
	}
	return set
}

// conflictSets expands the apart groups into a per-student lookup of
// everyone that student must avoid.
func (r Roster) conflictSets() map[string]map[string]bool {
	conflicts := make(map[string]map[string]bool)
	for _, group := range r.Apart {
		for _, name := range group {
			set := conflicts[name]
			if set == nil {
				set = make(map[string]bool)
				conflicts[name] = set
			}
			for _, other := range group {
				if other != name {
					set[other] = true
				}
			}
		}
	}
	return conflicts
}
