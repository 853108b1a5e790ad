// Package listing filters and sorts an in-memory task list for display.
package listing

import (
	"fmt"
	"strings"

	"github.com/nhle/lacquer/internal/geo"
)

// Filter is the kind of the active filter. The zero value shows all tasks.
type Filter string

const (
	FilterNone      Filter = ""
	FilterProject   Filter = "project"
	FilterLocation  Filter = "location"
	FilterProximity Filter = "proximity"
)

// Sort is the active sort key.
type Sort string

const (
	SortAlphabetical Sort = "a-z"
	SortPriority     Sort = "priority"
	SortDueDate      Sort = "due-date"
	SortProximity    Sort = "proximity"
)

// sortCycle is the order CycleSort steps through.
var sortCycle = []Sort{SortAlphabetical, SortPriority, SortDueDate, SortProximity}

// Label returns the display name of s.
func (s Sort) Label() string {
	switch s {
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due date"
	case SortProximity:
		return "Proximity"
	default:
		return "A-Z"
	}
}

// ParseFilter maps a query value to a Filter.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterNone, FilterProject, FilterLocation, FilterProximity:
		return f, nil
	default:
		return FilterNone, fmt.Errorf("unknown filter %q", s)
	}
}

// ParseSort maps a query value to a Sort. Empty means a-z.
func ParseSort(s string) (Sort, error) {
	switch v := Sort(strings.ToLower(strings.TrimSpace(s))); v {
	case "":
		return SortAlphabetical, nil
	case SortAlphabetical, SortPriority, SortDueDate, SortProximity:
		return v, nil
	default:
		return SortAlphabetical, fmt.Errorf("unknown sort %q", s)
	}
}

// State is the transient list view state. Exactly one filter (possibly
// none) and one sort are active at a time.
type State struct {
	Filter        Filter
	Value         string
	ShowCompleted bool
	Sort          Sort

	// Position is the user's current coordinate, if known.
	Position *geo.Coordinate
}

// Initial returns the starting state. The nearby filter is preselected when
// the user enabled it and a position is known.
func Initial(autoLocation bool, pos *geo.Coordinate) State {
	st := State{Sort: SortAlphabetical, Position: pos}
	if autoLocation && pos != nil {
		st.Filter = FilterProximity
	}
	return st
}

// Active reports whether a filter is applied.
func (s State) Active() bool {
	switch s.Filter {
	case FilterProject, FilterLocation:
		return s.Value != ""
	case FilterProximity:
		return true
	default:
		return false
	}
}

// ToggleProject filters by project id, or clears the filter when that
// project is already the active filter.
func (s State) ToggleProject(id string) State {
	return s.toggle(FilterProject, id)
}

// ToggleLocation filters by location id, or clears the filter when that
// location is already the active filter.
func (s State) ToggleLocation(id string) State {
	return s.toggle(FilterLocation, id)
}

// ToggleProximity switches the nearby filter on or off. Without a known
// position it cannot be switched on.
func (s State) ToggleProximity() State {
	if s.Filter == FilterProximity {
		return s.ClearFilter()
	}
	if s.Position == nil {
		return s
	}
	s.Filter, s.Value = FilterProximity, ""
	return s
}

func (s State) toggle(f Filter, value string) State {
	if value == "" || (s.Filter == f && s.Value == value) {
		return s.ClearFilter()
	}
	s.Filter, s.Value = f, value
	return s
}

// ClearFilter removes the active filter.
func (s State) ClearFilter() State {
	s.Filter, s.Value = FilterNone, ""
	return s
}

// ToggleCompleted flips whether completed tasks are shown.
func (s State) ToggleCompleted() State {
	s.ShowCompleted = !s.ShowCompleted
	return s
}

// CycleSort advances to the next sort key.
func (s State) CycleSort() State {
	for i, v := range sortCycle {
		if v == s.Sort {
			s.Sort = sortCycle[(i+1)%len(sortCycle)]
			return s
		}
	}
	s.Sort = SortAlphabetical
	return s
}
