package listing

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
)

// Result is the ordered view of a task list.
type Result struct {
	Tasks []model.Task

	// Total counts uncompleted tasks before filtering, Matching after.
	Total    int
	Matching int

	// Filtered is true when a filter narrowed the list.
	Filtered bool
}

// Summary renders the "Showing N of M tasks" line.
func (r Result) Summary() string {
	return fmt.Sprintf("Showing %d of %d tasks", r.Matching, r.Total)
}

// EmptyMessage is shown when the result has no tasks.
func (r Result) EmptyMessage() string {
	if r.Filtered {
		return "No tasks match this filter."
	}
	return "No tasks yet. Create your first task above!"
}

// Apply filters and sorts tasks according to st. The input is not modified.
func Apply(tasks []model.Task, st State) Result {
	base := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if st.ShowCompleted || !t.IsCompleted {
			base = append(base, t)
		}
	}

	res := Result{Filtered: st.Active()}
	out := make([]model.Task, 0, len(base))
	for _, t := range base {
		if !t.IsCompleted {
			res.Total++
		}
		if !matches(t, st) {
			continue
		}
		if !t.IsCompleted {
			res.Matching++
		}
		out = append(out, t)
	}

	sortTasks(out, st.Sort, st.Position)
	res.Tasks = out
	return res
}

func matches(t model.Task, st State) bool {
	switch st.Filter {
	case FilterProject:
		return st.Value == "" || t.ProjectID == st.Value
	case FilterLocation:
		return st.Value == "" || (t.LocationID != nil && *t.LocationID == st.Value)
	case FilterProximity:
		if st.Position == nil || t.Location == nil {
			return false
		}
		return geo.Nearby(*st.Position, t.Location.Coordinate())
	default:
		return true
	}
}

func sortTasks(tasks []model.Task, key Sort, pos *geo.Coordinate) {
	col := collate.New(language.English)
	byName := func(a, b model.Task) int {
		return col.CompareString(a.Description, b.Description)
	}

	var less func(a, b model.Task) bool
	switch key {
	case SortPriority:
		less = func(a, b model.Task) bool {
			if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
				return ra > rb
			}
			return byName(a, b) < 0
		}
	case SortDueDate:
		less = func(a, b model.Task) bool {
			switch {
			case a.DueDate == nil && b.DueDate == nil:
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			case !a.DueDate.Equal(*b.DueDate):
				return a.DueDate.Before(*b.DueDate)
			}
			return byName(a, b) < 0
		}
	case SortProximity:
		less = func(a, b model.Task) bool {
			da, db := distance(a, pos), distance(b, pos)
			if da != db {
				return da < db
			}
			return byName(a, b) < 0
		}
	default:
		less = func(a, b model.Task) bool {
			return byName(a, b) < 0
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return less(tasks[i], tasks[j])
	})
}

// distance is +Inf for tasks without a location or when the position is
// unknown, which sorts them last.
func distance(t model.Task, pos *geo.Coordinate) float64 {
	if pos == nil || t.Location == nil {
		return math.Inf(1)
	}
	return geo.Distance(*pos, t.Location.Coordinate())
}
