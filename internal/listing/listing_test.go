package listing

import (
	"testing"
	"time"

	"github.com/nhle/lacquer/internal/geo"
	"github.com/nhle/lacquer/internal/model"
)

func task(desc string, opts ...func(*model.Task)) model.Task {
	t := model.Task{ID: desc, Description: desc, ProjectID: "p1"}
	for _, o := range opts {
		o(&t)
	}
	return t
}

func at(lat, lng float64) func(*model.Task) {
	return func(t *model.Task) {
		id := geo.FormatCoordinate(geo.Coordinate{Lat: lat, Lng: lng})
		t.LocationID = &id
		t.Location = &model.LocationRef{ID: id, Latitude: lat, Longitude: lng}
	}
}

func due(s string) func(*model.Task) {
	return func(t *model.Task) {
		d, err := time.ParseInLocation(model.DateLayout, s, time.Local)
		if err != nil {
			panic(err)
		}
		t.DueDate = &d
	}
}

func priority(p model.Priority) func(*model.Task) {
	return func(t *model.Task) { t.Priority = p }
}

func completed(t *model.Task) { t.IsCompleted = true }

func project(id string) func(*model.Task) {
	return func(t *model.Task) { t.ProjectID = id }
}

func descriptions(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Description
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProximityFilter(t *testing.T) {
	origin := geo.Coordinate{}
	tasks := []model.Task{
		task("near", at(0, 0.0008)),
		task("far", at(0, 0.0012)),
		task("nowhere"),
	}

	st := Initial(true, &origin)
	if st.Filter != FilterProximity {
		t.Fatalf("Initial filter = %q, want proximity", st.Filter)
	}

	got := descriptions(Apply(tasks, st).Tasks)
	if want := []string{"near"}; !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestProximityWithoutPositionMatchesNothing(t *testing.T) {
	st := State{Filter: FilterProximity, Sort: SortAlphabetical}
	res := Apply([]model.Task{task("a", at(0, 0))}, st)
	if len(res.Tasks) != 0 {
		t.Errorf("expected no tasks, got %v", descriptions(res.Tasks))
	}
	if !res.Filtered {
		t.Error("expected result to be filtered")
	}
}

func TestInitialWithoutPreferenceOrPosition(t *testing.T) {
	pos := &geo.Coordinate{Lat: 1, Lng: 1}
	if st := Initial(false, pos); st.Filter != FilterNone {
		t.Errorf("Initial(false) filter = %q, want none", st.Filter)
	}
	if st := Initial(true, nil); st.Filter != FilterNone {
		t.Errorf("Initial(true, nil) filter = %q, want none", st.Filter)
	}
}

func TestSorts(t *testing.T) {
	tests := []struct {
		name  string
		sort  Sort
		tasks []model.Task
		want  []string
	}{
		{
			name: "due date ascending, none last",
			sort: SortDueDate,
			tasks: []model.Task{
				task("march", due("2024-03-05")),
				task("none"),
				task("january", due("2024-01-10")),
			},
			want: []string{"january", "march", "none"},
		},
		{
			name: "priority descending, none last",
			sort: SortPriority,
			tasks: []model.Task{
				task("low", priority(model.PriorityLow)),
				task("none"),
				task("high", priority(model.PriorityHigh)),
				task("medium", priority(model.PriorityMedium)),
			},
			want: []string{"high", "medium", "low", "none"},
		},
		{
			name: "priority ties broken alphabetically",
			sort: SortPriority,
			tasks: []model.Task{
				task("b", priority(model.PriorityHigh)),
				task("a", priority(model.PriorityHigh)),
			},
			want: []string{"a", "b"},
		},
		{
			name:  "alphabetical uses collation",
			sort:  SortAlphabetical,
			tasks: []model.Task{task("banana"), task("Apple"), task("cherry"), task("apple")},
			want:  []string{"apple", "Apple", "banana", "cherry"},
		},
		{
			name: "due date ties broken alphabetically",
			sort: SortDueDate,
			tasks: []model.Task{
				task("z", due("2024-01-01")),
				task("y", due("2024-01-01")),
			},
			want: []string{"y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := descriptions(Apply(tt.tasks, State{Sort: tt.sort}).Tasks)
			if !equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProximitySort(t *testing.T) {
	pos := &geo.Coordinate{}
	tasks := []model.Task{
		task("none"),
		task("far", at(0, 0.01)),
		task("close", at(0, 0.001)),
		task("also none"),
	}

	got := descriptions(Apply(tasks, State{Sort: SortProximity, Position: pos}).Tasks)
	want := []string{"close", "far", "also none", "none"}
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestToggles(t *testing.T) {
	st := State{Sort: SortAlphabetical}

	st = st.ToggleProject("p1")
	if st.Filter != FilterProject || st.Value != "p1" {
		t.Fatalf("after ToggleProject: %+v", st)
	}
	st = st.ToggleLocation("l1")
	if st.Filter != FilterLocation || st.Value != "l1" {
		t.Fatalf("after ToggleLocation: %+v", st)
	}
	st = st.ToggleLocation("l1")
	if st.Active() {
		t.Fatalf("expected toggling same location to clear, got %+v", st)
	}

	st = st.ToggleProximity()
	if st.Filter != FilterNone {
		t.Errorf("proximity without position should not activate, got %+v", st)
	}
	st.Position = &geo.Coordinate{}
	st = st.ToggleProximity()
	if st.Filter != FilterProximity {
		t.Errorf("expected proximity filter, got %+v", st)
	}
	st = st.ToggleProximity()
	if st.Filter != FilterNone {
		t.Errorf("expected proximity to toggle off, got %+v", st)
	}
}

func TestCycleSort(t *testing.T) {
	st := State{Sort: SortAlphabetical}
	var seen []Sort
	for i := 0; i < 4; i++ {
		st = st.CycleSort()
		seen = append(seen, st.Sort)
	}
	want := []Sort{SortPriority, SortDueDate, SortProximity, SortAlphabetical}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("cycle step %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestCompletedAndCounts(t *testing.T) {
	tasks := []model.Task{
		task("open a"),
		task("open b", project("p2")),
		task("done", completed),
	}

	res := Apply(tasks, State{Sort: SortAlphabetical})
	if got := descriptions(res.Tasks); !equal(got, []string{"open a", "open b"}) {
		t.Errorf("hidden completed: got %v", got)
	}

	res = Apply(tasks, State{Sort: SortAlphabetical, ShowCompleted: true})
	if len(res.Tasks) != 3 {
		t.Errorf("show completed: got %d tasks, want 3", len(res.Tasks))
	}

	res = Apply(tasks, State{Sort: SortAlphabetical, ShowCompleted: true}.ToggleProject("p2"))
	if res.Total != 2 || res.Matching != 1 {
		t.Errorf("counts = %d of %d, want 1 of 2", res.Matching, res.Total)
	}
	if got := res.Summary(); got != "Showing 1 of 2 tasks" {
		t.Errorf("Summary() = %q", got)
	}

	empty := Apply(tasks, State{}.ToggleProject("missing"))
	if empty.EmptyMessage() != "No tasks match this filter." {
		t.Errorf("EmptyMessage() = %q", empty.EmptyMessage())
	}
}

func TestParse(t *testing.T) {
	if _, err := ParseFilter("bogus"); err == nil {
		t.Error("expected error for unknown filter")
	}
	if f, err := ParseFilter("Project"); err != nil || f != FilterProject {
		t.Errorf("ParseFilter(Project) = %q, %v", f, err)
	}
	if s, err := ParseSort(""); err != nil || s != SortAlphabetical {
		t.Errorf("ParseSort(\"\") = %q, %v", s, err)
	}
	if _, err := ParseSort("random"); err == nil {
		t.Error("expected error for unknown sort")
	}
}
