package board

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/Joseda-hg/lazyboard/internal/kv"
	"github.com/Joseda-hg/lazyboard/internal/model"
	"github.com/Joseda-hg/lazyboard/internal/store"
)

func TestDropWithinLane(t *testing.T) {
	cases := []struct {
		name   string
		moved  string
		target DropTarget
		want   []string
	}{
		{name: "down onto later task", moved: "A", target: DropTarget{BeforeID: "C"}, want: []string{"B", "C", "A", "D"}},
		{name: "up to the top", moved: "D", target: DropTarget{BeforeID: "A"}, want: []string{"D", "A", "B", "C"}},
		{name: "end of lane", moved: "B", target: DropTarget{Lane: model.StatusTodo}, want: []string{"A", "C", "D", "B"}},
		{name: "onto itself", moved: "B", target: DropTarget{BeforeID: "B"}, want: []string{"A", "B", "C", "D"}},
		{name: "last to end", moved: "D", target: DropTarget{Lane: model.StatusTodo}, want: []string{"A", "B", "C", "D"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestBoard(t, map[model.Status][]string{model.StatusTodo: {"A", "B", "C", "D"}})

			if err := Drop(context.Background(), s, tc.moved, tc.target); err != nil {
				t.Fatalf("drop: %v", err)
			}
			assertLanes(t, s, map[model.Status][]string{model.StatusTodo: tc.want})
		})
	}
}

func TestDropAcrossLanes(t *testing.T) {
	cases := []struct {
		name   string
		moved  string
		target DropTarget
		want   map[model.Status][]string
	}{
		{
			name:   "before a task in another lane",
			moved:  "A",
			target: DropTarget{Lane: model.StatusTodo, BeforeID: "Y"},
			want: map[model.Status][]string{
				model.StatusTodo:       {"B"},
				model.StatusInProgress: {"X", "A", "Y"},
			},
		},
		{
			name:   "end of another lane",
			moved:  "Y",
			target: DropTarget{Lane: model.StatusDone},
			want: map[model.Status][]string{
				model.StatusTodo:       {"A", "B"},
				model.StatusInProgress: {"X"},
				model.StatusDone:       {"Y"},
			},
		},
		{
			name:   "top of another lane",
			moved:  "B",
			target: DropTarget{BeforeID: "X"},
			want: map[model.Status][]string{
				model.StatusTodo:       {"A"},
				model.StatusInProgress: {"B", "X", "Y"},
			},
		},
		{
			name:   "only task leaves its lane",
			moved:  "X",
			target: DropTarget{BeforeID: "A"},
			want: map[model.Status][]string{
				model.StatusTodo:       {"X", "A", "B"},
				model.StatusInProgress: {},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := map[model.Status][]string{
				model.StatusTodo:       {"A", "B"},
				model.StatusInProgress: {"X", "Y"},
			}
			if tc.moved == "X" {
				layout[model.StatusInProgress] = []string{"X"}
			}
			s := newTestBoard(t, layout)

			if err := Drop(context.Background(), s, tc.moved, tc.target); err != nil {
				t.Fatalf("drop: %v", err)
			}
			assertLanes(t, s, tc.want)
		})
	}
}

func TestPlanOnlyTouchesShiftedTasks(t *testing.T) {
	s := newTestBoard(t, map[model.Status][]string{
		model.StatusTodo:       {"A", "B", "C", "D"},
		model.StatusInProgress: {"X", "Y"},
	})

	moves, err := Plan(s.List(), "C", DropTarget{BeforeID: "D"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []Move{
		{ID: "D", Status: model.StatusTodo, Order: 2},
		{ID: "C", Status: model.StatusTodo, Order: 3},
	}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}

	moves, err = Plan(s.List(), "D", DropTarget{BeforeID: "Y"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want = []Move{
		{ID: "D", Status: model.StatusInProgress, Order: 1},
		{ID: "Y", Status: model.StatusInProgress, Order: 2},
	}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Fatalf("cross-lane plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanNoopWritesNothing(t *testing.T) {
	s := newTestBoard(t, map[model.Status][]string{model.StatusTodo: {"A", "B"}})

	moves, err := Plan(s.List(), "A", DropTarget{BeforeID: "A"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(moves) != 0 {
		t.Fatalf("expected no moves, got %+v", moves)
	}
}

func TestPlanUnknownTasks(t *testing.T) {
	s := newTestBoard(t, map[model.Status][]string{model.StatusTodo: {"A"}})

	if _, err := Plan(s.List(), "missing", DropTarget{Lane: model.StatusDone}); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask for moved task, got %v", err)
	}
	if _, err := Plan(s.List(), "A", DropTarget{BeforeID: "missing"}); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask for target, got %v", err)
	}
	if _, err := Plan(s.List(), "A", DropTarget{Lane: "blocked"}); err == nil {
		t.Fatalf("expected unknown lane to fail")
	}
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	updater := &failingUpdater{failOn: "B"}
	moves := []Move{
		{ID: "A", Status: model.StatusTodo, Order: 0},
		{ID: "B", Status: model.StatusTodo, Order: 1},
		{ID: "C", Status: model.StatusTodo, Order: 2},
	}

	if err := Apply(context.Background(), updater, moves); err == nil {
		t.Fatalf("expected apply to fail")
	}
	if diff := cmp.Diff([]string{"A", "B"}, updater.calls); diff != "" {
		t.Fatalf("unexpected calls (-want +got):\n%s", diff)
	}
}

func TestKeyboardTargets(t *testing.T) {
	s := newTestBoard(t, map[model.Status][]string{
		model.StatusTodo:       {"A", "B"},
		model.StatusInProgress: {"X"},
		model.StatusDone:       {"Z"},
	})
	lanes := Snapshot(s.List())

	if _, ok := Up(lanes, "A"); ok {
		t.Fatalf("expected no up move for the first task")
	}
	if target, ok := Up(lanes, "B"); !ok || target.BeforeID != "A" {
		t.Fatalf("expected B to move before A, got %+v %v", target, ok)
	}
	if target, ok := Down(lanes, "A"); !ok || target.BeforeID != "B" {
		t.Fatalf("expected A to take B's slot, got %+v %v", target, ok)
	}
	if _, ok := Down(lanes, "B"); ok {
		t.Fatalf("expected no down move for the last task")
	}
	if _, ok := Left(lanes, "A"); ok {
		t.Fatalf("expected no lane left of todo")
	}
	if target, ok := Right(lanes, "A"); !ok || target != (DropTarget{Lane: model.StatusInProgress}) {
		t.Fatalf("expected end of in-progress, got %+v %v", target, ok)
	}
	if target, ok := Left(lanes, "Z"); !ok || target != (DropTarget{Lane: model.StatusInProgress}) {
		t.Fatalf("expected end of in-progress, got %+v %v", target, ok)
	}
	if _, ok := Right(lanes, "Z"); ok {
		t.Fatalf("expected no lane right of done")
	}

	target, _ := Down(lanes, "A")
	if err := Drop(context.Background(), s, "A", target); err != nil {
		t.Fatalf("drop: %v", err)
	}
	assertLanes(t, s, map[model.Status][]string{
		model.StatusTodo:       {"B", "A"},
		model.StatusInProgress: {"X"},
		model.StatusDone:       {"Z"},
	})
}

func TestRandomDropsMatchIntendedLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for round := 0; round < 60; round++ {
		layout := map[model.Status][]string{}
		var ids []string
		for i := 0; i < 2+rng.Intn(8); i++ {
			id := fmt.Sprintf("t%02d", i)
			status := model.Statuses[rng.Intn(len(model.Statuses))]
			layout[status] = append(layout[status], id)
			ids = append(ids, id)
		}
		s := newTestBoard(t, layout)

		for step := 0; step < 5; step++ {
			moved := ids[rng.Intn(len(ids))]
			var target DropTarget
			if rng.Intn(3) == 0 {
				target = DropTarget{Lane: model.Statuses[rng.Intn(len(model.Statuses))]}
			} else {
				target = DropTarget{BeforeID: ids[rng.Intn(len(ids))]}
			}

			want := expectedLayout(currentLayout(s), moved, target)
			if err := Drop(context.Background(), s, moved, target); err != nil {
				t.Fatalf("round %d step %d: drop: %v", round, step, err)
			}
			assertLanes(t, s, want)

			tasks := s.List()
			if diff := cmp.Diff(tasks, store.Normalize(tasks)); diff != "" {
				t.Fatalf("round %d step %d: state not stable under normalization:\n%s", round, step, diff)
			}
		}
	}
}

// expectedLayout moves an id between plain string lanes.
func expectedLayout(layout map[model.Status][]string, moved string, target DropTarget) map[model.Status][]string {
	find := func(id string) (model.Status, int) {
		for status, ids := range layout {
			for i, candidate := range ids {
				if candidate == id {
					return status, i
				}
			}
		}
		return "", -1
	}

	source, from := find(moved)
	lane, to := target.Lane, len(layout[target.Lane])
	if target.BeforeID != "" {
		lane, to = find(target.BeforeID)
	} else if lane == source {
		to--
	}

	result := map[model.Status][]string{}
	for status, ids := range layout {
		result[status] = append([]string{}, ids...)
	}
	result[source] = append(result[source][:from:from], result[source][from+1:]...)
	rest := result[lane]
	if to > len(rest) {
		to = len(rest)
	}
	inserted := append([]string{}, rest[:to]...)
	inserted = append(inserted, moved)
	result[lane] = append(inserted, rest[to:]...)
	return result
}

func currentLayout(s *store.Store) map[model.Status][]string {
	layout := map[model.Status][]string{}
	for status, tasks := range Snapshot(s.List()) {
		ids := []string{}
		for _, task := range tasks {
			ids = append(ids, task.ID)
		}
		layout[status] = ids
	}
	return layout
}

func assertLanes(t *testing.T, s *store.Store, want map[model.Status][]string) {
	t.Helper()
	got := currentLayout(s)
	for _, status := range model.Statuses {
		expected := want[status]
		if expected == nil {
			expected = []string{}
		}
		if diff := cmp.Diff(expected, got[status]); diff != "" {
			t.Fatalf("lane %s mismatch (-want +got):\n%s", status, diff)
		}
		for i, task := range Snapshot(s.List())[status] {
			if task.Order != i {
				t.Fatalf("lane %s: %s has order %d at index %d", status, task.ID, task.Order, i)
			}
		}
	}
}

// newTestBoard builds a store whose task ids are the given names, created
// lane by lane in the listed order.
func newTestBoard(t *testing.T, layout map[model.Status][]string) *store.Store {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	current := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	nextID := ""

	s, err := store.Open(context.Background(), kv.NewMemory(), store.Options{
		Logger: logger,
		Now: func() time.Time {
			current = current.Add(time.Second)
			return current
		},
		NewID: func() string { return nextID },
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	for _, status := range model.Statuses {
		for _, id := range layout[status] {
			nextID = id
			if _, err := s.Create(context.Background(), model.TaskInput{Title: id, Status: status}); err != nil {
				t.Fatalf("create %s: %v", id, err)
			}
		}
	}
	return s
}

type failingUpdater struct {
	failOn string
	calls  []string
}

func (u *failingUpdater) Update(_ context.Context, id string, _ model.TaskPatch) (model.Task, error) {
	u.calls = append(u.calls, id)
	if id == u.failOn {
		return model.Task{}, errors.New("write failed")
	}
	return model.Task{ID: id}, nil
}
