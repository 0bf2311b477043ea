// Package board turns a drag-and-drop gesture into the store updates that
// produce it.
package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joseda-hg/lazyboard/internal/model"
	"github.com/Joseda-hg/lazyboard/internal/store"
)

var ErrUnknownTask = errors.New("unknown task")

// Lanes holds the tasks of each status in display order.
type Lanes map[model.Status][]model.Task

// Snapshot groups tasks per lane, normalizing them first so that the index of
// a task in its lane equals its order.
func Snapshot(tasks []model.Task) Lanes {
	lanes := make(Lanes, len(model.Statuses))
	for _, status := range model.Statuses {
		lanes[status] = []model.Task{}
	}
	for _, task := range store.Normalize(tasks) {
		if !task.Status.Valid() {
			continue
		}
		lanes[task.Status] = append(lanes[task.Status], task)
	}
	return lanes
}

// Locate returns the lane and index of id.
func (l Lanes) Locate(id string) (model.Status, int, bool) {
	for _, status := range model.Statuses {
		for i, task := range l[status] {
			if task.ID == id {
				return status, i, true
			}
		}
	}
	return "", -1, false
}

// DropTarget is where a dragged task lands. An empty BeforeID means the end
// of Lane; otherwise the task takes the position BeforeID holds now, in
// BeforeID's lane.
type DropTarget struct {
	Lane     model.Status
	BeforeID string
}

// Move is one store update of a plan.
type Move struct {
	ID     string
	Status model.Status
	Order  int
}

// Plan computes the updates that move movedID to target. Tasks keep their
// place unless the removal or insertion shifts them, and those are the only
// ones besides the moved task that get a Move.
//
// Moves for the source lane come first, then the target lane, each by
// ascending index. Applied in that order through Store.Update the result
// equals the planned layout.
func Plan(tasks []model.Task, movedID string, target DropTarget) ([]Move, error) {
	lanes := Snapshot(tasks)

	source, from, ok := lanes.Locate(movedID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, movedID)
	}

	lane := target.Lane
	var to int
	if target.BeforeID != "" {
		status, index, ok := lanes.Locate(target.BeforeID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTask, target.BeforeID)
		}
		lane, to = status, index
	} else {
		if !lane.Valid() {
			return nil, fmt.Errorf("unknown lane %q", target.Lane)
		}
		to = len(lanes[lane])
		if lane == source {
			to--
		}
	}

	if lane == source && to == from {
		return nil, nil
	}

	moved := lanes[source][from]
	remaining := make([]model.Task, 0, len(lanes[source]))
	remaining = append(remaining, lanes[source][:from]...)
	remaining = append(remaining, lanes[source][from+1:]...)

	if lane == source {
		return diffLane(nil, lanes[source], insertAt(remaining, to, moved), source), nil
	}

	moves := diffLane(nil, lanes[source], remaining, source)
	moves = diffLane(moves, lanes[lane], insertAt(lanes[lane], to, moved), lane)
	return moves, nil
}

// diffLane appends a Move for every task of after whose lane or index differs
// from before.
func diffLane(moves []Move, before, after []model.Task, status model.Status) []Move {
	for i, task := range after {
		if i < len(before) && before[i].ID == task.ID && task.Status == status {
			continue
		}
		moves = append(moves, Move{ID: task.ID, Status: status, Order: i})
	}
	return moves
}

func insertAt(lane []model.Task, index int, task model.Task) []model.Task {
	if index > len(lane) {
		index = len(lane)
	}
	result := make([]model.Task, 0, len(lane)+1)
	result = append(result, lane[:index]...)
	result = append(result, task)
	result = append(result, lane[index:]...)
	return result
}

type Updater interface {
	Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error)
}

// Apply issues one update per move and stops at the first failure.
func Apply(ctx context.Context, updater Updater, moves []Move) error {
	for _, move := range moves {
		status := move.Status
		order := move.Order
		if _, err := updater.Update(ctx, move.ID, model.TaskPatch{Status: &status, Order: &order}); err != nil {
			return fmt.Errorf("move %s: %w", move.ID, err)
		}
	}
	return nil
}

type Board interface {
	Updater
	List() []model.Task
}

// Drop plans and applies moving movedID to target.
func Drop(ctx context.Context, b Board, movedID string, target DropTarget) error {
	moves, err := Plan(b.List(), movedID, target)
	if err != nil {
		return err
	}
	return Apply(ctx, b, moves)
}

// Up targets the slot of the task above id in its lane.
func Up(lanes Lanes, id string) (DropTarget, bool) {
	status, index, ok := lanes.Locate(id)
	if !ok || index == 0 {
		return DropTarget{}, false
	}
	return DropTarget{Lane: status, BeforeID: lanes[status][index-1].ID}, true
}

// Down targets the slot of the task below id in its lane.
func Down(lanes Lanes, id string) (DropTarget, bool) {
	status, index, ok := lanes.Locate(id)
	if !ok || index == len(lanes[status])-1 {
		return DropTarget{}, false
	}
	return DropTarget{Lane: status, BeforeID: lanes[status][index+1].ID}, true
}

// Left targets the end of the lane before id's lane.
func Left(lanes Lanes, id string) (DropTarget, bool) {
	return adjacent(lanes, id, -1)
}

// Right targets the end of the lane after id's lane.
func Right(lanes Lanes, id string) (DropTarget, bool) {
	return adjacent(lanes, id, 1)
}

func adjacent(lanes Lanes, id string, step int) (DropTarget, bool) {
	status, _, ok := lanes.Locate(id)
	if !ok {
		return DropTarget{}, false
	}
	rank := status.Rank() + step
	if rank < 0 || rank >= len(model.Statuses) {
		return DropTarget{}, false
	}
	return DropTarget{Lane: model.Statuses[rank]}, true
}
