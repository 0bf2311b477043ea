// Package store owns the task collection: it validates and applies mutations,
// keeps every lane's order dense, and persists the whole collection as one JSON
// array under a single key of a kv medium.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Joseda-hg/lazyboard/internal/kv"
	"github.com/Joseda-hg/lazyboard/internal/model"
)

// DefaultKey is the storage key the collection is written under.
const DefaultKey = "lazyboard.tasks"

var ErrNotFound = errors.New("task not found")

type Options struct {
	Key    string
	Logger logrus.FieldLogger
	Now    func() time.Time
	NewID  func() string
}

type Store struct {
	medium kv.Store
	key    string
	log    logrus.FieldLogger
	now    func() time.Time
	newID  func() string

	mu    sync.Mutex
	tasks []model.Task
	last  time.Time
}

// Open loads the collection from medium. Absent or unreadable data yields an
// empty collection; only a failing medium is an error.
func Open(ctx context.Context, medium kv.Store, opts Options) (*Store, error) {
	if medium == nil {
		return nil, errors.New("store: medium is nil")
	}

	s := &Store{
		medium: medium,
		key:    strings.TrimSpace(opts.Key),
		log:    opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory collection with what the medium holds.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.medium.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	tasks := []model.Task{}
	if ok && strings.TrimSpace(raw) != "" {
		decoded, err := decodeTasks(raw)
		if err != nil {
			s.log.WithError(err).WithField("key", s.key).Warn("discarding unreadable persisted tasks")
		} else {
			tasks = decoded
		}
	}

	for _, status := range model.Statuses {
		normalizeLane(tasks, status)
	}
	SortTasks(tasks)

	s.tasks = tasks
	s.last = time.Time{}
	for _, task := range tasks {
		if task.UpdatedAt.After(s.last) {
			s.last = task.UpdatedAt
		}
	}

	s.log.WithFields(logrus.Fields{"key": s.key, "tasks": len(tasks)}).Debug("loaded tasks")
	return nil
}

// List returns every task sorted by lane rank, order, then most recent update.
func (s *Store) List() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

func (s *Store) Get(id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return cloneTask(s.tasks[i]), nil
}

func (s *Store) Create(ctx context.Context, input model.TaskInput) (model.Task, error) {
	input = input.Normalize()
	if err := input.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if indexOf(s.tasks, id) >= 0 {
		return model.Task{}, fmt.Errorf("duplicate task id %q", id)
	}

	next := cloneTasks(s.tasks)
	now := s.stamp()
	order := nextOrder(next, input.Status)
	if input.Order != nil {
		order = *input.Order
	}

	next = append(next, model.Task{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     trimDate(input.DueDate),
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	normalizeLane(next, input.Status)

	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}

	created := cloneTask(next[indexOf(next, id)])
	s.log.WithFields(logrus.Fields{"task": id, "op": "create"}).Info(formatCreatedDetails(created))
	return created, nil
}

// Update merges patch over the task. A status change moves the task to the
// end of its new lane unless patch.Order says otherwise; an explicit order is
// a position hint that renormalization settles.
func (s *Store) Update(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	patch = patch.Normalize()
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}

	next := cloneTasks(s.tasks)
	before := cloneTask(next[i])
	task := &next[i]

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.ClearDueDate {
		task.DueDate = nil
	} else if patch.DueDate != nil {
		task.DueDate = trimDate(patch.DueDate)
	}
	if patch.Status != nil && *patch.Status != before.Status {
		task.Order = nextOrder(next, *patch.Status)
		task.Status = *patch.Status
	}
	if patch.Order != nil {
		task.Order = *patch.Order
	}
	task.UpdatedAt = s.stamp()

	normalizeLane(next, before.Status)
	if task.Status != before.Status {
		normalizeLane(next, task.Status)
	}

	if err := s.commit(ctx, next); err != nil {
		return model.Task{}, err
	}

	updated := cloneTask(next[indexOf(next, id)])
	s.log.WithFields(logrus.Fields{"task": id, "op": "update"}).Info(formatTaskDiff(before, updated))
	return updated, nil
}

// Delete removes the task if present; an unknown id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id)
	if i < 0 {
		s.log.WithFields(logrus.Fields{"task": id, "op": "delete"}).Debug("delete of unknown task ignored")
		return nil
	}

	removed := cloneTask(s.tasks[i])
	next := make([]model.Task, 0, len(s.tasks)-1)
	for j, task := range s.tasks {
		if j != i {
			next = append(next, cloneTask(task))
		}
	}
	normalizeLane(next, removed.Status)

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"task": id, "op": "delete"}).Info(formatDeletedDetails(removed))
	return nil
}

// commit persists next and makes it the current collection. On failure the
// current collection is left untouched.
func (s *Store) commit(ctx context.Context, next []model.Task) error {
	SortTasks(next)

	payload, err := encodeTasks(next)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.medium.Set(ctx, s.key, payload); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}

	s.tasks = next
	return nil
}

// stamp returns a strictly increasing UTC timestamp so that the most recent
// mutation always wins order ties.
func (s *Store) stamp() time.Time {
	now := s.now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now
	return now
}

func indexOf(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func trimDate(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cloneTask(task model.Task) model.Task {
	if task.DueDate != nil {
		due := *task.DueDate
		task.DueDate = &due
	}
	return task
}

func cloneTasks(tasks []model.Task) []model.Task {
	result := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, cloneTask(task))
	}
	return result
}
