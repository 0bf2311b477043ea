package model

import (
	"fmt"
	"strings"
	"time"
)

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field+": "+field.Message)
	}
	return "invalid task: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// Normalize fills in the documented defaults.
func (in TaskInput) Normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = Status(strings.TrimSpace(strings.ToLower(string(in.Status))))
	if in.Status == "" {
		in.Status = StatusTodo
	}
	in.Priority = Priority(strings.TrimSpace(strings.ToLower(string(in.Priority))))
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.DueDate != nil && strings.TrimSpace(*in.DueDate) == "" {
		in.DueDate = nil
	}
	return in
}

// Validate expects a normalized input.
func (in TaskInput) Validate() error {
	verr := &ValidationError{}
	if in.Title == "" {
		verr.add("title", "is required")
	}
	if !in.Status.Valid() {
		verr.add("status", "unknown status %q", in.Status)
	}
	if !in.Priority.Valid() {
		verr.add("priority", "unknown priority %q", in.Priority)
	}
	if in.DueDate != nil {
		checkDate(verr, "dueDate", *in.DueDate)
	}
	if in.Order != nil && *in.Order < 0 {
		verr.add("order", "must not be negative")
	}
	return verr.orNil()
}

// Normalize folds status and priority the same way TaskInput.Normalize does.
func (p TaskPatch) Normalize() TaskPatch {
	if p.Status != nil {
		status := Status(strings.TrimSpace(strings.ToLower(string(*p.Status))))
		p.Status = &status
	}
	if p.Priority != nil {
		priority := Priority(strings.TrimSpace(strings.ToLower(string(*p.Priority))))
		p.Priority = &priority
	}
	return p
}

func (p TaskPatch) Validate() error {
	verr := &ValidationError{}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		verr.add("title", "is required")
	}
	if p.Status != nil && !p.Status.Valid() {
		verr.add("status", "unknown status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		verr.add("priority", "unknown priority %q", *p.Priority)
	}
	if p.DueDate != nil && !p.ClearDueDate && strings.TrimSpace(*p.DueDate) != "" {
		checkDate(verr, "dueDate", *p.DueDate)
	}
	if p.Order != nil && *p.Order < 0 {
		verr.add("order", "must not be negative")
	}
	return verr.orNil()
}

// ValidateRecord checks a task loaded from storage against the record schema.
func ValidateRecord(task Task) error {
	verr := &ValidationError{}
	if strings.TrimSpace(task.ID) == "" {
		verr.add("id", "is required")
	}
	if strings.TrimSpace(task.Title) == "" {
		verr.add("title", "is required")
	}
	if !task.Status.Valid() {
		verr.add("status", "unknown status %q", task.Status)
	}
	if !task.Priority.Valid() {
		verr.add("priority", "unknown priority %q", task.Priority)
	}
	if task.DueDate != nil {
		checkDate(verr, "dueDate", *task.DueDate)
	}
	if task.Order < 0 {
		verr.add("order", "must not be negative")
	}
	if task.CreatedAt.IsZero() {
		verr.add("createdAt", "is required")
	}
	if task.UpdatedAt.IsZero() {
		verr.add("updatedAt", "is required")
	}
	return verr.orNil()
}

// ParseDate accepts YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return parsed, nil
}

func checkDate(verr *ValidationError, field, value string) {
	if _, err := ParseDate(value); err != nil {
		verr.add(field, "%s", err.Error())
	}
}
