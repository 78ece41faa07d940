package models

import (
	"fmt"
	"time"
	"unicode/utf8"

	"todo-api/internal/apperr"
)

// Task statuses. Toggle-complete flips between the two.
const (
	StatusOpen = "open"
	StatusDone = "done"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// Task is a single to-do item owned by exactly one user. Optional fields are
// pointers so a missing value serializes as null.
type Task struct {
	ID             int64      `json:"id"`
	UserID         string     `json:"user_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         string     `json:"status"`
	Priority       *string    `json:"priority"`
	Tags           *string    `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule *string    `json:"recurrence_rule"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TaskCreate is the request body for creating a task. Owner and status are
// never caller-supplied: the owner comes from the path and status starts open.
type TaskCreate struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Priority       *string    `json:"priority"`
	Tags           *string    `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	IsRecurring    bool       `json:"is_recurring"`
	RecurrenceRule *string    `json:"recurrence_rule"`
}

// Validate checks field constraints before anything reaches the store.
// Length limits count characters, not bytes.
func (in *TaskCreate) Validate() error {
	if in.Title == "" {
		return apperr.Validation("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return apperr.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return apperr.Validation(fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	return nil
}

// TaskUpdate is the request body for a partial update. Every field is a
// pointer: nil means "leave untouched", a set pointer overwrites.
type TaskUpdate struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Status         *string    `json:"status"`
	Priority       *string    `json:"priority"`
	Tags           *string    `json:"tags"`
	DueDate        *time.Time `json:"due_date"`
	IsRecurring    *bool      `json:"is_recurring"`
	RecurrenceRule *string    `json:"recurrence_rule"`
}

// Validate checks constraints on the fields that were supplied.
func (in *TaskUpdate) Validate() error {
	if in.Title != nil {
		if *in.Title == "" {
			return apperr.Validation("title must not be empty")
		}
		if utf8.RuneCountInString(*in.Title) > maxTitleLen {
			return apperr.Validation(fmt.Sprintf("title must be at most %d characters", maxTitleLen))
		}
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return apperr.Validation(fmt.Sprintf("description must be at most %d characters", maxDescriptionLen))
	}
	return nil
}

// Apply copies the supplied fields onto the task, leaving omitted ones alone.
func (in *TaskUpdate) Apply(t *Task) {
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = in.Priority
	}
	if in.Tags != nil {
		t.Tags = in.Tags
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.IsRecurring != nil {
		t.IsRecurring = *in.IsRecurring
	}
	if in.RecurrenceRule != nil {
		t.RecurrenceRule = in.RecurrenceRule
	}
}
