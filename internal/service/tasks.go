// Package service orchestrates access control, validation, and store calls
// for each task operation.
package service

import (
	"context"

	"todo-api/internal/apperr"
	"todo-api/internal/models"
	"todo-api/internal/repository"
)

// TaskService ties the access guard to the task store. Every operation takes
// the authenticated caller and the path-specified owner; they must match.
type TaskService struct {
	repo *repository.TaskRepository
}

// NewTaskService returns a service over the given repository.
func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// authorize is the access guard: the caller may only touch its own tasks.
func authorize(caller, owner string) error {
	if caller != owner {
		return apperr.Authorization("You don't have permission to access this resource")
	}
	return nil
}

// List returns the owner's tasks narrowed by the filter.
func (s *TaskService) List(ctx context.Context, caller, owner string, f repository.Filter) ([]models.Task, error) {
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, owner, f)
}

// Create validates the input and inserts a new open task for the owner.
func (s *TaskService) Create(ctx context.Context, caller, owner string, in models.TaskCreate) (*models.Task, error) {
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t := &models.Task{
		UserID:         owner,
		Title:          in.Title,
		Description:    in.Description,
		Status:         models.StatusOpen,
		Priority:       in.Priority,
		Tags:           in.Tags,
		DueDate:        in.DueDate,
		IsRecurring:    in.IsRecurring,
		RecurrenceRule: in.RecurrenceRule,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the owner's task by id.
func (s *TaskService) Get(ctx context.Context, caller, owner string, id int64) (*models.Task, error) {
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	return s.repo.GetByOwner(ctx, id, owner)
}

// Update applies only the supplied fields to the owner's task and bumps
// updated_at. The read and write happen in one transaction.
func (s *TaskService) Update(ctx context.Context, caller, owner string, id int64, in models.TaskUpdate) (*models.Task, error) {
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Mutate(ctx, id, owner, func(t *models.Task) error {
		in.Apply(t)
		return nil
	})
}

// Delete removes the owner's task.
func (s *TaskService) Delete(ctx context.Context, caller, owner string, id int64) error {
	if err := authorize(caller, owner); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id, owner)
}

// ToggleComplete flips the task's status between open and done and bumps
// updated_at. Applying it twice restores the original status.
func (s *TaskService) ToggleComplete(ctx context.Context, caller, owner string, id int64) (*models.Task, error) {
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	return s.repo.Mutate(ctx, id, owner, func(t *models.Task) error {
		if t.Status == models.StatusOpen {
			t.Status = models.StatusDone
		} else {
			t.Status = models.StatusOpen
		}
		return nil
	})
}
