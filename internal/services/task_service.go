package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/history"
	"github.com/yukikurage/taskboard/internal/lifecycle"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/validation"
)

var (
	ErrTaskNotFound     = apperrors.Newf(apperrors.ErrNotFound, "task not found")
	ErrTitleRequired    = apperrors.Newf(apperrors.ErrValidation, "title is required")
	ErrInvalidStatus    = apperrors.Newf(apperrors.ErrInvalidStatus, "unknown task status")
	ErrKindDataMismatch = apperrors.Newf(apperrors.ErrValidation, "severity applies to bug tasks and estimated hours to feature tasks only")
)

// TaskService owns the task collection and drives task lifecycles
type TaskService struct {
	mu       sync.Mutex
	store    *Store
	observer history.Observer

	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(store *Store, observer history.Observer) *TaskService {
	if observer == nil {
		observer = history.Nop{}
	}
	return &TaskService{
		store:    store,
		observer: observer,
		Now:      time.Now,
	}
}

// CreateTaskInput represents input for creating a task. Severity is only
// accepted for bugs and EstimatedHours only for features.
type CreateTaskInput struct {
	Title          string              `validate:"required"`
	Category       models.TaskCategory `validate:"omitempty,oneof=work personal study"`
	Kind           models.TaskKind     `validate:"omitempty,oneof=generic bug feature"`
	Assignee       string
	Severity       models.Severity `validate:"omitempty,oneof=low medium high critical"`
	EstimatedHours *float64        `validate:"omitempty,gte=0"`
}

// CreateTask validates input and stores a new task in CREATED
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Category == "" {
		input.Category = models.CategoryWork
	}
	if input.Kind == "" {
		input.Kind = models.TaskKindGeneric
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	if input.Severity != "" && input.Kind != models.TaskKindBug {
		return nil, ErrKindDataMismatch
	}
	if input.EstimatedHours != nil && input.Kind != models.TaskKindFeature {
		return nil, ErrKindDataMismatch
	}
	if input.Kind == models.TaskKindBug && input.Severity == "" {
		input.Severity = models.SeverityMedium
	}

	now := s.now()
	task := &models.Task{
		ID:             models.NewID(),
		Title:          input.Title,
		Category:       input.Category,
		Kind:           input.Kind,
		Status:         models.TaskStatusCreated,
		Assignee:       strings.TrimSpace(input.Assignee),
		Severity:       input.Severity,
		EstimatedHours: input.EstimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Tasks.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	payload := history.Payload{"kind": string(task.Kind), "category": string(task.Category)}
	if task.Assignee != "" {
		payload["assignee"] = task.Assignee
	}
	s.notify(history.EventTaskCreated, task, fmt.Sprintf("Task created: %q (%s)", task.Title, task.Kind), payload)

	return task, nil
}

// GetByID returns a copy of a task
func (s *TaskService) GetByID(taskID uuid.UUID) (*models.Task, error) {
	return s.findTask(taskID)
}

// All returns every task in creation order
func (s *TaskService) All() []models.Task {
	return s.store.Tasks.List()
}

// MoveTo requests a status change. A move the task's kind does not allow is
// not an error: the task is returned unchanged with applied=false.
func (s *TaskService) MoveTo(taskID uuid.UUID, target models.TaskStatus) (*models.Task, bool, error) {
	if !target.Valid() {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidStatus, target)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, false, err
	}
	return s.apply(task, target)
}

// ToggleComplete completes an open task or reopens a completed one. It is
// subject to the same policy as MoveTo.
func (s *TaskService) ToggleComplete(taskID uuid.UUID) (*models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, false, err
	}
	return s.apply(task, lifecycle.ToggleTarget(task))
}

// UpdateTitle renames a task
func (s *TaskService) UpdateTitle(taskID uuid.UUID, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	oldTitle := task.Title
	task.Title = title
	task.UpdatedAt = s.now()
	if err := s.store.Tasks.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.notify(history.EventTaskUpdated, task, fmt.Sprintf("Task renamed: %q -> %q", oldTitle, title), nil)
	return task, nil
}

// DeleteTask removes a task after dropping all of its assignments
func (s *TaskService) DeleteTask(taskID uuid.UUID) error {
	s.store.membership.Lock()
	defer s.store.membership.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.findTask(taskID)
	if err != nil {
		return err
	}

	unassigned := s.store.Index.UnassignAllForTask(taskID)
	if err := s.store.Tasks.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.notify(history.EventTaskDeleted, task, fmt.Sprintf("Task deleted: %q", task.Title),
		history.Payload{"unassigned": len(unassigned)})
	return nil
}

// apply runs the lifecycle move and persists it. Callers hold s.mu.
func (s *TaskService) apply(task *models.Task, target models.TaskStatus) (*models.Task, bool, error) {
	from := task.Status
	payload := history.Payload{"from": string(from), "to": string(target)}

	if !lifecycle.MoveTo(task, target, s.now()) {
		s.notify(history.EventTaskTransitionRejected, task,
			fmt.Sprintf("Invalid %s transition for %q: %s -> %s", task.Kind, task.Title, from, target), payload)
		return task, false, nil
	}

	if err := s.store.Tasks.Update(task); err != nil {
		return nil, false, fmt.Errorf("failed to update task: %w", err)
	}

	s.notify(history.EventTaskStatusChanged, task,
		fmt.Sprintf("Status changed: %q -> %s", task.Title, target), payload)
	return task, true, nil
}

func (s *TaskService) findTask(taskID uuid.UUID) (*models.Task, error) {
	task, err := s.store.Tasks.FindByID(taskID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) notify(t history.EventType, task *models.Task, msg string, payload history.Payload) {
	s.observer.Notify(history.Event{
		TS:         s.now(),
		Type:       t,
		EntityKind: history.EntityTask,
		EntityID:   task.ID.String(),
		Message:    msg,
		Payload:    payload,
	})
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
