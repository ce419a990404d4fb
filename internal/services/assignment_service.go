package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/assignment"
	apperrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/history"
	"github.com/yukikurage/taskboard/internal/models"
)

var (
	ErrUserInactive      = apperrors.Newf(apperrors.ErrValidation, "inactive users cannot be assigned")
	ErrNoUserIDsProvided = apperrors.Newf(apperrors.ErrValidation, "at least one user ID is required")
)

// AssignmentService changes the assignment index on behalf of callers,
// checking that both ends exist first. Reads go straight to the index.
type AssignmentService struct {
	store    *Store
	observer history.Observer

	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(store *Store, observer history.Observer) *AssignmentService {
	if observer == nil {
		observer = history.Nop{}
	}
	return &AssignmentService{
		store:    store,
		observer: observer,
		Now:      time.Now,
	}
}

// Assign links a user to a task. Assigning an existing pair is a no-op.
func (s *AssignmentService) Assign(taskID, userID uuid.UUID) error {
	return s.AssignMany(taskID, userID)
}

// AssignMany links several users to a task. Either every user is assigned
// or, when any check fails, none is.
func (s *AssignmentService) AssignMany(taskID uuid.UUID, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	s.store.membership.RLock()
	defer s.store.membership.RUnlock()

	if _, err := s.store.Tasks.FindByID(taskID); err != nil {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	for _, userID := range userIDs {
		user, err := s.store.Users.FindByID(userID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		if !user.Active {
			return fmt.Errorf("%w: %s", ErrUserInactive, user.Name)
		}
	}

	for _, userID := range userIDs {
		if s.store.Index.Assign(taskID, userID) {
			s.notify(history.EventUserAssigned, fmt.Sprintf("User %s assigned to task %s", userID, taskID), taskID, userID)
		}
	}
	return nil
}

// Unassign removes the pair if present and reports whether it was.
func (s *AssignmentService) Unassign(taskID, userID uuid.UUID) bool {
	if !s.store.Index.Unassign(taskID, userID) {
		return false
	}
	s.notify(history.EventUserUnassigned, fmt.Sprintf("User %s removed from task %s", userID, taskID), taskID, userID)
	return true
}

// UnassignAllForTask removes every user from a task
func (s *AssignmentService) UnassignAllForTask(taskID uuid.UUID) []uuid.UUID {
	users := s.store.Index.UnassignAllForTask(taskID)
	for _, userID := range users {
		s.notify(history.EventUserUnassigned, fmt.Sprintf("User %s removed from task %s", userID, taskID), taskID, userID)
	}
	return users
}

// UnassignAllForUser removes a user from every task
func (s *AssignmentService) UnassignAllForUser(userID uuid.UUID) []uuid.UUID {
	tasks := s.store.Index.UnassignAllForUser(userID)
	for _, taskID := range tasks {
		s.notify(history.EventUserUnassigned, fmt.Sprintf("User %s removed from task %s", userID, taskID), taskID, userID)
	}
	return tasks
}

func (s *AssignmentService) UsersOf(taskID uuid.UUID) []uuid.UUID {
	return s.store.Index.UsersOf(taskID)
}

func (s *AssignmentService) TasksOf(userID uuid.UUID) []uuid.UUID {
	return s.store.Index.TasksOf(userID)
}

func (s *AssignmentService) IsAssigned(taskID, userID uuid.UUID) bool {
	return s.store.Index.IsAssigned(taskID, userID)
}

func (s *AssignmentService) CountUsersInTask(taskID uuid.UUID) int {
	return s.store.Index.CountUsersInTask(taskID)
}

func (s *AssignmentService) CountTasksForUser(userID uuid.UUID) int {
	return s.store.Index.CountTasksForUser(userID)
}

// TasksWithoutUsers returns existing tasks that nobody is assigned to
func (s *AssignmentService) TasksWithoutUsers() []uuid.UUID {
	return s.store.Index.TasksWithoutUsers(s.store.Tasks.IDs())
}

// UsersWithoutTasks returns existing users that have no task
func (s *AssignmentService) UsersWithoutTasks() []uuid.UUID {
	return s.store.Index.UsersWithoutTasks(s.store.Users.IDs())
}

func (s *AssignmentService) Edges() []models.TaskAssignment {
	return s.store.Index.Edges()
}

func (s *AssignmentService) Stats() assignment.Stats {
	return s.store.Index.Stats()
}

// Clear removes every assignment
func (s *AssignmentService) Clear() {
	s.store.Index.Clear()
	s.observer.Notify(history.Event{
		TS:         s.now(),
		Type:       history.EventAssignmentsCleared,
		EntityKind: history.EntityAssignment,
		Message:    "All assignments cleared",
	})
}

func (s *AssignmentService) notify(t history.EventType, msg string, taskID, userID uuid.UUID) {
	s.observer.Notify(history.Event{
		TS:         s.now(),
		Type:       t,
		EntityKind: history.EntityAssignment,
		Message:    msg,
		Payload:    history.Payload{"task_id": taskID.String(), "user_id": userID.String()},
	})
}

func (s *AssignmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
