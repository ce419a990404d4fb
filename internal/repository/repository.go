package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/models"
)

// ErrRecordNotFound is returned when a lookup misses.
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateID is returned by Create when the id is already stored.
var ErrDuplicateID = errors.New("duplicate id")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create stores a new task
	Create(task *models.Task) error

	// FindByID returns a copy of the task
	FindByID(id uuid.UUID) (*models.Task, error)

	// List returns copies of all tasks in insertion order
	List() []models.Task

	// IDs returns all task ids in insertion order
	IDs() []uuid.UUID

	// Update replaces a stored task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uuid.UUID) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create stores a new user
	Create(user *models.User) error

	// FindByID returns a copy of the user
	FindByID(id uuid.UUID) (*models.User, error)

	// List returns copies of all users in insertion order
	List() []models.User

	// IDs returns all user ids in insertion order
	IDs() []uuid.UUID

	// Update replaces a stored user
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uuid.UUID) error
}
