package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/models"
)

// MemoryTaskRepository is an in-memory implementation of TaskRepository
type MemoryTaskRepository struct {
	store *store[models.Task]
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository() TaskRepository {
	return &MemoryTaskRepository{store: newStore(models.Task.Clone)}
}

// Create stores a new task
func (r *MemoryTaskRepository) Create(task *models.Task) error {
	return r.store.create(task.ID, *task)
}

// FindByID returns a copy of the task
func (r *MemoryTaskRepository) FindByID(id uuid.UUID) (*models.Task, error) {
	task, err := r.store.find(id)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns copies of all tasks in insertion order
func (r *MemoryTaskRepository) List() []models.Task {
	return r.store.list()
}

// IDs returns all task ids in insertion order
func (r *MemoryTaskRepository) IDs() []uuid.UUID {
	return r.store.ids()
}

// Update replaces a stored task
func (r *MemoryTaskRepository) Update(task *models.Task) error {
	return r.store.update(task.ID, *task)
}

// Delete removes a task
func (r *MemoryTaskRepository) Delete(id uuid.UUID) error {
	return r.store.delete(id)
}
