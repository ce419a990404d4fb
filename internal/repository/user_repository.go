package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository
type MemoryUserRepository struct {
	store *store[models.User]
}

// NewUserRepository creates a new UserRepository
func NewUserRepository() UserRepository {
	return &MemoryUserRepository{store: newStore(func(u models.User) models.User { return u })}
}

// Create stores a new user
func (r *MemoryUserRepository) Create(user *models.User) error {
	return r.store.create(user.ID, *user)
}

// FindByID returns a copy of the user
func (r *MemoryUserRepository) FindByID(id uuid.UUID) (*models.User, error) {
	user, err := r.store.find(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns copies of all users in insertion order
func (r *MemoryUserRepository) List() []models.User {
	return r.store.list()
}

// IDs returns all user ids in insertion order
func (r *MemoryUserRepository) IDs() []uuid.UUID {
	return r.store.ids()
}

// Update replaces a stored user
func (r *MemoryUserRepository) Update(user *models.User) error {
	return r.store.update(user.ID, *user)
}

// Delete removes a user
func (r *MemoryUserRepository) Delete(id uuid.UUID) error {
	return r.store.delete(id)
}
