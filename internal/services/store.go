package services

import (
	"sync"

	"github.com/yukikurage/taskboard/internal/assignment"
	"github.com/yukikurage/taskboard/internal/repository"
)

// Store bundles the collections and the assignment index shared by a
// board's services.
type Store struct {
	Tasks repository.TaskRepository
	Users repository.UserRepository
	Index *assignment.Index

	// membership orders deletes and deactivations against new assignments:
	// both hold it exclusively, so no edge can be added to an entity that is
	// being removed or to a user that is being deactivated.
	membership sync.RWMutex
}

// NewStore creates an empty in-memory Store
func NewStore() *Store {
	return &Store{
		Tasks: repository.NewTaskRepository(),
		Users: repository.NewUserRepository(),
		Index: assignment.NewIndex(),
	}
}
