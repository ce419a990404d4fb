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
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/repository"
	"github.com/yukikurage/taskboard/internal/validation"
)

var (
	ErrUserNotFound = apperrors.Newf(apperrors.ErrNotFound, "user not found")
	ErrNameRequired = apperrors.Newf(apperrors.ErrValidation, "name is required")
)

// UserService owns the user collection
type UserService struct {
	mu       sync.Mutex
	store    *Store
	observer history.Observer

	// Now is the clock used for timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewUserService creates a new UserService
func NewUserService(store *Store, observer history.Observer) *UserService {
	if observer == nil {
		observer = history.Nop{}
	}
	return &UserService{
		store:    store,
		observer: observer,
		Now:      time.Now,
	}
}

// AddUserInput represents the information needed to add a user
type AddUserInput struct {
	Name  string          `validate:"required"`
	Email string          `validate:"required,looseemail"`
	Role  models.UserRole `validate:"omitempty,oneof=admin member guest"`
}

// AddUser validates input and stores a new active user
func (s *UserService) AddUser(input AddUserInput) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" {
		return nil, ErrNameRequired
	}
	if input.Role == "" {
		input.Role = models.RoleMember
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		ID:        models.NewID(),
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.notify(history.EventUserAdded, user, fmt.Sprintf("User added: %s (%s)", user.Name, user.Email),
		history.Payload{"role": string(user.Role)})
	return user, nil
}

// GetByID returns a copy of a user
func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	return s.findUser(userID)
}

// All returns every user in creation order
func (s *UserService) All() []models.User {
	return s.store.Users.List()
}

// ToggleActive flips a user's active flag. Existing assignments are kept.
// It holds the membership lock so no assignment check can race it.
func (s *UserService) ToggleActive(userID uuid.UUID) (*models.User, error) {
	s.store.membership.Lock()
	defer s.store.membership.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	user.Active = !user.Active
	user.UpdatedAt = s.now()
	if err := s.store.Users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	state := "inactive"
	if user.Active {
		state = "active"
	}
	s.notify(history.EventUserStatusChanged, user, fmt.Sprintf("User %s is now %s", user.Name, state),
		history.Payload{"active": user.Active})
	return user, nil
}

// RemoveUser removes a user after dropping all of their assignments
func (s *UserService) RemoveUser(userID uuid.UUID) error {
	s.store.membership.Lock()
	defer s.store.membership.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.findUser(userID)
	if err != nil {
		return err
	}

	unassigned := s.store.Index.UnassignAllForUser(userID)
	if err := s.store.Users.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.notify(history.EventUserRemoved, user, fmt.Sprintf("User removed: %s", user.Name),
		history.Payload{"unassigned": len(unassigned)})
	return nil
}

func (s *UserService) findUser(userID uuid.UUID) (*models.User, error) {
	user, err := s.store.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *UserService) notify(t history.EventType, user *models.User, msg string, payload history.Payload) {
	s.observer.Notify(history.Event{
		TS:         s.now(),
		Type:       t,
		EntityKind: history.EntityUser,
		EntityID:   user.ID.String(),
		Message:    msg,
		Payload:    payload,
	})
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
