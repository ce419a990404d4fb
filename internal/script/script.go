// Package script describes board scenarios in YAML: the users and tasks to
// seed and the operations to run against them, in order.
package script

import (
	"errors"
	"fmt"
	"io"

	apperrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/models"
	"github.com/yukikurage/taskboard/internal/validation"
	"gopkg.in/yaml.v3"
)

type Op string

const (
	OpMove            Op = "move"
	OpToggle          Op = "toggle"
	OpRename          Op = "rename"
	OpDeleteTask      Op = "delete_task"
	OpAssign          Op = "assign"
	OpUnassign        Op = "unassign"
	OpUnassignAllTask Op = "unassign_all_task"
	OpUnassignAllUser Op = "unassign_all_user"
	OpToggleActive    Op = "toggle_active"
	OpRemoveUser      Op = "remove_user"
	OpClear           Op = "clear"
)

// Script is a full scenario. Users and tasks are referred to by Ref in steps.
type Script struct {
	Users []UserSpec `yaml:"users" validate:"dive"`
	Tasks []TaskSpec `yaml:"tasks" validate:"dive"`
	Steps []Step     `yaml:"steps" validate:"dive"`
}

type UserSpec struct {
	Ref   string          `yaml:"ref" validate:"required"`
	Name  string          `yaml:"name"`
	Email string          `yaml:"email"`
	Role  models.UserRole `yaml:"role,omitempty"`
}

type TaskSpec struct {
	Ref            string              `yaml:"ref" validate:"required"`
	Title          string              `yaml:"title"`
	Kind           models.TaskKind     `yaml:"kind,omitempty"`
	Category       models.TaskCategory `yaml:"category,omitempty"`
	Severity       models.Severity     `yaml:"severity,omitempty"`
	EstimatedHours *float64            `yaml:"estimated_hours,omitempty"`
	Assignee       string              `yaml:"assignee,omitempty"`
}

// Step is one operation. Which of Task, User, Users, Status and Title are
// read depends on Op. Actor, when set, names the user performing the step
// and must hold the role the operation requires.
type Step struct {
	Op     Op                `yaml:"op" validate:"required,oneof=move toggle rename delete_task assign unassign unassign_all_task unassign_all_user toggle_active remove_user clear"`
	Task   string            `yaml:"task,omitempty"`
	User   string            `yaml:"user,omitempty"`
	Users  []string          `yaml:"users,omitempty"`
	Status models.TaskStatus `yaml:"status,omitempty"`
	Title  string            `yaml:"title,omitempty"`
	Actor  string            `yaml:"actor,omitempty"`
}

var ErrDuplicateRef = apperrors.Newf(apperrors.ErrValidation, "duplicate reference")

// Parse decodes and checks a script. Unknown keys are rejected.
func Parse(r io.Reader) (*Script, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, fmt.Errorf("invalid script yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks step shapes and that refs are unique. Whether refs point
// at something is only known while running.
func (s *Script) Validate() error {
	if err := validation.Struct(s); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, u := range s.Users {
		if seen["user:"+u.Ref] {
			return fmt.Errorf("%w: user %q", ErrDuplicateRef, u.Ref)
		}
		seen["user:"+u.Ref] = true
	}
	for _, t := range s.Tasks {
		if seen["task:"+t.Ref] {
			return fmt.Errorf("%w: task %q", ErrDuplicateRef, t.Ref)
		}
		seen["task:"+t.Ref] = true
	}
	return nil
}
