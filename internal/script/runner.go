package script

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/taskboard/internal/dto"
	apperrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/services"
)

var (
	ErrUnknownRef     = apperrors.Newf(apperrors.ErrNotFound, "unknown reference")
	ErrActorInactive  = apperrors.Newf(apperrors.ErrForbidden, "actor is inactive")
	ErrActorForbidden = apperrors.Newf(apperrors.ErrForbidden, "actor role does not permit this operation")
	ErrMissingOperand = apperrors.Newf(apperrors.ErrValidation, "step is missing an operand")
)

// StepResult is the outcome of one step. A step that ran but changed nothing,
// such as a rejected transition, has Applied=false and no error.
type StepResult struct {
	Index   int    `json:"index" yaml:"index"`
	Op      Op     `json:"op" yaml:"op"`
	Applied bool   `json:"applied" yaml:"applied"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report collects step outcomes and the final board state.
type Report struct {
	Steps  []StepResult `json:"steps" yaml:"steps"`
	Failed int          `json:"failed" yaml:"failed"`
	Board  dto.BoardDTO `json:"board" yaml:"board"`
}

// Runner executes scripts against a board
type Runner struct {
	board  *services.Board
	logger logrus.FieldLogger

	tasks map[string]uuid.UUID
	users map[string]uuid.UUID
}

// NewRunner creates a Runner. A nil logger discards output.
func NewRunner(board *services.Board, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Runner{
		board:  board,
		logger: logger,
		tasks:  map[string]uuid.UUID{},
		users:  map[string]uuid.UUID{},
	}
}

// Run seeds the script's users and tasks, then runs every step. Seeding
// errors abort the run; step errors are recorded and the run continues.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	if err := r.seed(s); err != nil {
		return nil, err
	}

	report := &Report{Steps: make([]StepResult, 0, len(s.Steps))}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := StepResult{Index: i, Op: step.Op}
		applied, err := r.runStep(step)
		if err != nil {
			res.Code = apperrors.CodeOf(err)
			res.Error = err.Error()
			report.Failed++
			r.logger.WithFields(logrus.Fields{
				"step": i,
				"op":   string(step.Op),
				"code": res.Code,
			}).Warn(err.Error())
		}
		res.Applied = applied
		report.Steps = append(report.Steps, res)
	}

	report.Board = r.board.Snapshot()
	return report, nil
}

func (r *Runner) seed(s *Script) error {
	for _, u := range s.Users {
		user, err := r.board.Users.AddUser(services.AddUserInput{
			Name:  u.Name,
			Email: u.Email,
			Role:  u.Role,
		})
		if err != nil {
			return fmt.Errorf("failed to add user %q: %w", u.Ref, err)
		}
		r.users[u.Ref] = user.ID
	}

	for _, t := range s.Tasks {
		task, err := r.board.Tasks.CreateTask(services.CreateTaskInput{
			Title:          t.Title,
			Category:       t.Category,
			Kind:           t.Kind,
			Assignee:       t.Assignee,
			Severity:       t.Severity,
			EstimatedHours: t.EstimatedHours,
		})
		if err != nil {
			return fmt.Errorf("failed to create task %q: %w", t.Ref, err)
		}
		r.tasks[t.Ref] = task.ID
	}
	return nil
}

func (r *Runner) runStep(step Step) (bool, error) {
	if err := r.authorize(step); err != nil {
		return false, err
	}

	switch step.Op {
	case OpMove:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		_, applied, err := r.board.Tasks.MoveTo(taskID, step.Status)
		return applied, err

	case OpToggle:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		_, applied, err := r.board.Tasks.ToggleComplete(taskID)
		return applied, err

	case OpRename:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		_, err = r.board.Tasks.UpdateTitle(taskID, step.Title)
		return err == nil, err

	case OpDeleteTask:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		err = r.board.Tasks.DeleteTask(taskID)
		return err == nil, err

	case OpAssign:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		refs := step.Users
		if step.User != "" {
			refs = append([]string{step.User}, refs...)
		}
		userIDs := make([]uuid.UUID, 0, len(refs))
		for _, ref := range refs {
			userID, err := r.user(ref)
			if err != nil {
				return false, err
			}
			userIDs = append(userIDs, userID)
		}
		err = r.board.Assignments.AssignMany(taskID, userIDs...)
		return err == nil, err

	case OpUnassign:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		userID, err := r.user(step.User)
		if err != nil {
			return false, err
		}
		return r.board.Assignments.Unassign(taskID, userID), nil

	case OpUnassignAllTask:
		taskID, err := r.task(step.Task)
		if err != nil {
			return false, err
		}
		return len(r.board.Assignments.UnassignAllForTask(taskID)) > 0, nil

	case OpUnassignAllUser:
		userID, err := r.user(step.User)
		if err != nil {
			return false, err
		}
		return len(r.board.Assignments.UnassignAllForUser(userID)) > 0, nil

	case OpToggleActive:
		userID, err := r.user(step.User)
		if err != nil {
			return false, err
		}
		_, err = r.board.Users.ToggleActive(userID)
		return err == nil, err

	case OpRemoveUser:
		userID, err := r.user(step.User)
		if err != nil {
			return false, err
		}
		err = r.board.Users.RemoveUser(userID)
		return err == nil, err

	case OpClear:
		r.board.Assignments.Clear()
		return true, nil
	}

	return false, fmt.Errorf("%w: %q", apperrors.ErrInvalidOperation, step.Op)
}

// authorize checks the actor's role when the step names one. Steps without
// an actor are not checked.
func (r *Runner) authorize(step Step) error {
	if step.Actor == "" {
		return nil
	}
	actorID, err := r.user(step.Actor)
	if err != nil {
		return err
	}
	actor, err := r.board.Users.GetByID(actorID)
	if err != nil {
		return err
	}
	if !actor.Active {
		return fmt.Errorf("%w: %s", ErrActorInactive, actor.Name)
	}

	allowed := true
	switch step.Op {
	case OpDeleteTask:
		allowed = actor.Role.CanDeleteTask()
	case OpAssign, OpUnassign, OpUnassignAllTask, OpUnassignAllUser, OpClear:
		allowed = actor.Role.CanAssignTask()
	}
	if !allowed {
		return fmt.Errorf("%w: %s is %s", ErrActorForbidden, actor.Name, actor.Role)
	}
	return nil
}

func (r *Runner) task(ref string) (uuid.UUID, error) {
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: task", ErrMissingOperand)
	}
	id, ok := r.tasks[ref]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: task %q", ErrUnknownRef, ref)
	}
	return id, nil
}

func (r *Runner) user(ref string) (uuid.UUID, error) {
	if ref == "" {
		return uuid.Nil, fmt.Errorf("%w: user", ErrMissingOperand)
	}
	id, ok := r.users[ref]
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: user %q", ErrUnknownRef, ref)
	}
	return id, nil
}

// TaskID returns the id the task ref was seeded with.
func (r *Runner) TaskID(ref string) (uuid.UUID, bool) {
	id, ok := r.tasks[ref]
	return id, ok
}

// UserID returns the id the user ref was seeded with.
func (r *Runner) UserID(ref string) (uuid.UUID, bool) {
	id, ok := r.users[ref]
	return id, ok
}
