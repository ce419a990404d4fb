package services

import (
	"time"

	"github.com/yukikurage/taskboard/internal/dto"
	"github.com/yukikurage/taskboard/internal/history"
)

// Board wires the task, user and assignment services over one shared Store.
// Every mutation is reported to History and to the optional Observer.
type Board struct {
	Store       *Store
	Tasks       *TaskService
	Users       *UserService
	Assignments *AssignmentService
	History     *history.Log
}

// BoardOptions configures NewBoard
type BoardOptions struct {
	Observer     history.Observer
	HistoryLimit int
	Now          func() time.Time
}

// NewBoard creates an empty board
func NewBoard(opts BoardOptions) *Board {
	store := NewStore()
	log := history.NewLog(opts.HistoryLimit)

	var observer history.Observer = log
	if opts.Observer != nil {
		observer = history.Multi{log, opts.Observer}
	}

	b := &Board{
		Store:       store,
		Tasks:       NewTaskService(store, observer),
		Users:       NewUserService(store, observer),
		Assignments: NewAssignmentService(store, observer),
		History:     log,
	}
	if opts.Now != nil {
		b.Tasks.Now = opts.Now
		b.Users.Now = opts.Now
		b.Assignments.Now = opts.Now
	}
	return b
}

// Snapshot returns the current tasks, users and relation as one view
func (b *Board) Snapshot() dto.BoardDTO {
	return dto.ToBoardDTO(
		b.Tasks.All(),
		b.Users.All(),
		b.Store.Index,
		b.Assignments.Stats(),
		b.Assignments.TasksWithoutUsers(),
		b.Assignments.UsersWithoutTasks(),
	)
}
