// Package assignment maintains the many-to-many relation between tasks and
// users.
package assignment

import (
	"sync"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/models"
)

type idSet map[uuid.UUID]struct{}

// Index is the bidirectional task/user relation. Both directions are updated
// under one lock, so for every task t and user u, u is in UsersOf(t) exactly
// when t is in TasksOf(u). Ids whose last edge is removed are pruned, so a key
// is present only while it has at least one edge.
type Index struct {
	mu          sync.RWMutex
	taskToUsers map[uuid.UUID]idSet
	userToTasks map[uuid.UUID]idSet
}

// Stats summarises the relation.
type Stats struct {
	TotalTasks       int     `json:"total_tasks" yaml:"total_tasks"`
	TotalUsers       int     `json:"total_users" yaml:"total_users"`
	TotalAssignments int     `json:"total_assignments" yaml:"total_assignments"`
	AvgUsersPerTask  float64 `json:"avg_users_per_task" yaml:"avg_users_per_task"`
	AvgTasksPerUser  float64 `json:"avg_tasks_per_user" yaml:"avg_tasks_per_user"`
}

func NewIndex() *Index {
	return &Index{
		taskToUsers: make(map[uuid.UUID]idSet),
		userToTasks: make(map[uuid.UUID]idSet),
	}
}

// Assign adds the edge (taskID, userID). It reports whether the edge is new.
func (x *Index) Assign(taskID, userID uuid.UUID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.link(taskID, userID)
}

// Unassign removes the edge (taskID, userID). It reports whether the edge
// existed.
func (x *Index) Unassign(taskID, userID uuid.UUID) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.unlink(taskID, userID)
}

// UnassignAllForTask removes every edge touching taskID and returns the users
// that were unlinked.
func (x *Index) UnassignAllForTask(taskID uuid.UUID) []uuid.UUID {
	x.mu.Lock()
	defer x.mu.Unlock()

	users := keys(x.taskToUsers[taskID])
	for _, userID := range users {
		x.unlink(taskID, userID)
	}
	return users
}

// UnassignAllForUser removes every edge touching userID and returns the tasks
// that were unlinked.
func (x *Index) UnassignAllForUser(userID uuid.UUID) []uuid.UUID {
	x.mu.Lock()
	defer x.mu.Unlock()

	tasks := keys(x.userToTasks[userID])
	for _, taskID := range tasks {
		x.unlink(taskID, userID)
	}
	return tasks
}

// UsersOf returns the users assigned to taskID, oldest id first. The result
// is never nil.
func (x *Index) UsersOf(taskID uuid.UUID) []uuid.UUID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return keys(x.taskToUsers[taskID])
}

// TasksOf returns the tasks assigned to userID, oldest id first. The result
// is never nil.
func (x *Index) TasksOf(userID uuid.UUID) []uuid.UUID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return keys(x.userToTasks[userID])
}

func (x *Index) IsAssigned(taskID, userID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.taskToUsers[taskID][userID]
	return ok
}

func (x *Index) CountUsersInTask(taskID uuid.UUID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.taskToUsers[taskID])
}

func (x *Index) CountTasksForUser(userID uuid.UUID) int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.userToTasks[userID])
}

// HasTask reports whether taskID has at least one assignment.
func (x *Index) HasTask(taskID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.taskToUsers[taskID]
	return ok
}

// HasUser reports whether userID has at least one assignment.
func (x *Index) HasUser(userID uuid.UUID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.userToTasks[userID]
	return ok
}

// TasksWithoutUsers returns the candidates that have no assignment.
// The index only knows ids that have edges, so callers supply the universe.
func (x *Index) TasksWithoutUsers(candidates []uuid.UUID) []uuid.UUID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return absent(x.taskToUsers, candidates)
}

// UsersWithoutTasks returns the candidates that have no assignment.
func (x *Index) UsersWithoutTasks(candidates []uuid.UUID) []uuid.UUID {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return absent(x.userToTasks, candidates)
}

// Edges returns every assignment ordered by task id, then user id.
func (x *Index) Edges() []models.TaskAssignment {
	x.mu.RLock()
	defer x.mu.RUnlock()

	edges := make([]models.TaskAssignment, 0)
	for _, taskID := range keysOf(x.taskToUsers) {
		for _, userID := range keys(x.taskToUsers[taskID]) {
			edges = append(edges, models.TaskAssignment{TaskID: taskID, UserID: userID})
		}
	}
	return edges
}

func (x *Index) Stats() Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	s := Stats{
		TotalTasks: len(x.taskToUsers),
		TotalUsers: len(x.userToTasks),
	}
	for _, users := range x.taskToUsers {
		s.TotalAssignments += len(users)
	}
	if s.TotalTasks > 0 {
		s.AvgUsersPerTask = float64(s.TotalAssignments) / float64(s.TotalTasks)
	}
	if s.TotalUsers > 0 {
		s.AvgTasksPerUser = float64(s.TotalAssignments) / float64(s.TotalUsers)
	}
	return s
}

// Clear removes every assignment.
func (x *Index) Clear() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.taskToUsers = make(map[uuid.UUID]idSet)
	x.userToTasks = make(map[uuid.UUID]idSet)
}

// link and unlink are the only writers of the two maps. Callers hold mu.

func (x *Index) link(taskID, userID uuid.UUID) bool {
	if _, ok := x.taskToUsers[taskID][userID]; ok {
		return false
	}
	if x.taskToUsers[taskID] == nil {
		x.taskToUsers[taskID] = make(idSet)
	}
	if x.userToTasks[userID] == nil {
		x.userToTasks[userID] = make(idSet)
	}
	x.taskToUsers[taskID][userID] = struct{}{}
	x.userToTasks[userID][taskID] = struct{}{}
	return true
}

func (x *Index) unlink(taskID, userID uuid.UUID) bool {
	if _, ok := x.taskToUsers[taskID][userID]; !ok {
		return false
	}
	removeEdge(x.taskToUsers, taskID, userID)
	removeEdge(x.userToTasks, userID, taskID)
	return true
}

func removeEdge(m map[uuid.UUID]idSet, from, to uuid.UUID) {
	set := m[from]
	delete(set, to)
	if len(set) == 0 {
		delete(m, from)
	}
}

func keys(set idSet) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	models.SortIDs(ids)
	return ids
}

func keysOf(m map[uuid.UUID]idSet) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	models.SortIDs(ids)
	return ids
}

func absent(m map[uuid.UUID]idSet, candidates []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0)
	for _, id := range candidates {
		if _, ok := m[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
