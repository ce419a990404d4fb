package assignment

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/models"
)

func newIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = models.NewID()
	}
	return ids
}

// checkConsistent verifies both directions agree and no empty set is kept.
func checkConsistent(t *testing.T, x *Index) {
	t.Helper()
	x.mu.RLock()
	defer x.mu.RUnlock()

	for taskID, users := range x.taskToUsers {
		require.NotEmpty(t, users, "empty user set kept for task %s", taskID)
		for userID := range users {
			_, ok := x.userToTasks[userID][taskID]
			require.True(t, ok, "edge %s->%s missing its inverse", taskID, userID)
		}
	}
	for userID, tasks := range x.userToTasks {
		require.NotEmpty(t, tasks, "empty task set kept for user %s", userID)
		for taskID := range tasks {
			_, ok := x.taskToUsers[taskID][userID]
			require.True(t, ok, "edge %s->%s missing its inverse", userID, taskID)
		}
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	x := NewIndex()
	task, user := models.NewID(), models.NewID()

	assert.True(t, x.Assign(task, user))
	assert.False(t, x.Assign(task, user))

	assert.Equal(t, []uuid.UUID{user}, x.UsersOf(task))
	assert.Equal(t, []uuid.UUID{task}, x.TasksOf(user))
	assert.True(t, x.IsAssigned(task, user))
	assert.Equal(t, 1, x.Stats().TotalAssignments)
	checkConsistent(t, x)
}

func TestAssignUnassignRoundTrip(t *testing.T) {
	x := NewIndex()
	task, user := models.NewID(), models.NewID()

	x.Assign(task, user)
	assert.True(t, x.Unassign(task, user))
	assert.False(t, x.Unassign(task, user))

	assert.Empty(t, x.UsersOf(task))
	assert.NotNil(t, x.UsersOf(task))
	assert.Empty(t, x.TasksOf(user))
	assert.False(t, x.HasTask(task))
	assert.False(t, x.HasUser(user))
	assert.Equal(t, []uuid.UUID{task}, x.TasksWithoutUsers([]uuid.UUID{task}))
	assert.Equal(t, []uuid.UUID{user}, x.UsersWithoutTasks([]uuid.UUID{user}))
	assert.Equal(t, Stats{}, x.Stats())
	checkConsistent(t, x)
}

func TestUnassignAllForTask(t *testing.T) {
	x := NewIndex()
	task1, task2 := models.NewID(), models.NewID()
	userA, userB := models.NewID(), models.NewID()

	x.Assign(task1, userA)
	x.Assign(task1, userB)
	x.Assign(task2, userB)

	removed := x.UnassignAllForTask(task1)

	assert.Equal(t, []uuid.UUID{userA, userB}, removed)
	assert.Empty(t, x.UsersOf(task1))
	assert.Empty(t, x.TasksOf(userA))
	assert.Equal(t, []uuid.UUID{task2}, x.TasksOf(userB))
	assert.False(t, x.HasUser(userA))
	checkConsistent(t, x)
}

func TestUnassignAllMatchesIndividualRemoval(t *testing.T) {
	tasks, users := newIDs(4), newIDs(4)
	bulk, single := NewIndex(), NewIndex()
	for i, task := range tasks {
		for j, user := range users {
			if (i+j)%2 == 0 {
				bulk.Assign(task, user)
				single.Assign(task, user)
			}
		}
	}

	bulk.UnassignAllForUser(users[0])
	for _, task := range single.TasksOf(users[0]) {
		single.Unassign(task, users[0])
	}

	assert.Equal(t, single.Edges(), bulk.Edges())
	assert.Equal(t, single.Stats(), bulk.Stats())
	assert.Equal(t, single.taskToUsers, bulk.taskToUsers)
	assert.Equal(t, single.userToTasks, bulk.userToTasks)
	checkConsistent(t, bulk)
}

func TestStats(t *testing.T) {
	x := NewIndex()
	assert.Equal(t, Stats{}, x.Stats())

	tasks, users := newIDs(2), newIDs(3)
	x.Assign(tasks[0], users[0])
	x.Assign(tasks[0], users[1])
	x.Assign(tasks[0], users[2])
	x.Assign(tasks[1], users[0])

	s := x.Stats()
	assert.Equal(t, 2, s.TotalTasks)
	assert.Equal(t, 3, s.TotalUsers)
	assert.Equal(t, 4, s.TotalAssignments)
	assert.InDelta(t, 2.0, s.AvgUsersPerTask, 1e-9)
	assert.InDelta(t, 4.0/3.0, s.AvgTasksPerUser, 1e-9)
	assert.Equal(t, 3, x.CountUsersInTask(tasks[0]))
	assert.Equal(t, 2, x.CountTasksForUser(users[0]))
}

func TestWithoutQueries(t *testing.T) {
	x := NewIndex()
	tasks, users := newIDs(3), newIDs(2)
	x.Assign(tasks[1], users[0])

	assert.Equal(t, []uuid.UUID{tasks[0], tasks[2]}, x.TasksWithoutUsers(tasks))
	assert.Equal(t, []uuid.UUID{users[1]}, x.UsersWithoutTasks(users))
}

func TestClear(t *testing.T) {
	x := NewIndex()
	x.Assign(models.NewID(), models.NewID())
	x.Clear()
	assert.Empty(t, x.Edges())
	assert.Equal(t, Stats{}, x.Stats())
}

func TestRandomSequencesStayConsistent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tasks, users := newIDs(6), newIDs(6)
	x := NewIndex()
	model := make(map[models.TaskAssignment]bool)

	for i := 0; i < 2000; i++ {
		task := tasks[rng.Intn(len(tasks))]
		user := users[rng.Intn(len(users))]
		edge := models.TaskAssignment{TaskID: task, UserID: user}

		switch rng.Intn(5) {
		case 0, 1:
			x.Assign(task, user)
			model[edge] = true
		case 2:
			x.Unassign(task, user)
			delete(model, edge)
		case 3:
			x.UnassignAllForTask(task)
			for e := range model {
				if e.TaskID == task {
					delete(model, e)
				}
			}
		case 4:
			x.UnassignAllForUser(user)
			for e := range model {
				if e.UserID == user {
					delete(model, e)
				}
			}
		}

		checkConsistent(t, x)
		for _, tk := range tasks {
			for _, u := range users {
				want := model[models.TaskAssignment{TaskID: tk, UserID: u}]
				require.Equal(t, want, x.IsAssigned(tk, u))
			}
		}
	}
	assert.Equal(t, len(model), x.Stats().TotalAssignments)
}

func TestConcurrentAccess(t *testing.T) {
	x := NewIndex()
	tasks, users := newIDs(8), newIDs(8)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				task, user := tasks[(w+i)%8], users[i%8]
				x.Assign(task, user)
				_ = x.UsersOf(task)
				if i%3 == 0 {
					x.Unassign(task, user)
				}
			}
		}(w)
	}
	wg.Wait()

	checkConsistent(t, x)
}
