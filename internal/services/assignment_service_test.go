package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/taskboard/internal/assignment"
	apperrors "github.com/yukikurage/taskboard/internal/errors"
	"github.com/yukikurage/taskboard/internal/history"
	"github.com/yukikurage/taskboard/internal/models"
)

// AssignmentServiceTestSuite defines the test suite for AssignmentService
type AssignmentServiceTestSuite struct {
	suite.Suite
	board *Board
	task1 *models.Task
	task2 *models.Task
	userA *models.User
	userB *models.User
}

// SetupTest runs before each test
func (suite *AssignmentServiceTestSuite) SetupTest() {
	suite.board = NewBoard(BoardOptions{})
	suite.task1 = suite.createTestTask("Login fails")
	suite.task2 = suite.createTestTask("Dark mode")
	suite.userA = suite.createTestUser("Ana", "ana@example.com")
	suite.userB = suite.createTestUser("Bruno", "bruno@example.com")
}

func (suite *AssignmentServiceTestSuite) createTestTask(title string) *models.Task {
	task, err := suite.board.Tasks.CreateTask(CreateTaskInput{Title: title})
	suite.Require().NoError(err)
	return task
}

func (suite *AssignmentServiceTestSuite) createTestUser(name, email string) *models.User {
	user, err := suite.board.Users.AddUser(AddUserInput{Name: name, Email: email})
	suite.Require().NoError(err)
	return user
}

func (suite *AssignmentServiceTestSuite) TestAssignAndQuery() {
	a := suite.board.Assignments
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userA.ID))
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userA.ID))

	suite.True(a.IsAssigned(suite.task1.ID, suite.userA.ID))
	suite.False(a.IsAssigned(suite.task1.ID, suite.userB.ID))
	suite.Equal([]uuid.UUID{suite.userA.ID}, a.UsersOf(suite.task1.ID))
	suite.Equal([]uuid.UUID{suite.task1.ID}, a.TasksOf(suite.userA.ID))
	suite.Equal(1, a.CountUsersInTask(suite.task1.ID))
	suite.Equal(1, a.CountTasksForUser(suite.userA.ID))

	suite.Len(suite.board.History.Search("assigned to task"), 1)
}

func (suite *AssignmentServiceTestSuite) TestAssign_Errors() {
	a := suite.board.Assignments

	err := a.Assign(models.NewID(), suite.userA.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
	suite.True(apperrors.IsNotFound(err))

	err = a.Assign(suite.task1.ID, models.NewID())
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.board.Users.ToggleActive(suite.userB.ID)
	suite.Require().NoError(err)
	err = a.Assign(suite.task1.ID, suite.userB.ID)
	suite.ErrorIs(err, ErrUserInactive)
	suite.True(apperrors.IsValidation(err))

	suite.ErrorIs(a.AssignMany(suite.task1.ID), ErrNoUserIDsProvided)
	suite.Empty(a.Edges())
}

func (suite *AssignmentServiceTestSuite) TestAssignMany_AllOrNothing() {
	a := suite.board.Assignments
	missing := models.NewID()

	err := a.AssignMany(suite.task1.ID, suite.userA.ID, missing)
	suite.ErrorIs(err, ErrUserNotFound)
	suite.False(a.IsAssigned(suite.task1.ID, suite.userA.ID))

	suite.Require().NoError(a.AssignMany(suite.task1.ID, suite.userA.ID, suite.userB.ID))
	suite.Equal([]uuid.UUID{suite.userA.ID, suite.userB.ID}, a.UsersOf(suite.task1.ID))
}

func (suite *AssignmentServiceTestSuite) TestUnassignRoundTrip() {
	a := suite.board.Assignments
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userA.ID))

	suite.True(a.Unassign(suite.task1.ID, suite.userA.ID))
	suite.False(a.Unassign(suite.task1.ID, suite.userA.ID))

	suite.Empty(a.UsersOf(suite.task1.ID))
	suite.Empty(a.TasksOf(suite.userA.ID))
	suite.False(suite.board.Store.Index.HasTask(suite.task1.ID))
	suite.Equal([]uuid.UUID{suite.task1.ID, suite.task2.ID}, a.TasksWithoutUsers())
	suite.Equal([]uuid.UUID{suite.userA.ID, suite.userB.ID}, a.UsersWithoutTasks())
	suite.Equal(assignment.Stats{}, a.Stats())
}

func (suite *AssignmentServiceTestSuite) TestUnassignAllForTask() {
	a := suite.board.Assignments
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userA.ID))
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userB.ID))

	removed := a.UnassignAllForTask(suite.task1.ID)

	suite.Len(removed, 2)
	suite.Empty(a.UsersOf(suite.task1.ID))
	suite.Empty(a.TasksOf(suite.userA.ID))
	suite.Empty(a.TasksOf(suite.userB.ID))
	suite.Len(suite.board.History.Search("removed from task"), 2)
}

func (suite *AssignmentServiceTestSuite) TestUnassignAllForUser() {
	a := suite.board.Assignments
	suite.Require().NoError(a.Assign(suite.task1.ID, suite.userA.ID))
	suite.Require().NoError(a.Assign(suite.task2.ID, suite.userA.ID))
	suite.Require().NoError(a.Assign(suite.task2.ID, suite.userB.ID))

	removed := a.UnassignAllForUser(suite.userA.ID)

	suite.Equal([]uuid.UUID{suite.task1.ID, suite.task2.ID}, removed)
	suite.Equal([]uuid.UUID{suite.userB.ID}, a.UsersOf(suite.task2.ID))
	suite.Equal([]uuid.UUID{suite.task1.ID}, a.TasksWithoutUsers())
	suite.Equal([]uuid.UUID{suite.userA.ID}, a.UsersWithoutTasks())
}

func (suite *AssignmentServiceTestSuite) TestStatsAndClear() {
	a := suite.board.Assignments
	suite.Require().NoError(a.AssignMany(suite.task1.ID, suite.userA.ID, suite.userB.ID))
	suite.Require().NoError(a.Assign(suite.task2.ID, suite.userA.ID))

	stats := a.Stats()
	suite.Equal(2, stats.TotalTasks)
	suite.Equal(2, stats.TotalUsers)
	suite.Equal(3, stats.TotalAssignments)
	suite.InDelta(1.5, stats.AvgUsersPerTask, 1e-9)
	suite.InDelta(1.5, stats.AvgTasksPerUser, 1e-9)

	a.Clear()
	suite.Equal(assignment.Stats{}, a.Stats())
	cleared := suite.board.History.Recent(1)
	suite.Require().Len(cleared, 1)
	suite.Equal(history.EventAssignmentsCleared, cleared[0].Type)
}

func (suite *AssignmentServiceTestSuite) TestConcurrentDeleteLeavesNoDanglingEdges() {
	tasks := make([]*models.Task, 20)
	for i := range tasks {
		tasks[i] = suite.createTestTask("task")
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(2)
		go func(id uuid.UUID) {
			defer wg.Done()
			_ = suite.board.Assignments.AssignMany(id, suite.userA.ID, suite.userB.ID)
		}(task.ID)
		go func(id uuid.UUID) {
			defer wg.Done()
			_ = suite.board.Tasks.DeleteTask(id)
		}(task.ID)
	}
	wg.Wait()

	for _, edge := range suite.board.Assignments.Edges() {
		_, err := suite.board.Tasks.GetByID(edge.TaskID)
		suite.NoError(err, "edge references deleted task %s", edge.TaskID)
	}
}

func (suite *AssignmentServiceTestSuite) TestDeactivationOrderedWithAssign() {
	tasks := make([]*models.Task, 20)
	for i := range tasks {
		tasks[i] = suite.createTestTask("task")
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_ = suite.board.Assignments.Assign(id, suite.userA.ID)
		}(task.ID)
		if i == len(tasks)/2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = suite.board.Users.ToggleActive(suite.userA.ID)
			}()
		}
	}
	wg.Wait()

	userID := suite.userA.ID.String()
	inactive := false
	assigned := 0
	for _, e := range suite.board.History.Entries() {
		switch e.Type {
		case history.EventUserStatusChanged:
			if e.EntityID == userID {
				inactive = !e.Payload["active"].(bool)
			}
		case history.EventUserAssigned:
			if e.Payload["user_id"] == userID {
				suite.False(inactive, "assignment recorded after deactivation")
				assigned++
			}
		}
	}
	suite.True(inactive)
	suite.Equal(assigned, suite.board.Assignments.CountTasksForUser(suite.userA.ID))
}

func TestAssignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceTestSuite))
}
