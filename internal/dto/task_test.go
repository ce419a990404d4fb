package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskboard/internal/assignment"
	"github.com/yukikurage/taskboard/internal/models"
)

func TestToTaskDTO(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	task := models.Task{
		ID:        models.NewID(),
		Title:     "Login fails",
		Kind:      models.TaskKindBug,
		Category:  models.CategoryWork,
		Status:    models.TaskStatusInProgress,
		Severity:  models.SeverityHigh,
		CreatedAt: now,
		UpdatedAt: now,
	}

	out := ToTaskDTO(task, nil)

	assert.Equal(t, task.ID, out.ID)
	assert.Equal(t, "In progress", out.Label)
	assert.Equal(t, models.SeverityHigh, out.Severity)
	assert.NotNil(t, out.UserIDs)
	assert.Empty(t, out.UserIDs)
}

func TestToBoardDTO(t *testing.T) {
	index := assignment.NewIndex()
	task := models.Task{ID: models.NewID(), Title: "Write docs", Status: models.TaskStatusCreated}
	idle := models.Task{ID: models.NewID(), Title: "Idle", Status: models.TaskStatusCreated}
	user := models.User{ID: models.NewID(), Name: "Ana", Email: "ana@example.com", Role: models.RoleMember, Active: true}
	index.Assign(task.ID, user.ID)

	out := ToBoardDTO(
		[]models.Task{task, idle},
		[]models.User{user},
		index,
		index.Stats(),
		index.TasksWithoutUsers([]uuid.UUID{task.ID, idle.ID}),
		nil,
	)

	require.Len(t, out.Tasks, 2)
	require.Len(t, out.Users, 1)
	assert.Equal(t, []uuid.UUID{user.ID}, out.Tasks[0].UserIDs)
	assert.Empty(t, out.Tasks[1].UserIDs)
	assert.Equal(t, []uuid.UUID{task.ID}, out.Users[0].TaskIDs)
	assert.Equal(t, 1, out.Stats.TotalAssignments)
	assert.Equal(t, []uuid.UUID{idle.ID}, out.TasksWithoutUsers)
	assert.Equal(t, []uuid.UUID{}, out.UsersWithoutTasks)
}
