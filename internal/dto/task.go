package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/taskboard/internal/assignment"
	"github.com/yukikurage/taskboard/internal/models"
)

// UserDTO represents a user in command output
type UserDTO struct {
	ID      uuid.UUID       `json:"id" yaml:"id"`
	Name    string          `json:"name" yaml:"name"`
	Email   string          `json:"email" yaml:"email"`
	Role    models.UserRole `json:"role" yaml:"role"`
	Active  bool            `json:"active" yaml:"active"`
	TaskIDs []uuid.UUID     `json:"task_ids" yaml:"task_ids"`
}

// TaskDTO represents a task in command output
type TaskDTO struct {
	ID             uuid.UUID           `json:"id" yaml:"id"`
	Title          string              `json:"title" yaml:"title"`
	Kind           models.TaskKind     `json:"kind" yaml:"kind"`
	Category       models.TaskCategory `json:"category" yaml:"category"`
	Status         models.TaskStatus   `json:"status" yaml:"status"`
	Label          string              `json:"label" yaml:"label"`
	Completed      bool                `json:"completed" yaml:"completed"`
	CompletedAt    *time.Time          `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Assignee       string              `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Severity       models.Severity     `json:"severity,omitempty" yaml:"severity,omitempty"`
	EstimatedHours *float64            `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	UserIDs        []uuid.UUID         `json:"user_ids" yaml:"user_ids"`
	CreatedAt      time.Time           `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at" yaml:"updated_at"`
}

// AssignmentStatsDTO represents index statistics in command output
type AssignmentStatsDTO struct {
	TotalTasks       int     `json:"total_tasks" yaml:"total_tasks"`
	TotalUsers       int     `json:"total_users" yaml:"total_users"`
	TotalAssignments int     `json:"total_assignments" yaml:"total_assignments"`
	AvgUsersPerTask  float64 `json:"avg_users_per_task" yaml:"avg_users_per_task"`
	AvgTasksPerUser  float64 `json:"avg_tasks_per_user" yaml:"avg_tasks_per_user"`
}

// BoardDTO is a full snapshot of a board
type BoardDTO struct {
	Tasks             []TaskDTO          `json:"tasks" yaml:"tasks"`
	Users             []UserDTO          `json:"users" yaml:"users"`
	Stats             AssignmentStatsDTO `json:"stats" yaml:"stats"`
	TasksWithoutUsers []uuid.UUID        `json:"tasks_without_users" yaml:"tasks_without_users"`
	UsersWithoutTasks []uuid.UUID        `json:"users_without_tasks" yaml:"users_without_tasks"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User, taskIDs []uuid.UUID) UserDTO {
	if taskIDs == nil {
		taskIDs = []uuid.UUID{}
	}
	return UserDTO{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Role:    user.Role,
		Active:  user.Active,
		TaskIDs: taskIDs,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task, userIDs []uuid.UUID) TaskDTO {
	if userIDs == nil {
		userIDs = []uuid.UUID{}
	}
	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Kind:           task.Kind,
		Category:       task.Category,
		Status:         task.Status,
		Label:          task.Status.Label(),
		Completed:      task.Completed,
		CompletedAt:    task.CompletedAt,
		Assignee:       task.Assignee,
		Severity:       task.Severity,
		EstimatedHours: task.EstimatedHours,
		UserIDs:        userIDs,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToAssignmentStatsDTO converts index statistics
func ToAssignmentStatsDTO(stats assignment.Stats) AssignmentStatsDTO {
	return AssignmentStatsDTO(stats)
}

// Relations answers which ids are linked to a task or a user
type Relations interface {
	UsersOf(taskID uuid.UUID) []uuid.UUID
	TasksOf(userID uuid.UUID) []uuid.UUID
}

// ToBoardDTO builds a snapshot from the board's collections and relation
func ToBoardDTO(tasks []models.Task, users []models.User, rel Relations, stats assignment.Stats, tasksWithoutUsers, usersWithoutTasks []uuid.UUID) BoardDTO {
	out := BoardDTO{
		Tasks:             make([]TaskDTO, len(tasks)),
		Users:             make([]UserDTO, len(users)),
		Stats:             ToAssignmentStatsDTO(stats),
		TasksWithoutUsers: tasksWithoutUsers,
		UsersWithoutTasks: usersWithoutTasks,
	}
	for i, task := range tasks {
		out.Tasks[i] = ToTaskDTO(task, rel.UsersOf(task.ID))
	}
	for i, user := range users {
		out.Users[i] = ToUserDTO(user, rel.TasksOf(user.ID))
	}
	if out.TasksWithoutUsers == nil {
		out.TasksWithoutUsers = []uuid.UUID{}
	}
	if out.UsersWithoutTasks == nil {
		out.UsersWithoutTasks = []uuid.UUID{}
	}
	return out
}
