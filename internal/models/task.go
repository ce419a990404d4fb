package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusAssigned   TaskStatus = "ASSIGNED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusBlocked    TaskStatus = "BLOCKED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusArchived   TaskStatus = "ARCHIVED"
)

// TaskStatuses lists every status in typical flow order.
var TaskStatuses = []TaskStatus{
	TaskStatusCreated,
	TaskStatusAssigned,
	TaskStatusInProgress,
	TaskStatusBlocked,
	TaskStatusCompleted,
	TaskStatusArchived,
}

var statusLabels = map[TaskStatus]string{
	TaskStatusCreated:    "Created",
	TaskStatusAssigned:   "Assigned",
	TaskStatusInProgress: "In progress",
	TaskStatusBlocked:    "Blocked",
	TaskStatusCompleted:  "Completed",
	TaskStatusArchived:   "Archived",
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns a human readable name for the status.
func (s TaskStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

type TaskKind string

const (
	TaskKindGeneric TaskKind = "generic"
	TaskKindBug     TaskKind = "bug"
	TaskKindFeature TaskKind = "feature"
)

var TaskKinds = []TaskKind{TaskKindGeneric, TaskKindBug, TaskKindFeature}

func (k TaskKind) Valid() bool {
	return slices.Contains(TaskKinds, k)
}

type TaskCategory string

const (
	CategoryWork     TaskCategory = "work"
	CategoryPersonal TaskCategory = "personal"
	CategoryStudy    TaskCategory = "study"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Task is a unit of work. Completed and CompletedAt are owned by the
// lifecycle package and always agree with Status.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Category    TaskCategory `json:"category"`
	Kind        TaskKind     `json:"kind"`
	Status      TaskStatus   `json:"status"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Assignee    string       `json:"assignee,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Bug only
	Severity Severity `json:"severity,omitempty"`
	// Feature only
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		c.CompletedAt = &at
	}
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	return c
}
