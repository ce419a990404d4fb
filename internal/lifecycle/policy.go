// Package lifecycle holds the task status state machines. Each task kind has
// its own transition policy; every kind starts in CREATED.
package lifecycle

import (
	"slices"
	"time"

	"github.com/yukikurage/taskboard/internal/models"
)

// Bugs follow a fixed allow-list. ARCHIVED is terminal.
var bugTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusCreated:    {models.TaskStatusAssigned, models.TaskStatusArchived},
	models.TaskStatusAssigned:   {models.TaskStatusInProgress, models.TaskStatusBlocked},
	models.TaskStatusInProgress: {models.TaskStatusBlocked, models.TaskStatusCompleted},
	models.TaskStatusBlocked:    {models.TaskStatusInProgress, models.TaskStatusArchived},
	models.TaskStatusCompleted:  {models.TaskStatusArchived, models.TaskStatusInProgress},
	models.TaskStatusArchived:   {},
}

// Features allow everything except the transitions listed here.
var featureDenied = map[models.TaskStatus][]models.TaskStatus{
	models.TaskStatusArchived: {models.TaskStatusCreated, models.TaskStatusAssigned},
}

// IsTransitionLegal reports whether a task of the given kind may move from
// one status to another. Unknown kinds get the generic policy.
func IsTransitionLegal(kind models.TaskKind, from, to models.TaskStatus) bool {
	switch kind {
	case models.TaskKindBug:
		return slices.Contains(bugTransitions[from], to)
	case models.TaskKindFeature:
		return !slices.Contains(featureDenied[from], to)
	default:
		return true
	}
}

// ReopenStatus is where ToggleComplete sends a completed task.
func ReopenStatus(kind models.TaskKind) models.TaskStatus {
	return models.TaskStatusInProgress
}

// ToggleTarget returns the status ToggleComplete would request for task.
func ToggleTarget(task *models.Task) models.TaskStatus {
	if task.Completed {
		return ReopenStatus(task.Kind)
	}
	return models.TaskStatusCompleted
}

// MoveTo applies a status change to task if its kind's policy allows it and
// reports whether it did. A rejected move leaves task untouched.
func MoveTo(task *models.Task, to models.TaskStatus, now time.Time) bool {
	if !IsTransitionLegal(task.Kind, task.Status, to) {
		return false
	}

	task.Status = to
	if to == models.TaskStatusCompleted {
		completedAt := now
		task.Completed = true
		task.CompletedAt = &completedAt
	} else {
		task.Completed = false
		task.CompletedAt = nil
	}
	task.UpdatedAt = now
	return true
}

// ToggleComplete completes an open task or reopens a completed one, subject
// to the same policy as MoveTo.
func ToggleComplete(task *models.Task, now time.Time) bool {
	return MoveTo(task, ToggleTarget(task), now)
}

// AllowedFrom lists, for every status, the statuses a task of kind may move
// to. Moving to the current status counts when the policy allows it.
func AllowedFrom(kind models.TaskKind) map[models.TaskStatus][]models.TaskStatus {
	out := make(map[models.TaskStatus][]models.TaskStatus, len(models.TaskStatuses))
	for _, from := range models.TaskStatuses {
		allowed := []models.TaskStatus{}
		for _, to := range models.TaskStatuses {
			if IsTransitionLegal(kind, from, to) {
				allowed = append(allowed, to)
			}
		}
		out[from] = allowed
	}
	return out
}
