package models

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
)

// TaskAssignment is one edge of the task/user assignment relation.
type TaskAssignment struct {
	TaskID uuid.UUID `json:"task_id"`
	UserID uuid.UUID `json:"user_id"`
}

// NewID returns a fresh identifier. Identifiers are UUIDv7, so they sort in
// creation order.
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// SortIDs sorts ids in place, oldest first.
func SortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}
