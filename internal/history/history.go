// Package history records what happens on a board. Services report through
// the Observer interface; Log keeps a bounded in-memory trail and
// LogObserver forwards to logrus.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventTaskCreated            EventType = "task.created"
	EventTaskUpdated            EventType = "task.updated"
	EventTaskStatusChanged      EventType = "task.status_changed"
	EventTaskTransitionRejected EventType = "task.transition_rejected"
	EventTaskDeleted            EventType = "task.deleted"
	EventUserAdded              EventType = "user.added"
	EventUserStatusChanged      EventType = "user.status_changed"
	EventUserRemoved            EventType = "user.removed"
	EventUserAssigned           EventType = "assignment.added"
	EventUserUnassigned         EventType = "assignment.removed"
	EventAssignmentsCleared     EventType = "assignment.cleared"
)

const (
	EntityTask       = "task"
	EntityUser       = "user"
	EntityAssignment = "assignment"
)

type Payload map[string]any

type Event struct {
	TS         time.Time `json:"ts" yaml:"ts"`
	Type       EventType `json:"type" yaml:"type"`
	EntityKind string    `json:"entity_kind" yaml:"entity_kind"`
	EntityID   string    `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`
	Message    string    `json:"message" yaml:"message"`
	Payload    Payload   `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// Rejected reports whether the event records a refused operation.
func (e Event) Rejected() bool {
	return e.Type == EventTaskTransitionRejected
}

// Observer receives board events. Implementations must not call back into
// the services that notify them.
type Observer interface {
	Notify(Event)
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(Event) {}

// Multi fans an event out to several observers in order.
type Multi []Observer

func (m Multi) Notify(e Event) {
	for _, o := range m {
		if o != nil {
			o.Notify(e)
		}
	}
}

// Log is a bounded, concurrency-safe event trail. When full, the oldest
// entries are dropped.
type Log struct {
	mu      sync.RWMutex
	entries []Event
	limit   int
}

// NewLog returns a Log holding at most limit entries; limit <= 0 means
// unbounded.
func NewLog(limit int) *Log {
	return &Log{limit: limit}
}

func (l *Log) Notify(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append([]Event(nil), l.entries[len(l.entries)-l.limit:]...)
	}
}

// Entries returns a copy of every entry, oldest first.
func (l *Log) Entries() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Event{}, l.entries...)
}

// Recent returns the last n entries.
func (l *Log) Recent(n int) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 {
		return []Event{}
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]Event{}, l.entries[len(l.entries)-n:]...)
}

// Search returns entries whose message contains keyword, ignoring case.
func (l *Log) Search(keyword string) []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	needle := strings.ToLower(keyword)
	out := []Event{}
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.Message), needle) {
			out = append(out, e)
		}
	}
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// LogObserver writes events to a logrus logger. Rejections are logged at
// warn level, everything else at info.
type LogObserver struct {
	Logger logrus.FieldLogger
}

func (o LogObserver) Notify(e Event) {
	fields := logrus.Fields{
		"event":  string(e.Type),
		"entity": e.EntityKind,
	}
	if e.EntityID != "" {
		fields["entity_id"] = e.EntityID
	}
	for k, v := range e.Payload {
		fields[k] = v
	}

	entry := o.Logger.WithFields(fields)
	if e.Rejected() {
		entry.Warn(e.Message)
		return
	}
	entry.Info(e.Message)
}
