package model

// Status is the workflow state of an issue as reported by the backend.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Priority is the urgency of an issue as reported by the backend.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Issue is a work-tracking record owned and served by the backend.
// It is read-only on this side.
type Issue struct {
	// ID is the opaque unique identifier.
	ID string `json:"id"`

	// Title is the display string.
	Title string `json:"title"`

	// Description is optional and not rendered.
	Description *string `json:"description"`

	// Status is one of the Status* constants. Unknown values are kept as-is.
	Status Status `json:"status"`

	// Priority is one of the Priority* constants. Unknown values are kept as-is.
	Priority Priority `json:"priority"`

	// Assignee is nil when the issue is unassigned.
	Assignee *string `json:"assignee"`

	// CreatedAt and UpdatedAt are kept as the backend's timestamp strings
	// so a malformed value only affects its own cell.
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
