package model

import "strings"

// Status is the lifecycle state of a Task. The numeric values are the wire format.
type Status int

const (
	Pending Status = iota
	InProgress
	Finished
)

// Statuses lists every status in column order.
var Statuses = [...]Status{Pending, InProgress, Finished}

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case InProgress:
		return "In Progress"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

func (s Status) Valid() bool { return s >= Pending && s <= Finished }

// Task is the domain model for a todo entry.
// ID, CreatedAt and (usually) FinishedAt are owned by the backend.
type Task struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      Status  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
	FinishedAt  *string `json:"finishedAt"`
}

// Draft is the body of a create request: a Task without the server-owned fields.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      Status `json:"status"`
}

// IsNew reports whether the task has not been created on the backend yet.
func (t Task) IsNew() bool { return t.ID == 0 }

// HasFinishedAt reports whether FinishedAt carries a value. An empty string counts as unset.
func (t Task) HasFinishedAt() bool {
	return t.FinishedAt != nil && strings.TrimSpace(*t.FinishedAt) != ""
}

func (t Task) Draft() Draft {
	return Draft{Title: t.Title, Description: t.Description, Status: t.Status}
}

// DisplayDescription is what a card shows under the title.
func (t Task) DisplayDescription() string {
	if strings.TrimSpace(t.Description) == "" {
		return "No description"
	}
	return t.Description
}

// StringPtr is a small helper for optional timestamps.
func StringPtr(s string) *string { return &s }
