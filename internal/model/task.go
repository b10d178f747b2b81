package model

import (
	"time"

	"github.com/google/uuid"
)

// Priority levels stored in tasks.priority.
const (
	PriorityNone = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var PriorityNames = map[int]string{
	PriorityNone:     "None",
	PriorityLow:      "Low",
	PriorityMedium:   "Medium",
	PriorityHigh:     "High",
	PriorityCritical: "Critical",
}

type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
}

type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

type TaskFilter struct {
	Completed *bool
	Sort      SortOrder
}

// IsZero reports whether the filter selects every task newest first.
func (f TaskFilter) IsZero() bool {
	return f.Completed == nil && (f.Sort == "" || f.Sort == SortNewest)
}
