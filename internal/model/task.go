package model

import "time"

const (
	StatusTodo       = "To-Do"
	StatusInProgress = "In-Progress"
	StatusCompleted  = "Completed"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Statuses lists every persistable task status.
var Statuses = []string{StatusTodo, StatusInProgress, StatusCompleted}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func ValidPriority(p string) bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  UserRef    `json:"assignedTo"`
	CreatedBy   UserRef    `json:"createdBy"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter describes one list query over the task collection.
// ScopeUserID is zero for admins; non-zero restricts results to tasks
// where that user is assignee or creator, before any other filter.
type TaskFilter struct {
	ScopeUserID int
	Status      string
	Priority    string
	AssignedTo  int
	CreatedBy   int
	Search      string
	SortField   string
	SortDesc    bool
	Page        int
	Limit       int
}

// TaskStats is the aggregate view over a role-scoped task set.
type TaskStats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByPriority map[string]int `json:"byPriority"`
}
