package mq

import "time"

// Routing keys for task lifecycle events.
const (
	EventTaskCreated       = "task.created"
	EventTaskStatusChanged = "task.status_changed"
	EventTaskAssigned      = "task.assigned"
	EventTaskDeleted       = "task.deleted"
)

// TaskEventPayload is the message body for every task lifecycle event.
type TaskEventPayload struct {
	TaskID     int       `json:"task_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	ActorID    int       `json:"actor_id"`
	AssigneeID int       `json:"assignee_id"`
	CreatorID  int       `json:"creator_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
