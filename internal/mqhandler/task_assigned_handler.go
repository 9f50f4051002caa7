package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
	"taskboard/internal/mq"
)

// notificationWriter is the slice of the notification repository the
// handlers need.
type notificationWriter interface {
	Insert(ctx context.Context, n *model.Notification) error
}

// eventDeduper guards against MQ redeliveries.
type eventDeduper interface {
	AcquireOnce(ctx context.Context, handler, key string) bool
}

type TaskAssignedHandler struct {
	notifications notificationWriter
	deduper       eventDeduper
	logger        *zap.Logger
}

func NewTaskAssignedHandler(notifications notificationWriter, deduper eventDeduper, logger *zap.Logger) *TaskAssignedHandler {
	return &TaskAssignedHandler{
		notifications: notifications,
		deduper:       deduper,
		logger:        logger,
	}
}

// HandleTaskAssigned writes an in-app notification for the new assignee.
// Self-assignments are skipped.
func (h *TaskAssignedHandler) HandleTaskAssigned(ctx context.Context, raw json.RawMessage) error {
	var p mq.TaskEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal task assigned payload", zap.Error(err))
		return err
	}

	if p.AssigneeID == p.ActorID {
		h.logger.Debug("Skipping self-assignment", zap.Int("task_id", p.TaskID))
		return nil
	}

	dedupKey := fmt.Sprintf("%d:%d:%d", p.TaskID, p.AssigneeID, p.OccurredAt.UnixNano())
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "task_assigned", dedupKey) {
		h.logger.Debug("Duplicate task assigned event", zap.Int("task_id", p.TaskID))
		return nil
	}

	notif := &model.Notification{
		UserID:  p.AssigneeID,
		Type:    "task_assigned",
		Content: fmt.Sprintf("You have been assigned a task: %s", p.Title),
	}
	if err := h.notifications.Insert(ctx, notif); err != nil {
		h.logger.Error("Failed to insert notification",
			zap.Int("task_id", p.TaskID),
			zap.Int("user_id", p.AssigneeID),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordNotification("task_assigned")
	h.logger.Info("Assignment notification created",
		zap.Int("task_id", p.TaskID),
		zap.Int("user_id", p.AssigneeID),
	)
	return nil
}
