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

type TaskStatusHandler struct {
	notifications notificationWriter
	deduper       eventDeduper
	logger        *zap.Logger
}

func NewTaskStatusHandler(notifications notificationWriter, deduper eventDeduper, logger *zap.Logger) *TaskStatusHandler {
	return &TaskStatusHandler{
		notifications: notifications,
		deduper:       deduper,
		logger:        logger,
	}
}

// HandleTaskStatusChanged tells a task's creator when someone else moved
// its status. Changes made by the creator produce no notification.
func (h *TaskStatusHandler) HandleTaskStatusChanged(ctx context.Context, raw json.RawMessage) error {
	var p mq.TaskEventPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal task status payload", zap.Error(err))
		return err
	}

	if p.CreatorID == p.ActorID {
		return nil
	}

	dedupKey := fmt.Sprintf("%d:%s:%d", p.TaskID, p.Status, p.OccurredAt.UnixNano())
	if h.deduper != nil && !h.deduper.AcquireOnce(ctx, "task_status", dedupKey) {
		h.logger.Debug("Duplicate task status event", zap.Int("task_id", p.TaskID))
		return nil
	}

	notif := &model.Notification{
		UserID:  p.CreatorID,
		Type:    "task_status_changed",
		Content: fmt.Sprintf("Task %q is now %s", p.Title, p.Status),
	}
	if err := h.notifications.Insert(ctx, notif); err != nil {
		h.logger.Error("Failed to insert notification",
			zap.Int("task_id", p.TaskID),
			zap.Int("user_id", p.CreatorID),
			zap.Error(err),
		)
		return err
	}

	metrics.RecordNotification("task_status_changed")
	h.logger.Info("Status notification created",
		zap.Int("task_id", p.TaskID),
		zap.Int("user_id", p.CreatorID),
		zap.String("status", p.Status),
	)
	return nil
}
