package service

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/mq"
	"taskboard/internal/policy"
)

// Field limits count characters, not bytes.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// TaskStore is the persistence surface for tasks. FindByID reports a
// missing task as (nil, nil).
type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id int) (*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, f model.TaskFilter) ([]model.Task, int, error)
	Stats(ctx context.Context, scopeUserID int) (*model.TaskStats, error)
}

// EventPublisher pushes task lifecycle events onto the message bus.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// StatsCache holds computed statistics per visibility scope.
type StatsCache interface {
	Get(ctx context.Context, scope int) (*model.TaskStats, bool)
	Set(ctx context.Context, scope int, stats *model.TaskStats)
	Invalidate(ctx context.Context, scopes ...int)
}

type TaskService struct {
	tasks     TaskStore
	users     UserStore
	publisher EventPublisher
	cache     StatsCache
	logger    *zap.Logger
}

func NewTaskService(tasks TaskStore, users UserStore, publisher EventPublisher, cache StatsCache, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:     tasks,
		users:     users,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  int
	DueDate     *time.Time
	Tags        []string
}

// Create validates the input, resolves the assignee, and persists a new
// task with the actor as its creator.
func (s *TaskService) Create(ctx context.Context, actor *model.User, in CreateTaskInput) (*model.Task, error) {
	if in.Title == "" {
		return nil, invalid("title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxTitleLen {
		return nil, invalid("title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return nil, invalid("description cannot exceed 1000 characters")
	}
	if in.Status == "" {
		in.Status = model.StatusTodo
	} else if !model.ValidStatus(in.Status) {
		return nil, invalid("status must be: To-Do, In-Progress, or Completed")
	}
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	} else if !model.ValidPriority(in.Priority) {
		return nil, invalid("priority must be: Low, Medium, or High")
	}
	if in.AssignedTo == 0 {
		return nil, invalid("assignedTo is required")
	}

	assignee, err := s.users.FindByID(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, ErrUserNotFound
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	t := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  assignee.Ref(),
		CreatedBy:   actor.Ref(),
		DueDate:     in.DueDate,
		Tags:        tags,
	}
	if err := s.tasks.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvent(mq.EventTaskCreated, actor, t)
	s.invalidateStats(ctx, actor.ID, t.AssignedTo.ID, t.CreatedBy.ID)
	return t, nil
}

// Get returns one task if the actor may view it. Existence is checked
// before permission, so a missing task is a 404 even for outsiders.
func (s *TaskService) Get(ctx context.Context, actor *model.User, id int) (*model.Task, error) {
	t, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.ForRole(actor.Role).CanAccess(actor, t, policy.ActionView) {
		return nil, ErrForbidden
	}
	return t, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *int
	DueDate     *time.Time
	Tags        *[]string
}

// Update applies any subset of mutable fields. When AssignedTo is part
// of the payload, the target user's existence is re-validated so the
// assignee invariant holds through full updates too.
func (s *TaskService) Update(ctx context.Context, actor *model.User, id int, in UpdateTaskInput) (*model.Task, error) {
	t, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.ForRole(actor.Role).CanAccess(actor, t, policy.ActionEdit) {
		return nil, ErrForbidden
	}

	oldStatus := t.Status
	oldAssignee := t.AssignedTo.ID

	if in.Title != nil {
		if *in.Title == "" {
			return nil, invalid("title is required")
		}
		if utf8.RuneCountInString(*in.Title) > maxTitleLen {
			return nil, invalid("title cannot exceed 200 characters")
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		if utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
			return nil, invalid("description cannot exceed 1000 characters")
		}
		t.Description = *in.Description
	}
	if in.Status != nil {
		if !model.ValidStatus(*in.Status) {
			return nil, invalid("status must be: To-Do, In-Progress, or Completed")
		}
		t.Status = *in.Status
	}
	if in.Priority != nil {
		if !model.ValidPriority(*in.Priority) {
			return nil, invalid("priority must be: Low, Medium, or High")
		}
		t.Priority = *in.Priority
	}
	if in.AssignedTo != nil {
		assignee, err := s.users.FindByID(ctx, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			return nil, ErrUserNotFound
		}
		t.AssignedTo = assignee.Ref()
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.Tags != nil {
		t.Tags = *in.Tags
	}

	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	if t.Status != oldStatus {
		s.publishEvent(mq.EventTaskStatusChanged, actor, t)
	}
	if t.AssignedTo.ID != oldAssignee {
		s.publishEvent(mq.EventTaskAssigned, actor, t)
	}
	s.invalidateStats(ctx, actor.ID, oldAssignee, t.AssignedTo.ID, t.CreatedBy.ID)
	return t, nil
}

// UpdateStatus is the status-only patch. Any of the three statuses is
// reachable from any other; only the enum membership is enforced.
func (s *TaskService) UpdateStatus(ctx context.Context, actor *model.User, id int, status string) (*model.Task, error) {
	if !model.ValidStatus(status) {
		return nil, invalid("status must be: To-Do, In-Progress, or Completed")
	}

	t, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.ForRole(actor.Role).CanAccess(actor, t, policy.ActionEdit) {
		return nil, ErrForbidden
	}

	t.Status = status
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvent(mq.EventTaskStatusChanged, actor, t)
	s.invalidateStats(ctx, actor.ID, t.AssignedTo.ID, t.CreatedBy.ID)
	return t, nil
}

// Assign reassigns a task. The target user is validated first, so a
// nonexistent assignee fails with not-found and leaves the task as is.
func (s *TaskService) Assign(ctx context.Context, actor *model.User, id, assigneeID int) (*model.Task, error) {
	if assigneeID == 0 {
		return nil, invalid("assignedTo is required")
	}

	assignee, err := s.users.FindByID(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee == nil {
		return nil, ErrUserNotFound
	}

	t, err := s.loadTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.ForRole(actor.Role).CanAccess(actor, t, policy.ActionAssign) {
		return nil, ErrForbidden
	}

	oldAssignee := t.AssignedTo.ID
	t.AssignedTo = assignee.Ref()
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvent(mq.EventTaskAssigned, actor, t)
	s.invalidateStats(ctx, actor.ID, oldAssignee, assignee.ID, t.CreatedBy.ID)
	return t, nil
}

// Delete removes a task. Only the creator or an admin may delete.
func (s *TaskService) Delete(ctx context.Context, actor *model.User, id int) error {
	t, err := s.loadTask(ctx, id)
	if err != nil {
		return err
	}
	if !policy.ForRole(actor.Role).CanAccess(actor, t, policy.ActionDelete) {
		return ErrForbidden
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.publishEvent(mq.EventTaskDeleted, actor, t)
	s.invalidateStats(ctx, actor.ID, t.AssignedTo.ID, t.CreatedBy.ID)
	return nil
}

// List applies the actor's role scope on top of the caller's filter and
// returns one page plus the total match count.
func (s *TaskService) List(ctx context.Context, actor *model.User, f model.TaskFilter) ([]model.Task, int, error) {
	if actor.IsAdmin() {
		f.ScopeUserID = 0
	} else {
		f.ScopeUserID = actor.ID
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	return s.tasks.List(ctx, f)
}

// Stats returns role-scoped aggregate counts. All three status buckets
// are always present; total equals their sum.
func (s *TaskService) Stats(ctx context.Context, actor *model.User) (*model.TaskStats, error) {
	scope := 0
	if !actor.IsAdmin() {
		scope = actor.ID
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, scope); ok {
			return cached, nil
		}
	}

	stats, err := s.tasks.Stats(ctx, scope)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, status := range model.Statuses {
		if _, ok := stats.ByStatus[status]; !ok {
			stats.ByStatus[status] = 0
		}
		total += stats.ByStatus[status]
	}
	stats.Total = total

	if s.cache != nil {
		s.cache.Set(ctx, scope, stats)
	}
	return stats, nil
}

func (s *TaskService) loadTask(ctx context.Context, id int) (*model.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

// publishEvent is best effort: a broker failure is logged and never
// fails the request that triggered it.
func (s *TaskService) publishEvent(routingKey string, actor *model.User, t *model.Task) {
	if s.publisher == nil {
		return
	}

	payload := mq.TaskEventPayload{
		TaskID:     t.ID,
		Title:      t.Title,
		Status:     t.Status,
		ActorID:    actor.ID,
		AssigneeID: t.AssignedTo.ID,
		CreatorID:  t.CreatedBy.ID,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(routingKey, payload); err != nil {
		s.logger.Error("Failed to publish task event",
			zap.String("routing_key", routingKey),
			zap.Int("task_id", t.ID),
			zap.Error(err),
		)
	}
}

// invalidateStats drops cached statistics for every affected scope,
// including the unscoped admin view.
func (s *TaskService) invalidateStats(ctx context.Context, userIDs ...int) {
	if s.cache == nil {
		return
	}

	seen := map[int]bool{0: true}
	scopes := []int{0}
	for _, id := range userIDs {
		if !seen[id] {
			seen[id] = true
			scopes = append(scopes, id)
		}
	}
	s.cache.Invalidate(ctx, scopes...)
}
