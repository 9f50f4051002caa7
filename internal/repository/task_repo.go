package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// taskColumns joins the assignee (a) and creator (c) so responses carry
// populated user references in a single query.
const taskColumns = `
        t.id, t.title, t.description, t.status, t.priority,
        t.due_date, t.tags, t.created_at, t.updated_at,
        a.id, a.name, a.email,
        c.id, c.name, c.email`

const taskFrom = `
        FROM tasks t
        JOIN users a ON a.id = t.assigned_to
        JOIN users c ON c.id = t.created_by`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.CreatedAt, &t.UpdatedAt,
		&t.AssignedTo.ID, &t.AssignedTo.Name, &t.AssignedTo.Email,
		&t.CreatedBy.ID, &t.CreatedBy.Name, &t.CreatedBy.Email,
	)
	if err != nil {
		return nil, err
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	return &t, nil
}

// Insert persists a new task and fills in id and timestamps.
func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	r.logger.Debug("Inserting task",
		zap.String("title", t.Title),
		zap.Int("assigned_to", t.AssignedTo.ID),
		zap.Int("created_by", t.CreatedBy.ID),
	)
	query := `
        INSERT INTO tasks (title, description, status, priority, assigned_to, created_by, due_date, tags)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.AssignedTo.ID,
		t.CreatedBy.ID,
		t.DueDate,
		t.Tags,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("created_by", t.CreatedBy.ID),
		)
		return err
	}
	r.logger.Info("Task inserted",
		zap.Int("task_id", t.ID),
		zap.Int("created_by", t.CreatedBy.ID),
	)
	return nil
}

// FindByID returns the task with populated user references, or nil when absent.
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	query := "SELECT" + taskColumns + taskFrom + " WHERE t.id = $1"

	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to fetch task", zap.Error(err), zap.Int("task_id", id))
		return nil, err
	}
	return t, nil
}

// Update writes every mutable field and touches updated_at.
// created_by is deliberately not part of the statement.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	query := `
        UPDATE tasks
        SET title = $1, description = $2, status = $3, priority = $4,
            assigned_to = $5, due_date = $6, tags = $7, updated_at = NOW()
        WHERE id = $8
        RETURNING updated_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.AssignedTo.ID,
		t.DueDate,
		t.Tags,
		t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int("task_id", t.ID))
		return err
	}
	r.logger.Info("Task updated", zap.Int("task_id", t.ID))
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return err
	}
	r.logger.Info("Task deleted",
		zap.Int("task_id", id),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

// likeEscaper neutralizes ILIKE metacharacters so search terms match
// literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// buildFilter renders a TaskFilter into a WHERE clause and its arguments.
// The role scope condition always comes first.
func buildFilter(f model.TaskFilter) (string, []any) {
	var conds []string
	var args []any

	if f.ScopeUserID != 0 {
		args = append(args, f.ScopeUserID)
		conds = append(conds, fmt.Sprintf("(t.assigned_to = $%d OR t.created_by = $%d)", len(args), len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, fmt.Sprintf("t.priority = $%d", len(args)))
	}
	if f.AssignedTo != 0 {
		args = append(args, f.AssignedTo)
		conds = append(conds, fmt.Sprintf("t.assigned_to = $%d", len(args)))
	}
	if f.CreatedBy != 0 {
		args = append(args, f.CreatedBy)
		conds = append(conds, fmt.Sprintf("t.created_by = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// sortColumns whitelists the sortable API field names.
var sortColumns = map[string]string{
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
	"dueDate":   "t.due_date",
	"title":     "t.title",
	"status":    "t.status",
	"priority":  "t.priority",
}

func orderBy(f model.TaskFilter) string {
	col, ok := sortColumns[f.SortField]
	if !ok {
		return "ORDER BY t.created_at DESC"
	}
	dir := "ASC"
	if f.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", col, dir)
}

// List returns one page of tasks matching the filter plus the total count.
func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]model.Task, int, error) {
	where, args := buildFilter(f)

	var total int
	countQuery := "SELECT COUNT(*) FROM tasks t " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count tasks", zap.Error(err))
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 10
	}

	args = append(args, limit, (page-1)*limit)
	query := fmt.Sprintf("SELECT%s%s %s %s LIMIT $%d OFFSET $%d",
		taskColumns, taskFrom, where, orderBy(f), len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	r.logger.Debug("Tasks listed",
		zap.Int("count", len(tasks)),
		zap.Int("total", total),
		zap.Int("page", page),
	)
	return tasks, total, nil
}

// Stats aggregates task counts by status and priority for a scope.
// Only observed values appear in the maps; zero-filling is the
// service's concern.
func (r *TaskRepository) Stats(ctx context.Context, scopeUserID int) (*model.TaskStats, error) {
	where, args := buildFilter(model.TaskFilter{ScopeUserID: scopeUserID})

	stats := &model.TaskStats{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}

	statusQuery := "SELECT t.status, COUNT(*) FROM tasks t " + where + " GROUP BY t.status"
	rows, err := r.db.Query(ctx, statusQuery, args...)
	if err != nil {
		r.logger.Error("Failed to aggregate by status", zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	priorityQuery := "SELECT t.priority, COUNT(*) FROM tasks t " + where + " GROUP BY t.priority"
	prows, err := r.db.Query(ctx, priorityQuery, args...)
	if err != nil {
		r.logger.Error("Failed to aggregate by priority", zap.Error(err))
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var priority string
		var count int
		if err := prows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		stats.ByPriority[priority] = count
	}
	return stats, prows.Err()
}
