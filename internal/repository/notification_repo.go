package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskboard/internal/model"
)

type NotificationRepository struct {
	db *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Insert writes a notification row.
func (r *NotificationRepository) Insert(ctx context.Context, n *model.Notification) error {
	query := `
        INSERT INTO notifications (user_id, type, content)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	return r.db.QueryRow(ctx, query, n.UserID, n.Type, n.Content).
		Scan(&n.ID, &n.CreatedAt)
}
