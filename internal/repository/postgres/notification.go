package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

func (r *notificationRepository) Create(ctx context.Context, n *model.NotificationItem) error {
	query := `
		INSERT INTO notifications (
			id, type, title, body, read, outreach_started, meta,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.Type,
		n.Title,
		n.Body,
		n.Read,
		n.OutreachStarted,
		n.Meta,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ListRecent(ctx context.Context, limit int) ([]*model.NotificationItem, error) {
	query := `
		SELECT id, type, title, body, read, outreach_started, meta,
			   created_at, updated_at
		FROM notifications
		ORDER BY created_at DESC
		LIMIT $1
	`
	var items []*model.NotificationItem
	if err := r.db.SelectContext(ctx, &items, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) error {
	query := `UPDATE notifications SET read = TRUE, updated_at = $1 WHERE read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, time.Now()); err != nil {
		return fmt.Errorf("failed to mark all notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepository) SetOutreachStarted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET outreach_started = TRUE, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to flag outreach started: %w", err)
	}
	return nil
}
