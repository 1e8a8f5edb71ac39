package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

func (r *sosResponseRepository) Create(ctx context.Context, resp *model.SOSResponse) error {
	query := `
		INSERT INTO responses (id, request_id, responder_id, action, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	resp.ID = uuid.New()
	resp.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		resp.ID,
		resp.RequestID,
		resp.ResponderID,
		resp.Action,
		resp.Message,
		resp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	return nil
}

func (r *sosResponseRepository) ListForRequest(ctx context.Context, requestID uuid.UUID) ([]*model.SOSResponse, error) {
	query := `
		SELECT id, request_id, responder_id, action, message, created_at
		FROM responses
		WHERE request_id = $1
		ORDER BY created_at ASC
	`
	var responses []*model.SOSResponse
	if err := r.db.SelectContext(ctx, &responses, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	return responses, nil
}
