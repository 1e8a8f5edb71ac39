package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

func (r *sosRequestRepository) Create(ctx context.Context, req *model.SOSRequest) error {
	query := `
		INSERT INTO sos_requests (
			id, requester_id, patient_name, patient_age,
			blood_type, organ_type, priority, status,
			location_name, contact_phone, description,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.RequesterID,
		req.PatientName,
		req.PatientAge,
		req.BloodType,
		req.OrganType,
		req.Priority,
		req.Status,
		req.LocationName,
		req.ContactPhone,
		req.Description,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sos request: %w", err)
	}
	return nil
}

func (r *sosRequestRepository) Get(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error) {
	query := `
		SELECT id, requester_id, patient_name, patient_age,
			   blood_type, organ_type, priority, status,
			   location_name, contact_phone, description,
			   created_at, updated_at
		FROM sos_requests
		WHERE id = $1
	`
	var req model.SOSRequest
	err := r.db.GetContext(ctx, &req, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("sos request", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sos request: %w", err)
	}
	return &req, nil
}

// sosRequestRow carries the request columns plus the joined requester profile
type sosRequestRow struct {
	model.SOSRequest
	RequesterFullName         string  `db:"requester_full_name"`
	RequesterOrganizationName *string `db:"requester_organization_name"`
	RequesterPhone            *string `db:"requester_phone"`
}

func (r *sosRequestRepository) ListActive(ctx context.Context, limit int) ([]*model.SOSRequest, error) {
	query := `
		SELECT s.id, s.requester_id, s.patient_name, s.patient_age,
			   s.blood_type, s.organ_type, s.priority, s.status,
			   s.location_name, s.contact_phone, s.description,
			   s.created_at, s.updated_at,
			   p.full_name AS requester_full_name,
			   p.organization_name AS requester_organization_name,
			   p.phone AS requester_phone
		FROM sos_requests s
		JOIN profiles p ON p.id = s.requester_id
		WHERE s.status = $1
		ORDER BY s.created_at DESC
		LIMIT $2
	`
	var rows []sosRequestRow
	if err := r.db.SelectContext(ctx, &rows, query, model.StatusActive, limit); err != nil {
		return nil, fmt.Errorf("failed to list active sos requests: %w", err)
	}

	requests := make([]*model.SOSRequest, 0, len(rows))
	for i := range rows {
		req := rows[i].SOSRequest
		req.Requester = &model.RequesterInfo{
			FullName:         rows[i].RequesterFullName,
			OrganizationName: rows[i].RequesterOrganizationName,
			Phone:            rows[i].RequesterPhone,
		}
		requests = append(requests, &req)
	}
	return requests, nil
}

// UpdateStatusIf performs the compare-and-swap transition. Zero rows affected
// means another responder moved the request first.
func (r *sosRequestRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.SOSStatus) (*model.SOSRequest, error) {
	query := `
		UPDATE sos_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return nil, fmt.Errorf("failed to update sos request status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.Conflict(fmt.Sprintf("request is no longer %s", from), nil)
	}

	return r.Get(ctx, id)
}

func (r *sosRequestRepository) CountByStatus(ctx context.Context, status model.SOSStatus) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sos_requests WHERE status = $1`, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count sos requests: %w", err)
	}
	return count, nil
}
