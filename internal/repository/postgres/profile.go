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

const profileColumns = `
	id, user_id, role, full_name, email, password_hash,
	phone, organization_name, address, blood_type,
	created_at, updated_at
`

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	query := `
		INSERT INTO profiles (
			id, user_id, role, full_name, email, password_hash,
			phone, organization_name, address, blood_type,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	profile.ID = uuid.New()
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Role,
		profile.FullName,
		profile.Email,
		profile.PasswordHash,
		profile.Phone,
		profile.OrganizationName,
		profile.Address,
		profile.BloodType,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Get(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("profile", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, userID)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("profile", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by user: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, query, email)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("profile", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) ListByRole(ctx context.Context, role model.Role, limit int) ([]*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY created_at DESC LIMIT $2`
	var profiles []*model.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, role, limit); err != nil {
		return nil, fmt.Errorf("failed to list profiles by role: %w", err)
	}
	return profiles, nil
}

func (r *profileRepository) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM profiles WHERE role = $1`, role); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
