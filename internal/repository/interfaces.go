package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
)

// InventoryFilter narrows inventory listings. Zero-value fields are ignored.
// Search matches case-insensitively against the provider name and notes.
type InventoryFilter struct {
	Status    model.InventoryStatus
	BloodType model.BloodType
	OrganType model.OrganType
	Search    string
}

// All repository interfaces in one file
type (
	// SOSRequestRepository handles emergency request rows. UpdateStatusIf is
	// the conditional transition used to claim a request: it succeeds only
	// when the row is still in the expected status.
	SOSRequestRepository interface {
		Create(ctx context.Context, req *model.SOSRequest) error
		Get(ctx context.Context, id uuid.UUID) (*model.SOSRequest, error)
		ListActive(ctx context.Context, limit int) ([]*model.SOSRequest, error)
		UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.SOSStatus) (*model.SOSRequest, error)
		CountByStatus(ctx context.Context, status model.SOSStatus) (int, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.NotificationItem) error
		ListRecent(ctx context.Context, limit int) ([]*model.NotificationItem, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context) error
		SetOutreachStarted(ctx context.Context, id uuid.UUID) error
	}

	InventoryRepository interface {
		Create(ctx context.Context, item *model.InventoryItem) error
		List(ctx context.Context, filter InventoryFilter, limit int) ([]*model.InventoryItem, error)
		ListAvailable(ctx context.Context, limit int) ([]*model.InventoryItem, error)
		CountAvailableUnits(ctx context.Context) (int, error)
		MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	ProfileRepository interface {
		Create(ctx context.Context, profile *model.Profile) error
		Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
		GetByEmail(ctx context.Context, email string) (*model.Profile, error)
		ListByRole(ctx context.Context, role model.Role, limit int) ([]*model.Profile, error)
		CountByRole(ctx context.Context, role model.Role) (int, error)
	}

	SOSResponseRepository interface {
		Create(ctx context.Context, resp *model.SOSResponse) error
		ListForRequest(ctx context.Context, requestID uuid.UUID) ([]*model.SOSResponse, error)
	}
)
