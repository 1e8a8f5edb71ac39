package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
)

func (r *inventoryRepository) Create(ctx context.Context, item *model.InventoryItem) error {
	query := `
		INSERT INTO inventory (
			id, provider_id, blood_type, organ_type, quantity, status,
			collection_date, expiry_date, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	item.ID = uuid.New()
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.ProviderID,
		item.BloodType,
		item.OrganType,
		item.Quantity,
		item.Status,
		item.CollectionDate,
		item.ExpiryDate,
		item.Notes,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

// inventoryRow carries the inventory columns plus the joined provider profile
type inventoryRow struct {
	model.InventoryItem
	ProviderFullName         string  `db:"provider_full_name"`
	ProviderOrganizationName *string `db:"provider_organization_name"`
	ProviderPhone            *string `db:"provider_phone"`
	ProviderAddress          *string `db:"provider_address"`
}

func (r *inventoryRepository) List(ctx context.Context, filter repository.InventoryFilter, limit int) ([]*model.InventoryItem, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.BloodType != "" {
		args = append(args, filter.BloodType)
		conditions = append(conditions, fmt.Sprintf("i.blood_type = $%d", len(args)))
	}
	if filter.OrganType != "" {
		args = append(args, filter.OrganType)
		conditions = append(conditions, fmt.Sprintf("i.organ_type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(p.full_name ILIKE $%d OR p.organization_name ILIKE $%d OR i.notes ILIKE $%d)",
			len(args), len(args), len(args)))
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT i.id, i.provider_id, i.blood_type, i.organ_type, i.quantity,
			   i.status, i.collection_date, i.expiry_date, i.notes,
			   i.created_at, i.updated_at,
			   p.full_name AS provider_full_name,
			   p.organization_name AS provider_organization_name,
			   p.phone AS provider_phone,
			   p.address AS provider_address
		FROM inventory i
		JOIN profiles p ON p.id = i.provider_id
		WHERE %s
		ORDER BY i.created_at DESC
		LIMIT $%d
	`, strings.Join(conditions, " AND "), len(args))

	var rows []inventoryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return attachProviders(rows), nil
}

func (r *inventoryRepository) ListAvailable(ctx context.Context, limit int) ([]*model.InventoryItem, error) {
	query := `
		SELECT i.id, i.provider_id, i.blood_type, i.organ_type, i.quantity,
			   i.status, i.collection_date, i.expiry_date, i.notes,
			   i.created_at, i.updated_at,
			   p.full_name AS provider_full_name,
			   p.organization_name AS provider_organization_name,
			   p.phone AS provider_phone,
			   p.address AS provider_address
		FROM inventory i
		JOIN profiles p ON p.id = i.provider_id
		WHERE i.status = $1
		ORDER BY i.created_at DESC
		LIMIT $2
	`
	var rows []inventoryRow
	if err := r.db.SelectContext(ctx, &rows, query, model.InventoryAvailable, limit); err != nil {
		return nil, fmt.Errorf("failed to list available inventory: %w", err)
	}
	return attachProviders(rows), nil
}

func attachProviders(rows []inventoryRow) []*model.InventoryItem {
	items := make([]*model.InventoryItem, 0, len(rows))
	for i := range rows {
		item := rows[i].InventoryItem
		item.Provider = &model.ProviderInfo{
			FullName:         rows[i].ProviderFullName,
			OrganizationName: rows[i].ProviderOrganizationName,
			Phone:            rows[i].ProviderPhone,
			Address:          rows[i].ProviderAddress,
		}
		items = append(items, &item)
	}
	return items
}

func (r *inventoryRepository) CountAvailableUnits(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE status = $1`
	if err := r.db.GetContext(ctx, &count, query, model.InventoryAvailable); err != nil {
		return 0, fmt.Errorf("failed to count available units: %w", err)
	}
	return count, nil
}

// MarkExpiredBefore flips available rows whose expiry date has passed
func (r *inventoryRepository) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE inventory
		SET status = $1, updated_at = $2
		WHERE status = $3 AND expiry_date IS NOT NULL AND expiry_date < $4
	`
	result, err := r.db.ExecContext(ctx, query, model.InventoryExpired, time.Now(), model.InventoryAvailable, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired inventory: %w", err)
	}
	return result.RowsAffected()
}
