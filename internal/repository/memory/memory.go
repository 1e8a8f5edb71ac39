// Package memory provides in-memory implementations of the repository
// interfaces. They back tests and local development where no Postgres is
// available, honoring the same contracts as the SQL implementations,
// including the conditional status transition.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	apperrors "github.com/bloodlink/bloodlink-api/pkg/errors"
)

// NotificationStore is an in-memory NotificationRepository.
// Err, when set, makes every read fail; tests use it to drive the
// feed's demo fallback path.
type NotificationStore struct {
	mu    sync.RWMutex
	items []*model.NotificationItem
	Err   error
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(_ context.Context, n *model.NotificationItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	n.UpdatedAt = n.CreatedAt
	clone := *n
	s.items = append(s.items, &clone)
	return nil
}

func (s *NotificationStore) ListRecent(_ context.Context, limit int) ([]*model.NotificationItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}
	sorted := make([]*model.NotificationItem, len(s.items))
	copy(sorted, s.items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]*model.NotificationItem, len(sorted))
	for i, n := range sorted {
		clone := *n
		out[i] = &clone
	}
	return out, nil
}

func (s *NotificationStore) MarkRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, n := range s.items {
		if n.ID == id {
			n.Read = true
			n.UpdatedAt = time.Now()
		}
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := time.Now()
	for _, n := range s.items {
		if !n.Read {
			n.Read = true
			n.UpdatedAt = now
		}
	}
	return nil
}

func (s *NotificationStore) SetOutreachStarted(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, n := range s.items {
		if n.ID == id {
			n.OutreachStarted = true
			n.UpdatedAt = time.Now()
		}
	}
	return nil
}

// Get returns the stored copy of one notification, for test assertions
func (s *NotificationStore) Get(id uuid.UUID) *model.NotificationItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.items {
		if n.ID == id {
			clone := *n
			return &clone
		}
	}
	return nil
}

// SOSRequestStore is an in-memory SOSRequestRepository
type SOSRequestStore struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.SOSRequest
}

func NewSOSRequestStore() *SOSRequestStore {
	return &SOSRequestStore{requests: make(map[uuid.UUID]*model.SOSRequest)}
}

func (s *SOSRequestStore) Create(_ context.Context, req *model.SOSRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	req.UpdatedAt = req.CreatedAt
	clone := *req
	s.requests[req.ID] = &clone
	return nil
}

func (s *SOSRequestStore) Get(_ context.Context, id uuid.UUID) (*model.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NotFound("sos request", nil)
	}
	clone := *req
	return &clone, nil
}

func (s *SOSRequestStore) ListActive(_ context.Context, limit int) ([]*model.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var active []*model.SOSRequest
	for _, req := range s.requests {
		if req.Status == model.StatusActive {
			clone := *req
			active = append(active, &clone)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

func (s *SOSRequestStore) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to model.SOSStatus) (*model.SOSRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, apperrors.NotFound("sos request", nil)
	}
	if req.Status != from {
		return nil, apperrors.Conflict("request is no longer "+string(from), nil)
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	clone := *req
	return &clone, nil
}

func (s *SOSRequestStore) CountByStatus(_ context.Context, status model.SOSStatus) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, req := range s.requests {
		if req.Status == status {
			count++
		}
	}
	return count, nil
}

// InventoryStore is an in-memory InventoryRepository
type InventoryStore struct {
	mu    sync.Mutex
	items []*model.InventoryItem
}

func NewInventoryStore() *InventoryStore {
	return &InventoryStore{}
}

func (s *InventoryStore) Create(_ context.Context, item *model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = item.CreatedAt
	clone := *item
	s.items = append(s.items, &clone)
	return nil
}

func (s *InventoryStore) List(_ context.Context, filter repository.InventoryFilter, limit int) ([]*model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*model.InventoryItem
	for _, item := range s.items {
		if !matchesFilter(item, filter) {
			continue
		}
		clone := *item
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func matchesFilter(item *model.InventoryItem, filter repository.InventoryFilter) bool {
	if filter.Status != "" && item.Status != filter.Status {
		return false
	}
	if filter.BloodType != "" && (item.BloodType == nil || *item.BloodType != filter.BloodType) {
		return false
	}
	if filter.OrganType != "" && (item.OrganType == nil || *item.OrganType != filter.OrganType) {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		var haystack []string
		if item.Notes != nil {
			haystack = append(haystack, *item.Notes)
		}
		if item.Provider != nil {
			haystack = append(haystack, item.Provider.FullName)
			if item.Provider.OrganizationName != nil {
				haystack = append(haystack, *item.Provider.OrganizationName)
			}
		}
		found := false
		for _, h := range haystack {
			if strings.Contains(strings.ToLower(h), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *InventoryStore) ListAvailable(_ context.Context, limit int) ([]*model.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var available []*model.InventoryItem
	for _, item := range s.items {
		if item.Status == model.InventoryAvailable {
			clone := *item
			available = append(available, &clone)
		}
	}
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].CreatedAt.After(available[j].CreatedAt)
	})
	if limit > 0 && len(available) > limit {
		available = available[:limit]
	}
	return available, nil
}

func (s *InventoryStore) CountAvailableUnits(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		if item.Status == model.InventoryAvailable {
			total += item.Quantity
		}
	}
	return total, nil
}

func (s *InventoryStore) MarkExpiredBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var marked int64
	for _, item := range s.items {
		if item.Status == model.InventoryAvailable && item.ExpiryDate != nil && item.ExpiryDate.Before(cutoff) {
			item.Status = model.InventoryExpired
			item.UpdatedAt = time.Now()
			marked++
		}
	}
	return marked, nil
}

// ProfileStore is an in-memory ProfileRepository
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]*model.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[uuid.UUID]*model.Profile)}
}

func (s *ProfileStore) Create(_ context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	profile.UpdatedAt = profile.CreatedAt
	clone := *profile
	s.profiles[profile.ID] = &clone
	return nil
}

func (s *ProfileStore) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.NotFound("profile", nil)
	}
	clone := *profile
	return &clone, nil
}

func (s *ProfileStore) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.UserID == userID {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("profile", nil)
}

func (s *ProfileStore) GetByEmail(_ context.Context, email string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, profile := range s.profiles {
		if profile.Email == email {
			clone := *profile
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("profile", nil)
}

func (s *ProfileStore) ListByRole(_ context.Context, role model.Role, limit int) ([]*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Profile
	for _, profile := range s.profiles {
		if profile.Role == role {
			clone := *profile
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ProfileStore) CountByRole(_ context.Context, role model.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, profile := range s.profiles {
		if profile.Role == role {
			count++
		}
	}
	return count, nil
}

// SOSResponseStore is an in-memory SOSResponseRepository
type SOSResponseStore struct {
	mu        sync.Mutex
	responses []*model.SOSResponse
}

func NewSOSResponseStore() *SOSResponseStore {
	return &SOSResponseStore{}
}

func (s *SOSResponseStore) Create(_ context.Context, resp *model.SOSResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp.ID == uuid.Nil {
		resp.ID = uuid.New()
	}
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now()
	}
	clone := *resp
	s.responses = append(s.responses, &clone)
	return nil
}

func (s *SOSResponseStore) ListForRequest(_ context.Context, requestID uuid.UUID) ([]*model.SOSResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.SOSResponse
	for _, resp := range s.responses {
		if resp.RequestID == requestID {
			clone := *resp
			out = append(out, &clone)
		}
	}
	return out, nil
}
