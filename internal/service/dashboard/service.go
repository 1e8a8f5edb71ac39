// Package dashboard composes the role-specific read model: active SOS
// requests, available inventory, and the aggregate counters. It is a pure
// read layer over the repositories; nothing here mutates state.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
)

const (
	sosLimit       = 5
	inventoryLimit = 10

	statsCacheKey = "dashboard_stats"
	statsCacheTTL = 30 * time.Second
)

type Service struct {
	profiles  repository.ProfileRepository
	sos       repository.SOSRequestRepository
	inventory repository.InventoryRepository
	logger    *logger.Logger
	cache     *gocache.Cache

	// ResponsesLastMonth is supplied externally, not derived from the store
	responsesLastMonth int
}

func NewService(
	profiles repository.ProfileRepository,
	sos repository.SOSRequestRepository,
	inventory repository.InventoryRepository,
	logger *logger.Logger,
	responsesLastMonth int,
) *Service {
	return &Service{
		profiles:           profiles,
		sos:                sos,
		inventory:          inventory,
		logger:             logger,
		cache:              gocache.New(statsCacheTTL, 2*statsCacheTTL),
		responsesLastMonth: responsesLastMonth,
	}
}

// Compose builds the dashboard for one viewer. The four section fetches run
// concurrently and independently: there is no join barrier, and a failed
// section logs and stays zeroed while the rest of the view still fills.
func (s *Service) Compose(ctx context.Context, userID uuid.UUID) *model.DashboardView {
	view := &model.DashboardView{}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		profile, err := s.profiles.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Error(err, "dashboard role fetch failed", "user_id", userID.String())
			return
		}
		view.Role = profile.Role
	}()

	go func() {
		defer wg.Done()
		requests, err := s.sos.ListActive(ctx, sosLimit)
		if err != nil {
			s.logger.Error(err, "dashboard sos fetch failed")
			return
		}
		view.SOS = requests
	}()

	go func() {
		defer wg.Done()
		items, err := s.inventory.ListAvailable(ctx, inventoryLimit)
		if err != nil {
			s.logger.Error(err, "dashboard inventory fetch failed")
			return
		}
		view.Inventory = items
	}()

	go func() {
		defer wg.Done()
		view.Stats = s.stats(ctx)
	}()

	wg.Wait()
	view.View = model.ViewFor(view.Role)
	return view
}

// stats returns the four aggregate counters, served from a short-lived cache.
// Each counter fetch fails independently and leaves its field zeroed.
func (s *Service) stats(ctx context.Context) model.DashboardStats {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(model.DashboardStats)
	}

	stats := model.DashboardStats{ResponsesLastMonth: s.responsesLastMonth}

	if donors, err := s.profiles.CountByRole(ctx, model.RoleDonor); err != nil {
		s.logger.Error(err, "donor count failed")
	} else {
		stats.TotalDonors = donors
	}

	if active, err := s.sos.CountByStatus(ctx, model.StatusActive); err != nil {
		s.logger.Error(err, "active sos count failed")
	} else {
		stats.ActiveSOSRequests = active
	}

	if units, err := s.inventory.CountAvailableUnits(ctx); err != nil {
		s.logger.Error(err, "available unit count failed")
	} else {
		stats.AvailableUnits = units
	}

	s.cache.Set(statsCacheKey, stats, gocache.DefaultExpiration)
	return stats
}
