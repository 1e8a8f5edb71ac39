// Package feed maintains the in-memory notification feed: a read-through
// cache over the notifications table kept current by an initial bulk fetch,
// optimistic local mutations, and the realtime change channel.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/service/outreach"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

// maxFeedSize caps the initial bulk fetch
const maxFeedSize = 200

// FilterAll selects every category
const FilterAll = "all"

// Controller owns one feed instance. The store stays the source of truth;
// the controller's sequence is a local copy reconciled on every change event.
type Controller struct {
	repo    repository.NotificationRepository
	broker  messaging.Broker
	planner outreach.DonorPlanner
	router  outreach.RoutePlanner
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu       sync.RWMutex
	items    []*model.NotificationItem
	selected uuid.UUID
	cancel   context.CancelFunc
}

func NewController(
	repo repository.NotificationRepository,
	broker messaging.Broker,
	planner outreach.DonorPlanner,
	router outreach.RoutePlanner,
	logger *logger.Logger,
	m *metrics.Metrics,
) *Controller {
	return &Controller{
		repo:    repo,
		broker:  broker,
		planner: planner,
		router:  router,
		logger:  logger,
		metrics: m,
	}
}

// Load fetches the newest notifications and replaces the local sequence.
// An empty result or a fetch failure falls back to the fixed demo dataset
// with the first item selected, so the feed is never blank.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.repo.ListRecent(ctx, maxFeedSize)
	source := "store"
	if err != nil {
		c.logger.Error(err, "feed load failed, serving demo dataset")
		items = nil
	}
	if len(items) == 0 {
		items = DemoNotifications(time.Now())
		source = "demo"
	}
	if c.metrics != nil {
		c.metrics.FeedLoads.WithLabelValues(source).Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.selected = items[0].ID
	return nil
}

// Items returns a copy of the local sequence in order
func (c *Controller) Items() []*model.NotificationItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() []*model.NotificationItem {
	out := make([]*model.NotificationItem, len(c.items))
	for i, n := range c.items {
		clone := *n
		out[i] = &clone
	}
	return out
}

// Select sets the active notification without touching read state
func (c *Controller) Select(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = id
}

// Selected returns the active notification, falling back to the first item
// when the selection no longer resolves
func (c *Controller) Selected() *model.NotificationItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, n := range c.items {
		if n.ID == c.selected {
			clone := *n
			return &clone
		}
	}
	if len(c.items) > 0 {
		clone := *c.items[0]
		return &clone
	}
	return nil
}

// Filter returns the subsequence matching the category, preserving order.
// FilterAll returns the whole sequence unchanged. Pure projection, no store
// interaction.
func (c *Controller) Filter(filter string) []*model.NotificationItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if filter == FilterAll {
		return c.snapshotLocked()
	}
	var out []*model.NotificationItem
	for _, n := range c.items {
		if string(n.Type) == filter {
			clone := *n
			out = append(out, &clone)
		}
	}
	return out
}

// Counts maps each of the six fixed categories to the number of local items
// in it. Unrecognized type values are silently excluded.
func (c *Controller) Counts() map[model.NotificationType]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := make(map[model.NotificationType]int, len(model.NotificationTypes))
	for _, t := range model.NotificationTypes {
		counts[t] = 0
	}
	for _, n := range c.items {
		if n.Type.Valid() {
			counts[n.Type]++
		}
	}
	return counts
}

// MarkRead writes the read flag to the store and flips the local copy for
// that id only. Idempotent. The local flip is optimistic and is not rolled
// back when the store write fails; the failure is logged and returned.
func (c *Controller) MarkRead(ctx context.Context, id uuid.UUID) error {
	err := c.repo.MarkRead(ctx, id)
	if err != nil {
		c.logger.Error(err, "mark read failed", "id", id.String())
	}

	c.mu.Lock()
	for _, n := range c.items {
		if n.ID == id {
			n.Read = true
		}
	}
	c.mu.Unlock()
	return err
}

// MarkAllRead performs the store-side bulk update and optimistically flips
// every local item in the same operation. The local view never flips
// partially: all items change regardless of the write outcome.
func (c *Controller) MarkAllRead(ctx context.Context) error {
	c.mu.Lock()
	for _, n := range c.items {
		n.Read = true
	}
	c.mu.Unlock()

	if err := c.repo.MarkAllRead(ctx); err != nil {
		c.logger.Error(err, "mark all read failed")
		return err
	}
	return nil
}

// TriggerOutreach marks the notification read locally, then runs the two
// sequential dispatch calls (donor outreach, then route planning), then
// persists the outreach_started flag. A planner failure aborts the workflow
// and propagates: a failed emergency dispatch must never be swallowed.
func (c *Controller) TriggerOutreach(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	var target *model.NotificationItem
	for _, n := range c.items {
		if n.ID == id {
			n.Read = true
			clone := *n
			target = &clone
			break
		}
	}
	c.mu.Unlock()

	if target == nil {
		return fmt.Errorf("notification %s not in feed", id)
	}

	if err := c.planner.InitiateOutreach(ctx, target); err != nil {
		c.logger.Error(err, "donor outreach dispatch failed", "id", id.String())
		if c.metrics != nil {
			c.metrics.OutreachDispatch.WithLabelValues("failed").Inc()
		}
		return fmt.Errorf("donor outreach dispatch: %w", err)
	}
	if err := c.router.PlanRoutes(ctx, target); err != nil {
		c.logger.Error(err, "route planning dispatch failed", "id", id.String())
		if c.metrics != nil {
			c.metrics.OutreachDispatch.WithLabelValues("failed").Inc()
		}
		return fmt.Errorf("route planning dispatch: %w", err)
	}

	if err := c.repo.SetOutreachStarted(ctx, id); err != nil {
		c.logger.Error(err, "failed to persist outreach flag", "id", id.String())
		return err
	}

	c.mu.Lock()
	for _, n := range c.items {
		if n.ID == id {
			n.OutreachStarted = true
		}
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.OutreachDispatch.WithLabelValues("ok").Inc()
	}
	return nil
}

// Start subscribes the realtime channel and applies change events until the
// controller is closed. One subscription per controller instance.
func (c *Controller) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	ch, err := c.broker.Subscribe(ctx, messaging.ChannelNotifications)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe notification channel: %w", err)
	}

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		for payload := range ch {
			var event messaging.ChangeEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				c.logger.Error(err, "malformed change event on notification channel")
				continue
			}
			c.Apply(&event)
		}
	}()
	return nil
}

// Close releases the realtime subscription
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Apply reconciles one change event into the local sequence. Inserts prepend;
// an insert whose id is already present merges in place instead (dedup when
// the initial fetch races the push). Updates shallow-merge by id preserving
// position, and are discarded when older than the local copy.
func (c *Controller) Apply(event *messaging.ChangeEvent) {
	var row model.NotificationItem
	if err := json.Unmarshal(event.Row, &row); err != nil {
		c.logger.Error(err, "change event row does not decode as notification")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.FeedChangeEvents.WithLabelValues(string(event.Op)).Inc()
	}

	switch event.Op {
	case messaging.OpInsert:
		for i, n := range c.items {
			if n.ID == row.ID {
				c.mergeLocked(i, &row)
				return
			}
		}
		clone := row
		c.items = append([]*model.NotificationItem{&clone}, c.items...)
	case messaging.OpUpdate:
		for i, n := range c.items {
			if n.ID == row.ID {
				if row.UpdatedAt.Before(n.UpdatedAt) {
					if c.metrics != nil {
						c.metrics.FeedStaleDiscards.Inc()
					}
					return
				}
				c.mergeLocked(i, &row)
				return
			}
		}
	default:
		c.logger.Warn("unrecognized change op", "op", string(event.Op))
	}
}

func (c *Controller) mergeLocked(i int, row *model.NotificationItem) {
	clone := *row
	c.items[i] = &clone
}
