package feed

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository/memory"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	brokermem "github.com/bloodlink/bloodlink-api/pkg/messaging/memory"
)

type fakePlanner struct {
	calls []string
	err   error
}

func (p *fakePlanner) InitiateOutreach(_ context.Context, n *model.NotificationItem) error {
	p.calls = append(p.calls, "outreach:"+n.ID.String())
	return p.err
}

func (p *fakePlanner) PlanRoutes(_ context.Context, n *model.NotificationItem) error {
	p.calls = append(p.calls, "routes:"+n.ID.String())
	return p.err
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func newTestController(store *memory.NotificationStore) (*Controller, *fakePlanner, *fakePlanner, *brokermem.Broker) {
	broker := brokermem.NewBroker()
	planner := &fakePlanner{}
	router := &fakePlanner{}
	c := NewController(store, broker, planner, router, testLogger(), nil)
	return c, planner, router, broker
}

func seedNotifications(t *testing.T, store *memory.NotificationStore, n int) []*model.NotificationItem {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	items := make([]*model.NotificationItem, n)
	for i := 0; i < n; i++ {
		item := &model.NotificationItem{
			Type:      model.TypeBloodRequest,
			Title:     "Request",
			Body:      "body",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.Create(context.Background(), item))
		items[i] = item
	}
	return items
}

func TestLoadServesStoreNewestFirst(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 3)
	c, _, _, _ := newTestController(store)

	require.NoError(t, c.Load(context.Background()))

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, seeded[2].ID, items[0].ID)
	assert.Equal(t, seeded[0].ID, items[2].ID)

	// First item auto-selected
	require.NotNil(t, c.Selected())
	assert.Equal(t, seeded[2].ID, c.Selected().ID)
}

func TestLoadFallsBackToDemoOnStoreFailure(t *testing.T) {
	store := memory.NewNotificationStore()
	store.Err = errors.New("connection refused")
	c, _, _, _ := newTestController(store)

	require.NoError(t, c.Load(context.Background()))

	items := c.Items()
	require.Len(t, items, 6)
	assert.Equal(t, "Urgent O- Blood Needed", items[0].Title)
	assert.Equal(t, items[0].ID, c.Selected().ID)

	// The thank-you entry ships pre-read; everything else unread
	var read int
	for _, n := range items {
		if n.Read {
			read++
			assert.Equal(t, model.TypeThankYou, n.Type)
		}
	}
	assert.Equal(t, 1, read)

	counts := c.Counts()
	for _, ft := range model.NotificationTypes {
		assert.Equal(t, 1, counts[ft], "type %s", ft)
	}
}

func TestLoadFallsBackToDemoWhenStoreEmpty(t *testing.T) {
	store := memory.NewNotificationStore()
	c, _, _, _ := newTestController(store)

	require.NoError(t, c.Load(context.Background()))
	assert.Len(t, c.Items(), 6)
}

func TestFilterIsPureProjection(t *testing.T) {
	store := memory.NewNotificationStore()
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background())) // demo dataset

	all := c.Filter(FilterAll)
	assert.Len(t, all, 6)

	drives := c.Filter(string(model.TypeBloodDrive))
	require.Len(t, drives, 1)
	assert.Equal(t, model.TypeBloodDrive, drives[0].Type)

	assert.Empty(t, c.Filter("promo"))

	// Filtering never mutates the sequence
	assert.Len(t, c.Items(), 6)
}

func TestCountsExcludeUnknownTypes(t *testing.T) {
	store := memory.NewNotificationStore()
	require.NoError(t, store.Create(context.Background(), &model.NotificationItem{
		Type: model.TypeReminder, Title: "t", Body: "b",
	}))
	require.NoError(t, store.Create(context.Background(), &model.NotificationItem{
		Type: model.NotificationType("promo"), Title: "t", Body: "b",
	}))
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	counts := c.Counts()
	assert.Len(t, counts, len(model.NotificationTypes))
	assert.Equal(t, 1, counts[model.TypeReminder])

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, 1, total)
}

func TestMarkReadFlipsOneItem(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 2)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.MarkRead(context.Background(), seeded[0].ID))

	for _, n := range c.Items() {
		assert.Equal(t, n.ID == seeded[0].ID, n.Read)
	}
	assert.True(t, store.Get(seeded[0].ID).Read)

	// Idempotent
	require.NoError(t, c.MarkRead(context.Background(), seeded[0].ID))
}

func TestMarkReadKeepsLocalFlipOnStoreFailure(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 1)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	store.Err = errors.New("write failed")
	err := c.MarkRead(context.Background(), seeded[0].ID)
	assert.Error(t, err)

	// Local state stays flipped; the store reconverges via realtime later
	assert.True(t, c.Items()[0].Read)
}

func TestMarkAllReadFlipsEverything(t *testing.T) {
	store := memory.NewNotificationStore()
	seedNotifications(t, store, 4)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.MarkAllRead(context.Background()))
	for _, n := range c.Items() {
		assert.True(t, n.Read)
	}
}

func TestApplyInsertPrepends(t *testing.T) {
	store := memory.NewNotificationStore()
	seedNotifications(t, store, 2)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	row := &model.NotificationItem{
		ID:        uuid.New(),
		Type:      model.TypeEligibility,
		Title:     "fresh",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	event, err := messaging.NewChangeEvent(messaging.OpInsert, "notifications", row)
	require.NoError(t, err)
	c.Apply(event)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, row.ID, items[0].ID)
}

func TestApplyInsertDeduplicatesByID(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 2)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	// The same row arrives over realtime after the bulk fetch already has it
	dup := *seeded[1]
	dup.Title = "merged"
	event, err := messaging.NewChangeEvent(messaging.OpInsert, "notifications", &dup)
	require.NoError(t, err)
	c.Apply(event)

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, seeded[1].ID, items[0].ID)
	assert.Equal(t, "merged", items[0].Title)
}

func TestApplyUpdateMergesInPlace(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 3)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	updated := *seeded[0]
	updated.Read = true
	updated.UpdatedAt = time.Now().Add(time.Minute)
	event, err := messaging.NewChangeEvent(messaging.OpUpdate, "notifications", &updated)
	require.NoError(t, err)
	c.Apply(event)

	items := c.Items()
	require.Len(t, items, 3)
	// Position preserved: seeded[0] is the oldest, so still last
	assert.Equal(t, seeded[0].ID, items[2].ID)
	assert.True(t, items[2].Read)
}

func TestApplyUpdateDiscardsStaleEvents(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 1)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	require.NoError(t, c.MarkRead(context.Background(), seeded[0].ID))

	stale := *seeded[0]
	stale.Read = false
	stale.UpdatedAt = seeded[0].UpdatedAt.Add(-time.Hour)
	event, err := messaging.NewChangeEvent(messaging.OpUpdate, "notifications", &stale)
	require.NoError(t, err)
	c.Apply(event)

	assert.True(t, c.Items()[0].Read, "stale event must not regress local state")
}

func TestApplyUpdateForUnknownIDIsNoop(t *testing.T) {
	store := memory.NewNotificationStore()
	seedNotifications(t, store, 1)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	row := &model.NotificationItem{ID: uuid.New(), UpdatedAt: time.Now()}
	event, err := messaging.NewChangeEvent(messaging.OpUpdate, "notifications", row)
	require.NoError(t, err)
	c.Apply(event)

	assert.Len(t, c.Items(), 1)
}

func TestSelectionFallsBackToFirst(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 2)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	c.Select(uuid.New()) // id not in the feed
	require.NotNil(t, c.Selected())
	assert.Equal(t, seeded[1].ID, c.Selected().ID)
}

func TestTriggerOutreachRunsBothDispatches(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 1)
	c, planner, router, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	id := seeded[0].ID
	require.NoError(t, c.TriggerOutreach(context.Background(), id))

	require.Len(t, planner.calls, 1)
	assert.Equal(t, "outreach:"+id.String(), planner.calls[0])
	require.Len(t, router.calls, 1)
	assert.Equal(t, "routes:"+id.String(), router.calls[0])

	item := c.Items()[0]
	assert.True(t, item.Read)
	assert.True(t, item.OutreachStarted)
	assert.True(t, store.Get(id).OutreachStarted)
}

func TestTriggerOutreachPropagatesDispatchFailure(t *testing.T) {
	store := memory.NewNotificationStore()
	seeded := seedNotifications(t, store, 1)
	c, planner, router, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	planner.err = errors.New("dispatch down")
	err := c.TriggerOutreach(context.Background(), seeded[0].ID)
	require.Error(t, err)

	// Route planning never runs after a failed outreach dispatch
	assert.Empty(t, router.calls)
	assert.False(t, c.Items()[0].OutreachStarted)
}

func TestTriggerOutreachUnknownID(t *testing.T) {
	store := memory.NewNotificationStore()
	seedNotifications(t, store, 1)
	c, _, _, _ := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	assert.Error(t, c.TriggerOutreach(context.Background(), uuid.New()))
}

func TestStartAppliesRealtimeEvents(t *testing.T) {
	store := memory.NewNotificationStore()
	seedNotifications(t, store, 1)
	c, _, _, broker := newTestController(store)
	require.NoError(t, c.Load(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))
	defer c.Close()

	row := &model.NotificationItem{
		ID:        uuid.New(),
		Type:      model.TypeReward,
		Title:     "pushed",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	event, err := messaging.NewChangeEvent(messaging.OpInsert, "notifications", row)
	require.NoError(t, err)
	require.NoError(t, broker.Publish(ctx, messaging.ChannelNotifications, event))

	assert.Eventually(t, func() bool {
		items := c.Items()
		return len(items) == 2 && items[0].ID == row.ID
	}, time.Second, 10*time.Millisecond)
}
