// Package outreach defines the two emergency dispatch collaborators invoked
// when an operator triggers SOS outreach from the feed: donor outreach
// (identify and contact eligible donors) and route planning (compute donor
// travel routes). Both are fire-and-forget from the feed's point of view;
// the broker-backed implementations hand work to the outreach worker.
package outreach

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
)

// DonorPlanner initiates donor outreach for a blood request notification
type DonorPlanner interface {
	InitiateOutreach(ctx context.Context, n *model.NotificationItem) error
}

// RoutePlanner plans donor travel routes for a blood request notification
type RoutePlanner interface {
	PlanRoutes(ctx context.Context, n *model.NotificationItem) error
}

// DispatchKind labels the two outreach work items on the wire
type DispatchKind string

const (
	DispatchOutreach DispatchKind = "donor_outreach"
	DispatchRouting  DispatchKind = "route_planning"
)

// Dispatch is the payload published to the outreach channel
type Dispatch struct {
	Kind           DispatchKind  `json:"kind"`
	NotificationID string        `json:"notification_id"`
	Title          string        `json:"title"`
	Meta           model.JSONMap `json:"meta,omitempty"`
	RequestedAt    time.Time     `json:"requested_at"`
}

type brokerPlanner struct {
	broker messaging.Broker
}

// NewBrokerPlanner returns a planner that publishes dispatch work to the
// outreach channel for the worker to pick up. It serves both planner roles.
func NewBrokerPlanner(broker messaging.Broker) interface {
	DonorPlanner
	RoutePlanner
} {
	return &brokerPlanner{broker: broker}
}

func (p *brokerPlanner) InitiateOutreach(ctx context.Context, n *model.NotificationItem) error {
	return p.publish(ctx, DispatchOutreach, n)
}

func (p *brokerPlanner) PlanRoutes(ctx context.Context, n *model.NotificationItem) error {
	return p.publish(ctx, DispatchRouting, n)
}

func (p *brokerPlanner) publish(ctx context.Context, kind DispatchKind, n *model.NotificationItem) error {
	return p.broker.Publish(ctx, messaging.ChannelOutreach, &Dispatch{
		Kind:           kind,
		NotificationID: n.ID.String(),
		Title:          n.Title,
		Meta:           n.Meta,
		RequestedAt:    time.Now(),
	})
}
