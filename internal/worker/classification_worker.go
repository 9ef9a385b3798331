package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-triage-service/internal/events"
)

// ClassifyJobName labels classification jobs in logs and metrics.
const ClassifyJobName = "classify_ticket"

// Processor runs the triage pipeline for one ticket.
type Processor interface {
	Process(ctx context.Context, ticketID string) error
}

// StartClassificationWorker queues a triage job for every created ticket.
// A rejected job is logged and leaves the ticket pending.
func StartClassificationWorker(dispatcher events.Dispatcher, pool *Pool, processor Processor, logger *zap.Logger) {
	if dispatcher == nil || pool == nil || processor == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, func(_ context.Context, event events.Event) error {
		ticketID := event.TicketID
		err := pool.Submit(Job{
			Name: ClassifyJobName,
			Key:  ticketID,
			Run: func(ctx context.Context) error {
				return processor.Process(ctx, ticketID)
			},
		})
		if err != nil {
			logger.Warn("classification not scheduled", zap.String("ticket_id", ticketID), zap.Error(err))
		}
		return err
	})
}

// StartAuditWorker logs every ticket event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(_ context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("ticket_id", event.TicketID),
			zap.String("actor", event.Actor),
			zap.Any("payload", event.Payload))
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketResolved,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
